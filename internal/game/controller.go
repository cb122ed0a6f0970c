package game

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/tomz197/metalsnake/internal/grid"
	"github.com/tomz197/metalsnake/internal/object"
	"golang.org/x/exp/rand"
)

// Phase is the round state machine: Idle -> Running <-> Paused -> Ended.
type Phase int

const (
	PhaseIdle    Phase = iota // Round set up, waiting for Start
	PhaseRunning              // Steps are simulated
	PhasePaused               // Steps are ignored until Resume
	PhaseEnded                // Snake died, waiting for Reset
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	case PhaseEnded:
		return "ended"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// obstacleClearance keeps the cells right in front of a new snake free.
const obstacleClearance = 3

// Option customises a Controller.
type Option func(*Controller)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithListener adds an event listener.
func WithListener(l Listener) Option {
	return func(c *Controller) {
		if l != nil {
			c.listeners = append(c.listeners, l)
		}
	}
}

// WithReporter sets where finished rounds are recorded.
func WithReporter(r Reporter) Option {
	return func(c *Controller) {
		c.reporter = r
	}
}

// WithPlayer sets the name recorded with finished rounds.
func WithPlayer(name string) Option {
	return func(c *Controller) {
		c.player = PlayerName(name)
	}
}

// WithClock replaces time.Now for round timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// Controller owns all round state and advances it one step per Advance call.
// It is not safe for concurrent use; callers drive it from a single goroutine.
type Controller struct {
	cfg       Config
	grid      grid.Grid
	rng       *rand.Rand
	placer    *grid.Placer
	logger    *log.Logger
	listeners []Listener
	reporter  Reporter
	player    string
	now       func() time.Time

	phase     Phase
	mode      Mode
	roundID   uuid.UUID
	snake     *object.Snake
	food      grid.Cell
	obstacles object.Obstacles
	powerUps  *PowerUps
	effects   *Effects
	combo     *Combo
	score     int
	level     int
	steps     uint64
	acc       time.Duration
	cause     object.DeathCause
	reported  bool
	events    []Event
}

// NewController validates and copies cfg and sets up the first round in the
// Idle phase. Later changes to cfg do not affect the controller.
func NewController(cfg Config, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new controller: %w", err)
	}
	cfg = cfg.Clone()

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewSource(seed))

	c := &Controller{
		cfg:    cfg,
		grid:   cfg.Grid(),
		rng:    rng,
		placer: grid.NewPlacer(cfg.Grid(), rng, cfg.MaxPlacementAttempts),
		logger: log.New(io.Discard),
		player: DefaultPlayerName,
		now:    time.Now,
		mode:   cfg.Mode,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("seed", seed)
	c.newRound()
	return c, nil
}

// newRound discards the current round and prepares a fresh one.
func (c *Controller) newRound() {
	c.phase = PhaseIdle
	c.roundID = uuid.New()
	c.snake = object.NewSnake(c.grid.Center(), c.cfg.InitialLength, grid.Right)
	c.effects = NewEffects(c.snake, c.cfg.BaseSpeed)
	c.combo = NewCombo(c.cfg.ComboDecayTime)
	c.powerUps = NewPowerUps(c.cfg, c.rng, c.placer)
	c.score = 0
	c.level = 0
	c.steps = 0
	c.acc = 0
	c.cause = object.CauseNone
	c.reported = false
	c.events = nil

	c.obstacles = object.Obstacles{}
	if c.mode == ModeObstacles {
		c.obstacles = object.GenerateObstacles(c.placer, c.cfg.ObstacleCount,
			grid.AnyOf(grid.Occupied(c.snake.Body), c.startLane()))
		if c.obstacles.Len() < c.cfg.ObstacleCount {
			c.logger.Debug("placed fewer obstacles than requested", "placed", c.obstacles.Len(), "want", c.cfg.ObstacleCount)
		}
	}
	c.food = c.placeFood()
	c.logger.Debug("round ready", "round", c.roundID, "mode", c.mode, "obstacles", c.obstacles.Len())
}

// startLane matches the cells the snake reaches in its first few moves.
func (c *Controller) startLane() grid.Predicate {
	lane := make([]grid.Cell, 0, obstacleClearance)
	cell := c.snake.Head()
	for range obstacleClearance {
		cell = cell.Step(c.snake.Direction())
		lane = append(lane, cell)
	}
	return grid.Occupied(lane)
}

// Start begins the round. Only valid while Idle.
func (c *Controller) Start() {
	if c.phase != PhaseIdle {
		return
	}
	c.phase = PhaseRunning
	c.logger.Info("round started", "round", c.roundID, "mode", c.mode, "player", c.player)
}

// Pause suspends a running round.
func (c *Controller) Pause() {
	if c.phase == PhaseRunning {
		c.phase = PhasePaused
	}
}

// Resume continues a paused round.
func (c *Controller) Resume() {
	if c.phase == PhasePaused {
		c.phase = PhaseRunning
	}
}

// TogglePause flips between Running and Paused.
func (c *Controller) TogglePause() {
	switch c.phase {
	case PhaseRunning:
		c.Pause()
	case PhasePaused:
		c.Resume()
	}
}

// Reset abandons the current round and sets up a new one in the Idle phase.
// An abandoned round is not reported.
func (c *Controller) Reset() {
	c.newRound()
}

// SetMode switches the ruleset. Only valid while no round is in progress;
// the round is rebuilt for the new mode.
func (c *Controller) SetMode(m Mode) {
	if !m.Valid() || c.phase == PhaseRunning || c.phase == PhasePaused {
		return
	}
	c.mode = m
	c.newRound()
}

// ToggleObstacles switches between classic and obstacle mode.
func (c *Controller) ToggleObstacles() {
	if c.mode == ModeObstacles {
		c.SetMode(ModeClassic)
		return
	}
	c.SetMode(ModeObstacles)
}

// SetDirection requests a turn for the next move. Reversals and requests
// outside a running round are ignored.
func (c *Controller) SetDirection(d grid.Direction) bool {
	if c.phase != PhaseRunning {
		return false
	}
	return c.snake.SetDirection(d)
}

// Advance simulates one step covering dt of wall-clock time and returns the
// events it produced in order. Listeners have already seen them on return.
// Outside the Running phase it does nothing.
func (c *Controller) Advance(dt time.Duration) []Event {
	if c.phase != PhaseRunning {
		return nil
	}
	c.steps++

	if c.combo.Update() {
		c.emit(Event{Kind: EventComboLost})
	}
	for _, k := range c.powerUps.Expire(c.effects) {
		c.emit(Event{Kind: EventPowerUpExpired, PowerUp: k, Speed: c.effects.Speed()})
		c.logger.Debug("power-up expired", "kind", k, "speed", c.effects.Speed())
	}
	if p, ok := c.powerUps.Spawn(c.spawnExclusions()); ok {
		c.emit(Event{Kind: EventPowerUpSpawned, PowerUp: p.Kind, Cell: p.Position})
		c.logger.Debug("power-up spawned", "kind", p.Kind, "cell", p.Position)
	}
	c.snake.UpdateSize()

	c.acc += dt
	if interval := c.MoveInterval(); c.acc >= interval {
		c.acc -= interval
		if c.acc >= interval {
			// Too far behind, drop the backlog instead of moving twice
			c.acc = 0
		}
		c.move()
	}

	if c.phase == PhaseRunning && c.effects.MagnetActive {
		if food, moved := DriftFood(c.food, c.snake.Head(), c.foodExclusions(true)); moved {
			c.food = food
		}
	}

	events := c.events
	c.events = nil
	for _, e := range events {
		for _, l := range c.listeners {
			l.OnEvent(e)
		}
	}
	return events
}

// MoveInterval is the time between moves at the current speed.
func (c *Controller) MoveInterval() time.Duration {
	return time.Duration(float64(time.Second) / c.effects.Speed())
}

func (c *Controller) move() {
	res := c.snake.Move(c.grid, c.food, c.obstacles.Contains)
	if res.Dead {
		c.end(res.Cause)
		return
	}
	c.emit(Event{Kind: EventMoved, Cell: res.Head, Speed: c.effects.Speed(), Length: c.snake.Len()})

	if res.Grew {
		c.eat(res.Head)
	}
	if p, refreshed, ok := c.powerUps.Collect(res.Head, c.effects); ok {
		points := c.cfg.PowerUpBonus * c.effects.ScoreMultiplier
		c.score += points
		c.emit(Event{Kind: EventPowerUpCollected, PowerUp: p.Kind, Cell: p.Position, Refreshed: refreshed, Points: points, Speed: c.effects.Speed()})
		c.logger.Debug("power-up collected", "kind", p.Kind, "refreshed", refreshed, "score", c.score)
		c.updateLevel()
	}
}

func (c *Controller) eat(head grid.Cell) {
	comboMult := c.combo.Increment()
	points := int(math.Round(c.obstacleFactor() * float64(c.effects.ScoreMultiplier) * comboMult))
	c.score += points
	c.emit(Event{Kind: EventFoodEaten, Cell: head, Points: points, Combo: c.combo.Count(), Length: c.snake.Len()})
	c.emit(Event{Kind: EventComboIncrease, Combo: c.combo.Count()})
	c.food = c.placeFood()
	c.updateLevel()
}

func (c *Controller) obstacleFactor() float64 {
	if c.mode == ModeObstacles {
		return float64(1 + c.cfg.ObstacleBonus)
	}
	return 1
}

// updateLevel raises the level speed once the score crosses a threshold.
func (c *Controller) updateLevel() {
	if c.cfg.ScoreThreshold <= 0 {
		return
	}
	level := c.score / c.cfg.ScoreThreshold
	if level <= c.level {
		return
	}
	c.level = level
	c.effects.SetLevelSpeed(c.LevelSpeed(level))
	c.emit(Event{Kind: EventLevelUp, Level: level, Speed: c.effects.Speed()})
	c.logger.Info("level up", "level", level, "speed", c.effects.Speed())
}

// LevelSpeed returns the unmodified speed for level.
func (c *Controller) LevelSpeed(level int) float64 {
	return min(c.cfg.MaxSpeed, c.cfg.BaseSpeed+float64(level)*c.cfg.SpeedIncrement)
}

// placeFood picks a free cell for food, near the head while the magnet is on.
func (c *Controller) placeFood() grid.Cell {
	excl := c.foodExclusions(c.cfg.FoodAvoidsPowerUps)
	if c.effects.MagnetActive {
		if cell, ok := c.placer.FindValidRandomCellNear(c.snake.Head(), c.cfg.MagnetSpawnRadius, excl); ok {
			return cell
		}
	}
	cell, ok := c.placer.FindValidRandomCell(excl)
	if !ok {
		c.logger.Debug("no free cell for food, using fallback", "cell", cell)
	}
	return cell
}

func (c *Controller) foodExclusions(avoidPickups bool) grid.Predicate {
	var pickups grid.Predicate
	if avoidPickups {
		pickups = c.powerUps.Occupied()
	}
	return grid.AnyOf(grid.Occupied(c.snake.Body), c.obstacles.Contains, pickups)
}

func (c *Controller) spawnExclusions() grid.Predicate {
	return grid.AnyOf(grid.Occupied(c.snake.Body), c.obstacles.Contains, grid.At(c.food))
}

func (c *Controller) end(cause object.DeathCause) {
	c.phase = PhaseEnded
	c.cause = cause
	c.emit(Event{Kind: EventDeath, Cause: cause, Cell: c.snake.Head(), Length: c.snake.Len(), Level: c.level})
	c.logger.Info("round over", "round", c.roundID, "score", c.score, "mode", c.mode, "cause", cause)
	c.report()
}

// report hands the result to the reporter exactly once per round.
func (c *Controller) report() {
	if c.reported {
		return
	}
	c.reported = true
	if c.reporter == nil {
		return
	}
	res := c.Result()
	if err := c.reporter.RecordRound(res); err != nil {
		c.logger.Error("recording round", "err", err, "score", res.Score)
	}
}

func (c *Controller) emit(e Event) {
	e.Step = c.steps
	e.Mode = c.mode
	e.Score = c.score
	c.events = append(c.events, e)
}

// Result describes the current round as it would be recorded.
func (c *Controller) Result() RoundResult {
	return RoundResult{
		ID:     c.roundID,
		Name:   c.player,
		Score:  c.score,
		Mode:   c.mode,
		Steps:  c.steps,
		Length: c.snake.Len(),
		Cause:  c.cause,
		At:     c.now(),
	}
}

// Phase returns the round phase.
func (c *Controller) Phase() Phase { return c.phase }

// Mode returns the active ruleset.
func (c *Controller) Mode() Mode { return c.mode }

// Score returns the round score.
func (c *Controller) Score() int { return c.score }

// Speed returns the current moves per second.
func (c *Controller) Speed() float64 { return c.effects.Speed() }

// Player returns the name recorded with finished rounds.
func (c *Controller) Player() string { return c.player }

// Config returns a copy of the round configuration.
func (c *Controller) Config() Config { return c.cfg.Clone() }
