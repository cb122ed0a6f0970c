package object

import "github.com/tomz197/metalsnake/internal/grid"

// Snake sizes used by the renderer. Size eases toward the target every tick.
const (
	SizeNormal = 1.0
	SizeShrunk = 0.5
	sizeEasing = 0.1
)

// DeathCause identifies what ended a round.
type DeathCause int

const (
	CauseNone     DeathCause = iota
	CauseWall                // Left the grid while vulnerable
	CauseSelf                // Ran into its own body
	CauseObstacle            // Ran into an obstacle
)

func (c DeathCause) String() string {
	switch c {
	case CauseWall:
		return "wall"
	case CauseSelf:
		return "self"
	case CauseObstacle:
		return "obstacle"
	default:
		return "none"
	}
}

// MoveResult reports the outcome of a single Move.
type MoveResult struct {
	Dead  bool
	Cause DeathCause
	Grew  bool
	Head  grid.Cell
}

// Snake is the player entity. Body[0] is the head.
type Snake struct {
	Body         []grid.Cell
	Invincible   bool
	ShrinkActive bool
	Size         float64 // Rendering only, never used for collision

	direction       grid.Direction // Direction of the last committed move
	nextDirection   grid.Direction // Latest accepted request
	actualDirection grid.Direction // Basis for reversal checks
}

// NewSnake creates a snake of the given length with its head at head,
// facing dir, its body trailing straight behind.
func NewSnake(head grid.Cell, length int, dir grid.Direction) *Snake {
	if length < 1 {
		length = 1
	}
	body := make([]grid.Cell, 0, length)
	back := dir.Opposite()
	cell := head
	for range length {
		body = append(body, cell)
		cell = cell.Step(back)
	}
	return &Snake{
		Body:            body,
		Size:            SizeNormal,
		direction:       dir,
		nextDirection:   dir,
		actualDirection: dir,
	}
}

// Head returns the head cell.
func (s *Snake) Head() grid.Cell {
	return s.Body[0]
}

// Len returns the number of body segments.
func (s *Snake) Len() int {
	return len(s.Body)
}

// Direction returns the direction of the most recent move.
func (s *Snake) Direction() grid.Direction {
	return s.direction
}

// NextDirection returns the direction the next move will use.
func (s *Snake) NextDirection() grid.Direction {
	return s.nextDirection
}

// ActualDirection returns the direction actually applied on the last move.
func (s *Snake) ActualDirection() grid.Direction {
	return s.actualDirection
}

// SetDirection requests a turn. The latest request wins; a request opposite
// to the applied direction is ignored. Reports whether it was accepted.
func (s *Snake) SetDirection(d grid.Direction) bool {
	if d == s.actualDirection.Opposite() {
		return false
	}
	s.nextDirection = d
	return true
}

// Occupies reports whether any segment is on c.
func (s *Snake) Occupies(c grid.Cell) bool {
	return grid.Contains(s.Body, c)
}

// Move advances the snake one cell.
//
// Out of bounds is fatal unless invincible, in which case the head wraps.
// Self (the current tail cell included) and obstacle collisions are fatal in
// both cases. On death the body is
// left untouched. On success the head is prepended and the tail dropped
// unless the new head lands on food.
func (s *Snake) Move(g grid.Grid, food grid.Cell, obstacle grid.Predicate) MoveResult {
	if s.nextDirection != s.actualDirection.Opposite() {
		s.direction = s.nextDirection
	}
	s.actualDirection = s.direction

	head := s.Head().Step(s.direction)
	if s.Invincible {
		head = g.Wrap(head)
	} else if !g.InBounds(head) {
		return MoveResult{Dead: true, Cause: CauseWall, Head: head}
	}

	grow := head == food

	// The tail cell still counts: it moves only after the head lands
	if grid.Contains(s.Body, head) {
		return MoveResult{Dead: true, Cause: CauseSelf, Head: head}
	}
	if obstacle != nil && obstacle(head) {
		return MoveResult{Dead: true, Cause: CauseObstacle, Head: head}
	}

	if grow {
		s.Body = append(s.Body, grid.Cell{})
	}
	copy(s.Body[1:], s.Body[:len(s.Body)-1])
	s.Body[0] = head

	return MoveResult{Grew: grow, Head: head}
}

// UpdateSize eases Size toward the size implied by ShrinkActive.
func (s *Snake) UpdateSize() {
	target := SizeNormal
	if s.ShrinkActive {
		target = SizeShrunk
	}
	s.Size += (target - s.Size) * sizeEasing
	if d := target - s.Size; d < 0.005 && d > -0.005 {
		s.Size = target
	}
}
