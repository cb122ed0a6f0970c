// Package audio plays synthesized sound effects for game events. It never
// blocks the game: events are queued without waiting and dropped when the
// queue is full or the device is unavailable.
package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/tomz197/metalsnake/internal/game"
)

// ErrNoAudioDevice is wrapped by every initialisation failure.
var ErrNoAudioDevice = errors.New("no audio device")

const (
	sampleRate       = beep.SampleRate(44100)
	queueSize        = 32
	minMoveInterval  = 100 * time.Millisecond
	DefaultVolume    = 0.5
	DefaultInitAfter = 2 * time.Second
)

// backend is the output device. The default is beep's speaker.
type backend interface {
	Init(sr beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Lock()
	Unlock()
}

type speakerBackend struct{}

func (speakerBackend) Init(sr beep.SampleRate, bufferSize int) error {
	return speaker.Init(sr, bufferSize)
}
func (speakerBackend) Play(s beep.Streamer) { speaker.Play(s) }
func (speakerBackend) Lock()                { speaker.Lock() }
func (speakerBackend) Unlock()              { speaker.Unlock() }

// Player turns game events into sounds. It implements game.Listener.
type Player struct {
	logger  *log.Logger
	device  backend
	volume  float64
	timeout time.Duration
	mixer   *beep.Mixer
	queue   chan Sound
	now     func() time.Time

	ready    atomic.Bool
	muted    atomic.Bool
	errMu    sync.Mutex
	err      error
	lastMove time.Time
	once     sync.Once
	done     chan struct{}
	wg       sync.WaitGroup
}

// NewPlayer creates a player at volume in [0, 1]. Nothing is played until
// Start succeeds.
func NewPlayer(logger *log.Logger, volume float64) *Player {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Player{
		logger:  logger,
		device:  speakerBackend{},
		volume:  min(max(volume, 0), 1),
		timeout: DefaultInitAfter,
		mixer:   &beep.Mixer{},
		queue:   make(chan Sound, queueSize),
		now:     time.Now,
		done:    make(chan struct{}),
	}
}

// Start opens the device in the background. If it does not open within the
// init timeout, or fails, the player stays silent and Err reports why.
func (p *Player) Start(ctx context.Context) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := p.open(ctx); err != nil {
			p.setErr(err)
			p.logger.Warn("audio disabled", "err", err)
			p.drain()
			return
		}
		p.ready.Store(true)
		p.logger.Debug("audio ready", "rate", sampleRate)
		p.run()
	}()
}

func (p *Player) open(ctx context.Context) error {
	result := make(chan error, 1)
	go func() {
		result <- p.device.Init(sampleRate, sampleRate.N(50*time.Millisecond))
	}()

	timer := time.NewTimer(p.timeout)
	defer timer.Stop()

	select {
	case err := <-result:
		if err != nil {
			return fmt.Errorf("%w: %w", ErrNoAudioDevice, err)
		}
		p.device.Play(p.mixer)
		return nil
	case <-timer.C:
		return fmt.Errorf("%w: init timed out after %v", ErrNoAudioDevice, p.timeout)
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrNoAudioDevice, ctx.Err())
	case <-p.done:
		return fmt.Errorf("%w: closed before init finished", ErrNoAudioDevice)
	}
}

// run feeds queued sounds into the mixer until Close.
func (p *Player) run() {
	for {
		select {
		case s := <-p.queue:
			streamer := Build(s, sampleRate, p.volume)
			if streamer == nil {
				continue
			}
			p.device.Lock()
			p.mixer.Add(streamer)
			p.device.Unlock()
		case <-p.done:
			p.device.Lock()
			p.mixer.Clear()
			p.device.Unlock()
			return
		}
	}
}

// drain discards queued sounds so senders never see a full queue for long.
func (p *Player) drain() {
	for {
		select {
		case <-p.queue:
		case <-p.done:
			return
		}
	}
}

// Play queues s without blocking. It reports whether s was queued.
func (p *Player) Play(s Sound) bool {
	select {
	case p.queue <- s:
		return true
	default:
		return false
	}
}

// OnEvent implements game.Listener.
func (p *Player) OnEvent(e game.Event) {
	if p.muted.Load() {
		return
	}
	s, ok := soundFor(e)
	if !ok {
		return
	}
	if s == SoundMove {
		now := p.now()
		if now.Sub(p.lastMove) < minMoveInterval {
			return
		}
		p.lastMove = now
	}
	p.Play(s)
}

// soundFor maps an event to its sound. Combo sounds only play when the
// multiplier steps up.
func soundFor(e game.Event) (Sound, bool) {
	switch e.Kind {
	case game.EventFoodEaten:
		return SoundFood, true
	case game.EventPowerUpCollected:
		return SoundPowerUp, true
	case game.EventMoved:
		return SoundMove, true
	case game.EventComboIncrease:
		if e.Combo > 0 && e.Combo%game.ComboStep == 0 {
			return SoundCombo, true
		}
	case game.EventLevelUp:
		return SoundLevelUp, true
	case game.EventDeath:
		return SoundGameOver, true
	}
	return 0, false
}

// SetMuted silences event sounds. Sounds already mixing finish playing.
func (p *Player) SetMuted(muted bool) {
	p.muted.Store(muted)
}

// ToggleMute flips the mute switch and returns the new state.
func (p *Player) ToggleMute() bool {
	for {
		old := p.muted.Load()
		if p.muted.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Menu plays the menu blip unless muted.
func (p *Player) Menu() {
	if !p.muted.Load() {
		p.Play(SoundMenu)
	}
}

// Muted reports whether event sounds are silenced.
func (p *Player) Muted() bool {
	return p.muted.Load()
}

// Ready reports whether the device opened.
func (p *Player) Ready() bool {
	return p.ready.Load()
}

// Err returns why the device could not be opened, if it could not.
func (p *Player) Err() error {
	p.errMu.Lock()
	defer p.errMu.Unlock()
	return p.err
}

func (p *Player) setErr(err error) {
	p.errMu.Lock()
	p.err = err
	p.errMu.Unlock()
}

// Close stops playback. A device init still in flight is abandoned.
func (p *Player) Close() {
	p.once.Do(func() {
		close(p.done)
	})
	p.wg.Wait()
}
