package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"golang.org/x/exp/rand"
)

// WaveType selects an oscillator shape.
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator produces a wave whose frequency glides linearly from start to
// end over its duration.
type oscillator struct {
	start    float64
	end      float64
	phase    float64
	position int
	duration int
	wave     WaveType
	rate     beep.SampleRate
	rng      *rand.Rand
}

// NewOscillator returns a fixed-pitch tone.
func NewOscillator(freq float64, d time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return NewSweep(freq, freq, d, wave, rate)
}

// NewSweep returns a tone gliding from one frequency to another.
func NewSweep(from, to float64, d time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		start:    from,
		end:      to,
		duration: rate.N(d),
		wave:     wave,
		rate:     rate,
		rng:      rand.New(rand.NewSource(uint64(from*1000 + to))),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			val = 1
			if o.phase >= 0.5 {
				val = -1
			}
		case WaveSaw:
			val = 2 * (o.phase - 0.5)
		case WaveNoise:
			val = o.rng.Float64()*2 - 1
		}
		samples[i][0] = val
		samples[i][1] = val

		progress := float64(o.position) / float64(o.duration)
		freq := o.start + (o.end-o.start)*progress
		o.phase += freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope fades a stream in over attack and out over release.
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

// NewEnvelope shapes s with a linear attack and release over d.
func NewEnvelope(s beep.Streamer, d, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer: s,
		attack:   rate.N(attack),
		release:  rate.N(release),
		total:    rate.N(d),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, i > 0
		}
		vol := 1.0
		if e.attack > 0 && e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		if remaining := e.total - e.position; e.release > 0 && remaining < e.release {
			vol = math.Min(vol, float64(remaining)/float64(e.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// withVolume scales s linearly; zero or less is silent.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// Sound is one of the game's effects.
type Sound int

const (
	SoundFood Sound = iota
	SoundPowerUp
	SoundMove
	SoundCombo
	SoundLevelUp
	SoundGameOver
	SoundMenu
)

func (s Sound) String() string {
	switch s {
	case SoundFood:
		return "food"
	case SoundPowerUp:
		return "powerup"
	case SoundMove:
		return "move"
	case SoundCombo:
		return "combo"
	case SoundLevelUp:
		return "level_up"
	case SoundGameOver:
		return "game_over"
	case SoundMenu:
		return "menu"
	default:
		return "unknown"
	}
}

// Build synthesises s at the given master volume.
func Build(s Sound, rate beep.SampleRate, volume float64) beep.Streamer {
	switch s {
	case SoundFood:
		// Root with two harmonics
		const d = 200 * time.Millisecond
		return withVolume(beep.Mix(
			withVolume(NewEnvelope(NewOscillator(440, d, WaveSine, rate), d, 10*time.Millisecond, 40*time.Millisecond, rate), 0.57),
			withVolume(NewEnvelope(NewOscillator(880, d, WaveSine, rate), d, 10*time.Millisecond, 40*time.Millisecond, rate), 0.29),
			withVolume(NewEnvelope(NewOscillator(1320, d, WaveSine, rate), d, 10*time.Millisecond, 40*time.Millisecond, rate), 0.14),
		), volume*0.8)
	case SoundPowerUp:
		const d = 500 * time.Millisecond
		return withVolume(beep.Mix(
			withVolume(NewEnvelope(NewSweep(220, 880, d, WaveSine, rate), d, 50*time.Millisecond, 100*time.Millisecond, rate), 0.6),
			withVolume(NewEnvelope(NewSweep(440, 1760, d, WaveSine, rate), d, 50*time.Millisecond, 100*time.Millisecond, rate), 0.3),
		), volume*0.6)
	case SoundMove:
		const d = 80 * time.Millisecond
		return withVolume(beep.Mix(
			withVolume(NewEnvelope(NewOscillator(0, d, WaveNoise, rate), d, 5*time.Millisecond, 50*time.Millisecond, rate), 0.3),
			withVolume(NewEnvelope(NewOscillator(200, d, WaveSine, rate), d, 5*time.Millisecond, 50*time.Millisecond, rate), 0.7),
		), volume*0.2)
	case SoundCombo:
		const d = 90 * time.Millisecond
		return withVolume(beep.Seq(
			NewEnvelope(NewOscillator(659.25, d, WaveSquare, rate), d, 5*time.Millisecond, 40*time.Millisecond, rate),
			NewEnvelope(NewOscillator(987.77, d, WaveSquare, rate), d, 5*time.Millisecond, 40*time.Millisecond, rate),
		), volume*0.3)
	case SoundLevelUp:
		const d = 120 * time.Millisecond
		return withVolume(beep.Seq(
			NewEnvelope(NewOscillator(523.25, d, WaveSaw, rate), d, 5*time.Millisecond, 30*time.Millisecond, rate),
			NewEnvelope(NewOscillator(659.25, d, WaveSaw, rate), d, 5*time.Millisecond, 30*time.Millisecond, rate),
			NewEnvelope(NewOscillator(783.99, d, WaveSaw, rate), d, 5*time.Millisecond, 60*time.Millisecond, rate),
		), volume*0.4)
	case SoundGameOver:
		const d = time.Second
		return withVolume(beep.Mix(
			withVolume(NewEnvelope(NewSweep(440, 110, d, WaveSine, rate), d, 100*time.Millisecond, 200*time.Millisecond, rate), 0.6),
			withVolume(NewEnvelope(NewSweep(220, 55, d, WaveSine, rate), d, 100*time.Millisecond, 200*time.Millisecond, rate), 0.3),
			withVolume(NewEnvelope(NewOscillator(0, d, WaveNoise, rate), d, 100*time.Millisecond, 200*time.Millisecond, rate), 0.1),
		), volume*0.7)
	case SoundMenu:
		// Short two-tone blip
		const d = 60 * time.Millisecond
		return withVolume(beep.Seq(
			NewEnvelope(NewOscillator(660, d, WaveSquare, rate), d, 3*time.Millisecond, 30*time.Millisecond, rate),
			NewEnvelope(NewOscillator(880, d, WaveSquare, rate), d, 3*time.Millisecond, 30*time.Millisecond, rate),
		), volume*0.25)
	}
	return nil
}
