package audio

import (
	"testing"
	"time"

	"github.com/gopxl/beep"
)

const testRate = beep.SampleRate(8000)

func drainAll(s beep.Streamer) (n int, peak float64) {
	buf := make([][2]float64, 256)
	for {
		sn, ok := s.Stream(buf)
		for i := 0; i < sn; i++ {
			peak = max(peak, buf[i][0], -buf[i][0])
		}
		n += sn
		if !ok {
			return n, peak
		}
	}
}

func TestOscillatorLength(t *testing.T) {
	for _, wave := range []WaveType{WaveSine, WaveSquare, WaveSaw, WaveNoise} {
		osc := NewOscillator(440, 100*time.Millisecond, wave, testRate)
		n, peak := drainAll(osc)
		if n != testRate.N(100*time.Millisecond) {
			t.Errorf("wave %d: streamed %d samples, want %d", wave, n, testRate.N(100*time.Millisecond))
		}
		if peak > 1 {
			t.Errorf("wave %d: peak %v out of range", wave, peak)
		}
		if osc.Err() != nil {
			t.Errorf("wave %d: %v", wave, osc.Err())
		}
	}
}

func TestSquareWaveValues(t *testing.T) {
	osc := NewOscillator(220, 50*time.Millisecond, WaveSquare, testRate)
	buf := make([][2]float64, 100)
	n, _ := osc.Stream(buf)
	for i := 0; i < n; i++ {
		if v := buf[i][0]; v != 1 && v != -1 {
			t.Fatalf("sample %d = %v", i, v)
		}
	}
}

func TestEnvelopeFadesEnds(t *testing.T) {
	const d = 100 * time.Millisecond
	env := NewEnvelope(NewOscillator(0, d, WaveSquare, testRate), d, 20*time.Millisecond, 20*time.Millisecond, testRate)
	buf := make([][2]float64, testRate.N(d))
	n, _ := env.Stream(buf)
	if n != len(buf) {
		t.Fatalf("streamed %d, want %d", n, len(buf))
	}
	if buf[0][0] != 0 {
		t.Errorf("first sample %v, want silence", buf[0][0])
	}
	mid := buf[n/2][0]
	if mid != 1 && mid != -1 {
		t.Errorf("sustain sample %v, want full volume", mid)
	}
	if last := buf[n-1][0]; last > 0.1 || last < -0.1 {
		t.Errorf("last sample %v, want near silence", last)
	}
}

func TestBuildEverySound(t *testing.T) {
	for s := SoundFood; s <= SoundMenu; s++ {
		st := Build(s, testRate, DefaultVolume)
		if st == nil {
			t.Errorf("%v: no streamer", s)
			continue
		}
		n, _ := drainAll(st)
		if n == 0 {
			t.Errorf("%v: empty sound", s)
		}
	}
	if Build(Sound(99), testRate, 1) != nil {
		t.Error("unknown sound should build nothing")
	}
}
