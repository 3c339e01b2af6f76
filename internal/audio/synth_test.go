package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

// drain reads a streamer to the end and returns every sample.
func drain(s beep.Streamer) [][2]float64 {
	var out [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
}

func TestOscillatorLength(t *testing.T) {
	tests := []struct {
		name string
		wave WaveType
		dur  time.Duration
	}{
		{"sine", WaveSine, 50 * time.Millisecond},
		{"square", WaveSquare, 10 * time.Millisecond},
		{"saw", WaveSaw, 123 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := drain(NewOscillator(440, tt.dur, tt.wave, sampleRate))
			if want := sampleRate.N(tt.dur); len(got) != want {
				t.Errorf("len = %d, want %d", len(got), want)
			}
			for i, s := range got {
				if math.Abs(s[0]) > 0.2+1e-9 || s[0] != s[1] {
					t.Fatalf("sample %d = %v out of range", i, s)
				}
			}
		})
	}
}

func TestEnvelopeFades(t *testing.T) {
	dur := 100 * time.Millisecond
	osc := NewOscillator(100, dur, WaveSquare, sampleRate)
	got := drain(NewEnvelope(osc, dur, 10*time.Millisecond, 10*time.Millisecond, sampleRate))

	if got[0][0] != 0 {
		t.Errorf("first sample = %v, want silence", got[0][0])
	}
	mid := got[len(got)/2][0]
	if math.Abs(mid) < 0.19 {
		t.Errorf("sustain sample = %v, want full volume", mid)
	}
	last := got[len(got)-1][0]
	if math.Abs(last) > 0.01 {
		t.Errorf("last sample = %v, want near silence", last)
	}
}

func TestCueSequences(t *testing.T) {
	for c, tones := range cues {
		var want int
		for _, tn := range tones {
			want += sampleRate.N(tn.duration)
		}
		if got := len(drain(sequence(tones))); got != want {
			t.Errorf("cue %d: %d samples, want %d", c, got, want)
		}
	}
}

func TestSilentPlayer(t *testing.T) {
	var p Player = Silent{}
	p.Cue(CueWin)
	if err := p.PlaySong("missing.mp3"); err != nil {
		t.Errorf("Silent.PlaySong() = %v", err)
	}
	p.StopSong()
	p.Close()
}
