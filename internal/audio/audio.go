// Package audio plays the arcade's sound: short synthesised cues and the
// rhythm game's soundtrack. When no audio device is available every call
// is a silent no-op.
package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// ErrNoSong is returned when a soundtrack file can't be found.
var ErrNoSong = errors.New("audio: song not found")

// Cue is a named sound effect.
type Cue int

const (
	CueScore Cue = iota
	CueMiss
	CueRoll
	CueDamage
	CueGo
	CueWin
	CueLose
)

// tone describes how a cue sounds.
type tone struct {
	freq     float64
	duration time.Duration
	wave     WaveType
}

var cues = map[Cue][]tone{
	CueScore:  {{880, 60 * time.Millisecond, WaveSine}},
	CueMiss:   {{140, 120 * time.Millisecond, WaveSquare}},
	CueRoll:   {{300, 40 * time.Millisecond, WaveSaw}, {420, 40 * time.Millisecond, WaveSaw}},
	CueDamage: {{110, 200 * time.Millisecond, WaveSquare}},
	CueGo:     {{1200, 150 * time.Millisecond, WaveSine}},
	CueWin:    {{523, 120 * time.Millisecond, WaveSine}, {659, 120 * time.Millisecond, WaveSine}, {784, 240 * time.Millisecond, WaveSine}},
	CueLose:   {{392, 150 * time.Millisecond, WaveSaw}, {262, 300 * time.Millisecond, WaveSaw}},
}

// Player is what the platform needs from the sound system.
type Player interface {
	Cue(c Cue)
	PlaySong(file string) error
	StopSong()
	Close()
}

// Silent is a Player that does nothing.
type Silent struct{}

func (Silent) Cue(Cue)               {}
func (Silent) PlaySong(string) error { return nil }
func (Silent) StopSong()             {}
func (Silent) Close()                {}

// Speaker plays through the default audio device.
type Speaker struct {
	dir   string
	mixer *beep.Mixer

	mu   sync.Mutex
	song *beep.Ctrl
	file beep.StreamSeekCloser
}

var initOnce struct {
	sync.Once
	err error
}

// Open returns a Speaker reading songs from dir. If the device can't be
// opened it returns Silent and the error, so callers can log and carry on.
func Open(dir string) (Player, error) {
	initOnce.Do(func() {
		initOnce.err = speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond))
	})
	if initOnce.err != nil {
		return Silent{}, fmt.Errorf("audio: cannot open speaker: %w", initOnce.err)
	}

	s := &Speaker{dir: dir, mixer: &beep.Mixer{}}
	speaker.Play(s.mixer)
	return s, nil
}

// Cue plays a sound effect over whatever is playing.
func (s *Speaker) Cue(c Cue) {
	tones, ok := cues[c]
	if !ok {
		return
	}
	speaker.Lock()
	s.mixer.Add(sequence(tones))
	speaker.Unlock()
}

func sequence(tones []tone) beep.Streamer {
	parts := make([]beep.Streamer, 0, len(tones))
	for _, t := range tones {
		osc := NewOscillator(t.freq, t.duration, t.wave, sampleRate)
		parts = append(parts, NewEnvelope(osc, t.duration, 5*time.Millisecond, t.duration/3, sampleRate))
	}
	return beep.Seq(parts...)
}

// PlaySong starts an mp3 from the songs directory, replacing any song
// already playing. A relative file is resolved against the directory.
func (s *Speaker) PlaySong(file string) error {
	if file == "" {
		return nil
	}
	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.dir, file)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNoSong, path)
	}
	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("audio: cannot decode %s: %w", path, err)
	}

	var src beep.Streamer = streamer
	if format.SampleRate != sampleRate {
		src = beep.Resample(4, format.SampleRate, sampleRate, streamer)
	}

	s.StopSong()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.song = &beep.Ctrl{Streamer: src}
	s.file = streamer
	speaker.Lock()
	s.mixer.Add(s.song)
	speaker.Unlock()
	return nil
}

// StopSong stops the soundtrack.
func (s *Speaker) StopSong() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.song == nil {
		return
	}
	speaker.Lock()
	s.song.Paused = true
	s.song.Streamer = nil
	speaker.Unlock()
	s.file.Close()
	s.song, s.file = nil, nil
}

// Close silences everything.
func (s *Speaker) Close() {
	s.StopSong()
	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
}
