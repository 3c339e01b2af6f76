package rockandroll

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"sort"
)

// ErrMalformedPattern is returned for pattern files that fail to decode or
// validate.
var ErrMalformedPattern = errors.New("rockandroll: malformed pattern")

// ErrEmptyPattern is returned when saving a pattern with no notes.
var ErrEmptyPattern = errors.New("rockandroll: no notes to export")

// Note is a single authored note: the song time in seconds at which it
// should cross the hit line and the lane it falls in (0-based).
type Note struct {
	Time float64 `json:"time"`
	Lane int     `json:"lane"`
}

// Pattern is a note chart for a song.
type Pattern struct {
	BPM   int    `json:"bpm"`
	Notes []Note `json:"notes"`
}

// ParsePattern decodes and validates a JSON pattern. A missing bpm
// defaults to 120; notes are returned sorted by time. A chart without
// notes is malformed.
func ParsePattern(data []byte) (Pattern, error) {
	var p Pattern
	if err := json.Unmarshal(data, &p); err != nil {
		return Pattern{}, fmt.Errorf("%w: %v", ErrMalformedPattern, err)
	}
	if p.BPM == 0 {
		p.BPM = defaultBPM
	}
	if p.BPM < 0 {
		return Pattern{}, fmt.Errorf("%w: bpm %d", ErrMalformedPattern, p.BPM)
	}
	if len(p.Notes) == 0 {
		return Pattern{}, fmt.Errorf("%w: no notes", ErrMalformedPattern)
	}
	for i, n := range p.Notes {
		if n.Lane < 0 || n.Lane >= lanes {
			return Pattern{}, fmt.Errorf("%w: note %d lane %d out of range", ErrMalformedPattern, i+1, n.Lane)
		}
		if n.Time < 0 {
			return Pattern{}, fmt.Errorf("%w: note %d has negative time", ErrMalformedPattern, i+1)
		}
	}
	p.sort()
	return p, nil
}

// ReadPattern loads a pattern file from disk.
func ReadPattern(path string) (Pattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Pattern{}, fmt.Errorf("rockandroll: read pattern %s: %w", path, err)
	}
	return ParsePattern(data)
}

// Marshal encodes the pattern with notes sorted by time.
func (p Pattern) Marshal() ([]byte, error) {
	if len(p.Notes) == 0 {
		return nil, ErrEmptyPattern
	}
	out := Pattern{BPM: p.BPM, Notes: append([]Note(nil), p.Notes...)}
	out.sort()
	return json.MarshalIndent(out, "", "  ")
}

// WritePattern saves p to path.
func WritePattern(path string, p Pattern) error {
	data, err := p.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("rockandroll: write pattern %s: %w", path, err)
	}
	return nil
}

// Duration returns the time of the last note.
func (p Pattern) Duration() float64 {
	if len(p.Notes) == 0 {
		return 0
	}
	return p.Notes[len(p.Notes)-1].Time
}

func (p *Pattern) sort() {
	sort.SliceStable(p.Notes, func(i, j int) bool {
		return p.Notes[i].Time < p.Notes[j].Time
	})
}

// Generate builds a chart with one note per beat in a random lane, never
// repeating the previous lane, starting after lead seconds.
func Generate(bpm, beats int, lead float64, seed int64) Pattern {
	if bpm <= 0 {
		bpm = defaultBPM
	}
	rng := rand.New(rand.NewSource(seed))
	beat := 60.0 / float64(bpm)
	p := Pattern{BPM: bpm, Notes: make([]Note, 0, beats)}
	prev := -1
	for i := 0; i < beats; i++ {
		lane := rng.Intn(lanes)
		if lane == prev {
			lane = (lane + 1 + rng.Intn(lanes-1)) % lanes
		}
		prev = lane
		p.Notes = append(p.Notes, Note{Time: lead + float64(i)*beat, Lane: lane})
	}
	return p
}
