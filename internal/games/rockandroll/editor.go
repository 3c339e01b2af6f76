package rockandroll

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
)

const (
	// deleteReach is how far from the playhead, in seconds, a delete
	// still finds a note.
	deleteReach = 0.25
	// sameNote is the time difference under which two notes in a lane
	// count as one.
	sameNote = 0.001
)

// ErrBadLane is returned for lanes outside 0..4.
var ErrBadLane = errors.New("rockandroll: lane out of range")

// Editor authors a chart against a playhead clock: notes are stamped into
// a lane at the current song time while the playhead runs or is parked.
type Editor struct {
	bpm      int
	notes    []Note // sorted by time
	playhead float64
	playing  bool
}

// NewEditor returns an empty chart at the default tempo.
func NewEditor() *Editor {
	return &Editor{bpm: defaultBPM}
}

func (e *Editor) BPM() int           { return e.bpm }
func (e *Editor) Playhead() float64  { return e.playhead }
func (e *Editor) Playing() bool      { return e.playing }
func (e *Editor) Len() int           { return len(e.notes) }
func (e *Editor) Notes() []Note      { return append([]Note(nil), e.notes...) }
func (e *Editor) Pattern() Pattern   { return Pattern{BPM: e.bpm, Notes: e.Notes()} }
func (e *Editor) SetPlaying(on bool) { e.playing = on }

// Seek parks the playhead at t seconds, never before the start.
func (e *Editor) Seek(t float64) {
	e.playhead = max(t, 0)
}

// Advance moves a running playhead by dt seconds.
func (e *Editor) Advance(dt float64) {
	if e.playing {
		e.Seek(e.playhead + dt)
	}
}

// Stop halts playback and rewinds.
func (e *Editor) Stop() {
	e.playing = false
	e.playhead = 0
}

// Place stamps a note into lane at the playhead. It reports false when
// the lane already has a note there.
func (e *Editor) Place(lane int) (bool, error) {
	return e.PlaceAt(lane, e.playhead)
}

// PlaceAt stamps a note at t seconds, rounded to the millisecond.
func (e *Editor) PlaceAt(lane int, t float64) (bool, error) {
	if lane < 0 || lane >= lanes {
		return false, fmt.Errorf("%w: %d", ErrBadLane, lane)
	}
	t = math.Round(max(t, 0)*1000) / 1000
	for _, n := range e.notes {
		if n.Lane == lane && math.Abs(n.Time-t) < sameNote {
			return false, nil
		}
	}
	i := sort.Search(len(e.notes), func(i int) bool { return e.notes[i].Time > t })
	e.notes = append(e.notes, Note{})
	copy(e.notes[i+1:], e.notes[i:])
	e.notes[i] = Note{Time: t, Lane: lane}
	return true, nil
}

// Delete removes the lane's note nearest the playhead, if one lies
// within reach.
func (e *Editor) Delete(lane int) bool {
	best, dist := -1, deleteReach
	for i, n := range e.notes {
		if n.Lane != lane {
			continue
		}
		if d := math.Abs(n.Time - e.playhead); d <= dist {
			best, dist = i, d
		}
	}
	if best < 0 {
		return false
	}
	e.notes = append(e.notes[:best], e.notes[best+1:]...)
	return true
}

// Between returns the notes with from <= time < to.
func (e *Editor) Between(from, to float64) []Note {
	lo := sort.Search(len(e.notes), func(i int) bool { return e.notes[i].Time >= from })
	hi := sort.Search(len(e.notes), func(i int) bool { return e.notes[i].Time >= to })
	return append([]Note(nil), e.notes[lo:hi]...)
}

// SetBPM changes the tempo.
func (e *Editor) SetBPM(bpm int) error {
	if bpm <= 0 {
		return fmt.Errorf("rockandroll: bpm must be positive, got %d", bpm)
	}
	e.bpm = bpm
	return nil
}

// Clear drops every note and keeps the tempo.
func (e *Editor) Clear() {
	e.notes = nil
}

// Import replaces the chart with one read from r. A chart that fails to
// parse leaves the editor untouched.
func (e *Editor) Import(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("rockandroll: read chart: %w", err)
	}
	p, err := ParsePattern(data)
	if err != nil {
		return err
	}
	e.bpm = p.BPM
	e.notes = p.Notes
	e.Stop()
	return nil
}

// Export writes the chart as JSON. An empty chart is refused with
// ErrEmptyPattern.
func (e *Editor) Export(w io.Writer) error {
	data, err := e.Pattern().Marshal()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("rockandroll: write chart: %w", err)
	}
	return nil
}
