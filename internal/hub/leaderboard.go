package hub

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/arcade-hub/internal/registry"
	"github.com/vovakirdan/arcade-hub/internal/storage"
)

// ErrBadImport is returned when a leaderboard file can't be read.
var ErrBadImport = errors.New("hub: invalid leaderboard data")

const maxNameLen = 12

// FormatScore renders a score the way its board displays it.
func FormatScore(score int, st registry.ScoreType) string {
	switch st {
	case registry.ScoreTime:
		return fmt.Sprintf("%dms", score)
	case registry.ScoreWaves:
		return fmt.Sprintf("Wave %d", score)
	default:
		return humanize.Comma(int64(score))
	}
}

// TruncateName shortens long player names for the board.
func TruncateName(name string) string {
	r := []rune(name)
	if len(r) > maxNameLen {
		return string(r[:maxNameLen-2]) + "..."
	}
	return name
}

// Leaderboard returns the board for gameID, best first.
func (h *Hub) Leaderboard(gameID string) ([]storage.ScoreEntry, error) {
	st := registry.ScorePoints
	if info, ok := registry.Info(gameID); ok {
		st = info.ScoreType
	}
	entries, err := h.store.TopScores(gameID, st.Ascending())
	if err != nil {
		return nil, fmt.Errorf("hub: %w", err)
	}
	return entries, nil
}

// ClearLeaderboard empties one board, or every board when gameID is "".
func (h *Hub) ClearLeaderboard(gameID string) error {
	var err error
	if gameID == "" {
		err = h.store.ClearAllScores()
	} else {
		err = h.store.ClearScores(gameID)
	}
	if err != nil {
		return fmt.Errorf("hub: %w", err)
	}
	h.log.Info("leaderboard cleared", "game", gameID)
	return nil
}

// ExportLeaderboards writes every board as JSON keyed by game id.
func (h *Hub) ExportLeaderboards(w io.Writer) error {
	boards, err := h.store.Boards()
	if err != nil {
		return fmt.Errorf("hub: %w", err)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(boards); err != nil {
		return fmt.Errorf("hub: cannot export leaderboards: %w", err)
	}
	return nil
}

// ImportLeaderboards replaces every board with the JSON read from r.
// Entries are re-sorted per game so hand-edited files still rank right.
func (h *Hub) ImportLeaderboards(r io.Reader) error {
	var boards map[string][]storage.ScoreEntry
	if err := json.NewDecoder(r).Decode(&boards); err != nil {
		return fmt.Errorf("%w: %v", ErrBadImport, err)
	}
	for gameID, entries := range boards {
		for _, e := range entries {
			if e.Player == "" {
				return fmt.Errorf("%w: %s entry without player", ErrBadImport, gameID)
			}
		}
		sortEntries(entries)
	}
	if err := h.store.ReplaceScores(boards); err != nil {
		return fmt.Errorf("hub: %w", err)
	}
	h.log.Info("leaderboards imported", "games", len(boards))
	return nil
}

// sortEntries orders a board in place, keeping the file order for ties.
func sortEntries(entries []storage.ScoreEntry) {
	asc := len(entries) > 0 && entries[0].Ascending()
	sort.SliceStable(entries, func(i, j int) bool {
		if asc {
			return entries[i].Score < entries[j].Score
		}
		return entries[i].Score > entries[j].Score
	})
}
