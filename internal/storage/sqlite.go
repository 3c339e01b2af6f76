// Package storage provides SQLite-based persistence for the arcade hub:
// per-game leaderboards, player wallets, level unlocks and a history of
// every finished round.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DefaultLimit is the leaderboard size used unless SetLimit changes it.
const DefaultLimit = 10

// ErrNoPlayer is returned when a player has no saved wallet.
var ErrNoPlayer = errors.New("storage: player not found")

// Store manages the SQLite database connection.
type Store struct {
	db    *sql.DB
	limit int
}

// ScoreEntry is one leaderboard row.
type ScoreEntry struct {
	ID        int64     `json:"-"`
	GameID    string    `json:"-"`
	Player    string    `json:"player"`
	Score     int       `json:"score"`
	ScoreType string    `json:"scoreType"`
	CreatedAt time.Time `json:"date"`
}

// Ascending reports whether lower scores rank first for this entry's type.
func (e ScoreEntry) Ascending() bool {
	return e.ScoreType == "time"
}

// Player is a saved wallet.
type Player struct {
	Name      string
	Tokens    int
	LastLogin string // YYYY-MM-DD of the last login, empty if never
	CreatedAt time.Time
}

// RoundRecord is the history row written for every finished round.
type RoundRecord struct {
	RoundID   string
	GameID    string
	Player    string
	Score     int
	Class     string
	Ticks     int
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// One writer keeps the SSH sessions from tripping over SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db, limit: DefaultLimit}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			player TEXT NOT NULL,
			score INTEGER NOT NULL,
			score_type TEXT NOT NULL DEFAULT 'points',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_game_id ON scores(game_id);

		CREATE TABLE IF NOT EXISTS players (
			name TEXT PRIMARY KEY,
			tokens INTEGER NOT NULL,
			last_login TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS level_progress (
			player TEXT NOT NULL,
			game_id TEXT NOT NULL,
			level INTEGER NOT NULL,
			PRIMARY KEY (player, game_id, level)
		);

		CREATE TABLE IF NOT EXISTS rounds (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			round_id TEXT NOT NULL UNIQUE,
			game_id TEXT NOT NULL,
			player TEXT NOT NULL,
			score INTEGER NOT NULL,
			class TEXT NOT NULL,
			ticks INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_rounds_game_id ON rounds(game_id);
		CREATE INDEX IF NOT EXISTS idx_rounds_player ON rounds(player);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SetLimit changes how many entries each leaderboard keeps.
func (s *Store) SetLimit(n int) {
	if n > 0 {
		s.limit = n
	}
}

// Limit returns the leaderboard size.
func (s *Store) Limit() int {
	return s.limit
}

func order(ascending bool) string {
	if ascending {
		return "score ASC, id ASC"
	}
	return "score DESC, id ASC"
}

// AddScore records e on its game's leaderboard, trims the board to the
// limit and returns the new entry's 1-based rank, or 0 if it did not make
// the board. Equal scores rank in the order they were set.
func (s *Store) AddScore(e ScoreEntry) (int, error) {
	if e.ScoreType == "" {
		e.ScoreType = "points"
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		"INSERT INTO scores (game_id, player, score, score_type, created_at) VALUES (?, ?, ?, ?, ?)",
		e.GameID, e.Player, e.Score, e.ScoreType, e.CreatedAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	ord := order(e.Ascending())
	if _, err := tx.Exec(
		`DELETE FROM scores WHERE game_id = ? AND id NOT IN (
			SELECT id FROM scores WHERE game_id = ? ORDER BY `+ord+` LIMIT ?)`,
		e.GameID, e.GameID, s.limit,
	); err != nil {
		return 0, fmt.Errorf("storage: cannot trim leaderboard: %w", err)
	}

	rows, err := tx.Query(`SELECT id FROM scores WHERE game_id = ? ORDER BY `+ord, e.GameID)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot rank score: %w", err)
	}
	rank, pos := 0, 0
	for rows.Next() {
		pos++
		var rid int64
		if err := rows.Scan(&rid); err != nil {
			rows.Close()
			return 0, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if rid == id {
			rank = pos
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("storage: row iteration error: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit score: %w", err)
	}
	return rank, nil
}

// TopScores retrieves the leaderboard for the given game, best first.
func (s *Store) TopScores(gameID string, ascending bool) ([]ScoreEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, game_id, player, score, score_type, created_at
		 FROM scores
		 WHERE game_id = ?
		 ORDER BY `+order(ascending)+`
		 LIMIT ?`,
		gameID, s.limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameID, &e.Player, &e.Score, &e.ScoreType, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// Boards returns every leaderboard keyed by game id.
func (s *Store) Boards() (map[string][]ScoreEntry, error) {
	rows, err := s.db.Query(`SELECT DISTINCT game_id, score_type FROM scores`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot list boards: %w", err)
	}
	type board struct {
		id        string
		ascending bool
	}
	var ids []board
	for rows.Next() {
		var b board
		var scoreType string
		if err := rows.Scan(&b.id, &scoreType); err != nil {
			rows.Close()
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		b.ascending = scoreType == "time"
		ids = append(ids, b)
	}
	rows.Close()

	out := make(map[string][]ScoreEntry, len(ids))
	for _, b := range ids {
		entries, err := s.TopScores(b.id, b.ascending)
		if err != nil {
			return nil, err
		}
		out[b.id] = entries
	}
	return out, nil
}

// ClearScores deletes all scores for the given game.
func (s *Store) ClearScores(gameID string) error {
	_, err := s.db.Exec("DELETE FROM scores WHERE game_id = ?", gameID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// ClearAllScores empties every leaderboard.
func (s *Store) ClearAllScores() error {
	if _, err := s.db.Exec("DELETE FROM scores"); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// ReplaceScores swaps the stored leaderboards for boards in one
// transaction. Boards are trimmed to the limit.
func (s *Store) ReplaceScores(boards map[string][]ScoreEntry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM scores"); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	for gameID, entries := range boards {
		for i, e := range entries {
			if i >= s.limit {
				break
			}
			if e.ScoreType == "" {
				e.ScoreType = "points"
			}
			if e.CreatedAt.IsZero() {
				e.CreatedAt = time.Now()
			}
			if _, err := tx.Exec(
				"INSERT INTO scores (game_id, player, score, score_type, created_at) VALUES (?, ?, ?, ?, ?)",
				gameID, e.Player, e.Score, e.ScoreType, e.CreatedAt.UTC(),
			); err != nil {
				return fmt.Errorf("storage: cannot import score: %w", err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit import: %w", err)
	}
	return nil
}

// Player loads a wallet. It returns ErrNoPlayer if none is saved.
func (s *Store) Player(name string) (Player, error) {
	var p Player
	var createdAt any
	err := s.db.QueryRow(
		"SELECT name, tokens, last_login, created_at FROM players WHERE name = ?",
		name,
	).Scan(&p.Name, &p.Tokens, &p.LastLogin, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Player{}, ErrNoPlayer
	}
	if err != nil {
		return Player{}, fmt.Errorf("storage: cannot query player: %w", err)
	}
	p.CreatedAt = parseTime(createdAt)
	return p, nil
}

// SavePlayer inserts or updates a wallet.
func (s *Store) SavePlayer(p Player) error {
	_, err := s.db.Exec(
		`INSERT INTO players (name, tokens, last_login) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET tokens = excluded.tokens, last_login = excluded.last_login`,
		p.Name, p.Tokens, p.LastLogin,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save player: %w", err)
	}
	return nil
}

// DeletePlayer forgets a wallet and its level unlocks.
func (s *Store) DeletePlayer(name string) error {
	if _, err := s.db.Exec("DELETE FROM players WHERE name = ?", name); err != nil {
		return fmt.Errorf("storage: cannot delete player: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM level_progress WHERE player = ?", name); err != nil {
		return fmt.Errorf("storage: cannot delete progress: %w", err)
	}
	return nil
}

// Setting reads a value from the settings table, "" if unset.
func (s *Store) Setting(key string) (string, error) {
	var v string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("storage: cannot read setting %s: %w", key, err)
	}
	return v, nil
}

// SetSetting writes a value; an empty value deletes the key.
func (s *Store) SetSetting(key, value string) error {
	var err error
	if value == "" {
		_, err = s.db.Exec("DELETE FROM settings WHERE key = ?", key)
	} else {
		_, err = s.db.Exec(
			`INSERT INTO settings (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			key, value,
		)
	}
	if err != nil {
		return fmt.Errorf("storage: cannot write setting %s: %w", key, err)
	}
	return nil
}

// UnlockLevel records that player may start level in gameID.
func (s *Store) UnlockLevel(player, gameID string, level int) error {
	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO level_progress (player, game_id, level) VALUES (?, ?, ?)",
		player, gameID, level,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot unlock level: %w", err)
	}
	return nil
}

// HighestLevel returns the highest unlocked level, at least 1.
func (s *Store) HighestLevel(player, gameID string) (int, error) {
	var level sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(level) FROM level_progress WHERE player = ? AND game_id = ?",
		player, gameID,
	).Scan(&level)
	if err != nil {
		return 1, fmt.Errorf("storage: cannot query progress: %w", err)
	}
	if !level.Valid || level.Int64 < 1 {
		return 1, nil
	}
	return int(level.Int64), nil
}

// SaveRound appends a finished round to the history. Replaying the same
// round id is a no-op.
func (s *Store) SaveRound(r RoundRecord) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO rounds (round_id, game_id, player, score, class, ticks)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.RoundID, r.GameID, r.Player, r.Score, r.Class, r.Ticks,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save round: %w", err)
	}
	return nil
}

// RecentRounds returns the latest rounds, newest first. An empty player
// matches everyone.
func (s *Store) RecentRounds(player string, limit int) ([]RoundRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT round_id, game_id, player, score, class, ticks, created_at
		 FROM rounds
		 WHERE ? = '' OR player = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		player, player, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query rounds: %w", err)
	}
	defer rows.Close()

	var out []RoundRecord
	for rows.Next() {
		var r RoundRecord
		var createdAt any
		if err := rows.Scan(&r.RoundID, &r.GameID, &r.Player, &r.Score, &r.Class, &r.Ticks, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// GameStats contains aggregated statistics for a game.
type GameStats struct {
	GameID     string
	Rounds     int
	Wins       int
	Losses     int
	Ties       int
	LastPlayed time.Time
}

// GetAllGamesStats aggregates the round history per game.
func (s *Store) GetAllGamesStats() (map[string]*GameStats, error) {
	rows, err := s.db.Query(
		`SELECT game_id, COUNT(*),
		        SUM(CASE WHEN class = 'win' THEN 1 ELSE 0 END),
		        SUM(CASE WHEN class = 'lose' THEN 1 ELSE 0 END),
		        SUM(CASE WHEN class = 'tie' THEN 1 ELSE 0 END),
		        MAX(created_at)
		 FROM rounds
		 GROUP BY game_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all games stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*GameStats)
	for rows.Next() {
		var st GameStats
		var lastPlayed any
		if err := rows.Scan(&st.GameID, &st.Rounds, &st.Wins, &st.Losses, &st.Ties, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.GameID] = &st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// parseTime handles both driver-decoded times and SQLite's text form.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}
