// Package hub is the arcade shell around the games: it logs players in,
// keeps their token wallet, charges for each play and turns finished
// rounds into leaderboard entries and token awards.
package hub

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arcade-hub/internal/core"
	"github.com/vovakirdan/arcade-hub/internal/registry"
	"github.com/vovakirdan/arcade-hub/internal/storage"
)

// Domain refusals.
var (
	ErrNotLoggedIn = errors.New("hub: no player logged in")
	ErrNoTokens    = errors.New("hub: you need tokens to play, come back tomorrow for a free token")
	ErrEmptyName   = errors.New("hub: please enter a valid username")
	ErrUnknownGame = errors.New("hub: unknown game")
)

const currentPlayerKey = "current_player"

// Feed receives hub messages for live spectators.
type Feed interface {
	Broadcast(msg core.Message)
}

// Options tune the token policy. Zero values take the defaults.
type Options struct {
	StartTokens int
	MaxTokens   int
	DailyBonus  int
	PlayCost    int

	Now    func() time.Time
	Logger *log.Logger
	Feed   Feed
}

func (o Options) withDefaults() Options {
	if o.StartTokens <= 0 {
		o.StartTokens = 3
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = 10
	}
	if o.DailyBonus < 0 {
		o.DailyBonus = 0
	} else if o.DailyBonus == 0 {
		o.DailyBonus = 1
	}
	if o.PlayCost <= 0 {
		o.PlayCost = 1
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "hub"})
	}
	return o
}

// Session is the game a player paid for.
type Session struct {
	GameID  string
	Variant core.Variant
	Started time.Time
}

// Award summarises what a finished round earned.
type Award struct {
	GameID    string
	Score     int
	ScoreType registry.ScoreType
	Class     core.Classification
	Rank      int // 1-based leaderboard rank, 0 if not placed or not recorded
	Tokens    int
	Unlocked  int // level unlocked by this round, 0 if none
}

// Summary is the game-over text shown to the player.
func (a Award) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Final Score: %s", FormatScore(a.Score, a.ScoreType))
	if a.Rank > 0 {
		fmt.Fprintf(&b, "\nLeaderboard Rank: #%d", a.Rank)
	}
	if a.Tokens > 0 {
		fmt.Fprintf(&b, "\nTokens Earned: %d", a.Tokens)
	}
	if a.Unlocked > 0 {
		fmt.Fprintf(&b, "\nLevel %d unlocked", a.Unlocked)
	}
	return b.String()
}

// Hub holds one player's view of the arcade. It is safe for concurrent use.
type Hub struct {
	store *storage.Store
	opts  Options
	log   *log.Logger

	mu      sync.Mutex
	player  string
	tokens  int
	session *Session
	last    *Award
}

// New creates a hub on top of store.
func New(store *storage.Store, opts Options) *Hub {
	opts = opts.withDefaults()
	return &Hub{
		store:  store,
		opts:   opts,
		log:    opts.Logger,
		tokens: opts.StartTokens,
	}
}

func (h *Hub) today() string {
	return h.opts.Now().Format("2006-01-02")
}

// Resume restores the player remembered from the last run and grants the
// daily token if this is their first visit today. It returns the player
// name, or "" if nobody was logged in.
func (h *Hub) Resume() (string, error) {
	name, err := h.store.Setting(currentPlayerKey)
	if err != nil {
		return "", fmt.Errorf("hub: cannot resume: %w", err)
	}
	if name == "" {
		return "", nil
	}
	return name, h.enter(name, true)
}

// Login switches to player name. A returning player gets the daily token
// on their first login of a new day; a new player starts with the default
// wallet.
func (h *Hub) Login(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if err := h.enter(name, true); err != nil {
		return err
	}
	if err := h.store.SetSetting(currentPlayerKey, name); err != nil {
		return fmt.Errorf("hub: cannot remember player: %w", err)
	}
	return nil
}

// LoginSession logs name in without remembering them for the next run.
// SSH sessions use it so concurrent users don't overwrite each other.
func (h *Hub) LoginSession(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	return h.enter(name, true)
}

func (h *Hub) enter(name string, daily bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	today := h.today()
	p, err := h.store.Player(name)
	switch {
	case errors.Is(err, storage.ErrNoPlayer):
		p = storage.Player{Name: name, Tokens: h.opts.StartTokens, LastLogin: today}
	case err != nil:
		return fmt.Errorf("hub: cannot load player: %w", err)
	case daily && p.LastLogin != today:
		p.Tokens = min(p.Tokens+h.opts.DailyBonus, h.opts.MaxTokens)
		p.LastLogin = today
		h.log.Info("daily token", "player", name, "tokens", p.Tokens)
	}

	if err := h.store.SavePlayer(p); err != nil {
		return fmt.Errorf("hub: cannot save player: %w", err)
	}
	h.player = p.Name
	h.tokens = p.Tokens
	h.session = nil
	h.log.Info("login", "player", name, "tokens", p.Tokens)
	return nil
}

// Logout forgets the current player and their wallet.
func (h *Hub) Logout() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.player != "" {
		if err := h.store.DeletePlayer(h.player); err != nil {
			return fmt.Errorf("hub: cannot logout: %w", err)
		}
		h.log.Info("logout", "player", h.player)
	}
	if err := h.store.SetSetting(currentPlayerKey, ""); err != nil {
		return fmt.Errorf("hub: cannot logout: %w", err)
	}
	h.player = ""
	h.tokens = h.opts.StartTokens
	h.session = nil
	h.last = nil
	return nil
}

// Player returns the logged-in player, "" if none.
func (h *Hub) Player() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.player
}

// Tokens returns the wallet balance.
func (h *Hub) Tokens() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.tokens
}

// CanPlay reports whether the player can afford a game.
func (h *Hub) CanPlay() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.player != "" && h.tokens >= h.opts.PlayCost
}

// StartGame charges a token and opens a session for gameID.
func (h *Hub) StartGame(gameID string, v core.Variant) error {
	if !registry.Exists(gameID) {
		return fmt.Errorf("%w: %s", ErrUnknownGame, gameID)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.player == "" {
		return ErrNotLoggedIn
	}
	if h.tokens < h.opts.PlayCost {
		return ErrNoTokens
	}
	h.tokens -= h.opts.PlayCost
	if err := h.saveLocked(); err != nil {
		h.tokens += h.opts.PlayCost
		return err
	}
	h.session = &Session{GameID: gameID, Variant: v, Started: h.opts.Now()}
	h.last = nil
	h.log.Info("game start", "player", h.player, "game", gameID, "mode", v.Mode, "tokens", h.tokens)
	return nil
}

// Session returns the running session, if any.
func (h *Hub) Session() (Session, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.session == nil {
		return Session{}, false
	}
	return *h.session, true
}

// EndSession closes the running session without a result, e.g. when the
// player quits mid-round. The token is not refunded.
func (h *Hub) EndSession() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.session = nil
}

// Grant adds n tokens, capped at the maximum.
func (h *Hub) Grant(n int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.player == "" {
		return ErrNotLoggedIn
	}
	h.tokens = min(h.tokens+n, h.opts.MaxTokens)
	return h.saveLocked()
}

// ResetTokens puts the wallet back to the starting balance.
func (h *Hub) ResetTokens() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.player == "" {
		return ErrNotLoggedIn
	}
	h.tokens = h.opts.StartTokens
	return h.saveLocked()
}

func (h *Hub) saveLocked() error {
	err := h.store.SavePlayer(storage.Player{Name: h.player, Tokens: h.tokens, LastLogin: h.today()})
	if err != nil {
		return fmt.Errorf("hub: cannot save wallet: %w", err)
	}
	return nil
}

// UnlockedLevel returns the highest level the player may start in gameID.
func (h *Hub) UnlockedLevel(gameID string) int {
	player := h.Player()
	if player == "" {
		return 1
	}
	lvl, err := h.store.HighestLevel(player, gameID)
	if err != nil {
		h.log.Warn("level progress", "err", err)
		return 1
	}
	return lvl
}

// LastAward returns the award of the most recent finished round.
func (h *Hub) LastAward() (Award, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.last == nil {
		return Award{}, false
	}
	return *h.last, true
}

// Report handles the end of a round: it records the round, places the
// score on the leaderboard, pays out tokens and tells the feed. Only a
// result for the open paid session counts, and it closes that session,
// so one token buys at most one payout.
func (h *Hub) Report(res core.Result) {
	h.broadcast(core.GameEndMessage(res))

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.player == "" {
		h.log.Warn("result without player", "game", res.GameID, "score", res.Score)
		return
	}
	s := h.session
	if s == nil || s.GameID != res.GameID {
		h.log.Warn("result without session", "game", res.GameID, "score", res.Score)
		return
	}

	if err := h.store.SaveRound(storage.RoundRecord{
		RoundID: res.RoundID,
		GameID:  res.GameID,
		Player:  h.player,
		Score:   res.Score,
		Class:   string(res.Class),
		Ticks:   res.Ticks,
	}); err != nil {
		h.log.Error("save round", "err", err)
	}

	info, ok := registry.Info(res.GameID)
	if !ok {
		h.log.Warn("result for unknown game", "game", res.GameID)
		return
	}

	award := Award{GameID: res.GameID, Score: res.Score, ScoreType: info.ScoreType, Class: res.Class}
	if recordable(res, info.ScoreType) {
		rank, err := h.store.AddScore(storage.ScoreEntry{
			GameID:    res.GameID,
			Player:    h.player,
			Score:     res.Score,
			ScoreType: string(info.ScoreType),
			CreatedAt: h.opts.Now(),
		})
		if err != nil {
			h.log.Error("save score", "err", err)
		} else {
			award.Rank = rank
			award.Tokens = TokensForRank(rank, info.TokensOnWin)
		}
	}

	if award.Tokens > 0 {
		h.tokens = min(h.tokens+award.Tokens, h.opts.MaxTokens)
		if err := h.saveLocked(); err != nil {
			h.log.Error("save wallet", "err", err)
		}
	}

	if res.Class == core.Win && s.Variant.Level > 0 {
		next := s.Variant.Level + 1
		if err := h.store.UnlockLevel(h.player, res.GameID, next); err != nil {
			h.log.Error("unlock level", "err", err)
		} else {
			award.Unlocked = next
		}
	}

	h.session = nil
	h.last = &award
	h.log.Info("game end",
		"player", h.player,
		"game", res.GameID,
		"score", res.Score,
		"class", res.Class,
		"rank", award.Rank,
		"earned", award.Tokens,
		"tokens", h.tokens,
	)
}

// ScoreUpdate forwards live scores to the feed. The wire message carries
// only the score.
func (h *Hub) ScoreUpdate(_ string, score int) {
	h.broadcast(core.ScoreUpdateMessage(score))
}

func (h *Hub) broadcast(msg core.Message) {
	if h.opts.Feed != nil {
		h.opts.Feed.Broadcast(msg)
	}
}

// recordable reports whether a result belongs on the leaderboard. Time
// boards rank reaction times, so losses and empty times stay off them.
func recordable(res core.Result, st registry.ScoreType) bool {
	if st == registry.ScoreTime {
		return res.Class != core.Lose && res.Score > 0
	}
	return true
}

// TokensForRank is the payout for a leaderboard placement: the full
// tokensOnWin for the podium, half (rounded down) for 4th and 5th.
func TokensForRank(rank, tokensOnWin int) int {
	switch {
	case rank >= 1 && rank <= 3:
		return tokensOnWin
	case rank >= 4 && rank <= 5:
		return tokensOnWin / 2
	}
	return 0
}
