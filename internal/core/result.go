package core

// Classification is the verdict of a finished round from player one's seat.
type Classification string

const (
	Win  Classification = "win"
	Lose Classification = "lose"
	Tie  Classification = "tie"
)

// Result is the terminal output of a round. It is a value type: whoever
// receives one holds an immutable snapshot.
type Result struct {
	RoundID string
	GameID  string
	Score   int
	Class   Classification
	Ticks   int
}

// Reporter receives exactly one Result per round.
type Reporter interface {
	Report(res Result)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(res Result)

// Report calls f(res).
func (f ReporterFunc) Report(res Result) { f(res) }

// ScoreListener receives live score changes while a round runs.
type ScoreListener interface {
	ScoreUpdate(gameID string, score int)
}

// Message types understood by the hub.
const (
	MessageGameEnd     = "game_end"
	MessageScoreUpdate = "score_update"
)

// Message is the hub handoff payload.
type Message struct {
	Type   string `json:"type"`
	Score  int    `json:"score"`
	GameID string `json:"gameId,omitempty"`
}

// GameEndMessage builds the handoff for a finished round.
func GameEndMessage(res Result) Message {
	return Message{Type: MessageGameEnd, Score: res.Score, GameID: res.GameID}
}

// ScoreUpdateMessage builds a live score message.
func ScoreUpdateMessage(score int) Message {
	return Message{Type: MessageScoreUpdate, Score: score}
}
