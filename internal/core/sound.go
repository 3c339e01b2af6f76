package core

// Sound is a sound-effect hint a game raises during a tick. Like Color,
// the platform decides how it is actually played.
type Sound uint8

const (
	SoundNone Sound = iota
	SoundGo         // a reaction cue, e.g. "GO!"
	SoundRoll       // dice leave the hand
)
