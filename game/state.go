package game

// State is the round state driven by the scene
type State uint8

const (
	StatePlaying State = iota
	StateDead
	StateWon
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateDead:
		return "dead"
	case StateWon:
		return "won"
	}
	return "unknown"
}
