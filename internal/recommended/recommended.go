package recommended

// Prompt is a starter question offered before the user types anything.
type Prompt struct {
	Icon string `json:"icon"`
	Text string `json:"text"`
}

var starterPrompts = []Prompt{
	{Icon: "coffee", Text: "Recommend a perfect breakfast"},
	{Icon: "pizza", Text: "What's your spiciest dish?"},
	{Icon: "cake", Text: "Surprise me!"},
}

const (
	// RollSize is how many dishes a roll returns.
	RollSize = 3
	// MaxPinned is how many of those the user may keep between rolls.
	MaxPinned = 2
)
