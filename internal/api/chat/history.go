package chat

import (
	"strings"

	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/types"
)

// History holds the completed turns of one conversation.
type History struct {
	turns []types.ChatTurn
}

func (h *History) Add(question, answer string) {
	h.turns = append(h.turns, types.ChatTurn{Question: question, Answer: answer})
}

func (h *History) Turns() []types.ChatTurn {
	return append([]types.ChatTurn(nil), h.turns...)
}

// Text renders "Q: <question>\nA: <answer>" per turn, joined by newlines.
func (h *History) Text() string {
	parts := make([]string, 0, len(h.turns))
	for _, t := range h.turns {
		parts = append(parts, "Q: "+t.Question+"\nA: "+t.Answer)
	}
	return strings.Join(parts, "\n")
}
