// Package board keeps a page's view of the bark/meow board in step with the
// contract. Every operation takes the current State and returns the next one;
// counters and history are only ever replaced by values read from the chain.
package board

import (
	"time"

	"barkboard/internal/portal"
)

// Unknown marks a counter that has not been loaded or whose read failed.
const Unknown int64 = -1

// Interaction is one recorded bark or meow.
type Interaction struct {
	Address         string    `json:"address"`
	InteractionType string    `json:"interactionType"`
	Message         string    `json:"message"`
	Timestamp       time.Time `json:"timestamp"`
}

// State is everything the page shows.
type State struct {
	Account      string        `json:"account"`
	TotalBarks   int64         `json:"totalBarks"`
	TotalMeows   int64         `json:"totalMeows"`
	Interactions []Interaction `json:"interactions"`
	Draft        string        `json:"draft"`
	// Alert is shown once and then cleared by the page owner.
	Alert string `json:"alert,omitempty"`
}

// NewState is the state of a freshly loaded page.
func NewState() State {
	return State{
		TotalBarks:   Unknown,
		TotalMeows:   Unknown,
		Interactions: []Interaction{},
	}
}

func (s State) Connected() bool { return s.Account != "" }

func (s State) CountersLoaded() bool {
	return s.TotalBarks >= 0 && s.TotalMeows >= 0
}

// ShowSummary reports whether the "N barks and M meows" line is displayed.
func (s State) ShowSummary() bool {
	return s.Connected() && s.CountersLoaded()
}

func (s State) withTotal(kind portal.Kind, n int64) State {
	switch kind {
	case portal.Bark:
		s.TotalBarks = n
	case portal.Meow:
		s.TotalMeows = n
	}
	return s
}

func fromRaw(raw []portal.RawInteraction) []Interaction {
	out := make([]Interaction, 0, len(raw))
	for _, r := range raw {
		out = append(out, Interaction{
			Address:         r.Waver.Hex(),
			InteractionType: r.InteractionType,
			Message:         r.Message,
			Timestamp:       r.Time(),
		})
	}
	return out
}
