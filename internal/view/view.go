// Package view turns a board.State into what the visitor sees.
package view

import (
	"fmt"

	"barkboard/internal/board"
)

const (
	Title       = "Justin Singh's Message Board"
	Bio         = "Leave a message on the Rinkeby Testnet!"
	Placeholder = "Add some text to your message!"

	timeLayout = "Mon Jan 02 2006 15:04:05 GMT-0700 (MST)"
)

// Model is the render-ready page. Empty Summary hides the summary line.
type Model struct {
	Title        string
	Bio          string
	Placeholder  string
	Draft        string
	ShowConnect  bool
	Summary      string
	Interactions []Interaction
	Alert        string
}

type Interaction struct {
	Address string
	Time    string
	Type    string
	Message string
}

// Page is a pure function of state.
func Page(st board.State) Model {
	m := Model{
		Title:        Title,
		Bio:          Bio,
		Placeholder:  Placeholder,
		Draft:        st.Draft,
		ShowConnect:  !st.Connected(),
		Alert:        st.Alert,
		Interactions: make([]Interaction, 0, len(st.Interactions)),
	}
	if st.ShowSummary() {
		m.Summary = Summary(st.TotalBarks, st.TotalMeows)
	}
	for _, in := range st.Interactions {
		m.Interactions = append(m.Interactions, Interaction{
			Address: in.Address,
			Time:    in.Timestamp.Format(timeLayout),
			Type:    in.InteractionType,
			Message: in.Message,
		})
	}
	return m
}

func Summary(barks, meows int64) string {
	return fmt.Sprintf("%d barks and %d meows sent to Justin!", barks, meows)
}
