package view

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"barkboard/internal/board"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedState() board.State {
	st := board.NewState()
	st.Account = "0xABC"
	st.TotalBarks = 3
	st.TotalMeows = 1
	st.Interactions = []board.Interaction{
		{Address: "0x111", InteractionType: "bark", Message: "first", Timestamp: time.Unix(1_700_000_000, 0).UTC()},
		{Address: "0x222", InteractionType: "meow", Message: "second", Timestamp: time.Unix(1_700_000_060, 0).UTC()},
	}
	return st
}

func TestPageLoaded(t *testing.T) {
	m := Page(loadedState())

	assert.False(t, m.ShowConnect)
	assert.Equal(t, "3 barks and 1 meows sent to Justin!", m.Summary)
	require.Len(t, m.Interactions, 2)
	assert.Equal(t, "first", m.Interactions[0].Message)
	assert.Equal(t, "Tue Nov 14 2023 22:13:20 GMT+0000 (UTC)", m.Interactions[0].Time)
	assert.Equal(t, "second", m.Interactions[1].Message)
}

func TestPageHidesSummaryUntilCountersLoad(t *testing.T) {
	st := loadedState()
	st.TotalMeows = board.Unknown
	assert.Empty(t, Page(st).Summary)

	fresh := Page(board.NewState())
	assert.True(t, fresh.ShowConnect)
	assert.Empty(t, fresh.Summary)
	assert.Empty(t, fresh.Interactions)
}

func TestRenderHTML(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	st := loadedState()
	st.Draft = "<b>draft</b>"

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, Page(st)))
	html := buf.String()

	assert.Contains(t, html, "3 barks and 1 meows sent to Justin!")
	assert.NotContains(t, html, "Connect Wallet")
	assert.Contains(t, html, "&lt;b&gt;draft&lt;/b&gt;")
	assert.Less(t, strings.Index(html, "Message: first"), strings.Index(html, "Message: second"))
	assert.NotContains(t, html, "alert(")
}

func TestRenderHTMLAlertAndConnect(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	st := board.NewState()
	st.Alert = board.MissingProviderAlert

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, Page(st)))
	html := buf.String()

	assert.Contains(t, html, "Connect Wallet")
	assert.Contains(t, html, "alert(")
	assert.NotContains(t, html, "sent to Justin!")
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, Page(loadedState())))

	out := buf.String()
	assert.Contains(t, out, "3 barks and 1 meows sent to Justin!")
	assert.Contains(t, out, "Message: first")
	assert.Contains(t, out, "Message: second")
}

// shortWriter accepts n writes and fails the rest.
type shortWriter struct{ n int }

func (w *shortWriter) Write(p []byte) (int, error) {
	if w.n == 0 {
		return 0, io.ErrShortWrite
	}
	w.n--
	return len(p), nil
}

func TestTextReportsWriteErrors(t *testing.T) {
	m := Page(loadedState())
	for n := 0; n < 3; n++ {
		err := Text(&shortWriter{n: n}, m)
		assert.ErrorIs(t, err, io.ErrShortWrite, "failing write %d", n)
	}
}
