package main

import (
	"context"
	"testing"

	"barkboard/internal/board"
	"barkboard/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["status"])
}

func TestBuildStackWithoutWallet(t *testing.T) {
	cfg := &config.AppConfig{}
	st, err := buildStack(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer st.Close(zap.NewNop())

	assert.Nil(t, st.provider)
	assert.False(t, st.client.HasProvider())
}

func TestBuildStackDemo(t *testing.T) {
	demo = true
	t.Cleanup(func() { demo = false })

	st, err := buildStack(context.Background(), &config.AppConfig{}, zap.NewNop())
	require.NoError(t, err)
	defer st.Close(zap.NewNop())

	ctx := context.Background()
	page, err := st.client.RequestConnection(ctx, board.NewState())
	require.NoError(t, err)
	assert.Equal(t, demoAccount.Hex(), page.Account)

	page, err = st.client.SubmitMeow(ctx, page, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalMeows)
	require.Len(t, page.Interactions, 1)
	assert.Equal(t, "Mee-ow!", page.Interactions[0].Message)
}
