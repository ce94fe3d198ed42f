package main

import (
	"context"
	"os"
	"time"

	"barkboard/internal/board"
	"barkboard/internal/view"

	"github.com/spf13/cobra"
)

var statusTimeout time.Duration

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the board as a freshly loaded page would show it",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		cfg, err := loadConfig(log)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), statusTimeout)
		defer cancel()

		st, err := buildStack(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer st.Close(log)

		state := st.client.CheckExistingSession(ctx, board.NewState())
		return view.Text(os.Stdout, view.Page(state))
	},
}

func init() {
	statusCmd.Flags().DurationVar(&statusTimeout, "timeout", 30*time.Second, "Give up on the chain after this long")
}
