package board

import (
	"context"

	"barkboard/internal/portal"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// CheckExistingSession adopts an account the wallet already authorized for
// this origin, without prompting, and loads counters and history for it.
func (c *Client) CheckExistingSession(ctx context.Context, st State) State {
	if c.provider == nil {
		c.log.Info("no wallet provider found, staying disconnected")
		return st
	}
	c.log.Debug("wallet provider found")

	accounts, err := c.provider.Accounts(ctx)
	if err != nil {
		c.log.Warn("list authorized accounts", zap.Error(err))
		return st
	}
	if len(accounts) == 0 {
		c.log.Info("no authorized account found")
		return st
	}

	st.Account = accounts[0].Hex()
	c.log.Info("authorized account found", zap.String("account", st.Account))
	return c.Refresh(ctx, st)
}

// Connection is the outcome of an explicit connect.
type Connection struct {
	Account string
	// Refreshed is set when the connect also reloaded counters and history.
	Refreshed  bool
	TotalBarks int64
	TotalMeows int64
	// Interactions is nil when no history was read.
	Interactions []Interaction
}

// Apply writes the fields a connect owns onto st: the account and, when the
// connect refreshed them, the counters and history.
func (c Connection) Apply(st State) State {
	st.Account = c.Account
	if c.Refreshed {
		st.TotalBarks = c.TotalBarks
		st.TotalMeows = c.TotalMeows
		if c.Interactions != nil {
			st.Interactions = c.Interactions
		}
	}
	return st
}

// RequestConnection asks the wallet for access. Without a provider the
// returned state carries MissingProviderAlert; any other failure leaves the
// state untouched.
func (c *Client) RequestConnection(ctx context.Context, st State) (State, error) {
	conn, err := c.Connect(ctx)
	if errors.Is(err, ErrNoProvider) {
		st.Alert = MissingProviderAlert
		return st, err
	}
	if err != nil {
		return st, err
	}
	return conn.Apply(st), nil
}

// Connect runs the wallet side of an explicit connect without touching any
// page state.
func (c *Client) Connect(ctx context.Context) (Connection, error) {
	if c.provider == nil {
		c.log.Info("connect requested without a wallet provider")
		return Connection{}, ErrNoProvider
	}

	accounts, err := c.provider.RequestAccounts(ctx)
	if err != nil {
		c.log.Warn("request accounts", zap.Error(err))
		return Connection{}, err
	}
	if len(accounts) == 0 {
		c.log.Warn("request accounts", zap.Error(ErrNoAccounts))
		return Connection{}, ErrNoAccounts
	}

	conn := Connection{Account: accounts[0].Hex()}
	c.log.Info("connected", zap.String("account", conn.Account))
	if c.cfg.RefreshOnConnect {
		conn.Refreshed = true
		conn.TotalBarks = c.ReadTotal(ctx, portal.Bark)
		conn.TotalMeows = c.ReadTotal(ctx, portal.Meow)
		if interactions, err := c.ReadAllInteractions(ctx); err == nil {
			conn.Interactions = interactions
		}
	}
	return conn, nil
}
