package board

import (
	"context"
	"math/big"

	"barkboard/internal/portal"
	"barkboard/internal/wallet"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

var (
	ErrNoProvider    = errors.New("wallet provider not found")
	ErrNoAccounts    = errors.New("wallet provider returned no accounts")
	ErrCountOverflow = errors.New("count does not fit in int64")
)

// MissingProviderAlert is shown when the visitor asks to connect without a
// wallet available.
const MissingProviderAlert = "Please install MetaMask plugin"

type Config struct {
	// RefreshOnConnect makes an explicit connect reload counters and history,
	// like the silent check on page load does.
	RefreshOnConnect bool
}

// Client runs board operations against a wallet provider. A nil provider is
// the "no wallet installed" condition and is handled by every operation.
type Client struct {
	provider wallet.Provider
	log      *zap.Logger
	cfg      Config
}

func NewClient(provider wallet.Provider, log *zap.Logger, cfg Config) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{provider: provider, log: log, cfg: cfg}
}

// HasProvider reports whether a wallet provider is available.
func (c *Client) HasProvider() bool { return c.provider != nil }

// Refresh reloads both counters and the history.
func (c *Client) Refresh(ctx context.Context, st State) State {
	st.TotalBarks = c.ReadTotal(ctx, portal.Bark)
	st.TotalMeows = c.ReadTotal(ctx, portal.Meow)
	return c.RefreshHistory(ctx, st)
}

func toCount(n *big.Int) (int64, error) {
	if n == nil || n.Sign() < 0 || !n.IsInt64() {
		return Unknown, errors.Wrapf(ErrCountOverflow, "%v", n)
	}
	return n.Int64(), nil
}
