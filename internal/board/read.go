package board

import (
	"context"

	"barkboard/internal/portal"

	"go.uber.org/zap"
)

func (c *Client) ReadTotalBarks(ctx context.Context) int64 { return c.ReadTotal(ctx, portal.Bark) }

func (c *Client) ReadTotalMeows(ctx context.Context) int64 { return c.ReadTotal(ctx, portal.Meow) }

// ReadTotal returns the contract's count for kind, or Unknown on any failure.
func (c *Client) ReadTotal(ctx context.Context, kind portal.Kind) int64 {
	log := c.log.With(zap.Stringer("kind", kind))
	if c.provider == nil {
		log.Debug("wallet provider missing, total unknown")
		return Unknown
	}

	contract, err := c.provider.Contract(ctx)
	if err != nil {
		log.Warn("open contract", zap.Error(err))
		return Unknown
	}
	raw, err := contract.Total(ctx, kind)
	if err != nil {
		log.Warn("read total", zap.Error(err))
		return Unknown
	}
	n, err := toCount(raw)
	if err != nil {
		log.Warn("read total", zap.Error(err))
		return Unknown
	}
	return n
}

// ReadAllInteractions fetches the full history in the contract's order.
func (c *Client) ReadAllInteractions(ctx context.Context) ([]Interaction, error) {
	if c.provider == nil {
		c.log.Debug("wallet provider missing, history not loaded")
		return nil, ErrNoProvider
	}

	contract, err := c.provider.Contract(ctx)
	if err != nil {
		c.log.Warn("open contract", zap.Error(err))
		return nil, err
	}
	raw, err := contract.AllInteractions(ctx)
	if err != nil {
		c.log.Warn("read interactions", zap.Error(err))
		return nil, err
	}
	return fromRaw(raw), nil
}

// RefreshHistory replaces the whole history with a fresh read. A failed read
// keeps the previous history.
func (c *Client) RefreshHistory(ctx context.Context, st State) State {
	interactions, err := c.ReadAllInteractions(ctx)
	if err != nil {
		return st
	}
	st.Interactions = interactions
	return st
}
