package board

import (
	"context"

	"barkboard/internal/portal"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Submission is what a confirmed bark or meow read back from the chain.
type Submission struct {
	Kind  portal.Kind
	Total int64
	// Interactions is nil when the history read after mining failed.
	Interactions []Interaction
}

// Apply writes the fields a submission owns onto st: its kind's counter, the
// draft and, when it was read, the history. Everything else is left as is, so
// a submission never rolls back what an overlapping operation committed.
func (s Submission) Apply(st State) State {
	st = st.withTotal(s.Kind, s.Total)
	st.Draft = ""
	if s.Interactions != nil {
		st.Interactions = s.Interactions
	}
	return st
}

func (c *Client) SubmitBark(ctx context.Context, st State, text string) (State, error) {
	return c.Submit(ctx, st, portal.Bark, text)
}

func (c *Client) SubmitMeow(ctx context.Context, st State, text string) (State, error) {
	return c.Submit(ctx, st, portal.Meow, text)
}

// Submit sends a bark or meow and waits for it to be mined. On success the
// kind's counter is re-read from the contract, the draft is cleared and the
// history reloaded. On failure st is returned as given.
func (c *Client) Submit(ctx context.Context, st State, kind portal.Kind, text string) (State, error) {
	sub, err := c.Send(ctx, kind, text)
	if err != nil {
		return st, err
	}
	return sub.Apply(st), nil
}

// Send runs the chain side of a submission without touching any page state.
// An empty text is replaced by the kind's default message.
func (c *Client) Send(ctx context.Context, kind portal.Kind, text string) (Submission, error) {
	log := c.log.With(zap.Stringer("kind", kind))
	if !kind.Valid() {
		return Submission{}, errors.Wrapf(portal.ErrUnknownKind, "%q", kind)
	}
	if c.provider == nil {
		log.Info("wallet provider missing, nothing sent")
		return Submission{}, ErrNoProvider
	}

	message := text
	if message == "" {
		message = kind.DefaultMessage()
	}

	contract, err := c.provider.Contract(ctx)
	if err != nil {
		log.Warn("open contract", zap.Error(err))
		return Submission{}, errors.Wrap(err, "open contract")
	}

	tx, err := contract.Send(ctx, kind, message)
	if err != nil {
		log.Warn("send transaction", zap.Error(err))
		return Submission{}, err
	}
	log.Info("mining", zap.String("tx", tx.Hex()))

	if err := contract.WaitMined(ctx, tx); err != nil {
		log.Warn("wait for transaction", zap.String("tx", tx.Hex()), zap.Error(err))
		return Submission{}, err
	}
	log.Info("mined", zap.String("tx", tx.Hex()))

	raw, err := contract.Total(ctx, kind)
	if err != nil {
		log.Warn("read total after submit", zap.Error(err))
		return Submission{}, err
	}
	count, err := toCount(raw)
	if err != nil {
		log.Warn("read total after submit", zap.Error(err))
		return Submission{}, err
	}

	sub := Submission{Kind: kind, Total: count}
	if interactions, err := c.ReadAllInteractions(ctx); err == nil {
		sub.Interactions = interactions
	}
	return sub, nil
}
