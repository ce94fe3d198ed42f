package portal

import (
	"context"
	"crypto/sha256"
	"math/big"
	"strconv"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
)

// FakeContract keeps the board in memory. Sent transactions take effect when
// WaitMined is called for them, mimicking inclusion in a block.
type FakeContract struct {
	Sender common.Address
	Now    func() time.Time

	// Injected failures, returned by the matching call when non-nil.
	SendErr    error
	WaitErr    error
	TotalErr   error
	HistoryErr error

	mu           sync.Mutex
	nonce        uint64
	totals       map[Kind]int64
	interactions []RawInteraction
	pending      map[common.Hash]RawInteraction
	sent         []string
}

func NewFakeContract(sender common.Address) *FakeContract {
	return &FakeContract{
		Sender:  sender,
		totals:  make(map[Kind]int64),
		pending: make(map[common.Hash]RawInteraction),
	}
}

// Seed records an already-mined interaction.
func (f *FakeContract) Seed(kind Kind, from common.Address, message string, at time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.totals[kind]++
	f.interactions = append(f.interactions, RawInteraction{
		Waver:           from,
		InteractionType: string(kind),
		Message:         message,
		Timestamp:       big.NewInt(at.Unix()),
	})
}

// SetTotal overrides the count reported for kind.
func (f *FakeContract) SetTotal(kind Kind, n int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.totals[kind] = n
}

// Sent returns every message passed to Send, in order.
func (f *FakeContract) Sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func (f *FakeContract) Send(_ context.Context, kind Kind, message string) (common.Hash, error) {
	if !kind.Valid() {
		return common.Hash{}, errors.Wrapf(ErrUnknownKind, "%q", kind)
	}
	if f.SendErr != nil {
		return common.Hash{}, f.SendErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.nonce++
	f.sent = append(f.sent, message)
	hash := common.Hash(sha256.Sum256([]byte(f.Sender.Hex() + strconv.FormatUint(f.nonce, 10) + message)))
	f.pending[hash] = RawInteraction{
		Waver:           f.Sender,
		InteractionType: string(kind),
		Message:         message,
		Timestamp:       big.NewInt(f.now().Unix()),
	}
	return hash, nil
}

func (f *FakeContract) WaitMined(_ context.Context, tx common.Hash) error {
	if f.WaitErr != nil {
		return f.WaitErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.pending[tx]
	if !ok {
		return errors.Newf("unknown tx %s", tx.Hex())
	}
	delete(f.pending, tx)
	f.totals[Kind(rec.InteractionType)]++
	f.interactions = append(f.interactions, rec)
	return nil
}

func (f *FakeContract) Total(_ context.Context, kind Kind) (*big.Int, error) {
	if !kind.Valid() {
		return nil, errors.Wrapf(ErrUnknownKind, "%q", kind)
	}
	if f.TotalErr != nil {
		return nil, f.TotalErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return big.NewInt(f.totals[kind]), nil
}

func (f *FakeContract) AllInteractions(context.Context) ([]RawInteraction, error) {
	if f.HistoryErr != nil {
		return nil, f.HistoryErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RawInteraction(nil), f.interactions...), nil
}

func (f *FakeContract) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}
