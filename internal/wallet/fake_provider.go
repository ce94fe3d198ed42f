package wallet

import (
	"context"
	"sync"

	"barkboard/internal/portal"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
)

// FakeProvider authorizes a fixed account and hands out an in-memory
// contract. It backs demo mode and tests.
type FakeProvider struct {
	Account  common.Address
	Board    portal.Contract
	Rejected bool // RequestAccounts fails as if the user declined
	Err      error

	mu         sync.Mutex
	authorized bool
}

var ErrUserRejected = errors.New("user rejected the request")

func NewFakeProvider(account common.Address, board portal.Contract) *FakeProvider {
	return &FakeProvider{Account: account, Board: board}
}

// Authorize marks the account as already connected, as if a previous visit
// granted access.
func (f *FakeProvider) Authorize() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.authorized = true
}

func (f *FakeProvider) Accounts(context.Context) ([]common.Address, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.authorized {
		return []common.Address{}, nil
	}
	return []common.Address{f.Account}, nil
}

func (f *FakeProvider) RequestAccounts(context.Context) ([]common.Address, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	if f.Rejected {
		return nil, ErrUserRejected
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.authorized = true
	return []common.Address{f.Account}, nil
}

func (f *FakeProvider) Contract(context.Context) (portal.Contract, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Board, nil
}
