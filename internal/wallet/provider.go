// Package wallet is the provider boundary between the board and the chain:
// account discovery, account authorization and a signing transport for the
// board contract.
package wallet

import (
	"context"

	"barkboard/internal/portal"

	"github.com/ethereum/go-ethereum/common"
)

// Provider mirrors what an injected EIP-1193 wallet offers a page.
type Provider interface {
	// Accounts lists accounts already authorized for this origin without
	// prompting (eth_accounts).
	Accounts(ctx context.Context) ([]common.Address, error)
	// RequestAccounts asks for authorization and returns the granted accounts
	// (eth_requestAccounts).
	RequestAccounts(ctx context.Context) ([]common.Address, error)
	// Contract returns a fresh signing binding to the board contract.
	Contract(ctx context.Context) (portal.Contract, error)
}

// HealthChecker is implemented by providers that can probe their transport.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
