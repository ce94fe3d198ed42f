// Package portal binds the WavePortal board contract.
package portal

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Kind selects one of the two interaction types the contract records.
type Kind string

const (
	Bark Kind = "bark"
	Meow Kind = "meow"
)

// DefaultMessage is sent when the user leaves the message empty.
func (k Kind) DefaultMessage() string {
	switch k {
	case Bark:
		return "Roof!"
	case Meow:
		return "Mee-ow!"
	}
	return ""
}

// Valid reports whether k is a kind the contract understands.
func (k Kind) Valid() bool {
	return k == Bark || k == Meow
}

func (k Kind) String() string { return string(k) }

func (k Kind) sendMethod() string { return string(k) }

func (k Kind) totalMethod() string {
	switch k {
	case Bark:
		return "getTotalBarks"
	case Meow:
		return "getTotalMeows"
	}
	return ""
}

// Contract abstracts the on-chain board.
type Contract interface {
	// Send submits a bark or meow transaction and returns its hash without
	// waiting for it to be mined.
	Send(ctx context.Context, kind Kind, message string) (common.Hash, error)
	// WaitMined blocks until the transaction is included or ctx ends.
	WaitMined(ctx context.Context, tx common.Hash) error
	Total(ctx context.Context, kind Kind) (*big.Int, error)
	AllInteractions(ctx context.Context) ([]RawInteraction, error)
}

// RawInteraction mirrors the contract's Interaction struct.
type RawInteraction struct {
	Waver           common.Address
	InteractionType string
	Message         string
	Timestamp       *big.Int
}

// Time converts the on-chain seconds-since-epoch timestamp.
func (r RawInteraction) Time() time.Time {
	if r.Timestamp == nil || !r.Timestamp.IsInt64() {
		return time.Time{}
	}
	return time.Unix(r.Timestamp.Int64(), 0)
}
