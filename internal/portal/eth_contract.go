package portal

import (
	"context"
	"math/big"
	"strings"
	"time"

	"barkboard/internal/contracts"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var (
	ErrReadOnly    = errors.New("contract is read-only")
	ErrReverted    = errors.New("transaction reverted")
	ErrUnknownKind = errors.New("unknown interaction kind")
	ErrEmptyResult = errors.New("empty call result")
)

// Backend is the transport a bound contract needs: calls, transactions and
// receipt lookups. *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	receiptFetcher
}

// EthContract talks to a deployed WavePortal through go-ethereum.
type EthContract struct {
	backend      Backend
	contract     *bind.BoundContract
	transacts    *bind.TransactOpts
	pollInterval time.Duration
}

var parsedABI = mustParseABI()

func mustParseABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(contracts.WavePortalABI))
	if err != nil {
		panic("portal: parse abi: " + err.Error())
	}
	return parsed
}

// NewEthContract binds address on backend. A nil transactor gives a read-only
// contract; Send then fails with ErrReadOnly.
func NewEthContract(backend Backend, address common.Address, transacts *bind.TransactOpts, pollInterval time.Duration) *EthContract {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &EthContract{
		backend:      backend,
		contract:     bind.NewBoundContract(address, parsedABI, backend, backend, backend),
		transacts:    transacts,
		pollInterval: pollInterval,
	}
}

func (c *EthContract) Send(ctx context.Context, kind Kind, message string) (common.Hash, error) {
	if c.transacts == nil {
		return common.Hash{}, ErrReadOnly
	}
	if !kind.Valid() {
		return common.Hash{}, errors.Wrapf(ErrUnknownKind, "%q", kind)
	}

	opts := *c.transacts
	opts.Context = ctx

	tx, err := c.contract.Transact(&opts, kind.sendMethod(), message)
	if err != nil {
		return common.Hash{}, errors.Wrapf(err, "%s tx", kind)
	}
	return tx.Hash(), nil
}

func (c *EthContract) WaitMined(ctx context.Context, tx common.Hash) error {
	receipt, err := WaitForReceipt(ctx, c.backend, tx, c.pollInterval)
	if err != nil {
		return err
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return errors.Wrapf(ErrReverted, "tx %s", tx.Hex())
	}
	return nil
}

func (c *EthContract) Total(ctx context.Context, kind Kind) (*big.Int, error) {
	if !kind.Valid() {
		return nil, errors.Wrapf(ErrUnknownKind, "%q", kind)
	}

	var out []interface{}
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, kind.totalMethod()); err != nil {
		return nil, errors.Wrapf(err, "call %s", kind.totalMethod())
	}
	if len(out) == 0 {
		return nil, errors.Wrap(ErrEmptyResult, kind.totalMethod())
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

func (c *EthContract) AllInteractions(ctx context.Context) ([]RawInteraction, error) {
	var out []interface{}
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getAllInteractions"); err != nil {
		return nil, errors.Wrap(err, "call getAllInteractions")
	}
	if len(out) == 0 {
		return nil, errors.Wrap(ErrEmptyResult, "getAllInteractions")
	}
	return *abi.ConvertType(out[0], new([]RawInteraction)).(*[]RawInteraction), nil
}
