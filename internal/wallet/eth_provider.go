package wallet

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"strings"
	"time"

	"barkboard/internal/grants"
	"barkboard/internal/portal"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// EthProvider signs with a local key over a JSON-RPC node. Authorizations are
// remembered per origin in a grants.Store, the way a browser wallet remembers
// connected sites.
type EthProvider struct {
	client   *ethclient.Client
	key      *ecdsa.PrivateKey
	account  common.Address
	chainID  *big.Int
	contract common.Address
	origin   string
	grants   grants.Store
	poll     time.Duration
	now      func() time.Time
}

type EthProviderConfig struct {
	RPCURL              string
	PrivateKeyHex       string
	ContractAddress     string
	Origin              string
	Grants              grants.Store
	ReceiptPollInterval time.Duration
}

func NewEthProvider(ctx context.Context, cfg EthProviderConfig) (*EthProvider, error) {
	if cfg.RPCURL == "" {
		return nil, errors.New("rpc url is required")
	}
	if !common.IsHexAddress(cfg.ContractAddress) {
		return nil, errors.Newf("invalid contract address %q", cfg.ContractAddress)
	}
	if cfg.PrivateKeyHex == "" {
		return nil, errors.New("private key is required for signing")
	}

	key, err := parsePrivateKey(cfg.PrivateKeyHex)
	if err != nil {
		return nil, err
	}

	cli, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, errors.Wrap(err, "dial rpc")
	}

	chainID, err := cli.ChainID(ctx)
	if err != nil {
		cli.Close()
		return nil, errors.Wrap(err, "fetch chain id")
	}

	p := newKeyedProvider(key, chainID, common.HexToAddress(cfg.ContractAddress), cfg.Origin, cfg.Grants)
	p.client = cli
	p.poll = cfg.ReceiptPollInterval
	return p, nil
}

func newKeyedProvider(key *ecdsa.PrivateKey, chainID *big.Int, contract common.Address, origin string, store grants.Store) *EthProvider {
	if store == nil {
		store = grants.NewMemoryStore()
	}
	return &EthProvider{
		key:      key,
		account:  crypto.PubkeyToAddress(key.PublicKey),
		chainID:  chainID,
		contract: contract,
		origin:   origin,
		grants:   store,
		now:      time.Now,
	}
}

func parsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	hexKey = strings.TrimPrefix(hexKey, "0x")
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, errors.Wrap(err, "parse private key")
	}
	return key, nil
}

// Account is the signing account, whether or not it has been authorized.
func (p *EthProvider) Account() common.Address { return p.account }

func (p *EthProvider) Accounts(ctx context.Context) ([]common.Address, error) {
	g, err := p.grants.Get(ctx, p.origin)
	if err != nil {
		return nil, errors.Wrap(err, "load grant")
	}
	if g == nil || !strings.EqualFold(g.Account, p.account.Hex()) {
		return []common.Address{}, nil
	}
	return []common.Address{p.account}, nil
}

func (p *EthProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	err := p.grants.Save(ctx, grants.Grant{
		Origin:    p.origin,
		Account:   p.account.Hex(),
		GrantedAt: p.now(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "save grant")
	}
	return []common.Address{p.account}, nil
}

func (p *EthProvider) Contract(ctx context.Context) (portal.Contract, error) {
	if p.client == nil {
		return nil, errors.New("rpc client not configured")
	}
	txOpts, err := bind.NewKeyedTransactorWithChainID(p.key, p.chainID)
	if err != nil {
		return nil, errors.Wrap(err, "transactor")
	}
	txOpts.Context = ctx
	return portal.NewEthContract(p.client, p.contract, txOpts, p.poll), nil
}

func (p *EthProvider) Ping(ctx context.Context) error {
	if p.client == nil {
		return errors.New("rpc client not configured")
	}
	_, err := p.client.BlockNumber(ctx)
	return err
}

func (p *EthProvider) Close() {
	if p.client != nil {
		p.client.Close()
	}
}
