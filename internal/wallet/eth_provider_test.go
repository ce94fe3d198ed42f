package wallet

import (
	"context"
	"math/big"
	"testing"
	"time"

	"barkboard/internal/grants"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Well-known development key (first Hardhat/Anvil account).
const devKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

var (
	_ Provider      = (*EthProvider)(nil)
	_ HealthChecker = (*EthProvider)(nil)
	_ Provider      = (*FakeProvider)(nil)
)

func TestParsePrivateKey(t *testing.T) {
	key, err := parsePrivateKey(devKey)
	require.NoError(t, err)
	assert.Equal(t,
		common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
		crypto.PubkeyToAddress(key.PublicKey))

	_, err = parsePrivateKey("0xnothex")
	assert.Error(t, err)
}

func TestEthProviderGrantLifecycle(t *testing.T) {
	ctx := context.Background()
	key, err := parsePrivateKey(devKey)
	require.NoError(t, err)

	store := grants.NewMemoryStore()
	p := newKeyedProvider(key, big.NewInt(31337), common.HexToAddress("0x01"), "http://localhost:3000", store)
	p.now = func() time.Time { return time.Unix(1_700_000_000, 0) }

	accounts, err := p.Accounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts, "nothing authorized yet")

	granted, err := p.RequestAccounts(ctx)
	require.NoError(t, err)
	require.Equal(t, []common.Address{p.Account()}, granted)

	accounts, err = p.Accounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []common.Address{p.Account()}, accounts)

	g, err := store.Get(ctx, "http://localhost:3000")
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, time.Unix(1_700_000_000, 0), g.GrantedAt)
}

func TestEthProviderIgnoresGrantForOtherAccount(t *testing.T) {
	ctx := context.Background()
	key, err := parsePrivateKey(devKey)
	require.NoError(t, err)

	store := grants.NewMemoryStore()
	require.NoError(t, store.Save(ctx, grants.Grant{Origin: "http://localhost:3000", Account: "0x0000000000000000000000000000000000000001"}))

	p := newKeyedProvider(key, big.NewInt(31337), common.HexToAddress("0x01"), "http://localhost:3000", store)
	accounts, err := p.Accounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestEthProviderWithoutClient(t *testing.T) {
	key, err := parsePrivateKey(devKey)
	require.NoError(t, err)
	p := newKeyedProvider(key, big.NewInt(1), common.HexToAddress("0x01"), "", nil)

	_, err = p.Contract(context.Background())
	assert.Error(t, err)
	assert.Error(t, p.Ping(context.Background()))
}

func TestNewEthProviderValidates(t *testing.T) {
	ctx := context.Background()
	_, err := NewEthProvider(ctx, EthProviderConfig{ContractAddress: "0x9ed32145f3771164328eb33Cd78e975030a9357f", PrivateKeyHex: devKey})
	assert.Error(t, err, "missing rpc url")

	_, err = NewEthProvider(ctx, EthProviderConfig{RPCURL: "http://127.0.0.1:8545", ContractAddress: "nope", PrivateKeyHex: devKey})
	assert.Error(t, err, "bad contract address")

	_, err = NewEthProvider(ctx, EthProviderConfig{RPCURL: "http://127.0.0.1:8545", ContractAddress: "0x9ed32145f3771164328eb33Cd78e975030a9357f"})
	assert.Error(t, err, "missing key")
}
