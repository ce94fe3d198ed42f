package portal

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBackend answers eth_call with pre-packed outputs keyed by method name.
type stubBackend struct {
	bind.ContractBackend
	outputs  map[string][]byte
	receipts []*types.Receipt
	polls    int
}

func (s *stubBackend) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	method, err := parsedABI.MethodById(msg.Data[:4])
	if err != nil {
		return nil, err
	}
	return s.outputs[method.Name], nil
}

func (s *stubBackend) TransactionReceipt(context.Context, common.Hash) (*types.Receipt, error) {
	idx := s.polls
	s.polls++
	if idx < len(s.receipts) && s.receipts[idx] != nil {
		return s.receipts[idx], nil
	}
	return nil, ethereum.NotFound
}

func packOutput(t *testing.T, method string, values ...interface{}) []byte {
	t.Helper()
	out, err := parsedABI.Methods[method].Outputs.Pack(values...)
	require.NoError(t, err)
	return out
}

func TestEthContractTotals(t *testing.T) {
	backend := &stubBackend{outputs: map[string][]byte{
		"getTotalBarks": packOutput(t, "getTotalBarks", big.NewInt(3)),
		"getTotalMeows": packOutput(t, "getTotalMeows", big.NewInt(1)),
	}}
	c := NewEthContract(backend, common.HexToAddress("0x9ed32145f3771164328eb33Cd78e975030a9357f"), nil, time.Millisecond)

	barks, err := c.Total(context.Background(), Bark)
	require.NoError(t, err)
	assert.Equal(t, int64(3), barks.Int64())

	meows, err := c.Total(context.Background(), Meow)
	require.NoError(t, err)
	assert.Equal(t, int64(1), meows.Int64())

	_, err = c.Total(context.Background(), Kind("purr"))
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestEthContractAllInteractions(t *testing.T) {
	waver := common.HexToAddress("0x00000000000000000000000000000000000abc01")
	records := []RawInteraction{
		{Waver: waver, InteractionType: "bark", Message: "Roof!", Timestamp: big.NewInt(1_700_000_000)},
		{Waver: waver, InteractionType: "meow", Message: "hi", Timestamp: big.NewInt(1_700_000_060)},
	}
	backend := &stubBackend{outputs: map[string][]byte{
		"getAllInteractions": packOutput(t, "getAllInteractions", records),
	}}
	c := NewEthContract(backend, common.HexToAddress("0x01"), nil, time.Millisecond)

	got, err := c.AllInteractions(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, waver, got[0].Waver)
	assert.Equal(t, "meow", got[1].InteractionType)
	assert.Equal(t, "hi", got[1].Message)
	assert.Equal(t, time.Unix(1_700_000_060, 0), got[1].Time())
}

func TestEthContractSendReadOnly(t *testing.T) {
	c := NewEthContract(&stubBackend{}, common.HexToAddress("0x01"), nil, time.Millisecond)
	_, err := c.Send(context.Background(), Bark, "Roof!")
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestEthContractWaitMinedReverted(t *testing.T) {
	backend := &stubBackend{receipts: []*types.Receipt{nil, {Status: types.ReceiptStatusFailed}}}
	c := NewEthContract(backend, common.HexToAddress("0x01"), nil, time.Millisecond)

	err := c.WaitMined(context.Background(), common.HexToHash("0x01"))
	assert.ErrorIs(t, err, ErrReverted)
	assert.Equal(t, 2, backend.polls)
}

func TestWaitForReceiptHonoursContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := WaitForReceipt(ctx, &stubBackend{}, common.HexToHash("0x02"), 5*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestKindDefaults(t *testing.T) {
	assert.Equal(t, "Roof!", Bark.DefaultMessage())
	assert.Equal(t, "Mee-ow!", Meow.DefaultMessage())
	assert.False(t, Kind("purr").Valid())
	assert.Equal(t, "getTotalMeows", Meow.totalMethod())
}
