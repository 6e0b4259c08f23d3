package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"daoview/internal/adapter"
	"daoview/internal/c32"
	"daoview/internal/clarity"
	"daoview/internal/domain"
	"daoview/internal/repository/sqlite"
	"daoview/internal/stacks"
)

const (
	mainnetPrincipal = "SP2J6ZY48GV1EZ5V2V5RB9MP66SW86PYKKNRV9EJ7"
	testnetPrincipal = "ST2J6ZY48GV1EZ5V2V5RB9MP66SW86PYKKQYAC0RQ"
	daoAddress       = mainnetPrincipal + ".my-awesome-dao"
	testnetAddress   = testnetPrincipal + ".my-awesome-dao"
)

// fakeReader answers read-only calls from a table keyed by function and
// first argument (-1 when there is none)
type fakeReader struct {
	mu sync.Mutex

	balance    string
	balanceErr error
	height     int64
	values     map[string]map[int64]clarity.Value

	calls        int
	balanceCalls int
	ifaceCalls   int
}

func newFakeReader() *fakeReader {
	return &fakeReader{
		balance: "0",
		height:  150000,
		values:  make(map[string]map[int64]clarity.Value),
	}
}

func (f *fakeReader) set(function string, index int64, v clarity.Value) *fakeReader {
	if f.values[function] == nil {
		f.values[function] = make(map[int64]clarity.Value)
	}
	f.values[function][index] = v
	return f
}

func (f *fakeReader) CallReadOnly(ctx context.Context, principal, contractName, function string, args []string, sender string, network domain.Network) (clarity.Value, error) {
	index := int64(-1)
	if len(args) > 0 {
		v, err := clarity.DecodeHex(args[0])
		if err != nil {
			return nil, err
		}
		index = clarity.Number(v)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	byIndex, ok := f.values[function]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrFunctionNotAvailable, function)
	}
	if v, ok := byIndex[index]; ok {
		return v, nil
	}
	return clarity.OptionalNone{}, nil
}

func (f *fakeReader) FetchAccountBalance(ctx context.Context, address string, network domain.Network) (*stacks.AccountBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balanceCalls++

	if f.balanceErr != nil {
		return nil, f.balanceErr
	}
	bal := &stacks.AccountBalance{}
	bal.STX.Balance = f.balance
	return bal, nil
}

func (f *fakeReader) GetLatestBlockHeight(ctx context.Context, network domain.Network) (int64, error) {
	return f.height, nil
}

func (f *fakeReader) GetContractInterface(ctx context.Context, principal, contractName string, network domain.Network) (*stacks.ContractInterface, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ifaceCalls++
	return nil, domain.ErrContractNotFound
}

func (f *fakeReader) remoteCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls + f.balanceCalls + f.ifaceCalls
}

// newTestService wires a facade over reader with an in-memory repository
func newTestService(t *testing.T, reader *fakeReader, opts ...Option) *DaoService {
	t.Helper()

	repo, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	registry := adapter.NewRegistry(adapter.NewGenericAdapter(reader))
	require.NoError(t, registry.Register(adapter.NewExecutorAdapter(reader)))

	return NewDaoService(registry, repo, opts...)
}

func principal(t *testing.T, address string) clarity.StandardPrincipal {
	t.Helper()
	version, hash, err := c32.DecodeAddress(address)
	require.NoError(t, err)

	p := clarity.StandardPrincipal{Version: version}
	copy(p.Hash160[:], hash)
	return p
}
