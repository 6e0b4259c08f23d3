package adapter

import (
	"context"
	"fmt"
	"sync"

	"daoview/internal/clarity"
	"daoview/internal/domain"
	"daoview/internal/stacks"
)

const (
	testPrincipal = "SP2J6ZY48GV1EZ5V2V5RB9MP66SW86PYKKNRV9EJ7"
	testAddress   = testPrincipal + ".my-awesome-dao"
)

// handlerFunc answers one read-only function; index is the decoded first argument or -1
type handlerFunc func(index int64) (clarity.Value, error)

// fakeReader is an in-memory RemoteReader that records every call
type fakeReader struct {
	mu sync.Mutex

	balance    string
	tokens     map[string]stacks.TokenBalance
	balanceErr error
	height     int64
	heightErr  error
	iface      *stacks.ContractInterface
	ifaceErr   error
	functions  map[string]handlerFunc

	calls        []string
	indexCalls   map[string][]int64
	balanceCalls int
}

func newFakeReader() *fakeReader {
	return &fakeReader{
		balance:    "0",
		height:     150000,
		functions:  make(map[string]handlerFunc),
		indexCalls: make(map[string][]int64),
	}
}

func (f *fakeReader) returns(function string, v clarity.Value) *fakeReader {
	f.functions[function] = func(int64) (clarity.Value, error) { return v, nil }
	return f
}

func (f *fakeReader) byIndex(function string, values map[int64]clarity.Value) *fakeReader {
	f.functions[function] = func(index int64) (clarity.Value, error) {
		if v, ok := values[index]; ok {
			return v, nil
		}
		return clarity.OptionalNone{}, nil
	}
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
	f.calls = append(f.calls, function)
	if index >= 0 {
		f.indexCalls[function] = append(f.indexCalls[function], index)
	}
	handler, ok := f.functions[function]
	f.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrFunctionNotAvailable, function)
	}
	return handler(index)
}

func (f *fakeReader) FetchAccountBalance(ctx context.Context, address string, network domain.Network) (*stacks.AccountBalance, error) {
	f.mu.Lock()
	f.balanceCalls++
	f.mu.Unlock()

	if f.balanceErr != nil {
		return nil, f.balanceErr
	}
	bal := &stacks.AccountBalance{FungibleTokens: f.tokens}
	bal.STX.Balance = f.balance
	return bal, nil
}

func (f *fakeReader) GetLatestBlockHeight(ctx context.Context, network domain.Network) (int64, error) {
	return f.height, f.heightErr
}

func (f *fakeReader) GetContractInterface(ctx context.Context, principal, contractName string, network domain.Network) (*stacks.ContractInterface, error) {
	if f.ifaceErr != nil {
		return nil, f.ifaceErr
	}
	if f.iface == nil {
		return nil, domain.ErrContractNotFound
	}
	return f.iface, nil
}

func (f *fakeReader) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls) + f.balanceCalls
}
