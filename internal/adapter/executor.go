package adapter

import (
	"context"
	"fmt"

	"daoview/internal/domain"
	"daoview/internal/stacks"
)

var executorProbes = probeLists{
	treasury: TreasuryFunctions,
	count:    append([]string{"get-proposal-nonce"}, ProposalCountFunctions...),
	getter:   append([]string{"get-proposal-data"}, ProposalGetterFunctions...),
	details:  append([]string{"get-proposal-data"}, DetailsGetterFunctions...),
}

// ExecutorAdapter handles executor DAOs: a core contract that enables
// extensions and executes proposal contracts. Their getters are tried before
// the generic ones.
type ExecutorAdapter struct {
	*GenericAdapter
}

// NewExecutorAdapter creates the executor strategy
func NewExecutorAdapter(reader RemoteReader, opts ...Option) *ExecutorAdapter {
	return &ExecutorAdapter{GenericAdapter: newProber(reader, executorProbes, opts...)}
}

// Name returns the adapter name
func (e *ExecutorAdapter) Name() string {
	return "Executor DAO Adapter"
}

// Kind returns KindExecutor
func (e *ExecutorAdapter) Kind() Kind {
	return KindExecutor
}

// CanHandle inspects the contract interface for a read-only is-extension and a public execute
func (e *ExecutorAdapter) CanHandle(ctx context.Context, address string, network domain.Network) (bool, error) {
	target, ok := stacks.ParseContractAddress(address)
	if !ok {
		return false, nil
	}

	iface, err := e.reader.GetContractInterface(ctx, target.Principal, target.ContractName, network)
	if err != nil {
		return false, fmt.Errorf("read interface of %s: %w", address, err)
	}

	return iface.HasFunction("is-extension", stacks.AccessReadOnly) &&
		iface.HasFunction("execute", stacks.AccessPublic), nil
}
