package adapter

import (
	"context"

	"daoview/internal/clarity"
	"daoview/internal/domain"
	"daoview/internal/stacks"
)

// Kind identifies a family of contract shapes an adapter understands
type Kind string

const (
	// KindGeneric - probes common function names on any contract
	KindGeneric Kind = "generic"
	// KindExecutor - executor DAOs built from extensions and proposal contracts
	KindExecutor Kind = "executor"
)

// RemoteReader is the read-only view of the chain adapters work against
type RemoteReader interface {
	CallReadOnly(ctx context.Context, principal, contractName, function string, args []string, sender string, network domain.Network) (clarity.Value, error)
	FetchAccountBalance(ctx context.Context, address string, network domain.Network) (*stacks.AccountBalance, error)
	GetLatestBlockHeight(ctx context.Context, network domain.Network) (int64, error)
	GetContractInterface(ctx context.Context, principal, contractName string, network domain.Network) (*stacks.ContractInterface, error)
}

// DaoAdapter extracts treasury and proposal data from one family of DAO contracts
type DaoAdapter interface {
	// Name returns a human readable identifier for logs and the UI
	Name() string

	// Kind returns the family this adapter handles
	Kind() Kind

	// CanHandle probes whether the contract at address belongs to this family.
	// Errors are treated by the registry as "cannot handle".
	CanHandle(ctx context.Context, address string, network domain.Network) (bool, error)

	// GetTreasury returns a fresh treasury snapshot
	GetTreasury(ctx context.Context, address string, network domain.Network) (*domain.DaoTreasury, error)

	// GetProposals lists the proposals discoverable on the contract
	GetProposals(ctx context.Context, address string, network domain.Network) ([]domain.Proposal, error)

	// GetProposalDetails returns details for a proposal without knowing its DAO.
	// Adapters that need the DAO address return domain.ErrDetailsUnavailable.
	GetProposalDetails(ctx context.Context, proposalID string, network domain.Network) (*domain.ProposalDetails, error)
}

// DetailsAdapter extends DaoAdapter with a details lookup that is given the owning DAO
type DetailsAdapter interface {
	DaoAdapter

	GetProposalDetailsFor(ctx context.Context, daoAddress, proposalID string, network domain.Network) (*domain.ProposalDetails, error)
}

// Info provides read-only information about a registered adapter
type Info struct {
	Name     string `json:"name"`
	Kind     Kind   `json:"kind"`
	Priority int    `json:"priority"`
	Fallback bool   `json:"fallback"`
}
