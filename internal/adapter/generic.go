package adapter

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"daoview/internal/clarity"
	"daoview/internal/domain"
	"daoview/internal/stacks"
)

// MaxProposals bounds how many proposal indices are queried per listing
const MaxProposals = 50

// MaxConcurrency bounds parallel proposal index fetches
const MaxConcurrency = 10

// Probe lists, in priority order
var (
	TreasuryFunctions       = []string{"get-balance", "get-treasury", "get-stx-balance", "get-treasury-balance"}
	ProposalCountFunctions  = []string{"get-proposal-count", "get-proposals-count", "proposal-count"}
	ProposalGetterFunctions = []string{"get-proposal", "get-proposal-by-id", "proposal"}
	DetailsGetterFunctions  = []string{"get-proposal-details", "get-proposal", "get-proposal-by-id", "proposal"}
)

// Record fields read from proposal tuples, in priority order
var (
	titleFields       = []string{"title", "name", "description"}
	statusFields      = []string{"status", "state"}
	descriptionFields = []string{"description", "details", "body"}
	yesVotesFields    = []string{"yes-votes", "votes-for", "for", "yes"}
	noVotesFields     = []string{"no-votes", "votes-against", "against", "no"}
	createdFields     = []string{"created-at", "start-block-height", "start-block", "created"}
	proposerFields    = []string{"proposer", "creator", "author"}
)

// probeLists holds the function names a strategy tries for each data kind
type probeLists struct {
	treasury []string
	count    []string
	getter   []string
	details  []string
}

var genericProbes = probeLists{
	treasury: TreasuryFunctions,
	count:    ProposalCountFunctions,
	getter:   ProposalGetterFunctions,
	details:  DetailsGetterFunctions,
}

// Option configures a GenericAdapter
type Option func(*GenericAdapter)

// WithConcurrency sets how many proposal indices are fetched at once.
// Values are clamped to [1, MaxConcurrency].
func WithConcurrency(n int) Option {
	return func(g *GenericAdapter) {
		g.concurrency = min(max(n, 1), MaxConcurrency)
	}
}

// WithTrace logs every probe miss
func WithTrace(enabled bool) Option {
	return func(g *GenericAdapter) {
		g.Base.trace = enabled
	}
}

// GenericAdapter reads any contract by probing common function names
type GenericAdapter struct {
	Base
	probes      probeLists
	concurrency int
}

// NewGenericAdapter creates the fallback strategy
func NewGenericAdapter(reader RemoteReader, opts ...Option) *GenericAdapter {
	return newProber(reader, genericProbes, opts...)
}

func newProber(reader RemoteReader, probes probeLists, opts ...Option) *GenericAdapter {
	g := &GenericAdapter{
		Base:        NewBase(reader, false),
		probes:      probes,
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Name returns the adapter name
func (g *GenericAdapter) Name() string {
	return "Generic DAO Adapter"
}

// Kind returns KindGeneric
func (g *GenericAdapter) Kind() Kind {
	return KindGeneric
}

// CanHandle always succeeds, this is the fallback strategy
func (g *GenericAdapter) CanHandle(ctx context.Context, address string, network domain.Network) (bool, error) {
	return true, nil
}

// GetTreasury reads the account balance of the contract principal, then lets
// the first treasury getter returning a positive amount override it.
func (g *GenericAdapter) GetTreasury(ctx context.Context, address string, network domain.Network) (*domain.DaoTreasury, error) {
	balance, err := g.reader.FetchAccountBalance(ctx, address, network)
	if err != nil {
		return nil, &domain.TreasuryFetchError{Address: address, Cause: err}
	}
	micro, err := stacks.ParseMicroStx(balance.STX.Balance)
	if err != nil {
		return nil, &domain.TreasuryFetchError{Address: address, Cause: err}
	}

	height, err := g.reader.GetLatestBlockHeight(ctx, network)
	if err != nil {
		return nil, &domain.TreasuryFetchError{Address: address, Cause: err}
	}

	treasury := &domain.DaoTreasury{
		Name:             ExtractDaoName(address),
		MicroStxBalance:  micro,
		LastUpdatedBlock: height,
		FungibleTokens:   fungibleTokens(balance),
	}

	if target, ok := stacks.ParseContractAddress(address); ok {
		probe := g.TryCandidates(ctx, target, network, Functions(g.probes.treasury...), AcceptPositive)
		if probe.Found() {
			log.Printf("Found treasury for %s via %s", address, probe.Function)
			treasury.MicroStxBalance = clarity.Number(probe.Value)
			treasury.Source = probe.Function
		}
	}

	treasury.StxBalance = stacks.MicroStxToStx(treasury.MicroStxBalance)
	return treasury, nil
}

// GetProposals reads the declared proposal count and fetches each index.
// Indices no getter answers for are skipped. Malformed addresses and
// contracts without a count function yield an empty list.
func (g *GenericAdapter) GetProposals(ctx context.Context, address string, network domain.Network) ([]domain.Proposal, error) {
	proposals := []domain.Proposal{}

	target, ok := stacks.ParseContractAddress(address)
	if !ok {
		log.Printf("Invalid contract address format for proposals: %s", address)
		return proposals, nil
	}

	probe := g.TryCandidates(ctx, target, network, Functions(g.probes.count...), AcceptNumber)
	if !probe.Found() {
		return proposals, nil
	}

	declared := clarity.Number(probe.Value)
	count := int(min(max(declared, 0), MaxProposals))
	if int64(count) < declared {
		log.Printf("Contract %s declares %d proposals, fetching the first %d", address, declared, count)
	}

	slots := make([]*domain.Proposal, count)
	var group errgroup.Group
	group.SetLimit(g.concurrency)
	for i := range count {
		group.Go(func() error {
			slots[i] = g.fetchProposal(ctx, target, network, address, uint64(i))
			return nil
		})
	}
	group.Wait()

	for _, p := range slots {
		if p != nil {
			proposals = append(proposals, *p)
		}
	}
	return proposals, nil
}

func (g *GenericAdapter) fetchProposal(ctx context.Context, target domain.ContractAddress, network domain.Network, address string, index uint64) *domain.Proposal {
	args := []clarity.Value{clarity.NewUInt(index)}
	probe := g.TryCandidates(ctx, target, network, WithArgs(args, g.probes.getter...), AcceptPresent)
	if !probe.Found() {
		return nil
	}
	p := parseProposal(probe.Value, index, address)
	return &p
}

// GetProposalDetails cannot work without the owning DAO
func (g *GenericAdapter) GetProposalDetails(ctx context.Context, proposalID string, network domain.Network) (*domain.ProposalDetails, error) {
	return nil, domain.ErrDetailsUnavailable
}

// GetProposalDetailsFor fetches one proposal record from daoAddress.
// It returns nil without error when no getter knows the proposal.
func (g *GenericAdapter) GetProposalDetailsFor(ctx context.Context, daoAddress, proposalID string, network domain.Network) (*domain.ProposalDetails, error) {
	target, ok := stacks.ParseContractAddress(daoAddress)
	if !ok {
		return nil, domain.NewInvalidAddressError(daoAddress, "malformed contract address")
	}

	index, err := strconv.ParseUint(proposalID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: proposal id %q is not an index", domain.ErrDetailsUnavailable, proposalID)
	}

	args := []clarity.Value{clarity.NewUInt(index)}
	probe := g.TryCandidates(ctx, target, network, WithArgs(args, g.probes.details...), AcceptPresent)
	if !probe.Found() {
		return nil, nil
	}

	details := &domain.ProposalDetails{
		Proposal: parseProposal(probe.Value, index, daoAddress),
	}
	if record, ok := clarity.AsTuple(probe.Value); ok {
		details.Description = record.TextField(descriptionFields...)
		yes, _ := record.NumberField(yesVotesFields...)
		no, _ := record.NumberField(noVotesFields...)
		details.Votes = domain.Votes{Yes: max(yes, 0), No: max(no, 0)}
		details.CreationBlock, _ = record.NumberField(createdFields...)
		details.Proposer = record.TextField(proposerFields...)
	}
	return details, nil
}

// parseProposal turns any present response into a proposal. Non-record
// responses still count as a proposal with the default title.
func parseProposal(v clarity.Value, index uint64, address string) domain.Proposal {
	p := domain.Proposal{
		ID:                 strconv.FormatUint(index, 10),
		Title:              fmt.Sprintf("Proposal %d", index),
		Status:             domain.ProposalActive,
		DaoContractAddress: address,
	}

	record, ok := clarity.AsTuple(v)
	if !ok {
		return p
	}
	if title := record.TextField(titleFields...); title != "" {
		p.Title = title
	}
	if status, ok := record.Field(statusFields...); ok {
		p.Status = clarity.ToStatus(status)
	}
	return p
}

func fungibleTokens(balance *stacks.AccountBalance) []domain.FungibleToken {
	if len(balance.FungibleTokens) == 0 {
		return nil
	}

	ids := make([]string, 0, len(balance.FungibleTokens))
	for id := range balance.FungibleTokens {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	tokens := make([]domain.FungibleToken, 0, len(ids))
	for _, id := range ids {
		token := domain.FungibleToken{AssetID: id, Balance: balance.FungibleTokens[id].Balance}
		if _, symbol, ok := strings.Cut(id, "::"); ok {
			token.Symbol = symbol
		}
		tokens = append(tokens, token)
	}
	return tokens
}
