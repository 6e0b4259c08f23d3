package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/go-playground/validator/v10"

	"daoview/internal/adapter"
	"daoview/internal/cache"
	"daoview/internal/codec"
	"daoview/internal/domain"
	"daoview/internal/loader"
	"daoview/internal/repository"
	"daoview/internal/stacks"
)

// ErrInvalidInput marks a rejected registration request
var ErrInvalidInput = errors.New("invalid input")

// Messages reported by ValidateDaoContract
const (
	MessageInvalidAddress   = "Invalid Stacks contract address format"
	MessageContractNotFound = "Contract not found or not accessible"
)

// CacheTTL holds one cache horizon per data kind
type CacheTTL struct {
	Treasury  time.Duration
	Proposals time.Duration
	Details   time.Duration
}

// DefaultCacheTTL returns the standard horizons
func DefaultCacheTTL() CacheTTL {
	return CacheTTL{
		Treasury:  60 * time.Second,
		Proposals: 30 * time.Second,
		Details:   120 * time.Second,
	}
}

// Option configures a DaoService
type Option func(*DaoService)

// WithCache puts c in front of remote reads
func WithCache(c cache.Cache, ttl CacheTTL) Option {
	return func(s *DaoService) {
		s.cache = c
		s.ttl = ttl
	}
}

// WithDefaultNetwork sets the network used when callers name none
func WithDefaultNetwork(network domain.Network) Option {
	return func(s *DaoService) {
		if network.Valid() {
			s.network = network
		}
	}
}

// WithEventBus publishes registry changes on bus
func WithEventBus(bus *EventBus) Option {
	return func(s *DaoService) {
		s.eventBus = bus
	}
}

// DaoService provides read access to DAO contracts and manages the known DAO list
type DaoService struct {
	registry *adapter.Registry
	repo     repository.DaoRepository
	cache    cache.Cache
	ttl      CacheTTL
	network  domain.Network
	eventBus *EventBus
	validate *validator.Validate
}

// NewDaoService creates the facade. Without WithCache nothing is cached.
func NewDaoService(registry *adapter.Registry, repo repository.DaoRepository, opts ...Option) *DaoService {
	s := &DaoService{
		registry: registry,
		repo:     repo,
		cache:    cache.Noop{},
		ttl:      DefaultCacheTTL(),
		network:  domain.NetworkMainnet,
		eventBus: NewEventBus(),
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultNetwork returns the network used when callers name none
func (s *DaoService) DefaultNetwork() domain.Network {
	return s.network
}

// EventBus returns the bus registry changes are published on
func (s *DaoService) EventBus() *EventBus {
	return s.eventBus
}

func (s *DaoService) networkOr(network domain.Network) domain.Network {
	return network.Or(s.network)
}

// checkAddress rejects malformed addresses and addresses minted for another network
func (s *DaoService) checkAddress(address string, network domain.Network) error {
	if _, err := stacks.ValidateContractAddress(address, network); err != nil {
		log.Printf("Invalid Stacks address format: %s", address)
		return err
	}
	return nil
}

// ListKnownDaos returns the curated and registered DAOs for network
func (s *DaoService) ListKnownDaos(ctx context.Context, network domain.Network) ([]domain.KnownDao, error) {
	return s.repo.ListDaos(ctx, s.networkOr(network))
}

// GetDaoTreasury returns the treasury of the DAO at address. A malformed
// address is an *domain.InvalidAddressError. When the contract cannot be
// read the result is nil with a nil error.
func (s *DaoService) GetDaoTreasury(ctx context.Context, address string, network domain.Network) (*domain.DaoTreasury, error) {
	network = s.networkOr(network)
	if err := s.checkAddress(address, network); err != nil {
		return nil, err
	}

	key := cache.Key("treasury", string(network), address)
	return cache.Fetch(ctx, s.cache, key, s.ttl.Treasury, func(ctx context.Context) (*domain.DaoTreasury, bool, error) {
		a := s.adapterFor(ctx, address, network)
		log.Printf("Fetching treasury for %s using %s", address, a.Name())

		treasury, err := a.GetTreasury(ctx, address, network)
		if err != nil {
			log.Printf("Failed to fetch DAO treasury: %v", err)
			return nil, false, nil
		}
		return treasury, treasury != nil, nil
	})
}

// GetDaoProposals returns the proposals discoverable on the DAO at address.
// A malformed address is an error. Any other failure yields an empty list.
func (s *DaoService) GetDaoProposals(ctx context.Context, address string, network domain.Network) ([]domain.Proposal, error) {
	network = s.networkOr(network)
	if err := s.checkAddress(address, network); err != nil {
		return []domain.Proposal{}, err
	}

	key := cache.Key("proposals", string(network), address)
	proposals, err := cache.Fetch(ctx, s.cache, key, s.ttl.Proposals, func(ctx context.Context) ([]domain.Proposal, bool, error) {
		a := s.adapterFor(ctx, address, network)
		log.Printf("Fetching proposals for %s using %s", address, a.Name())

		proposals, err := a.GetProposals(ctx, address, network)
		if err != nil {
			log.Printf("Failed to fetch DAO proposals: %v", err)
			return []domain.Proposal{}, false, nil
		}
		// An empty list may be a transient miss, so only found proposals are kept
		return proposals, len(proposals) > 0, nil
	})
	if proposals == nil {
		proposals = []domain.Proposal{}
	}
	return proposals, err
}

// GetProposalDetails returns one proposal of the DAO at daoAddress. Without
// a DAO address, or when the adapter cannot find the proposal, the result is
// nil with a nil error.
func (s *DaoService) GetProposalDetails(ctx context.Context, proposalID, daoAddress string, network domain.Network) (*domain.ProposalDetails, error) {
	if daoAddress == "" {
		log.Printf("DAO contract address required for proposal details")
		return nil, nil
	}
	network = s.networkOr(network)
	if err := s.checkAddress(daoAddress, network); err != nil {
		return nil, err
	}

	key := cache.Key("details", string(network), daoAddress, proposalID)
	return cache.Fetch(ctx, s.cache, key, s.ttl.Details, func(ctx context.Context) (*domain.ProposalDetails, bool, error) {
		a := s.adapterFor(ctx, daoAddress, network)
		log.Printf("Fetching proposal %s using %s", proposalID, a.Name())

		var (
			details *domain.ProposalDetails
			err     error
		)
		if da, ok := a.(adapter.DetailsAdapter); ok {
			details, err = da.GetProposalDetailsFor(ctx, daoAddress, proposalID, network)
		} else {
			details, err = a.GetProposalDetails(ctx, proposalID, network)
		}

		switch {
		case errors.Is(err, domain.ErrDetailsUnavailable):
			log.Printf("Proposal details unavailable for %s/%s: %v", daoAddress, proposalID, err)
			return nil, false, nil
		case err != nil:
			log.Printf("Failed to fetch proposal details: %v", err)
			return nil, false, nil
		}
		return details, details != nil, nil
	})
}

// ValidateDaoContract reports whether address is a readable contract by
// fetching its treasury
func (s *DaoService) ValidateDaoContract(ctx context.Context, address string, network domain.Network) domain.ValidationResult {
	treasury, err := s.GetDaoTreasury(ctx, address, network)
	if err != nil {
		return domain.ValidationResult{IsValid: false, Error: MessageInvalidAddress}
	}
	if treasury == nil {
		return domain.ValidationResult{IsValid: false, Error: MessageContractNotFound}
	}
	return domain.ValidationResult{IsValid: true}
}

// AdapterFor returns the adapter that would serve address
func (s *DaoService) AdapterFor(ctx context.Context, address string, network domain.Network) (adapter.Info, error) {
	network = s.networkOr(network)
	if err := s.checkAddress(address, network); err != nil {
		return adapter.Info{}, err
	}

	a := s.adapterFor(ctx, address, network)
	for _, info := range s.registry.ListAdapters() {
		if info.Kind == a.Kind() {
			return info, nil
		}
	}
	return adapter.Info{Name: a.Name(), Kind: a.Kind()}, nil
}

// adapterFor honours the adapter type pinned on a known DAO, otherwise probes
func (s *DaoService) adapterFor(ctx context.Context, address string, network domain.Network) adapter.DaoAdapter {
	dao, err := s.repo.GetDao(ctx, address)
	if err != nil {
		log.Printf("Failed to look up known DAO %s: %v", address, err)
	}
	if dao != nil && dao.AdapterType != "" {
		if a, ok := s.registry.Lookup(adapter.Kind(dao.AdapterType)); ok {
			return a
		}
		log.Printf("Known DAO %s names unknown adapter %q, probing", address, dao.AdapterType)
	}
	return s.registry.SelectAdapter(ctx, address, network)
}

// evict drops every cached read for address. A registration may pin a
// different adapter, so results fetched before it no longer apply.
func (s *DaoService) evict(ctx context.Context, address string) {
	for _, network := range domain.Networks {
		for _, kind := range []string{"treasury", "proposals"} {
			if err := s.cache.Delete(ctx, cache.Key(kind, string(network), address)); err != nil {
				log.Printf("Cache evict %s %s failed: %v", kind, address, err)
			}
		}
		if err := s.cache.DeletePrefix(ctx, cache.Key("details", string(network), address)+":"); err != nil {
			log.Printf("Cache evict details %s failed: %v", address, err)
		}
	}
}

// Adapters lists the registered adapters in selection order
func (s *DaoService) Adapters() []adapter.Info {
	return s.registry.ListAdapters()
}

// RegisterDao validates dao and stores it as a registered entry. An existing
// entry with the same address is replaced.
func (s *DaoService) RegisterDao(ctx context.Context, dao *domain.KnownDao) error {
	if err := s.validate.Struct(dao); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	network := s.networkOr(dao.Network)
	if err := s.checkAddress(dao.ContractAddress, network); err != nil {
		return err
	}
	if dao.AdapterType != "" {
		if _, ok := s.registry.Lookup(adapter.Kind(dao.AdapterType)); !ok {
			return fmt.Errorf("%w: unknown adapter type %q", ErrInvalidInput, dao.AdapterType)
		}
	}

	dao.Network = network
	dao.Source = domain.SourceRegistered
	if err := s.repo.UpsertDao(ctx, dao); err != nil {
		return fmt.Errorf("save dao: %w", err)
	}
	s.evict(ctx, dao.ContractAddress)

	log.Printf("Registered DAO %s (%s) on %s", dao.Name, dao.ContractAddress, network)
	s.eventBus.Publish(Event{
		Type:    EventDaoRegistered,
		Payload: dao,
	})
	return nil
}

// DeleteDao removes a known DAO
func (s *DaoService) DeleteDao(ctx context.Context, address string) error {
	if err := s.repo.DeleteDao(ctx, address); err != nil {
		return err
	}
	s.evict(ctx, address)

	s.eventBus.Publish(Event{
		Type:    EventDaoDeleted,
		Payload: map[string]string{"contract_address": address},
	})
	return nil
}

// ImportSeed replaces the seed entries of the known DAO list with seed
func (s *DaoService) ImportSeed(ctx context.Context, seed *loader.Seed) (int, error) {
	n, err := s.repo.ReplaceSource(ctx, domain.SourceSeed, seed.Daos)
	if err != nil {
		return 0, fmt.Errorf("import seed: %w", err)
	}

	log.Printf("Seed list loaded: %d DAOs (%d skipped)", n, len(seed.Skipped))
	s.eventBus.Publish(Event{
		Type:    EventSeedReloaded,
		Payload: map[string]int{"loaded": n, "skipped": len(seed.Skipped)},
	})
	return n, nil
}

// ReloadSeed loads the seed file at path and imports it
func (s *DaoService) ReloadSeed(ctx context.Context, path string) error {
	seed, err := loader.LoadSeed(path)
	if err != nil {
		return fmt.Errorf("load seed %s: %w", path, err)
	}
	_, err = s.ImportSeed(ctx, seed)
	return err
}

// ExportDaos writes the known DAOs for network in format ("json" or "yaml")
func (s *DaoService) ExportDaos(ctx context.Context, format string, network domain.Network, w io.Writer) error {
	exporter, err := codec.ByFormat(format)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	daos, err := s.ListKnownDaos(ctx, network)
	if err != nil {
		return err
	}

	return exporter.Export(&codec.DaoList{Version: codec.CurrentVersion, Daos: daos}, w)
}
