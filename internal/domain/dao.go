package domain

import "time"

// KnownDao is a user-facing registry entry for a DAO contract
type KnownDao struct {
	Name            string    `json:"name" yaml:"name" validate:"required,min=3,max=64"`
	ContractAddress string    `json:"contract_address" yaml:"contract_address" validate:"required,contains=."`
	Network         Network   `json:"network,omitempty" yaml:"network,omitempty" validate:"omitempty,oneof=mainnet testnet"`
	AdapterType     string    `json:"adapter_type,omitempty" yaml:"adapter_type,omitempty" validate:"omitempty,alpha"`
	Source          string    `json:"source,omitempty" yaml:"-"`
	CreatedAt       time.Time `json:"created_at,omitempty" yaml:"-"`
}

// KnownDao sources
const (
	SourceSeed       = "seed"
	SourceRegistered = "registered"
)

// NetworkOr returns the DAO's network, or fallback when none was recorded
func (d KnownDao) NetworkOr(fallback Network) Network {
	return d.Network.Or(fallback)
}

// FungibleToken is a non-native token balance held by a DAO
type FungibleToken struct {
	AssetID string `json:"asset_id"`
	Balance string `json:"balance"`
	Symbol  string `json:"symbol,omitempty"`
}

// DaoTreasury is a point-in-time snapshot of a DAO's holdings.
// It is rebuilt on every fetch and never mutated.
type DaoTreasury struct {
	Name             string          `json:"name"`
	StxBalance       float64         `json:"stx_balance"`
	MicroStxBalance  int64           `json:"micro_stx_balance"`
	LastUpdatedBlock int64           `json:"last_updated_block"`
	FungibleTokens   []FungibleToken `json:"fungible_tokens,omitempty"`
	// Source names the probe function that supplied the balance, empty for the account baseline
	Source string `json:"source,omitempty"`
}

// ValidationResult reports whether a contract looks like a reachable DAO
type ValidationResult struct {
	IsValid bool   `json:"is_valid"`
	Error   string `json:"error,omitempty"`
}
