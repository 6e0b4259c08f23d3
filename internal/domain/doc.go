// Package domain defines the core value types for the DAO viewer.
//
// Every type here is a plain value object. Results are rebuilt on every fetch and
// never shared or mutated, so no locking is needed anywhere in this package.
//
// # Core Types
//
// KnownDao is a registry entry for a DAO contract, created from the static seed
// list or by registration. It is replaced wholesale, never edited in place.
//
// DaoTreasury is a snapshot of the native token balance (and any fungible tokens)
// held by a DAO contract, stamped with the chain height it was read at.
//
// Proposal and ProposalDetails are the normalised view of whatever proposal
// records a contract exposes. ProposalStatus is one of Active, Passed or Rejected.
//
// # Networks
//
// Network selects the remote endpoint and the address version bytes accepted.
// An address minted for one network is never accepted on the other.
//
// # Errors
//
// The error taxonomy distinguishes local validation failures
// (ErrInvalidAddressFormat) from remote failures (ErrContractNotFound,
// ErrNetworkUnreachable) and expected probe misses (ErrFunctionNotAvailable).
package domain
