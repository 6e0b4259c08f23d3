// Package stacks talks to a Stacks node or indexer over HTTP and validates
// Stacks principals.
//
// # Remote Read Interface
//
// Client implements the read-only surface the adapters need: read-only
// contract calls, account balances, the chain tip height and contract
// interfaces. It owns the timeout and retry policy; callers see three kinds of
// failure, all wrapping domain sentinels:
//
//   - domain.ErrFunctionNotAvailable when the node rejects a call (missing
//     function, bad arguments, runtime error)
//   - domain.ErrContractNotFound for unknown contracts and accounts
//   - domain.ErrNetworkUnreachable for transport failures and exhausted retries
//
// # Addresses
//
// Principals are c32check encoded. The version byte binds an address to a
// network, so ValidateContractAddress rejects a testnet principal on mainnet
// and vice versa.
package stacks
