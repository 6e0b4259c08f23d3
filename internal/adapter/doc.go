// Package adapter implements the strategies that read DAO data from contracts
// whose interface is not known in advance.
//
// Contracts expose no common discovery mechanism, so an adapter guesses: it
// walks an ordered list of candidate read-only functions and keeps the first
// answer it can use. A missing function is an expected miss and the probe
// moves on to the next candidate.
//
// # Strategies
//
// GenericAdapter works against any contract. Treasury balances fall back to
// the account balance of the contract principal, proposals are enumerated by
// index up to MaxProposals.
//
// ExecutorAdapter recognises executor style DAOs by their contract interface
// and tries their getters before the generic ones.
//
// # Registry
//
// Registry holds the strategies in priority order with the generic strategy
// fixed last. SelectAdapter re-probes on every call and always returns an
// adapter.
package adapter
