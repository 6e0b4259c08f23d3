// Package service implements the daoview facade.
//
// DaoService is the only entry point the HTTP handlers and the CLI use. It
// checks address syntax before any adapter work, picks the adapter for a
// contract, and puts the time-windowed cache in front of every remote read.
//
// Remote failures never escape as errors: a treasury that cannot be read is
// reported as absent (nil, nil) and a proposal list as empty. Only malformed
// input produces an error, so callers can tell "bad request" from "nothing
// to show".
//
// # Event System
//
// Changes to the known DAO list (registration, deletion, seed reloads) are
// published on an EventBus, which the server forwards to SSE clients.
package service
