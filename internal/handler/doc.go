// Package handler implements the daoview HTTP API.
//
// DaoHandler exposes the facade as JSON endpoints under /api. Errors are
// returned as {error, details}: a malformed contract address is a 400, a
// treasury or proposal that cannot be read is a 404. Proposal lists are
// always 200, empty when nothing could be read.
//
// Middleware provides request logging, panic recovery and CORS.
package handler
