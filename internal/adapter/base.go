package adapter

import (
	"context"
	"fmt"
	"log"
	"strings"

	"daoview/internal/clarity"
	"daoview/internal/domain"
)

// Candidate is one guessed read-only function and the arguments to call it with
type Candidate struct {
	Function string
	Args     []clarity.Value
}

// Functions builds zero-argument candidates in the given order
func Functions(names ...string) []Candidate {
	return WithArgs(nil, names...)
}

// WithArgs builds candidates that all receive the same arguments
func WithArgs(args []clarity.Value, names ...string) []Candidate {
	candidates := make([]Candidate, len(names))
	for i, name := range names {
		candidates[i] = Candidate{Function: name, Args: args}
	}
	return candidates
}

// Accept decides whether a successful call produced a usable value
type Accept func(clarity.Value) bool

// AcceptPresent accepts anything that is not none or an err response
func AcceptPresent(v clarity.Value) bool {
	_, ok := clarity.Unwrap(v)
	return ok
}

// AcceptNumber accepts values that coerce to a number
func AcceptNumber(v clarity.Value) bool {
	_, ok := clarity.ToNumber(v)
	return ok
}

// AcceptPositive accepts values that coerce to a number greater than zero
func AcceptPositive(v clarity.Value) bool {
	return clarity.Number(v) > 0
}

// ProbeResult is the outcome of TryCandidates
type ProbeResult struct {
	// Function is the accepted candidate, empty when nothing matched
	Function string
	Value    clarity.Value
	// Tried lists every function called, in order, including the accepted one
	Tried []string
}

// Found reports whether a candidate was accepted
func (r ProbeResult) Found() bool {
	return r.Function != ""
}

// Base holds the remote reader and helpers shared by every strategy
type Base struct {
	reader RemoteReader
	trace  bool
}

// NewBase creates a Base
func NewBase(reader RemoteReader, trace bool) Base {
	return Base{reader: reader, trace: trace}
}

// TryCandidates calls each candidate in order and returns the first value
// accept approves. A failed call moves on to the next candidate, it is never
// retried. A nil accept takes the first successful call.
func (b Base) TryCandidates(ctx context.Context, target domain.ContractAddress, network domain.Network, candidates []Candidate, accept Accept) ProbeResult {
	result := ProbeResult{Tried: make([]string, 0, len(candidates))}

	for _, c := range candidates {
		if ctx.Err() != nil {
			break
		}
		result.Tried = append(result.Tried, c.Function)

		value, err := b.call(ctx, target, network, c)
		if err != nil {
			b.tracef("Probe %s on %s missed: %v", c.Function, target, err)
			continue
		}
		if accept != nil && !accept(value) {
			b.tracef("Probe %s on %s returned an unusable value", c.Function, target)
			continue
		}

		result.Function = c.Function
		result.Value = value
		return result
	}

	return result
}

func (b Base) call(ctx context.Context, target domain.ContractAddress, network domain.Network, c Candidate) (clarity.Value, error) {
	args := make([]string, 0, len(c.Args))
	for _, arg := range c.Args {
		encoded, err := clarity.EncodeHex(arg)
		if err != nil {
			return nil, fmt.Errorf("encode argument for %s: %w", c.Function, err)
		}
		args = append(args, encoded)
	}
	return b.reader.CallReadOnly(ctx, target.Principal, target.ContractName, c.Function, args, target.Principal, network)
}

func (b Base) tracef(format string, args ...interface{}) {
	if b.trace {
		log.Printf(format, args...)
	}
}

// ExtractDaoName derives a display name from the contract name,
// "my-awesome-dao" becomes "My Awesome Dao".
func ExtractDaoName(address string) string {
	parts := strings.Split(address, ".")
	if len(parts) != 2 {
		return "Unknown DAO"
	}

	words := strings.Split(parts[1], "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
