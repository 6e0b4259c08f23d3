package clarity

import (
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cast"

	"daoview/internal/domain"
)

var decimalPattern = regexp.MustCompile(`^([+-]?)([0-9]+)$`)

// ToNumber coerces v to an integer. Integers pass through, decimal strings are
// parsed, ok/some wrappers are looked through. Anything else, including
// integers that do not fit in int64, is not coercible.
func ToNumber(v Value) (int64, bool) {
	v, ok := Unwrap(v)
	if !ok {
		return 0, false
	}

	switch t := v.(type) {
	case Int:
		if t.V != nil && t.V.IsInt64() {
			return t.V.Int64(), true
		}
	case UInt:
		if t.V != nil && t.V.IsInt64() {
			return t.V.Int64(), true
		}
	case StringASCII:
		return parseDecimal(string(t))
	case StringUTF8:
		return parseDecimal(string(t))
	}
	return 0, false
}

// Number is ToNumber with 0 for anything uncoercible
func Number(v Value) int64 {
	n, _ := ToNumber(v)
	return n
}

// ToText coerces v to a string. Strings pass through, other scalars are
// stringified, compound values give the empty string.
func ToText(v Value) string {
	v, ok := Unwrap(v)
	if !ok {
		return ""
	}

	switch t := v.(type) {
	case StringASCII:
		return string(t)
	case StringUTF8:
		return string(t)
	case Int:
		if t.V != nil {
			return t.V.String()
		}
	case UInt:
		if t.V != nil {
			return t.V.String()
		}
	case Bool:
		return cast.ToString(bool(t))
	case Buffer:
		return hexutil.Encode(t)
	case StandardPrincipal:
		return t.String()
	case ContractPrincipal:
		return t.String()
	}
	return ""
}

// ToStatus maps a status value to a proposal status.
// Strings match by substring, booleans map true to Passed and false to
// Rejected, integers map 1 to Passed and 2 to Rejected. Everything else is Active.
func ToStatus(v Value) domain.ProposalStatus {
	v, ok := Unwrap(v)
	if !ok {
		return domain.ProposalActive
	}

	switch t := v.(type) {
	case StringASCII:
		return domain.ParseProposalStatus(string(t))
	case StringUTF8:
		return domain.ParseProposalStatus(string(t))
	case Bool:
		if t {
			return domain.ProposalPassed
		}
		return domain.ProposalRejected
	case Int, UInt:
		switch Number(t) {
		case 1:
			return domain.ProposalPassed
		case 2:
			return domain.ProposalRejected
		}
	}
	return domain.ProposalActive
}

// AsTuple reports whether v is, after unwrapping, a structured record
func AsTuple(v Value) (Tuple, bool) {
	v, ok := Unwrap(v)
	if !ok {
		return nil, false
	}
	t, ok := v.(Tuple)
	return t, ok
}

// Field returns the first field among names that holds data. Fields that
// are none, err or an empty string are passed over.
func (t Tuple) Field(names ...string) (Value, bool) {
	for _, name := range names {
		v, ok := t[name]
		if !ok {
			continue
		}
		inner, ok := Unwrap(v)
		if !ok {
			continue
		}
		switch s := inner.(type) {
		case StringASCII:
			if s == "" {
				continue
			}
		case StringUTF8:
			if s == "" {
				continue
			}
		}
		return v, true
	}
	return nil, false
}

// TextField returns the first field among names whose text is non-empty
func (t Tuple) TextField(names ...string) string {
	for _, name := range names {
		if s := ToText(t[name]); s != "" {
			return s
		}
	}
	return ""
}

// NumberField returns the first field among names that coerces to a number
func (t Tuple) NumberField(names ...string) (int64, bool) {
	for _, name := range names {
		if n, ok := ToNumber(t[name]); ok {
			return n, true
		}
	}
	return 0, false
}

func parseDecimal(s string) (int64, bool) {
	m := decimalPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}

	// strip leading zeros so cast does not read the digits as octal
	digits := strings.TrimLeft(m[2], "0")
	if digits == "" {
		digits = "0"
	}

	n, err := cast.ToInt64E(m[1] + digits)
	if err != nil {
		return 0, false
	}
	return n, true
}
