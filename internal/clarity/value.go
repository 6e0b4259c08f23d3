// Package clarity models values returned by read-only contract calls.
//
// Value is a closed set of variants sealed by an unexported method. The
// coercion helpers in coerce.go turn those variants into domain numbers,
// text and proposal statuses; adapters read contract data only through them.
package clarity

import (
	"math/big"

	"daoview/internal/c32"
)

// Type is the consensus serialization type prefix
type Type byte

const (
	TypeInt               Type = 0x00
	TypeUInt              Type = 0x01
	TypeBuffer            Type = 0x02
	TypeBoolTrue          Type = 0x03
	TypeBoolFalse         Type = 0x04
	TypeStandardPrincipal Type = 0x05
	TypeContractPrincipal Type = 0x06
	TypeResponseOk        Type = 0x07
	TypeResponseErr       Type = 0x08
	TypeOptionalNone      Type = 0x09
	TypeOptionalSome      Type = 0x0a
	TypeList              Type = 0x0b
	TypeTuple             Type = 0x0c
	TypeStringASCII       Type = 0x0d
	TypeStringUTF8        Type = 0x0e
)

// Value is any decoded contract value
type Value interface {
	Type() Type
	isValue()
}

// Int is a signed 128-bit integer
type Int struct{ V *big.Int }

// UInt is an unsigned 128-bit integer
type UInt struct{ V *big.Int }

// Bool is a boolean
type Bool bool

// Buffer is a byte buffer
type Buffer []byte

// StringASCII is an ASCII string
type StringASCII string

// StringUTF8 is a UTF-8 string
type StringUTF8 string

// StandardPrincipal is an account principal
type StandardPrincipal struct {
	Version byte
	Hash160 [20]byte
}

// ContractPrincipal is a contract principal
type ContractPrincipal struct {
	StandardPrincipal
	Name string
}

// ResponseOk wraps a successful response
type ResponseOk struct{ Inner Value }

// ResponseErr wraps an error response
type ResponseErr struct{ Inner Value }

// OptionalSome wraps a present optional
type OptionalSome struct{ Inner Value }

// OptionalNone is an absent optional
type OptionalNone struct{}

// List is an ordered sequence
type List []Value

// Tuple is a named record
type Tuple map[string]Value

func (Int) Type() Type               { return TypeInt }
func (UInt) Type() Type              { return TypeUInt }
func (StringASCII) Type() Type       { return TypeStringASCII }
func (StringUTF8) Type() Type        { return TypeStringUTF8 }
func (Buffer) Type() Type            { return TypeBuffer }
func (StandardPrincipal) Type() Type { return TypeStandardPrincipal }
func (ContractPrincipal) Type() Type { return TypeContractPrincipal }
func (ResponseOk) Type() Type        { return TypeResponseOk }
func (ResponseErr) Type() Type       { return TypeResponseErr }
func (OptionalSome) Type() Type      { return TypeOptionalSome }
func (OptionalNone) Type() Type      { return TypeOptionalNone }
func (List) Type() Type              { return TypeList }
func (Tuple) Type() Type             { return TypeTuple }

func (b Bool) Type() Type {
	if b {
		return TypeBoolTrue
	}
	return TypeBoolFalse
}

func (Int) isValue()               {}
func (UInt) isValue()              {}
func (Bool) isValue()              {}
func (Buffer) isValue()            {}
func (StringASCII) isValue()       {}
func (StringUTF8) isValue()        {}
func (StandardPrincipal) isValue() {}
func (ContractPrincipal) isValue() {}
func (ResponseOk) isValue()        {}
func (ResponseErr) isValue()       {}
func (OptionalSome) isValue()      {}
func (OptionalNone) isValue()      {}
func (List) isValue()              {}
func (Tuple) isValue()             {}

// NewUInt builds a UInt from a native integer
func NewUInt(n uint64) UInt {
	return UInt{V: new(big.Int).SetUint64(n)}
}

// NewInt builds an Int from a native integer
func NewInt(n int64) Int {
	return Int{V: big.NewInt(n)}
}

// String renders the principal in c32 address form
func (p StandardPrincipal) String() string {
	return c32.Address(p.Version, p.Hash160[:])
}

// String renders the principal as <address>.<name>
func (p ContractPrincipal) String() string {
	return p.StandardPrincipal.String() + "." + p.Name
}

// Unwrap strips ok and some wrappers. It reports false for none, err and nil,
// the three shapes that mean "no data".
func Unwrap(v Value) (Value, bool) {
	for {
		switch t := v.(type) {
		case nil:
			return nil, false
		case OptionalNone:
			return nil, false
		case ResponseErr:
			return nil, false
		case OptionalSome:
			v = t.Inner
		case ResponseOk:
			v = t.Inner
		default:
			return v, true
		}
	}
}
