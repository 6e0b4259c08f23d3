package clarity

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// maxDepth bounds nesting of lists, tuples and wrappers
const maxDepth = 32

var (
	ErrTruncated   = errors.New("clarity: truncated value")
	ErrUnknownType = errors.New("clarity: unknown type prefix")
	ErrTooDeep     = errors.New("clarity: value nested too deeply")
	ErrTrailing    = errors.New("clarity: trailing bytes after value")
)

var (
	two128 = new(big.Int).Lsh(big.NewInt(1), 128)
	two127 = new(big.Int).Lsh(big.NewInt(1), 127)
)

// DecodeHex decodes a 0x-prefixed serialized value as returned by call-read
func DecodeHex(s string) (Value, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	raw, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return Decode(raw)
}

// Decode parses a single serialized value. Trailing bytes are an error.
func Decode(raw []byte) (Value, error) {
	d := &decoder{buf: raw}
	v, err := d.value(0)
	if err != nil {
		return nil, err
	}
	if d.pos != len(d.buf) {
		return nil, ErrTrailing
	}
	return v, nil
}

// EncodeHex serializes v and returns it 0x-prefixed, the form call-read expects for arguments
func EncodeHex(v Value) (string, error) {
	raw, err := Encode(v)
	if err != nil {
		return "", err
	}
	return hexutil.Encode(raw), nil
}

// Encode serializes v
func Encode(v Value) ([]byte, error) {
	var out []byte
	if err := encode(&out, v, 0); err != nil {
		return nil, err
	}
	return out, nil
}

type decoder struct {
	buf []byte
	pos int
}

func (d *decoder) take(n int) ([]byte, error) {
	if n < 0 || d.pos+n > len(d.buf) {
		return nil, ErrTruncated
	}
	b := d.buf[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

func (d *decoder) u32() (int, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	n := binary.BigEndian.Uint32(b)
	if uint64(n) > uint64(len(d.buf)) {
		return 0, ErrTruncated
	}
	return int(n), nil
}

func (d *decoder) principal() (StandardPrincipal, error) {
	b, err := d.take(21)
	if err != nil {
		return StandardPrincipal{}, err
	}
	p := StandardPrincipal{Version: b[0]}
	copy(p.Hash160[:], b[1:])
	return p, nil
}

func (d *decoder) value(depth int) (Value, error) {
	if depth > maxDepth {
		return nil, ErrTooDeep
	}
	prefix, err := d.take(1)
	if err != nil {
		return nil, err
	}

	switch Type(prefix[0]) {
	case TypeInt, TypeUInt:
		b, err := d.take(16)
		if err != nil {
			return nil, err
		}
		n := new(big.Int).SetBytes(b)
		if Type(prefix[0]) == TypeUInt {
			return UInt{V: n}, nil
		}
		if n.Cmp(two127) >= 0 {
			n.Sub(n, two128)
		}
		return Int{V: n}, nil

	case TypeBoolTrue:
		return Bool(true), nil
	case TypeBoolFalse:
		return Bool(false), nil

	case TypeBuffer, TypeStringASCII, TypeStringUTF8:
		n, err := d.u32()
		if err != nil {
			return nil, err
		}
		b, err := d.take(n)
		if err != nil {
			return nil, err
		}
		switch Type(prefix[0]) {
		case TypeBuffer:
			return Buffer(append([]byte{}, b...)), nil
		case TypeStringASCII:
			return StringASCII(b), nil
		default:
			return StringUTF8(b), nil
		}

	case TypeStandardPrincipal:
		return d.principal()

	case TypeContractPrincipal:
		p, err := d.principal()
		if err != nil {
			return nil, err
		}
		l, err := d.take(1)
		if err != nil {
			return nil, err
		}
		name, err := d.take(int(l[0]))
		if err != nil {
			return nil, err
		}
		return ContractPrincipal{StandardPrincipal: p, Name: string(name)}, nil

	case TypeResponseOk, TypeResponseErr, TypeOptionalSome:
		inner, err := d.value(depth + 1)
		if err != nil {
			return nil, err
		}
		switch Type(prefix[0]) {
		case TypeResponseOk:
			return ResponseOk{Inner: inner}, nil
		case TypeResponseErr:
			return ResponseErr{Inner: inner}, nil
		default:
			return OptionalSome{Inner: inner}, nil
		}

	case TypeOptionalNone:
		return OptionalNone{}, nil

	case TypeList:
		n, err := d.u32()
		if err != nil {
			return nil, err
		}
		list := make(List, 0, min(n, len(d.buf)-d.pos))
		for i := 0; i < n; i++ {
			item, err := d.value(depth + 1)
			if err != nil {
				return nil, err
			}
			list = append(list, item)
		}
		return list, nil

	case TypeTuple:
		n, err := d.u32()
		if err != nil {
			return nil, err
		}
		tuple := make(Tuple, min(n, len(d.buf)-d.pos))
		for i := 0; i < n; i++ {
			l, err := d.take(1)
			if err != nil {
				return nil, err
			}
			key, err := d.take(int(l[0]))
			if err != nil {
				return nil, err
			}
			item, err := d.value(depth + 1)
			if err != nil {
				return nil, err
			}
			tuple[string(key)] = item
		}
		return tuple, nil
	}

	return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownType, prefix[0])
}

func encode(out *[]byte, v Value, depth int) error {
	if depth > maxDepth {
		return ErrTooDeep
	}

	switch t := v.(type) {
	case Int:
		n := new(big.Int)
		if t.V != nil {
			n.Set(t.V)
		}
		if n.Sign() < 0 {
			n.Add(n, two128)
		}
		*out = append(*out, byte(TypeInt))
		*out = append(*out, n.FillBytes(make([]byte, 16))...)
	case UInt:
		n := new(big.Int)
		if t.V != nil {
			n.Set(t.V)
		}
		if n.Sign() < 0 || n.BitLen() > 128 {
			return fmt.Errorf("clarity: uint out of range: %s", n)
		}
		*out = append(*out, byte(TypeUInt))
		*out = append(*out, n.FillBytes(make([]byte, 16))...)
	case Bool:
		*out = append(*out, byte(t.Type()))
	case Buffer:
		appendBytes(out, TypeBuffer, t)
	case StringASCII:
		appendBytes(out, TypeStringASCII, []byte(t))
	case StringUTF8:
		appendBytes(out, TypeStringUTF8, []byte(t))
	case StandardPrincipal:
		*out = append(*out, byte(TypeStandardPrincipal), t.Version)
		*out = append(*out, t.Hash160[:]...)
	case ContractPrincipal:
		if len(t.Name) > 255 {
			return fmt.Errorf("clarity: contract name too long: %d", len(t.Name))
		}
		*out = append(*out, byte(TypeContractPrincipal), t.Version)
		*out = append(*out, t.Hash160[:]...)
		*out = append(*out, byte(len(t.Name)))
		*out = append(*out, t.Name...)
	case ResponseOk:
		*out = append(*out, byte(TypeResponseOk))
		return encode(out, t.Inner, depth+1)
	case ResponseErr:
		*out = append(*out, byte(TypeResponseErr))
		return encode(out, t.Inner, depth+1)
	case OptionalSome:
		*out = append(*out, byte(TypeOptionalSome))
		return encode(out, t.Inner, depth+1)
	case OptionalNone:
		*out = append(*out, byte(TypeOptionalNone))
	case List:
		*out = append(*out, byte(TypeList))
		*out = binary.BigEndian.AppendUint32(*out, uint32(len(t)))
		for _, item := range t {
			if err := encode(out, item, depth+1); err != nil {
				return err
			}
		}
	case Tuple:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		*out = append(*out, byte(TypeTuple))
		*out = binary.BigEndian.AppendUint32(*out, uint32(len(keys)))
		for _, k := range keys {
			if len(k) > 255 {
				return fmt.Errorf("clarity: tuple key too long: %q", k)
			}
			*out = append(*out, byte(len(k)))
			*out = append(*out, k...)
			if err := encode(out, t[k], depth+1); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("clarity: cannot encode %T", v)
	}
	return nil
}

func appendBytes(out *[]byte, typ Type, b []byte) {
	*out = append(*out, byte(typ))
	*out = binary.BigEndian.AppendUint32(*out, uint32(len(b)))
	*out = append(*out, b...)
}
