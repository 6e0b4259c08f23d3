// Package c32 implements Crockford base-32 with the c32check checksum scheme
// used by Stacks principals.
package c32

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

const alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// Address version bytes
const (
	VersionMainnetSingleSig byte = 22 // 'P'
	VersionMainnetMultiSig  byte = 20 // 'M'
	VersionTestnetSingleSig byte = 26 // 'T'
	VersionTestnetMultiSig  byte = 21 // 'N'
)

var (
	ErrInvalidCharacter = errors.New("c32: invalid character")
	ErrChecksum         = errors.New("c32: checksum mismatch")
	ErrTooShort         = errors.New("c32: input too short")
)

var base = big.NewInt(32)

// Encode converts data to c32. Each leading zero byte becomes a leading '0'.
func Encode(data []byte) string {
	n := new(big.Int).SetBytes(data)
	mod := new(big.Int)

	var out []byte
	for n.Sign() > 0 {
		n.DivMod(n, base, mod)
		out = append(out, alphabet[mod.Int64()])
	}
	for _, b := range data {
		if b != 0 {
			break
		}
		out = append(out, alphabet[0])
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}

// Decode is the inverse of Encode
func Decode(s string) ([]byte, error) {
	s = normalize(s)

	zeros := 0
	for zeros < len(s) && s[zeros] == alphabet[0] {
		zeros++
	}

	n := new(big.Int)
	for _, r := range s[zeros:] {
		idx := strings.IndexRune(alphabet, r)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCharacter, r)
		}
		n.Mul(n, base)
		n.Add(n, big.NewInt(int64(idx)))
	}

	return append(make([]byte, zeros), n.Bytes()...), nil
}

// CheckEncode encodes version and data with a four byte double-SHA256 checksum
func CheckEncode(version byte, data []byte) string {
	sum := checksum(version, data)
	return string(alphabet[version&31]) + Encode(append(append([]byte{}, data...), sum...))
}

// CheckDecode verifies and strips the checksum produced by CheckEncode
func CheckDecode(s string) (byte, []byte, error) {
	s = normalize(s)
	if len(s) < 2 {
		return 0, nil, ErrTooShort
	}

	version := strings.IndexByte(alphabet, s[0])
	if version < 0 {
		return 0, nil, fmt.Errorf("%w: %q", ErrInvalidCharacter, s[0])
	}

	raw, err := Decode(s[1:])
	if err != nil {
		return 0, nil, err
	}
	if len(raw) < 4 {
		return 0, nil, ErrTooShort
	}

	data, sum := raw[:len(raw)-4], raw[len(raw)-4:]
	if !bytes.Equal(sum, checksum(byte(version), data)) {
		return 0, nil, ErrChecksum
	}
	return byte(version), data, nil
}

// Address renders a principal from its version byte and hash160
func Address(version byte, hash160 []byte) string {
	return "S" + CheckEncode(version, hash160)
}

// DecodeAddress parses a principal back into its version byte and hash160
func DecodeAddress(addr string) (byte, []byte, error) {
	if len(addr) < 5 {
		return 0, nil, ErrTooShort
	}
	if addr[0] != 'S' && addr[0] != 's' {
		return 0, nil, fmt.Errorf("%w: principal must start with S", ErrInvalidCharacter)
	}
	return CheckDecode(addr[1:])
}

func checksum(version byte, data []byte) []byte {
	first := sha256.Sum256(append([]byte{version}, data...))
	second := sha256.Sum256(first[:])
	return second[:4]
}

// normalize applies the Crockford substitutions for ambiguous characters
func normalize(s string) string {
	s = strings.ToUpper(s)
	s = strings.ReplaceAll(s, "O", "0")
	s = strings.ReplaceAll(s, "L", "1")
	return strings.ReplaceAll(s, "I", "1")
}
