package stacks

import (
	"crypto/sha256"
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/crypto/ripemd160"

	"daoview/internal/c32"
	"daoview/internal/domain"
)

const maxContractNameLength = 128

var contractNamePattern = regexp.MustCompile(`^[a-zA-Z]([a-zA-Z0-9]|[-_])*$`)

// NetworkOf returns the network a principal was minted for
func NetworkOf(principal string) (domain.Network, error) {
	version, hash, err := c32.DecodeAddress(principal)
	if err != nil {
		return "", err
	}
	if len(hash) != 20 {
		return "", fmt.Errorf("hash160 must be 20 bytes, got %d", len(hash))
	}

	switch version {
	case c32.VersionMainnetSingleSig, c32.VersionMainnetMultiSig:
		return domain.NetworkMainnet, nil
	case c32.VersionTestnetSingleSig, c32.VersionTestnetMultiSig:
		return domain.NetworkTestnet, nil
	}
	return "", fmt.Errorf("unknown address version %d", version)
}

// IsValidAddress reports whether address is a syntactically valid contract address on any network
func IsValidAddress(address string) bool {
	_, err := parse(address)
	return err == nil
}

// ParseContractAddress splits address on the first '.' and checks both halves.
// It reports false for anything malformed.
func ParseContractAddress(address string) (domain.ContractAddress, bool) {
	parsed, err := parse(address)
	return parsed, err == nil
}

// ValidateContractAddress parses address and checks that its principal belongs to network
func ValidateContractAddress(address string, network domain.Network) (domain.ContractAddress, error) {
	parsed, err := parse(address)
	if err != nil {
		return domain.ContractAddress{}, err
	}

	actual, _ := NetworkOf(parsed.Principal)
	if actual != network {
		return domain.ContractAddress{}, domain.NewInvalidAddressError(address,
			fmt.Sprintf("principal belongs to %s, not %s", actual, network))
	}
	return parsed, nil
}

func parse(address string) (domain.ContractAddress, error) {
	principal, name, found := strings.Cut(address, ".")
	if !found {
		return domain.ContractAddress{}, domain.NewInvalidAddressError(address, "missing contract name")
	}
	if _, err := NetworkOf(principal); err != nil {
		return domain.ContractAddress{}, domain.NewInvalidAddressError(address, err.Error())
	}
	if len(name) == 0 || len(name) > maxContractNameLength || !contractNamePattern.MatchString(name) {
		return domain.ContractAddress{}, domain.NewInvalidAddressError(address, "invalid contract name")
	}
	return domain.ContractAddress{Principal: principal, ContractName: name}, nil
}

// Hash160 is RIPEMD160(SHA256(data))
func Hash160(data []byte) []byte {
	sum := sha256.Sum256(data)
	h := ripemd160.New()
	h.Write(sum[:])
	return h.Sum(nil)
}

// AddressFromPublicKey derives the single-signature principal a wallet key controls
func AddressFromPublicKey(pubKeyHex string, network domain.Network) (string, error) {
	if !strings.HasPrefix(pubKeyHex, "0x") {
		pubKeyHex = "0x" + pubKeyHex
	}
	pub, err := hexutil.Decode(pubKeyHex)
	if err != nil {
		return "", fmt.Errorf("decode public key: %w", err)
	}

	switch {
	case len(pub) == 33 && (pub[0] == 0x02 || pub[0] == 0x03):
	case len(pub) == 65 && pub[0] == 0x04:
	default:
		return "", fmt.Errorf("public key must be 33 byte compressed or 65 byte uncompressed secp256k1, got %d bytes", len(pub))
	}

	version := c32.VersionMainnetSingleSig
	if network == domain.NetworkTestnet {
		version = c32.VersionTestnetSingleSig
	}
	return c32.Address(version, Hash160(pub)), nil
}
