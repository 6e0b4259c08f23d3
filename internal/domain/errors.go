package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAddressFormat is returned before any network call for malformed addresses
	ErrInvalidAddressFormat = errors.New("invalid contract address format")
	// ErrContractNotFound means the remote interface has no such contract or account
	ErrContractNotFound = errors.New("contract not found")
	// ErrNetworkUnreachable means the remote interface could not be reached
	ErrNetworkUnreachable = errors.New("network unreachable")
	// ErrFunctionNotAvailable is an expected probe miss
	ErrFunctionNotAvailable = errors.New("function not available")
	// ErrDetailsUnavailable means the adapter cannot serve details without DAO context
	ErrDetailsUnavailable = errors.New("proposal details not available without dao context")
)

// InvalidAddressError describes why an address was rejected
type InvalidAddressError struct {
	Address string
	Reason  string
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid address %q: %s", e.Address, e.Reason)
}

func (e *InvalidAddressError) Unwrap() error {
	return ErrInvalidAddressFormat
}

// NewInvalidAddressError creates an InvalidAddressError
func NewInvalidAddressError(address, reason string) *InvalidAddressError {
	return &InvalidAddressError{Address: address, Reason: reason}
}

// TreasuryFetchError is raised when the baseline balance of a treasury cannot be read
type TreasuryFetchError struct {
	Address string
	Cause   error
}

func (e *TreasuryFetchError) Error() string {
	return fmt.Sprintf("unable to fetch treasury data for %s: %v", e.Address, e.Cause)
}

func (e *TreasuryFetchError) Unwrap() error {
	return e.Cause
}
