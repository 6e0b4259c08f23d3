package stacks

import (
	"fmt"
	"strconv"
	"strings"
)

// MicroStxPerStx is the number of micro-STX in one STX
const MicroStxPerStx = 1_000_000

// MicroStxToStx converts micro-STX to STX for display
func MicroStxToStx(micro int64) float64 {
	return float64(micro) / MicroStxPerStx
}

// ParseMicroStx parses a decimal micro-STX amount as reported by the balances endpoint
func ParseMicroStx(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse micro-stx %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative balance %d", n)
	}
	return n, nil
}
