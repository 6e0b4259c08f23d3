// Package loader reads the static seed list of known DAOs.
package loader

import (
	"bytes"
	"fmt"
	"log"
	"os"

	"daoview/internal/codec"
	"daoview/internal/domain"
	"daoview/internal/stacks"
)

// Seed is a parsed seed list
type Seed struct {
	Version string
	Daos    []domain.KnownDao
	// Skipped describes entries that were dropped, one line each
	Skipped []string
}

// LoadSeed loads a seed list, choosing the format from the file extension
func LoadSeed(path string) (*Seed, error) {
	c, err := codec.ForPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return ParseSeed(data, c)
}

// ParseSeed parses seed bytes with importer and normalises the entries.
// Entries with malformed addresses, a network that contradicts the address,
// no name, or an address seen earlier in the list are skipped.
func ParseSeed(data []byte, importer codec.Importer) (*Seed, error) {
	list, err := importer.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	seed := &Seed{Version: list.Version}
	seen := make(map[string]bool, len(list.Daos))

	for i, dao := range list.Daos {
		reason := normalise(&dao)
		if reason == "" && seen[dao.ContractAddress] {
			reason = "duplicate address"
		}
		if reason != "" {
			seed.Skipped = append(seed.Skipped, fmt.Sprintf("entry %d (%s): %s", i, dao.ContractAddress, reason))
			continue
		}

		seen[dao.ContractAddress] = true
		dao.Source = domain.SourceSeed
		seed.Daos = append(seed.Daos, dao)
	}

	for _, line := range seed.Skipped {
		log.Printf("Seed list: skipped %s", line)
	}
	return seed, nil
}

// normalise fills the network from the address and returns why dao is unusable, if it is
func normalise(dao *domain.KnownDao) string {
	if dao.Name == "" {
		return "missing name"
	}

	parsed, ok := stacks.ParseContractAddress(dao.ContractAddress)
	if !ok {
		return "malformed contract address"
	}

	network, _ := stacks.NetworkOf(parsed.Principal)
	if dao.Network != "" && dao.Network != network {
		return fmt.Sprintf("address belongs to %s, entry says %s", network, dao.Network)
	}
	dao.Network = network
	return ""
}
