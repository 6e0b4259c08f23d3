package codec

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"daoview/internal/domain"
)

// CurrentVersion is written into exported DAO lists
const CurrentVersion = "1"

// DaoList is the document form of a list of known DAOs
type DaoList struct {
	Version string            `json:"version" yaml:"version"`
	Daos    []domain.KnownDao `json:"daos" yaml:"daos"`
}

// Importer reads DAO lists from a format
type Importer interface {
	Parse(r io.Reader) (*DaoList, error)
	Format() string
}

// Exporter writes DAO lists to a format
type Exporter interface {
	Export(list *DaoList, w io.Writer) error
	Format() string
}

// Codec is both
type Codec interface {
	Importer
	Exporter
}

// ByFormat returns the codec for "json" or "yaml"
func ByFormat(format string) (Codec, error) {
	switch strings.ToLower(format) {
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}

// ForPath picks a codec from a file extension
func ForPath(path string) (Codec, error) {
	return ByFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}
