package codec

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONCodec handles JSON import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Parse reads a DAO list from JSON. A bare array of entries is accepted too.
func (c *JSONCodec) Parse(r io.Reader) (*DaoList, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON: %w", err)
	}

	var list DaoList
	if err := json.Unmarshal(raw, &list); err != nil {
		if err := json.Unmarshal(raw, &list.Daos); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	}
	return &list, nil
}

// Export writes a DAO list as indented JSON
func (c *JSONCodec) Export(list *DaoList, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(list); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
