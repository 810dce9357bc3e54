package canonical

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Encode renders a canonical document to its on-disk byte form: two-space
// indent, no HTML escaping, trailing newline. Key order follows struct
// declaration order, so encoding the same document always yields identical
// bytes. The normalize CLI compares these bytes against the current file to
// decide whether a rewrite is needed.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encoding canonical document: %w", err)
	}
	return buf.Bytes(), nil
}
