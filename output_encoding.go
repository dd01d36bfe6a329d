package mcptools

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// lookupEncoding resolves a charset name such as "windows-1252" or "shift_jis".
// An empty name means the output is passed through as-is.
func lookupEncoding(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported output encoding %q: %w", name, err)
	}
	return enc, nil
}

// decodeOutput converts raw interpreter output to a UTF-8 string.
// Undecodable bytes are replaced instead of failing the run.
func decodeOutput(enc encoding.Encoding, raw []byte) string {
	if enc == nil {
		return string(raw)
	}
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return strings.ToValidUTF8(string(raw), "�")
	}
	return string(decoded)
}
