package budget

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// encodeState writes the whole ledger document in its canonical form:
// UTF-8, stable field ordering, ISO-8601 timestamps with fractional
// seconds (time.Time's RFC 3339 encoding), two-space indentation.
func encodeState(w io.Writer, s *ledgerState) error {
	decimal.MarshalJSONWithoutQuotes = true
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("could not encode ledger state: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("could not write ledger state: %w", err)
	}
	return nil
}

// decodeState reads a ledger document, tolerating legacy key names, and
// normalizes the result: missing collections decode as empty and all
// next-ID counters are recomputed to exceed the maximum ID present.
func decodeState(r io.Reader) (*ledgerState, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("could not read ledger document: %w", err)
	}
	return decodeStateBytes(data)
}

func decodeStateBytes(data []byte) (*ledgerState, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return newLedgerState(), nil
	}
	s := &ledgerState{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("could not decode ledger document: %w", err)
	}
	s.normalize()
	return s, nil
}

func encodeStateBytes(s *ledgerState) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeState(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
