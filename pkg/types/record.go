package types

import (
	"encoding/json"
	"strconv"
)

// Record is a single source-code record from a bulk dump or directory scan.
// Records are immutable once loaded; a record's index in the store is its
// identity for the lifetime of the loaded set.
type Record struct {
	RepoName string `json:"repo_name"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	Content  string `json:"content"`

	// Passthrough metadata, display only.
	License       string  `json:"license"`
	Copies        int     `json:"copies"`
	Hash          string  `json:"hash,omitempty"`
	LineMean      float64 `json:"line_mean,omitempty"`
	LineMax       float64 `json:"line_max,omitempty"`
	AlphaFrac     float64 `json:"alpha_frac,omitempty"`
	Autogenerated bool    `json:"autogenerated,omitempty"`
}

// recordAlias avoids recursion in UnmarshalJSON.
type recordAlias Record

// rawRecord accepts the loosely-typed fields seen in real dumps, where size
// and copies may arrive as numbers, numeric strings, or be absent entirely.
type rawRecord struct {
	recordAlias
	Size   json.RawMessage `json:"size"`
	Copies json.RawMessage `json:"copies"`
}

// UnmarshalJSON decodes a record applying the ingestion defaults: missing or
// invalid size becomes 0, missing license becomes "N/A", missing copies
// becomes 1. A malformed field never rejects the whole record.
func (r *Record) UnmarshalJSON(data []byte) error {
	raw := rawRecord{
		recordAlias: recordAlias{
			License: "N/A",
			Copies:  1,
		},
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = Record(raw.recordAlias)
	r.Size = coerceInt64(raw.Size, 0)
	r.Copies = int(coerceInt64(raw.Copies, 1))
	if r.License == "" {
		r.License = "N/A"
	}
	return nil
}

// coerceInt64 interprets a raw JSON value as an integer, accepting numbers
// and numeric strings. Anything else yields the fallback.
func coerceInt64(raw json.RawMessage, fallback int64) int64 {
	if len(raw) == 0 {
		return fallback
	}

	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return int64(f)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			return v
		}
	}

	return fallback
}
