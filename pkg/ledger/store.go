package ledger

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"strconv"
	"strings"

	"github.com/dtnitsch/levelwatch/pkg/storage"
)

// stateFile is the on-disk layout. Baseline has no omitempty: an initialised
// but empty baseline must survive as {} while an uninitialised one is null.
type stateFile struct {
	Levels           map[string]int    `json:"levels"`
	Baseline         map[string]int    `json:"baseline"`
	LastPostDate     string            `json:"last_post_date"`
	AnnouncedMembers map[string]string `json:"announced_members,omitempty"`
	LastSeen         map[string]string `json:"last_seen,omitempty"`
}

// CoerceLevel converts a persisted value to a non-negative level. Anything
// that is not a number or a numeric string becomes zero.
func CoerceLevel(v any) int {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return clampLevel(i)
		}
		if f, err := x.Float64(); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return clampLevel(int64(f))
		}
	case float64:
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			return clampLevel(int64(x))
		}
	case int:
		return clampLevel(int64(x))
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64); err == nil {
			return clampLevel(i)
		}
	}
	return 0
}

func clampLevel(i int64) int {
	if i < 0 {
		return 0
	}
	if i > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(i)
}

// Decode parses a ledger file. Malformed fields are ignored individually; only
// input that is not a JSON object at all is an error.
func Decode(data []byte) (State, error) {
	var raw map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return Empty(), fmt.Errorf("failed to decode ledger: %w", err)
	}

	st := Empty()
	if levels, ok := decodeLevels(raw["levels"]); ok {
		st.Levels = levels
	}
	if baseline, ok := decodeLevels(raw["baseline"]); ok {
		st.Baseline = baseline
	}
	st.LastPostDate = decodeString(raw["last_post_date"])
	st.AnnouncedMembers = decodeDates(raw["announced_members"])
	st.LastSeen = decodeDates(raw["last_seen"])
	return st, nil
}

// Encode renders the ledger file.
func Encode(st State) ([]byte, error) {
	data, err := json.MarshalIndent(stateFile{
		Levels:           nonNil(st.Levels),
		Baseline:         st.Baseline,
		LastPostDate:     st.LastPostDate,
		AnnouncedMembers: st.AnnouncedMembers,
		LastSeen:         st.LastSeen,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode ledger: %w", err)
	}
	return append(data, '\n'), nil
}

// Load reads the ledger file. A missing file is the empty state. An unreadable
// file also yields the empty state, together with the error so the caller can
// report it.
func Load(s *storage.Storage, path string) (State, error) {
	data, err := s.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Empty(), nil
	}
	if err != nil {
		return Empty(), fmt.Errorf("failed to load ledger: %w", err)
	}
	return Decode(data)
}

// Save writes the ledger file atomically.
func Save(s *storage.Storage, path string, st State) error {
	data, err := Encode(st)
	if err != nil {
		return err
	}
	if err := s.SaveFile(path, data); err != nil {
		return fmt.Errorf("failed to save ledger: %w", err)
	}
	return nil
}

// decodeLevels returns ok=false when the field is absent, null or not an
// object.
func decodeLevels(msg json.RawMessage) (map[string]int, bool) {
	if isNull(msg) {
		return nil, false
	}
	var values map[string]any
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.UseNumber()
	if err := dec.Decode(&values); err != nil || values == nil {
		return nil, false
	}
	out := make(map[string]int, len(values))
	for name, v := range values {
		if strings.TrimSpace(name) == "" {
			continue
		}
		out[name] = CoerceLevel(v)
	}
	return out, true
}

func decodeDates(msg json.RawMessage) map[string]string {
	out := map[string]string{}
	if isNull(msg) {
		return out
	}
	var values map[string]any
	if err := json.Unmarshal(msg, &values); err != nil {
		return out
	}
	for name, v := range values {
		if s, ok := v.(string); ok {
			out[name] = s
		}
	}
	return out
}

func decodeString(msg json.RawMessage) string {
	var s string
	if isNull(msg) || json.Unmarshal(msg, &s) != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func isNull(msg json.RawMessage) bool {
	trimmed := bytes.TrimSpace(msg)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func nonNil(m map[string]int) map[string]int {
	if m == nil {
		return map[string]int{}
	}
	return m
}
