// Package memory implements the record store contract in process memory.
// It backs unit tests and store-less local runs. Rows are kept as JSON
// documents so filtering and decoding behave like the remote backends.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/mherrera/rodeo/internal/record"
)

// Store keeps one ordered row list per table, guarded by a single mutex.
// Insertion order is preserved, which gives tests a deterministic tiebreak.
type Store struct {
	mu     sync.RWMutex
	tables map[string][]map[string]any
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{tables: map[string][]map[string]any{}}
}

// List copies every row matching filter into out.
func (s *Store) List(_ context.Context, table string, filter record.Filter, out any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]map[string]any, 0)
	for _, row := range s.tables[table] {
		if matches(row, filter) {
			matched = append(matched, row)
		}
	}

	raw, err := json.Marshal(matched)
	if err != nil {
		return fmt.Errorf("encode %s rows: %w", table, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s rows: %w", table, err)
	}
	return nil
}

// Insert appends the rows to the table in the given order.
func (s *Store) Insert(_ context.Context, table string, rows []any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range rows {
		doc, err := toDocument(row)
		if err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
		s.tables[table] = append(s.tables[table], doc)
	}
	return nil
}

// Update applies patch to every row matching filter.
func (s *Store) Update(_ context.Context, table string, filter record.Filter, patch record.Patch) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, row := range s.tables[table] {
		if !matches(row, filter) {
			continue
		}
		for field, value := range patch {
			row[field] = normalize(value)
		}
		count++
	}
	return count, nil
}

// Delete removes every row matching filter.
func (s *Store) Delete(_ context.Context, table string, filter record.Filter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]map[string]any, 0, len(s.tables[table]))
	var count int64
	for _, row := range s.tables[table] {
		if matches(row, filter) {
			count++
			continue
		}
		kept = append(kept, row)
	}
	s.tables[table] = kept
	return count, nil
}

// Count reports how many rows a table currently holds. Test helper.
func (s *Store) Count(table string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tables[table])
}

func toDocument(row any) (map[string]any, error) {
	raw, err := json.Marshal(row)
	if err != nil {
		return nil, err
	}
	doc := map[string]any{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func matches(row map[string]any, filter record.Filter) bool {
	for field, cond := range filter {
		value, present := row[field]
		switch {
		case cond.Null != nil:
			isNull := !present || value == nil
			if isNull != *cond.Null {
				return false
			}
		case len(cond.In) > 0:
			if !contains(cond.In, asString(value)) {
				return false
			}
		case cond.Gte != nil || cond.Lte != nil:
			if value == nil {
				return false
			}
			if cond.Gte != nil && compare(value, cond.Gte) < 0 {
				return false
			}
			if cond.Lte != nil && compare(value, cond.Lte) > 0 {
				return false
			}
		default:
			if asString(value) != asString(cond.Eq) {
				return false
			}
		}
	}
	return true
}

// compare orders two values numerically when both parse as numbers and
// lexically otherwise. Timestamps normalize to RFC3339 strings, which order
// correctly as text.
func compare(a, b any) int {
	as, bs := asString(a), asString(b)
	af, aerr := strconv.ParseFloat(as, 64)
	bf, berr := strconv.ParseFloat(bs, 64)
	if aerr == nil && berr == nil {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	default:
		return 0
	}
}

func asString(v any) string {
	if t, ok := v.(time.Time); ok {
		return t.UTC().Format(time.RFC3339Nano)
	}
	return fmt.Sprint(normalize(v))
}

// normalize pushes a value through JSON so stored rows, patches and filter
// operands share one representation.
func normalize(v any) any {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
