// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

package recommend

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"
	"strconv"

	"github.com/goccy/go-json"
)

// Key identifies either an object or a value.
//
// Object ids and values may be strings or integers at the edges of the
// system; they are normalized to their canonical string form here so that
// IntKey(7) and Key("7") compare equal. Object ids and values share the
// representation but are never mixed up by the store.
type Key string

// IntKey returns the canonical key for an integer identifier.
func IntKey(n int64) Key {
	return Key(strconv.FormatInt(n, 10))
}

// String implements fmt.Stringer.
func (k Key) String() string {
	return string(k)
}

// UnmarshalJSON accepts a JSON string or a JSON integer.
func (k *Key) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*k = Key(s)
		return nil
	}

	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("key must be a string or an integer, got %s", data)
	}
	*k = IntKey(n)
	return nil
}

// Keys converts strings to keys.
func Keys(values ...string) []Key {
	out := make([]Key, len(values))
	for i, v := range values {
		out[i] = Key(v)
	}
	return out
}

// ValueSet is an insertion-ordered set of values.
// The zero value is an empty set ready for use.
type ValueSet struct {
	keys  []Key
	index map[Key]struct{}
}

// NewValueSet builds a set from values, dropping duplicates.
func NewValueSet(values ...Key) ValueSet {
	s := ValueSet{
		keys:  make([]Key, 0, len(values)),
		index: make(map[Key]struct{}, len(values)),
	}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts v and reports whether it was not already present.
func (s *ValueSet) Add(v Key) bool {
	if s.index == nil {
		s.index = make(map[Key]struct{})
	}
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = struct{}{}
	s.keys = append(s.keys, v)
	return true
}

// Has reports whether v is in the set.
func (s ValueSet) Has(v Key) bool {
	_, ok := s.index[v]
	return ok
}

// Len returns the number of values.
func (s ValueSet) Len() int {
	return len(s.keys)
}

// Keys returns the values in insertion order.
func (s ValueSet) Keys() []Key {
	return slices.Clone(s.keys)
}

// Clone returns an independent copy of the set.
func (s ValueSet) Clone() ValueSet {
	return NewValueSet(s.keys...)
}

// MarshalJSON encodes the set as an array.
func (s ValueSet) MarshalJSON() ([]byte, error) {
	if s.keys == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.keys)
}

// UnmarshalJSON decodes an array, dropping duplicates.
func (s *ValueSet) UnmarshalJSON(data []byte) error {
	var keys []Key
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	*s = NewValueSet(keys...)
	return nil
}

// Node is an object together with the values attached to it.
type Node struct {
	ID     Key      `json:"id"`
	Values ValueSet `json:"values"`
}

// Recommendation is a value that co-occurred with some reference Score times.
type Recommendation struct {
	Value Key   `json:"value"`
	Score int64 `json:"score"`
}

// SortRecommendations orders recs by score descending. Equal scores are
// ordered by value so results are stable across backends.
func SortRecommendations(recs []Recommendation) {
	slices.SortFunc(recs, func(a, b Recommendation) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Value, b.Value)
	})
}

// CountsToRecommendations converts a value→count map into sorted recommendations.
func CountsToRecommendations(counts map[Key]int64) []Recommendation {
	recs := make([]Recommendation, 0, len(counts))
	for v, c := range counts {
		recs = append(recs, Recommendation{Value: v, Score: c})
	}
	SortRecommendations(recs)
	return recs
}

// Values strips the scores from recs.
func Values(recs []Recommendation) []Key {
	out := make([]Key, len(recs))
	for i, r := range recs {
		out[i] = r.Value
	}
	return out
}
