// params/params.go
// Copyright(c) 2022-2025 airsep contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package params is a flat key -> (value, unit) parameter store. Values
// are held in internal units; the unit records how a value is presented
// and parsed, so that a store can be written out as configuration text
// and read back without loss.
package params

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/airsep/airsep/units"

	"github.com/iancoleman/orderedmap"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	ErrNoKey     = errors.New("no such parameter")
	ErrEmptyKey  = errors.New("empty parameter name")
	ErrBadSyntax = errors.New("malformed parameter line")
)

// Entry is a single parameter. Value is in internal units.
type Entry struct {
	Value float64 `msgpack:"v"`
	Unit  string  `msgpack:"u"`
}

// String returns the value expressed in its unit.
func (e Entry) String() string {
	return units.Format(e.Value, e.Unit)
}

// Store keeps parameters in insertion order so that text output is
// stable and mirrors the order the producer wrote them in.
type Store struct {
	m *orderedmap.OrderedMap
}

func New() *Store {
	return &Store{m: orderedmap.New()}
}

func (s *Store) lazyInit() {
	if s.m == nil {
		s.m = orderedmap.New()
	}
}

// Set stores value, expressed in unit.
func (s *Store) Set(key string, value float64, unit string) error {
	iv, err := units.ToInternal(value, unit)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return s.SetInternal(key, iv, unit)
}

// SetInternal stores the internal value v, to be presented in unit.
func (s *Store) SetInternal(key string, v float64, unit string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if !units.Known(unit) {
		return fmt.Errorf("%s: %q: %w", key, unit, units.ErrUnknownUnit)
	}
	s.lazyInit()
	s.m.Set(key, Entry{Value: v, Unit: unit})
	return nil
}

func (s *Store) Get(key string) (Entry, bool) {
	if s == nil || s.m == nil {
		return Entry{}, false
	}
	v, ok := s.m.Get(key)
	if !ok {
		return Entry{}, false
	}
	e, ok := v.(Entry)
	return e, ok
}

// Value returns the internal value for key.
func (s *Store) Value(key string) (float64, bool) {
	e, ok := s.Get(key)
	return e.Value, ok
}

// ValueIn returns the value for key converted to unit.
func (s *Store) ValueIn(key, unit string) (float64, error) {
	e, ok := s.Get(key)
	if !ok {
		return 0, fmt.Errorf("%s: %w", key, ErrNoKey)
	}
	return units.FromInternal(e.Value, unit)
}

func (s *Store) Contains(key string) bool {
	_, ok := s.Get(key)
	return ok
}

func (s *Store) Delete(key string) {
	if s != nil && s.m != nil {
		s.m.Delete(key)
	}
}

func (s *Store) Keys() []string {
	if s == nil || s.m == nil {
		return nil
	}
	return s.m.Keys()
}

func (s *Store) Len() int {
	return len(s.Keys())
}

// Merge copies every entry of o into s, overwriting existing keys.
func (s *Store) Merge(o *Store) {
	for _, k := range o.Keys() {
		e, _ := o.Get(k)
		s.lazyInit()
		s.m.Set(k, e)
	}
}

// Equal reports whether both stores hold the same keys with identical
// values and units; key order is not considered.
func (s *Store) Equal(o *Store) bool {
	if s.Len() != o.Len() {
		return false
	}
	for _, k := range s.Keys() {
		a, _ := s.Get(k)
		b, ok := o.Get(k)
		if !ok || a != b {
			return false
		}
	}
	return true
}

// String returns the store in the text form accepted by Parse. Values go
// through their display unit, so parsing the text back can differ from
// the stored internal value in the last bits; MarshalBinary is exact.
func (s *Store) String() string {
	var sb strings.Builder
	for _, k := range s.Keys() {
		e, _ := s.Get(k)
		sb.WriteString(k)
		sb.WriteString(" = ")
		uv, _ := units.FromInternal(e.Value, e.Unit)
		sb.WriteString(strconv.FormatFloat(uv, 'g', -1, 64))
		if e.Unit != units.Internal {
			sb.WriteString(" " + e.Unit)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Parse reads "key = value [unit]" lines. Blank lines and anything after
// a '#' are ignored. Later assignments to a key replace earlier ones.
func Parse(text string) (*Store, error) {
	s := New()
	sc := bufio.NewScanner(strings.NewReader(text))
	for lineno := 1; sc.Scan(); lineno++ {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		key, val, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: %q: %w", lineno, line, ErrBadSyntax)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("line %d: %w", lineno, ErrEmptyKey)
		}
		iv, unit, err := units.ParseQuantity(val)
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", lineno, key, err)
		}
		if err := s.SetInternal(key, iv, unit); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

type wireEntry struct {
	Key   string  `msgpack:"k"`
	Value float64 `msgpack:"v"`
	Unit  string  `msgpack:"u"`
}

// MarshalBinary encodes the store with msgpack, preserving key order.
func (s *Store) MarshalBinary() ([]byte, error) {
	w := make([]wireEntry, 0, s.Len())
	for _, k := range s.Keys() {
		e, _ := s.Get(k)
		w = append(w, wireEntry{Key: k, Value: e.Value, Unit: e.Unit})
	}
	return msgpack.Marshal(w)
}

// UnmarshalBinary replaces the contents of s with the encoded store.
func (s *Store) UnmarshalBinary(b []byte) error {
	var w []wireEntry
	if err := msgpack.Unmarshal(b, &w); err != nil {
		return err
	}
	n := New()
	for _, e := range w {
		if err := n.SetInternal(e.Key, e.Value, e.Unit); err != nil {
			return err
		}
	}
	s.m = n.m
	return nil
}
