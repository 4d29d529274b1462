// Package listing filters and pages in-memory record collections.
package listing

import (
	"math"
	"strings"
)

// Constraint is one predicate of a filter. Inactive constraints are skipped.
type Constraint[T any] struct {
	active bool
	match  func(T) bool
}

func (c Constraint[T]) Active() bool {
	return c.active
}

// Filter returns the records that satisfy every active constraint, in their
// original order. The input slice is never modified.
func Filter[T any](records []T, constraints ...Constraint[T]) []T {
	active := make([]Constraint[T], 0, len(constraints))
	for _, constraint := range constraints {
		if constraint.active && constraint.match != nil {
			active = append(active, constraint)
		}
	}

	filtered := make([]T, 0, len(records))
	for _, record := range records {
		if matchesAll(record, active) {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

func matchesAll[T any](record T, constraints []Constraint[T]) bool {
	for _, constraint := range constraints {
		if !constraint.match(record) {
			return false
		}
	}
	return true
}

// Text matches when the lower-cased term is a substring of any of the fields.
// An empty term is inactive.
func Text[T any](term string, fields ...func(T) string) Constraint[T] {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" || len(fields) == 0 {
		return Constraint[T]{}
	}
	return Constraint[T]{
		active: true,
		match: func(record T) bool {
			for _, field := range fields {
				if strings.Contains(strings.ToLower(field(record)), needle) {
					return true
				}
			}
			return false
		},
	}
}

// Category matches a field against value, ignoring case. "All ..." sentinels
// and empty values are inactive.
func Category[T any](value string, field func(T) string) Constraint[T] {
	value = strings.TrimSpace(value)
	if IsAll(value) {
		return Constraint[T]{}
	}
	return Constraint[T]{
		active: true,
		match: func(record T) bool {
			return strings.EqualFold(strings.TrimSpace(field(record)), value)
		},
	}
}

// IsAll reports whether a filter value is the "All ..." sentinel.
func IsAll(value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	return value == "" || value == "all" || strings.HasPrefix(value, "all ")
}

type Bounds struct {
	Min          float64
	Max          float64
	MaxExclusive bool
	MinExclusive bool
}

func (b Bounds) Contains(value float64) bool {
	if value < b.Min || (b.MinExclusive && value == b.Min) {
		return false
	}
	if value > b.Max || (b.MaxExclusive && value == b.Max) {
		return false
	}
	return true
}

var PriceBuckets = map[string]Bounds{
	"Under $50":   {Min: 0, Max: 50, MaxExclusive: true},
	"$50 - $100":  {Min: 50, Max: 100},
	"$100 - $200": {Min: 100, Max: 200},
	"Over $200":   {Min: 200, Max: math.Inf(1), MinExclusive: true},
}

var RatingBuckets = map[string]Bounds{
	"4+ Stars": {Min: 4, Max: 5},
	"3+ Stars": {Min: 3, Max: 5},
	"2+ Stars": {Min: 2, Max: 5},
}

// Range matches a numeric field against a named bucket. Unknown buckets are
// inactive; records without a value never match.
func Range[T any](bucket string, buckets map[string]Bounds, field func(T) (float64, bool)) Constraint[T] {
	bounds, ok := lookupBucket(bucket, buckets)
	if !ok {
		return Constraint[T]{}
	}
	return Constraint[T]{
		active: true,
		match: func(record T) bool {
			value, present := field(record)
			return present && bounds.Contains(value)
		},
	}
}

func lookupBucket(name string, buckets map[string]Bounds) (Bounds, bool) {
	name = strings.TrimSpace(name)
	if IsAll(name) {
		return Bounds{}, false
	}
	for key, bounds := range buckets {
		if strings.EqualFold(key, name) {
			return bounds, true
		}
	}
	return Bounds{}, false
}
