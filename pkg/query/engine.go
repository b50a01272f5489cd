// ABOUTME: Record query engine implementation
// ABOUTME: Evaluates filters, ordering and joins over result set records

package query

import (
	"cmp"
	"fmt"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/nainya/depotview/pkg/result"
	"github.com/nainya/depotview/pkg/tagged"
)

// Execute runs q over the records of rs. Records are never copied; the
// result shares them with rs.
func Execute(rs *result.ResultSet, q Query) (*Result, error) {
	matched, err := filterRecords(rs.Records(), q.Filters)
	if err != nil {
		return nil, err
	}
	if q.OrderBy != "" {
		sortRecords(matched, q.OrderBy, q.Descending)
	}

	return page(matched, q), nil
}

// Join matches the records of primary and secondary on jq.JoinKey. Each
// joined record holds the primary fields followed by secondary fields the
// primary lacks. A left join keeps primary records without a partner.
func Join(primary, secondary *result.ResultSet, jq JoinQuery) (*Result, error) {
	if jq.JoinKey == "" {
		return nil, fmt.Errorf("join key required")
	}
	left, err := filterRecords(primary.Records(), jq.Primary.Filters)
	if err != nil {
		return nil, fmt.Errorf("primary: %w", err)
	}
	right, err := filterRecords(secondary.Records(), jq.Secondary.Filters)
	if err != nil {
		return nil, fmt.Errorf("secondary: %w", err)
	}

	index := make(map[string]*tagged.Record, len(right))
	for _, r := range right {
		if k, ok := r.TryGetValue(jq.JoinKey); ok {
			if _, dup := index[k]; !dup {
				index[k] = r
			}
		}
	}

	joined := make([]*tagged.Record, 0, len(left))
	for _, l := range left {
		k, _ := l.TryGetValue(jq.JoinKey)
		partner, ok := index[k]
		if !ok {
			if jq.JoinType == LeftJoin {
				joined = append(joined, l.Clone())
			}
			continue
		}
		merged := l.Clone()
		for f, v := range partner.All() {
			if !merged.ContainsKey(f) {
				merged.SetValue(f, v)
			}
		}
		joined = append(joined, merged)
	}

	q := jq.Primary
	if q.OrderBy != "" {
		sortRecords(joined, q.OrderBy, q.Descending)
	}
	return page(joined, q), nil
}

// ToResultSet wraps the records of r in a result set.
func (r *Result) ToResultSet() *result.ResultSet {
	return result.New(r.Records...)
}

// Helper functions

func filterRecords(records []*tagged.Record, filters []Filter) ([]*tagged.Record, error) {
	for _, f := range filters {
		if f.Op == OpGlob {
			if _, err := path.Match(f.Value, ""); err != nil {
				return nil, fmt.Errorf("filter %s: %w", f, err)
			}
		}
	}
	out := make([]*tagged.Record, 0, len(records))
	for _, r := range records {
		if matchesAll(r, filters) {
			out = append(out, r)
		}
	}
	return out, nil
}

func matchesAll(r *tagged.Record, filters []Filter) bool {
	for _, f := range filters {
		if !matches(r, f) {
			return false
		}
	}
	return true
}

func matches(r *tagged.Record, f Filter) bool {
	v, ok := r.TryGetValue(f.Field)
	switch f.Op {
	case OpExists:
		return ok
	case OpNotEquals:
		return !ok || v != f.Value
	}
	if !ok {
		return false
	}
	switch f.Op {
	case OpEquals:
		return v == f.Value
	case OpPrefix:
		return strings.HasPrefix(v, f.Value)
	case OpContains:
		return strings.Contains(v, f.Value)
	case OpGlob:
		m, _ := path.Match(f.Value, v)
		return m
	}
	return false
}

// sortRecords orders by field: integers by value first, then other text.
// Records without the field sort last in either direction.
func sortRecords(records []*tagged.Record, field string, descending bool) {
	slices.SortStableFunc(records, func(a, b *tagged.Record) int {
		av, aok := a.TryGetValue(field)
		bv, bok := b.TryGetValue(field)
		switch {
		case !aok && !bok:
			return 0
		case !aok:
			return 1
		case !bok:
			return -1
		}
		c := compareValues(av, bv)
		if descending {
			return -c
		}
		return c
	})
}

// compareValues puts integers before other text, integers by value and
// the rest lexically, so mixed columns still sort consistently.
func compareValues(a, b string) int {
	an, aerr := strconv.ParseInt(a, 10, 64)
	bn, berr := strconv.ParseInt(b, 10, 64)
	switch {
	case aerr == nil && berr == nil:
		return cmp.Compare(an, bn)
	case aerr == nil:
		return -1
	case berr == nil:
		return 1
	}
	return strings.Compare(a, b)
}

func page(records []*tagged.Record, q Query) *Result {
	offset := max(q.Offset, 0)
	res := &Result{Total: len(records)}
	res.Records = applyPagination(records, q.Limit, offset)
	res.HasMore = res.Total > offset+len(res.Records)
	return res
}

func applyPagination[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}

	start := offset
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	return items[start:end]
}
