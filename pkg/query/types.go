// ABOUTME: Record query types
// ABOUTME: Filters, ordering, pagination and joins over tagged result records

package query

import (
	"fmt"
	"strings"

	"github.com/nainya/depotview/pkg/tagged"
)

// Op is a filter comparison.
type Op int

const (
	OpEquals Op = iota
	OpNotEquals
	OpPrefix
	OpContains
	OpGlob
	OpExists
)

var opTokens = []struct {
	op    Op
	token string
}{
	{OpNotEquals, "!="},
	{OpPrefix, "^="},
	{OpContains, "~="},
	{OpGlob, "*="},
	{OpEquals, "="},
}

func (o Op) String() string {
	if o == OpExists {
		return "exists"
	}
	for _, t := range opTokens {
		if t.op == o {
			return t.token
		}
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Filter is one condition on a record field.
type Filter struct {
	Field string
	Op    Op
	Value string
}

// ParseFilter reads a filter written as field=value, field!=value,
// field^=prefix, field~=substring, field*=glob, or a bare field name that
// must be present.
func ParseFilter(s string) (Filter, error) {
	s = strings.TrimSpace(s)
	i := strings.IndexByte(s, '=')
	if i < 0 {
		if s == "" {
			return Filter{}, fmt.Errorf("empty filter")
		}
		return Filter{Field: s, Op: OpExists}, nil
	}

	f := Filter{Field: s[:i], Op: OpEquals, Value: s[i+1:]}
	if i > 0 {
		for _, t := range opTokens[:len(opTokens)-1] {
			if s[i-1] == t.token[0] {
				f.Field, f.Op = s[:i-1], t.op
				break
			}
		}
	}
	if f.Field == "" {
		return Filter{}, fmt.Errorf("filter %q has no field", s)
	}
	return f, nil
}

func (f Filter) String() string {
	if f.Op == OpExists {
		return f.Field
	}
	return f.Field + f.Op.String() + f.Value
}

// Query selects, orders and pages records. A Limit of zero or less
// returns every match.
type Query struct {
	Filters    []Filter
	Limit      int
	Offset     int
	OrderBy    string
	Descending bool
}

// JoinQuery combines two record sets that share a field.
type JoinQuery struct {
	Primary   Query
	Secondary Query
	JoinKey   string
	JoinType  JoinType
}

// JoinType defines join operation type
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftJoin
)

// Result is one page of matching records.
type Result struct {
	Records []*tagged.Record
	Total   int
	HasMore bool
}

// QueryBuilder provides fluent interface for building queries
type QueryBuilder struct {
	query Query
}

// NewQueryBuilder creates a new query builder
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{}
}

// Where adds an equality condition
func (qb *QueryBuilder) Where(field, value string) *QueryBuilder {
	return qb.Filter(Filter{Field: field, Op: OpEquals, Value: value})
}

// WhereExists requires field to be present
func (qb *QueryBuilder) WhereExists(field string) *QueryBuilder {
	return qb.Filter(Filter{Field: field, Op: OpExists})
}

// Filter adds an arbitrary condition
func (qb *QueryBuilder) Filter(f Filter) *QueryBuilder {
	qb.query.Filters = append(qb.query.Filters, f)
	return qb
}

// Limit sets the result limit
func (qb *QueryBuilder) Limit(limit int) *QueryBuilder {
	qb.query.Limit = limit
	return qb
}

// Offset sets the result offset
func (qb *QueryBuilder) Offset(offset int) *QueryBuilder {
	qb.query.Offset = offset
	return qb
}

// OrderBy sets ordering field
func (qb *QueryBuilder) OrderBy(field string, descending bool) *QueryBuilder {
	qb.query.OrderBy = field
	qb.query.Descending = descending
	return qb
}

// Build returns the constructed query
func (qb *QueryBuilder) Build() Query {
	return qb.query
}
