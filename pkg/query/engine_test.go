// ABOUTME: Tests for the record query engine
// ABOUTME: Verifies filters, numeric ordering, pagination and joins

package query

import (
	"slices"
	"testing"

	"github.com/nainya/depotview/pkg/result"
	"github.com/nainya/depotview/pkg/tagged"
)

func testFiles() *result.ResultSet {
	return result.New(
		tagged.FromPairs("depotFile", "//depot/main/a.c", "headRev", "10", "headAction", "edit"),
		tagged.FromPairs("depotFile", "//depot/main/b.h", "headRev", "9", "headAction", "add"),
		tagged.FromPairs("depotFile", "//depot/rel/c.c", "headRev", "2", "headAction", "delete"),
		tagged.FromPairs("depotFile", "//depot/rel/d.txt", "headAction", "edit"),
	)
}

func depotFiles(records []*tagged.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.GetValue("depotFile", ""))
	}
	return out
}

func TestQueryBuilder(t *testing.T) {
	q := NewQueryBuilder().
		Where("headAction", "edit").
		WhereExists("headRev").
		Limit(10).
		Offset(2).
		OrderBy("headRev", true).
		Build()

	if len(q.Filters) != 2 {
		t.Fatalf("Expected 2 filters, got %d", len(q.Filters))
	}
	if q.Filters[0] != (Filter{Field: "headAction", Op: OpEquals, Value: "edit"}) {
		t.Errorf("first filter = %+v", q.Filters[0])
	}
	if q.Limit != 10 || q.Offset != 2 || q.OrderBy != "headRev" || !q.Descending {
		t.Errorf("query = %+v", q)
	}
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in   string
		want Filter
	}{
		{"headAction=edit", Filter{"headAction", OpEquals, "edit"}},
		{"headAction!=delete", Filter{"headAction", OpNotEquals, "delete"}},
		{"depotFile^=//depot/main", Filter{"depotFile", OpPrefix, "//depot/main"}},
		{"desc~=fix", Filter{"desc", OpContains, "fix"}},
		{"depotFile*=//depot/*/a.c", Filter{"depotFile", OpGlob, "//depot/*/a.c"}},
		{"isMapped", Filter{"isMapped", OpExists, ""}},
		{"desc=a=b", Filter{"desc", OpEquals, "a=b"}},
		{" type=text ", Filter{"type", OpEquals, "text"}},
	}
	for _, tt := range tests {
		got, err := ParseFilter(tt.in)
		if err != nil {
			t.Errorf("ParseFilter(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFilter(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
		if tt.want.Op != OpExists {
			back, err := ParseFilter(got.String())
			if err != nil || back != got {
				t.Errorf("String round trip of %q gave %+v, %v", tt.in, back, err)
			}
		}
	}

	for _, bad := range []string{"", "=x", "!=x"} {
		if _, err := ParseFilter(bad); err == nil {
			t.Errorf("ParseFilter(%q) should fail", bad)
		}
	}
}

func TestExecuteFilters(t *testing.T) {
	tests := []struct {
		name    string
		filters []Filter
		want    []string
	}{
		{"none", nil, []string{"//depot/main/a.c", "//depot/main/b.h", "//depot/rel/c.c", "//depot/rel/d.txt"}},
		{"equals", []Filter{{"headAction", OpEquals, "edit"}}, []string{"//depot/main/a.c", "//depot/rel/d.txt"}},
		{"not equals", []Filter{{"headAction", OpNotEquals, "edit"}}, []string{"//depot/main/b.h", "//depot/rel/c.c"}},
		{"prefix", []Filter{{"depotFile", OpPrefix, "//depot/rel/"}}, []string{"//depot/rel/c.c", "//depot/rel/d.txt"}},
		{"contains", []Filter{{"depotFile", OpContains, ".c"}}, []string{"//depot/main/a.c", "//depot/rel/c.c"}},
		{"glob", []Filter{{"depotFile", OpGlob, "//depot/*/*.c"}}, []string{"//depot/main/a.c", "//depot/rel/c.c"}},
		{"exists", []Filter{{"headRev", OpExists, ""}}, []string{"//depot/main/a.c", "//depot/main/b.h", "//depot/rel/c.c"}},
		{"and", []Filter{{"headAction", OpEquals, "edit"}, {"headRev", OpExists, ""}}, []string{"//depot/main/a.c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Execute(testFiles(), Query{Filters: tt.filters})
			if err != nil {
				t.Fatalf("Execute: %v", err)
			}
			if got := depotFiles(res.Records); !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			if res.Total != len(tt.want) || res.HasMore {
				t.Errorf("Total=%d HasMore=%v", res.Total, res.HasMore)
			}
		})
	}
}

func TestExecuteBadGlob(t *testing.T) {
	_, err := Execute(testFiles(), Query{Filters: []Filter{{"depotFile", OpGlob, "[a-"}}})
	if err == nil {
		t.Fatal("expected error for malformed glob")
	}
}

func TestExecuteOrderNumeric(t *testing.T) {
	res, err := Execute(testFiles(), Query{OrderBy: "headRev"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	want := []string{"//depot/rel/c.c", "//depot/main/b.h", "//depot/main/a.c", "//depot/rel/d.txt"}
	if got := depotFiles(res.Records); !slices.Equal(got, want) {
		t.Errorf("ascending: got %v", got)
	}

	res, _ = Execute(testFiles(), Query{OrderBy: "headRev", Descending: true})
	want = []string{"//depot/main/a.c", "//depot/main/b.h", "//depot/rel/c.c", "//depot/rel/d.txt"}
	if got := depotFiles(res.Records); !slices.Equal(got, want) {
		t.Errorf("descending: got %v", got)
	}
}

func TestExecuteOrderMixed(t *testing.T) {
	rs := result.New()
	for _, c := range []string{"1a", "10", "b", "9", "", "-3"} {
		rs.Append(tagged.FromPairs("change", c))
	}
	rs.Append(tagged.FromPairs("depotFile", "//depot/nochange"))

	res, err := Execute(rs, Query{OrderBy: "change"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	var got []string
	for _, r := range res.Records {
		got = append(got, r.GetValue("change", "<none>"))
	}
	want := []string{"-3", "9", "10", "", "1a", "b", "<none>"}
	if !slices.Equal(got, want) {
		t.Errorf("ascending: got %v, want %v", got, want)
	}

	res, _ = Execute(rs, Query{OrderBy: "change", Descending: true})
	got = got[:0]
	for _, r := range res.Records {
		got = append(got, r.GetValue("change", "<none>"))
	}
	want = []string{"b", "1a", "", "10", "9", "-3", "<none>"}
	if !slices.Equal(got, want) {
		t.Errorf("descending: got %v, want %v", got, want)
	}
}

func TestExecutePagination(t *testing.T) {
	res, err := Execute(testFiles(), Query{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := depotFiles(res.Records); !slices.Equal(got, []string{"//depot/main/b.h", "//depot/rel/c.c"}) {
		t.Errorf("page = %v", got)
	}
	if res.Total != 4 || !res.HasMore {
		t.Errorf("Total=%d HasMore=%v", res.Total, res.HasMore)
	}

	res, _ = Execute(testFiles(), Query{Offset: 10})
	if len(res.Records) != 0 || res.HasMore {
		t.Errorf("past end: %d records, HasMore=%v", len(res.Records), res.HasMore)
	}

	res, _ = Execute(nil, Query{Limit: 5})
	if res.Total != 0 || len(res.Records) != 0 {
		t.Errorf("nil result set gave %d records", res.Total)
	}
}

func TestJoin(t *testing.T) {
	opened := result.New(
		tagged.FromPairs("depotFile", "//depot/main/a.c", "action", "edit", "headAction", "ignored"),
		tagged.FromPairs("depotFile", "//depot/other/z.c", "action", "add"),
	)

	res, err := Join(testFiles(), opened, JoinQuery{JoinKey: "depotFile"})
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if res.Total != 1 {
		t.Fatalf("inner join Total = %d", res.Total)
	}
	rec := res.Records[0]
	if rec.GetValue("action", "") != "edit" || rec.GetValue("headAction", "") != "edit" {
		t.Errorf("merged = %v", rec.Fields())
	}
	if want := []string{"depotFile", "headRev", "headAction", "action"}; !slices.Equal(rec.Keys(), want) {
		t.Errorf("keys = %v", rec.Keys())
	}

	res, err = Join(testFiles(), opened, JoinQuery{JoinKey: "depotFile", JoinType: LeftJoin})
	if err != nil {
		t.Fatalf("left Join: %v", err)
	}
	if res.Total != 4 {
		t.Errorf("left join Total = %d", res.Total)
	}
	if testFiles().Record(0).ContainsKey("action") {
		t.Error("join must not modify its inputs")
	}

	if _, err := Join(testFiles(), opened, JoinQuery{}); err == nil {
		t.Error("missing join key should fail")
	}
}

func TestResultToResultSet(t *testing.T) {
	res, _ := Execute(testFiles(), Query{Limit: 1})
	rs := res.ToResultSet()
	if rs.Len() != 1 || rs.HasError() {
		t.Errorf("Len=%d HasError=%v", rs.Len(), rs.HasError())
	}
}
