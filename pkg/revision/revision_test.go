// ABOUTME: Tests for the revision data model
// ABOUTME: Covers predicates, equality, canonical text and range bounds

package revision

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestRevisionPredicates(t *testing.T) {
	tests := []struct {
		rev              Revision
		head, have, none bool
	}{
		{Head(), true, false, false},
		{Have(), false, true, false},
		{None(), false, false, true},
		{Number(0), false, false, true},
		{Number(10), false, false, false},
		{Changelist(10), false, false, false},
		{Now(), false, false, false},
	}

	for _, test := range tests {
		if got := test.rev.IsHead(); got != test.head {
			t.Errorf("%v: IsHead = %v", test.rev, got)
		}
		if got := test.rev.IsHave(); got != test.have {
			t.Errorf("%v: IsHave = %v", test.rev, got)
		}
		if got := test.rev.IsNone(); got != test.none {
			t.Errorf("%v: IsNone = %v", test.rev, got)
		}
	}

	if !Head().IsRevisionString("  #HEAD ") {
		t.Error("IsRevisionString should ignore case and whitespace")
	}
}

func TestRangeString(t *testing.T) {
	start := Changelist(5)
	end := Changelist(9)

	tests := []struct {
		rev  Revision
		want string
	}{
		{Range(&start, &end), "@5,9"},
		{Range(&start, nil), "@5,"},
		{Range(nil, &end), "@9"},
		{Range(nil, nil), ""},
	}

	for _, test := range tests {
		if got := test.rev.String(); got != test.want {
			t.Errorf("got %q, want %q", got, test.want)
		}
	}
}

func TestRangeCopiesBounds(t *testing.T) {
	start := Number(1)
	end := Number(2)
	r := Range(&start, &end)
	start = Number(100)

	got, ok := r.Start()
	if !ok || !got.Equal(Number(1)) {
		t.Errorf("start changed to %v", got)
	}
}

func TestEqual(t *testing.T) {
	a := Changelist(3)
	b := Number(3)
	if a.Equal(b) {
		t.Error("changelist and number with the same value must differ")
	}
	if !Label("x").Equal(Label("x")) || Label("x").Equal(Label("y")) {
		t.Error("label equality broken")
	}

	when := time.Date(2022, 5, 6, 7, 8, 9, 0, time.Local)
	if !Date(when).Equal(Date(when.Add(400 * time.Millisecond))) {
		t.Error("dates are kept to the second")
	}

	r1 := Range(&a, nil)
	r2 := Range(&a, &b)
	if r1.Equal(r2) {
		t.Error("open range equals closed range")
	}
}

func TestKindString(t *testing.T) {
	if KindChangelist.String() != "changelist" {
		t.Errorf("got %q", KindChangelist.String())
	}
	if Kind(99).String() != "Kind(99)" {
		t.Errorf("got %q", Kind(99).String())
	}
}

func TestTextMarshaling(t *testing.T) {
	type options struct {
		Rev Revision `json:"rev"`
	}

	var opts options
	if err := json.Unmarshal([]byte(`{"rev":"@1234"}`), &opts); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !opts.Rev.Equal(Changelist(1234)) {
		t.Errorf("got %v", opts.Rev)
	}

	data, err := json.Marshal(options{Rev: Head()})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"rev":"#head"}` {
		t.Errorf("got %s", data)
	}

	var r Revision
	if err := r.UnmarshalText([]byte("bogus")); !errors.Is(err, ErrNoRevision) {
		t.Errorf("expected ErrNoRevision, got %v", err)
	}
	if err := r.UnmarshalText([]byte("  ")); err != nil || r.Valid() {
		t.Errorf("blank text: %v, %v", err, r)
	}
}
