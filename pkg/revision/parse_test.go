// ABOUTME: Tests for the revision specifier parser
// ABOUTME: Covers parse order, round trips and the documented fallbacks

package revision

import (
	"testing"
	"time"
)

func TestParseVariants(t *testing.T) {
	tests := []struct {
		text string
		want Revision
	}{
		{"#none", None()},
		{"#NONE", None()},
		{"#0", None()},
		{"#have", Have()},
		{"#Have", Have()},
		{"#head", Head()},
		{"#HEAD", Head()},
		{"@now", Now()},
		{"@NOW", Now()},
		{"#10", Number(10)},
		{"@10", Changelist(10)},
		{"@release-1.0", Label("release-1.0")},
		{"@my_client", Label("my_client")},
		{"  #head  ", Head()},
	}

	for _, test := range tests {
		got, ok := Parse(test.text)
		if !ok {
			t.Errorf("%q: Parse failed", test.text)
			continue
		}
		if !got.Equal(test.want) {
			t.Errorf("%q: got %v (%s), want %v (%s)", test.text, got, got.Kind(), test.want, test.want.Kind())
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	texts := []string{
		"#none",
		"#have",
		"#head",
		"@now",
		"#1",
		"#42",
		"@0",
		"@2389",
		"@release-1.0",
		"@2020/01/02:03:04:05",
	}

	for _, text := range texts {
		r, ok := Parse(text)
		if !ok {
			t.Errorf("%q: Parse failed", text)
			continue
		}
		if got := r.String(); got != text {
			t.Errorf("%q: round trip gave %q", text, got)
		}
	}
}

func TestConstructedRoundTrip(t *testing.T) {
	revs := []Revision{
		None(),
		Have(),
		Head(),
		Now(),
		Number(7),
		Number(0),
		Changelist(12345),
		Label("nightly"),
		Date(time.Date(2019, 1, 7, 10, 1, 59, 0, time.UTC)),
	}

	for _, r := range revs {
		back, ok := Parse(r.String())
		if !ok {
			t.Errorf("%v: reparse failed", r)
			continue
		}
		if !back.Equal(r) {
			t.Errorf("%v: reparsed as %v (%s)", r, back, back.Kind())
		}
	}
}

func TestParseBlank(t *testing.T) {
	for _, text := range []string{"", "   ", "\t\n"} {
		if r, ok := Parse(text); ok || r.Valid() {
			t.Errorf("%q: expected no revision, got %v", text, r)
		}
	}
}

func TestParseNoMatch(t *testing.T) {
	for _, text := range []string{"head", "#", "@", "#abc", "#99999999999"} {
		if r, ok := Parse(text); ok {
			t.Errorf("%q: expected no revision, got %v (%s)", text, r, r.Kind())
		}
	}
}

func TestParseNoneAndZeroAgree(t *testing.T) {
	a, _ := Parse("#none")
	b, _ := Parse("#0")
	if a.Kind() != KindNone || b.Kind() != KindNone {
		t.Fatalf("expected none kinds, got %s and %s", a.Kind(), b.Kind())
	}
	if !a.Equal(b) {
		t.Errorf("#none and #0 differ")
	}
}

// A bare integer is read as a file revision number.
func TestParseBareNumber(t *testing.T) {
	r, ok := Parse("42")
	if !ok {
		t.Fatal("Parse(42) failed")
	}
	if r.Kind() != KindNumber || r.Value() != 42 {
		t.Errorf("got %v (%s), want #42", r, r.Kind())
	}
	if r.String() != "#42" {
		t.Errorf("got %q, want #42", r.String())
	}
}

// The bare integer is taken as written, sign included.
func TestParseSignedBareNumber(t *testing.T) {
	tests := map[string]int{"-5": -5, "+5": 5}
	for text, want := range tests {
		r, ok := Parse(text)
		if !ok || r.Kind() != KindNumber || r.Value() != want {
			t.Errorf("Parse(%q) = %v (%s) %v, want number %d", text, r, r.Kind(), ok, want)
		}
	}
}

// The number matcher looks for #digits anywhere in the text, ahead of
// the label matcher.
func TestParseEmbeddedNumber(t *testing.T) {
	r, ok := Parse("@build#5")
	if !ok || r.Kind() != KindNumber || r.Value() != 5 {
		t.Errorf("got %v (%s), want #5", r, r.Kind())
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		text       string
		start, end Revision
		canonical  string
	}{
		{"1,3", Number(1), Number(3), "#1,3"},
		{"#10,20", Number(10), Number(20), "#10,20"},
		{"#10,#20", Number(10), Number(20), "#10,20"},
		{"@2389,@4569", Changelist(2389), Changelist(4569), "@2389,4569"},
		{"#head,#have", Head(), Have(), "#head,have"},
		{"@label,@now", Label("label"), Now(), "@label,now"},
	}

	for _, test := range tests {
		r, ok := Parse(test.text)
		if !ok {
			t.Errorf("%q: Parse failed", test.text)
			continue
		}
		if r.Kind() != KindRange {
			t.Errorf("%q: got kind %s, want range", test.text, r.Kind())
			continue
		}
		start, _ := r.Start()
		end, _ := r.End()
		if !start.Equal(test.start) {
			t.Errorf("%q: start %v, want %v", test.text, start, test.start)
		}
		if !end.Equal(test.end) {
			t.Errorf("%q: end %v, want %v", test.text, end, test.end)
		}
		if got := r.String(); got != test.canonical {
			t.Errorf("%q: String() = %q, want %q", test.text, got, test.canonical)
		}
	}
}

// The tail of a changelist range has no sigil, so it reads back as a
// revision number; the canonical text is still stable.
func TestParseRangeTailWithoutSigil(t *testing.T) {
	r, ok := Parse("@2389,4569")
	if !ok || r.Kind() != KindRange {
		t.Fatalf("got %v, want range", r)
	}
	end, _ := r.End()
	if end.Kind() != KindNumber || end.Value() != 4569 {
		t.Errorf("end = %v (%s), want #4569", end, end.Kind())
	}
	again, ok := Parse(r.String())
	if !ok || !again.Equal(r) {
		t.Errorf("reparse of %q gave %v", r.String(), again)
	}
}

func TestParseRangeFirstComma(t *testing.T) {
	r, ok := Parse("#1,#2,#3")
	if !ok || r.Kind() != KindRange {
		t.Fatalf("got %v, want range", r)
	}
	start, _ := r.Start()
	end, _ := r.End()
	if !start.Equal(Number(1)) {
		t.Errorf("start = %v, want #1", start)
	}
	if end.Kind() != KindRange {
		t.Errorf("end = %v (%s), want nested range", end, end.Kind())
	}
}

func TestParseRangeFallsThrough(t *testing.T) {
	// The tail is not a specifier, so the whole text is tried as a label.
	r, ok := Parse("@a,b")
	if !ok || r.Kind() != KindLabel || r.LabelName() != "a,b" {
		t.Errorf("got %v (%s), want label a,b", r, r.Kind())
	}

	// A leading comma never starts a range.
	if r, ok := Parse(",#3"); !ok || r.Kind() != KindNumber {
		t.Errorf("got %v (%s), want #3", r, r.Kind())
	}
}

func TestParseDate(t *testing.T) {
	r, ok := Parse("@2020/01/02:03:04:05")
	if !ok || r.Kind() != KindDate {
		t.Fatalf("got %v, want date", r)
	}
	d := r.Time()
	if d.Year() != 2020 || d.Month() != time.January || d.Day() != 2 ||
		d.Hour() != 3 || d.Minute() != 4 || d.Second() != 5 {
		t.Errorf("got %v", d)
	}

	r, ok = Parse("@2020/01/02")
	if !ok || r.Kind() != KindDate {
		t.Fatalf("got %v, want date", r)
	}
	d = r.Time()
	if d.Year() != 2020 || d.Month() != time.January || d.Day() != 2 ||
		d.Hour() != 0 || d.Minute() != 0 || d.Second() != 0 {
		t.Errorf("got %v, want midnight", d)
	}
	if r.String() != "@2020/01/02:00:00:00" {
		t.Errorf("String() = %q", r.String())
	}
}

func TestParseDateFallback(t *testing.T) {
	r, ok := Parse("@2021-03-04")
	if !ok || r.Kind() != KindDate {
		t.Fatalf("got %v (%s), want date", r, r.Kind())
	}
	if got := r.String(); got != "@2021/03/04:00:00:00" {
		t.Errorf("String() = %q", got)
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustParse("nothing")
}
