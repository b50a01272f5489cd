// ABOUTME: Runnable examples for parsing revision specifiers
// ABOUTME: Output blocks double as tests

package revision_test

import (
	"fmt"

	"github.com/nainya/depotview/pkg/revision"
)

func ExampleParse() {
	for _, text := range []string{"#head", "@1234", "#0", "42", "@release-1", "#3,#5"} {
		r, ok := revision.Parse(text)
		fmt.Println(text, ok, r.Kind(), r)
	}
	// Output:
	// #head true head #head
	// @1234 true changelist @1234
	// #0 true none #none
	// 42 true number #42
	// @release-1 true label @release-1
	// #3,#5 true range #3,5
}

func ExampleRevision_Start() {
	r := revision.MustParse("@100,@200")
	start, _ := r.Start()
	end, _ := r.End()
	fmt.Println(start.Value(), end.Value())
	// Output: 100 200
}
