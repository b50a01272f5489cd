// ABOUTME: Runnable examples for typed views over ztag output
// ABOUTME: Output blocks double as tests

package view_test

import (
	"fmt"
	"strings"

	"github.com/nainya/depotview/pkg/view"
	"github.com/nainya/depotview/pkg/ztag"
)

const fstatOutput = `... depotFile //depot/main/a.c
... headRev 3
... haveRev 2
... isMapped

... depotFile //depot/main/b.c
... headRev 1
... haveRev 1

`

func ExampleFStat() {
	rs, err := ztag.Decode(strings.NewReader(fstatOutput))
	if err != nil {
		panic(err)
	}
	for n := range view.FStat(rs).Nodes() {
		fmt.Println(n.DepotFile(), n.HaveRev(), n.HeadRev(), n.IsMapped())
	}
	// Output:
	// //depot/main/a.c 2 3 true
	// //depot/main/b.c 1 1 false
}

func ExampleProject() {
	rs, err := ztag.Decode(strings.NewReader(fstatOutput))
	if err != nil {
		panic(err)
	}
	v, err := view.Project("raw", rs)
	if err != nil {
		panic(err)
	}
	for _, p := range v.First().Properties() {
		fmt.Printf("%s=%v\n", p.Name, p.Value)
	}
	// Output:
	// depotFile=//depot/main/a.c
	// headRev=3
	// haveRev=2
	// isMapped=
}
