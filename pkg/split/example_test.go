package split_test

import (
	"fmt"

	"github.com/matzehuels/docktree/pkg/geom"
	"github.com/matzehuels/docktree/pkg/placeholder"
	"github.com/matzehuels/docktree/pkg/split"
)

func Example() {
	tree := split.New()
	editor, _ := tree.PlaceRoot("editor")
	console, _ := tree.Insert(editor, geom.Bottom, 0.25, "console")

	r, _ := tree.RectangleOf(console)
	fmt.Printf("console at %.2f,%.2f size %.2fx%.2f\n", r.X, r.Y, r.Width, r.Height)
	// Output: console at 0.00,0.75 size 1.00x0.25
}

func ExampleTree_Remove() {
	reg := placeholder.NewRegistry()
	reg.Register("console", "dock.console")

	tree := split.New(split.WithStrategy(reg))
	editor, _ := tree.PlaceRoot("editor")
	console, _ := tree.Insert(editor, geom.Bottom, 0.25, "console")

	res, _ := tree.Remove(console)
	kind, _ := tree.Kind(console)
	at, _ := tree.Locate("dock.console")
	fmt.Println(res.Retained, kind, at == console)
	// Output: true placeholder true
}
