package graph_test

import (
	"fmt"

	"github.com/matzehuels/logle/pkg/ast"
	"github.com/matzehuels/logle/pkg/errors"
	"github.com/matzehuels/logle/pkg/graph"
)

func Example() {
	g := graph.New()
	_ = g.Initialize(graph.Schema{
		NodeTypes: map[string]ast.Type{"user": ast.MakeString("user")},
		EdgeTypes: map[string]ast.Type{"mail": ast.MakeInt("timestamp", true)},
	})

	alice, _ := g.FindOrAddNode(ast.Tag("user", ast.String("alice")))
	bob, _ := g.FindOrAddNode(ast.Tag("user", ast.String("bob")))
	again, _ := g.FindOrAddNode(ast.Tag("user", ast.String("alice")))

	_, _ = g.AddEdge(ast.Tag("mail", ast.Int(1431000000)), alice, bob)
	_, _ = g.AddEdge(ast.Tag("mail", ast.Int(1431000060)), alice, bob)

	fmt.Println(alice == again)
	fmt.Println(g.NodeCount(), g.EdgeCount())
	for e := range g.Edges() {
		fmt.Println(e.ID, e.Source, "->", e.Target, e.Label)
	}
	// Output:
	// true
	// 2 2
	// 0 0 -> 1 mail: 1431000000
	// 1 0 -> 1 mail: 1431000060
}

func ExampleGraph_FindOrAddNode_typeMismatch() {
	g := graph.New()
	_ = g.Initialize(graph.Schema{
		NodeTypes: map[string]ast.Type{"num": ast.MakeInt("int label", true)},
	})

	_, err := g.FindOrAddNode(ast.Tag("num", ast.String("x")))
	fmt.Println(errors.GetCode(err))

	_, err = g.FindOrAddNode(ast.Tag("unknown", ast.Int(1)))
	fmt.Println(errors.GetCode(err))
	// Output:
	// TYPE_MISMATCH
	// UNKNOWN_TAG
}
