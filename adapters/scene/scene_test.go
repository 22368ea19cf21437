package scene_test

import (
	"context"
	"testing"

	"github.com/modrig/modrig/adapters/scene"
)

func TestGraph_CreateNode(t *testing.T) {
	g := scene.NewGraph()
	ctx := context.Background()

	root, err := g.CreateNode(ctx, "root", "", true)
	if err != nil {
		t.Fatalf("CreateNode() error = %v", err)
	}
	child, err := g.CreateNode(ctx, "child", root, false)
	if err != nil {
		t.Fatalf("CreateNode(child) error = %v", err)
	}

	node, ok := g.Get(child)
	if !ok {
		t.Fatal("Get() did not find the child")
	}
	if node.Parent != root {
		t.Errorf("child.Parent = %q, want %q", node.Parent, root)
	}
	if node.Active {
		t.Error("child.Active = true, want false")
	}

	if _, err := g.CreateNode(ctx, "orphan", "missing", false); err == nil {
		t.Error("CreateNode() with missing parent should fail")
	}
}

func TestGraph_SetActive(t *testing.T) {
	g := scene.NewGraph()
	ctx := context.Background()

	id, err := g.CreateNode(ctx, "n", "", false)
	if err != nil {
		t.Fatalf("CreateNode() error = %v", err)
	}
	if err := g.SetActive(ctx, id, true); err != nil {
		t.Fatalf("SetActive() error = %v", err)
	}
	if node, _ := g.Get(id); !node.Active {
		t.Error("node still inactive after SetActive(true)")
	}

	if err := g.SetActive(ctx, "missing", true); err == nil {
		t.Error("SetActive() on missing node should fail")
	}
}

func TestGraph_DestroyNodeRecursive(t *testing.T) {
	g := scene.NewGraph()
	ctx := context.Background()

	root, _ := g.CreateNode(ctx, "root", "", true)
	child, _ := g.CreateNode(ctx, "child", root, true)
	if _, err := g.CreateNode(ctx, "grandchild", child, true); err != nil {
		t.Fatalf("CreateNode() error = %v", err)
	}
	other, _ := g.CreateNode(ctx, "other", "", true)

	if err := g.DestroyNode(ctx, root); err != nil {
		t.Fatalf("DestroyNode() error = %v", err)
	}

	if g.Len() != 1 {
		t.Errorf("Len() = %d after destroying subtree, want 1", g.Len())
	}
	if _, ok := g.Get(other); !ok {
		t.Error("unrelated node destroyed")
	}

	if err := g.DestroyNode(ctx, root); err == nil {
		t.Error("DestroyNode() on missing node should fail")
	}
}

func TestGraph_Children(t *testing.T) {
	g := scene.NewGraph()
	ctx := context.Background()

	root, _ := g.CreateNode(ctx, "root", "", true)
	g.CreateNode(ctx, "a", root, true)
	g.CreateNode(ctx, "b", root, true)

	if got := len(g.Children(root)); got != 2 {
		t.Errorf("len(Children()) = %d, want 2", got)
	}
}
