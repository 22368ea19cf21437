package order_test

import (
	"reflect"
	"testing"

	"github.com/modrig/modrig/domain/order"
)

type item struct {
	name string
	keys order.Keys
}

func names(items []item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.name
	}
	return out
}

func TestSort_KeyThenName(t *testing.T) {
	// A and B share order 5, C has order 1: the sequence must be C, A, B.
	items := []item{
		{name: "B", keys: order.Keys{Load: 5}},
		{name: "A", keys: order.Keys{Load: 5}},
		{name: "C", keys: order.Keys{Load: 1}},
	}

	order.Sort(items, order.Load,
		func(it item) order.Keys { return it.keys },
		func(it item) string { return it.name })

	got := names(items)
	want := []string{"C", "A", "B"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Sort() = %v, want %v", got, want)
	}
}

func TestSort_Deterministic(t *testing.T) {
	// Repeated sorts of permuted input with equal keys must converge on the
	// same sequence.
	inputs := [][]item{
		{{name: "c"}, {name: "a"}, {name: "b"}},
		{{name: "b"}, {name: "c"}, {name: "a"}},
		{{name: "a"}, {name: "b"}, {name: "c"}},
	}

	want := []string{"a", "b", "c"}
	for i, items := range inputs {
		order.Sort(items, order.Behavior,
			func(it item) order.Keys { return it.keys },
			func(it item) string { return it.name })
		if got := names(items); !reflect.DeepEqual(got, want) {
			t.Errorf("input %d: Sort() = %v, want %v", i, got, want)
		}
	}
}

func TestSort_SpacesAreIndependent(t *testing.T) {
	items := []item{
		{name: "a", keys: order.Keys{Behavior: 10, Unload: -1}},
		{name: "b", keys: order.Keys{Behavior: -10, Unload: 1}},
	}

	order.Sort(items, order.Behavior,
		func(it item) order.Keys { return it.keys },
		func(it item) string { return it.name })
	if got := names(items); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Errorf("behavior sort = %v, want [b a]", got)
	}

	order.Sort(items, order.Unload,
		func(it item) order.Keys { return it.keys },
		func(it item) string { return it.name })
	if got := names(items); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("unload sort = %v, want [a b]", got)
	}
}

func TestKeys_In(t *testing.T) {
	k := order.Keys{Load: 1, Unload: 2, Behavior: 3, Scene: 4, Build: 5, Asset: 6}

	tests := []struct {
		space order.Space
		want  int
	}{
		{order.Load, 1},
		{order.Unload, 2},
		{order.Behavior, 3},
		{order.Scene, 4},
		{order.Build, 5},
		{order.Asset, 6},
	}

	for _, tt := range tests {
		if got := k.In(tt.space); got != tt.want {
			t.Errorf("In(%s) = %d, want %d", tt.space, got, tt.want)
		}
	}
}

func TestSpace_String(t *testing.T) {
	want := []string{"load", "unload", "behavior", "scene", "build", "asset"}
	for i, s := range order.Spaces() {
		if s.String() != want[i] {
			t.Errorf("Space(%d).String() = %q, want %q", i, s.String(), want[i])
		}
	}
}
