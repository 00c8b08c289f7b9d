// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

// Package storetest provides a behavioral test suite shared by every
// recommend.Store implementation.
//
// Backends call Run from their own tests:
//
//	func TestStoreContract(t *testing.T) {
//	    storetest.Run(t, func(t *testing.T, topLimit int) recommend.Store {
//	        return memory.New(topLimit)
//	    })
//	}
package storetest

import (
	"context"
	"slices"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cooccur/internal/recommend"
)

// Factory returns a fresh, empty store bounded to topLimit.
type Factory func(t *testing.T, topLimit int) recommend.Store

// Counter is implemented by stores that expose their frequency counter.
type Counter interface {
	Count(ctx context.Context, value recommend.Key) (int64, error)
}

// Run exercises the recommend.Store contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	t.Run("GetNodeAbsent", func(t *testing.T) { testGetNodeAbsent(t, newStore) })
	t.Run("AddNodeReplaces", func(t *testing.T) { testAddNodeReplaces(t, newStore) })
	t.Run("NodeValueOrder", func(t *testing.T) { testNodeValueOrder(t, newStore) })
	t.Run("AddEdgeSetSemantics", func(t *testing.T) { testAddEdgeSetSemantics(t, newStore) })
	t.Run("TopOverallScores", func(t *testing.T) { testTopOverallScores(t, newStore) })
	t.Run("TopOverallBounded", func(t *testing.T) { testTopOverallBounded(t, newStore) })
	t.Run("TopOverallExact", func(t *testing.T) { testTopOverallExact(t, newStore) })
	t.Run("ComputeRecommendations", func(t *testing.T) { testComputeRecommendations(t, newStore) })
	t.Run("UpdateRecommendations", func(t *testing.T) { testUpdateRecommendations(t, newStore) })
	t.Run("GetAllNodeIDs", func(t *testing.T) { testGetAllNodeIDs(t, newStore) })
	t.Run("EngineScenario", func(t *testing.T) { testEngineScenario(t, newStore) })
	t.Run("EngineForIDOrder", func(t *testing.T) { testEngineForIDOrder(t, newStore) })
}

func testGetNodeAbsent(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s := newStore(t, 5)

	node, ok, err := s.GetNode(ctx, "missing")
	if err != nil {
		t.Fatalf("GetNode() error = %v", err)
	}
	if ok || node != nil {
		t.Errorf("GetNode() = %v, %v; want nil, false", node, ok)
	}

	recs, err := s.GetRecommendations(ctx, "missing")
	if err != nil {
		t.Fatalf("GetRecommendations() error = %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("GetRecommendations() = %v, want empty", recs)
	}
}

func testAddNodeReplaces(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s := newStore(t, 5)

	mustAddNode(t, s, "1", "a", "b")
	mustAddNode(t, s, "1", "c")

	got := nodeValues(t, s, "1")
	if !slices.Equal(got, []recommend.Key{"c"}) {
		t.Errorf("values after replace = %v, want [c]", got)
	}

	// Mutating a returned node must not leak into the store.
	node, _, err := s.GetNode(ctx, "1")
	if err != nil {
		t.Fatalf("GetNode() error = %v", err)
	}
	node.Values.Add("z")
	if got := nodeValues(t, s, "1"); len(got) != 1 {
		t.Errorf("store mutated through returned node: %v", got)
	}
}

func testNodeValueOrder(t *testing.T, newStore Factory) {
	s := newStore(t, 5)

	mustAddNode(t, s, "1", "z", "a", "m")
	mustAddEdge(t, s, "2", "q")
	mustAddEdge(t, s, "2", "b")

	for id, want := range map[recommend.Key][]recommend.Key{
		"1": {"a", "m", "z"},
		"2": {"b", "q"},
	} {
		node, ok, err := s.GetNode(context.Background(), id)
		if err != nil || !ok {
			t.Fatalf("GetNode(%s) = %v, %v", id, ok, err)
		}
		if got := node.Values.Keys(); !slices.Equal(got, want) {
			t.Errorf("GetNode(%s) values = %v, want %v", id, got, want)
		}
	}
}

func testAddEdgeSetSemantics(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s := newStore(t, 5)

	mustAddEdge(t, s, "1", "a")
	mustAddEdge(t, s, "1", "b")
	mustAddEdge(t, s, "1", "b")

	got := nodeValues(t, s, "1")
	if !slices.Equal(got, []recommend.Key{"a", "b"}) {
		t.Errorf("node values = %v, want [a b]", got)
	}

	if c, ok := s.(Counter); ok {
		n, err := c.Count(ctx, "b")
		if err != nil {
			t.Fatalf("Count() error = %v", err)
		}
		if n != 2 {
			t.Errorf("Count(b) = %d, want 2 (duplicate edges still count)", n)
		}
	}
}

func testTopOverallScores(t *testing.T, newStore Factory) {
	s := newStore(t, 5)

	mustAddEdge(t, s, "1", "a")
	mustAddEdge(t, s, "1", "b")
	mustAddEdge(t, s, "1", "b")

	want := []recommend.Recommendation{{Value: "b", Score: 2}, {Value: "a", Score: 1}}
	if got := topOverall(t, s); !slices.Equal(got, want) {
		t.Errorf("GetTopOverallRecommendations() = %v, want %v", got, want)
	}
}

func testTopOverallBounded(t *testing.T, newStore Factory) {
	s := newStore(t, 5)

	for i, v := range []string{"a", "b", "c", "d", "e", "f"} {
		mustAddEdge(t, s, recommend.IntKey(int64(i)), recommend.Key(v))
	}

	if got := topOverall(t, s); len(got) != 5 {
		t.Errorf("len(GetTopOverallRecommendations()) = %d, want 5", len(got))
	}
}

func testTopOverallExact(t *testing.T, newStore Factory) {
	s := newStore(t, 2)

	// c is pushed out while it is the smallest, then overtakes both.
	for _, v := range []string{"a", "a", "b", "b", "c", "c", "c"} {
		mustAddEdge(t, s, "1", recommend.Key(v))
	}

	got := topOverall(t, s)
	if len(got) != 2 {
		t.Fatalf("len(top) = %d, want 2: %v", len(got), got)
	}
	if got[0] != (recommend.Recommendation{Value: "c", Score: 3}) {
		t.Errorf("top[0] = %v, want {c 3}", got[0])
	}
	if got[1].Score != 2 {
		t.Errorf("top[1] = %v, want score 2", got[1])
	}
}

func testComputeRecommendations(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s := newStore(t, 5)

	mustAddNode(t, s, "1", "a", "b")
	mustAddNode(t, s, "2", "a", "c")
	mustAddNode(t, s, "3", "a", "b")
	mustAddNode(t, s, "4", "d")

	got, err := s.ComputeRecommendations(ctx, "a")
	if err != nil {
		t.Fatalf("ComputeRecommendations() error = %v", err)
	}
	want := []recommend.Recommendation{{Value: "b", Score: 2}, {Value: "c", Score: 1}}
	if !slices.Equal(got, want) {
		t.Errorf("ComputeRecommendations(a) = %v, want %v", got, want)
	}

	cached, err := s.GetRecommendations(ctx, "a")
	if err != nil {
		t.Fatalf("GetRecommendations() error = %v", err)
	}
	if len(cached) != 0 {
		t.Errorf("ComputeRecommendations mutated the cache: %v", cached)
	}

	none, err := s.ComputeRecommendations(ctx, "unknown")
	if err != nil {
		t.Fatalf("ComputeRecommendations(unknown) error = %v", err)
	}
	if len(none) != 0 {
		t.Errorf("ComputeRecommendations(unknown) = %v, want empty", none)
	}
}

func testUpdateRecommendations(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s := newStore(t, 5)

	first := []recommend.Recommendation{{Value: "b", Score: 3}, {Value: "c", Score: 1}}
	if err := s.UpdateRecommendations(ctx, "a", first); err != nil {
		t.Fatalf("UpdateRecommendations() error = %v", err)
	}
	second := []recommend.Recommendation{{Value: "d", Score: 7}}
	if err := s.UpdateRecommendations(ctx, "a", second); err != nil {
		t.Fatalf("UpdateRecommendations() error = %v", err)
	}

	got, err := s.GetRecommendations(ctx, "a")
	if err != nil {
		t.Fatalf("GetRecommendations() error = %v", err)
	}
	if !slices.Equal(got, second) {
		t.Errorf("GetRecommendations(a) = %v, want %v", got, second)
	}

	if err := s.UpdateRecommendations(ctx, "a", nil); err != nil {
		t.Fatalf("UpdateRecommendations(nil) error = %v", err)
	}
	got, err = s.GetRecommendations(ctx, "a")
	if err != nil {
		t.Fatalf("GetRecommendations() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("GetRecommendations(a) after clearing = %v, want empty", got)
	}
}

func testGetAllNodeIDs(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s := newStore(t, 5)

	mustAddNode(t, s, "1", "a")
	mustAddEdge(t, s, "2", "b")
	mustAddNode(t, s, "10", "c")

	ids, err := s.GetAllNodeIDs(ctx)
	if err != nil {
		t.Fatalf("GetAllNodeIDs() error = %v", err)
	}
	slices.Sort(ids)
	want := []recommend.Key{"1", "10", "2"}
	if !slices.Equal(ids, want) {
		t.Errorf("GetAllNodeIDs() = %v, want %v", ids, want)
	}
}

func testEngineScenario(t *testing.T, newStore Factory) {
	ctx := context.Background()
	engine, err := recommend.NewEngine(newStore(t, 10), recommend.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	objects := []struct {
		id     recommend.Key
		values []string
	}{
		{"1", []string{"a", "b", "c"}},
		{"2", []string{"b", "d"}},
		{"3", []string{"e"}},
		{"4", []string{"a", "f"}},
		{"5", []string{"g", "h"}},
	}
	for _, o := range objects {
		if err := engine.AddObject(ctx, o.id, recommend.Keys(o.values...)); err != nil {
			t.Fatalf("AddObject(%s) error = %v", o.id, err)
		}
	}

	got, err := engine.FindMostCommonValues(ctx, "a", 2)
	if err != nil {
		t.Fatalf("FindMostCommonValues() error = %v", err)
	}
	assertContains(t, "FindMostCommonValues(a, 2)", got, "b", "c")

	got, err = engine.FindMostCommonValuesForID(ctx, "1", 2)
	if err != nil {
		t.Fatalf("FindMostCommonValuesForID() error = %v", err)
	}
	assertContains(t, "FindMostCommonValuesForID(1, 2)", got, "d", "f")

	got, err = engine.FindOverallMostCommonValues(ctx)
	if err != nil {
		t.Fatalf("FindOverallMostCommonValues() error = %v", err)
	}
	assertContains(t, "FindOverallMostCommonValues()", got, "a", "b", "c")

	if err := engine.AddObject(ctx, "6", recommend.Keys("a", "i")); err != nil {
		t.Fatalf("AddObject(6) error = %v", err)
	}
	got, err = engine.FindMostCommonValues(ctx, "a", 5)
	if err != nil {
		t.Fatalf("FindMostCommonValues() error = %v", err)
	}
	assertContains(t, "FindMostCommonValues(a, 5)", got, "b", "c", "f", "i")
}

func testEngineForIDOrder(t *testing.T, newStore Factory) {
	ctx := context.Background()
	engine, err := recommend.NewEngine(newStore(t, 10), recommend.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	// Values arrive out of order; every backend must walk them the same way.
	objects := []struct {
		id     recommend.Key
		values []string
	}{
		{"o1", []string{"z", "a"}},
		{"o2", []string{"z", "x"}},
		{"o3", []string{"a", "y"}},
	}
	for _, o := range objects {
		if err := engine.AddObject(ctx, o.id, recommend.Keys(o.values...)); err != nil {
			t.Fatalf("AddObject(%s) error = %v", o.id, err)
		}
	}

	got, err := engine.FindMostCommonValuesForID(ctx, "o1", 5)
	if err != nil {
		t.Fatalf("FindMostCommonValuesForID() error = %v", err)
	}
	if want := []recommend.Key{"y", "x"}; !slices.Equal(got, want) {
		t.Errorf("FindMostCommonValuesForID(o1, 5) = %v, want %v", got, want)
	}
}

func assertContains(t *testing.T, what string, got []recommend.Key, want ...string) {
	t.Helper()
	for _, w := range want {
		if !slices.Contains(got, recommend.Key(w)) {
			t.Errorf("%s = %v, missing %q", what, got, w)
		}
	}
}

func mustAddNode(t *testing.T, s recommend.Store, id recommend.Key, values ...string) {
	t.Helper()
	node := recommend.Node{ID: id, Values: recommend.NewValueSet(recommend.Keys(values...)...)}
	if err := s.AddNode(context.Background(), node); err != nil {
		t.Fatalf("AddNode(%s) error = %v", id, err)
	}
}

func mustAddEdge(t *testing.T, s recommend.Store, from, to recommend.Key) {
	t.Helper()
	if err := s.AddEdge(context.Background(), from, to); err != nil {
		t.Fatalf("AddEdge(%s, %s) error = %v", from, to, err)
	}
}

// nodeValues returns the node's values sorted, failing if the node is absent.
func nodeValues(t *testing.T, s recommend.Store, id recommend.Key) []recommend.Key {
	t.Helper()
	node, ok, err := s.GetNode(context.Background(), id)
	if err != nil {
		t.Fatalf("GetNode(%s) error = %v", id, err)
	}
	if !ok {
		t.Fatalf("GetNode(%s) absent", id)
	}
	values := node.Values.Keys()
	slices.Sort(values)
	return values
}

func topOverall(t *testing.T, s recommend.Store) []recommend.Recommendation {
	t.Helper()
	top, err := s.GetTopOverallRecommendations(context.Background())
	if err != nil {
		t.Fatalf("GetTopOverallRecommendations() error = %v", err)
	}
	return top
}
