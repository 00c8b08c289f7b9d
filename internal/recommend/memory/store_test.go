// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/tomtom215/cooccur/internal/recommend"
	"github.com/tomtom215/cooccur/internal/recommend/storetest"
)

func TestStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T, topLimit int) recommend.Store {
		return New(topLimit)
	})
}

func TestNew_DefaultTopLimit(t *testing.T) {
	s := New(0)
	if s.topLimit != recommend.DefaultTopLimit {
		t.Errorf("topLimit = %d, want %d", s.topLimit, recommend.DefaultTopLimit)
	}
}

func TestStore_CancelledContext(t *testing.T) {
	s := New(5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.AddEdge(ctx, "1", "a"); !errors.Is(err, context.Canceled) {
		t.Errorf("AddEdge() error = %v, want context.Canceled", err)
	}
	if _, _, err := s.GetNode(ctx, "1"); !errors.Is(err, context.Canceled) {
		t.Errorf("GetNode() error = %v, want context.Canceled", err)
	}
}

// TestStore_TopKMatchesFullCounts checks that after an arbitrary write
// sequence the heap scores are the topLimit largest counts.
func TestStore_TopKMatchesFullCounts(t *testing.T) {
	ctx := context.Background()
	s := New(3)

	// Skewed sequence that evicts early values and lets them climb back.
	seq := []string{"x", "y", "z", "w", "w", "v", "v", "v", "x", "x", "x", "x", "u", "u", "y", "y", "y"}
	for i, v := range seq {
		if err := s.AddEdge(ctx, recommend.IntKey(int64(i)), recommend.Key(v)); err != nil {
			t.Fatalf("AddEdge() error = %v", err)
		}
	}

	top, err := s.GetTopOverallRecommendations(ctx)
	if err != nil {
		t.Fatalf("GetTopOverallRecommendations() error = %v", err)
	}

	// x=5, y=4, v=3 are the three largest counts.
	want := []recommend.Recommendation{{Value: "x", Score: 5}, {Value: "y", Score: 4}, {Value: "v", Score: 3}}
	if len(top) != len(want) {
		t.Fatalf("top = %v, want %v", top, want)
	}
	for i := range want {
		if top[i] != want[i] {
			t.Errorf("top[%d] = %v, want %v", i, top[i], want[i])
		}
	}
}

func TestStore_RecommendationsAreCopied(t *testing.T) {
	ctx := context.Background()
	s := New(5)

	in := []recommend.Recommendation{{Value: "b", Score: 1}}
	if err := s.UpdateRecommendations(ctx, "a", in); err != nil {
		t.Fatalf("UpdateRecommendations() error = %v", err)
	}
	in[0].Value = "mutated"

	got, _ := s.GetRecommendations(ctx, "a")
	if got[0].Value != "b" {
		t.Errorf("stored list mutated through caller slice: %v", got)
	}
	got[0].Value = "mutated"
	again, _ := s.GetRecommendations(ctx, "a")
	if again[0].Value != "b" {
		t.Errorf("stored list mutated through returned slice: %v", again)
	}
}

func TestStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := New(10)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				from := recommend.Key(fmt.Sprintf("obj-%d", id))
				_ = s.AddEdge(ctx, from, recommend.Key(fmt.Sprintf("v-%d", j%15)))
				_, _ = s.GetTopOverallRecommendations(ctx)
				_, _ = s.ComputeRecommendations(ctx, "v-1")
			}
		}(i)
	}
	wg.Wait()

	n, _ := s.Count(ctx, "v-0")
	// j%15 == 0 for j in {0, 15, 30, 45}: four edges per goroutine.
	if n != 80 {
		t.Errorf("Count(v-0) = %d, want 80", n)
	}
	top, _ := s.GetTopOverallRecommendations(ctx)
	if len(top) != 10 {
		t.Errorf("len(top) = %d, want 10", len(top))
	}
}
