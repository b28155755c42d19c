package engine

import (
	"testing"
)

func TestShuffleIsPermutation(t *testing.T) {
	items := []string{"q1", "q2", "q3", "q4", "q5", "q6", "q7"}
	for seed := uint64(0); seed < 50; seed++ {
		shuffled := Shuffle(items, seed)
		if len(shuffled) != len(items) {
			t.Fatalf("seed %d: length changed: %d", seed, len(shuffled))
		}
		seen := map[string]int{}
		for _, it := range shuffled {
			seen[it]++
		}
		for _, it := range items {
			if seen[it] != 1 {
				t.Fatalf("seed %d: %q appears %d times", seed, it, seen[it])
			}
		}
	}
}

func TestShuffleDeterministicForSeed(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	a := Shuffle(items, 42)
	b := Shuffle(items, 42)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed produced different orders: %v vs %v", a, b)
		}
	}
}

func TestShuffleDifferentSeedsDiffer(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	a := Shuffle(items, 1)
	b := Shuffle(items, 2)
	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("distinct seeds yielded identical order; PRNG looks broken")
	}
}

func TestShuffleDoesNotMutateInput(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	_ = Shuffle(items, 7)
	for i, v := range []int{1, 2, 3, 4, 5} {
		if items[i] != v {
			t.Fatalf("input mutated: %v", items)
		}
	}
}

func TestShuffleRandomKeepsMultiset(t *testing.T) {
	items := []int{1, 1, 2, 3}
	shuffled := ShuffleRandom(items)
	counts := map[int]int{}
	for _, v := range shuffled {
		counts[v]++
	}
	if counts[1] != 2 || counts[2] != 1 || counts[3] != 1 {
		t.Fatalf("multiset not preserved: %v", shuffled)
	}
}

func TestShuffleEmptyAndSingle(t *testing.T) {
	if got := Shuffle([]int{}, 3); len(got) != 0 {
		t.Fatalf("empty input should stay empty")
	}
	if got := Shuffle([]int{9}, 3); len(got) != 1 || got[0] != 9 {
		t.Fatalf("single element should survive unchanged, got %v", got)
	}
}
