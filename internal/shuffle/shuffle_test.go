package shuffle

import (
	"math/rand"
	"testing"
)

func TestStringsIsPermutation(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	input := []string{"alpha", "beta", "gamma", "delta", "epsilon"}

	for i := 0; i < 50; i++ {
		got := Strings(r, input)
		if len(got) != len(input) {
			t.Fatalf("expected length %d, got %d", len(input), len(got))
		}
		counts := map[string]int{}
		for _, item := range input {
			counts[item]++
		}
		for _, item := range got {
			counts[item]--
		}
		for item, n := range counts {
			if n != 0 {
				t.Fatalf("multiset mismatch for %q: %d", item, n)
			}
		}
	}
}

func TestStringsDoesNotMutateInput(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	input := []string{"a", "b", "c", "d"}

	for i := 0; i < 20; i++ {
		_ = Strings(r, input)
	}
	want := []string{"a", "b", "c", "d"}
	for i := range want {
		if input[i] != want[i] {
			t.Fatalf("input mutated at %d: got %q, want %q", i, input[i], want[i])
		}
	}
}

func TestStringsEventuallyReorders(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	input := []string{"a", "b", "c", "d"}

	for i := 0; i < 100; i++ {
		got := Strings(r, input)
		for j := range got {
			if got[j] != input[j] {
				return
			}
		}
	}
	t.Fatal("100 shuffles never changed the order")
}

func TestStringsDegenerateInputs(t *testing.T) {
	r := rand.New(rand.NewSource(4))

	if got := Strings(r, nil); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
	if got := Strings(r, []string{"only"}); len(got) != 1 || got[0] != "only" {
		t.Fatalf("expected single element unchanged, got %v", got)
	}
}
