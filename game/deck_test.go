package game

import (
	"math"
	"testing"
)

func TestNewDeck(t *testing.T) {
	deck := NewDeck()

	if len(deck) != DeckSize {
		t.Fatalf("expected %d tiles, got %d", DeckSize, len(deck))
	}

	seen := make(map[int]bool)
	for _, tile := range deck {
		if seen[tile.ID] {
			t.Errorf("duplicate tile id %d", tile.ID)
		}
		seen[tile.ID] = true
	}

	want := map[Kind]int{
		Mew: 1, Mewtwo: 1, Rook: 2, Bishop: 2,
		Gold: 4, Silver: 4, Knight: 4, Lance: 4, Pawn: 10,
	}
	total := 0
	for k, n := range want {
		if got := CountKind(deck, k); got != n {
			t.Errorf("%s: expected %d, got %d", k, n, got)
		}
		if k.Info().Count != n {
			t.Errorf("%s: catalog count %d, expected %d", k, k.Info().Count, n)
		}
		total += n
	}
	if total != DeckSize {
		t.Errorf("catalog counts sum to %d, expected %d", total, DeckSize)
	}
	if CountKings(deck) != 2 {
		t.Errorf("expected 2 kings, got %d", CountKings(deck))
	}
}

func TestKindPoints(t *testing.T) {
	cases := map[Kind]int{
		Mew: 50, Mewtwo: 50, Rook: 40, Bishop: 40,
		Gold: 30, Silver: 30, Knight: 20, Lance: 20, Pawn: 10,
	}
	for k, p := range cases {
		if k.Points() != p {
			t.Errorf("%s: expected %d points, got %d", k, p, k.Points())
		}
	}
	if Kind("QUEEN").Valid() {
		t.Error("expected unknown kind to be invalid")
	}
}

func TestShuffle_IsPermutation(t *testing.T) {
	deck := NewDeck()
	shuffled := Shuffle(deck)

	if len(shuffled) != len(deck) {
		t.Fatalf("expected %d tiles, got %d", len(deck), len(shuffled))
	}
	ids := make(map[int]Kind)
	for _, tile := range shuffled {
		ids[tile.ID] = tile.Kind
	}
	for _, tile := range deck {
		k, ok := ids[tile.ID]
		if !ok {
			t.Errorf("tile %d missing after shuffle", tile.ID)
		} else if k != tile.Kind {
			t.Errorf("tile %d changed kind from %s to %s", tile.ID, tile.Kind, k)
		}
	}
	for i, tile := range deck {
		if tile.ID != i {
			t.Fatalf("Shuffle mutated its input at %d", i)
		}
	}
}

func TestShuffle_Unbiased(t *testing.T) {
	const trials = 20000
	deck := NewDeck()
	counts := make(map[Kind]int)
	for i := 0; i < trials; i++ {
		counts[Shuffle(deck)[0].Kind]++
	}
	for _, k := range Kinds {
		expected := float64(trials) * float64(k.Info().Count) / float64(DeckSize)
		got := float64(counts[k])
		if math.Abs(got-expected) > expected*0.3 {
			t.Errorf("%s at position 0: expected about %.0f, got %.0f", k, expected, got)
		}
	}
}

func TestDeal(t *testing.T) {
	hands, discard := Deal(NewDeck())

	total := 0
	for i, h := range hands {
		if len(h) != HandSize {
			t.Errorf("seat %d: expected %d tiles, got %d", i, HandSize, len(h))
		}
		total += len(h)
	}
	if total != DeckSize {
		t.Errorf("expected the whole deck dealt, got %d tiles", total)
	}
	// The standard catalog deals out exactly; nothing is left over.
	if len(discard) != 0 {
		t.Errorf("expected empty discard, got %v", discard)
	}
}

func TestDeal_TailBecomesDiscard(t *testing.T) {
	deck := NewDeck()
	extra := []Tile{{ID: 32, Kind: Pawn}, {ID: 33, Kind: Gold}, {ID: 34, Kind: Lance}, {ID: 35, Kind: Knight}}
	hands, discard := Deal(append(deck, extra...))

	if len(discard) != 4 {
		t.Fatalf("expected 4 discarded tiles, got %d", len(discard))
	}
	for i, tile := range discard {
		if tile != extra[i] {
			t.Errorf("discard[%d]: expected %v, got %v", i, extra[i], tile)
		}
	}
	for _, h := range hands {
		for _, tile := range h {
			if tile.ID >= 32 {
				t.Errorf("tail tile %d was dealt", tile.ID)
			}
		}
	}
}

func TestRemoveTiles(t *testing.T) {
	h := hand(Gold, Silver, Pawn)
	out := removeTiles(h, 100, 102)
	if len(out) != 1 || out[0].Kind != Silver {
		t.Errorf("expected only the silver left, got %v", out)
	}
	if len(h) != 3 {
		t.Error("removeTiles mutated its input length")
	}
}
