package game

import "testing"

// quietHands deals no seat five or more pawns, so no instant resolution fires.
var quietHands = [NumSeats][]Kind{
	{Mew, Rook, Gold, Gold, Knight, Lance, Pawn, Pawn},
	{Mewtwo, Rook, Gold, Silver, Knight, Lance, Pawn, Pawn},
	{Bishop, Gold, Silver, Silver, Knight, Lance, Pawn, Pawn},
	{Bishop, Silver, Knight, Lance, Pawn, Pawn, Pawn, Pawn},
}

// stackDeck orders a full deck so that Deal hands out exactly the given kinds.
func stackDeck(t *testing.T, hands [NumSeats][]Kind) []Tile {
	t.Helper()
	pool := NewDeck()
	out := make([]Tile, 0, len(pool))
	for seat, hand := range hands {
		if len(hand) != HandSize {
			t.Fatalf("seat %d: expected %d kinds, got %d", seat, HandSize, len(hand))
		}
		for _, k := range hand {
			idx := -1
			for i, tile := range pool {
				if tile.Kind == k {
					idx = i
					break
				}
			}
			if idx < 0 {
				t.Fatalf("seat %d: no %s left in deck", seat, k)
			}
			out = append(out, pool[idx])
			pool = append(pool[:idx], pool[idx+1:]...)
		}
	}
	return append(out, pool...)
}

// fixedShuffler always returns deck, ignoring its input.
func fixedShuffler(deck []Tile) Shuffler {
	return func([]Tile) []Tile {
		out := make([]Tile, len(deck))
		copy(out, deck)
		return out
	}
}

// seatedTable returns a lobby table with four players; seat 0 is host.
func seatedTable(t *testing.T) *Table {
	t.Helper()
	tb := NewTable(DefaultWinningScore)
	for _, name := range []string{"Aiko", "Ben", "Chie", "Dan"} {
		if _, err := tb.Seat(NewPlayer(name, nil)); err != nil {
			t.Fatalf("seat %s: %v", name, err)
		}
	}
	return tb
}

// startedTable starts a table dealt with hands.
func startedTable(t *testing.T, hands [NumSeats][]Kind) (*Table, DealResult) {
	t.Helper()
	tb := seatedTable(t)
	tb.Shuffle = fixedShuffler(stackDeck(t, hands))
	res, err := tb.Start(0)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	return tb, res
}

// tileOf returns the first tile of kind k in seat's hand.
func tileOf(t *testing.T, tb *Table, seat int, k Kind) Tile {
	t.Helper()
	for _, tile := range tb.Seats[seat].Hand {
		if tile.Kind == k {
			return tile
		}
	}
	t.Fatalf("seat %d holds no %s", seat, k)
	return Tile{}
}

// tilesOf returns every tile of kind k in seat's hand.
func tilesOf(tb *Table, seat int, k Kind) []Tile {
	var out []Tile
	for _, tile := range tb.Seats[seat].Hand {
		if tile.Kind == k {
			out = append(out, tile)
		}
	}
	return out
}

func hand(kinds ...Kind) []Tile {
	out := make([]Tile, len(kinds))
	for i, k := range kinds {
		out[i] = Tile{ID: 100 + i, Kind: k}
	}
	return out
}
