package game

import (
	"math/rand"
)

const (
	// DeckSize is the number of tiles in a full deck: the sum of the catalog counts.
	DeckSize = 32
	// HandSize is the number of tiles dealt to each seat.
	HandSize = 8
	// NumSeats is the fixed table size.
	NumSeats = 4
)

// Shuffler returns a permutation of tiles. Game uses Shuffle unless a test injects a fixed order.
type Shuffler func(tiles []Tile) []Tile

// NewDeck returns the catalog tiles in catalog order with ids 0..DeckSize-1.
func NewDeck() []Tile {
	deck := make([]Tile, 0, DeckSize)
	id := 0
	for _, k := range Kinds {
		for i := 0; i < catalog[k].Count; i++ {
			deck = append(deck, Tile{ID: id, Kind: k})
			id++
		}
	}
	return deck
}

// Shuffle returns a shuffled copy of tiles. rand.Shuffle is a Fisher-Yates shuffle, so every
// permutation is equally likely.
func Shuffle(tiles []Tile) []Tile {
	out := make([]Tile, len(tiles))
	copy(out, tiles)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// Deal splits a shuffled deck into four hands of HandSize tiles. Tiles past NumSeats*HandSize
// are returned as the discard and take no part in the round. The standard catalog deals out
// exactly, so the discard is empty unless the deck is larger.
func Deal(deck []Tile) (hands [NumSeats][]Tile, discard []Tile) {
	for i := 0; i < NumSeats; i++ {
		hand := make([]Tile, HandSize)
		copy(hand, deck[i*HandSize:(i+1)*HandSize])
		hands[i] = hand
	}
	rest := deck[NumSeats*HandSize:]
	discard = make([]Tile, len(rest))
	copy(discard, rest)
	return hands, discard
}

// removeTiles returns hand without the tiles whose ids are in ids.
func removeTiles(hand []Tile, ids ...int) []Tile {
	out := make([]Tile, 0, len(hand))
	for _, t := range hand {
		drop := false
		for _, id := range ids {
			if t.ID == id {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, t)
		}
	}
	return out
}

// findTile returns the tile with id in hand.
func findTile(hand []Tile, id int) (Tile, bool) {
	for _, t := range hand {
		if t.ID == id {
			return t, true
		}
	}
	return Tile{}, false
}
