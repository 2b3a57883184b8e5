package game

// Kind identifies one of the nine tile kinds in the catalog.
type Kind string

const (
	Mew    Kind = "MEW"
	Mewtwo Kind = "MEWTWO"
	Rook   Kind = "ROOK"
	Bishop Kind = "BISHOP"
	Gold   Kind = "GOLD"
	Silver Kind = "SILVER"
	Knight Kind = "KNIGHT"
	Lance  Kind = "LANCE"
	Pawn   Kind = "PAWN"
)

// KindInfo holds the attributes derived from a tile kind.
type KindInfo struct {
	Name   string
	Symbol string
	Points int
	Count  int // copies in a full deck
	IsKing bool
}

// Kinds lists the catalog in deck order. Tile ids are assigned in this order by NewDeck.
var Kinds = []Kind{Mew, Mewtwo, Rook, Bishop, Gold, Silver, Knight, Lance, Pawn}

var catalog = map[Kind]KindInfo{
	Mew:    {Name: "King", Symbol: "王", Points: 50, Count: 1, IsKing: true},
	Mewtwo: {Name: "King", Symbol: "王", Points: 50, Count: 1, IsKing: true},
	Rook:   {Name: "Rook", Symbol: "飛", Points: 40, Count: 2},
	Bishop: {Name: "Bishop", Symbol: "角", Points: 40, Count: 2},
	Gold:   {Name: "Gold", Symbol: "金", Points: 30, Count: 4},
	Silver: {Name: "Silver", Symbol: "銀", Points: 30, Count: 4},
	Knight: {Name: "Knight", Symbol: "馬", Points: 20, Count: 4},
	Lance:  {Name: "Lance", Symbol: "香", Points: 20, Count: 4},
	Pawn:   {Name: "Pawn", Symbol: "し", Points: 10, Count: 10},
}

// Info returns the catalog entry for k. Unknown kinds return the zero KindInfo.
func (k Kind) Info() KindInfo {
	return catalog[k]
}

// Valid reports whether k is a catalog kind.
func (k Kind) Valid() bool {
	_, ok := catalog[k]
	return ok
}

// Points returns the score value of k.
func (k Kind) Points() int { return catalog[k].Points }

// IsKing reports whether k is one of the two kings.
func (k Kind) IsKing() bool { return catalog[k].IsKing }

// Tile is a single physical tile. Tiles are values and are never mutated after NewDeck creates them;
// they move between deck, hand and played pairs.
type Tile struct {
	ID   int
	Kind Kind
}

// Points returns the tile's score value.
func (t Tile) Points() int { return t.Kind.Points() }

// IsKing reports whether the tile is a king.
func (t Tile) IsKing() bool { return t.Kind.IsKing() }

// CountKind returns how many tiles of kind k are in tiles.
func CountKind(tiles []Tile, k Kind) int {
	n := 0
	for _, t := range tiles {
		if t.Kind == k {
			n++
		}
	}
	return n
}

// CountKings returns how many kings are in tiles.
func CountKings(tiles []Tile) int {
	n := 0
	for _, t := range tiles {
		if t.IsKing() {
			n++
		}
	}
	return n
}
