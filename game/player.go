package game

// PlayedPair is one play: the defense tile that answered the previous attack and the attack tile
// the next seats must match. Concealed is true when the pair opened a trick, in which case the
// defense tile lies face down.
type PlayedPair struct {
	Defense   Tile
	Attack    Tile
	Concealed bool
}

// Player represents a seated participant.
type Player struct {
	Name   string
	IsHost bool
	UserID string      // set when the join carried a validated token
	Send   chan []byte // reference to the client's send channel

	// Hand holds the tiles the seat still owns; order is irrelevant.
	Hand []Tile

	// Played accumulates the seat's pairs for the current round.
	Played []PlayedPair
}

// NewPlayer creates a new Player with the given name and send channel.
func NewPlayer(name string, send chan []byte) *Player {
	return &Player{
		Name: name,
		Send: send,
	}
}
