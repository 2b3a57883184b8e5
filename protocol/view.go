package protocol

// TileView is a tile as a recipient may see it. A placeholder carries only Hidden=true.
type TileView struct {
	ID     *int   `json:"id,omitempty"`
	Kind   string `json:"kind,omitempty"`
	Points int    `json:"points,omitempty"`
	Hidden bool   `json:"hidden,omitempty"`
}

// HiddenTile returns the opaque placeholder.
func HiddenTile() TileView {
	return TileView{Hidden: true}
}

// PairView is one played pair. Concealed pairs show the defense tile only to their owner,
// who gets Private=true so the client can offer a private reveal.
type PairView struct {
	Defense   TileView `json:"defense"`
	Attack    TileView `json:"attack"`
	Concealed bool     `json:"concealed"`
	Private   bool     `json:"private,omitempty"`
}

// SeatView is the public state of one seat plus, for the recipient only, the hand itself.
type SeatView struct {
	Seat      int        `json:"seat"`
	Name      string     `json:"name"`
	IsHost    bool       `json:"isHost"`
	Team      int        `json:"team"`
	Occupied  bool       `json:"occupied"`
	HandCount int        `json:"handCount"`
	Hand      []TileView `json:"hand"`
	Played    []PairView `json:"played"`
}

// AttackView is the active attack.
type AttackView struct {
	Kind string `json:"kind"`
	Seat int    `json:"seat"`
}

// StateView is the redacted snapshot sent to one recipient.
type StateView struct {
	Phase        string      `json:"phase"`
	You          int         `json:"you"`
	Round        int         `json:"round"`
	Dealer       int         `json:"dealer"`
	Turn         int         `json:"turn"`
	Active       *AttackView `json:"active,omitempty"`
	Passes       int         `json:"passes"`
	KingExposed  bool        `json:"kingExposed"`
	FreePlay     bool        `json:"freePlay"`
	Decider      int         `json:"decider"`
	Scores       [2]int      `json:"scores"`
	WinningScore int         `json:"winningScore"`
	Seats        []SeatView  `json:"seats"`

	// Unaddressed is true for a view built with no recipient. Such a view hides every tile and
	// is never authoritative for any seat.
	Unaddressed bool `json:"unaddressed,omitempty"`
}

// RosterEntry is one lobby seat.
type RosterEntry struct {
	Seat   int    `json:"seat"`
	Name   string `json:"name"`
	IsHost bool   `json:"isHost"`
	Team   int    `json:"team"`
}
