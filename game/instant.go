package game

// InstantKind classifies the outcome of evaluating a fresh deal.
type InstantKind int

const (
	InstantNone InstantKind = iota
	InstantTeamWin
	InstantRedealChoice
)

// String returns the protocol string for an InstantKind.
func (k InstantKind) String() string {
	switch k {
	case InstantNone:
		return "none"
	case InstantTeamWin:
		return "team_win"
	case InstantRedealChoice:
		return "redeal_choice"
	default:
		return "unknown"
	}
}

// Instant-resolution reasons reported in round_end.
const (
	ReasonEightPawns  = "8 pawns"
	ReasonSevenPawns  = "7 pawns"
	ReasonSixPawnPair = "6 pawns (pair)"
	ReasonSixPawns    = "6 pawns"
	ReasonDoubleFive  = "Double 5 pawns"
)

// InstantResult is the evaluator's verdict on a deal.
//
// For InstantTeamWin, Team and Points are set; Seat is the seat whose hand fired the rule, or -1
// for the partnership rule. For InstantRedealChoice, Seat holds the five pawns and Decider is
// the partner who must choose.
type InstantResult struct {
	Kind    InstantKind
	Team    int
	Points  int
	Reason  string
	Seat    int
	Decider int
}

// EvaluateInstant checks the four dealt hands for pawn-count resolutions. Rules are applied in
// fixed precedence and per-seat rules scan seats 0..3; the first match wins.
func EvaluateInstant(hands [NumSeats][]Tile) InstantResult {
	var pawns [NumSeats]int
	for i, h := range hands {
		pawns[i] = CountKind(h, Pawn)
	}

	for seat, h := range hands {
		switch pawns[seat] {
		case 8:
			return teamWin(seat, 100, ReasonEightPawns)
		case 7:
			others := nonPawns(h)
			return teamWin(seat, others[0].Points()*2, ReasonSevenPawns)
		case 6:
			others := nonPawns(h)
			a, b := others[0], others[1]
			if a.Kind == b.Kind {
				return teamWin(seat, a.Points()*2, ReasonSixPawnPair)
			}
			return teamWin(seat, max(a.Points(), b.Points()), ReasonSixPawns)
		}
	}

	for team := 0; team < 2; team++ {
		if pawns[team] == 5 && pawns[team+2] == 5 {
			return InstantResult{Kind: InstantTeamWin, Team: team, Points: 150, Reason: ReasonDoubleFive, Seat: -1, Decider: -1}
		}
	}

	for seat := 0; seat < NumSeats; seat++ {
		partner := Partner(seat)
		if pawns[seat] == 5 && pawns[partner] != 5 {
			return InstantResult{Kind: InstantRedealChoice, Team: TeamOf(seat), Seat: seat, Decider: partner}
		}
	}

	return InstantResult{Kind: InstantNone, Seat: -1, Decider: -1}
}

func teamWin(seat, points int, reason string) InstantResult {
	return InstantResult{Kind: InstantTeamWin, Team: TeamOf(seat), Points: points, Reason: reason, Seat: seat, Decider: -1}
}

func nonPawns(hand []Tile) []Tile {
	var out []Tile
	for _, t := range hand {
		if t.Kind != Pawn {
			out = append(out, t)
		}
	}
	return out
}

// TeamOf returns the partnership of a seat: 0 for seats 0 and 2, 1 for seats 1 and 3.
func TeamOf(seat int) int { return seat % 2 }

// Partner returns the seat across the table.
func Partner(seat int) int { return (seat + 2) % NumSeats }
