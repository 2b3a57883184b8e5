package game

import "goita-server/protocol"

// ProjectFor builds the view of t that recipient may see. The recipient's own hand is shown in
// full; every other hand is reduced to placeholders. A concealed pair's defense tile is hidden
// from everyone except its owner, who sees it marked Private. recipient NoSeat yields a view with
// every hand and concealed defense hidden.
func ProjectFor(t *Table, recipient int) protocol.StateView {
	r := &t.Round
	v := protocol.StateView{
		Phase:        string(t.Phase),
		You:          recipient,
		Round:        r.Number,
		Dealer:       t.Dealer,
		Turn:         r.Turn,
		Passes:       r.Passes,
		KingExposed:  r.KingExposed,
		FreePlay:     r.FreePlay,
		Decider:      NoSeat,
		Scores:       t.Scores,
		WinningScore: t.WinningScore,
		Seats:        make([]protocol.SeatView, NumSeats),
		Unaddressed:  recipient == NoSeat,
	}
	if r.Active != nil {
		v.Active = &protocol.AttackView{Kind: string(r.Active.Kind), Seat: r.Active.Seat}
	}
	if r.Pending != nil {
		v.Decider = r.Pending.Decider
	}

	for i, p := range t.Seats {
		sv := protocol.SeatView{
			Seat:   i,
			Team:   TeamOf(i),
			Hand:   []protocol.TileView{},
			Played: []protocol.PairView{},
		}
		if p != nil {
			own := i == recipient
			sv.Name = p.Name
			sv.IsHost = p.IsHost
			sv.Occupied = true
			sv.HandCount = len(p.Hand)
			for _, tile := range p.Hand {
				if own {
					sv.Hand = append(sv.Hand, TileViewOf(tile))
				} else {
					sv.Hand = append(sv.Hand, protocol.HiddenTile())
				}
			}
			for _, pair := range p.Played {
				sv.Played = append(sv.Played, pairView(pair, own))
			}
		}
		v.Seats[i] = sv
	}
	return v
}

func pairView(pair PlayedPair, own bool) protocol.PairView {
	pv := protocol.PairView{
		Defense:   TileViewOf(pair.Defense),
		Attack:    TileViewOf(pair.Attack),
		Concealed: pair.Concealed,
	}
	if pair.Concealed {
		if own {
			pv.Private = true
		} else {
			pv.Defense = protocol.HiddenTile()
		}
	}
	return pv
}

// TileViewOf returns the fully visible view of tile.
func TileViewOf(tile Tile) protocol.TileView {
	id := tile.ID
	return protocol.TileView{ID: &id, Kind: string(tile.Kind), Points: tile.Points()}
}

// Roster returns the occupied seats in seat order.
func (t *Table) Roster() []protocol.RosterEntry {
	roster := make([]protocol.RosterEntry, 0, NumSeats)
	for i, p := range t.Seats {
		if p == nil {
			continue
		}
		roster = append(roster, protocol.RosterEntry{Seat: i, Name: p.Name, IsHost: p.IsHost, Team: TeamOf(i)})
	}
	return roster
}
