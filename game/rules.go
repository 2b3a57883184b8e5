package game

// CanMatch reports whether a defense tile of kind defense answers an active attack of kind active.
// Equal kinds always match and the two kings match each other. A king is otherwise wild, except
// against a lance or a pawn.
func CanMatch(defense, active Kind) bool {
	if defense == active {
		return true
	}
	if !defense.IsKing() {
		return false
	}
	if active.IsKing() {
		return true
	}
	return active != Lance && active != Pawn
}

// CanAttackWith reports whether kind may be played as the attack tile. hand is the acting seat's
// hand before the play. Non-king attacks are always allowed. A king attack needs one of: a king
// already exposed this round, the play being the seat's last (two tiles left), or the seat
// holding both kings.
func CanAttackWith(kind Kind, hand []Tile, kingExposed bool) bool {
	if !kind.IsKing() {
		return true
	}
	if kingExposed {
		return true
	}
	if len(hand) == 2 {
		return true
	}
	return CountKings(hand) == 2
}
