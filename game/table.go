package game

import "fmt"

// Phase represents the lifecycle stage of a table.
type Phase string

const (
	PhaseLobby        Phase = "lobby"
	PhaseRedealChoice Phase = "redeal_choice"
	PhasePlaying      Phase = "playing"
	PhaseRoundEnd     Phase = "round_end"
	PhaseGameOver     Phase = "game_over"
)

// DefaultWinningScore ends the game once a team reaches it.
const DefaultWinningScore = 150

// NoSeat marks the absence of a seat (no turn, no decider, broadcast recipient).
const NoSeat = -1

// RedealChoice is the decider's answer to a redeal prompt.
type RedealChoice string

const (
	ChoicePlay   RedealChoice = "play"
	ChoiceRedeal RedealChoice = "redeal"
)

// Attack is the unmatched attack the current seat must answer.
type Attack struct {
	Kind Kind
	Seat int
}

// Round is the per-deal state. A new Round replaces the old one on every deal.
type Round struct {
	Number      int
	Dealer      int
	Turn        int // NoSeat outside PhasePlaying
	Active      *Attack
	Passes      int
	KingExposed bool
	FreePlay    bool

	// Discard holds the tiles left over after dealing; they take no part in the round.
	Discard []Tile

	// Pending is the redeal prompt while the table is in PhaseRedealChoice.
	Pending *InstantResult
}

// RoundOutcome describes how a round ended and the resulting scores.
type RoundOutcome struct {
	Team       int
	WinnerSeat int // NoSeat for instant resolutions
	Points     int
	Reason     string
	Doubled    bool
	Scores     [2]int
	GameOver   bool
}

// DealResult reports what happened when a round was dealt.
type DealResult struct {
	Round   int
	Dealer  int
	Instant InstantResult
	Outcome *RoundOutcome // set when an instant win ended the round
}

// PlayResult reports an accepted play.
type PlayResult struct {
	Seat    int
	Pair    PlayedPair
	Outcome *RoundOutcome // set when the play emptied the hand
}

// PassResult reports an accepted pass.
type PassResult struct {
	Seat int
	// Cycled is true when this was the third pass and the turn went back to the attacker.
	Cycled bool
	Turn   int
}

// Table is the canonical game state owned by the host. Only the host's message loop calls the
// mutating methods; every other component reads projections.
type Table struct {
	Seats        [NumSeats]*Player
	Scores       [2]int
	Phase        Phase
	Dealer       int
	Round        Round
	WinningScore int
	Shuffle      Shuffler
}

// NewTable returns an empty table in the lobby.
func NewTable(winningScore int) *Table {
	if winningScore <= 0 {
		winningScore = DefaultWinningScore
	}
	return &Table{
		Phase:        PhaseLobby,
		WinningScore: winningScore,
		Shuffle:      Shuffle,
		Round:        Round{Turn: NoSeat},
	}
}

// SeatedCount returns the number of occupied seats.
func (t *Table) SeatedCount() int {
	n := 0
	for _, p := range t.Seats {
		if p != nil {
			n++
		}
	}
	return n
}

// HostSeat returns the seat flagged as host, or NoSeat.
func (t *Table) HostSeat() int {
	for i, p := range t.Seats {
		if p != nil && p.IsHost {
			return i
		}
	}
	return NoSeat
}

// Seat places p in the lowest empty seat. The first player seated becomes host.
func (t *Table) Seat(p *Player) (int, error) {
	if t.Phase != PhaseLobby {
		return NoSeat, ErrWrongPhase
	}
	for i, s := range t.Seats {
		if s == nil {
			p.IsHost = t.HostSeat() == NoSeat
			t.Seats[i] = p
			return i, nil
		}
	}
	return NoSeat, ErrRoomFull
}

// Unseat removes the player at seat while in the lobby. If the host leaves, the lowest occupied
// seat becomes host.
func (t *Table) Unseat(seat int) error {
	if seat < 0 || seat >= NumSeats || t.Seats[seat] == nil {
		return ErrInvalidSeat
	}
	if t.Phase != PhaseLobby {
		return ErrWrongPhase
	}
	wasHost := t.Seats[seat].IsHost
	t.Seats[seat] = nil
	if wasHost {
		for _, p := range t.Seats {
			if p != nil {
				p.IsHost = true
				break
			}
		}
	}
	return nil
}

// Start deals the first round. Only the host may start, and only with four seated players.
func (t *Table) Start(seat int) (DealResult, error) {
	if t.Phase != PhaseLobby {
		return DealResult{}, ErrWrongPhase
	}
	if seat != t.HostSeat() {
		return DealResult{}, ErrNotHost
	}
	if t.SeatedCount() != NumSeats {
		return DealResult{}, ErrNotEnoughPlayers
	}
	t.Scores = [2]int{}
	t.Dealer = 0
	return t.deal(), nil
}

// NextRound deals a new round after a round end. Only the host may call it.
func (t *Table) NextRound(seat int) (DealResult, error) {
	if t.Phase == PhaseGameOver {
		return DealResult{}, ErrGameOver
	}
	if t.Phase != PhaseRoundEnd {
		return DealResult{}, ErrWrongPhase
	}
	if seat != t.HostSeat() {
		return DealResult{}, ErrNotHost
	}
	return t.deal(), nil
}

// deal shuffles, deals and evaluates instant resolutions with the current dealer.
func (t *Table) deal() DealResult {
	hands, discard := Deal(t.Shuffle(NewDeck()))
	for i, p := range t.Seats {
		p.Hand = hands[i]
		p.Played = nil
	}
	t.Round = Round{
		Number:  t.Round.Number + 1,
		Dealer:  t.Dealer,
		Turn:    NoSeat,
		Discard: discard,
	}

	res := DealResult{Round: t.Round.Number, Dealer: t.Dealer}
	res.Instant = EvaluateInstant(hands)
	switch res.Instant.Kind {
	case InstantTeamWin:
		t.Scores[res.Instant.Team] += res.Instant.Points
		out := t.finishRound(RoundOutcome{
			Team:       res.Instant.Team,
			WinnerSeat: NoSeat,
			Points:     res.Instant.Points,
			Reason:     res.Instant.Reason,
		})
		res.Outcome = &out
	case InstantRedealChoice:
		pending := res.Instant
		t.Round.Pending = &pending
		t.Phase = PhaseRedealChoice
	default:
		t.enterPlaying()
	}
	return res
}

func (t *Table) enterPlaying() {
	t.Phase = PhasePlaying
	t.Round.Turn = t.Round.Dealer
	t.Round.Active = nil
	t.Round.Passes = 0
	t.Round.KingExposed = false
	t.Round.FreePlay = false
	t.Round.Pending = nil
}

// DecideRedeal applies the decider's choice. ChoiceRedeal deals again with the same dealer and
// re-runs the instant checks; ChoicePlay starts play with the current hands and skips them.
func (t *Table) DecideRedeal(seat int, choice RedealChoice) (*DealResult, error) {
	if t.Phase != PhaseRedealChoice || t.Round.Pending == nil {
		return nil, ErrWrongPhase
	}
	if seat != t.Round.Pending.Decider {
		return nil, ErrNotDecider
	}
	switch choice {
	case ChoiceRedeal:
		res := t.deal()
		return &res, nil
	case ChoicePlay:
		t.enterPlaying()
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrBadChoice, choice)
	}
}

// checkTurn validates that seat may act now.
func (t *Table) checkTurn(seat int) error {
	if t.Phase == PhaseGameOver {
		return ErrGameOver
	}
	if t.Phase != PhasePlaying {
		return ErrWrongPhase
	}
	if seat < 0 || seat >= NumSeats {
		return ErrInvalidSeat
	}
	if seat != t.Round.Turn {
		return ErrNotYourTurn
	}
	return nil
}

// Play releases the defense and attack tiles from seat's hand. A rejected play leaves the table
// untouched.
func (t *Table) Play(seat, defenseID, attackID int) (PlayResult, error) {
	if err := t.checkTurn(seat); err != nil {
		return PlayResult{}, err
	}
	if defenseID == attackID {
		return PlayResult{}, ErrSameTile
	}
	p := t.Seats[seat]
	defense, ok := findTile(p.Hand, defenseID)
	if !ok {
		return PlayResult{}, fmt.Errorf("defense %d: %w", defenseID, ErrTileNotInHand)
	}
	attack, ok := findTile(p.Hand, attackID)
	if !ok {
		return PlayResult{}, fmt.Errorf("attack %d: %w", attackID, ErrTileNotInHand)
	}
	r := &t.Round
	if r.Active != nil && !CanMatch(defense.Kind, r.Active.Kind) {
		return PlayResult{}, ErrMatchRule
	}
	if !CanAttackWith(attack.Kind, p.Hand, r.KingExposed) {
		return PlayResult{}, ErrKingAttack
	}

	concealed := r.Active == nil
	pair := PlayedPair{Defense: defense, Attack: attack, Concealed: concealed}
	p.Hand = removeTiles(p.Hand, defenseID, attackID)
	p.Played = append(p.Played, pair)
	if attack.IsKing() || (defense.IsKing() && !concealed) {
		r.KingExposed = true
	}
	r.Active = &Attack{Kind: attack.Kind, Seat: seat}
	r.Passes = 0
	freePlay := r.FreePlay
	r.FreePlay = false

	res := PlayResult{Seat: seat, Pair: pair}
	if len(p.Hand) == 0 {
		out := t.scoreHandOut(seat, pair, freePlay)
		res.Outcome = &out
		return res, nil
	}
	r.Turn = NextSeat(seat)
	return res, nil
}

// Pass declines to answer the active attack. The opening seat of a trick may never pass.
func (t *Table) Pass(seat int) (PassResult, error) {
	if err := t.checkTurn(seat); err != nil {
		return PassResult{}, err
	}
	r := &t.Round
	if r.Active == nil {
		return PassResult{}, ErrCannotPass
	}
	r.Passes++
	res := PassResult{Seat: seat}
	if r.Passes >= NumSeats-1 {
		r.Turn = r.Active.Seat
		r.Active = nil
		r.Passes = 0
		r.FreePlay = true
		res.Cycled = true
	} else {
		r.Turn = NextSeat(seat)
	}
	res.Turn = r.Turn
	return res, nil
}

// scoreHandOut awards the attack tile's points to the seat's team. The points double when the
// final pair shares one kind and was played in free play. The winning seat deals next.
func (t *Table) scoreHandOut(seat int, final PlayedPair, freePlay bool) RoundOutcome {
	team := TeamOf(seat)
	points := final.Attack.Points()
	doubled := freePlay && final.Defense.Kind == final.Attack.Kind
	if doubled {
		points *= 2
	}
	t.Scores[team] += points
	t.Dealer = seat
	return t.finishRound(RoundOutcome{
		Team:       team,
		WinnerSeat: seat,
		Points:     points,
		Doubled:    doubled,
	})
}

// finishRound closes the round and moves to round end or game over.
func (t *Table) finishRound(out RoundOutcome) RoundOutcome {
	t.Round.Turn = NoSeat
	t.Round.Active = nil
	t.Round.Passes = 0
	t.Round.FreePlay = false
	t.Round.Pending = nil
	out.Scores = t.Scores
	if t.Scores[0] >= t.WinningScore || t.Scores[1] >= t.WinningScore {
		out.GameOver = true
		t.Phase = PhaseGameOver
	} else {
		t.Phase = PhaseRoundEnd
	}
	return out
}

// NextSeat returns the seat that acts after seat. Play runs 0, 3, 2, 1.
func NextSeat(seat int) int { return (seat + NumSeats - 1) % NumSeats }
