package game

import (
	"log/slog"
	"sync/atomic"

	"goita-server/config"
	"goita-server/protocol"
	"goita-server/wsutil"
)

// ActionType enumerates the kinds of actions a game can process.
type ActionType int

const (
	ActionJoin ActionType = iota
	ActionLeave
	ActionStartGame
	ActionPlay
	ActionPass
	ActionRedealDecision
	ActionNextRound
	ActionShutdown
)

// String returns a log-friendly name for an ActionType.
func (a ActionType) String() string {
	switch a {
	case ActionJoin:
		return "join"
	case ActionLeave:
		return "leave"
	case ActionStartGame:
		return "start_game"
	case ActionPlay:
		return "play"
	case ActionPass:
		return "pass"
	case ActionRedealDecision:
		return "redeal_decision"
	case ActionNextRound:
		return "next_round"
	case ActionShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// JoinReply answers an ActionJoin with the assigned seat or the reason it was refused.
type JoinReply struct {
	Seat int
	Err  error
}

// Action represents one intent or lifecycle event sent into the game's action channel.
type Action struct {
	Type      ActionType
	Seat      int
	Name      string         // for Join
	UserID    string         // for Join, when the client presented a valid token
	Send      chan []byte    // for Join: the client's send channel
	Reply     chan JoinReply // for Join
	DefenseID int            // for Play
	AttackID  int            // for Play
	Choice    RedealChoice   // for RedealDecision
}

// GameResult is reported once when a team reaches the winning score.
type GameResult struct {
	Names      [NumSeats]string
	UserIDs    [NumSeats]string
	Scores     [2]int
	WinnerTeam int
	Rounds     int
}

// Game runs one room. Its Run loop is the only code that touches Table; everything else talks to
// it through Actions.
type Game struct {
	ID      string
	Table   *Table
	Config  *config.Config
	Actions chan Action
	Done    chan struct{}

	// OnRoundEnd is called after every finished round. Optional.
	OnRoundEnd func(gameID string, round, dealer int, out RoundOutcome)

	// OnGameEnd is called once when the game is over. Optional.
	OnGameEnd func(gameID string, result GameResult)

	finished bool
	summary  atomic.Pointer[Summary]
}

// Summary is a read-only snapshot of a room, safe to read from any goroutine.
type Summary struct {
	ID      string                 `json:"id"`
	Phase   Phase                  `json:"phase"`
	Players int                    `json:"players"`
	Round   int                    `json:"round"`
	Scores  [2]int                 `json:"scores"`
	Roster  []protocol.RosterEntry `json:"roster"`
}

// NewGame creates a new room in the lobby phase.
func NewGame(id string, cfg *config.Config) *Game {
	buf := cfg.ActionBuffer
	if buf <= 0 {
		buf = 16
	}
	g := &Game{
		ID:      id,
		Table:   NewTable(cfg.WinningScore),
		Config:  cfg,
		Actions: make(chan Action, buf),
		Done:    make(chan struct{}),
	}
	g.publishSummary()
	return g
}

// Summary returns the snapshot taken after the last processed action.
func (g *Game) Summary() Summary {
	return *g.summary.Load()
}

func (g *Game) publishSummary() {
	s := &Summary{
		ID:      g.ID,
		Phase:   g.Table.Phase,
		Players: g.Table.SeatedCount(),
		Round:   g.Table.Round.Number,
		Scores:  g.Table.Scores,
		Roster:  g.Table.Roster(),
	}
	g.summary.Store(s)
}

// Run is the main game loop. It processes actions one at a time to completion.
// It should be run as a goroutine.
func (g *Game) Run() {
	defer close(g.Done)

	for {
		action, ok := <-g.Actions
		if !ok {
			return
		}
		switch action.Type {
		case ActionJoin:
			g.handleJoin(action)
		case ActionLeave:
			g.handleLeave(action.Seat)
		case ActionStartGame:
			g.handleStartGame(action.Seat)
		case ActionPlay:
			g.handlePlay(action.Seat, action.DefenseID, action.AttackID)
		case ActionPass:
			g.handlePass(action.Seat)
		case ActionRedealDecision:
			g.handleRedealDecision(action.Seat, action.Choice)
		case ActionNextRound:
			g.handleNextRound(action.Seat)
		case ActionShutdown:
			return
		}
		g.publishSummary()
		if g.finished {
			return
		}
	}
}

// reject logs a refused intent. Nothing is sent to any client.
func (g *Game) reject(action ActionType, seat int, err error) {
	slog.Debug("intent rejected", "tag", "game", "game", g.ID, "action", action.String(), "seat", seat, "err", err)
}

func (g *Game) handleJoin(a Action) {
	p := NewPlayer(a.Name, a.Send)
	p.UserID = a.UserID
	seat, err := g.Table.Seat(p)
	if a.Reply != nil {
		a.Reply <- JoinReply{Seat: seat, Err: err}
	}
	if err != nil {
		g.reject(ActionJoin, NoSeat, err)
		return
	}
	slog.Info("player joined", "tag", "game", "game", g.ID, "seat", seat, "name", p.Name)
	g.sendTo(seat, protocol.Welcome{Room: g.ID, Seat: seat, Roster: g.Table.Roster()})
	g.broadcastRoster()
}

func (g *Game) handleLeave(seat int) {
	if seat < 0 || seat >= NumSeats || g.Table.Seats[seat] == nil {
		return
	}
	if g.Table.Phase != PhaseLobby {
		// Disconnects during play are left to the transport; the seat keeps its state.
		g.Table.Seats[seat].Send = nil
		slog.Warn("player disconnected during play", "tag", "game", "game", g.ID, "seat", seat)
		if g.connectedCount() == 0 {
			slog.Info("all players gone, closing room", "tag", "game", "game", g.ID)
			g.finished = true
		}
		return
	}
	if err := g.Table.Unseat(seat); err != nil {
		g.reject(ActionLeave, seat, err)
		return
	}
	slog.Info("player left lobby", "tag", "game", "game", g.ID, "seat", seat)
	if g.Table.SeatedCount() == 0 {
		g.finished = true
		return
	}
	g.broadcastRoster()
}

func (g *Game) handleStartGame(seat int) {
	res, err := g.Table.Start(seat)
	if err != nil {
		g.reject(ActionStartGame, seat, err)
		return
	}
	slog.Info("game started", "tag", "game", "game", g.ID)
	g.announceDeal(res, true)
}

func (g *Game) handleNextRound(seat int) {
	res, err := g.Table.NextRound(seat)
	if err != nil {
		g.reject(ActionNextRound, seat, err)
		return
	}
	g.announceDeal(res, false)
}

// announceDeal sends the round-start log, fresh views, and whatever the instant checks produced.
func (g *Game) announceDeal(res DealResult, first bool) {
	dealer := g.Table.Seats[res.Dealer]
	g.broadcast(protocol.Log{Action: protocol.LogRoundStart, Seat: res.Dealer, Name: dealer.Name})
	if first {
		for i := range g.Table.Seats {
			g.sendTo(i, protocol.GameStarted{State: ProjectFor(g.Table, i)})
		}
	} else {
		g.broadcastState()
	}

	switch res.Instant.Kind {
	case InstantTeamWin:
		g.finishRound(res.Round, res.Dealer, *res.Outcome)
	case InstantRedealChoice:
		discloser := g.Table.Seats[res.Instant.Seat]
		g.sendTo(res.Instant.Decider, protocol.RedealPrompt{
			Decider:       res.Instant.Decider,
			Discloser:     res.Instant.Seat,
			DiscloserName: discloser.Name,
		})
	}
}

func (g *Game) handlePlay(seat, defenseID, attackID int) {
	round := g.Table.Round.Number
	dealer := g.Table.Round.Dealer
	res, err := g.Table.Play(seat, defenseID, attackID)
	if err != nil {
		g.reject(ActionPlay, seat, err)
		return
	}

	entry := protocol.Log{
		Action:    protocol.LogPlay,
		Seat:      seat,
		Name:      g.Table.Seats[seat].Name,
		Concealed: res.Pair.Concealed,
	}
	attack := TileViewOf(res.Pair.Attack)
	entry.Attack = &attack
	if !res.Pair.Concealed {
		defense := TileViewOf(res.Pair.Defense)
		entry.Defense = &defense
	}
	g.broadcast(entry)
	g.broadcastState()

	if res.Outcome != nil {
		g.finishRound(round, dealer, *res.Outcome)
	}
}

func (g *Game) handlePass(seat int) {
	res, err := g.Table.Pass(seat)
	if err != nil {
		g.reject(ActionPass, seat, err)
		return
	}
	g.broadcast(protocol.Log{Action: protocol.LogPass, Seat: res.Seat, Name: g.Table.Seats[seat].Name})
	g.broadcastState()
}

func (g *Game) handleRedealDecision(seat int, choice RedealChoice) {
	res, err := g.Table.DecideRedeal(seat, choice)
	if err != nil {
		g.reject(ActionRedealDecision, seat, err)
		return
	}
	text := "Partner chose to play"
	if choice == ChoiceRedeal {
		text = "Partner chose to redeal"
	}
	g.broadcast(protocol.Log{Action: protocol.LogMessage, Seat: seat, Text: text})
	if res != nil {
		g.announceDeal(*res, false)
		return
	}
	g.broadcastState()
}

// finishRound reports a finished round to every seat and to the persistence hooks.
func (g *Game) finishRound(round, dealer int, out RoundOutcome) {
	g.broadcast(protocol.Log{Action: protocol.LogRoundEnd, Seat: out.WinnerSeat, Team: out.Team, Points: out.Points})
	g.broadcast(protocol.RoundEnd{
		WinnerTeam: out.Team,
		WinnerSeat: out.WinnerSeat,
		Points:     out.Points,
		Scores:     out.Scores,
		Reason:     out.Reason,
		Doubled:    out.Doubled,
		GameOver:   out.GameOver,
	})
	slog.Info("round ended", "tag", "game", "game", g.ID, "round", round, "team", out.Team, "points", out.Points, "scores", out.Scores)
	if g.OnRoundEnd != nil {
		g.OnRoundEnd(g.ID, round, dealer, out)
	}
	if out.GameOver {
		result := GameResult{Scores: out.Scores, WinnerTeam: out.Team, Rounds: round}
		for i, p := range g.Table.Seats {
			result.Names[i] = p.Name
			result.UserIDs[i] = p.UserID
		}
		slog.Info("game over", "tag", "game", "game", g.ID, "winner_team", out.Team, "scores", out.Scores)
		if g.OnGameEnd != nil {
			g.OnGameEnd(g.ID, result)
		}
	}
}

func (g *Game) connectedCount() int {
	n := 0
	for _, p := range g.Table.Seats {
		if p != nil && p.Send != nil {
			n++
		}
	}
	return n
}

func (g *Game) sendTo(seat int, m protocol.Message) {
	if seat < 0 || seat >= NumSeats {
		return
	}
	p := g.Table.Seats[seat]
	if p == nil || p.Send == nil {
		return
	}
	data, err := protocol.Encode(m)
	if err != nil {
		slog.Error("encoding message", "tag", "game", "type", m.MessageType(), "err", err)
		return
	}
	wsutil.SafeSend(p.Send, data)
}

func (g *Game) broadcast(m protocol.Message) {
	data, err := protocol.Encode(m)
	if err != nil {
		slog.Error("encoding message", "tag", "game", "type", m.MessageType(), "err", err)
		return
	}
	for _, p := range g.Table.Seats {
		if p != nil && p.Send != nil {
			wsutil.SafeSend(p.Send, data)
		}
	}
}

// broadcastState sends each seat its own projection.
func (g *Game) broadcastState() {
	for i := range g.Table.Seats {
		g.sendTo(i, protocol.State{State: ProjectFor(g.Table, i)})
	}
}

func (g *Game) broadcastRoster() {
	g.broadcast(protocol.Roster{Players: g.Table.Roster()})
}
