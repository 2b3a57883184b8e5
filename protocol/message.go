// Package protocol defines the messages exchanged between the host and its clients.
//
// Every message travels as a JSON object whose "type" field names the variant; the remaining
// fields belong to that variant. The set of variants is closed: Decode rejects unknown types and
// intents with missing fields.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Type is the discriminator carried in every message.
type Type string

// Client-to-host intents.
const (
	TypeJoin           Type = "join"
	TypeStartGame      Type = "start_game"
	TypePlay           Type = "play"
	TypePass           Type = "pass"
	TypeRedealDecision Type = "redeal_decision"
	TypeNextRound      Type = "next_round"
)

// Host-to-client messages.
const (
	TypeWelcome      Type = "welcome"
	TypeRoster       Type = "roster"
	TypeGameStarted  Type = "game_started"
	TypeState        Type = "state"
	TypeRoundEnd     Type = "round_end"
	TypeRedealPrompt Type = "redeal_prompt"
	TypeLog          Type = "log"
	TypeError        Type = "error"
)

// Redeal choices.
const (
	ChoicePlay   = "play"
	ChoiceRedeal = "redeal"
)

// Log actions.
const (
	LogRoundStart = "round_start"
	LogPlay       = "play"
	LogPass       = "pass"
	LogRoundEnd   = "round_end"
	LogMessage    = "message"
)

// Error codes sent to a client whose join or intent could not be routed.
const (
	CodeRoomFull      = "room_full"
	CodeRoomNotFound  = "room_not_found"
	CodeBadName       = "bad_name"
	CodeUnauthorized  = "unauthorized"
	CodeNotSeated     = "not_seated"
	CodeAlreadySeated = "already_seated"
)

var (
	ErrMalformed    = errors.New("malformed message")
	ErrUnknownType  = errors.New("unknown message type")
	ErrMissingField = errors.New("missing field")
)

// Message is implemented by every variant.
type Message interface {
	MessageType() Type
}

// Join asks the host for a seat.
type Join struct {
	Name  string `json:"name"`
	Token string `json:"token,omitempty"`
}

// StartGame asks the host to deal the first round. Host seat only.
type StartGame struct{}

// Play proposes releasing a defense and an attack tile.
type Play struct {
	Defense int `json:"defense"`
	Attack  int `json:"attack"`
}

// Pass declines the active attack.
type Pass struct{}

// RedealDecision answers a redeal prompt with ChoicePlay or ChoiceRedeal.
type RedealDecision struct {
	Choice string `json:"choice"`
}

// NextRound asks the host to deal the next round. Host seat only.
type NextRound struct{}

// Welcome tells a joining client its room and seat.
type Welcome struct {
	Room   string        `json:"room"`
	Seat   int           `json:"seat"`
	Roster []RosterEntry `json:"roster"`
}

// Roster is the full lobby roster.
type Roster struct {
	Players []RosterEntry `json:"players"`
}

// GameStarted carries the recipient's first view of the game.
type GameStarted struct {
	State StateView `json:"state"`
}

// State replaces the recipient's view wholesale.
type State struct {
	State StateView `json:"state"`
}

// RoundEnd summarizes a finished round. WinnerSeat is -1 for instant resolutions.
type RoundEnd struct {
	WinnerTeam int    `json:"winnerTeam"`
	WinnerSeat int    `json:"winnerSeat"`
	Points     int    `json:"points"`
	Scores     [2]int `json:"scores"`
	Reason     string `json:"reason,omitempty"`
	Doubled    bool   `json:"doubled,omitempty"`
	GameOver   bool   `json:"gameOver"`
}

// RedealPrompt asks the decider to choose between play and redeal.
type RedealPrompt struct {
	Decider       int    `json:"decider"`
	Discloser     int    `json:"discloser"`
	DiscloserName string `json:"discloserName"`
}

// Log is one activity-log entry. Seat is -1 for entries not tied to a seat. Defense is omitted
// for concealed plays.
type Log struct {
	Action    string    `json:"action"`
	Seat      int       `json:"seat"`
	Name      string    `json:"name,omitempty"`
	Defense   *TileView `json:"defense,omitempty"`
	Attack    *TileView `json:"attack,omitempty"`
	Concealed bool      `json:"concealed,omitempty"`
	Team      int       `json:"team,omitempty"`
	Points    int       `json:"points,omitempty"`
	Text      string    `json:"text,omitempty"`
}

// Error reports a rejected join or other lobby-level failure to one client.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (Join) MessageType() Type           { return TypeJoin }
func (StartGame) MessageType() Type      { return TypeStartGame }
func (Play) MessageType() Type           { return TypePlay }
func (Pass) MessageType() Type           { return TypePass }
func (RedealDecision) MessageType() Type { return TypeRedealDecision }
func (NextRound) MessageType() Type      { return TypeNextRound }
func (Welcome) MessageType() Type        { return TypeWelcome }
func (Roster) MessageType() Type         { return TypeRoster }
func (GameStarted) MessageType() Type    { return TypeGameStarted }
func (State) MessageType() Type          { return TypeState }
func (RoundEnd) MessageType() Type       { return TypeRoundEnd }
func (RedealPrompt) MessageType() Type   { return TypeRedealPrompt }
func (Log) MessageType() Type            { return TypeLog }
func (Error) MessageType() Type          { return TypeError }

// NewPlay builds a play intent.
func NewPlay(defense, attack int) Play { return Play{Defense: defense, Attack: attack} }

// NewPass builds a pass intent.
func NewPass() Pass { return Pass{} }

// NewRedealDecision builds a redeal decision intent.
func NewRedealDecision(redeal bool) RedealDecision {
	if redeal {
		return RedealDecision{Choice: ChoiceRedeal}
	}
	return RedealDecision{Choice: ChoicePlay}
}

// Encode marshals m with its "type" discriminator.
func Encode(m Message) ([]byte, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	if len(body) < 2 || body[0] != '{' {
		return nil, fmt.Errorf("%w: %T does not encode to an object", ErrMalformed, m)
	}
	typ, _ := json.Marshal(m.MessageType())
	out := make([]byte, 0, len(body)+len(typ)+10)
	out = append(out, `{"type":`...)
	out = append(out, typ...)
	if len(body) > 2 {
		out = append(out, ',')
	}
	out = append(out, body[1:]...)
	return out, nil
}

// MustEncode is Encode for messages built from known-good values. It panics on failure.
func MustEncode(m Message) []byte {
	data, err := Encode(m)
	if err != nil {
		panic(err)
	}
	return data
}

// Decode parses a message and returns the concrete variant.
func Decode(data []byte) (Message, error) {
	var head struct {
		Type *Type `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if head.Type == nil {
		return nil, fmt.Errorf("%w: type", ErrMissingField)
	}

	switch *head.Type {
	case TypeJoin:
		var w struct {
			Name  *string `json:"name"`
			Token string  `json:"token"`
		}
		if err := unmarshal(data, &w); err != nil {
			return nil, err
		}
		if w.Name == nil {
			return nil, missing(TypeJoin, "name")
		}
		return Join{Name: *w.Name, Token: w.Token}, nil
	case TypeStartGame:
		return StartGame{}, nil
	case TypePlay:
		var w struct {
			Defense *int `json:"defense"`
			Attack  *int `json:"attack"`
		}
		if err := unmarshal(data, &w); err != nil {
			return nil, err
		}
		if w.Defense == nil {
			return nil, missing(TypePlay, "defense")
		}
		if w.Attack == nil {
			return nil, missing(TypePlay, "attack")
		}
		return Play{Defense: *w.Defense, Attack: *w.Attack}, nil
	case TypePass:
		return Pass{}, nil
	case TypeRedealDecision:
		var w struct {
			Choice *string `json:"choice"`
		}
		if err := unmarshal(data, &w); err != nil {
			return nil, err
		}
		if w.Choice == nil {
			return nil, missing(TypeRedealDecision, "choice")
		}
		if *w.Choice != ChoicePlay && *w.Choice != ChoiceRedeal {
			return nil, fmt.Errorf("%w: redeal_decision choice %q", ErrMalformed, *w.Choice)
		}
		return RedealDecision{Choice: *w.Choice}, nil
	case TypeNextRound:
		return NextRound{}, nil
	case TypeWelcome:
		var m Welcome
		return decodeInto(data, &m)
	case TypeRoster:
		var m Roster
		return decodeInto(data, &m)
	case TypeGameStarted:
		var m GameStarted
		return decodeInto(data, &m)
	case TypeState:
		var m State
		return decodeInto(data, &m)
	case TypeRoundEnd:
		var m RoundEnd
		return decodeInto(data, &m)
	case TypeRedealPrompt:
		var m RedealPrompt
		return decodeInto(data, &m)
	case TypeLog:
		var m Log
		return decodeInto(data, &m)
	case TypeError:
		var m Error
		return decodeInto(data, &m)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, *head.Type)
	}
}

func unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

// decodeInto unmarshals a host message into m and returns the value it points to.
func decodeInto[T Message](data []byte, m *T) (Message, error) {
	if err := unmarshal(data, m); err != nil {
		return nil, err
	}
	return *m, nil
}

func missing(t Type, field string) error {
	return fmt.Errorf("%w: %s.%s", ErrMissingField, t, field)
}
