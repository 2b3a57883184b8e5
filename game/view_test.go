package game

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestProjectFor_Hands(t *testing.T) {
	tb, _ := startedTable(t, quietHands)

	v := ProjectFor(tb, 1)
	if v.You != 1 || v.Unaddressed {
		t.Errorf("expected an addressed view for seat 1, got you=%d unaddressed=%v", v.You, v.Unaddressed)
	}
	for i, sv := range v.Seats {
		if sv.HandCount != HandSize || len(sv.Hand) != HandSize {
			t.Errorf("seat %d: expected %d tiles, got count %d len %d", i, HandSize, sv.HandCount, len(sv.Hand))
		}
		for _, tile := range sv.Hand {
			if i == 1 && (tile.Hidden || tile.Kind == "" || tile.ID == nil) {
				t.Errorf("own hand must be fully visible, got %+v", tile)
			}
			if i != 1 && (!tile.Hidden || tile.Kind != "" || tile.ID != nil) {
				t.Errorf("seat %d: other hands must be placeholders, got %+v", i, tile)
			}
		}
	}
}

func TestProjectFor_ConcealedDefense(t *testing.T) {
	tb, _ := startedTable(t, quietHands)
	gold := tileOf(t, tb, 0, Gold)
	knight := tileOf(t, tb, 0, Knight)
	if _, err := tb.Play(0, gold.ID, knight.ID); err != nil {
		t.Fatalf("play: %v", err)
	}

	own := ProjectFor(tb, 0).Seats[0].Played[0]
	if !own.Private || own.Defense.Hidden || own.Defense.Kind != string(Gold) {
		t.Errorf("owner should see its concealed defense marked private, got %+v", own)
	}

	for _, seat := range []int{1, 2, 3} {
		pair := ProjectFor(tb, seat).Seats[0].Played[0]
		if !pair.Defense.Hidden || pair.Defense.Kind != "" || pair.Private {
			t.Errorf("seat %d: concealed defense leaked: %+v", seat, pair.Defense)
		}
		if pair.Attack.Kind != string(Knight) {
			t.Errorf("seat %d: attack should stay visible, got %+v", seat, pair.Attack)
		}
	}

	// Nothing in the partner's serialized view may name the concealed tile.
	data, err := json.Marshal(ProjectFor(tb, 2))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	idField := `"id":` + itoa(gold.ID) + `,`
	if strings.Contains(string(data), idField) {
		t.Errorf("concealed tile id %d appears in another seat's view", gold.ID)
	}
}

func TestProjectFor_FaceUpPairVisibleToAll(t *testing.T) {
	tb, _ := startedTable(t, quietHands)
	tb.Play(0, tileOf(t, tb, 0, Gold).ID, tileOf(t, tb, 0, Knight).ID)
	knight := tileOf(t, tb, 3, Knight)
	pawn := tileOf(t, tb, 3, Pawn)
	if _, err := tb.Play(3, knight.ID, pawn.ID); err != nil {
		t.Fatalf("answer: %v", err)
	}

	pair := ProjectFor(tb, 1).Seats[3].Played[0]
	if pair.Concealed || pair.Defense.Hidden || pair.Defense.Kind != string(Knight) {
		t.Errorf("face-up defense should be visible, got %+v", pair)
	}
	v := ProjectFor(tb, 1)
	if v.Active == nil || v.Active.Kind != string(Pawn) || v.Active.Seat != 3 {
		t.Errorf("expected active pawn from seat 3, got %+v", v.Active)
	}
	if v.Turn != 2 {
		t.Errorf("expected turn 2, got %d", v.Turn)
	}
}

func TestProjectFor_Unaddressed(t *testing.T) {
	tb, _ := startedTable(t, quietHands)
	tb.Play(0, tileOf(t, tb, 0, Gold).ID, tileOf(t, tb, 0, Knight).ID)

	v := ProjectFor(tb, NoSeat)
	if !v.Unaddressed {
		t.Error("expected an unaddressed view")
	}
	for i, sv := range v.Seats {
		for _, tile := range sv.Hand {
			if !tile.Hidden {
				t.Errorf("seat %d: unaddressed view exposed a hand tile", i)
			}
		}
	}
	if !v.Seats[0].Played[0].Defense.Hidden {
		t.Error("unaddressed view exposed a concealed defense")
	}
}

func TestProjectFor_RedealDecider(t *testing.T) {
	tb, _ := startedTable(t, fivePawnHands)

	v := ProjectFor(tb, 3)
	if v.Phase != string(PhaseRedealChoice) || v.Decider != 0 || v.Turn != NoSeat {
		t.Errorf("expected redeal phase with decider 0 and no turn, got %s %d %d", v.Phase, v.Decider, v.Turn)
	}
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}
