package server

import "testing"

func TestGameTotalsFoldsLastTotalAfter(t *testing.T) {
	game := &Game{
		Players: []Player{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}},
		Rounds: []Round{
			{Entries: []RoundEntry{
				{PlayerID: "p1", Delta: 10, TotalAfter: 10},
				{PlayerID: "p2", Delta: 4, TotalAfter: 4},
			}},
			{Entries: []RoundEntry{
				// Delta deliberately inconsistent: only TotalAfter counts.
				{PlayerID: "p1", Delta: 999, TotalAfter: 7},
			}},
		},
	}

	totals := gameTotals(game)
	if totals["p1"] != 7 {
		t.Fatalf("expected p1 total 7, got %v", totals["p1"])
	}
	if totals["p2"] != 4 {
		t.Fatalf("expected p2 total 4, got %v", totals["p2"])
	}
	if totals["p3"] != 0 {
		t.Fatalf("players without entries stay at 0, got %v", totals["p3"])
	}
}

func TestGameTotalsEmptyGame(t *testing.T) {
	game := &Game{Players: []Player{{ID: "p1"}}}
	totals := gameTotals(game)
	if len(totals) != 1 || totals["p1"] != 0 {
		t.Fatalf("expected zeroed totals, got %v", totals)
	}
}
