package conversation

import (
	"testing"

	"github.com/YiFeiChang/Smart-Farm-Steward/pkg/dialogue"
)

// mkConversation builds an alternating user/model conversation with the
// given number of rounds.
func mkConversation(rounds int) []dialogue.Turn {
	var turns []dialogue.Turn
	for i := 0; i < rounds; i++ {
		turns = append(turns,
			dialogue.NewTextTurn(dialogue.RoleUser, "q"),
			dialogue.NewTextTurn(dialogue.RoleModel, "a"),
		)
	}
	return turns
}

func TestSplitKeepsLastRounds(t *testing.T) {
	t.Parallel()

	// 5 rounds, keep 2: the keep portion starts at the user turn that
	// precedes the 4th model turn.
	turns := mkConversation(5)
	keep, summarize := SplitByRounds(turns, 2)

	if len(keep) != 4 {
		t.Fatalf("keep = %d turns, want 4", len(keep))
	}
	if len(summarize) != 6 {
		t.Fatalf("summarize = %d turns, want 6", len(summarize))
	}
	if keep[0].Role != dialogue.RoleUser {
		t.Error("keep must start on a user turn")
	}
}

func TestSplitNoModelTurns(t *testing.T) {
	t.Parallel()

	turns := []dialogue.Turn{
		dialogue.NewTextTurn(dialogue.RoleUser, "hello"),
		dialogue.NewTextTurn(dialogue.RoleUser, "anyone there?"),
	}
	keep, summarize := SplitByRounds(turns, 3)

	if len(keep) != len(turns) || len(summarize) != 0 {
		t.Errorf("with no model turns everything is kept: keep=%d summarize=%d", len(keep), len(summarize))
	}
}

func TestSplitEmptyInput(t *testing.T) {
	t.Parallel()

	keep, summarize := SplitByRounds(nil, 5)
	if len(keep) != 0 || len(summarize) != 0 {
		t.Errorf("empty input: keep=%d summarize=%d", len(keep), len(summarize))
	}
}

func TestSplitKeepZeroRounds(t *testing.T) {
	t.Parallel()

	turns := mkConversation(3)
	keep, summarize := SplitByRounds(turns, 0)
	if len(keep) != 0 {
		t.Errorf("keepRounds=0 must keep nothing, kept %d", len(keep))
	}
	if len(summarize) != len(turns) {
		t.Errorf("keepRounds=0 must summarize everything, got %d", len(summarize))
	}
}

func TestSplitKeepMoreThanTotal(t *testing.T) {
	t.Parallel()

	turns := mkConversation(2)
	keep, summarize := SplitByRounds(turns, 20)
	if len(keep) != len(turns) || len(summarize) != 0 {
		t.Errorf("keepRounds beyond total keeps everything: keep=%d summarize=%d", len(keep), len(summarize))
	}
}

func TestSplitWalkBackStopsAtIndexZero(t *testing.T) {
	t.Parallel()

	// A conversation opening with a model turn (e.g. a prior summary):
	// walking back from it finds no user turn, so the boundary is 0.
	turns := []dialogue.Turn{
		dialogue.NewTextTurn(dialogue.RoleModel, dialogue.SummaryMarker+" prior summary"),
		dialogue.NewTextTurn(dialogue.RoleUser, "q"),
		dialogue.NewTextTurn(dialogue.RoleModel, "a"),
	}
	keep, summarize := SplitByRounds(turns, 2)
	if len(summarize) != 0 || len(keep) != 3 {
		t.Errorf("boundary should fall back to 0: keep=%d summarize=%d", len(keep), len(summarize))
	}
}

func TestSplitCompleteness(t *testing.T) {
	t.Parallel()

	// Mixed shapes, including tool-result user turns between rounds.
	turns := []dialogue.Turn{
		dialogue.NewTextTurn(dialogue.RoleUser, "u1"),
		dialogue.NewTextTurn(dialogue.RoleModel, "m1"),
		dialogue.NewTextTurn(dialogue.RoleUser, "u2"),
		dialogue.NewFunctionResponseTurn(dialogue.FunctionResponse{Name: "get_weather"}),
		dialogue.NewTextTurn(dialogue.RoleModel, "m2"),
		dialogue.NewTextTurn(dialogue.RoleUser, "u3"),
		dialogue.NewTextTurn(dialogue.RoleModel, "m3"),
	}

	for keepRounds := 0; keepRounds <= 4; keepRounds++ {
		keep, summarize := SplitByRounds(turns, keepRounds)

		rebuilt := append(append([]dialogue.Turn{}, summarize...), keep...)
		if len(rebuilt) != len(turns) {
			t.Fatalf("keepRounds=%d: rebuilt %d turns, want %d", keepRounds, len(rebuilt), len(turns))
		}
		for i := range turns {
			if !rebuilt[i].Equal(turns[i]) {
				t.Errorf("keepRounds=%d: turn %d differs after split+concat", keepRounds, i)
			}
		}

		if len(keep) > 0 && len(keep) != len(turns) && keep[0].Role != dialogue.RoleUser {
			t.Errorf("keepRounds=%d: partial keep must start on a user turn", keepRounds)
		}
	}
}
