package conversation

import "github.com/YiFeiChang/Smart-Farm-Steward/pkg/dialogue"

// SplitByRounds partitions a conversation into a trailing portion kept
// verbatim and a leading portion to be summarized, aligned to round
// boundaries. A round boundary is a model-authored turn; keepRounds counts
// trailing rounds to preserve.
//
// The keep portion either is the entire input (no model turns, or
// keepRounds covers them all) or begins with a user turn, so a kept round
// never starts mid-exchange. keep and summarize concatenate back to the
// exact input sequence.
func SplitByRounds(turns []dialogue.Turn, keepRounds int) (keep, summarize []dialogue.Turn) {
	var modelIndices []int
	for i, t := range turns {
		if t.Role == dialogue.RoleModel {
			modelIndices = append(modelIndices, i)
		}
	}

	if len(modelIndices) == 0 || len(turns) == 0 {
		return turns, nil
	}

	total := len(modelIndices)
	actualKeep := min(keepRounds, total)

	var start int
	if actualKeep == 0 {
		start = len(turns)
	} else {
		// Walk back from the model turn that opens the actualKeep-th-from-last
		// round to the nearest preceding user turn; index 0 if none exists.
		start = modelIndices[total-actualKeep]
		for start > 0 && turns[start].Role != dialogue.RoleUser {
			start--
		}
	}

	return turns[start:], turns[:start]
}
