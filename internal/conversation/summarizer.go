package conversation

import (
	"context"
	"strings"

	"github.com/YiFeiChang/Smart-Farm-Steward/internal/llm"
	"github.com/YiFeiChang/Smart-Farm-Steward/pkg/dialogue"
)

// summarySystemInstruction steers the single-shot summarization call. The
// marker requirement lets later calls tell compressed background from
// organic dialogue.
const summarySystemInstruction = `你是一個專業的對話歷史紀錄分析員。你的任務是將一組冗長的對話內容，濃縮成一個資訊完整的摘要。

請務必遵守以下規則：
1. **目標：** 摘要的目的是為了在後續的對話中，取代舊的對話歷史，作為新的背景知識。
2. **內容優先級：** 必須包含『用戶的最終目的』、『已確認的細節或偏好』、『關鍵人名或地點』、『重要的決策點』，注意相同內容勿重複紀錄。
3. **格式：** 採用精煉的條列式或簡短段落，以最大化資訊密度，嚴格控制在被分配的 maxOutputTokens 限制內。
4. **開頭標記：** 摘要內容必須以明確的標籤『【SUMMARY】』開頭，以便後續模型識別這是背景而非新的提問。
5. **語言：** 摘要內容必須使用與使用者相同的語言。`

// summaryRequest is the synthetic user instruction appended after the
// turns to summarize. It folds any prior summary into the new one.
const summaryRequest = "將以上對話，包含先前的 SUMMARY，進行總結。"

// Summarizer compresses a conversation prefix into one synthetic turn via
// a single-shot (non-chat) LLM call.
type Summarizer struct {
	client *llm.Client
	cfg    llm.GenerationConfig
}

// NewSummarizer creates a summarizer using the given generation config
// (typically temperature 0).
func NewSummarizer(client *llm.Client, cfg llm.GenerationConfig) *Summarizer {
	return &Summarizer{client: client, cfg: cfg}
}

// Summarize produces a summary turn for the given turns, or ok=false when
// the provider returns no candidates. The input is never mutated; the
// caller splices the result into the new history.
func (s *Summarizer) Summarize(ctx context.Context, turns []dialogue.Turn) (dialogue.Turn, bool, error) {
	contents := make([]dialogue.Turn, 0, len(turns)+1)
	contents = append(contents, turns...)
	contents = append(contents, dialogue.NewTextTurn(dialogue.RoleUser, summaryRequest))

	candidate, ok, err := s.client.Generate(ctx, contents, summarySystemInstruction, s.cfg)
	if err != nil || !ok {
		return dialogue.Turn{}, false, err
	}

	// Normalize to a marker-prefixed model text turn so the placement
	// invariant holds even when the model omits the tag.
	text := candidate.Text()
	if !strings.HasPrefix(text, dialogue.SummaryMarker) {
		text = dialogue.SummaryMarker + text
	}
	return dialogue.NewTextTurn(dialogue.RoleModel, text), true, nil
}
