package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// CurrentTime reports the current UTC time. The model converts it to the
// user's local time before answering; the instruction in the payload
// reminds it to do so.
type CurrentTime struct {
	// Now allows tests to pin the clock. Nil means time.Now.
	Now func() time.Time
}

// Name implements Tool.
func (CurrentTime) Name() string { return "get_current_utc_time" }

// Description implements Tool.
func (CurrentTime) Description() string { return "取得當前的 UTC（世界協調時間）。" }

// Parameters implements Tool.
func (CurrentTime) Parameters() json.RawMessage {
	return json.RawMessage(`{"type":"object","properties":{},"required":[]}`)
}

// Execute implements Tool. It cannot fail.
func (c CurrentTime) Execute(_ context.Context, _ json.RawMessage) Output {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return Output{
		Result: fmt.Sprintf("現在的 UTC 時間是 %s，回覆給使用者時直接轉換成他的地區時間。",
			now().UTC().Format(time.RFC3339)),
	}
}
