package openai

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/YiFeiChang/Smart-Farm-Steward/internal/llm"
	"github.com/YiFeiChang/Smart-Farm-Steward/pkg/dialogue"
	openai "github.com/sashabaranov/go-openai"
)

// toChatRequest maps a completion request onto the Chat Completions wire
// shape. Tool results travel as role "tool" messages tied to the call ID;
// model turns become assistant messages carrying their tool calls.
func toChatRequest(model string, req llm.CompletionRequest) openai.ChatCompletionRequest {
	var msgs []openai.ChatCompletionMessage

	if req.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}

	for _, turn := range req.Turns {
		msgs = append(msgs, turnToMessages(turn)...)
	}

	out := openai.ChatCompletionRequest{
		Model:    model,
		Messages: msgs,
	}

	if req.Config.MaxOutputTokens > 0 {
		out.MaxTokens = req.Config.MaxOutputTokens
	}
	if req.Config.Temperature != nil {
		t := float32(*req.Config.Temperature)
		if t == 0 {
			// The wire encoding drops a zero temperature entirely, which
			// the API reads as the default. Send the smallest non-zero
			// value instead to keep deterministic sampling.
			t = math.SmallestNonzeroFloat32
		}
		out.Temperature = t
	}

	if len(req.Tools) > 0 {
		tools := make([]openai.Tool, 0, len(req.Tools))
		for _, def := range req.Tools {
			tools = append(tools, openai.Tool{
				Type: openai.ToolTypeFunction,
				Function: &openai.FunctionDefinition{
					Name:        def.Name,
					Description: def.Description,
					Parameters:  def.Parameters,
				},
			})
		}
		out.Tools = tools
		out.ToolChoice = "auto"
	}

	return out
}

func turnToMessages(turn dialogue.Turn) []openai.ChatCompletionMessage {
	if turn.Role == dialogue.RoleModel {
		msg := openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleAssistant,
			Content: turn.Text(),
		}
		for _, part := range turn.Parts {
			if part.FunctionCall == nil {
				continue
			}
			args := string(part.FunctionCall.Args)
			if args == "" {
				args = "{}"
			}
			msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
				ID:   part.FunctionCall.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      part.FunctionCall.Name,
					Arguments: args,
				},
			})
		}
		return []openai.ChatCompletionMessage{msg}
	}

	// User turns may interleave plain text and tool results; each tool
	// result is its own message keyed by the originating call ID.
	var msgs []openai.ChatCompletionMessage
	var text strings.Builder
	for _, part := range turn.Parts {
		switch {
		case part.FunctionResponse != nil:
			msgs = append(msgs, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				ToolCallID: part.FunctionResponse.ID,
				Name:       part.FunctionResponse.Name,
				Content:    string(part.FunctionResponse.Response),
			})
		case part.Text != "":
			if text.Len() > 0 {
				text.WriteString("\n")
			}
			text.WriteString(part.Text)
		}
	}
	if text.Len() > 0 {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: text.String(),
		})
	}
	return msgs
}

// fromChatResponse maps the first choice back onto a model turn.
func fromChatResponse(resp openai.ChatCompletionResponse) llm.Completion {
	out := llm.Completion{
		Usage: dialogue.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}

	if len(resp.Choices) == 0 {
		out.Empty = true
		return out
	}

	msg := resp.Choices[0].Message
	turn := dialogue.Turn{Role: dialogue.RoleModel}
	if msg.Content != "" {
		turn.Parts = append(turn.Parts, dialogue.Part{Text: msg.Content})
	}
	for _, tc := range msg.ToolCalls {
		turn.Parts = append(turn.Parts, dialogue.Part{
			FunctionCall: &dialogue.FunctionCall{
				ID:   tc.ID,
				Name: tc.Function.Name,
				Args: json.RawMessage(tc.Function.Arguments),
			},
		})
	}

	out.Turn = turn
	return out
}
