package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messagesRequest is the Messages API body. Bedrock sets AnthropicVersion in the body and
// omits Model; the direct API does the reverse.
type messagesRequest struct {
	AnthropicVersion string    `json:"anthropic_version,omitempty"`
	Model            string    `json:"model,omitempty"`
	MaxTokens        int       `json:"max_tokens"`
	Messages         []message `json:"messages"`
	Temperature      float64   `json:"temperature"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type messagesResponse struct {
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
}

type errorEnvelope struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func newMessagesRequest(prompt string, maxTokens int, temperature float64) messagesRequest {
	return messagesRequest{
		MaxTokens:   maxTokens,
		Messages:    []message{{Role: "user", Content: prompt}},
		Temperature: temperature,
	}
}

// firstText decodes a Messages response and returns its first text block.
func firstText(body []byte) (string, error) {
	var resp messagesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to decode model response: %w", err)
	}
	for _, block := range resp.Content {
		if block.Type == "" || block.Type == "text" {
			if strings.TrimSpace(block.Text) == "" {
				continue
			}
			return block.Text, nil
		}
	}
	return "", &UpstreamError{Name: "EmptyResponse", Message: "model returned no text content"}
}
