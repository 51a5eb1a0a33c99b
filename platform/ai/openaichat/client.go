// Package openaichat provides a minimal client for OpenAI-compatible
// chat-completion APIs with function calling.
// This is part of the platform layer and contains no business logic.
package openaichat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"
)

// Config holds connection settings for the chat-completions endpoint.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
}

// Client calls an OpenAI-compatible /chat/completions endpoint.
type Client struct {
	config Config
	client *http.Client
}

// NewClient creates a chat-completions client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	return &Client{
		config: cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.config.Model
}

// Message is a single chat message on the wire.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	Name       string     `json:"name,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolCall is a function invocation requested by the model.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// FunctionCall carries the function name and its raw JSON arguments.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// SystemMessage builds a system-role message.
func SystemMessage(content string) Message {
	return Message{Role: "system", Content: content}
}

// UserMessage builds a user-role message.
func UserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}

// AssistantMessage builds an assistant-role message.
func AssistantMessage(content string) Message {
	return Message{Role: "assistant", Content: content}
}

// ToolResultMessage serializes a tool result as a tool-role message.
func ToolResultMessage(callID, name string, result interface{}) Message {
	payload, err := json.Marshal(result)
	if err != nil {
		payload = []byte(`{"error":"failed to serialize tool result"}`)
	}
	return Message{
		Role:       "tool",
		ToolCallID: callID,
		Name:       name,
		Content:    string(payload),
	}
}

// Request is one chat-completion exchange. When Tools is non-empty the
// request is sent with tool_choice "auto"; otherwise no tools are offered,
// which forces a plain natural-language reply.
type Request struct {
	Messages []Message
	Tools    []*genai.FunctionDeclaration
}

type toolDef struct {
	Type     string      `json:"type"`
	Function toolDefFunc `json:"function"`
}

type toolDefFunc struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Parameters  interface{} `json:"parameters,omitempty"`
}

type chatPayload struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Tools       []toolDef `json:"tools,omitempty"`
	ToolChoice  string    `json:"tool_choice,omitempty"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error interface{} `json:"error"`
}

// ChatCompletion performs one request/response round trip.
func (c *Client) ChatCompletion(ctx context.Context, req Request) (Message, error) {
	payload := chatPayload{
		Model:       c.config.Model,
		Messages:    req.Messages,
		Tools:       convertTools(req.Tools),
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
	}
	if len(payload.Tools) > 0 {
		payload.ToolChoice = "auto"
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("marshal chat payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return Message{}, fmt.Errorf("build chat request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return Message{}, err
	}
	defer resp.Body.Close()

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Message{}, fmt.Errorf("failed to decode chat response: %v", err)
	}
	if result.Error != nil {
		return Message{}, fmt.Errorf("chat api error: %v", result.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return Message{}, fmt.Errorf("chat api error: status %d", resp.StatusCode)
	}
	if len(result.Choices) == 0 {
		return Message{}, fmt.Errorf("chat api error: empty choices")
	}

	return result.Choices[0].Message, nil
}

// convertTools maps genai function declarations to the wire tool format.
func convertTools(decls []*genai.FunctionDeclaration) []toolDef {
	if len(decls) == 0 {
		return nil
	}

	tools := make([]toolDef, 0, len(decls))
	for _, decl := range decls {
		if decl == nil || decl.Name == "" {
			continue
		}
		var params interface{}
		switch {
		case decl.ParametersJsonSchema != nil:
			params = decl.ParametersJsonSchema
		case decl.Parameters != nil:
			params = decl.Parameters
		}
		tools = append(tools, toolDef{
			Type: "function",
			Function: toolDefFunc{
				Name:        decl.Name,
				Description: decl.Description,
				Parameters:  params,
			},
		})
	}

	return tools
}
