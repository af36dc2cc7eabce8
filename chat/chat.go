// Package chat invokes an Azure OpenAI chat-completions deployment. The
// wire format is spoken directly over net/http; no vendor SDK.
//
// Invocation input is the JSON encoding of a dialogue: a list of
// {"role": ..., "content": ...} elements where role is one of "system",
// "assistant" or "user". Malformed input and transport failures propagate to
// the caller as errors — unlike the bounded query adapters, this adapter
// does not report failure as data.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/genieflow/invoke"
	"github.com/genieflow/invoke/logging"
)

// Registry names of the two chat variants.
const (
	TypeName     = "azure_openai_chat"
	TypeNameJSON = "azure_openai_chat_json"
)

// EnvPrefix is the environment fallback prefix, e.g. AZURE_OPENAI_API_KEY.
const EnvPrefix = "AZURE_OPENAI"

const defaultTimeout = 120 * time.Second

var validRoles = map[string]bool{
	"system":    true,
	"assistant": true,
	"user":      true,
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// parseDialogue validates the invocation input. Every element must carry a
// known role and a content value.
func parseDialogue(input string) ([]message, error) {
	var raw []map[string]any
	if err := json.Unmarshal([]byte(input), &raw); err != nil {
		return nil, fmt.Errorf("invoker input cannot be parsed, is it a JSON list?")
	}

	dialogue := make([]message, 0, len(raw))
	for i, element := range raw {
		role, ok := element["role"].(string)
		if !ok {
			return nil, fmt.Errorf("dialogue element %d: not provided a role", i)
		}
		if !validRoles[role] {
			return nil, fmt.Errorf("dialogue element %d: unknown chat role %q", i, role)
		}
		content, ok := element["content"].(string)
		if !ok {
			return nil, fmt.Errorf("dialogue element %d: not provided content", i)
		}
		dialogue = append(dialogue, message{Role: role, Content: content})
	}
	return dialogue, nil
}

// Invoker calls one chat-completions deployment.
type Invoker struct {
	client     *http.Client
	endpoint   string
	apiKey     string
	apiVersion string
	deployment string
	jsonMode   bool
}

// New constructs the plain chat invoker. Keys (each with an AZURE_OPENAI_*
// environment alternative): endpoint, api_key, api_version, deployment_name,
// timeout (seconds, default 120).
func New(cfg invoke.Config) (invoke.Invoker, error) {
	return newInvoker(cfg, false)
}

// NewJSON constructs the JSON-mode variant: the deployment is asked for a
// json_object response, and the prompt must mention the word "json" (the
// model may otherwise stream whitespace until it hits the token limit).
func NewJSON(cfg invoke.Config) (invoke.Invoker, error) {
	return newInvoker(cfg, true)
}

func newInvoker(cfg invoke.Config, jsonMode bool) (invoke.Invoker, error) {
	r := invoke.NewConfigReader(cfg, EnvPrefix)

	endpoint, err := r.Require("endpoint")
	if err != nil {
		return nil, err
	}
	apiKey, err := r.Require("api_key")
	if err != nil {
		return nil, err
	}
	deployment, err := r.Require("deployment_name")
	if err != nil {
		return nil, err
	}

	timeout := defaultTimeout
	if seconds, ok := r.Float("timeout"); ok && seconds > 0 {
		timeout = time.Duration(seconds * float64(time.Second))
	}

	return &Invoker{
		client:     &http.Client{Timeout: timeout},
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiKey:     apiKey,
		apiVersion: r.String("api_version", "2024-06-01"),
		deployment: deployment,
		jsonMode:   jsonMode,
	}, nil
}

type completionRequest struct {
	Messages       []message       `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Invoke sends the dialogue to the deployment and returns the first choice's
// content.
func (c *Invoker) Invoke(ctx context.Context, input string) (string, error) {
	if c.jsonMode && !strings.Contains(strings.ToLower(input), "json") {
		return "", fmt.Errorf("json-mode prompt needs to contain the word \"json\"")
	}

	dialogue, err := parseDialogue(input)
	if err != nil {
		return "", err
	}

	promptHash := logging.Hash(input)
	logging.Op().Info("invoking chat completion",
		"deployment", c.deployment, "prompt_hash", promptHash)

	reqBody := completionRequest{Messages: dialogue}
	if c.jsonMode {
		reqBody.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		c.endpoint, c.deployment, c.apiVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read chat response: %w", err)
	}

	var completion completionResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return "", fmt.Errorf("decode chat response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		if completion.Error != nil {
			return "", fmt.Errorf("chat completion failed: %s", completion.Error.Message)
		}
		return "", fmt.Errorf("chat completion failed with status %d", resp.StatusCode)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	logging.Op().Info("chat completion finished",
		"prompt_hash", promptHash,
		"result_hash", logging.Hash(completion.Choices[0].Message.Content),
	)
	return completion.Choices[0].Message.Content, nil
}
