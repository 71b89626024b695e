package aiprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kaixxz/MediNote/pkg/httpclient"
)

const (
	MessagesEndpoint = "/v1/messages"
	APIVersion       = "2023-06-01"
)

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Model   string         `json:"model"`
	Content []contentBlock `json:"content"`
	Usage   struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type Anthropic struct {
	cfg    Config
	client httpclient.HTTPClient
}

func NewAnthropic(cfg Config, client httpclient.HTTPClient) *Anthropic {
	return &Anthropic{cfg: cfg, client: client}
}

func (a *Anthropic) Complete(ctx context.Context, req Request) (Response, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(messagesRequest{
		Model:     a.cfg.Model,
		MaxTokens: a.cfg.MaxTokens,
		System:    req.System,
		Messages:  []message{{Role: "user", Content: req.Prompt}},
	}); err != nil {
		return Response{}, fmt.Errorf("encoding error: %w", err)
	}

	headers := map[string]string{
		"Content-Type":      "application/json",
		"x-api-key":         a.cfg.APIKey,
		"anthropic-version": APIVersion,
	}

	resp, err := a.client.Post(ctx, strings.TrimRight(a.cfg.BaseURL, "/")+MessagesEndpoint, &buf, headers)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return Response{}, ErrTimeout
		}

		return Response{}, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Response{}, MapStatusToError(resp.StatusCode)
	}

	var res messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return Response{}, fmt.Errorf("%w: decoding error: %v", ErrServerError, err)
	}

	for _, block := range res.Content {
		if block.Type == "text" && block.Text != "" {
			return Response{
				Text:         block.Text,
				Model:        res.Model,
				InputTokens:  res.Usage.InputTokens,
				OutputTokens: res.Usage.OutputTokens,
			}, nil
		}
	}

	return Response{}, ErrEmptyResponse
}
