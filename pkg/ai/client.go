package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const (
	defaultBaseURL = "https://api.groq.com/openai/v1"
	defaultModel   = "llama-3.3-70b-versatile"
)

// Message is a single chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Client talks to an OpenAI compatible chat completion API
type Client struct {
	HTTPClient *http.Client
	APIKey     string
	BaseURL    string
	Model      string
}

// NewClient creates a Client. Empty base url and model fall back to Groq.
func NewClient(apiKey string, baseURL string, model string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}

	return &Client{
		HTTPClient: &http.Client{Timeout: time.Second * 30},
		APIKey:     apiKey,
		BaseURL:    baseURL,
		Model:      model,
	}
}

// ChatCompletion sends a conversation and returns the assistant's reply
func (c *Client) ChatCompletion(ctx context.Context, messages []Message) (string, error) {
	body, err := json.Marshal(chatCompletionRequest{
		Model:       c.Model,
		Messages:    messages,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/chat/completions", c.BaseURL), bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.APIKey))

	response, err := c.HTTPClient.Do(request)
	if err != nil {
		return "", errors.Wrap(err, "could not reach the completion api")
	}
	defer func() { _ = response.Body.Close() }()

	responseBody, err := ioutil.ReadAll(response.Body)
	if err != nil {
		return "", err
	}

	completion := chatCompletionResponse{}
	err = json.Unmarshal(responseBody, &completion)
	if err != nil {
		return "", errors.Wrapf(err, "could not decode completion response (status %d)", response.StatusCode)
	}

	if response.StatusCode != http.StatusOK {
		if completion.Error != nil {
			return "", errors.Errorf("completion api error: %s", completion.Error.Message)
		}
		return "", errors.Errorf("completion api returned status %d", response.StatusCode)
	}

	if len(completion.Choices) == 0 {
		return "", errors.New("completion api returned no choices")
	}

	return completion.Choices[0].Message.Content, nil
}
