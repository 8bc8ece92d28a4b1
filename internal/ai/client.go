package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/khrees2412/hireflow/internal/config"
)

// Generator turns a prompt into text
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

const (
	defaultOpenAIURL    = "https://api.openai.com"
	defaultAnthropicURL = "https://api.anthropic.com"
	defaultOllamaURL    = "http://localhost:11434"
	defaultLMStudioURL  = "http://localhost:1234"
)

// Client talks to the HTTP-based providers: openai, anthropic, ollama and lmstudio
type Client struct {
	provider     string
	model        string
	openAIKey    string
	anthropicKey string
	baseURL      string
	http         *http.Client
}

// NewClient builds a client for the configured provider
func NewClient(cfg config.OracleConfig, httpClient *http.Client) (*Client, error) {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	c := &Client{
		provider:     strings.ToLower(strings.TrimSpace(cfg.Provider)),
		model:        strings.TrimSpace(cfg.Model),
		openAIKey:    cfg.OpenAIKey,
		anthropicKey: cfg.AnthropicKey,
		http:         httpClient,
	}

	switch c.provider {
	case "openai":
		if c.openAIKey == "" {
			return nil, errors.New("OpenAI API key not configured. Run: hireflow config set oracle.openai_key YOUR_KEY")
		}
		c.baseURL = defaultOpenAIURL
		if c.model == "" {
			c.model = "gpt-4"
		}
	case "anthropic":
		if c.anthropicKey == "" {
			return nil, errors.New("Anthropic API key not configured. Run: hireflow config set oracle.anthropic_key YOUR_KEY")
		}
		c.baseURL = defaultAnthropicURL
		if c.model == "" {
			c.model = "claude-3-5-sonnet-20241022"
		}
	case "ollama":
		c.baseURL = orDefault(cfg.OllamaURL, defaultOllamaURL)
		if c.model == "" {
			c.model = "llama3.2"
		}
	case "lmstudio":
		c.baseURL = orDefault(cfg.LMStudioURL, defaultLMStudioURL)
		if c.model == "" {
			c.model = "local-model"
		}
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.Provider)
	}
	return c, nil
}

// WithBaseURL points the client at another endpoint
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = strings.TrimRight(url, "/")
	return c
}

func (c *Client) Provider() string {
	return c.provider
}

// GenerateContent sends the prompt to the provider and returns the text reply
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	switch c.provider {
	case "openai":
		return c.chatCompletion(ctx, "OpenAI", prompt, map[string]string{"Authorization": "Bearer " + c.openAIKey})
	case "anthropic":
		return c.anthropicMessage(ctx, prompt)
	case "ollama":
		return c.ollamaGenerate(ctx, prompt)
	case "lmstudio":
		return c.chatCompletion(ctx, "LMStudio", prompt, nil)
	default:
		return "", fmt.Errorf("unsupported AI provider: %s", c.provider)
	}
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

// chatCompletion serves the OpenAI-compatible endpoints
func (c *Client) chatCompletion(ctx context.Context, name, prompt string, headers map[string]string) (string, error) {
	reqBody := map[string]interface{}{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": 0.1,
		"max_tokens":  1000,
	}

	var out chatResponse
	if err := c.post(ctx, name, c.baseURL+"/v1/chat/completions", reqBody, headers, &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("unexpected response format from %s", name)
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

func (c *Client) anthropicMessage(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"model":      c.model,
		"max_tokens": 1024,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}
	headers := map[string]string{
		"x-api-key":         c.anthropicKey,
		"anthropic-version": "2023-06-01",
	}

	var out anthropicResponse
	if err := c.post(ctx, "Anthropic", c.baseURL+"/v1/messages", reqBody, headers, &out); err != nil {
		return "", err
	}
	if len(out.Content) == 0 {
		return "", fmt.Errorf("unexpected response format from Anthropic")
	}
	return strings.TrimSpace(out.Content[0].Text), nil
}

func (c *Client) ollamaGenerate(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"model":  c.model,
		"prompt": prompt,
		"stream": false,
	}

	var out ollamaResponse
	if err := c.post(ctx, "Ollama", c.baseURL+"/api/generate", reqBody, nil, &out); err != nil {
		return "", err
	}
	if out.Response == "" {
		return "", fmt.Errorf("unexpected response format from Ollama")
	}
	return strings.TrimSpace(out.Response), nil
}

func (c *Client) post(ctx context.Context, name, url string, reqBody interface{}, headers map[string]string, out interface{}) error {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s API error: %s", name, string(body))
	}

	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("decode %s response: %w", name, err)
	}
	return decode(result, out)
}

// decode maps a loosely typed payload onto a struct using its json tags
func decode(input interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

func orDefault(value, fallback string) string {
	value = strings.TrimRight(strings.TrimSpace(value), "/")
	if value == "" {
		return fallback
	}
	return value
}
