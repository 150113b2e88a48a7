// Package ml is the HTTP client for the external inference sidecar that
// hosts text extraction, summarization, key-point extraction and
// question answering. The core only consumes plain text in and out; the
// models themselves are opaque.
package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Default model pair mirroring the deployment: a distilbart primary and
// a cheaper t5 fallback used when the primary fails or times out.
const (
	DefaultPrimaryModel  = "sshleifer/distilbart-cnn-12-6"
	DefaultFallbackModel = "t5-small"
	DefaultQAModel       = "distilbert-base-uncased-distilled-squad"
)

// Client talks JSON to the inference service with bounded timeouts.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	primaryModel  string
	fallbackModel string
	qaModel       string
	log           *logrus.Entry
}

// Option configures a Client.
type Option func(*Client)

func WithModels(primary, fallback string) Option {
	return func(c *Client) {
		c.primaryModel = primary
		c.fallbackModel = fallback
	}
}

func WithQAModel(model string) Option {
	return func(c *Client) { c.qaModel = model }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		panic("base URL cannot be empty for ml.Client")
	}
	c := &Client{
		baseURL:       baseURL,
		httpClient:    &http.Client{Timeout: 60 * time.Second},
		primaryModel:  DefaultPrimaryModel,
		fallbackModel: DefaultFallbackModel,
		qaModel:       DefaultQAModel,
		log:           logrus.WithField("component", "ml_client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type extractRequest struct {
	File string `json:"file"`
}

type extractResponse struct {
	Text string `json:"text"`
}

// ExtractText asks the sidecar to extract plain text from a stored PDF.
// The sidecar falls back to OCR and page captioning internally; the
// caller only sees the resulting text.
func (c *Client) ExtractText(ctx context.Context, storedName string) (string, error) {
	var resp extractResponse
	if err := c.post(ctx, "/extract", extractRequest{File: storedName}, &resp); err != nil {
		return "", fmt.Errorf("ml: extract text from %s: %w", storedName, err)
	}
	return resp.Text, nil
}

type summarizeRequest struct {
	Model     string `json:"model"`
	Text      string `json:"text"`
	MaxLength int    `json:"max_length"`
	MinLength int    `json:"min_length"`
}

type summarizeResponse struct {
	SummaryText string `json:"summary_text"`
}

// Summarize runs the primary model and, on any failure, retries once
// with the fallback model before giving up.
func (c *Client) Summarize(ctx context.Context, text string, maxLen, minLen int) (string, error) {
	var resp summarizeResponse
	err := c.post(ctx, "/summarize", summarizeRequest{
		Model:     c.primaryModel,
		Text:      text,
		MaxLength: maxLen,
		MinLength: minLen,
	}, &resp)
	if err == nil {
		return resp.SummaryText, nil
	}
	c.log.WithError(err).WithField("model", c.primaryModel).
		Warn("Primary summarizer failed, falling back")

	err = c.post(ctx, "/summarize", summarizeRequest{
		Model:     c.fallbackModel,
		Text:      text,
		MaxLength: maxLen,
		MinLength: minLen,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("ml: summarize with fallback %s: %w", c.fallbackModel, err)
	}
	return resp.SummaryText, nil
}

type keyPointsRequest struct {
	Text string `json:"text"`
	TopN int    `json:"top_n"`
}

type keyPointsResponse struct {
	KeyPoints []string `json:"key_points"`
}

// ExtractKeyPoints returns up to n key phrases in relevance order.
func (c *Client) ExtractKeyPoints(ctx context.Context, text string, n int) ([]string, error) {
	var resp keyPointsResponse
	if err := c.post(ctx, "/keypoints", keyPointsRequest{Text: text, TopN: n}, &resp); err != nil {
		return nil, fmt.Errorf("ml: extract key points: %w", err)
	}
	return resp.KeyPoints, nil
}

type answerRequest struct {
	Model    string `json:"model"`
	Question string `json:"question"`
	Context  string `json:"context"`
}

type answerResponse struct {
	Answer string `json:"answer"`
}

// Answer runs extractive question answering over the given context.
func (c *Client) Answer(ctx context.Context, question, contextText string) (string, error) {
	var resp answerResponse
	err := c.post(ctx, "/answer", answerRequest{
		Model:    c.qaModel,
		Question: question,
		Context:  contextText,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("ml: answer question: %w", err)
	}
	return resp.Answer, nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("inference service returned %d: %s", resp.StatusCode, snippet)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
