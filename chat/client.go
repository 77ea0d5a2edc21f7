package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/electr1fy0/smartnotes/notes"
)

const (
	DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel    = "gemini-2.5-flash-lite"
	DefaultContext  = 5
)

// Asker answers one chat turn.
type Asker interface {
	Ask(ctx context.Context, message, noteContext string) Result
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents          []content `json:"contents"`
	SystemInstruction content   `json:"systemInstruction"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// BuildContext flattens the first n notes into the system instruction text.
// n of zero sends no notes.
func BuildContext(ns []notes.Note, n int) string {
	n = max(n, 0)
	if n > len(ns) {
		n = len(ns)
	}
	parts := make([]string, 0, n)
	for _, note := range ns[:n] {
		parts = append(parts, fmt.Sprintf("Title: %s\nContent: %s", note.Title, note.Content))
	}
	return strings.Join(parts, "\n---\n")
}

// Client calls the Gemini generateContent endpoint. Requests are issued
// once, with no retry and no client-side timeout.
type Client struct {
	HTTP     *http.Client
	Endpoint string
	Model    string
	APIKey   string
	Log      zerolog.Logger
}

func NewClient(apiKey, model, endpoint string, log zerolog.Logger) *Client {
	if model == "" {
		model = DefaultModel
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		HTTP:     &http.Client{},
		Endpoint: strings.TrimRight(endpoint, "/"),
		Model:    model,
		APIKey:   apiKey,
		Log:      log,
	}
}

func (c *Client) url() string {
	return fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.Endpoint, c.Model, url.QueryEscape(c.APIKey))
}

func (c *Client) Ask(ctx context.Context, message, noteContext string) Result {
	if c.APIKey == "" {
		return Result{Failure: FailureNoKey}
	}

	body, err := json.Marshal(generateRequest{
		Contents:          []content{{Parts: []part{{Text: message}}}},
		SystemInstruction: content{Parts: []part{{Text: "Assistant context: " + noteContext}}},
	})
	if err != nil {
		return Result{Failure: FailureNetwork}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(), bytes.NewReader(body))
	if err != nil {
		c.Log.Error().Err(err).Msg("build chat request")
		return Result{Failure: FailureNetwork}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.Log.Warn().Err(err).Msg("chat request failed")
		return Result{Failure: FailureNetwork}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.Log.Warn().Err(err).Msg("read chat response")
		return Result{Failure: FailureNetwork}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		r := Classify(resp.StatusCode, data)
		c.Log.Warn().Int("status", resp.StatusCode).Str("reply", r.Text()).Msg("chat request rejected")
		return r
	}

	var gr generateResponse
	if err := json.Unmarshal(data, &gr); err != nil {
		c.Log.Warn().Err(err).Msg("decode chat response")
		return Result{Failure: FailureNetwork}
	}
	return Result{Reply: firstText(gr)}
}

// Classify maps a non-success response to a failure result.
func Classify(status int, body []byte) Result {
	switch status {
	case http.StatusTooManyRequests:
		return Result{Failure: FailureRateLimited, Status: status}
	case http.StatusForbidden:
		return Result{Failure: FailureForbidden, Status: status}
	}

	if !json.Valid(body) {
		return Result{Failure: FailureHTTP, Status: status}
	}
	// any JSON body counts as an API error; the message is optional
	var er errorResponse
	_ = json.Unmarshal(body, &er)
	msg := er.Error.Message
	if msg == "" {
		msg = strconv.Itoa(status)
	}
	return Result{Failure: FailureAPI, Status: status, Message: msg}
}

func firstText(gr generateResponse) string {
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return ""
	}
	return gr.Candidates[0].Content.Parts[0].Text
}
