// ABOUTME: Gemini REST client over net/http
// ABOUTME: Request/response DTOs and the generateContent call

package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Model names per call flavor. Strategy and long-form content use the pro
// model; search-grounded lookups and one-liners use flash.
const (
	ModelPro   = "gemini-3-pro-preview"
	ModelFlash = "gemini-3-flash-preview"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// ErrNoAPIKey is returned when no Gemini key is configured.
var ErrNoAPIKey = errors.New("genai: GEMINI_API_KEY not configured")

// Client calls the Gemini generateContent endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client with the given API key.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// NewClientFromEnv reads GEMINI_API_KEY. The key may be empty; calls then
// fail with ErrNoAPIKey so each call site can apply its own policy.
func NewClientFromEnv() *Client {
	return NewClient(os.Getenv("GEMINI_API_KEY"))
}

// SetBaseURL points the client at a different endpoint, for tests.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

type content struct {
	Parts []part `json:"parts"`
	Role  string `json:"role,omitempty"`
}

type part struct {
	Text string `json:"text"`
}

type tool struct {
	GoogleSearch *struct{} `json:"googleSearch,omitempty"`
}

type genConfig struct {
	Temperature      *float64        `json:"temperature,omitempty"`
	ResponseMIMEType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
}

type request struct {
	SystemInstruction *content   `json:"system_instruction,omitempty"`
	Contents          []content  `json:"contents"`
	GenerationConfig  *genConfig `json:"generationConfig,omitempty"`
	Tools             []tool     `json:"tools,omitempty"`
}

type response struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func temp(v float64) *float64 { return &v }

func userContent(text string) []content {
	return []content{{Role: "user", Parts: []part{{Text: text}}}}
}

func searchTools() []tool {
	return []tool{{GoogleSearch: &struct{}{}}}
}

// generate posts one request and returns the concatenated candidate text.
func (c *Client) generate(ctx context.Context, model string, req request) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var resp response
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.Error != nil {
		return "", fmt.Errorf("gemini error %d: %s", resp.Error.Code, resp.Error.Message)
	}
	if httpResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d", httpResp.StatusCode)
	}
	if len(resp.Candidates) == 0 {
		return "", nil
	}

	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}
