package annotate

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image/jpeg"
	"io"
	"net/http"
	"time"

	"github.com/pathwatch-data/hallway.report/internal/detect"
	"github.com/pathwatch-data/hallway.report/internal/vision"
)

const (
	defaultEndpoint = "https://openrouter.ai/api/v1/chat/completions"
	defaultModel    = "openai/vision-model"

	// requestTimeout bounds one batch call. A timeout is a batch
	// failure, never retried.
	requestTimeout = 120 * time.Second
)

// Client calls the annotation service's chat-completions endpoint.
type Client struct {
	HTTPClient *http.Client
	Endpoint   string
	Model      string
	APIKey     string
}

// NewClient creates a client for the given credential with the default
// endpoint, model and timeout.
func NewClient(apiKey string) *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: requestTimeout},
		Endpoint:   defaultEndpoint,
		Model:      defaultModel,
		APIKey:     apiKey,
	}
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	MaxTokens      int            `json:"max_tokens"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// AnalyzeBatch submits one batch of frames plus their per-frame model
// detections and returns the parsed structured analysis. Any transport
// failure, non-200 status or schema violation is an error; the caller
// decides whether to continue with later batches.
func (c *Client) AnalyzeBatch(ctx context.Context, frames []vision.Frame, startIndex, batchNumber int, detections [][]detect.Detection) (*BatchAnalysis, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("empty batch")
	}

	parts := []contentPart{{Type: "text", Text: userText(len(frames), startIndex)}}
	for _, f := range frames {
		data, err := encodeJPEG(f)
		if err != nil {
			return nil, fmt.Errorf("encode frame %d: %w", f.Index, err)
		}
		parts = append(parts, contentPart{
			Type:     "image_url",
			ImageURL: &imageURL{URL: "data:image/jpeg;base64," + data},
		})
	}

	body, err := json.Marshal(chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: buildSystemPrompt(batchNumber, startIndex, detections)},
			{Role: "user", Content: parts},
		},
		MaxTokens:      2000,
		Temperature:    0.1,
		ResponseFormat: responseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("HTTP-Referer", "http://localhost:3000")
	req.Header.Set("X-Title", "Hallway Safety Inspector")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("annotation service status %d: %s", resp.StatusCode, string(text))
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return nil, fmt.Errorf("response has no choices")
	}

	var analysis BatchAnalysis
	if err := json.Unmarshal([]byte(cr.Choices[0].Message.Content), &analysis); err != nil {
		return nil, fmt.Errorf("parse analysis payload: %w", err)
	}
	return &analysis, nil
}

func encodeJPEG(f vision.Frame) (string, error) {
	if f.Image == nil {
		return "", fmt.Errorf("frame has no image data")
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, f.Image, &jpeg.Options{Quality: 85}); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
