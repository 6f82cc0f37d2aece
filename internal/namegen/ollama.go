package namegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// DefaultEndpoint is the standard local Ollama address.
const DefaultEndpoint = "http://localhost:11434"

// nameSchema constrains the model response to {"name": "..."} so a
// candidate can be parsed without scraping prose.
var nameSchema = json.RawMessage(`{"type":"object","properties":{"name":{"type":"string"}},"required":["name"]}`)

// Ollama talks to an Ollama server over its chat API.
type Ollama struct {
	endpoint    string
	renameModel string
	ocrModel    string
	client      *http.Client
	timeout     time.Duration
}

// NewOllama creates a client. Empty endpoint falls back to the local
// default; timeout bounds each chat call.
func NewOllama(endpoint, renameModel, ocrModel string, timeout time.Duration) *Ollama {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Ollama{
		endpoint:    endpoint,
		renameModel: renameModel,
		ocrModel:    ocrModel,
		client:      &http.Client{},
		timeout:     timeout,
	}
}

// Available pings the server's tag listing to check it is reachable.
func (o *Ollama) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.endpoint+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// NameFromText proposes a filename for textual content.
func (o *Ollama) NameFromText(ctx context.Context, content, contentType string) (string, error) {
	reply, err := o.chat(ctx, o.renameModel, textPrompt(content, contentType), nil, nameSchema)
	if err != nil {
		return "", err
	}
	return parseCandidate(reply)
}

// NameFromImage proposes a filename by letting the model describe the
// image directly; no local extraction happens for images.
func (o *Ollama) NameFromImage(ctx context.Context, path string) (string, error) {
	img, err := encodeFile(path)
	if err != nil {
		return "", err
	}
	reply, err := o.chat(ctx, o.renameModel, imagePrompt(), []string{img}, nameSchema)
	if err != nil {
		return "", err
	}
	return parseCandidate(reply)
}

// ExtractText runs the OCR model over the file, for scanned documents
// whose text layer is empty.
func (o *Ollama) ExtractText(ctx context.Context, path string) (string, error) {
	img, err := encodeFile(path)
	if err != nil {
		return "", err
	}
	reply, err := o.chat(ctx, o.ocrModel, ocrPrompt, []string{img}, nil)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(reply)
	if text == "" {
		return "", fmt.Errorf("namegen: ocr returned no text")
	}
	return text, nil
}

type chatRequest struct {
	Model    string          `json:"model"`
	Messages []chatMessage   `json:"messages"`
	Stream   bool            `json:"stream"`
	Format   json.RawMessage `json:"format,omitempty"`
}

type chatMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Error string `json:"error"`
}

// chat performs one non-streaming chat call and returns the raw
// message content.
func (o *Ollama) chat(ctx context.Context, model, prompt string, images []string, format json.RawMessage) (string, error) {
	if model == "" {
		return "", fmt.Errorf("namegen: no model configured")
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	body, err := json.Marshal(chatRequest{
		Model:    model,
		Messages: []chatMessage{{Role: "user", Content: prompt, Images: images}},
		Stream:   false,
		Format:   format,
	})
	if err != nil {
		return "", fmt.Errorf("namegen: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("namegen: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("namegen: chat call: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("namegen: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("namegen: chat status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var cr chatResponse
	if err := json.Unmarshal(raw, &cr); err != nil {
		return "", fmt.Errorf("namegen: decode response: %w", err)
	}
	if cr.Error != "" {
		return "", fmt.Errorf("namegen: backend error: %s", cr.Error)
	}
	return cr.Message.Content, nil
}

// parseCandidate decodes the schema-constrained {"name": ...} reply.
func parseCandidate(reply string) (string, error) {
	var out struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal([]byte(reply), &out); err != nil {
		return "", fmt.Errorf("namegen: malformed candidate %q: %w", reply, err)
	}
	if strings.TrimSpace(out.Name) == "" {
		return "", fmt.Errorf("namegen: empty candidate")
	}
	return out.Name, nil
}

// encodeFile base64-encodes a file for the images field.
func encodeFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("namegen: read %s: %w", path, err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
