package providers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"strings"
	"time"

	"github.com/jjanczyszyn/cards/internal/ocr"
)

const (
	anthropicEndpoint = "https://api.anthropic.com/v1/messages"
	anthropicVersion  = "2023-06-01"
	anthropicModel    = "claude-sonnet-4-20250514"
)

// anthropicClient is a minimal Messages API client shared by the
// Anthropic-backed providers.
type anthropicClient struct {
	apiKey string
	http   *http.Client
}

func newAnthropicClient(apiKey string) *anthropicClient {
	return &anthropicClient{
		apiKey: apiKey,
		http:   &http.Client{Timeout: 120 * time.Second},
	}
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type anthropicImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicContentBlock struct {
	Type   string                `json:"type"`
	Text   string                `json:"text,omitempty"`
	Source *anthropicImageSource `json:"source,omitempty"`
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// complete sends one user message and returns the first text block of the
// reply.
func (c *anthropicClient) complete(maxTokens int, content any) (string, error) {
	payload, err := json.Marshal(anthropicRequest{
		Model:     anthropicModel,
		MaxTokens: maxTokens,
		Messages:  []anthropicMessage{{Role: "user", Content: content}},
	})
	if err != nil {
		return "", fmt.Errorf("error encoding request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, anthropicEndpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("error calling Anthropic API: %w", err)
	}
	defer resp.Body.Close()

	var decoded anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("error decoding Anthropic response: %w", err)
	}
	if decoded.Error != nil {
		return "", fmt.Errorf("Anthropic API error: %s", decoded.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Anthropic API returned status %d", resp.StatusCode)
	}
	if len(decoded.Content) == 0 {
		return "", fmt.Errorf("Anthropic API returned no content")
	}
	return decoded.Content[0].Text, nil
}

// AnthropicOCR reads card text from crops through the vision API.
type AnthropicOCR struct {
	client *anthropicClient
}

// Recognize implements ocr.Provider.
func (p *AnthropicOCR) Recognize(img image.Image) (ocr.Result, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return ocr.Result{}, fmt.Errorf("error encoding crop: %w", err)
	}
	b64 := base64.StdEncoding.EncodeToString(buf.Bytes())

	content := []anthropicContentBlock{
		{
			Type: "image",
			Source: &anthropicImageSource{
				Type:      "base64",
				MediaType: "image/png",
				Data:      b64,
			},
		},
		{
			Type: "text",
			Text: "Read the text on this card. Return only the card text, nothing else. " +
				"If there is no readable text, return EMPTY.",
		},
	}

	text, err := p.client.complete(512, content)
	if err != nil {
		return ocr.Result{}, err
	}
	text = strings.TrimSpace(text)
	if text == "EMPTY" {
		text = ""
	}
	return ocr.Result{Text: text, Confidence: 0.9}, nil
}

// AnthropicTranslator translates between English and Spanish.
type AnthropicTranslator struct {
	client *anthropicClient
}

// Translate implements translation.Translator.
func (p *AnthropicTranslator) Translate(text, targetLang string) (string, error) {
	langName := "English"
	if targetLang == "es" {
		langName = "Spanish"
	}
	prompt := fmt.Sprintf("Translate the following text to %s. Return only the translated text, nothing else.\n\n%s",
		langName, text)
	return p.client.complete(1024, prompt)
}

// AnthropicAboutGenerator writes short deck descriptions from sample card
// texts.
type AnthropicAboutGenerator struct {
	client *anthropicClient
}

// Generate implements about.Generator.
func (p *AnthropicAboutGenerator) Generate(cardTexts []string, language string) (string, error) {
	langName := "English"
	if language == "es" {
		langName = "Spanish"
	}
	sample := cardTexts
	if len(sample) > 10 {
		sample = sample[:10]
	}
	prompt := fmt.Sprintf("Based on these sample cards from a deck, write a brief 1-2 sentence description of this deck in %s. Cards:\n\n%s",
		langName, strings.Join(sample, "\n"))
	text, err := p.client.complete(256, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
