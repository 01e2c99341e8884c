package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"adlens/internal/config"
)

const maxTokens = 8192

// ErrEmptyResponse is returned when the provider answers without content.
var ErrEmptyResponse = errors.New("empty response from AI provider")

// Image is an inline picture sent along with a prompt.
type Image struct {
	MIME string
	Data []byte
}

// Schema asks the provider for JSON matching Definition.
type Schema struct {
	Name       string
	Definition jsonschema.Definition
}

// Request is a single multimodal prompt.
type Request struct {
	// Model overrides the client default when set.
	Model  string
	System string
	Prompt string
	Images []Image
	Schema *Schema
}

// Client talks to a generative AI provider.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
	// Transcribe turns an audio file into text.
	Transcribe(ctx context.Context, audioPath, language string) (string, error)
}

// OpenAI implements Client against any OpenAI-compatible endpoint.
type OpenAI struct {
	*openai.Client
	Model           string
	TranscribeModel string
}

// NewOpenAI builds a client from cfg. BaseURL selects the provider.
func NewOpenAI(cfg config.AIConfig) *OpenAI {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	oc.HTTPClient = &http.Client{Timeout: timeout}

	transcribe := cfg.TranscribeModel
	if transcribe == "" {
		transcribe = openai.Whisper1
	}
	return &OpenAI{Client: openai.NewClientWithConfig(oc), Model: cfg.Model, TranscribeModel: transcribe}
}

func (c *OpenAI) Generate(ctx context.Context, req Request) (string, error) {
	model := req.Model
	if model == "" {
		model = c.Model
	}

	var messages []openai.ChatCompletionMessage
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	user := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if len(req.Images) == 0 {
		user.Content = req.Prompt
	} else {
		parts := make([]openai.ChatMessagePart, 0, len(req.Images)+1)
		parts = append(parts, openai.ChatMessagePart{Type: openai.ChatMessagePartTypeText, Text: req.Prompt})
		for _, img := range req.Images {
			parts = append(parts, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    DataURL(img),
					Detail: openai.ImageURLDetailAuto,
				},
			})
		}
		user.MultiContent = parts
	}
	messages = append(messages, user)

	chatReq := openai.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
	}
	// Reasoning models (o1/o3/o4/gpt-5*) reject MaxTokens.
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		chatReq.MaxCompletionTokens = maxTokens
	} else {
		chatReq.MaxTokens = maxTokens
	}
	if req.Schema != nil {
		def := req.Schema.Definition
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   req.Schema.Name,
				Schema: &def,
			},
		}
	}

	resp, err := c.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAI) Transcribe(ctx context.Context, audioPath, language string) (string, error) {
	resp, err := c.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.TranscribeModel,
		FilePath: audioPath,
		Language: whisperLanguage(language),
	})
	if err != nil {
		return "", fmt.Errorf("create transcription: %w", err)
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// GenerateJSON runs req and decodes the answer into out.
func GenerateJSON(ctx context.Context, c Client, req Request, out any) error {
	raw, err := c.Generate(ctx, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(StripFences(raw)), out); err != nil {
		return fmt.Errorf("decode %s response: %w", schemaName(req), err)
	}
	return nil
}

// StripFences removes a markdown code fence some models wrap JSON in.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// DataURL encodes img inline.
func DataURL(img Image) string {
	mime := img.MIME
	if mime == "" {
		mime = "image/jpeg"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

// whisperLanguage reduces a locale such as zh-TW to the ISO-639-1 code whisper expects.
func whisperLanguage(lang string) string {
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		return strings.ToLower(lang[:i])
	}
	return strings.ToLower(lang)
}

func schemaName(req Request) string {
	if req.Schema != nil {
		return req.Schema.Name
	}
	return "text"
}
