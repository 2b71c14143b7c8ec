package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"eldato-web/apperrors"
	"eldato-web/models"
	"eldato-web/utils"
)

// DefaultAssistantPrompt introduces the assistant to the model; the user's question is appended
const DefaultAssistantPrompt = `Eres el asistente de "El Dato", una plataforma de servicios entre vecinos.
Responde SIEMPRE en español, de forma clara y útil.`

const (
	// AssistantOfflineMessage is answered when no model key is configured
	AssistantOfflineMessage = "El asistente no está disponible en este momento."

	// AssistantFallbackMessage is answered when the model reply has no usable text
	AssistantFallbackMessage = "No entendí bien la respuesta del modelo 🤔."

	assistantErrorMessage = "The assistant could not answer right now. Please try again."
)

// AssistantService forwards questions to a Gemini-compatible generateContent endpoint
type AssistantService struct {
	apiKey  string
	baseURL string
	model   string
	prompt  string
	client  *http.Client
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type chatMessage struct {
	Content string `json:"content"`
}

// modelResponse covers the reply shapes the assistant understands:
// Gemini candidates, a bare message and OpenAI-style choices
type modelResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Message *chatMessage `json:"message"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// NewAssistantService creates the assistant. Without an API key it answers with AssistantOfflineMessage.
func NewAssistantService(apiKey, baseURL, model, prompt string, timeout time.Duration) *AssistantService {
	if apiKey == "" {
		log.Printf("⚠️ GEMINI_API_KEY not set, the assistant is disabled")
	}
	if strings.TrimSpace(prompt) == "" {
		prompt = DefaultAssistantPrompt
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AssistantService{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		prompt:  strings.TrimSpace(prompt),
		client:  &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether a model key is configured
func (as *AssistantService) Enabled() bool {
	return as.apiKey != ""
}

// Ask sends one question to the model and returns its answer as plain text
func (as *AssistantService) Ask(ctx context.Context, message string) (*models.AssistantReply, error) {
	q := models.AssistantQuestion{Message: strings.TrimSpace(message)}
	if err := utils.ValidateStruct(q, "Write a question for the assistant."); err != nil {
		return nil, err
	}
	if !as.Enabled() {
		return &models.AssistantReply{Text: AssistantOfflineMessage}, nil
	}

	body, err := as.generate(ctx, as.buildPrompt(q.Message))
	if err != nil {
		return nil, apperrors.Transient(err, assistantErrorMessage)
	}
	return &models.AssistantReply{Text: ReplyText(body)}, nil
}

func (as *AssistantService) buildPrompt(question string) string {
	return as.prompt + "\nPregunta del usuario: " + question
}

func (as *AssistantService) generate(ctx context.Context, prompt string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", as.baseURL, url.PathEscape(as.model), url.QueryEscape(as.apiKey))

	payload, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     0.7,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: 1024,
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := as.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model API returned %d", resp.StatusCode)
	}
	return body, nil
}

// ReplyText extracts the answer from a model reply: a JSON string, Gemini candidates,
// {message: {content}} or {choices: [{message: {content}}]}. Anything else yields AssistantFallbackMessage.
func ReplyText(body []byte) string {
	var plain string
	if err := json.Unmarshal(body, &plain); err == nil {
		if plain = strings.TrimSpace(plain); plain != "" {
			return plain
		}
		return AssistantFallbackMessage
	}

	var resp modelResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		log.Printf("⚠️ Unreadable assistant reply: %v", err)
		return AssistantFallbackMessage
	}

	if len(resp.Candidates) > 0 {
		var parts []string
		for _, p := range resp.Candidates[0].Content.Parts {
			if t := strings.TrimSpace(p.Text); t != "" {
				parts = append(parts, t)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "\n")
		}
	}
	if resp.Message != nil && strings.TrimSpace(resp.Message.Content) != "" {
		return strings.TrimSpace(resp.Message.Content)
	}
	if len(resp.Choices) > 0 && strings.TrimSpace(resp.Choices[0].Message.Content) != "" {
		return strings.TrimSpace(resp.Choices[0].Message.Content)
	}
	return AssistantFallbackMessage
}
