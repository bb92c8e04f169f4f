package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultAssistantBaseURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash-preview-05-20:generateContent"

// IntroMessage opens every assistant conversation.
const IntroMessage = "Hi there! I’m Raksha Mitra, your guide to monsoon safety. Let’s make sure you’re ready for anything the rain brings!"

const systemPrompt = "You are Raksha Mitra, a friendly and reassuring AI assistant for the VarshaRaksha app. Your purpose is to provide clear, simple, and practical advice on monsoon safety in India. Always be encouraging and helpful. Use markdown formatting (bolding for emphasis, and unordered lists for steps or items) to make your answers easy to read. Do not answer questions outside of this safety context."

const (
	replyNotConfigured = "Sorry, the AI assistant is not configured correctly."
	replyEmpty         = "Sorry, I couldn't process that. Please try again."
	replyUnavailable   = "Sorry, I'm having trouble connecting. Please check your connection and try again."
)

type AssistantClient struct {
	// BaseURL is overridable for tests.
	BaseURL string

	apiKey     string
	httpClient *http.Client
}

func NewAssistantClient(apiKey string) *AssistantClient {
	return &AssistantClient{
		BaseURL:    defaultAssistantBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type generateRequest struct {
	Contents          []content `json:"contents"`
	SystemInstruction content   `json:"systemInstruction"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Reply asks the model for an answer to one user message. It never returns
// an error: any failure degrades to a fixed fallback reply carried as a
// normal bot message.
func (c *AssistantClient) Reply(ctx context.Context, message string) string {
	if c.apiKey == "" {
		return replyNotConfigured
	}

	body, err := json.Marshal(generateRequest{
		Contents:          []content{{Parts: []part{{Text: message}}}},
		SystemInstruction: content{Parts: []part{{Text: systemPrompt}}},
	})
	if err != nil {
		return replyUnavailable
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s?key=%s", c.BaseURL, c.apiKey), bytes.NewReader(body))
	if err != nil {
		return replyUnavailable
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return replyUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return replyUnavailable
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return replyUnavailable
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return replyEmpty
	}
	text := result.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return replyEmpty
	}
	return text
}
