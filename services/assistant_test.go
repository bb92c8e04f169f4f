package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssistantReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "Is it safe to drive?", req.Contents[0].Parts[0].Text)
		assert.NotEmpty(t, req.SystemInstruction.Parts)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": "**Avoid** waterlogged roads."}]}}]}`))
	}))
	defer server.Close()

	client := NewAssistantClient("test-key")
	client.BaseURL = server.URL

	reply := client.Reply(context.Background(), "Is it safe to drive?")
	assert.Equal(t, "**Avoid** waterlogged roads.", reply)
}

func TestAssistantReplyWithoutKey(t *testing.T) {
	client := NewAssistantClient("")
	reply := client.Reply(context.Background(), "hello")
	assert.Equal(t, replyNotConfigured, reply)
}

func TestAssistantReplyUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewAssistantClient("test-key")
	client.BaseURL = server.URL

	// Failures come back as a normal bot message, never an error.
	reply := client.Reply(context.Background(), "hello")
	assert.Equal(t, replyUnavailable, reply)
}

func TestAssistantReplyNoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer server.Close()

	client := NewAssistantClient("test-key")
	client.BaseURL = server.URL

	reply := client.Reply(context.Background(), "hello")
	assert.Equal(t, replyEmpty, reply)
}

func TestAssistantReplyConnectionRefused(t *testing.T) {
	client := NewAssistantClient("test-key")
	client.BaseURL = "http://127.0.0.1:1"

	reply := client.Reply(context.Background(), "hello")
	assert.Equal(t, replyUnavailable, reply)
}
