package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eldato-web/apperrors"
)

func modelServer(t *testing.T, status int, reply string, seen *geminiRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "k3y", r.URL.Query().Get("key"))
		if seen != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAskSendsPromptAndQuestion(t *testing.T) {
	var seen geminiRequest
	srv := modelServer(t, http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"Busca en la categoría Hogar."}]}}]}`, &seen)
	as := NewAssistantService("k3y", srv.URL+"/", "gemini-test", "", time.Second)

	reply, err := as.Ask(context.Background(), "  ¿Dónde encuentro un gasfíter?  ")

	require.NoError(t, err)
	assert.Equal(t, "Busca en la categoría Hogar.", reply.Text)
	require.Len(t, seen.Contents, 1)
	require.Len(t, seen.Contents[0].Parts, 1)
	assert.Equal(t, DefaultAssistantPrompt+"\nPregunta del usuario: ¿Dónde encuentro un gasfíter?", seen.Contents[0].Parts[0].Text)
}

func TestAskUsesConfiguredPrompt(t *testing.T) {
	var seen geminiRequest
	srv := modelServer(t, http.StatusOK, `"hola"`, &seen)
	as := NewAssistantService("k3y", srv.URL, "gemini-test", "Eres un asistente de pruebas.", time.Second)

	reply, err := as.Ask(context.Background(), "hola")

	require.NoError(t, err)
	assert.Equal(t, "hola", reply.Text)
	assert.Equal(t, "Eres un asistente de pruebas.\nPregunta del usuario: hola", seen.Contents[0].Parts[0].Text)
}

func TestAskModelFailureIsTransient(t *testing.T) {
	srv := modelServer(t, http.StatusInternalServerError, `{"error":"boom"}`, nil)
	as := NewAssistantService("k3y", srv.URL, "gemini-test", "", time.Second)

	_, err := as.Ask(context.Background(), "hola")

	assert.True(t, apperrors.Is(err, apperrors.KindTransient))
}

func TestAskRejectsEmptyQuestion(t *testing.T) {
	as := NewAssistantService("k3y", "http://127.0.0.1:1", "gemini-test", "", time.Second)

	_, err := as.Ask(context.Background(), "   ")

	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}

func TestAskWithoutKeyAnswersOffline(t *testing.T) {
	as := NewAssistantService("", "http://127.0.0.1:1", "gemini-test", "", time.Second)

	reply, err := as.Ask(context.Background(), "hola")

	require.NoError(t, err)
	assert.False(t, as.Enabled())
	assert.Equal(t, AssistantOfflineMessage, reply.Text)
}

func TestReplyText(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"plain string", `"Claro, te ayudo."`, "Claro, te ayudo."},
		{"gemini parts", `{"candidates":[{"content":{"parts":[{"text":"Uno"},{"text":"Dos"}]}}]}`, "Uno\nDos"},
		{"message content", `{"message":{"content":"Desde message"}}`, "Desde message"},
		{"choices", `{"choices":[{"message":{"content":"Desde choices"}}]}`, "Desde choices"},
		{"empty candidates", `{"candidates":[]}`, AssistantFallbackMessage},
		{"unknown shape", `{"foo":1}`, AssistantFallbackMessage},
		{"not json", `<html>`, AssistantFallbackMessage},
		{"blank string", `"  "`, AssistantFallbackMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReplyText([]byte(tt.body)))
		})
	}
}
