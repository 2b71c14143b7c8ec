package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eldato-web/apperrors"
	"eldato-web/lifecycle"
	"eldato-web/models"
)

func startHub(t *testing.T, actor models.Actor, setup ...func(*Hub)) (*Hub, *websocket.Conn) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub()
	for _, fn := range setup {
		fn(hub)
	}
	go hub.Run(ctx)

	upgrader := NewUpgrader(nil)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWebSocket(hub, upgrader, w, r, actor)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return hub.IsUserConnected(actor.UserID) }, time.Second, 10*time.Millisecond)
	return hub, conn
}

func readMessage(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestEvaluationPromptReachesUser(t *testing.T) {
	hub, conn := startHub(t, models.Actor{UserID: 5, Role: models.RoleClient})

	hub.EvaluationPrompt(5, lifecycle.EvaluationPrompt{RequestID: 9, CounterpartID: 2, CounterpartName: "Luis", Choices: []string{"now", "later"}})

	msg := readMessage(t, conn)
	assert.Equal(t, EventEvaluationPrompt, msg["type"])
	data := msg["data"].(map[string]interface{})
	assert.Equal(t, float64(9), data["request_id"])
	assert.Equal(t, "Luis", data["counterpart_name"])
}

func TestRequestUpdatedOnlyReachesTarget(t *testing.T) {
	hub, conn := startHub(t, models.Actor{UserID: 5, Role: models.RoleProvider})

	assert.Equal(t, 0, hub.SendToUser(6, &Message{Type: "x"}))

	hub.RequestUpdated(5, models.ServiceRequest{ID: 3, State: models.RequestStateCompleted})
	msg := readMessage(t, conn)
	assert.Equal(t, EventRequestUpdated, msg["type"])
	assert.Equal(t, "Completado", msg["data"].(map[string]interface{})["state"])
}

func TestPingIsAnswered(t *testing.T) {
	_, conn := startHub(t, models.Actor{UserID: 5, Role: models.RoleClient})

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "ping"}))

	assert.Equal(t, EventPong, readMessage(t, conn)["type"])
}

func TestDisconnectUnregisters(t *testing.T) {
	hub, conn := startHub(t, models.Actor{UserID: 5, Role: models.RoleClient})

	conn.Close()

	assert.Eventually(t, func() bool { return !hub.IsUserConnected(5) }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, hub.ConnectedUsers())
}

func TestUpgraderChecksOrigin(t *testing.T) {
	up := NewUpgrader([]string{"https://eldato.cl"})

	ok := httptest.NewRequest(http.MethodGet, "/ws", nil)
	ok.Header.Set("Origin", "https://eldato.cl")
	assert.True(t, up.CheckOrigin(ok))

	bad := httptest.NewRequest(http.MethodGet, "/ws", nil)
	bad.Header.Set("Origin", "https://evil.example")
	assert.False(t, up.CheckOrigin(bad))
}

func TestStoppedHubReleasesConnections(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	upgrader := NewUpgrader(nil)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWebSocket(hub, upgrader, w, r, models.Actor{UserID: 5, Role: models.RoleClient})
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.IsUserConnected(5) }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-hub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}

	// the server side closes the socket once the hub is gone
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)

	released := make(chan struct{})
	go func() {
		hub.unregister(&Client{UserID: 5})
		close(released)
	}()
	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("unregister blocked on a stopped hub")
	}

	assert.False(t, hub.register(&Client{UserID: 6}))
}

type echoAssistant struct{}

func (echoAssistant) Ask(ctx context.Context, message string) (*models.AssistantReply, error) {
	if message == "" {
		return nil, apperrors.Validation("Write a question for the assistant.")
	}
	return &models.AssistantReply{Text: "Respuesta: " + message}, nil
}

func TestChatIsAnsweredByAssistant(t *testing.T) {
	_, conn := startHub(t, models.Actor{UserID: 5, Role: models.RoleClient}, func(h *Hub) {
		h.EnableAssistant(echoAssistant{}, time.Second)
	})

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "chat", "data": map[string]string{"message": " ¿Hay pintores? "}}))

	msg := readMessage(t, conn)
	assert.Equal(t, EventChatReply, msg["type"])
	assert.Equal(t, "Respuesta: ¿Hay pintores?", msg["data"].(map[string]interface{})["text"])

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "chat"}))

	msg = readMessage(t, conn)
	assert.Equal(t, EventError, msg["type"])
	assert.Equal(t, "Write a question for the assistant.", msg["data"].(map[string]interface{})["error"])
}
