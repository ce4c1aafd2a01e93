package realtime

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialHub(t *testing.T, hub *Hub, channels string) *websocket.Conn {
	t.Helper()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ws", hub.ServeWS())

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	if channels != "" {
		url += "?channels=" + channels
	}

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, body, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev Event
	require.NoError(t, json.Unmarshal(body, &ev))
	return ev
}

func TestBroadcastReachesSubscribedClient(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub, "tasks")

	ev, err := NewEvent(TasksChannel, EventTaskCreated, map[string]string{"id": "t1"})
	require.NoError(t, err)

	// The register happens in the upgrade handler; give it a beat.
	require.Eventually(t, func() bool {
		hub.mu.Lock()
		defer hub.mu.Unlock()
		return len(hub.clients) == 1
	}, time.Second, 10*time.Millisecond)

	hub.Broadcast(ev)

	got := readEvent(t, conn)
	assert.Equal(t, TasksChannel, got.Channel)
	assert.Equal(t, EventTaskCreated, got.Name)
	assert.JSONEq(t, `{"id":"t1"}`, string(got.Payload))
}

func TestBroadcastSkipsOtherChannels(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub, "team-1")

	require.Eventually(t, func() bool {
		hub.mu.Lock()
		defer hub.mu.Unlock()
		return len(hub.clients) == 1
	}, time.Second, 10*time.Millisecond)

	tasksEv, err := NewEvent(TasksChannel, EventTaskDeleted, "t1")
	require.NoError(t, err)
	teamEv, err := NewEvent(TeamChannel("1"), EventNewMessage, map[string]string{"content": "hi"})
	require.NoError(t, err)

	hub.Broadcast(tasksEv)
	hub.Broadcast(teamEv)

	// Only the team event arrives
	got := readEvent(t, conn)
	assert.Equal(t, "team-1", got.Channel)
	assert.Equal(t, EventNewMessage, got.Name)
}

func TestDefaultChannelIsTasks(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub, "")

	require.Eventually(t, func() bool {
		hub.mu.Lock()
		defer hub.mu.Unlock()
		return len(hub.clients) == 1
	}, time.Second, 10*time.Millisecond)

	ev, err := NewEvent(TasksChannel, EventTaskUpdated, map[string]string{"id": "t1"})
	require.NoError(t, err)
	hub.Broadcast(ev)

	got := readEvent(t, conn)
	assert.Equal(t, EventTaskUpdated, got.Name)
}

func TestTeamChannelName(t *testing.T) {
	assert.Equal(t, "team-abc", TeamChannel("abc"))
}
