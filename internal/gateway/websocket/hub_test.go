package websocket

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func TestHubDeliversToConnectedClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub()
	go hub.Start()
	defer hub.Close()

	r := gin.New()
	r.GET("/ws", func(c *gin.Context) {
		NewClientInit(c, hub, "admin-1")
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(time.Second)
	for hub.Count() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.Deliver([]byte(`{"entity_id":"g1"}`))

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(msg) != `{"entity_id":"g1"}` {
		t.Errorf("msg = %s", msg)
	}
}
