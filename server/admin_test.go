package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"symbiosis/protocol"
)

// startHTTPServer 启动模拟器与 Router，返回测试 HTTP 服务
func startHTTPServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	s := New(noLimitConfig(), testLevels())
	s.setContext(ctx)
	go s.sim.Run(ctx)

	ts := httptest.NewServer(s.Router())
	t.Cleanup(func() {
		cancel()
		s.registry.CloseAll()
		ts.Close()
	})
	return s, ts
}

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

func readWS(t *testing.T, ws *websocket.Conn) protocol.Message {
	t.Helper()
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	mt, payload, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if mt != websocket.TextMessage {
		t.Fatalf("frame type = %d, want text", mt)
	}
	msg, err := protocol.Decode(string(payload))
	if err != nil {
		t.Fatalf("decode %q: %v", payload, err)
	}
	return msg
}

func getJSON(t *testing.T, url string, v any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", url, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("GET %s: content type %q", url, ct)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
}

func TestWebSocketJoin(t *testing.T) {
	s, ts := startHTTPServer(t)
	ws := dialWS(t, ts)

	if err := ws.WriteMessage(websocket.TextMessage, []byte("JOIN|a")); err != nil {
		t.Fatal(err)
	}
	ra, ok := readWS(t, ws).(*protocol.RoleAssigned)
	if !ok || ra.Role != "FISH" || ra.PlayerID == "" {
		t.Fatalf("first frame = %#v, want ROLE_ASSIGNED FISH", ra)
	}
	ld, ok := readWS(t, ws).(*protocol.LevelData)
	if !ok || ld.Width != 8 || ld.Height != 8 {
		t.Fatalf("second frame = %#v, want LEVEL_DATA of level 0", ld)
	}
	if _, ok := readWS(t, ws).(*protocol.StateUpdate); !ok {
		t.Fatal("third frame should be STATE_UPDATE")
	}

	var sum SessionSummary
	getJSON(t, ts.URL+"/admin/session", &sum)
	if len(sum.Players) != 1 || sum.Players[0].Role != "FISH" || sum.Players[0].ID != ra.PlayerID {
		t.Fatalf("session summary = %+v", sum)
	}
	if sum.Level != 0 || sum.LevelName != "push" || sum.LevelCount != 3 {
		t.Fatalf("session summary level = %+v", sum)
	}

	var metrics struct {
		Peers int `json:"peers"`
	}
	getJSON(t, ts.URL+"/metrics", &metrics)
	if metrics.Peers != 1 {
		t.Fatalf("peers = %d, want 1", metrics.Peers)
	}
	if got := atomic.LoadInt64(&s.Metrics().LinesReceived); got != 1 {
		t.Fatalf("lines received = %d, want 1", got)
	}
}

func TestWebSocketMalformedFrame(t *testing.T) {
	_, ts := startHTTPServer(t)
	ws := dialWS(t, ts)

	if err := ws.WriteMessage(websocket.TextMessage, []byte("NOPE|x")); err != nil {
		t.Fatal(err)
	}
	e, ok := readWS(t, ws).(*protocol.Error)
	if !ok || e.Code != protocol.ErrCodeBadMessage {
		t.Fatalf("got %#v, want BAD_MESSAGE", e)
	}
	if err := ws.WriteMessage(websocket.TextMessage, []byte("JOIN|b|CRAB")); err != nil {
		t.Fatal(err)
	}
	if ra, ok := readWS(t, ws).(*protocol.RoleAssigned); !ok || ra.Role != "CRAB" {
		t.Fatalf("got %#v, want ROLE_ASSIGNED CRAB", ra)
	}
}

func TestHealthz(t *testing.T) {
	_, ts := startHTTPServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Fatalf("healthz = %d %q", resp.StatusCode, body)
	}
}

func TestAdminLevels(t *testing.T) {
	_, ts := startHTTPServer(t)
	var out struct {
		Levels []struct {
			Name string   `json:"name"`
			Rows []string `json:"rows"`
		} `json:"levels"`
	}
	getJSON(t, ts.URL+"/admin/levels", &out)
	if len(out.Levels) != 3 || out.Levels[2].Name != "exits" {
		t.Fatalf("levels = %+v", out.Levels)
	}
}

func TestAdminSessionWithoutSimulation(t *testing.T) {
	s := New(noLimitConfig(), testLevels())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/session", nil)
	ctx, cancel := context.WithTimeout(req.Context(), 50*time.Millisecond)
	defer cancel()
	s.Router().ServeHTTP(rec, req.WithContext(ctx))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}
