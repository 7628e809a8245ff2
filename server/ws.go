package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

// wsTransport 每个 WebSocket 文本帧承载一行协议
type wsTransport struct {
	ws        *websocket.Conn
	writeWait time.Duration
}

func (t *wsTransport) ReadLine() (string, error) {
	for {
		mt, payload, err := t.ws.ReadMessage()
		if err != nil {
			return "", err
		}
		if mt != websocket.TextMessage {
			continue
		}
		return strings.TrimRight(string(payload), "\r\n"), nil
	}
}

func (t *wsTransport) WriteLine(line string) error {
	if t.writeWait > 0 {
		_ = t.ws.SetWriteDeadline(time.Now().Add(t.writeWait))
	}
	return t.ws.WriteMessage(websocket.TextMessage, []byte(line))
}

func (t *wsTransport) Close() error { return t.ws.Close() }

func (t *wsTransport) RemoteAddr() string { return t.ws.RemoteAddr().String() }

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handleWS 升级请求并在当前协程服务该连接
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		Log.Warnw("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	if s.cfg.MaxLineBytes > 0 {
		ws.SetReadLimit(int64(s.cfg.MaxLineBytes))
	}
	c := newConn(&wsTransport{ws: ws, writeWait: s.cfg.WriteWait}, s.cfg, s.metrics)
	c.serve(s.context(), s.sim, s.registry)
}
