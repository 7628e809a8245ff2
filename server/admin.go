package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
)

// Router WebSocket 与管理端点：
//
//	GET /ws             WebSocket 上的行协议
//	GET /healthz        存活检查
//	GET /metrics        计数器
//	GET /admin/session  当前关卡、玩家与握手状态
//	GET /admin/levels   关卡表
func (s *Server) Router() http.Handler {
	r := httprouter.New()
	r.GET("/ws", s.handleWS)
	r.GET("/healthz", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		_, _ = w.Write([]byte("ok"))
	})
	r.GET("/metrics", s.handleMetrics)
	r.GET("/admin/session", s.handleSession)
	r.GET("/admin/levels", s.handleLevels)
	return r
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]any{
		"peers":   s.registry.Len(),
		"metrics": s.metrics.Snapshot(),
	})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	sum, err := s.sim.Inspect(ctx)
	if err != nil {
		http.Error(w, "simulation unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleLevels(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]any{"levels": s.levels})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		Log.Warnw("write json response", "err", err)
	}
}
