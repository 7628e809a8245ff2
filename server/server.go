package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"symbiosis/game"
)

// Server 组装传输层、连接注册表与模拟器
type Server struct {
	cfg      Config
	levels   game.Levels
	metrics  *Metrics
	registry *Registry
	sim      *Simulation

	mu  sync.Mutex
	ctx context.Context
}

// New 按关卡表创建服务
func New(cfg Config, levels game.Levels) *Server {
	metrics := &Metrics{}
	reg := NewRegistry()
	return &Server{
		cfg:      cfg,
		levels:   levels,
		metrics:  metrics,
		registry: reg,
		sim:      NewSimulation(levels, reg, metrics),
	}
}

// Run 监听配置地址，阻塞直到 ctx 取消或某个组件失败
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}

	g, ctx := errgroup.WithContext(ctx)
	s.setContext(ctx)

	g.Go(func() error { return s.sim.Run(ctx) })
	g.Go(func() error { return s.Serve(ctx, ln) })

	if s.cfg.HTTPAddr != "" {
		hs := &http.Server{Addr: s.cfg.HTTPAddr, Handler: s.Router()}
		g.Go(func() error {
			Log.Infow("http listening", "addr", s.cfg.HTTPAddr)
			if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return hs.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		_ = ln.Close()
		s.registry.CloseAll()
		return nil
	})

	return g.Wait()
}

// Serve 在 ln 上接受 TCP 连接直到关闭
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	Log.Infow("game listening", "addr", ln.Addr().String(), "levels", len(s.levels))
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			Log.Errorw("accept failed", "err", err)
			continue
		}
		c := newConn(newTCPTransport(conn, s.cfg), s.cfg, s.metrics)
		go c.serve(ctx, s.sim, s.registry)
	}
}

// Metrics 暴露服务计数器
func (s *Server) Metrics() *Metrics { return s.metrics }

func (s *Server) setContext(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()
}

func (s *Server) context() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		return context.Background()
	}
	return s.ctx
}
