package server

import (
	"context"
	"time"

	"symbiosis/game"
	"symbiosis/protocol"
)

// envelope 模拟协程的一个工作单元
type envelope struct {
	peer    Peer
	msg     protocol.Message
	left    bool
	summary chan SessionSummary
}

// Simulation 持有 Session，所有修改在单个协程中按收件箱顺序执行，
// 每一步看到一致的双方位置，其广播在下一步开始前入队
type Simulation struct {
	session *Session
	inbox   chan envelope
	metrics *Metrics
}

// NewSimulation 创建会话，调用 Run 开始处理
func NewSimulation(levels game.Levels, out Broadcaster, metrics *Metrics) *Simulation {
	if metrics == nil {
		metrics = &Metrics{}
	}
	return &Simulation{
		session: NewSession(levels, out, metrics),
		inbox:   make(chan envelope, 256),
		metrics: metrics,
	}
}

// Run 处理收件箱直到 ctx 取消
func (s *Simulation) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case env := <-s.inbox:
			start := time.Now()
			s.step(env)
			s.metrics.AddStep(time.Since(start).Nanoseconds())
		}
	}
}

// Submit 投递 peer 的入站消息
func (s *Simulation) Submit(ctx context.Context, peer Peer, msg protocol.Message) error {
	return s.enqueue(ctx, envelope{peer: peer, msg: msg})
}

// Leave 投递 peer 的断线处理
func (s *Simulation) Leave(ctx context.Context, peer Peer) error {
	return s.enqueue(ctx, envelope{peer: peer, left: true})
}

// Inspect 在两步之间取会话摘要
func (s *Simulation) Inspect(ctx context.Context) (SessionSummary, error) {
	reply := make(chan SessionSummary, 1)
	if err := s.enqueue(ctx, envelope{summary: reply}); err != nil {
		return SessionSummary{}, err
	}
	select {
	case sum := <-reply:
		return sum, nil
	case <-ctx.Done():
		return SessionSummary{}, ctx.Err()
	}
}

func (s *Simulation) enqueue(ctx context.Context, env envelope) error {
	select {
	case s.inbox <- env:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Simulation) step(env envelope) {
	switch {
	case env.summary != nil:
		env.summary <- s.session.Summary()
		return
	case env.left:
		s.session.Disconnect(env.peer)
		return
	}

	switch m := env.msg.(type) {
	case *protocol.Join:
		s.session.Join(env.peer, m)
	case *protocol.Input:
		s.session.Input(m)
	case *protocol.Chat:
		s.session.Chat(m)
	case *protocol.LevelVote:
		s.session.Vote(env.peer, m.LevelIndex)
	case *protocol.RestartRequest:
		s.session.RestartRequest(env.peer)
	case *protocol.RestartResponse:
		s.session.RestartResponse(env.peer, m.Accepted)
	default:
		Log.Warnw("simulation ignored outbound-only message", "conn", env.peer.ID(), "kind", env.msg.Kind())
	}
}
