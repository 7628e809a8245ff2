package server

import (
	"sync/atomic"
)

// Metrics 进程级计数器，通过 /metrics 暴露
type Metrics struct {
	LinesReceived  int64 // 任意传输读到的入站行
	MalformedLines int64 // 回复了 BAD_MESSAGE 的行
	RateLimited    int64 // 被单连接限流丢弃的行
	QueueOverflows int64 // 因发送队列满而关闭的连接
	InputsApplied  int64 // 命中已绑定玩家的 INPUT
	MovesRejected  int64 // 被墙或物体挡住的移动
	Pushes         int64 // 成功推箱次数
	LevelsLoaded   int64 // 关卡（重新）加载次数
	Connections    int64 // 当前打开的连接数
	StepCount      int64 // 已处理的模拟步数
	TotalStepNs    int64 // 累计步耗时
}

func (m *Metrics) IncLines()          { atomic.AddInt64(&m.LinesReceived, 1) }
func (m *Metrics) IncMalformed()      { atomic.AddInt64(&m.MalformedLines, 1) }
func (m *Metrics) IncRateLimited()    { atomic.AddInt64(&m.RateLimited, 1) }
func (m *Metrics) IncQueueOverflows() { atomic.AddInt64(&m.QueueOverflows, 1) }
func (m *Metrics) IncInputs()         { atomic.AddInt64(&m.InputsApplied, 1) }
func (m *Metrics) IncRejected()       { atomic.AddInt64(&m.MovesRejected, 1) }
func (m *Metrics) IncPushes()         { atomic.AddInt64(&m.Pushes, 1) }
func (m *Metrics) IncLevelsLoaded()   { atomic.AddInt64(&m.LevelsLoaded, 1) }
func (m *Metrics) AddConnections(n int64) {
	atomic.AddInt64(&m.Connections, n)
}

func (m *Metrics) AddStep(ns int64) {
	atomic.AddInt64(&m.StepCount, 1)
	atomic.AddInt64(&m.TotalStepNs, ns)
}

// Snapshot 返回便于 JSON 输出的副本
func (m *Metrics) Snapshot() map[string]any {
	steps := atomic.LoadInt64(&m.StepCount)
	total := atomic.LoadInt64(&m.TotalStepNs)
	var avgUs float64
	if steps > 0 {
		avgUs = float64(total) / float64(steps) / 1e3
	}
	return map[string]any{
		"lines_received":  atomic.LoadInt64(&m.LinesReceived),
		"malformed_lines": atomic.LoadInt64(&m.MalformedLines),
		"rate_limited":    atomic.LoadInt64(&m.RateLimited),
		"queue_overflows": atomic.LoadInt64(&m.QueueOverflows),
		"inputs_applied":  atomic.LoadInt64(&m.InputsApplied),
		"moves_rejected":  atomic.LoadInt64(&m.MovesRejected),
		"pushes":          atomic.LoadInt64(&m.Pushes),
		"levels_loaded":   atomic.LoadInt64(&m.LevelsLoaded),
		"connections":     atomic.LoadInt64(&m.Connections),
		"step_count":      steps,
		"avg_step_us":     avgUs,
	}
}
