package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"symbiosis/protocol"
)

// transport 在一条对端连接上收发整行协议
type transport interface {
	ReadLine() (string, error)
	WriteLine(line string) error
	Close() error
	RemoteAddr() string
}

// Conn 处理一个对端：阻塞读循环负责解码并投递给模拟器，
// 写泵是 transport 唯一的写入者
type Conn struct {
	id      string
	tr      transport
	send    chan string
	done    chan struct{}
	once    sync.Once
	limiter *rate.Limiter
	metrics *Metrics
}

func newConn(tr transport, cfg Config, metrics *Metrics) *Conn {
	if metrics == nil {
		metrics = &Metrics{}
	}
	queue := cfg.SendQueue
	if queue <= 0 {
		queue = 64
	}
	c := &Conn{
		id:      uuid.NewString(),
		tr:      tr,
		send:    make(chan string, queue),
		done:    make(chan struct{}),
		metrics: metrics,
	}
	if cfg.InputRate > 0 {
		burst := cfg.InputBurst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.InputRate), burst)
	}
	return c
}

// ID 连接 id，同时作为玩家 id
func (c *Conn) ID() string { return c.id }

// Send 非阻塞入队，队列满则关闭连接
func (c *Conn) Send(msg protocol.Message) {
	line := protocol.Encode(msg)
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.send <- line:
	default:
		c.metrics.IncQueueOverflows()
		Log.Warnw("send queue full, closing connection", "conn", c.id)
		_ = c.Close()
	}
}

// Close 关闭 transport，可重复调用
func (c *Conn) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		err = c.tr.Close()
	})
	return err
}

// serve 运行连接直到对端离开，随后注销并通知模拟器断线
func (c *Conn) serve(ctx context.Context, sim *Simulation, reg *Registry) {
	reg.Add(c)
	c.metrics.AddConnections(1)
	Log.Infow("connection opened", "conn", c.id, "remote", c.tr.RemoteAddr())

	go c.writePump()
	c.readLoop(ctx, sim)

	_ = c.Close()
	reg.Remove(c)
	c.metrics.AddConnections(-1)
	if err := sim.Leave(ctx, c); err != nil {
		Log.Debugw("disconnect not delivered", "conn", c.id, "err", err)
	}
	Log.Infow("connection closed", "conn", c.id)
}

func (c *Conn) readLoop(ctx context.Context, sim *Simulation) {
	for {
		line, err := c.tr.ReadLine()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				Log.Debugw("read failed", "conn", c.id, "err", err)
			}
			return
		}
		c.metrics.IncLines()

		if c.limiter != nil && !c.limiter.Allow() {
			c.metrics.IncRateLimited()
			Log.Debugw("line dropped by rate limit", "conn", c.id)
			continue
		}

		msg, err := protocol.Decode(line)
		if err != nil {
			c.metrics.IncMalformed()
			c.Send(&protocol.Error{Code: protocol.ErrCodeBadMessage, Text: err.Error()})
			continue
		}
		if !protocol.Inbound(msg.Kind()) {
			c.metrics.IncMalformed()
			c.Send(&protocol.Error{
				Code: protocol.ErrCodeBadMessage,
				Text: fmt.Sprintf("%s is not accepted from peers", msg.Kind()),
			})
			continue
		}
		if err := sim.Submit(ctx, c, msg); err != nil {
			return
		}
	}
}

func (c *Conn) writePump() {
	for {
		select {
		case line := <-c.send:
			if err := c.tr.WriteLine(line); err != nil {
				Log.Debugw("write failed", "conn", c.id, "err", err)
				_ = c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}
