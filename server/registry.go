package server

import (
	"io"
	"sync"

	"symbiosis/protocol"
)

// Registry 在线连接集合，独立于模拟器加锁
type Registry struct {
	mu    sync.RWMutex
	peers map[string]Peer
}

func NewRegistry() *Registry {
	return &Registry{peers: make(map[string]Peer)}
}

// Add 按 id 注册 p
func (r *Registry) Add(p Peer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.peers[p.ID()] = p
}

// Remove 注销 p，未知连接忽略
func (r *Registry) Remove(p Peer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.peers, p.ID())
}

// Len 已注册连接数
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.peers)
}

// Broadcast 向每个连接入队；Send 不阻塞，持读锁安全
func (r *Registry) Broadcast(msg protocol.Message) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.peers {
		p.Send(msg)
	}
}

// CloseAll 关闭所有可关闭的连接
func (r *Registry) CloseAll() {
	r.mu.RLock()
	closers := make([]io.Closer, 0, len(r.peers))
	for _, p := range r.peers {
		if c, ok := p.(io.Closer); ok {
			closers = append(closers, c)
		}
	}
	r.mu.RUnlock()
	for _, c := range closers {
		_ = c.Close()
	}
}
