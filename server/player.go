package server

import "symbiosis/protocol"

// Peer 模拟器眼中的一条连接：稳定的 id 与由连接自己负责的非阻塞发送
type Peer interface {
	ID() string
	Send(msg protocol.Message)
}

// Broadcaster 向所有已注册连接投递消息
type Broadcaster interface {
	Broadcast(msg protocol.Message)
}

// seat 角色与持有它的连接绑定；名字跨关卡保留，重建玩家时沿用
type seat struct {
	peer Peer
	name string
}
