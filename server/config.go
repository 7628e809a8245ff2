package server

import "time"

// Config 服务运行配置
type Config struct {
	// Addr 行协议 TCP 监听地址
	Addr string
	// HTTPAddr 提供 /ws 与管理端点，为空则不启用 HTTP
	HTTPAddr string
	// SendQueue 每连接出站队列长度，队列满则断开
	SendQueue int
	// InputRate 每连接每秒入站行数上限，0 表示不限
	InputRate  float64
	InputBurst int
	// MaxLineBytes 单行入站上限
	MaxLineBytes int
	WriteWait    time.Duration
}

// DefaultConfig 命令行服务使用的默认配置
func DefaultConfig() Config {
	return Config{
		Addr:         ":7777",
		HTTPAddr:     ":8080",
		SendQueue:    64,
		InputRate:    30,
		InputBurst:   60,
		MaxLineBytes: 64 * 1024,
		WriteWait:    5 * time.Second,
	}
}
