package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"symbiosis/game"
	"symbiosis/server"
)

// symbiosis 服务端：双人合作会话的权威服务，支持 TCP 行协议与 WebSocket 帧
func main() {
	cfg := server.DefaultConfig()
	var (
		levelsPath string
		logPath    string
	)
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "TCP listen address for game peers")
	flag.StringVar(&cfg.HTTPAddr, "http", cfg.HTTPAddr, "HTTP address for /ws and admin endpoints (empty disables)")
	flag.StringVar(&levelsPath, "levels", "", "JSON level table (default: built-in levels)")
	flag.StringVar(&logPath, "log", "symbiosis.log", "log file (empty logs to stderr)")
	flag.IntVar(&cfg.SendQueue, "send-queue", cfg.SendQueue, "per-connection outbound queue length")
	flag.Float64Var(&cfg.InputRate, "input-rate", cfg.InputRate, "inbound lines per second per connection (0 disables)")
	flag.IntVar(&cfg.InputBurst, "input-burst", cfg.InputBurst, "inbound line burst per connection")
	flag.Parse()

	if err := server.InitLogger(logPath); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer server.SyncLogger()

	levels := game.DefaultLevels()
	if levelsPath != "" {
		var err error
		if levels, err = game.LoadLevels(levelsPath); err != nil {
			server.Log.Errorw("load levels", "err", err)
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		server.Log.Info("Shutting down...")
		cancel()
	}()

	if err := server.New(cfg, levels).Run(ctx); err != nil {
		server.Log.Errorw("server stopped", "err", err)
		server.SyncLogger()
		os.Exit(1)
	}
}
