// probe symbiosis 行协议调试终端：通过 TCP 连接，可选自动加入，
// 原样转发标准输入，并按消息类型着色打印服务端的每一行
//
// 用法：
//
//	go run ./cmd/probe -addr localhost:7777 -name alice -role FISH
//
// 输入 up、down、left、right、act、stop 时，以已分配的玩家 id 发送 INPUT
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"

	"symbiosis/protocol"
)

var kindColors = map[protocol.Kind]*color.Color{
	protocol.KindRoleAssigned: color.New(color.FgGreen, color.Bold),
	protocol.KindLevelData:    color.New(color.FgBlue),
	protocol.KindStateUpdate:  color.New(color.FgCyan),
	protocol.KindChat:         color.New(color.FgWhite),
	protocol.KindError:        color.New(color.FgRed, color.Bold),
	protocol.KindRestartOffer: color.New(color.FgYellow, color.Bold),
}

var shortcuts = map[string]protocol.InputType{
	"up":    protocol.InputMoveUp,
	"down":  protocol.InputMoveDown,
	"left":  protocol.InputMoveLeft,
	"right": protocol.InputMoveRight,
	"act":   protocol.InputAction,
	"stop":  protocol.InputStop,
}

func main() {
	addr := flag.String("addr", "localhost:7777", "server address")
	name := flag.String("name", "", "join with this name on connect (empty: no auto join)")
	role := flag.String("role", "", "preferred role for the auto join")
	level := flag.Int("level", protocol.AutoLevel, "preferred level for the auto join")
	flag.Parse()

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		log.Fatalf("dial %s: %v", *addr, err)
	}
	defer conn.Close()

	var (
		mu       sync.Mutex
		playerID string
	)
	go func() {
		sc := bufio.NewScanner(conn)
		for sc.Scan() {
			line := sc.Text()
			msg, err := protocol.Decode(line)
			if err != nil {
				color.New(color.FgMagenta).Printf("?? %s (%v)\n", line, err)
				continue
			}
			if ra, ok := msg.(*protocol.RoleAssigned); ok {
				mu.Lock()
				playerID = ra.PlayerID
				mu.Unlock()
			}
			printMessage(line, msg)
		}
		color.New(color.FgRed).Println("-- connection closed")
		os.Exit(0)
	}()

	w := bufio.NewWriter(conn)
	send := func(line string) {
		_, _ = w.WriteString(line + "\n")
		if err := w.Flush(); err != nil {
			log.Fatalf("write: %v", err)
		}
	}
	if *name != "" {
		send(protocol.Encode(&protocol.Join{Name: *name, PreferredRole: strings.ToUpper(*role), PreferredLevel: *level}))
	}

	in := bufio.NewScanner(os.Stdin)
	for in.Scan() {
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}
		if t, ok := shortcuts[strings.ToLower(line)]; ok {
			mu.Lock()
			id := playerID
			mu.Unlock()
			line = protocol.Encode(&protocol.Input{ClientID: id, Type: t})
		}
		send(line)
	}
}

func printMessage(line string, msg protocol.Message) {
	c, ok := kindColors[msg.Kind()]
	if !ok {
		c = color.New(color.Reset)
	}
	if su, ok := msg.(*protocol.StateUpdate); ok {
		if snap, err := protocol.ParseSnapshot(su.Payload); err == nil {
			c.Printf("%s  fish=%s crab=%s objects=%d done=%v\n",
				msg.Kind(), coord(snap.Fish), coord(snap.Crab), len(snap.Objects), snap.Completed)
			return
		}
	}
	if ld, ok := msg.(*protocol.LevelData); ok {
		c.Printf("%s %dx%d\n", msg.Kind(), ld.Width, ld.Height)
		for _, row := range ld.Rows {
			c.Println("  " + row)
		}
		return
	}
	c.Println(line)
}

func coord(c *protocol.Coord) string {
	if c == nil {
		return "-"
	}
	return fmt.Sprintf("%d,%d", c.X, c.Y)
}
