package server

import (
	"bufio"
	"io"
	"net"
	"strings"
	"time"
)

// tcpTransport 在字节流上以 '\n' 分帧
type tcpTransport struct {
	conn      net.Conn
	scanner   *bufio.Scanner
	w         *bufio.Writer
	writeWait time.Duration
}

func newTCPTransport(conn net.Conn, cfg Config) *tcpTransport {
	sc := bufio.NewScanner(conn)
	if cfg.MaxLineBytes > 0 {
		sc.Buffer(make([]byte, 0, 4096), cfg.MaxLineBytes)
	}
	return &tcpTransport{
		conn:      conn,
		scanner:   sc,
		w:         bufio.NewWriter(conn),
		writeWait: cfg.WriteWait,
	}
}

func (t *tcpTransport) ReadLine() (string, error) {
	if t.scanner.Scan() {
		return strings.TrimSuffix(t.scanner.Text(), "\r"), nil
	}
	if err := t.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (t *tcpTransport) WriteLine(line string) error {
	if t.writeWait > 0 {
		_ = t.conn.SetWriteDeadline(time.Now().Add(t.writeWait))
	}
	if _, err := t.w.WriteString(line); err != nil {
		return err
	}
	if err := t.w.WriteByte('\n'); err != nil {
		return err
	}
	return t.w.Flush()
}

func (t *tcpTransport) Close() error { return t.conn.Close() }

func (t *tcpTransport) RemoteAddr() string { return t.conn.RemoteAddr().String() }
