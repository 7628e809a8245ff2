package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	fieldSep  = '|'
	escapeSym = '\\'
)

// ErrMalformed Decode 返回的所有错误都包装它
var ErrMalformed = errors.New("malformed message")

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}

// Encode 将 msg 渲染为一行，不含结尾换行
func Encode(msg Message) string {
	var fields []string
	switch m := msg.(type) {
	case *Join:
		level := ""
		if m.PreferredLevel != AutoLevel {
			level = strconv.Itoa(m.PreferredLevel)
		}
		fields = []string{m.Name, normalizeRole(m.PreferredRole), level}
	case *Chat:
		fields = []string{m.From, m.Text}
	case *RoleAssigned:
		fields = []string{m.PlayerID, m.Role}
	case *Error:
		fields = []string{m.Code, m.Text}
	case *Input:
		fields = []string{m.ClientID, string(m.Type)}
	case *StateUpdate:
		fields = []string{m.Payload}
	case *LevelData:
		fields = make([]string, 0, 2+len(m.Rows))
		fields = append(fields, strconv.Itoa(m.Width), strconv.Itoa(m.Height))
		fields = append(fields, m.Rows...)
	case *LevelVote:
		fields = []string{m.ClientID, strconv.Itoa(m.LevelIndex)}
	case *RestartRequest:
		fields = []string{m.ClientID}
	case *RestartOffer:
		fields = []string{m.FromName}
	case *RestartResponse:
		fields = []string{m.ClientID, strconv.FormatBool(m.Accepted)}
	}

	var b strings.Builder
	b.WriteString(string(msg.Kind()))
	for _, f := range fields {
		b.WriteByte(fieldSep)
		escapeInto(&b, f)
	}
	return b.String()
}

// Decode 解析一行。语义校验（投票范围、角色是否空闲）由调用方负责
func Decode(line string) (Message, error) {
	if line == "" {
		return nil, malformed("empty line")
	}
	fields := splitFields(line)
	kind := Kind(fields[0])
	args := fields[1:]

	need := func(n int) error {
		if len(args) < n {
			return malformed("%s needs %d fields, got %d", kind, n, len(args))
		}
		return nil
	}

	switch kind {
	case KindJoin:
		m := &Join{Name: "Player", PreferredLevel: AutoLevel}
		if len(args) > 0 {
			m.Name = args[0]
		}
		if len(args) > 1 && args[1] != "" {
			role := normalizeRole(args[1])
			if role == "" {
				return nil, malformed("JOIN: unknown role %q", args[1])
			}
			m.PreferredRole = role
		}
		if len(args) > 2 && args[2] != "" {
			n, err := parseInt("JOIN level", args[2])
			if err != nil {
				return nil, err
			}
			m.PreferredLevel = n
		}
		return m, nil

	case KindChat:
		if err := need(2); err != nil {
			return nil, err
		}
		return &Chat{From: args[0], Text: args[1]}, nil

	case KindRoleAssigned:
		if err := need(2); err != nil {
			return nil, err
		}
		return &RoleAssigned{PlayerID: args[0], Role: args[1]}, nil

	case KindError:
		if err := need(2); err != nil {
			return nil, err
		}
		return &Error{Code: args[0], Text: args[1]}, nil

	case KindInput:
		if err := need(2); err != nil {
			return nil, err
		}
		t, ok := parseInputType(args[1])
		if !ok {
			return nil, malformed("INPUT: unknown input type %q", args[1])
		}
		return &Input{ClientID: args[0], Type: t}, nil

	case KindStateUpdate:
		if err := need(1); err != nil {
			return nil, err
		}
		return &StateUpdate{Payload: args[0]}, nil

	case KindLevelData:
		if err := need(2); err != nil {
			return nil, err
		}
		w, err := parseInt("LEVEL_DATA width", args[0])
		if err != nil {
			return nil, err
		}
		h, err := parseInt("LEVEL_DATA height", args[1])
		if err != nil {
			return nil, err
		}
		if h < 0 {
			return nil, malformed("LEVEL_DATA: negative height %d", h)
		}
		if len(args)-2 < h {
			return nil, malformed("LEVEL_DATA: expected %d rows, got %d", h, len(args)-2)
		}
		rows := make([]string, h)
		copy(rows, args[2:2+h])
		return &LevelData{Width: w, Height: h, Rows: rows}, nil

	case KindLevelVote:
		if err := need(2); err != nil {
			return nil, err
		}
		n, err := parseInt("LEVEL_VOTE level", args[1])
		if err != nil {
			return nil, err
		}
		return &LevelVote{ClientID: args[0], LevelIndex: n}, nil

	case KindRestartRequest:
		if err := need(1); err != nil {
			return nil, err
		}
		return &RestartRequest{ClientID: args[0]}, nil

	case KindRestartOffer:
		if err := need(1); err != nil {
			return nil, err
		}
		return &RestartOffer{FromName: args[0]}, nil

	case KindRestartResponse:
		if err := need(2); err != nil {
			return nil, err
		}
		var accepted bool
		switch {
		case strings.EqualFold(args[1], "true"):
			accepted = true
		case strings.EqualFold(args[1], "false"):
		default:
			return nil, malformed("RESTART_RESPONSE: bad boolean %q", args[1])
		}
		return &RestartResponse{ClientID: args[0], Accepted: accepted}, nil
	}
	return nil, malformed("unknown message kind %q", fields[0])
}

func parseInt(what, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, malformed("%s: not an integer: %q", what, s)
	}
	return n, nil
}

func escapeInto(b *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == fieldSep || c == escapeSym {
			b.WriteByte(escapeSym)
		}
		b.WriteByte(c)
	}
}

// normalizeRole 大写化角色名，无法识别的返回空串
func normalizeRole(role string) string {
	switch r := strings.ToUpper(role); r {
	case "FISH", "CRAB":
		return r
	}
	return ""
}

// splitFields 按未转义的分隔符切分，同一遍完成反转义；末尾孤立的反斜杠丢弃
func splitFields(line string) []string {
	var (
		fields []string
		cur    strings.Builder
		escape bool
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case escape:
			cur.WriteByte(c)
			escape = false
		case c == escapeSym:
			escape = true
		case c == fieldSep:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(fields, cur.String())
}
