package server

import (
	"fmt"
	"strings"

	"symbiosis/game"
	"symbiosis/protocol"
)

// Session 一局双人游戏的权威状态：当前关卡、角色归属、通关后的投票与重开握手。
// 方法非并发安全，由 Simulation 串行调用
type Session struct {
	levels game.Levels
	level  int
	state  *game.State

	seats       [len(game.Roles)]*seat
	votes       map[game.Role]int
	restartFrom Peer // 待处理重开请求的发起者

	out     Broadcaster
	metrics *Metrics
}

// NewSession 创建会话，加载第 0 关，无玩家
func NewSession(levels game.Levels, out Broadcaster, metrics *Metrics) *Session {
	if metrics == nil {
		metrics = &Metrics{}
	}
	s := &Session{
		levels:  levels,
		votes:   make(map[game.Role]int),
		out:     out,
		metrics: metrics,
	}
	s.loadLevel(0)
	return s
}

// Join 为 p 分配角色（偏好角色空闲时优先），向 p 发送 ROLE_ASSIGNED 与 LEVEL_DATA，
// 然后广播状态。每次加入都重建关卡并让双方回到出生点
func (s *Session) Join(p Peer, m *protocol.Join) {
	if r, ok := s.roleOf(p); ok {
		p.Send(&protocol.RoleAssigned{PlayerID: p.ID(), Role: r.String()})
		p.Send(s.levelData())
		s.broadcastState()
		return
	}

	level := s.level
	if s.empty() && s.levels.Valid(m.PreferredLevel) {
		level = m.PreferredLevel
	}

	role, ok := s.pickRole(m.PreferredRole)
	if !ok {
		Log.Infow("join refused, session full", "conn", p.ID(), "name", m.Name)
		p.Send(&protocol.Error{Code: protocol.ErrCodeFull, Text: "server already has two players"})
		return
	}

	// 重建关卡：单人期间推动过的箱子可能压在新玩家的出生点上
	s.seats[role] = &seat{peer: p, name: m.Name}
	s.resetLevel(level)
	Log.Infow("role assigned", "conn", p.ID(), "name", m.Name, "role", role, "level", s.level)

	p.Send(&protocol.RoleAssigned{PlayerID: p.ID(), Role: role.String()})
	p.Send(s.levelData())
	s.broadcastState()
}

// Input 应用 m.ClientID 对应玩家的一次输入，未知 id 忽略
func (s *Session) Input(m *protocol.Input) {
	pl := s.state.PlayerByID(m.ClientID)
	if pl == nil {
		return
	}

	if s.state.Completed {
		if m.Type == protocol.InputAction {
			s.postWinAction(pl.Role)
		}
		return
	}

	switch m.Type {
	case protocol.InputStop:
		return
	case protocol.InputAction:
		if pl.Role != game.RoleFish {
			return
		}
		s.metrics.IncInputs()
		s.state.ActivateMushroomAt(pl.Pos)
		s.checkCompleted()
		s.broadcastState()
		return
	}

	d, ok := direction(m.Type)
	if !ok {
		return
	}
	s.metrics.IncInputs()
	switch s.state.Move(pl.Role, d) {
	case game.MoveRejected:
		s.metrics.IncRejected()
	case game.MovePushed:
		s.metrics.IncPushes()
	}
	s.checkCompleted()
	s.broadcastState()
}

// Chat 原样转发给所有连接
func (s *Session) Chat(m *protocol.Chat) {
	s.out.Broadcast(m)
}

// Vote 记录 p 通关后的选关。双方都投票后一致则换关，不一致则通知双方重投
func (s *Session) Vote(p Peer, levelIndex int) {
	if !s.state.Completed {
		p.Send(&protocol.Error{Code: protocol.ErrCodeVoteDenied, Text: "voting opens once the level is completed"})
		return
	}
	if levelIndex != protocol.AutoLevel && !s.levels.Valid(levelIndex) {
		p.Send(&protocol.Error{Code: protocol.ErrCodeBadVote, Text: fmt.Sprintf("level %d does not exist", levelIndex)})
		return
	}
	role, ok := s.roleOf(p)
	if !ok {
		return
	}
	s.votes[role] = levelIndex

	fishVote, fishOK := s.votes[game.RoleFish]
	crabVote, crabOK := s.votes[game.RoleCrab]
	if !fishOK || !crabOK {
		return
	}
	s.clearVotes()

	if fishVote != crabVote {
		Log.Infow("vote conflict", "fish", fishVote, "crab", crabVote)
		fail := &protocol.Error{Code: protocol.ErrCodeVoteFail, Text: "both players must pick the same level"}
		for _, st := range s.seats {
			if st != nil {
				st.peer.Send(fail)
			}
		}
		return
	}

	target := fishVote
	if target == protocol.AutoLevel {
		target = s.levels.Next(s.level)
	}
	Log.Infow("vote agreed", "level", target)
	s.changeLevel(target)
}

// RestartRequest 发起重开握手；没有搭档时立即重开
func (s *Session) RestartRequest(p Peer) {
	if s.restartFrom != nil {
		return
	}
	role, ok := s.roleOf(p)
	if !ok {
		return
	}
	partner := s.seats[role.Other()]
	if partner == nil {
		s.changeLevel(s.level)
		return
	}
	s.restartFrom = p
	partner.peer.Send(&protocol.RestartOffer{FromName: s.seats[role].name})
	Log.Infow("restart offered", "from", p.ID(), "to", partner.peer.ID())
}

// RestartResponse 完成握手，只有发起者的搭档可以应答
func (s *Session) RestartResponse(p Peer, accepted bool) {
	if s.restartFrom == nil {
		return
	}
	if _, ok := s.roleOf(p); !ok || p.ID() == s.restartFrom.ID() {
		return
	}
	if !accepted {
		s.restartFrom.Send(&protocol.Error{Code: protocol.ErrCodeRestartDeclined, Text: "partner declined the restart"})
		s.restartFrom = nil
		Log.Infow("restart declined", "by", p.ID())
		return
	}
	Log.Infow("restart accepted", "by", p.ID(), "level", s.level)
	s.changeLevel(s.level)
}

// Disconnect 已绑定连接离开时结束对局：释放两个角色，清空重载关卡并通知其余连接
func (s *Session) Disconnect(p Peer) {
	role, ok := s.roleOf(p)
	if !ok {
		return
	}
	Log.Infow("player left", "conn", p.ID(), "role", role)

	s.seats = [len(game.Roles)]*seat{}
	s.clearVotes()
	s.restartFrom = nil
	s.loadLevel(s.level)

	s.out.Broadcast(&protocol.Error{
		Code: protocol.ErrCodePlayerLeft,
		Text: fmt.Sprintf("the %s left the game, rejoin to play again", strings.ToLower(role.String())),
	})
}

// PlayerSummary 管理端点中的单个角色
type PlayerSummary struct {
	Role string `json:"role"`
	ID   string `json:"id"`
	Name string `json:"name"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// SessionSummary 会话的时间点视图
type SessionSummary struct {
	Level          int             `json:"level"`
	LevelName      string          `json:"levelName,omitempty"`
	LevelCount     int             `json:"levelCount"`
	Completed      bool            `json:"completed"`
	RestartPending bool            `json:"restartPending"`
	Votes          map[string]int  `json:"votes,omitempty"`
	Players        []PlayerSummary `json:"players"`
}

// Summary 报告当前关卡、玩家与握手状态
func (s *Session) Summary() SessionSummary {
	sum := SessionSummary{
		Level:          s.level,
		LevelName:      s.levels[s.level].Name,
		LevelCount:     len(s.levels),
		Completed:      s.state.Completed,
		RestartPending: s.restartFrom != nil,
		Players:        []PlayerSummary{},
	}
	if len(s.votes) > 0 {
		sum.Votes = make(map[string]int, len(s.votes))
		for r, v := range s.votes {
			sum.Votes[r.String()] = v
		}
	}
	for _, r := range game.Roles {
		if pl := s.state.Player(r); pl != nil {
			sum.Players = append(sum.Players, PlayerSummary{
				Role: r.String(), ID: pl.ID, Name: pl.Name, X: pl.Pos.X, Y: pl.Pos.Y,
			})
		}
	}
	return sum
}

func (s *Session) postWinAction(r game.Role) {
	if r == game.RoleFish {
		Log.Infow("advancing level after win", "from", s.level)
		s.changeLevel(s.levels.Next(s.level))
		return
	}
	Log.Infow("restarting level after win", "level", s.level)
	s.changeLevel(s.level)
}

// changeLevel 切到第 i 关，重发地形与状态快照
func (s *Session) changeLevel(i int) {
	s.resetLevel(i)
	s.out.Broadcast(s.levelData())
	s.broadcastState()
}

// resetLevel 重建第 i 关，已绑定角色回到出生点
func (s *Session) resetLevel(i int) {
	s.loadLevel(i)
	for _, r := range game.Roles {
		if s.seats[r] != nil {
			s.state.SetPlayer(s.newPlayer(r))
		}
	}
	s.clearVotes()
	s.restartFrom = nil
}

func (s *Session) loadLevel(i int) {
	s.level = i
	s.state = s.levels[i].Build()
	s.metrics.IncLevelsLoaded()
	Log.Debugw("level loaded", "level", i, "name", s.levels[i].Name)
}

func (s *Session) newPlayer(r game.Role) *game.Player {
	st := s.seats[r]
	return &game.Player{
		ID:        st.peer.ID(),
		Name:      st.name,
		Role:      r,
		Pos:       s.levels[s.level].Spawn(r),
		Connected: true,
	}
}

func (s *Session) checkCompleted() {
	if s.state.CheckCompleted() {
		s.clearVotes()
		Log.Infow("level completed", "level", s.level)
	}
}

func (s *Session) clearVotes() {
	for r := range s.votes {
		delete(s.votes, r)
	}
}

func (s *Session) roleOf(p Peer) (game.Role, bool) {
	for _, r := range game.Roles {
		if st := s.seats[r]; st != nil && st.peer.ID() == p.ID() {
			return r, true
		}
	}
	return 0, false
}

func (s *Session) empty() bool {
	for _, st := range s.seats {
		if st != nil {
			return false
		}
	}
	return true
}

// pickRole 偏好角色空闲则用之，否则按 FISH、CRAB 顺序取第一个空位
func (s *Session) pickRole(preferred string) (game.Role, bool) {
	if preferred != "" {
		if r, err := game.ParseRole(preferred); err == nil && s.seats[r] == nil {
			return r, true
		}
	}
	for _, r := range game.Roles {
		if s.seats[r] == nil {
			return r, true
		}
	}
	return 0, false
}

func (s *Session) levelData() *protocol.LevelData {
	l := s.levels[s.level]
	return &protocol.LevelData{
		Width:  l.Width(),
		Height: l.Height(),
		Rows:   append([]string(nil), l.Rows...),
	}
}

func (s *Session) snapshot() protocol.Snapshot {
	var snap protocol.Snapshot
	if f := s.state.Fish; f != nil {
		snap.Fish = &protocol.Coord{X: f.Pos.X, Y: f.Pos.Y}
	}
	if c := s.state.Crab; c != nil {
		snap.Crab = &protocol.Coord{X: c.Pos.X, Y: c.Pos.Y}
	}
	for _, o := range s.state.Objects {
		snap.Objects = append(snap.Objects, protocol.ObjectRecord{
			Type: o.Kind.Code(), X: o.Pos.X, Y: o.Pos.Y, Active: o.Active,
		})
	}
	snap.Completed = s.state.Completed
	return snap
}

func (s *Session) broadcastState() {
	s.out.Broadcast(&protocol.StateUpdate{Payload: protocol.FormatSnapshot(s.snapshot())})
}
