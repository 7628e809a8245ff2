package game

// 四个移动方向的单位位移
var (
	Up    = Point{X: 0, Y: -1}
	Down  = Point{X: 0, Y: 1}
	Left  = Point{X: -1, Y: 0}
	Right = Point{X: 1, Y: 0}
)

// MoveResult 一次移动尝试对状态的影响
type MoveResult uint8

const (
	MoveRejected MoveResult = iota
	MoveStepped
	MovePushed
)

func (r MoveResult) String() string {
	switch r {
	case MoveStepped:
		return "stepped"
	case MovePushed:
		return "pushed"
	}
	return "rejected"
}

// State 已加载关卡的完整世界，每次加载关卡整体替换，非并发安全
type State struct {
	Map       *Map
	Fish      *Player
	Crab      *Player
	Objects   []*Object
	Completed bool
}

// Player 返回持有角色 r 的玩家，没有则为 nil
func (s *State) Player(r Role) *Player {
	if r == RoleCrab {
		return s.Crab
	}
	return s.Fish
}

// SetPlayer 将 p 放入其角色槽位
func (s *State) SetPlayer(p *Player) {
	if p.Role == RoleCrab {
		s.Crab = p
	} else {
		s.Fish = p
	}
}

// PlayerByID 按连接 id 查找玩家
func (s *State) PlayerByID(id string) *Player {
	for _, r := range Roles {
		if p := s.Player(r); p != nil && p.ID == id {
			return p
		}
	}
	return nil
}

func (s *State) playerAt(p Point) *Player {
	for _, r := range Roles {
		if pl := s.Player(r); pl != nil && pl.Pos == p {
			return pl
		}
	}
	return nil
}

// ObjectAt 返回 p 处类型为 k 的物体，没有则为 nil
func (s *State) ObjectAt(p Point, k ObjectKind) *Object {
	for _, o := range s.Objects {
		if o.Kind == k && o.Pos == p {
			return o
		}
	}
	return nil
}

// Blocked p 是否被阻挡物占据
func (s *State) Blocked(p Point) bool {
	for _, o := range s.Objects {
		if o.Pos == p && o.Kind.Blocking() {
			return true
		}
	}
	return false
}

// ActivateMushroomAt 点亮 p 处所有未点亮的蘑菇，返回是否有变化
func (s *State) ActivateMushroomAt(p Point) bool {
	changed := false
	for _, o := range s.Objects {
		if o.Kind == Mushroom && o.Pos == p && !o.Active {
			o.Active = true
			changed = true
		}
	}
	return changed
}

// Move 让持有 role 的玩家沿 d 走一步。螃蟹撞上箱子时，若箱子后方空闲则推动，
// 推动要么人箱同时移动，要么都不动。鱼不能推箱，踩上蘑菇即点亮
func (s *State) Move(role Role, d Point) MoveResult {
	pl := s.Player(role)
	if pl == nil {
		return MoveRejected
	}
	target := pl.Pos.Add(d)

	if box := s.ObjectAt(target, Box); box != nil && role == RoleCrab {
		beyond := target.Add(d)
		if !s.Map.IsWalkable(beyond) || s.Blocked(beyond) || s.playerAt(beyond) != nil {
			return MoveRejected
		}
		box.Pos = beyond
		pl.Pos = target
		return MovePushed
	}

	if !s.Map.IsWalkable(target) || s.Blocked(target) {
		return MoveRejected
	}
	pl.Pos = target
	if role == RoleFish {
		s.ActivateMushroomAt(target)
	}
	return MoveStepped
}

// CheckCompleted 双方都站在出口时锁存 Completed，只在状态翻转时返回 true
func (s *State) CheckCompleted() bool {
	if s.Completed || s.Fish == nil || s.Crab == nil {
		return false
	}
	if s.Map.At(s.Fish.Pos) == TileExit && s.Map.At(s.Crab.Pos) == TileExit {
		s.Completed = true
		return true
	}
	return false
}
