package game

import (
	"fmt"
	"strings"
)

// Role 玩家的固定能力集合
type Role uint8

const (
	RoleFish Role = iota
	RoleCrab
)

// Roles 按分配顺序列出所有角色
var Roles = [...]Role{RoleFish, RoleCrab}

func (r Role) String() string {
	if r == RoleCrab {
		return "CRAB"
	}
	return "FISH"
}

// Other 返回搭档角色
func (r Role) Other() Role {
	if r == RoleFish {
		return RoleCrab
	}
	return RoleFish
}

// ParseRole 接受任意大小写的 "FISH" 或 "CRAB"
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(s) {
	case "FISH":
		return RoleFish, nil
	case "CRAB":
		return RoleCrab, nil
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

// MarshalText 使角色可作为 JSON 对象的键
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	v, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Player 关卡内的一名已连接玩家
type Player struct {
	ID        string
	Name      string
	Role      Role
	Pos       Point
	Connected bool
}
