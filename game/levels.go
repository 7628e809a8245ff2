package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Level 关卡表中的一项：原样下发给客户端的行数据，以及每个角色固定的出生点
type Level struct {
	Name   string         `json:"name,omitempty"`
	Rows   []string       `json:"rows"`
	Spawns map[Role]Point `json:"spawns"`
}

// Width 首行长度
func (l Level) Width() int {
	if len(l.Rows) == 0 {
		return 0
	}
	return len(l.Rows[0])
}

// Height 行数
func (l Level) Height() int { return len(l.Rows) }

// Spawn 角色 r 的出生点
func (l Level) Spawn(r Role) Point {
	return l.Spawns[r]
}

// Build 解析行数据，生成无玩家的新状态
func (l Level) Build() *State {
	m := NewMap(l.Width(), l.Height())
	st := &State{Map: m}
	for y, row := range l.Rows {
		for x := 0; x < len(row) && x < m.Width; x++ {
			p := Point{X: x, Y: y}
			m.Set(p, tileFromByte(row[x]))
			if k, ok := objectKindFromByte(row[x]); ok {
				st.Objects = append(st.Objects, &Object{Kind: k, Pos: p})
			}
		}
	}
	return st
}

// Validate 检查行数据为矩形，且每个角色的出生点可走、无阻挡物
func (l Level) Validate() error {
	if len(l.Rows) == 0 {
		return errors.New("no rows")
	}
	w := l.Width()
	if w == 0 {
		return errors.New("empty first row")
	}
	for i, row := range l.Rows {
		if len(row) != w {
			return fmt.Errorf("row %d has width %d, want %d", i, len(row), w)
		}
	}
	st := l.Build()
	for _, r := range Roles {
		p, ok := l.Spawns[r]
		if !ok {
			return fmt.Errorf("missing %s spawn", r)
		}
		if !st.Map.IsWalkable(p) {
			return fmt.Errorf("%s spawn %v is not walkable", r, p)
		}
		if st.Blocked(p) {
			return fmt.Errorf("%s spawn %v is covered by an object", r, p)
		}
	}
	return nil
}

// Levels 有序关卡表
type Levels []Level

// Validate 逐关校验
func (ls Levels) Validate() error {
	if len(ls) == 0 {
		return errors.New("level table is empty")
	}
	for i, l := range ls {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("level %d: %w", i, err)
		}
	}
	return nil
}

// Valid i 是否为合法关卡下标
func (ls Levels) Valid(i int) bool {
	return i >= 0 && i < len(ls)
}

// Next 返回下一关下标，末关之后回到 0
func (ls Levels) Next(i int) int {
	return (i + 1) % len(ls)
}

type levelFile struct {
	Levels Levels `json:"levels"`
}

// LoadLevels 读取并校验 JSON 关卡表
func LoadLevels(path string) (Levels, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level table: %w", err)
	}
	var f levelFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse level table %s: %w", path, err)
	}
	if err := f.Levels.Validate(); err != nil {
		return nil, fmt.Errorf("level table %s: %w", path, err)
	}
	return f.Levels, nil
}

func spawns(fish, crab Point) map[Role]Point {
	return map[Role]Point{RoleFish: fish, RoleCrab: crab}
}

// DefaultLevels 内置关卡表
func DefaultLevels() Levels {
	fish := Point{X: 1, Y: 1}
	return Levels{
		{
			Name: "first light",
			Rows: []string{
				"############",
				"#..........#",
				"#..D....L..#",
				"#..####....#",
				"#..#..M....#",
				"#..#..B....#",
				"#......E...#",
				"############",
			},
			Spawns: spawns(fish, Point{X: 2, Y: 5}),
		},
		{
			Name: "two boxes",
			Rows: []string{
				"############",
				"#..M....B..#",
				"#..####....#",
				"#..D.......#",
				"#......L...#",
				"#..B....M..#",
				"#...E......#",
				"############",
			},
			Spawns: spawns(fish, Point{X: 10, Y: 5}),
		},
		{
			Name: "corridor",
			Rows: []string{
				"############",
				"#..D....M..#",
				"#..####....#",
				"#..B....L..#",
				"#..#..B....#",
				"#..#....M..#",
				"#...E......#",
				"############",
			},
			Spawns: spawns(fish, Point{X: 2, Y: 6}),
		},
		{
			Name: "west exit",
			Rows: []string{
				"############",
				"#..M....B..#",
				"###.####...#",
				"#..D....L..#",
				"#..B..M....#",
				"#..####....#",
				"#E.......B.#",
				"############",
			},
			Spawns: spawns(fish, Point{X: 8, Y: 6}),
		},
		{
			Name: "garden",
			Rows: []string{
				"############",
				"#M...B..D..#",
				"#.####.###.#",
				"#...L..M...#",
				"#.B..###...#",
				"#...B...M..#",
				"#..E.......#",
				"############",
			},
			Spawns: spawns(fish, Point{X: 2, Y: 6}),
		},
		{
			Name: "deep cave",
			Rows: []string{
				"############",
				"#..M....B..#",
				"#.####.###.#",
				"#..D....L..#",
				"#..B..M....#",
				"#.####.###.#",
				"#....B.....#",
				"#..M....B..#",
				"#...E......#",
				"############",
			},
			Spawns: spawns(fish, Point{X: 9, Y: 7}),
		},
	}
}
