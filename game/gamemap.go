package game

// Point 格子坐标，X 向右增长，Y 向下增长
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add 返回 p 平移 d 后的坐标
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Map 单个关卡的定长格子地图
type Map struct {
	Width, Height int
	tiles         []Tile
}

// NewMap 创建全部为墙的地图
func NewMap(width, height int) *Map {
	return &Map{Width: width, Height: height, tiles: make([]Tile, width*height)}
}

// InBounds 判断 p 是否在地图内
func (m *Map) InBounds(p Point) bool {
	return p.X >= 0 && p.X < m.Width && p.Y >= 0 && p.Y < m.Height
}

// At 返回 p 处地形，越界视为墙
func (m *Map) At(p Point) Tile {
	if !m.InBounds(p) {
		return TileWall
	}
	return m.tiles[p.Y*m.Width+p.X]
}

// Set 替换 p 处地形，越界写入忽略
func (m *Map) Set(p Point, t Tile) {
	if m.InBounds(p) {
		m.tiles[p.Y*m.Width+p.X] = t
	}
}

// IsWalkable p 在界内且不是墙
func (m *Map) IsWalkable(p Point) bool {
	return m.At(p).Walkable()
}
