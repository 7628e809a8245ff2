package game

// Tile 单个格子不可变的地形类型
type Tile uint8

const (
	TileWall Tile = iota
	TileEmpty
	TileExit
	TileDark
	TileLight
)

func (t Tile) String() string {
	switch t {
	case TileWall:
		return "WALL"
	case TileEmpty:
		return "EMPTY"
	case TileExit:
		return "EXIT"
	case TileDark:
		return "DARK"
	case TileLight:
		return "LIGHT"
	}
	return "UNKNOWN"
}

// Walkable 玩家或物体能否占据该格
func (t Tile) Walkable() bool {
	return t != TileWall
}

// tileFromByte 关卡字符到地形的映射，物体字符下方是空地
func tileFromByte(c byte) Tile {
	switch c {
	case '#':
		return TileWall
	case 'E':
		return TileExit
	case 'D':
		return TileDark
	case 'L':
		return TileLight
	}
	return TileEmpty
}
