package game

// ObjectKind 关卡物体类型
type ObjectKind uint8

const (
	Mushroom ObjectKind = iota
	Box
	Rock
)

// Code 关卡行与快照中使用的单字母标记
func (k ObjectKind) Code() byte {
	switch k {
	case Box:
		return 'B'
	case Rock:
		return 'R'
	}
	return 'M'
}

func (k ObjectKind) String() string {
	switch k {
	case Box:
		return "BOX"
	case Rock:
		return "ROCK"
	}
	return "MUSHROOM"
}

// Blocking 阻挡物不能与玩家或其他阻挡物同格
func (k ObjectKind) Blocking() bool {
	return k == Box || k == Rock
}

func objectKindFromByte(c byte) (ObjectKind, bool) {
	switch c {
	case 'M':
		return Mushroom, true
	case 'B':
		return Box, true
	case 'R':
		return Rock, true
	}
	return 0, false
}

// Object 地图上的蘑菇、箱子或岩石。Active 只对蘑菇有意义，点亮后永久保持
type Object struct {
	Kind   ObjectKind
	Pos    Point
	Active bool
}
