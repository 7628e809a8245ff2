package server

import (
	"symbiosis/game"
	"symbiosis/protocol"
)

// direction 将移动输入映射为单位位移；ACTION 与 STOP 返回 ok=false
func direction(t protocol.InputType) (d game.Point, ok bool) {
	switch t {
	case protocol.InputMoveUp:
		return game.Up, true
	case protocol.InputMoveDown:
		return game.Down, true
	case protocol.InputMoveLeft:
		return game.Left, true
	case protocol.InputMoveRight:
		return game.Right, true
	}
	return game.Point{}, false
}
