package protocol

import (
	"strconv"
	"strings"
)

// Coord 快照中的格子坐标
type Coord struct {
	X, Y int
}

// ObjectRecord 快照物体列表中的一项，Type 为 'M'（蘑菇）、'B'（箱子）或 'R'（岩石）
type ObjectRecord struct {
	Type   byte
	X, Y   int
	Active bool
}

// Snapshot 解码后的 STATE_UPDATE 负载，Fish 或 Crab 为 nil 表示该角色不在场
type Snapshot struct {
	Fish      *Coord
	Crab      *Coord
	Objects   []ObjectRecord
	Completed bool
}

// FormatSnapshot 按负载语法渲染 s：
//
//	F:x,y;C:x,y;O:M,x,y,0/B,x,y,0;D:1
//
// 不在场的实体与未完成标志省略
func FormatSnapshot(s Snapshot) string {
	segs := make([]string, 0, 4)
	if s.Fish != nil {
		segs = append(segs, "F:"+formatCoord(*s.Fish))
	}
	if s.Crab != nil {
		segs = append(segs, "C:"+formatCoord(*s.Crab))
	}
	if len(s.Objects) > 0 {
		recs := make([]string, len(s.Objects))
		for i, o := range s.Objects {
			active := "0"
			if o.Active {
				active = "1"
			}
			recs[i] = string(o.Type) + "," + strconv.Itoa(o.X) + "," + strconv.Itoa(o.Y) + "," + active
		}
		segs = append(segs, "O:"+strings.Join(recs, "/"))
	}
	if s.Completed {
		segs = append(segs, "D:1")
	}
	return strings.Join(segs, ";")
}

// ParseSnapshot 解码 STATE_UPDATE 负载，键不区分大小写，未知键跳过
func ParseSnapshot(payload string) (Snapshot, error) {
	var s Snapshot
	for _, seg := range strings.Split(payload, ";") {
		if seg == "" {
			continue
		}
		key, val, ok := strings.Cut(seg, ":")
		if !ok {
			return Snapshot{}, malformed("snapshot segment %q has no key", seg)
		}
		switch strings.ToUpper(key) {
		case "F":
			c, err := parseCoord(val)
			if err != nil {
				return Snapshot{}, err
			}
			s.Fish = &c
		case "C":
			c, err := parseCoord(val)
			if err != nil {
				return Snapshot{}, err
			}
			s.Crab = &c
		case "O":
			objs, err := parseObjects(val)
			if err != nil {
				return Snapshot{}, err
			}
			s.Objects = objs
		case "D":
			s.Completed = val == "1"
		}
	}
	return s, nil
}

func formatCoord(c Coord) string {
	return strconv.Itoa(c.X) + "," + strconv.Itoa(c.Y)
}

func parseCoord(s string) (Coord, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return Coord{}, malformed("bad coordinate %q", s)
	}
	x, err := parseInt("coordinate x", xs)
	if err != nil {
		return Coord{}, err
	}
	y, err := parseInt("coordinate y", ys)
	if err != nil {
		return Coord{}, err
	}
	return Coord{X: x, Y: y}, nil
}

func parseObjects(s string) ([]ObjectRecord, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, "/")
	objs := make([]ObjectRecord, 0, len(parts))
	for _, p := range parts {
		f := strings.Split(p, ",")
		if len(f) != 4 || len(f[0]) != 1 {
			return nil, malformed("bad object record %q", p)
		}
		t := strings.ToUpper(f[0])[0]
		if t != 'M' && t != 'B' && t != 'R' {
			return nil, malformed("unknown object type %q", f[0])
		}
		x, err := parseInt("object x", f[1])
		if err != nil {
			return nil, err
		}
		y, err := parseInt("object y", f[2])
		if err != nil {
			return nil, err
		}
		objs = append(objs, ObjectRecord{Type: t, X: x, Y: y, Active: f[3] == "1"})
	}
	return objs, nil
}
