package game

import "testing"

// newTestState 由行数据构建状态并放置指定玩家
func newTestState(rows []string, fish, crab *Point) *State {
	st := Level{Rows: rows}.Build()
	if fish != nil {
		st.SetPlayer(&Player{ID: "f", Name: "Fish", Role: RoleFish, Pos: *fish})
	}
	if crab != nil {
		st.SetPlayer(&Player{ID: "c", Name: "Crab", Role: RoleCrab, Pos: *crab})
	}
	return st
}

var pushRows = []string{
	"########",
	"#......#",
	"#......#",
	"#......#",
	"#......#",
	"#..B...#",
	"#......#",
	"########",
}

func TestCrabPushesBox(t *testing.T) {
	st := newTestState(pushRows, nil, &Point{2, 5})
	if got := st.Move(RoleCrab, Right); got != MovePushed {
		t.Fatalf("Move = %v, want pushed", got)
	}
	if st.Crab.Pos != (Point{3, 5}) {
		t.Fatalf("crab at %v", st.Crab.Pos)
	}
	if st.ObjectAt(Point{4, 5}, Box) == nil {
		t.Fatal("box should be at (4,5)")
	}
}

func TestPushIntoWallIsAtomic(t *testing.T) {
	rows := []string{
		"######",
		"#..B##",
		"######",
	}
	st := newTestState(rows, nil, &Point{2, 1})
	if got := st.Move(RoleCrab, Right); got != MoveRejected {
		t.Fatalf("Move = %v, want rejected", got)
	}
	if st.Crab.Pos != (Point{2, 1}) || st.ObjectAt(Point{3, 1}, Box) == nil {
		t.Fatal("neither crab nor box may move")
	}
}

func TestPushBlockedByObjectOrPlayer(t *testing.T) {
	cases := []struct {
		name string
		rows []string
		fish *Point
	}{
		{"box behind box", []string{"#######", "#..BB.#", "#######"}, nil},
		{"rock behind box", []string{"#######", "#..BR.#", "#######"}, nil},
		{"fish behind box", []string{"#######", "#..B..#", "#######"}, &Point{4, 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := newTestState(tc.rows, tc.fish, &Point{2, 1})
			if got := st.Move(RoleCrab, Right); got != MoveRejected {
				t.Fatalf("Move = %v, want rejected", got)
			}
			if st.Crab.Pos != (Point{2, 1}) || st.ObjectAt(Point{3, 1}, Box) == nil {
				t.Fatal("partial push")
			}
		})
	}
}

func TestFishCannotPushOrPassBox(t *testing.T) {
	st := newTestState(pushRows, &Point{2, 5}, nil)
	if got := st.Move(RoleFish, Right); got != MoveRejected {
		t.Fatalf("Move = %v, want rejected", got)
	}
	if st.Fish.Pos != (Point{2, 5}) || st.ObjectAt(Point{3, 5}, Box) == nil {
		t.Fatal("fish must not move the box")
	}
}

func TestMoveNeverEntersWallOrRock(t *testing.T) {
	rows := []string{
		"#####",
		"#.R.#",
		"#...#",
		"#####",
	}
	st := newTestState(rows, &Point{1, 1}, &Point{1, 2})
	dirs := []Point{Up, Left, Right, Down, Right, Right, Up, Up, Left, Left, Down, Down, Down}
	for _, d := range dirs {
		for _, r := range Roles {
			st.Move(r, d)
			p := st.Player(r).Pos
			if !st.Map.IsWalkable(p) || st.Blocked(p) {
				t.Fatalf("%s ended on %v which is blocked", r, p)
			}
		}
	}
}

func TestFishLightsMushroomOnce(t *testing.T) {
	rows := []string{
		"#####",
		"#.M.#",
		"#####",
	}
	st := newTestState(rows, &Point{1, 1}, nil)
	if st.Move(RoleFish, Right) != MoveStepped {
		t.Fatal("fish should step onto the mushroom")
	}
	m := st.ObjectAt(Point{2, 1}, Mushroom)
	if !m.Active {
		t.Fatal("mushroom should be lit")
	}
	if st.ActivateMushroomAt(Point{2, 1}) {
		t.Fatal("second activation must be a no-op")
	}
	st.Move(RoleFish, Right)
	if !m.Active {
		t.Fatal("activation is permanent")
	}
}

func TestCrabDoesNotLightMushroom(t *testing.T) {
	rows := []string{"#####", "#.M.#", "#####"}
	st := newTestState(rows, nil, &Point{1, 1})
	st.Move(RoleCrab, Right)
	if st.ObjectAt(Point{2, 1}, Mushroom).Active {
		t.Fatal("crab must not light mushrooms")
	}
}

func TestCheckCompletedLatches(t *testing.T) {
	rows := []string{
		"######",
		"#.EE.#",
		"######",
	}
	st := newTestState(rows, &Point{2, 1}, &Point{4, 1})
	if st.CheckCompleted() {
		t.Fatal("crab is not on an exit yet")
	}
	st.Move(RoleCrab, Left)
	if !st.CheckCompleted() || !st.Completed {
		t.Fatal("both on exits should complete")
	}
	if st.CheckCompleted() {
		t.Fatal("completion reports only the transition")
	}
	st.Move(RoleCrab, Right)
	st.CheckCompleted()
	if !st.Completed {
		t.Fatal("completion is latched")
	}
}

func TestCheckCompletedNeedsBothPlayers(t *testing.T) {
	st := newTestState([]string{"#E#"}, &Point{1, 0}, nil)
	if st.CheckCompleted() {
		t.Fatal("single player cannot complete")
	}
}

func TestPlayerByID(t *testing.T) {
	st := newTestState(pushRows, &Point{1, 1}, &Point{2, 2})
	if st.PlayerByID("c") != st.Crab || st.PlayerByID("f") != st.Fish || st.PlayerByID("x") != nil {
		t.Fatal("PlayerByID mismatch")
	}
}
