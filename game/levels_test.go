package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultLevelsValid(t *testing.T) {
	ls := DefaultLevels()
	if err := ls.Validate(); err != nil {
		t.Fatal(err)
	}
	if len(ls) != 6 {
		t.Fatalf("len = %d, want 6", len(ls))
	}
	if got := ls[0].Spawn(RoleCrab); got != (Point{2, 5}) {
		t.Fatalf("level 0 crab spawn = %v", got)
	}
}

func TestBuildParsesObjects(t *testing.T) {
	l := Level{
		Rows: []string{
			"#####",
			"#MBR#",
			"#E.L#",
			"#####",
		},
		Spawns: spawns(Point{2, 2}, Point{2, 2}),
	}
	st := l.Build()
	if st.Map.Width != 5 || st.Map.Height != 4 {
		t.Fatalf("size %dx%d", st.Map.Width, st.Map.Height)
	}
	if len(st.Objects) != 3 {
		t.Fatalf("objects = %d", len(st.Objects))
	}
	if st.ObjectAt(Point{1, 1}, Mushroom) == nil || st.ObjectAt(Point{2, 1}, Box) == nil || st.ObjectAt(Point{3, 1}, Rock) == nil {
		t.Fatal("objects not placed")
	}
	if st.Map.At(Point{1, 2}) != TileExit || st.Map.At(Point{3, 2}) != TileLight {
		t.Fatal("terrain not parsed")
	}
	if st.Completed || st.Fish != nil || st.Crab != nil {
		t.Fatal("fresh state must be empty")
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name string
		lvl  Level
		want string
	}{
		{"no rows", Level{}, "no rows"},
		{"ragged", Level{Rows: []string{"###", "##"}}, "width"},
		{"missing spawn", Level{Rows: []string{"..."}, Spawns: map[Role]Point{RoleFish: {0, 0}}}, "missing CRAB"},
		{"spawn on wall", Level{Rows: []string{"#.."}, Spawns: spawns(Point{0, 0}, Point{1, 0})}, "not walkable"},
		{"spawn on box", Level{Rows: []string{"B.."}, Spawns: spawns(Point{1, 0}, Point{0, 0})}, "covered"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.lvl.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want containing %q", err, tc.want)
			}
		})
	}
}

func TestLoadLevels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "levels.json")
	data := `{"levels":[{"name":"tiny","rows":["#####","#..E#","#####"],
		"spawns":{"FISH":{"x":1,"y":1},"crab":{"x":2,"y":1}}}]}`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	ls, err := LoadLevels(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(ls) != 1 || ls[0].Name != "tiny" {
		t.Fatalf("unexpected table %+v", ls)
	}
	if ls[0].Spawn(RoleCrab) != (Point{2, 1}) {
		t.Fatalf("crab spawn = %v", ls[0].Spawn(RoleCrab))
	}
}

func TestLoadLevelsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "levels.json")
	if err := os.WriteFile(path, []byte(`{"levels":[]}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadLevels(path); err == nil {
		t.Fatal("empty table should fail")
	}
	if _, err := LoadLevels(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("missing file should fail")
	}
}

func TestLevelsNext(t *testing.T) {
	ls := DefaultLevels()
	if ls.Next(0) != 1 || ls.Next(len(ls)-1) != 0 {
		t.Fatal("Next must wrap")
	}
	if ls.Valid(-1) || ls.Valid(len(ls)) || !ls.Valid(0) {
		t.Fatal("Valid bounds wrong")
	}
}
