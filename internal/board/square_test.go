package board

import (
	"errors"
	"testing"
)

func TestCoordRoundTrip(t *testing.T) {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			c, err := NewCoord(row, col)
			if err != nil {
				t.Fatalf("NewCoord(%d, %d): %v", row, col, err)
			}
			got, err := ParseCoord(c.String())
			if err != nil {
				t.Fatalf("ParseCoord(%q): %v", c, err)
			}
			if got != c {
				t.Errorf("ParseCoord(%q) = %v, want %v", c, got, c)
			}
		}
	}
}

func TestParseCoord(t *testing.T) {
	c, err := ParseCoord("e4")
	if err != nil {
		t.Fatal(err)
	}
	if c.Row() != 3 || c.Col() != 4 {
		t.Errorf("e4 = (%d,%d), want (3,4)", c.Row(), c.Col())
	}

	for _, s := range []string{"", "e", "e44", "44", "e-", "i1", "a0", "a9", "E4", "?4"} {
		if _, err := ParseCoord(s); !errors.Is(err, ErrMalformed) {
			t.Errorf("ParseCoord(%q) error = %v, want ErrMalformed", s, err)
		}
	}
}

func TestNewCoordRejectsOutOfRange(t *testing.T) {
	cases := [][2]int{{-1, 0}, {0, -1}, {8, 0}, {0, 8}, {100, 100}}
	for _, rc := range cases {
		if _, err := NewCoord(rc[0], rc[1]); !errors.Is(err, ErrMalformed) {
			t.Errorf("NewCoord(%d, %d) error = %v, want ErrMalformed", rc[0], rc[1], err)
		}
	}
}

func TestCoordOffset(t *testing.T) {
	h8, _ := ParseCoord("h8")
	if _, ok := h8.Offset(1, 0); ok {
		t.Error("h8 + (1,0) should be off the board")
	}
	if _, ok := h8.Offset(0, 1); ok {
		t.Error("h8 + (0,1) should be off the board")
	}
	g7, ok := h8.Offset(-1, -1)
	if !ok || g7.String() != "g7" {
		t.Errorf("h8 + (-1,-1) = %v, %v; want g7", g7, ok)
	}
	if _, ok := NoCoord.Offset(1, 1); ok {
		t.Error("NoCoord offsets must stay off the board")
	}
	if NoCoord.String() != "-" {
		t.Errorf("NoCoord.String() = %q", NoCoord.String())
	}
}
