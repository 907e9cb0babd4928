package interp

import (
	"errors"
	"strings"
	"testing"
)

func mustParse(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return prog
}

func TestParseFiltersComments(t *testing.T) {
	tests := []struct {
		src  string
		want []Instruction
	}{
		{"", nil},
		{"hello world\n", nil},
		{"+", []Instruction{Increment}},
		{"a + b > c", []Instruction{Increment, MoveRight}},
		{"><+-.,", []Instruction{MoveRight, MoveLeft, Increment, Decrement, Output, Input}},
		{"# set cell\n++\n# emit\n.", []Instruction{Increment, Increment, Output}},
	}

	for _, tt := range tests {
		prog := mustParse(t, tt.src)
		if prog.Len() != len(tt.want) {
			t.Errorf("Parse(%q): %d instructions, want %d", tt.src, prog.Len(), len(tt.want))
			continue
		}
		for i, op := range tt.want {
			if prog.Ops[i] != op {
				t.Errorf("Parse(%q): op %d = %v, want %v", tt.src, i, prog.Ops[i], op)
			}
		}
	}
}

func TestJumpTableSymmetry(t *testing.T) {
	tests := []struct {
		src   string
		pairs map[int]int // LoopOpen position -> LoopClose position
	}{
		{"[]", map[int]int{0: 1}},
		{"+[-]", map[int]int{1: 3}},
		{"[[]]", map[int]int{0: 3, 1: 2}},
		{"+[>[-]<]", map[int]int{1: 7, 3: 5}},
		{"[][]", map[int]int{0: 1, 2: 3}},
	}

	for _, tt := range tests {
		prog := mustParse(t, tt.src)
		if len(prog.Jumps) != 2*len(tt.pairs) {
			t.Errorf("Parse(%q): jump table has %d entries, want %d", tt.src, len(prog.Jumps), 2*len(tt.pairs))
		}
		for a, b := range tt.pairs {
			if prog.Jumps[a] != b {
				t.Errorf("Parse(%q): jump(%d) = %d, want %d", tt.src, a, prog.Jumps[a], b)
			}
			if prog.Jumps[b] != a {
				t.Errorf("Parse(%q): jump(%d) = %d, want %d", tt.src, b, prog.Jumps[b], a)
			}
		}
	}
}

func TestParseUnmatchedClose(t *testing.T) {
	tests := []struct {
		src string
		pos int
	}{
		{"]", 0},
		{"+]", 1},
		{"[]]", 2},
		{"comment ]", 0},
	}

	for _, tt := range tests {
		_, err := Parse([]byte(tt.src))
		if err == nil {
			t.Errorf("Parse(%q): expected error", tt.src)
			continue
		}
		if !IsUnmatchedClose(err) {
			t.Errorf("Parse(%q): IsUnmatchedClose = false for %v", tt.src, err)
		}
		if IsUnmatchedOpen(err) {
			t.Errorf("Parse(%q): IsUnmatchedOpen = true for %v", tt.src, err)
		}
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("Parse(%q): error is not a *ParseError: %v", tt.src, err)
			continue
		}
		if pe.Pos != tt.pos {
			t.Errorf("Parse(%q): Pos = %d, want %d", tt.src, pe.Pos, tt.pos)
		}
	}
}

func TestParseUnmatchedOpen(t *testing.T) {
	tests := []struct {
		src string
		pos int
	}{
		{"[", 0},
		{"+[", 1},
		{"[[]", 0},
		{"[+", 0},
	}

	for _, tt := range tests {
		_, err := Parse([]byte(tt.src))
		if err == nil {
			t.Errorf("Parse(%q): expected error", tt.src)
			continue
		}
		if !IsUnmatchedOpen(err) {
			t.Errorf("Parse(%q): IsUnmatchedOpen = false for %v", tt.src, err)
		}
		var pe *ParseError
		if errors.As(err, &pe) && pe.Pos != tt.pos {
			t.Errorf("Parse(%q): Pos = %d, want %d", tt.src, pe.Pos, tt.pos)
		}
	}
}

func TestParseErrorMessages(t *testing.T) {
	_, err := Parse([]byte("+]"))
	if err == nil || !strings.Contains(err.Error(), "unmatched ]") {
		t.Errorf("unexpected error for lone ]: %v", err)
	}
	_, err = Parse([]byte("["))
	if err == nil || !strings.Contains(err.Error(), "unmatched [") {
		t.Errorf("unexpected error for lone [: %v", err)
	}
}

func TestLoad(t *testing.T) {
	prog, err := Load(strings.NewReader("+[-]"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if prog.Len() != 4 {
		t.Errorf("Load: %d instructions, want 4", prog.Len())
	}
}

type failReader struct{ err error }

func (r *failReader) Read(p []byte) (int, error) { return 0, r.err }

func TestLoadReadError(t *testing.T) {
	readErr := errors.New("disk gone")
	_, err := Load(&failReader{err: readErr})
	if !errors.Is(err, readErr) {
		t.Errorf("Load: error %v does not wrap the read error", err)
	}
}
