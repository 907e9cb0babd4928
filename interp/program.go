package interp

import (
	"errors"
	"fmt"
	"io"
)

// ---------------------------------------------------------------------------
// Program: parsed instruction sequence with resolved loop targets
// ---------------------------------------------------------------------------

// Program is a parsed program: the filtered instruction sequence plus a
// jump table pairing every [ with its matching ]. Both are fixed for the
// lifetime of a run and shared read-only by any machine executing them.
type Program struct {
	Ops   []Instruction
	Jumps map[int]int // loop position -> matching loop position, both directions
}

// Len returns the number of instructions in the program.
func (p *Program) Len() int {
	return len(p.Ops)
}

// LoopPairs returns the number of matched bracket pairs.
func (p *Program) LoopPairs() int {
	return len(p.Jumps) / 2
}

// ---------------------------------------------------------------------------
// Parse errors
// ---------------------------------------------------------------------------

// ParseErrorKind identifies which bracket of a pair was missing.
type ParseErrorKind int

const (
	// UnmatchedOpen signals a [ with no corresponding ].
	UnmatchedOpen ParseErrorKind = iota

	// UnmatchedClose signals a ] with no corresponding [.
	UnmatchedClose
)

// String returns a human-readable name for ParseErrorKind.
func (k ParseErrorKind) String() string {
	switch k {
	case UnmatchedOpen:
		return "unmatched ["
	case UnmatchedClose:
		return "unmatched ]"
	default:
		return fmt.Sprintf("ParseErrorKind(%d)", int(k))
	}
}

// ParseError reports an unbalanced loop bracket. Pos is the index of the
// offending instruction in the filtered instruction sequence, not the
// raw byte offset in the source.
type ParseError struct {
	Kind ParseErrorKind
	Pos  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at instruction %d", e.Kind, e.Pos)
}

// IsUnmatchedOpen checks if an error is an unmatched-[ parse error.
func IsUnmatchedOpen(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.Kind == UnmatchedOpen
}

// IsUnmatchedClose checks if an error is an unmatched-] parse error.
func IsUnmatchedClose(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.Kind == UnmatchedClose
}

// ---------------------------------------------------------------------------
// Parser / loop resolver
// ---------------------------------------------------------------------------

// Parse classifies source bytes into instructions and resolves loop
// targets in a single pass. Comment bytes are skipped and do not occupy
// instruction positions. A ] with no pending [ fails immediately; any [
// left open after the scan fails with the position of the innermost one.
// Parsing performs no I/O and allocates no tape.
func Parse(src []byte) (*Program, error) {
	prog := &Program{Jumps: make(map[int]int)}

	var open []int // positions of pending [ instructions
	for _, b := range src {
		op, ok := FromByte(b)
		if !ok {
			continue
		}
		pos := len(prog.Ops)
		prog.Ops = append(prog.Ops, op)

		switch op {
		case LoopOpen:
			open = append(open, pos)
		case LoopClose:
			if len(open) == 0 {
				return nil, &ParseError{Kind: UnmatchedClose, Pos: pos}
			}
			start := open[len(open)-1]
			open = open[:len(open)-1]
			prog.Jumps[start] = pos
			prog.Jumps[pos] = start
		}
	}

	if len(open) > 0 {
		return nil, &ParseError{Kind: UnmatchedOpen, Pos: open[len(open)-1]}
	}
	return prog, nil
}

// Load reads all of r and parses it. There is no streaming parse; the
// full source is held in memory.
func Load(r io.Reader) (*Program, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return Parse(src)
}
