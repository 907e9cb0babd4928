package interp

import (
	"fmt"
	"sort"
	"strings"
)

// Disassemble returns a human-readable listing of the program.
func (p *Program) Disassemble() string {
	return p.DisassembleWithName("")
}

// DisassembleWithName returns a human-readable listing with a name header.
func (p *Program) DisassembleWithName(name string) string {
	var sb strings.Builder

	// Header
	if name != "" {
		sb.WriteString(fmt.Sprintf("; === %s ===\n", name))
	}
	sb.WriteString(fmt.Sprintf("; %d instructions, %d loop pairs\n", len(p.Ops), p.LoopPairs()))

	// Loop pairs, innermost-last by open position
	if len(p.Jumps) > 0 {
		opens := make([]int, 0, p.LoopPairs())
		for pos, op := range p.Ops {
			if op == LoopOpen {
				opens = append(opens, pos)
			}
		}
		sort.Ints(opens)
		sb.WriteString("; Loops:\n")
		for _, open := range opens {
			sb.WriteString(fmt.Sprintf(";   [%04d, %04d]\n", open, p.Jumps[open]))
		}
	}
	sb.WriteString("\n")

	// Listing
	for pos, op := range p.Ops {
		if op.IsLoop() {
			sb.WriteString(fmt.Sprintf("%04d  %-10s '%c'  -> %04d\n", pos, op, op.Char(), p.Jumps[pos]))
		} else {
			sb.WriteString(fmt.Sprintf("%04d  %-10s '%c'\n", pos, op, op.Char()))
		}
	}

	return sb.String()
}
