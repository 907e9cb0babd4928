// Package wire implements the on-disk format for compiled programs.
//
// A compiled program is a CBOR envelope (canonical encoding, so identical
// programs always produce identical bytes) carrying the instruction
// sequence as source characters plus the resolved jump table. Decoding
// validates everything it reads: a compiled file can never put a machine
// in a state the parser could not have produced.
package wire

import (
	"bytes"
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"

	"github.com/chazu/bfk/interp"
)

// Magic bytes for compiled program files: "BFKC" (BFK Compiled)
var Magic = []byte{'B', 'F', 'K', 'C'}

// Version is the current compiled-program format version.
// Increment when making incompatible changes to the format.
const Version uint16 = 1

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("wire: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// programFile is the CBOR envelope for a compiled program.
type programFile struct {
	Magic   []byte
	Version uint16
	Code    []byte // one source character per instruction
	Jumps   map[int]int
}

// MarshalProgram serializes a parsed program to CBOR bytes.
func MarshalProgram(p *interp.Program) ([]byte, error) {
	f := programFile{
		Magic:   Magic,
		Version: Version,
		Code:    make([]byte, len(p.Ops)),
		Jumps:   p.Jumps,
	}
	for i, op := range p.Ops {
		f.Code[i] = op.Char()
	}
	data, err := cborEncMode.Marshal(&f)
	if err != nil {
		return nil, fmt.Errorf("wire: marshal program: %w", err)
	}
	return data, nil
}

// UnmarshalProgram deserializes a compiled program, rejecting files with
// the wrong magic or version and any envelope whose instructions or jump
// table are malformed.
func UnmarshalProgram(data []byte) (*interp.Program, error) {
	var f programFile
	if err := cbor.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("wire: unmarshal program: %w", err)
	}

	if !bytes.Equal(f.Magic, Magic) {
		return nil, fmt.Errorf("wire: bad magic %q", f.Magic)
	}
	if f.Version != Version {
		return nil, fmt.Errorf("wire: unsupported format version %d (want %d)", f.Version, Version)
	}

	prog := &interp.Program{
		Ops:   make([]interp.Instruction, len(f.Code)),
		Jumps: make(map[int]int, len(f.Jumps)),
	}
	for i, b := range f.Code {
		op, ok := interp.FromByte(b)
		if !ok {
			return nil, fmt.Errorf("wire: invalid instruction byte 0x%02x at position %d", b, i)
		}
		prog.Ops[i] = op
	}

	// The jump table must pair loop instructions symmetrically, exactly
	// as the parser builds it.
	for a, b := range f.Jumps {
		if a < 0 || a >= len(prog.Ops) || b < 0 || b >= len(prog.Ops) {
			return nil, fmt.Errorf("wire: jump %d -> %d out of range", a, b)
		}
		if !prog.Ops[a].IsLoop() {
			return nil, fmt.Errorf("wire: jump from non-loop instruction at %d", a)
		}
		if f.Jumps[b] != a {
			return nil, fmt.Errorf("wire: jump table not symmetric at %d", a)
		}
		prog.Jumps[a] = b
	}
	for pos, op := range prog.Ops {
		if op.IsLoop() {
			if _, ok := prog.Jumps[pos]; !ok {
				return nil, fmt.Errorf("wire: loop instruction at %d has no jump entry", pos)
			}
		}
	}

	return prog, nil
}

// WriteFile compiles a program to the given path.
func WriteFile(path string, p *interp.Program) error {
	data, err := MarshalProgram(p)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("wire: write %s: %w", path, err)
	}
	return nil
}

// ReadFile loads a compiled program from the given path.
func ReadFile(path string) (*interp.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("wire: read %s: %w", path, err)
	}
	return UnmarshalProgram(data)
}
