package interp

import (
	"errors"
	"fmt"
	"io"
)

// TapeChunk is the tape's initial size and its growth increment, in cells.
const TapeChunk = 1024

// ---------------------------------------------------------------------------
// FaultError: fatal I/O failures during execution
// ---------------------------------------------------------------------------

// FaultError reports a failed read or write on one of the machine's I/O
// channels. Op is the instruction that was executing (Output or Input).
// End-of-stream on input is not a fault and never produces a FaultError.
type FaultError struct {
	Op  Instruction
	Err error
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("%s fault: %v", e.Op, e.Err)
}

func (e *FaultError) Unwrap() error {
	return e.Err
}

// IsFault checks if an error is an I/O fault from a machine step.
func IsFault(err error) bool {
	var fe *FaultError
	return errors.As(err, &fe)
}

// ---------------------------------------------------------------------------
// Machine: execution engine
// ---------------------------------------------------------------------------

// Machine executes a Program against a growable byte tape. The machine
// exclusively owns the tape, the program counter, and the data pointer;
// the program and its jump table are shared read-only context.
type Machine struct {
	prog *Program
	tape []byte
	pc   int // program counter: index of the next instruction
	ptr  int // data pointer: index of the current cell

	in  io.Reader
	out io.Writer
}

// New creates a machine for prog with a zeroed one-chunk tape.
// The input and output channels may be any reader/writer; execution
// blocks on them as needed.
func New(prog *Program, in io.Reader, out io.Writer) *Machine {
	return &Machine{
		prog: prog,
		tape: make([]byte, TapeChunk),
		in:   in,
		out:  out,
	}
}

// Step executes the instruction at the program counter.
// It returns false when the machine has halted: either the counter ran
// past the end of the program, or a < was attempted at cell 0
// (left-of-origin is termination, not an error). An I/O failure on
// Output, or on Input other than end-of-stream, returns a FaultError;
// a faulted step must not be retried.
func (m *Machine) Step() (bool, error) {
	if m.pc >= len(m.prog.Ops) {
		return false, nil
	}

	switch m.prog.Ops[m.pc] {
	case MoveRight:
		// Growing exactly when leaving the last valid cell keeps the
		// pointer inside the tape at all times.
		if m.ptr == len(m.tape)-1 {
			m.tape = append(m.tape, make([]byte, TapeChunk)...)
		}
		m.ptr++

	case MoveLeft:
		if m.ptr == 0 {
			return false, nil
		}
		m.ptr--

	case Increment:
		m.tape[m.ptr]++

	case Decrement:
		m.tape[m.ptr]--

	case Output:
		if _, err := m.out.Write([]byte{m.tape[m.ptr]}); err != nil {
			return false, &FaultError{Op: Output, Err: err}
		}

	case Input:
		var b [1]byte
		switch _, err := io.ReadFull(m.in, b[:]); {
		case err == nil:
			m.tape[m.ptr] = b[0]
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			// End of stream leaves the cell unchanged.
		default:
			return false, &FaultError{Op: Input, Err: err}
		}

	case LoopOpen:
		if m.tape[m.ptr] == 0 {
			m.pc = m.prog.Jumps[m.pc]
		}

	case LoopClose:
		if m.tape[m.ptr] != 0 {
			m.pc = m.prog.Jumps[m.pc]
		}
	}

	m.pc++
	return true, nil
}

// Run drives the machine until it halts or an I/O fault occurs.
// Both halt paths are successful termination; output already written
// before a fault is not rolled back.
func (m *Machine) Run() error {
	for {
		cont, err := m.Step()
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
}
