package interp

import "fmt"

// Instruction represents one executable operation of the tape language.
// Instructions are produced by classifying single source bytes; a byte
// that does not classify is a comment and is dropped by the parser.
type Instruction byte

const (
	MoveRight Instruction = iota // > advance the data pointer
	MoveLeft                     // < retreat the data pointer
	Increment                    // + add one to the current cell, mod 256
	Decrement                    // - subtract one from the current cell, mod 256
	Output                       // . write the current cell to the output channel
	Input                        // , read one byte into the current cell
	LoopOpen                     // [ jump past the matching ] when the cell is zero
	LoopClose                    // ] jump back to the matching [ when the cell is nonzero
)

// InstructionInfo provides metadata about each instruction for
// disassembly and validation.
type InstructionInfo struct {
	Name string // Human-readable mnemonic
	Char byte   // Source character that classifies to this instruction
}

// instructionInfoTable maps instructions to their metadata.
var instructionInfoTable = map[Instruction]InstructionInfo{
	MoveRight: {"MOVE_RIGHT", '>'},
	MoveLeft:  {"MOVE_LEFT", '<'},
	Increment: {"INC", '+'},
	Decrement: {"DEC", '-'},
	Output:    {"OUT", '.'},
	Input:     {"IN", ','},
	LoopOpen:  {"LOOP_OPEN", '['},
	LoopClose: {"LOOP_CLOSE", ']'},
}

// FromByte classifies a single source byte. The second return value is
// false for comment bytes.
func FromByte(b byte) (Instruction, bool) {
	switch b {
	case '>':
		return MoveRight, true
	case '<':
		return MoveLeft, true
	case '+':
		return Increment, true
	case '-':
		return Decrement, true
	case '.':
		return Output, true
	case ',':
		return Input, true
	case '[':
		return LoopOpen, true
	case ']':
		return LoopClose, true
	default:
		return 0, false
	}
}

// GetInstructionInfo returns metadata for an instruction.
// Returns a zero InstructionInfo with name "UNKNOWN" if the instruction
// is not recognized.
func GetInstructionInfo(i Instruction) InstructionInfo {
	if info, ok := instructionInfoTable[i]; ok {
		return info
	}
	return InstructionInfo{Name: fmt.Sprintf("UNKNOWN(0x%02X)", byte(i))}
}

// String returns the human-readable mnemonic of an instruction.
func (i Instruction) String() string {
	return GetInstructionInfo(i).Name
}

// Char returns the source character for this instruction.
func (i Instruction) Char() byte {
	return GetInstructionInfo(i).Char
}

// IsLoop returns true for the two bracket instructions.
func (i Instruction) IsLoop() bool {
	return i == LoopOpen || i == LoopClose
}

// IsIO returns true for the instructions that touch the I/O channels.
func (i Instruction) IsIO() bool {
	return i == Output || i == Input
}

// AllInstructions returns a slice of all defined instructions.
// Useful for testing that every instruction has metadata.
func AllInstructions() []Instruction {
	instructions := make([]Instruction, 0, len(instructionInfoTable))
	for i := range instructionInfoTable {
		instructions = append(instructions, i)
	}
	return instructions
}
