// Package interp implements an interpreter for a minimal eight-instruction
// tape language: a growable tape of byte cells, a data pointer, and a pair
// of zero-keyed loop brackets.
//
// The package is split along the two halves of the problem:
//
//   - Parse classifies source bytes into Instructions (everything else is
//     a comment), and resolves every [ to its matching ] in a single pass,
//     producing an immutable Program with a symmetric jump table.
//
//   - Machine steps a Program against a mutable tape, exchanging bytes
//     with caller-supplied input and output channels. The channels are
//     injected at construction so machines can run against in-memory
//     buffers in tests.
//
// Execution is strictly single-threaded. The only suspension points are
// blocking reads and writes on the injected channels, and there is no
// cancellation: a well-formed program is free to loop forever.
//
// Two behaviors are deliberate and worth calling out:
//
//   - End-of-stream on the input channel is not an error. The , instruction
//     leaves the current cell unchanged and execution continues.
//
//   - Moving the pointer left of cell 0 halts the machine silently. It is
//     a termination path, not a fault, and is indistinguishable to the
//     caller from running off the end of the program.
package interp
