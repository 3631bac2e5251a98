package qsurv

import "fmt"

// OpKind identifies the primitive effect of an Operation.
type OpKind int

const (
	OpH OpKind = iota
	OpX
	OpY
	OpZ
	OpCX
	OpMeasure
	OpReset
	OpBarrier
)

func (k OpKind) String() string {
	switch k {
	case OpH:
		return "h"
	case OpX:
		return "x"
	case OpY:
		return "y"
	case OpZ:
		return "z"
	case OpCX:
		return "cx"
	case OpMeasure:
		return "measure"
	case OpReset:
		return "reset"
	case OpBarrier:
		return "barrier"
	}
	return fmt.Sprintf("opkind(%d)", int(k))
}

// IsGate reports whether the kind is a unitary gate, i.e. something a noise
// channel can attach to.
func (k OpKind) IsGate() bool {
	switch k {
	case OpH, OpX, OpY, OpZ, OpCX:
		return true
	}
	return false
}

// GateArity returns the number of qubits a gate kind acts on, or 0 for
// non-gate kinds.
func (k OpKind) GateArity() int {
	switch k {
	case OpH, OpX, OpY, OpZ:
		return 1
	case OpCX:
		return 2
	}
	return 0
}

/*
Operation is a single entry in a circuit's instruction stream. Qubit is the
target for every kind that addresses a qubit; Control is -1 unless the kind
is OpCX, and Clbit is -1 unless the kind is OpMeasure.
*/
type Operation struct {
	Kind    OpKind
	Qubit   int
	Control int
	Clbit   int
}

// Qubits returns the qubit indices the operation touches.
func (op Operation) Qubits() []int {
	switch op.Kind {
	case OpBarrier:
		return nil
	case OpCX:
		return []int{op.Control, op.Qubit}
	}
	return []int{op.Qubit}
}

/*
OutOfRangeError reports an operation referencing a qubit or classical bit
outside the declared register. It is surfaced at circuit construction time;
a circuit carrying one refuses to simulate.
*/
type OutOfRangeError struct {
	Register string
	Index    int
	Size     int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0,%d)", e.Register, e.Index, e.Size)
}
