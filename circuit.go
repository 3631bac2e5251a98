package qsurv

/*
Register declares the qubit layout of a circuit: Data qubits carry the encoded
state, Ancilla qubits exist only to extract syndrome information. Data qubits
occupy absolute indices [0,Data), ancillas [Data,Data+Ancilla).
*/
type Register struct {
	Data    int
	Ancilla int
}

// Size returns the total number of qubits in the register.
func (r Register) Size() int { return r.Data + r.Ancilla }

/*
Circuit is an append-only stream of Operations over a fixed qubit register and
classical register. Builder methods validate indices eagerly; the first
violation is recorded and every later append becomes a no-op, so a bad index
cannot silently shift the instruction stream. Err exposes the recorded
failure, and the simulator refuses circuits that carry one.
*/
type Circuit struct {
	reg    Register
	clbits int
	ops    []Operation
	err    error
}

// NewCircuit creates an empty circuit over the given register with the given
// number of classical bits.
func NewCircuit(reg Register, clbits int) *Circuit {
	return &Circuit{reg: reg, clbits: clbits}
}

// Register returns the circuit's qubit register.
func (c *Circuit) Register() Register { return c.reg }

// Clbits returns the size of the classical register.
func (c *Circuit) Clbits() int { return c.clbits }

// Operations returns the instruction stream. Callers must not mutate it.
func (c *Circuit) Operations() []Operation { return c.ops }

// Err returns the first construction error, if any.
func (c *Circuit) Err() error { return c.err }

// Data resolves a data-register index to an absolute qubit index.
func (c *Circuit) Data(i int) int {
	if i < 0 || i >= c.reg.Data {
		c.fail(&OutOfRangeError{Register: "data", Index: i, Size: c.reg.Data})
		return 0
	}
	return i
}

// Ancilla resolves an ancilla-register index to an absolute qubit index.
func (c *Circuit) Ancilla(i int) int {
	if i < 0 || i >= c.reg.Ancilla {
		c.fail(&OutOfRangeError{Register: "ancilla", Index: i, Size: c.reg.Ancilla})
		return 0
	}
	return c.reg.Data + i
}

func (c *Circuit) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

func (c *Circuit) checkQubit(q int) bool {
	if q < 0 || q >= c.reg.Size() {
		c.fail(&OutOfRangeError{Register: "qubit", Index: q, Size: c.reg.Size()})
		return false
	}
	return true
}

func (c *Circuit) checkClbit(b int) bool {
	if b < 0 || b >= c.clbits {
		c.fail(&OutOfRangeError{Register: "clbit", Index: b, Size: c.clbits})
		return false
	}
	return true
}

func (c *Circuit) append(op Operation) {
	if c.err != nil {
		return
	}
	c.ops = append(c.ops, op)
}

func (c *Circuit) gate1(kind OpKind, q int) *Circuit {
	if c.checkQubit(q) {
		c.append(Operation{Kind: kind, Qubit: q, Control: -1, Clbit: -1})
	}
	return c
}

// H appends a Hadamard gate.
func (c *Circuit) H(q int) *Circuit { return c.gate1(OpH, q) }

// X appends a Pauli X gate.
func (c *Circuit) X(q int) *Circuit { return c.gate1(OpX, q) }

// Y appends a Pauli Y gate.
func (c *Circuit) Y(q int) *Circuit { return c.gate1(OpY, q) }

// Z appends a Pauli Z gate.
func (c *Circuit) Z(q int) *Circuit { return c.gate1(OpZ, q) }

// CX appends a controlled-NOT from ctrl onto target.
func (c *Circuit) CX(ctrl, target int) *Circuit {
	if !c.checkQubit(ctrl) || !c.checkQubit(target) {
		return c
	}
	if ctrl == target {
		c.fail(&OutOfRangeError{Register: "cx target", Index: target, Size: c.reg.Size()})
		return c
	}
	c.append(Operation{Kind: OpCX, Qubit: target, Control: ctrl, Clbit: -1})
	return c
}

// Measure appends a computational-basis measurement of q into classical bit b.
func (c *Circuit) Measure(q, b int) *Circuit {
	if c.checkQubit(q) && c.checkClbit(b) {
		c.append(Operation{Kind: OpMeasure, Qubit: q, Control: -1, Clbit: b})
	}
	return c
}

// Reset appends a reset of q to |0>.
func (c *Circuit) Reset(q int) *Circuit { return c.gate1(OpReset, q) }

// Barrier appends an ordering fence. It has no effect on the state; nothing
// may be reordered across it.
func (c *Circuit) Barrier() *Circuit {
	c.append(Operation{Kind: OpBarrier, Qubit: -1, Control: -1, Clbit: -1})
	return c
}

/*
EncodeLogicalZero prepares the logical all-zero codeword with the single
GHZ-style cascade: Hadamard on data qubit 0, then CNOT from qubit 0 onto
every other data qubit.
*/
func (c *Circuit) EncodeLogicalZero() *Circuit {
	c.H(c.Data(0))
	for i := 1; i < c.reg.Data; i++ {
		c.CX(c.Data(0), c.Data(i))
	}
	return c
}

/*
EncodeDoubled prepares the same codeword with the double-cascade form:
Hadamard on every data qubit, CNOT cascade from qubit 0, Hadamard on every
data qubit except qubit 0, CNOT cascade again. Both constructions leave the
register in the joint +1 eigenstate of X...X and Z...Z, so noiseless
measurement statistics are identical between them.
*/
func (c *Circuit) EncodeDoubled() *Circuit {
	for i := 0; i < c.reg.Data; i++ {
		c.H(c.Data(i))
	}
	for i := 1; i < c.reg.Data; i++ {
		c.CX(c.Data(0), c.Data(i))
	}
	for i := 1; i < c.reg.Data; i++ {
		c.H(c.Data(i))
	}
	for i := 1; i < c.reg.Data; i++ {
		c.CX(c.Data(0), c.Data(i))
	}
	return c
}

/*
DecodeLogicalZero undoes EncodeLogicalZero: the CNOT cascade (self-inverse,
order irrelevant since every gate shares control qubit 0) followed by the
Hadamard on qubit 0.
*/
func (c *Circuit) DecodeLogicalZero() *Circuit {
	for i := c.reg.Data - 1; i >= 1; i-- {
		c.CX(c.Data(0), c.Data(i))
	}
	c.H(c.Data(0))
	return c
}

// DynamicalDecoupling inserts the refocusing pulse pair: X on every data
// qubit, a barrier, then Y on every data qubit.
func (c *Circuit) DynamicalDecoupling() *Circuit {
	for i := 0; i < c.reg.Data; i++ {
		c.X(c.Data(i))
	}
	c.Barrier()
	for i := 0; i < c.reg.Data; i++ {
		c.Y(c.Data(i))
	}
	return c
}

// LeakageElimination applies Z to every data qubit, converting leakage side
// effects into detectable computational-basis errors.
func (c *Circuit) LeakageElimination() *Circuit {
	for i := 0; i < c.reg.Data; i++ {
		c.Z(c.Data(i))
	}
	return c
}

// CheckOrder selects which stabilizer check runs first.
type CheckOrder int

const (
	// OrderZX runs the Z-parity check before the X-parity check. This is the
	// reference ordering: the Z ancilla is measured and reset before any
	// X-check gate touches the register.
	OrderZX CheckOrder = iota
	// OrderXZ runs the X-parity check first. Noiseless statistics are
	// unchanged; noisy ancilla exposure differs.
	OrderXZ
)

func (o CheckOrder) String() string {
	if o == OrderXZ {
		return "xz"
	}
	return "zx"
}

/*
StabilizerMeasurement extracts both syndromes. The Z-parity check CNOTs every
data qubit into ancilla 0, measures it into classical bit 0 and resets it.
The X-parity check wraps a CNOT into ancilla 1 with Hadamards on each data
qubit, measures into classical bit 1 and resets. Each check's ancilla is
reset immediately after its measurement so later operations see a fresh |0>.
*/
func (c *Circuit) StabilizerMeasurement(order CheckOrder) *Circuit {
	if order == OrderXZ {
		c.xCheck()
		c.zCheck()
		return c
	}
	c.zCheck()
	c.xCheck()
	return c
}

func (c *Circuit) zCheck() {
	for i := 0; i < c.reg.Data; i++ {
		c.CX(c.Data(i), c.Ancilla(0))
	}
	c.Measure(c.Ancilla(0), 0)
	c.Reset(c.Ancilla(0))
}

func (c *Circuit) xCheck() {
	for i := 0; i < c.reg.Data; i++ {
		c.H(c.Data(i))
		c.CX(c.Data(i), c.Ancilla(1))
		c.H(c.Data(i))
	}
	c.Measure(c.Ancilla(1), 1)
	c.Reset(c.Ancilla(1))
}
