package qsurv

import "fmt"

/*
Code describes one code instance: the number of data qubits carrying the
encoded state and the number of ancillas the register declares. Strategies
address at most two ancillas; declaring more (as the larger code does) only
widens the register.
*/
type Code struct {
	Name    string
	Data    int
	Ancilla int
}

// Register returns the qubit register a circuit for this code uses.
func (c Code) Register() Register { return Register{Data: c.Data, Ancilla: c.Ancilla} }

var (
	// Code862 is the [[8,6,2]] instance: 8 data qubits, 4 ancillas.
	Code862 = Code{Name: "[[8,6,2]]", Data: 8, Ancilla: 4}
	// Code642 is the [[6,4,2]] instance: 6 data qubits, 2 ancillas.
	Code642 = Code{Name: "[[6,4,2]]", Data: 6, Ancilla: 2}
)

// CodeByName resolves a code instance from its configuration name.
func CodeByName(name string) (Code, error) {
	switch name {
	case "862", "[[8,6,2]]":
		return Code862, nil
	case "642", "[[6,4,2]]":
		return Code642, nil
	}
	return Code{}, fmt.Errorf("unknown code %q", name)
}

// Strategy selects a syndrome-measurement schedule.
type Strategy int

const (
	// StrategyMidCircuit measures and resets each syndrome ancilla as soon
	// as its check completes, in the middle of the circuit.
	StrategyMidCircuit Strategy = iota
	// StrategyDeferred entangles both ancillas without intermediate
	// measurement and measures them only at the very end.
	StrategyDeferred
	// StrategyControl extracts no syndrome at all: the state is un-encoded
	// and two data qubits are measured directly.
	StrategyControl
)

// Strategies lists every schedule in reporting order.
var Strategies = []Strategy{StrategyMidCircuit, StrategyDeferred, StrategyControl}

func (s Strategy) String() string {
	switch s {
	case StrategyMidCircuit:
		return "mid-circuit"
	case StrategyDeferred:
		return "deferred"
	case StrategyControl:
		return "control"
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// syndromeBits is the classical register width every strategy terminates in.
const syndromeBits = 2

// BuildCircuit assembles the circuit for a strategy with the reference
// check ordering.
func BuildCircuit(code Code, s Strategy) *Circuit {
	return BuildCircuitOrdered(code, s, OrderZX)
}

// BuildCircuitOrdered assembles the circuit for a strategy with an explicit
// stabilizer check order. Only the mid-circuit schedule is sensitive to it;
// the other strategies ignore the order.
func BuildCircuitOrdered(code Code, s Strategy, order CheckOrder) *Circuit {
	switch s {
	case StrategyDeferred:
		return buildDeferred(code)
	case StrategyControl:
		return buildControl(code)
	default:
		return buildMidCircuit(code, order)
	}
}

/*
buildMidCircuit is the schedule under study: encode, decoupling and leakage
pulses, then both stabilizer checks with measurement and reset in the middle
of the circuit, then a second round of pulses so the ancilla record is
exposed to the remaining depth only through the already-reset ancillas.
*/
func buildMidCircuit(code Code, order CheckOrder) *Circuit {
	c := NewCircuit(code.Register(), syndromeBits)
	c.EncodeLogicalZero()
	c.DynamicalDecoupling()
	c.LeakageElimination()
	c.Barrier()
	c.StabilizerMeasurement(order)
	c.DynamicalDecoupling()
	c.LeakageElimination()
	c.Barrier()
	return c
}

/*
buildDeferred runs the same two parity checks but holds both ancillas
unmeasured until the end: per data qubit, a CNOT into the Z ancilla followed
by the Hadamard-wrapped CNOT into the X ancilla, then both measurements as
the final operations. Ideal outcomes match the mid-circuit schedule; the
ancillas simply accumulate noise over the full remaining depth.
*/
func buildDeferred(code Code) *Circuit {
	c := NewCircuit(code.Register(), syndromeBits)
	c.EncodeLogicalZero()
	c.DynamicalDecoupling()
	c.LeakageElimination()
	c.Barrier()
	for i := 0; i < code.Data; i++ {
		c.CX(c.Data(i), c.Ancilla(0))
		c.H(c.Data(i))
		c.CX(c.Data(i), c.Ancilla(1))
		c.H(c.Data(i))
	}
	c.Measure(c.Ancilla(0), 0)
	c.Measure(c.Ancilla(1), 1)
	return c
}

/*
buildControl is the no-syndrome baseline. It prepares and idles the encoded
state exactly like the other schedules, then un-encodes and measures two data
qubits directly, with no ancilla involved. Ideally both bits read zero, so
the acceptance fraction isolates what the syndrome itself buys.
*/
func buildControl(code Code) *Circuit {
	c := NewCircuit(code.Register(), syndromeBits)
	c.EncodeLogicalZero()
	c.DynamicalDecoupling()
	c.LeakageElimination()
	c.Barrier()
	c.DecodeLogicalZero()
	c.Measure(c.Data(0), 0)
	c.Measure(c.Data(1), 1)
	return c
}
