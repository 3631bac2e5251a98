package qsurv

import "math"

/*
DensityMatrix is a full mixed-state representation of n qubits: a d x d
complex matrix with d = 2^n, stored row-major. Qubit q corresponds to bit
1<<q of a basis index, and the initial state is |0...0><0...0|.

Unitaries act by conjugation, Pauli channels by probability-weighted sums of
Pauli conjugations, so noise is composed analytically into the evolving state
rather than drawn once per shot.
*/
type DensityMatrix struct {
	n int
	d int
	m []complex128
}

// NewDensityMatrix allocates the all-zero state over n qubits.
func NewDensityMatrix(n int) *DensityMatrix {
	if n < 0 {
		n = 0
	}
	d := 1 << n
	dm := &DensityMatrix{n: n, d: d, m: make([]complex128, d*d)}
	dm.m[0] = 1
	return dm
}

// Qubits returns the number of qubits the matrix covers.
func (dm *DensityMatrix) Qubits() int { return dm.n }

// Clone returns a deep copy.
func (dm *DensityMatrix) Clone() *DensityMatrix {
	m := make([]complex128, len(dm.m))
	copy(m, dm.m)
	return &DensityMatrix{n: dm.n, d: dm.d, m: m}
}

// Trace returns the real part of the trace. For a branch produced by
// measurement projection this is the branch's probability weight.
func (dm *DensityMatrix) Trace() float64 {
	t := 0.0
	for i := 0; i < dm.d; i++ {
		t += real(dm.m[i*dm.d+i])
	}
	return t
}

var (
	invSqrt2 = complex(1/math.Sqrt2, 0)

	matH = [2][2]complex128{{invSqrt2, invSqrt2}, {invSqrt2, -invSqrt2}}
	matX = [2][2]complex128{{0, 1}, {1, 0}}
	matY = [2][2]complex128{{0, -1i}, {1i, 0}}
	matZ = [2][2]complex128{{1, 0}, {0, -1}}
)

// apply1q conjugates the state by a single-qubit unitary on qubit q:
// rho -> U rho U+. Row pass applies U from the left, column pass U+ from
// the right.
func (dm *DensityMatrix) apply1q(u [2][2]complex128, q int) {
	d, m := dm.d, dm.m
	bit := 1 << q
	for i := 0; i < d; i++ {
		if i&bit != 0 {
			continue
		}
		k := i | bit
		ri, rk := i*d, k*d
		for j := 0; j < d; j++ {
			a, b := m[ri+j], m[rk+j]
			m[ri+j] = u[0][0]*a + u[0][1]*b
			m[rk+j] = u[1][0]*a + u[1][1]*b
		}
	}
	c00 := cconj(u[0][0])
	c01 := cconj(u[0][1])
	c10 := cconj(u[1][0])
	c11 := cconj(u[1][1])
	for i := 0; i < d; i++ {
		ri := i * d
		for j := 0; j < d; j++ {
			if j&bit != 0 {
				continue
			}
			l := j | bit
			a, b := m[ri+j], m[ri+l]
			m[ri+j] = c00*a + c01*b
			m[ri+l] = c10*a + c11*b
		}
	}
}

func cconj(c complex128) complex128 { return complex(real(c), -imag(c)) }

// ApplyH applies a Hadamard on qubit q.
func (dm *DensityMatrix) ApplyH(q int) { dm.apply1q(matH, q) }

// ApplyX applies a Pauli X on qubit q.
func (dm *DensityMatrix) ApplyX(q int) { dm.apply1q(matX, q) }

// ApplyY applies a Pauli Y on qubit q.
func (dm *DensityMatrix) ApplyY(q int) { dm.apply1q(matY, q) }

// ApplyZ applies a Pauli Z on qubit q.
func (dm *DensityMatrix) ApplyZ(q int) { dm.apply1q(matZ, q) }

// ApplyCX applies a controlled-NOT. The basis permutation is an involution,
// so conjugation reduces to row swaps followed by column swaps.
func (dm *DensityMatrix) ApplyCX(ctrl, target int) {
	d, m := dm.d, dm.m
	cbit, tbit := 1<<ctrl, 1<<target
	for i := 0; i < d; i++ {
		if i&cbit == 0 || i&tbit != 0 {
			continue
		}
		k := i | tbit
		ri, rk := i*d, k*d
		for j := 0; j < d; j++ {
			m[ri+j], m[rk+j] = m[rk+j], m[ri+j]
		}
	}
	for i := 0; i < d; i++ {
		ri := i * d
		for j := 0; j < d; j++ {
			if j&cbit == 0 || j&tbit != 0 {
				continue
			}
			l := j | tbit
			m[ri+j], m[ri+l] = m[ri+l], m[ri+j]
		}
	}
}

func (dm *DensityMatrix) applyPauli(p Pauli, q int) {
	switch p {
	case PauliX:
		dm.apply1q(matX, q)
	case PauliY:
		dm.apply1q(matY, q)
	case PauliZ:
		dm.apply1q(matZ, q)
	}
}

/*
ApplyChannel applies a Pauli channel on the given qubits (one qubit for arity
1, two for arity 2): rho -> sum_k p_k P_k rho P_k+. The identity term needs
no conjugation and is accumulated directly.
*/
func (dm *DensityMatrix) ApplyChannel(ch Channel, qubits ...int) {
	out := make([]complex128, len(dm.m))
	tmp := &DensityMatrix{n: dm.n, d: dm.d, m: make([]complex128, len(dm.m))}
	for _, term := range ch.Terms {
		if term.Prob == 0 {
			continue
		}
		p := complex(term.Prob, 0)
		if identityTerm(term, ch.Arity) {
			for i, v := range dm.m {
				out[i] += p * v
			}
			continue
		}
		copy(tmp.m, dm.m)
		for k := 0; k < ch.Arity; k++ {
			tmp.applyPauli(term.Paulis[k], qubits[k])
		}
		for i, v := range tmp.m {
			out[i] += p * v
		}
	}
	copy(dm.m, out)
}

func identityTerm(t ChannelTerm, arity int) bool {
	for k := 0; k < arity; k++ {
		if t.Paulis[k] != PauliI {
			return false
		}
	}
	return true
}

// Prob0 returns the probability of measuring qubit q as 0.
func (dm *DensityMatrix) Prob0(q int) float64 {
	bit := 1 << q
	p := 0.0
	for i := 0; i < dm.d; i++ {
		if i&bit == 0 {
			p += real(dm.m[i*dm.d+i])
		}
	}
	return p
}

/*
Project collapses qubit q to the given outcome without renormalizing: every
entry whose row or column disagrees with the outcome is zeroed, so the trace
of the result is the probability of that outcome times the incoming weight.
*/
func (dm *DensityMatrix) Project(q, outcome int) {
	d, m := dm.d, dm.m
	bit := 1 << q
	want := 0
	if outcome != 0 {
		want = bit
	}
	for i := 0; i < d; i++ {
		ri := i * d
		rowKeep := i&bit == want
		for j := 0; j < d; j++ {
			if !rowKeep || j&bit != want {
				m[ri+j] = 0
			}
		}
	}
}

/*
ApplyReset sends qubit q to |0> through the channel
rho -> P0 rho P0 + X P1 rho P1 X: the |1> population folds onto |0> and every
coherence with the reset qubit is discarded. Trace is preserved.
*/
func (dm *DensityMatrix) ApplyReset(q int) {
	d, m := dm.d, dm.m
	bit := 1 << q
	for i := 0; i < d; i++ {
		if i&bit != 0 {
			continue
		}
		ri := i * d
		rhi := (i | bit) * d
		for j := 0; j < d; j++ {
			if j&bit != 0 {
				continue
			}
			m[ri+j] += m[rhi+(j|bit)]
		}
	}
	for i := 0; i < d; i++ {
		ri := i * d
		rowSet := i&bit != 0
		for j := 0; j < d; j++ {
			if rowSet || j&bit != 0 {
				m[ri+j] = 0
			}
		}
	}
}
