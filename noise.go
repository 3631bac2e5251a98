package qsurv

import (
	"fmt"
	"math"
)

// Pauli labels a single-qubit Pauli operator.
type Pauli uint8

const (
	PauliI Pauli = iota
	PauliX
	PauliY
	PauliZ
)

func (p Pauli) String() string {
	switch p {
	case PauliI:
		return "I"
	case PauliX:
		return "X"
	case PauliY:
		return "Y"
	case PauliZ:
		return "Z"
	}
	return "?"
}

/*
ChannelTerm is one stochastic outcome of a channel: a Pauli operator (or pair
of them for two-qubit channels) applied with probability Prob.
*/
type ChannelTerm struct {
	Paulis [2]Pauli
	Prob   float64
}

/*
Channel is a probability distribution over Pauli insertions. Arity is 1 or 2
and must match the arity of the gate kind the channel is attached to.
*/
type Channel struct {
	Name  string
	Arity int
	Terms []ChannelTerm
}

const probTolerance = 1e-9

// Validate checks that every probability is nonnegative and that the
// distribution sums to 1 within tolerance.
func (ch Channel) Validate() error {
	if ch.Arity != 1 && ch.Arity != 2 {
		return fmt.Errorf("channel %s: arity %d not supported", ch.Name, ch.Arity)
	}
	total := 0.0
	for _, t := range ch.Terms {
		if t.Prob < 0 {
			return fmt.Errorf("channel %s: negative probability %g", ch.Name, t.Prob)
		}
		total += t.Prob
	}
	if math.Abs(total-1) > probTolerance {
		return fmt.Errorf("channel %s: probabilities sum to %g, want 1", ch.Name, total)
	}
	return nil
}

// Depolarizing returns the symmetric single-qubit Pauli mixture
// {X: p/3, Y: p/3, Z: p/3, I: 1-p}.
func Depolarizing(p float64) Channel {
	return Channel{
		Name:  "depolarizing",
		Arity: 1,
		Terms: []ChannelTerm{
			{Paulis: [2]Pauli{PauliX}, Prob: p / 3},
			{Paulis: [2]Pauli{PauliY}, Prob: p / 3},
			{Paulis: [2]Pauli{PauliZ}, Prob: p / 3},
			{Paulis: [2]Pauli{PauliI}, Prob: 1 - p},
		},
	}
}

// TwoQubitDepolarizing returns the tensor product of two independent
// single-qubit depolarizing draws: a 16-term channel, not a general two-qubit
// mixture.
func TwoQubitDepolarizing(p float64) Channel {
	single := Depolarizing(p)
	terms := make([]ChannelTerm, 0, 16)
	for _, a := range single.Terms {
		for _, b := range single.Terms {
			terms = append(terms, ChannelTerm{
				Paulis: [2]Pauli{a.Paulis[0], b.Paulis[0]},
				Prob:   a.Prob * b.Prob,
			})
		}
	}
	return Channel{Name: "depolarizing2", Arity: 2, Terms: terms}
}

// Leakage returns the biased channel {Z: pLeak, I: 1-pLeak} modelling
// population loss correlated with basis-change operations.
func Leakage(pLeak float64) Channel {
	return Channel{
		Name:  "leakage",
		Arity: 1,
		Terms: []ChannelTerm{
			{Paulis: [2]Pauli{PauliI}, Prob: 1 - pLeak},
			{Paulis: [2]Pauli{PauliZ}, Prob: pLeak},
		},
	}
}

// BiasedLeakage returns the {X: p/2, Z: p/2, I: 1-p} single-qubit leakage
// variant used by the correlated model.
func BiasedLeakage(p float64) Channel {
	return Channel{
		Name:  "leakage-xz",
		Arity: 1,
		Terms: []ChannelTerm{
			{Paulis: [2]Pauli{PauliX}, Prob: p / 2},
			{Paulis: [2]Pauli{PauliZ}, Prob: p / 2},
			{Paulis: [2]Pauli{PauliI}, Prob: 1 - p},
		},
	}
}

// CorrelatedLeakage returns the two-qubit correlated leakage channel
// {XX: p/2, ZZ: p/2, II: 1-p}.
func CorrelatedLeakage(p float64) Channel {
	return Channel{
		Name:  "leakage2",
		Arity: 2,
		Terms: []ChannelTerm{
			{Paulis: [2]Pauli{PauliX, PauliX}, Prob: p / 2},
			{Paulis: [2]Pauli{PauliZ, PauliZ}, Prob: p / 2},
			{Paulis: [2]Pauli{PauliI, PauliI}, Prob: 1 - p},
		},
	}
}

/*
UnsupportedChannelError reports a channel attached to an operation kind the
simulator cannot combine with the operation's ideal effect, either because the
kind is not a gate or because the channel arity does not match the gate. It is
raised when a simulation starts, before any trial runs.
*/
type UnsupportedChannelError struct {
	Kind    OpKind
	Channel string
	Reason  string
}

func (e *UnsupportedChannelError) Error() string {
	return fmt.Sprintf("channel %s cannot attach to %s: %s", e.Channel, e.Kind, e.Reason)
}

/*
NoiseModel maps operation kinds to the stochastic channels applied after each
matching operation executes. A kind may carry several channels; they are
applied as independent sequential events in attachment order. The model never
mutates a circuit.

Like the circuit builder, the model records its first attachment failure:
a model carrying one refuses to validate, so a rejected channel can never
silently thin a sweep down to the channels that happened to be well formed.
*/
type NoiseModel struct {
	attached map[OpKind][]Channel
	err      error
}

// NewNoiseModel returns a model with no channels attached.
func NewNoiseModel() *NoiseModel {
	return &NoiseModel{attached: make(map[OpKind][]Channel)}
}

// Attach registers a channel for an operation kind. Invalid distributions are
// rejected immediately and recorded on the model, so a model built from a bad
// strength fails validation instead of running with the channel missing.
// Kind/arity compatibility is checked by the simulator at run start.
func (m *NoiseModel) Attach(kind OpKind, ch Channel) error {
	if err := ch.Validate(); err != nil {
		if m.err == nil {
			m.err = err
		}
		return err
	}
	m.attached[kind] = append(m.attached[kind], ch)
	return nil
}

// Channels returns the channels attached to a kind, in attachment order.
func (m *NoiseModel) Channels(kind OpKind) []Channel {
	if m == nil {
		return nil
	}
	return m.attached[kind]
}

// Empty reports whether no channel is attached anywhere.
func (m *NoiseModel) Empty() bool {
	if m == nil {
		return true
	}
	for _, chs := range m.attached {
		if len(chs) > 0 {
			return false
		}
	}
	return true
}

// Validate checks every attachment against the gate taxonomy and surfaces any
// attachment that was rejected while the model was built.
func (m *NoiseModel) Validate() error {
	if m == nil {
		return nil
	}
	if m.err != nil {
		return m.err
	}
	for kind, chs := range m.attached {
		for _, ch := range chs {
			if !kind.IsGate() {
				return &UnsupportedChannelError{Kind: kind, Channel: ch.Name, Reason: "not a unitary gate"}
			}
			if ch.Arity != kind.GateArity() {
				return &UnsupportedChannelError{
					Kind:    kind,
					Channel: ch.Name,
					Reason:  fmt.Sprintf("channel arity %d, gate arity %d", ch.Arity, kind.GateArity()),
				}
			}
			if err := ch.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

/*
NewLeakageNoiseModel builds the reference model for the benchmark: a
depolarizing channel on Hadamard gates, the independent-product depolarizing
channel on CNOTs, and the biased {Z: pLeak} leakage channel on Hadamards as a
second sequential event.
*/
func NewLeakageNoiseModel(p, pLeak float64) *NoiseModel {
	m := NewNoiseModel()
	m.Attach(OpH, Depolarizing(p))
	m.Attach(OpCX, TwoQubitDepolarizing(p))
	m.Attach(OpH, Leakage(pLeak))
	return m
}

// NewCorrelatedLeakageModel builds the correlated variant: {X,Z}-biased
// single-qubit leakage on Hadamards and {XX,ZZ} correlated leakage on CNOTs.
func NewCorrelatedLeakageModel(p float64) *NoiseModel {
	m := NewNoiseModel()
	m.Attach(OpH, BiasedLeakage(p))
	m.Attach(OpCX, CorrelatedLeakage(p))
	return m
}
