package qsurv

import (
	"fmt"
	"math"
	"sort"
)

/*
OutcomeTable maps classical-register bitstrings (classical bit 0 leftmost) to
trial counts. The counts of a table produced by a Backend sum to the requested
shot count.
*/
type OutcomeTable map[string]int

// Total returns the number of trials the table accounts for.
func (t OutcomeTable) Total() int {
	total := 0
	for _, n := range t {
		total += n
	}
	return total
}

/*
Backend executes a circuit under a noise model for a number of independent
trials. Simulator and HardwareExecutor both satisfy it, so the benchmark
driver is agnostic to where the counts come from.
*/
type Backend interface {
	Run(c *Circuit, model *NoiseModel, shots int) (OutcomeTable, error)
}

// rngStream is a splitmix64 stream. Each consumer owns its own stream, so no
// random state is ever shared between goroutines.
type rngStream struct {
	state uint64
}

func newRNGStream(seed int64) *rngStream {
	return &rngStream{state: uint64(seed)}
}

func (r *rngStream) Float64() float64 {
	r.state += 0x9e3779b97f4a7c15
	z := r.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return float64(z^(z>>31)) / float64(1<<64-1)
}

const (
	traceTolerance = 1e-6
	branchEpsilon  = 1e-12
)

/*
Simulator evolves the full mixed state of a circuit exactly: every operation
applies its ideal effect followed by the channels attached to its kind, with
the channel composed analytically into the state. Measurements split the
state into classically labelled branches, so mid-circuit measurement and
reset have true temporal semantics. The final branch weights form the
outcome distribution, which is sampled once per shot.

A Simulator is stateless apart from its seed and is safe for concurrent use
as long as callers do not share it across goroutines while relying on
reproducible sampling order.
*/
type Simulator struct {
	Seed int64
}

// NewSimulator returns a simulator whose shot sampling is driven by seed.
func NewSimulator(seed int64) *Simulator {
	return &Simulator{Seed: seed}
}

// branch is one classically labelled component of the evolving mixed state.
// Its density matrix is unnormalized; the trace is the branch probability.
type branch struct {
	rho  *DensityMatrix
	bits []byte
}

// Run implements Backend.
func (s *Simulator) Run(c *Circuit, model *NoiseModel, shots int) (OutcomeTable, error) {
	if c == nil {
		return nil, fmt.Errorf("nil circuit")
	}
	if err := c.Err(); err != nil {
		return nil, fmt.Errorf("invalid circuit: %w", err)
	}
	if shots < 0 {
		return nil, fmt.Errorf("negative shot count %d", shots)
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}

	dist, err := s.distribution(c, model)
	if err != nil {
		return nil, err
	}
	return s.sample(dist, shots), nil
}

// outcome pairs a bitstring with its exact probability.
type outcome struct {
	key  string
	prob float64
}

func (s *Simulator) distribution(c *Circuit, model *NoiseModel) ([]outcome, error) {
	// Untouched qubits stay in |0> for the whole circuit and factor out
	// exactly, so the state is allocated over referenced qubits only.
	remap := make([]int, c.Register().Size())
	for i := range remap {
		remap[i] = -1
	}
	used := 0
	for _, op := range c.Operations() {
		for _, q := range op.Qubits() {
			if remap[q] == -1 {
				remap[q] = used
				used++
			}
		}
	}

	branches := []*branch{{
		rho:  NewDensityMatrix(used),
		bits: make([]byte, c.Clbits()),
	}}

	for idx, op := range c.Operations() {
		switch op.Kind {
		case OpBarrier:
			continue
		case OpH, OpX, OpY, OpZ:
			q := remap[op.Qubit]
			for _, br := range branches {
				switch op.Kind {
				case OpH:
					br.rho.ApplyH(q)
				case OpX:
					br.rho.ApplyX(q)
				case OpY:
					br.rho.ApplyY(q)
				case OpZ:
					br.rho.ApplyZ(q)
				}
				for _, ch := range model.Channels(op.Kind) {
					br.rho.ApplyChannel(ch, q)
				}
			}
		case OpCX:
			ctrl, target := remap[op.Control], remap[op.Qubit]
			for _, br := range branches {
				br.rho.ApplyCX(ctrl, target)
				for _, ch := range model.Channels(op.Kind) {
					br.rho.ApplyChannel(ch, ctrl, target)
				}
			}
		case OpMeasure:
			q := remap[op.Qubit]
			next := make([]*branch, 0, len(branches)*2)
			for _, br := range branches {
				one := &branch{rho: br.rho.Clone(), bits: append([]byte(nil), br.bits...)}
				one.rho.Project(q, 1)
				one.bits[op.Clbit] = 1

				br.rho.Project(q, 0)
				br.bits[op.Clbit] = 0

				if br.rho.Trace() > branchEpsilon {
					next = append(next, br)
				}
				if one.rho.Trace() > branchEpsilon {
					next = append(next, one)
				}
			}
			branches = next
		case OpReset:
			q := remap[op.Qubit]
			for _, br := range branches {
				br.rho.ApplyReset(q)
			}
		default:
			return nil, fmt.Errorf("operation %d: unknown kind %s", idx, op.Kind)
		}

		total := 0.0
		for _, br := range branches {
			total += br.rho.Trace()
		}
		if math.Abs(total-1) > traceTolerance {
			return nil, fmt.Errorf("operation %d (%s): state norm drifted to %g", idx, op.Kind, total)
		}
	}

	probs := make(map[string]float64, len(branches))
	for _, br := range branches {
		probs[bitsKey(br.bits)] += br.rho.Trace()
	}

	dist := make([]outcome, 0, len(probs))
	sum := 0.0
	for key, p := range probs {
		dist = append(dist, outcome{key: key, prob: p})
		sum += p
	}
	if math.Abs(sum-1) > traceTolerance {
		return nil, fmt.Errorf("outcome probabilities sum to %g, want 1", sum)
	}
	// Deterministic sampling order regardless of map iteration.
	sort.Slice(dist, func(i, j int) bool { return dist[i].key < dist[j].key })
	return dist, nil
}

func (s *Simulator) sample(dist []outcome, shots int) OutcomeTable {
	table := make(OutcomeTable, len(dist))
	total := 0.0
	for _, o := range dist {
		total += o.prob
	}
	rng := newRNGStream(s.Seed)
	for shot := 0; shot < shots; shot++ {
		r := rng.Float64() * total
		acc := 0.0
		key := dist[len(dist)-1].key
		for _, o := range dist {
			acc += o.prob
			if r < acc {
				key = o.key
				break
			}
		}
		table[key]++
	}
	return table
}

func bitsKey(bits []byte) string {
	b := make([]byte, len(bits))
	for i, v := range bits {
		b[i] = '0' + v
	}
	return string(b)
}
