package qsurv

import (
	"context"
	"fmt"
	"io"

	"github.com/theapemachine/errnie"
)

/*
Driver sweeps a list of noise levels across every measurement strategy and
collects one survival rate per (strategy, level) pair. Circuits are built
once per strategy and reused across levels, since the noise level changes the
channel strengths but never the circuit shape.
*/
type Driver struct {
	backend Backend
	code    Code
	cfg     *Config
	order   CheckOrder
	metrics *Metrics

	// Model builds the noise model for a level. Level 0 is the noiseless
	// baseline: no channels are attached at all.
	Model func(level float64) *NoiseModel
}

// NewDriver wires a driver to a backend (simulator or hardware) for one code
// instance.
func NewDriver(backend Backend, code Code, cfg *Config) *Driver {
	if cfg == nil {
		cfg = NewConfig()
	}
	d := &Driver{
		backend: backend,
		code:    code,
		cfg:     cfg,
		order:   OrderZX,
		metrics: newMetrics(),
	}
	d.Model = func(level float64) *NoiseModel {
		if level == 0 {
			return NewNoiseModel()
		}
		return NewLeakageNoiseModel(level, cfg.PLeak)
	}
	return d
}

// SetOrder overrides the stabilizer check order used by the mid-circuit
// strategy.
func (d *Driver) SetOrder(order CheckOrder) { d.order = order }

// Metrics returns the driver's execution counters.
func (d *Driver) Metrics() *Metrics { return d.metrics }

/*
SweepResult is the write-once output of one sweep: the ordered levels and one
outcome per (strategy, level) pair. Failed points keep their error alongside
the rest of the results.
*/
type SweepResult struct {
	Code   Code
	Levels []float64
	points map[SweepJob]SweepOutcome
}

// Rate returns the survival rate for a pair, with ok false if the point is
// missing or failed.
func (r *SweepResult) Rate(s Strategy, level float64) (float64, bool) {
	out, found := r.points[SweepJob{Strategy: s, Level: level}]
	if !found || out.Err != nil {
		return 0, false
	}
	return out.Rate, true
}

// Err returns the failure recorded for a pair, if any.
func (r *SweepResult) Err(s Strategy, level float64) error {
	return r.points[SweepJob{Strategy: s, Level: level}].Err
}

// Sweep runs every (strategy, level) pair and assembles the results table.
// Individual point failures are recorded, not propagated; the error return
// covers setup problems only.
func (d *Driver) Sweep(ctx context.Context, levels []float64) (*SweepResult, error) {
	if d.backend == nil {
		return nil, fmt.Errorf("driver has no backend")
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("empty noise sweep")
	}
	for _, p := range levels {
		if p < 0 || p > 1 {
			return nil, fmt.Errorf("noise level %g outside [0,1]", p)
		}
	}

	circuits := make(map[Strategy]*Circuit, len(Strategies))
	for _, s := range Strategies {
		c := BuildCircuitOrdered(d.code, s, d.order)
		if err := c.Err(); err != nil {
			return nil, fmt.Errorf("building %s circuit for %s: %w", s, d.code.Name, err)
		}
		circuits[s] = c
	}

	jobs := make([]SweepJob, 0, len(levels)*len(Strategies))
	for _, p := range levels {
		for _, s := range Strategies {
			jobs = append(jobs, SweepJob{Strategy: s, Level: p})
		}
	}

	errnie.Info(
		"sweep start - code %s, %d levels, %d shots, %d workers",
		d.code.Name, len(levels), d.cfg.Shots, d.cfg.Workers,
	)

	runner := newPool(d.cfg.Workers, d.metrics)
	points := runner.run(ctx, jobs, func(job SweepJob) (float64, error) {
		table, err := d.backend.Run(circuits[job.Strategy], d.Model(job.Level), d.cfg.Shots)
		if err != nil {
			return 0, fmt.Errorf("strategy %s at p=%g: %w", job.Strategy, job.Level, err)
		}
		return Rate(table), nil
	})

	jobsRun, failures, _ := d.metrics.Snapshot()
	errnie.Info("sweep done - %d points, %d failed", jobsRun, failures)

	return &SweepResult{Code: d.code, Levels: append([]float64(nil), levels...), points: points}, nil
}

// WriteTable prints the noise level vs. per-strategy survival rates, one row
// per level, rates to three decimal places. Failed points render as dashes.
func (r *SweepResult) WriteTable(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "p_noise | mid-circuit | deferred | control"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "-------------------------------------------"); err != nil {
		return err
	}
	for _, p := range r.Levels {
		cells := make([]string, len(Strategies))
		for i, s := range Strategies {
			if rate, ok := r.Rate(s, p); ok {
				cells[i] = fmt.Sprintf("%.3f", rate)
			} else {
				cells[i] = "-"
			}
		}
		if _, err := fmt.Fprintf(w, "%7.3f | %11s | %8s | %7s\n", p, cells[0], cells[1], cells[2]); err != nil {
			return err
		}
	}
	return nil
}
