package qsurv

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

// fakeBackend lets driver tests control exactly what each sweep point sees.
type fakeBackend struct {
	fn func(c *Circuit, model *NoiseModel, shots int) (OutcomeTable, error)
}

func (f *fakeBackend) Run(c *Circuit, model *NoiseModel, shots int) (OutcomeTable, error) {
	return f.fn(c, model, shots)
}

func TestDriverSweep(t *testing.T) {
	Convey("Given a driver over the exact simulator on the small code", t, func() {
		cfg := NewConfig()
		cfg.Shots = 1000
		cfg.Workers = 4
		cfg.Code = "642"

		driver := NewDriver(NewSimulator(cfg.Seed), Code642, cfg)
		levels := []float64{0.0, 0.01, 0.05}

		result, err := driver.Sweep(context.Background(), levels)
		So(err, ShouldBeNil)

		Convey("Every point succeeded", func() {
			for _, p := range levels {
				for _, s := range Strategies {
					So(result.Err(s, p), ShouldBeNil)
					rate, ok := result.Rate(s, p)
					So(ok, ShouldBeTrue)
					So(rate, ShouldBeBetween, -0.001, 1.001)
				}
			}
		})

		Convey("The noiseless baseline accepts everything", func() {
			for _, s := range Strategies {
				rate, ok := result.Rate(s, 0.0)
				So(ok, ShouldBeTrue)
				So(rate, ShouldEqual, 1.0)
			}
		})

		Convey("Rates decay as the noise level climbs", func() {
			for _, s := range Strategies {
				prev := 2.0
				for _, p := range levels {
					rate, ok := result.Rate(s, p)
					So(ok, ShouldBeTrue)
					So(rate, ShouldBeLessThanOrEqualTo, prev+0.02)
					prev = rate
				}
			}
		})

		Convey("The metrics account for every point", func() {
			jobs, failures, _ := driver.Metrics().Snapshot()
			So(jobs, ShouldEqual, int64(len(levels)*len(Strategies)))
			So(failures, ShouldEqual, 0)
		})

		Convey("A second sweep with the same seed reproduces the rates", func() {
			again, err := NewDriver(NewSimulator(cfg.Seed), Code642, cfg).
				Sweep(context.Background(), levels)
			So(err, ShouldBeNil)
			for _, p := range levels {
				for _, s := range Strategies {
					a, _ := result.Rate(s, p)
					b, _ := again.Rate(s, p)
					So(b, ShouldEqual, a)
				}
			}
		})
	})
}

func TestDriverFailureIsolation(t *testing.T) {
	Convey("Given a backend that fails for one strategy", t, func() {
		boom := errors.New("deferred register jam")
		deferredOps := len(BuildCircuit(Code642, StrategyDeferred).Operations())
		backend := &fakeBackend{fn: func(c *Circuit, _ *NoiseModel, shots int) (OutcomeTable, error) {
			if len(c.Operations()) == deferredOps {
				return nil, boom
			}
			return OutcomeTable{"00": shots}, nil
		}}

		cfg := NewConfig()
		cfg.Workers = 2
		cfg.Code = "642"
		driver := NewDriver(backend, Code642, cfg)

		levels := []float64{0.0, 0.02}
		result, err := driver.Sweep(context.Background(), levels)
		So(err, ShouldBeNil)

		Convey("The failing points carry their error, the rest succeed", func() {
			for _, p := range levels {
				So(errors.Is(result.Err(StrategyDeferred, p), boom), ShouldBeTrue)
				_, ok := result.Rate(StrategyDeferred, p)
				So(ok, ShouldBeFalse)

				rate, ok := result.Rate(StrategyMidCircuit, p)
				So(ok, ShouldBeTrue)
				So(rate, ShouldEqual, 1.0)
			}
		})

		Convey("The failures show up in the metrics", func() {
			_, failures, _ := driver.Metrics().Snapshot()
			So(failures, ShouldEqual, int64(len(levels)))
		})

		Convey("The table renders failed points as dashes", func() {
			var buf bytes.Buffer
			So(result.WriteTable(&buf), ShouldBeNil)

			out := buf.String()
			So(out, ShouldContainSubstring, "p_noise | mid-circuit | deferred | control")
			So(out, ShouldContainSubstring, "-")
			So(len(strings.Split(strings.TrimSpace(out), "\n")), ShouldEqual, len(levels)+2)
		})
	})

	Convey("Given a cancelled context", t, func() {
		backend := &fakeBackend{fn: func(_ *Circuit, _ *NoiseModel, shots int) (OutcomeTable, error) {
			return OutcomeTable{"00": shots}, nil
		}}
		driver := NewDriver(backend, Code642, nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result, err := driver.Sweep(ctx, []float64{0.0})
		So(err, ShouldBeNil)

		for _, s := range Strategies {
			So(errors.Is(result.Err(s, 0.0), context.Canceled), ShouldBeTrue)
		}
	})

	Convey("Sweep setup errors are returned, not recorded", t, func() {
		driver := NewDriver(NewSimulator(1), Code642, nil)

		_, err := driver.Sweep(context.Background(), nil)
		So(err, ShouldNotBeNil)

		Convey("Including a noise level outside [0,1]", func() {
			_, err := driver.Sweep(context.Background(), []float64{0.0, 1.5})
			So(err, ShouldNotBeNil)

			_, err = driver.Sweep(context.Background(), []float64{-0.01})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestDriverModelSelection(t *testing.T) {
	Convey("Given the default model mapping", t, func() {
		var seen []*NoiseModel
		backend := &fakeBackend{fn: func(_ *Circuit, model *NoiseModel, shots int) (OutcomeTable, error) {
			seen = append(seen, model)
			return OutcomeTable{"00": shots}, nil
		}}

		cfg := NewConfig()
		cfg.Workers = 1
		driver := NewDriver(backend, Code642, cfg)

		_, err := driver.Sweep(context.Background(), []float64{0.0, 0.03})
		So(err, ShouldBeNil)

		Convey("Level zero runs with no channels attached at all", func() {
			empty, noisy := 0, 0
			for _, m := range seen {
				if m.Empty() {
					empty++
				} else {
					noisy++
				}
			}
			So(empty, ShouldEqual, len(Strategies))
			So(noisy, ShouldEqual, len(Strategies))
		})
	})
}

func TestFullSizeSurvival(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping full-size noisy benchmark in short mode")
	}

	Convey("Given the reference scenario on the [[8,6,2]] code", t, func() {
		cfg := NewConfig()
		cfg.Shots = 2000
		cfg.Workers = 3
		cfg.PLeak = 0.01

		driver := NewDriver(NewSimulator(cfg.Seed), Code862, cfg)
		result, err := driver.Sweep(context.Background(), []float64{0.05})
		So(err, ShouldBeNil)

		Convey("Every strategy accepts strictly less than all shots", func() {
			for _, s := range Strategies {
				rate, ok := result.Rate(s, 0.05)
				So(ok, ShouldBeTrue)
				So(rate, ShouldBeGreaterThan, 0.0)
				So(rate, ShouldBeLessThan, 1.0)
			}
		})

		Convey("Mid-circuit measurement holds up against the deferred schedule", func() {
			mid, _ := result.Rate(StrategyMidCircuit, 0.05)
			deferred, _ := result.Rate(StrategyDeferred, 0.05)
			So(mid, ShouldBeGreaterThanOrEqualTo, deferred-0.03)
		})
	})
}
