package store

import (
	"context"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/theapemachine/qsurv"
)

// tableBackend returns the same counts for every sweep point.
type tableBackend struct {
	table qsurv.OutcomeTable
}

func (b *tableBackend) Run(_ *qsurv.Circuit, _ *qsurv.NoiseModel, _ int) (qsurv.OutcomeTable, error) {
	return b.table, nil
}

func TestStore(t *testing.T) {
	Convey("Given a sweep result and a fresh database", t, func() {
		ctx := context.Background()

		cfg := qsurv.NewConfig()
		cfg.Shots = 100
		cfg.Workers = 1
		cfg.Code = "642"

		backend := &tableBackend{table: qsurv.OutcomeTable{"00": 90, "01": 10}}
		driver := qsurv.NewDriver(backend, qsurv.Code642, cfg)

		levels := []float64{0.0, 0.02}
		result, err := driver.Sweep(ctx, levels)
		So(err, ShouldBeNil)

		db, err := Open(filepath.Join(t.TempDir(), "runs.db"))
		So(err, ShouldBeNil)
		defer db.Close()

		Convey("Saving and reloading round-trips every point", func() {
			runID, err := db.SaveSweep(ctx, cfg.Shots, cfg.PLeak, result)
			So(err, ShouldBeNil)
			So(runID, ShouldBeGreaterThan, 0)

			rows, err := db.Rates(ctx, runID)
			So(err, ShouldBeNil)
			So(len(rows), ShouldEqual, len(levels)*len(qsurv.Strategies))
			for _, row := range rows {
				So(row.Rate, ShouldAlmostEqual, 0.9, 1e-12)
			}
		})

		Convey("Separate sweeps get separate run ids", func() {
			first, err := db.SaveSweep(ctx, cfg.Shots, cfg.PLeak, result)
			So(err, ShouldBeNil)
			second, err := db.SaveSweep(ctx, cfg.Shots, cfg.PLeak, result)
			So(err, ShouldBeNil)
			So(second, ShouldBeGreaterThan, first)

			rows, err := db.Rates(ctx, second)
			So(err, ShouldBeNil)
			So(len(rows), ShouldEqual, len(levels)*len(qsurv.Strategies))
		})

		Convey("An unknown run id yields no rows", func() {
			rows, err := db.Rates(ctx, 9999)
			So(err, ShouldBeNil)
			So(rows, ShouldBeEmpty)
		})
	})
}
