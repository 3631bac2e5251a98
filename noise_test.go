package qsurv

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestChannels(t *testing.T) {
	Convey("Given the channel constructors", t, func() {
		Convey("Depolarizing splits p evenly over X, Y and Z", func() {
			ch := Depolarizing(0.3)

			So(ch.Validate(), ShouldBeNil)
			So(ch.Arity, ShouldEqual, 1)
			So(len(ch.Terms), ShouldEqual, 4)
			for _, term := range ch.Terms[:3] {
				So(term.Prob, ShouldAlmostEqual, 0.1, 1e-12)
			}
		})

		Convey("TwoQubitDepolarizing is a 16-term product distribution", func() {
			ch := TwoQubitDepolarizing(0.06)

			So(ch.Validate(), ShouldBeNil)
			So(ch.Arity, ShouldEqual, 2)
			So(len(ch.Terms), ShouldEqual, 16)

			total := 0.0
			for _, term := range ch.Terms {
				total += term.Prob
			}
			So(total, ShouldAlmostEqual, 1.0, 1e-12)
		})

		Convey("Leakage is a Z-biased two-term mixture", func() {
			ch := Leakage(0.01)

			So(ch.Validate(), ShouldBeNil)
			So(len(ch.Terms), ShouldEqual, 2)
		})

		Convey("CorrelatedLeakage only carries XX, ZZ and II terms", func() {
			ch := CorrelatedLeakage(0.04)

			So(ch.Validate(), ShouldBeNil)
			So(ch.Arity, ShouldEqual, 2)
			for _, term := range ch.Terms {
				So(term.Paulis[0], ShouldEqual, term.Paulis[1])
			}
		})

		Convey("A distribution that does not sum to one is rejected", func() {
			ch := Channel{
				Name:  "broken",
				Arity: 1,
				Terms: []ChannelTerm{{Paulis: [2]Pauli{PauliX}, Prob: 0.5}},
			}
			So(ch.Validate(), ShouldNotBeNil)
		})

		Convey("A negative probability is rejected", func() {
			ch := Channel{
				Name:  "broken",
				Arity: 1,
				Terms: []ChannelTerm{
					{Paulis: [2]Pauli{PauliX}, Prob: -0.5},
					{Paulis: [2]Pauli{PauliI}, Prob: 1.5},
				},
			}
			So(ch.Validate(), ShouldNotBeNil)
		})
	})
}

func TestNoiseModel(t *testing.T) {
	Convey("Given a noise model", t, func() {
		m := NewNoiseModel()

		Convey("A fresh model is empty and valid", func() {
			So(m.Empty(), ShouldBeTrue)
			So(m.Validate(), ShouldBeNil)
		})

		Convey("Attaching a valid channel to a gate kind passes validation", func() {
			So(m.Attach(OpH, Depolarizing(0.02)), ShouldBeNil)
			So(m.Empty(), ShouldBeFalse)
			So(m.Validate(), ShouldBeNil)
			So(len(m.Channels(OpH)), ShouldEqual, 1)
		})

		Convey("Attaching to a non-gate kind fails validation with a typed error", func() {
			So(m.Attach(OpMeasure, Depolarizing(0.02)), ShouldBeNil)

			err := m.Validate()
			var uce *UnsupportedChannelError
			So(errors.As(err, &uce), ShouldBeTrue)
			So(uce.Kind, ShouldEqual, OpMeasure)
		})

		Convey("An arity mismatch fails validation with a typed error", func() {
			So(m.Attach(OpCX, Depolarizing(0.02)), ShouldBeNil)

			err := m.Validate()
			var uce *UnsupportedChannelError
			So(errors.As(err, &uce), ShouldBeTrue)
			So(uce.Kind, ShouldEqual, OpCX)
		})

		Convey("Attach rejects an invalid distribution up front", func() {
			bad := Channel{Name: "bad", Arity: 1, Terms: []ChannelTerm{{Prob: 0.2}}}
			So(m.Attach(OpH, bad), ShouldNotBeNil)

			Convey("And the rejection sticks to the model", func() {
				So(m.Attach(OpH, Depolarizing(0.02)), ShouldBeNil)
				So(m.Validate(), ShouldNotBeNil)
			})
		})

		Convey("A constructor fed an out-of-range strength fails validation", func() {
			bad := NewLeakageNoiseModel(1.5, 0.01)

			So(bad.Validate(), ShouldNotBeNil)
			So(NewCorrelatedLeakageModel(-0.2).Validate(), ShouldNotBeNil)
		})

		Convey("The reference leakage model attaches two events to Hadamards", func() {
			ref := NewLeakageNoiseModel(0.05, 0.01)

			So(ref.Validate(), ShouldBeNil)
			So(len(ref.Channels(OpH)), ShouldEqual, 2)
			So(len(ref.Channels(OpCX)), ShouldEqual, 1)
			So(ref.Channels(OpH)[0].Name, ShouldEqual, "depolarizing")
			So(ref.Channels(OpH)[1].Name, ShouldEqual, "leakage")
		})

		Convey("The correlated variant validates too", func() {
			So(NewCorrelatedLeakageModel(0.03).Validate(), ShouldBeNil)
		})

		Convey("A nil model behaves as the noiseless baseline", func() {
			var nilModel *NoiseModel
			So(nilModel.Empty(), ShouldBeTrue)
			So(nilModel.Validate(), ShouldBeNil)
			So(nilModel.Channels(OpH), ShouldBeNil)
		})
	})
}
