package control

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.viam.com/test"

	"go.viam.com/timedrobot/components/motor"
	fakemotor "go.viam.com/timedrobot/components/motor/fake"
	"go.viam.com/timedrobot/logging"
	"go.viam.com/timedrobot/resource"
)

const period = 20 * time.Millisecond

type pulseHarness struct {
	t     *testing.T
	ctx   context.Context
	clk   *clock.Mock
	gear  *fakemotor.Motor
	pulse *PulseHold
	start time.Time
}

func newPulseHarness(t *testing.T, cfg PulseHoldConfig) *pulseHarness {
	t.Helper()
	logger := logging.NewTestLogger(t)
	gear, err := fakemotor.NewMotor(resource.Config{Name: "gear", API: motor.API}, logger)
	test.That(t, err, test.ShouldBeNil)
	clk := clock.NewMock()
	pulse, err := NewPulseHold(gear, clk, cfg, logger)
	test.That(t, err, test.ShouldBeNil)
	return &pulseHarness{t: t, ctx: context.Background(), clk: clk, gear: gear, pulse: pulse, start: clk.Now()}
}

// tick runs one step at the current time and then advances the clock by one period.
func (h *pulseHarness) tick(first, second bool) {
	h.t.Helper()
	test.That(h.t, h.pulse.Tick(h.ctx, first, second), test.ShouldBeNil)
	h.clk.Add(period)
}

func (h *pulseHarness) now() time.Duration {
	return h.clk.Now().Sub(h.start)
}

func TestPulseHoldConfig(t *testing.T) {
	cfg := PulseHoldConfig{}
	test.That(t, cfg.Validate("pulse"), test.ShouldBeNil)
	test.That(t, cfg.withDefaults(), test.ShouldResemble, PulseHoldConfig{Power: 1, Duration: 300 * time.Millisecond})

	cfg = PulseHoldConfig{Power: 0.4, Duration: time.Second}
	test.That(t, cfg.withDefaults(), test.ShouldResemble, cfg)

	cfg = PulseHoldConfig{Power: 1.5}
	err := cfg.Validate("pulse")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "power")

	cfg = PulseHoldConfig{Power: -1}
	test.That(t, cfg.Validate("pulse"), test.ShouldNotBeNil)

	cfg = PulseHoldConfig{Duration: -time.Second}
	err = cfg.Validate("pulse")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "duration")

	_, err = NewPulseHold(nil, clock.NewMock(), cfg, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestPulseSinglePress(t *testing.T) {
	h := newPulseHarness(t, PulseHoldConfig{})

	h.tick(true, false)
	test.That(t, h.pulse.Command(), test.ShouldEqual, 1.0)
	test.That(t, h.pulse.State(), test.ShouldEqual, Running)

	for h.now() < 300*time.Millisecond {
		h.tick(false, false)
		test.That(t, h.pulse.Command(), test.ShouldEqual, 1.0)
		test.That(t, h.gear.PowerPct(), test.ShouldEqual, 1.0)
	}

	// the tick at 300ms stops it
	h.tick(false, false)
	test.That(t, h.pulse.Command(), test.ShouldEqual, 0.0)
	test.That(t, h.pulse.State(), test.ShouldEqual, Idle)
	test.That(t, h.gear.PowerPct(), test.ShouldEqual, 0.0)

	// and it never re-engages
	for i := 0; i < 50; i++ {
		h.tick(false, false)
	}
	test.That(t, h.gear.History(), test.ShouldResemble, []float64{1, 0})
}

func TestPulseSecondInputReverses(t *testing.T) {
	h := newPulseHarness(t, PulseHoldConfig{Power: 0.5})

	h.tick(false, true)
	test.That(t, h.pulse.Command(), test.ShouldEqual, -0.5)
	test.That(t, h.gear.PowerPct(), test.ShouldEqual, -0.5)

	h.tick(false, false)
	h.tick(true, false)
	test.That(t, h.pulse.Command(), test.ShouldEqual, 0.5)
	test.That(t, h.gear.PowerPct(), test.ShouldEqual, 0.5)
}

func TestPulseBothInputsIgnored(t *testing.T) {
	t.Run("from idle", func(t *testing.T) {
		h := newPulseHarness(t, PulseHoldConfig{})
		h.tick(true, true)
		test.That(t, h.pulse.Command(), test.ShouldEqual, 0.0)
		test.That(t, h.pulse.State(), test.ShouldEqual, Idle)
		test.That(t, h.gear.History(), test.ShouldBeEmpty)
	})

	t.Run("while running", func(t *testing.T) {
		h := newPulseHarness(t, PulseHoldConfig{})
		h.tick(true, false)
		for h.now() < 300*time.Millisecond {
			h.tick(true, true)
			test.That(t, h.pulse.Command(), test.ShouldEqual, 1.0)
			test.That(t, h.pulse.State(), test.ShouldEqual, Running)
		}
		// both held does not extend the pulse
		h.tick(true, true)
		test.That(t, h.pulse.Command(), test.ShouldEqual, 0.0)
		test.That(t, h.gear.History(), test.ShouldResemble, []float64{1, 0})
	})

	t.Run("held for the whole run", func(t *testing.T) {
		h := newPulseHarness(t, PulseHoldConfig{})
		for i := 0; i < 100; i++ {
			h.tick(true, true)
			test.That(t, h.pulse.State(), test.ShouldEqual, Idle)
		}
		test.That(t, h.gear.History(), test.ShouldBeEmpty)
	})
}

func TestPulseIdleTicks(t *testing.T) {
	h := newPulseHarness(t, PulseHoldConfig{})
	for i := 0; i < 100; i++ {
		h.tick(false, false)
		test.That(t, h.pulse.Command(), test.ShouldEqual, 0.0)
		test.That(t, h.pulse.State(), test.ShouldEqual, Idle)
	}
	test.That(t, h.gear.History(), test.ShouldBeEmpty)
}

func TestPulseStopsAfterLastPress(t *testing.T) {
	h := newPulseHarness(t, PulseHoldConfig{})

	// held for ticks at 0, 20, 40, 60 and 80ms
	for i := 0; i < 5; i++ {
		h.tick(true, false)
	}
	test.That(t, h.now(), test.ShouldEqual, 100*time.Millisecond)

	for h.now() < 380*time.Millisecond {
		h.tick(false, false)
		test.That(t, h.pulse.Command(), test.ShouldEqual, 1.0)
	}
	test.That(t, h.pulse.Elapsed(), test.ShouldEqual, 300*time.Millisecond)
	h.tick(false, false)
	test.That(t, h.pulse.Command(), test.ShouldEqual, 0.0)
	test.That(t, h.pulse.State(), test.ShouldEqual, Idle)
	test.That(t, h.gear.History(), test.ShouldResemble, []float64{1, 1, 1, 1, 1, 0})
}

func TestPulseCommandIsAlwaysBounded(t *testing.T) {
	h := newPulseHarness(t, PulseHoldConfig{})
	//nolint:gosec
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		h.tick(r.Intn(4) == 0, r.Intn(4) == 0)
		cmd := h.pulse.Command()
		test.That(t, cmd == -1 || cmd == 0 || cmd == 1, test.ShouldBeTrue)
		test.That(t, h.gear.PowerPct(), test.ShouldEqual, cmd)
	}
}

func TestPulseStop(t *testing.T) {
	h := newPulseHarness(t, PulseHoldConfig{})
	h.tick(true, false)
	test.That(t, h.pulse.Stop(h.ctx), test.ShouldBeNil)
	test.That(t, h.pulse.Command(), test.ShouldEqual, 0.0)
	test.That(t, h.pulse.State(), test.ShouldEqual, Idle)
	test.That(t, h.pulse.Elapsed(), test.ShouldEqual, time.Duration(0))
	test.That(t, h.gear.PowerPct(), test.ShouldEqual, 0.0)
}

func TestPulseActuatorError(t *testing.T) {
	h := newPulseHarness(t, PulseHoldConfig{})
	h.gear.SetError(errors.New("brownout"))

	err := h.pulse.Tick(h.ctx, true, false)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "brownout")
	test.That(t, h.pulse.Command(), test.ShouldEqual, 0.0)

	h.gear.SetError(nil)
	h.clk.Add(300 * time.Millisecond)
	// the timer was still restarted so the pulse expires on schedule
	test.That(t, h.pulse.Tick(h.ctx, false, false), test.ShouldBeNil)
	test.That(t, h.pulse.State(), test.ShouldEqual, Idle)
	test.That(t, h.gear.History(), test.ShouldResemble, []float64{0})
}
