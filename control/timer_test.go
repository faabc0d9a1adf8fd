package control

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.viam.com/test"
)

func TestTimer(t *testing.T) {
	clk := clock.NewMock()
	timer := NewTimer(clk)

	test.That(t, timer.Get(), test.ShouldEqual, time.Duration(0))
	test.That(t, timer.Running(), test.ShouldBeFalse)
	clk.Add(time.Second)
	test.That(t, timer.Get(), test.ShouldEqual, time.Duration(0))

	timer.Start()
	test.That(t, timer.Running(), test.ShouldBeTrue)
	clk.Add(200 * time.Millisecond)
	test.That(t, timer.Get(), test.ShouldEqual, 200*time.Millisecond)

	// starting again does not restart
	timer.Start()
	clk.Add(100 * time.Millisecond)
	test.That(t, timer.Get(), test.ShouldEqual, 300*time.Millisecond)
	test.That(t, timer.HasElapsed(300*time.Millisecond), test.ShouldBeTrue)
	test.That(t, timer.HasElapsed(301*time.Millisecond), test.ShouldBeFalse)

	timer.Stop()
	clk.Add(time.Second)
	test.That(t, timer.Get(), test.ShouldEqual, 300*time.Millisecond)

	// resuming accumulates on top
	timer.Start()
	clk.Add(50 * time.Millisecond)
	test.That(t, timer.Get(), test.ShouldEqual, 350*time.Millisecond)

	// reset while running keeps running from zero
	timer.Reset()
	test.That(t, timer.Get(), test.ShouldEqual, time.Duration(0))
	clk.Add(20 * time.Millisecond)
	test.That(t, timer.Get(), test.ShouldEqual, 20*time.Millisecond)
	test.That(t, timer.Running(), test.ShouldBeTrue)

	timer.Stop()
	timer.Reset()
	clk.Add(time.Second)
	test.That(t, timer.Get(), test.ShouldEqual, time.Duration(0))
	test.That(t, timer.Running(), test.ShouldBeFalse)
}
