package motor

import (
	"testing"

	"go.viam.com/test"
)

func TestClampPower(t *testing.T) {
	test.That(t, ClampPower(1.5), test.ShouldEqual, 1.0)
	test.That(t, ClampPower(-1.5), test.ShouldEqual, -1.0)
	test.That(t, ClampPower(0.3), test.ShouldEqual, 0.3)
}

func TestGetSign(t *testing.T) {
	test.That(t, GetSign(5), test.ShouldEqual, 1.0)
	test.That(t, GetSign(-0.1), test.ShouldEqual, -1.0)
	test.That(t, GetSign(0), test.ShouldEqual, 0.0)
}

func TestNamed(t *testing.T) {
	test.That(t, Named("gear").String(), test.ShouldEqual, "timed-robot:component:motor/gear")
}
