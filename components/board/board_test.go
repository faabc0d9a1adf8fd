package board_test

import (
	"context"
	"testing"

	"go.viam.com/test"

	"go.viam.com/timedrobot/components/board"
	"go.viam.com/timedrobot/components/board/fake"
	"go.viam.com/timedrobot/logging"
	"go.viam.com/timedrobot/resource"
)

func TestPinFromDependencies(t *testing.T) {
	ctx := context.Background()
	b, err := fake.NewBoard(ctx, resource.Config{
		Name:                "io",
		API:                 board.API,
		ConvertedAttributes: &fake.Config{Pins: []string{"relay"}, StrictPins: true},
	}, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	deps := resource.Dependencies{board.Named("io"): b}

	pin, err := board.PinFromDependencies(deps, "io", "relay")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pin.Set(ctx, true, nil), test.ShouldBeNil)
	high, err := pin.Get(ctx, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, high, test.ShouldBeTrue)

	_, err = board.PinFromDependencies(deps, "io", "missing")
	test.That(t, err, test.ShouldNotBeNil)

	_, err = board.PinFromDependencies(deps, "other", "relay")
	test.That(t, err, test.ShouldNotBeNil)
}
