package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.viam.com/test"

	"go.viam.com/timedrobot/components/base/differential"
	"go.viam.com/timedrobot/components/input/gamepad"
	_ "go.viam.com/timedrobot/components/register"
	"go.viam.com/timedrobot/logging"
	"go.viam.com/timedrobot/robot"
)

func TestReadFakeConfig(t *testing.T) {
	logger := logging.NewTestLogger(t)
	cfg, err := Read(filepath.Join("..", "etc", "configs", "fake.json"), logger)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, cfg.Robot.Mode, test.ShouldEqual, ModeMatch)
	test.That(t, cfg.Robot.Period(), test.ShouldEqual, 20*time.Millisecond)
	test.That(t, cfg.Components, test.ShouldHaveLength, 12)
	test.That(t, cfg.LogConfig, test.ShouldHaveLength, 1)

	var drive bool
	for _, conf := range cfg.Components {
		if conf.Name != "drive" {
			continue
		}
		drive = true
		native, ok := conf.ConvertedAttributes.(*differential.Config)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, native.ExpirationMs, test.ShouldEqual, 100)
		test.That(t, conf.Dependencies(), test.ShouldResemble,
			[]string{"front-left", "rear-left", "front-right", "rear-right"})
	}
	test.That(t, drive, test.ShouldBeTrue)
}

func TestReadGenericLinuxConfig(t *testing.T) {
	logger := logging.NewTestLogger(t)
	t.Setenv("ROBOT_MODE", "teleop")

	cfg, err := Read(filepath.Join("..", "etc", "configs", "genericlinux.json"), logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Debug, test.ShouldBeFalse)
	test.That(t, cfg.Robot.Mode, test.ShouldEqual, "teleop")
	test.That(t, cfg.Robot.Period(), test.ShouldEqual, robot.DefaultPeriod)

	auto, teleop := cfg.Robot.MatchPeriods()
	test.That(t, auto, test.ShouldEqual, 15*time.Second)
	test.That(t, teleop, test.ShouldEqual, 135*time.Second)

	var driver *gamepad.Config
	for _, c := range cfg.Components {
		if c.Name == "driver" {
			driver, _ = c.ConvertedAttributes.(*gamepad.Config)
		}
	}
	test.That(t, driver, test.ShouldNotBeNil)
	test.That(t, driver.DevFile, test.ShouldEqual, "/dev/input/event0")
}

func TestReadExpandsEnvironment(t *testing.T) {
	logger := logging.NewTestLogger(t)
	t.Setenv("TEST_ROBOT_MODE", "autonomous")
	t.Setenv("TEST_ROBOT_PERIOD", "10")

	path := filepath.Join(t.TempDir(), "robot.json")
	err := os.WriteFile(path, []byte(`{
		"robot": {"mode": "${TEST_ROBOT_MODE}", "period_ms": ${TEST_ROBOT_PERIOD}},
		"components": [{"name": "m", "type": "motor", "model": "fake"}]
	}`), 0o600)
	test.That(t, err, test.ShouldBeNil)

	cfg, err := Read(path, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.ConfigFilePath, test.ShouldEqual, path)
	test.That(t, cfg.Robot.Mode, test.ShouldEqual, "autonomous")
	test.That(t, cfg.Robot.Period(), test.ShouldEqual, 10*time.Millisecond)

	_, err = Read(filepath.Join(t.TempDir(), "missing.json"), logger)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestFromReaderValidate(t *testing.T) {
	logger := logging.NewTestLogger(t)

	for _, tc := range []struct {
		name     string
		json     string
		expected string
	}{
		{
			name:     "bad json",
			json:     `{"components": [`,
			expected: "failed to decode Config from json",
		},
		{
			name:     "unknown field",
			json:     `{"remotes": []}`,
			expected: "unknown field",
		},
		{
			name:     "missing name",
			json:     `{"components": [{"type": "motor", "model": "fake"}]}`,
			expected: "name",
		},
		{
			name:     "unregistered model",
			json:     `{"components": [{"name": "m", "type": "motor", "model": "warp"}]}`,
			expected: "no registration",
		},
		{
			name: "duplicate name",
			json: `{"components": [
				{"name": "m", "type": "motor", "model": "fake"},
				{"name": "m", "type": "solenoid", "model": "fake"}
			]}`,
			expected: `duplicate component name "m"`,
		},
		{
			name:     "bad attributes",
			json:     `{"components": [{"name": "m", "type": "motor", "model": "fake", "attributes": {"speed": 1}}]}`,
			expected: "unknown attributes",
		},
		{
			name:     "bad mode",
			json:     `{"robot": {"mode": "practice"}}`,
			expected: "practice",
		},
		{
			name:     "negative period",
			json:     `{"robot": {"period_ms": -5}}`,
			expected: "period_ms must be positive",
		},
		{
			name:     "negative match period",
			json:     `{"robot": {"mode": "match", "teleop_sec": -1}}`,
			expected: "match period lengths must be positive",
		},
		{
			name:     "bad log pattern",
			json:     `{"log": [{"pattern": "drive..base", "level": "debug"}]}`,
			expected: "invalid logger pattern",
		},
		{
			name:     "bad log level",
			json:     `{"log": [{"pattern": "drive", "level": "loud"}]}`,
			expected: "unknown log level",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromReader("", strings.NewReader(tc.json), logger)
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, tc.expected)
		})
	}

	cfg, err := FromReader("", strings.NewReader(`{}`), logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Robot.Mode, test.ShouldBeEmpty)
	test.That(t, cfg.Robot.Period(), test.ShouldEqual, robot.DefaultPeriod)
}

func TestApplyLogConfig(t *testing.T) {
	logger := logging.NewTestLogger(t)
	InitLoggingSettings(logger, false)
	test.That(t, logging.GlobalLogLevel.Level().String(), test.ShouldEqual, "info")

	drive := logging.NewLogger("config-test").Sublogger("drive")
	cfg := &Config{
		Debug:     true,
		LogConfig: []logging.LoggerPatternConfig{{Pattern: "config-test.*", Level: "warn"}},
	}
	test.That(t, ApplyLogConfig(cfg, logger), test.ShouldBeNil)
	test.That(t, logging.GlobalLogLevel.Level().String(), test.ShouldEqual, "debug")
	test.That(t, drive.GetLevel(), test.ShouldEqual, logging.WARN)

	cfg.Debug = false
	test.That(t, ApplyLogConfig(cfg, logger), test.ShouldBeNil)
	test.That(t, logging.GlobalLogLevel.Level().String(), test.ShouldEqual, "info")
}
