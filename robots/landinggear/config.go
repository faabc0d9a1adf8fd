package landinggear

import (
	"time"

	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"go.viam.com/timedrobot/components/input"
	"go.viam.com/timedrobot/control"
	"go.viam.com/timedrobot/resource"
	"go.viam.com/timedrobot/utils"
)

// Config names the components the robot drives and the controls it reads. Every field has a
// default.
type Config struct {
	Drive       string `json:"drive,omitempty"`
	LandingGear string `json:"landing_gear,omitempty"`
	Driver      string `json:"driver,omitempty"`
	Operator    string `json:"operator,omitempty"`
	Solenoid    string `json:"solenoid,omitempty"`
	Compressor  string `json:"compressor,omitempty"`

	// Operator buttons.
	ExtendButton          input.Control `json:"extend_button,omitempty"`
	RetractButton         input.Control `json:"retract_button,omitempty"`
	SolenoidForwardButton input.Control `json:"solenoid_forward_button,omitempty"`
	SolenoidReverseButton input.Control `json:"solenoid_reverse_button,omitempty"`
	SolenoidOffButton     input.Control `json:"solenoid_off_button,omitempty"`

	// Driver axes.
	ForwardAxis input.Control `json:"forward_axis,omitempty"`
	TurnAxis    input.Control `json:"turn_axis,omitempty"`

	GearPower float64       `json:"gear_power,omitempty"`
	GearPulse time.Duration `json:"gear_pulse,omitempty"`

	AutonomousSpeed    float64       `json:"autonomous_speed,omitempty"`
	AutonomousDuration time.Duration `json:"autonomous_duration,omitempty"`
}

// NewConfig converts raw robot attributes into a Config with defaults applied.
func NewConfig(attributes utils.AttributeMap) (*Config, error) {
	cfg, err := resource.TransformAttributeMap[*Config](attributes)
	if err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return cfg, nil
}

func (cfg *Config) setDefaults() {
	setString := func(field *string, def string) {
		if *field == "" {
			*field = def
		}
	}
	setControl := func(field *input.Control, def input.Control) {
		if *field == "" {
			*field = def
		}
	}
	setString(&cfg.Drive, "drive")
	setString(&cfg.LandingGear, "landing-gear")
	setString(&cfg.Driver, "driver")
	setString(&cfg.Operator, "operator")
	setString(&cfg.Solenoid, "pneumatics")
	setString(&cfg.Compressor, "compressor")

	setControl(&cfg.ExtendButton, input.ButtonLT)
	setControl(&cfg.RetractButton, input.ButtonRT)
	setControl(&cfg.SolenoidForwardButton, input.ButtonWest)
	setControl(&cfg.SolenoidReverseButton, input.ButtonNorth)
	setControl(&cfg.SolenoidOffButton, input.ButtonSouth)
	setControl(&cfg.ForwardAxis, input.AbsoluteY)
	setControl(&cfg.TurnAxis, input.AbsoluteRX)

	if cfg.GearPower == 0 {
		cfg.GearPower = 1
	}
	if cfg.GearPulse == 0 {
		cfg.GearPulse = 300 * time.Millisecond
	}
	if cfg.AutonomousSpeed == 0 {
		cfg.AutonomousSpeed = 0.5
	}
	if cfg.AutonomousDuration == 0 {
		cfg.AutonomousDuration = 2 * time.Second
	}
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	for field, c := range map[string]input.Control{
		"extend_button":           cfg.ExtendButton,
		"retract_button":          cfg.RetractButton,
		"solenoid_forward_button": cfg.SolenoidForwardButton,
		"solenoid_reverse_button": cfg.SolenoidReverseButton,
		"solenoid_off_button":     cfg.SolenoidOffButton,
	} {
		if !input.IsKnownControl(c) || input.IsAxis(c) {
			return goutils.NewConfigValidationError(path, errors.Errorf("%s: %q is not a button", field, c))
		}
	}
	for field, c := range map[string]input.Control{
		"forward_axis": cfg.ForwardAxis,
		"turn_axis":    cfg.TurnAxis,
	} {
		if !input.IsAxis(c) {
			return goutils.NewConfigValidationError(path, errors.Errorf("%s: %q is not an axis", field, c))
		}
	}
	if cfg.ExtendButton == cfg.RetractButton {
		return goutils.NewConfigValidationError(path,
			errors.Errorf("extend_button and retract_button are both %q", cfg.ExtendButton))
	}
	if cfg.AutonomousSpeed < -1 || cfg.AutonomousSpeed > 1 {
		return goutils.NewConfigValidationError(path,
			errors.Errorf("autonomous_speed must be in [-1, 1], not %v", cfg.AutonomousSpeed))
	}
	if cfg.AutonomousDuration < 0 {
		return goutils.NewConfigValidationError(path,
			errors.Errorf("autonomous_duration must be positive, not %v", cfg.AutonomousDuration))
	}
	return cfg.pulseConfig().Validate(path)
}

func (cfg *Config) pulseConfig() *control.PulseHoldConfig {
	return &control.PulseHoldConfig{Power: cfg.GearPower, Duration: cfg.GearPulse}
}
