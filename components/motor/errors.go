package motor

import "github.com/pkg/errors"

// NewEmptyGroupError is returned when a motor group is configured without motors.
func NewEmptyGroupError(groupName string) error {
	return errors.Errorf("motor group %s needs at least one motor", groupName)
}

// NewInvalidPulseWidthError is returned when pulse widths are not ordered min < center < max.
func NewInvalidPulseWidthError(minUs, centerUs, maxUs uint) error {
	return errors.Errorf("pulse widths must satisfy min < center < max, got %d < %d < %d", minUs, centerUs, maxUs)
}
