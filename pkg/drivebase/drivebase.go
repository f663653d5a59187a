package drivebase

import (
	"errors"
	"fmt"
	"math"

	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/drive"
	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/hardware"
	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/logger"
)

// Motor is the part of a hardware motor the drivebase needs.
type Motor interface {
	Run(degPerSec float64) error
	Stop(action hardware.StopAction) error
}

// DriveBase is a two wheeled (or two tracked) differential drive.  Speeds are
// in mm/s; a positive turn rate turns clockwise when seen from above.
type DriveBase struct {
	left, right   Motor
	wheelDiameter float64
	axleTrack     float64
}

var ErrBadDimensions = errors.New("wheel diameter and axle track must be positive")

func New(left, right Motor, wheelDiameter, axleTrack float64) (*DriveBase, error) {
	if wheelDiameter <= 0 || axleTrack <= 0 {
		return nil, fmt.Errorf("%w: wheel diameter %v, axle track %v", ErrBadDimensions, wheelDiameter, axleTrack)
	}
	return &DriveBase{
		left:          left,
		right:         right,
		wheelDiameter: wheelDiameter,
		axleTrack:     axleTrack,
	}, nil
}

// WheelSpeeds returns the rotational speed of each wheel in deg/s for the
// given linear speed and turn rate.
func (d *DriveBase) WheelSpeeds(speed, turnRate float64) (left, right float64) {
	// Surface speed each side needs on top of the linear speed.
	arc := turnRate * math.Pi / 180 * d.axleTrack / 2
	mmToDeg := 360 / (math.Pi * d.wheelDiameter)
	return (speed + arc) * mmToDeg, (speed - arc) * mmToDeg
}

func (d *DriveBase) Drive(speed, turnRate float64) error {
	l, r := d.WheelSpeeds(speed, turnRate)
	logger.Get().Debug().Float64("left", l).Float64("right", r).Msg("Drivebase: wheel speeds")
	errL := d.left.Run(l)
	errR := d.right.Run(r)
	if errL != nil {
		return fmt.Errorf("left motor: %w", errL)
	}
	if errR != nil {
		return fmt.Errorf("right motor: %w", errR)
	}
	return nil
}

// Stop lets both motors coast.
func (d *DriveBase) Stop() error {
	errL := d.left.Stop(hardware.Coast)
	errR := d.right.Stop(hardware.Coast)
	if errL != nil {
		return fmt.Errorf("left motor: %w", errL)
	}
	if errR != nil {
		return fmt.Errorf("right motor: %w", errR)
	}
	return nil
}

var _ drive.Drivebase = (*DriveBase)(nil)
