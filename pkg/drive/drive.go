package drive

import (
	"fmt"

	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/beacon"
)

// Profile holds the speeds a robot drives at.  Speed is in mm/s, TurnRate in
// deg/s.
type Profile struct {
	Speed    float64 `yaml:"speed"`
	TurnRate float64 `yaml:"turn_rate"`
}

var DefaultProfile = Profile{Speed: 100, TurnRate: 90}

// Command is a single instruction for the drivebase: either drive at
// (Speed, TurnRate) or stop.
type Command struct {
	Stop     bool
	Speed    float64
	TurnRate float64
}

var StopCommand = Command{Stop: true}

func (c Command) String() string {
	if c.Stop {
		return "stop"
	}
	return fmt.Sprintf("drive(%v, %v)", c.Speed, c.TurnRate)
}

type Drivebase interface {
	Drive(speed, turnRate float64) error
	Stop() error
}

// Controller is implemented by anything that turns one poll of its inputs
// into one drive command.
type Controller interface {
	Step(profile Profile) error
}

type mapping struct {
	buttons  beacon.ButtonSet
	speed    float64
	turnRate float64
}

// Evaluated in order, first exact match wins.  The turn-in-place rows do not
// mirror the single button rows; keep the signs as they are.
var mappings = []mapping{
	// Forward.
	{beacon.NewButtonSet(beacon.LeftUp, beacon.RightUp), 1, 0},
	// Backward.
	{beacon.NewButtonSet(beacon.LeftDown, beacon.RightDown), -1, 0},
	// Turn left on the spot.
	{beacon.NewButtonSet(beacon.LeftUp, beacon.RightDown), 0, -1},
	// Turn right on the spot.
	{beacon.NewButtonSet(beacon.RightUp, beacon.LeftDown), 0, 1},
	// Turn left forward.
	{beacon.NewButtonSet(beacon.LeftUp), 1, -1},
	// Turn right forward.
	{beacon.NewButtonSet(beacon.RightUp), 1, 1},
	// Turn left backward.
	{beacon.NewButtonSet(beacon.LeftDown), -1, 1},
	// Turn right backward.
	{beacon.NewButtonSet(beacon.RightDown), -1, -1},
}

// CommandFor maps a button set to a drive command.  Any set not in the table
// means stop.
func CommandFor(buttons beacon.ButtonSet, profile Profile) Command {
	for _, m := range mappings {
		if buttons == m.buttons {
			return Command{
				Speed:    m.speed * profile.Speed,
				TurnRate: m.turnRate * profile.TurnRate,
			}
		}
	}
	return StopCommand
}

func Apply(cmd Command, db Drivebase) error {
	if cmd.Stop {
		return db.Stop()
	}
	return db.Drive(cmd.Speed, cmd.TurnRate)
}
