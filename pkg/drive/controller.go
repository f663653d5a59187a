package drive

import (
	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/beacon"
	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/logger"
)

// BeaconController drives a tank-style drivebase from the IR remote.  It
// keeps no state between steps.
type BeaconController struct {
	Reader    beacon.Reader
	Channel   int
	Drivebase Drivebase
}

func NewBeaconController(reader beacon.Reader, channel int, db Drivebase) (*BeaconController, error) {
	if err := beacon.ValidChannel(channel); err != nil {
		return nil, err
	}
	return &BeaconController{
		Reader:    reader,
		Channel:   channel,
		Drivebase: db,
	}, nil
}

// Step reads the remote once and issues exactly one command to the drivebase.
// Errors only come from the reader or the drivebase.
func (c *BeaconController) Step(profile Profile) error {
	buttons, err := c.Reader.PressedButtons(c.Channel)
	if err != nil {
		return err
	}
	cmd := CommandFor(buttons, profile)
	logger.Get().Debug().Stringer("buttons", buttons).Stringer("command", cmd).Msg("Beacon step")
	return Apply(cmd, c.Drivebase)
}

var _ Controller = (*BeaconController)(nil)
