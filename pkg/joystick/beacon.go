package joystick

import (
	"sync"

	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/beacon"
)

// Sticks pushed more than half way count as a held paddle.
const stickThreshold = 16384

// Beacon lets a gamepad stand in for the IR remote.  L1/L2 are the left
// paddle up/down, R1/R2 the right paddle; the sticks' Y axes work too.  The
// same pad answers on every channel.
type Beacon struct {
	lock    sync.Mutex
	buttons beacon.ButtonSet
	sticks  beacon.ButtonSet
}

func NewBeacon() *Beacon {
	return &Beacon{}
}

func (b *Beacon) OnJoystickEvent(event *Event) {
	b.lock.Lock()
	defer b.lock.Unlock()

	switch event.Type {
	case EventTypeButton:
		var button beacon.Button
		switch event.Number {
		case ButtonL1:
			button = beacon.LeftUp
		case ButtonL2:
			button = beacon.LeftDown
		case ButtonR1:
			button = beacon.RightUp
		case ButtonR2:
			button = beacon.RightDown
		default:
			return
		}
		if event.Value != 0 {
			b.buttons = b.buttons.With(button)
		} else {
			b.buttons = b.buttons.Without(button)
		}
	case EventTypeAxis:
		switch event.Number {
		case AxisLStickY:
			b.sticks = stickButtons(b.sticks, event.Value, beacon.LeftUp, beacon.LeftDown)
		case AxisRStickY:
			b.sticks = stickButtons(b.sticks, event.Value, beacon.RightUp, beacon.RightDown)
		}
	}
}

func stickButtons(s beacon.ButtonSet, value int16, up, down beacon.Button) beacon.ButtonSet {
	s = s.Without(up).Without(down)
	if value <= -stickThreshold {
		s = s.With(up)
	} else if value >= stickThreshold {
		s = s.With(down)
	}
	return s
}

func (b *Beacon) PressedButtons(channel int) (beacon.ButtonSet, error) {
	if err := beacon.ValidChannel(channel); err != nil {
		return 0, err
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buttons | b.sticks, nil
}

var _ beacon.Reader = (*Beacon)(nil)
