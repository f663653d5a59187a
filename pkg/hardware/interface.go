package hardware

import (
	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/beacon"
)

// ev3dev port names.
const (
	OutA = "ev3-ports:outA"
	OutB = "ev3-ports:outB"
	OutC = "ev3-ports:outC"
	OutD = "ev3-ports:outD"

	In1 = "ev3-ports:in1"
	In2 = "ev3-ports:in2"
	In3 = "ev3-ports:in3"
	In4 = "ev3-ports:in4"
)

// StopAction is what a motor does once it is told to stop.
type StopAction string

const (
	Coast StopAction = "coast"
	Brake StopAction = "brake"
	Hold  StopAction = "hold"
)

type Interface interface {
	// Look up devices by port.  Each call returns a fresh handle.
	LargeMotor(port string) (Motor, error)
	MediumMotor(port string) (Motor, error)
	InfraredSensor(port string) (beacon.Reader, error)
	TouchSensor(port string) (TouchSensor, error)
	ColorSensor(port string) (ColorSensor, error)

	// PlaySoundAndWait returns once the sound has finished playing.
	PlaySoundAndWait(path string) error
	// Fire and forget; failures are logged.
	ShowImage(path string)

	// Stops every motor handed out and releases the speaker.
	Shutdown()
}

type Motor interface {
	// Run turns the motor at the given speed until told otherwise.
	Run(degPerSec float64) error
	// RunAngle turns the motor by angle degrees at |degPerSec|, then applies
	// the stop action.  If wait is set, it returns once the move completes.
	RunAngle(degPerSec, angle float64, then StopAction, wait bool) error
	Stop(action StopAction) error
}

type TouchSensor interface {
	Pressed() (bool, error)
}

type ColorSensor interface {
	// Ambient light intensity, 0 (dark) to 100 (bright).
	Ambient() (int, error)
}
