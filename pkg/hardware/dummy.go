package hardware

import (
	"sync"

	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/beacon"
	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/logger"
)

// Dummy stands in for the brick when running elsewhere.  Commands are logged;
// the IR sensor reads from Beacon if one is set.
type Dummy struct {
	Beacon  beacon.Reader
	Ambient int

	lock   sync.Mutex
	motors []*DummyMotor
}

func NewDummy(b beacon.Reader) *Dummy {
	return &Dummy{Beacon: b, Ambient: 50}
}

var _ Interface = (*Dummy)(nil)

func (d *Dummy) LargeMotor(port string) (Motor, error) {
	return d.motor(port), nil
}

func (d *Dummy) MediumMotor(port string) (Motor, error) {
	return d.motor(port), nil
}

func (d *Dummy) motor(port string) *DummyMotor {
	logger.Get().Info().Str("port", port).Msg("DHW: motor")
	m := &DummyMotor{Port: port}
	d.lock.Lock()
	d.motors = append(d.motors, m)
	d.lock.Unlock()
	return m
}

func (d *Dummy) InfraredSensor(port string) (beacon.Reader, error) {
	logger.Get().Info().Str("port", port).Msg("DHW: infrared sensor")
	if d.Beacon != nil {
		return d.Beacon, nil
	}
	return noButtons{}, nil
}

func (d *Dummy) TouchSensor(port string) (TouchSensor, error) {
	logger.Get().Info().Str("port", port).Msg("DHW: touch sensor")
	return dummySensor{ambient: d.Ambient}, nil
}

func (d *Dummy) ColorSensor(port string) (ColorSensor, error) {
	logger.Get().Info().Str("port", port).Msg("DHW: color sensor")
	return dummySensor{ambient: d.Ambient}, nil
}

func (d *Dummy) PlaySoundAndWait(path string) error {
	logger.Get().Info().Str("path", path).Msg("DHW: PlaySoundAndWait")
	return nil
}

func (d *Dummy) ShowImage(path string) {
	logger.Get().Info().Str("path", path).Msg("DHW: ShowImage")
}

func (d *Dummy) Shutdown() {
	logger.Get().Info().Msg("DHW: Shutdown")
	d.lock.Lock()
	defer d.lock.Unlock()
	for _, m := range d.motors {
		_ = m.Stop(Coast)
	}
}

// DummyMotor remembers the last speed it was given.
type DummyMotor struct {
	Port string

	lock  sync.Mutex
	speed float64
}

func (m *DummyMotor) Speed() float64 {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.speed
}

func (m *DummyMotor) Run(degPerSec float64) error {
	m.lock.Lock()
	changed := m.speed != degPerSec
	m.speed = degPerSec
	m.lock.Unlock()
	if changed {
		logger.Get().Debug().Str("port", m.Port).Float64("speed", degPerSec).Msg("DHW: Run")
	}
	return nil
}

func (m *DummyMotor) RunAngle(degPerSec, angle float64, then StopAction, wait bool) error {
	logger.Get().Info().Str("port", m.Port).
		Float64("speed", degPerSec).Float64("angle", angle).
		Str("then", string(then)).Bool("wait", wait).
		Msg("DHW: RunAngle")
	return nil
}

func (m *DummyMotor) Stop(action StopAction) error {
	m.lock.Lock()
	changed := m.speed != 0
	m.speed = 0
	m.lock.Unlock()
	if changed {
		logger.Get().Debug().Str("port", m.Port).Str("action", string(action)).Msg("DHW: Stop")
	}
	return nil
}

type noButtons struct{}

func (noButtons) PressedButtons(channel int) (beacon.ButtonSet, error) {
	return 0, beacon.ValidChannel(channel)
}

type dummySensor struct {
	ambient int
}

func (dummySensor) Pressed() (bool, error) {
	return false, nil
}

func (s dummySensor) Ambient() (int, error) {
	return s.ambient, nil
}
