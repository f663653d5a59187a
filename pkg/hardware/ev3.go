package hardware

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ev3go/ev3dev"

	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/beacon"
	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/logger"
	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/screen"
)

const (
	driverLargeMotor  = "lego-ev3-l-motor"
	driverMediumMotor = "lego-ev3-m-motor"
	driverIR          = "lego-ev3-ir"
	driverTouch       = "lego-ev3-touch"
	driverColor       = "lego-ev3-color"

	// Rated no-load speeds, deg/s.
	maxSpeedLargeMotor  = 1050
	maxSpeedMediumMotor = 1560

	statePollInterval = 10 * time.Millisecond
)

// Extra time a waited-for move gets on top of twice its nominal duration.
var runAngleSlack = time.Second

type SoundPlayer interface {
	PlayAndWait(path string) error
	Close()
}

// EV3 talks to the brick's motors and sensors through the ev3dev sysfs
// classes.  Sounds go to the given player; with a nil player they are only
// logged.
type EV3 struct {
	lock   sync.Mutex
	motors []*TachoMotor

	sound       SoundPlayer
	framebuffer screen.Framebuffer
}

func NewEV3(fb screen.Framebuffer, player SoundPlayer) *EV3 {
	return &EV3{
		sound:       player,
		framebuffer: fb,
	}
}

var _ Interface = (*EV3)(nil)

func (h *EV3) LargeMotor(port string) (Motor, error) {
	return h.tachoMotor(port, driverLargeMotor, maxSpeedLargeMotor)
}

func (h *EV3) MediumMotor(port string) (Motor, error) {
	return h.tachoMotor(port, driverMediumMotor, maxSpeedMediumMotor)
}

func (h *EV3) tachoMotor(port, driver string, maxSpeed float64) (Motor, error) {
	dev, err := ev3dev.TachoMotorFor(port, driver)
	if err != nil {
		return nil, fmt.Errorf("failed to find %s on %s: %w", driver, port, err)
	}
	m := newTachoMotor(port, sysfsTacho{dev}, dev.CountPerRot(), maxSpeed)
	h.lock.Lock()
	h.motors = append(h.motors, m)
	h.lock.Unlock()
	return m, nil
}

func (h *EV3) InfraredSensor(port string) (beacon.Reader, error) {
	dev, err := sensorInMode(port, driverIR, "IR-REMOTE")
	if err != nil {
		return nil, err
	}
	return &InfraredSensor{port: port, dev: dev}, nil
}

func (h *EV3) TouchSensor(port string) (TouchSensor, error) {
	dev, err := sensorInMode(port, driverTouch, "TOUCH")
	if err != nil {
		return nil, err
	}
	return &touchSensor{port: port, dev: dev}, nil
}

func (h *EV3) ColorSensor(port string) (ColorSensor, error) {
	dev, err := sensorInMode(port, driverColor, "COL-AMBIENT")
	if err != nil {
		return nil, err
	}
	return &colorSensor{port: port, dev: dev}, nil
}

func sensorInMode(port, driver, mode string) (valueReader, error) {
	dev, err := ev3dev.SensorFor(port, driver)
	if err != nil {
		return nil, fmt.Errorf("failed to find %s on %s: %w", driver, port, err)
	}
	if err := dev.SetMode(mode).Err(); err != nil {
		return nil, fmt.Errorf("failed to put %s into %s mode: %w", port, mode, err)
	}
	return dev, nil
}

func (h *EV3) PlaySoundAndWait(path string) error {
	if h.sound == nil {
		logger.Get().Info().Str("path", path).Msg("No speaker, not playing sound")
		return nil
	}
	return h.sound.PlayAndWait(path)
}

func (h *EV3) ShowImage(path string) {
	if err := screen.ShowImage(h.framebuffer, path); err != nil {
		logger.Get().Warn().Err(err).Str("image", path).Msg("Failed to show image")
	}
}

func (h *EV3) Shutdown() {
	log := logger.Get()
	log.Info().Msg("HW: Stopping motors for shut down")
	h.lock.Lock()
	motors := h.motors
	h.lock.Unlock()
	for _, m := range motors {
		if err := m.Stop(Coast); err != nil {
			log.Error().Err(err).Str("port", m.port).Msg("Failed to stop motor")
		}
	}
	if h.sound != nil {
		h.sound.Close()
	}
}

// tachoDevice is the part of the ev3dev tacho-motor class that TachoMotor
// drives.  Speeds and positions are in tacho counts.
type tachoDevice interface {
	runForever(speed int) error
	runToRelPos(speed, position int, then StopAction) error
	stop(action StopAction) error
	running() (bool, error)
}

type sysfsTacho struct {
	*ev3dev.TachoMotor
}

func (t sysfsTacho) runForever(speed int) error {
	return t.SetSpeedSetpoint(speed).Command("run-forever").Err()
}

func (t sysfsTacho) runToRelPos(speed, position int, then StopAction) error {
	return t.SetSpeedSetpoint(speed).
		SetPositionSetpoint(position).
		SetStopAction(string(then)).
		Command("run-to-rel-pos").
		Err()
}

func (t sysfsTacho) stop(action StopAction) error {
	return t.SetStopAction(string(action)).Command("stop").Err()
}

func (t sysfsTacho) running() (bool, error) {
	state, err := t.State()
	if err != nil {
		return false, err
	}
	return state&ev3dev.Running != 0, nil
}

// TachoMotor is an EV3 large or medium motor.  Speeds are converted from deg/s
// to tacho counts and clamped to the motor's rated speed.
type TachoMotor struct {
	port        string
	dev         tachoDevice
	countPerRot float64
	maxSpeed    float64
}

// newTachoMotor assumes one count per degree if the driver doesn't say.
func newTachoMotor(port string, dev tachoDevice, countPerRot int, maxSpeed float64) *TachoMotor {
	m := &TachoMotor{
		port:        port,
		dev:         dev,
		countPerRot: float64(countPerRot),
		maxSpeed:    maxSpeed,
	}
	if m.countPerRot <= 0 {
		m.countPerRot = 360
	}
	return m
}

func (m *TachoMotor) counts(deg float64) int {
	return int(math.Round(deg * m.countPerRot / 360))
}

func (m *TachoMotor) clampSpeed(degPerSec float64) float64 {
	return math.Max(-m.maxSpeed, math.Min(m.maxSpeed, degPerSec))
}

func (m *TachoMotor) Run(degPerSec float64) error {
	if err := m.dev.runForever(m.counts(m.clampSpeed(degPerSec))); err != nil {
		return fmt.Errorf("motor %s: %w", m.port, err)
	}
	return nil
}

func (m *TachoMotor) RunAngle(degPerSec, angle float64, then StopAction, wait bool) error {
	speed := m.clampSpeed(math.Abs(degPerSec))
	if err := m.dev.runToRelPos(m.counts(speed), m.counts(angle), then); err != nil {
		return fmt.Errorf("motor %s: %w", m.port, err)
	}
	if !wait || speed == 0 {
		return nil
	}

	timeout := 2*time.Duration(math.Abs(angle)/speed*float64(time.Second)) + runAngleSlack
	deadline := time.Now().Add(timeout)
	for {
		running, err := m.dev.running()
		if err != nil {
			return fmt.Errorf("motor %s: %w", m.port, err)
		}
		if !running {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("motor %s: still running after %v", m.port, timeout)
		}
		time.Sleep(statePollInterval)
	}
}

func (m *TachoMotor) Stop(action StopAction) error {
	if err := m.dev.stop(action); err != nil {
		return fmt.Errorf("motor %s: %w", m.port, err)
	}
	return nil
}

// valueReader is satisfied by *ev3dev.Sensor.
type valueReader interface {
	Value(n int) (string, error)
}

// InfraredSensor reads the IR remote.  In IR-REMOTE mode the driver reports
// one value per channel.
type InfraredSensor struct {
	port string
	dev  valueReader
}

func (s *InfraredSensor) PressedButtons(channel int) (beacon.ButtonSet, error) {
	if err := beacon.ValidChannel(channel); err != nil {
		return 0, err
	}
	code, err := intValue(s.dev, channel-1)
	if err != nil {
		return 0, fmt.Errorf("IR sensor %s: %w", s.port, err)
	}
	return beacon.DecodeRemote(code), nil
}

type touchSensor struct {
	port string
	dev  valueReader
}

func (s *touchSensor) Pressed() (bool, error) {
	v, err := intValue(s.dev, 0)
	if err != nil {
		return false, fmt.Errorf("touch sensor %s: %w", s.port, err)
	}
	return v != 0, nil
}

type colorSensor struct {
	port string
	dev  valueReader
}

func (s *colorSensor) Ambient() (int, error) {
	v, err := intValue(s.dev, 0)
	if err != nil {
		return 0, fmt.Errorf("color sensor %s: %w", s.port, err)
	}
	return v, nil
}

func intValue(dev valueReader, n int) (int, error) {
	raw, err := dev.Value(n)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(raw))
}
