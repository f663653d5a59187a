package hardware

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/beacon"
	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/screen"
)

type tachoCall struct {
	command         string
	speed, position int
	action          StopAction
}

type fakeTacho struct {
	calls []tachoCall
	// Number of state polls that still report the motor running.
	runningPolls int
	polls        int
	err          error
}

func (t *fakeTacho) runForever(speed int) error {
	t.calls = append(t.calls, tachoCall{command: "run-forever", speed: speed})
	return t.err
}

func (t *fakeTacho) runToRelPos(speed, position int, then StopAction) error {
	t.calls = append(t.calls, tachoCall{command: "run-to-rel-pos", speed: speed, position: position, action: then})
	return t.err
}

func (t *fakeTacho) stop(action StopAction) error {
	t.calls = append(t.calls, tachoCall{command: "stop", action: action})
	return t.err
}

func (t *fakeTacho) running() (bool, error) {
	t.polls++
	return t.polls <= t.runningPolls, nil
}

func expectCalls(t *testing.T, dev *fakeTacho, expected ...tachoCall) {
	t.Helper()
	if len(dev.calls) != len(expected) {
		t.Fatalf("Expected %d calls, got %+v", len(expected), dev.calls)
	}
	for i := range expected {
		if dev.calls[i] != expected[i] {
			t.Errorf("Call %d: expected %+v, got %+v", i, expected[i], dev.calls[i])
		}
	}
}

func TestMissingCountPerRotMeansDegrees(t *testing.T) {
	m := newTachoMotor(OutA, &fakeTacho{}, 0, maxSpeedLargeMotor)
	if m.countPerRot != 360 {
		t.Fatalf("Expected 360 counts per rotation, got %v", m.countPerRot)
	}
	if c := m.counts(-90); c != -90 {
		t.Errorf("Expected -90 counts, got %d", c)
	}
}

func TestCounts(t *testing.T) {
	m := newTachoMotor(OutA, &fakeTacho{}, 720, maxSpeedLargeMotor)
	for deg, expected := range map[float64]int{0: 0, 1: 2, 90: 180, -360: -720, 0.3: 1} {
		if c := m.counts(deg); c != expected {
			t.Errorf("%v deg: expected %d counts, got %d", deg, expected, c)
		}
	}
}

func TestClampSpeed(t *testing.T) {
	medium := newTachoMotor(OutA, &fakeTacho{}, 360, maxSpeedMediumMotor)
	large := newTachoMotor(OutB, &fakeTacho{}, 360, maxSpeedLargeMotor)
	for _, tc := range []struct {
		m       *TachoMotor
		in, out float64
	}{
		{medium, 2160, 1560},
		{medium, -2160, -1560},
		{medium, 500, 500},
		{large, 2160, 1050},
		{large, -1050, -1050},
		{large, 0, 0},
	} {
		if s := tc.m.clampSpeed(tc.in); s != tc.out {
			t.Errorf("%v deg/s (max %v): expected %v, got %v", tc.in, tc.m.maxSpeed, tc.out, s)
		}
	}
}

func TestRunClampsAndConverts(t *testing.T) {
	dev := &fakeTacho{}
	m := newTachoMotor(OutB, dev, 360, maxSpeedLargeMotor)
	if err := m.Run(-5000); err != nil {
		t.Fatal(err)
	}
	if err := m.Run(300.4); err != nil {
		t.Fatal(err)
	}
	expectCalls(t, dev,
		tachoCall{command: "run-forever", speed: -1050},
		tachoCall{command: "run-forever", speed: 300},
	)
}

func TestRunAngleBackwards(t *testing.T) {
	dev := &fakeTacho{}
	m := newTachoMotor(OutA, dev, 360, maxSpeedMediumMotor)
	if err := m.RunAngle(-2160, -1080, Hold, false); err != nil {
		t.Fatal(err)
	}
	// ev3dev takes the direction from the position, never the speed.
	expectCalls(t, dev, tachoCall{command: "run-to-rel-pos", speed: 1560, position: -1080, action: Hold})
	if dev.polls != 0 {
		t.Errorf("Should not poll the state without wait, polled %d times", dev.polls)
	}
}

func TestRunAngleWaits(t *testing.T) {
	dev := &fakeTacho{runningPolls: 3}
	m := newTachoMotor(OutA, dev, 360, maxSpeedMediumMotor)
	if err := m.RunAngle(1000, 10, Brake, true); err != nil {
		t.Fatal(err)
	}
	if dev.polls != 4 {
		t.Fatalf("Expected to poll until stopped (4 polls), got %d", dev.polls)
	}
}

func TestRunAngleTimesOut(t *testing.T) {
	defer func(slack time.Duration) { runAngleSlack = slack }(runAngleSlack)
	runAngleSlack = 20 * time.Millisecond

	dev := &fakeTacho{runningPolls: 1 << 30}
	m := newTachoMotor(OutA, dev, 360, maxSpeedMediumMotor)
	err := m.RunAngle(1000, 1, Hold, true)
	if err == nil || !strings.Contains(err.Error(), "still running") {
		t.Fatalf("Expected a timeout, got %v", err)
	}
}

func TestStopAndErrors(t *testing.T) {
	dev := &fakeTacho{}
	m := newTachoMotor(OutC, dev, 360, maxSpeedLargeMotor)
	if err := m.Stop(Coast); err != nil {
		t.Fatal(err)
	}
	expectCalls(t, dev, tachoCall{command: "stop", action: Coast})

	dev.err = errors.New("no such device")
	if err := m.Run(100); !errors.Is(err, dev.err) || !strings.Contains(err.Error(), OutC) {
		t.Fatalf("Expected a wrapped error naming the port, got %v", err)
	}
}

type fakeValues map[int]string

func (v fakeValues) Value(n int) (string, error) {
	raw, ok := v[n]
	if !ok {
		return "", errors.New("no such value")
	}
	return raw, nil
}

func TestInfraredReadsChannelValue(t *testing.T) {
	s := &InfraredSensor{port: In4, dev: fakeValues{0: "1", 1: "0", 2: "8\n", 3: "9"}}
	for channel, expected := range map[int]beacon.ButtonSet{
		1: beacon.NewButtonSet(beacon.LeftUp),
		2: beacon.NewButtonSet(),
		3: beacon.NewButtonSet(beacon.LeftDown, beacon.RightDown),
		4: beacon.NewButtonSet(),
	} {
		buttons, err := s.PressedButtons(channel)
		if err != nil {
			t.Fatal(err)
		}
		if buttons != expected {
			t.Errorf("Channel %d: expected %v, got %v", channel, expected, buttons)
		}
	}
	if _, err := s.PressedButtons(5); !errors.Is(err, beacon.ErrInvalidChannel) {
		t.Errorf("Expected ErrInvalidChannel, got %v", err)
	}
}

func TestInfraredBadValue(t *testing.T) {
	s := &InfraredSensor{port: In4, dev: fakeValues{0: "junk"}}
	if _, err := s.PressedButtons(1); err == nil {
		t.Fatal("Expected an error for a non-numeric value")
	}
	if _, err := s.PressedButtons(2); err == nil {
		t.Fatal("Expected an error for a missing value")
	}
}

func TestTouchAndColor(t *testing.T) {
	touch := &touchSensor{port: In1, dev: fakeValues{0: "1"}}
	if pressed, err := touch.Pressed(); err != nil || !pressed {
		t.Errorf("Expected pressed, got %v %v", pressed, err)
	}
	color := &colorSensor{port: In3, dev: fakeValues{0: "12"}}
	if ambient, err := color.Ambient(); err != nil || ambient != 12 {
		t.Errorf("Expected ambient 12, got %v %v", ambient, err)
	}
}

type fakePlayer struct {
	played []string
	closed bool
}

func (p *fakePlayer) PlayAndWait(path string) error {
	p.played = append(p.played, path)
	return nil
}

func (p *fakePlayer) Close() { p.closed = true }

func TestEV3SoundAndShutdown(t *testing.T) {
	dev := &fakeTacho{}
	player := &fakePlayer{}
	h := NewEV3(screen.EV3LCD, player)
	h.motors = append(h.motors, newTachoMotor(OutB, dev, 360, maxSpeedLargeMotor))

	if err := h.PlaySoundAndWait("up.wav"); err != nil {
		t.Fatal(err)
	}
	h.Shutdown()
	if len(player.played) != 1 || !player.closed {
		t.Fatalf("Expected one sound then close, got %v closed=%v", player.played, player.closed)
	}
	expectCalls(t, dev, tachoCall{command: "stop", action: Coast})

	if err := NewEV3(screen.EV3LCD, nil).PlaySoundAndWait("up.wav"); err != nil {
		t.Fatalf("No speaker should not be an error: %v", err)
	}
}
