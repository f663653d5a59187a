package hardware

import (
	"testing"

	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/beacon"
)

type fixedReader beacon.ButtonSet

func (r fixedReader) PressedButtons(channel int) (beacon.ButtonSet, error) {
	return beacon.ButtonSet(r), nil
}

func TestDummyIRUsesBeacon(t *testing.T) {
	want := beacon.NewButtonSet(beacon.LeftUp, beacon.RightUp)
	d := NewDummy(fixedReader(want))
	ir, err := d.InfraredSensor(In4)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ir.PressedButtons(1)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("Expected %v, got %v", want, got)
	}
}

func TestDummyIRWithoutBeacon(t *testing.T) {
	d := NewDummy(nil)
	ir, _ := d.InfraredSensor(In4)
	got, err := ir.PressedButtons(1)
	if err != nil || got != 0 {
		t.Fatalf("Expected no buttons, got %v, %v", got, err)
	}
	if _, err := ir.PressedButtons(9); err == nil {
		t.Fatal("Expected an error for channel 9")
	}
}

func TestDummyShutdownStopsMotors(t *testing.T) {
	d := NewDummy(nil)
	m, _ := d.LargeMotor(OutB)
	_ = m.Run(200)
	if m.(*DummyMotor).Speed() != 200 {
		t.Fatalf("Expected speed 200, got %v", m.(*DummyMotor).Speed())
	}
	d.Shutdown()
	if m.(*DummyMotor).Speed() != 0 {
		t.Fatalf("Expected motor stopped after shutdown, got %v", m.(*DummyMotor).Speed())
	}
}

func TestDummySensors(t *testing.T) {
	d := NewDummy(nil)
	d.Ambient = 10
	touch, _ := d.TouchSensor(In1)
	if pressed, _ := touch.Pressed(); pressed {
		t.Fatal("Dummy touch sensor should never be pressed")
	}
	color, _ := d.ColorSensor(In3)
	if a, _ := color.Ambient(); a != 10 {
		t.Fatalf("Expected ambient 10, got %d", a)
	}
}
