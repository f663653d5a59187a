package beacon

import (
	"errors"
	"fmt"
	"strings"
)

// Button is one of the four paddle buttons on the IR remote.  The red pair is
// on the left, the blue pair on the right.
type Button uint8

const (
	LeftUp Button = 1 << iota
	LeftDown
	RightUp
	RightDown
)

var allButtons = []Button{LeftUp, LeftDown, RightUp, RightDown}

func (b Button) String() string {
	switch b {
	case LeftUp:
		return "LEFT_UP"
	case LeftDown:
		return "LEFT_DOWN"
	case RightUp:
		return "RIGHT_UP"
	case RightDown:
		return "RIGHT_DOWN"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(b))
	}
}

// ButtonSet is the set of buttons held at the instant of a read.  The zero
// value is the empty set and sets compare with ==.
type ButtonSet uint8

func NewButtonSet(buttons ...Button) ButtonSet {
	var s ButtonSet
	for _, b := range buttons {
		s |= ButtonSet(b)
	}
	return s
}

func (s ButtonSet) Has(b Button) bool {
	return s&ButtonSet(b) != 0
}

func (s ButtonSet) With(b Button) ButtonSet {
	return s | ButtonSet(b)
}

func (s ButtonSet) Without(b Button) ButtonSet {
	return s &^ ButtonSet(b)
}

func (s ButtonSet) Len() int {
	n := 0
	for _, b := range allButtons {
		if s.Has(b) {
			n++
		}
	}
	return n
}

func (s ButtonSet) Buttons() []Button {
	var out []Button
	for _, b := range allButtons {
		if s.Has(b) {
			out = append(out, b)
		}
	}
	return out
}

func (s ButtonSet) String() string {
	var names []string
	for _, b := range s.Buttons() {
		names = append(names, b.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}

// Reader reports which buttons are currently held on a remote channel.
type Reader interface {
	PressedButtons(channel int) (ButtonSet, error)
}

const (
	MinChannel = 1
	MaxChannel = 4
)

var ErrInvalidChannel = errors.New("beacon channel out of range")

func ValidChannel(channel int) error {
	if channel < MinChannel || channel > MaxChannel {
		return fmt.Errorf("%w: %d (want %d-%d)", ErrInvalidChannel, channel, MinChannel, MaxChannel)
	}
	return nil
}

// Codes reported by the ev3dev lego-ev3-ir driver in IR-REMOTE mode, one
// value per channel.
const (
	CodeNone            = 0
	CodeRedUp           = 1
	CodeRedDown         = 2
	CodeBlueUp          = 3
	CodeBlueDown        = 4
	CodeRedUpBlueUp     = 5
	CodeRedUpBlueDown   = 6
	CodeRedDownBlueUp   = 7
	CodeRedDownBlueDown = 8
	CodeBeaconMode      = 9
	CodeRedUpRedDown    = 10
	CodeBlueUpBlueDown  = 11
)

var remoteCodes = map[int]ButtonSet{
	CodeRedUp:           NewButtonSet(LeftUp),
	CodeRedDown:         NewButtonSet(LeftDown),
	CodeBlueUp:          NewButtonSet(RightUp),
	CodeBlueDown:        NewButtonSet(RightDown),
	CodeRedUpBlueUp:     NewButtonSet(LeftUp, RightUp),
	CodeRedUpBlueDown:   NewButtonSet(LeftUp, RightDown),
	CodeRedDownBlueUp:   NewButtonSet(LeftDown, RightUp),
	CodeRedDownBlueDown: NewButtonSet(LeftDown, RightDown),
	CodeRedUpRedDown:    NewButtonSet(LeftUp, LeftDown),
	CodeBlueUpBlueDown:  NewButtonSet(RightUp, RightDown),
}

// DecodeRemote turns a raw IR-REMOTE value into a button set.  The beacon
// mode code and anything unrecognised decode to the empty set.
func DecodeRemote(code int) ButtonSet {
	return remoteCodes[code]
}
