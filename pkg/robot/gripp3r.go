package robot

import (
	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/drive"
)

// Gripp3r is a tracked robot that just drives from the remote.
type Gripp3r struct {
	*drive.BeaconController
	profile drive.Profile
}

func (g *Gripp3r) Name() string {
	return "Gripp3r"
}

func (g *Gripp3r) Start() error {
	return nil
}

func (g *Gripp3r) Tick() error {
	return g.Step(g.profile)
}

var (
	_ Robot            = (*Gripp3r)(nil)
	_ drive.Controller = (*Gripp3r)(nil)
)
