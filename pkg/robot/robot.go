package robot

import (
	"context"
	"fmt"
	"time"

	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/config"
	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/drive"
	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/drivebase"
	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/hardware"
	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/logger"
)

type Robot interface {
	Name() string
	// Start runs once before the first tick.
	Start() error
	// Tick polls the inputs once and acts on them.
	Tick() error
}

// New builds the model named in the config from the given hardware.
func New(cfg *config.Config, hw hardware.Interface) (Robot, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	tank, err := newTank(cfg, hw)
	if err != nil {
		return nil, err
	}
	switch cfg.Model {
	case config.ModelEv3rstorm:
		return newEv3rstorm(cfg, hw, tank)
	case config.ModelGripp3r:
		return &Gripp3r{
			BeaconController: tank,
			profile:          cfg.Profile,
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", config.ErrUnknownModel, cfg.Model)
}

// newTank wires the IR sensor and the two drive motors together.
func newTank(cfg *config.Config, hw hardware.Interface) (*drive.BeaconController, error) {
	left, err := hw.LargeMotor(cfg.Ports.LeftMotor)
	if err != nil {
		return nil, err
	}
	right, err := hw.LargeMotor(cfg.Ports.RightMotor)
	if err != nil {
		return nil, err
	}
	db, err := drivebase.New(left, right, cfg.WheelDiameter, cfg.AxleTrack)
	if err != nil {
		return nil, err
	}
	ir, err := hw.InfraredSensor(cfg.Ports.IRSensor)
	if err != nil {
		return nil, err
	}
	return drive.NewBeaconController(ir, cfg.BeaconChannel, db)
}

// Run starts the robot and then ticks it until the context is cancelled.  With
// a zero interval it ticks as fast as the hardware allows.
func Run(ctx context.Context, r Robot, interval time.Duration) error {
	log := logger.Get()
	log.Info().Str("robot", r.Name()).Msg("Starting")
	if err := r.Start(); err != nil {
		return fmt.Errorf("%s failed to start: %w", r.Name(), err)
	}

	var tick <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for ctx.Err() == nil {
		if err := r.Tick(); err != nil {
			return fmt.Errorf("%s failed: %w", r.Name(), err)
		}
		if tick != nil {
			select {
			case <-ctx.Done():
			case <-tick:
			}
		}
	}
	log.Info().Str("robot", r.Name()).Msg("Stopped")
	return nil
}
