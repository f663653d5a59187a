package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli"

	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/config"
	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/hardware"
	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/joystick"
	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/logger"
	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/robot"
	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/sound/wavplayer"
)

func main() {
	app := cli.NewApp()
	app.Name = "controller"
	app.Usage = "drive an EV3 robot from the IR remote"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "model",
			Usage:  "robot model: ev3rstorm or gripp3r",
			EnvVar: "EV3_MODEL",
		},
		cli.StringFlag{
			Name:  "config",
			Usage: "YAML config file",
		},
		cli.StringFlag{
			Name:  "env-file",
			Value: ".env",
			Usage: "optional file of environment overrides",
		},
		cli.BoolFlag{
			Name:  "dummy",
			Usage: "run without EV3 hardware",
		},
		cli.BoolFlag{
			Name:  "joystick",
			Usage: "with --dummy, use a gamepad as the IR remote",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "log every drive command",
		},
	}
	app.Action = run
	if err := app.Run(os.Args); err != nil {
		logger.Get().Error().Err(err).Msg("Controller failed")
		os.Exit(1)
	}
}

var errJoystickNeedsDummy = errors.New("--joystick only works with --dummy")

// checkFlags rejects flag combinations that would otherwise be ignored.
func checkFlags(dummy, joystick bool) error {
	if joystick && !dummy {
		return errJoystickNeedsDummy
	}
	return nil
}

func run(c *cli.Context) error {
	if err := checkFlags(c.Bool("dummy"), c.Bool("joystick")); err != nil {
		return err
	}
	level := zerolog.InfoLevel
	if c.Bool("debug") {
		level = zerolog.DebugLevel
	}
	log := logger.Configure(level)
	log.Info().Int("GOMAXPROCS", runtime.GOMAXPROCS(0)).Msg("---- EV3 controller ----")

	cfg, err := config.Load(c.String("config"), c.String("model"))
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(c.String("env-file")); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Our global context, we cancel it to trigger shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Hook Ctrl-C etc.
	registerSignalHandlers(cancel)

	var hw hardware.Interface
	if c.Bool("dummy") {
		dummy := hardware.NewDummy(nil)
		if c.Bool("joystick") {
			// Only set when found, to keep a nil *Beacon out of the interface.
			if b := initJoystick(ctx, cancel, cfg.JoystickDevice); b != nil {
				dummy.Beacon = b
			}
		}
		hw = dummy
	} else {
		hw = hardware.NewEV3(cfg.Framebuffer, wavplayer.Init())
	}
	defer func() {
		log.Info().Msg("Zeroing motors for shut down")
		hw.Shutdown()
		time.Sleep(100 * time.Millisecond)
	}()

	r, err := robot.New(cfg, hw)
	if err != nil {
		return err
	}
	log.Info().
		Str("model", cfg.Model).
		Int("channel", cfg.BeaconChannel).
		Float64("speed", cfg.Profile.Speed).
		Float64("turn_rate", cfg.Profile.TurnRate).
		Msgf("----- %s -----", r.Name())

	return robot.Run(ctx, r, cfg.PollInterval)
}

func registerSignalHandlers(cancelFunc context.CancelFunc) {
	// Hook Ctrl-C to cause shut down.
	signals := make(chan os.Signal, 2)
	signal.Notify(signals, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		s := <-signals
		logger.Get().Info().Stringer("signal", s).Msg("Signal")
		cancelFunc()
	}()
}

// initJoystick waits for the gamepad and feeds its events to a Beacon in the
// background.  Losing the gamepad shuts the controller down.
func initJoystick(ctx context.Context, cancel context.CancelFunc, device string) *joystick.Beacon {
	log := logger.Get()
	firstLog := true
	for ctx.Err() == nil {
		j, err := joystick.NewJoystick(device)
		if err != nil {
			if firstLog {
				log.Warn().Err(err).Str("device", device).Msg("Waiting for joystick")
				firstLog = false
			}
			time.Sleep(1 * time.Second)
			continue
		}

		log.Info().Str("device", device).Msg("Opened joystick")
		b := joystick.NewBeacon()
		go func() {
			defer cancel()
			defer j.Close()
			err := j.Loop(ctx, func(event *joystick.Event) {
				log.Debug().Stringer("event", event).Msg("Joy")
				b.OnJoystickEvent(event)
			})
			log.Error().Err(err).Msg("Joystick failed")
		}()
		return b
	}
	return nil
}
