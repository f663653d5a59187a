package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli"

	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/beacon"
	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/drive"
	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/hardware"
	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/logger"
	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/screen"
)

// Prints the buttons held on each remote channel, and the drive command they
// map to, whenever they change.
func main() {
	app := cli.NewApp()
	app.Name = "beacontests"
	app.Usage = "show what the IR sensor sees"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "port",
			Value: hardware.In4,
			Usage: "IR sensor port",
		},
		cli.DurationFlag{
			Name:  "interval",
			Value: 50 * time.Millisecond,
			Usage: "poll interval",
		},
	}
	app.Action = func(c *cli.Context) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer cancel()

		hw := hardware.NewEV3(screen.EV3LCD, nil)
		defer hw.Shutdown()
		ir, err := hw.InfraredSensor(c.String("port"))
		if err != nil {
			return err
		}
		return loop(ctx, ir, c.Duration("interval"))
	}
	if err := app.Run(os.Args); err != nil {
		logger.Get().Error().Err(err).Msg("beacontests failed")
		os.Exit(1)
	}
}

func loop(ctx context.Context, ir beacon.Reader, interval time.Duration) error {
	log := logger.Get()
	var last [beacon.MaxChannel + 1]beacon.ButtonSet
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		for ch := beacon.MinChannel; ch <= beacon.MaxChannel; ch++ {
			buttons, err := ir.PressedButtons(ch)
			if err != nil {
				return err
			}
			if buttons == last[ch] {
				continue
			}
			last[ch] = buttons
			log.Info().
				Int("channel", ch).
				Stringer("buttons", buttons).
				Stringer("command", drive.CommandFor(buttons, drive.DefaultProfile)).
				Msg("Beacon")
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
