package robot

import (
	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/config"
	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/drive"
	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/hardware"
	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/logger"
	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/screen"
	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/sound"
)

const (
	rotationsPerBlast = 3
	degreesPerBlast   = rotationsPerBlast * 360
	// Fire in half a second.
	blastSpeed = 2 * degreesPerBlast

	// Below this ambient light level the bazooka fires the other way.
	darkThreshold = 15
)

// Ev3rstorm walks on two leg motors and fires its bazooka when the touch
// sensor is pressed.
type Ev3rstorm struct {
	*drive.BeaconController
	profile drive.Profile

	Bazooka     hardware.Motor
	TouchSensor hardware.TouchSensor
	ColorSensor hardware.ColorSensor

	hw       hardware.Interface
	soundDir string
	imageDir string
}

func newEv3rstorm(cfg *config.Config, hw hardware.Interface, tank *drive.BeaconController) (*Ev3rstorm, error) {
	bazooka, err := hw.MediumMotor(cfg.Ports.AccessoryMotor)
	if err != nil {
		return nil, err
	}
	touch, err := hw.TouchSensor(cfg.Ports.TouchSensor)
	if err != nil {
		return nil, err
	}
	color, err := hw.ColorSensor(cfg.Ports.ColorSensor)
	if err != nil {
		return nil, err
	}
	return &Ev3rstorm{
		BeaconController: tank,
		profile:          cfg.Profile,
		Bazooka:          bazooka,
		TouchSensor:      touch,
		ColorSensor:      color,
		hw:               hw,
		soundDir:         cfg.SoundDir,
		imageDir:         cfg.ImageDir,
	}, nil
}

func (e *Ev3rstorm) Name() string {
	return "Ev3rstorm"
}

func (e *Ev3rstorm) Start() error {
	e.hw.ShowImage(screen.ImagePath(e.imageDir, screen.Target))
	return nil
}

func (e *Ev3rstorm) Tick() error {
	if err := e.Step(e.profile); err != nil {
		return err
	}
	return e.BlastBazookaIfTouched()
}

// BlastBazookaIfTouched fires one blast while the touch sensor is held.  In
// the dark the bazooka turns one way, in the light the other.  The warning
// sound, the blast and the laugh each finish before the next starts.
func (e *Ev3rstorm) BlastBazookaIfTouched() error {
	pressed, err := e.TouchSensor.Pressed()
	if err != nil || !pressed {
		return err
	}
	ambient, err := e.ColorSensor.Ambient()
	if err != nil {
		return err
	}

	before, angle, after := sound.Down, float64(degreesPerBlast), sound.Laughing2
	if ambient < darkThreshold {
		before, angle, after = sound.Up, -degreesPerBlast, sound.Laughing1
	}
	logger.Get().Info().Int("ambient", ambient).Float64("angle", angle).Msg("Blasting bazooka")

	e.playSound(before)
	if err := e.Bazooka.RunAngle(blastSpeed, angle, hardware.Hold, true); err != nil {
		return err
	}
	e.playSound(after)
	return nil
}

// playSound blocks until the sound is done.  A sound that won't play is not
// worth stopping the robot for.
func (e *Ev3rstorm) playSound(name string) {
	path := sound.Path(e.soundDir, name)
	if err := e.hw.PlaySoundAndWait(path); err != nil {
		logger.Get().Warn().Err(err).Str("sound", path).Msg("Failed to play sound")
	}
}

var (
	_ Robot            = (*Ev3rstorm)(nil)
	_ drive.Controller = (*Ev3rstorm)(nil)
)
