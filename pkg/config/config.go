package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/beacon"
	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/drive"
	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/hardware"
	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/joystick"
	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/screen"
	"github.com/tigerbot-team/tigerbot/ev3-controller/pkg/sound"
)

const (
	ModelEv3rstorm = "ev3rstorm"
	ModelGripp3r   = "gripp3r"
)

var ErrUnknownModel = errors.New("unknown robot model")

type Ports struct {
	LeftMotor      string `yaml:"left_motor"`
	RightMotor     string `yaml:"right_motor"`
	AccessoryMotor string `yaml:"accessory_motor"`
	TouchSensor    string `yaml:"touch_sensor"`
	ColorSensor    string `yaml:"color_sensor"`
	IRSensor       string `yaml:"ir_sensor"`
}

type Config struct {
	Model         string        `yaml:"model"`
	BeaconChannel int           `yaml:"beacon_channel"`
	Profile       drive.Profile `yaml:",inline"`
	WheelDiameter float64       `yaml:"wheel_diameter"`
	AxleTrack     float64       `yaml:"axle_track"`
	Ports         Ports         `yaml:"ports"`

	SoundDir     string             `yaml:"sound_dir"`
	ImageDir     string             `yaml:"image_dir"`
	Framebuffer  screen.Framebuffer `yaml:"framebuffer"`
	PollInterval time.Duration      `yaml:"poll_interval"`

	JoystickDevice string `yaml:"joystick_device"`
}

// Default returns the stock configuration for a model.  Both models share the
// same wheels and wiring; Gripp3r drives faster.
func Default(model string) (*Config, error) {
	c := &Config{
		Model:         model,
		BeaconChannel: 1,
		Profile:       drive.DefaultProfile,
		WheelDiameter: 26,
		AxleTrack:     102,
		Ports: Ports{
			LeftMotor:  hardware.OutB,
			RightMotor: hardware.OutC,
			IRSensor:   hardware.In4,
		},
		SoundDir:       sound.DefaultDir,
		ImageDir:       screen.DefaultImageDir,
		Framebuffer:    screen.EV3LCD,
		JoystickDevice: joystick.DefaultDevice,
	}
	switch model {
	case ModelEv3rstorm:
		c.Ports.AccessoryMotor = hardware.OutA
		c.Ports.TouchSensor = hardware.In1
		c.Ports.ColorSensor = hardware.In3
	case ModelGripp3r:
		c.Profile.Speed = 300
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, model)
	}
	return c, nil
}

// Load reads the model from the YAML file at path (if any) and overlays the
// file on that model's defaults.  An empty path means defaults only.
func Load(path, model string) (*Config, error) {
	var raw []byte
	if path != "" {
		var err error
		raw, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		var header struct {
			Model string `yaml:"model"`
		}
		if err := yaml.Unmarshal(raw, &header); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		if model == "" {
			model = header.Model
		}
	}
	if model == "" {
		model = ModelEv3rstorm
	}

	c, err := Default(model)
	if err != nil {
		return nil, err
	}
	if raw != nil {
		if err := yaml.UnmarshalStrict(raw, c); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		// The model can't be changed by the file once chosen.
		c.Model = model
	}
	return c, nil
}

// ApplyEnv loads envFile (if it exists) into the environment and then applies
// any EV3_* and JOYSTICK_DEVICE overrides.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}
	if v := os.Getenv("EV3_BEACON_CHANNEL"); v != "" {
		ch, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("bad EV3_BEACON_CHANNEL %q: %w", v, err)
		}
		c.BeaconChannel = ch
	}
	if v := os.Getenv("EV3_SOUND_DIR"); v != "" {
		c.SoundDir = v
	}
	if v := os.Getenv("EV3_IMAGE_DIR"); v != "" {
		c.ImageDir = v
	}
	if v := os.Getenv("JOYSTICK_DEVICE"); v != "" {
		c.JoystickDevice = v
	}
	return nil
}

func (c *Config) Validate() error {
	if _, err := Default(c.Model); err != nil {
		return err
	}
	if err := beacon.ValidChannel(c.BeaconChannel); err != nil {
		return err
	}
	if c.WheelDiameter <= 0 || c.AxleTrack <= 0 {
		return fmt.Errorf("wheel_diameter and axle_track must be positive, got %v and %v", c.WheelDiameter, c.AxleTrack)
	}
	if c.Profile.Speed < 0 || c.Profile.TurnRate < 0 {
		return fmt.Errorf("speed and turn_rate must not be negative, got %v and %v", c.Profile.Speed, c.Profile.TurnRate)
	}
	if c.PollInterval < 0 {
		return fmt.Errorf("poll_interval must not be negative, got %v", c.PollInterval)
	}
	if c.Ports.LeftMotor == "" || c.Ports.RightMotor == "" || c.Ports.IRSensor == "" {
		return errors.New("left_motor, right_motor and ir_sensor ports are required")
	}
	if c.Model == ModelEv3rstorm &&
		(c.Ports.AccessoryMotor == "" || c.Ports.TouchSensor == "" || c.Ports.ColorSensor == "") {
		return errors.New("ev3rstorm needs accessory_motor, touch_sensor and color_sensor ports")
	}
	return nil
}
