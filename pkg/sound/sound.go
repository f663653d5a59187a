package sound

import "path/filepath"

// Sound files used by the robots, relative to the sound directory.
const (
	DefaultDir = "/usr/share/sounds/ev3dev"

	Up        = "information/up.wav"
	Down      = "information/down.wav"
	Laughing1 = "expressions/laughing_1.wav"
	Laughing2 = "expressions/laughing_2.wav"
)

func Path(dir, name string) string {
	if dir == "" {
		dir = DefaultDir
	}
	return filepath.Join(dir, name)
}
