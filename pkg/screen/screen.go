package screen

import (
	"encoding/binary"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
)

const (
	DefaultImageDir = "/usr/share/images/ev3dev/mono"

	Target = "objects/target.png"
)

func ImagePath(dir, name string) string {
	if dir == "" {
		dir = DefaultImageDir
	}
	return filepath.Join(dir, name)
}

// Framebuffer describes an XRGB8888 framebuffer device.
type Framebuffer struct {
	Device string `yaml:"device"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	// Bytes per line; zero means Width*4.
	Stride int `yaml:"stride"`
}

// EV3LCD is the brick's 178x128 display as exposed by ev3dev.
var EV3LCD = Framebuffer{
	Device: "/dev/fb0",
	Width:  178,
	Height: 128,
}

func (fb Framebuffer) stride() int {
	if fb.Stride > 0 {
		return fb.Stride
	}
	return fb.Width * 4
}

// Render draws the image centred on a white background, shrunk to fit if
// needed, and returns the framebuffer contents.
func Render(fb Framebuffer, img image.Image) []byte {
	dc := gg.NewContext(fb.Width, fb.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	bounds := img.Bounds()
	scale := 1.0
	if bounds.Dx() > fb.Width || bounds.Dy() > fb.Height {
		sx := float64(fb.Width) / float64(bounds.Dx())
		sy := float64(fb.Height) / float64(bounds.Dy())
		scale = sx
		if sy < sx {
			scale = sy
		}
	}
	dc.Push()
	dc.Translate(float64(fb.Width)/2, float64(fb.Height)/2)
	dc.Scale(scale, scale)
	dc.DrawImageAnchored(img, 0, 0, 0.5, 0.5)
	dc.Pop()

	out := dc.Image()
	stride := fb.stride()
	buf := make([]byte, stride*fb.Height)
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			r, g, b, _ := out.At(x, y).RGBA() // 16-bit pre-multiplied
			px := uint32(r>>8)<<16 | uint32(g>>8)<<8 | uint32(b>>8)
			binary.LittleEndian.PutUint32(buf[y*stride+x*4:], px)
		}
	}
	return buf
}

func ShowImage(fb Framebuffer, path string) error {
	img, err := gg.LoadImage(path)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}
	f, err := os.OpenFile(fb.Device, os.O_RDWR, 0666)
	if err != nil {
		return fmt.Errorf("failed to open screen: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteAt(Render(fb, img), 0); err != nil {
		return fmt.Errorf("screen failure: %w", err)
	}
	return nil
}
