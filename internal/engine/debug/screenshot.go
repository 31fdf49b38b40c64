// Package debug provides developer tooling for the viewer.
package debug

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Screenshots writes PNG captures of the timeline view. File names carry
// the active range and frame so captures of one clip sort together.
type Screenshots struct {
	outputDir string
	prefix    string
	now       func() time.Time
}

// NewScreenshots creates a capture handler. An empty outputDir writes to
// the working directory.
func NewScreenshots(outputDir, prefix string) *Screenshots {
	return &Screenshots{
		outputDir: outputDir,
		prefix:    prefix,
		now:       time.Now,
	}
}

// Filename returns the path a capture of rangeName at frame would get.
func (s *Screenshots) Filename(rangeName string, frame float64) string {
	if rangeName == "" {
		rangeName = "none"
	}
	name := fmt.Sprintf("%s_%s_f%06.1f_%s.png",
		s.prefix,
		strings.ReplaceAll(rangeName, string(filepath.Separator), "_"),
		frame,
		s.now().Format("2006-01-02_15-04-05"),
	)
	if s.outputDir != "" {
		name = filepath.Join(s.outputDir, name)
	}
	return name
}

// Save writes RGBA pixels read back from GL with a caption naming the range
// and frame. Rows are flipped since GL has its origin at the bottom left.
func (s *Screenshots) Save(pixels []byte, width, height int, rangeName string, frame float64) (string, error) {
	img, err := FlipRGBA(pixels, width, height)
	if err != nil {
		return "", err
	}
	Caption(img, fmt.Sprintf("%s  %s  frame %.2f", s.prefix, rangeName, frame))

	if s.outputDir != "" {
		if err := os.MkdirAll(s.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := s.Filename(rangeName, frame)
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return filename, nil
}

// FlipRGBA copies bottom-up RGBA rows into a top-down image.
func FlipRGBA(pixels []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		dst := y * img.Stride
		copy(img.Pix[dst:dst+rowSize], pixels[src:src+rowSize])
	}
	return img, nil
}

var (
	captionBg = color.RGBA{A: 160}
	captionFg = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

const captionPad = 4

// Caption draws text in the top left corner over a translucent band. Text
// that does not fit is clipped by the image bounds.
func Caption(img *image.RGBA, text string) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(captionFg),
		Face: face,
	}
	width := d.MeasureString(text).Ceil()
	band := image.Rect(0, 0, width+2*captionPad, face.Height+2*captionPad).Intersect(img.Bounds())
	draw.Draw(img, band, image.NewUniform(captionBg), image.Point{}, draw.Over)

	d.Dot = fixed.P(captionPad, captionPad+face.Ascent)
	d.DrawString(text)
}
