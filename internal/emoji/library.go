package emoji

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/ayusman/emojidraw/internal/logger"
)

// DefaultSize is the thumbnail edge length in pixels.
const DefaultSize = 120

// ErrNoImage is returned when an emoji has no loaded artwork.
var ErrNoImage = errors.New("emoji image not loaded")

// Library holds the emoji artwork, scaled to a square thumbnail.
type Library struct {
	mu     sync.RWMutex
	size   int
	images map[string]*image.NRGBA
}

// NewLibrary creates an empty library producing size x size thumbnails.
func NewLibrary(size int) *Library {
	if size <= 0 {
		size = DefaultSize
	}
	return &Library{
		size:   size,
		images: make(map[string]*image.NRGBA),
	}
}

// Load reads every catalog PNG found in dir. Missing or unreadable files are
// logged and skipped; the returned count says how many loaded.
func Load(dir string, size int) (*Library, int) {
	lib := NewLibrary(size)

	if _, err := os.Stat(dir); err != nil {
		logger.WithField("dir", dir).Warn("emoji directory not found")
		return lib, 0
	}

	loaded := 0
	for _, e := range catalog {
		path := filepath.Join(dir, e.File)
		img, err := imaging.Open(path)
		if err != nil {
			logger.WithError(err).WithField("file", e.File).Warn("emoji not loaded")
			continue
		}
		lib.Set(e.Key, img)
		loaded++
	}

	logger.WithFields(map[string]interface{}{
		"dir":    dir,
		"loaded": loaded,
		"total":  len(catalog),
	}).Info("emoji artwork loaded")

	return lib, loaded
}

// Set stores img for key, scaled to the library size.
func (l *Library) Set(key string, img image.Image) {
	thumb := imaging.Fit(img, l.size, l.size, imaging.Lanczos)
	canvas := imaging.New(l.size, l.size, color.NRGBA{})
	canvas = imaging.PasteCenter(canvas, thumb)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.images[key] = canvas
}

// Size returns the thumbnail edge length.
func (l *Library) Size() int {
	return l.size
}

// Image returns the thumbnail for key.
func (l *Library) Image(key string) (*image.NRGBA, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	img, ok := l.images[key]
	return img, ok
}

// PNG returns the thumbnail for key encoded as PNG.
func (l *Library) PNG(key string) ([]byte, error) {
	img, ok := l.Image(key)
	if !ok {
		return nil, errors.Wrap(ErrNoImage, key)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, errors.Wrapf(err, "encode %s", key)
	}
	return buf.Bytes(), nil
}

// Draw blends the emoji for key onto a BGR frame, centered at center, with
// the given opacity. Emojis without artwork are drawn as their name.
func (l *Library) Draw(frame *gocv.Mat, key string, center image.Point, alpha float64) {
	if alpha <= 0 {
		return
	}
	if alpha > 1 {
		alpha = 1
	}

	img, ok := l.Image(key)
	if !ok {
		drawName(frame, key, center, alpha)
		return
	}

	half := l.size / 2
	origin := image.Point{X: center.X - half, Y: center.Y - half}
	rows, cols := frame.Rows(), frame.Cols()

	for y := 0; y < l.size; y++ {
		fy := origin.Y + y
		if fy < 0 || fy >= rows {
			continue
		}
		for x := 0; x < l.size; x++ {
			fx := origin.X + x
			if fx < 0 || fx >= cols {
				continue
			}

			c := img.NRGBAAt(x, y)
			a := float64(c.A) / 255 * alpha
			if a == 0 {
				continue
			}

			bg := frame.GetVecbAt(fy, fx)
			frame.SetUCharAt(fy, fx*3, blend(bg[0], c.B, a))
			frame.SetUCharAt(fy, fx*3+1, blend(bg[1], c.G, a))
			frame.SetUCharAt(fy, fx*3+2, blend(bg[2], c.R, a))
		}
	}
}

func blend(bg, fg uint8, a float64) uint8 {
	return uint8(float64(fg)*a + float64(bg)*(1-a) + 0.5)
}

func drawName(frame *gocv.Mat, key string, center image.Point, alpha float64) {
	name := key
	if e, ok := ByKey(key); ok {
		name = e.Name
	}

	v := uint8(255 * alpha)
	size := gocv.GetTextSize(name, gocv.FontHersheySimplex, 1.2, 2)
	org := image.Point{X: center.X - size.X/2, Y: center.Y + size.Y/2}
	gocv.PutText(frame, name, org, gocv.FontHersheySimplex, 1.2, color.RGBA{R: v, G: v, B: v, A: 255}, 2)
}
