package diagram

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ftrvxmtrx/tga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"

	"seqtrace/internal/bundle"
	"seqtrace/internal/mathutil"
	"seqtrace/internal/tracer"
)

func TestParseView(t *testing.T) {
	for in, want := range map[string]View{"yz": SideView, "side": SideView, "xz": TopView, "xy": BeamView} {
		v, err := ParseView(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, v)
	}
	_, err := ParseView("zz")
	assert.Error(t, err)
	assert.Equal(t, "xz", TopView.String())
}

func TestViewMatrix(t *testing.T) {
	p := mathutil.Vec3{1, 2, 3}
	assert.Equal(t, mathutil.Vec3{3, 2, 1}, SideView.Matrix().MulVec3(p))
	assert.Equal(t, mathutil.Vec3{3, 1, 2}, TopView.Matrix().MulVec3(p))
	assert.Equal(t, p, BeamView.Matrix().MulVec3(p))
}

func TestFitFramesPoints(t *testing.T) {
	pts := []mathutil.Vec3{{0, -8, -10}, {0, 8, 0}}
	pr := Fit(pts, SideView.Matrix(), 200, 10)

	x0, y0 := pr.Project(pts[0])
	x1, y1 := pr.Project(pts[1])
	assert.InDelta(t, 10.0, y1, 1e-9)
	assert.InDelta(t, 190.0, y0, 1e-9)
	assert.Less(t, x0, x1)
	assert.InDelta(t, 100.0, (x0+x1)/2, 1e-9)
}

func TestFitEmpty(t *testing.T) {
	pr := Fit(nil, SideView.Matrix(), 100, 5)
	x, y := pr.Project(mathutil.Vec3{})
	assert.Equal(t, 50.0, x)
	assert.Equal(t, 50.0, y)
}

func TestDownsample(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 40, 20))
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	out := Downsample(src, 2)
	assert.Equal(t, image.Rect(0, 0, 20, 10), out.Bounds())
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, out.NRGBAAt(10, 5))

	assert.Same(t, src, Downsample(src, 1))
}

func straight(status tracer.Status) bundle.Trace {
	return bundle.Trace{Result: tracer.Result{
		Points:     []mathutil.Vec3{{0, 0, -10}, {0, 0, 10}},
		Directions: []mathutil.Vec3{{0, 0, 1}, {0, 0, 1}},
		Normals:    []mathutil.Vec3{{0, 0, -1}},
		Status:     status,
	}}
}

// strongest returns the pixel in column x whose channel c most exceeds the others.
func strongest(img *image.NRGBA, x, c int) int {
	best := -1 << 31
	for y := img.Bounds().Min.Y; y < img.Bounds().Max.Y; y++ {
		p := img.NRGBAAt(x, y)
		ch := [3]int{int(p.R), int(p.G), int(p.B)}
		d := ch[c] - (ch[(c+1)%3]+ch[(c+2)%3])/2
		if d > best {
			best = d
		}
	}
	return best
}

func TestRenderColours(t *testing.T) {
	opts := Options{View: SideView, Size: 120, Supersample: 2}

	img := Render([]bundle.Trace{straight(tracer.Complete)}, opts)
	assert.Equal(t, image.Rect(0, 0, 120, 120), img.Bounds())
	assert.Greater(t, strongest(img, 30, 0), 60, "complete ray is red")

	img = Render([]bundle.Trace{straight(tracer.Truncated)}, opts)
	assert.Greater(t, strongest(img, 30, 2), 60, "truncated ray is blue")
}

func TestRenderEmpty(t *testing.T) {
	img := Render(nil, Options{Size: 64, Supersample: 1})
	assert.Equal(t, image.Rect(0, 0, 64, 64), img.Bounds())
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, img.NRGBAAt(3, 3))
}

func TestSaveFormats(t *testing.T) {
	img := Render([]bundle.Trace{straight(tracer.Complete)}, Options{Size: 48, Supersample: 1})
	decoders := map[string]func(io.Reader) (image.Config, error){
		"png":  png.DecodeConfig,
		"webp": webp.DecodeConfig,
		"tga":  tga.DecodeConfig,
		"bmp":  bmp.DecodeConfig,
	}
	dir := t.TempDir()
	for ext, decode := range decoders {
		path := filepath.Join(dir, "out", "diagram."+ext)
		require.NoError(t, Save(path, img), ext)

		f, err := os.Open(path)
		require.NoError(t, err)
		cfg, err := decode(f)
		f.Close()
		require.NoError(t, err, ext)
		assert.Equal(t, 48, cfg.Width)
		assert.Equal(t, 48, cfg.Height)
	}

	assert.Error(t, Save(filepath.Join(dir, "diagram.gif"), img))
}
