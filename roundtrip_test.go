package qr

import (
	"fmt"
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
	qrgen "github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toGray(img image.Image) *image.Gray {
	bounds := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			out.Set(x-bounds.Min.X, y-bounds.Min.Y, img.At(x, y))
		}
	}
	return out
}

// rotateGray returns the image turned clockwise by the given number of
// quarter turns.
func rotateGray(img *image.Gray, quarters int) *image.Gray {
	out := img
	for i := 0; i < quarters; i++ {
		b := out.Bounds()
		w, h := b.Dx(), b.Dy()
		next := image.NewGray(image.Rect(0, 0, h, w))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				next.SetGray(h-1-y, x, out.GrayAt(x, y))
			}
		}
		out = next
	}
	return out
}

func TestRoundTripLevels(t *testing.T) {
	levels := []struct {
		level qrgen.RecoveryLevel
		name  string
	}{
		{qrgen.Low, "L"},
		{qrgen.Medium, "M"},
		{qrgen.High, "Q"},
		{qrgen.Highest, "H"},
	}
	for _, tc := range levels {
		t.Run(tc.name, func(t *testing.T) {
			content := fmt.Sprintf("round trip at level %s", tc.name)
			code, err := qrgen.New(content, tc.level)
			require.NoError(t, err)

			result, err := Decode(code.Image(-4), nil)
			require.NoError(t, err)
			assert.Equal(t, content, result.Text)
			assert.Equal(t, tc.name, result.ECLevel)
			assert.Equal(t, -1, result.SASequence)
		})
	}
}

func TestRoundTripRotations(t *testing.T) {
	const content = "rotation invariance"
	code, err := qrgen.New(content, qrgen.Medium)
	require.NoError(t, err)
	base := toGray(code.Image(-4))

	for quarters := 0; quarters < 4; quarters++ {
		t.Run(fmt.Sprintf("%d degrees", quarters*90), func(t *testing.T) {
			result, err := Decode(rotateGray(base, quarters), nil)
			require.NoError(t, err)
			assert.Equal(t, content, result.Text)
		})
	}
}

func TestRoundTripUTF8(t *testing.T) {
	const content = "café ☃"
	code, err := qrgen.New(content, qrgen.Medium)
	require.NoError(t, err)

	result, err := Decode(code.Image(-4), nil)
	require.NoError(t, err)
	assert.Equal(t, content, result.Text)
}

func TestRoundTripNumericContent(t *testing.T) {
	const content = "31415926535897932384626433"
	code, err := qrgen.New(content, qrgen.Medium)
	require.NoError(t, err)

	result, err := Decode(code.Image(-4), nil)
	require.NoError(t, err)
	assert.Equal(t, content, result.Text)
}

func TestDecodeDeterministic(t *testing.T) {
	code, err := qrgen.New("same image, same answer", qrgen.Medium)
	require.NoError(t, err)
	img := code.Image(-4)

	first, err := Decode(img, nil)
	require.NoError(t, err)
	second, err := Decode(img, nil)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated decode differs (-first +second):\n%s", diff)
	}
}

func TestTryHarderRecoversInverted(t *testing.T) {
	const content = "light on dark"
	code, err := qrgen.New(content, qrgen.Medium)
	require.NoError(t, err)

	inverted := toGray(code.Image(-4))
	for i, p := range inverted.Pix {
		inverted.Pix[i] = 255 - p
	}

	_, err = Decode(inverted, nil)
	require.Error(t, err, "inverted symbol should fail the plain pass")

	result, err := Decode(inverted, &Options{TryHarder: true})
	require.NoError(t, err)
	assert.Equal(t, content, result.Text)
}

func TestRoundTripLargeVersion(t *testing.T) {
	// Enough payload to force a version with a version field.
	content := ""
	for i := 0; i < 40; i++ {
		content += fmt.Sprintf("record %02d of the payload;", i)
	}
	code, err := qrgen.New(content, qrgen.Medium)
	require.NoError(t, err)

	result, err := Decode(code.Image(-3), nil)
	require.NoError(t, err)
	assert.Equal(t, content, result.Text)
	assert.GreaterOrEqual(t, result.Version, 7)
}
