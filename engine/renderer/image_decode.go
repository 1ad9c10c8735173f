package renderer

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path"
	"strings"

	"github.com/Carmen-Shannon/oxy-assets/common"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// FallbackTextureName is the format hint used for the generated white texture.
const FallbackTextureName = "fallback_white.png"

var decoders = map[string]func(io.Reader) (image.Image, error){
	".png":  png.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".gif":  gif.Decode,
	".bmp":  bmp.Decode,
	".tif":  tiff.Decode,
	".tiff": tiff.Decode,
	".webp": webp.Decode,
}

// DecodeImage decodes encoded image bytes into tightly packed RGBA pixels.
// The extension of hint selects the decoder; an unknown extension falls back to sniffing
// the header.
//
// Parameters:
//   - data: the encoded image
//   - hint: a filename used as the format hint
//
// Returns:
//   - common.TextureStagingData: RGBA pixels with dimensions
//   - error: ErrUnsupportedFormat for an unrecognised format, a *common.ParseError for corrupt data
func DecodeImage(data []byte, hint string) (common.TextureStagingData, error) {
	ext := strings.ToLower(path.Ext(hint))

	var img image.Image
	var err error
	if decode, ok := decoders[ext]; ok {
		img, err = decode(bytes.NewReader(data))
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
		if errors.Is(err, image.ErrFormat) {
			return common.TextureStagingData{}, fmt.Errorf("%w: image %s", common.ErrUnsupportedFormat, hint)
		}
	}
	if err != nil {
		return common.TextureStagingData{}, &common.ParseError{File: hint, Msg: "decoding image", Err: err}
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return common.TextureStagingData{}, &common.ParseError{File: hint, Msg: "image has no pixels"}
	}

	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != 4*bounds.Dx() || bounds.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}

	return common.TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
	}, nil
}

// WhiteTexturePNG returns a 1x1 opaque white PNG, the texture of materials that name no
// diffuse map.
func WhiteTexturePNG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	// Encoding an in-memory RGBA image cannot fail.
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}
