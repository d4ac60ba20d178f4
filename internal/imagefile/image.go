package imagefile

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration
	"os"

	"golang.org/x/image/draw"
)

// jpegQuality is used when re-encoding a downscaled payload.
const jpegQuality = 90

// LoadPayload reads the bytes that will be sent to the vision model.
//
// When maxEdge is positive and the image's longer edge exceeds it, the
// payload is downscaled to fit (aspect ratio preserved, Catmull-Rom
// scaling) and re-encoded as JPEG. Vision models do not need full-resolution
// input and smaller payloads keep the request fast on local hardware.
//
// Only the upload payload is scaled; the file on disk is never modified.
//
// Bytes that cannot be decoded as JPEG or PNG are returned unchanged:
// format validation is the backend's job, and the model may well accept
// formats this package cannot decode.
func LoadPayload(path string, maxEdge int) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if maxEdge <= 0 {
		return data, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data, nil
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= maxEdge && height <= maxEdge {
		return data, nil
	}

	// Scale the longer edge down to maxEdge, keeping the aspect ratio.
	if width >= height {
		height = height * maxEdge / width
		width = maxEdge
	} else {
		width = width * maxEdge / height
		height = maxEdge
	}
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		// Fall back to the original bytes rather than failing the run.
		return data, nil
	}

	return buf.Bytes(), nil
}
