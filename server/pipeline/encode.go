package pipeline

import (
	"encoding/base64"
	"fmt"

	"github.com/bmharper/cimg/v2"
)

const jpegQuality = 85

// EncodeFrame compresses a frame to JPEG and base64-encodes the result, so
// the returned bytes are safe to store and to embed in JSON responses.
// Quality is fixed.
func EncodeFrame(img *cimg.Image) ([]byte, error) {
	jpg, err := cimg.Compress(img, cimg.MakeCompressParams(cimg.Sampling420, jpegQuality, 0))
	if err != nil {
		return nil, fmt.Errorf("Failed to compress frame: %w", err)
	}
	enc := make([]byte, base64.StdEncoding.EncodedLen(len(jpg)))
	base64.StdEncoding.Encode(enc, jpg)
	return enc, nil
}
