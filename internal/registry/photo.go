package registry

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultMaxPhotoBytes bounds a single uploaded photo.
const DefaultMaxPhotoBytes int64 = 5 << 20

// EncodePhoto reads an image and returns it as a data URL
// ("data:image/png;base64,..."), the self-describing form stored in the
// plant document.
func EncodePhoto(ctx context.Context, r io.Reader, maxBytes int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxPhotoBytes
	}

	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read photo: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", &ValidationError{Message: "The selected photo is empty.", Fields: map[string]string{"photo": "photo is empty"}}
	}
	if int64(len(data)) > maxBytes {
		return "", &ValidationError{
			Message: "The selected photo is too large.",
			Fields:  map[string]string{"photo": fmt.Sprintf("photo exceeds %d bytes", maxBytes)},
		}
	}

	mime := http.DetectContentType(data)
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	if !strings.HasPrefix(mime, "image/") {
		return "", &ValidationError{
			Message: "The selected file is not an image.",
			Fields:  map[string]string{"photo": "unsupported content type " + mime},
		}
	}

	var b bytes.Buffer
	b.Grow(len("data:;base64,") + len(mime) + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString("data:")
	b.WriteString(mime)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String(), nil
}

// PhotoInfo describes an encoded photo for previews.
type PhotoInfo struct {
	MIME  string
	Bytes int
}

// DescribePhoto parses a data URL produced by EncodePhoto.
func DescribePhoto(dataURL string) (PhotoInfo, bool) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return PhotoInfo{}, false
	}
	mime, payload, ok := strings.Cut(rest, ";base64,")
	if !ok {
		return PhotoInfo{}, false
	}
	n := base64.StdEncoding.DecodedLen(len(payload)) - strings.Count(payload[max(0, len(payload)-2):], "=")
	return PhotoInfo{MIME: mime, Bytes: n}, true
}
