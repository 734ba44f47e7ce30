package detector

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/types"
)

// Image is an uploaded picture with its decoded dimensions.
type Image struct {
	Data        []byte
	ContentType string
	Format      string
	Width       int
	Height      int
}

// DecodeImage reads at most limit bytes and decodes the image header.
func DecodeImage(r io.Reader, limit int64) (Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return Image{}, fmt.Errorf("failed to read image: %w", err)
	}
	if int64(len(data)) > limit {
		return Image{}, fmt.Errorf("image larger than %d bytes: %w", limit, types.ErrInvalidInput)
	}
	if len(data) == 0 {
		return Image{}, fmt.Errorf("empty image: %w", types.ErrInvalidInput)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return Image{}, types.ErrUnsupportedImage
		}
		return Image{}, fmt.Errorf("%w: %v", types.ErrUnsupportedImage, err)
	}

	return Image{
		Data:        data,
		ContentType: http.DetectContentType(data),
		Format:      format,
		Width:       cfg.Width,
		Height:      cfg.Height,
	}, nil
}

// ReadUpload extracts the multipart "file" field of r and decodes it.
func ReadUpload(w http.ResponseWriter, r *http.Request, limit int64) (Image, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit+(1<<20))
	if err := r.ParseMultipartForm(limit); err != nil {
		return Image{}, fmt.Errorf("invalid multipart form: %v: %w", err, types.ErrInvalidInput)
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return Image{}, fmt.Errorf("missing file field: %w", types.ErrInvalidInput)
	}
	defer file.Close()
	return DecodeImage(file, limit)
}
