package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/types"
)

// RemoteBackend posts the image to a model server that answers with the
// /predict response shape.
type RemoteBackend struct {
	url    string
	client *http.Client
}

func NewRemoteBackend(url string, timeout time.Duration) *RemoteBackend {
	return &RemoteBackend{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (b *RemoteBackend) Name() string { return "remote" }

func (b *RemoteBackend) Detect(ctx context.Context, img Image) ([]types.Detection, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "upload."+img.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart part: %w", err)
	}
	if _, err := part.Write(img.Data); err != nil {
		return nil, fmt.Errorf("failed to write image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to build model server request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call model server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("model server returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var out types.PredictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode model server response: %w", err)
	}
	return out.Detections, nil
}
