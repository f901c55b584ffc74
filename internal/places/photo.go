package places

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

const defaultThumbWidth = 400

// DownloadAndResizeImage downloads a hotel photo and resizes it to the
// specified width before saving. Used when photo download is enabled so the
// result directory carries thumbnails instead of full-size provider images.
func (c *Client) DownloadAndResizeImage(ctx context.Context, imageURL, savePath string, maxWidth int) error {
	if maxWidth <= 0 {
		maxWidth = defaultThumbWidth
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d downloading image", resp.StatusCode)
	}

	img, err := imaging.Decode(resp.Body, imaging.AutoOrientation(true))
	if err != nil {
		return err
	}

	width := img.Bounds().Dx()
	if width > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	if err := os.MkdirAll(filepath.Dir(savePath), 0o755); err != nil {
		return err
	}

	return imaging.Save(img, savePath, imaging.JPEGQuality(85))
}
