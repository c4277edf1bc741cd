package cover

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"

	"github.com/michaelanot/GameList/internal/catalog"
)

// DefaultMaxBytes caps a downloaded cover.
const DefaultMaxBytes int64 = 5 << 20

// ErrTooLarge is returned when a cover exceeds the configured size.
var ErrTooLarge = errors.New("cover exceeds size limit")

// ErrNotImage is returned when a download is not an image.
var ErrNotImage = errors.New("downloaded content is not an image")

// DownloadOptions configures a Downloader. Zero values select the defaults.
type DownloadOptions struct {
	UserAgent string
	MaxBytes  int64

	// MaxWidth downsizes wider images to this width (re-encoded as JPEG).
	// Zero keeps images as downloaded.
	MaxWidth int

	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Downloader fetches remote artwork into an Image.
type Downloader struct {
	userAgent  string
	maxBytes   int64
	maxWidth   int
	httpClient *http.Client
	log        *slog.Logger
}

// NewDownloader creates a downloader from opts.
func NewDownloader(opts DownloadOptions) *Downloader {
	d := &Downloader{
		userAgent:  opts.UserAgent,
		maxBytes:   opts.MaxBytes,
		maxWidth:   opts.MaxWidth,
		httpClient: opts.HTTPClient,
		log:        opts.Logger,
	}
	if d.userAgent == "" {
		d.userAgent = DefaultUserAgent
	}
	if d.maxBytes <= 0 {
		d.maxBytes = DefaultMaxBytes
	}
	if d.httpClient == nil {
		d.httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if d.log == nil {
		d.log = slog.Default()
	}
	return d
}

// Fetch downloads rawURL and returns it as an image. Any non-2xx status is
// an error.
func (d *Downloader) Fetch(ctx context.Context, rawURL string) (*catalog.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("download %s: create request: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Accept", "image/*")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("download %s: status %d", rawURL, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, d.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("download %s: read body: %w", rawURL, err)
	}
	if int64(len(data)) > d.maxBytes {
		return nil, fmt.Errorf("download %s: %w (%d bytes)", rawURL, ErrTooLarge, d.maxBytes)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("download %s: empty body", rawURL)
	}

	img := &catalog.Image{MIME: detectMIME(resp.Header.Get("Content-Type"), data), Data: data}
	if !strings.HasPrefix(img.MIME, "image/") {
		return nil, fmt.Errorf("download %s: %w (%s)", rawURL, ErrNotImage, img.MIME)
	}
	return d.shrink(img), nil
}

// detectMIME trusts an image/* Content-Type and sniffs everything else.
func detectMIME(contentType string, data []byte) string {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil && strings.HasPrefix(mt, "image/") {
		return mt
	}
	mt, _, _ := mime.ParseMediaType(mimetype.Detect(data).String())
	return mt
}

// shrink downsizes img when it is wider than maxWidth. Images the decoder
// does not understand are kept as they are.
func (d *Downloader) shrink(img *catalog.Image) *catalog.Image {
	if d.maxWidth <= 0 {
		return img
	}
	src, err := imaging.Decode(bytes.NewReader(img.Data), imaging.AutoOrientation(true))
	if err != nil {
		d.log.Debug("cover not resized", "mime", img.MIME, "error", err)
		return img
	}
	if src.Bounds().Dx() <= d.maxWidth {
		return img
	}

	var buf bytes.Buffer
	resized := imaging.Resize(src, d.maxWidth, 0, imaging.Lanczos)
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		d.log.Debug("cover not resized", "mime", img.MIME, "error", err)
		return img
	}
	return &catalog.Image{MIME: "image/jpeg", Data: buf.Bytes()}
}
