package export

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/patrickmn/go-cache"
)

// MaxLogoBytes bounds fetched and uploaded logos
const MaxLogoBytes = 5 << 20

// LogoLoader resolves the company logo (data URL or http URL) to a PNG
// scaled down to fit the invoice header. Results are cached by source.
type LogoLoader struct {
	client *http.Client
	cache  *cache.Cache
	maxW   int
	maxH   int
}

func NewLogoLoader(timeout time.Duration) *LogoLoader {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.Logger = nil
	rc.HTTPClient.Timeout = timeout

	return &LogoLoader{
		client: rc.StandardClient(),
		cache:  cache.New(30*time.Minute, time.Hour),
		maxW:   240,
		maxH:   240,
	}
}

// Load returns PNG bytes for src; an empty src yields nil
func (l *LogoLoader) Load(ctx context.Context, src string) ([]byte, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, nil
	}

	key := cacheKey(src)
	if cached, ok := l.cache.Get(key); ok {
		return cached.([]byte), nil
	}

	var (
		raw []byte
		err error
	)
	switch {
	case strings.HasPrefix(src, "data:"):
		raw, err = decodeDataURL(src)
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		raw, err = l.fetch(ctx, src)
	default:
		err = fmt.Errorf("unsupported logo source")
	}
	if err != nil {
		return nil, err
	}

	out, err := l.Normalize(raw)
	if err != nil {
		return nil, err
	}
	l.cache.Set(key, out, cache.DefaultExpiration)
	return out, nil
}

// Normalize decodes an uploaded image, fits it into the header box and
// re-encodes it as PNG
func (l *LogoLoader) Normalize(raw []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode logo: %w", err)
	}
	img = imaging.Fit(img, l.maxW, l.maxH, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode logo: %w", err)
	}
	return buf.Bytes(), nil
}

// PNGDataURL embeds png bytes as a data URL suitable for CompanySettings.Logo
func PNGDataURL(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}

func (l *LogoLoader) fetch(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch logo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch logo: status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, MaxLogoBytes))
}

// decodeDataURL handles data:[<mediatype>][;base64],<data>
func decodeDataURL(src string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(src, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("malformed data URL")
	}
	if strings.HasSuffix(meta, ";base64") {
		return base64.StdEncoding.DecodeString(payload)
	}
	s, err := url.PathUnescape(payload)
	return []byte(s), err
}

func cacheKey(src string) string {
	sum := sha256.Sum256([]byte(src))
	return hex.EncodeToString(sum[:])
}
