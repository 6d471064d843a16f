package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/ccollins476ad/pixora/web"
	log "github.com/sirupsen/logrus"
)

var (
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")
	ErrNotImage          = errors.New("this URL is not a valid image")
)

// maxPageBytes bounds how much of a rejected html page is scanned for
// embedded images.
const maxPageBytes = 1 << 20

// NotImageError reports a response whose content type is not an image. If
// the response was an html page, Candidates lists the images it embeds.
type NotImageError struct {
	ContentType string
	Candidates  []string
}

func (e *NotImageError) Error() string {
	return ErrNotImage.Error()
}

func (e *NotImageError) Unwrap() error {
	return ErrNotImage
}

// StatusError reports a non-2xx http response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: unable to access the URL", e.Code)
}

// CheckURL verifies that u is an absolute http or https url.
func CheckURL(u string) error {
	pu, err := url.Parse(u)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	switch strings.ToLower(pu.Scheme) {
	case "http", "https":
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedScheme, pu.Scheme)
	}

	if pu.Host == "" {
		return fmt.Errorf("invalid URL: missing host")
	}

	return nil
}

// IsImageContentType returns true if the given Content-Type header value
// declares an image payload.
func IsImageContentType(ct string) bool {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		// Fall back to the raw value with parameters stripped.
		mt, _, _ = strings.Cut(ct, ";")
	}
	mt = strings.ToLower(strings.TrimSpace(mt))
	return strings.HasPrefix(mt, "image/")
}

// GetBody performs an http GET with url=u using the supplied client. It
// fails if the response status is not 2xx. On success the caller must close
// the returned response body.
func GetBody(ctx context.Context, hc *http.Client, u string) (*http.Response, error) {
	log.Debugf("get: %s", u)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	rsp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if rsp.StatusCode < 200 || rsp.StatusCode >= 300 {
		rsp.Body.Close()
		return nil, &StatusError{Code: rsp.StatusCode}
	}

	return rsp, nil
}

// GetImage calls GetBody(), checks that the response declares an image
// content type, then reads the full body. It reads at most maxBytes bytes.
// The downloading callback, if non-nil, runs after the response headers
// pass validation and before the body is read.
func GetImage(ctx context.Context, hc *http.Client, u string, maxBytes int64, downloading func()) ([]byte, error) {
	rsp, err := GetBody(ctx, hc, u)
	if err != nil {
		return nil, err
	}
	defer rsp.Body.Close()

	ct := rsp.Header.Get("Content-Type")
	if !IsImageContentType(ct) {
		log.Debugf("rejecting content type: url=%s content-type=%q", u, ct)
		return nil, &NotImageError{
			ContentType: ct,
			Candidates:  pageCandidates(rsp, ct),
		}
	}

	if downloading != nil {
		downloading()
	}

	return readAtMost(rsp.Body, maxBytes)
}

// pageCandidates returns the images embedded in rsp if it is an html page.
func pageCandidates(rsp *http.Response, ct string) []string {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil || (mt != "text/html" && mt != "application/xhtml+xml") {
		return nil
	}

	urls, err := web.PageImageURLs(io.LimitReader(rsp.Body, maxPageBytes), rsp.Request.URL)
	if err != nil {
		log.WithError(err).Debugf("failed to scan page for images")
		return nil
	}

	return urls
}

// readAtMost reads r to EOF. It fails with ErrTooLarge if r holds more than
// max bytes. A max of zero or less means no limit.
func readAtMost(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		return io.ReadAll(r)
	}

	b, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(b)) > max {
		return nil, tooLarge(max)
	}

	return b, nil
}
