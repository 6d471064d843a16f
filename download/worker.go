package download

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ccollins476ad/pixora/fileutil"
	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTimeout  = 10 * time.Second
	DefaultMaxBytes = 50 << 20
)

// Request describes a single image download. It is immutable once built.
type Request struct {
	ID       string // Correlates log messages; may be empty.
	URL      string // Image url.
	Dir      string // Existing destination directory.
	Filename string // Desired filename; "" derives one.
}

// Worker downloads the image of one request and saves it to disk. A worker
// is used once; create a new one for every request.
type Worker struct {
	hc       *http.Client
	req      Request
	timeout  time.Duration
	maxBytes int64
}

// Option customizes a Worker.
type Option func(w *Worker)

// WithTimeout bounds the fetch, including reading the response body.
func WithTimeout(d time.Duration) Option {
	return func(w *Worker) {
		w.timeout = d
	}
}

// WithMaxBytes limits the size of the image. Zero means no limit.
func WithMaxBytes(n int64) Option {
	return func(w *Worker) {
		w.maxBytes = n
	}
}

// NewWorker creates a worker for req. It uses http.DefaultClient if hc is
// nil.
func NewWorker(hc *http.Client, req Request, opts ...Option) *Worker {
	if hc == nil {
		hc = http.DefaultClient
	}

	w := &Worker{
		hc:       hc,
		req:      req,
		timeout:  DefaultTimeout,
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Request returns the worker's request.
func (w *Worker) Request() Request {
	return w.req
}

// Run performs the download, reporting progress to rep and finishing with
// exactly one call to rep.Finished.
func (w *Worker) Run(ctx context.Context, rep Reporter) {
	rep.Finished(w.Download(ctx, rep.Progress))
}

// Download performs the download and returns its result. It calls
// onProgress, if non-nil, as each phase begins. It never panics; every
// failure is reported in the returned result.
func (w *Worker) Download(ctx context.Context, onProgress func(p Phase)) (res Result) {
	logger := log.WithField("req", w.req.ID)

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("download panicked: %v", r)
			res = Failure(fmt.Errorf("internal error: %v", r))
		}
	}()

	progress := func(p Phase) {
		logger.Debugf("phase: %s", p)
		if onProgress != nil {
			onProgress(p)
		}
	}

	savedPath, filename, err := w.download(ctx, progress)
	if err != nil {
		logger.WithError(err).Debugf("download failed: url=%s", w.req.URL)
		return Failure(err)
	}

	return Success(savedPath, filename)
}

func (w *Worker) download(ctx context.Context, progress func(p Phase)) (string, string, error) {
	progress(PhaseValidating)

	if err := CheckURL(w.req.URL); err != nil {
		return "", "", err
	}

	b, err := w.fetch(ctx, func() { progress(PhaseDownloading) })
	if err != nil {
		return "", "", err
	}

	_, format, err := DecodeImage(b)
	if err != nil {
		return "", "", err
	}

	filename := ResolveFilename(w.req.URL, w.req.Filename, format)
	savedPath, filename := fileutil.UniqueName(w.req.Dir, filename)

	progress(PhaseSaving)

	if err := fileutil.WriteNew(savedPath, b); err != nil {
		return "", "", err
	}

	log.WithField("req", w.req.ID).Infof("saved %s (%s, %s)", savedPath, format, humanize.Bytes(uint64(len(b))))

	return savedPath, filename, nil
}

func (w *Worker) fetch(ctx context.Context, downloading func()) ([]byte, error) {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	return GetImage(ctx, w.hc, w.req.URL, w.maxBytes, downloading)
}
