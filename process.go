package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ccollins476ad/pixora/download"
	"github.com/ccollins476ad/pixora/fileutil"
	"github.com/ccollins476ad/pixora/history"
	"github.com/ccollins476ad/pixora/settings"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"mvdan.cc/xurls/v2"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusWarning
	statusError
)

// Shell owns the user-facing state: settings, history and the status line.
// It runs at most one download at a time.
type Shell struct {
	cfg      *Config
	hc       *http.Client
	settings *settings.Settings
	history  *history.Log

	// status receives every status line; it logs by default.
	status func(kind statusKind, msg string)

	failures int
}

func NewShell(cfg *Config, s *settings.Settings) *Shell {
	return &Shell{
		cfg:      cfg,
		hc:       &http.Client{},
		settings: s,
		history:  history.New(),
		status:   logStatus,
	}
}

// logStatus writes a status line to the log at a level matching its kind.
func logStatus(kind statusKind, msg string) {
	switch kind {
	case statusError:
		log.Error(msg)
	case statusWarning:
		log.Warn(msg)
	default:
		log.Info(msg)
	}
}

// saveSettings persists the shell's settings. Failure is reported but not
// fatal.
func (sh *Shell) saveSettings() {
	err := sh.settings.Save(sh.cfg.ConfigPath)
	if err != nil {
		log.WithError(err).Warnf("failed to save settings")
	}
}

// applyConfig merges command line overrides into the remembered settings and
// saves them if anything changed.
func (sh *Shell) applyConfig() {
	changed := false

	if sh.cfg.Folder != "" {
		folder, err := filepath.Abs(sh.cfg.Folder)
		if err != nil {
			folder = sh.cfg.Folder
		}
		if folder != sh.settings.FolderPath {
			sh.settings.FolderPath = folder
			changed = true
		}
	}

	if sh.cfg.Auto != nil && *sh.cfg.Auto != sh.settings.AutoDownload {
		sh.settings.AutoDownload = *sh.cfg.Auto
		changed = true
	}

	if sh.cfg.FilenameSet {
		name := strings.TrimSpace(sh.cfg.Filename)
		if name != sh.settings.CustomFilename {
			sh.settings.CustomFilename = name
			changed = true
		}
	}

	if changed {
		sh.saveSettings()
	}
}

// newRequest builds the request for a download of url=u from the shell's
// current state.
func (sh *Shell) newRequest(u string) download.Request {
	return download.Request{
		ID:       uuid.NewString(),
		URL:      u,
		Dir:      sh.settings.FolderPath,
		Filename: sh.settings.CustomFilename,
	}
}

// Submit downloads the image at url=u into the current folder. It returns
// false if the preconditions for a download are not met, in which case no
// download is attempted.
func (sh *Shell) Submit(ctx context.Context, u string) (download.Result, bool) {
	u = strings.TrimSpace(u)
	if u == "" {
		sh.status(statusWarning, "Please enter an image URL")
		return download.Result{}, false
	}
	if sh.settings.FolderPath == "" || !fileutil.IsDir(sh.settings.FolderPath) {
		sh.status(statusWarning, "Please select a download folder")
		return download.Result{}, false
	}

	req := sh.newRequest(u)
	log.Debugf("submitting download: id=%s url=%s dir=%s", req.ID, req.URL, req.Dir)

	res := sh.runDownload(ctx, req)
	sh.finish(res)

	return res, true
}

// runDownload runs a worker for req in its own goroutine and renders its
// progress as it arrives. It returns the worker's result.
func (sh *Shell) runDownload(ctx context.Context, req download.Request) download.Result {
	w := download.NewWorker(sh.hc, req, download.WithTimeout(sh.cfg.Timeout))

	events := make(chan download.Event)
	var res download.Result

	g := &errgroup.Group{}

	g.Go(func() error {
		defer close(events)
		w.Run(ctx, download.ChanReporter(events))
		return nil
	})

	g.Go(func() error {
		var err error
		res, err = sh.render(events)
		return err
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Errorf("download %s", req.ID)
		return download.Failure(err)
	}

	return res
}

var errNoResult = errors.New("download ended without a result")

// render shows the progress events of a download until the channel closes. It
// returns the terminal result, or an error if none arrived.
func (sh *Shell) render(events <-chan download.Event) (download.Result, error) {
	var res *download.Result

	for ev := range events {
		if ev.Terminal() {
			res = ev.Result
			continue
		}
		sh.status(statusInfo, ev.Phase.Message())
	}

	if res == nil {
		return download.Result{}, errNoResult
	}
	return *res, nil
}

// finish updates the status line, history and settings after a download.
func (sh *Shell) finish(res download.Result) {
	e := sh.history.AddResult(res)
	log.Debugf("history: %s", e)

	if !res.OK() {
		sh.failures++
		sh.status(statusError, "Download failed: "+res.Reason())
		sh.suggest(res.Err)
		return
	}

	sh.status(statusSuccess, "Successfully downloaded: "+res.Filename)

	// A custom filename applies to a single download.
	if sh.settings.CustomFilename != "" {
		sh.settings.CustomFilename = ""
		sh.saveSettings()
	}
}

// maxSuggestions limits how many embedded images of a page are offered.
const maxSuggestions = 3

// suggest offers the images embedded in a page when the user submitted the
// page's url instead of an image url.
func (sh *Shell) suggest(err error) {
	var nie *download.NotImageError
	if !errors.As(err, &nie) || len(nie.Candidates) == 0 {
		return
	}

	urls := nie.Candidates
	if len(urls) > maxSuggestions {
		urls = urls[:maxSuggestions]
	}

	sh.status(statusInfo, fmt.Sprintf("The page embeds %d image(s); try: %s", len(nie.Candidates), strings.Join(urls, " ")))
}

// extractURL returns the first url found in pasted text. It returns the
// empty string if the text contains none.
func extractURL(text string) string {
	return xurls.Strict().FindString(text)
}

// clearCommand, pasted on a line of its own, clears the history.
const clearCommand = ":clear"

// maxPasteBytes limits the length of a single pasted line. Longer lines are
// skipped.
const maxPasteBytes = 1 << 20

// readPaste returns the next line of br without its line ending. A line
// longer than maxPasteBytes is consumed in full and reported as too long.
func readPaste(br *bufio.Reader) (string, bool, error) {
	var buf []byte
	tooLong := false
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			return string(buf), tooLong, err
		}

		if len(buf)+len(chunk) > maxPasteBytes {
			tooLong = true
			buf = nil
		} else if !tooLong {
			buf = append(buf, chunk...)
		}

		if !isPrefix {
			return string(buf), tooLong, nil
		}
	}
}

// ReadPasted reads pasted text from r, one paste per line, and downloads the
// url each paste contains. With auto-download disabled it stops after the
// first paste holding a url.
func (sh *Shell) ReadPasted(ctx context.Context, r io.Reader) error {
	br := bufio.NewReader(r)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line, tooLong, err := readPaste(br)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if tooLong {
			sh.status(statusWarning, fmt.Sprintf("Pasted text longer than %s skipped", humanize.IBytes(maxPasteBytes)))
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if line == clearCommand {
			sh.history.Clear()
			sh.status(statusInfo, "Download history cleared")
			continue
		}

		u := extractURL(line)
		if u == "" {
			sh.status(statusWarning, "No URL found in pasted text")
			continue
		}

		sh.status(statusInfo, "URL entered: "+u)
		_, ok := sh.Submit(ctx, u)
		if !ok || !sh.settings.AutoDownload {
			return nil
		}
	}
}

// Failures returns the number of downloads that failed.
func (sh *Shell) Failures() int {
	return sh.failures
}

// History returns the shell's history log.
func (sh *Shell) History() *history.Log {
	return sh.history
}
