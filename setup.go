package main

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/ccollins476ad/pixora/download"
	"github.com/ccollins476ad/pixora/settings"
)

type Config struct {
	URL         string        // Image url; "" reads pasted text from stdin.
	Folder      string        // Destination folder; "" uses the remembered one.
	Filename    string        // Desired filename for this download.
	FilenameSet bool          // True if -n was given, even if empty.
	Auto        *bool         // Auto-download override; nil leaves the setting alone.
	Timeout     time.Duration // Fetch timeout.
	ConfigPath  string        // Path of the settings file.
	Verbose     bool          // True for verbose output.
}

func parseArgs(name string, args []string, output io.Writer) (*Config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)

	verbose := fs.Bool("v", false, "verbose output")
	folder := fs.String("o", "", "destination folder (default: last used folder)")
	filename := fs.String("n", "", "filename to save the image as")
	auto := fs.Bool("auto", false, "download pasted URLs as soon as they arrive (remembered)")
	timeout := fs.Duration("timeout", download.DefaultTimeout, "timeout for fetching the image")
	configPath := fs.String("config", settings.DefaultPath(), "settings file")

	fs.Usage = func() { usage(fs, name) }

	err := fs.Parse(args)
	if err != nil {
		return nil, err
	}

	if fs.NArg() > 1 {
		return nil, fmt.Errorf("too many arguments: only one url may be given")
	}

	cfg := &Config{
		URL:        fs.Arg(0),
		Folder:     *folder,
		Filename:   *filename,
		Timeout:    *timeout,
		ConfigPath: *configPath,
		Verbose:    *verbose,
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "auto":
			cfg.Auto = auto
		case "n":
			cfg.FilenameSet = true
		}
	})

	return cfg, nil
}

func usage(fs *flag.FlagSet, name string) {
	fmt.Fprintf(fs.Output(), "Usage: %s [option]... [url]\n", filepath.Base(name))
	fmt.Fprintf(fs.Output(), "Downloads an image from a URL. Without a url, reads pasted text from stdin;\n")
	fmt.Fprintf(fs.Output(), "a line holding only %s clears the download history.\n", clearCommand)
	fs.PrintDefaults()
}
