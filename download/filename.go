package download

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/flytam/filenamify"
	log "github.com/sirupsen/logrus"
)

// DefaultBaseName is the filename base used when neither the caller nor the
// url supplies a usable name.
const DefaultBaseName = "pixora_image"

// ImageExts lists the extensions recognized as image files.
var ImageExts = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp"}

var (
	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.\-]`)
	underscores = regexp.MustCompile(`_+`)
)

// HasImageExt returns true if filename ends in a recognized image extension.
// The comparison ignores case.
func HasImageExt(filename string) bool {
	lower := strings.ToLower(filename)
	for _, ext := range ImageExts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// SanitizeFilename replaces every character outside [A-Za-z0-9_.-] with an
// underscore, collapses runs of underscores, and trims underscores from both
// ends.
func SanitizeFilename(name string) string {
	name = unsafeChars.ReplaceAllString(name, "_")
	name = underscores.ReplaceAllString(name, "_")
	return strings.Trim(name, "_")
}

// URLToFilename returns the sanitized basename of the given url's path. It
// returns the empty string if the basename is empty, starts with a dot, or
// lacks a recognized image extension.
func URLToFilename(u string) string {
	pu, err := url.Parse(u)
	if err != nil {
		return ""
	}

	p := pu.Path
	base := p[strings.LastIndex(p, "/")+1:]
	if base == "" || strings.HasPrefix(base, ".") || !HasImageExt(base) {
		return ""
	}

	filename := SanitizeFilename(base)
	if filename == "" || strings.HasPrefix(filename, ".") {
		return ""
	}

	return filename
}

// desiredToFilename turns a caller-supplied filename into a single safe path
// element. It returns the empty string if nothing usable remains.
func desiredToFilename(desired string) string {
	name, err := filenamify.Filenamify(strings.TrimSpace(desired), filenamify.Options{
		Replacement: "_",
	})
	if err != nil {
		log.WithError(err).Debugf("failed to sanitize filename: %q", desired)
		return ""
	}

	name = strings.TrimSpace(name)
	if strings.Trim(name, "._") == "" {
		return ""
	}

	return name
}

// ResolveFilename picks the filename to save an image under, before
// collision avoidance. In priority order it uses:
//  1. desired, with the format's extension appended if it lacks one;
//  2. the basename of the url, if it names an image file;
//  3. DefaultBaseName with the format's extension.
func ResolveFilename(u string, desired string, format string) string {
	ext := FormatExt(format)

	if desired != "" {
		if name := desiredToFilename(desired); name != "" {
			if !HasImageExt(name) {
				name += "." + ext
			}
			return name
		}
		log.Debugf("ignoring unusable filename: %q", desired)
	}

	if name := URLToFilename(u); name != "" {
		return name
	}

	return DefaultBaseName + "." + ext
}
