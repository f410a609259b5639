// Package source classifies image locators and derives image names and
// disk formats from them.
//
// A locator is either a remote URL (any scheme except file) or a local
// filesystem path. When the caller does not name the image explicitly, the
// name is inferred from response metadata or the locator's trailing path
// segment, and the disk format from the name's extension.
package source

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// Scheme distinguishes remote from local image sources.
type Scheme int

const (
	// SchemeLocal is a filesystem path (including file:// URIs).
	SchemeLocal Scheme = iota
	// SchemeRemote is a retrievable URL.
	SchemeRemote
)

// ResolutionError reports that a required image attribute could not be
// derived from the available inputs.
type ResolutionError struct {
	Attribute string
	Locator   string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("no %s given and %s could not be derived from %q", e.Attribute, e.Attribute, e.Locator)
}

// Source is a classified image locator.
type Source struct {
	Scheme  Scheme
	Locator string
	// Path is the local filesystem path. Only set for local sources.
	Path string
}

// Remote reports whether the source must be downloaded before upload.
func (s Source) Remote() bool {
	return s.Scheme == SchemeRemote
}

// Classify determines whether the locator is a remote URL or a local path.
// A locator counts as remote if it parses as a URL with a non-empty scheme
// other than file. Everything else, including file:// URIs and bare paths,
// is local.
func Classify(locator string) Source {
	u, err := url.Parse(locator)
	if err != nil || u.Scheme == "" {
		return Source{Scheme: SchemeLocal, Locator: locator, Path: locator}
	}
	if u.Scheme == "file" {
		return Source{Scheme: SchemeLocal, Locator: locator, Path: u.Path}
	}
	// Single-letter schemes are Windows-style drive prefixes, not URLs.
	if len(u.Scheme) == 1 {
		return Source{Scheme: SchemeLocal, Locator: locator, Path: locator}
	}
	return Source{Scheme: SchemeRemote, Locator: locator}
}

// Basename returns the trailing path segment of the locator.
func (s Source) Basename() string {
	if s.Remote() {
		u, err := url.Parse(s.Locator)
		if err != nil {
			return ""
		}
		base := path.Base(u.Path)
		if base == "." || base == "/" {
			return ""
		}
		return base
	}

	base := filepath.Base(s.Path)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return base
}

var contentDispositionFilename = regexp.MustCompile(`filename=(.+)`)

// FilenameFromContentDisposition extracts a filename hint from a
// Content-Disposition header value. It returns the empty string when the
// header carries none.
func FilenameFromContentDisposition(header string) string {
	if header == "" {
		return ""
	}
	m := contentDispositionFilename.FindStringSubmatch(header)
	if m == nil {
		return ""
	}
	return strings.Trim(strings.TrimSpace(m[1]), `"`)
}

// ResolveName derives the image name. Order: the metadata filename hint
// (remote sources only), the locator's trailing path segment, then the
// explicitly given name.
func (s Source) ResolveName(filenameHint, explicitName string) (string, error) {
	if s.Remote() && filenameHint != "" {
		return filenameHint, nil
	}
	if base := s.Basename(); base != "" {
		return base, nil
	}
	if explicitName != "" {
		return explicitName, nil
	}
	return "", &ResolutionError{Attribute: "name", Locator: s.Locator}
}

// ResolveFormat derives the disk format. An explicit format wins; otherwise
// the extension of the resolved name is used, with the dot stripped.
func (s Source) ResolveFormat(explicitFormat, resolvedName string) (string, error) {
	if explicitFormat != "" {
		return explicitFormat, nil
	}

	ext := filepath.Ext(resolvedName)
	if len(ext) > 1 {
		return ext[1:], nil
	}
	return "", &ResolutionError{Attribute: "format", Locator: s.Locator}
}
