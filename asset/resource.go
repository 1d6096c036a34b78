package asset

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// A Resource is a readable stream backed by a local file or an http(s) URL.
// Callers must Close it when done.
type Resource struct {
	io.ReadCloser
	url *url.URL
}

// Path returns the location of this resource.
func (r *Resource) Path() string {
	return r.url.String()
}

// Name returns the last path element of the resource location.
func (r *Resource) Name() string {
	return path.Base(r.url.Path)
}

// Ext returns the lower-cased file extension including the leading dot.
func (r *Resource) Ext() string {
	return strings.ToLower(path.Ext(r.url.Path))
}

// IsRemote returns true for resources streamed over http/https.
func (r *Resource) IsRemote() bool {
	return r.url.Scheme != ""
}

// Open a resource. A relative pathToResource is resolved against the
// directory of relTo when relTo is not nil; this is how model files
// reference their material libraries and textures.
func NewResource(pathToResource string, relTo *Resource) (*Resource, error) {
	loc, err := resolve(pathToResource, relTo)
	if err != nil {
		return nil, err
	}

	var reader io.ReadCloser
	switch loc.Scheme {
	case "":
		reader, err = os.Open(filepath.Clean(loc.Path))
		if err != nil {
			return nil, fmt.Errorf("resource: %w", err)
		}
	case "http", "https":
		resp, err := http.Get(loc.String())
		if err != nil {
			return nil, fmt.Errorf("resource: could not fetch '%s': %w", loc.String(), err)
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, fmt.Errorf("resource: could not fetch '%s': status %d", loc.String(), resp.StatusCode)
		}
		reader = resp.Body
	default:
		return nil, fmt.Errorf("resource: unsupported scheme '%s'", loc.Scheme)
	}

	return &Resource{
		ReadCloser: reader,
		url:        loc,
	}, nil
}

func resolve(pathToResource string, relTo *Resource) (*url.URL, error) {
	// Model files exported on windows often use backslashes
	loc, err := url.Parse(strings.Replace(pathToResource, `\`, `/`, -1))
	if err != nil {
		return nil, fmt.Errorf("resource: %w", err)
	}

	if loc.Scheme != "" || relTo == nil || filepath.IsAbs(loc.Path) {
		return loc, nil
	}

	if relTo.IsRemote() {
		return relTo.url.ResolveReference(&url.URL{Path: loc.Path}), nil
	}

	parentPath, err := filepath.Abs(relTo.url.Path)
	if err != nil {
		return nil, fmt.Errorf("resource: could not detect abs path for %s: %w", relTo.Path(), err)
	}
	return &url.URL{Path: filepath.Join(filepath.Dir(parentPath), loc.Path)}, nil
}

// Create a resource from an in-memory stream.
func NewResourceFromStream(name string, source io.Reader) *Resource {
	loc, err := url.Parse(name)
	if err != nil {
		loc = &url.URL{Path: name}
	}
	return &Resource{
		ReadCloser: io.NopCloser(source),
		url:        loc,
	}
}
