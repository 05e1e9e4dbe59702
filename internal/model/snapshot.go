package model

import (
	"bytes"
	"errors"
	"io"
	"net/url"
)

// ErrNoSnapshotURL is returned when a snapshot's URL has no scheme or host.
var ErrNoSnapshotURL = errors.New("snapshot url has no scheme or host")

// Snapshot is an HTML document as fetched or rendered when navigation stopped.
// It is owned by a single navigator invocation and dropped after link collection.
type Snapshot struct {
	// URL is the address the document was loaded from.
	URL string

	// HTML is the raw document.
	HTML []byte
}

// NewSnapshot returns a Snapshot for the given URL and document.
func NewSnapshot(pageURL string, html []byte) *Snapshot {
	return &Snapshot{URL: pageURL, HTML: html}
}

// Reader returns a reader over the document.
func (s *Snapshot) Reader() io.Reader {
	return bytes.NewReader(s.HTML)
}

// SiteRoot returns scheme://host of the snapshot URL.
// Links are resolved against this root rather than the full page URL.
func (s *Snapshot) SiteRoot() (*url.URL, error) {
	u, err := url.Parse(s.URL)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, ErrNoSnapshotURL
	}
	return &url.URL{Scheme: u.Scheme, Host: u.Host}, nil
}
