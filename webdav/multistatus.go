package webdav

import (
	"encoding/xml"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/rotdrop/filepicker/picker"
)

// multistatus mirrors the DAV:multistatus envelope returned by
// PROPFIND, REPORT and SEARCH.
type multistatus struct {
	XMLName   xml.Name      `xml:"DAV: multistatus"`
	Responses []davResponse `xml:"response"`
}

type davResponse struct {
	Href      string     `xml:"href"`
	Propstats []propstat `xml:"propstat"`
}

type propstat struct {
	Status string `xml:"status"`
	Prop   prop   `xml:"prop"`
}

type prop struct {
	DisplayName   string       `xml:"displayname"`
	ContentType   string       `xml:"getcontenttype"`
	LastModified  string       `xml:"getlastmodified"`
	ContentLength int64        `xml:"getcontentlength"`
	ETag          string       `xml:"getetag"`
	ResourceType  resourceType `xml:"resourcetype"`
}

type resourceType struct {
	Collection *struct{} `xml:"collection"`
}

// okProp returns the prop block of the 200-status propstat, if any.
// Servers report unavailable props in a separate 404 propstat that
// must not shadow the valid one.
func (r davResponse) okProp() (prop, bool) {
	for _, ps := range r.Propstats {
		if strings.Contains(ps.Status, "200") {
			return ps.Prop, true
		}
	}
	return prop{}, false
}

// parseMultistatus decodes a multistatus body. The charset reader
// tolerates servers that answer in encodings other than UTF-8.
func parseMultistatus(r io.Reader) (*multistatus, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel
	var ms multistatus
	if err := decoder.Decode(&ms); err != nil {
		return nil, err
	}
	return &ms, nil
}

// entryFromResponse maps one multistatus response onto an Entry. The
// href is URL-unescaped and re-based from the DAV prefix onto the
// logical file tree.
func entryFromResponse(r davResponse, davPrefix string) (picker.Entry, bool) {
	p, ok := r.okProp()
	if !ok {
		return picker.Entry{}, false
	}

	href := r.Href
	if unescaped, err := url.PathUnescape(href); err == nil {
		href = unescaped
	}
	logical := strings.TrimPrefix(href, davPrefix)
	logical = "/" + strings.Trim(logical, "/")

	isDir := p.ResourceType.Collection != nil
	name := path.Base(logical)
	if name == "/" || name == "." {
		name = "/"
	}

	entry := picker.Entry{
		Path:        logical,
		Name:        name,
		DisplayName: p.DisplayName,
		IsDir:       isDir,
		MimeType:    p.ContentType,
		Size:        p.ContentLength,
		ETag:        strings.Trim(p.ETag, `"`),
	}
	if entry.DisplayName == "" {
		entry.DisplayName = name
	}
	if isDir && entry.MimeType == "" {
		entry.MimeType = "httpd/unix-directory"
	}
	if p.LastModified != "" {
		if t, err := time.Parse(time.RFC1123, p.LastModified); err == nil {
			entry.Modified = t
		} else if t, err := time.Parse(time.RFC1123Z, p.LastModified); err == nil {
			entry.Modified = t
		}
	}
	return entry, true
}
