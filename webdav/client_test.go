package webdav

import (
	"context"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rotdrop/filepicker/picker"
)

const davPrefix = "/remote.php/dav/files/alice"

func listingMultistatus() string {
	return `<?xml version="1.0"?>
<d:multistatus xmlns:d="DAV:" xmlns:oc="http://owncloud.org/ns">
  <d:response>
    <d:href>` + davPrefix + `/Documents/</d:href>
    <d:propstat>
      <d:prop>
        <d:displayname>Documents</d:displayname>
        <d:resourcetype><d:collection/></d:resourcetype>
        <d:getlastmodified>Tue, 12 May 2026 10:00:00 GMT</d:getlastmodified>
        <d:getetag>"dir-etag"</d:getetag>
      </d:prop>
      <d:status>HTTP/1.1 200 OK</d:status>
    </d:propstat>
    <d:propstat>
      <d:prop><d:getcontenttype/><d:getcontentlength/></d:prop>
      <d:status>HTTP/1.1 404 Not Found</d:status>
    </d:propstat>
  </d:response>
  <d:response>
    <d:href>` + davPrefix + `/Documents/notes%20v2.txt</d:href>
    <d:propstat>
      <d:prop>
        <d:displayname>notes v2.txt</d:displayname>
        <d:getcontenttype>text/plain</d:getcontenttype>
        <d:resourcetype/>
        <d:getlastmodified>Mon, 11 May 2026 09:30:00 GMT</d:getlastmodified>
        <d:getcontentlength>1234</d:getcontentlength>
        <d:getetag>"file-etag"</d:getetag>
      </d:prop>
      <d:status>HTTP/1.1 200 OK</d:status>
    </d:propstat>
  </d:response>
  <d:response>
    <d:href>` + davPrefix + `/Documents/sub/</d:href>
    <d:propstat>
      <d:prop>
        <d:displayname>sub</d:displayname>
        <d:resourcetype><d:collection/></d:resourcetype>
      </d:prop>
      <d:status>HTTP/1.1 200 OK</d:status>
    </d:propstat>
  </d:response>
</d:multistatus>`
}

func newTestClient(t *testing.T, handler nethttp.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Options{
		BaseURL:  server.URL,
		Username: "alice",
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	return client, server
}

func TestClient_ListDirectory(t *testing.T) {
	var gotMethod, gotDepth, gotPath string
	client, _ := newTestClient(t, func(w nethttp.ResponseWriter, r *nethttp.Request) {
		gotMethod = r.Method
		gotDepth = r.Header.Get("Depth")
		gotPath = r.URL.Path
		w.WriteHeader(nethttp.StatusMultiStatus)
		fmt.Fprint(w, listingMultistatus())
	})

	entries, err := client.List(context.Background(), picker.ViewFiles, "/Documents")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}

	if gotMethod != "PROPFIND" {
		t.Errorf("method = %q, want PROPFIND", gotMethod)
	}
	if gotDepth != "1" {
		t.Errorf("Depth = %q, want 1", gotDepth)
	}
	if gotPath != davPrefix+"/Documents" {
		t.Errorf("path = %q, want %q", gotPath, davPrefix+"/Documents")
	}

	// The collection itself is skipped.
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}

	file := entries[0]
	if file.Path != "/Documents/notes v2.txt" {
		t.Errorf("Path = %q, want unescaped logical path", file.Path)
	}
	if file.Name != "notes v2.txt" {
		t.Errorf("Name = %q", file.Name)
	}
	if file.MimeType != "text/plain" {
		t.Errorf("MimeType = %q, want text/plain", file.MimeType)
	}
	if file.Size != 1234 {
		t.Errorf("Size = %d, want 1234", file.Size)
	}
	if file.ETag != "file-etag" {
		t.Errorf("ETag = %q, want quotes stripped", file.ETag)
	}
	if file.Modified.IsZero() {
		t.Error("Modified not parsed")
	}

	dir := entries[1]
	if !dir.IsDir {
		t.Error("sub not detected as directory")
	}
	if dir.MimeType != "httpd/unix-directory" {
		t.Errorf("dir MimeType = %q", dir.MimeType)
	}
}

func TestClient_ListFavoritesUsesReport(t *testing.T) {
	var gotMethod string
	var gotBody string
	client, _ := newTestClient(t, func(w nethttp.ResponseWriter, r *nethttp.Request) {
		gotMethod = r.Method
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(nethttp.StatusMultiStatus)
		fmt.Fprint(w, listingMultistatus())
	})

	if _, err := client.List(context.Background(), picker.ViewFavorites, "/ignored"); err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if gotMethod != "REPORT" {
		t.Errorf("method = %q, want REPORT", gotMethod)
	}
	if !strings.Contains(gotBody, "<oc:favorite>1</oc:favorite>") {
		t.Errorf("body missing favorite filter rule:\n%s", gotBody)
	}
}

func TestClient_ListRecentUsesSearch(t *testing.T) {
	var gotMethod, gotPath string
	client, _ := newTestClient(t, func(w nethttp.ResponseWriter, r *nethttp.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(nethttp.StatusMultiStatus)
		fmt.Fprint(w, listingMultistatus())
	})

	if _, err := client.List(context.Background(), picker.ViewRecent, "/"); err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if gotMethod != "SEARCH" {
		t.Errorf("method = %q, want SEARCH", gotMethod)
	}
	if gotPath != "/remote.php/dav/" {
		t.Errorf("path = %q, want /remote.php/dav/", gotPath)
	}
}

func TestClient_GetEntryDepthZero(t *testing.T) {
	client, _ := newTestClient(t, func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if depth := r.Header.Get("Depth"); depth != "0" {
			t.Errorf("Depth = %q, want 0", depth)
		}
		w.WriteHeader(nethttp.StatusMultiStatus)
		fmt.Fprint(w, `<?xml version="1.0"?>
<d:multistatus xmlns:d="DAV:">
  <d:response>
    <d:href>`+davPrefix+`/Documents/</d:href>
    <d:propstat>
      <d:prop>
        <d:displayname>Documents</d:displayname>
        <d:resourcetype><d:collection/></d:resourcetype>
      </d:prop>
      <d:status>HTTP/1.1 200 OK</d:status>
    </d:propstat>
  </d:response>
</d:multistatus>`)
	})

	entry, err := client.GetEntry(context.Background(), "/Documents")
	if err != nil {
		t.Fatalf("GetEntry() error: %v", err)
	}
	if entry.Path != "/Documents" || !entry.IsDir {
		t.Errorf("entry = %+v", entry)
	}
}

func TestClient_CreateDirectory(t *testing.T) {
	var gotMethod string
	client, _ := newTestClient(t, func(w nethttp.ResponseWriter, r *nethttp.Request) {
		gotMethod = r.Method
		w.WriteHeader(nethttp.StatusCreated)
	})

	if err := client.CreateDirectory(context.Background(), "/new folder"); err != nil {
		t.Fatalf("CreateDirectory() error: %v", err)
	}
	if gotMethod != "MKCOL" {
		t.Errorf("method = %q, want MKCOL", gotMethod)
	}
}

func TestClient_CreateDirectoryConflict(t *testing.T) {
	client, _ := newTestClient(t, func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusMethodNotAllowed)
	})

	err := client.CreateDirectory(context.Background(), "/existing")
	if !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("error = %v, want ErrAlreadyExists", err)
	}
	if !IsAlreadyExistsError(err) {
		t.Error("IsAlreadyExistsError() = false")
	}
}

func TestClient_NotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusNotFound)
	})

	_, err := client.GetEntry(context.Background(), "/missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestClient_BasicAuthSent(t *testing.T) {
	client, _ := newTestClient(t, func(w nethttp.ResponseWriter, r *nethttp.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "alice" || pass != "secret" {
			t.Errorf("basic auth = %q/%q ok=%v", user, pass, ok)
		}
		w.WriteHeader(nethttp.StatusMultiStatus)
		fmt.Fprint(w, listingMultistatus())
	})

	if _, err := client.List(context.Background(), picker.ViewFiles, "/Documents"); err != nil {
		t.Fatalf("List() error: %v", err)
	}
}

func TestIsAlreadyExistsError_Patterns(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{ErrAlreadyExists, true},
		{fmt.Errorf("wrap: %w", ErrAlreadyExists), true},
		{errors.New("409 Conflict"), true},
		{errors.New("the folder already exists"), true},
		{errors.New("permission denied"), false},
	}
	for _, tt := range tests {
		if got := IsAlreadyExistsError(tt.err); got != tt.want {
			t.Errorf("IsAlreadyExistsError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
