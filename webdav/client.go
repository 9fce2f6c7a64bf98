package webdav

import (
	"context"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"github.com/rotdrop/filepicker/internal/constants"
	"github.com/rotdrop/filepicker/internal/validation"
	"github.com/rotdrop/filepicker/picker"
)

const propfindBody = `<?xml version="1.0"?>
<d:propfind xmlns:d="DAV:">
  <d:prop>
    <d:displayname/>
    <d:getcontenttype/>
    <d:resourcetype/>
    <d:getlastmodified/>
    <d:getcontentlength/>
    <d:getetag/>
  </d:prop>
</d:propfind>`

const favoritesReportBody = `<?xml version="1.0"?>
<oc:filter-files xmlns:d="DAV:" xmlns:oc="http://owncloud.org/ns">
  <oc:filter-rules>
    <oc:favorite>1</oc:favorite>
  </oc:filter-rules>
  <d:prop>
    <d:displayname/>
    <d:getcontenttype/>
    <d:resourcetype/>
    <d:getlastmodified/>
    <d:getcontentlength/>
    <d:getetag/>
  </d:prop>
</oc:filter-files>`

const recentSearchBody = `<?xml version="1.0" encoding="UTF-8"?>
<d:searchrequest xmlns:d="DAV:" xmlns:oc="http://owncloud.org/ns">
  <d:basicsearch>
    <d:select>
      <d:prop>
        <d:displayname/>
        <d:getcontenttype/>
        <d:resourcetype/>
        <d:getlastmodified/>
        <d:getcontentlength/>
        <d:getetag/>
      </d:prop>
    </d:select>
    <d:from>
      <d:scope>
        <d:href>/files/%s</d:href>
        <d:depth>infinity</d:depth>
      </d:scope>
    </d:from>
    <d:where>
      <d:gt>
        <d:prop><d:getlastmodified/></d:prop>
        <d:literal>%s</d:literal>
      </d:gt>
    </d:where>
    <d:orderby>
      <d:order>
        <d:prop><d:getlastmodified/></d:prop>
        <d:descending/>
      </d:order>
    </d:orderby>
    <d:limit>
      <d:nresults>%d</d:nresults>
    </d:limit>
  </d:basicsearch>
</d:searchrequest>`

// retryLogger adapts retryablehttp's leveled logging onto zerolog.
// Only warnings and errors surface; retry chatter stays at debug.
type retryLogger struct {
	log zerolog.Logger
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Error().Fields(keysAndValues).Msg(msg)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Warn().Fields(keysAndValues).Msg(msg)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

// Options configures a Client.
type Options struct {
	// BaseURL is the server root, e.g. https://cloud.example.com.
	BaseURL string
	// Username and Password authenticate via basic auth.
	Username string
	Password string
	// HTTPClient carries transport concerns like proxying. A default
	// client is used when nil.
	HTTPClient *nethttp.Client
	// Logger receives request logging at debug level.
	Logger *zerolog.Logger
}

// Client talks WebDAV to a Nextcloud-style server. It implements
// picker.ListingService.
type Client struct {
	httpClient *nethttp.Client
	baseURL    string
	username   string
	password   string
	davPrefix  string
	log        zerolog.Logger
}

var _ picker.ListingService = (*Client)(nil)

// NewClient creates a WebDAV client for the given server and user.
func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if opts.Username == "" {
		return nil, fmt.Errorf("username is required")
	}

	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	retryClient := retryablehttp.NewClient()
	if opts.HTTPClient != nil {
		retryClient.HTTPClient = opts.HTTPClient
	}
	retryClient.RetryMax = constants.RetryMax
	retryClient.RetryWaitMin = constants.RetryWaitMin
	retryClient.RetryWaitMax = constants.RetryWaitMax
	retryClient.Logger = &retryLogger{log: log}

	return &Client{
		httpClient: retryClient.StandardClient(),
		baseURL:    strings.TrimSuffix(opts.BaseURL, "/"),
		username:   opts.Username,
		password:   opts.Password,
		davPrefix:  "/remote.php/dav/files/" + opts.Username,
		log:        log,
	}, nil
}

// fileURL builds the DAV URL for a logical path, escaping each
// segment.
func (c *Client) fileURL(logical string) string {
	logical = validation.NormalizeRemotePath(logical)
	if logical == "/" {
		return c.baseURL + c.davPrefix
	}
	var sb strings.Builder
	for _, segment := range strings.Split(strings.Trim(logical, "/"), "/") {
		sb.WriteString("/")
		sb.WriteString(url.PathEscape(segment))
	}
	return c.baseURL + c.davPrefix + sb.String()
}

// doDAV performs a WebDAV request with basic auth and common headers.
func (c *Client) doDAV(ctx context.Context, method, rawURL, depth, body string) (*nethttp.Response, error) {
	var reqBody io.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	}
	req, err := nethttp.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("User-Agent", constants.UserAgent)
	if body != "" {
		req.Header.Set("Content-Type", "application/xml; charset=utf-8")
	}
	if depth != "" {
		req.Header.Set("Depth", depth)
	}

	c.log.Debug().Str("method", method).Str("url", rawURL).Msg("WebDAV request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// List fetches the entries of a view. The files view lists the
// directory at path; favorites and recent ignore the path and return
// their flat server-side listings.
func (c *Client) List(ctx context.Context, view picker.View, path string) ([]picker.Entry, error) {
	switch view {
	case picker.ViewFavorites:
		return c.listFavorites(ctx)
	case picker.ViewRecent:
		return c.listRecent(ctx)
	default:
		return c.listDirectory(ctx, path)
	}
}

func (c *Client) listDirectory(ctx context.Context, path string) ([]picker.Entry, error) {
	path = validation.NormalizeRemotePath(path)
	resp, err := c.doDAV(ctx, "PROPFIND", c.fileURL(path), "1", propfindBody)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == nethttp.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if resp.StatusCode != nethttp.StatusMultiStatus {
		return nil, statusError("PROPFIND", path, resp.StatusCode)
	}

	entries, err := c.decodeEntries(resp.Body)
	if err != nil {
		return nil, err
	}
	// Depth 1 includes the collection itself; drop it.
	out := entries[:0]
	for _, e := range entries {
		if e.Path == path {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (c *Client) listFavorites(ctx context.Context) ([]picker.Entry, error) {
	resp, err := c.doDAV(ctx, "REPORT", c.fileURL("/"), "", favoritesReportBody)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != nethttp.StatusMultiStatus {
		return nil, statusError("REPORT", "/", resp.StatusCode)
	}
	return c.decodeEntries(resp.Body)
}

func (c *Client) listRecent(ctx context.Context) ([]picker.Entry, error) {
	since := time.Now().Add(-constants.RecentLookback).UTC().Format(time.RFC3339)
	body := fmt.Sprintf(recentSearchBody, c.username, since, constants.RecentLimit)
	resp, err := c.doDAV(ctx, "SEARCH", c.baseURL+"/remote.php/dav/", "", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != nethttp.StatusMultiStatus {
		return nil, statusError("SEARCH", "/", resp.StatusCode)
	}
	return c.decodeEntries(resp.Body)
}

func (c *Client) decodeEntries(r io.Reader) ([]picker.Entry, error) {
	ms, err := parseMultistatus(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse multistatus: %w", err)
	}
	entries := make([]picker.Entry, 0, len(ms.Responses))
	for _, resp := range ms.Responses {
		if entry, ok := entryFromResponse(resp, c.davPrefix); ok {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// CreateDirectory issues MKCOL for the given path. A conflicting node
// yields ErrAlreadyExists.
func (c *Client) CreateDirectory(ctx context.Context, path string) error {
	path = validation.NormalizeRemotePath(path)
	resp, err := c.doDAV(ctx, "MKCOL", c.fileURL(path), "", "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case nethttp.StatusCreated:
		return nil
	case nethttp.StatusMethodNotAllowed, nethttp.StatusConflict:
		return fmt.Errorf("%w: %s", ErrAlreadyExists, path)
	default:
		return statusError("MKCOL", path, resp.StatusCode)
	}
}

// GetEntry fetches the properties of a single node via PROPFIND
// Depth 0.
func (c *Client) GetEntry(ctx context.Context, path string) (picker.Entry, error) {
	path = validation.NormalizeRemotePath(path)
	resp, err := c.doDAV(ctx, "PROPFIND", c.fileURL(path), "0", propfindBody)
	if err != nil {
		return picker.Entry{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == nethttp.StatusNotFound {
		return picker.Entry{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if resp.StatusCode != nethttp.StatusMultiStatus {
		return picker.Entry{}, statusError("PROPFIND", path, resp.StatusCode)
	}

	entries, err := c.decodeEntries(resp.Body)
	if err != nil {
		return picker.Entry{}, err
	}
	if len(entries) == 0 {
		return picker.Entry{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return entries[0], nil
}
