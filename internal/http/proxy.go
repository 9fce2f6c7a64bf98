// Package http builds proxy-aware HTTP clients for the WebDAV backend.
package http

import (
	"crypto/tls"
	"fmt"
	"net"
	nethttp "net/http"
	"net/url"
	"strings"

	ntlmssp "github.com/Azure/go-ntlmssp"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http/httpproxy"

	"github.com/rotdrop/filepicker/internal/config"
	"github.com/rotdrop/filepicker/internal/constants"
)

// NewClient configures an HTTP client with proxy settings.
func NewClient(pc config.ProxyConfig) (*nethttp.Client, error) {
	transport := &nethttp.Transport{
		DialContext: (&net.Dialer{
			Timeout:   constants.HTTPDialTimeout,
			KeepAlive: constants.HTTPDialKeepAlive,
		}).DialContext,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       constants.HTTPIdleConnTimeout,
		TLSHandshakeTimeout:   constants.HTTPTLSHandshakeTimeout,
		ExpectContinueTimeout: constants.HTTPExpectContinueTimeout,
	}

	switch strings.ToLower(pc.Mode) {
	case "no-proxy", "":
		transport.Proxy = nil

	case "system":
		transport.Proxy = nethttp.ProxyFromEnvironment

	case "ntlm":
		// Fall back to no-proxy if host is missing (incomplete saved
		// config) so the picker still starts.
		if pc.Host == "" {
			log.Warn().Msg("Proxy mode is NTLM but host is missing, falling back to no-proxy mode")
			transport.Proxy = nil
			break
		}
		transport.Proxy = proxyFuncWithBypass(buildProxyURL(pc), pc.NoProxy)
		return &nethttp.Client{
			Transport: ntlmssp.Negotiator{
				RoundTripper: transport,
			},
			Timeout: constants.HTTPRequestTimeout,
		}, nil

	case "basic":
		if pc.Host == "" {
			log.Warn().Msg("Proxy mode is basic but host is missing, falling back to no-proxy mode")
			transport.Proxy = nil
			break
		}
		if pc.User != "" && pc.Password == "" {
			log.Warn().Msg("Proxy user configured but password missing, proxy auth disabled until password is set")
		}
		transport.Proxy = proxyFuncWithBypass(buildProxyURL(pc), pc.NoProxy)

	default:
		return nil, fmt.Errorf("unsupported proxy mode: %s", pc.Mode)
	}

	return &nethttp.Client{
		Transport: transport,
		Timeout:   constants.HTTPRequestTimeout,
	}, nil
}

// buildProxyURL constructs a proxy URL from config.
func buildProxyURL(pc config.ProxyConfig) *url.URL {
	port := pc.Port
	if port == 0 {
		port = 8080
	}

	proxyURL := &url.URL{
		Scheme: "http",
		Host:   fmt.Sprintf("%s:%d", pc.Host, port),
	}

	// Only embed credentials if both user AND password are provided.
	// An empty password in the URL can fail auth with some proxies.
	if pc.User != "" && pc.Password != "" {
		proxyURL.User = url.UserPassword(pc.User, pc.Password)
	}

	return proxyURL
}

// proxyFuncWithBypass returns a proxy function that respects the
// NoProxy bypass list. With an empty list it behaves identically to
// nethttp.ProxyURL; otherwise golang.org/x/net/http/httpproxy matches
// hosts and CIDRs.
func proxyFuncWithBypass(proxyURL *url.URL, noProxy string) func(*nethttp.Request) (*url.URL, error) {
	if noProxy == "" {
		return nethttp.ProxyURL(proxyURL)
	}
	cfg := httpproxy.Config{
		HTTPProxy:  proxyURL.String(),
		HTTPSProxy: proxyURL.String(),
		NoProxy:    noProxy,
	}
	proxyFunc := cfg.ProxyFunc()
	return func(req *nethttp.Request) (*url.URL, error) {
		result, err := proxyFunc(req.URL)
		if result == nil {
			log.Debug().Str("host", req.URL.Host).Msg("Proxy bypass, direct connection")
		} else {
			log.Debug().Str("host", req.URL.Host).Str("proxy", result.Host).Msg("Proxied connection")
		}
		return result, err
	}
}

// NeedsProxyPassword returns true if the proxy configuration requires
// a password but one has not been provided. The CLI uses this to
// decide whether an interactive prompt is needed.
func NeedsProxyPassword(pc config.ProxyConfig) bool {
	mode := strings.ToLower(pc.Mode)
	if mode != "basic" && mode != "ntlm" {
		return false
	}
	return pc.User != "" && pc.Password == ""
}
