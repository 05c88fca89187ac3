// Package network builds the HTTP clients used to talk to GitHub and to
// download release artifacts.
package network

import (
	"crypto/tls"
	"fmt"
	"net/http"
)

// maxRedirects bounds redirect chains; release downloads redirect once
// or twice to object storage.
const maxRedirects = 10

// NewSecureHTTPClient returns an http.Client restricted to TLS 1.2 and 1.3.
// The client has no overall timeout; a hung download blocks the run.
func NewSecureHTTPClient() *http.Client {
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
		MaxVersion: tls.VersionTLS13,
	}

	transport := &http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		TLSClientConfig:   tlsConfig,
		ForceAttemptHTTP2: true,
	}

	return &http.Client{
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}
}
