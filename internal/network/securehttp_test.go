package network

import (
	"crypto/tls"
	"net/http"
	"testing"
)

func TestNewSecureHTTPClient(t *testing.T) {
	client := NewSecureHTTPClient()

	transport, ok := client.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("transport is %T, want *http.Transport", client.Transport)
	}
	if transport.TLSClientConfig.MinVersion != tls.VersionTLS12 {
		t.Errorf("MinVersion = %x, want TLS 1.2", transport.TLSClientConfig.MinVersion)
	}
	if client.Timeout != 0 {
		t.Errorf("Timeout = %v, want none", client.Timeout)
	}

	via := make([]*http.Request, maxRedirects)
	if err := client.CheckRedirect(nil, via); err == nil {
		t.Error("expected redirect limit error")
	}
	if err := client.CheckRedirect(nil, via[:1]); err != nil {
		t.Errorf("unexpected redirect error: %v", err)
	}
}
