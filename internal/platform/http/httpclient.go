package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient creates the HTTP client used for calls to the vision endpoint.
//
// Settings:
//   - Proxy: honours HTTP_PROXY / HTTPS_PROXY
//   - Dialer.Timeout / TLSHandshakeTimeout: bound connection setup only
//   - MaxIdleConns / IdleConnTimeout: keep a small pool of reusable connections
//   - Client.Timeout: whole-request limit; 0 leaves requests unbounded, which is the
//     default because image uploads to the model can take a long time
//
// Note:
//   - the response itself is not bounded by the transport; callers cancel via context
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        20,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
