// Package httpclient builds the tuned HTTP client shared by all workers.
package httpclient

import (
	"net"
	"net/http"
	"time"
)

// NewClient returns an HTTP client with a transport sized for sustained
// load generation. maxPerHost bounds idle connections kept per host; it
// should track the run's concurrency limit so the pool is reused rather
// than churned.
func NewClient(timeout time.Duration, maxPerHost int) *http.Client {
	if timeout < 0 {
		timeout = 0
	}
	if maxPerHost < 1 {
		maxPerHost = 1
	}

	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          256,
		MaxIdleConnsPerHost:   maxPerHost,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
