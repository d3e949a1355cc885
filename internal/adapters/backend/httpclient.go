package backend

import (
	"net/http"
	"net/http/cookiejar"
	"time"

	"golang.org/x/net/publicsuffix"
)

// HTTPClientOptions configures NewHTTPClient.
type HTTPClientOptions struct {
	Timeout time.Duration
	// CookieJar keeps cookies the backend sets (Django csrftoken, load
	// balancer affinity). Only enable it for single-user callers such as
	// the admin CLI; the web server shares one client across sessions.
	CookieJar bool
}

// NewHTTPClient returns an http.Client suited to backend calls.
func NewHTTPClient(opts HTTPClientOptions) *http.Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 16
	transport.IdleConnTimeout = 90 * time.Second

	client := &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
	if opts.CookieJar {
		// cookiejar.New never returns a non-nil error.
		jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		client.Jar = jar
	}
	return client
}
