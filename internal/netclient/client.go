package netclient

import (
	"crypto/tls"
	"net/http"
	"time"

	"golang.org/x/net/http2"
)

const DefaultTimeout = 5 * time.Second

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configure the HTTP client used to probe activation targets.
type Options struct {
	Timeout     time.Duration
	EnableHTTP2 bool
	VerifySSL   bool
}

func New(opts Options) (*http.Client, *http.Transport) {
	tr := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
	}
	if !opts.VerifySSL {
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	if opts.EnableHTTP2 {
		_ = http2.ConfigureTransport(tr)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	cli := &http.Client{
		Transport: tr,
		Timeout:   timeout,
	}
	return cli, tr
}
