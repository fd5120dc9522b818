// Package transport downloads remote season files. Requests go through a
// circuit breaker so a failing host is not hammered for every season of a
// backfill.
package transport

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/andybalholm/brotli"
	"github.com/richard-senior/matchday/internal/logger"
	"github.com/richard-senior/matchday/pkg/config"
	"github.com/sony/gobreaker"
)

// ErrUnavailable is returned while the breaker is open
var ErrUnavailable = errors.New("remote host unavailable")

// StatusError reports a response other than 200 OK
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request to %s returned error status %d", e.URL, e.Status)
}

// Client fetches documents over HTTP
type Client struct {
	http      *http.Client
	userAgent string
	breaker   *gobreaker.CircuitBreaker
}

// loadCABundle appends the PEM bundle at path to the system pool
func loadCABundle(path string) *x509.CertPool {
	rootCAs, err := x509.SystemCertPool()
	if err != nil {
		logger.Warn("Failed to get system cert pool", err)
		rootCAs = x509.NewCertPool()
	}
	if path == "" {
		return rootCAs
	}
	pem, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Proceeding without CA bundle", err)
		return rootCAs
	}
	if ok := rootCAs.AppendCertsFromPEM(pem); !ok {
		logger.Warn("Failed to append CA bundle", path)
	} else {
		logger.Info("Added CA bundle to root CAs", path)
	}
	return rootCAs
}

// NewClient builds a client from the transport settings of cfg
func NewClient(cfg *config.Config) *Client {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			RootCAs: loadCABundle(cfg.CABundlePath),
		},
		Proxy: http.ProxyFromEnvironment,
	}
	failures := cfg.BreakerFailures
	settings := gobreaker.Settings{
		Name:    "football-data",
		Timeout: cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker", name, "changed from", from.String(), "to", to.String())
		},
		// a missing season is an answer, not a failing host
		IsSuccessful: func(err error) bool {
			var status *StatusError
			return err == nil || (errors.As(err, &status) && status.Status == http.StatusNotFound)
		},
	}
	return &Client{
		http: &http.Client{
			Transport: transport,
			Timeout:   cfg.HttpTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		breaker:   gobreaker.NewCircuitBreaker(settings),
	}
}

// Get returns the decoded body of url
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	body, err := c.breaker.Execute(func() (interface{}, error) {
		return c.get(ctx, url)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, url, err)
	}
	if err != nil {
		return nil, err
	}
	return body.([]byte), nil
}

// State reports the breaker state, used for logging and tests
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Add headers to make the request look more like a browser
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/csv,text/plain,text/html;q=0.9,*/*;q=0.8")
	req.Header.Set("Referer", "http://www.google.com/")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	req.Header.Set("Accept-Language", "en-GB,en;q=0.9")

	logger.Debug("Fetching", url)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: url, Status: resp.StatusCode}
	}

	reader, err := decode(resp)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	return data, nil
}

// decode wraps the body according to its Content-Encoding. Setting
// Accept-Encoding by hand turns off the transport's own gzip handling.
func decode(resp *http.Response) (io.ReadCloser, error) {
	contentEncoding := resp.Header.Get("Content-Encoding")
	switch contentEncoding {
	case "gzip":
		logger.Debug("Handling gzip compressed content")
		reader, err := NewGzipReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return reader, nil
	case "deflate":
		logger.Debug("Handling deflate compressed content")
		return NewDeflateReader(resp.Body)
	case "br":
		logger.Debug("Handling brotli compressed content")
		return NewBrotliReader(resp.Body)
	case "", "identity":
		return io.NopCloser(resp.Body), nil
	default:
		logger.Warn("Unknown content encoding:", contentEncoding)
		return io.NopCloser(resp.Body), nil
	}
}

// NewGzipReader creates a gzip reader from the provided io.ReadCloser
func NewGzipReader(r io.ReadCloser) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}

// NewDeflateReader creates a deflate reader from the provided io.ReadCloser
func NewDeflateReader(r io.ReadCloser) (io.ReadCloser, error) {
	return flate.NewReader(r), nil
}

// NewBrotliReader creates a brotli reader from the provided io.ReadCloser
func NewBrotliReader(r io.ReadCloser) (io.ReadCloser, error) {
	return io.NopCloser(brotli.NewReader(r)), nil
}
