package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"bindery/internal/config"
)

// ErrStatus marks responses with a non-success HTTP status.
var ErrStatus = errors.New("unexpected http status")

// Client fetches URLs with bounded retries and exponential backoff.
type Client struct {
	httpClient *http.Client
	userAgent  string
	maxRetries int
	delay      time.Duration
}

// NewClient builds a client from the process fetch policy.
func NewClient(policy config.Fetch) *Client {
	timeout := time.Duration(policy.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	delay := time.Duration(policy.DelaySeconds) * time.Second
	if delay <= 0 {
		delay = time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  policy.UserAgent,
		maxRetries: policy.MaxRetries,
		delay:      delay,
	}
}

// Get retrieves url, retrying transient failures. Retries back off as
// delay, 2*delay, 4*delay and so on. A non-2xx status counts as a failure.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := c.delay << (attempt - 1)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}
		data, err := c.getOnce(ctx, url)
		if err == nil {
			return data, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("fetch %s after %d attempts: %w", url, c.maxRetries+1, lastErr)
}

func (c *Client) getOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %s (%s)", ErrStatus, resp.Status, url)
	}
	return io.ReadAll(resp.Body)
}

// SaveTo downloads url into dest. The body lands in a temporary sibling
// file first and is renamed into place, so dest never holds a truncated
// download.
func (c *Client) SaveTo(ctx context.Context, url, dest string) error {
	data, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", dest, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
