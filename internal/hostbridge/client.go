package hostbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/julianstephens/envsync/internal/actuator"
	"github.com/julianstephens/envsync/internal/constants"
	"github.com/julianstephens/envsync/internal/logger"
	"github.com/julianstephens/envsync/internal/models"
)

type slotState struct {
	Active bool `json:"active"`
}

type eventsResponse struct {
	Events []struct {
		Seq  int64  `json:"seq"`
		Slot string `json:"slot"`
	} `json:"events"`
	Next int64 `json:"next"`
}

// Client is an actuator backed by the host bridge.
type Client struct {
	baseURL string
	secret  string
	http    *http.Client

	mu        sync.Mutex
	onUser    []func(models.Slot)
	cursor    int64
	now       func() time.Time
	downUntil time.Time
}

var (
	_ actuator.Actuator         = (*Client)(nil)
	_ actuator.UserToggleSource = (*Client)(nil)
)

func NewClient(ep Endpoint) *Client {
	return newClient(ep.BaseURL(), ep.Secret)
}

func newClient(baseURL, secret string) *Client {
	return &Client{
		baseURL: baseURL,
		secret:  secret,
		http:    &http.Client{Timeout: constants.HostRequestTimeout},
		now:     time.Now,
	}
}

// Ping checks that the bridge answers and accepts the secret.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil)
}

// ReadState implements actuator.Actuator.
func (c *Client) ReadState(slot models.Slot) (bool, error) {
	if err := c.available(); err != nil {
		return false, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), constants.HostReadTimeout)
	defer cancel()

	var st slotState
	if err := c.do(ctx, http.MethodGet, "/slots/"+url.PathEscape(string(slot)), &st); err != nil {
		return false, err
	}
	return st.Active, nil
}

// Toggle implements actuator.Actuator. The host acknowledges before the toggle lands.
func (c *Client) Toggle(slot models.Slot) error {
	if err := c.available(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), constants.HostRequestTimeout)
	defer cancel()
	return c.do(ctx, http.MethodPost, "/slots/"+url.PathEscape(string(slot))+"/toggle", nil)
}

// OnUserToggle implements actuator.UserToggleSource. Handlers run on the polling goroutine.
func (c *Client) OnUserToggle(fn func(models.Slot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUser = append(c.onUser, fn)
}

// PollUserToggles fetches user toggle events until ctx is done.
func (c *Client) PollUserToggles(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.pollOnce(ctx); err != nil {
				logger.Debug("Polling user toggles failed", "error", err)
			}
		}
	}
}

func (c *Client) pollOnce(ctx context.Context) error {
	c.mu.Lock()
	since := c.cursor
	c.mu.Unlock()

	var resp eventsResponse
	if err := c.do(ctx, http.MethodGet, "/events?since="+strconv.FormatInt(since, 10), &resp); err != nil {
		return err
	}

	c.mu.Lock()
	if resp.Next > c.cursor {
		c.cursor = resp.Next
	}
	handlers := append([]func(models.Slot){}, c.onUser...)
	c.mu.Unlock()

	for _, ev := range resp.Events {
		slot, err := models.ParseSlot(ev.Slot)
		if err != nil {
			logger.Warn("Host reported unknown slot", "slot", ev.Slot)
			continue
		}
		for _, fn := range handlers {
			fn(slot)
		}
	}
	return nil
}

// available fails fast while a recent transport error keeps the host marked down.
func (c *Client) available() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.now().Before(c.downUntil) {
		return fmt.Errorf("%w: backing off until %s", ErrHostNotRunning, c.downUntil.Format(time.TimeOnly))
	}
	return nil
}

func (c *Client) setDown(down bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if down {
		c.downUntil = c.now().Add(constants.HostBackoff)
	} else {
		c.downUntil = time.Time{}
	}
}

func (c *Client) do(ctx context.Context, method, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set(constants.HostSecretHeader, c.secret)
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		c.setDown(true)
		return fmt.Errorf("%w: %v", ErrHostNotRunning, err)
	}
	c.setDown(false)
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", actuator.ErrUnknownSlot, path)
	case res.StatusCode < 200 || res.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("host request %s %s failed with status %d: %s", method, path, res.StatusCode, string(body))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding host response: %w", err)
	}
	return nil
}
