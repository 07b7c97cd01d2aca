package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/envsync/internal/constants"
	"github.com/julianstephens/envsync/internal/models"
)

// DefaultBaseURL is the Seniverse v3 API root.
const DefaultBaseURL = "https://api.seniverse.com/v3"

var (
	// ErrNoAPIKey is returned when no API key is configured
	ErrNoAPIKey = errors.New("no weather API key configured")
	// ErrMalformedResponse is returned when the provider answers with an unusable body
	ErrMalformedResponse = errors.New("malformed weather response")
)

// Client fetches current weather and sun times from the Seniverse API.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	// Now stamps fetched snapshots; defaults to time.Now.
	Now func() time.Time
}

// NewClient creates a client for the given API key.
func NewClient(apiKey string) *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		APIKey:     apiKey,
		HTTPClient: &http.Client{},
		Now:        time.Now,
	}
}

type nowResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Now struct {
			Text        string `json:"text"`
			Code        string `json:"code"`
			Temperature string `json:"temperature"`
		} `json:"now"`
	} `json:"results"`
}

type sunResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Sun []models.SunTimes `json:"sun"`
	} `json:"results"`
}

// FetchNow retrieves the current weather for location.
func (c *Client) FetchNow(ctx context.Context, location string) (models.WeatherSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.WeatherTimeout)
	defer cancel()

	q := url.Values{}
	q.Set("location", location)
	q.Set("language", "en")
	q.Set("unit", "c")

	var body nowResponse
	if err := c.get(ctx, "/weather/now.json", q, &body); err != nil {
		return models.WeatherSnapshot{}, err
	}
	if len(body.Results) == 0 {
		if body.Status != "" {
			return models.WeatherSnapshot{}, fmt.Errorf("%w: %s", ErrMalformedResponse, body.Status)
		}
		return models.WeatherSnapshot{}, fmt.Errorf("%w: no results", ErrMalformedResponse)
	}

	now := body.Results[0].Now
	if strings.TrimSpace(now.Text) == "" {
		return models.WeatherSnapshot{}, fmt.Errorf("%w: empty weather text", ErrMalformedResponse)
	}
	code, err := strconv.Atoi(now.Code)
	if err != nil {
		return models.WeatherSnapshot{}, fmt.Errorf("%w: code %q", ErrMalformedResponse, now.Code)
	}
	temp, err := strconv.Atoi(now.Temperature)
	if err != nil {
		return models.WeatherSnapshot{}, fmt.Errorf("%w: temperature %q", ErrMalformedResponse, now.Temperature)
	}

	return models.WeatherSnapshot{
		Code:               code,
		Text:               now.Text,
		TemperatureCelsius: temp,
		Condition:          ConditionForCode(code),
		FetchedAt:          c.now(),
	}, nil
}

// FetchSun retrieves today's sunrise and sunset for location.
func (c *Client) FetchSun(ctx context.Context, location string) (models.SunTimes, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.SunTimeout)
	defer cancel()

	q := url.Values{}
	q.Set("location", location)
	q.Set("language", "en")
	q.Set("start", "0")
	q.Set("days", "1")

	var body sunResponse
	if err := c.get(ctx, "/geo/sun.json", q, &body); err != nil {
		return models.SunTimes{}, err
	}
	if len(body.Results) == 0 || len(body.Results[0].Sun) == 0 {
		return models.SunTimes{}, fmt.Errorf("%w: no sun data", ErrMalformedResponse)
	}
	sun := body.Results[0].Sun[0]
	if sun.Sunrise == "" || sun.Sunset == "" {
		return models.SunTimes{}, fmt.Errorf("%w: empty sunrise or sunset", ErrMalformedResponse)
	}
	return sun, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out interface{}) error {
	if c.APIKey == "" {
		return ErrNoAPIKey
	}
	q.Set("key", c.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(c.BaseURL, "/")+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("weather request failed: %w", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("reading weather response: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("weather request failed with status %d: %s", res.StatusCode, strings.TrimSpace(string(data)))
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func (c *Client) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
