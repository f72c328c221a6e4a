// Package qstash registers the daily suggestion trigger with Upstash
// QStash, so the assistant gets poked on a cron without running its own
// scheduler.
package qstash

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Config struct {
	URL     string        `split_words:"true" default:"https://qstash.upstash.io"`
	Token   string        `split_words:"true"`
	Timeout time.Duration `split_words:"true" default:"10s"`
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.URL)
	if baseURL == "" {
		return nil, errors.New("qstash url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, err
	}

	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("qstash token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func MustNew(cfg Config) *Client {
	client, err := NewClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

type Schedule struct {
	ID          string `json:"scheduleId"`
	Destination string `json:"destination"`
	Cron        string `json:"cron"`
}

// EnsureSchedule makes sure one schedule exists that GETs destination on
// the given cron. An existing schedule with the same destination and
// cron is reused, so repeated boots do not pile up duplicates.
func (c *Client) EnsureSchedule(ctx context.Context, destination, cron string) (Schedule, error) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return Schedule{}, errors.New("schedule destination is required")
	}
	cron = strings.TrimSpace(cron)
	if cron == "" {
		return Schedule{}, errors.New("schedule cron is required")
	}

	existing, err := c.listSchedules(ctx)
	if err != nil {
		return Schedule{}, err
	}
	for _, s := range existing {
		if s.Destination == destination && s.Cron == cron {
			return s, nil
		}
	}

	return c.createSchedule(ctx, destination, cron)
}

func (c *Client) listSchedules(ctx context.Context) ([]Schedule, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/schedules", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, httpError("list schedules", resp)
	}

	var schedules []Schedule
	if err := json.NewDecoder(resp.Body).Decode(&schedules); err != nil {
		return nil, fmt.Errorf("decode schedules: %w", err)
	}
	return schedules, nil
}

func (c *Client) createSchedule(ctx context.Context, destination, cron string) (Schedule, error) {
	endpoint := c.baseURL + "/v2/schedules/" + url.PathEscape(destination)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return Schedule{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Upstash-Cron", cron)
	req.Header.Set("Upstash-Method", http.MethodGet)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Schedule{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return Schedule{}, httpError("create schedule", resp)
	}

	var created Schedule
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return Schedule{}, fmt.Errorf("decode created schedule: %w", err)
	}
	created.Destination = destination
	created.Cron = cron
	return created, nil
}

func httpError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%s: qstash responded %d: %s", op, resp.StatusCode, strings.TrimSpace(string(body)))
}
