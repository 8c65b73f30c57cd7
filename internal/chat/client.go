package chat

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/wichananm65/menu-assistant/internal/catalog"
)

const (
	DefaultPollInterval = 10 * time.Second
	DefaultMaxAttempts  = 24
	DefaultSearchEngine = "vector"

	statusProcessing = "processing"
)

// ErrPollExhausted means the endpoint was still processing after the last
// allowed attempt.
var ErrPollExhausted = errors.New("recommendation still processing after max attempts")

// Reply is the terminal payload of the recommendation endpoint.
type Reply struct {
	Status       string             `json:"status,omitempty"`
	ChatID       string             `json:"chat_id,omitempty"`
	ResponseText string             `json:"response_text,omitempty"`
	Items        []catalog.MenuItem `json:"returned_items,omitempty"`
}

type ClientConfig struct {
	BaseURL        string
	SearchEngine   string
	PollInterval   time.Duration
	MaxAttempts    int
	RequestTimeout time.Duration
}

// Client talks to the recommendation endpoint, polling while it reports
// "processing".
type Client struct {
	baseURL      string
	searchEngine string
	interval     time.Duration
	maxAttempts  int
	http         *http.Client
	log          logrus.FieldLogger
}

func NewClient(cfg ClientConfig, log logrus.FieldLogger) *Client {
	c := &Client{
		baseURL:      cfg.BaseURL,
		searchEngine: cfg.SearchEngine,
		interval:     cfg.PollInterval,
		maxAttempts:  cfg.MaxAttempts,
		http:         &http.Client{Timeout: cfg.RequestTimeout},
		log:          log,
	}
	if c.searchEngine == "" {
		c.searchEngine = DefaultSearchEngine
	}
	if c.interval <= 0 {
		c.interval = DefaultPollInterval
	}
	if c.maxAttempts <= 0 {
		c.maxAttempts = DefaultMaxAttempts
	}
	if cfg.RequestTimeout <= 0 {
		c.http.Timeout = 30 * time.Second
	}
	return c
}

// Ask sends the query and polls until a terminal reply, the attempt cap or
// ctx cancellation. chatID may be empty for the first query of a session.
// The returned Reply carries the session id in use, including one learned
// from a processing reply, even when an error is returned.
func (c *Client) Ask(ctx context.Context, query, chatID string) (Reply, error) {
	endpoint, err := c.endpoint(query, chatID)
	if err != nil {
		return Reply{}, err
	}

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		reply, err := c.fetch(ctx, endpoint)
		if err != nil {
			return Reply{ChatID: chatID}, err
		}
		if reply.Status != statusProcessing {
			if reply.ChatID == "" {
				reply.ChatID = chatID
			}
			return reply, nil
		}
		if reply.ChatID != "" && chatID == "" {
			// keep the session id the backend handed out while still working
			chatID = reply.ChatID
			if endpoint, err = c.endpoint(query, chatID); err != nil {
				return Reply{}, err
			}
		}
		c.log.WithFields(logrus.Fields{"attempt": attempt, "max": c.maxAttempts}).Debug("recommendation still processing")
		if attempt == c.maxAttempts {
			break
		}

		t := time.NewTimer(c.interval)
		select {
		case <-ctx.Done():
			t.Stop()
			return Reply{ChatID: chatID}, ctx.Err()
		case <-t.C:
		}
	}
	return Reply{ChatID: chatID}, ErrPollExhausted
}

func (c *Client) endpoint(query, chatID string) (string, error) {
	u, err := url.Parse(c.baseURL + "/chat/")
	if err != nil {
		return "", errors.Wrap(err, "parse chat base url")
	}
	q := url.Values{}
	q.Set("query", query)
	q.Set("search_engine", c.searchEngine)
	if chatID != "" {
		q.Set("chat_id", chatID)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) fetch(ctx context.Context, endpoint string) (Reply, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Reply{}, errors.Wrap(err, "build chat request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Reply{}, errors.Wrap(err, "call chat endpoint")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Reply{}, errors.Wrap(err, "read chat response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Reply{}, errors.Errorf("chat endpoint returned %d: %s", resp.StatusCode, truncateBytes(raw, 200))
	}

	var reply Reply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return Reply{}, errors.Wrap(err, "decode chat response")
	}
	return reply, nil
}

func truncateBytes(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n])
}
