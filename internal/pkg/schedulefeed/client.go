package schedulefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/tutorlane/timecard-backend-go/internal/domain/schedule"
	"golang.org/x/oauth2/clientcredentials"
)

// Client talks to the external scheduling system that is the source of truth
// for tutoring schedules. Every call is bounded by the configured timeout;
// callers are expected to treat failures as "snapshot unavailable" and
// degrade, never to block a clock-out on this service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

type Config struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

func NewClient(cfg Config) *Client {
	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	httpClient := cc.Client(context.Background())
	httpClient.Timeout = timeout

	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
		timeout:    timeout,
	}
}

type snapshotPayload struct {
	Intervals []struct {
		StartAt time.Time `json:"start_at"`
		EndAt   time.Time `json:"end_at"`
	} `json:"intervals"`
}

// FetchSnapshot implements schedule.SnapshotFetcher.
func (c *Client) FetchSnapshot(ctx context.Context, tutorID string, workDate time.Time) (schedule.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/v1/tutors/%s/schedule?date=%s",
		c.baseURL, url.PathEscape(tutorID), workDate.Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return schedule.Snapshot{}, fmt.Errorf("build schedule request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return schedule.Snapshot{}, fmt.Errorf("fetch schedule snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return schedule.Snapshot{}, fmt.Errorf("fetch schedule snapshot: unexpected status %d", resp.StatusCode)
	}

	var payload snapshotPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return schedule.Snapshot{}, fmt.Errorf("decode schedule snapshot: %w", err)
	}

	snapshot := schedule.Snapshot{}
	for _, iv := range payload.Intervals {
		snapshot.Intervals = append(snapshot.Intervals, schedule.Interval{
			StartAt: iv.StartAt.UTC(),
			EndAt:   iv.EndAt.UTC(),
		})
	}

	if err := snapshot.Validate(); err != nil {
		return schedule.Snapshot{}, fmt.Errorf("malformed schedule snapshot: %w", err)
	}

	return snapshot, nil
}
