package ogs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sgftools/ogs-archiver/internal/config"
	"github.com/sgftools/ogs-archiver/internal/repository/model"
	"go.uber.org/zap"
)

// StatusError reports a non-2xx response from the OGS API.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ogs api returned status %d for %s", e.Code, e.URL)
}

// Client talks to the OGS REST API. It is stateless per call apart from the
// request throttle, and is not safe for concurrent use (fetching is
// sequential by design).
type Client struct {
	logger *zap.SugaredLogger

	baseURL  string
	http     *http.Client
	pageSize int

	interval       time.Duration
	rateLimitDelay time.Duration
	lastCall       time.Time
}

func NewClient(cfg *config.Config, logger *zap.SugaredLogger) *Client {
	return &Client{
		logger:   logger,
		baseURL:  strings.TrimRight(cfg.API.URL, "/"),
		http:     &http.Client{Timeout: cfg.Fetch.Timeout},
		pageSize: cfg.Fetch.PageSize,

		interval:       cfg.Throttle.Interval,
		rateLimitDelay: cfg.Throttle.RateLimitDelay,
	}
}

// gamesPage is one page of the paginated player games listing.
type gamesPage struct {
	Next    string    `json:"next"`
	Results []apiGame `json:"results"`
}

type apiGame struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Players struct {
		White apiPlayer `json:"white"`
		Black apiPlayer `json:"black"`
	} `json:"players"`
	HistoricalRatings struct {
		White apiRatings `json:"white"`
		Black apiRatings `json:"black"`
	} `json:"historical_ratings"`
}

type apiPlayer struct {
	Username string  `json:"username"`
	Ranking  float64 `json:"ranking"`
}

type apiRatings struct {
	Ratings struct {
		Overall struct {
			Rating float64 `json:"rating"`
		} `json:"overall"`
	} `json:"ratings"`
}

func (g apiGame) summary() model.GameSummary {
	s := model.GameSummary{
		ID:   g.ID,
		Name: model.SanitizeName(g.Name),
		White: model.Player{
			Name: model.SanitizeName(g.Players.White.Username),
			Rank: g.Players.White.Ranking,
		},
		Black: model.Player{
			Name: model.SanitizeName(g.Players.Black.Username),
			Rank: g.Players.Black.Ranking,
		},
	}

	// The per-game historical rating is more accurate than the player's
	// current ranking, when the API includes it.
	if r := g.HistoricalRatings.White.Ratings.Overall.Rating; r != 0 {
		s.White.Rank = r
	}
	if r := g.HistoricalRatings.Black.Ratings.Overall.Rating; r != 0 {
		s.Black.Rank = r
	}

	return s
}

// ListGames returns every finished game for a player, newest first, following
// the listing's pagination to the end.
func (c *Client) ListGames(ctx context.Context, userID int64) ([]model.GameSummary, error) {
	query := url.Values{
		"page_size":     {strconv.Itoa(c.pageSize)},
		"source":        {"play"},
		"ended__isnull": {"false"},
		"ordering":      {"-ended"},
	}
	next := fmt.Sprintf("%s/players/%d/games?%s", c.baseURL, userID, query.Encode())

	var games []model.GameSummary
	for next != "" {
		resp, err := c.get(ctx, next)
		if err != nil {
			return nil, err
		}

		var page gamesPage
		err = json.NewDecoder(resp.Body).Decode(&page)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to decode games page: %w", err)
		}

		for _, g := range page.Results {
			games = append(games, g.summary())
		}
		next = page.Next
	}

	return games, nil
}

// FetchSGF downloads the raw SGF record of a game.
func (c *Client) FetchSGF(ctx context.Context, gameID int64) ([]byte, error) {
	resp, err := c.get(ctx, fmt.Sprintf("%s/games/%d/sgf/", c.baseURL, gameID))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read sgf body: %w", err)
	}

	return data, nil
}

// get issues a throttled GET. On HTTP 429 it sleeps and retries, doubling the
// delay for each consecutive rate limit.
func (c *Client) get(ctx context.Context, requestURL string) (*http.Response, error) {
	delay := c.rateLimitDelay
	for {
		if err := c.waitInterval(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		c.lastCall = time.Now()
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			c.logger.Warnw("rate limited by OGS, backing off", "delay", delay)
			if err := sleep(ctx, delay); err != nil {
				return nil, err
			}
			delay *= 2
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			resp.Body.Close()
			return nil, &StatusError{Code: resp.StatusCode, URL: requestURL}
		}

		return resp, nil
	}
}

func (c *Client) waitInterval(ctx context.Context) error {
	if c.interval <= 0 || c.lastCall.IsZero() {
		return nil
	}
	if wait := c.interval - time.Since(c.lastCall); wait > 0 {
		return sleep(ctx, wait)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
