package bondsports

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/jaws696969/hockey-ics/internal/domain/schedule"
	"github.com/jaws696969/hockey-ics/internal/platform/logging"
	"github.com/jaws696969/hockey-ics/internal/platform/resilience"
	"github.com/jaws696969/hockey-ics/internal/usecase"
)

const maxResponseBytes = 6 << 20

var errBondTransient = crerr.New("bondsports transient failure")

type ClientConfig struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	MaxRetries int
	Logger     *logging.Logger
}

// Client fetches game-scores payloads from the Bond Sports API. Concurrent
// fetches of the same URL are collapsed into a single upstream request, so
// teams in the same division share one download per run.
type Client struct {
	httpClient *http.Client
	maxRetries int
	logger     *logging.Logger
	flight     resilience.SingleFlight[[]byte]
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 30 * time.Second
	}

	return &Client{
		httpClient: httpClient,
		maxRetries: max(cfg.MaxRetries, 0),
		logger:     logger,
	}
}

// FetchGames retrieves one team's game-scores document and parses it into
// validated records.
func (c *Client) FetchGames(ctx context.Context, apiURL string) ([]schedule.GameRecord, error) {
	payload, err := c.FetchGameScores(ctx, apiURL)
	if err != nil {
		return nil, err
	}

	games, err := ParseGameScores(payload)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("parsed game-scores payload", "url", apiURL, "games", len(games))

	return games, nil
}

// FetchGameScores retrieves the raw game-scores document for one API URL and
// decodes it into a generic JSON tree for ParseGameScores.
func (c *Client) FetchGameScores(ctx context.Context, apiURL string) (any, error) {
	raw, err, shared := c.flight.Do(apiURL, func() ([]byte, error) {
		return c.executeRequest(ctx, apiURL)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug("reused in-flight fetch", "url", apiURL)
	}

	var payload any
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return nil, crerr.Wrap(usecase.ErrFetchFailed, fmt.Sprintf("decode upstream payload: %v", err))
	}

	return payload, nil
}

func (c *Client) executeRequest(ctx context.Context, apiURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			return nil, crerr.Wrapf(usecase.ErrFetchFailed, "build request: %v", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errBondTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errBondTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: upstream status=%d body=%s", errBondTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, crerr.Wrapf(usecase.ErrFetchFailed, "upstream status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = crerr.New("upstream request failed")
	}
	c.logger.Warn("bondsports request failed", "url", apiURL, "error", lastErr)
	return nil, crerr.Wrapf(usecase.ErrFetchFailed, "%v", lastErr)
}

func isRetryableStatus(status int) bool {
	if status == http.StatusTooManyRequests {
		return true
	}
	return status >= 500 && status != http.StatusNotImplemented
}

func abbreviateBody(raw []byte) string {
	body := strings.TrimSpace(string(raw))
	if len(body) > 256 {
		return body[:256] + "..."
	}
	return body
}
