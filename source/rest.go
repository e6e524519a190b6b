package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"worktime/activity"
)

// RESTSource reads PocketBase style collections:
// GET /api/collections/<name>/records?filter=...
type RESTSource struct {
	baseURL           string
	authToken         string
	httpClient        *http.Client
	loc               *time.Location
	logger            *slog.Logger
	workersCollection string
	historyCollection string
	perPage           int
}

// NewRESTSource reads timestamps without a zone in loc.
func NewRESTSource(baseURL, authToken string, loc *time.Location, logger *slog.Logger) *RESTSource {
	return &RESTSource{
		baseURL:           strings.TrimRight(baseURL, "/"),
		authToken:         authToken,
		httpClient:        &http.Client{Timeout: 10 * time.Second},
		loc:               loc,
		logger:            logger,
		workersCollection: "workers",
		historyCollection: "activity_history",
		perPage:           500,
	}
}

func (s *RESTSource) Workers(ctx context.Context) ([]WorkerResult, error) {
	items, err := s.list(ctx, "list workers", s.workersCollection, url.Values{})
	if err != nil {
		return nil, err
	}
	return decodeWorkerItems(items, s.loc), nil
}

func (s *RESTSource) History(ctx context.Context, workerID string, from activity.Date) ([]DayResult, error) {
	q := url.Values{}
	q.Set("filter", fmt.Sprintf("worker_id='%s' && date>='%s'", escapeFilter(workerID), from))
	q.Set("sort", "date")
	items, err := s.list(ctx, "list history", s.historyCollection, q)
	if err != nil {
		return nil, err
	}
	return decodeDayItems(items, s.loc), nil
}

// list follows totalPages until every page of collection is read. A bare
// array response is a single page.
func (s *RESTSource) list(ctx context.Context, op, collection string, q url.Values) ([]gjson.Result, error) {
	q.Set("perPage", strconv.Itoa(s.perPage))

	var items []gjson.Result
	var totalItems int64
	for page := 1; ; page++ {
		q.Set("page", strconv.Itoa(page))
		body, err := s.get(ctx, op, collection, q)
		if err != nil {
			return nil, err
		}
		batch, err := listItems(body)
		if err != nil {
			return nil, err
		}
		items = append(items, batch...)

		totalItems = gjson.GetBytes(body, "totalItems").Int()
		if len(batch) == 0 || int64(page) >= gjson.GetBytes(body, "totalPages").Int() {
			break
		}
	}
	if totalItems > int64(len(items)) {
		s.logger.Warn("incomplete listing", slog.String("op", op), slog.Int64("total", totalItems), slog.Int("read", len(items)))
	}
	return items, nil
}

func (s *RESTSource) get(ctx context.Context, op, collection string, q url.Values) ([]byte, error) {
	apiURL := fmt.Sprintf("%s/api/collections/%s/records?%s", s.baseURL, collection, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, &FetchError{Op: op, Err: err}
	}
	if s.authToken != "" {
		req.Header.Set("Authorization", s.authToken)
	}

	s.logger.Debug("fetch", slog.String("op", op), slog.String("url", apiURL))
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Op: op, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("fetch failed", slog.String("op", op), slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return nil, &FetchError{Op: op, StatusCode: resp.StatusCode}
	}
	return body, nil
}

func escapeFilter(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}
