// Package serpapi queries Google Trends through SerpAPI and renders the
// result as a labeled text summary.
package serpapi

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/cognicore/trendscout/pkg/trendscout/internalerr"
	"github.com/cognicore/trendscout/pkg/trendscout/segment"
)

// Defaults for the trends client
const (
	DefaultBaseURL       = "https://serpapi.com"
	DefaultTimeout       = 10 * time.Second
	DefaultDate          = "today 12-m"
	DefaultRatePerSecond = 1.0
	DefaultCacheTTL      = 30 * time.Minute
)

// NoResult is returned as the summary when the API has no interest data.
const NoResult = "No good Trend Result was found"

// Options configures a Client
type Options struct {
	APIKey        string
	BaseURL       string
	Timeout       time.Duration
	Date          string
	RatePerSecond float64
	CacheTTL      time.Duration
}

// Client calls the SerpAPI google_trends engine
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	cache   *gocache.Cache
	date    string
	apiKey  string
}

// New creates a client. An empty API key is a configuration error.
func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("serpapi: missing API key: %w", internalerr.ErrInvalidConfig)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Date == "" {
		opts.Date = DefaultDate
	}
	if opts.RatePerSecond <= 0 {
		opts.RatePerSecond = DefaultRatePerSecond
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimRight(opts.BaseURL, "/"))
	client.SetTimeout(opts.Timeout)
	client.SetHeader("Accept", "application/json")

	return &Client{
		http:    client,
		limiter: rate.NewLimiter(rate.Limit(opts.RatePerSecond), 1),
		cache:   gocache.New(opts.CacheTTL, 10*time.Minute),
		date:    opts.Date,
		apiKey:  opts.APIKey,
	}, nil
}

// Result is the parsed trends data for one keyword
type Result struct {
	Query    string
	DateFrom string
	DateTo   string
	Values   []float64
	Rising   []string
	Top      []string
}

// Query returns the text summary for keyword, including the
// "Rising Related Queries:" and "Top Related Queries:" sections.
func (c *Client) Query(ctx context.Context, keyword string) (string, error) {
	res, err := c.Fetch(ctx, keyword)
	if err != nil {
		return "", err
	}
	return res.String(), nil
}

// Fetch performs the interest-over-time and related-queries calls. Results
// are memoized per keyword for the lifetime of the client.
func (c *Client) Fetch(ctx context.Context, keyword string) (*Result, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, fmt.Errorf("serpapi: empty keyword: %w", internalerr.ErrInvalidInput)
	}

	key := strings.ToLower(keyword)
	if cached, ok := c.cache.Get(key); ok {
		return cached.(*Result), nil
	}

	var series timeseriesResponse
	if err := c.search(ctx, keyword, "TIMESERIES", &series); err != nil {
		return nil, err
	}
	res := &Result{Query: keyword}
	timeline := series.InterestOverTime.TimelineData
	if len(timeline) == 0 {
		c.cache.SetDefault(key, res)
		return res, nil
	}
	res.DateFrom = timeline[0].Date
	res.DateTo = timeline[len(timeline)-1].Date
	for _, point := range timeline {
		if len(point.Values) > 0 {
			res.Values = append(res.Values, point.Values[0].ExtractedValue)
		}
	}

	var related relatedResponse
	if err := c.search(ctx, keyword, "RELATED_QUERIES", &related); err != nil {
		return nil, err
	}
	for _, q := range related.RelatedQueries.Rising {
		res.Rising = append(res.Rising, q.Query)
	}
	for _, q := range related.RelatedQueries.Top {
		res.Top = append(res.Top, q.Query)
	}

	c.cache.SetDefault(key, res)
	return res, nil
}

type timeseriesResponse struct {
	InterestOverTime struct {
		TimelineData []struct {
			Date   string `json:"date"`
			Values []struct {
				Query          string  `json:"query"`
				ExtractedValue float64 `json:"extracted_value"`
			} `json:"values"`
		} `json:"timeline_data"`
	} `json:"interest_over_time"`
}

type relatedQuery struct {
	Query string `json:"query"`
	Value string `json:"value"`
}

type relatedResponse struct {
	RelatedQueries struct {
		Rising []relatedQuery `json:"rising"`
		Top    []relatedQuery `json:"top"`
	} `json:"related_queries"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *Client) search(ctx context.Context, keyword, dataType string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("serpapi %s: %w: %w", dataType, internalerr.ErrFetch, err)
	}

	var apiErr errorResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"engine":    "google_trends",
			"q":         keyword,
			"data_type": dataType,
			"date":      c.date,
			"api_key":   c.apiKey,
		}).
		SetResult(out).
		SetError(&apiErr).
		Get("/search.json")
	if err != nil {
		return fmt.Errorf("serpapi %s: %w: %w", dataType, internalerr.ErrFetch, err)
	}
	if resp.IsError() {
		msg := apiErr.Error
		if msg == "" {
			msg = resp.Status()
		}
		return fmt.Errorf("serpapi %s: %s: %w", dataType, msg, internalerr.ErrFetch)
	}
	return nil
}

// String renders the summary consumed by segment.Segment.
func (r *Result) String() string {
	if len(r.Values) == 0 {
		return NoResult
	}

	minV, maxV, sum := r.Values[0], r.Values[0], 0.0
	for _, v := range r.Values {
		minV = min(minV, v)
		maxV = max(maxV, v)
		sum += v
	}
	avg := sum / float64(len(r.Values))
	first := r.Values[0]
	if first == 0 {
		first = 1
	}
	change := (r.Values[len(r.Values)-1] - r.Values[0]) / first * 100

	values := make([]string, len(r.Values))
	for i, v := range r.Values {
		values[i] = formatFloat(v)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Query: %s\n", r.Query)
	fmt.Fprintf(&b, "Date From: %s\n", r.DateFrom)
	fmt.Fprintf(&b, "Date To: %s\n", r.DateTo)
	fmt.Fprintf(&b, "Min Value: %s\n", formatFloat(minV))
	fmt.Fprintf(&b, "Max Value: %s\n", formatFloat(maxV))
	fmt.Fprintf(&b, "Average Value: %s\n", strconv.FormatFloat(avg, 'f', 2, 64))
	fmt.Fprintf(&b, "Percent Change: %s%%\n", strconv.FormatFloat(change, 'f', 2, 64))
	fmt.Fprintf(&b, "Trend values: %s\n", strings.Join(values, ", "))
	fmt.Fprintf(&b, "%s %s\n", segment.RisingMarker, strings.Join(r.Rising, ", "))
	fmt.Fprintf(&b, "%s %s", segment.TopMarker, strings.Join(r.Top, ", "))
	return b.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
