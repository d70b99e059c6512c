// Package config loads vocabulary files and holds the run settings shared by
// the pipelines and the CLI.
package config

import (
	"fmt"
	"time"

	"github.com/cognicore/trendscout/pkg/trendscout/internalerr"
	"github.com/cognicore/trendscout/pkg/trendscout/rank"
	"github.com/cognicore/trendscout/pkg/trendscout/source/hackernews"
	"github.com/cognicore/trendscout/pkg/trendscout/source/serpapi"
)

// Store drivers
const (
	DriverCSV    = "csv"
	DriverSQLite = "sqlite"
)

// News sources
const (
	SourceHTML = "html"
	SourceAPI  = "api"
)

// Settings is built once per run and passed into constructors.
type Settings struct {
	Store  StoreSettings  `yaml:"store" mapstructure:"store"`
	News   NewsSettings   `yaml:"news" mapstructure:"news"`
	Trends TrendsSettings `yaml:"trends" mapstructure:"trends"`
	Fetch  FetchSettings  `yaml:"fetch" mapstructure:"fetch"`
	Rank   RankSettings   `yaml:"rank" mapstructure:"rank"`
	Log    LogSettings    `yaml:"log" mapstructure:"log"`
}

type StoreSettings struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
}

type NewsSettings struct {
	Store         string `yaml:"store" mapstructure:"store"`
	Source        string `yaml:"source" mapstructure:"source"` // html or api
	APIURL        string `yaml:"api_url" mapstructure:"api_url"`
	URL           string `yaml:"url" mapstructure:"url"`
	MaxPosts      int    `yaml:"max_posts" mapstructure:"max_posts"`
	MinScore      int    `yaml:"min_score" mapstructure:"min_score"`
	MinComments   int    `yaml:"min_comments" mapstructure:"min_comments"`
	MaxNew        int    `yaml:"max_new" mapstructure:"max_new"`
	UserAgent     string `yaml:"user_agent" mapstructure:"user_agent"`
	RespectRobots bool   `yaml:"respect_robots" mapstructure:"respect_robots"`
}

type TrendsSettings struct {
	Store      string  `yaml:"store" mapstructure:"store"`
	APIKey     string  `yaml:"api_key" mapstructure:"api_key"`
	Keyword    string  `yaml:"keyword" mapstructure:"keyword"`
	MaxNew     int     `yaml:"max_new" mapstructure:"max_new"`
	Preview    int     `yaml:"preview" mapstructure:"preview"`
	RatePerSec float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

type FetchSettings struct {
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

type RankSettings struct {
	MinLength      int      `yaml:"min_length" mapstructure:"min_length"`
	StopWords      []string `yaml:"stop_words" mapstructure:"stop_words"`
	MinClusterDocs int      `yaml:"min_cluster_docs" mapstructure:"min_cluster_docs"`
	MaxTopics      int      `yaml:"max_topics" mapstructure:"max_topics"`
	MinTopicSize   int      `yaml:"min_topic_size" mapstructure:"min_topic_size"`
	StoplistFile   string   `yaml:"stoplist_file" mapstructure:"stoplist_file"`
	DictFile       string   `yaml:"dict_file" mapstructure:"dict_file"`
}

type LogSettings struct {
	File string `yaml:"file" mapstructure:"file"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Store: StoreSettings{Driver: DriverCSV},
		News: NewsSettings{
			Store:       "topics.csv",
			Source:      SourceHTML,
			APIURL:      hackernews.DefaultAPIURL,
			URL:         hackernews.DefaultURL,
			MaxPosts:    hackernews.DefaultMaxRows,
			MinScore:    hackernews.DefaultMinScore,
			MinComments: hackernews.DefaultMinComments,
			MaxNew:      1,
			UserAgent:   hackernews.DefaultUserAgent,
		},
		Trends: TrendsSettings{
			Store:      "trend.csv",
			Keyword:    "AI Agent",
			MaxNew:     3,
			Preview:    10,
			RatePerSec: serpapi.DefaultRatePerSecond,
		},
		Fetch: FetchSettings{Timeout: hackernews.DefaultTimeout},
		Rank: RankSettings{
			MinLength:      rank.DefaultMinLength,
			StopWords:      append([]string(nil), rank.DefaultStopWords...),
			MinClusterDocs: rank.DefaultMinClusterDocs,
			MaxTopics:      rank.DefaultMaxTopics,
			MinTopicSize:   2,
		},
		Log: LogSettings{File: "trendscout.log"},
	}
}

// Validate reports the first invalid setting as ErrInvalidConfig.
func (s Settings) Validate() error {
	switch s.Store.Driver {
	case DriverCSV, DriverSQLite:
	default:
		return fmt.Errorf("store.driver %q: %w", s.Store.Driver, internalerr.ErrInvalidConfig)
	}
	switch s.News.Source {
	case SourceHTML, SourceAPI:
	default:
		return fmt.Errorf("news.source %q: %w", s.News.Source, internalerr.ErrInvalidConfig)
	}
	if s.News.Store == "" || s.Trends.Store == "" {
		return fmt.Errorf("store path must not be empty: %w", internalerr.ErrInvalidConfig)
	}
	if s.News.MaxNew < 1 || s.Trends.MaxNew < 1 {
		return fmt.Errorf("max_new must be at least 1: %w", internalerr.ErrInvalidConfig)
	}
	if s.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive: %w", internalerr.ErrInvalidConfig)
	}
	if s.Rank.MinLength < 1 {
		return fmt.Errorf("rank.min_length must be at least 1: %w", internalerr.ErrInvalidConfig)
	}
	return nil
}

// Loader returns the vocabulary loader for the rank settings.
func (s Settings) Loader() *Loader {
	return &Loader{
		StoplistPath: s.Rank.StoplistFile,
		DictPath:     s.Rank.DictFile,
		StopWords:    s.Rank.StopWords,
	}
}
