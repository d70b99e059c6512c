// Package cli implements the trendscout command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cognicore/trendscout/pkg/trendscout/config"
	"github.com/cognicore/trendscout/pkg/trendscout/internalerr"
	"github.com/cognicore/trendscout/pkg/trendscout/store"
	"github.com/cognicore/trendscout/pkg/trendscout/store/csvstore"
	"github.com/cognicore/trendscout/pkg/trendscout/store/sqlite"
)

// app carries the per-invocation state shared by subcommands.
type app struct {
	v       *viper.Viper
	cfgFile string
	envFile string
	strict  bool
	verbose bool
	out     io.Writer
	errOut  io.Writer
}

// Execute runs the root command with the process arguments.
func Execute() error {
	return NewRootCommand(os.Stdout, os.Stderr).Execute()
}

// NewRootCommand builds the command tree writing results to out and
// diagnostics to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{v: viper.New(), out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "trendscout",
		Short: "Trendscout - batch trend detection for news and search trends",
		Long: `Trendscout picks new topics from a news aggregator front page or from
rising Google Trends queries and appends them to a topic store.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (TRENDSCOUT_*, SERPAPI_API_KEY)
3. Config file (~/.trendscout/config.yaml)
4. Defaults`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.trendscout/config.yaml)")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file with credentials")
	root.PersistentFlags().BoolVar(&a.strict, "strict", false, "exit non-zero when a run fails to fetch or save")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().String("store-driver", config.DriverCSV, "topic store driver (csv, sqlite)")
	root.PersistentFlags().String("log-file", "", "log file (default: trendscout.log)")
	_ = a.v.BindPFlag("store.driver", root.PersistentFlags().Lookup("store-driver"))
	_ = a.v.BindPFlag("log.file", root.PersistentFlags().Lookup("log-file"))

	root.AddCommand(
		a.newsCommand(),
		a.trendsCommand(),
		a.topicsCommand(),
		a.configCommand(),
		a.downloadCommand(),
		versionCommand(),
	)
	return root
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "trendscout v0.1.0")
		},
	}
}

// initConfig loads .env, the config file and TRENDSCOUT_* variables.
func (a *app) initConfig() error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w: %w", a.envFile, internalerr.ErrInvalidConfig, err)
		}
	}

	setDefaults(a.v, config.DefaultSettings())
	a.v.SetEnvPrefix("TRENDSCOUT")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()
	_ = a.v.BindEnv("trends.api_key", "TRENDSCOUT_TRENDS_API_KEY", "SERPAPI_API_KEY")

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		a.v.AddConfigPath(filepath.Join(home, ".trendscout"))
		a.v.SetConfigType("yaml")
		a.v.SetConfigName("config")
	}

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w: %w", internalerr.ErrInvalidConfig, err)
		}
	} else if a.verbose {
		fmt.Fprintf(a.errOut, "Using config file: %s\n", a.v.ConfigFileUsed())
	}
	return nil
}

func setDefaults(v *viper.Viper, s config.Settings) {
	v.SetDefault("store.driver", s.Store.Driver)
	v.SetDefault("news.store", s.News.Store)
	v.SetDefault("news.source", s.News.Source)
	v.SetDefault("news.api_url", s.News.APIURL)
	v.SetDefault("news.url", s.News.URL)
	v.SetDefault("news.max_posts", s.News.MaxPosts)
	v.SetDefault("news.min_score", s.News.MinScore)
	v.SetDefault("news.min_comments", s.News.MinComments)
	v.SetDefault("news.max_new", s.News.MaxNew)
	v.SetDefault("news.user_agent", s.News.UserAgent)
	v.SetDefault("news.respect_robots", s.News.RespectRobots)
	v.SetDefault("trends.store", s.Trends.Store)
	v.SetDefault("trends.api_key", s.Trends.APIKey)
	v.SetDefault("trends.keyword", s.Trends.Keyword)
	v.SetDefault("trends.max_new", s.Trends.MaxNew)
	v.SetDefault("trends.preview", s.Trends.Preview)
	v.SetDefault("trends.rate_per_sec", s.Trends.RatePerSec)
	v.SetDefault("fetch.timeout", s.Fetch.Timeout)
	v.SetDefault("rank.min_length", s.Rank.MinLength)
	v.SetDefault("rank.stop_words", s.Rank.StopWords)
	v.SetDefault("rank.min_cluster_docs", s.Rank.MinClusterDocs)
	v.SetDefault("rank.max_topics", s.Rank.MaxTopics)
	v.SetDefault("rank.min_topic_size", s.Rank.MinTopicSize)
	v.SetDefault("rank.stoplist_file", s.Rank.StoplistFile)
	v.SetDefault("rank.dict_file", s.Rank.DictFile)
	v.SetDefault("log.file", s.Log.File)
}

// settings builds the validated settings for this invocation.
func (a *app) settings() (config.Settings, error) {
	var s config.Settings
	if err := a.v.Unmarshal(&s); err != nil {
		return s, fmt.Errorf("decode config: %w: %w", internalerr.ErrInvalidConfig, err)
	}
	if s.Log.File == "" {
		s.Log.File = config.DefaultSettings().Log.File
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// logger writes to the log file and errOut. The returned func closes the file.
func (a *app) logger(s config.Settings) (*log.Logger, func(), error) {
	f, err := os.OpenFile(s.Log.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %s: %w: %w", s.Log.File, internalerr.ErrInvalidConfig, err)
	}
	l := log.New(io.MultiWriter(f, a.errOut), "", log.LstdFlags)
	return l, func() { f.Close() }, nil
}

func openStore(ctx context.Context, driver, path string) (store.TopicStore, error) {
	switch driver {
	case config.DriverSQLite:
		st, err := sqlite.OpenSQLite(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w: %w", path, internalerr.ErrPersistenceRead, err)
		}
		return st, nil
	default:
		return csvstore.Open(path), nil
	}
}

// finish prints the report and decides the exit status of a run.
func (a *app) finish(summary string, runErr error, l *log.Logger) error {
	fmt.Fprintln(a.out, summary)
	if runErr == nil {
		return nil
	}
	l.Printf("run finished with error: %v", runErr)
	if a.strict {
		return runErr
	}
	return nil
}
