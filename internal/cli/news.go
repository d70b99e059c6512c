package cli

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/cognicore/trendscout/internal/rss"
	"github.com/cognicore/trendscout/pkg/trendscout/cluster"
	"github.com/cognicore/trendscout/pkg/trendscout/config"
	"github.com/cognicore/trendscout/pkg/trendscout/pipeline"
	"github.com/cognicore/trendscout/pkg/trendscout/rank"
	"github.com/cognicore/trendscout/pkg/trendscout/source/hackernews"
	"github.com/cognicore/trendscout/pkg/trendscout/store"
)

const explainLimit = 10

func (a *app) newsCommand() *cobra.Command {
	var (
		feedURL   string
		jsonlPath string
		explain   bool
	)

	cmd := &cobra.Command{
		Use:   "news",
		Short: "Pick one new topic from the news front page",
		Long: `News scrapes the Hacker News front page, keeps popular posts, ranks
their titles into a single topic and appends it to the news topic store
unless it is already there.

Example:
  trendscout news
  trendscout news --feed https://hnrss.org/frontpage
  trendscout news --from-jsonl testdata/hn/docs.jsonl --explain`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.settings()
			if err != nil {
				return err
			}
			l, closeLog, err := a.logger(s)
			if err != nil {
				return err
			}
			defer closeLog()

			var src pipeline.PostSource
			switch {
			case jsonlPath != "":
				src = rss.FileSource{
					Path:        jsonlPath,
					Limit:       s.News.MaxPosts,
					MinScore:    s.News.MinScore,
					MinComments: s.News.MinComments,
				}
			case feedURL != "":
				src = rss.FeedSource{URL: feedURL, Limit: s.News.MaxPosts, UserAgent: s.News.UserAgent, Timeout: s.Fetch.Timeout}
			case s.News.Source == config.SourceAPI:
				src = hackernews.NewAPI(hackernews.APIOptions{
					BaseURL:     s.News.APIURL,
					Timeout:     s.Fetch.Timeout,
					MaxRows:     s.News.MaxPosts,
					MinScore:    s.News.MinScore,
					MinComments: s.News.MinComments,
				})
			default:
				src = hackernews.New(hackernews.Options{
					URL:           s.News.URL,
					UserAgent:     s.News.UserAgent,
					Timeout:       s.Fetch.Timeout,
					MaxRows:       s.News.MaxPosts,
					MinScore:      s.News.MinScore,
					MinComments:   s.News.MinComments,
					RespectRobots: s.News.RespectRobots,
				})
			}

			return a.runNews(cmd.Context(), s, src, explain, l)
		},
	}

	cmd.Flags().StringVar(&feedURL, "feed", "", "read headlines from an RSS/Atom feed instead of scraping")
	cmd.Flags().StringVar(&jsonlPath, "from-jsonl", "", "read headlines from a JSONL file of items")
	cmd.Flags().BoolVar(&explain, "explain", false, "print the frequency ranking of candidate terms")
	cmd.Flags().String("source", "", "front page source (html, api)")
	cmd.Flags().String("store", "", "news topic store path")
	cmd.Flags().Int("max-new", 0, "maximum new topics per run")
	cmd.MarkFlagsMutuallyExclusive("feed", "from-jsonl")
	_ = a.v.BindPFlag("news.source", cmd.Flags().Lookup("source"))
	_ = a.v.BindPFlag("news.store", cmd.Flags().Lookup("store"))
	_ = a.v.BindPFlag("news.max_new", cmd.Flags().Lookup("max-new"))

	return cmd
}

func (a *app) runNews(ctx context.Context, s config.Settings, src pipeline.PostSource, explain bool, l *log.Logger) error {
	comp, err := s.Loader().Load()
	if err != nil {
		return err
	}
	modeler := cluster.New(cluster.Options{
		Tokenizer:    comp.Tokenizer,
		MaxTopics:    s.Rank.MaxTopics,
		MinTopicSize: s.Rank.MinTopicSize,
	})
	r := rank.New(rank.Options{
		StopWords:      comp.Stops.All(),
		MinLength:      s.Rank.MinLength,
		MinClusterDocs: s.Rank.MinClusterDocs,
		MaxTopics:      s.Rank.MaxTopics,
		Modeler:        modeler,
		Phrases:        comp.Parser,
		Logger:         l,
	})
	var ranker pipeline.TopicRanker = r
	if explain {
		ranker = explainRanker{Ranker: r, out: a.out}
	}

	st, err := openStore(ctx, s.Store.Driver, s.News.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	n := &pipeline.News{Source: src, Ranker: ranker, Store: st, MaxNew: s.News.MaxNew, Logger: l}
	rep, runErr := n.Run(ctx)
	return a.finish(rep.Summary(), runErr, l)
}

// explainRanker prints the frequency ranking before delegating.
type explainRanker struct {
	*rank.Ranker
	out io.Writer
}

func (e explainRanker) RankTopic(ctx context.Context, documents []string, excluded store.TopicSet) (string, bool) {
	ranked := e.FrequencyRanking(documents)
	fmt.Fprintf(e.out, "Top terms across %d documents:\n", len(documents))
	for i, c := range ranked {
		if i == explainLimit {
			break
		}
		mark := ""
		if !e.Admissible(c.Text, excluded) {
			mark = " (excluded)"
		}
		fmt.Fprintf(e.out, "  %2d. %-30s %3.0f%s\n", i+1, rank.Normalize(c.Text), c.Score, mark)
	}
	return e.Ranker.RankTopic(ctx, documents, excluded)
}
