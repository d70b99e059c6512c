package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/cognicore/trendscout/pkg/trendscout/pipeline"
	"github.com/cognicore/trendscout/pkg/trendscout/source/serpapi"
)

func (a *app) trendsCommand() *cobra.Command {
	var keywords []string

	cmd := &cobra.Command{
		Use:   "trends",
		Short: "Save rising Google Trends queries for a keyword",
		Long: `Trends queries Google Trends through SerpAPI, keeps the rising related
queries that are not sub-phrases of one another and appends up to three
new ones to the trends topic store.

The API key is read from SERPAPI_API_KEY or TRENDSCOUT_TRENDS_API_KEY.

Example:
  trendscout trends
  trendscout trends --keyword "AI Agent" --keyword "vector database"`,
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

			client, err := serpapi.New(serpapi.Options{
				APIKey:        s.Trends.APIKey,
				Timeout:       s.Fetch.Timeout,
				RatePerSecond: s.Trends.RatePerSec,
			})
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			st, err := openStore(ctx, s.Store.Driver, s.Trends.Store)
			if err != nil {
				return err
			}
			defer st.Close()

			if len(keywords) == 0 {
				keywords = []string{s.Trends.Keyword}
			}
			t := &pipeline.Trends{
				Client:       client,
				Store:        st,
				MaxNew:       s.Trends.MaxNew,
				PreviewLimit: s.Trends.Preview,
				Logger:       l,
			}

			var errs []error
			for _, kw := range keywords {
				rep, runErr := t.Run(ctx, kw)
				if err := a.finish(rep.Summary(), runErr, l); err != nil {
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		},
	}

	cmd.Flags().StringArrayVarP(&keywords, "keyword", "k", nil, "keyword to query (repeatable, default from trends.keyword)")
	cmd.Flags().String("store", "", "trends topic store path")
	cmd.Flags().Int("max-new", 0, "maximum new topics per keyword")
	_ = a.v.BindPFlag("trends.store", cmd.Flags().Lookup("store"))
	_ = a.v.BindPFlag("trends.max_new", cmd.Flags().Lookup("max-new"))

	return cmd
}
