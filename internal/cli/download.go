package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cognicore/trendscout/internal/rss"
	"github.com/cognicore/trendscout/pkg/trendscout/source/hackernews"
)

func (a *app) downloadCommand() *cobra.Command {
	var (
		count  int
		output string
		delay  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download top Hacker News stories to a JSONL file",
		Long: `Download fetches the current top stories from the Hacker News API and
writes them as JSONL items that "trendscout news --from-jsonl" can replay.

Example:
  trendscout download --count 100 --out testdata/hn/docs.jsonl`,
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

			api := hackernews.NewAPI(hackernews.APIOptions{
				BaseURL: s.News.APIURL,
				Timeout: s.Fetch.Timeout,
				Delay:   delay,
			})
			l.Printf("download: fetching top %d stories", count)
			posts, err := api.TopStories(cmd.Context(), count)
			if err != nil {
				return err
			}

			items := make([]rss.Item, len(posts))
			for i, p := range posts {
				items[i] = rss.Item{
					URL:         p.Link,
					Title:       p.Title,
					Outlet:      "news.ycombinator.com",
					PublishedAt: p.Published,
					Score:       p.Score,
					Comments:    p.Comments,
				}
			}

			if dir := filepath.Dir(output); dir != "" {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("create output directory: %w", err)
				}
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create output file: %w", err)
			}
			if err := rss.WriteJSONL(f, items); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close output file: %w", err)
			}

			l.Printf("download: wrote %d stories to %s", len(items), output)
			fmt.Fprintf(a.out, "Downloaded %d stories to %s\n", len(items), output)
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 100, "number of top stories to download")
	cmd.Flags().StringVarP(&output, "out", "o", "testdata/hn/docs.jsonl", "output JSONL path")
	cmd.Flags().DurationVar(&delay, "delay", 50*time.Millisecond, "pause between item requests")

	return cmd
}
