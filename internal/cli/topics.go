package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (a *app) topicsCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "topics [news|trends]",
		Short:     "List saved topics",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"news", "trends"},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.settings()
			if err != nil {
				return err
			}

			path := s.News.Store
			if len(args) == 1 && args[0] == "trends" {
				path = s.Trends.Store
			}

			st, err := openStore(cmd.Context(), s.Store.Driver, path)
			if err != nil {
				return err
			}
			defer st.Close()

			records, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintf(a.out, "No topics saved in %s\n", path)
				return nil
			}

			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TOPIC\tSTATUS")
			for _, r := range records {
				fmt.Fprintf(w, "%s\t%d\n", r.Topic, r.Status)
			}
			return w.Flush()
		},
	}
}
