package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func searchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Find persons by first and last name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.headlessContainer(cmd)
			if err != nil {
				return err
			}
			defer c.Session.Close()

			out := cmd.OutOrStdout()
			query := strings.Join(args, " ")
			matches := c.Session.Search(query)
			Banner(out, "search "+strconv.Quote(query))
			if len(matches) == 0 {
				Warn.Fprintln(out, "  No matches")
				return nil
			}

			rows := make([][]string, 0, len(matches))
			for _, p := range matches {
				rows = append(rows, []string{p.ID.String(), p.DisplayName(), strconv.Itoa(p.Generation)})
			}
			Table(out, []string{"ID", "NAME", "GEN"}, rows)
			if !c.Session.SearchVisible() {
				fmt.Fprintln(out)
				Subtle.Fprintln(out, "  The viewer hides its search box for families this small")
			}
			return nil
		},
	}
}
