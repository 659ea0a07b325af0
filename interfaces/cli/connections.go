package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"genealogy3d/domain/core/valueobjects"
)

func connectionsCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "connections <person-id>",
		Short: "Show the persons and edges highlighted when a person is clicked",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("max") {
				a.cfg.Traversal.MaxNeighbors = limit
				if err := a.cfg.Validate(); err != nil {
					return err
				}
			}
			c, err := a.headlessContainer(cmd)
			if err != nil {
				return err
			}
			defer c.Session.Close()

			id := valueobjects.PersonID(args[0])
			if err := c.Session.SelectPerson(id); err != nil {
				return err
			}
			res, ok := c.Session.Machine().LastHighlight()
			if !ok {
				return fmt.Errorf("no highlight for %s", id)
			}

			graph := c.Service.Graph()
			name := func(id valueobjects.PersonID) string {
				if p, ok := graph.Person(id); ok {
					return p.DisplayName()
				}
				return id.String()
			}

			out := cmd.OutOrStdout()
			Banner(out, "connections of "+name(id))

			rows := make([][]string, 0, len(res.Discovered))
			for i, d := range res.Discovered {
				rows = append(rows, []string{fmt.Sprint(i + 1), d.String(), name(d)})
			}
			if len(rows) == 0 {
				fmt.Fprintln(out, "  No connected persons")
			}
			Table(out, []string{"#", "ID", "NAME"}, rows)

			fmt.Fprintln(out)
			Info.Fprintf(out, "  %d edges shown\n", len(res.Shown))
			for _, k := range res.Shown {
				fmt.Fprintf(out, "    %s %s %s\n", name(k.A), Subtle.Sprint("──"), name(k.B))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "max", 0, "Cap on discovered persons (defaults to traversal.max_neighbors)")
	return cmd
}
