package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	domainservices "genealogy3d/domain/services"
)

func layoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "layout",
		Short: "Print the 3D position of every person",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.headlessContainer(cmd)
			if err != nil {
				return err
			}
			defer c.Session.Close()

			out := cmd.OutOrStdout()
			persons := c.Service.Graph().Persons()
			Banner(out, "layout")
			if len(persons) == 0 {
				fmt.Fprintln(out, "  No persons in "+a.cfg.Fixture)
				return nil
			}

			positions := domainservices.Layout(persons, a.cfg.Layout)
			rows := make([][]string, 0, len(persons))
			for _, p := range persons {
				pos := positions[p.ID]
				rows = append(rows, []string{
					p.ID.String(),
					p.DisplayName(),
					strconv.Itoa(p.Generation),
					formatCoord(pos.X),
					formatCoord(pos.Y),
					formatCoord(pos.Z),
				})
			}
			Table(out, []string{"ID", "NAME", "GEN", "X", "Y", "Z"}, rows)
			fmt.Fprintln(out)
			fmt.Fprintf(out, "  %s persons, %s relations\n",
				Brand.Sprint(len(persons)), Brand.Sprint(c.Service.Graph().RelationCount()/2))
			return nil
		},
	}
}

func formatCoord(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', 1, 32)
}
