package commands

import (
	"fmt"
	"os"

	"plateanet-crawler/internal/crawler"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(funcionesCmd)
}

var funcionesCmd = &cobra.Command{
	Use:   "funciones <obra-id>",
	Short: "Lists the performances of a single production.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, err := setup()
		if err != nil {
			return err
		}
		defer client.Close()

		identity, err := client.Identity(cmd.Context(), args[0])
		if err != nil {
			return commandError("resolve production", err)
		}
		performances, err := client.Performances(cmd.Context(), identity)
		if err != nil {
			return commandError("list performances", err)
		}

		fmt.Printf("venue %s, production %s\n", identity.VenueId, identity.ProductionId)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Id", "Performance"})
		for _, id := range crawler.SortedIds(performances) {
			t.AppendRow(table.Row{id, performances[id]})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
		return nil
	},
}
