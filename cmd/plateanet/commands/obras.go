package commands

import (
	"os"

	"plateanet-crawler/internal/crawler"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var obrasMatch *string

func init() {
	obrasMatch = obrasCmd.Flags().String("match", "", "Only list productions whose name resembles this.")
	rootCmd.AddCommand(obrasCmd)
}

var obrasCmd = &cobra.Command{
	Use:   "obras [--match <name>]",
	Short: "Lists the productions in the catalog.",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, err := setup()
		if err != nil {
			return err
		}
		defer client.Close()

		productions, err := client.Productions(cmd.Context())
		if err != nil {
			return commandError("list productions", err)
		}
		filter := crawler.MatchName(*obrasMatch, crawler.DefaultMatchThreshold)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Id", "Name"})
		for _, id := range crawler.SortedIds(productions) {
			if !filter(productions[id]) {
				continue
			}
			t.AppendRow(table.Row{id, productions[id].Name})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
		return nil
	},
}
