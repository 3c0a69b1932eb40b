package commands

import (
	"os"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(promosCmd)
}

var promosCmd = &cobra.Command{
	Use:   "promos <funcion-id>",
	Short: "Lists the promotions with seats left for a single performance.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, err := setup()
		if err != nil {
			return err
		}
		defer client.Close()

		promotions, err := client.Promotions(cmd.Context(), args[0])
		if err != nil {
			return commandError("resolve promotions", err)
		}

		names := make([]string, 0, len(promotions))
		for name := range promotions {
			names = append(names, name)
		}
		slices.Sort(names)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Promotion", "Sectors"})
		for _, name := range names {
			t.AppendRow(table.Row{name, strings.Join(promotions[name], ", ")})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
		return nil
	},
}
