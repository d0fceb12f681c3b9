package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Taco-Comovilla/cattywampus/internal/config"
	"github.com/Taco-Comovilla/cattywampus/internal/tools"
)

func newToolsCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Show which external tools were found",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fileCfg, _, err := config.LoadFile(flags.configPath)
			if err != nil {
				return err
			}
			settings, err := config.Resolve(config.Overrides{}, fileCfg, nil)
			if err != nil {
				return err
			}

			statuses := tools.Check(cmd.Context(), settings.MkvmergePath, settings.MkvpropeditPath, settings.AtomicParsleyPath)

			tw := newTable("Tool", "Path", "Version")
			missing := 0
			for _, status := range statuses {
				if !status.Available {
					missing++
					tw.AppendRow(table.Row{status.Name, "not found", ""})
					continue
				}
				tw.AppendRow(table.Row{status.Name, status.Path, status.Version})
			}
			fmt.Fprintln(cmd.OutOrStdout(), tw.Render())

			if missing == len(statuses) {
				return fmt.Errorf("no external tools found; install mkvtoolnix and/or AtomicParsley")
			}
			return nil
		},
	}
}
