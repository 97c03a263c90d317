package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/llehouerou/neurobeats/internal/task"
	"github.com/llehouerou/neurobeats/internal/ui/styles"
)

func newTasksCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "List tasks and the tracks they play",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			resolver, err := newResolver(cfg)
			if err != nil {
				return err
			}
			return printTasks(cmd.OutOrStdout(), resolver)
		},
	}
}

func printTasks(out io.Writer, r *task.Resolver) error {
	header := styles.T().S().Muted.Bold(true)
	cell := lipgloss.NewStyle().PaddingRight(2)

	tbl := table.New().
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header.PaddingRight(2)
			}
			return cell
		}).
		Headers("TASK", "BPM", "TRACK", "SIZE")
	for _, t := range r.Tasks() {
		info := task.Lookup(t)
		ref := r.Resolve(t)
		tbl.Row(info.Name, info.BPM, string(ref), trackSize(ref))
	}

	_, err := fmt.Fprintln(out, tbl.Render())
	return err
}

func trackSize(ref task.TrackRef) string {
	if ref.IsRemote() {
		return "remote"
	}
	fi, err := os.Stat(string(ref))
	if err != nil {
		return "missing"
	}
	return humanize.Bytes(uint64(fi.Size()))
}
