package cmd

import (
	"fmt"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/CarloBu/lottie-svg-toolbox/internal/core/domain"
	"github.com/CarloBu/lottie-svg-toolbox/pkg/ui"
)

var (
	recentOpen  bool
	recentClear bool
)

// recentCmd represents the recent command
var recentCmd = &cobra.Command{
	Use:     "recent",
	Aliases: []string{"r"},
	Short:   "List recently opened files (alias: r)",
	Long: `List the files opened most recently, newest first.

Small files keep a cached copy of their content, so they can be
re-opened with --open even after the original file moved or changed.`,
	RunE: runRecent,
}

func init() {
	recentCmd.Flags().BoolVarP(&recentOpen, "open", "o", false, "pick an entry with a fuzzy finder and view it")
	recentCmd.Flags().BoolVar(&recentClear, "clear", false, "forget all recent entries")
}

func runRecent(cmd *cobra.Command, args []string) error {
	if recentClear {
		prefStore.SaveRecent(domain.RecentList{})
		fmt.Println(ui.FormatSuccess("Cleared recent files"))
		return nil
	}

	entries := prefStore.Recent()
	if len(entries) == 0 {
		fmt.Println(ui.FormatInfo("No recent files yet. Open something with 'lsvg view <file>'."))
		return nil
	}

	if recentOpen {
		return pickAndView(entries)
	}

	table := ui.NewTable(
		ui.Column{Title: "NAME", Min: 24},
		ui.Column{Title: "SIZE", Min: 10, Right: true},
		ui.Column{Title: "OPENED", Min: 16},
		ui.Column{Title: "CACHED"},
	)
	for _, e := range entries {
		cached := ""
		if e.Content != "" {
			cached = "yes"
		}
		table.Add(
			e.Name,
			domain.FormatByteSize(e.Size),
			e.OpenedAt.Format("2006-01-02 15:04"),
			cached,
		)
	}
	fmt.Print(table.Render())

	return nil
}

func pickAndView(entries domain.RecentList) error {
	idx, err := fuzzyfinder.Find(
		entries,
		func(i int) string { return entries[i].Name },
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			e := entries[i]
			cached := "no cached copy; the file must still exist"
			if e.Content != "" {
				cached = "cached copy available"
			}
			return fmt.Sprintf("%s\n\nSize: %s\nOpened: %s\n%s",
				e.Name,
				domain.FormatByteSize(e.Size),
				e.OpenedAt.Format("2006-01-02 15:04"),
				cached)
		}),
	)
	if err != nil {
		// Finder aborted
		return nil
	}

	entry := entries[idx]
	if entry.Content == "" {
		return fmt.Errorf("no cached copy of %q; open it by path instead", entry.Name)
	}

	if err := sessionService.LoadFromRecent(getContext(), entry.Name, entry.Size); err != nil {
		return fmt.Errorf("failed to re-open %q: %w", entry.Name, err)
	}

	return launchViewer(entry.Name)
}
