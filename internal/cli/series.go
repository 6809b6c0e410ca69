package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

func newSeriesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "series",
		Short: "List the configured series and their directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := app.config()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "Available series:")
			for _, s := range c.List() {
				p := s.Paths(app.root())
				fmt.Fprintf(w, "- %s: %s\n", s.Slug, s.Title)
				fmt.Fprintf(w, "    data: %s\n", rel(app.root(), p.DataDir))
				fmt.Fprintf(w, "    content: %s\n", rel(app.root(), p.ContentDir))
				fmt.Fprintf(w, "    build: %s\n", rel(app.root(), p.BuildDir))
			}
			return nil
		},
	}
}

// rel shows path relative to root when it lies inside it.
func rel(root, path string) string {
	r, err := filepath.Rel(root, path)
	if err != nil || r == ".." || strings.HasPrefix(r, "../") {
		return path
	}
	return r
}
