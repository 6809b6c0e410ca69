package cli

import (
	"log/slog"
	"time"

	"github.com/anatolykoptev/go-mcpserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_ebook/internal/ebookserver"
	"github.com/anatolykoptev/go_ebook/internal/engine"
)

func newServeCmd(app *App) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the transcript tools over MCP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			slog.Info("starting go_ebook", slog.String("port", port))

			server := mcp.NewServer(&mcp.Implementation{
				Name:    "go_ebook",
				Version: app.Version,
			}, nil)
			ebookserver.RegisterTools(server, app.network(""))
			slog.Info("tools registered", slog.Int("count", ebookserver.ToolCount))

			return mcpserver.Run(server, mcpserver.Config{
				Name:         "go_ebook",
				Version:      app.Version,
				Port:         port,
				WriteTimeout: 600 * time.Second,
				Metrics:      engine.FormatMetrics,
			})
		},
	}
	cmd.Flags().StringVar(&port, "port", app.MCPPort, "HTTP port")
	return cmd
}
