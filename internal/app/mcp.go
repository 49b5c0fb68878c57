package app

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Asdafers/healerguide/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the engine over MCP stdio",
	Long: `Start a Model Context Protocol stdio server backed by the content
database. The server exposes six tools:

  classify_ability      Urgency, complexity, impact and preparation text
  validate_ability      Content problems for one ability
  recommended_actions   Response plan for a damage tier
  analyze_encounter     Damage profile and cooldown plan
  prioritize_encounter  Abilities in healer priority order
  search_abilities      Text search over abilities

Add to an MCP client configuration:
  {"mcpServers":{"healerguide":{"command":"healerguide","args":["mcp"]}}}`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	srv := mcp.NewServer(db, newEngine(), logger, appVersion)
	return srv.Run(cmd.Context(), os.Stdin, os.Stdout)
}
