// ABOUTME: MCP server subcommand
// ABOUTME: Starts the MCP server for assistant integration
package cli

import (
	"context"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/engage/config"
	"github.com/harperreed/engage/handlers"
	"github.com/harperreed/engage/store"
)

// MCPCommand starts the MCP server on stdio
func MCPCommand(s *store.Store, cfg *config.Config) error {
	log.Println("Starting engagement MCP server...")

	engagementHandlers := handlers.NewEngagementHandlers(s, cfg)
	queryHandlers := handlers.NewQueryHandlers(s, cfg)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "engage",
		Version: "0.1.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_engagement",
		Description: "Create a new company engagement with sector, region, program, and ESG focus flags",
	}, engagementHandlers.CreateEngagement)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_engagements",
		Description: "Search engagements with filters for region, sector, program, milestone, status, ESG focus, urgency, and upcoming actions",
	}, engagementHandlers.FindEngagements)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "log_interaction",
		Description: "Log a contact interaction against an engagement and update its milestone fields",
	}, engagementHandlers.LogInteraction)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_status",
		Description: "Update an engagement's milestone status, recording the change in its history",
	}, engagementHandlers.UpdateStatus)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "import_engagements",
		Description: "Bulk import engagements from a CSV file, archiving the prior record set",
	}, engagementHandlers.ImportEngagements)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_history",
		Description: "Get an engagement's interaction history, newest first",
	}, engagementHandlers.GetHistory)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_analytics",
		Description: "Get portfolio analytics: KPIs, sector success rates, monthly trend, and theme distribution",
	}, queryHandlers.GetAnalytics)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "upcoming_tasks",
		Description: "List engagements with a next action due soon, bucketed by urgency",
	}, queryHandlers.UpcomingTasks)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_choices",
		Description: "List the configured vocabulary values for classification fields",
	}, queryHandlers.ListChoices)

	ctx := context.Background()
	return server.Run(ctx, &mcp.StdioTransport{})
}
