// ABOUTME: Entry point for the engagement tracker MCP server, CLI, and UIs
// ABOUTME: Routes to MCP server, track subcommands, web dashboard, or TUI
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/harperreed/engage/cli"
	"github.com/harperreed/engage/config"
	"github.com/harperreed/engage/store"
	"github.com/harperreed/engage/tui"
	"github.com/harperreed/engage/web"
)

const version = "0.1.0"

func main() {
	// Optional .env for local overrides; absence is fine
	_ = godotenv.Load()

	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dataDir := flag.String("data-dir", "", "Data directory (default: ~/.local/share/engage)")
	port := flag.Int("port", 8080, "Web server port")

	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("engage version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	s, err := store.Open(cfg.DataDir, cfg.CacheTTL)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}

	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "mcp":
		if err := cli.MCPCommand(s, cfg); err != nil {
			log.Fatalf("MCP server failed: %v", err)
		}

	case "web":
		server, err := web.NewServer(s, cfg)
		if err != nil {
			log.Fatalf("Failed to start web server: %v", err)
		}
		if err := server.Start(*port); err != nil {
			log.Fatalf("Web server failed: %v", err)
		}

	case "tui":
		p := tea.NewProgram(tui.NewModel(s, cfg), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			log.Fatalf("TUI failed: %v", err)
		}

	case "track":
		if len(commandArgs) == 0 {
			fmt.Println("Error: track requires a subcommand")
			printUsage()
			os.Exit(1)
		}

		trackCommand := commandArgs[0]
		trackArgs := commandArgs[1:]

		switch trackCommand {
		case "add":
			if err := cli.AddCommand(s, cfg, trackArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "list":
			if err := cli.ListCommand(s, cfg, trackArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "show":
			if err := cli.ShowCommand(s, cfg, trackArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "log":
			if err := cli.LogCommand(s, cfg, trackArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "status":
			if err := cli.StatusCommand(s, cfg, trackArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "tasks":
			if err := cli.TasksCommand(s, cfg, trackArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "analytics":
			if err := cli.AnalyticsCommand(s, cfg, trackArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "import":
			if err := cli.ImportCommand(s, cfg, trackArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		default:
			fmt.Printf("Unknown track command: %s\n", trackCommand)
			printUsage()
			os.Exit(1)
		}

	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`engage - ESG engagement tracker

Usage:
  engage mcp                     Start MCP server on stdio
  engage web [-port 8080]        Start the web dashboard
  engage tui                     Start the interactive terminal UI
  engage track <command> [args]  Record-keeping commands

Track commands:
  add        Create a new engagement
  list       List engagements with filters
  show       Show one engagement and its history
  log        Log an interaction
  status     Update a milestone status
  tasks      List upcoming next actions
  analytics  Print portfolio analytics
  import     Bulk import a CSV, archiving the prior file

Global flags:
  -version          Show version and exit
  -data-dir <path>  Override the data directory
  -port <n>         Web server port (default 8080)`)
}
