// Command mcp-client is an interactive REPL for an OpsBoard MCP server.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	flag.Parse()
	args := flag.Args()

	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: mcp-client <server-command> [<args>]")
		fmt.Fprintln(os.Stderr, "Example: mcp-client ./opsboard-mcp -config opsboard.yaml")
		os.Exit(2)
	}

	ctx := context.Background()

	// Start the server as a subprocess
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stderr = os.Stderr
	transport := &mcp.CommandTransport{Command: cmd}

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "opsboard-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer session.Close()

	fmt.Println("Connected to OpsBoard MCP Server!")
	fmt.Println("Available commands:")
	fmt.Println("  /tools                  - List available tools")
	fmt.Println("  /summary                - Dashboard summary")
	fmt.Println("  /devices [status] [type] - List devices")
	fmt.Println("  /topology [device_id]   - Topology, optionally with neighbors")
	fmt.Println("  /dex                    - Generate a DEX report")
	fmt.Println("  /plan                   - Generate a maintenance plan")
	fmt.Println("  /ticket <id>            - Suggest steps for a ticket")
	fmt.Println("  /history [kind] [limit] - Stored reports")
	fmt.Println("  /graph <cypher>         - Execute read-only Cypher")
	fmt.Println("  /exit                   - Exit the client")
	fmt.Println("  <question>              - Ask about the topology")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		parts := strings.Fields(input)

		switch {
		case input == "/exit":
			fmt.Println("Goodbye!")
			return

		case input == "/tools":
			listTools(ctx, session)

		case input == "/summary":
			callTool(ctx, session, "dashboard_summary", map[string]any{})

		case parts[0] == "/devices":
			args := map[string]any{}
			if len(parts) > 1 {
				args["status"] = parts[1]
			}
			if len(parts) > 2 {
				args["type"] = parts[2]
			}
			callTool(ctx, session, "list_devices", args)

		case parts[0] == "/topology":
			args := map[string]any{}
			if len(parts) > 1 {
				args["device_id"] = parts[1]
			}
			callTool(ctx, session, "get_topology", args)

		case input == "/dex":
			callTool(ctx, session, "generate_dex_report", map[string]any{})

		case input == "/plan":
			callTool(ctx, session, "generate_maintenance_plan", map[string]any{})

		case parts[0] == "/ticket":
			if len(parts) < 2 {
				fmt.Println("Usage: /ticket <id>")
				continue
			}
			callTool(ctx, session, "get_ticket_suggestion", map[string]any{"ticket_id": parts[1]})

		case parts[0] == "/history":
			args := map[string]any{}
			if len(parts) > 1 {
				args["kind"] = parts[1]
			}
			if len(parts) > 2 {
				n, err := strconv.Atoi(parts[2])
				if err != nil {
					fmt.Println("limit must be a number")
					continue
				}
				args["limit"] = n
			}
			callTool(ctx, session, "get_report_history", args)

		case strings.HasPrefix(input, "/graph "):
			callTool(ctx, session, "query_graph", map[string]any{
				"cypher": strings.TrimPrefix(input, "/graph "),
			})

		default:
			callTool(ctx, session, "ask_topology", map[string]any{
				"question": input,
			})
		}
	}

	if err := scanner.Err(); err != nil {
		log.Printf("Scanner error: %v", err)
	}
}

func listTools(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("Available Tools:")
	for tool, err := range session.Tools(ctx, nil) {
		if err != nil {
			log.Printf("Error listing tools: %v", err)
			return
		}
		fmt.Printf("  - %s: %s\n", tool.Name, tool.Description)
	}
	fmt.Println()
}

func callTool(ctx context.Context, session *mcp.ClientSession, toolName string, args map[string]any) {
	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      toolName,
		Arguments: args,
	})
	if err != nil {
		log.Printf("Error calling tool: %v", err)
		return
	}
	printResult(result)
}

func printResult(result *mcp.CallToolResult) {
	if result.IsError {
		fmt.Print("Error: ")
	} else {
		fmt.Print("Result: ")
	}

	for _, content := range result.Content {
		switch v := content.(type) {
		case *mcp.TextContent:
			fmt.Println(v.Text)
		default:
			jsonData, err := json.MarshalIndent(content, "", "  ")
			if err != nil {
				fmt.Printf("%+v\n", content)
			} else {
				fmt.Println(string(jsonData))
			}
		}
	}
	fmt.Println()
}
