// Command test-tools starts opsboard-mcp as a subprocess and calls every
// tool once, printing a short report.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"opsboard/internal/config"
)

type toolCall struct {
	name     string
	args     map[string]any
	optional bool // may fail without Neo4j
}

func main() {
	configPath := flag.String("config", "", "config file passed through to opsboard-mcp")
	flag.Parse()

	loadEnvFile("env/.env")

	// Validate locally first so a bad file fails here, not in the child.
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	fmt.Println("Testing OpsBoard MCP Server")
	fmt.Println("===========================")
	if cfg.Gemini.Configured() {
		fmt.Printf("Gemini model: %s\n", cfg.Gemini.Model)
	} else {
		fmt.Println("No API key: insight tools will return canned reports")
	}
	fmt.Println()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	serverPath := findServerBinary()
	if serverPath == "" {
		log.Fatal("MCP server binary not found. Run: go build -o opsboard-mcp ./cmd/opsboard-mcp")
	}

	var serverArgs []string
	if *configPath != "" {
		serverArgs = append(serverArgs, "-config", *configPath)
	}
	cmd := exec.Command(serverPath, serverArgs...)
	cmd.Env = os.Environ()
	cmd.Stderr = os.Stderr

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, &mcp.CommandTransport{Command: cmd}, nil)
	if err != nil {
		log.Fatalf("Failed to connect to MCP server: %v", err)
	}
	defer session.Close()

	listResult, err := session.ListTools(ctx, nil)
	if err != nil {
		log.Fatalf("Failed to list tools: %v", err)
	}
	fmt.Printf("Found %d tools\n\n", len(listResult.Tools))

	calls := []toolCall{
		{name: "dashboard_summary", args: map[string]any{}},
		{name: "list_devices", args: map[string]any{"status": "Offline"}},
		{name: "get_topology", args: map[string]any{"device_id": "d2"}},
		{name: "generate_dex_report", args: map[string]any{}},
		{name: "generate_maintenance_plan", args: map[string]any{}},
		{name: "get_ticket_suggestion", args: map[string]any{"ticket_id": "t2"}},
		{name: "get_report_history", args: map[string]any{"limit": 5}},
		{name: "query_graph", args: map[string]any{"cypher": "MATCH (d:Device) RETURN count(d) AS devices"}, optional: true},
		{name: "ask_topology", args: map[string]any{"question": "Which devices depend on Core Switch 1?"}, optional: true},
	}

	failed := 0
	for _, c := range calls {
		callCtx, callCancel := context.WithTimeout(ctx, 20*time.Second)
		res, err := session.CallTool(callCtx, &mcp.CallToolParams{Name: c.name, Arguments: c.args})
		callCancel()

		switch {
		case err != nil:
			fmt.Printf("FAIL %s: %v\n", c.name, err)
			failed++
		case res.IsError && c.optional:
			fmt.Printf("SKIP %s: %s\n", c.name, preview(res))
		case res.IsError:
			fmt.Printf("FAIL %s: %s\n", c.name, preview(res))
			failed++
		default:
			fmt.Printf("OK   %s: %s\n", c.name, preview(res))
		}
	}

	fmt.Println("\n===========================")
	if failed > 0 {
		fmt.Printf("%d tool call(s) failed\n", failed)
		os.Exit(1)
	}
	fmt.Println("All MCP tool calls complete")
}

func preview(res *mcp.CallToolResult) string {
	for _, content := range res.Content {
		if v, ok := content.(*mcp.TextContent); ok {
			text := strings.ReplaceAll(v.Text, "\n", " ")
			if len(text) > 120 {
				text = text[:120] + "..."
			}
			return text
		}
	}
	return fmt.Sprintf("%d content items", len(res.Content))
}

func findServerBinary() string {
	candidates := []string{
		"./opsboard-mcp",
		"../../opsboard-mcp",
	}
	for _, p := range candidates {
		if abs, err := filepath.Abs(p); err == nil {
			if _, err := os.Stat(abs); err == nil {
				return abs
			}
		}
	}
	return ""
}

func loadEnvFile(path string) {
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		os.Setenv(strings.TrimSpace(key), strings.Trim(strings.TrimSpace(value), `"'`))
	}
}
