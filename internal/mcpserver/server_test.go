package mcpserver

import (
	"context"
	"encoding/json"
	"math"
	"net/http/httptest"
	"sort"
	"testing"

	"holdwise/internal/engine"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
)

func TestMCPServerTools(t *testing.T) {
	srv := New(engine.New())
	httpSrv := httptest.NewServer(srv.Handler())
	defer httpSrv.Close()

	mcpClient, closeClient := newMCPClient(t, httpSrv.URL+"/mcp")
	defer closeClient()

	assertToolNames(t, mustListTools(t, mcpClient),
		"optimal_hold",
		"expected_value",
		"distribution",
		"hold_evs",
		"list_paytables",
		"active_paytable",
	)

	hand := []any{"Jh", "Jd", "3c", "5s", "7h"}
	best := mapFromStructured(t, mustCallTool(t, mcpClient, "optimal_hold", map[string]any{"cards": hand}))
	if mask, _ := best["mask"].(float64); mask != 3 {
		t.Fatalf("optimal_hold mask = %v, want 3", best["mask"])
	}
	if ev, _ := best["ev"].(float64); math.Abs(ev-7.682701202590194) > 1e-9 {
		t.Fatalf("optimal_hold ev = %v", best["ev"])
	}

	pairHold := []any{true, true, false, false, false}
	evRes := mapFromStructured(t, mustCallTool(t, mcpClient, "expected_value", map[string]any{"cards": hand, "hold": pairHold}))
	if ev, _ := evRes["ev"].(float64); math.Abs(ev-7.682701202590194) > 1e-9 {
		t.Fatalf("expected_value ev = %v", evRes["ev"])
	}

	dist := mapFromStructured(t, mustCallTool(t, mcpClient, "distribution", map[string]any{"cards": hand, "hold": pairHold, "coins": 1}))
	outcomes, _ := dist["outcomes"].([]any)
	if len(outcomes) == 0 {
		t.Fatalf("distribution returned no outcomes: %v", dist)
	}

	paytables := mapFromStructured(t, mustCallTool(t, mcpClient, "list_paytables", map[string]any{}))
	if list, _ := paytables["paytables"].([]any); len(list) == 0 {
		t.Fatalf("list_paytables returned nothing: %v", paytables)
	}
	active := mapFromStructured(t, mustCallTool(t, mcpClient, "active_paytable", map[string]any{}))
	if active["name"] != "9/6" {
		t.Fatalf("active_paytable name = %v, want 9/6", active["name"])
	}
}

func TestMCPServerRejectsBadHands(t *testing.T) {
	srv := New(engine.New())
	httpSrv := httptest.NewServer(srv.Handler())
	defer httpSrv.Close()

	mcpClient, closeClient := newMCPClient(t, httpSrv.URL+"/mcp")
	defer closeClient()

	for name, args := range map[string]map[string]any{
		"bad card":  {"cards": []any{"Xx", "Jd", "3c", "5s", "7h"}},
		"four":      {"cards": []any{"Jh", "Jd", "3c", "5s"}},
		"duplicate": {"cards": []any{"Jh", "Jh", "3c", "5s", "7h"}},
	} {
		res := mustCallTool(t, mcpClient, "optimal_hold", args)
		if !res.IsError {
			t.Fatalf("%s: expected error, got %v", name, res.StructuredContent)
		}
		payload := mapFromStructured(t, res)
		errObj, _ := payload["error"].(map[string]any)
		if errObj["code"] != "invalid_request" {
			t.Fatalf("%s: error = %v, want invalid_request", name, payload)
		}
	}
}

func newMCPClient(t *testing.T, endpoint string) (*client.Client, func()) {
	t.Helper()
	ctx := context.Background()
	trans, err := transport.NewStreamableHTTP(endpoint)
	if err != nil {
		t.Fatalf("new transport: %v", err)
	}
	if err := trans.Start(ctx); err != nil {
		t.Fatalf("transport start: %v", err)
	}
	c := client.NewClient(trans)
	_, err = c.Initialize(ctx, mcp.InitializeRequest{Params: mcp.InitializeParams{ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION}})
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return c, func() { _ = trans.Close() }
}

func mustListTools(t *testing.T, c *client.Client) []mcp.Tool {
	t.Helper()
	res, err := c.ListTools(context.Background(), mcp.ListToolsRequest{})
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	return res.Tools
}

func assertToolNames(t *testing.T, tools []mcp.Tool, expected ...string) {
	t.Helper()
	got := make([]string, 0, len(tools))
	for _, tool := range tools {
		got = append(got, tool.Name)
	}
	sort.Strings(got)
	sort.Strings(expected)
	if len(got) != len(expected) {
		t.Fatalf("tool count mismatch got=%v expected=%v", got, expected)
	}
	for i := range got {
		if got[i] != expected[i] {
			t.Fatalf("tool list mismatch got=%v expected=%v", got, expected)
		}
	}
}

func mustCallTool(t *testing.T, c *client.Client, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := c.CallTool(context.Background(), mcp.CallToolRequest{Params: mcp.CallToolParams{Name: name, Arguments: args}})
	if err != nil {
		t.Fatalf("call tool %s: %v", name, err)
	}
	return res
}

func mapFromStructured(t *testing.T, res *mcp.CallToolResult) map[string]any {
	t.Helper()
	b, err := json.Marshal(res.StructuredContent)
	if err != nil {
		t.Fatalf("marshal structured content: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal structured content: %v", err)
	}
	return out
}
