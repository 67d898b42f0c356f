package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/claude/mapty/internal/kv"
	"github.com/claude/mapty/internal/models"
	"github.com/claude/mapty/internal/workout"
	"github.com/mark3labs/mcp-go/mcp"
)

func discardLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestHandlers builds handlers over a service holding one running and one
// cycling workout, the cycling one created last.
func newTestHandlers(t *testing.T) *handlers {
	t.Helper()
	ctx := context.Background()
	at := time.Date(2026, 4, 14, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		at = at.Add(time.Minute)
		return at
	}
	log := discardLog()
	svc := workout.NewService(workout.NewStore(kv.NewMemory(), "", log), log, workout.WithClock(clock))

	events := []workout.Event{
		workout.MapClicked{Lat: 51.5, Lng: -0.1},
		workout.FormSubmitted{Type: models.Running, Distance: "5", Duration: "25", CadenceOrElevation: "170"},
		workout.MapClicked{Lat: 51.6, Lng: -0.2},
		workout.FormSubmitted{Type: models.Cycling, Distance: "30", Duration: "60", CadenceOrElevation: "300"},
	}
	for _, ev := range events {
		if _, _, err := svc.Dispatch(ctx, ev); err != nil {
			t.Fatalf("dispatch %T: %v", ev, err)
		}
	}
	return &handlers{ds: Local{Service: svc}, log: log}
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

// resultText returns the JSON text of a tool result.
func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	for _, c := range res.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatal("result has no text content")
	return ""
}

// TestListWorkoutsTool verifies the tool returns every workout newest first.
func TestListWorkoutsTool(t *testing.T) {
	h := newTestHandlers(t)
	res, err := h.listWorkouts(context.Background(), callRequest(nil))
	if err != nil || res.IsError {
		t.Fatalf("list_workouts: %v %+v", err, res)
	}
	var got []workout.View
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Type != models.Cycling || got[1].Type != models.Running {
		t.Errorf("workouts = %+v", got)
	}
}

// TestListWorkoutsToolFilter verifies the type argument filters and bad
// values are rejected as tool errors.
func TestListWorkoutsToolFilter(t *testing.T) {
	h := newTestHandlers(t)
	res, err := h.listWorkouts(context.Background(), callRequest(map[string]any{"type": "running"}))
	if err != nil || res.IsError {
		t.Fatalf("list_workouts: %v %+v", err, res)
	}
	var got []workout.View
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Type != models.Running {
		t.Errorf("workouts = %+v", got)
	}

	res, err = h.listWorkouts(context.Background(), callRequest(map[string]any{"type": "swimming"}))
	if err != nil || !res.IsError {
		t.Errorf("swimming filter: err=%v isError=%v, want tool error", err, res.IsError)
	}
}

// TestGetWorkoutTool verifies lookup by ID and the not-found tool error.
func TestGetWorkoutTool(t *testing.T) {
	h := newTestHandlers(t)
	all, _ := h.ds.ListWorkouts(context.Background(), "")
	id := all[0].ID

	res, err := h.getWorkout(context.Background(), callRequest(map[string]any{"id": id}))
	if err != nil || res.IsError {
		t.Fatalf("get_workout: %v %+v", err, res)
	}
	var got workout.View
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatal(err)
	}
	if got.ID != id || got.SpeedKmPerH == nil || *got.SpeedKmPerH != 30 {
		t.Errorf("workout = %+v", got)
	}

	res, err = h.getWorkout(context.Background(), callRequest(map[string]any{"id": "missing"}))
	if err != nil || !res.IsError {
		t.Errorf("missing id: err=%v isError=%v, want tool error", err, res.IsError)
	}

	res, err = h.getWorkout(context.Background(), callRequest(nil))
	if err != nil || !res.IsError {
		t.Errorf("no id: err=%v isError=%v, want tool error", err, res.IsError)
	}
}

// TestWorkoutSummaryTool verifies per-type totals are returned.
func TestWorkoutSummaryTool(t *testing.T) {
	h := newTestHandlers(t)
	res, err := h.workoutSummary(context.Background(), callRequest(nil))
	if err != nil || res.IsError {
		t.Fatalf("workout_summary: %v %+v", err, res)
	}
	var got workout.Summary
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatal(err)
	}
	if got.Total != 2 || got.Running.Count != 1 || got.Cycling.ElevationGainM != 300 {
		t.Errorf("summary = %+v", got)
	}
}

// TestWorkoutsResource verifies the resource returns the collection as JSON.
func TestWorkoutsResource(t *testing.T) {
	h := newTestHandlers(t)
	var req mcp.ReadResourceRequest
	req.Params.URI = "mapty://workouts"

	contents, err := h.allWorkouts(context.Background(), req)
	if err != nil {
		t.Fatalf("read resource: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("contents = %d, want 1", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("contents[0] = %T", contents[0])
	}
	var got []workout.View
	if err := json.Unmarshal([]byte(tc.Text), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || tc.URI != "mapty://workouts" {
		t.Errorf("resource = %s %+v", tc.URI, got)
	}
}

// TestNewRegistersTools verifies the server builds with its tools.
func TestNewRegistersTools(t *testing.T) {
	s := New(newTestHandlers(t).ds, "test", discardLog())
	if s == nil {
		t.Fatal("New returned nil")
	}
}
