// ABOUTME: Tests for request log storage operations.
// ABOUTME: Covers inserting, filtering, and aggregate statistics.

package store

import (
	"os"
	"testing"
)

func TestRequestLogs(t *testing.T) {
	dbPath := "test_request_logs.db"
	defer os.Remove(dbPath)

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	entries := []*RequestLog{
		{Component: "platform", Method: "GET", Path: "/apis/v1/packs", StatusCode: 200, DurationMs: 12},
		{Component: "platform", Method: "GET", Path: "/apis/v1/packs/p_1", StatusCode: 404, DurationMs: 4},
		{Component: "runner", Method: "POST", Path: "/runner/packs/packmeta/tables/Packs/sync", StatusCode: 200, DurationMs: 80},
	}
	for _, e := range entries {
		if err := s.LogRequest(e); err != nil {
			t.Fatalf("LogRequest() error = %v", err)
		}
	}

	logs, err := s.GetRequestLogs(&RequestLogQuery{Limit: 10})
	if err != nil {
		t.Fatalf("GetRequestLogs() error = %v", err)
	}
	if len(logs) != 3 {
		t.Errorf("logs = %d, want 3", len(logs))
	}

	logs, err = s.GetRequestLogs(&RequestLogQuery{Limit: 10, Component: "runner"})
	if err != nil {
		t.Fatalf("GetRequestLogs(component) error = %v", err)
	}
	if len(logs) != 1 || logs[0].Method != "POST" {
		t.Errorf("runner logs = %+v", logs)
	}

	logs, err = s.GetRequestLogs(&RequestLogQuery{Limit: 10, PathPrefix: "/apis/v1/packs", StatusCode: 404})
	if err != nil {
		t.Fatalf("GetRequestLogs(path+status) error = %v", err)
	}
	if len(logs) != 1 || logs[0].Path != "/apis/v1/packs/p_1" {
		t.Errorf("filtered logs = %+v", logs)
	}

	stats, err := s.GetRequestLogStats()
	if err != nil {
		t.Fatalf("GetRequestLogStats() error = %v", err)
	}
	if stats.TotalRequests != 3 {
		t.Errorf("TotalRequests = %d, want 3", stats.TotalRequests)
	}
	if stats.ErrorRequests != 1 {
		t.Errorf("ErrorRequests = %d, want 1", stats.ErrorRequests)
	}
	if stats.AvgDurationMs != 32 {
		t.Errorf("AvgDurationMs = %d, want 32", stats.AvgDurationMs)
	}
}
