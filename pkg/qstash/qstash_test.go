package qstash

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const (
	testDestination = "https://touchbase.example.com/daily-suggestion"
	testCron        = "0 9 * * *"
)

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	client, err := NewClient(Config{URL: url, Token: "test-token", Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestEnsureScheduleCreates(t *testing.T) {
	t.Parallel()

	var createCalls int
	var gotAuth, gotCron, gotMethod, gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if r.URL.Path != "/v2/schedules" {
				t.Errorf("unexpected list path %s", r.URL.Path)
			}
			fmt.Fprint(w, `[]`)
		case http.MethodPost:
			createCalls++
			gotAuth = r.Header.Get("Authorization")
			gotCron = r.Header.Get("Upstash-Cron")
			gotMethod = r.Header.Get("Upstash-Method")
			gotPath = r.URL.Path
			fmt.Fprint(w, `{"scheduleId":"sched_1"}`)
		default:
			t.Errorf("unexpected request method %s", r.Method)
		}
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server.URL)
	sched, err := client.EnsureSchedule(context.Background(), testDestination, testCron)
	if err != nil {
		t.Fatalf("EnsureSchedule() error = %v", err)
	}
	if sched.ID != "sched_1" {
		t.Fatalf("unexpected schedule id %q", sched.ID)
	}
	if createCalls != 1 {
		t.Fatalf("expected one create, got %d", createCalls)
	}
	if gotAuth != "Bearer test-token" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotCron != testCron {
		t.Fatalf("unexpected cron header %q", gotCron)
	}
	if gotMethod != http.MethodGet {
		t.Fatalf("unexpected upstash method %q", gotMethod)
	}
	if !strings.HasSuffix(gotPath, testDestination) {
		t.Fatalf("destination missing from path %q", gotPath)
	}
}

func TestEnsureScheduleReusesExisting(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected %s request, schedule must be reused", r.Method)
		}
		if err := json.NewEncoder(w).Encode([]Schedule{
			{ID: "sched_9", Destination: testDestination, Cron: testCron},
		}); err != nil {
			t.Errorf("encode schedules: %v", err)
		}
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server.URL)
	sched, err := client.EnsureSchedule(context.Background(), testDestination, testCron)
	if err != nil {
		t.Fatalf("EnsureSchedule() error = %v", err)
	}
	if sched.ID != "sched_9" {
		t.Fatalf("expected the existing schedule, got %q", sched.ID)
	}
}

func TestEnsureScheduleServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server.URL)
	_, err := client.EnsureSchedule(context.Background(), testDestination, testCron)
	if err == nil || !strings.Contains(err.Error(), "qstash responded 500") {
		t.Fatalf("expected a status error, got %v", err)
	}
}

func TestNewClientValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(Config{URL: "", Token: "tok"}); err == nil {
		t.Fatal("expected an error for a missing url")
	}
	if _, err := NewClient(Config{URL: "https://qstash.upstash.io", Token: ""}); err == nil {
		t.Fatal("expected an error for a missing token")
	}
}
