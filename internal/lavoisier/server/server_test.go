package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"testing"
	"time"

	mdwerror "github.com/msto63/lavoisier/foundation/core/error"
	"github.com/msto63/lavoisier/pkg/core/health"
)

func TestNew_RequiresService(t *testing.T) {
	_, err := New(DefaultConfig(), nil)
	if !mdwerror.HasCode(err, mdwerror.CodeServiceInitialization) {
		t.Errorf("New(nil) error = %v, want SERVICE_INITIALIZATION", err)
	}
}

func TestServer_HealthRegistry(t *testing.T) {
	srv, err := New(DefaultConfig(), newTestService(t, true))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	report := srv.HealthRegistry().Check(context.Background())
	if report.Status != health.StatusHealthy {
		t.Errorf("status = %s, checks %+v", report.Status, report.Checks)
	}
	var names []string
	for _, c := range report.Checks {
		names = append(names, c.Name)
	}
	want := []string{"cache", "history", "solver"}
	if len(names) != len(want) {
		t.Fatalf("checks = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("checks = %v, want %v", names, want)
			break
		}
	}
}

func TestServer_ServeAndStop(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Host = "127.0.0.1"
	srv, err := New(cfg, newTestService(t, false))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	grpcLis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	httpLis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- srv.Serve(grpcLis, httpLis) }()

	resp, err := http.Get("http://" + httpLis.Addr().String() + "/version")
	if err != nil {
		t.Fatalf("GET /version error = %v", err)
	}
	var info map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&info)
	resp.Body.Close()
	if info["version"] == nil {
		t.Errorf("version response = %v", info)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		t.Errorf("Stop() error = %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after Stop()")
	}
}
