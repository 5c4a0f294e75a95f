package health

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func healthy(ctx context.Context) CheckResult {
	return CheckResult{Status: StatusHealthy}
}

func TestRegistry_Check(t *testing.T) {
	tests := []struct {
		name   string
		checks map[string]Check
		want   Status
		names  []string
	}{
		{
			name:   "no checks",
			checks: nil,
			want:   StatusHealthy,
		},
		{
			name:   "all healthy, sorted by name",
			checks: map[string]Check{"solver": healthy, "cache": healthy, "history": healthy},
			want:   StatusHealthy,
			names:  []string{"cache", "history", "solver"},
		},
		{
			name: "one failing ping",
			checks: map[string]Check{
				"solver":  healthy,
				"history": Ping(func(ctx context.Context) error { return errors.New("database is locked") }),
			},
			want:  StatusUnhealthy,
			names: []string{"history", "solver"},
		},
		{
			name: "empty status counts as unhealthy",
			checks: map[string]Check{
				"cache": func(ctx context.Context) CheckResult { return CheckResult{} },
			},
			want:  StatusUnhealthy,
			names: []string{"cache"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry("lavoisier", "1.2.0")
			for name, c := range tt.checks {
				r.Register(name, c)
			}

			report := r.Check(context.Background())
			if report.Service != "lavoisier" || report.Version != "1.2.0" {
				t.Errorf("report = %s %s", report.Service, report.Version)
			}
			if report.Status != tt.want {
				t.Errorf("Status = %s, want %s", report.Status, tt.want)
			}
			if len(report.Checks) != len(tt.names) {
				t.Fatalf("got %d checks, want %d", len(report.Checks), len(tt.names))
			}
			for i, name := range tt.names {
				if report.Checks[i].Name != name {
					t.Errorf("Checks[%d].Name = %s, want %s", i, report.Checks[i].Name, name)
				}
			}
		})
	}
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	r := NewRegistry("lavoisier", "dev")
	r.Register("cache", func(ctx context.Context) CheckResult { return CheckResult{Status: StatusUnhealthy} })
	r.Register("cache", healthy)

	report := r.Check(context.Background())
	if len(report.Checks) != 1 || report.Status != StatusHealthy {
		t.Errorf("report = %+v", report)
	}
}

func TestRegistry_ChecksRunConcurrently(t *testing.T) {
	r := NewRegistry("lavoisier", "dev")
	var calls int32
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		r.Register(name, func(ctx context.Context) CheckResult {
			atomic.AddInt32(&calls, 1)
			time.Sleep(20 * time.Millisecond)
			return CheckResult{Status: StatusHealthy}
		})
	}

	start := time.Now()
	report := r.Check(context.Background())
	if elapsed := time.Since(start); elapsed > 80*time.Millisecond {
		t.Errorf("Check() took %v, checks ran one after another", elapsed)
	}
	if atomic.LoadInt32(&calls) != 5 {
		t.Errorf("calls = %d, want 5", calls)
	}
	for _, c := range report.Checks {
		if c.Duration < 20*time.Millisecond {
			t.Errorf("%s duration = %v", c.Name, c.Duration)
		}
	}
}

func TestPing(t *testing.T) {
	ok := Ping(func(ctx context.Context) error { return nil })(context.Background())
	if ok.Status != StatusHealthy {
		t.Errorf("Status = %s, want healthy", ok.Status)
	}

	failed := Ping(func(ctx context.Context) error { return errors.New("database is locked") })(context.Background())
	if failed.Status != StatusUnhealthy || failed.Message != "database is locked" {
		t.Errorf("result = %+v, want unhealthy with the ping error", failed)
	}
}
