// Package health aggregates named liveness checks into one report for the
// /health endpoint.
package health

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Status of a single check or of the whole report
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// CheckResult is the outcome of one check. Name and Duration are filled in
// by the registry.
type CheckResult struct {
	Name     string                 `json:"name"`
	Status   Status                 `json:"status"`
	Message  string                 `json:"message,omitempty"`
	Duration time.Duration          `json:"duration"`
	Details  map[string]interface{} `json:"details,omitempty"`
}

// Check probes one dependency
type Check func(ctx context.Context) CheckResult

// Ping adapts a ping function, such as a database handle's, into a Check
func Ping(ping func(ctx context.Context) error) Check {
	return func(ctx context.Context) CheckResult {
		if err := ping(ctx); err != nil {
			return CheckResult{Status: StatusUnhealthy, Message: err.Error()}
		}
		return CheckResult{Status: StatusHealthy, Message: "ping ok"}
	}
}

// Report is the aggregated result, checks sorted by name
type Report struct {
	Service   string        `json:"service"`
	Version   string        `json:"version"`
	Status    Status        `json:"status"`
	Uptime    time.Duration `json:"uptime"`
	Timestamp time.Time     `json:"timestamp"`
	Checks    []CheckResult `json:"checks"`
}

// Registry holds the named checks of one service
type Registry struct {
	service string
	version string
	started time.Time

	mu     sync.RWMutex
	checks map[string]Check
}

// NewRegistry creates an empty registry; uptime counts from now
func NewRegistry(service, version string) *Registry {
	return &Registry{
		service: service,
		version: version,
		started: time.Now(),
		checks:  make(map[string]Check),
	}
}

// Register adds or replaces the check called name
func (r *Registry) Register(name string, check Check) {
	r.mu.Lock()
	r.checks[name] = check
	r.mu.Unlock()
}

// Check runs every check concurrently. The report is unhealthy as soon as
// one check is.
func (r *Registry) Check(ctx context.Context) *Report {
	r.mu.RLock()
	names := make([]string, 0, len(r.checks))
	for name := range r.checks {
		names = append(names, name)
	}
	checks := make([]Check, len(names))
	sort.Strings(names)
	for i, name := range names {
		checks[i] = r.checks[name]
	}
	r.mu.RUnlock()

	results := make([]CheckResult, len(names))
	var wg sync.WaitGroup
	for i := range checks {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			start := time.Now()
			res := checks[i](ctx)
			res.Name = names[i]
			res.Duration = time.Since(start)
			results[i] = res
		}(i)
	}
	wg.Wait()

	status := StatusHealthy
	for _, res := range results {
		if res.Status != StatusHealthy {
			status = StatusUnhealthy
		}
	}
	return &Report{
		Service:   r.service,
		Version:   r.version,
		Status:    status,
		Uptime:    time.Since(r.started),
		Timestamp: time.Now(),
		Checks:    results,
	}
}
