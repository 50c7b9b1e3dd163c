package observability

import (
	"context"
	"sort"
	"sync"
	"time"
)

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthCheckResult is the outcome of one check.
type HealthCheckResult struct {
	Status   HealthStatus `json:"status"`
	Message  string       `json:"message,omitempty"`
	Duration string       `json:"duration"`
}

// HealthChecker performs a single health check.
type HealthChecker func(ctx context.Context) HealthCheckResult

// OverallHealth aggregates all registered checks.
type OverallHealth struct {
	Status    HealthStatus                 `json:"status"`
	Timestamp time.Time                    `json:"timestamp"`
	Checks    map[string]HealthCheckResult `json:"checks"`
}

// HealthRegistry runs named readiness checks.
type HealthRegistry struct {
	mu       sync.RWMutex
	checkers map[string]HealthChecker
	timeout  time.Duration
}

// NewHealthRegistry creates a registry whose checks are bounded by timeout.
func NewHealthRegistry(timeout time.Duration) *HealthRegistry {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HealthRegistry{
		checkers: make(map[string]HealthChecker),
		timeout:  timeout,
	}
}

// Register adds a checker for a component.
func (r *HealthRegistry) Register(name string, checker HealthChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[name] = checker
}

// Check runs all checks concurrently. Any unhealthy check makes the whole result
// unhealthy; degraded checks only degrade it.
func (r *HealthRegistry) Check(ctx context.Context) OverallHealth {
	r.mu.RLock()
	names := make([]string, 0, len(r.checkers))
	for name := range r.checkers {
		names = append(names, name)
	}
	sort.Strings(names)
	checkers := make([]HealthChecker, len(names))
	for i, name := range names {
		checkers[i] = r.checkers[name]
	}
	r.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	results := make([]HealthCheckResult, len(checkers))
	var wg sync.WaitGroup
	for i, checker := range checkers {
		wg.Add(1)
		go func(i int, checker HealthChecker) {
			defer wg.Done()
			start := time.Now()
			res := checker(ctx)
			res.Duration = time.Since(start).String()
			results[i] = res
		}(i, checker)
	}
	wg.Wait()

	overall := OverallHealth{
		Status:    HealthStatusHealthy,
		Timestamp: time.Now().UTC(),
		Checks:    make(map[string]HealthCheckResult, len(names)),
	}
	for i, name := range names {
		overall.Checks[name] = results[i]
		switch results[i].Status {
		case HealthStatusUnhealthy:
			overall.Status = HealthStatusUnhealthy
		case HealthStatusDegraded:
			if overall.Status == HealthStatusHealthy {
				overall.Status = HealthStatusDegraded
			}
		}
	}
	return overall
}

// PingChecker turns a ping function into a checker. failStatus is reported when ping fails,
// so optional dependencies can degrade instead of fail readiness.
func PingChecker(component string, failStatus HealthStatus, ping func(ctx context.Context) error) HealthChecker {
	return func(ctx context.Context) HealthCheckResult {
		if err := ping(ctx); err != nil {
			return HealthCheckResult{
				Status:  failStatus,
				Message: component + " unreachable: " + err.Error(),
			}
		}
		return HealthCheckResult{Status: HealthStatusHealthy}
	}
}
