// Package healthcheck aggregates named dependency probes into one readiness
// report.
package healthcheck

import (
	"context"
	"sync"
	"time"
)

// Probe checks one dependency
type Probe func(ctx context.Context) error

// CheckResult is the outcome of one probe
type CheckResult struct {
	Name     string        `json:"name"`
	Healthy  bool          `json:"healthy"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Report aggregates all probe outcomes
type Report struct {
	Healthy bool          `json:"healthy"`
	Checks  []CheckResult `json:"checks"`
}

// Checker runs registered probes with a shared timeout
type Checker struct {
	mu      sync.RWMutex
	timeout time.Duration
	probes  []namedProbe
}

type namedProbe struct {
	name  string
	probe Probe
}

// NewChecker creates a checker; probes each get the given timeout
func NewChecker(timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Checker{timeout: timeout}
}

// Register adds a named probe
func (c *Checker) Register(name string, probe Probe) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.probes = append(c.probes, namedProbe{name: name, probe: probe})
}

// Check runs every probe and aggregates the results. Probes run
// sequentially; the set is small and order keeps reports stable.
func (c *Checker) Check(ctx context.Context) Report {
	c.mu.RLock()
	probes := make([]namedProbe, len(c.probes))
	copy(probes, c.probes)
	c.mu.RUnlock()

	report := Report{Healthy: true, Checks: make([]CheckResult, 0, len(probes))}
	for _, p := range probes {
		probeCtx, cancel := context.WithTimeout(ctx, c.timeout)
		start := time.Now()
		err := p.probe(probeCtx)
		cancel()

		result := CheckResult{
			Name:     p.name,
			Healthy:  err == nil,
			Duration: time.Since(start),
		}
		if err != nil {
			result.Error = err.Error()
			report.Healthy = false
		}
		report.Checks = append(report.Checks, result)
	}
	return report
}
