package domain

// HealthStatus indicates preflight check outcomes.
type HealthStatus string

const (
	HealthOK    HealthStatus = "ok"
	HealthWarn  HealthStatus = "warn"
	HealthError HealthStatus = "error"
)

// HealthCheck captures a single diagnostic result.
type HealthCheck struct {
	Name    string
	Status  HealthStatus
	Details string
}

// HealthReport aggregates the preflight checks for one environment.
type HealthReport struct {
	Checks []HealthCheck
}

// Add appends a check result.
func (r *HealthReport) Add(name string, status HealthStatus, details string) {
	r.Checks = append(r.Checks, HealthCheck{Name: name, Status: status, Details: details})
}

// Healthy reports whether no check failed outright. Warnings do not count
// as failures; a session can still start with degraded capabilities.
func (r *HealthReport) Healthy() bool {
	for _, c := range r.Checks {
		if c.Status == HealthError {
			return false
		}
	}
	return true
}
