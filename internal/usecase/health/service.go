// Package health aggregates component availability checks.
package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates the store backing both cache and catalog is down.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db     DBPinger
	vector VectorChecker
}

// New creates a Service. vector can be nil.
func New(db DBPinger, vector VectorChecker) *Service {
	return &Service{db: db, vector: vector}
}

// Check runs health checks against all components. The store is load-bearing
// for both the result cache and the workspace catalog, so its failure alone
// makes the report unhealthy; a failing vector backend degrades it.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	dbOK := s.db.Ping(ctx) == nil
	if dbOK {
		checks["database"] = CheckOK
	} else {
		checks["database"] = CheckError
	}

	if s.vector != nil {
		if err := s.vector.HealthCheck(ctx); err != nil {
			checks["vector_backend"] = CheckError
		} else {
			checks["vector_backend"] = CheckOK
		}
	}

	status := Healthy
	if !dbOK {
		status = Unhealthy
	} else {
		for _, v := range checks {
			if v == CheckError {
				status = Degraded
				break
			}
		}
	}

	return Report{Status: status, Checks: checks}
}
