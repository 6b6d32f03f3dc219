package health

import "context"

// DBPinger checks key-value store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// VectorChecker checks vector search backend availability.
type VectorChecker interface {
	HealthCheck(ctx context.Context) error
}
