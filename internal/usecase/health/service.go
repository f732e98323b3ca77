package health

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates the database is unreachable, so nothing can be served.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckEmpty indicates an index that exists but holds no passages.
	CheckEmpty CheckResult = "empty"
)

// Report aggregates health check results.
type Report struct {
	Status    Status
	Checks    map[string]CheckResult
	Documents int
}

// Service coordinates health checks.
type Service struct {
	db        DBPinger
	embedding EmbeddingChecker
	corpus    CorpusCounter
}

// New creates a Service. embedding and corpus can be nil.
func New(db DBPinger, embedding EmbeddingChecker, corpus CorpusCounter) *Service {
	return &Service{db: db, embedding: embedding, corpus: corpus}
}

// Check runs all component checks concurrently.
func (s *Service) Check(ctx context.Context) Report {
	var (
		mu     sync.Mutex
		checks = make(map[string]CheckResult, 3)
		docs   int
	)
	set := func(name string, r CheckResult) {
		mu.Lock()
		checks[name] = r
		mu.Unlock()
	}

	var g errgroup.Group
	g.Go(func() error {
		set("database", result(s.db.Ping(ctx)))
		return nil
	})
	if s.embedding != nil {
		g.Go(func() error {
			set("embedding", result(s.embedding.HealthCheck(ctx)))
			return nil
		})
	}
	if s.corpus != nil {
		g.Go(func() error {
			n, err := s.corpus.Count(ctx)
			switch {
			case err != nil:
				set("corpus", CheckError)
			case n == 0:
				set("corpus", CheckEmpty)
			default:
				set("corpus", CheckOK)
			}
			mu.Lock()
			docs = n
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return Report{Status: aggregate(checks), Checks: checks, Documents: docs}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}

func aggregate(checks map[string]CheckResult) Status {
	if checks["database"] == CheckError {
		return Unhealthy
	}
	for _, v := range checks {
		if v != CheckOK {
			return Degraded
		}
	}
	return Healthy
}
