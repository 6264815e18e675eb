package health

import (
	"context"
	"errors"
	"testing"
)

type mockPinger struct {
	pingFn func(ctx context.Context) error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

type mockChecker struct {
	checkFn func(ctx context.Context) error
}

func (m *mockChecker) HealthCheck(ctx context.Context) error {
	if m.checkFn != nil {
		return m.checkFn(ctx)
	}
	return nil
}

func TestCheckAllHealthy(t *testing.T) {
	s := New(&mockPinger{}, &mockChecker{}, &mockChecker{})

	report := s.Check(context.Background())
	if report.Status != Healthy {
		t.Errorf("status = %q, want %q", report.Status, Healthy)
	}
	for _, name := range []string{"database", "embedding", "llm"} {
		if report.Checks[name] != CheckOK {
			t.Errorf("check %q = %q, want ok", name, report.Checks[name])
		}
	}
}

func TestCheckDatabaseDown(t *testing.T) {
	s := New(&mockPinger{
		pingFn: func(context.Context) error { return errors.New("connection refused") },
	}, nil, nil)

	report := s.Check(context.Background())
	if report.Status != Degraded {
		t.Errorf("status = %q, want %q", report.Status, Degraded)
	}
	if report.Checks["database"] != CheckError {
		t.Errorf("database check = %q, want error", report.Checks["database"])
	}
}

func TestCheckUnconfiguredProvidersNotReported(t *testing.T) {
	s := New(&mockPinger{}, nil, nil)

	report := s.Check(context.Background())
	if report.Status != Healthy {
		t.Errorf("status = %q, want %q", report.Status, Healthy)
	}
	if _, ok := report.Checks["embedding"]; ok {
		t.Error("unconfigured embedding provider reported")
	}
	if _, ok := report.Checks["llm"]; ok {
		t.Error("unconfigured llm provider reported")
	}
}

func TestCheckProviderDownDegrades(t *testing.T) {
	s := New(&mockPinger{}, &mockChecker{
		checkFn: func(context.Context) error { return errors.New("timeout") },
	}, &mockChecker{})

	report := s.Check(context.Background())
	if report.Status != Degraded {
		t.Errorf("status = %q, want %q", report.Status, Degraded)
	}
	if report.Checks["embedding"] != CheckError {
		t.Errorf("embedding check = %q, want error", report.Checks["embedding"])
	}
	if report.Checks["llm"] != CheckOK {
		t.Errorf("llm check = %q, want ok", report.Checks["llm"])
	}
}
