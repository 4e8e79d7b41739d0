package health

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusHealthy, "healthy"},
		{StatusDegraded, "degraded"},
		{StatusUnhealthy, "unhealthy"},
		{Status(99), "unknown"},
	}
	for _, tc := range tests {
		if got := tc.status.String(); got != tc.want {
			t.Errorf("Status(%d).String() = %q, want %q", tc.status, got, tc.want)
		}
	}
}

func TestResult_JSON(t *testing.T) {
	r := Degraded("large").WithDetails(map[string]any{"bytes": 10})
	r.Error = errors.New("not serialized")

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["status"] != "degraded" {
		t.Errorf("status = %v, want degraded", decoded["status"])
	}
	if _, ok := decoded["Error"]; ok {
		t.Error("error should not be serialized")
	}
}

func TestResultConstructors(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name   string
		result Result
		status Status
		err    error
	}{
		{"healthy", Healthy("ok"), StatusHealthy, nil},
		{"degraded", Degraded("slow"), StatusDegraded, nil},
		{"unhealthy", Unhealthy("down", boom), StatusUnhealthy, boom},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.result.Status != tc.status {
				t.Errorf("Status = %v, want %v", tc.result.Status, tc.status)
			}
			if tc.result.Error != tc.err {
				t.Errorf("Error = %v, want %v", tc.result.Error, tc.err)
			}
			if tc.result.Timestamp.IsZero() {
				t.Error("Timestamp should be set")
			}
		})
	}
}

func TestCheckerFunc(t *testing.T) {
	type ctxKey struct{}
	checker := NewCheckerFunc("fn", func(ctx context.Context) Result {
		if ctx.Value(ctxKey{}) != "v" {
			return Unhealthy("context lost", nil)
		}
		return Healthy("ok")
	})

	if checker.Name() != "fn" {
		t.Errorf("Name() = %q", checker.Name())
	}
	ctx := context.WithValue(context.Background(), ctxKey{}, "v")
	if got := checker.Check(ctx); got.Status != StatusHealthy {
		t.Errorf("Check() = %+v", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		ratio float64
		want  Status
	}{
		{0.1, StatusHealthy},
		{0.8, StatusDegraded},
		{0.9, StatusDegraded},
		{0.95, StatusUnhealthy},
		{2, StatusUnhealthy},
	}
	for _, tc := range tests {
		if got := classify(tc.ratio, 0.8, 0.95); got != tc.want {
			t.Errorf("classify(%v) = %v, want %v", tc.ratio, got, tc.want)
		}
	}
}
