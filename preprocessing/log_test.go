package preprocessing

import (
	"math"
	"testing"

	"github.com/YuminosukeSato/housevalue/core/model"
	"github.com/YuminosukeSato/housevalue/pkg/errors"
)

var _ model.TargetTransformer = LogTransformer{}

func TestToLogScale_RoundTrip(t *testing.T) {
	prices := []float64{5.0, 21.2, 24.0, 34.7, 50.0, 0.001}

	logged, err := ToLogScale(prices)
	if err != nil {
		t.Fatalf("ToLogScale() error = %v", err)
	}
	back := FromLogScale(logged)
	for i, want := range prices {
		if math.Abs(back[i]-want) > 1e-9*want {
			t.Errorf("round trip [%d] = %v, want %v", i, back[i], want)
		}
		if got := FromLogScaleValue(logged[i]); got != back[i] {
			t.Errorf("FromLogScaleValue disagrees with FromLogScale at %d", i)
		}
	}
	if math.Abs(logged[2]-math.Log(24.0)) > 1e-15 {
		t.Errorf("log(24) = %v", logged[2])
	}
}

func TestToLogScale_Domain(t *testing.T) {
	tests := []struct {
		name      string
		values    []float64
		wantIndex int
	}{
		{"zero", []float64{1, 2, 0, 4}, 2},
		{"negative", []float64{-3, 2}, 0},
		{"NaN", []float64{1, math.NaN()}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ToLogScale(tt.values)
			if out != nil {
				t.Error("no partial output expected on error")
			}
			var domainErr *errors.DomainError
			if !errors.As(err, &domainErr) {
				t.Fatalf("expected DomainError, got %v", err)
			}
			if domainErr.Index != tt.wantIndex {
				t.Errorf("Index = %d, want %d", domainErr.Index, tt.wantIndex)
			}
		})
	}
}

func TestLogTransformer(t *testing.T) {
	var tr LogTransformer
	y := []float64{1, math.E, math.E * math.E}

	logged, err := tr.Transform(y)
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	for i, want := range []float64{0, 1, 2} {
		if math.Abs(logged[i]-want) > 1e-12 {
			t.Errorf("Transform()[%d] = %v, want %v", i, logged[i], want)
		}
	}
	back := tr.InverseTransform(logged)
	for i := range y {
		if math.Abs(back[i]-y[i]) > 1e-12*y[i] {
			t.Errorf("InverseTransform()[%d] = %v, want %v", i, back[i], y[i])
		}
	}
}
