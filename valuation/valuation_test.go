package valuation

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/housevalue/dataset"
	"github.com/YuminosukeSato/housevalue/internal/testutil"
	"github.com/YuminosukeSato/housevalue/linear"
	"github.com/YuminosukeSato/housevalue/modelselection"
	"github.com/YuminosukeSato/housevalue/pkg/errors"
	"github.com/YuminosukeSato/housevalue/pkg/log"
	"github.com/YuminosukeSato/housevalue/preprocessing"
)

type fixture struct {
	table    *dataset.Table
	split    modelselection.Split
	rawModel *linear.Model
	logModel *linear.Model
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	table := testutil.HousingTable(t, 506, 21)
	split, err := modelselection.TrainTestSplit(table, dataset.PRICE, 0.2, 10)
	if err != nil {
		t.Fatal(err)
	}
	logY, err := preprocessing.ToLogScale(table.TargetValues())
	if err != nil {
		t.Fatal(err)
	}
	logSplit, err := split.Partition.Apply(table.Features(), logY)
	if err != nil {
		t.Fatal(err)
	}

	rawModel, err := linear.NewLinearRegression(linear.WithLogger(log.Nop())).Fit(split.TrainX, split.TrainY)
	if err != nil {
		t.Fatal(err)
	}
	logModel, err := linear.NewLinearRegression(
		linear.WithTargetScale(linear.ScaleLog), linear.WithLogger(log.Nop()),
	).Fit(logSplit.TrainX, logSplit.TrainY)
	if err != nil {
		t.Fatal(err)
	}
	return fixture{table: table, split: split, rawModel: rawModel, logModel: logModel}
}

func TestBuildDefaultQuery_Means(t *testing.T) {
	f := newFixture(t)
	q := BuildDefaultQuery(f.split.TrainX)

	if len(q.Names()) != 13 {
		t.Fatalf("expected 13 fields, got %d", len(q.Names()))
	}
	for _, name := range f.split.TrainX.Names {
		col, err := f.split.TrainX.Column(name)
		if err != nil {
			t.Fatal(err)
		}
		got, ok := q.Get(name)
		if !ok {
			t.Fatalf("field %s missing", name)
		}
		if want := stat.Mean(col, nil); got != want {
			t.Errorf("%s = %v, want training mean %v", name, got, want)
		}
	}
}

func TestApplyOverrides(t *testing.T) {
	f := newFixture(t)
	base := BuildDefaultQuery(f.split.TrainX)
	before := base.Values()

	q, err := ApplyOverrides(base, map[string]float64{dataset.RM: 8, dataset.CHAS: 1})
	if err != nil {
		t.Fatalf("ApplyOverrides() error = %v", err)
	}

	for i, name := range q.Names() {
		got := q.Values()[i]
		switch name {
		case dataset.RM:
			if got != 8 {
				t.Errorf("RM = %v, want 8", got)
			}
		case dataset.CHAS:
			if got != 1 {
				t.Errorf("CHAS = %v, want 1", got)
			}
		default:
			if got != before[i] {
				t.Errorf("%s changed from %v to %v", name, before[i], got)
			}
		}
	}

	for i, v := range base.Values() {
		if v != before[i] {
			t.Fatal("ApplyOverrides mutated its input")
		}
	}
}

func TestApplyOverrides_UnknownField(t *testing.T) {
	f := newFixture(t)
	base := BuildDefaultQuery(f.split.TrainX)
	before := base.Values()

	_, err := ApplyOverrides(base, map[string]float64{dataset.RM: 8, "FOO": 1})
	var unknown *errors.UnknownFieldError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownFieldError, got %v", err)
	}
	if unknown.Field != "FOO" {
		t.Errorf("Field = %q, want FOO", unknown.Field)
	}
	for i, v := range base.Values() {
		if v != before[i] {
			t.Fatal("failed ApplyOverrides left partial state")
		}
	}

	_, err = EstimateWithOverrides(f.logModel, base, map[string]float64{"FOO": 1}, true)
	if !errors.As(err, &unknown) {
		t.Errorf("EstimateWithOverrides: expected UnknownFieldError, got %v", err)
	}
}

func TestEstimate_RawAndLogAgree(t *testing.T) {
	f := newFixture(t)
	q := BuildDefaultQuery(f.split.TrainX)

	raw, err := Estimate(f.rawModel, q, false)
	if err != nil {
		t.Fatalf("Estimate(raw) error = %v", err)
	}
	logged, err := Estimate(f.logModel, q, true)
	if err != nil {
		t.Fatalf("Estimate(log) error = %v", err)
	}

	for name, v := range map[string]float64{"raw": raw, "log": logged} {
		if v < 10_000 || v > 50_000 {
			t.Errorf("%s estimate %v is not a plausible dollar value for an average home", name, v)
		}
	}
	if ratio := raw / logged; ratio < 0.5 || ratio > 2 {
		t.Errorf("raw %v and log %v estimates disagree in magnitude", raw, logged)
	}

	logPred, err := f.logModel.PredictRow(q.Names(), q.Values())
	if err != nil {
		t.Fatal(err)
	}
	if want := math.Exp(logPred) * PriceScale; math.Abs(logged-want) > 1e-9*want {
		t.Errorf("log estimate = %v, want exp(%v)*1000 = %v", logged, logPred, want)
	}
}

func TestEstimate_ShapeMismatch(t *testing.T) {
	f := newFixture(t)
	q, err := NewQuery([]string{dataset.RM}, []float64{6})
	if err != nil {
		t.Fatal(err)
	}
	_, err = Estimate(f.rawModel, q, false)
	var shapeErr *errors.ShapeMismatchError
	if !errors.As(err, &shapeErr) {
		t.Errorf("expected ShapeMismatchError, got %v", err)
	}
}

func TestPropertySpec_Overrides(t *testing.T) {
	f := newFixture(t)
	overrides, err := DefaultPropertySpec().Overrides(f.table)
	if err != nil {
		t.Fatalf("Overrides() error = %v", err)
	}

	nox75, _ := f.table.Quantile(dataset.NOX, 0.75)
	lstat25, _ := f.table.Quantile(dataset.LSTAT, 0.25)
	want := map[string]float64{
		dataset.CHAS:    1,
		dataset.RM:      8,
		dataset.PTRATIO: 20,
		dataset.DIS:     5,
		dataset.NOX:     nox75,
		dataset.LSTAT:   lstat25,
	}
	if len(overrides) != len(want) {
		t.Fatalf("got %d overrides, want %d", len(overrides), len(want))
	}
	for k, v := range want {
		if overrides[k] != v {
			t.Errorf("%s = %v, want %v", k, overrides[k], v)
		}
	}

	base := BuildDefaultQuery(f.split.TrainX)
	custom, err := EstimateWithOverrides(f.logModel, base, overrides, true)
	if err != nil {
		t.Fatal(err)
	}
	average, err := Estimate(f.logModel, base, true)
	if err != nil {
		t.Fatal(err)
	}
	// eight rooms by the river outweighs the extra pollution
	if custom <= average {
		t.Errorf("custom property %v should be worth more than the average %v", custom, average)
	}

	bad := DefaultPropertySpec()
	bad.PovertyQuantile = 2
	if _, err := bad.Overrides(f.table); err == nil {
		t.Error("expected error for quantile outside [0, 1]")
	}
}
