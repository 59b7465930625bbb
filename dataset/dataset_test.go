package dataset_test

import (
	"math"
	"strings"
	"testing"

	"github.com/YuminosukeSato/housevalue/dataset"
	"github.com/YuminosukeSato/housevalue/internal/testutil"
	"github.com/YuminosukeSato/housevalue/pkg/errors"
)

func TestLoadCSV_Fixture(t *testing.T) {
	table, err := dataset.LoadCSV("testdata/boston_head.csv", dataset.BostonSchema())
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}

	r, c := table.Dims()
	if r != 6 || c != 14 {
		t.Fatalf("Dims() = (%d, %d), want (6, 14)", r, c)
	}
	if table.Source != "boston_head.csv" {
		t.Errorf("Source = %q", table.Source)
	}
	if table.Index[5] != 5 {
		t.Errorf("Index[5] = %d, want 5", table.Index[5])
	}

	price := table.TargetValues()
	if price[0] != 24.0 || price[2] != 34.7 {
		t.Errorf("unexpected PRICE values %v", price)
	}

	features := table.Features()
	if len(features.Names) != 13 {
		t.Fatalf("expected 13 features, got %d", len(features.Names))
	}
	for _, n := range features.Names {
		if n == dataset.PRICE {
			t.Fatal("target must not be part of the feature frame")
		}
	}
	rm, err := features.Column(dataset.RM)
	if err != nil {
		t.Fatalf("Column(RM): %v", err)
	}
	if rm[0] != 6.575 {
		t.Errorf("RM[0] = %v, want 6.575", rm[0])
	}

	if q := table.Quality(); !q.Clean() {
		t.Errorf("fixture should be clean, got %+v", q)
	}
}

func TestReadCSV_FormatErrors(t *testing.T) {
	header := "," + strings.Join(dataset.BostonSchema().Columns, ",")
	row := "0,0.00632,18,2.31,0,0.538,6.575,65.2,4.09,1,296,15.3,396.9,4.98,24"

	tests := []struct {
		name    string
		input   string
		wantSub string
	}{
		{
			name:    "empty input",
			input:   "",
			wantSub: "input is empty",
		},
		{
			name:    "missing target",
			input:   strings.Replace(header, ",PRICE", ",FOO", 1) + "\n" + row + "\n",
			wantSub: "unexpected column",
		},
		{
			name:    "no leading index column",
			input:   strings.TrimPrefix(header, ",") + ",EXTRA\n",
			wantSub: "missing leading row-index column",
		},
		{
			name:    "too few columns",
			input:   strings.TrimSuffix(header, ",PRICE") + "\n",
			wantSub: "expected 14 columns",
		},
		{
			name:    "duplicate column",
			input:   strings.Replace(header, ",ZN,", ",CRIM,", 1) + "\n" + row + "\n",
			wantSub: "duplicate column",
		},
		{
			name:    "ragged row",
			input:   header + "\n" + row + ",1\n",
			wantSub: "expected 15 fields, got 16",
		},
		{
			name:    "non numeric field",
			input:   header + "\n" + strings.Replace(row, "6.575", "six", 1) + "\n",
			wantSub: "line 2 (column RM)",
		},
		{
			name:    "no data rows",
			input:   header + "\n",
			wantSub: "no data rows",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dataset.ReadCSV(strings.NewReader(tt.input), dataset.BostonSchema())
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var formatErr *errors.DataFormatError
			if !errors.As(err, &formatErr) {
				t.Fatalf("expected DataFormatError, got %T: %v", err, err)
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantSub)
			}
		})
	}
}

func TestQuality_MissingAndDuplicates(t *testing.T) {
	header := "," + strings.Join(dataset.BostonSchema().Columns, ",")
	row := "0.00632,18,2.31,0,0.538,6.575,65.2,4.09,1,296,15.3,396.9,4.98,24"
	input := header + "\n" +
		"0," + row + "\n" +
		"1," + row + "\n" + // duplicate values under a different row id
		"2," + strings.Replace(row, "6.575", "", 1) + "\n" +
		"3," + strings.Replace(row, "4.98", "NaN", 1) + "\n"

	table, err := dataset.ReadCSV(strings.NewReader(input), dataset.BostonSchema())
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}

	q := table.Quality()
	if q.MissingCount != 2 {
		t.Errorf("MissingCount = %d, want 2", q.MissingCount)
	}
	if q.DuplicateCount != 1 {
		t.Errorf("DuplicateCount = %d, want 1", q.DuplicateCount)
	}
	if q.Clean() {
		t.Error("Clean() should be false")
	}

	var warned []error
	errors.SetWarningHandler(func(w error) { warned = append(warned, w) })
	defer errors.SetWarningHandler(nil)

	if _, err := dataset.CheckQuality(table, false); err != nil {
		t.Errorf("advisory check should not fail: %v", err)
	}
	if len(warned) != 1 {
		t.Errorf("expected one warning, got %d", len(warned))
	}

	_, err = dataset.CheckQuality(table, true)
	var formatErr *errors.DataFormatError
	if !errors.As(err, &formatErr) {
		t.Errorf("strict check should return DataFormatError, got %v", err)
	}
}

func TestDescribeAndQuantile(t *testing.T) {
	table := testutil.HousingTable(t, 506, 10)

	summary := table.Describe()
	if len(summary) != 14 {
		t.Fatalf("expected 14 column summaries, got %d", len(summary))
	}
	for _, s := range summary {
		if s.Count != 506 {
			t.Errorf("%s: Count = %d, want 506", s.Name, s.Count)
		}
		if !(s.Min <= s.Q25 && s.Q25 <= s.Q50 && s.Q50 <= s.Q75 && s.Q75 <= s.Max) {
			t.Errorf("%s: quantiles out of order: %+v", s.Name, s)
		}
		if s.Std < 0 || math.IsNaN(s.Std) {
			t.Errorf("%s: invalid std %v", s.Name, s.Std)
		}
	}

	q75, err := table.Quantile(dataset.NOX, 0.75)
	if err != nil {
		t.Fatalf("Quantile: %v", err)
	}
	if q75 != summary[table.ColumnIndex(dataset.NOX)].Q75 {
		t.Errorf("Quantile(NOX, .75) = %v disagrees with Describe", q75)
	}

	if _, err := table.Quantile(dataset.NOX, 1.5); err == nil {
		t.Error("expected error for p outside [0, 1]")
	}
	if _, err := table.Quantile("FOO", 0.5); err == nil {
		t.Error("expected error for unknown column")
	}
}

func TestValueCountsAndCorrelation(t *testing.T) {
	table := testutil.HousingTable(t, 506, 10)

	counts, err := table.ValueCounts(dataset.CHAS)
	if err != nil {
		t.Fatalf("ValueCounts: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("CHAS should have two levels, got %v", counts)
	}
	if counts[0].Value != 0 || counts[0].Count <= counts[1].Count {
		t.Errorf("most homes should be away from the river: %v", counts)
	}
	if counts[0].Count+counts[1].Count != 506 {
		t.Errorf("counts do not add up to 506: %v", counts)
	}

	corr := table.Correlation()
	n := corr.SymmetricDim()
	if n != 14 {
		t.Fatalf("correlation dim = %d, want 14", n)
	}
	for i := 0; i < n; i++ {
		if math.Abs(corr.At(i, i)-1) > 1e-9 {
			t.Errorf("diagonal %d = %v, want 1", i, corr.At(i, i))
		}
	}
	rm, price := table.ColumnIndex(dataset.RM), table.ColumnIndex(dataset.PRICE)
	if corr.At(rm, price) <= 0 {
		t.Errorf("RM and PRICE should correlate positively, got %v", corr.At(rm, price))
	}
}

func TestFrameTakeAndMeans(t *testing.T) {
	frame, err := dataset.NewFrame([]string{"A", "B"}, [][]float64{{1, 10}, {2, 20}, {3, 30}})
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}

	sub := frame.Take([]int{2, 0})
	if sub.Len() != 2 || sub.Row(0)[0] != 3 || sub.Row(1)[1] != 10 {
		t.Errorf("Take returned wrong rows: %v %v", sub.Row(0), sub.Row(1))
	}

	means := frame.Means()
	if means[0] != 2 || means[1] != 20 {
		t.Errorf("Means() = %v, want [2 20]", means)
	}

	if _, err := dataset.NewFrame([]string{"A"}, [][]float64{{1, 2}}); err == nil {
		t.Error("expected dimension error for ragged row")
	}
}

func TestQuantileSorted(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	tests := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{0.25, 1.75},
		{0.5, 2.5},
		{0.75, 3.25},
		{1, 4},
	}
	for _, tt := range tests {
		if got := dataset.QuantileSorted(tt.p, x); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("QuantileSorted(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
	if !math.IsNaN(dataset.QuantileSorted(0.5, nil)) {
		t.Error("QuantileSorted of an empty sample should be NaN")
	}
}
