// Package testutil builds deterministic housing tables for tests.
package testutil

import (
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/YuminosukeSato/housevalue/dataset"
)

// LogPriceNoise is the standard deviation of the noise added to log PRICE.
const LogPriceNoise = 0.22

// radValues mirrors the highway-access index levels of the reference data.
var radValues = []float64{1, 2, 3, 4, 5, 6, 7, 8, 24}

// HousingRows generates n Boston-shaped rows in BostonSchema column order.
// Log PRICE is linear in the features plus Gaussian noise, so a model fit on
// raw PRICE sees right-skewed residuals while one fit on log PRICE does not.
func HousingRows(n int, seed uint64) [][]float64 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	rows := make([][]float64, n)
	for i := range rows {
		crim := math.Exp(rng.NormFloat64()*1.4 - 1.0)
		zn := 0.0
		if rng.Float64() < 0.25 {
			zn = 12.5 + rng.Float64()*87.5
		}
		indus := 0.5 + rng.Float64()*27
		chas := 0.0
		if rng.Float64() < 0.07 {
			chas = 1
		}
		nox := 0.38 + 0.012*indus + rng.Float64()*0.15
		rm := 6.28 + rng.NormFloat64()*0.7
		age := 3 + rng.Float64()*97
		dis := 1.1 + rng.Float64()*11
		rad := radValues[rng.IntN(len(radValues))]
		tax := 187 + rng.Float64()*524
		ptratio := 12.6 + rng.Float64()*9.4
		b := 396.9 - math.Abs(rng.NormFloat64())*40
		lstat := math.Min(38, math.Max(1.7, 12.6+rng.NormFloat64()*7))

		logPrice := 3.05 +
			0.32*(rm-6.28) -
			0.032*(lstat-12.6) -
			0.045*(ptratio-18.5) +
			0.12*chas -
			0.9*(nox-0.55) -
			0.012*crim -
			0.025*(dis-6) +
			0.0004*(b-356) +
			rng.NormFloat64()*LogPriceNoise

		rows[i] = []float64{crim, zn, indus, chas, nox, rm, age, dis, rad, tax, ptratio, b, lstat, math.Exp(logPrice)}
	}
	return rows
}

// HousingTable wraps HousingRows in a Table with BostonSchema columns.
func HousingTable(tb testing.TB, n int, seed uint64) *dataset.Table {
	tb.Helper()
	schema := dataset.BostonSchema()
	table, err := dataset.NewTable(schema.Columns, schema.Target, nil, HousingRows(n, seed))
	if err != nil {
		tb.Fatalf("failed to build housing table: %v", err)
	}
	return table
}

// HousingCSV renders rows as the on-disk format: an unnamed leading index
// column followed by the BostonSchema header.
func HousingCSV(rows [][]float64) string {
	var b strings.Builder
	b.WriteString("," + strings.Join(dataset.BostonSchema().Columns, ",") + "\n")
	for i, row := range rows {
		b.WriteString(strconv.Itoa(i))
		for _, v := range row {
			b.WriteByte(',')
			b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteHousingCSV writes n generated rows to a file under a temp dir and
// returns its path.
func WriteHousingCSV(tb testing.TB, n int, seed uint64) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), fmt.Sprintf("boston_%d.csv", seed))
	if err := os.WriteFile(path, []byte(HousingCSV(HousingRows(n, seed))), 0o644); err != nil {
		tb.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
