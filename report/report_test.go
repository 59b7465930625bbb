package report

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/housevalue/dataset"
	"github.com/YuminosukeSato/housevalue/internal/testutil"
	"github.com/YuminosukeSato/housevalue/pipeline"
	"github.com/YuminosukeSato/housevalue/pkg/errors"
	"github.com/YuminosukeSato/housevalue/pkg/log"
)

func analyzed(t *testing.T) *pipeline.Report {
	t.Helper()
	cfg := pipeline.DefaultConfig()
	cfg.CVFolds = 3
	r, err := pipeline.Analyze(context.Background(), testutil.HousingTable(t, 300, 4), cfg, log.Nop())
	require.NoError(t, err)
	return r
}

func TestText(t *testing.T) {
	r := analyzed(t)

	var buf bytes.Buffer
	require.NoError(t, Text(&buf, r))
	out := buf.String()

	for _, want := range []string{
		"Summary statistics",
		"Correlation with PRICE",
		"Coefficients",
		"raw_price",
		"log_price",
		"3-fold cross-validation",
		"Estimates",
		"RM premium",
		"Next to Charles River (CHAS)",
		"train R²",
		"test MAE (PRICE)",
		"mean ± std",
	} {
		assert.Contains(t, out, want)
	}
	assert.Contains(t, out, "┌", "text output uses the light box style")
	assert.NotContains(t, out, "Charts")
	assert.NotContains(t, out, "RM PREMIUM", "footers keep their case")
}

func TestText_ExploreOnly(t *testing.T) {
	r, err := pipeline.Explore(testutil.HousingTable(t, 50, 4), pipeline.DefaultConfig(), log.Nop())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Text(&buf, r))
	out := buf.String()
	assert.Contains(t, out, "Summary statistics")
	assert.Contains(t, out, "(stream)")
	assert.NotContains(t, out, "Coefficients")
	assert.NotContains(t, out, "Estimates")
}

func TestMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, analyzed(t), FormatMarkdown))
	assert.Contains(t, buf.String(), "| --- |")
}

func TestJSON(t *testing.T) {
	r := analyzed(t)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, r, FormatJSON))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "estimates")
	assert.Contains(t, decoded, "cross_validation")
	assert.Equal(t, float64(r.Split.Train), decoded["split"].(map[string]any)["train"])
	assert.True(t, strings.HasPrefix(buf.String(), "{\n  \""))
}

func TestRender_Errors(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, &pipeline.Report{}, "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be one of text, markdown, json")

	assert.Error(t, Text(&buf, nil))
}

func TestEstimate(t *testing.T) {
	r := analyzed(t)

	var buf bytes.Buffer
	require.NoError(t, Estimate(&buf, r, FormatText))
	assert.Contains(t, buf.String(), "custom")
	assert.NotContains(t, buf.String(), "Coefficients")

	buf.Reset()
	require.NoError(t, Estimate(&buf, r, FormatJSON))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.InDelta(t, r.Estimates.Custom, decoded["custom"], 1e-9)
}

func TestJSON_ExploreWithMissingCell(t *testing.T) {
	rows := testutil.HousingRows(60, 4)
	rows[5][0] = math.NaN()
	rows[9][13] = math.NaN()
	schema := dataset.BostonSchema()
	table, err := dataset.NewTable(schema.Columns, schema.Target, nil, rows)
	require.NoError(t, err)

	errors.SetWarningHandler(func(error) {})
	defer errors.SetWarningHandler(nil)

	r, err := pipeline.Explore(table, pipeline.DefaultConfig(), log.Nop())
	require.NoError(t, err)
	assert.Equal(t, 2, r.Quality.MissingCount)

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, r))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, float64(2), decoded["quality"].(map[string]any)["missing"])

	buf.Reset()
	require.NoError(t, Text(&buf, r))
	assert.Contains(t, buf.String(), "missing values")
}
