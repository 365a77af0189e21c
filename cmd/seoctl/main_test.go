package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Optimiser/internal/broker"
	"github.com/MikeSquared-Agency/Optimiser/internal/scoring"
	"github.com/MikeSquared-Agency/Optimiser/internal/store"
	"github.com/MikeSquared-Agency/Optimiser/internal/suggestions"
)

const landingPage = `<!doctype html>
<html><head>
<title>Roof repairs in Cardiff by a family roofer</title>
<meta name="description" content="Roof repairs in Cardiff: slipped tiles, flat roofs and leadwork fixed by a local family roofer with 20 years of experience.">
<link rel="canonical" href="https://roofs.example/roof-repairs/">
</head><body>
<h1>Roof repairs in Cardiff</h1>
<h2>What we fix</h2>
<p>Roof repairs for slipped tiles, cracked ridges and leaking flat roofs.</p>
<img src="/img/ridge.jpg" alt="Roofer repointing a ridge tile">
<a href="/contact/">Contact us</a>
<a href="https://www.gov.uk/planning-permission">Planning guidance</a>
</body></html>`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writePage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roof-repairs.html")
	require.NoError(t, os.WriteFile(path, []byte(landingPage), 0o644))
	return path
}

func TestAnalyzeReport(t *testing.T) {
	out, err := run(t, "analyze", writePage(t), "--keyword", "roof repairs", "--url", "https://roofs.example/roof-repairs/")
	require.NoError(t, err)

	assert.Contains(t, out, "Subject 1:")
	assert.Contains(t, out, "(complete)")
	assert.Contains(t, out, "Technical SEO")
	assert.Contains(t, out, string(suggestions.AddSchemaMarkup))
}

func TestAnalyzeJSONAndStore(t *testing.T) {
	page := writePage(t)
	db := filepath.Join(t.TempDir(), "seo.db")

	out, err := run(t, "analyze", page, "--id", "12", "--keyword", "roof repairs", "--db", db, "--json")
	require.NoError(t, err)
	var first broker.Result
	require.NoError(t, json.Unmarshal([]byte(out), &first))
	assert.Equal(t, int64(12), first.SubjectID)
	assert.False(t, first.Unchanged)
	require.NotNil(t, first.Persisted)
	assert.True(t, first.Persisted.OK())

	var bd scoring.Breakdown
	require.NoError(t, json.Unmarshal(first.Breakdown, &bd))
	assert.Len(t, bd.Contexts, 4)

	out, err = run(t, "analyze", page, "--id", "12", "--keyword", "roof repairs", "--db", db, "--json")
	require.NoError(t, err)
	var second broker.Result
	require.NoError(t, json.Unmarshal([]byte(out), &second))
	assert.True(t, second.Unchanged)
	assert.Equal(t, first.ScorePercentage, second.ScorePercentage)

	out, err = run(t, "score", "12", "--db", db, "--json")
	require.NoError(t, err)
	var rec store.AnalysisRecord
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, first.ScorePercentage, rec.ScorePercentage)

	out, err = run(t, "score", "--db", db)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "12\t"), out)

	_, err = run(t, "score", "99", "--db", db)
	assert.Error(t, err)
}

func TestAnalyzeMinScore(t *testing.T) {
	_, err := run(t, "analyze", writePage(t), "--min-score", "0.99")
	var floorErr *BelowFloorError
	require.ErrorAs(t, err, &floorErr)
	assert.Less(t, floorErr.Score, 0.99)
}

func TestAnalyzeErrors(t *testing.T) {
	_, err := run(t, "analyze", filepath.Join(t.TempDir(), "missing.html"))
	assert.Error(t, err)

	_, err = run(t, "analyze", writePage(t), "--context", "social_media")
	assert.ErrorIs(t, err, scoring.ErrUnknownContext)

	_, err = run(t, "analyze", writePage(t), "--id", "0")
	assert.ErrorIs(t, err, scoring.ErrInvalidSubject)

	_, err = run(t, "score")
	assert.Error(t, err)
}

func TestPartialAnalyze(t *testing.T) {
	out, err := run(t, "analyze", writePage(t), "--context", "media", "--json")
	require.NoError(t, err)
	var res broker.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.Partial)
	assert.Nil(t, res.Persisted)
	assert.Greater(t, res.ScorePercentage, 50)
}

func TestCatalogCommand(t *testing.T) {
	out, err := run(t, "catalog")
	require.NoError(t, err)

	var md scoring.Metadata
	require.NoError(t, json.Unmarshal([]byte(out), &md))
	assert.Equal(t, suggestions.CatalogVersion, md.CatalogVersion)
	assert.Len(t, md.Contexts, 4)
}

func TestSuggestionsCommand(t *testing.T) {
	out, err := run(t, "suggestions")
	require.NoError(t, err)
	assert.Contains(t, out, "CODE")
	assert.Contains(t, out, string(suggestions.AddInternalLinks))

	out, err = run(t, "suggestions", "--priority", "low")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Greater(t, len(lines), 1)
	for _, line := range lines[1:] {
		assert.Equal(t, "low", strings.Fields(line)[1], line)
	}

	out, err = run(t, "suggestions", string(suggestions.AddSchemaMarkup))
	require.NoError(t, err)
	assert.Contains(t, out, "priority: high")

	_, err = run(t, "suggestions", "made_up")
	assert.Error(t, err)
}
