// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/research-assistant/internal/highlight"
	"github.com/pdiddy/research-assistant/internal/rank"
	"github.com/pdiddy/research-assistant/pkg/types"
)

func testCorpus() []types.Paper {
	return []types.Paper{
		{ID: 1, Title: "Plant Growth on the ISS", Authors: []string{"Ray Chen"}, Year: "2019", Journal: "Astrobiology", Keywords: []string{"plants"}, URL: types.NoURL},
		{ID: 2, Title: "Microgravity Effects on Bone", Abstract: "Bone loss in microgravity.", Authors: []string{"Ana Lopez", "Kim Park"}, Year: "2021", Journal: "Space Medicine", Keywords: []string{"microgravity"}, Citations: 12, URL: "https://example.org/2"},
		{ID: 3, Title: "Radiation Shielding", Authors: []string{}, Year: types.YearUnavailable, Journal: types.NoJournal, Keywords: []string{}, URL: types.NoURL},
	}
}

func TestBuildRanksMatches(t *testing.T) {
	out := Build(rank.Default, testCorpus(), "  microgravity ")

	if out.Query != "microgravity" {
		t.Errorf("Query = %q, want trimmed query", out.Query)
	}
	if out.Fallback {
		t.Error("Fallback should be false when papers match")
	}
	if len(out.Results) != 1 || out.Results[0].ID != 2 {
		t.Fatalf("Results = %+v, want only paper 2", out.Results)
	}
	if out.Results[0].Score <= 0 {
		t.Errorf("Score = %d, want > 0", out.Results[0].Score)
	}
	if out.CorpusSize != 3 {
		t.Errorf("CorpusSize = %d, want 3", out.CorpusSize)
	}
}

func TestBuildFallsBackToCorpus(t *testing.T) {
	out := Build(rank.Default, testCorpus(), "zzzz")

	if !out.Fallback {
		t.Error("Fallback should be true when nothing matches")
	}
	if len(out.Results) != 3 {
		t.Fatalf("len(Results) = %d, want full corpus", len(out.Results))
	}
	for i, r := range out.Results {
		if r.ID != i+1 || r.Score != 0 {
			t.Errorf("Results[%d] = {ID %d, Score %d}, want corpus order with zero score", i, r.ID, r.Score)
		}
	}
}

func TestBuildEmptyQuery(t *testing.T) {
	out := Build(rank.Default, testCorpus(), "   ")
	if out.Fallback {
		t.Error("an empty query is not a fallback")
	}
	if len(out.Results) != 3 {
		t.Errorf("len(Results) = %d, want 3", len(out.Results))
	}
}

func TestBuildEmptyCorpus(t *testing.T) {
	out := Build(rank.Default, []types.Paper{}, "bone")
	if out.Fallback || len(out.Results) != 0 {
		t.Errorf("empty corpus should give no results and no fallback, got %+v", out)
	}
}

func TestLimit(t *testing.T) {
	out := Build(rank.Default, testCorpus(), "")
	if got := len(out.Limit(2).Results); got != 2 {
		t.Errorf("Limit(2) = %d results, want 2", got)
	}
	if got := len(out.Limit(0).Results); got != 3 {
		t.Errorf("Limit(0) = %d results, want 3", got)
	}
}

func TestFormatTable(t *testing.T) {
	out := Build(rank.Default, testCorpus(), "bone")

	var buf bytes.Buffer
	FormatTable(out, &buf, highlight.Markdown)
	s := buf.String()

	if !strings.Contains(s, "Microgravity Effects on **Bone**") {
		t.Errorf("table should highlight the title match, got:\n%s", s)
	}
	if !strings.Contains(s, "Ana Lopez et al.") {
		t.Error("table should abbreviate multiple authors")
	}
	if !strings.Contains(s, `1 of 3 papers match "bone"`) {
		t.Errorf("table should summarize matches, got:\n%s", s)
	}
}

func TestFormatTableFallback(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(Build(rank.Default, testCorpus(), "zzzz"), &buf, nil)
	s := buf.String()

	if !strings.Contains(s, "showing all 3 papers") {
		t.Errorf("fallback should be reported, got:\n%s", s)
	}
	if !strings.Contains(s, "Radiation Shielding") {
		t.Error("fallback should list the whole corpus")
	}
}

func TestFormatTableEmptyCorpus(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(Output{}, &buf, nil)
	if !strings.Contains(buf.String(), "No papers available") {
		t.Error("empty corpus should say 'No papers available'")
	}
}

func TestTruncateRunes(t *testing.T) {
	got := truncate("Ünïcödé title that is long", 10)
	if got != "Ünïcödé..." {
		t.Errorf("truncate = %q, want %q", got, "Ünïcödé...")
	}
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q, want unchanged", got)
	}
}

func TestFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatJSON(Build(rank.Default, testCorpus(), "bone"), &buf); err != nil {
		t.Fatalf("FormatJSON: %v", err)
	}

	var parsed Output
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if parsed.Query != "bone" || len(parsed.Results) != 1 {
		t.Errorf("parsed = %+v, want one result for bone", parsed)
	}
	if parsed.Results[0].Title != "Microgravity Effects on Bone" {
		t.Errorf("Title = %q", parsed.Results[0].Title)
	}
}

func TestQueryFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bone.yaml")
	out := Build(rank.Default, testCorpus(), "bone")
	cfg := QueryFileConfig{Source: "papers.json", Weights: types.DefaultRankingPolicy()}

	if err := WriteQueryFile(path, out, cfg); err != nil {
		t.Fatalf("WriteQueryFile: %v", err)
	}
	qf, err := ReadQueryFile(path)
	if err != nil {
		t.Fatalf("ReadQueryFile: %v", err)
	}

	if qf.Config.Weights != types.DefaultRankingPolicy() {
		t.Errorf("Weights = %+v, want defaults", qf.Config.Weights)
	}
	if qf.Summary.Total != 1 || qf.Summary.Timestamp.IsZero() {
		t.Errorf("Summary = %+v", qf.Summary)
	}
	restored := qf.Output()
	if restored.Query != "bone" || len(restored.Results) != 1 || restored.Results[0].ID != 2 {
		t.Errorf("restored output = %+v", restored)
	}
	if restored.Results[0].Score != out.Results[0].Score {
		t.Errorf("Score = %d, want %d", restored.Results[0].Score, out.Results[0].Score)
	}
}

func TestReadQueryFileMissing(t *testing.T) {
	if _, err := ReadQueryFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
