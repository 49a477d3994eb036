package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dd0wney/trendgraph/pkg/graph"
)

func TestReadRecordsCSV(t *testing.T) {
	input := `title,keywords,entities,subreddit,score,sentiment,url
"Go generics deep dive","go, generics",Google;Rob Pike,golang,42,0.6,https://example.com/1
"No group here",rust,,,,,
,orphan,,,,,
`
	records, err := ReadRecordsCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadRecordsCSV failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}

	first := records[0]
	if first.Title != "Go generics deep dive" {
		t.Errorf("Unexpected title %q", first.Title)
	}
	if len(first.Keywords) != 2 || first.Keywords[1] != "generics" {
		t.Errorf("Unexpected keywords %v", first.Keywords)
	}
	if len(first.Entities) != 2 || first.Entities[1] != "Rob Pike" {
		t.Errorf("Unexpected entities %v", first.Entities)
	}
	if first.Group != "golang" || first.GroupKind != GroupSubreddit {
		t.Errorf("Unexpected group %q kind %d", first.Group, first.GroupKind)
	}
	if first.Score != 42 {
		t.Errorf("Expected score 42, got %v", first.Score)
	}
	if first.Sentiment == nil || *first.Sentiment != 0.6 {
		t.Errorf("Unexpected sentiment %v", first.Sentiment)
	}
	if first.Line != 2 {
		t.Errorf("Expected line 2, got %d", first.Line)
	}

	if records[1].HasGroup() {
		t.Error("Record without subreddit should have no group")
	}
	if records[2].Validate() == nil {
		t.Error("Title-less record with keywords should fail validation")
	}
}

func TestReadRecordsCSV_NameAndCategoryColumns(t *testing.T) {
	input := "Name,Category\nThinkPad X1,Laptops\n"
	records, err := ReadRecordsCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadRecordsCSV failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0].Title != "ThinkPad X1" {
		t.Errorf("Expected name column used as title, got %q", records[0].Title)
	}
	if records[0].GroupKind != GroupCategory || records[0].Group != "Laptops" {
		t.Errorf("Expected category group, got %q kind %d", records[0].Group, records[0].GroupKind)
	}
}

func TestReadRecordsCSV_Empty(t *testing.T) {
	_, err := ReadRecordsCSV(strings.NewReader(""))
	if !errors.Is(err, graph.ErrCorruptFile) {
		t.Errorf("Expected ErrCorruptFile, got %v", err)
	}
}

func TestReadRecordsJSON(t *testing.T) {
	input := `{"title":"HN launch","keywords":["startup","launch"],"entities":"YC, Stripe"}
not json

{"name":"Widget","tags":"Gadgets","sentiment":-0.2}
`
	records, err := ReadRecordsJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadRecordsJSON failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	if len(records[0].Entities) != 2 || records[0].Entities[0] != "YC" {
		t.Errorf("Unexpected entities %v", records[0].Entities)
	}
	if records[1].Validate() == nil {
		t.Error("Unparseable line should produce an invalid record")
	}
	if records[1].Line != 2 {
		t.Errorf("Expected line 2, got %d", records[1].Line)
	}
	if records[2].Title != "Widget" || records[2].GroupKind != GroupCategory {
		t.Errorf("Unexpected record %+v", records[2])
	}
	if records[2].Line != 4 {
		t.Errorf("Expected line 4, got %d", records[2].Line)
	}
}

func TestReadTrendsCSV(t *testing.T) {
	input := `date,AI,Cloud,isPartial
2024-01-01,10,20,False
2024-01-08,11,n/a,False
2024-01-15,12,22
2024-01-22,13,23,True
`
	table, err := ReadTrendsCSV(strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("ReadTrendsCSV failed: %v", err)
	}
	if len(table.Keywords) != 2 || table.Keywords[0] != "AI" || table.Keywords[1] != "Cloud" {
		t.Errorf("Unexpected keywords %v", table.Keywords)
	}
	if len(table.Rows) != 2 {
		t.Errorf("Expected 2 rows, got %d", len(table.Rows))
	}
	if table.SkippedRows != 2 {
		t.Errorf("Expected 2 skipped rows, got %d", table.SkippedRows)
	}
	if table.Timestamps[1] != "2024-01-22" {
		t.Errorf("Unexpected timestamps %v", table.Timestamps)
	}
}

func TestReadTrendsCSV_NoKeywords(t *testing.T) {
	_, err := ReadTrendsCSV(strings.NewReader("date\n2024-01-01\n"), nil)
	if !errors.Is(err, graph.ErrCorruptFile) {
		t.Errorf("Expected ErrCorruptFile, got %v", err)
	}
}

func TestReadRecordsFile_NotFound(t *testing.T) {
	_, err := ReadRecordsFile(Source{Name: "news", Path: filepath.Join(t.TempDir(), "missing.csv")})
	if !errors.Is(err, graph.ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound, got %v", err)
	}
}

func TestReadRecordsFile_ByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hn.jsonl")
	if err := os.WriteFile(path, []byte(`{"title":"a","keywords":"b"}`+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	records, err := ReadRecordsFile(Source{Name: "hacker_news", Path: path})
	if err != nil {
		t.Fatalf("ReadRecordsFile failed: %v", err)
	}
	if len(records) != 1 || records[0].Title != "a" {
		t.Errorf("Unexpected records %+v", records)
	}
}
