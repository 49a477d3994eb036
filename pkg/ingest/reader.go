package ingest

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dd0wney/trendgraph/pkg/graph"
)

// DefaultStatusColumns are trend-table columns that carry sample metadata
// rather than a tracked keyword.
var DefaultStatusColumns = []string{"isPartial"}

// ReadRecordsCSV reads a normalised CSV with a header row. Recognised columns
// are title|name, keywords, entities, subreddit, category|tags, score,
// sentiment and url; everything else is ignored.
func ReadRecordsCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Normalisers emit ragged rows for missing trailing fields

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing header row", graph.ErrCorruptFile)
		}
		return nil, fmt.Errorf("%w: %v", graph.ErrCorruptFile, err)
	}

	colIndex := make(map[string]int, len(header))
	for i, col := range header {
		colIndex[strings.ToLower(strings.TrimSpace(col))] = i
	}

	records := make([]Record, 0)
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", graph.ErrCorruptFile, line, err)
		}
		records = append(records, recordFromRow(row, colIndex, line))
	}
	return records, nil
}

func recordFromRow(row []string, colIndex map[string]int, line int) Record {
	rec := Record{
		Title:    firstField(row, colIndex, "title", "name"),
		Keywords: SplitKeywords(getField(row, colIndex, "keywords")),
		Entities: splitEntities(getField(row, colIndex, "entities")),
		URL:      getField(row, colIndex, "url"),
		Line:     line,
	}

	if g := getField(row, colIndex, "subreddit"); g != "" {
		rec.Group, rec.GroupKind = g, GroupSubreddit
	} else if g := firstField(row, colIndex, "category", "tags"); g != "" {
		rec.Group, rec.GroupKind = g, GroupCategory
	}

	if v, err := strconv.ParseFloat(getField(row, colIndex, "score"), 64); err == nil {
		rec.Score = v
	}
	if v, err := strconv.ParseFloat(getField(row, colIndex, "sentiment"), 64); err == nil {
		rec.Sentiment = &v
	}
	return rec
}

func getField(row []string, colIndex map[string]int, name string) string {
	if idx, ok := colIndex[name]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func firstField(row []string, colIndex map[string]int, names ...string) string {
	for _, name := range names {
		if v := getField(row, colIndex, name); v != "" {
			return v
		}
	}
	return ""
}

// jsonRecord is the JSON-lines shape emitted by normalisers.
type jsonRecord struct {
	Title     string     `json:"title"`
	Name      string     `json:"name"`
	Keywords  stringList `json:"keywords"`
	Entities  stringList `json:"entities"`
	Subreddit string     `json:"subreddit"`
	Category  string     `json:"category"`
	Tags      string     `json:"tags"`
	Score     float64    `json:"score"`
	Sentiment *float64   `json:"sentiment"`
	URL       string     `json:"url"`
}

// ReadRecordsJSON reads one JSON object per line. Blank lines are ignored;
// a line that is not a JSON object becomes an empty record so the builder
// skips and reports it without dropping the rest of the batch.
func ReadRecordsJSON(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	records := make([]Record, 0)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var jr jsonRecord
		if err := json.Unmarshal([]byte(text), &jr); err != nil {
			records = append(records, Record{Line: line})
			continue
		}

		rec := Record{
			Title:     jr.Title,
			Keywords:  []string(jr.Keywords),
			Entities:  []string(jr.Entities),
			Score:     jr.Score,
			Sentiment: jr.Sentiment,
			URL:       jr.URL,
			Line:      line,
		}
		if rec.Title == "" {
			rec.Title = jr.Name
		}
		switch {
		case jr.Subreddit != "":
			rec.Group, rec.GroupKind = jr.Subreddit, GroupSubreddit
		case jr.Category != "":
			rec.Group, rec.GroupKind = jr.Category, GroupCategory
		case jr.Tags != "":
			rec.Group, rec.GroupKind = jr.Tags, GroupCategory
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: line %d: %v", graph.ErrCorruptFile, line+1, err)
	}
	return records, nil
}

// ReadTrendsCSV reads a wide trend table. The first column is the sample
// timestamp; the remaining columns, minus statusColumns, are keywords. Rows
// with non-numeric cells are counted in SkippedRows and dropped.
func ReadTrendsCSV(r io.Reader, statusColumns []string) (TrendTable, error) {
	if statusColumns == nil {
		statusColumns = DefaultStatusColumns
	}
	status := make(map[string]struct{}, len(statusColumns))
	for _, c := range statusColumns {
		status[strings.ToLower(c)] = struct{}{}
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return TrendTable{}, fmt.Errorf("%w: missing header row", graph.ErrCorruptFile)
		}
		return TrendTable{}, fmt.Errorf("%w: %v", graph.ErrCorruptFile, err)
	}
	if len(header) < 2 {
		return TrendTable{}, fmt.Errorf("%w: trend table needs a timestamp and at least one keyword column", graph.ErrCorruptFile)
	}

	var table TrendTable
	keywordCols := make([]int, 0, len(header)-1)
	for i := 1; i < len(header); i++ {
		name := strings.TrimSpace(header[i])
		if _, skip := status[strings.ToLower(name)]; skip {
			continue
		}
		keywordCols = append(keywordCols, i)
		table.Keywords = append(table.Keywords, name)
	}

	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return TrendTable{}, fmt.Errorf("%w: line %d: %v", graph.ErrCorruptFile, line, err)
		}

		values := make([]float64, 0, len(keywordCols))
		ok := len(row) == len(header)
		for _, col := range keywordCols {
			if !ok {
				break
			}
			v, perr := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
			if perr != nil {
				ok = false
				break
			}
			values = append(values, v)
		}
		if !ok {
			table.SkippedRows++
			continue
		}
		table.Timestamps = append(table.Timestamps, row[0])
		table.Rows = append(table.Rows, values)
	}
	return table, nil
}

// openSource opens a source file, mapping a missing file onto
// graph.ErrFileNotFound.
func openSource(src Source) (*os.File, error) {
	f, err := os.Open(src.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, graph.NewError("read").File(src.Path).Context("source %s", src.Name).
				Cause(graph.ErrFileNotFound).Err()
		}
		return nil, graph.NewError("read").File(src.Path).Cause(err).Err()
	}
	return f, nil
}

// ReadRecordsFile reads a records source, choosing JSON lines for .jsonl and
// .ndjson files and CSV otherwise.
func ReadRecordsFile(src Source) ([]Record, error) {
	f, err := openSource(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []Record
	switch strings.ToLower(filepath.Ext(src.Path)) {
	case ".jsonl", ".ndjson":
		records, err = ReadRecordsJSON(f)
	default:
		records, err = ReadRecordsCSV(f)
	}
	if err != nil {
		return nil, graph.NewError("read").File(src.Path).Cause(err).Err()
	}
	return records, nil
}

// ReadTrendsFile reads a trend-series source.
func ReadTrendsFile(src Source, statusColumns []string) (TrendTable, error) {
	f, err := openSource(src)
	if err != nil {
		return TrendTable{}, err
	}
	defer f.Close()

	table, err := ReadTrendsCSV(f, statusColumns)
	if err != nil {
		return TrendTable{}, graph.NewError("read").File(src.Path).Cause(err).Err()
	}
	return table, nil
}
