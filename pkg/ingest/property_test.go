package ingest

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dd0wney/trendgraph/pkg/graph"
)

// recordsFromOps builds records from (title, keyword, entity, group) quads
// over a small vocabulary so titles, keywords and groups collide often.
func recordsFromOps(ops []int) []Record {
	vocab := func(n int) string { return fmt.Sprintf("w%d", n) }
	var records []Record
	for i := 0; i+3 < len(ops); i += 4 {
		rec := Record{Keywords: []string{vocab(ops[i+1])}, Entities: []string{vocab(ops[i+2])}}
		if ops[i] != 0 {
			rec.Title = vocab(ops[i])
		}
		if ops[i+3]%2 == 0 {
			rec.Group, rec.GroupKind = vocab(ops[i+3]), GroupSubreddit
		}
		records = append(records, rec)
	}
	return records
}

func TestBuilderInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)
	opsGen := gen.SliceOf(gen.IntRange(0, 5))
	b := NewBuilder(Options{})

	properties.Property("re-ingesting a batch is a no-op", prop.ForAll(
		func(ops []int) bool {
			records := recordsFromOps(ops)
			once := graph.NewStore()
			b.ApplyRecords(once, redditSource, records)
			twice := graph.NewStore()
			b.ApplyRecords(twice, redditSource, records)
			b.ApplyRecords(twice, redditSource, records)
			return graph.Equal(once, twice)
		},
		opsGen,
	))

	properties.Property("no edge joins a node to itself", prop.ForAll(
		func(ops []int) bool {
			store := graph.NewStore()
			b.ApplyRecords(store, redditSource, recordsFromOps(ops))
			for _, e := range store.Edges() {
				if e.From == e.To {
					return false
				}
			}
			return true
		},
		opsGen,
	))

	properties.Property("skipped records are exactly the title-less ones", prop.ForAll(
		func(ops []int) bool {
			records := recordsFromOps(ops)
			want := 0
			for _, r := range records {
				if !r.HasTitle() {
					want++
				}
			}
			summary := b.ApplyRecords(graph.NewStore(), redditSource, records)
			return summary.Skipped == want
		},
		opsGen,
	))

	properties.Property("disjoint sources commute", prop.ForAll(
		func(left, right []int) bool {
			ra, rb := recordsFromOps(left), prefixRecords("b-", recordsFromOps(right))
			ab := graph.NewStore()
			b.ApplyRecords(ab, Source{Name: "news"}, ra)
			b.ApplyRecords(ab, Source{Name: "reddit"}, rb)
			ba := graph.NewStore()
			b.ApplyRecords(ba, Source{Name: "reddit"}, rb)
			b.ApplyRecords(ba, Source{Name: "news"}, ra)
			return graph.Equal(ab, ba)
		},
		opsGen,
		opsGen,
	))

	properties.TestingRun(t)
}

func prefixRecords(prefix string, records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		r.Keywords = []string{prefix + r.Keywords[0]}
		r.Entities = []string{prefix + r.Entities[0]}
		if r.Title != "" {
			r.Title = prefix + r.Title
		}
		if r.Group != "" {
			r.Group = prefix + r.Group
		}
		out[i] = r
	}
	return out
}
