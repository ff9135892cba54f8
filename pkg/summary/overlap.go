package summary

import (
	"sort"
	"strings"

	"github.com/investicat/etl/pkg/common"
)

// EntityOverlap records one entity appearing in several documents, the
// strongest cross-document signal the extracted graphs offer.
type EntityOverlap struct {
	Name      string   `json:"name"`
	Documents []string `json:"documents"`
}

// FindEntityOverlaps scans several document graphs for entities that
// appear in more than one of them. Matching is by case-folded name; it
// is a best-effort heuristic, not entity resolution. Results sort by
// document count, then name.
func FindEntityOverlaps(graphs []common.DocumentGraph) []EntityOverlap {
	type entity struct {
		name string
		docs []string
	}
	byKey := map[string]*entity{}

	for _, g := range graphs {
		if len(g.Nodes.Documents) == 0 {
			continue
		}
		filename := g.Nodes.Documents[0].Filename

		seen := map[string]struct{}{}
		for _, e := range g.Nodes.Entities {
			key := strings.ToLower(strings.TrimSpace(e.Name))
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			if existing, ok := byKey[key]; ok {
				existing.docs = append(existing.docs, filename)
			} else {
				byKey[key] = &entity{name: e.Name, docs: []string{filename}}
			}
		}
	}

	overlaps := make([]EntityOverlap, 0)
	for _, e := range byKey {
		if len(e.docs) < 2 {
			continue
		}
		overlaps = append(overlaps, EntityOverlap{Name: e.name, Documents: e.docs})
	}

	sort.Slice(overlaps, func(i, j int) bool {
		if len(overlaps[i].Documents) != len(overlaps[j].Documents) {
			return len(overlaps[i].Documents) > len(overlaps[j].Documents)
		}
		return overlaps[i].Name < overlaps[j].Name
	})

	return overlaps
}
