// Package resolve maps free-text keywords to canonical market symbols.
// Tables are loaded once at construction and read-only thereafter;
// resolution failure is a normal outcome (empty candidate list), never an
// error.
package resolve

import (
	"sort"
	"strings"

	"github.com/finnews-io/finnews/internal/models"
)

// Match priorities, highest first. Ties are broken by matched-name length,
// then alphabetical order of the matched name, then the fixed class order.
const (
	priorityExact = iota
	priorityAlias
	priorityPartial
)

var confidenceByPriority = map[int]float64{
	priorityExact:   1.0,
	priorityAlias:   0.9,
	priorityPartial: 0.6,
}

// Resolver resolves keywords against the static symbol tables.
type Resolver struct {
	tables map[models.AssetClass][]entry
}

// NewResolver creates a resolver over the built-in tables.
func NewResolver() *Resolver {
	return &Resolver{tables: builtinTables()}
}

// newResolverWithTables is used by tests to resolve against custom tables.
func newResolverWithTables(tables map[models.AssetClass][]entry) *Resolver {
	return &Resolver{tables: tables}
}

// Classes returns the asset classes in their fixed tie-break order.
func (r *Resolver) Classes() []models.AssetClass {
	return classOrder
}

// candidate carries the sort keys alongside the result.
type candidate struct {
	result      models.SymbolCandidate
	priority    int
	matchedLen  int
	matchedName string
	classIdx    int
}

// Resolve maps a keyword to an ordered sequence of symbol candidates, best
// match first. hint scopes the search to one asset class;
// models.AssetClassAuto (or empty) searches all classes. An unknown keyword
// yields an empty slice.
func (r *Resolver) Resolve(keyword string, hint models.AssetClass) []models.SymbolCandidate {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		return nil
	}

	classes := classOrder
	if hint != "" && hint != models.AssetClassAuto {
		classes = []models.AssetClass{hint}
	}

	var found []candidate
	for classIdx, class := range classes {
		entries, ok := r.tables[class]
		if !ok {
			continue
		}
		for _, e := range entries {
			if c, ok := matchEntry(kw, e, class, classIdx); ok {
				found = append(found, c)
			}
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].priority != found[j].priority {
			return found[i].priority < found[j].priority
		}
		if found[i].matchedLen != found[j].matchedLen {
			return found[i].matchedLen < found[j].matchedLen
		}
		if found[i].matchedName != found[j].matchedName {
			return found[i].matchedName < found[j].matchedName
		}
		return found[i].classIdx < found[j].classIdx
	})

	// One candidate per (class, symbol): the best-ranked match wins.
	seen := make(map[string]struct{}, len(found))
	results := make([]models.SymbolCandidate, 0, len(found))
	for _, c := range found {
		key := string(c.result.Class) + "|" + c.result.Symbol
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		results = append(results, c.result)
	}
	return results
}

// matchEntry finds the best match of kw against one entry's names and
// aliases.
func matchEntry(kw string, e entry, class models.AssetClass, classIdx int) (candidate, bool) {
	best := candidate{priority: priorityPartial + 1}

	consider := func(name string, exactPriority int) {
		var priority int
		switch {
		case name == kw:
			priority = exactPriority
		case strings.Contains(name, kw):
			priority = priorityPartial
		default:
			return
		}
		if priority < best.priority ||
			(priority == best.priority && len(name) < best.matchedLen) ||
			(priority == best.priority && len(name) == best.matchedLen && name < best.matchedName) {
			best = candidate{
				result: models.SymbolCandidate{
					Symbol:     e.Symbol,
					Label:      e.Label,
					Class:      class,
					MatchType:  matchType(priority),
					Confidence: confidenceByPriority[priority],
				},
				priority:    priority,
				matchedLen:  len(name),
				matchedName: name,
				classIdx:    classIdx,
			}
		}
	}

	for _, name := range e.Names {
		consider(name, priorityExact)
	}
	for _, alias := range e.Aliases {
		consider(alias, priorityAlias)
	}

	return best, best.priority <= priorityPartial
}

func matchType(priority int) string {
	switch priority {
	case priorityExact:
		return models.MatchExact
	case priorityAlias:
		return models.MatchAlias
	default:
		return models.MatchPartial
	}
}
