// Package taxonomy resolves muscle and body-part names against the static
// muscle hierarchy. The hierarchy is walked once at construction into a flat
// lookup index, so per-query resolution is a single map access.
package taxonomy

import (
	"sort"
	"strings"

	"github.com/rotnitxe/yourprime/internal/models"
)

// Index is the flat resolution index built from a MuscleHierarchy.
type Index struct {
	targets map[string][]string // lowercased name -> canonical target muscles
	names   []string            // every resolvable name, sorted, original casing
}

// NewIndex builds the resolution index. Resolution semantics:
//
//   - a body part resolves to every muscle under it (parents and children)
//   - a parent muscle resolves to itself plus its children
//   - a special category resolves to its member list
//   - a leaf muscle resolves to itself
//
// Later entries never overwrite earlier ones, so a special category named
// like a body part keeps the body part's resolution.
func NewIndex(h models.MuscleHierarchy) *Index {
	ix := &Index{targets: make(map[string][]string)}

	for bodyPart, groups := range h.BodyParts {
		var all []string
		for _, g := range groups {
			self := append([]string{g.Parent}, g.Children...)
			ix.add(g.Parent, self)
			for _, child := range g.Children {
				ix.add(child, []string{child})
			}
			all = append(all, self...)
		}
		ix.add(bodyPart, all)
	}

	for category, members := range h.SpecialCategories {
		ix.add(category, members)
		for _, m := range members {
			ix.add(m, []string{m})
		}
	}

	sort.Strings(ix.names)
	return ix
}

func (ix *Index) add(name string, targets []string) {
	trimmed := strings.TrimSpace(name)
	key := strings.ToLower(trimmed)
	if key == "" {
		return
	}
	if _, exists := ix.targets[key]; exists {
		return
	}
	ix.targets[key] = dedup(targets)
	ix.names = append(ix.names, trimmed)
}

// Resolve returns the set of leaf muscle names a name stands for. Matching
// is case-insensitive and alias-aware. Unknown names resolve to a singleton
// of themselves: new or custom exercises with freeform muscle tags still
// aggregate into something rather than failing the lookup.
func (ix *Index) Resolve(name string) []string {
	canonical, _ := models.CanonicalMuscle(name)
	if targets, ok := ix.targets[strings.ToLower(canonical)]; ok {
		out := make([]string, len(targets))
		copy(out, targets)
		return out
	}
	return []string{canonical}
}

// TargetSet returns Resolve's result as a lowercased membership set, the
// shape the volume aggregator consumes.
func (ix *Index) TargetSet(name string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range ix.Resolve(name) {
		set[strings.ToLower(t)] = true
	}
	return set
}

// Names lists every resolvable name in the hierarchy, sorted. Used by the
// API to enumerate muscles a client can ask about.
func (ix *Index) Names() []string {
	out := make([]string, len(ix.names))
	copy(out, ix.names)
	return out
}

func dedup(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
