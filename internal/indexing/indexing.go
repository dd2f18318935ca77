// Package indexing aggregates index-candidate metadata from filter call
// sites. Candidates are advisory only: they suggest where an index might
// help and carry no guarantee the runtime creates one.
package indexing

// IndexCandidate pairs an entity type with the property paths referenced
// in pure comparison positions across a unit's filter call sites.
type IndexCandidate struct {
	EntityType string   `json:"entity_type"`
	Properties []string `json:"properties"`
}

// Aggregator merges per-call-site property sets into one candidate per
// entity type for a compilation unit. Entities appear in first-encounter
// order; properties are deduplicated and keep insertion order, so the same
// input always produces byte-identical report output.
type Aggregator struct {
	order []string
	props map[string]*propertySet
}

type propertySet struct {
	order []string
	seen  map[string]struct{}
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{props: make(map[string]*propertySet)}
}

// Add records a call site's properties for an entity type. An empty
// property list still registers the entity: the call site was seen, it
// just offered nothing to index.
func (a *Aggregator) Add(entityType string, properties []string) {
	set, ok := a.props[entityType]
	if !ok {
		set = &propertySet{seen: make(map[string]struct{})}
		a.props[entityType] = set
		a.order = append(a.order, entityType)
	}
	for _, p := range properties {
		if _, dup := set.seen[p]; dup {
			continue
		}
		set.seen[p] = struct{}{}
		set.order = append(set.order, p)
	}
}

// Candidates returns the merged candidates in first-encounter order.
func (a *Aggregator) Candidates() []IndexCandidate {
	out := make([]IndexCandidate, 0, len(a.order))
	for _, entity := range a.order {
		props := a.props[entity].order
		if props == nil {
			props = []string{}
		}
		out = append(out, IndexCandidate{EntityType: entity, Properties: props})
	}
	return out
}
