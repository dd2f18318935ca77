package queryir

import "strings"

// PropertyPaths returns the property paths referenced in comparison
// positions of a pushable expression, rooted at the entity parameter
// (position 0). Paths are dotted for nested chains ("address.city"),
// deduplicated, and kept in insertion order.
func PropertyPaths(e Expr) []string {
	var order []string
	seen := make(map[string]struct{})
	collectPaths(e, &order, seen)
	return order
}

func collectPaths(e Expr, order *[]string, seen map[string]struct{}) {
	switch v := e.(type) {
	case *BinaryExpr:
		if v.Op.IsComparison() {
			recordPath(v.Left, order, seen)
			recordPath(v.Right, order, seen)
			return
		}
		collectPaths(v.Left, order, seen)
		collectPaths(v.Right, order, seen)
	case *PropertyAccess, *Ident, *Param, *Value:
		// Not a comparison position; nothing to record.
	}
}

func recordPath(e Expr, order *[]string, seen map[string]struct{}) {
	access, ok := e.(*PropertyAccess)
	if !ok {
		return
	}
	root, ok := RootParam(access)
	if !ok || root.Position != 0 {
		return
	}
	path := DottedPath(access)
	if _, dup := seen[path]; dup {
		return
	}
	seen[path] = struct{}{}
	*order = append(*order, path)
}

// DottedPath renders a property chain as a dotted path, excluding the
// parameter root ("person.address.city" renders as "address.city").
func DottedPath(access *PropertyAccess) string {
	var segments []string
	for cur := Expr(access); ; {
		pa, ok := cur.(*PropertyAccess)
		if !ok {
			break
		}
		segments = append(segments, pa.Property)
		cur = pa.Object
	}
	// Segments were collected leaf-first; reverse into source order.
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return strings.Join(segments, ".")
}
