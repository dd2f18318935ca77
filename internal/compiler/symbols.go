package compiler

// Symbols is the entity symbol table. Call-site detection only fires for
// chains rooted at a registered entity type.
type Symbols struct {
	entities map[string]struct{}
}

// NewSymbols creates an empty symbol table.
func NewSymbols() *Symbols {
	return &Symbols{entities: make(map[string]struct{})}
}

// RegisterEntity registers an entity type name.
func (s *Symbols) RegisterEntity(name string) {
	s.entities[name] = struct{}{}
}

// IsEntity reports whether the name is a registered entity type.
func (s *Symbols) IsEntity(name string) bool {
	_, ok := s.entities[name]
	return ok
}

// Len returns the number of registered entities.
func (s *Symbols) Len() int {
	return len(s.entities)
}
