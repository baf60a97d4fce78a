package ast

// SymbolTableEntry records one declaration (spec §3). Flags are
// monotonically set to true as the builder visits references; they are
// never cleared.
type SymbolTableEntry struct {
	DataType      string // e.g. "byte"
	IsReadFrom    bool
	IsWrittenTo   bool
	MemoryAddress int // 0 means "not yet assigned"; nothing in the pipeline sets it (the assembly generator keeps its own address map)
}

// SymbolTable maps identifiers to entries within one lexical scope, with
// a back-link to its enclosing scope (nil at the root). Grounded on the
// map + error-collecting style of lang/yparse/symtab.go, restructured
// into a genuinely hierarchical parent chain per spec §3/§4.3 (the
// teacher's SymbolTable is flat: one global map plus one flat per-func
// scope, with no nested block scoping).
type SymbolTable struct {
	Parent  *SymbolTable
	entries map[string]*SymbolTableEntry
}

// NewSymbolTable creates a table whose lexical parent is parent (nil at
// the root).
func NewSymbolTable(parent *SymbolTable) *SymbolTable {
	return &SymbolTable{Parent: parent, entries: make(map[string]*SymbolTableEntry)}
}

// Declare inserts a new local entry for name. It fails (returns false) if
// name already has a LOCAL entry in this table; shadowing an entry in an
// enclosing table is allowed.
func (st *SymbolTable) Declare(name string, dataType string) (*SymbolTableEntry, bool) {
	if _, exists := st.entries[name]; exists {
		return nil, false
	}
	e := &SymbolTableEntry{DataType: dataType}
	st.entries[name] = e
	return e, true
}

// Lookup resolves name by walking this table then its parent chain.
func (st *SymbolTable) Lookup(name string) (*SymbolTableEntry, bool) {
	for t := st; t != nil; t = t.Parent {
		if e, ok := t.entries[name]; ok {
			return e, true
		}
	}
	return nil, false
}

// LookupLocal resolves name only within this table, no parent walk.
func (st *SymbolTable) LookupLocal(name string) (*SymbolTableEntry, bool) {
	e, ok := st.entries[name]
	return e, ok
}

// Names returns the locally declared identifiers. The order is not
// defined (map iteration).
func (st *SymbolTable) Names() []string {
	names := make([]string, 0, len(st.entries))
	for n := range st.entries {
		names = append(names, n)
	}
	return names
}
