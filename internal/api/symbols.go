package api

// CollateSymbols adds the descriptor of every function and property to table
// with a placeholder value of 0. Subscripts have no symbols.
func (r *Registry) CollateSymbols(table map[string]uint16) {
	for _, f := range r.functions {
		table[f.SymbolDescriptor()] = 0
	}
	for _, p := range r.properties {
		table[p.SymbolDescriptor()] = 0
	}
	for _, t := range r.types {
		for _, f := range t.Functions {
			table[f.SymbolDescriptor()] = 0
		}
		for _, p := range t.Properties {
			table[p.SymbolDescriptor()] = 0
		}
	}
}
