package keymap

// Binding maps one chord, such as "<C-S-z>", to an action name such as
// "history.redo". Keys is stored in canonical chord form once added to a
// Keymap.
type Binding struct {
	Keys        string
	Action      string
	Description string
	Category    string // for listings; empty shows as "Other"
}

// NewBinding returns a binding of keys to action.
func NewBinding(keys, action string) Binding {
	return Binding{Keys: keys, Action: action}
}

// WithDescription returns b with a help text.
func (b Binding) WithDescription(desc string) Binding {
	b.Description = desc
	return b
}

// WithCategory returns b filed under category.
func (b Binding) WithCategory(category string) Binding {
	b.Category = category
	return b
}

// BindingCategory is one heading of a key listing.
type BindingCategory struct {
	Name     string
	Bindings []Binding
}

// GroupByCategory splits bindings by category. Categories appear in the
// order they are first seen; bindings keep their relative order.
func GroupByCategory(bindings []Binding) []BindingCategory {
	var groups []BindingCategory
	index := make(map[string]int)
	for _, b := range bindings {
		name := b.Category
		if name == "" {
			name = "Other"
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, BindingCategory{Name: name})
		}
		groups[i].Bindings = append(groups[i].Bindings, b)
	}
	return groups
}
