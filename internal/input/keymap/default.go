package keymap

// Editor actions.
const (
	ActionUndo           = "history.undo"
	ActionRedo           = "history.redo"
	ActionRemove         = "component.remove"
	ActionDuplicate      = "component.duplicate"
	ActionCopy           = "component.copy"
	ActionPaste          = "component.paste"
	ActionClearSelection = "selection.clear"
)

// Actions returns the set of actions the default router understands.
func Actions() map[string]bool {
	return map[string]bool{
		ActionUndo:           true,
		ActionRedo:           true,
		ActionRemove:         true,
		ActionDuplicate:      true,
		ActionCopy:           true,
		ActionPaste:          true,
		ActionClearSelection: true,
	}
}

// DefaultBindings returns the built-in shortcuts. Every command chord is
// bound for both Ctrl and Cmd.
func DefaultBindings() []Binding {
	return []Binding{
		// History
		{Keys: "<C-z>", Action: ActionUndo, Description: "Undo", Category: "History"},
		{Keys: "<D-z>", Action: ActionUndo, Description: "Undo", Category: "History"},
		{Keys: "<C-S-z>", Action: ActionRedo, Description: "Redo", Category: "History"},
		{Keys: "<D-S-z>", Action: ActionRedo, Description: "Redo", Category: "History"},
		{Keys: "<C-y>", Action: ActionRedo, Description: "Redo", Category: "History"},
		{Keys: "<D-y>", Action: ActionRedo, Description: "Redo", Category: "History"},

		// Components
		{Keys: "<Del>", Action: ActionRemove, Description: "Remove selected component", Category: "Component"},
		{Keys: "<BS>", Action: ActionRemove, Description: "Remove selected component", Category: "Component"},
		{Keys: "<C-d>", Action: ActionDuplicate, Description: "Duplicate selected component", Category: "Component"},
		{Keys: "<D-d>", Action: ActionDuplicate, Description: "Duplicate selected component", Category: "Component"},
		{Keys: "<C-c>", Action: ActionCopy, Description: "Copy selected component", Category: "Component"},
		{Keys: "<D-c>", Action: ActionCopy, Description: "Copy selected component", Category: "Component"},
		{Keys: "<C-v>", Action: ActionPaste, Description: "Paste into the page", Category: "Component"},
		{Keys: "<D-v>", Action: ActionPaste, Description: "Paste into the page", Category: "Component"},

		// Selection
		{Keys: "<Esc>", Action: ActionClearSelection, Description: "Exit interaction or clear selection", Category: "Selection"},
	}
}

// Default returns a keymap holding DefaultBindings.
func Default() *Keymap {
	km := NewKeymap("default")
	for _, b := range DefaultBindings() {
		km.MustAdd(b)
	}
	return km
}
