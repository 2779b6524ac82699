package registry

import "github.com/dshills/pagecraft/internal/engine/tree"

// Builtins returns the kinds every registry created by NewWithDefaults holds.
func Builtins() []Schema {
	return []Schema{
		{ID: tree.RootComponentID, Name: "Page", AcceptsChildren: true},
		{ID: tree.ContainerComponentID, Name: "Container", AcceptsChildren: true, DefaultProps: tree.DefaultZoneProps()},
		{ID: "section", Name: "Section", AcceptsChildren: true, DefaultProps: map[string]any{
			"padding": float64(32),
		}},
		{ID: "heading", Name: "Heading", DefaultProps: map[string]any{
			"text":  "Heading",
			"level": float64(2),
		}},
		{ID: "text", Name: "Text", DefaultProps: map[string]any{
			"text": "Lorem ipsum",
		}},
		{ID: "image", Name: "Image", DefaultProps: map[string]any{
			"src": "",
			"alt": "",
		}},
		{ID: "button", Name: "Button", DefaultProps: map[string]any{
			"label": "Click me",
			"href":  "#",
		}},
		{ID: tree.GridComponentID, Name: "Grid", AcceptsChildren: true, DefaultProps: map[string]any{
			"columns": float64(2),
			"gap":     float64(16),
		}},
		{ID: tree.ColumnsComponentID, Name: "Columns", AcceptsChildren: true, DefaultProps: map[string]any{
			"ratio": "1:1",
		}},
		{ID: tree.TabsComponentID, Name: "Tabs", AcceptsChildren: true, DefaultProps: map[string]any{
			"tabs": []any{"Tab 1", "Tab 2"},
		}},
		{ID: tree.AccordionComponentID, Name: "Accordion", AcceptsChildren: true, DefaultProps: map[string]any{
			"items": []any{"Item 1"},
		}},
		{ID: "spacer", Name: "Spacer", DefaultProps: map[string]any{
			"height": float64(24),
		}},
		{ID: "divider", Name: "Divider"},
	}
}
