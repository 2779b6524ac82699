package app

import (
	"fmt"
	"strings"

	"github.com/dshills/pagecraft/internal/engine/registry"
	"github.com/dshills/pagecraft/internal/engine/tree"
	"github.com/dshills/pagecraft/internal/input/dnd"
	"github.com/dshills/pagecraft/internal/input/mouse"
)

const (
	paletteLine = 0
	bodyTop     = 1
	indentWidth = 2
)

// summaryProps are shown next to a node's kind, first match wins.
var summaryProps = []string{"text", "label", "title", "alt", "src"}

// row is one visible line of the outline.
type row struct {
	id        string
	kind      string
	depth     int
	parent    string
	index     int
	container bool
	children  int
	label     string
}

// paletteEntry is a clickable kind on the palette line.
type paletteEntry struct {
	bounds mouse.Rect
	kind   string
}

// outline is the layout of the last drawn frame.
type outline struct {
	rows    []row
	top     int
	height  int
	kept    string
	palette []paletteEntry
	zones   dnd.Zones
}

// flatten lists the nodes of t in display order.
func flatten(t tree.Tree, catalog *registry.Registry) []row {
	var rows []row
	tree.Walk(t.Root(), func(n, parent *tree.Node, depth int) bool {
		r := row{
			id:        n.InstanceID,
			kind:      n.ComponentID,
			depth:     depth,
			container: catalog.AcceptsChildren(n.ComponentID),
			children:  len(n.Children),
			label:     nodeLabel(n, catalog),
		}
		if parent != nil {
			r.parent = parent.InstanceID
			r.index = parent.ChildIndex(n.InstanceID)
		}
		rows = append(rows, r)
		return true
	})
	return rows
}

func nodeLabel(n *tree.Node, catalog *registry.Registry) string {
	var b strings.Builder
	b.WriteString(catalog.Name(n.ComponentID))
	if count, ok := tree.ZoneCount(n); ok {
		fmt.Fprintf(&b, " (%d)", count)
	}
	for _, name := range summaryProps {
		if v, ok := n.Prop(name); ok {
			if s, ok := v.(string); ok && s != "" {
				fmt.Fprintf(&b, " %q", s)
				break
			}
		}
	}
	return b.String()
}

// layout positions rows in a body of the given height and rebuilds the
// drop zones. When keep differs from the last call its row is scrolled
// into view.
func (o *outline) layout(rows []row, width, height int, keep string) {
	o.rows = rows
	o.height = height
	if o.height < 0 {
		o.height = 0
	}

	if i := o.indexOf(keep); i >= 0 && keep != o.kept {
		if i < o.top {
			o.top = i
		} else if o.height > 0 && i >= o.top+o.height {
			o.top = i - o.height + 1
		}
	}
	o.kept = keep
	o.clampTop()

	visible := o.visible()
	o.zones = make(dnd.Zones, 0, len(visible)+1)
	for i, r := range visible {
		o.zones = append(o.zones, dnd.Zone{
			Bounds: mouse.RectAt(0, bodyTop+i, width, 1),
			Target: dropTarget(r),
		})
	}
	// Empty space below the last row appends to the page.
	tail := mouse.RectAt(0, bodyTop+len(visible), width, o.height-len(visible))
	if len(rows) > 0 && !tail.Empty() {
		o.zones = append(o.zones, dnd.Zone{
			Bounds: tail,
			Target: dnd.Target{ParentID: tree.RootID, Index: rows[0].children},
		})
	}
}

// dropTarget is where a drop on r lands: inside a container, after its
// children; on a leaf or a zone list, in front of it.
func dropTarget(r row) dnd.Target {
	if r.container && !tree.IsMultiZone(r.kind) {
		return dnd.Target{ParentID: r.id, Index: r.children}
	}
	return dnd.Target{ParentID: r.parent, Index: r.index}
}

func (o *outline) clampTop() {
	limit := len(o.rows) - o.height
	if limit < 0 {
		limit = 0
	}
	if o.top > limit {
		o.top = limit
	}
	if o.top < 0 {
		o.top = 0
	}
}

func (o *outline) visible() []row {
	end := o.top + o.height
	if end > len(o.rows) {
		end = len(o.rows)
	}
	if o.top >= end {
		return nil
	}
	return o.rows[o.top:end]
}

func (o *outline) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, r := range o.rows {
		if r.id == id {
			return i
		}
	}
	return -1
}

// scroll moves the first visible row by delta.
func (o *outline) scroll(delta int) {
	o.top += delta
	o.clampTop()
}

// rowAt returns the row drawn at p.
func (o *outline) rowAt(p mouse.Position) (row, bool) {
	if p.Y < bodyTop || p.Y >= bodyTop+o.height {
		return row{}, false
	}
	i := o.top + p.Y - bodyTop
	if i < 0 || i >= len(o.rows) {
		return row{}, false
	}
	return o.rows[i], true
}

// paletteAt returns the kind drawn at p on the palette line.
func (o *outline) paletteAt(p mouse.Position) (string, bool) {
	for _, e := range o.palette {
		if e.bounds.Contains(p) {
			return e.kind, true
		}
	}
	return "", false
}

// Outline renders t as indented lines, one per node, the way the editor
// shows it.
func Outline(t tree.Tree, catalog *registry.Registry) []string {
	if catalog == nil {
		catalog = registry.NewWithDefaults()
	}
	rows := flatten(t, catalog)
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = strings.Repeat(" ", r.depth*indentWidth) + r.label
	}
	return lines
}
