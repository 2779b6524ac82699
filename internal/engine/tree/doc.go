// Package tree implements the component tree edited by the page builder.
//
// A document is a single root Node (component "page-root", instance "root")
// holding an ordered list of children, each of which is a typed component
// instance with opaque props and its own children.
//
// # Immutability
//
// Trees are persistent values. Every operation returns a new Tree and leaves
// its input untouched: only the chain of nodes from the root to the edited
// node is copied, all other subtrees are shared between the old and the new
// tree. Nodes reachable from a Tree must therefore be treated as read-only.
//
//	t := tree.New()
//	t, ok := tree.Insert(t, schema, tree.RootID, heading, -1)
//	t, ok = tree.Move(t, schema, heading.InstanceID, sectionID, 0)
//
// Operations that cannot be applied (unknown ids, parents that do not accept
// children, moves that would create a cycle) return the original tree and
// false.
//
// # Multi-zone components
//
// The grid, columns, tabs and accordion kinds keep one child container per
// zone. SyncZones grows or truncates the children to the count derived from
// the node's props.
package tree
