// Package script runs Lua scripts against an editor store.
//
// Scripts see a sandboxed interpreter: the base, table, string and math
// libraries are available, while file, os, package and dynamic loading
// functions are not. The global page table exposes the editor:
//
//	page.root                          -- id of the document root
//	page.insert(parent, kind [, props [, pos]]) -> id | nil
//	page.move(id, parent [, pos])      -> bool
//	page.remove(id)                    -> bool
//	page.duplicate(id)                 -> id | nil
//	page.update(id, props)             -> bool
//	page.select([id])                  -> bool
//	page.selected()                    -> id | nil
//	page.copy(id)                      -> bool
//	page.paste([parent [, pos]])       -> id | nil
//	page.undo() / page.redo()          -> bool
//	page.find(id)                      -> {id, kind, props, children} | nil
//	page.children(id)                  -> {id, ...}
//	page.locate(id)                    -> parent, pos | nil
//	page.transaction(name, fn)         -- fn's edits become one undo entry
//
// Positions are 1-based as usual in Lua; an omitted position appends.
// A transaction whose function raises an error leaves the document as it
// was and re-raises the error.
package script
