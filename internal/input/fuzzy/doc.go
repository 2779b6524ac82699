// Package fuzzy ranks short labels, such as component kinds, against a
// typed query.
//
// A query matches when its runes appear in order in the text, ignoring
// case. Matches score higher when they are consecutive, start a word or
// the text, and when the text is short:
//
//	results := fuzzy.Match("hd", []fuzzy.Item{
//	    {Text: "heading", Data: headingSchema},
//	    {Text: "divider", Data: dividerSchema},
//	}, 0)
package fuzzy
