package core

import "strings"

// Rewrite is one literal substring replacement applied to raw file content.
type Rewrite struct {
	From string
	To   string
}

// DegreeRewrites expands abbreviated degree program names to their long form.
// Applied in order, case-sensitive, to every occurrence.
var DegreeRewrites = []Rewrite{
	{From: "MS in Computer Science", To: "Masters in Computer Science"},
	{From: "BS in Computer Science", To: "Bachelors in Computer Science"},
}

// Normalize applies DegreeRewrites to the whole file content before parsing.
func Normalize(raw string) string {
	return ApplyRewrites(raw, DegreeRewrites)
}

// ApplyRewrites replaces each From with To, one rewrite at a time, so later
// rewrites see the output of earlier ones. Empty From values are ignored.
func ApplyRewrites(s string, rewrites []Rewrite) string {
	for _, rw := range rewrites {
		if rw.From == "" {
			continue
		}
		s = strings.ReplaceAll(s, rw.From, rw.To)
	}
	return s
}

// NormalizeCourseList collapses whitespace runs to a single space, then
// splits on commas and joins the pieces with newlines. Pieces are not
// trimmed here; the card renderer trims each one.
//
//	"Math 101,  CS 201 ,CS305" -> "Math 101\n CS 201 \nCS305"
func NormalizeCourseList(s string) string {
	collapsed := strings.Join(strings.Fields(s), " ")
	return strings.Join(strings.Split(collapsed, ","), "\n")
}
