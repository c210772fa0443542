package core

import (
	"strconv"
	"strings"
)

// labelWidth pads "Label:" so every value starts in the same column.
const labelWidth = 16

// courseIndent aligns course bullets under the Qualified For label.
const courseIndent = "                 • "

// cardLine is one labeled line of a card, in display order.
type cardLine struct {
	label string
	value func(Record) string
}

var cardLines = []cardLine{
	{"First Name", func(r Record) string { return r.FirstName }},
	{"Last Name", func(r Record) string { return r.LastName }},
	{"Student ID", func(r Record) string { return r.StudentID }},
	{"Email", func(r Record) string { return r.CandidateEmail }},
	{"Phone Number", func(r Record) string { return r.Phone }},
	{"Student Status", func(r Record) string { return r.StudentStatus }},
	{"Degree Program", func(r Record) string { return r.DegreeProgram }},
	{"Program Entry", func(r Record) string { return r.ProgramEntered }},
	{"GPA", func(r Record) string { return r.GPA }},
	{"Credit Hours", func(r Record) string { return r.CreditHours }},
	{"Working?", func(r Record) string { return r.CurrentlyWorking }},
}

// Render returns the card text for a record: an "N." header line followed by
// one labeled line per non-empty field. The output is also the text the
// fuzzy matcher scores, so its bytes must stay stable.
func Render(r Record) string {
	var b strings.Builder

	b.WriteString(strconv.Itoa(r.Index))
	b.WriteString(".\n")

	for _, line := range cardLines {
		if v := line.value(r); v != "" {
			writeField(&b, line.label, v)
		}
	}

	if r.QualifiedFor != "" {
		b.WriteString("• Qualified For:\n")
		for _, course := range strings.Split(r.QualifiedFor, "\n") {
			b.WriteString(courseIndent)
			b.WriteString(strings.TrimSpace(course))
			b.WriteByte('\n')
		}
	}

	if r.Other != "" {
		writeField(&b, "Other", strings.TrimSpace(r.Other))
	}

	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	b.WriteString("• ")
	b.WriteString(label)
	b.WriteByte(':')
	b.WriteString(strings.Repeat(" ", max(labelWidth-len(label)-1, 1)))
	b.WriteString(value)
	b.WriteByte('\n')
}
