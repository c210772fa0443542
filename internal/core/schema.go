package core

import (
	"fmt"
	"strings"
)

// Source column headers of the applicant survey export.
const (
	ColTimestamp        = "Timestamp"
	ColEmail            = "Email Address"
	ColFirstName        = "First Name"
	ColLastName         = "Last Name"
	ColStudentID        = "UNC Charlotte ID (800#) "
	ColPhone            = "Phone Number"
	ColStudentStatus    = "Student Status"
	ColGender           = "Gender"
	ColDegreeProgram    = "Degree Program"
	ColAdvisor          = "Current Advisor"
	ColProgramEntered   = "Date Program Entered"
	ColGPA              = "GPA"
	ColCreditHours      = "Credit Hours Completed"
	ColCurrentlyWorking = "Currently Working on Campus?"
	ColSupervisor       = "Supervisor"
	ColDepartment       = "Department"
	ColPosition         = "Position"
	ColQualifiedFor     = "Courses Qualified to Grade"
	ColOther            = "Other skills or information you would like to provide (e.g.  Dean's List, Chancellor's List, Prior TA experience, etc.)"
	ColResume           = "Upload CV or resume (Optional)"
)

// ApplicantFields lists every canonical field and the column it is read from.
// The survey form exports "Email Address" twice: the first is the address the
// form was submitted from, the later one is the address the candidate typed.
var ApplicantFields = []FieldSpec{
	{Header: ColTimestamp, Set: func(r *Record, v string) { r.Timestamp = v }},
	{Header: ColEmail, Occurrence: FirstColumn, Set: func(r *Record, v string) { r.SubmitterEmail = v }},
	{Header: ColFirstName, Set: func(r *Record, v string) { r.FirstName = v }},
	{Header: ColLastName, Set: func(r *Record, v string) { r.LastName = v }},
	{Header: ColStudentID, Set: func(r *Record, v string) { r.StudentID = v }},
	{Header: ColEmail, Occurrence: LastColumn, Set: func(r *Record, v string) { r.CandidateEmail = v }},
	{Header: ColPhone, Set: func(r *Record, v string) { r.Phone = v }},
	{Header: ColStudentStatus, Set: func(r *Record, v string) { r.StudentStatus = v }},
	{Header: ColGender, Set: func(r *Record, v string) { r.Gender = v }},
	{Header: ColDegreeProgram, Set: func(r *Record, v string) { r.DegreeProgram = v }},
	{Header: ColAdvisor, Set: func(r *Record, v string) { r.Advisor = v }},
	{Header: ColProgramEntered, Set: func(r *Record, v string) { r.ProgramEntered = v }},
	{Header: ColGPA, Set: func(r *Record, v string) { r.GPA = v }},
	{Header: ColCreditHours, Set: func(r *Record, v string) { r.CreditHours = v }},
	{Header: ColCurrentlyWorking, Set: func(r *Record, v string) { r.CurrentlyWorking = v }},
	{Header: ColSupervisor, Set: func(r *Record, v string) { r.Supervisor = v }},
	{Header: ColDepartment, Set: func(r *Record, v string) { r.Department = v }},
	{Header: ColPosition, Set: func(r *Record, v string) { r.Position = v }},
	{Header: ColQualifiedFor, Normalizer: NormalizeCourseList, Set: func(r *Record, v string) { r.QualifiedFor = v }},
	{Header: ColOther, Set: func(r *Record, v string) { r.Other = v }},
	{Header: ColResume, Set: func(r *Record, v string) { r.Resume = v }},
}

// headerKey is the lookup form of a header name.
func headerKey(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// MakeHeaderIndex indexes a CSV header row. Keys are lowercased and trimmed
// for tolerant matching; duplicate headers keep every position.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := headerKey(h)
		idx[key] = append(idx[key], i)
	}
	return idx
}

// Position returns the column position for a header, honoring which
// duplicate to pick. Returns false if the header is absent.
func (h HeaderIndex) Position(header string, occ Occurrence) (int, bool) {
	positions := h[headerKey(header)]
	if len(positions) == 0 {
		return 0, false
	}
	if occ == LastColumn {
		return positions[len(positions)-1], true
	}
	return positions[0], true
}

// ParseRow maps one CSV data row onto a Record using ApplicantFields.
// Absent columns and empty cells leave the field as "". The returned record
// has no Index; the session assigns it on commit.
func ParseRow(row []string, idx HeaderIndex) (Record, error) {
	return parseRowWith(row, idx, ApplicantFields)
}

func parseRowWith(row []string, idx HeaderIndex, specs []FieldSpec) (Record, error) {
	var r Record
	for _, spec := range specs {
		pos, ok := idx.Position(spec.Header, spec.Occurrence)
		if !ok {
			continue
		}
		if pos >= len(row) {
			return Record{}, fmt.Errorf("column %q at position %d missing from row with %d fields",
				strings.TrimSpace(spec.Header), pos, len(row))
		}

		v := row[pos]
		if v == "" {
			continue
		}
		if spec.Normalizer != nil {
			v = spec.Normalizer(v)
		}
		spec.Set(&r, v)
	}
	return r, nil
}
