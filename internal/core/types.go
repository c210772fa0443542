package core

import "time"

// Record is one applicant submission decoded from a CSV row.
// Every string field defaults to "" when its column is absent or blank.
type Record struct {
	Timestamp        string
	SubmitterEmail   string
	FirstName        string
	LastName         string
	StudentID        string
	CandidateEmail   string
	Phone            string
	StudentStatus    string
	Gender           string
	DegreeProgram    string
	Advisor          string
	ProgramEntered   string
	GPA              string
	CreditHours      string
	CurrentlyWorking string
	Supervisor       string
	Department       string
	Position         string
	QualifiedFor     string // newline-joined course list
	Other            string
	Resume           string

	// Index is the 1-based position assigned at ingest time. It is unique
	// within a session and never reassigned. Sentinel records have Index 0.
	Index int

	// Score is the fuzzy score from the most recent search.
	Score int64
}

// IsSentinel reports whether r is the synthetic spacer appended after each
// ingest batch.
func (r Record) IsSentinel() bool {
	return r.Index == 0
}

// Occurrence selects which column wins when a header name appears more than once.
type Occurrence int

const (
	FirstColumn Occurrence = iota
	LastColumn
)

// FieldSpec maps one source column onto a Record field.
type FieldSpec struct {
	Header     string              // Column header as exported by the survey form
	Occurrence Occurrence          // Which duplicate column to read
	Normalizer func(string) string // Optional transformation applied to non-empty values
	Set        func(r *Record, v string)
}

// HeaderIndex maps lowercased, trimmed header names to every position they
// occupy in the CSV header row, in left-to-right order.
type HeaderIndex map[string][]int

// FailedRow describes a data row that was skipped during ingest.
type FailedRow struct {
	LineNumber int      `json:"line_number"`
	Reason     string   `json:"reason"`
	Data       []string `json:"data,omitempty"`
}

// IngestResult summarizes one ingest batch.
type IngestResult struct {
	BatchID    string        `json:"batch_id"`
	FileName   string        `json:"file_name,omitempty"`
	Parsed     int           `json:"parsed"`  // rows committed as records
	Skipped    int           `json:"skipped"` // rows that failed to decode
	FailedRows []FailedRow   `json:"failed_rows,omitempty"`
	FirstIndex int           `json:"first_index"` // 0 if nothing was committed
	LastIndex  int           `json:"last_index"`
	Duration   time.Duration `json:"-"`
}

// Scored pairs a card position with its score for one search pass.
type Scored struct {
	Position int
	Score    int64
}

// View is a read-only projection of a session for display.
type View struct {
	Cards   []string `json:"cards"` // highest match first
	Parsed  bool     `json:"parsed"`
	Records int      `json:"records"` // stored records, sentinels included
	Query   string   `json:"query"`
}
