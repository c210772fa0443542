package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_IndexOnly(t *testing.T) {
	got := Render(Record{Index: 7})
	assert.Equal(t, "7.\n", got)
	assert.Equal(t, 1, strings.Count(got, "\n"))
}

func TestRender_NameOnly(t *testing.T) {
	got := Render(Record{Index: 1, FirstName: "Ada", LastName: "Lovelace"})
	assert.Equal(t, "1.\n• First Name:     Ada\n• Last Name:      Lovelace\n", got)
}

func TestRender_FieldOrderAndAlignment(t *testing.T) {
	r := Record{
		Index:            3,
		FirstName:        "Grace",
		LastName:         "Hopper",
		StudentID:        "800123456",
		CandidateEmail:   "grace@example.edu",
		SubmitterEmail:   "form@example.edu",
		Phone:            "555-0100",
		StudentStatus:    "Full-time",
		DegreeProgram:    "Masters in Computer Science",
		ProgramEntered:   "Fall 2020",
		GPA:              "3.9",
		CreditHours:      "30",
		CurrentlyWorking: "No",
		Other:            "  Dean's List  ",
		Gender:           "F",
		Advisor:          "Dr. Smith",
	}

	want := strings.Join([]string{
		"3.",
		"• First Name:     Grace",
		"• Last Name:      Hopper",
		"• Student ID:     800123456",
		"• Email:          grace@example.edu",
		"• Phone Number:   555-0100",
		"• Student Status: Full-time",
		"• Degree Program: Masters in Computer Science",
		"• Program Entry:  Fall 2020",
		"• GPA:            3.9",
		"• Credit Hours:   30",
		"• Working?:       No",
		"• Other:          Dean's List",
	}, "\n") + "\n"

	assert.Equal(t, want, Render(r))
}

func TestRender_QualifiedForBullets(t *testing.T) {
	r := Record{Index: 1, QualifiedFor: NormalizeCourseList("Math 101,  CS 201 ,CS305")}

	want := "1.\n" +
		"• Qualified For:\n" +
		"                 • Math 101\n" +
		"                 • CS 201\n" +
		"                 • CS305\n"
	assert.Equal(t, want, Render(r))
}

func TestRender_FieldsNotOnCard(t *testing.T) {
	r := Record{
		Index:          2,
		Timestamp:      "2021-01-01 10:00",
		SubmitterEmail: "form@example.edu",
		Gender:         "M",
		Advisor:        "Dr. Who",
		Supervisor:     "Boss",
		Department:     "CS",
		Position:       "Grader",
		Resume:         "https://drive.example/cv",
	}
	assert.Equal(t, "2.\n", Render(r))
}
