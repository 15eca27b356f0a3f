package service

import (
	"reflect"
	"testing"

	"github.com/sadhana-school/portal/internal/core/domain"
)

var roster = []domain.Student{
	{StudentID: "s1", Name: "Asha Rao", UniqueStudentID: "SMS-2026-7B-001", RollNumber: "1", ClassName: "7", Section: "B", PaymentStatus: "PAID"},
	{StudentID: "s2", Name: "Kiran", UniqueStudentID: "SMS-2026-7A-004", RollNumber: "4", ClassName: "7", Section: "A"},
	{StudentID: "s3", Name: "Meera", UniqueStudentID: "SMS-2026-12F-002", RollNumber: "2", ClassName: "12", Section: "F", PaymentStatus: "PARTIAL"},
	{StudentID: "s4", Name: "Dev", ClassName: "Nursery", Section: "Z"},
}

func ids(students []domain.Student) []string {
	out := make([]string, 0, len(students))
	for _, s := range students {
		out = append(out, s.StudentID)
	}
	return out
}

func TestFilterStudents(t *testing.T) {
	cases := []struct {
		name   string
		filter DirectoryFilter
		want   []string
	}{
		{"no filter", DirectoryFilter{}, []string{"s1", "s2", "s3", "s4"}},
		{"class", DirectoryFilter{ClassName: "7"}, []string{"s1", "s2"}},
		{"class and section", DirectoryFilter{ClassName: "7", Section: "A"}, []string{"s2"}},
		{"missing status is pending", DirectoryFilter{FeeStatus: "PENDING"}, []string{"s2", "s4"}},
		{"search name", DirectoryFilter{Search: "asha"}, []string{"s1"}},
		{"search student id", DirectoryFilter{Search: "12f"}, []string{"s3"}},
		{"search roll number", DirectoryFilter{Search: "4"}, []string{"s2"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ids(FilterStudents(roster, tc.filter)); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestClassOptions(t *testing.T) {
	want := []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "12", "Nursery"}
	if got := ClassOptions(roster); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSectionOptions(t *testing.T) {
	if got := SectionOptions(roster, ""); !reflect.DeepEqual(got, []string{"A", "B", "C", "D", "E"}) {
		t.Fatalf("unexpected default sections %v", got)
	}
	if got := SectionOptions(roster, "12"); !reflect.DeepEqual(got, []string{"A", "B", "C", "D", "E", "F"}) {
		t.Fatalf("unexpected class 12 sections %v", got)
	}
}
