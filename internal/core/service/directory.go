package service

import (
	"sort"
	"strconv"
	"strings"

	"github.com/sadhana-school/portal/internal/core/domain"
)

var (
	standardClasses  = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}
	standardSections = []string{"A", "B", "C", "D", "E"}
)

// DirectoryFilter narrows the student directory. Empty fields match all.
type DirectoryFilter struct {
	ClassName string `query:"class" json:"class,omitempty"`
	Section   string `query:"section" json:"section,omitempty"`
	FeeStatus string `query:"fee_status" json:"fee_status,omitempty"`
	Search    string `query:"q" json:"q,omitempty"`
}

// Directory is a filtered student listing with the filter choices on offer.
type Directory struct {
	Students []domain.Student `json:"students"`
	Total    int              `json:"total"`
	Classes  []string         `json:"classes"`
	Sections []string         `json:"sections"`
	Filter   DirectoryFilter  `json:"filter"`
}

// BuildDirectory applies the filter and computes the class and section
// options.
func BuildDirectory(students []domain.Student, f DirectoryFilter) *Directory {
	filtered := FilterStudents(students, f)
	return &Directory{
		Students: filtered,
		Total:    len(students),
		Classes:  ClassOptions(students),
		Sections: SectionOptions(students, f.ClassName),
		Filter:   f,
	}
}

// FilterStudents keeps students matching every set criterion. A missing fee
// status counts as pending; search is case-insensitive over name, student
// id and roll number.
func FilterStudents(students []domain.Student, f DirectoryFilter) []domain.Student {
	term := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]domain.Student, 0, len(students))
	for _, s := range students {
		if f.ClassName != "" && s.ClassName != f.ClassName {
			continue
		}
		if f.Section != "" && s.Section != f.Section {
			continue
		}
		if f.FeeStatus != "" && s.FeeStatus() != f.FeeStatus {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(s.Name), term) &&
			!strings.Contains(strings.ToLower(s.UniqueStudentID), term) &&
			!strings.Contains(strings.ToLower(s.RollNumber), term) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// ClassOptions returns classes 1-10 plus any other class seen, numeric
// classes first in numeric order.
func ClassOptions(students []domain.Student) []string {
	set := toSet(standardClasses)
	for _, s := range students {
		if s.ClassName != "" {
			set[s.ClassName] = struct{}{}
		}
	}
	out := keys(set)
	sort.Slice(out, func(i, j int) bool {
		a, errA := strconv.Atoi(out[i])
		b, errB := strconv.Atoi(out[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return out[i] < out[j]
		}
	})
	return out
}

// SectionOptions returns sections A-E plus those seen within className.
func SectionOptions(students []domain.Student, className string) []string {
	set := toSet(standardSections)
	if className != "" {
		for _, s := range students {
			if s.ClassName == className && s.Section != "" {
				set[s.Section] = struct{}{}
			}
		}
	}
	out := keys(set)
	sort.Strings(out)
	return out
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
