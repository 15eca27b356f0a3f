package wizard

import (
	"fmt"
	"strings"

	"github.com/sadhana-school/portal/internal/core/domain"
)

// Summary is the read-only review shown on the confirmation step.
type Summary struct {
	AccountID string                `json:"account_id,omitempty"`
	Name      string                `json:"name"`
	Email     string                `json:"email"`
	Phone     string                `json:"phone,omitempty"`
	Personal  domain.PersonalFields `json:"personal"`
	Academic  domain.AcademicFields `json:"academic"`
	Guardian  domain.GuardianFields `json:"guardian"`
}

// Summary renders the accumulated record. Passwords are never included.
func (w *Wizard) Summary() Summary {
	d := w.draft
	academic := d.Academic
	if academic.AcademicYear == "" {
		academic.AcademicYear = domain.DefaultAcademicYear
	}
	return Summary{
		AccountID: d.AccountID,
		Name:      d.Auth.Name,
		Email:     d.Auth.Email,
		Phone:     d.Auth.Phone,
		Personal:  d.Personal,
		Academic:  academic,
		Guardian:  d.Guardian,
	}
}

func (s Summary) String() string {
	var b strings.Builder
	line := func(label, value string) {
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(&b, "  %-18s %s\n", label+":", value)
	}

	b.WriteString("Account\n")
	line("Name", s.Name)
	line("Email", s.Email)
	line("Phone", s.Phone)
	b.WriteString("Personal\n")
	line("Date of birth", s.Personal.DateOfBirth)
	line("Gender", s.Personal.Gender)
	line("Blood group", s.Personal.BloodGroup)
	line("Address", s.Personal.Address)
	b.WriteString("Academic\n")
	line("Class", s.Academic.ClassName)
	line("Section", s.Academic.Section)
	line("Admission number", s.Academic.AdmissionNumber)
	line("Academic year", s.Academic.AcademicYear)
	line("Previous school", s.Academic.PreviousSchool)
	b.WriteString("Guardian\n")
	line("Father", s.Guardian.FatherName)
	line("Mother", s.Guardian.MotherName)
	line("Guardian", s.Guardian.GuardianName)
	line("Phone", s.Guardian.Phone)
	line("Email", s.Guardian.Email)
	return b.String()
}
