package intake

import (
	"strings"
	"unicode"
)

var departmentNames = map[string]string{
	"dentist":    "Dentistry",
	"cardiology": "Cardiology",
	"orthopedic": "Orthopedics",
	"pediatric":  "Pediatrics",
	"general":    "General Medicine",
}

// DepartmentDisplayName maps a department keyword to its formal name.
// Unknown keys are title-cased.
func DepartmentDisplayName(key string) string {
	if name, ok := departmentNames[key]; ok {
		return name
	}
	return titleCase(key)
}

// titleCase upper-cases the first letter of every run of letters and
// lower-cases the rest.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inWord := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if inWord {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			inWord = true
			continue
		}
		inWord = false
		b.WriteRune(r)
	}
	return b.String()
}

// Assemble relabels the department and passes the normalized date, time
// and zone through unchanged.
func Assemble(req AppointmentRequest) AppointmentResult {
	return AppointmentResult{
		Appointment: Appointment{
			Department: DepartmentDisplayName(req.Entities.Department),
			Date:       req.Normalized.Date,
			Time:       req.Normalized.Time,
			TZ:         req.Normalized.TZ,
		},
		Status: StatusOK,
	}
}
