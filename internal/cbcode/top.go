package cbcode

import "strings"

// topEntry maps a subject or discipline code to its TOP code.
type topEntry struct {
	Subject string
	TOP     string
	Title   string
}

// topTable is the static discipline classification table. Several subjects
// share a TOP code (MATH and STAT both report under Mathematics, General).
var topTable = []topEntry{
	{"ACCT", "0502.00", "Accounting"},
	{"ANTH", "2202.00", "Anthropology"},
	{"ART", "1002.00", "Fine Arts, General"},
	{"ASTR", "1911.00", "Astronomy"},
	{"BIOL", "0401.00", "Biology, General"},
	{"BUS", "0501.00", "Business and Commerce, General"},
	{"CHEM", "1905.00", "Chemistry, General"},
	{"CHLD", "1305.00", "Child Development/Early Care and Education"},
	{"COMM", "1506.00", "Speech Communication"},
	{"CS", "0706.00", "Computer Science (Transfer)"},
	{"CIS", "0702.00", "Computer Information Systems"},
	{"ECON", "2204.00", "Economics"},
	{"ENGL", "1501.00", "English"},
	{"ESL", "4930.84", "English as a Second Language - Integrated"},
	{"GEOG", "2206.00", "Geography"},
	{"GEOL", "1914.00", "Geology"},
	{"HIST", "2205.00", "History"},
	{"KIN", "0835.00", "Physical Education"},
	{"MATH", "1701.00", "Mathematics, General"},
	{"MUS", "1004.00", "Music"},
	{"NURS", "1230.10", "Registered Nursing"},
	{"PHIL", "1509.00", "Philosophy"},
	{"PHYS", "1902.00", "Physics, General"},
	{"POLS", "2207.00", "Political Science"},
	{"PSYC", "2001.00", "Psychology, General"},
	{"SOCI", "2208.00", "Sociology"},
	{"SPAN", "1105.00", "Spanish"},
	{"STAT", "1701.00", "Mathematics, General"},
	{"THTR", "1007.00", "Dramatic Arts"},
}

// LookupTOP returns the TOP code for a subject or discipline code.
func LookupTOP(subject string) (string, bool) {
	subject = strings.ToUpper(strings.TrimSpace(subject))
	if subject == "" {
		return "", false
	}
	for _, e := range topTable {
		if e.Subject == subject {
			return e.TOP, true
		}
	}
	return "", false
}

// topOptions lists each distinct TOP code once, in table order.
func topOptions() []Option {
	seen := make(map[string]bool, len(topTable))
	opts := make([]Option, 0, len(topTable))
	for _, e := range topTable {
		if seen[e.TOP] {
			continue
		}
		seen[e.TOP] = true
		opts = append(opts, Option{Value: e.TOP, Label: e.TOP + " " + e.Title})
	}
	return opts
}
