package cbcode

import "github.com/abhisek/outlines/internal/ccn"

// Derive returns the codes implied by adopting standard for a course with
// the given subject code. Courses aligned to a common course number are
// transferable to UC and CSU, so CB05 is always set. CB03 comes from the TOP
// table, looked up by subject code and then by the standard's discipline;
// when neither is mapped CB03 is left out.
//
// The returned keys are the complete new locked set. Callers replace any
// previously locked codes with it rather than merging.
func Derive(standard ccn.Standard, subjectCode string) map[Code]string {
	derived := map[Code]string{CB05: TransferableUCCSU}
	if top, ok := LookupTOP(subjectCode); ok {
		derived[CB03] = top
	} else if top, ok := LookupTOP(standard.Discipline); ok {
		derived[CB03] = top
	}
	return derived
}
