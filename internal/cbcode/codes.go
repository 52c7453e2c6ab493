package cbcode

import (
	"fmt"
	"strings"
)

// Code identifies one CB compliance code on a course record.
type Code string

const (
	CB03 Code = "cb03" // TOP code
	CB04 Code = "cb04" // credit status
	CB05 Code = "cb05" // transfer status
	CB08 Code = "cb08" // basic skills status
	CB09 Code = "cb09" // SAM priority
	CB10 Code = "cb10" // cooperative work experience
	CB11 Code = "cb11" // course classification
	CB13 Code = "cb13" // special class status
	CB21 Code = "cb21" // levels below transfer
	CB22 Code = "cb22" // noncredit category
	CB23 Code = "cb23" // funding agency category
	CB24 Code = "cb24" // program status
	CB25 Code = "cb25" // general education status
	CB26 Code = "cb26" // support course status
	CB27 Code = "cb27" // upper division status
)

// All lists every code the wizard knows about, in question order.
var All = []Code{CB04, CB05, CB03, CB08, CB21, CB09, CB10, CB11, CB13, CB22, CB23, CB24, CB25, CB26, CB27}

// TransferableUCCSU is the CB05 value for a course transferable to both UC
// and CSU.
const TransferableUCCSU = "A"

// Option is one allowed value of a code.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Definition describes a code for display and validation.
type Definition struct {
	Code    Code     `json:"code"`
	Label   string   `json:"label"`
	Prompt  string   `json:"prompt"`
	Options []Option `json:"options"`
}

// ParseCode converts a string such as "cb04" or "CB04" into a Code.
func ParseCode(s string) (Code, error) {
	c := Code(strings.ToLower(strings.TrimSpace(s)))
	if _, err := c.Definition(); err != nil {
		return "", err
	}
	return c, nil
}

// Definition returns the label and option table for c.
func (c Code) Definition() (Definition, error) {
	switch c {
	case CB03:
		return Definition{Code: c, Label: "TOP Code", Prompt: "Which Taxonomy of Programs code classifies this course?",
			Options: topOptions()}, nil
	case CB04:
		return Definition{Code: c, Label: "Credit Status", Prompt: "What is the credit status of this course?",
			Options: []Option{
				{"D", "Credit - Degree Applicable"},
				{"C", "Credit - Not Degree Applicable"},
				{"N", "Non-Credit"},
			}}, nil
	case CB05:
		return Definition{Code: c, Label: "Transfer Status", Prompt: "Where does this course transfer?",
			Options: []Option{
				{TransferableUCCSU, "Transferable to both UC and CSU"},
				{"B", "Transferable to CSU only"},
				{"C", "Not transferable"},
			}}, nil
	case CB08:
		return Definition{Code: c, Label: "Basic Skills Status", Prompt: "Is this a basic skills course?",
			Options: []Option{
				{"B", "Basic skills course"},
				{"N", "Not a basic skills course"},
			}}, nil
	case CB09:
		return Definition{Code: c, Label: "SAM Priority Code", Prompt: "How occupational is this course?",
			Options: []Option{
				{"A", "Apprenticeship"},
				{"B", "Advanced occupational"},
				{"C", "Clearly occupational"},
				{"D", "Possibly occupational"},
				{"E", "Non-occupational"},
			}}, nil
	case CB10:
		return Definition{Code: c, Label: "Cooperative Work Experience", Prompt: "Is this course part of a cooperative work experience program?",
			Options: []Option{
				{"C", "Cooperative work experience education"},
				{"N", "Not cooperative work experience"},
			}}, nil
	case CB11:
		return Definition{Code: c, Label: "Course Classification", Prompt: "How is this course classified?",
			Options: []Option{
				{"Y", "Credit course"},
				{"J", "Workforce preparation enhanced funding"},
				{"K", "Other non-credit enhanced funding"},
				{"L", "Non-enhanced funding"},
			}}, nil
	case CB13:
		return Definition{Code: c, Label: "Special Class Status", Prompt: "Is this a special class for students with disabilities?",
			Options: []Option{
				{"S", "Special class"},
				{"N", "Not a special class"},
			}}, nil
	case CB21:
		return Definition{Code: c, Label: "Levels Below Transfer", Prompt: "How many levels below transfer is this course?",
			Options: []Option{
				{"Y", "Not applicable"},
				{"A", "One level below transfer"},
				{"B", "Two levels below transfer"},
				{"C", "Three levels below transfer"},
				{"D", "Four levels below transfer"},
				{"E", "Five levels below transfer"},
			}}, nil
	case CB22:
		return Definition{Code: c, Label: "Noncredit Category", Prompt: "Which noncredit category does this course fall under?",
			Options: []Option{
				{"A", "English as a second language"},
				{"B", "Citizenship for immigrants"},
				{"C", "Elementary and secondary basic skills"},
				{"D", "Health and safety"},
				{"E", "Substantial disabilities"},
				{"F", "Parenting"},
				{"G", "Home economics"},
				{"H", "Older adults"},
				{"I", "Short-term vocational"},
				{"J", "Workforce preparation"},
			}}, nil
	case CB23:
		return Definition{Code: c, Label: "Funding Agency Category", Prompt: "Was this course developed with Economic Development funding?",
			Options: []Option{
				{"A", "Economic Development grant"},
				{"Y", "Not applicable"},
			}}, nil
	case CB24:
		return Definition{Code: c, Label: "Program Status", Prompt: "Is this course part of an approved program?",
			Options: []Option{
				{"1", "Program applicable"},
				{"2", "Stand-alone"},
			}}, nil
	case CB25:
		return Definition{Code: c, Label: "General Education Status", Prompt: "Which general education area does this course satisfy?",
			Options: []Option{
				{"B", "Language and rationality: English composition"},
				{"C", "Language and rationality: communication and analytical thinking"},
				{"D", "Natural sciences"},
				{"E", "Social and behavioral sciences"},
				{"F", "Humanities"},
				{"G", "Ethnic studies"},
				{"Y", "Not applicable"},
			}}, nil
	case CB26:
		return Definition{Code: c, Label: "Support Course Status", Prompt: "Is this a support course for a transfer-level course?",
			Options: []Option{
				{"N", "Not a support course"},
				{"S", "Support course"},
			}}, nil
	case CB27:
		return Definition{Code: c, Label: "Upper Division Status", Prompt: "Is this an upper division course?",
			Options: []Option{
				{"N", "Not upper division"},
				{"Y", "Upper division"},
			}}, nil
	}
	return Definition{}, fmt.Errorf("unknown CB code %q", string(c))
}

// OptionLabel returns the option label for value, or value itself when unknown.
func (d Definition) OptionLabel(value string) string {
	for _, o := range d.Options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

// Allows reports whether value is one of the code's options.
func (d Definition) Allows(value string) bool {
	for _, o := range d.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}
