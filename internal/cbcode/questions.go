package cbcode

// Dependency makes a question visible only when another code has (or, with
// Invert, does not have) one of Values.
type Dependency struct {
	On     Code
	Values []string
	Invert bool
}

// Satisfied reports whether the dependency holds for set. An unset code
// matches no value.
func (d Dependency) Satisfied(set Set) bool {
	v, ok := set.Get(d.On)
	in := false
	if ok {
		for _, want := range d.Values {
			if v == want {
				in = true
				break
			}
		}
	}
	if d.Invert {
		return !in
	}
	return in
}

// Question is one step of the compliance wizard.
type Question struct {
	Code      Code
	DependsOn *Dependency
}

// Questions is the fixed wizard order.
var Questions = []Question{
	{Code: CB04},
	{Code: CB05},
	{Code: CB03},
	{Code: CB08, DependsOn: &Dependency{On: CB04, Values: []string{"C", "N"}}},
	{Code: CB21, DependsOn: &Dependency{On: CB08, Values: []string{"B"}}},
	{Code: CB09},
	{Code: CB10},
	{Code: CB11},
	{Code: CB13},
	{Code: CB22, DependsOn: &Dependency{On: CB04, Values: []string{"N"}}},
	{Code: CB23},
	{Code: CB24},
	{Code: CB25, DependsOn: &Dependency{On: CB05, Values: []string{"A", "B"}}},
	{Code: CB26, DependsOn: &Dependency{On: CB04, Values: []string{"N"}, Invert: true}},
	{Code: CB27},
}

// Visible returns the questions whose dependencies hold for set, in order.
// It is a pure function of set and is recomputed after every change.
func Visible(set Set) []Question {
	return filter(Questions, set)
}

func filter(questions []Question, set Set) []Question {
	out := make([]Question, 0, len(questions))
	for _, q := range questions {
		if q.DependsOn == nil || q.DependsOn.Satisfied(set) {
			out = append(out, q)
		}
	}
	return out
}

// Complete reports whether every visible question has a value.
func Complete(set Set) bool {
	for _, q := range Visible(set) {
		if _, ok := set.Get(q.Code); !ok {
			return false
		}
	}
	return true
}
