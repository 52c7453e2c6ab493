package ccn

import "fmt"

// Renumber rewrites outcome and topic sequence numbers to 1..n in slice order.
func (p *CourseProfile) Renumber() {
	for i := range p.Outcomes {
		p.Outcomes[i].Sequence = i + 1
	}
	for i := range p.Topics {
		p.Topics[i].Sequence = i + 1
	}
}

// AddOutcome appends an outcome with the next sequence number.
func (p *CourseProfile) AddOutcome(text string) {
	p.Outcomes = append(p.Outcomes, Outcome{Sequence: len(p.Outcomes) + 1, Text: text})
}

// AddTopic appends a topic with the next sequence number.
func (p *CourseProfile) AddTopic(title string, hours *float64) {
	p.Topics = append(p.Topics, Topic{Sequence: len(p.Topics) + 1, Title: title, Hours: hours})
}

// RemoveOutcome deletes the outcome at index i and closes the gap.
func (p *CourseProfile) RemoveOutcome(i int) error {
	if i < 0 || i >= len(p.Outcomes) {
		return fmt.Errorf("outcome index %d out of range [0,%d)", i, len(p.Outcomes))
	}
	p.Outcomes = append(p.Outcomes[:i], p.Outcomes[i+1:]...)
	p.Renumber()
	return nil
}

// RemoveTopic deletes the topic at index i and closes the gap.
func (p *CourseProfile) RemoveTopic(i int) error {
	if i < 0 || i >= len(p.Topics) {
		return fmt.Errorf("topic index %d out of range [0,%d)", i, len(p.Topics))
	}
	p.Topics = append(p.Topics[:i], p.Topics[i+1:]...)
	p.Renumber()
	return nil
}

// MoveOutcome moves the outcome at from to position to.
func (p *CourseProfile) MoveOutcome(from, to int) error {
	if err := move(p.Outcomes, from, to); err != nil {
		return fmt.Errorf("move outcome: %w", err)
	}
	p.Renumber()
	return nil
}

// MoveTopic moves the topic at from to position to.
func (p *CourseProfile) MoveTopic(from, to int) error {
	if err := move(p.Topics, from, to); err != nil {
		return fmt.Errorf("move topic: %w", err)
	}
	p.Renumber()
	return nil
}

func move[T any](items []T, from, to int) error {
	n := len(items)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("index out of range [0,%d): from=%d to=%d", n, from, to)
	}
	item := items[from]
	if from < to {
		copy(items[from:to], items[from+1:to+1])
	} else {
		copy(items[to+1:from+1], items[to:from])
	}
	items[to] = item
	return nil
}

// HasContiguousSequences reports whether outcomes and topics are numbered 1..n.
func (p CourseProfile) HasContiguousSequences() bool {
	for i, o := range p.Outcomes {
		if o.Sequence != i+1 {
			return false
		}
	}
	for i, t := range p.Topics {
		if t.Sequence != i+1 {
			return false
		}
	}
	return true
}
