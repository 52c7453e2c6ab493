package ccn

import (
	"errors"
	"testing"
)

func threeOutcomes() CourseProfile {
	var p CourseProfile
	p.AddOutcome("first")
	p.AddOutcome("second")
	p.AddOutcome("third")
	p.AddTopic("alpha", nil)
	p.AddTopic("beta", nil)
	return p
}

func texts(p CourseProfile) []string {
	var out []string
	for _, o := range p.Outcomes {
		out = append(out, o.Text)
	}
	return out
}

func TestAddOutcomeSequences(t *testing.T) {
	p := threeOutcomes()
	if !p.HasContiguousSequences() {
		t.Fatalf("expected contiguous sequences, got %+v", p.Outcomes)
	}
}

func TestRemoveOutcomeRenumbers(t *testing.T) {
	p := threeOutcomes()
	if err := p.RemoveOutcome(0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(p.Outcomes) != 2 {
		t.Fatalf("len = %d, want 2", len(p.Outcomes))
	}
	if p.Outcomes[0].Text != "second" || p.Outcomes[0].Sequence != 1 {
		t.Errorf("outcome[0] = %+v, want second/1", p.Outcomes[0])
	}
	if !p.HasContiguousSequences() {
		t.Error("sequences have gaps after remove")
	}
	if err := p.RemoveOutcome(5); err == nil {
		t.Error("expected out-of-range error")
	}
}

func TestMoveOutcome(t *testing.T) {
	tests := []struct {
		from, to int
		want     []string
	}{
		{0, 2, []string{"second", "third", "first"}},
		{2, 0, []string{"third", "first", "second"}},
		{1, 1, []string{"first", "second", "third"}},
	}
	for _, tt := range tests {
		p := threeOutcomes()
		if err := p.MoveOutcome(tt.from, tt.to); err != nil {
			t.Fatalf("move %d->%d: %v", tt.from, tt.to, err)
		}
		got := texts(p)
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("move %d->%d = %v, want %v", tt.from, tt.to, got, tt.want)
				break
			}
		}
		if !p.HasContiguousSequences() {
			t.Errorf("move %d->%d left gaps", tt.from, tt.to)
		}
	}
}

func TestRemoveAndMoveTopic(t *testing.T) {
	p := threeOutcomes()
	if err := p.MoveTopic(1, 0); err != nil {
		t.Fatalf("move topic: %v", err)
	}
	if p.Topics[0].Title != "beta" || p.Topics[0].Sequence != 1 {
		t.Errorf("topic[0] = %+v", p.Topics[0])
	}
	if err := p.RemoveTopic(0); err != nil {
		t.Fatalf("remove topic: %v", err)
	}
	if p.Topics[0].Title != "alpha" || p.Topics[0].Sequence != 1 {
		t.Errorf("topic[0] = %+v", p.Topics[0])
	}
}

func TestProfileValidate(t *testing.T) {
	if err := (CourseProfile{Title: "x", Units: 3}).Validate(); err != nil {
		t.Errorf("valid profile: %v", err)
	}
	if err := (CourseProfile{Units: 3}).Validate(); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("err = %v, want ErrEmptyTitle", err)
	}
	if err := (CourseProfile{Title: "x"}).Validate(); !errors.Is(err, ErrInvalidUnits) {
		t.Errorf("err = %v, want ErrInvalidUnits", err)
	}
}
