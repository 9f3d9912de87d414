package game

import (
	"slices"
)

// Participant is one seat at the table. Alive only ever goes from true to
// false, and only through a night or day elimination.
type Participant struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Human     bool      `json:"human"`
	Alignment Alignment `json:"alignment"`
	Alive     bool      `json:"alive"`
	Mates     []int     `json:"mates,omitempty"`
	Persona   string    `json:"-"`
	Log       []string  `json:"-"`

	strategy Strategy
	fallback Strategy
}

func (p *Participant) candidate() Candidate {
	return Candidate{ID: p.ID, Name: p.Name}
}

func (p *Participant) note(line string) {
	p.Log = append(p.Log, line)
}

func (p *Participant) listen(line string) {
	p.note("Heard: " + line)
}

func (p *Participant) sleep()  { p.note("Falls asleep.") }
func (p *Participant) wakeUp() { p.note("Wakes up.") }

// snapshot returns a copy safe to hand out of the package.
func (p *Participant) snapshot() Participant {
	c := *p
	c.Mates = slices.Clone(p.Mates)
	c.Log = slices.Clone(p.Log)
	c.strategy = nil
	c.fallback = nil
	return c
}

// recent returns the last n log lines.
func (p *Participant) recent(n int) []string {
	if n <= 0 || len(p.Log) <= n {
		return slices.Clone(p.Log)
	}
	return slices.Clone(p.Log[len(p.Log)-n:])
}

func candidates(ps []*Participant) []Candidate {
	out := make([]Candidate, len(ps))
	for i, p := range ps {
		out[i] = p.candidate()
	}
	return out
}

func without(ps []*Participant, id int) []*Participant {
	out := make([]*Participant, 0, len(ps))
	for _, p := range ps {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

func find(ps []*Participant, id int) *Participant {
	for _, p := range ps {
		if p.ID == id {
			return p
		}
	}
	return nil
}
