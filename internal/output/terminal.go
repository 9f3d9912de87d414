package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lorenzotomasdiez/werewolf/internal/game"
)

// Printer renders game events for a terminal. Colors follow what the
// writer supports, so piping to a file yields plain text.
type Printer struct {
	w io.Writer

	banner  lipgloss.Style
	night   lipgloss.Style
	day     lipgloss.Style
	name    lipgloss.Style
	wolf    lipgloss.Style
	village lipgloss.Style
	death   lipgloss.Style
	dim     lipgloss.Style
	box     lipgloss.Style
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:       w,
		banner:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
		night:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		day:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		name:    r.NewStyle().Bold(true),
		wolf:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		village: r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		death:   r.NewStyle().Foreground(lipgloss.Color("9")),
		dim:     r.NewStyle().Faint(true),
		box:     r.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	}
}

func (p *Printer) side(a game.Alignment) string {
	if a == game.Wolf {
		return p.wolf.Render("Werewolf")
	}
	return p.village.Render("Villager")
}

// Banner prints the game title.
func (p *Printer) Banner(title string) {
	fmt.Fprintf(p.w, "\n%s\n\n", p.box.Render(p.banner.Render(title)))
}

// Phase prints a phase transition banner.
func (p *Printer) Phase(phase game.Phase, turn int) {
	switch phase {
	case game.Night:
		fmt.Fprintf(p.w, "\n%s\n", p.night.Render(fmt.Sprintf("=== Night %d ===", turn)))
	case game.Day:
		fmt.Fprintf(p.w, "\n%s\n", p.day.Render(fmt.Sprintf("=== Day %d ===", turn)))
	case game.Terminal:
		fmt.Fprintf(p.w, "\n%s\n", p.banner.Render("=== Game over ==="))
	}
}

// Role tells the human seat its alignment and, for a wolf, its mates.
func (p *Printer) Role(human game.Participant, all []game.Participant) {
	fmt.Fprintf(p.w, "You are %s, a %s.\n", p.name.Render(human.Name), p.side(human.Alignment))
	if human.Alignment != game.Wolf {
		return
	}
	var mates []string
	for _, id := range human.Mates {
		for _, q := range all {
			if q.ID == id {
				mates = append(mates, q.Name)
			}
		}
	}
	if len(mates) == 0 {
		fmt.Fprintln(p.w, "You hunt alone.")
		return
	}
	fmt.Fprintf(p.w, "Your pack: %s\n", strings.Join(mates, ", "))
}

// Message prints one discussion line in full.
func (p *Printer) Message(m game.Message) {
	fmt.Fprintf(p.w, "%s: %s\n", p.name.Render(m.Speaker), m.Text)
}

// Night prints the night outcome.
func (p *Printer) Night(o game.NightOutcome) {
	if o.VictimID != game.NoTarget {
		fmt.Fprintln(p.w, p.death.Render(o.Summary))
		return
	}
	fmt.Fprintln(p.w, o.Summary)
}

// Day prints the ballots, the tally and the day outcome.
func (p *Printer) Day(o game.DayOutcome) {
	for _, b := range o.Ballots {
		fmt.Fprintln(p.w, p.dim.Render(fmt.Sprintf("%s votes against %s.", b.Voter, b.Target)))
	}
	if len(o.Tally) > 0 {
		parts := make([]string, len(o.Tally))
		for i, t := range o.Tally {
			parts[i] = fmt.Sprintf("%s %d", t.Name, t.Votes)
		}
		fmt.Fprintf(p.w, "Tally: %s\n", strings.Join(parts, ", "))
	}
	if o.EliminatedID != game.NoTarget {
		fmt.Fprintln(p.w, p.death.Render(o.Summary))
		return
	}
	fmt.Fprintln(p.w, o.Summary)
}

// Alive lists the living seats with their ids, the way the human refers
// to them when voting.
func (p *Printer) Alive(ps []game.Participant) {
	fmt.Fprintln(p.w, "Still alive:")
	for _, q := range ps {
		fmt.Fprintf(p.w, "  %2d  %s\n", q.ID, q.Name)
	}
}

// Result prints the winner and reveals every seat.
func (p *Printer) Result(t *game.Transcript) {
	var winner string
	switch t.Winner {
	case game.Wolf.String():
		winner = p.wolf.Render("The werewolves win!")
	case game.Villager.String():
		winner = p.village.Render("The village wins!")
	default:
		winner = "The game was interrupted."
	}
	fmt.Fprintf(p.w, "\n%s (after %d turns)\n", winner, t.Turns)
	for _, q := range t.Players {
		status := "alive"
		if !q.Alive {
			status = "dead"
		}
		fmt.Fprintf(p.w, "  %s  %s  %s\n", p.name.Render(q.Name), p.side(q.Alignment), p.dim.Render(status))
	}
}
