package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/lorenzotomasdiez/werewolf/internal/game"
)

const (
	transcriptFile = "transcript.json"
	reportFile     = "report.md"
	logFile        = "game.log"

	maxSlugLen = 50
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateSlug turns s into a lowercase, dash-separated name of at most 50 characters.
func GenerateSlug(s string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
	if len(slug) > maxSlugLen {
		slug = strings.TrimRight(slug[:maxSlugLen], "-")
	}
	return slug
}

// CreateOutputDir creates base/slug-YYYYMMDD-HHMMSS and returns its path.
func CreateOutputDir(base, slug string) (string, error) {
	dir := filepath.Join(base, fmt.Sprintf("%s-%s", slug, time.Now().Format("20060102-150405")))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("output: %w", err)
	}
	return dir, nil
}

// Writer saves a game's transcript, report and log in one directory.
type Writer struct {
	dir     string
	mu      sync.Mutex
	entries []string
}

// NewWriter creates a Writer for dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

// Log records a timestamped line and appends it to game.log right away so a
// crashed game still leaves a trace.
func (w *Writer) Log(line string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	entry := fmt.Sprintf("%s %s", time.Now().Format(time.RFC3339), line)
	w.entries = append(w.entries, entry)

	f, err := os.OpenFile(filepath.Join(w.dir, logFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprintln(f, entry)
}

// WriteLog rewrites game.log from every recorded line.
func (w *Writer) WriteLog() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var sb strings.Builder
	for _, e := range w.entries {
		sb.WriteString(e)
		sb.WriteByte('\n')
	}
	return w.write(logFile, []byte(sb.String()))
}

// WriteJSON saves the transcript as transcript.json.
func (w *Writer) WriteJSON(t *game.Transcript) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("output: %w", err)
	}
	return w.write(transcriptFile, data)
}

// WriteMarkdown saves a readable report as report.md.
func (w *Writer) WriteMarkdown(t *game.Transcript) error {
	var sb strings.Builder
	sb.WriteString("# Werewolf game report\n\n")
	switch t.Winner {
	case "":
		sb.WriteString("**Result:** unfinished\n\n")
	default:
		fmt.Fprintf(&sb, "**Winner:** %s (after %d turns)\n\n", t.Winner, t.Turns)
	}

	sb.WriteString("## Players\n\n| # | Name | Side | Status |\n|---|------|------|--------|\n")
	for _, p := range t.Players {
		name := p.Name
		if p.Human {
			name += " (human)"
		}
		status := "alive"
		if !p.Alive {
			status = "dead"
		}
		fmt.Fprintf(&sb, "| %d | %s | %s | %s |\n", p.ID, name, p.Alignment, status)
	}

	for _, rec := range t.Records {
		switch {
		case rec.Night != nil:
			fmt.Fprintf(&sb, "\n## Night %d\n\n%s\n", rec.Turn, rec.Night.Summary)
		case rec.Day != nil:
			fmt.Fprintf(&sb, "\n## Day %d\n\n", rec.Turn)
			for _, m := range rec.Day.Messages {
				fmt.Fprintf(&sb, "- **%s:** %s\n", m.Speaker, m.Text)
			}
			if len(rec.Day.Ballots) > 0 {
				sb.WriteString("\n### Votes\n\n")
				for _, b := range rec.Day.Ballots {
					fmt.Fprintf(&sb, "- %s → %s\n", b.Voter, b.Target)
				}
			}
			fmt.Fprintf(&sb, "\n%s\n", rec.Day.Summary)
		}
	}
	return w.write(reportFile, []byte(sb.String()))
}

func (w *Writer) write(name string, data []byte) error {
	if err := os.WriteFile(filepath.Join(w.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	return nil
}
