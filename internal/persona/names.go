package persona

import (
	"context"
	"fmt"
	"strings"

	"github.com/lorenzotomasdiez/werewolf/internal/chat"
)

// FallbackNames are used when no provider can suggest names.
var FallbackNames = []string{"Alice", "Bob", "Chloe", "David", "Emma", "Franck", "Gina", "Hugo", "Irina"}

// Completer is the part of the chat client used to ask for names.
type Completer interface {
	ChatCompletion(ctx context.Context, model string, messages []chat.Message) (*chat.Response, error)
}

// Names returns count display names for the AI seats. It asks the provider
// for comma-separated first names and falls back to FallbackNames on any
// failure. Short lists are padded with AI_<n>.
func Names(ctx context.Context, llm Completer, model string, count int) []string {
	if count <= 0 {
		return nil
	}
	names := suggest(ctx, llm, model, count)
	if len(names) == 0 {
		names = append([]string(nil), FallbackNames...)
	}
	for len(names) < count {
		names = append(names, fmt.Sprintf("AI_%d", len(names)+1))
	}
	return names[:count]
}

func suggest(ctx context.Context, llm Completer, model string, count int) []string {
	if llm == nil {
		return nil
	}
	resp, err := llm.ChatCompletion(ctx, model, []chat.Message{
		chat.System("You generate short, human first names suited for a social deduction game."),
		chat.User(fmt.Sprintf("Return a list of %d distinct human first names, separated by commas, with no extra text.", count)),
	})
	if err != nil {
		return nil
	}
	text, ok := resp.Content()
	if !ok {
		return nil
	}

	seen := make(map[string]bool)
	var names []string
	for _, part := range strings.Split(text, ",") {
		name := strings.Trim(strings.TrimSpace(part), ".\"'")
		key := strings.ToLower(name)
		if name == "" || seen[key] || strings.ContainsAny(name, " \n:") {
			continue
		}
		seen[key] = true
		names = append(names, name)
	}
	return names
}
