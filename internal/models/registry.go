package models

import (
	"context"

	"github.com/lorenzotomasdiez/werewolf/internal/chat"
)

// Lister is the part of the chat client used to discover models.
type Lister interface {
	ListModels(ctx context.Context) ([]chat.Model, error)
}

// Registry holds a filtered list of free models.
type Registry struct {
	free []chat.Model
}

// NewRegistry creates a registry, keeping only free models (Prompt == "0" and Completion == "0").
// Models with nil Pricing are excluded.
func NewRegistry(models []chat.Model) *Registry {
	var free []chat.Model
	for _, m := range models {
		if m.Pricing == nil {
			continue
		}
		if m.Pricing.Prompt == "0" && m.Pricing.Completion == "0" {
			free = append(free, m)
		}
	}
	return &Registry{free: free}
}

// FreeModels returns all free models in the registry.
func (r *Registry) FreeModels() []chat.Model {
	return r.free
}

// SelectModels returns n models from the free list, cycling if n > available.
func (r *Registry) SelectModels(n int) []chat.Model {
	if len(r.free) == 0 || n <= 0 {
		return nil
	}
	selected := make([]chat.Model, n)
	for i := range n {
		selected[i] = r.free[i%len(r.free)]
	}
	return selected
}

// IDs returns the model ids in order.
func IDs(models []chat.Model) []string {
	ids := make([]string, len(models))
	for i, m := range models {
		ids[i] = m.ID
	}
	return ids
}

// ForSeats picks one model id per AI seat. A forced model wins; otherwise the
// live free list is used, falling back to DefaultFreeModels when the provider
// cannot be reached or lists nothing free.
func ForSeats(ctx context.Context, lister Lister, forced string, seats int) []string {
	if seats <= 0 {
		return nil
	}
	if forced != "" {
		ids := make([]string, seats)
		for i := range ids {
			ids[i] = forced
		}
		return ids
	}

	var reg *Registry
	if lister != nil {
		if live, err := lister.ListModels(ctx); err == nil {
			reg = NewRegistry(live)
		}
	}
	if reg == nil || len(reg.FreeModels()) == 0 {
		reg = NewRegistry(DefaultFreeModels())
	}
	return IDs(reg.SelectModels(seats))
}

// DefaultFreeModels returns a hardcoded fallback list of known free models.
func DefaultFreeModels() []chat.Model {
	return []chat.Model{
		{ID: "meta-llama/llama-3.3-70b-instruct:free", Name: "Llama 3.3 70B Instruct", Pricing: &chat.Pricing{Prompt: "0", Completion: "0"}},
		{ID: "qwen/qwen3-235b-a22b:free", Name: "Qwen3 235B A22B", Pricing: &chat.Pricing{Prompt: "0", Completion: "0"}},
		{ID: "google/gemma-3n-e2b-it:free", Name: "Gemma 3n 2B", Pricing: &chat.Pricing{Prompt: "0", Completion: "0"}},
		{ID: "nvidia/nemotron-nano-9b-v2:free", Name: "Nemotron Nano 9B V2", Pricing: &chat.Pricing{Prompt: "0", Completion: "0"}},
		{ID: "openai/gpt-oss-120b:free", Name: "GPT OSS 120B", Pricing: &chat.Pricing{Prompt: "0", Completion: "0"}},
	}
}
