package agent

import (
	"fmt"
	"strings"

	"github.com/lorenzotomasdiez/werewolf/internal/chat"
	"github.com/lorenzotomasdiez/werewolf/internal/game"
)

const gameStart = "The game has just started."

func history(p game.Prompt) string {
	if len(p.History) == 0 {
		return gameStart
	}
	return strings.Join(p.History, "\n")
}

func names(cs []game.Candidate) string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return strings.Join(out, ", ")
}

func mateList(p game.Prompt) string {
	if len(p.Mates) == 0 {
		return "none"
	}
	return names(p.Mates)
}

func withPersona(sb *strings.Builder, p game.Prompt) {
	if p.Persona == "" {
		return
	}
	fmt.Fprintf(sb, "- Your personality and way of speaking:\n%s\n", p.Persona)
}

func speakMessages(p game.Prompt) []chat.Message {
	var sb strings.Builder
	var task string
	if p.Alignment == game.Wolf {
		sb.WriteString("You are playing Werewolf as a WEREWOLF.\n")
		fmt.Fprintf(&sb, "- Your name is %s.\n", p.Self.Name)
		fmt.Fprintf(&sb, "- Your fellow werewolves are: %s (SECRET information).\n", mateList(p))
		sb.WriteString("- Protect them and steer suspicion towards the others.\n")
		sb.WriteString("- Look innocent and reasonable.\n")
		sb.WriteString("- Speak English, in ONE short sentence.\n")
		sb.WriteString("- Never reveal that you are a werewolf or who the werewolves are.\n")
		task = "Say one line of debate that turns suspicion towards players who are NOT your fellow werewolves, and subtly defend them if you can."
	} else {
		sb.WriteString("You are playing Werewolf as a VILLAGER.\n")
		fmt.Fprintf(&sb, "- Your name is %s.\n", p.Self.Name)
		sb.WriteString("- You do NOT know who the werewolves are.\n")
		sb.WriteString("- Rely only on what you hear.\n")
		sb.WriteString("- You want to help the village find the werewolves.\n")
		sb.WriteString("- Speak English, in ONE short and natural sentence.\n")
		task = "Say one line of debate: accuse, defend, doubt or ask a question."
	}
	withPersona(&sb, p)

	return []chat.Message{
		chat.System(sb.String()),
		chat.User(fmt.Sprintf("Recent history:\n%s\n\n%s", history(p), task)),
	}
}

func voteMessages(p game.Prompt, pool []game.Candidate) []chat.Message {
	var sb strings.Builder
	var task string
	if p.Alignment == game.Wolf {
		sb.WriteString("You are playing Werewolf as a WEREWOLF.\n")
		fmt.Fprintf(&sb, "- Your fellow werewolves are: %s (do not say it).\n", mateList(p))
		sb.WriteString("- You must NOT vote against them.\n")
		sb.WriteString("- You want a player who is not one of yours eliminated.\n")
		sb.WriteString("- Stay discreet and logical.\n")
		task = "Answer ONLY with the NAME of the player you want eliminated, avoiding your fellow werewolves."
	} else {
		sb.WriteString("You are playing Werewolf as a VILLAGER.\n")
		sb.WriteString("- You do not know who the werewolves are.\n")
		sb.WriteString("- The debate is over and you must choose who to vote against.\n")
		sb.WriteString("- Rely only on what you have heard.\n")
		task = "Answer ONLY with the NAME of the player you find the most suspicious."
	}
	withPersona(&sb, p)

	return []chat.Message{
		chat.System(sb.String()),
		chat.User(fmt.Sprintf("Recent history:\n%s\n\nYou can vote for: %s.\n%s", history(p), names(pool), task)),
	}
}

func nightMessages(p game.Prompt) []chat.Message {
	var sb strings.Builder
	sb.WriteString("You are playing Werewolf as a WEREWOLF and it is night.\n")
	fmt.Fprintf(&sb, "- Your fellow werewolves are: %s.\n", mateList(p))
	sb.WriteString("- Choose one villager to eliminate, ideally the one most dangerous to your pack.\n")
	withPersona(&sb, p)

	return []chat.Message{
		chat.System(sb.String()),
		chat.User(fmt.Sprintf("Recent history:\n%s\n\nThe villagers still alive are: %s.\nAnswer ONLY with the NAME of your victim.", history(p), names(p.Candidates))),
	}
}

const retryHint = "Your previous answer did not name one of the listed players. Answer ONLY with one name from the list."
