package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"ImageTranslator/internal/config"
)

// ErrUsage is returned by a command when arguments are invalid and usage should be shown.
var ErrUsage = errors.New("usage")

// Command represents a CLI subcommand.
type Command interface {
	// Name returns the command name as typed by the user, e.g. "key-set".
	Name() string
	// Description is a short human-readable description shown in help.
	Description() string
	// Usage returns the exact usage string, e.g. "key-set <api-key>".
	Usage() string
	// Run executes the command with provided args (without the command name).
	Run(ctx context.Context, cfg *config.Config, args []string) error
}

// registry holds available commands by name.
var registry = map[string]Command{}

// Out — общий writer для вывода CLI. По умолчанию os.Stdout, но в тестах может переназначаться.
var Out io.Writer = os.Stdout

// RegisterCmd adds a command to the registry. Should be called from init() of each command.
func RegisterCmd(cmd Command) {
	registry[cmd.Name()] = cmd
}

// Get returns a command by name.
func Get(name string) (Command, bool) {
	c, ok := registry[name]
	return c, ok
}

// List returns all registered commands sorted by name.
func List() []Command {
	list := make([]Command, 0, len(registry))
	for _, c := range registry {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// Разделы справки в порядке вывода. Команды без раздела попадают в "Other".
var sections = []struct {
	title string
	names []string
}{
	{"API key", []string{"key-set", "key-show", "key-delete"}},
	{"Translation", []string{"translate", "settings"}},
	{"History", []string{"history", "history-get", "history-note", "favorite", "history-delete", "history-clear"}},
	{"Maintenance", []string{"cleanup", "stats", "export"}},
}

// usageWidth — ширина колонки usage; более длинные описания переносятся на следующую строку.
const usageWidth = 40

func usageLine(c Command) []string {
	u := c.Usage()
	if len(u) <= usageWidth {
		return []string{fmt.Sprintf("  %-*s %s", usageWidth, u, c.Description())}
	}
	return []string{"  " + u, fmt.Sprintf("  %-*s %s", usageWidth, "", c.Description())}
}

// FormatGlobalUsage builds a help text for all commands, grouped by section.
func FormatGlobalUsage() string {
	lines := []string{
		"Image Translator CLI",
		"",
		"Usage:",
		"  imgtrans [--data-dir <dir>] [--cipher-mode auto|secure|fallback] <command> [args]",
	}

	listed := map[string]bool{}
	for _, s := range sections {
		var body []string
		for _, name := range s.names {
			if c, ok := Get(name); ok {
				body = append(body, usageLine(c)...)
				listed[name] = true
			}
		}
		if len(body) > 0 {
			lines = append(lines, "", s.title+":")
			lines = append(lines, body...)
		}
	}

	var other []string
	for _, c := range List() {
		if !listed[c.Name()] {
			other = append(other, usageLine(c)...)
		}
	}
	if len(other) > 0 {
		lines = append(lines, "", "Other:")
		lines = append(lines, other...)
	}
	return strings.Join(lines, "\n") + "\n"
}
