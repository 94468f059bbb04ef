package ui

import (
	"fmt"
	"sort"
	"strings"
)

// KeyMode selects a keybinding table.
type KeyMode string

const (
	// KeyModeVim uses j/k/h/l navigation and / for search.
	KeyModeVim KeyMode = "vim"
	// KeyModeEmacs uses ctrl-modified keys.
	KeyModeEmacs KeyMode = "emacs"
)

// DefaultKeyMode is used when none is configured.
const DefaultKeyMode = KeyModeVim

// ParseKeyMode validates a configured key mode. The empty string selects
// DefaultKeyMode.
func ParseKeyMode(s string) (KeyMode, error) {
	switch KeyMode(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultKeyMode, nil
	case KeyModeVim:
		return KeyModeVim, nil
	case KeyModeEmacs:
		return KeyModeEmacs, nil
	default:
		return "", fmt.Errorf("unknown key mode %q (want vim or emacs)", s)
	}
}

// Action is what a key press asks the browser to do.
type Action string

const (
	ActionNone         Action = ""
	ActionDown         Action = "down"
	ActionUp           Action = "up"
	ActionBack         Action = "back"
	ActionForward      Action = "forward"
	ActionTop          Action = "top"
	ActionBottom       Action = "bottom"
	ActionSearch       Action = "search"
	ActionClearSearch  Action = "clear_search"
	ActionToggleDetail Action = "toggle_detail"
	ActionCopy         Action = "copy"
	ActionHelp         Action = "help"
	ActionQuit         Action = "quit"
)

// Keys shared by every mode.
var commonBindings = map[string]Action{
	"down":   ActionDown,
	"up":     ActionUp,
	"left":   ActionBack,
	"right":  ActionForward,
	"enter":  ActionForward,
	"home":   ActionTop,
	"end":    ActionBottom,
	"tab":    ActionToggleDetail,
	"esc":    ActionClearSearch,
	"ctrl+c": ActionQuit,
}

// VimKeyBindings maps vim-mode keys to actions.
var VimKeyBindings = map[string]Action{
	"j": ActionDown,
	"k": ActionUp,
	"h": ActionBack,
	"l": ActionForward,
	"g": ActionTop,
	"G": ActionBottom,
	"/": ActionSearch,
	"y": ActionCopy,
	"?": ActionHelp,
	"q": ActionQuit,
}

// EmacsKeyBindings maps emacs-mode keys to actions.
var EmacsKeyBindings = map[string]Action{
	"ctrl+n": ActionDown,
	"ctrl+p": ActionUp,
	"ctrl+b": ActionBack,
	"ctrl+f": ActionForward,
	"alt+<":  ActionTop,
	"alt+>":  ActionBottom,
	"ctrl+s": ActionSearch,
	"ctrl+g": ActionClearSearch,
	"alt+w":  ActionCopy,
	"f1":     ActionHelp,
	"ctrl+q": ActionQuit,
}

// ActionFor resolves a key, as rendered by tea.KeyPressMsg.String, in mode.
func ActionFor(mode KeyMode, key string) Action {
	table := VimKeyBindings
	if mode == KeyModeEmacs {
		table = EmacsKeyBindings
	}
	if a, ok := table[key]; ok {
		return a
	}
	return commonBindings[key]
}

// HelpText lists the bindings of mode, one action per line.
func HelpText(mode KeyMode) string {
	table := VimKeyBindings
	if mode == KeyModeEmacs {
		table = EmacsKeyBindings
	}
	order := []Action{
		ActionDown, ActionUp, ActionForward, ActionBack, ActionTop, ActionBottom,
		ActionSearch, ActionClearSearch, ActionToggleDetail, ActionCopy, ActionHelp, ActionQuit,
	}
	var b strings.Builder
	for _, a := range order {
		keys := keysFor(table, a)
		keys = append(keys, keysFor(commonBindings, a)...)
		if len(keys) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%-14s %s\n", strings.ReplaceAll(string(a), "_", " "), strings.Join(keys, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func keysFor(table map[string]Action, a Action) []string {
	var keys []string
	for k, v := range table {
		if v == a {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
