package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type Action string

// Binding ties keys to an action in one or more scopes. Keys[0] is the label
// shown in the footer.
type Binding struct {
	Action Action
	Keys   []string
	Help   string
	Scopes []string
}

// KeyRegistry resolves a key press to an action. Tab scopes fall back to the
// global scope.
type KeyRegistry struct {
	bindingsByScope map[string][]*Binding
	indexByScope    map[string]map[string]*Binding
}

const (
	scopeGlobal = "global"
	scopeRadar  = "radar"
	scopeGhost  = "ghost"
	scopeBrain  = "brain"
	scopeStatus = "status"
)

const (
	actionQuit      Action = "quit"
	actionNextTab   Action = "next_tab"
	actionPrevTab   Action = "prev_tab"
	actionJump      Action = "jump"
	actionRefresh   Action = "refresh"
	actionField     Action = "field"
	actionNextField Action = "next_field"
	actionPrevField Action = "prev_field"
	actionRegion    Action = "region"
	actionToggle    Action = "toggle"
	actionBack      Action = "back"
	actionScan      Action = "scan"
	actionExport    Action = "export"
	actionProcess   Action = "process"
	actionStrategy  Action = "strategy"
	actionSave      Action = "save"
	actionExecute   Action = "execute"
	actionScroll    Action = "scroll"
)

func NewKeyRegistry() *KeyRegistry {
	r := &KeyRegistry{
		bindingsByScope: make(map[string][]*Binding),
		indexByScope:    make(map[string]map[string]*Binding),
	}
	reg := func(scope string, action Action, keys []string, help string) {
		r.Register(Binding{Action: action, Keys: keys, Help: help, Scopes: []string{scope}})
	}

	reg(scopeRadar, actionField, []string{"↑/↓", "up", "down"}, "field")
	reg(scopeRadar, actionRegion, []string{"←/→", "left", "right"}, "region")
	reg(scopeRadar, actionToggle, []string{"space"}, "toggle")
	reg(scopeRadar, actionScan, []string{"enter"}, "scan")
	reg(scopeRadar, actionExport, []string{"ctrl+e"}, "export CSV")
	reg(scopeRadar, actionBack, []string{"esc"}, "leave table")

	reg(scopeGhost, actionProcess, []string{"enter"}, "process")

	reg(scopeBrain, actionNextField, []string{"ctrl+n"}, "next field")
	reg(scopeBrain, actionPrevField, []string{"ctrl+p"}, "prev field")
	reg(scopeBrain, actionStrategy, []string{"←/→", "left", "right"}, "strategy")
	reg(scopeBrain, actionSave, []string{"ctrl+s"}, "save context")
	reg(scopeBrain, actionExecute, []string{"ctrl+x"}, "execute")
	reg(scopeBrain, actionScroll, []string{"pgup/pgdn", "pgup", "pgdown"}, "scroll")

	reg(scopeGlobal, actionNextTab, []string{"tab"}, "next tab")
	reg(scopeGlobal, actionPrevTab, []string{"shift+tab"}, "prev tab")
	reg(scopeGlobal, actionJump, []string{"alt+1-4", "alt+1", "alt+2", "alt+3", "alt+4"}, "jump")
	reg(scopeGlobal, actionRefresh, []string{"ctrl+r"}, "refresh")
	reg(scopeGlobal, actionQuit, []string{"ctrl+c"}, "quit")
	return r
}

// Register adds b to each of its scopes. A key already bound in a scope keeps
// its first binding.
func (r *KeyRegistry) Register(b Binding) {
	keys := normalizeKeyList(b.Keys)
	if len(keys) == 0 {
		return
	}
	for _, scope := range b.Scopes {
		scope = strings.TrimSpace(scope)
		if scope == "" || r.scopeHasAnyKey(scope, keys) {
			continue
		}
		if _, ok := r.indexByScope[scope]; !ok {
			r.indexByScope[scope] = make(map[string]*Binding)
		}
		cp := b
		cp.Keys = keys
		cp.Scopes = []string{scope}
		r.bindingsByScope[scope] = append(r.bindingsByScope[scope], &cp)
		for _, k := range cp.Keys {
			r.indexByScope[scope][k] = &cp
		}
	}
}

func (r *KeyRegistry) Lookup(keyName, scope string) *Binding {
	keyName = normalizeKeyName(keyName)
	if keyName == "" {
		return nil
	}
	if b := r.indexByScope[scope][keyName]; b != nil {
		return b
	}
	if scope != scopeGlobal {
		return r.indexByScope[scopeGlobal][keyName]
	}
	return nil
}

// Action is the action bound to msg in scope, or "" when none is.
func (r *KeyRegistry) Action(msg tea.KeyMsg, scope string) Action {
	if b := r.Lookup(msg.String(), scope); b != nil {
		return b.Action
	}
	return ""
}

func (r *KeyRegistry) HelpBindings(scope string) []key.Binding {
	items := r.bindingsByScope[scope]
	out := make([]key.Binding, 0, len(items))
	for _, b := range items {
		out = append(out, key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(b.Keys[0], b.Help)))
	}
	return out
}

func (r *KeyRegistry) scopeHasAnyKey(scope string, keys []string) bool {
	lookup := r.indexByScope[scope]
	for _, k := range keys {
		if _, ok := lookup[k]; ok {
			return true
		}
	}
	return false
}

func normalizeKeyList(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool)
	for _, k := range keys {
		k = normalizeKeyName(k)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

// normalizeKeyName lowercases a key name. bubbletea reports the space bar as
// " ", which is stored as "space".
func normalizeKeyName(k string) string {
	if k == " " {
		return "space"
	}
	return strings.ToLower(strings.TrimSpace(k))
}
