package ui

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/derailed/tcell/v2"
)

// Standard rune keys, expressed as tcell keys so they share one keymap.
const (
	KeySlash    tcell.Key = '/'
	KeyColon    tcell.Key = ':'
	KeyQuestion tcell.Key = '?'
	KeyLeftBr   tcell.Key = '['
	KeyRightBr  tcell.Key = ']'
	KeyLt       tcell.Key = '<'
	KeyGt       tcell.Key = '>'
	KeyC        tcell.Key = 'c'
	KeyE        tcell.Key = 'e'
	KeyF        tcell.Key = 'f'
	KeyG        tcell.Key = 'g'
	KeyShiftG   tcell.Key = 'G'
	KeyJ        tcell.Key = 'j'
	KeyShiftJ   tcell.Key = 'J'
	KeyK        tcell.Key = 'k'
	KeyH        tcell.Key = 'h'
	KeyL        tcell.Key = 'l'
	KeyN        tcell.Key = 'n'
	KeyP        tcell.Key = 'p'
	KeyQ        tcell.Key = 'q'
	KeyS        tcell.Key = 's'
	KeyShiftS   tcell.Key = 'S'
	KeyW        tcell.Key = 'w'
	KeyY        tcell.Key = 'y'
)

// ActionHandler handles a keyboard command.
type ActionHandler func(*tcell.EventKey) *tcell.EventKey

// KeyAction represents a keyboard action.
type KeyAction struct {
	Description string
	Action      ActionHandler
	Visible     bool
}

// KeyMap tracks key to action mappings.
type KeyMap map[tcell.Key]KeyAction

// NewKeyAction returns a new keyboard action.
func NewKeyAction(d string, a ActionHandler, visible bool) KeyAction {
	return KeyAction{Description: d, Action: a, Visible: visible}
}

// KeyActions tracks the actions bound to a view.
type KeyActions struct {
	actions KeyMap
	mx      sync.RWMutex
}

// NewKeyActions returns an empty action set.
func NewKeyActions() *KeyActions {
	return &KeyActions{actions: make(KeyMap)}
}

// Add binds an action.
func (a *KeyActions) Add(k tcell.Key, ka KeyAction) {
	a.mx.Lock()
	defer a.mx.Unlock()

	a.actions[k] = ka
}

// Bulk binds several actions.
func (a *KeyActions) Bulk(km KeyMap) {
	a.mx.Lock()
	defer a.mx.Unlock()

	for k, v := range km {
		a.actions[k] = v
	}
}

// Get returns the action bound to k.
func (a *KeyActions) Get(k tcell.Key) (KeyAction, bool) {
	a.mx.RLock()
	defer a.mx.RUnlock()

	v, ok := a.actions[k]
	return v, ok
}

// Delete unbinds keys.
func (a *KeyActions) Delete(kk ...tcell.Key) {
	a.mx.Lock()
	defer a.mx.Unlock()

	for _, k := range kk {
		delete(a.actions, k)
	}
}

// Len returns the number of bindings.
func (a *KeyActions) Len() int {
	a.mx.RLock()
	defer a.mx.RUnlock()

	return len(a.actions)
}

// Hints returns the menu hints of the visible actions.
func (a *KeyActions) Hints() MenuHints {
	a.mx.RLock()
	defer a.mx.RUnlock()

	kk := make([]tcell.Key, 0, len(a.actions))
	for k := range a.actions {
		kk = append(kk, k)
	}
	sort.Slice(kk, func(i, j int) bool { return kk[i] < kk[j] })

	hh := make(MenuHints, 0, len(kk))
	for _, k := range kk {
		v := a.actions[k]
		hh = append(hh, MenuHint{
			Mnemonic:    KeyName(k),
			Description: v.Description,
			Visible:     v.Visible,
		})
	}
	return hh
}

// AsKey maps a rune event onto its keymap key.
func AsKey(evt *tcell.EventKey) tcell.Key {
	if evt.Key() != tcell.KeyRune {
		return evt.Key()
	}
	return tcell.Key(evt.Rune())
}

// KeyName returns a short display name for k.
func KeyName(k tcell.Key) string {
	if n, ok := tcell.KeyNames[k]; ok {
		return n
	}
	return string(rune(k))
}

// ParseKey resolves a shortcut such as "Ctrl-S", "F5" or "x".
func ParseKey(s string) (tcell.Key, error) {
	if rr := []rune(s); len(rr) == 1 {
		return tcell.Key(rr[0]), nil
	}
	for k, n := range tcell.KeyNames {
		if strings.EqualFold(n, s) {
			return k, nil
		}
	}

	return 0, fmt.Errorf("invalid shortcut %q", s)
}
