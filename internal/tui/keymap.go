package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"charm.land/bubbles/v2/key"
)

// keyMap holds every board binding.
type keyMap struct {
	quit          key.Binding
	toggleHelp    key.Binding
	moveLeft      key.Binding
	moveRight     key.Binding
	moveUp        key.Binding
	moveDown      key.Binding
	pickUp        key.Binding
	drop          key.Binding
	cancel        key.Binding
	addCard       key.Binding
	addColumn     key.Binding
	renameCard    key.Binding
	renameColumn  key.Binding
	deleteCard    key.Binding
	deleteColumn  key.Binding
	details       key.Binding
	yank          key.Binding
	focusMode     key.Binding
	focusSelected key.Binding
	exitFocus     key.Binding
}

// newKeyMap constructs the default key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		toggleHelp:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		moveLeft:      key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "left")),
		moveRight:     key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "right")),
		moveUp:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		moveDown:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		pickUp:        key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "pick up/drop")),
		drop:          key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop")),
		cancel:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel move")),
		addCard:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add card")),
		addColumn:     key.NewBinding(key.WithKeys("A", "shift+a"), key.WithHelp("A", "add column")),
		renameCard:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "rename card")),
		renameColumn:  key.NewBinding(key.WithKeys("E", "shift+e"), key.WithHelp("E", "rename column")),
		deleteCard:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete card")),
		deleteColumn:  key.NewBinding(key.WithKeys("D", "shift+d"), key.WithHelp("D", "delete column")),
		details:       key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "card details")),
		yank:          key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy title")),
		focusMode:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "focus mode")),
		focusSelected: key.NewBinding(key.WithKeys("F", "shift+f"), key.WithHelp("F", "focus selected")),
		exitFocus:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "exit focus")),
	}
}

// applyConfig overrides configurable bindings from runtime key settings.
func (k *keyMap) applyConfig(cfg KeyConfig) {
	configureBinding(&k.focusMode, cfg.FocusMode, "f", "focus mode")
	configureBinding(&k.focusSelected, cfg.FocusSelected, "F", "focus selected")
	configureBinding(&k.exitFocus, cfg.ExitFocus, "x", "exit focus")
	configureBinding(&k.details, cfg.Details, "i", "card details")
	configureBinding(&k.yank, cfg.Yank, "y", "copy title")
}

// configureBinding replaces a binding's keys and help text with raw, falling back when blank.
func configureBinding(b *key.Binding, raw, fallback, desc string) {
	keys, help := parseBindingKeys(raw, fallback)
	b.SetKeys(keys...)
	b.SetHelp(help, desc)
}

// parseBindingKeys converts one configured key into matcher keys plus help text.
func parseBindingKeys(raw, fallback string) ([]string, string) {
	value := strings.TrimSpace(raw)
	if value == "" {
		value = fallback
	}
	if strings.EqualFold(value, "space") {
		return []string{" ", "space"}, "space"
	}
	if utf8.RuneCountInString(value) == 1 {
		r, _ := utf8.DecodeRuneInString(value)
		if unicode.IsUpper(r) {
			return []string{value, "shift+" + string(unicode.ToLower(r))}, value
		}
		return []string{value}, value
	}
	return []string{strings.ToLower(value)}, value
}

// ShortHelp returns the bindings shown in the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.pickUp, k.addCard, k.renameCard, k.details, k.focusMode, k.toggleHelp, k.quit,
	}
}

// FullHelp returns grouped bindings for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.moveLeft, k.moveRight, k.moveUp, k.moveDown},
		{k.pickUp, k.drop, k.cancel},
		{k.addCard, k.addColumn, k.renameCard, k.renameColumn, k.deleteCard, k.deleteColumn},
		{k.details, k.yank, k.focusMode, k.focusSelected, k.exitFocus, k.toggleHelp, k.quit},
	}
}

// moveKeyMap is the footer help shown while a card is picked up.
type moveKeyMap struct {
	keys keyMap
}

// ShortHelp returns the pick-up bindings.
func (k moveKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.keys.moveLeft, k.keys.moveRight, k.keys.moveUp, k.keys.moveDown, k.keys.pickUp, k.keys.drop, k.keys.cancel}
}

// FullHelp returns the pick-up bindings as one group.
func (k moveKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
