package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	left      key.Binding
	right     key.Binding
	up        key.Binding
	down      key.Binding
	prevMonth key.Binding
	nextMonth key.Binding
	prevYear  key.Binding
	nextYear  key.Binding
	today     key.Binding
	open      key.Binding
	add       key.Binding
	edit      key.Binding
	del       key.Binding
	back      key.Binding
	quit      key.Binding

	// task dialog
	nextField key.Binding
	prevField key.Binding
	save      key.Binding
	remove    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "day")),
		right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "day")),
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		prevMonth: key.NewBinding(key.WithKeys("<", ","), key.WithHelp("<", "prev month")),
		nextMonth: key.NewBinding(key.WithKeys(">", "."), key.WithHelp(">", "next month")),
		prevYear:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev year")),
		nextYear:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next year")),
		today:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open day")),
		add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		edit:      key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter/e", "edit")),
		del:       key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		nextField: key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		prevField: key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		save:      key.NewBinding(key.WithKeys("enter", "ctrl+s"), key.WithHelp("enter", "save")),
		remove:    key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "delete")),
	}
}

func (k keyMap) monthHelp() []key.Binding {
	return []key.Binding{k.open, k.prevMonth, k.nextMonth, k.prevYear, k.nextYear, k.today, k.quit}
}

func (k keyMap) dayHelp() []key.Binding {
	return []key.Binding{k.add, k.edit, k.del, k.back}
}

func (k keyMap) taskHelp(editing bool) []key.Binding {
	bindings := []key.Binding{k.nextField, k.save}
	if editing {
		bindings = append(bindings, k.remove)
	}
	return append(bindings, k.back)
}
