package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Command palette
	Command key.Binding

	// Help toggle
	Help key.Binding

	// Views
	SwitchPeriod key.Binding
	History      key.Binding
	SwitchUser   key.Binding

	// Draft editing
	Add      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Section  key.Binding
	Complete key.Binding

	// Review
	Green       key.Binding
	Yellow      key.Binding
	Red         key.Binding
	Unset       key.Binding
	Explanation key.Binding
	Revert      key.Binding

	// Sharing
	Copy key.Binding
	Mail key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command palette"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		SwitchPeriod: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "daily/weekly"),
		),
		History: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "history"),
		),
		SwitchUser: key.NewBinding(
			key.WithKeys("U"),
			key.WithHelp("U", "switch user"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add item"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit item"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete item"),
		),
		Section: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "cycle section"),
		),
		Complete: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "mark completed"),
		),
		Green: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "green"),
		),
		Yellow: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "yellow"),
		),
		Red: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "red"),
		),
		Unset: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "clear outcome"),
		),
		Explanation: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "explain yellow"),
		),
		Revert: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "revert to draft"),
		),
		Copy: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "copy share text"),
		),
		Mail: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "save mail draft"),
		),
	}
}

// DraftMode enables the editing bindings and disables the review ones.
func (k *KeyMap) DraftMode(draft bool) {
	for _, b := range []*key.Binding{&k.Add, &k.Edit, &k.Delete, &k.Section, &k.Complete} {
		b.SetEnabled(draft)
	}
	for _, b := range []*key.Binding{&k.Green, &k.Yellow, &k.Red, &k.Unset, &k.Explanation, &k.Revert} {
		b.SetEnabled(!draft)
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Add, k.Complete, k.Green, k.Yellow, k.Red, k.Revert,
		k.Copy, k.SwitchPeriod, k.Help, k.Quit,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Back, k.Quit},
		{k.Add, k.Edit, k.Delete, k.Section, k.Complete},
		{k.Green, k.Yellow, k.Red, k.Unset, k.Explanation, k.Revert},
		{k.Copy, k.Mail, k.SwitchPeriod, k.History, k.SwitchUser, k.Command, k.Help},
	}
}
