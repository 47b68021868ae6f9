package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Units    key.Binding
	Interval key.Binding
	Delta    key.Binding
	Zeros    key.Binding
	Edit     key.Binding
	Graph    key.Binding
	Dump     key.Binding
	Help     key.Binding
	Quit     key.Binding

	StepBack    key.Binding
	StepForward key.Binding
	PageBack    key.Binding
	PageForward key.Binding
	OldestEdge  key.Binding
	LiveEdge    key.Binding

	Up     key.Binding
	Down   key.Binding
	Pin    key.Binding
	Hide   key.Binding
	Reset  key.Binding
	ResetA key.Binding
	Enter  key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Units, k.Interval, k.Delta, k.Edit, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Units, k.Interval, k.Delta, k.Zeros},
		{k.Edit, k.Graph, k.Dump, k.Quit},
		{k.StepBack, k.StepForward, k.PageBack, k.PageForward},
		{k.OldestEdge, k.LiveEdge},
		{k.Up, k.Down, k.Pin, k.Hide, k.Reset, k.ResetA},
	}
}

var keys = keyMap{
	Units: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "memory units"),
	),
	Interval: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "column interval"),
	),
	Delta: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "show deltas"),
	),
	Zeros: key.NewBinding(
		key.WithKeys("z"),
		key.WithHelp("z", "show all-zero lines"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit pins/hides"),
	),
	Graph: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "sparkline pane"),
	),
	Dump: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "dump history to csv"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q/ctrl+c", "quit"),
	),

	StepBack: key.NewBinding(
		key.WithKeys("<", ","),
		key.WithHelp("<", "scroll back one column"),
	),
	StepForward: key.NewBinding(
		key.WithKeys(">", "."),
		key.WithHelp(">", "scroll forward one column"),
	),
	PageBack: key.NewBinding(
		key.WithKeys("{"),
		key.WithHelp("{", "jump back"),
	),
	PageForward: key.NewBinding(
		key.WithKeys("}"),
		key.WithHelp("}", "jump forward"),
	),
	OldestEdge: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "oldest edge"),
	),
	LiveEdge: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "back to live"),
	),

	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "move cursor"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "move cursor"),
	),
	Pin: key.NewBinding(
		key.WithKeys("*"),
		key.WithHelp("*", "pin line on top"),
	),
	Hide: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "hide line"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset line"),
	),
	ResetA: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "reset all lines"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "leave edit/help"),
	),
}
