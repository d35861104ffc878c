package cli

import "github.com/charmbracelet/bubbles/key"

type signupKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Reveal key.Binding
	Submit key.Binding
	Enter  key.Binding
	Retry  key.Binding
	Quit   key.Binding
}

func newSignupKeyMap() signupKeyMap {
	return signupKeyMap{
		Next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev")),
		Reveal: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "show/hide")),
		Submit: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "sign up")),
		Enter:  key.NewBinding(key.WithKeys("enter")),
		Retry:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "retry checks")),
		Quit:   key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
}

func (k signupKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Reveal, k.Submit, k.Retry, k.Quit}
}

func (k signupKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev},
		{k.Reveal, k.Submit, k.Retry},
		{k.Quit},
	}
}
