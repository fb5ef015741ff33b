package domain

// Button is a labeled action on an inline keyboard.
type Button struct {
	Label  string
	Action Action
}

// Keyboard is a 2-D layout of buttons, one slice per row.
type Keyboard [][]Button

// Row is a helper for building a Keyboard.
func Row(buttons ...Button) []Button {
	return buttons
}
