package tui

// Key binding constants used in handleKey.
const (
	KeyQuit      = "q"
	KeyCtrlC     = "ctrl+c"
	KeyUp        = "up"
	KeyDown      = "down"
	KeyJ         = "j"
	KeyK         = "k"
	KeyTab       = "tab"
	KeyEnter     = "enter"
	KeyToggle    = "x"
	KeyRecord    = "ctrl+r"
	KeyBack      = "esc"
	KeyDone      = "ctrl+d"
	KeyBackspace = "backspace"
	KeySpace     = " "
)
