package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// RunSim starts the terminal playground and blocks until the user quits.
func RunSim(opts Options) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("sim requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	p := tea.NewProgram(NewSim(opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("sim: %w", err)
	}
	return nil
}
