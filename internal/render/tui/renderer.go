package tui

import (
	"SignalDash/internal/domain/models"

	tea "github.com/charmbracelet/bubbletea"
)

// Renderer drives a bubbletea program from dashboard projections.
type Renderer struct {
	program *tea.Program
}

// NewRenderer creates the program. Run must be called for projections to be drawn.
func NewRenderer(opts ...tea.ProgramOption) *Renderer {
	return &Renderer{program: tea.NewProgram(New(), opts...)}
}

// Render implements repository.Renderer. It returns once the program has taken the
// message, or immediately after the program has exited.
func (r *Renderer) Render(p models.Projection) {
	r.program.Send(projectionMsg{p: p})
}

// Run blocks until the user quits or Quit is called.
func (r *Renderer) Run() error {
	_, err := r.program.Run()
	return err
}

func (r *Renderer) Quit() {
	r.program.Quit()
}
