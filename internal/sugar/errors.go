package sugar

import (
	tea "github.com/charmbracelet/bubbletea"
)

type ErrorModel interface {
	tea.Model
	GetError() error
}

// RunProgramWithErrors runs model and returns its final state along with
// either the program's error or the error the model recorded.
func RunProgramWithErrors[M ErrorModel](model M, opts ...tea.ProgramOption) (M, error) {
	resultModel, teaErr := tea.NewProgram(model, opts...).Run()

	final, ok := resultModel.(M)
	if !ok {
		final = model
	}
	err := final.GetError()

	// Bubble Tea errors override custom errors
	if teaErr != nil {
		err = teaErr
	}

	return final, err
}
