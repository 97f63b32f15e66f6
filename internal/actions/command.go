package actions

import (
	"strings"

	"github.com/dotcommander/tick/internal/models"
)

// Command is the closed set of operations the CLI can dispatch.
// Only the variants in this file implement it.
type Command interface {
	isCommand()
}

// Add creates a task named Name.
type Add struct {
	Name string
}

// Update sets the done flag of task ID.
type Update struct {
	ID   int64
	Done bool
}

// Get lists active tasks.
type Get struct{}

// Delete soft-deletes task ID.
type Delete struct {
	ID int64
}

func (Add) isCommand()    {}
func (Update) isCommand() {}
func (Get) isCommand()    {}
func (Delete) isCommand() {}

// ParseDone parses a --done value. Only true and false are accepted, in any case.
func ParseDone(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, &models.ValidationError{Field: "done", Reason: "expected 'true' or 'false', got '" + s + "'"}
	}
}
