package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/cadpilot/internal/core"
)

// ValidationToggler is the slice of the script runner this command drives.
type ValidationToggler interface {
	SetValidation(enabled bool)
	ValidationEnabled() bool
}

type ValidateCommand struct {
	runner    ValidationToggler
	formatter *ResponseFormatter
}

func NewValidateCommand(runner ValidationToggler) core.Command {
	return &ValidateCommand{
		runner:    runner,
		formatter: NewResponseFormatter(),
	}
}

func (c *ValidateCommand) Name() string {
	return "validate"
}

func (c *ValidateCommand) Description() string {
	return "Toggle pre-execution script validation"
}

func (c *ValidateCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	if len(args) == 0 {
		state := "off"
		if c.runner.ValidationEnabled() {
			state = "on"
		}
		return c.formatter.Combine(
			c.formatter.Info("Script Validation"),
			c.formatter.Label("Current", state),
			c.formatter.Usage("/validate on|off"),
		), nil
	}

	switch args[0] {
	case "on":
		c.runner.SetValidation(true)
		return c.formatter.Success("Validation enabled"), nil
	case "off":
		c.runner.SetValidation(false)
		return c.formatter.Success("Validation disabled"), nil
	default:
		return "", fmt.Errorf("unknown argument %q, expected on or off", args[0])
	}
}
