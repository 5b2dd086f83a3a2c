package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen/resource-feed/internal/platform/logging"
)

// Commands that change state run as Validate → Perform → Respond.
//
// Validate checks every precondition and builds the state Perform needs.
// Nothing is written before it passes. Perform applies the change (usually
// by staging and committing actions on the request scope). Respond shapes
// the result for the caller and never fails the write that already happened.

// ExecutionStep names a step of a command.
type ExecutionStep string

const (
	StepValidate ExecutionStep = "validate"
	StepPerform  ExecutionStep = "perform"
	StepRespond  ExecutionStep = "respond"
)

// ExecutionError records which step of a command failed.
// The cause stays reachable with errors.Is and errors.As.
type ExecutionError struct {
	Command string
	Step    ExecutionStep
	Cause   error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Command, e.Step, e.Cause)
}

func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// FailedStep reports the step an error came from, if it came from a command.
func FailedStep(err error) (ExecutionStep, bool) {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Step, true
	}

	return "", false
}

// Command describes one state-changing use case.
// I is the caller's input, S the validated state and O the result.
type Command[I, S, O any] struct {
	Name string

	Validate func(ctx context.Context, input I) (S, error)
	Perform  func(ctx context.Context, state S) error
	Respond  func(ctx context.Context, state S) (O, error)
}

// Run executes cmd for input, logging each step with the request logger.
func Run[I, S, O any](ctx context.Context, cmd Command[I, S, O], input I) (O, error) {
	var zero O

	logger := logging.FromContext(ctx).With(slog.String("command", cmd.Name))
	start := time.Now()

	fail := func(step ExecutionStep, err error, level slog.Level) (O, error) {
		logger.Log(ctx, level, "command failed",
			slog.String("step", string(step)),
			slog.Any("error", err),
			slog.Duration("duration", time.Since(start)),
		)

		return zero, &ExecutionError{Command: cmd.Name, Step: step, Cause: err}
	}

	state, err := cmd.Validate(ctx, input)
	if err != nil {
		return fail(StepValidate, err, slog.LevelWarn)
	}

	logger.DebugContext(ctx, "command validated")

	if cmd.Perform != nil {
		if err := cmd.Perform(ctx, state); err != nil {
			return fail(StepPerform, err, slog.LevelError)
		}
	}

	out := zero
	if cmd.Respond != nil {
		out, err = cmd.Respond(ctx, state)
		if err != nil {
			return fail(StepRespond, err, slog.LevelWarn)
		}
	}

	logger.InfoContext(ctx, "command completed", slog.Duration("duration", time.Since(start)))

	return out, nil
}
