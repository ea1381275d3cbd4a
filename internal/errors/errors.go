// Package errors provides sentinel errors and custom error types for the subrepo-install application.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common conditions
var (
	// ErrRefNotFound indicates that a ref could not be resolved on the remote
	ErrRefNotFound = errors.New("ref not found on remote")

	// ErrNoDescriptor indicates that a directory has no readable package descriptor
	ErrNoDescriptor = errors.New("missing package descriptor")

	// ErrDuplicateDir indicates that two sub-repository specs target the same directory
	ErrDuplicateDir = errors.New("duplicate sub-repository dir")
)

// RefNotFoundError represents a ref that the remote does not advertise
type RefNotFoundError struct {
	Remote string
	Ref    string
}

func (e *RefNotFoundError) Error() string {
	return fmt.Sprintf("ref %s not found on remote %s", e.Ref, e.Remote)
}

// Is returns true if the target error is ErrRefNotFound
func (e *RefNotFoundError) Is(target error) bool {
	return target == ErrRefNotFound
}

// NewRefNotFoundError creates a new RefNotFoundError
func NewRefNotFoundError(remote, ref string) *RefNotFoundError {
	return &RefNotFoundError{Remote: remote, Ref: ref}
}

// DescriptorError represents an unreadable or unparsable package.json
type DescriptorError struct {
	Dir string
	Err error
}

func (e *DescriptorError) Error() string {
	return fmt.Sprintf("cannot read package descriptor in %s: %v", e.Dir, e.Err)
}

func (e *DescriptorError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is ErrNoDescriptor
func (e *DescriptorError) Is(target error) bool {
	return target == ErrNoDescriptor
}

// NewDescriptorError creates a new DescriptorError
func NewDescriptorError(dir string, err error) *DescriptorError {
	return &DescriptorError{Dir: dir, Err: err}
}

// CommandError represents an error from an external command invocation
// (git or pnpm). Any CommandError aborts the run; the engine never retries.
type CommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command failed: %s %s", e.Command, strings.Join(e.Args, " "))
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new CommandError
func NewCommandError(command string, args []string, stdout, stderr string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}
