package actions

import "errors"

var (
	ErrNoResult      = errors.New("no agent result to route")
	ErrNoAction      = errors.New("no next action specified")
	ErrUnknownAction = errors.New("unknown action")
)
