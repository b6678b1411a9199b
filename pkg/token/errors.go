package token

import "fmt"

type ErrConfig struct{ Msg string }

func (e ErrConfig) Error() string { return "token config error: " + e.Msg }

type ErrIssue struct{ Err error }

func (e ErrIssue) Error() string { return fmt.Sprintf("failed to issue token: %v", e.Err) }
func (e ErrIssue) Unwrap() error { return e.Err }

type ErrInvalidToken struct{ Err error }

func (e ErrInvalidToken) Error() string { return fmt.Sprintf("invalid token: %v", e.Err) }
func (e ErrInvalidToken) Unwrap() error { return e.Err }
