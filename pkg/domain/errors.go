package domain

import "errors"

const SessionResetMessage = "Session reset."

var (
	ErrInvalidSessionID = errors.New("invalid session id")
	ErrInvalidFilename  = errors.New("invalid filename")
)
