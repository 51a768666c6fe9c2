package domain

import (
	"errors"
)

var (
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedProcessRequest = "failed to process request"
	MessageRouteNotFound        = "route not found"
	MessageTooManyRequests      = "too many requests"
	MessagePong                 = "pong"

	ErrInvalidID = errors.New("invalid id")
)
