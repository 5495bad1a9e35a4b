package core

import "errors"

var ErrMalformedMessage = errors.New("malformed status change message")
