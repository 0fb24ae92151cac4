package dashboard

import "errors"

var ErrUnknownWindow = errors.New("unknown time window")
