package domain

import "errors"

var ErrUpstreamUnavailable = errors.New("product catalog unavailable")
