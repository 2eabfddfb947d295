package contextual

import "errors"

var (
	errReleasingEmptyContext = errors.New("releasing an empty context")
	errReleasingLastContext  = errors.New("releasing last context")
)
