package policy

import "errors"

// ErrInvalidPolicy wraps every validation failure of the policy services so
// handlers can answer 400.
var ErrInvalidPolicy = errors.New("invalid cors policy")
