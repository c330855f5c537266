package gateway

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind categorizes a provider failure. Background checks retry every kind on the next period;
// commands turn the kind into a user-facing message.
type Kind int

const (
	Network Kind = iota
	RateLimited
	NotFound
	Malformed
)

func (k Kind) String() string {
	switch k {
	case RateLimited:
		return "rate_limited"
	case NotFound:
		return "not_found"
	case Malformed:
		return "malformed"
	default:
		return "network"
	}
}

// Error is returned by every Gateway operation.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf reports the Kind of err; errors that did not come from the gateway count as Network.
func KindOf(err error) Kind {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.Kind
	}
	return Network
}

// classify maps free-form client errors (CoinPaprika, JSON-RPC) onto a Kind.
func classify(err error) Kind {
	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "rate limit") || strings.Contains(lower, "429") || strings.Contains(lower, "too many requests"):
		return RateLimited
	case strings.Contains(lower, "not found") || strings.Contains(lower, "404"):
		return NotFound
	case strings.Contains(lower, "cannot unmarshal") || strings.Contains(lower, "invalid character") ||
		strings.Contains(lower, "unexpected end of json"):
		return Malformed
	default:
		return Network
	}
}
