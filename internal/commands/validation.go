package commands

import (
	"strings"

	"eth-telegram-bot/internal/gateway"
	"eth-telegram-bot/lib/translation"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ValidationError is bad user input. Its message is shown to the user as is.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func invalid(msgID string, vars ...interface{}) error {
	return &ValidationError{Msg: translation.Translate(msgID, vars...)}
}

// ParseAddress validates a hex Ethereum address and returns it in checksummed form.
// Mixed-case input must carry a valid EIP-55 checksum.
func ParseAddress(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if !strings.HasPrefix(arg, "0x") && !strings.HasPrefix(arg, "0X") {
		return "", errors.New("missing 0x prefix")
	}
	if !common.IsHexAddress(arg) {
		return "", errors.New("not a 20 byte hex address")
	}

	normalized := common.HexToAddress(arg).Hex()
	body := arg[2:]
	if body != strings.ToLower(body) && body != strings.ToUpper(body) && "0x"+body != normalized {
		return "", errors.New("bad address checksum")
	}
	return normalized, nil
}

const (
	maxNumberLen   = 40
	maxExponent    = 18
	maxDigits      = 30
	maxNumberValue = 1e15
)

// ParsePositiveDecimal parses a number strictly greater than zero. Scientific notation is accepted
// only within a bounded exponent so that formatting and comparing the result stay cheap.
func ParsePositiveDecimal(arg string) (decimal.Decimal, error) {
	arg = strings.TrimSpace(arg)
	if len(arg) > maxNumberLen {
		return decimal.Zero, errors.New("number is too long")
	}
	d, err := decimal.NewFromString(arg)
	if err != nil {
		return decimal.Zero, err
	}
	// Exponent and NumDigits do not rescale; everything below may.
	if exp := d.Exponent(); exp < -maxExponent || exp > maxExponent {
		return decimal.Zero, errors.Errorf("exponent %d out of range", exp)
	}
	if d.NumDigits() > maxDigits {
		return decimal.Zero, errors.New("too many digits")
	}
	if d.GreaterThan(decimal.NewFromFloat(maxNumberValue)) {
		return decimal.Zero, errors.New("number is too large")
	}
	if !d.IsPositive() {
		return decimal.Zero, errors.Errorf("%s is not positive", d)
	}
	return d, nil
}

func addressArg(arg, usage string) (string, error) {
	if strings.TrimSpace(arg) == "" {
		return "", invalid("⚠️ Please enter a valid Ethereum address. Example: %s", usage)
	}
	address, err := ParseAddress(arg)
	if err != nil {
		return "", invalid("⚠️ Invalid Ethereum address.")
	}
	return address, nil
}

// ErrorReply turns a command error into the text shown to the user. Validation errors carry their
// own message, rate limits get a retry hint and every other failure gets the failure text.
func ErrorReply(err error, failure string) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Msg
	}
	if gateway.KindOf(err) == gateway.RateLimited {
		return translation.Translate("⚠️ Sorry, the data provider is busy right now. Please try again in a few moments.")
	}
	if failure == "" {
		failure = "⚠️ Something went wrong. Please try again later."
	}
	return translation.Translate(failure)
}
