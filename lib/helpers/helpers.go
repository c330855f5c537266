package helpers

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func EscapeMarkdownV2(text string) string {
	charactersToEscape := []string{"\\", ".", "-", "_", "*", "[", "]", "(", ")", "~", "`", ">", "#", "+", "=", "|", "{", "}", "!"}

	for _, char := range charactersToEscape {
		text = strings.ReplaceAll(text, char, "\\"+char)
	}
	return text
}

// FormatUSD prints a price with thousands separators and precision that depends on magnitude.
func FormatUSD(price decimal.Decimal) string {
	decimals := 6

	abs := price.Abs()
	if abs.GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		decimals = 2
	} else if abs.GreaterThan(decimal.RequireFromString("1.2")) {
		decimals = 2
	} else if abs.LessThan(decimal.RequireFromString("0.00001")) && !abs.IsZero() {
		decimals = 10
	}

	f, _ := price.Round(int32(decimals)).Float64()
	p := message.NewPrinter(language.English)
	return trimZeros(p.Sprintf("%.*f", decimals, f))
}

// FormatAmount prints a token or ETH amount with at most places fractional digits.
func FormatAmount(amount decimal.Decimal, places int32) string {
	f, _ := amount.Round(places).Float64()
	return humanize.CommafWithDigits(f, int(places))
}

// FormatSince renders t relative to now ("3 minutes ago").
func FormatSince(t time.Time) string {
	return humanize.Time(t)
}

// ShortAddress abbreviates a hex address or hash as 0x1234…abcd.
func ShortAddress(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}

func trimZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
