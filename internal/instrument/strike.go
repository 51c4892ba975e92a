package instrument

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidPortfolioFormat = errors.New("invalid portfolio format")

// StrikeSpread returns the distance between the two strikes of a spread
// portfolio named like "BANKNIFTY-45000-45100CE". The last part carries a
// two-letter option type suffix.
func StrikeSpread(portfolio string) (int64, error) {
	parts := strings.Split(portfolio, "-")
	if len(parts) < 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPortfolioFormat, portfolio)
	}
	last := parts[len(parts)-1]
	if len(last) < 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPortfolioFormat, portfolio)
	}
	strike1, err := strconv.ParseInt(parts[len(parts)-2], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidPortfolioFormat, portfolio, err)
	}
	strike2, err := strconv.ParseInt(last[:len(last)-2], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidPortfolioFormat, portfolio, err)
	}
	if strike1 < strike2 {
		return strike2 - strike1, nil
	}
	return strike1 - strike2, nil
}
