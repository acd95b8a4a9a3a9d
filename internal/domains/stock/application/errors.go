package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/youstockit/internal/domains/stock/domain"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid stock item input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidID) ||
		errors.Is(err, domain.ErrInvalidName) ||
		errors.Is(err, domain.ErrInvalidDescription) ||
		errors.Is(err, domain.ErrInvalidMinimumOrderQuantity) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrInvalidOrderAmount) ||
		errors.Is(err, domain.ErrInvalidPrices) ||
		errors.Is(err, domain.ErrIncomplete) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
