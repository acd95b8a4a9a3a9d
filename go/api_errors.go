package stockserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	stockapp "github.com/Apurer/youstockit/internal/domains/stock/application"
	"github.com/Apurer/youstockit/internal/domains/stock/domain"
	stockports "github.com/Apurer/youstockit/internal/domains/stock/ports"
	apierrors "github.com/Apurer/youstockit/internal/shared/errors"
)

var responder = apierrors.NewResponder("", mapStockError)

func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	responder.Respond(c, problem)
}

// respondServiceError turns infrastructure and validation errors into problem responses.
func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

// respondResult writes a successful Result with okStatus and a failed one as a problem.
func respondResult(c *gin.Context, okStatus int, res stockports.Result) {
	if res.Succeeded {
		c.JSON(okStatus, outcomeBody(res))
		return
	}
	respondProblem(c, problemForOutcome(res))
}

func problemForOutcome(res stockports.Result) apierrors.ProblemDetail {
	var problem apierrors.ProblemDetail
	switch res.Outcome {
	case stockports.OutcomeNotFound:
		problem = apierrors.ErrStockItemNotFound
	case stockports.OutcomeAlreadyExists:
		problem = apierrors.ErrDuplicateStockItem
	case stockports.OutcomeOutOfStock:
		problem = apierrors.ErrOutOfStock
	case stockports.OutcomeInvalidQuantity:
		problem = apierrors.ErrInvalidQuantity
	default:
		problem = apierrors.ErrInvalidStockItem
	}
	return problem.WithDetail(res.Message).WithExtension("outcome", string(res.Outcome))
}

func mapStockError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, stockapp.ErrInvalidInput), isDomainValidation(err):
		return apierrors.ErrInvalidStockItem.WithDetail(err.Error()), true
	case errors.Is(err, stockports.ErrSupplierNotFound):
		return apierrors.ErrInvalidStockItem.WithDetail(err.Error()), true
	case errors.Is(err, stockports.ErrNotFound):
		return apierrors.ErrStockItemNotFound.WithDetail(err.Error()), true
	case errors.Is(err, stockports.ErrIdempotencyConflict):
		return apierrors.ErrIdempotencyKeyReused.WithDetail(err.Error()), true
	case errors.Is(err, stockports.ErrAlreadyExists):
		return apierrors.ErrDuplicateStockItem.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func isDomainValidation(err error) bool {
	for _, target := range []error{
		domain.ErrInvalidID,
		domain.ErrInvalidName,
		domain.ErrInvalidDescription,
		domain.ErrInvalidMinimumOrderQuantity,
		domain.ErrInvalidQuantity,
		domain.ErrInvalidOrderAmount,
		domain.ErrInvalidPrices,
		domain.ErrInvalidPricePrecision,
		domain.ErrIncomplete,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func badRequest(c *gin.Context, err error) {
	respondProblem(c, apierrors.ErrMalformedRequest.WithDetail(err.Error()))
}

