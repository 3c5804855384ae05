package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/budisantoso88/shipbid-app/internal/auctionerrors"
	model "github.com/budisantoso88/shipbid-app/internal/models"
	"github.com/budisantoso88/shipbid-app/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// HandleServiceError maps a lifecycle error to its HTTP status and logs it
func HandleServiceError(c *gin.Context, handlerName string, err error, fields map[string]any) {
	status, message := MapErrorToHTTP(err)
	utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)

	if fields == nil {
		fields = map[string]any{}
	}
	fields["handler"] = handlerName
	fields["error"] = err.Error()
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": request failed", fields)
		return
	}
	utils.Warn(handlerName+": request rejected", fields)
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, auctionerrors.ErrNotFound):
		return http.StatusNotFound, "resource not found"
	case errors.Is(err, auctionerrors.ErrInvalidRange):
		return http.StatusBadRequest, "invalid time range"
	case errors.Is(err, auctionerrors.ErrInvalidAmount):
		return http.StatusBadRequest, "invalid amount"
	case errors.Is(err, auctionerrors.ErrInsufficientTokens):
		return http.StatusPaymentRequired, "insufficient tokens"
	case errors.Is(err, auctionerrors.ErrAuctionClosed):
		return http.StatusConflict, "auction is closed"
	case errors.Is(err, auctionerrors.ErrInvalidState):
		return http.StatusConflict, "operation not allowed in current state"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// ParseAuctionFilter reads the listing filter from the query string:
// status, origin, destination, q, min_price and max_price
func ParseAuctionFilter(c *gin.Context) (model.AuctionFilter, error) {
	filter := model.AuctionFilter{
		Status:              model.AuctionStatus(c.Query("status")),
		OriginContains:      c.Query("origin"),
		DestinationContains: c.Query("destination"),
		Search:              c.Query("q"),
	}
	switch filter.Status {
	case "", model.AuctionActive, model.AuctionCompleted, model.AuctionCancelled:
	default:
		return model.AuctionFilter{}, fmt.Errorf("unknown status %q", filter.Status)
	}

	var err error
	if filter.PriceRange.Min, err = decimalQuery(c, "min_price"); err != nil {
		return model.AuctionFilter{}, err
	}
	if filter.PriceRange.Max, err = decimalQuery(c, "max_price"); err != nil {
		return model.AuctionFilter{}, err
	}
	if filter.PriceRange.Min != nil && filter.PriceRange.Max != nil &&
		filter.PriceRange.Min.GreaterThan(*filter.PriceRange.Max) {
		return model.AuctionFilter{}, fmt.Errorf("min_price %s is above max_price %s", filter.PriceRange.Min, filter.PriceRange.Max)
	}
	return filter, nil
}

func decimalQuery(c *gin.Context, key string) (*decimal.Decimal, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &d, nil
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
