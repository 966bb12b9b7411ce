package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	deliveryhttp "github.com/0x-tools/ordersim/delivery/http"
	"github.com/0x-tools/ordersim/domain"
	"github.com/0x-tools/ordersim/domain/mvc"
	"github.com/0x-tools/ordersim/domain/orderhash"
	"github.com/0x-tools/ordersim/log"
	"github.com/0x-tools/ordersim/orderstate/types"
)

// OrderStateHandler represent the httphandler for order state
type OrderStateHandler struct {
	OSUsecase mvc.OrderStateUsecase

	logger log.Logger
}

const resourcePrefix = "/orders"

func formatOrderStateResource(resource string) string {
	return resourcePrefix + resource
}

// NewOrderStateHandler will initialize the /orders resources endpoint
func NewOrderStateHandler(e *echo.Echo, us mvc.OrderStateUsecase, logger log.Logger) {
	handler := &OrderStateHandler{
		OSUsecase: us,
		logger:    logger,
	}

	e.POST(formatOrderStateResource("/state"), handler.GetOrderState)
	e.POST(formatOrderStateResource("/states"), handler.GetOrderStates)
	e.POST(formatOrderStateResource("/relevant-state"), handler.GetOrderRelevantState)
	e.POST(formatOrderStateResource("/fillable"), handler.GetMaxFillableTakerAssetAmount)
	e.POST(formatOrderStateResource("/validate"), handler.ValidateOrder)
}

// GetOrderState returns the state of a single signed order.
// An unfillable order is a successful response with isValid set to false.
func (h *OrderStateHandler) GetOrderState(c echo.Context) error {
	ctx, span := deliveryhttp.Span(c)

	var req types.GetOrderStateRequest
	if err := deliveryhttp.ParseRequest(c, &req); err != nil {
		return h.errorResponse(c, err)
	}

	orderState, err := h.OSUsecase.GetOpenOrderState(ctx, req.Order)
	if err != nil {
		return h.errorResponse(c, err)
	}

	span.SetAttributes(
		attribute.String("order_hash", orderState.OrderHash.Hex()),
		attribute.Bool("is_valid", orderState.IsValid),
	)

	return c.JSON(http.StatusOK, orderState)
}

// GetOrderStates returns the states of a batch of signed orders in request order.
func (h *OrderStateHandler) GetOrderStates(c echo.Context) error {
	ctx, span := deliveryhttp.Span(c)

	var req types.GetOrderStatesRequest
	if err := deliveryhttp.ParseRequest(c, &req); err != nil {
		return h.errorResponse(c, err)
	}

	span.SetAttributes(attribute.Int("num_orders", len(req.Orders)))

	orderStates, err := h.OSUsecase.GetOpenOrdersState(ctx, req.Orders)
	if err != nil {
		return h.errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, orderStates)
}

// GetOrderRelevantState returns the balances, allowances and amounts that bound the fill of an order.
func (h *OrderStateHandler) GetOrderRelevantState(c echo.Context) error {
	ctx := c.Request().Context()

	var req types.GetOrderStateRequest
	if err := deliveryhttp.ParseRequest(c, &req); err != nil {
		return h.errorResponse(c, err)
	}

	relevantState, err := h.OSUsecase.GetOpenOrderRelevantState(ctx, req.Order)
	if err != nil {
		return h.errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, relevantState)
}

// GetMaxFillableTakerAssetAmount returns how much of the order the given taker could fill.
func (h *OrderStateHandler) GetMaxFillableTakerAssetAmount(c echo.Context) error {
	ctx := c.Request().Context()

	var req types.GetMaxFillableRequest
	if err := deliveryhttp.ParseRequest(c, &req); err != nil {
		return h.errorResponse(c, err)
	}

	orderHash, err := orderhash.GetOrderHash(req.Order.Order)
	if err != nil {
		return h.errorResponse(c, err)
	}

	maxFillable, err := h.OSUsecase.GetMaxFillableTakerAssetAmount(ctx, req.Order, req.TakerAddress)
	if err != nil {
		return h.errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, types.MaxFillableResponse{
		OrderHash:                   orderHash,
		MaxFillableTakerAssetAmount: maxFillable,
	})
}

// ValidateOrder responds 200 if the fill would succeed and 400 with the exchange error code otherwise.
func (h *OrderStateHandler) ValidateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req types.ValidateOrderRequest
	if err := deliveryhttp.ParseRequest(c, &req); err != nil {
		return h.errorResponse(c, err)
	}

	if req.TakerAddress == nil {
		if err := h.OSUsecase.ValidateOrderFillable(ctx, req.Order, req.FillTakerAssetAmount); err != nil {
			return h.errorResponse(c, err)
		}

		return c.JSON(http.StatusOK, types.ValidateOrderResponse{Fillable: true})
	}

	filled, err := h.OSUsecase.ValidateFillOrder(ctx, req.Order, *req.FillTakerAssetAmount, *req.TakerAddress)
	if err != nil {
		return h.errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, types.ValidateOrderResponse{
		Fillable:             true,
		FillTakerAssetAmount: &filled,
	})
}

// errorResponse maps err to its status code. Only unexpected failures are logged.
func (h *OrderStateHandler) errorResponse(c echo.Context, err error) error {
	deliveryhttp.RecordSpanError(c, err)
	ctx := c.Request().Context()

	statusCode := domain.GetStatusCode(err)
	if statusCode >= http.StatusInternalServerError {
		h.logger.Error("order state request failed", zap.String("path", domain.GetURLPathFromContext(ctx)), zap.Error(err))
	}

	return c.JSON(statusCode, domain.NewResponseError(err))
}
