package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
	"github.com/osmosis-labs/osmosis/osmomath"
	"github.com/stretchr/testify/suite"

	"github.com/0x-tools/ordersim/domain"
	"github.com/0x-tools/ordersim/domain/mocks"
	"github.com/0x-tools/ordersim/log"
	orderstatedelivery "github.com/0x-tools/ordersim/orderstate/delivery/http"
	"github.com/0x-tools/ordersim/orderstate/orderstatetesting"
)

type OrderStateHandlerSuite struct {
	orderstatetesting.OrderStateTestHelper
}

func TestOrderStateHandlerSuite(t *testing.T) {
	suite.Run(t, new(OrderStateHandlerSuite))
}

func (s *OrderStateHandlerSuite) mustMarshal(v interface{}) string {
	body, err := json.Marshal(v)
	s.Require().NoError(err)
	return string(body)
}

// serve routes a JSON POST through a fresh echo instance wired to usecase.
func (s *OrderStateHandlerSuite) serve(usecase *mocks.OrderStateUsecaseMock, path string, body string) *httptest.ResponseRecorder {
	e := echo.New()
	orderstatedelivery.NewOrderStateHandler(e, usecase, &log.NoOpLogger{})

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)
	return rec
}

func (s *OrderStateHandlerSuite) decodeError(rec *httptest.ResponseRecorder) domain.ResponseError {
	var resp domain.ResponseError
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func (s *OrderStateHandlerSuite) TestGetOrderState() {
	order := orderstatetesting.NewOrder().SignedOrder
	orderHash := common.HexToHash("0x01")

	testcases := []struct {
		name    string
		body    string
		usecase *mocks.OrderStateUsecaseMock

		expectedStatusCode int
		expectedCode       domain.ExchangeContractErr
		expectedValid      bool
	}{
		{
			name: "valid order",
			body: s.mustMarshal(order),
			usecase: &mocks.OrderStateUsecaseMock{
				GetOpenOrderStateFunc: func(ctx context.Context, actual domain.SignedOrder) (domain.OrderState, error) {
					s.Require().Equal(order.MakerAddress, actual.MakerAddress)
					s.Require().Equal(order.MakerAssetAmount.String(), actual.MakerAssetAmount.String())
					return domain.NewValidOrderState(orderHash, domain.OrderRelevantState{}), nil
				},
			},
			expectedStatusCode: http.StatusOK,
			expectedValid:      true,
		},
		{
			name: "invalid order is still a successful response",
			body: s.mustMarshal(order),
			usecase: &mocks.OrderStateUsecaseMock{
				GetOpenOrderStateFunc: func(ctx context.Context, actual domain.SignedOrder) (domain.OrderState, error) {
					return domain.NewInvalidOrderState(orderHash, domain.OrderCancelledError{OrderHash: orderHash}), nil
				},
			},
			expectedStatusCode: http.StatusOK,
			expectedCode:       domain.ErrCodeOrderCancelled,
		},
		{
			name:               "malformed body",
			body:               `{"makerAssetAmount": 10`,
			usecase:            &mocks.OrderStateUsecaseMock{},
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:               "missing amount",
			body:               strings.Replace(s.mustMarshal(order), `"salt":"1"`, `"salt":null`, 1),
			usecase:            &mocks.OrderStateUsecaseMock{},
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name: "infrastructure failure",
			body: s.mustMarshal(order),
			usecase: &mocks.OrderStateUsecaseMock{
				GetOpenOrderStateFunc: func(ctx context.Context, actual domain.SignedOrder) (domain.OrderState, error) {
					return domain.OrderState{}, domain.FetchError{Method: "balanceOf", Err: errors.New("node down")}
				},
			},
			expectedStatusCode: http.StatusInternalServerError,
		},
		{
			name: "stale chain",
			body: s.mustMarshal(order),
			usecase: &mocks.OrderStateUsecaseMock{
				GetOpenOrderStateFunc: func(ctx context.Context, actual domain.SignedOrder) (domain.OrderState, error) {
					return domain.OrderState{}, domain.StaleHeightError{StoredHeight: 10}
				},
			},
			expectedStatusCode: http.StatusServiceUnavailable,
		},
	}

	for _, tc := range testcases {
		s.Run(tc.name, func() {
			rec := s.serve(tc.usecase, "/orders/state", tc.body)
			s.Require().Equal(tc.expectedStatusCode, rec.Code, rec.Body.String())

			if tc.expectedStatusCode != http.StatusOK {
				s.Require().NotEmpty(s.decodeError(rec).Message)
				return
			}

			var orderState domain.OrderState
			s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &orderState))
			s.Require().Equal(orderHash, orderState.OrderHash)
			s.Require().Equal(tc.expectedValid, orderState.IsValid)
			s.Require().Equal(tc.expectedCode, orderState.Error)
		})
	}
}

func (s *OrderStateHandlerSuite) TestGetOrderStates() {
	orders := []domain.SignedOrder{
		orderstatetesting.NewOrder().WithSalt(1).SignedOrder,
		orderstatetesting.NewOrder().WithSalt(2).SignedOrder,
	}

	usecase := &mocks.OrderStateUsecaseMock{
		GetOpenOrdersStateFunc: func(ctx context.Context, actual []domain.SignedOrder) ([]domain.OrderState, error) {
			s.Require().Len(actual, 2)
			s.Require().Equal("2", actual[1].Salt.String())
			return []domain.OrderState{
				domain.NewValidOrderState(common.HexToHash("0x01"), domain.OrderRelevantState{}),
				domain.NewInvalidOrderState(common.HexToHash("0x02"), domain.OrderCancelledError{}),
			}, nil
		},
	}

	rec := s.serve(usecase, "/orders/states", s.mustMarshal(orders))
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var orderStates []domain.OrderState
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &orderStates))
	s.Require().Len(orderStates, 2)
	s.Require().True(orderStates[0].IsValid)
	s.Require().False(orderStates[1].IsValid)

	usecase.GetOpenOrdersStateFunc = func(ctx context.Context, actual []domain.SignedOrder) ([]domain.OrderState, error) {
		return nil, domain.ErrBadParamInput
	}

	rec = s.serve(usecase, "/orders/states", s.mustMarshal(orders))
	s.Require().Equal(http.StatusBadRequest, rec.Code)
}

func (s *OrderStateHandlerSuite) TestGetOrderRelevantState() {
	usecase := &mocks.OrderStateUsecaseMock{
		GetOpenOrderRelevantStateFunc: func(ctx context.Context, order domain.SignedOrder) (domain.OrderRelevantState, error) {
			return domain.OrderRelevantState{
				MakerBalance:                      osmomath.NewInt(7),
				RemainingFillableTakerAssetAmount: osmomath.NewInt(5),
			}, nil
		},
	}

	rec := s.serve(usecase, "/orders/relevant-state", s.mustMarshal(orderstatetesting.NewOrder().SignedOrder))
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Require().Contains(rec.Body.String(), `"makerBalance":"7"`)
	s.Require().Contains(rec.Body.String(), `"remainingFillableTakerAssetAmount":"5"`)
}

func (s *OrderStateHandlerSuite) TestGetMaxFillableTakerAssetAmount() {
	order := orderstatetesting.NewOrder().SignedOrder

	usecase := &mocks.OrderStateUsecaseMock{
		GetMaxFillableTakerAssetAmountFunc: func(ctx context.Context, actual domain.SignedOrder, takerAddress common.Address) (osmomath.Int, error) {
			s.Require().Equal(orderstatetesting.TakerAddress, takerAddress)
			return osmomath.NewInt(15), nil
		},
	}

	body := s.mustMarshal(map[string]interface{}{
		"order":        order,
		"takerAddress": orderstatetesting.TakerAddress,
	})

	rec := s.serve(usecase, "/orders/fillable", body)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Require().Contains(rec.Body.String(), `"maxFillableTakerAssetAmount":"15"`)
}

func (s *OrderStateHandlerSuite) TestValidateOrder() {
	order := orderstatetesting.NewOrder().SignedOrder
	orderHash := common.HexToHash("0x01")

	testcases := []struct {
		name    string
		body    map[string]interface{}
		usecase *mocks.OrderStateUsecaseMock

		expectedStatusCode int
		expectedCode       domain.ExchangeContractErr
		expectedBody       string
	}{
		{
			name: "fillable for the remaining amount",
			body: map[string]interface{}{"order": order},
			usecase: &mocks.OrderStateUsecaseMock{
				ValidateOrderFillableFunc: func(ctx context.Context, actual domain.SignedOrder, expected *osmomath.Int) error {
					s.Require().Nil(expected)
					return nil
				},
			},
			expectedStatusCode: http.StatusOK,
			expectedBody:       `{"fillable":true}`,
		},
		{
			name: "fillable for an expected amount",
			body: map[string]interface{}{"order": order, "fillTakerAssetAmount": "4"},
			usecase: &mocks.OrderStateUsecaseMock{
				ValidateOrderFillableFunc: func(ctx context.Context, actual domain.SignedOrder, expected *osmomath.Int) error {
					s.Require().NotNil(expected)
					s.Require().Equal("4", expected.String())
					return nil
				},
			},
			expectedStatusCode: http.StatusOK,
			expectedBody:       `{"fillable":true}`,
		},
		{
			name: "not fillable",
			body: map[string]interface{}{"order": order},
			usecase: &mocks.OrderStateUsecaseMock{
				ValidateOrderFillableFunc: func(ctx context.Context, actual domain.SignedOrder, expected *osmomath.Int) error {
					return domain.OrderExpiredError{OrderHash: orderHash, ExpirationTimeSeconds: osmomath.NewInt(1)}
				},
			},
			expectedStatusCode: http.StatusBadRequest,
			expectedCode:       domain.ErrCodeOrderFillExpired,
		},
		{
			name: "fill by taker",
			body: map[string]interface{}{"order": order, "fillTakerAssetAmount": "40", "takerAddress": orderstatetesting.TakerAddress},
			usecase: &mocks.OrderStateUsecaseMock{
				ValidateFillOrderFunc: func(ctx context.Context, actual domain.SignedOrder, fill osmomath.Int, takerAddress common.Address) (osmomath.Int, error) {
					s.Require().Equal("40", fill.String())
					s.Require().Equal(orderstatetesting.TakerAddress, takerAddress)
					return osmomath.NewInt(10), nil
				},
			},
			expectedStatusCode: http.StatusOK,
			expectedBody:       `{"fillable":true,"fillTakerAssetAmount":"10"}`,
		},
		{
			name: "fill by taker fails a transfer",
			body: map[string]interface{}{"order": order, "fillTakerAssetAmount": "40", "takerAddress": orderstatetesting.TakerAddress},
			usecase: &mocks.OrderStateUsecaseMock{
				ValidateFillOrderFunc: func(ctx context.Context, actual domain.SignedOrder, fill osmomath.Int, takerAddress common.Address) (osmomath.Int, error) {
					return osmomath.Int{}, domain.TransferFailedError{Err: errors.New("leg failed")}
				},
			},
			expectedStatusCode: http.StatusBadRequest,
			expectedCode:       domain.ErrCodeTransferFailed,
		},
		{
			name:               "taker without a fill amount",
			body:               map[string]interface{}{"order": order, "takerAddress": orderstatetesting.TakerAddress},
			usecase:            &mocks.OrderStateUsecaseMock{},
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:               "negative fill amount",
			body:               map[string]interface{}{"order": order, "fillTakerAssetAmount": "-1"},
			usecase:            &mocks.OrderStateUsecaseMock{},
			expectedStatusCode: http.StatusBadRequest,
		},
	}

	for _, tc := range testcases {
		s.Run(tc.name, func() {
			rec := s.serve(tc.usecase, "/orders/validate", s.mustMarshal(tc.body))
			s.Require().Equal(tc.expectedStatusCode, rec.Code, rec.Body.String())

			if tc.expectedStatusCode == http.StatusOK {
				s.Require().JSONEq(tc.expectedBody, rec.Body.String())
				return
			}

			s.Require().Equal(tc.expectedCode, s.decodeError(rec).Code)
		})
	}
}
