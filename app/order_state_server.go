package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/0x-tools/ordersim/chain"
	chaininfousecase "github.com/0x-tools/ordersim/chaininfo/usecase"
	"github.com/0x-tools/ordersim/domain"
	"github.com/0x-tools/ordersim/domain/assetdata"
	"github.com/0x-tools/ordersim/domain/signature"
	"github.com/0x-tools/ordersim/log"
	"github.com/0x-tools/ordersim/middleware"
	"github.com/0x-tools/ordersim/ordersimutil/datafetchers"
	orderstatedelivery "github.com/0x-tools/ordersim/orderstate/delivery/http"
	orderstateusecase "github.com/0x-tools/ordersim/orderstate/usecase"
	systemhttpdelivery "github.com/0x-tools/ordersim/system/delivery/http"
)

// OrderStateServer serves order state and fill validation over HTTP.
type OrderStateServer interface {
	GetLogger() log.Logger
	Shutdown(context.Context) error
	Start(context.Context) error
}

type orderStateServer struct {
	e                  *echo.Echo
	client             *ethclient.Client
	blockNumberFetcher *datafetchers.IntervalFetcher[uint64]
	address            string
	logger             log.Logger
}

const (
	tracerName = "ordersim"

	// How long startup waits for the first block number.
	firstBlockTimeout = 30 * time.Second
)

// GetLogger implements OrderStateServer.
func (s *orderStateServer) GetLogger() log.Logger {
	return s.logger
}

// Shutdown implements OrderStateServer.
func (s *orderStateServer) Shutdown(ctx context.Context) error {
	err := s.e.Shutdown(ctx)
	s.blockNumberFetcher.Close()
	s.client.Close()
	return err
}

// Start implements OrderStateServer.
func (s *orderStateServer) Start(context.Context) error {
	s.logger.Info("Starting order state server", zap.String("address", s.address))
	err := s.e.Start(s.address)
	if err != nil {
		return err
	}

	return nil
}

// NewOrderStateServer connects to the node and wires the order state endpoints.
func NewOrderStateServer(ctx context.Context, config domain.Config, logger log.Logger) (OrderStateServer, error) {
	client, err := chain.NewClient(ctx, config.RPCEndpoint, config.ChainID)
	if err != nil {
		return nil, err
	}

	contracts, err := chain.NewContracts(*config.Contracts)
	if err != nil {
		return nil, err
	}

	decoder, err := assetdata.NewCachingDecoder(config.OrderState.AssetDataCacheSize)
	if err != nil {
		return nil, err
	}

	// Every session pins its reads to the block number cached here.
	blockRefreshInterval := time.Duration(config.BlockRefreshIntervalMs) * time.Millisecond
	blockNumberFetcher := chaininfousecase.NewBlockNumberFetcher(client.BlockNumber, blockRefreshInterval)

	waitCtx, cancel := context.WithTimeout(ctx, firstBlockTimeout)
	defer cancel()
	if err := blockNumberFetcher.WaitUntilFirstResult(waitCtx); err != nil {
		blockNumberFetcher.Close()
		return nil, fmt.Errorf("failed to fetch the first block number: %w (last error: %v)", err, blockNumberFetcher.LastError())
	}

	chainInfoUseCase := chaininfousecase.NewChainInfoUsecase(blockNumberFetcher, config.MaxBlockStalenessSecs)

	chainStateProvider := chain.NewChainStateProvider(client, contracts, decoder, chainInfoUseCase)
	signatureVerifier := signature.NewVerifier(chain.NewSignatureChecker(client, contracts.Exchange))

	orderStateUseCase, err := orderstateusecase.New(chainStateProvider, signatureVerifier, decoder, *config.OrderState, logger)
	if err != nil {
		blockNumberFetcher.Close()
		return nil, err
	}

	// Setup echo server
	e := echo.New()
	middleware := middleware.InitMiddleware(config.CORS)
	e.Use(middleware.CORS)
	e.Use(middleware.InstrumentMiddleware)
	e.Use(middleware.TraceWithParamsMiddleware(tracerName))

	// HTTP handlers
	orderstatedelivery.NewOrderStateHandler(e, orderStateUseCase, logger)
	systemhttpdelivery.NewSystemHandler(e, config, logger, client, chainInfoUseCase)

	return &orderStateServer{
		e:                  e,
		client:             client,
		blockNumberFetcher: blockNumberFetcher,
		address:            config.ServerAddress,
		logger:             logger,
	}, nil
}
