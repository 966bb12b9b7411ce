package orderstatetesting

import (
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/osmosis-labs/osmosis/osmomath"
	"github.com/stretchr/testify/suite"

	"github.com/0x-tools/ordersim/domain"
	"github.com/0x-tools/ordersim/domain/assetdata"
	"github.com/0x-tools/ordersim/domain/mocks"
)

const (
	// ChainID is the chain the default order is signed for.
	ChainID = 1337

	// NowSeconds is the fixed unix time tests evaluate orders at.
	NowSeconds = 1_700_000_000
)

var (
	ExchangeAddress     = common.HexToAddress("0x48bacb9266a570d521063ef5dd96e61686dbe788")
	MakerAddress        = common.HexToAddress("0x5409ed021d9299bf6814279a6a1411a7e866a631")
	TakerAddress        = common.HexToAddress("0x6ecbe1db9ef729cbe972c83fb886247691fb6beb")
	FeeRecipientAddress = common.HexToAddress("0xe36ea790bc9d7ab70c55260c66d52b1eca985f84")

	MakerToken = common.HexToAddress("0x1dc4c1cefef38a777b15aa20260a54e584b16c48")
	TakerToken = common.HexToAddress("0x0b1ba0af832d7c05fd64161e0db78e85978e8082")
	FeeToken   = common.HexToAddress("0x871dd7c2b4b25e1aa18728e9d5f2af4c4e431f5c")

	MakerAssetData = assetdata.MustEncode(assetdata.ERC20AssetData{TokenAddress: MakerToken})
	TakerAssetData = assetdata.MustEncode(assetdata.ERC20AssetData{TokenAddress: TakerToken})
	FeeAssetData   = assetdata.MustEncode(assetdata.ERC20AssetData{TokenAddress: FeeToken})

	// Now is NowSeconds as a time.
	Now = time.Unix(NowSeconds, 0)
)

// defaultOrder is an open order with no fees that expires an hour after Now.
var defaultOrder = domain.SignedOrder{
	Order: domain.Order{
		ChainID:               ChainID,
		ExchangeAddress:       ExchangeAddress,
		MakerAddress:          MakerAddress,
		TakerAddress:          domain.NullAddress,
		FeeRecipientAddress:   FeeRecipientAddress,
		SenderAddress:         domain.NullAddress,
		MakerAssetAmount:      osmomath.NewInt(10),
		TakerAssetAmount:      osmomath.NewInt(10),
		MakerFee:              osmomath.ZeroInt(),
		TakerFee:              osmomath.ZeroInt(),
		ExpirationTimeSeconds: osmomath.NewInt(NowSeconds + 3600),
		Salt:                  osmomath.NewInt(1),
		MakerAssetData:        MakerAssetData,
		TakerAssetData:        TakerAssetData,
		MakerFeeAssetData:     FeeAssetData,
		TakerFeeAssetData:     FeeAssetData,
	},
	Signature: common.FromHex("0x1b" + "00000000000000000000000000000000000000000000000000000000000000aa" + "00000000000000000000000000000000000000000000000000000000000000bb" + "02"),
}

// Order wraps domain.SignedOrder with builder helpers for tests.
type Order struct {
	domain.SignedOrder
}

// NewOrder returns a copy of the default order.
func NewOrder() Order {
	return Order{SignedOrder: defaultOrder}
}

// WithAssetAmounts sets the maker and taker asset amounts.
func (o Order) WithAssetAmounts(makerAssetAmount, takerAssetAmount int64) Order {
	o.MakerAssetAmount = osmomath.NewInt(makerAssetAmount)
	o.TakerAssetAmount = osmomath.NewInt(takerAssetAmount)
	return o
}

// WithBigAssetAmounts sets the maker and taker asset amounts.
func (o Order) WithBigAssetAmounts(makerAssetAmount, takerAssetAmount osmomath.Int) Order {
	o.MakerAssetAmount = makerAssetAmount
	o.TakerAssetAmount = takerAssetAmount
	return o
}

// WithFees sets the maker and taker fees.
func (o Order) WithFees(makerFee, takerFee int64) Order {
	o.MakerFee = osmomath.NewInt(makerFee)
	o.TakerFee = osmomath.NewInt(takerFee)
	return o
}

// WithFeeAssetData sets both fee asset datas.
func (o Order) WithFeeAssetData(makerFeeAssetData, takerFeeAssetData []byte) Order {
	o.MakerFeeAssetData = makerFeeAssetData
	o.TakerFeeAssetData = takerFeeAssetData
	return o
}

// WithMakerAssetData sets the maker asset data.
func (o Order) WithMakerAssetData(assetData []byte) Order {
	o.MakerAssetData = assetData
	return o
}

// WithExpiration sets the expiration time in unix seconds.
func (o Order) WithExpiration(expirationTimeSeconds int64) Order {
	o.ExpirationTimeSeconds = osmomath.NewInt(expirationTimeSeconds)
	return o
}

// WithTaker restricts the order to the given taker.
func (o Order) WithTaker(taker common.Address) Order {
	o.TakerAddress = taker
	return o
}

// WithSalt sets the salt, which changes the order hash.
func (o Order) WithSalt(salt int64) Order {
	o.Salt = osmomath.NewInt(salt)
	return o
}

// Amounts maps asset data to per user amounts.
type Amounts map[string]map[common.Address]osmomath.Int

// Add sets the amount of assetData held by user and returns the receiver for chaining.
func (a Amounts) Add(assetData []byte, user common.Address, amount osmomath.Int) Amounts {
	byUser, ok := a[string(assetData)]
	if !ok {
		byUser = make(map[common.Address]osmomath.Int)
		a[string(assetData)] = byUser
	}
	byUser[user] = amount
	return a
}

// OrderStateTestHelper carries the fixtures shared by the order state suites.
type OrderStateTestHelper struct {
	suite.Suite
}

// NewBalanceFetcher returns a fetcher serving the given balances and allowances. Anything unset is zero.
func (s *OrderStateTestHelper) NewBalanceFetcher(balances, allowances Amounts) *mocks.BalanceAndProxyAllowanceFetcherMock {
	fetcher := &mocks.BalanceAndProxyAllowanceFetcherMock{}
	fetcher.WithBalances(balances)
	fetcher.WithProxyAllowances(allowances)
	return fetcher
}

// NewFilledCancelledFetcher returns a fetcher reporting the given fill and cancellation for every order.
func (s *OrderStateTestHelper) NewFilledCancelledFetcher(filled int64, cancelled bool) *mocks.OrderFilledCancelledFetcherMock {
	fetcher := &mocks.OrderFilledCancelledFetcherMock{}
	fetcher.WithFilledTakerAmount(osmomath.NewInt(filled), nil)
	fetcher.WithIsOrderCancelled(cancelled, nil)
	return fetcher
}

// NewSignatureVerifier returns a verifier that accepts or rejects every signature.
func (s *OrderStateTestHelper) NewSignatureVerifier(isValid bool) *mocks.SignatureVerifierMock {
	verifier := &mocks.SignatureVerifierMock{}
	verifier.WithIsValidSignature(isValid, nil)
	return verifier
}

// FundedAmounts returns balances and unlimited allowances so that maker and taker can each move amount
// of their asset and of the fee asset.
func (s *OrderStateTestHelper) FundedAmounts(amount int64) (balances, allowances Amounts) {
	balances, allowances = Amounts{}, Amounts{}
	for _, user := range []common.Address{MakerAddress, TakerAddress} {
		for _, assetData := range [][]byte{MakerAssetData, TakerAssetData, FeeAssetData} {
			balances.Add(assetData, user, osmomath.NewInt(amount))
			allowances.Add(assetData, user, domain.UnlimitedAllowance)
		}
	}
	return balances, allowances
}

// RequireIntEqual compares amounts by value.
func (s *OrderStateTestHelper) RequireIntEqual(expected, actual osmomath.Int) {
	s.T().Helper()
	s.Require().Equal(expected.String(), actual.String())
}

// RequireExchangeError asserts that err carries the given exchange contract error code.
func (s *OrderStateTestHelper) RequireExchangeError(err error, expected domain.ExchangeContractErr) {
	s.T().Helper()
	s.Require().Error(err)

	var exchangeErr domain.ExchangeError
	s.Require().True(errors.As(err, &exchangeErr), "expected an exchange error, got %v", err)
	s.Require().Equal(expected, exchangeErr.ExchangeContractErr())
}
