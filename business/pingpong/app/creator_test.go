package app

import (
	"math/big"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/swaploop/pingpong-bot/business/pingpong/domain"
	"github.com/swaploop/pingpong-bot/internal/apperror"
)

func filledOrder(id string, dir domain.Direction, outAmount int64) domain.Order {
	inTok, outTok := testTokenA, testTokenB
	if dir == domain.Sell {
		inTok, outTok = testTokenB, testTokenA
	}
	return domain.Order{
		ID:               id,
		StrategyID:       StrategyID,
		Direction:        dir,
		Type:             domain.OrderTypeTargetPrice,
		SizeInt:          big.NewInt(1),
		InTokenMint:      inTok.Mint,
		OutTokenMint:     outTok.Mint,
		InTokenDecimals:  inTok.Decimals,
		OutTokenDecimals: outTok.Decimals,
		IsExecuted:       true,
		OutAmountInt:     big.NewInt(outAmount),
	}
}

func createParams(orders ...domain.Order) CreateParams {
	return CreateParams{
		ID:         "order-1",
		StrategyID: StrategyID,
		Config:     testConfig(),
		Anchors:    testAnchors(),
		Ledger:     domain.NewLedger(orders),
		Now:        time.Now(),
	}
}

func TestCreateOrderDirection(t *testing.T) {
	tests := []struct {
		name   string
		orders []domain.Order
		want   domain.Direction
	}{
		{
			name: "empty_history_defaults_to_buy",
			want: domain.Buy,
		},
		{
			name:   "after_filled_buy_comes_sell",
			orders: []domain.Order{filledOrder("b1", domain.Buy, 95_000000000)},
			want:   domain.Sell,
		},
		{
			name: "after_filled_sell_comes_buy",
			orders: []domain.Order{
				filledOrder("b1", domain.Buy, 95_000000000),
				filledOrder("s1", domain.Sell, 10_100000),
			},
			want: domain.Buy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := CreateOrder(createParams(tt.orders...))
			if err != nil {
				t.Fatalf("CreateOrder: %v", err)
			}
			if order.Direction != tt.want {
				t.Fatalf("direction = %s, want %s", order.Direction, tt.want)
			}
		})
	}
}

func TestCreateOrderBuySize(t *testing.T) {
	order, err := CreateOrder(createParams())
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	if order.SizeInt.Cmp(big.NewInt(10_000000)) != 0 {
		t.Fatalf("SizeInt = %s, want 10000000", order.SizeInt)
	}
	if !order.Size.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("Size = %s, want 10", order.Size)
	}
	if order.InTokenMint != testTokenA.Mint || order.OutTokenMint != testTokenB.Mint {
		t.Fatal("buy order must spend token A for token B")
	}
}

func TestCreateOrderBuyCompounding(t *testing.T) {
	params := createParams(
		filledOrder("b1", domain.Buy, 95_000000000),
		filledOrder("s1", domain.Sell, 10_300000),
	)
	params.Config.Compounding = true

	order, err := CreateOrder(params)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	if order.Direction != domain.Buy {
		t.Fatalf("direction = %s, want buy", order.Direction)
	}
	if order.SizeInt.Cmp(big.NewInt(10_300000)) != 0 {
		t.Fatalf("SizeInt = %s, want the last sell proceeds 10300000", order.SizeInt)
	}
}

func TestCreateOrderSellSize(t *testing.T) {
	order, err := CreateOrder(createParams(filledOrder("b1", domain.Buy, 96_000000000)))
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	if order.Direction != domain.Sell {
		t.Fatalf("direction = %s, want sell", order.Direction)
	}
	if order.SizeInt.Cmp(big.NewInt(96_000000000)) != 0 {
		t.Fatalf("SizeInt = %s, want the buy proceeds 96000000000", order.SizeInt)
	}
	if order.InTokenMint != testTokenB.Mint || order.OutTokenMint != testTokenA.Mint {
		t.Fatal("sell order must spend token B for token A")
	}
}

func TestCreateOrderMissingAnchor(t *testing.T) {
	params := createParams()
	params.Anchors = Anchors{}

	_, err := CreateOrder(params)
	if !apperror.HasCode(err, apperror.CodeMissingAnchor) {
		t.Fatalf("err = %v, want code %s", err, apperror.CodeMissingAnchor)
	}
}

func TestCreateOrderTargetPrice(t *testing.T) {
	// Anchor of 95 B grown by 1% gives a desired out of 95.95, and a
	// 10 A size prices the buy at 10/95.95 in-per-out.
	order, err := CreateOrder(createParams())
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	wantDesired := decimal.RequireFromString("95.95")
	if !order.DesiredOutAmount.Equal(wantDesired) {
		t.Fatalf("DesiredOutAmount = %s, want %s", order.DesiredOutAmount, wantDesired)
	}

	wantPrice := decimal.NewFromInt(10).Div(wantDesired)
	if !order.Price.Equal(wantPrice) {
		t.Fatalf("Price = %s, want %s", order.Price, wantPrice)
	}
}

func TestCreateOrderSellBaselineFromHistory(t *testing.T) {
	// With a full round trip behind it, a new sell baselines on the
	// previous sell's proceeds rather than the anchor.
	order, err := CreateOrder(createParams(
		filledOrder("b1", domain.Buy, 95_000000000),
		filledOrder("s1", domain.Sell, 10_200000),
		filledOrder("b2", domain.Buy, 96_000000000),
	))
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	if order.Direction != domain.Sell {
		t.Fatalf("direction = %s, want sell", order.Direction)
	}

	wantDesired := decimal.RequireFromString("10.302")
	if !order.DesiredOutAmount.Equal(wantDesired) {
		t.Fatalf("DesiredOutAmount = %s, want %s", order.DesiredOutAmount, wantDesired)
	}
}
