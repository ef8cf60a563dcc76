package app

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"

	"github.com/swaploop/pingpong-bot/business/pingpong/domain"
	"github.com/swaploop/pingpong-bot/internal/apperror"
	"github.com/swaploop/pingpong-bot/internal/token"
)

// CreateParams carries everything order creation needs. Creation is a
// pure function over these inputs; nothing is persisted here.
type CreateParams struct {
	ID         string
	StrategyID string
	Config     Config
	Anchors    Anchors
	Ledger     domain.Ledger
	Now        time.Time
}

// CreateOrder derives the next order from trading history. The direction
// flips off the most recently filled order and defaults to buy; sizes and
// baselines follow the alternation rules.
func CreateOrder(p CreateParams) (domain.Order, error) {
	direction := domain.Buy
	if last, ok := p.Ledger.LastFilled(); ok {
		direction = last.Direction.Flip()
	}

	inTok, outTok := p.Config.TokenA, p.Config.TokenB
	if direction == domain.Sell {
		inTok, outTok = p.Config.TokenB, p.Config.TokenA
	}

	sizeInt, err := orderSize(direction, p.Config, p.Ledger)
	if err != nil {
		return domain.Order{}, err
	}
	if sizeInt.Sign() <= 0 {
		return domain.Order{}, apperror.Validation(apperror.CodeInvalidTradeSize, "pingpong.CreateOrder")
	}

	baseline, err := baselineOutAmount(direction, p.Ledger, p.Anchors)
	if err != nil {
		return domain.Order{}, err
	}

	desiredOut := domain.DesiredOut(baseline, outTok.Decimals, p.Config.TargetProfitPercent)
	price := domain.TargetPrice(direction, sizeInt, inTok.Decimals, desiredOut)

	return domain.Order{
		ID:               p.ID,
		StrategyID:       p.StrategyID,
		Direction:        direction,
		Type:             domain.OrderTypeTargetPrice,
		SizeInt:          sizeInt,
		Size:             decimal.NewFromBigInt(sizeInt, -int32(inTok.Decimals)),
		InTokenMint:      inTok.Mint,
		OutTokenMint:     outTok.Mint,
		InTokenSymbol:    inTok.Symbol,
		OutTokenSymbol:   outTok.Symbol,
		InTokenDecimals:  inTok.Decimals,
		OutTokenDecimals: outTok.Decimals,
		Price:            price,
		DesiredOutAmount: desiredOut,
		SlippageBps:      p.Config.SlippageBps,
		CreatedAt:        p.Now,
		UpdatedAt:        p.Now,
	}, nil
}

// orderSize picks the input amount. Buys spend the configured amount
// (or, when compounding, the proceeds of the last sell); sells return
// exactly what the last buy produced.
func orderSize(direction domain.Direction, cfg Config, ledger domain.Ledger) (*big.Int, error) {
	if direction == domain.Buy {
		if cfg.Compounding {
			if lastSell, ok := ledger.LastFilledByDirection(domain.Sell); ok {
				return new(big.Int).Set(lastSell.OutAmountInt), nil
			}
		}

		sizeInt, err := token.ToBaseUnits(cfg.Amount, cfg.TokenA.Decimals)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.CodeInvalidTradeSize, "pingpong.CreateOrder: amount")
		}
		return sizeInt, nil
	}

	lastBuy, ok := ledger.LastFilledByDirection(domain.Buy)
	if !ok {
		return nil, apperror.Validation(apperror.CodeNoPriorBuyToSell, "pingpong.CreateOrder")
	}
	return new(big.Int).Set(lastBuy.OutAmountInt), nil
}

// baselineOutAmount anchors the price target: the out-amount of the
// previous filled order in the same direction, else the configured
// anchor for that direction.
func baselineOutAmount(direction domain.Direction, ledger domain.Ledger, anchors Anchors) (*big.Int, error) {
	if prev, ok := ledger.LastFilledByDirection(direction); ok {
		return new(big.Int).Set(prev.OutAmountInt), nil
	}

	anchor := anchors.OutTokenInitialOut
	if direction == domain.Sell {
		anchor = anchors.InTokenInitialOut
	}

	if anchor == nil || anchor.Sign() <= 0 {
		return nil, apperror.Validation(apperror.CodeMissingAnchor, "pingpong.CreateOrder: "+direction.String())
	}
	return new(big.Int).Set(anchor), nil
}
