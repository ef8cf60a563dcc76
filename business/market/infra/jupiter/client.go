package jupiter

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/swaploop/pingpong-bot/business/market/domain"
	"github.com/swaploop/pingpong-bot/internal/apperror"
	"github.com/swaploop/pingpong-bot/internal/httpclient"
	"github.com/swaploop/pingpong-bot/internal/logger"
)

// Client quotes swap routes from the Jupiter v6 API.
type Client struct {
	http *httpclient.Client
	log  logger.LoggerInterface
}

// NewClient creates a Jupiter client against the given base URL.
func NewClient(baseURL string, timeout time.Duration, log logger.LoggerInterface) (*Client, error) {
	hc, err := httpclient.New(
		httpclient.WithBaseURL(baseURL),
		httpclient.WithProviderName("jupiter"),
		httpclient.WithTimeout(timeout),
	)
	if err != nil {
		return nil, err
	}

	return &Client{http: hc, log: log}, nil
}

// ComputeRoutes fetches a quote for an exact-in swap. Jupiter returns its
// best route; the set carries exactly one entry on success.
func (c *Client) ComputeRoutes(ctx context.Context, req domain.SwapRequest) (domain.RouteSet, error) {
	var quote quoteResponse

	resp, err := c.http.NewRequest().
		SetQueryParams(map[string]string{
			"inputMint":                  req.InMint.String(),
			"outputMint":                 req.OutMint.String(),
			"amount":                     req.AmountIn.String(),
			"slippageBps":                strconv.Itoa(req.SlippageBps),
			"swapMode":                   "ExactIn",
			"restrictIntermediateTokens": "true",
		}).
		SetResult(&quote).
		Get(ctx, "/quote")
	if err != nil {
		return domain.RouteSet{}, apperror.Wrap(err, apperror.CodeQuoteFailed, "jupiter.ComputeRoutes")
	}

	if resp.IsError() {
		var apiErr errorResponse
		_ = json.Unmarshal(resp.Body(), &apiErr)

		if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest {
			c.log.Debug(ctx, "jupiter returned no route",
				"status", resp.StatusCode, "error", apiErr.Error, "error_code", apiErr.ErrorCode)
			return domain.RouteSet{}, nil
		}
		return domain.RouteSet{}, apperror.External(apperror.CodeQuoteFailed, "jupiter.ComputeRoutes: "+resp.Status, nil)
	}

	route, err := c.toRoute(quote, req)
	if err != nil {
		return domain.RouteSet{}, err
	}

	return domain.RouteSet{Routes: []domain.Route{route}}, nil
}

func (c *Client) toRoute(quote quoteResponse, req domain.SwapRequest) (domain.Route, error) {
	amountIn, ok := parseAmount(quote.InAmount)
	if !ok || amountIn.Sign() <= 0 {
		return domain.Route{}, apperror.External(apperror.CodeQuoteFailed, "jupiter: bad inAmount "+quote.InAmount, nil)
	}

	amountOut, ok := parseAmount(quote.OutAmount)
	if !ok || amountOut.Sign() <= 0 {
		return domain.Route{}, apperror.External(apperror.CodeQuoteFailed, "jupiter: bad outAmount "+quote.OutAmount, nil)
	}

	minOut, ok := parseAmount(quote.OtherAmountThreshold)
	if !ok {
		minOut = new(big.Int)
	}
	// A caller-supplied floor overrides the slippage derived threshold
	// when it is stricter.
	if req.MinOutAmount != nil && req.MinOutAmount.Cmp(minOut) > 0 {
		minOut = new(big.Int).Set(req.MinOutAmount)
	}

	impact, err := decimal.NewFromString(quote.PriceImpactPct)
	if err != nil {
		impact = decimal.Zero
	}

	inMint, err := solana.PublicKeyFromBase58(quote.InputMint)
	if err != nil {
		return domain.Route{}, apperror.External(apperror.CodeQuoteFailed, "jupiter: bad inputMint", err)
	}

	outMint, err := solana.PublicKeyFromBase58(quote.OutputMint)
	if err != nil {
		return domain.Route{}, apperror.External(apperror.CodeQuoteFailed, "jupiter: bad outputMint", err)
	}

	hops := make([]domain.Hop, 0, len(quote.RoutePlan))
	for _, plan := range quote.RoutePlan {
		hop := domain.Hop{
			AmmKey:  plan.SwapInfo.AmmKey,
			Label:   plan.SwapInfo.Label,
			Percent: plan.Percent,
		}
		if mint, err := solana.PublicKeyFromBase58(plan.SwapInfo.InputMint); err == nil {
			hop.InMint = mint
		}
		if mint, err := solana.PublicKeyFromBase58(plan.SwapInfo.OutputMint); err == nil {
			hop.OutMint = mint
		}
		if fee, ok := parseAmount(plan.SwapInfo.FeeAmount); ok {
			hop.FeeAmount = fee
		}
		hops = append(hops, hop)
	}

	return domain.Route{
		InMint:         inMint,
		OutMint:        outMint,
		AmountIn:       amountIn,
		AmountOut:      amountOut,
		MinAmountOut:   minOut,
		SlippageBps:    quote.SlippageBps,
		PriceImpactPct: impact,
		Hops:           hops,
		ContextSlot:    quote.ContextSlot,
	}, nil
}

func parseAmount(s string) (*big.Int, bool) {
	if s == "" {
		return nil, false
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, false
	}
	return v, true
}
