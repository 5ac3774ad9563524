// Copyright 2026 © The Typhon Authors
// SPDX-License-Identifier: Apache-2.0

package domains

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/typhonlabs/typhon/pkg/core"
)

func financeDomain() *Domain {
	return &Domain{
		Name:        "finance",
		Description: "Mock brokerage: quotes, trades, news, and account lookups",
		Tools: []core.Tool{
			core.NewTool("get_stock_price",
				"Get the current price and market data for a ticker symbol", getStockPrice),
			core.NewTool("purchase_stocks",
				"Purchase shares of a stock at a given price", purchaseStocks),
			core.NewTool("sell_stocks",
				"Sell shares of a stock at a given price", sellStocks),
			core.NewTool("get_market_news",
				"Get the latest market news, optionally for one ticker", getMarketNews),
			core.NewTool("get_account_information",
				"Get brokerage account holdings and portfolio value", getAccountInformation),
		},
	}
}

// defaultQuote is returned for tickers outside the mock price table,
// so the demo agent always gets an answer.
var defaultQuote = Quote{
	Price:  100.00,
	Change: 0.00,
	Volume: 1000,
	High:   101.00,
	Low:    99.00,
	Open:   100.00,
}

func getStockPrice(ctx context.Context, input any) (any, error) {
	args, err := argsMap(input)
	if err != nil {
		return nil, err
	}
	ticker, err := stringArg(args, "ticker", true)
	if err != nil {
		return nil, err
	}

	quote, ok := finance.Prices[ticker]
	if !ok {
		quote = defaultQuote
	}
	return toJSON(quote), nil
}

type orderConfirmation struct {
	OrderID       string  `json:"order_id"`
	Ticker        string  `json:"ticker"`
	Quantity      int     `json:"quantity"`
	Price         float64 `json:"price"`
	TotalCost     float64 `json:"total_cost,omitempty"`
	TotalSale     float64 `json:"total_sale,omitempty"`
	Fees          float64 `json:"fees"`
	TotalWithFees float64 `json:"total_with_fees"`
	Status        string  `json:"status"`
	Timestamp     string  `json:"timestamp"`
	Description   string  `json:"description"`
}

func purchaseStocks(ctx context.Context, input any) (any, error) {
	args, err := argsMap(input)
	if err != nil {
		return nil, err
	}
	ticker, err := stringArg(args, "ticker", true)
	if err != nil {
		return nil, err
	}
	quantity, err := intArg(args, "quantity", true)
	if err != nil {
		return nil, err
	}
	price, err := floatArg(args, "price", true)
	if err != nil {
		return nil, err
	}

	const fees = 10.00
	total := float64(quantity) * price
	return toJSON(orderConfirmation{
		OrderID:       newOrderID(),
		Ticker:        ticker,
		Quantity:      quantity,
		Price:         price,
		TotalCost:     total,
		Fees:          fees,
		TotalWithFees: total + fees,
		Status:        "completed",
		Timestamp:     time.Now().Format("2006-01-02 15:04:05"),
		Description:   "Purchase of stocks completed successfully",
	}), nil
}

func sellStocks(ctx context.Context, input any) (any, error) {
	args, err := argsMap(input)
	if err != nil {
		return nil, err
	}
	ticker, err := stringArg(args, "ticker", true)
	if err != nil {
		return nil, err
	}
	quantity, err := intArg(args, "quantity", true)
	if err != nil {
		return nil, err
	}
	price, err := floatArg(args, "price", true)
	if err != nil {
		return nil, err
	}

	const fees = 14.99
	total := float64(quantity) * price
	return toJSON(orderConfirmation{
		OrderID:       newOrderID(),
		Ticker:        ticker,
		Quantity:      quantity,
		Price:         price,
		TotalSale:     total,
		Fees:          fees,
		TotalWithFees: total - fees,
		Status:        "completed",
		Timestamp:     time.Now().Format("2006-01-02 15:04:05"),
		Description:   "Sale of stocks completed successfully",
	}), nil
}

type newsArticle struct {
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Source    string `json:"source"`
	Published string `json:"published"`
	Sentiment string `json:"sentiment"`
}

type newsResponse struct {
	Articles []newsArticle `json:"articles"`
	Count    int           `json:"count"`
	Source   string        `json:"source"`
}

func getMarketNews(ctx context.Context, input any) (any, error) {
	args, err := argsMap(input)
	if err != nil {
		return nil, err
	}
	ticker, err := stringArg(args, "ticker", false)
	if err != nil {
		return nil, err
	}

	subject := "Tech Stocks"
	if ticker != "" {
		subject = ticker
	}
	return toJSON(newsResponse{
		Articles: []newsArticle{{
			Title:     fmt.Sprintf("Market Update: %s Rally", subject),
			Summary:   "Technology stocks showed strong gains today with major tech companies leading the market higher.",
			Source:    "Mock News",
			Published: time.Now().Format("2006-01-02 15:04:05"),
			Sentiment: "positive",
		}},
		Count:  1,
		Source: "mock-news-feed",
	}), nil
}

type accountSummary struct {
	AccountNumber  string             `json:"account_number"`
	PortfolioValue float64            `json:"portfolio_value"`
	Holdings       map[string]Holding `json:"holdings"`
}

func getAccountInformation(ctx context.Context, input any) (any, error) {
	args, err := argsMap(input)
	if err != nil {
		return nil, err
	}
	userID, err := stringArg(args, "user_id", false)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		userID = "default"
	}

	account, ok := finance.Accounts[userID]
	if !ok {
		account = finance.Accounts["default"]
	}
	// Account numbers are masked; only the holdings summary goes back
	// to the agent.
	masked := account.AccountNumber
	if len(masked) > 4 {
		masked = "***" + masked[len(masked)-4:]
	}
	return toJSON(accountSummary{
		AccountNumber:  masked,
		PortfolioValue: account.PortfolioValue,
		Holdings:       account.Holdings,
	}), nil
}

func newOrderID() string {
	return fmt.Sprintf("ORD-%06d", rand.Intn(900000)+100000)
}
