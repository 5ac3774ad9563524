// Copyright 2026 © The Typhon Authors
// SPDX-License-Identifier: Apache-2.0

package domains

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/typhonlabs/typhon/pkg/core"
)

func ecommerceDomain() *Domain {
	return &Domain{
		Name:        "ecommerce",
		Description: "Mock storefront: product search, carts, and order tracking",
		Tools: []core.Tool{
			core.NewTool("search_products",
				"Search the product catalog with optional price and category filters", searchProducts),
			core.NewTool("create_cart",
				"Create a shopping cart from a list of items", createCart),
			core.NewTool("check_order_status",
				"Check the shipping status of an order", checkOrderStatus),
		},
	}
}

type searchResponse struct {
	Query   string    `json:"query"`
	Results []Product `json:"results"`
	Source  string    `json:"source"`
}

func searchProducts(ctx context.Context, input any) (any, error) {
	args, err := argsMap(input)
	if err != nil {
		return nil, err
	}
	query, err := stringArg(args, "query", true)
	if err != nil {
		return nil, err
	}
	maxPrice, err := floatArg(args, "max_price", false)
	if err != nil {
		return nil, err
	}
	category, err := stringArg(args, "category", false)
	if err != nil {
		return nil, err
	}

	filtered := make([]Product, 0, len(ecommerce.Catalog))
	for _, p := range ecommerce.Catalog {
		if maxPrice > 0 && p.Price > maxPrice {
			continue
		}
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		filtered = append(filtered, p)
	}
	// Over-restrictive filters fall back to the full catalog so the
	// demo agent always sees products.
	if len(filtered) == 0 {
		filtered = ecommerce.Catalog
	}

	return toJSON(searchResponse{
		Query:   query,
		Results: filtered,
		Source:  "mock-catalog",
	}), nil
}

type cartItem struct {
	SKU       string  `json:"sku,omitempty"`
	Name      string  `json:"name,omitempty"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	LineTotal float64 `json:"line_total"`
}

type cartResponse struct {
	CartID   string     `json:"cart_id"`
	Items    []cartItem `json:"items"`
	Currency string     `json:"currency"`
	Total    float64    `json:"total"`
}

func createCart(ctx context.Context, input any) (any, error) {
	args, err := argsMap(input)
	if err != nil {
		return nil, err
	}
	rawItems, ok := args["items"].([]any)
	if !ok {
		return nil, argError("items must be a list of objects")
	}

	total := 0.0
	items := make([]cartItem, 0, len(rawItems))
	for _, raw := range rawItems {
		entry, ok := raw.(map[string]any)
		if !ok {
			return nil, argError("items must be a list of objects")
		}
		item := cartItem{Quantity: 1}
		if sku, err := stringArg(entry, "sku", false); err == nil {
			item.SKU = sku
		}
		if name, err := stringArg(entry, "name", false); err == nil {
			item.Name = name
		}
		if qty, err := intArg(entry, "quantity", false); err == nil && qty > 0 {
			item.Quantity = qty
		}
		item.Price = priceFor(item.SKU)
		item.LineTotal = round2(item.Price * float64(item.Quantity))
		total += item.LineTotal
		items = append(items, item)
	}

	return toJSON(cartResponse{
		CartID:   fmt.Sprintf("CART-%04d", rand.Intn(9000)+1000),
		Items:    items,
		Currency: "USD",
		Total:    round2(total),
	}), nil
}

// priceFor resolves a catalog price, or draws a mock one for items
// outside the catalog.
func priceFor(sku string) float64 {
	for _, p := range ecommerce.Catalog {
		if p.SKU == sku {
			return p.Price
		}
	}
	return round2(10 + rand.Float64()*190)
}

var orderStatuses = []string{"processing", "shipped", "out_for_delivery", "delivered"}

type orderStatus struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	ETA     string `json:"eta"`
	Carrier string `json:"carrier"`
	Source  string `json:"source"`
}

func checkOrderStatus(ctx context.Context, input any) (any, error) {
	args, err := argsMap(input)
	if err != nil {
		return nil, err
	}
	orderID, err := stringArg(args, "order_id", true)
	if err != nil {
		return nil, err
	}

	status := orderStatuses[rand.Intn(len(orderStatuses))]
	eta := "2-4 business days"
	if status == "delivered" {
		eta = "delivered"
	}
	return toJSON(orderStatus{
		OrderID: orderID,
		Status:  status,
		ETA:     eta,
		Carrier: "Typhon Logistics",
		Source:  "mock-order-system",
	}), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
