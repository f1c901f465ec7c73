// Package testdata builds deterministic fixtures for tests and demo runs.
package testdata

import (
	"fmt"
	"math/rand"

	"github.com/jade/jadeos/internal/scanner"
)

// Products returns n products for region, of which the first low have fewer
// than 100 sales and the rest at least 100. The sequence is seeded, so the same
// arguments always give the same products.
func Products(region string, n, low int) []scanner.Product {
	r := rand.New(rand.NewSource(int64(n*1000 + low)))
	currency := "BRL"
	if reg, err := scanner.LookupRegion(region); err == nil {
		currency = reg.Currency
	}
	names := []string{"Smartwatch", "Fitness Band", "Sport Watch", "Smart Ring", "Kids Watch"}
	out := make([]scanner.Product, 0, n)
	for i := 0; i < n; i++ {
		sold := 100 + r.Intn(5000)
		if i < low {
			sold = r.Intn(100)
		}
		out = append(out, scanner.Product{
			Name:     fmt.Sprintf("%s %02d", names[i%len(names)], i+1),
			Price:    float64(1000+r.Intn(30000)) / 100,
			Sold:     sold,
			Stock:    r.Intn(500),
			Rating:   float64(30+r.Intn(21)) / 10,
			Region:   region,
			Currency: currency,
		})
	}
	return out
}

// SearchBody is a storefront search API body holding products.
func SearchBody(products []scanner.Product) []byte {
	body := `{"error":0,"items":[`
	for i, p := range products {
		if i > 0 {
			body += ","
		}
		body += fmt.Sprintf(`{"item_basic":{"itemid":%d,"shopid":%d,"name":%q,"price":%d,"currency":%q,"stock":%d,"historical_sold":%d,"item_rating":{"rating_star":%g}}}`,
			1000+i, 77, p.Name, int64(p.Price*100000), p.Currency, p.Stock, p.Sold, p.Rating)
	}
	return []byte(body + "]}")
}
