package scanner

import (
	"encoding/csv"
	"io"
	"regexp"
	"strconv"
	"time"
)

// Columns is the table and CSV column order.
var Columns = []string{"name", "price", "sold", "stock", "rating", "region", "currency", "url"}

// DisplayColumns omits the url, which is too wide for the table.
var DisplayColumns = Columns[:7]

// Row renders a product in Columns order.
func Row(p Product) []string {
	return []string{
		p.Name,
		strconv.FormatFloat(p.Price, 'f', 2, 64),
		strconv.Itoa(p.Sold),
		strconv.Itoa(p.Stock),
		strconv.FormatFloat(p.Rating, 'f', 1, 64),
		p.Region,
		p.Currency,
		p.URL,
	}
}

// WriteCSV writes a header and one line per product.
func WriteCSV(w io.Writer, products []Product) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, p := range products {
		if err := cw.Write(Row(p)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// ExportName is the download file name for a scan export.
func ExportName(keyword string, now time.Time) string {
	kw := unsafeName.ReplaceAllString(keyword, "_")
	return "shopee_scan_" + kw + "_" + now.Format("20060102_150405") + ".csv"
}
