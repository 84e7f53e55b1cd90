package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bartek5186/ss2pick/internal/model"
)

const (
	// MM/DD/YYYY HH:MM:SS AM/PM – nagłówek logu
	TimeLayout = "01/02/2006 03:04:05 PM"
	// data zamówienia: zegar 12h bez AM/PM
	OrderDateLayout = "01/02/2006 03:04:05"

	notNewMarker = "=== NOT A NEW ORDER ==="
)

var separator = strings.Repeat("-", 30)

// WriteOrderLog – pełny log zamówień sklepu (nowe i stare), w kolejności z API
func WriteOrderLog(w io.Writer, store string, generatedAt time.Time, entries []model.LogEntry) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s LOG\n", store)
	fmt.Fprintf(bw, "%s\n\n", generatedAt.Format(TimeLayout))

	for _, e := range entries {
		if !e.IsNew {
			fmt.Fprintln(bw, notNewMarker)
		}
		fmt.Fprintln(bw, e.Number)
		fmt.Fprintln(bw, e.Customer)
		fmt.Fprintln(bw, e.Date.Format(OrderDateLayout))
		for _, it := range e.Items {
			if it.Quantity > 1 {
				fmt.Fprintf(bw, "%s (%d)\n", it.SKU, it.Quantity)
			} else {
				fmt.Fprintln(bw, it.SKU)
			}
		}
		fmt.Fprintln(bw, separator)
	}
	return bw.Flush()
}
