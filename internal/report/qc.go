package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/bartek5186/ss2pick/internal/model"
)

const (
	HeaderMultiOrder = "CUSTOMERS WITH MORE THAN ONE ORDER:"
	HeaderMultiQty   = "ORDERS WITH MORE THAN ONE ITEM QUANTITY:"
	NoMultiOrder     = "NO CUSTOMERS WITH MULTIPLE ORDERS"
	NoMultiQty       = "NO ORDERS CONTAINING AN ITEM HAVING A QUANTITY GREATER THAN ONE"
)

// WriteMultiOrderCustomers – klienci do połączenia paczek
func WriteMultiOrderCustomers(w io.Writer, rows []model.CustomerOrders) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "\n%s\n\n", HeaderMultiOrder)
	if len(rows) == 0 {
		fmt.Fprintln(bw, NoMultiOrder)
		return bw.Flush()
	}
	for _, r := range rows {
		fmt.Fprintf(bw, "%s - %d Orders:\n", r.Customer, len(r.Numbers))
		for _, n := range r.Numbers {
			fmt.Fprintln(bw, n)
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

// WriteMultiQuantityItems – kontrola kompletności paczki
func WriteMultiQuantityItems(w io.Writer, rows []model.QuantityRow) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "\n%s\n\n", HeaderMultiQty)
	if len(rows) == 0 {
		fmt.Fprintln(bw, NoMultiQty)
		return bw.Flush()
	}
	for _, r := range rows {
		fmt.Fprintf(bw, "%s - %s - %s (%d)\n", r.Number, r.Customer, r.SKU, r.Quantity)
	}
	return bw.Flush()
}
