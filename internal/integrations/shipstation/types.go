// internal/integrations/shipstation/types.go
package shipstation

import (
	"bytes"
	"encoding/json"
	"strconv"
)

type ssItem struct {
	SKU      string `json:"sku"`  // bywa null/""
	Name     string `json:"name"` // tytuł aukcji
	Quantity int    `json:"quantity"`
}

type ssOrder struct {
	OrderNumber string `json:"orderNumber"`
	OrderDate   string `json:"orderDate"` // 2015-06-29T08:46:27.0000000 (bez strefy)
	OrderStatus string `json:"orderStatus"`
	BillTo      struct {
		Name string `json:"name"`
	} `json:"billTo"`
	Items []ssItem `json:"items"`
}

// GET /orders
type ordersPage struct {
	Orders []ssOrder `json:"orders"`
	Total  int       `json:"total"`
	Page   int       `json:"page"`
	Pages  int       `json:"pages"`
}

// POST /stores/refreshstore
type refreshResponse struct {
	Success flexBool `json:"success"`
	Message string   `json:"message"`
}

// flexBool – API zwraca raz true, raz "true"
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*b = false
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		*b = flexBool(v)
		return nil
	}
	var v bool
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*b = flexBool(v)
	return nil
}
