package report

import (
	"fmt"
	"path/filepath"
)

// __ORDERS [amazon]__.txt
func PickListPath(dir, store string) string {
	return filepath.Join(dir, fmt.Sprintf("__ORDERS [%s]__.txt", store))
}

// _LOG-amazon_.txt
func LogPath(dir, store string) string {
	return filepath.Join(dir, fmt.Sprintf("_LOG-%s_.txt", store))
}
