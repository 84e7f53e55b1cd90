// internal/sku/rules.go
package sku

import (
	"errors"
	"strings"
)

// rule – marka + liczba segmentów po split("-") -> ekstraktor.
// Kolejność w tabeli = kolejność dopasowania. Nowa marka to nowy wpis.
type rule struct {
	brands   []string
	segments int
	extract  func(seg []string) (Result, error)
}

func (r rule) matches(brand string) bool {
	for _, b := range r.brands {
		if b == brand {
			return true
		}
	}
	return false
}

var errEmptySegment = errors.New("empty segment")

var rules = []rule{
	// Koszule Premiere: PREM-823-MED, PREM-150NEW-XL, PREM-301P-5XL
	{brands: []string{"PREM"}, segments: 3, extract: premStyle},
	// kolory / krótki rękaw: PREM-812-RED-MED, PREM-SS-153-LRG
	{brands: []string{"PREM"}, segments: 4, extract: premVariant},
	// Jeansy: PremJeans-BLK-32, PremiereJeans-BLK-32
	{brands: []string{"PremJeans", "PremiereJeans"}, segments: 3, extract: jeans},
	// T-shirty: PremTee-524-XL, PremiereLSTee-002-SML
	{brands: []string{"PremTee", "PremiereLSTee"}, segments: 3, extract: teeStyle},
	// kolory / damskie: PremTee-NAVY-524-XL, PremTee-WOM-002-SML
	{brands: []string{"PremTee", "PremiereLSTee"}, segments: 4, extract: teeVariant},
}

func premStyle(seg []string) (Result, error) {
	if err := nonEmpty(seg); err != nil {
		return Result{}, err
	}
	style := seg[1]
	// 150NEW, 301P -> jeden styl bazowy
	if strings.HasSuffix(style, "NEW") || strings.HasSuffix(style, "P") {
		style = style[:min(3, len(style))]
	}
	return Result{Key: seg[0] + "-" + style, Size: seg[2]}, nil
}

func premVariant(seg []string) (Result, error) {
	if err := nonEmpty(seg); err != nil {
		return Result{}, err
	}
	return Result{Key: seg[0] + "-" + seg[1] + "-" + seg[2], Size: seg[3]}, nil
}

func jeans(seg []string) (Result, error) {
	if err := nonEmpty(seg); err != nil {
		return Result{}, err
	}
	// obie nazwy marki to ten sam towar
	return Result{Key: "PremJeans-" + seg[1], Size: seg[2]}, nil
}

func teeStyle(seg []string) (Result, error) {
	if err := nonEmpty(seg); err != nil {
		return Result{}, err
	}
	return Result{Key: seg[1] + "-" + seg[0], Size: teeSize(seg[2])}, nil
}

// uwaga: kolor i styl zamienione miejscami względem SKU (PREM-4 tego nie robi)
func teeVariant(seg []string) (Result, error) {
	if err := nonEmpty(seg); err != nil {
		return Result{}, err
	}
	return Result{Key: seg[0] + "-" + seg[2] + "-" + seg[1], Size: teeSize(seg[3])}, nil
}

func teeSize(s string) string {
	if s == "XXL" {
		return "2XL"
	}
	return s
}

func nonEmpty(seg []string) error {
	for _, s := range seg {
		if strings.TrimSpace(s) == "" {
			return errEmptySegment
		}
	}
	return nil
}
