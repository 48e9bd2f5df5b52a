package utils

import "strings"

// ratingOrder maps CN credit ratings to a comparable rank, higher is safer.
var ratingOrder = map[string]int{
	"AAA": 9,
	"AA+": 8,
	"AA":  7,
	"AA-": 6,
	"A+":  5,
	"A":   4,
	"A-":  3,
	"BBB": 2,
	"BB":  1,
}

// RatingRank returns a comparable rank for a credit rating string, 0 for
// unknown or empty ratings.
func RatingRank(rating string) int {
	return ratingOrder[strings.ToUpper(strings.TrimSpace(rating))]
}

// RatingAtLeast reports whether rating is at or above min on the rating scale.
func RatingAtLeast(rating, min string) bool {
	r, m := RatingRank(rating), RatingRank(min)
	return r > 0 && m > 0 && r >= m
}
