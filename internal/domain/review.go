package domain

import "time"

// Category values assigned by the classifier.
const (
	CategoryBugs       = "Bugs"
	CategoryComplaints = "Complaints"
	CategoryCrashes    = "Crashes"
	CategoryPraises    = "Praises"
	CategoryOther      = "Other"
)

// Categories is the fixed enumeration order. The keyword override in the
// classifier scans it front to back and the first match wins, so the order
// is load-bearing, not cosmetic.
var Categories = []string{
	CategoryBugs,
	CategoryComplaints,
	CategoryCrashes,
	CategoryPraises,
	CategoryOther,
}

// Review is one app-store review. Category stays empty until the classifier
// has run; every persisted row carries a non-empty category.
type Review struct {
	ReviewID string
	UserName string
	Rating   int
	Content  string
	Date     time.Time
	Category string
}

// SentimentScores holds the three class probabilities in the conventional
// (negative, neutral, positive) order.
type SentimentScores struct {
	Negative float64
	Neutral  float64
	Positive float64
}

// TrendPoint is one day of the dashboard's trailing trend.
type TrendPoint struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}
