package model

import "time"

// CatalogSize is the number of entries in the fixed milestone catalog.
const CatalogSize = 56

// Milestone is one catalog entry. The catalog data (id through gray icon)
// is immutable; only Achieved, DateAchieved and Shared ever change.
type Milestone struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Level       int    `json:"level"`
	Category    string `json:"category"`
	Icon        string `json:"icon"`
	GrayIcon    string `json:"gray_icon"`

	Achieved     bool      `json:"achieved"`
	DateAchieved time.Time `json:"date_achieved"`
	Shared       bool      `json:"shared"`
}

// IsDailyMilestone reports whether the id belongs to the daily regime:
// achievement is re-evaluated and re-stamped every calendar day. The two
// ranges are 19-24 (daily hours) and 49-56 (single languages); everything
// else is permanent, first-crossing wins.
func IsDailyMilestone(id int) bool {
	return (id > 18 && id < 25) || (id > 48 && id < 57)
}

// ValidMilestoneID reports whether the id addresses a catalog entry.
func ValidMilestoneID(id int) bool {
	return id >= 1 && id <= CatalogSize
}

// CertificateMilestoneID is the 100-day completion milestone; achieving it
// unlocks the challenge certificate.
const CertificateMilestoneID = 11
