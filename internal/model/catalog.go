package model

import "fmt"

// catalogSpec is one immutable row of the milestone catalog template.
type catalogSpec struct {
	id       int
	title    string
	desc     string
	level    int
	category string
	icon     string
}

// catalogTemplate seeds the 56-entry catalog. Order matters: the slice
// index is id-1.
var catalogTemplate = []catalogSpec{
	// Aggregate hours ladder (ids 1-6).
	{1, "1 Hour", "Code for a total of 1 hour", 1, "hours", "hours-1"},
	{2, "30 Hours", "Code for a total of 30 hours", 2, "hours", "hours-2"},
	{3, "60 Hours", "Code for a total of 60 hours", 3, "hours", "hours-3"},
	{4, "90 Hours", "Code for a total of 90 hours", 4, "hours", "hours-4"},
	{5, "120 Hours", "Code for a total of 120 hours", 5, "hours", "hours-5"},
	{6, "200 Hours", "Code for a total of 200 hours", 6, "hours", "hours-6"},

	// Days ladder (ids 7-12).
	{7, "First Day", "Log your first day of coding", 1, "days", "days-1"},
	{8, "10 Days", "Log 10 days of coding", 2, "days", "days-2"},
	{9, "50 Days", "Log 50 days of coding", 3, "days", "days-3"},
	{10, "75 Days", "Log 75 days of coding", 4, "days", "days-4"},
	{11, "100 Days!", "Complete the 100 days of code challenge", 5, "days", "days-5"},
	{12, "110 Days", "Keep going: 110 days of coding", 6, "days", "days-6"},

	// Streak ladder (ids 13-18).
	{13, "2-Day Streak", "Code 2 days in a row", 1, "streaks", "streak-1"},
	{14, "Week Streak", "Code 7 days in a row", 2, "streaks", "streak-2"},
	{15, "Two Week Streak", "Code 14 days in a row", 3, "streaks", "streak-3"},
	{16, "Month Streak", "Code 30 days in a row", 4, "streaks", "streak-4"},
	{17, "60-Day Streak", "Code 60 days in a row", 5, "streaks", "streak-5"},
	{18, "100-Day Streak", "Code 100 days in a row", 6, "streaks", "streak-6"},

	// Daily hours ladder (ids 19-24, daily regime).
	{19, "1 Hour Today", "Code for 1 hour in a day", 1, "hours", "daily-hours-1"},
	{20, "2 Hours Today", "Code for 2 hours in a day", 2, "hours", "daily-hours-2"},
	{21, "3 Hours Today", "Code for 3 hours in a day", 3, "hours", "daily-hours-3"},
	{22, "5 Hours Today", "Code for 5 hours in a day", 4, "hours", "daily-hours-4"},
	{23, "8 Hours Today", "Code for 8 hours in a day", 5, "hours", "daily-hours-5"},
	{24, "10 Hours Today", "Code for 10 hours in a day", 6, "hours", "daily-hours-6"},

	// Lines of code ladder (ids 25-30).
	{25, "First Line", "Add your first line of code", 1, "lines", "lines-1"},
	{26, "16 Lines", "Add a total of 16 lines of code", 2, "lines", "lines-2"},
	{27, "50 Lines", "Add a total of 50 lines of code", 3, "lines", "lines-3"},
	{28, "100 Lines", "Add a total of 100 lines of code", 4, "lines", "lines-4"},
	{29, "1,000 Lines", "Add a total of 1,000 lines of code", 5, "lines", "lines-5"},
	{30, "10,000 Lines", "Add a total of 10,000 lines of code", 6, "lines", "lines-6"},

	// Shares ladder (ids 31-36).
	{31, "First Share", "Share your progress for the first time", 1, "shares", "shares-1"},
	{32, "5 Shares", "Share your progress 5 times", 2, "shares", "shares-2"},
	{33, "10 Shares", "Share your progress 10 times", 3, "shares", "shares-3"},
	{34, "21 Shares", "Share your progress 21 times", 4, "shares", "shares-4"},
	{35, "50 Shares", "Share your progress 50 times", 5, "shares", "shares-5"},
	{36, "100 Shares", "Share your progress 100 times", 6, "shares", "shares-6"},

	// Keystrokes ladder (ids 37-42).
	{37, "100 Keystrokes", "Type a total of 100 keystrokes", 1, "keystrokes", "keys-1"},
	{38, "1,000 Keystrokes", "Type a total of 1,000 keystrokes", 2, "keystrokes", "keys-2"},
	{39, "5,000 Keystrokes", "Type a total of 5,000 keystrokes", 3, "keystrokes", "keys-3"},
	{40, "10,000 Keystrokes", "Type a total of 10,000 keystrokes", 4, "keystrokes", "keys-4"},
	{41, "Keystrokes Half Marathon", "Type a total of 21,097 keystrokes", 5, "keystrokes", "keys-5"},
	{42, "Keystrokes Marathon", "Type a total of 42,195 keystrokes", 6, "keystrokes", "keys-6"},

	// Multi-language ladder (ids 43-48).
	{43, "1 Language", "Code in your first language", 1, "languages", "multilang-1"},
	{44, "2 Languages", "Code in 2 different languages", 2, "languages", "multilang-2"},
	{45, "3 Languages", "Code in 3 different languages", 3, "languages", "multilang-3"},
	{46, "4 Languages", "Code in 4 different languages", 4, "languages", "multilang-4"},
	{47, "5 Languages", "Code in 5 different languages", 5, "languages", "multilang-5"},
	{48, "6 Languages", "Code in 6 different languages", 6, "languages", "multilang-6"},

	// Single-language milestones (ids 49-56, daily regime).
	{49, "Java", "Code in Java today", 1, "languages", "lang-java"},
	{50, "Python", "Code in Python today", 1, "languages", "lang-python"},
	{51, "C/C++", "Code in C or C++ today", 1, "languages", "lang-c"},
	{52, "JavaScript", "Code in JavaScript today", 1, "languages", "lang-js"},
	{53, "Plain Text", "Write plain text today", 1, "languages", "lang-text"},
	{54, "HTML/CSS", "Code in HTML or CSS today", 1, "languages", "lang-html"},
	{55, "JSON", "Write JSON today", 1, "languages", "lang-json"},
	{56, "TypeScript", "Code in TypeScript today", 1, "languages", "lang-ts"},
}

// NewCatalog returns a fresh catalog seeded from the immutable template,
// with no milestone achieved.
func NewCatalog() []Milestone {
	out := make([]Milestone, 0, len(catalogTemplate))
	for _, s := range catalogTemplate {
		out = append(out, Milestone{
			ID:          s.id,
			Title:       s.title,
			Description: s.desc,
			Level:       s.level,
			Category:    s.category,
			Icon:        s.icon + ".svg",
			GrayIcon:    s.icon + "-gray.svg",
		})
	}
	return out
}

// CatalogByID returns a pointer to the milestone with the given id, or an
// error when the id is outside the catalog.
func CatalogByID(catalog []Milestone, id int) (*Milestone, error) {
	if !ValidMilestoneID(id) || id > len(catalog) {
		return nil, fmt.Errorf("invalid milestone id %d", id)
	}
	return &catalog[id-1], nil
}
