package milestone

import "sort"

// CompletionThreshold is the minimum hours for a day to count toward the
// days/streak milestone pass. An in-progress day under this threshold
// still occupies a log slot but does not yet qualify.
const CompletionThreshold = 0.5

// Tier is one rung of a ladder: crossing Threshold awards IDs.
type Tier struct {
	Threshold float64
	IDs       []int
}

// Ladder is an ordered list of tiers, lowest threshold first. Cumulative
// ladders carry, at each tier, every id up to and including that tier, so
// jumping straight past several tiers still awards all of them.
type Ladder []Tier

// Evaluate returns the ids of the highest tier whose threshold the value
// meets, or nil when even the lowest tier is missed.
func (l Ladder) Evaluate(value float64) []int {
	for i := len(l) - 1; i >= 0; i-- {
		if value >= l[i].Threshold {
			return l[i].IDs
		}
	}
	return nil
}

// cumulative builds a ladder whose tier k awards ids firstID..firstID+k.
func cumulative(firstID int, thresholds ...float64) Ladder {
	l := make(Ladder, 0, len(thresholds))
	for i, th := range thresholds {
		ids := make([]int, 0, i+1)
		for id := firstID; id <= firstID+i; id++ {
			ids = append(ids, id)
		}
		l = append(l, Tier{Threshold: th, IDs: ids})
	}
	return l
}

// single builds a ladder whose tier k awards only id firstID+k. Used by
// the shares pass, which fires one tier at a time.
func single(firstID int, thresholds ...float64) Ladder {
	l := make(Ladder, 0, len(thresholds))
	for i, th := range thresholds {
		l = append(l, Tier{Threshold: th, IDs: []int{firstID + i}})
	}
	return l
}

var (
	aggregateHoursLadder = cumulative(1, 1, 30, 60, 90, 120, 200)
	daysLadder           = cumulative(7, 1, 10, 50, 75, 100, 110)
	streakLadder         = cumulative(13, 2, 7, 14, 30, 60, 100)
	dailyHoursLadder     = cumulative(19, 1, 2, 3, 5, 8, 10)
	linesLadder          = cumulative(25, 1, 16, 50, 100, 1000, 10000)
	sharesLadder         = single(31, 1, 5, 10, 21, 50, 100)
	keystrokesLadder     = cumulative(37, 100, 1000, 5000, 10000, 21097, 42195)
	languageCountLadder  = cumulative(43, 1, 2, 3, 4, 5, 6)
)

// languageMilestones maps a detected language identifier to its
// single-language milestone id.
var languageMilestones = map[string]int{
	"java":            49,
	"python":          50,
	"c":               51,
	"cpp":             51,
	"javascript":      52,
	"javascriptreact": 52,
	"plaintext":       53,
	"html":            54,
	"css":             54,
	"json":            55,
	"jsonc":           55,
	"typescript":      56,
	"typescriptreact": 56,
}

// MetricsPass evaluates the aggregate-hours, daily-hours, lines and
// keystrokes ladders against the given values and returns the union of
// candidate ids. Lines and keystrokes are lifetime aggregates including
// the current day's shadow values; daily hours are today's alone.
func MetricsPass(aggregateHours, todayHours float64, aggregateLines, aggregateKeystrokes int) []int {
	var ids []int
	ids = append(ids, aggregateHoursLadder.Evaluate(aggregateHours)...)
	ids = append(ids, dailyHoursLadder.Evaluate(todayHours)...)
	ids = append(ids, linesLadder.Evaluate(float64(aggregateLines))...)
	ids = append(ids, keystrokesLadder.Evaluate(float64(aggregateKeystrokes))...)
	return dedupe(ids)
}

// LanguagePass maps today's detected languages to single-language
// milestone ids and evaluates the cumulative multi-language ladder
// against the count of distinct languages ever seen.
func LanguagePass(todayLanguages []string, totalLanguages int) []int {
	var ids []int
	for _, lang := range todayLanguages {
		if id, ok := languageMilestones[lang]; ok {
			ids = append(ids, id)
		}
	}
	ids = append(ids, languageCountLadder.Evaluate(float64(totalLanguages))...)
	return dedupe(ids)
}

// DaysPass evaluates the days and streak ladders. A day only counts once
// a minimum effort is logged: when today's hours are below the completion
// threshold, the effective days and streak are each reduced by one.
func DaysPass(days, streak int, todayHours float64) []int {
	effectiveDays := days
	effectiveStreak := streak
	if todayHours < CompletionThreshold {
		effectiveDays--
		effectiveStreak--
	}
	var ids []int
	ids = append(ids, daysLadder.Evaluate(float64(effectiveDays))...)
	ids = append(ids, streakLadder.Evaluate(float64(effectiveStreak))...)
	return dedupe(ids)
}

// SharesPass evaluates the shares ladder. Unlike the other ladders it is
// not cumulative: only the highest matching tier fires per call.
func SharesPass(shares int) []int {
	return sharesLadder.Evaluate(float64(shares))
}

func dedupe(ids []int) []int {
	seen := map[int]bool{}
	out := ids[:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out
}
