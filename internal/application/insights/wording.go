package insights

import "regexp"

type rewrite struct {
	pattern *regexp.Regexp
	with    string
}

// Insights describe and suggest; they never tell the user to trade.
var softenings = []rewrite{
	{regexp.MustCompile(`(?i)\byou\s+should\s+(buy|sell|invest|exit)\b`), "you might consider"},
	{regexp.MustCompile(`(?i)\bi\s+recommend\s+(buying|selling|investing)\b`), "one approach could be"},
	{regexp.MustCompile(`(?i)\byou\s+must\s+(buy|sell|invest)\b`), "you might want to consider"},
	{regexp.MustCompile(`(?i)\bsell\s+this\b`), "review this"},
	{regexp.MustCompile(`(?i)\bbuy\s+this\b`), "consider this"},
	{regexp.MustCompile(`(?i)\bwill\s+(go\s+up|rise|increase|go\s+down|fall|decrease)\b`), "may fluctuate"},
	{regexp.MustCompile(`(?i)\bdefinitely\b`), "likely"},
	{regexp.MustCompile(`(?i)\bcertainly\b`), "probably"},
	{regexp.MustCompile(`(?i)\bguaranteed\b`), "expected"},
	{regexp.MustCompile(`(?i)\bno\s+risk\b`), "lower risk"},
}

// Soften rewrites prescriptive or overconfident phrasing into neutral wording.
func Soften(text string) string {
	for _, r := range softenings {
		text = r.pattern.ReplaceAllString(text, r.with)
	}
	return text
}
