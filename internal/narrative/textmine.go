package narrative

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/bizsight/bizsight/internal/model"
)

// Text-mining patterns for prose responses that ignored the JSON
// instruction. Field-specific defaults apply when a pattern finds
// nothing.
var (
	viabilityRe   = regexp.MustCompile(`(?i)viability\s*(?:score)?\D{0,10}(\d{1,3})`)
	competitionRe = regexp.MustCompile(`(?i)competition[^.\n]{0,40}?\b(low|medium|high)\b`)
	saturationRe  = regexp.MustCompile(`(?i)saturation[^.\n]{0,40}?\b(low|medium|high)\b`)

	expectedRevenueRe = regexp.MustCompile(`(?i)expected\s+revenue\D{0,20}([\d,]+)`)
	averageRevenueRe  = regexp.MustCompile(`(?i)average\s+revenue\D{0,20}([\d,]+)`)
	tamRe             = regexp.MustCompile(`(?i)(?:total\s+addressable\s+market|TAM)\D{0,20}([\d,]+)`)

	bulletRe = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s+(.*)`)
)

// swotHeadings maps heading keywords to SWOT bucket indices.
var swotHeadings = []struct {
	keyword string
	bucket  int
}{
	{"strength", 0},
	{"weakness", 1},
	{"opportunit", 2},
	{"threat", 3},
}

// mineText extracts a best-effort analysis from prose. It always
// succeeds; missing signals get field-specific defaults (viability 75,
// levels Medium, financials 0).
func mineText(text string) *Analysis {
	viability := 75
	if m := viabilityRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			viability = clampScore(n)
		}
	}

	swot := mineSWOT(text)

	return &Analysis{
		Summary: mineSummary(text),
		SWOT:    swot,
		Metrics: model.Metrics{
			ViabilityScore:         viability,
			CompetitionLevel:       mineLevel(competitionRe, text),
			MarketSaturation:       mineLevel(saturationRe, text),
			ExpectedRevenue:        mineFigure(expectedRevenueRe, text),
			AverageRevenue:         mineFigure(averageRevenueRe, text),
			TotalAddressableMarket: mineFigure(tamRe, text),
		},
		Recommendation: parseRecommendation(text, viability),
		Source:         SourceTextMine,
	}
}

// mineSummary takes the first non-heading, non-bullet paragraph line.
func mineSummary(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || bulletRe.MatchString(line) {
			continue
		}
		if len(line) > 40 {
			return line
		}
	}
	return "Analysis derived from partial service output."
}

// mineSWOT buckets bullet points under the most recent SWOT heading.
func mineSWOT(text string) model.SWOT {
	buckets := make([][]string, 4)
	current := -1

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if m := bulletRe.FindStringSubmatch(trimmed); m != nil {
			if current >= 0 {
				buckets[current] = append(buckets[current], strings.TrimSpace(m[1]))
			}
			continue
		}

		// A non-bullet line can switch the active bucket.
		lower := strings.ToLower(trimmed)
		for _, h := range swotHeadings {
			if strings.Contains(lower, h.keyword) {
				current = h.bucket
				break
			}
		}
	}

	return model.SWOT{
		Strengths:     buckets[0],
		Weaknesses:    buckets[1],
		Opportunities: buckets[2],
		Threats:       buckets[3],
	}
}

func mineLevel(re *regexp.Regexp, text string) model.Level {
	if m := re.FindStringSubmatch(text); m != nil {
		return parseLevel(m[1])
	}
	return model.LevelMedium
}

func mineFigure(re *regexp.Regexp, text string) int64 {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, err := strconv.ParseInt(strings.ReplaceAll(m[1], ",", ""), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
