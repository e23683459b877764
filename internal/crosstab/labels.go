package crosstab

import (
	"regexp"
	"strings"
)

// questionStartPattern matches a line beginning with a question number such
// as "12." or "3.Do you". It deliberately accepts any leading number.
var questionStartPattern = regexp.MustCompile(`^\p{Nd}+\.`)

const bannerMarker = "BANNER"

// Labels holds the text found above a crosstab.
type Labels struct {
	Question string
	Banner   string
}

// ExtractLabels scans the plain-text lines of a page for the numbered
// question and the banner line.
func ExtractLabels(lines []string) Labels {
	var question []string
	started := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if isBannerLine(line) {
			break
		}
		if !started && questionStartPattern.MatchString(trimmed) {
			started = true
		}
		if started {
			question = append(question, trimmed)
		}
	}

	labels := Labels{Question: strings.TrimSpace(strings.Join(question, " "))}
	for _, line := range lines {
		if isBannerLine(line) {
			labels.Banner = strings.TrimSpace(line)
			break
		}
	}

	return labels
}

func isBannerLine(line string) bool {
	return strings.Contains(strings.ToUpper(line), bannerMarker)
}
