package crosstab

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractLabels(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  Labels
	}{
		{
			name:  "single line question",
			lines: []string{"1. Do you approve?", "BANNER: Gender"},
			want:  Labels{Question: "1. Do you approve?", Banner: "BANNER: Gender"},
		},
		{
			name: "multi line question after title noise",
			lines: []string{
				"Indiana State Senate District 8",
				"  12. If the election were held today,  ",
				"who would you vote for?",
				"Banner 1: Age / Gender",
				"Total Male Female",
			},
			want: Labels{
				Question: "12. If the election were held today, who would you vote for?",
				Banner:   "Banner 1: Age / Gender",
			},
		},
		{
			name:  "no space after period",
			lines: []string{"3.Favorability", "banner"},
			want:  Labels{Question: "3.Favorability", Banner: "banner"},
		},
		{
			name:  "banner before any numbered line",
			lines: []string{"BANNER B", "4. Too late"},
			want:  Labels{Question: "", Banner: "BANNER B"},
		},
		{
			name:  "no banner",
			lines: []string{"5. Question", "continued"},
			want:  Labels{Question: "5. Question continued", Banner: ""},
		},
		{
			name:  "no question",
			lines: []string{"Cover page", "Crosstabs"},
			want:  Labels{},
		},
		{
			name:  "later numbered lines are appended",
			lines: []string{"6. First part", "7. looks numbered", "BANNER X"},
			want:  Labels{Question: "6. First part 7. looks numbered", Banner: "BANNER X"},
		},
		{
			name:  "banner is first match",
			lines: []string{"8. Q", "Banner One", "Banner Two"},
			want:  Labels{Question: "8. Q", Banner: "Banner One"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractLabels(tt.lines))
		})
	}
}
