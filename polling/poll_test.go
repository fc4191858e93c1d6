package polling

import (
	"reflect"
	"testing"
)

func TestParseOptions(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"duplicates keep first occurrence", "A\nB\nA\nC", []string{"A", "B", "C"}},
		{"windows line breaks", "Super\r\nGood\r\n\r\nOkay", []string{"Super", "Good", "Okay"}},
		{"blank and padded lines", "  A \n\n   \nB\n A", []string{"A", "B"}},
		{"empty", "\n\r\n", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseOptions(tt.raw)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseOptions() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPoll_Clone(t *testing.T) {
	p := newPoll("A", "B")
	p.Counts["M"] = "A"

	c := p.Clone()
	c.Counts["M"] = "B"
	c.Results["A"] = 5
	c.Options[0] = "Z"

	if p.Counts["M"] != "A" || p.Results["A"] != 0 || p.Options[0] != "A" {
		t.Error("Clone shares state with the original")
	}
}
