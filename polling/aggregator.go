package polling

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
)

// Result is one row of a concluded poll's ranking.
type Result struct {
	Option string
	Votes  int
}

// ApplyVote records option as memberId's choice, replacing any earlier
// vote by the same member. Results are left untouched.
func ApplyVote(p *Poll, memberId, option string) error {
	if !lo.Contains(p.Options, option) {
		return fmt.Errorf("%w: %q is not an option of poll %s", ErrInvalidOption, option, p.ID)
	}
	if p.Counts == nil {
		p.Counts = make(map[string]string)
	}
	p.Counts[memberId] = option
	return nil
}

// OptionAt resolves a zero-based option index.
func OptionAt(p *Poll, index int) (string, error) {
	if index < 0 || index >= len(p.Options) {
		return "", fmt.Errorf("%w: index %d out of range for poll %s", ErrInvalidOption, index, p.ID)
	}
	return p.Options[index], nil
}

// TallyVotes folds Counts into Results. Choices that are not options are
// skipped so Results keeps exactly one key per option.
func TallyVotes(p *Poll) {
	results := make(map[string]int, len(p.Options))
	for _, option := range p.Options {
		results[option] = p.Results[option]
	}
	for _, choice := range p.Counts {
		if _, ok := results[choice]; ok {
			results[choice]++
		}
	}
	p.Results = results
}

// Rank orders Results by descending tally, ties keeping option order.
func Rank(p *Poll) []Result {
	ranking := lo.Map(p.Options, func(option string, _ int) Result {
		return Result{Option: option, Votes: p.Results[option]}
	})
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Votes > ranking[j].Votes
	})
	return ranking
}

// ZeroResults returns a tally of zero for every option.
func ZeroResults(options []string) map[string]int {
	return lo.SliceToMap(options, func(option string) (string, int) {
		return option, 0
	})
}
