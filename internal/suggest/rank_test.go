package suggest

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRankCandidates_CountsAndOrder(t *testing.T) {
	got := RankCandidates("", []string{`hello"`, "world", "hello"})
	assert.Equal(t, []Candidate{
		{Label: "hello", Count: 2},
		{Label: "world", Count: 1},
	}, got)
}

func TestRankCandidates_Prefix(t *testing.T) {
	got := RankCandidates("fix: ", []string{`typo"`, "typo", `crash"`})
	assert.Equal(t, []string{"fix: typo", "fix: crash"}, Labels(got))
	assert.Equal(t, 2, got[0].Count)
}

func TestRankCandidates_StripsOnlyOneQuote(t *testing.T) {
	got := RankCandidates("", []string{`say "hi""`, `quoted"`})
	assert.Equal(t, []string{`say "hi"`, "quoted"}, Labels(got))
}

func TestRankCandidates_CaseSensitive(t *testing.T) {
	got := RankCandidates("", []string{"Fix", "fix", "FIX"})
	assert.Len(t, got, 3)
}

func TestRankCandidates_TiesKeepFirstSeen(t *testing.T) {
	got := RankCandidates("", []string{"c", "a", "b", "a", "b", "c", "d"})
	assert.Equal(t, []string{"c", "a", "b", "d"}, Labels(got))
}

func TestRankCandidates_Empty(t *testing.T) {
	got := RankCandidates("fix: ", nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, Labels(got))
}

func TestRankCandidates_Idempotent(t *testing.T) {
	first := Labels(RankCandidates("", []string{"b", "a", "a", "c", "b", "a"}))
	again := Labels(RankCandidates("", first))
	assert.Equal(t, first, again)
}

func TestRankCandidates_TenIdentical(t *testing.T) {
	raw := make([]string, 10)
	for i := range raw {
		raw[i] = `added foo"`
	}
	got := RankCandidates("fix: ", raw)
	assert.Equal(t, []Candidate{{Label: "fix: added foo", Count: 10}}, got)
}

func TestRankCandidates_CountsSumToInput(t *testing.T) {
	raw := make([]string, 0, 50)
	for i := 0; i < 50; i++ {
		raw = append(raw, fmt.Sprintf("msg %d", i%7))
	}
	total := 0
	prev := len(raw) + 1
	for _, c := range RankCandidates("", raw) {
		total += c.Count
		assert.LessOrEqual(t, c.Count, prev)
		prev = c.Count
	}
	assert.Equal(t, len(raw), total)
}
