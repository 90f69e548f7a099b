package match

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/nextstep/internal/embedding"
)

func unit(values ...float32) []float32 {
	return embedding.Normalize(values)
}

func TestScorePartialSkills(t *testing.T) {
	vec := unit(1, 2, 3)
	res := Score("Experienced with python, react", vec, "We need python, react, aws", vec)

	require.Equal(t, 66.7, res.SkillsMatch)
	require.Equal(t, []string{"aws"}, res.MissingSkills)
	require.Equal(t, []string{"python", "react"}, res.MatchedSkills)
	require.Equal(t, 100.0, res.SemanticScore)
	require.Equal(t, 100.0, res.ExperienceMatch)
	require.Equal(t, 90.0, res.OverallScore)
}

func TestScoreMissingVector(t *testing.T) {
	res := Score("python", nil, "python", unit(1, 0))
	require.Equal(t, 0.0, res.SemanticScore)
	require.Equal(t, 100.0, res.SkillsMatch)
	require.Equal(t, 50.0, res.OverallScore)
}

func TestScoreNegativeSimilarityClamped(t *testing.T) {
	res := Score("", unit(1, 0), "", unit(-1, 0))
	require.Equal(t, 0.0, res.SemanticScore)
	require.Equal(t, 0.0, res.SkillsMatch)
	require.Equal(t, 20.0, res.OverallScore)
}

func TestScoreNoJobSkills(t *testing.T) {
	res := Score("python", nil, "plumber wanted", nil)
	require.Equal(t, 0.0, res.SkillsMatch)
	require.Empty(t, res.MissingSkills)
}

func TestLevel(t *testing.T) {
	require.Equal(t, "senior", Level("Senior Engineer, team lead"))
	require.Equal(t, "lead", Level("Lead developer"))
	require.Equal(t, "", Level("Engineer"))
	// "principal" is checked after "lead"; list order decides, not position in the text.
	require.Equal(t, "lead", Level("principal engineer who led and leads"))
}

func TestExperienceMatchTable(t *testing.T) {
	tests := []struct {
		job, resume string
		want        float64
	}{
		{"senior", "junior", 60},
		{"lead", "junior", 50},
		{"principal", "junior", 100},
		{"senior", "intern", 100},
		{"junior", "senior", 100},
		{"", "junior", 100},
		{"senior", "", 100},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, ExperienceMatch(tt.job, tt.resume), "%s/%s", tt.job, tt.resume)
	}
}

func TestScoreSeniorJobJuniorResume(t *testing.T) {
	res := Score("junior developer", nil, "senior developer", nil)
	require.Equal(t, 60.0, res.ExperienceMatch)
	require.Equal(t, 12.0, res.OverallScore)
}

func TestOverallMonotonicInSkills(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		semantic := r.Float64() * 100
		experience := []float64{50, 60, 100}[r.Intn(3)]
		lo := r.Float64() * 100
		hi := lo + r.Float64()*(100-lo)
		require.LessOrEqual(t, Overall(semantic, lo, experience), Overall(semantic, hi, experience))
	}
}

func TestScoreBoundsAndMissingSubset(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 300; i++ {
		resume := randomText(r)
		job := randomText(r)
		a := randomVec(r, 16)
		b := randomVec(r, 16)
		res := Score(resume, a, job, b)

		require.GreaterOrEqual(t, res.OverallScore, 0.0)
		require.LessOrEqual(t, res.OverallScore, 100.0)
		require.LessOrEqual(t, len(res.MissingSkills), MaxMissingSkills)
		jobSkills := SkillsIn(job)
		for _, s := range res.MissingSkills {
			require.Contains(t, jobSkills, s)
		}
	}
}

func TestMissingSkillsCapped(t *testing.T) {
	job := strings.Join(SkillVocabulary, " ")
	res := Score("", nil, job, nil)
	require.Len(t, res.MissingSkills, MaxMissingSkills)
}

func randomText(r *rand.Rand) string {
	words := append(append([]string{}, SkillVocabulary...), levels...)
	words = append(words, "golang", "rust", "manager", "remote")
	n := r.Intn(12)
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		parts = append(parts, words[r.Intn(len(words))])
	}
	return strings.Join(parts, " ")
}

func randomVec(r *rand.Rand, dim int) []float32 {
	if r.Intn(5) == 0 {
		return nil
	}
	v := make([]float32, dim)
	for i := range v {
		v[i] = float32(r.NormFloat64())
	}
	return embedding.Normalize(v)
}

func TestRequirementsTitleCased(t *testing.T) {
	got := Requirements("We use AWS, machine learning and Python daily")
	require.Equal(t, []string{"Python", "Aws", "Machine Learning"}, got)
	require.Empty(t, Requirements("nothing relevant here"))
}
