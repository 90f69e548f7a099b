package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractBulletsGlyphs(t *testing.T) {
	require.Equal(t,
		[]string{"Led team of 5", "Shipped feature X"},
		ExtractBullets("• Led team of 5\n• Shipped feature X"),
	)
}

func TestExtractBulletsDropsShortFragments(t *testing.T) {
	got := ExtractBullets("* Reduced latency by 40%\n* Did it\n▪ Migrated services to Kubernetes")
	require.Equal(t, []string{"Reduced latency by 40%", "Migrated services to Kubernetes"}, got)
}

func TestExtractBulletsFallsBackToLines(t *testing.T) {
	text := "Acme Corp, Senior Engineer\nDesigned the payments platform\nMentored new hires"
	require.Equal(t, []string{
		"Acme Corp, Senior Engineer",
		"Designed the payments platform",
		"Mentored new hires",
	}, ExtractBullets(text))
}

func TestExtractBulletsCap(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&sb, "• Delivered milestone number %d\n", i)
	}
	got := ExtractBullets(sb.String())
	require.Len(t, got, MaxBullets)
	require.Equal(t, "Delivered milestone number 0", got[0])
	require.Equal(t, "Delivered milestone number 19", got[19])
}

func TestExtractBulletsEmpty(t *testing.T) {
	require.Empty(t, ExtractBullets("   "))
}
