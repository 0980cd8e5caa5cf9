package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	rs := Default()

	require.NoError(t, rs.Validate())
	require.Len(t, rs.Tiers, 3)
	assert.Equal(t, 30, rs.Tiers[0].Weight)
	assert.Equal(t, 15, rs.Tiers[1].Weight)
	assert.Equal(t, 5, rs.Tiers[2].Weight)
	assert.Contains(t, rs.Tiers[0].Keywords, "返金")
	assert.Contains(t, rs.OperatorBoilerplate, "下記記事をご参照ください")
	assert.NotContains(t, rs.CustomerBoilerplate, "下記記事をご参照ください")
}

func TestParse_OverlayReplacesListsPresent(t *testing.T) {
	doc := []byte(`
system_phrases:
  - "auto-closed"
tiers:
  - name: high
    weight: 40
    keywords: ["refund"]
`)

	rs, err := Parse(doc)
	require.NoError(t, err)

	assert.Equal(t, []string{"auto-closed"}, rs.SystemPhrases)
	require.Len(t, rs.Tiers, 1)
	assert.Equal(t, 40, rs.Tiers[0].Weight)
	assert.Equal(t, Default().CustomerBoilerplate, rs.CustomerBoilerplate)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not yaml", "tiers: [unterminated"},
		{"zero weight", "tiers:\n  - name: high\n    weight: 0\n    keywords: [x]\n"},
		{"missing tier name", "tiers:\n  - weight: 3\n"},
		{"empty keyword", "tiers:\n  - name: low\n    weight: 1\n    keywords: [\"\"]\n"},
		{"empty phrase", "system_phrases: [\"\"]\n"},
		{"no tiers", "tiers: []\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	rs, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), rs)

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("system_phrases: [\"closed by bot\"]\n"), 0o600))
	rs, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"closed by bot"}, rs.SystemPhrases)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMarshal_RoundTripsThroughParse(t *testing.T) {
	out, err := Default().Marshal()
	require.NoError(t, err)

	rs, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, Default(), rs)
}

func TestClone_IsDeep(t *testing.T) {
	rs := Default()
	c := rs.Clone()
	c.Tiers[0].Keywords[0] = "changed"
	c.SystemPhrases[0] = "changed"

	assert.Equal(t, "返金", rs.Tiers[0].Keywords[0])
	assert.Equal(t, "自己解決", rs.SystemPhrases[0])
}
