package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	got, err := Generate(0)
	require.NoError(t, err)
	assert.Len(t, got, DefaultLength)

	other, err := Generate(0)
	require.NoError(t, err)
	assert.NotEqual(t, got, other)
}

func TestNewSessionID(t *testing.T) {
	sid, err := NewSessionID()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(sid, "ses_"))
	assert.NoError(t, ValidatePrefix(sid, PrefixSession))
}

func TestValidatePrefix(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "ses_abcXYZ019", false},
		{"wrong prefix", "tkt_abc", true},
		{"missing separator", "sesabc", true},
		{"empty body", "ses_", true},
		{"bad characters", "ses_ab-c", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePrefix(tt.input, PrefixSession)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
