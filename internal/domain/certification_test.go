package domain

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var certPattern = regexp.MustCompile(`^AGC-[0-9A-Z]+-[0-9A-Z]{6}$`)

func TestNewCertificationNumber_Format(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	n, err := NewCertificationNumber(now, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, n)
	assert.Regexp(t, certPattern, n)
}

func TestNewCertificationNumber_UniqueAtSameInstant(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool, 2000)
	for i := 0; i < 2000; i++ {
		n, err := NewCertificationNumber(now, nil)
		require.NoError(t, err)
		require.False(t, seen[n], "duplicate certification number %s", n)
		seen[n] = true
	}
}

func TestNewCertificationNumber_ShortReader(t *testing.T) {
	_, err := NewCertificationNumber(time.Now(), strings.NewReader(""))
	assert.Error(t, err)
}
