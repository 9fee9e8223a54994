package utils_test

import (
	"strings"
	"testing"

	"github.com/staffsync/staffsync_backend/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCompanyCode(t *testing.T) {
	code, err := utils.GenerateCompanyCode(6)
	require.NoError(t, err)
	assert.Len(t, code, 6)
	for _, r := range code {
		assert.Contains(t, "ABCDEFGHJKMNPQRSTUVWXYZ23456789", string(r))
	}
}

func TestGenerateCompanyCode_InvalidLength(t *testing.T) {
	_, err := utils.GenerateCompanyCode(0)
	assert.Error(t, err)
}

func TestGenerateCompanyCode_Varies(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		code, err := utils.GenerateCompanyCode(8)
		require.NoError(t, err)
		seen[strings.ToUpper(code)] = true
	}
	assert.Greater(t, len(seen), 1)
}
