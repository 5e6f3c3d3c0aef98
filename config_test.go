package dartex_test

import (
	"testing"

	"github.com/fwojciec/dartex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := dartex.DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Items, 12)
	assert.Equal(t, 1, cfg.WorkerCount())
	assert.False(t, cfg.RemoveTables)
	assert.False(t, cfg.SkipExtracted)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     dartex.Config
		wantErr bool
	}{
		{"valid", dartex.Config{Items: []dartex.Item{1, 2}, Workers: 4}, false},
		{"zero workers", dartex.Config{Items: []dartex.Item{1}}, false},
		{"no items", dartex.Config{Workers: 1}, true},
		{"item out of range", dartex.Config{Items: []dartex.Item{13}}, true},
		{"negative workers", dartex.Config{Items: []dartex.Item{1}, Workers: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, dartex.EINVALID, dartex.ErrorCode(err))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestConfig_WorkerCount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, (&dartex.Config{}).WorkerCount())
	assert.Equal(t, 8, (&dartex.Config{Workers: 8}).WorkerCount())
}
