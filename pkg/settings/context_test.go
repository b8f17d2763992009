package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	tests := []struct {
		name   string
		ctx    func() context.Context
		wantOk bool
	}{
		{
			name:   "with settings",
			ctx:    func() context.Context { return IntoContext(context.Background(), &Run{Debug: true}) },
			wantOk: true,
		},
		{
			name:   "without settings",
			ctx:    context.Background,
			wantOk: false,
		},
		{
			name:   "nil settings",
			ctx:    func() context.Context { return IntoContext(context.Background(), nil) },
			wantOk: false,
		},
		{
			name:   "wrong type under key",
			ctx:    func() context.Context { return context.WithValue(context.Background(), runKey{}, "nope") },
			wantOk: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromContext(tt.ctx())
			assert.Equal(t, tt.wantOk, ok)
			if tt.wantOk {
				require.NotNil(t, got)
				assert.True(t, got.Debug)
			}
		})
	}
}

func TestFromContextOrDefault(t *testing.T) {
	run := &Run{ConfigPath: "x.yaml"}
	assert.Same(t, run, FromContextOrDefault(IntoContext(context.Background(), run)))

	def := FromContextOrDefault(context.Background())
	require.NotNil(t, def)
	assert.Equal(t, []string{"-"}, def.Inputs)
}
