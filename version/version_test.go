package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
	assert.NotEmpty(t, info.CommitHash)
}

func TestInfo_String(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "v0.3.0", CommitHash: "0123456789abcdef", BuildTime: "2026-01-02"}, "cxxbind v0.3.0 (commit 0123456, built 2026-01-02)"},
		{Info{Version: "dev", CommitHash: "dev", BuildTime: "unknown"}, "cxxbind dev (commit dev, built unknown)"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.info.String())
		})
	}
}
