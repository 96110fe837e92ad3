package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShort(t *testing.T) {
	assert.Equal(t, "abcdef1", Info{CommitHash: "abcdef1234567"}.Short())
	assert.Equal(t, "dev", Info{CommitHash: "dev"}.Short())
}

func TestString(t *testing.T) {
	info := Info{Version: "1.2.0", CommitHash: "abcdef1234567", BuildTime: "today", GoVersion: "go1.24"}
	assert.Equal(t, "resultviz 1.2.0 (commit abcdef1, built today, go1.24)", info.String())
}
