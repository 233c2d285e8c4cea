package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildKeyShape(t *testing.T) {
	key := BuildKey("user-1", "vaccination_record", "Scan.PDF")

	assert.True(t, strings.HasPrefix(key, "user-1/vaccination_record/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"), "extension is lowercased: %s", key)
}

func TestBuildKeyNeverCollides(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		key := BuildKey("user-1", "pet-1", "photo.jpg")
		assert.False(t, seen[key], "duplicate key %s", key)
		seen[key] = true
	}
}

func TestBuildKeyWithoutExtension(t *testing.T) {
	key := BuildKey("user-1", "other", "scan")

	assert.True(t, strings.HasPrefix(key, "user-1/other/"))
	assert.False(t, strings.Contains(key, "."))
}
