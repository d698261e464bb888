package uploads

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"damage.jpg", "damage.jpg"},
		{"  report.pdf ", "report.pdf"},
		{"../../etc/passwd", "passwd"},
		{"/tmp/evil.sh", "evil.sh"},
		{"nested/dir/photo.png", "photo.png"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeFilename(tt.raw))
		})
	}

	t.Run("empty name gets a generated one", func(t *testing.T) {
		got := sanitizeFilename("")
		assert.True(t, strings.HasPrefix(got, "upload-"))
		assert.True(t, strings.HasSuffix(got, ".bin"))
	})
}

func TestSafeName(t *testing.T) {
	assert.True(t, SafeName("damage.jpg"))
	assert.True(t, SafeName("damage_1.jpg"))

	assert.False(t, SafeName(""))
	assert.False(t, SafeName("."))
	assert.False(t, SafeName(".."))
	assert.False(t, SafeName("../damage.jpg"))
	assert.False(t, SafeName("a/b.jpg"))
	assert.False(t, SafeName("a\\b.jpg"))
}
