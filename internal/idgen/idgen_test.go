package idgen

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_Format(t *testing.T) {
	fixed := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = time.Now })

	ref := Reference()
	assert.Regexp(t, regexp.MustCompile(`^TX20260304050607[0-9A-F]{12}$`), ref)

	order := OrderNumber()
	assert.Regexp(t, regexp.MustCompile(`^WD20260304050607[0-9A-F]{12}$`), order)
}

func TestNew_NoCollisions(t *testing.T) {
	const n = 10000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		id := Reference()
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id after %d generations: %s", i, id)
		}
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, n)
}
