package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildImageResolverScript(t *testing.T) {
	script := buildImageResolverScript()

	// Budgets are injected in milliseconds.
	assert.Contains(t, script, "const PER_CANDIDATE_MS = 8000;")
	assert.Contains(t, script, "const GLOBAL_MS = 30000;")
	assert.NotContains(t, script, "%d")

	// Failure reasons must match what the outcome decoder expects.
	assert.Contains(t, script, "'no-sources'")
	assert.Contains(t, script, "'all-candidates-failed'")
	assert.Contains(t, script, "'global-timeout'")

	// Outcome keys must match the JSON tags on the Go outcome type.
	assert.Contains(t, script, "product_id")
	assert.Contains(t, script, "product_code")
	assert.Contains(t, script, "elapsed_ms")

	// Retrying the pre-assigned first candidate clears the attribute, since
	// an identical src assignment does not re-fire load events everywhere.
	assert.Contains(t, script, "img.removeAttribute('src')")
}
