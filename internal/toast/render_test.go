package toast

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderContainsSeverityAndMessage(t *testing.T) {
	out := Render(Toast{Message: "Lab results ready", Severity: "success", State: StateVisible})
	assert.Contains(t, out, "SUCCESS")
	assert.Contains(t, out, "Lab results ready")
}

func TestRenderStackKeepsArrivalOrder(t *testing.T) {
	out := RenderStack([]Toast{
		{Message: "first", Severity: "info", State: StateVisible},
		{Message: "second", Severity: "error", State: StateVisible},
	})
	assert.Less(t, strings.Index(out, "first"), strings.Index(out, "second"))
}

func TestRenderStackEmpty(t *testing.T) {
	assert.Empty(t, RenderStack(nil))
}
