package double

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMockingError_MessageEquality(t *testing.T) {
	a := newError(CodeUnstubbed, "unstubbed call price(apple)")
	b := newError(CodeDidNotThrow, "unstubbed call price(apple)")
	c := newError(CodeUnstubbed, "different")

	assert.True(t, a.Equal(b), "identity is the message, not the code")
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}

func TestMockingError_ErrorFormat(t *testing.T) {
	err := newError(CodeWaitTimeout, "timed out after 1s")
	assert.Equal(t, "WAIT_TIMEOUT: timed out after 1s", err.Error())
}

func TestCodeHelpers_SeeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("calling collaborator: %w", newError(CodeUnstubbed, "no stub"))
	assert.True(t, IsUnstubbed(err))
	assert.False(t, IsConfiguration(err))
	assert.False(t, IsWaitTimeout(err))
	assert.False(t, IsUnstubbed(fmt.Errorf("plain")))
}
