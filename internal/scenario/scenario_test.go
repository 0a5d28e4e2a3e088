package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ValidScenario(t *testing.T) {
	sc, err := Load("testdata/fruit_prices.yaml")
	require.NoError(t, err)

	assert.Equal(t, "fruit_prices", sc.Name)
	require.Len(t, sc.Doubles, 1)
	assert.Equal(t, "price", sc.Doubles[0].Label)
	assert.Len(t, sc.Steps, 6)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("testdata/does_not_exist.yaml")
	assert.Error(t, err)
}

func TestValidate_Rejections(t *testing.T) {
	testCases := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing name",
			yaml:    "doubles:\n  - label: a\n    arity: 0\n",
			wantErr: "name is required",
		},
		{
			name:    "no doubles",
			yaml:    "name: x\n",
			wantErr: "at least one double",
		},
		{
			name:    "duplicate labels",
			yaml:    "name: x\ndoubles:\n  - label: a\n    arity: 0\n  - label: a\n    arity: 1\n",
			wantErr: "duplicate double label",
		},
		{
			name:    "bad effect",
			yaml:    "name: x\ndoubles:\n  - label: a\n    arity: 0\n    effect: sometimes\n",
			wantErr: "invalid effect",
		},
		{
			name:    "undeclared double",
			yaml:    "name: x\ndoubles:\n  - label: a\n    arity: 0\nsteps:\n  - call: { double: b, args: [] }\n",
			wantErr: "undeclared double",
		},
		{
			name:    "arity mismatch",
			yaml:    "name: x\ndoubles:\n  - label: a\n    arity: 2\nsteps:\n  - call: { double: a, args: [only-one] }\n",
			wantErr: "arity is 2",
		},
		{
			name:    "stub with neither return nor throw",
			yaml:    "name: x\ndoubles:\n  - label: a\n    arity: 0\nsteps:\n  - stub: { double: a, args: [] }\n",
			wantErr: "exactly one of return or throw",
		},
		{
			name:    "throw on non-throwing effect",
			yaml:    "name: x\ndoubles:\n  - label: a\n    arity: 0\nsteps:\n  - stub: { double: a, args: [], throw: boom }\n",
			wantErr: "cannot throw",
		},
		{
			name:    "verify_throws on non-throwing effect",
			yaml:    "name: x\ndoubles:\n  - label: a\n    arity: 0\nsteps:\n  - verify_throws: { double: a }\n",
			wantErr: "cannot throw",
		},
		{
			name:    "step with two kinds",
			yaml:    "name: x\ndoubles:\n  - label: a\n    arity: 0\nsteps:\n  - call: { double: a, args: [] }\n    clear: {}\n",
			wantErr: "exactly one kind",
		},
		{
			name:    "empty verify_order",
			yaml:    "name: x\ndoubles:\n  - label: a\n    arity: 0\nsteps:\n  - verify_order: { expect: [] }\n",
			wantErr: "at least one expectation",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeScenario(t, tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
