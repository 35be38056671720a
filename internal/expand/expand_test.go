package expand

import (
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandLeavesUnreferencedKeysAlone(t *testing.T) {
	out, err := Expand("C/$A/B,$B,D", map[string]string{"A": "X", "B": "Y", "C": "Z"})
	require.NoError(t, err)
	assert.Equal(t, "C/X/B,Y,D", out)
}

func TestExpandIsRecursive(t *testing.T) {
	out, err := Expand("C/$A/B,$B,D", map[string]string{"A": "X", "B": "$C", "C": "Y"})
	require.NoError(t, err)
	assert.Equal(t, "C/X/B,Y,D", out)
}

func TestExpandKeepsUnknownNames(t *testing.T) {
	out, err := Expand("$HOME_DIR/lib/*:$MISSING/x", map[string]string{"HOME_DIR": "/opt"})
	require.NoError(t, err)
	assert.Equal(t, "/opt/lib/*:$MISSING/x", out)
}

func TestExpandUsesMaximalIdentifierRun(t *testing.T) {
	out, err := Expand("$A_B $A.jar $A1", map[string]string{"A": "x", "A_B": "y"})
	require.NoError(t, err)
	assert.Equal(t, "y x.jar $A1", out)
}

func TestExpandTerminatesOnCycles(t *testing.T) {
	cases := map[string]struct {
		input    string
		bindings map[string]string
		want     string
	}{
		"two names": {
			input:    "$A",
			bindings: map[string]string{"A": "$B", "B": "$A"},
			want:     "$A",
		},
		"self reference": {
			input:    "pre/$A/post",
			bindings: map[string]string{"A": "x$A"},
			want:     "pre/x$A/post",
		},
		"cycle beside plain value": {
			input:    "$A,$C",
			bindings: map[string]string{"A": "$B", "B": "[$A]", "C": "c"},
			want:     "[$A],c",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			out, err := Expand(tc.input, tc.bindings)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestExpandRejectsNilBindings(t *testing.T) {
	_, err := Expand("$A", nil)
	assert.ErrorIs(t, err, ErrNoBindings)

	out, err := Expand("$A", map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, "$A", out)
}

func TestEnvironIncludesProcessVariables(t *testing.T) {
	t.Setenv("FWUPLOAD_EXPAND_TEST", "value=with=equals")
	env := Environ()
	assert.Equal(t, "value=with=equals", env["FWUPLOAD_EXPAND_TEST"])
}

// acyclicBindings links K<i> only to K<j> with j > i.
func acyclicBindings(n int, literals []string, refs []int) map[string]string {
	bindings := make(map[string]string, n)
	for i := 0; i < n; i++ {
		value := literals[i]
		if refs[i] > i && refs[i] < n {
			value += fmt.Sprintf("/$K%d", refs[i])
		}
		bindings[fmt.Sprintf("K%d", i)] = value
	}
	return bindings
}

func TestExpandProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1357)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("acyclic expansion reaches a fixed point", prop.ForAll(
		func(n int, literals []string, refs []int) bool {
			bindings := acyclicBindings(n, literals, refs)
			parts := make([]string, 0, n)
			for i := 0; i < n; i++ {
				parts = append(parts, fmt.Sprintf("$K%d", i))
			}
			out, err := Expand(strings.Join(parts, ","), bindings)
			if err != nil {
				return false
			}
			for _, m := range token.FindAllStringSubmatch(out, -1) {
				if _, ok := bindings[m[1]]; ok {
					return false
				}
			}
			again, err := Expand(out, bindings)
			return err == nil && again == out
		},
		gen.IntRange(1, 8),
		gen.SliceOfN(8, gen.AlphaString()),
		gen.SliceOfN(8, gen.IntRange(0, 8)),
	))

	properties.Property("strings without $ are untouched", prop.ForAll(
		func(s string) bool {
			out, err := Expand(s, map[string]string{"A": "x"})
			return err == nil && out == s
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
