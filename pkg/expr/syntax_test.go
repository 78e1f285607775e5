package expr

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProvider(t *testing.T) {
	x, err := ParseProvider(" Main/title ")
	require.NoError(t, err)
	assert.Equal(t, "Main", x.Region())
	assert.Equal(t, "title", x.Name())
	assert.Equal(t, " Main/title ", x.Text())

	for _, bad := range []string{"", "Main", "Main/a/b", "/title", "Main/", " / "} {
		_, err := ParseProvider(bad)
		var se *SyntaxError
		require.True(t, errors.As(err, &se), "expected syntax error for %q", bad)
		assert.Equal(t, bad, se.Expr)
	}
}

func TestParseProviders(t *testing.T) {
	x, err := ParseProviders("Main")
	require.NoError(t, err)
	assert.Equal(t, "Main", x.Region())

	for _, bad := range []string{"", "  ", "Main/title", "Main Side"} {
		_, err := ParseProviders(bad)
		var se *SyntaxError
		require.ErrorAs(t, err, &se, "input %q", bad)
	}
}

func TestParseContent(t *testing.T) {
	x, err := ParseContent("footer")
	require.NoError(t, err)
	assert.Equal(t, "footer", x.Name())

	_, err = ParseContent("a/b")
	var se *SyntaxError
	require.ErrorAs(t, err, &se)
}

func TestUnboundExpressions(t *testing.T) {
	x, err := ParseProvider("Main/title")
	require.NoError(t, err)
	_, err = x.Eval(context.Background(), Vars{})
	assert.ErrorIs(t, err, ErrUnbound)
}
