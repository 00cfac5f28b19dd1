package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/sigcov/internal/syntax"
)

func TestParseCallMode(t *testing.T) {
	tests := []struct {
		in   string
		want CallMode
	}{
		{"", CallsNonReturning},
		{"ignore", CallsIgnore},
		{"non-returning", CallsNonReturning},
		{"all", CallsAll},
	}

	for _, tt := range tests {
		got, err := ParseCallMode(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseCallMode("sometimes")
	assert.ErrorContains(t, err, `unknown call mode "sometimes"`)
}

func TestJumpPolicy_IsJump(t *testing.T) {
	call := func(name string) syntax.Node {
		return syntax.Node{Kind: syntax.KindCall, Name: name}
	}

	ret := syntax.Node{Kind: syntax.KindJump, Jump: syntax.JumpReturn}
	safe := syntax.Node{Kind: syntax.KindCall, Name: "os.Exit", Flags: syntax.SafeCall}

	def := DefaultJumpPolicy()
	assert.True(t, def.IsJump(ret))
	assert.True(t, def.IsJump(call("os.Exit")))
	assert.True(t, def.IsJump(call("log.Fatalf")))
	assert.True(t, def.IsJump(call("t.FailNow")))
	assert.True(t, def.IsJump(call("abort")))
	assert.False(t, def.IsJump(call("fmt.Println")))
	assert.False(t, def.IsJump(safe), "safe calls always return")
	assert.False(t, def.IsJump(syntax.Node{Kind: syntax.KindStatement}))

	ignore := JumpPolicy{Calls: CallsIgnore, NonReturning: DefaultNonReturning}
	assert.True(t, ignore.IsJump(ret))
	assert.False(t, ignore.IsJump(call("os.Exit")))

	all := JumpPolicy{Calls: CallsAll, Exempt: []string{"fmt.*"}}
	assert.True(t, all.IsJump(call("pkg.Do")))
	assert.False(t, all.IsJump(call("fmt.Println")))
	assert.False(t, all.IsJump(call("")), "unnamed callees are not judged")
}

func TestMatchAny_BadPattern(t *testing.T) {
	assert.False(t, matchAny([]string{"[", "x"}, "y"))
	assert.True(t, matchAny([]string{"[", "y"}, "y"))
}
