package domain

import (
	"fmt"
	"path"

	"github.com/mouse-blink/sigcov/internal/syntax"
)

// CallMode selects which calls are treated as jumps.
type CallMode string

const (
	// CallsIgnore never treats a call as a jump.
	CallsIgnore CallMode = "ignore"
	// CallsNonReturning treats only listed callees as jumps.
	CallsNonReturning CallMode = "non-returning"
	// CallsAll treats every call as a possible jump unless it is known
	// to be safe or exempted.
	CallsAll CallMode = "all"
)

// ParseCallMode validates a mode name; empty selects the default.
func ParseCallMode(s string) (CallMode, error) {
	switch mode := CallMode(s); mode {
	case "":
		return CallsNonReturning, nil
	case CallsIgnore, CallsNonReturning, CallsAll:
		return mode, nil
	}

	return "", fmt.Errorf("unknown call mode %q (want ignore, non-returning or all)", s)
}

// DefaultNonReturning lists callees that never return normally.
var DefaultNonReturning = []string{
	"os.Exit",
	"log.Fatal*",
	"log.Panic*",
	"runtime.Goexit",
	"*.FailNow",
	"*.Fatal",
	"*.Fatalf",
	"*.SkipNow",
	"*.Skip",
	"*.Skipf",
	"exit",
	"abort",
	"_Exit",
	"quick_exit",
	"longjmp",
	"siglongjmp",
	"std::exit",
	"std::abort",
	"std::terminate",
	"std::quick_exit",
	"std::longjmp",
}

// JumpPolicy decides which call sites end the region they appear in.
type JumpPolicy struct {
	Calls        CallMode
	NonReturning []string
	Exempt       []string
}

// DefaultJumpPolicy returns the policy used without configuration.
func DefaultJumpPolicy() JumpPolicy {
	return JumpPolicy{
		Calls:        CallsNonReturning,
		NonReturning: DefaultNonReturning,
	}
}

// IsJump reports whether the node is handled as a jump.
func (p JumpPolicy) IsJump(n syntax.Node) bool {
	switch n.Kind {
	case syntax.KindJump:
		return true
	case syntax.KindCall:
		return p.callIsJump(n)
	}

	return false
}

func (p JumpPolicy) callIsJump(n syntax.Node) bool {
	if n.Flags.Has(syntax.SafeCall) || n.Name == "" {
		return false
	}

	switch p.Calls {
	case CallsIgnore:
		return false
	case CallsAll:
		return !matchAny(p.Exempt, n.Name)
	case CallsNonReturning, "":
		return matchAny(p.NonReturning, n.Name)
	}

	return false
}

func matchAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if ok, err := path.Match(pattern, name); err == nil && ok {
			return true
		}
	}

	return false
}
