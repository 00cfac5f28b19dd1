package controller

import (
	"testing"

	m "github.com/mouse-blink/sigcov/internal/model"
)

func TestNewInstrumentationMsg(t *testing.T) {
	msg := newInstrumentationMsg([]m.InstrumentedFile{
		{Source: "a.c", Signals: 4},
		{Source: "a_f1.h", Signals: 2, Parent: "p"},
		{Source: "b.c", Signals: 9, Err: errSentinel},
	}, nil)

	if msg.signals != 6 {
		t.Fatalf("signals = %d, want 6", msg.signals)
	}

	if msg.failed != 1 {
		t.Fatalf("failed = %d, want 1", msg.failed)
	}

	if len(msg.files) != 3 || !msg.files[2].failed {
		t.Fatalf("files = %+v", msg.files)
	}

	if got := msg.files[0].FilterValue(); got != "a.c" {
		t.Fatalf("FilterValue() = %q, want a.c", got)
	}
}
