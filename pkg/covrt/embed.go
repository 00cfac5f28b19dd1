package covrt

import _ "embed"

// GoRuntimeFile is the file name of the vendored Go runtime.
const GoRuntimeFile = "covrt.go"

var (
	//go:embed covrt.go
	goRuntime []byte

	//go:embed csrc/sigcovrt.h
	cHeader []byte

	//go:embed csrc/sigcovrt.c
	cSource []byte
)

// GoRuntime returns the source of this package, ready to be copied into
// a module under test.
func GoRuntime() []byte {
	return append([]byte(nil), goRuntime...)
}

// CRuntime returns the C runtime files keyed by file name.
func CRuntime() map[string][]byte {
	return map[string][]byte{
		"sigcovrt.h": append([]byte(nil), cHeader...),
		"sigcovrt.c": append([]byte(nil), cSource...),
	}
}
