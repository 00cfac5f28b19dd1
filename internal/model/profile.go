package model

// ProfileSchema is the version written into merged profiles.
const ProfileSchema uint16 = 1

// Profile is a set of dumps merged into one counter table per file id.
type Profile struct {
	Schema uint16                         `msgpack:"schema"`
	Counts map[FileID]map[SignalID]uint64 `msgpack:"counts"`
}
