package midend

import (
	"fmt"
	"strings"
)

// GenMode records which of the two interchangeable game-identifier forms
// is in effect: regenerate from a seed, or reconstruct from a literal
// description.
type GenMode int

const (
	GenModeSeed GenMode = iota
	GenModeDesc
)

// GameID is a parsed game identifier in one of the three forms §6
// describes: "<params>#<seed>", "<params>:<desc>", or a bare string
// interpreted per a caller-supplied default mode.
type GameID struct {
	ParamsStr string
	Seed      string
	Desc      string
	Mode      GenMode
}

// ParseGameID splits s into its params prefix and seed/desc suffix. A bare
// string with neither delimiter is interpreted wholesale as a seed or
// description per defaultMode, with an empty (default-params) prefix.
func ParseGameID(s string, defaultMode GenMode) (GameID, error) {
	hashIdx := strings.IndexByte(s, '#')
	colonIdx := strings.IndexByte(s, ':')

	switch {
	case hashIdx >= 0 && (colonIdx < 0 || hashIdx < colonIdx):
		return GameID{
			ParamsStr: s[:hashIdx],
			Seed:      s[hashIdx+1:],
			Mode:      GenModeSeed,
		}, nil
	case colonIdx >= 0:
		return GameID{
			ParamsStr: s[:colonIdx],
			Desc:      s[colonIdx+1:],
			Mode:      GenModeDesc,
		}, nil
	default:
		id := GameID{Mode: defaultMode}
		switch defaultMode {
		case GenModeSeed:
			id.Seed = s
		case GenModeDesc:
			id.Desc = s
		default:
			return GameID{}, fmt.Errorf("gameid: unrecognized default mode %d", defaultMode)
		}
		return id, nil
	}
}

// String renders id back into its canonical textual form.
func (id GameID) String() string {
	switch id.Mode {
	case GenModeSeed:
		return id.ParamsStr + "#" + id.Seed
	case GenModeDesc:
		return id.ParamsStr + ":" + id.Desc
	default:
		return id.ParamsStr
	}
}
