package server

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ZanzyTHEbar/detective-verifier/internal/verifier"
	"github.com/holiman/uint256"
)

// UintArg is a uint256 argument on the wire. It accepts a JSON string holding
// decimal digits or 0x-prefixed hex, or a bare JSON integer literal.
type UintArg struct {
	raw string
	set bool
}

// UnmarshalJSON keeps the literal text; parsing happens in Value.
func (a *UintArg) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	a.set = true
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &a.raw)
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected integer or string, got %s", data)
	}
	a.raw = n.String()
	return nil
}

// Value parses the argument as an unsigned 256-bit integer.
func (a UintArg) Value() (*uint256.Int, error) {
	if !a.set {
		return nil, fmt.Errorf("is required")
	}
	return verifier.ParseUint(a.raw)
}

// parseArgs resolves every named argument, collecting one message per bad field.
func parseArgs(args map[string]UintArg) (map[string]*uint256.Int, map[string]string) {
	values := make(map[string]*uint256.Int, len(args))
	problems := map[string]string{}
	for name, arg := range args {
		v, err := arg.Value()
		if err != nil {
			problems[name] = fmt.Sprintf("%s %v", name, err)
			continue
		}
		values[name] = v
	}
	if len(problems) == 0 {
		return values, nil
	}
	return nil, problems
}
