package swarm

import "fmt"

// ResultCode is the outcome of an action issued to an agent or to the whole
// swarm. Negative values are failures; the numbering follows the host
// simulation so codes can be passed through unchanged.
type ResultCode int

const (
	ResultOK             ResultCode = 0
	ResultNotOwner       ResultCode = -1
	ResultNoPath         ResultCode = -2
	ResultBusy           ResultCode = -4
	ResultNotFound       ResultCode = -5
	ResultNotAllOK       ResultCode = -7 // some members of a group move failed
	ResultInvalidArgs    ResultCode = -10
	ResultTired          ResultCode = -11 // fatigue blocks movement this tick
	ResultNoBodypart     ResultCode = -12
	ResultNoAction       ResultCode = -20  // planner: goal already satisfied
	ResultNotImplemented ResultCode = -100 // unsupported formation size
)

// OK reports whether r is ResultOK.
func (r ResultCode) OK() bool {
	return r == ResultOK
}

func (r ResultCode) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultNotOwner:
		return "not_owner"
	case ResultNoPath:
		return "no_path"
	case ResultBusy:
		return "busy"
	case ResultNotFound:
		return "not_found"
	case ResultNotAllOK:
		return "not_all_ok"
	case ResultInvalidArgs:
		return "invalid_args"
	case ResultTired:
		return "tired"
	case ResultNoBodypart:
		return "no_bodypart"
	case ResultNoAction:
		return "no_action"
	case ResultNotImplemented:
		return "not_implemented"
	default:
		return fmt.Sprintf("result(%d)", int(r))
	}
}

// firstFailure returns ResultOK when every issued result succeeded, else the
// first failing one in scan order. Slots that issued nothing are skipped.
func firstFailure(results []ResultCode, issued []bool) ResultCode {
	for i, r := range results {
		if issued[i] && r != ResultOK {
			return r
		}
	}
	return ResultOK
}
