package engine

import "github.com/wippyai/chop-up/internal/types"

// Persisted state layout (spec.md section 6). utx hosts the reserved
// address slot, the "needs memory access" flag, and the serialized live
// stack and locals; state hosts the single value being moved by the
// culprit itself. The reserved local names are fixed by the spec; the slot
// numbering within utx is this implementation's own convention, since the
// spec leaves the exact byte layout to the implementer.
const (
	addressLocal  = "address"
	utxLocal      = "utx"
	stateLocal    = "state"
	utxAddressOff = 0  // saved effective address (address + static offset)
	utxFlagOff    = 63 // "needs a memory access" byte
	utxDataBase   = 4  // first slot for the serialized live stack + locals
)

// jugglerLocal returns the reserved scratch local for a DataType, used both
// to save a store's value in the culprit prologue and as the pop/push
// scratch when serializing an arbitrary live stack value in the common
// suspension tail.
func jugglerLocal(ty types.DataType) string {
	return ty.String() + "_juggler"
}
