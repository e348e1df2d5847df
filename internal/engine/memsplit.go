package engine

import "github.com/wippyai/chop-up/internal/types"

// NeedsSplit decides whether a memory op must chop a microtransaction
// boundary (spec.md section 4.3). With skipSafeSplits disabled every
// memory op splits; with it enabled, a Load is elided when its address
// operand (top of stack) is safe, and a Store is elided only when both its
// address and value operands are safe.
func NeedsSplit(op MemOp, stack AbstractStack, skipSafeSplits bool) (bool, error) {
	if !skipSafeSplits {
		return true, nil
	}

	switch op.Kind {
	case MemLoad:
		addr, err := peek(stack, 0)
		if err != nil {
			return false, err
		}
		return !addr.Safe, nil
	case MemStore:
		value, err := peek(stack, 0)
		if err != nil {
			return false, err
		}
		addr, err := peek(stack, 1)
		if err != nil {
			return false, err
		}
		return !(addr.Safe && value.Safe), nil
	default:
		return true, nil
	}
}

// peek returns the stack value n positions below the top (0 is the top)
// without popping.
func peek(stack AbstractStack, n int) (types.StackValue, error) {
	idx := len(stack) - 1 - n
	if idx < 0 {
		return types.StackValue{}, errUnderflow
	}
	return stack[idx], nil
}
