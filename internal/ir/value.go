package ir

import "kodo/internal/errors"

// ValueKind tags the concrete category of a Value for switch dispatch —
// the Go stand-in for the original's `enum class ValueKind` plus the
// HasKind/Castable `as<T>()` machinery (support/HasKind.hh,
// support/Castable.hh): Go callers type-switch on the concrete pointer
// type directly instead of calling a templated `as<T>()`.
type ValueKind int

const (
	KindConstantValue ValueKind = iota
	KindInstructionValue
	KindBasicBlockValue
	KindFunctionValue
	KindGlobalVariableValue
	KindArgumentValue
	KindLocalVarValue
	KindMemoryPhiValue
)

// Value is implemented by everything that can be used as an operand:
// instructions, constants, basic blocks (branch targets), functions
// (callees), global variables, arguments, and local variables. Grounded on
// ir/Value.hh/ir/Value.cc.
type Value interface {
	ValueKind() ValueKind
	Type() Type
	Name() string
	HasName() bool
	SetName(name string)
	Users() []Value
	AddUser(user Value)
	RemoveUser(user Value)

	// ReplaceUsesOfWith rewrites every operand of this value that is
	// exactly orig into repl. Each concrete instruction/value type must
	// override it (Go dispatches through the Value interface to the
	// concrete type's method, exactly as the original's virtual call
	// does) — ValueBase's own implementation is unreachable in practice
	// and exists only to mirror the original's ASSERT_NOT_REACHED default.
	ReplaceUsesOfWith(orig, repl Value)
}

// ValueBase is embedded by every concrete Value implementation. It carries
// the fields every Value has: kind, type, optional name, and user list.
type ValueBase struct {
	kind  ValueKind
	typ   Type
	name  string
	users []Value
}

func (v *ValueBase) init(kind ValueKind, typ Type) {
	v.kind = kind
	v.typ = typ
}

func (v *ValueBase) ValueKind() ValueKind { return v.kind }
func (v *ValueBase) Type() Type           { return v.typ }
func (v *ValueBase) SetType(typ Type)     { v.typ = typ }
func (v *ValueBase) Name() string         { return v.name }
func (v *ValueBase) HasName() bool        { return v.name != "" }
func (v *ValueBase) SetName(name string)  { v.name = name }
func (v *ValueBase) Users() []Value       { return v.users }

func (v *ValueBase) AddUser(user Value) {
	v.users = append(v.users, user)
}

func (v *ValueBase) RemoveUser(user Value) {
	for i, u := range v.users {
		if u == user {
			v.users = append(v.users[:i], v.users[i+1:]...)
			return
		}
	}
}

// ReplaceUsesOfWith is the unreachable default; every concrete Value type
// defines its own.
func (v *ValueBase) ReplaceUsesOfWith(Value, Value) {
	errors.Bug("ReplaceUsesOfWith not implemented for this value kind")
}

// ReplaceAllUsesWith retargets every current user of v onto repl, then
// asserts v has no users left — the sole SSA-rewrite mutation channel
// (spec §4.C). A free function rather than a Value method because it must
// operate generically on any Value without each concrete type re-deriving
// the snapshot-and-assert logic, matching the original's non-virtual
// Value::replace_all_uses_with.
func ReplaceAllUsesWith(v Value, repl Value) {
	if repl == v {
		return
	}
	snapshot := append([]Value(nil), v.Users()...)
	for _, user := range snapshot {
		user.ReplaceUsesOfWith(v, repl)
	}
	if len(v.Users()) != 0 {
		errors.Bug("ReplaceAllUsesWith: not all users retargeted themselves off %v", v)
	}
}

// setOperand assigns *slot = newVal, maintaining newVal's and the previous
// value's user lists. user is the Value whose operand slot this is.
func setOperand(user Value, slot *Value, newVal Value) {
	if *slot != nil {
		(*slot).RemoveUser(user)
	}
	*slot = newVal
	if newVal != nil {
		newVal.AddUser(user)
	}
}

// replaceIfMatch swaps *slot to repl iff it currently points at orig,
// maintaining user lists. Returns whether a swap happened.
func replaceIfMatch(user Value, slot *Value, orig, repl Value) bool {
	if *slot != orig {
		return false
	}
	setOperand(user, slot, repl)
	return true
}
