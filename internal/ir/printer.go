package ir

import (
	"fmt"
	"strings"
)

// Printer renders a Function as kodo's textual IR form. The output is
// character-for-character normative (SPEC_FULL item 3), ported from
// ir/Dumper.cc's FunctionDumper: instruction mnemonics, the `%vN`/`%sN`
// anonymous-value numbering scheme, and the `LN` block-label scheme are
// all fixed points other tooling (and these tests) depend on.
type Printer struct {
	blockNumbers map[*BasicBlock]int
	stackNumbers map[Value]int
	valueNumbers map[Value]int
}

// NewPrinter returns a fresh printer with empty numbering tables. Printer
// state is per-function, matching the original's FunctionDumper instance
// lifetime.
func NewPrinter() *Printer {
	return &Printer{
		blockNumbers: make(map[*BasicBlock]int),
		stackNumbers: make(map[Value]int),
		valueNumbers: make(map[Value]int),
	}
}

func (p *Printer) printableBlock(b *BasicBlock) string {
	n, ok := p.blockNumbers[b]
	if !ok {
		n = len(p.blockNumbers)
		p.blockNumbers[b] = n
	}
	return fmt.Sprintf("L%d", n)
}

// printableValue renders an operand. A constant is prefixed with its type
// ("i32 5") unless noType is set; every other value prints as its bare
// reference (%name, %sN or %vN).
func (p *Printer) printableValue(v Value, noType bool) string {
	if v == nil {
		return "undef"
	}
	if fn, ok := v.(*Function); ok {
		return "@" + fn.Name()
	}

	var sb strings.Builder
	if c, ok := v.(Constant); ok {
		if !noType {
			sb.WriteString(c.Type().String())
			sb.WriteString(" ")
		}
		sb.WriteString(PrintableConstant(c))
		return sb.String()
	}

	sb.WriteString("%")
	_, isLocal := v.(*LocalVar)
	if v.HasName() && !isLocal {
		sb.WriteString(v.Name())
		return sb.String()
	}

	if isLocal {
		n, ok := p.stackNumbers[v]
		if !ok {
			n = len(p.stackNumbers)
			p.stackNumbers[v] = n
		}
		sb.WriteString(fmt.Sprintf("s%d", n))
		return sb.String()
	}

	n, ok := p.valueNumbers[v]
	if !ok {
		n = len(p.valueNumbers)
		p.valueNumbers[v] = n
	}
	sb.WriteString(fmt.Sprintf("v%d", n))
	return sb.String()
}

// Dump renders function to kodo's textual IR form.
func Dump(function *Function) string {
	p := NewPrinter()
	var sb strings.Builder

	fmt.Fprintf(&sb, "fn %s(", p.printableValue(function, false))
	for i, arg := range function.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		mut := "let"
		if arg.IsMutable {
			mut = "var"
		}
		fmt.Fprintf(&sb, "%s %s: %s", mut, p.printableValue(arg, true), arg.Type().String())
	}
	sb.WriteString(")")

	if function.ReturnType.Kind() != KindVoid {
		fmt.Fprintf(&sb, ": %s", function.ReturnType.String())
	}

	if function.Externed {
		sb.WriteString(";\n")
		return sb.String()
	}

	sb.WriteString(" {\n")
	for _, v := range function.Vars {
		mut := "let"
		if v.IsMutable {
			mut = "var"
		}
		fmt.Fprintf(&sb, "  %s %s: %s\n", mut, p.printableValue(v, true), v.VarType.String())
	}

	for _, block := range function.Blocks {
		fmt.Fprintf(&sb, "  %s {\n", p.printableBlock(block))
		for _, inst := range block.Instructions() {
			sb.WriteString("    ")
			if inst.Type() != nil && inst.Type().Kind() != KindInvalid && inst.Type().Kind() != KindVoid {
				fmt.Fprintf(&sb, "%s = ", p.printableValue(inst, true))
			}
			sb.WriteString(p.printInstruction(inst))
			sb.WriteString("\n")
		}
		sb.WriteString("  }\n")
	}
	sb.WriteString("}\n")
	return sb.String()
}

func (p *Printer) printInstruction(inst Instruction) string {
	switch v := inst.(type) {
	case *BinaryInst:
		op := map[BinaryOp]string{BinaryAdd: "add", BinarySub: "sub", BinaryMul: "mul", BinaryDiv: "div"}[v.Op]
		return fmt.Sprintf("%s %s, %s", op, p.printableValue(v.Lhs(), false), p.printableValue(v.Rhs(), false))
	case *CompareInst:
		op := map[CompareOp]string{CompareLessThan: "cmp_lt", CompareGreaterThan: "cmp_gt"}[v.Op]
		return fmt.Sprintf("%s %s, %s", op, p.printableValue(v.Lhs(), false), p.printableValue(v.Rhs(), false))
	case *CastInst:
		op := map[CastOp]string{
			CastIntToPtr:    "int_to_ptr",
			CastPtrToInt:    "ptr_to_int",
			CastSignExtend:  "sext",
			CastTruncate:    "trunc",
			CastZeroExtend:  "zext",
			CastReinterpret: "reinterpret",
		}[v.Op]
		return fmt.Sprintf("cast %s -> %s (%s)", p.printableValue(v.Val(), false), v.Type().String(), op)
	case *CallInst:
		var sb strings.Builder
		fmt.Fprintf(&sb, "call %s %s(", v.Type().String(), p.printableValue(v.Callee(), false))
		for i, a := range v.Args() {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.printableValue(a, false))
		}
		sb.WriteString(")")
		return sb.String()
	case *LeaInst:
		var sb strings.Builder
		fmt.Fprintf(&sb, "lea %s, %s", v.Type().String(), p.printableValue(v.Ptr(), false))
		for _, idx := range v.Indices() {
			fmt.Fprintf(&sb, ", %s", p.printableValue(idx, false))
		}
		return sb.String()
	case *LoadInst:
		return fmt.Sprintf("load %s", p.printableValue(v.Ptr(), false))
	case *StoreInst:
		return fmt.Sprintf("store %s, %s", p.printableValue(v.Ptr(), false), p.printableValue(v.Val(), false))
	case *CopyInst:
		return fmt.Sprintf("copy %s -> %s * %s", p.printableValue(v.Src(), false), p.printableValue(v.Dst(), false), p.printableValue(v.Len(), false))
	case *BranchInst:
		return fmt.Sprintf("br %s", p.printableBlock(v.Dst()))
	case *CondBranchInst:
		return fmt.Sprintf("br %s, %s, %s", p.printableValue(v.Cond(), false), p.printableBlock(v.TrueDst()), p.printableBlock(v.FalseDst()))
	case *PhiInst:
		var sb strings.Builder
		sb.WriteString("phi (")
		for i, in := range v.Incoming() {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s: %s", p.printableBlock(in.Block), p.printableValue(in.Value, false))
		}
		sb.WriteString(")")
		return sb.String()
	case *InlineAsmInst:
		var sb strings.Builder
		fmt.Fprintf(&sb, "asm %s \"%s\"", v.Type().String(), v.Template)
		for _, c := range v.Clobbers {
			fmt.Fprintf(&sb, ", clobber(%s)", c)
		}
		for _, in := range v.Inputs() {
			fmt.Fprintf(&sb, ", input(%s, %s)", in.Register, p.printableValue(in.Value, false))
		}
		for _, out := range v.Outputs() {
			fmt.Fprintf(&sb, ", output(%s, %s)", out.Register, p.printableValue(out.Target, false))
		}
		return sb.String()
	case *RetInst:
		if v.Val() == nil {
			return "ret void"
		}
		return fmt.Sprintf("ret %s", p.printableValue(v.Val(), false))
	default:
		return "<unknown instruction>"
	}
}
