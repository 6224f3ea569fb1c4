package ast

import "strings"

// Print renders f back into HCTL surface syntax. It is the supplemental
// feature behind the round-trip testable property (spec.md §8, invariant
// 8): parse(Print(f)) must be α-equivalent to f. Print always uses the long
// hybrid-operator forms and explicit parentheses so the output is
// unambiguous regardless of the precedence table.
func Print(f *Formula) string {
	var b strings.Builder
	print1(&b, f)
	return b.String()
}

func print1(b *strings.Builder, f *Formula) {
	if f == nil {
		return
	}
	switch f.Kind {
	case KConst:
		if f.BoolValue {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case KProp:
		b.WriteString(f.Name)
	case KVar:
		b.WriteString("{")
		b.WriteString(f.Name)
		b.WriteString("}")
	case KWildCard:
		b.WriteString("%")
		b.WriteString(f.Name)
		b.WriteString("%")
	case KNot:
		b.WriteString("~(")
		print1(b, f.Child)
		b.WriteString(")")
	case KEX, KAX, KEF, KAF, KEG, KAG, KExists, KForall:
		printUnaryKeyword(b, f)
	case KAnd, KOr, KImp, KIff, KXor:
		b.WriteString("(")
		print1(b, f.Left)
		b.WriteString(" ")
		b.WriteString(binOp(f.Kind))
		b.WriteString(" ")
		print1(b, f.Right)
		b.WriteString(")")
	case KEU, KAU, KEW, KAW:
		b.WriteString("(")
		print1(b, f.Left)
		b.WriteString(" ")
		b.WriteString(temporalKeyword(f.Kind))
		b.WriteString(" ")
		print1(b, f.Right)
		b.WriteString(")")
	case KBind:
		b.WriteString("(\\bind{")
		b.WriteString(f.Name)
		b.WriteString("}: (")
		print1(b, f.Child)
		b.WriteString("))")
	case KJump:
		b.WriteString("(\\jump{")
		b.WriteString(f.Name)
		b.WriteString("}: (")
		print1(b, f.Child)
		b.WriteString("))")
	}
}

func printUnaryKeyword(b *strings.Builder, f *Formula) {
	switch f.Kind {
	case KExists:
		b.WriteString("(\\exists{")
		b.WriteString(f.Name)
		b.WriteString("}: (")
		print1(b, f.Child)
		b.WriteString("))")
	case KForall:
		b.WriteString("(\\forall{")
		b.WriteString(f.Name)
		b.WriteString("}: (")
		print1(b, f.Child)
		b.WriteString("))")
	default:
		b.WriteString(f.Kind.String())
		b.WriteString("(")
		print1(b, f.Child)
		b.WriteString(")")
	}
}

func binOp(k Kind) string {
	switch k {
	case KAnd:
		return "&"
	case KOr:
		return "|"
	case KImp:
		return "=>"
	case KIff:
		return "<=>"
	case KXor:
		return "^"
	}
	return "?"
}

func temporalKeyword(k Kind) string {
	switch k {
	case KEU:
		return "EU"
	case KAU:
		return "AU"
	case KEW:
		return "EW"
	case KAW:
		return "AW"
	}
	return "?"
}
