package keywords

import "fmt"

var defaultEntries = []Entry{
	{"सत्", "true", ClassLiteral},
	{"असत्", "false", ClassLiteral},
	{"नास्ति", "nil", ClassLiteral},

	{"च", "&&", ClassLogical},
	{"वा", "||", ClassLogical},
	{"न", "!", ClassLogical},

	{"यदि", "if", ClassConditional},
	{"अथ", "else", ClassConditional},
	{"अथयदि", "else if", ClassConditional},
	{"विकल्प", "switch", ClassConditional},
	{"प्रसङ्ग", "case", ClassConditional},
	{"अन्यथा", "default", ClassConditional},

	{"परिहरन", "for", ClassLoop},
	{"पङ्क्तिः", "range", ClassLoop},
	{"अग्रिम", "break", ClassLoop},
	{"विराम", "continue", ClassLoop},
	{"गच्छतु", "fallthrough", ClassLoop}, // "let it go"

	{"नियोग", "func", ClassFunction},
	{"निर्वतनम्", "return", ClassFunction},

	{"विगर्हते", "panic", ClassFailure},
	{"विहाय", "recover", ClassFailure},
	{"अन्ततः", "defer", ClassFailure},

	{"सङ्ग्रह", "package", ClassPackage},
	{"आयात", "import", ClassPackage},

	{"चर", "var", ClassDeclarator},
	{"स्थिर", "const", ClassDeclarator},
	{"विधि", "type", ClassDeclarator},

	{"संरचना", "struct", ClassComposite},
	{"अन्तरफलक", "interface", ClassComposite},
	{"मानचित्र", "map", ClassComposite},
	{"नाली", "chan", ClassComposite},

	{"यत्नतः", "go", ClassConcurrency},
	{"प्रतीक्षेत्", "<-", ClassConcurrency},
	{"चयन", "select", ClassConcurrency},

	{"अस्ति", "==", ClassComparison},

	{"मुद्रण", "println", ClassBuiltin},
	{"योजय", "append", ClassBuiltin},
	{"दैर्घ्य", "len", ClassBuiltin},
	{"निर्माण", "make", ClassBuiltin},
	{"नूतन", "new", ClassBuiltin},
	{"अपनयति", "delete", ClassBuiltin},
	{"यूनिकोडअङ्क", "rune", ClassBuiltin},
}

// Default is the process-wide table.
var Default = mustBuild(defaultEntries)

func mustBuild(entries []Entry) *Table {
	t, err := New(entries)
	if err != nil {
		panic(fmt.Errorf("invalid builtin keyword table: %w", err))
	}
	return t
}

// Lookup consults the Default table.
func Lookup(source string) (string, bool) {
	return Default.Lookup(source)
}

// Reverse consults the Default table.
func Reverse(host string) (string, bool) {
	return Default.Reverse(host)
}
