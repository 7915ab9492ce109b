// Package fonts provides glyph metrics for the built-in badge fonts.
//
// Built-in badges reference a font family by name instead of embedding
// font data; these tables carry the advance widths needed to size the
// badge without a font file on disk. Custom fonts loaded from a file
// bypass this package entirely and are measured from their glyf data.
package fonts

import "sort"

// Table holds advance widths for one font, in font units.
type Table struct {
	Family     string       // CSS font-family name
	UnitsPerEm int          // advance units per em
	Advances   map[rune]int // printable ASCII advances
	Fallback   int          // advance for runes outside the table
}

// Builtin maps config names to metrics tables.
var Builtin = map[string]*Table{
	"dejavu-sans": dejavuSans,
}

// DefaultFont is the config name of the default built-in font.
const DefaultFont = "dejavu-sans"

// Names returns the sorted list of available built-in font names.
func Names() []string {
	names := make([]string, 0, len(Builtin))
	for k := range Builtin {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// dejavuSans covers printable ASCII from the DejaVu Sans hmtx table.
var dejavuSans = &Table{
	Family:     "DejaVu Sans",
	UnitsPerEm: 2048,
	Fallback:   1303, // digit width; DejaVu digits are uniform
	Advances: map[rune]int{
		' ': 651, '!': 821, '"': 938, '#': 1716, '$': 1303, '%': 1946,
		'&': 1597, '\'': 563, '(': 799, ')': 799, '*': 1024, '+': 1716,
		',': 651, '-': 739, '.': 651, '/': 690,
		'0': 1303, '1': 1303, '2': 1303, '3': 1303, '4': 1303,
		'5': 1303, '6': 1303, '7': 1303, '8': 1303, '9': 1303,
		':': 690, ';': 690, '<': 1716, '=': 1716, '>': 1716, '?': 1089,
		'@': 2048,
		'A': 1401, 'B': 1405, 'C': 1430, 'D': 1577, 'E': 1294,
		'F': 1178, 'G': 1587, 'H': 1540, 'I': 603, 'J': 603,
		'K': 1343, 'L': 1141, 'M': 1767, 'N': 1532, 'O': 1612,
		'P': 1235, 'Q': 1612, 'R': 1423, 'S': 1300, 'T': 1251,
		'U': 1499, 'V': 1401, 'W': 2025, 'X': 1403, 'Y': 1251,
		'Z': 1403,
		'[': 799, '\\': 690, ']': 799, '^': 1716, '_': 1024, '`': 1024,
		'a': 1255, 'b': 1300, 'c': 1126, 'd': 1300, 'e': 1260,
		'f': 721, 'g': 1300, 'h': 1298, 'i': 569, 'j': 569,
		'k': 1186, 'l': 569, 'm': 1995, 'n': 1298, 'o': 1253,
		'p': 1300, 'q': 1300, 'r': 841, 's': 1067, 't': 803,
		'u': 1298, 'v': 1212, 'w': 1675, 'x': 1212, 'y': 1212,
		'z': 1075,
		'{': 1303, '|': 690, '}': 1303, '~': 1716,
	},
}
