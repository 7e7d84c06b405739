package pattern

// exceptions lists historical notations that the regular grammar does not
// accept but that do appear as branch conditions. Add new irregular forms
// here instead of loosening regularNotation.
var exceptions = []string{
	// deletions
	"T65d", "G71d", "A249d", "C299d", "C309d", "A337d",
	"T455d", "C456d", "C459d", "C498d", "C960d",
	"A1409d", "A1656d", "A2074d", "A2395d", "A4317d",
	"A5752d", "A5894d", "C5899d", "C7471d", "T15944d",
	"A16166d", "C16187d", "C16193d", "C16257d", "T16325d",

	// range deletions
	"59-60d", "105-110d", "106-111d", "290-291d", "291-294d", "8281-8289d",

	// insertions of unknown length
	"573.XC", "960.XC", "965.XC", "5899.XC", "8278.XC", "5899.XCd!",

	// single insertions
	"44.1C", "5899.1C", "459.1C", "15944.1T",
	"374.1A", "455.1T", "2232.1A", "16259.1A",
	"595.1C", "1719.1G", "3172.1C", "191.1A",
	"2156.1A", "55.1T", "65.1T", "60.1T", "42.1G",
	"12310.1A", "291.1A", "5752.1A", "310.1T",
	"597.1T", "3229.1A", "2405.1C", "8276.1C",
	"2484.1C", "745.1T", "498.1C", "16169.1C",
	"8279.1T", "5740.1A", "960.1C",
	"3307.1A", "93.1T", "456.1T", "356.1C",
	"3158.1T",

	// insertions followed by deletion and reversion
	"C5899.1d!", "459.1Cd!",

	// multi-base insertions
	"60.1TT", "292.1AT", "368.1AGAA",
	"8289.1CCCCCTCTA", "8289.1CCCCCTCTACCCCCTCTA",

	// second inserted base
	"455.2T", "2232.2A",

	// unstable
	"(573.XC)", "(745.1T)", "(960.1C)",
	"(C965d)", "(C16193d)",

	"reserved",
}

// Exceptions returns a copy of the exception allow-list.
func Exceptions() []string {
	out := make([]string, len(exceptions))
	copy(out, exceptions)
	return out
}
