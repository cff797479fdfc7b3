package morph

// Default EVA affix inventories. These mirror the hardcoded lists the
// transcription analyses were originally run with: prefixes are checked
// longest-first, so "qok" wins over "qo" and "qo" over "o".
var defaultPrefixes = []string{
	"qok",
	"qot",
	"qo",
	"ok",
	"ot",
	"ol",
	"or",
	"ch",
	"sh",
	"da",
	"do",
	"o",
	"y",
	"s",
	"d",
}

var defaultSuffixes = []string{
	"aiin",
	"eedy",
	"aiir",
	"edy",
	"ain",
	"iin",
	"air",
	"dy",
	"ey",
	"in",
	"al",
	"ar",
	"am",
	"ol",
	"or",
	"y",
	"m",
	"n",
	"r",
	"l",
	"s",
}
