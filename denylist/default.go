package denylist

// defaultTerms is the built-in list. Order is significant: scan results are
// reported in this order.
var defaultTerms = []string{
	// Turkish
	"siktir",
	"sikerim",
	"sikeyim",
	"amk",
	"amına",
	"ananı",
	"orospu",
	"piç",
	"yavşak",
	"pezevenk",
	"kahpe",
	"kaltak",
	"şerefsiz",
	"haysiyetsiz",
	"puşt",
	"gerizekalı",
	"dangalak",
	"salak",
	"aptal",
	"ahmak",
	"hıyar",
	"it oğlu it",
	"siktir git",
	"allah belanı versin",
	"ananı sikeyim",
	"s*ktir",
	"or*spu",
	"a.q",
	// English
	"fuck",
	"shit",
	"bitch",
	"bastard",
	"asshole",
	"motherfucker",
	"f*ck",
	"sh*t",
}
