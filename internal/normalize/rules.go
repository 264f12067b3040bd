package normalize

// RulePattern is one ordered (pattern, replacement) pair. Order matters:
// longer/more specific phrases come first so they win over the short generic
// tokens they contain.
type RulePattern struct {
	Pattern     string
	Replacement string
}

// KolokwaPatterns maps common Liberian English / Kolokwa expressions to
// standard English. Every pattern carries its own word-boundary anchors so
// short tokens never match inside other words.
var KolokwaPatterns = []RulePattern{
	{`\bI na know\b`, "I do not know"},
	{`\bI now know\b`, "I don't know"},
	{`\bI na there\b`, "I am not there"},
	{`\bAnna\b`, "I don't"},
	{`\bla me\b`, "It is I"},
	{`\bmy pa\b`, "my father"},
	{`\bsmall-small\b`, "gradually"},
	{`\bda one\b`, "that one"},
	{`\bla one\b`, "that one"},
	{`\bhow you doing\b`, "how are you"},
	{`\bI alright\b`, "I am okay"},
	{`\bwe try\b`, "we tried"},
	{`\bplenty\b`, "many"},
	{`\bhard\b`, "difficult"},
	{`\bshe-self\b`, "herself"},
	{`\bhim-self\b`, "himself"},
	{`\bman-self\b`, "himself"},
	{`\bgirl-self\b`, "herself"},
	{`\bwetin\b`, "what"},
	{`\bwen\b`, "when"},
	{`\bwat\b`, "what"},
	{`\bwi\b`, "we"},
	{`\bdey\b`, "is"},
	{`\bking\b`, "came"},
	{`\bHappo\b`, "Harper"},
	{`\bPinget\b`, "bring it"},
	{`\bNassau\b`, "that side"},
	{`\bfishers\b`, "freezers"},
	// Short tokens last to reduce over-matching.
	{`\bda\b`, "that"},
	{`\bla\b`, "that"},
	{`\bdis\b`, "this"},
	{`\blay\b`, "this"},
	{`\bdat\b`, "that"},
	{`\bmeh\b`, "me"},
	{`\bko\b`, "call"},
	{`\bpo\b`, "people"},
	{`\bna\b`, "not"},
}
