package resolver

// blockedPairs lists name pairs the fuzzy matcher must never join, in
// normalized form. These are lookalikes that score high but are different
// clubs.
var blockedPairs = [][2]string{
	{"inter milan", "ac milan"},
	{"internazionale", "ac milan"},
	{"inter", "ac milan"},
	{"brest", "nottingham forest"},
	{"manchester united", "manchester city"},
	{"athletic club", "atletico madrid"},
	{"athletic bilbao", "atletico madrid"},
}

// Blocked reports whether the pair (a, b) is blocklisted in either
// direction. Both arguments must already be normalized.
func Blocked(a, b string) bool {
	for _, p := range blockedPairs {
		if (a == p[0] && b == p[1]) || (a == p[1] && b == p[0]) {
			return true
		}
	}
	return false
}
