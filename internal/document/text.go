package document

import "github.com/rivo/uniseg"

// TextLen counts the characters (grapheme clusters) of s.
func TextLen(s string) int {
	if s == "" {
		return 0
	}
	return uniseg.GraphemeClusterCount(s)
}

// SplitText splits s before its n-th character. n is clamped to [0, TextLen(s)].
func SplitText(s string, n int) (string, string) {
	if n <= 0 {
		return "", s
	}
	state := -1
	rest := s
	consumed := 0
	for count := 0; count < n && rest != ""; count++ {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		consumed += len(cluster)
	}
	return s[:consumed], s[consumed:]
}

// SliceText returns the characters of s in [from, to).
func SliceText(s string, from, to int) string {
	if to <= from {
		return ""
	}
	_, tail := SplitText(s, from)
	head, _ := SplitText(tail, to-from)
	return head
}
