package company

import "strings"

var (
	cnpjFirstWeights  = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjSecondWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// DigitsOnly strips every non-digit rune from s.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidCNPJ reports whether raw holds a 14-digit CNPJ whose two check digits
// match. Punctuation is ignored; sequences of a single repeated digit are
// rejected even though they satisfy the checksum.
func ValidCNPJ(raw string) bool {
	digits := DigitsOnly(raw)
	if len(digits) != 14 {
		return false
	}
	if strings.Count(digits, digits[:1]) == len(digits) {
		return false
	}

	d := make([]int, len(digits))
	for i := range digits {
		d[i] = int(digits[i] - '0')
	}

	return d[12] == cnpjCheckDigit(d[:12], cnpjFirstWeights) &&
		d[13] == cnpjCheckDigit(d[:13], cnpjSecondWeights)
}

func cnpjCheckDigit(digits, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += digits[i] * w
	}
	rest := sum % 11
	if rest < 2 {
		return 0
	}
	return 11 - rest
}
