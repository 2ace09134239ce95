package service

import "strconv"

// FormatNaira renders an amount like ₦12,500 for notification text.
func FormatNaira(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	s := strconv.FormatInt(amount, 10)
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}

	prefix := "₦"
	if neg {
		prefix += "-"
	}
	return prefix + string(out)
}
