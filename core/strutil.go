package core

// decimalBufLen holds the 10 digits of the largest uint32 plus one spare
// slot where a C string would keep its terminator.
const decimalBufLen = 11

// formatUnsigned writes the decimal digits of n into buf from the end
// backwards and returns the written digits, most significant first.
// No allocation; the cursor stops at index 0.
func formatUnsigned(buf *[decimalBufLen]byte, n uint32) []byte {
	end := len(buf) - 1
	buf[end] = 0
	i := end
	for i > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
		if n == 0 {
			break
		}
	}
	return buf[i:end]
}

// utoa converts an unsigned integer to a string without using fmt
func utoa(n uint32) string {
	var buf [decimalBufLen]byte
	return string(formatUnsigned(&buf, n))
}

// hex32 formats v as 0x-prefixed, zero-padded hex for debug lines
func hex32(v uint32) string {
	const hexDigits = "0123456789ABCDEF"
	var buf [10]byte
	buf[0], buf[1] = '0', 'x'
	for i := 9; i >= 2; i-- {
		buf[i] = hexDigits[v&0xF]
		v >>= 4
	}
	return string(buf[:])
}
