package sheets

import "strconv"

// ColumnLetter converts a 1-based column index to its A1 letter form
// (1 → A, 26 → Z, 27 → AA).
func ColumnLetter(col int) string {
	letters := make([]byte, 0, 2)
	for col > 0 {
		col--
		letters = append([]byte{byte('A' + col%26)}, letters...)
		col /= 26
	}
	return string(letters)
}

// A1 builds an A1 cell reference from 1-based column and row indices.
func A1(col, row int) string {
	return ColumnLetter(col) + strconv.Itoa(row)
}
