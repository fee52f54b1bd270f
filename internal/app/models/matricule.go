package models

import "strconv"

// MatriculeBase is the value preceding the first matricule ever issued
const MatriculeBase int64 = 240000

// FormatMatricule renders a matricule value in its stored string form
func FormatMatricule(n int64) string {
	return strconv.FormatInt(n, 10)
}
