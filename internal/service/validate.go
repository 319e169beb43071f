package service

import (
	"regexp"
	"strings"
)

// Móvil español: 9 dígitos empezando por 6-9, con o sin prefijo 34.
var (
	phoneRe = regexp.MustCompile(`^[6-9]\d{8}$`)
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	digits  = regexp.MustCompile(`\D`)
)

// NormalizePhone limpia separadores y prefijo internacional y devuelve
// el móvil en formato de 9 dígitos, o "" si no es válido.
func NormalizePhone(phone string) string {
	p := digits.ReplaceAllString(phone, "")
	if len(p) == 13 {
		p = strings.TrimPrefix(p, "0034")
	}
	if len(p) == 11 {
		p = strings.TrimPrefix(p, "34")
	}
	if !phoneRe.MatchString(p) {
		return ""
	}
	return p
}

func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// ValidPassword exige al menos 6 caracteres y un dígito.
func ValidPassword(pw string) bool {
	if len(pw) < 6 {
		return false
	}
	return strings.ContainsAny(pw, "0123456789")
}
