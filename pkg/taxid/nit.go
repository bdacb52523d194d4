// Package taxid valida el NIT colombiano de empresas y proveedores.
package taxid

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInvalidNIT el NIT no tiene el formato esperado o su dígito de verificación no coincide.
var ErrInvalidNIT = errors.New("taxid: NIT inválido")

// pesos módulo 11 para los 9 dígitos base, de izquierda a derecha.
var weights = [9]int{41, 37, 29, 23, 19, 17, 13, 7, 3}

// CheckDigit calcula el dígito de verificación de los 9 dígitos base.
func CheckDigit(base string) (byte, error) {
	digits := onlyDigits(base)
	if len(digits) < 9 {
		return 0, fmt.Errorf("%w: se requieren 9 dígitos, se encontraron %d", ErrInvalidNIT, len(digits))
	}
	var sum int
	for i, d := range digits[:9] {
		sum += int(d-'0') * weights[i]
	}
	r := sum % 11
	if r < 2 {
		return byte('0' + r), nil
	}
	return byte('0' + (11 - r)), nil
}

// Validate acepta "900123456", "900123456-8" o "900.123.456-8". Sin dígito de
// verificación solo se exige la longitud; con él, que coincida.
func Validate(nit string) error {
	digits := onlyDigits(nit)
	switch len(digits) {
	case 9:
		return nil
	case 10:
		want, _ := CheckDigit(string(digits[:9]))
		if digits[9] != want {
			return fmt.Errorf("%w: dígito de verificación esperado %c, recibido %c", ErrInvalidNIT, want, digits[9])
		}
		return nil
	default:
		return fmt.Errorf("%w: se esperaban 9 o 10 dígitos, se encontraron %d", ErrInvalidNIT, len(digits))
	}
}

// Normalize devuelve el NIT como "base-DV", calculando el dígito si falta.
func Normalize(nit string) (string, error) {
	if err := Validate(nit); err != nil {
		return "", err
	}
	digits := onlyDigits(nit)
	dv, _ := CheckDigit(string(digits[:9]))
	return string(digits[:9]) + "-" + string(dv), nil
}

func onlyDigits(s string) []byte {
	var out []byte
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			out = append(out, byte(r))
		}
	}
	return out
}
