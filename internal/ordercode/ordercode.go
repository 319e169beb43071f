// Package ordercode genera y parsea códigos de pedido legibles con
// formato PED-YYYYMMDD-NNNN, con secuencia diaria de 4 dígitos.
package ordercode

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	prefix  = "PED"
	dateFmt = "20060102"
	// MaxSequence es el último número de secuencia representable en un
	// día. No se gestiona el desbordamiento: 9999 pedidos/día queda muy
	// por encima del volumen de la tienda.
	MaxSequence = 9999
)

// Format construye el código para una fecha y un número de secuencia.
func Format(date time.Time, seq int) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, date.Format(dateFmt), seq)
}

// DayPrefix devuelve el prefijo común de todos los códigos de un día,
// incluida la barra final: "PED-20250901-".
func DayPrefix(date time.Time) string {
	return fmt.Sprintf("%s-%s-", prefix, date.Format(dateFmt))
}

// Parse descompone un código en fecha y secuencia.
func Parse(code string) (time.Time, int, error) {
	parts := strings.Split(code, "-")
	if len(parts) != 3 || parts[0] != prefix {
		return time.Time{}, 0, fmt.Errorf("código de pedido inválido: %q", code)
	}
	date, err := time.Parse(dateFmt, parts[1])
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("código de pedido inválido: %q", code)
	}
	seq, err := strconv.Atoi(parts[2])
	if err != nil || seq < 1 {
		return time.Time{}, 0, fmt.Errorf("código de pedido inválido: %q", code)
	}
	return date, seq, nil
}

// Next devuelve el código siguiente a lastCode para la fecha dada. Si
// lastCode está vacío o pertenece a otro día, la secuencia arranca en 1.
func Next(lastCode string, date time.Time) (string, error) {
	if lastCode == "" || !strings.HasPrefix(lastCode, DayPrefix(date)) {
		return Format(date, 1), nil
	}
	_, seq, err := Parse(lastCode)
	if err != nil {
		return "", err
	}
	if seq >= MaxSequence {
		return "", fmt.Errorf("secuencia diaria agotada: %s", lastCode)
	}
	return Format(date, seq+1), nil
}
