package hardware

import (
	"bufio"
	"context"
	"errors"
	"io"

	"github.com/jhoicas/pos-api/internal/domain"
)

// ScanLines alimenta el lector con un flujo orientado a líneas (puerto serie o
// stdin). Las líneas inválidas se omiten; termina con el EOF del lector o al
// cancelar ctx.
func (m *Manager) ScanLines(ctx context.Context, r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := m.Scan(sc.Text()); err != nil {
			if errors.Is(err, domain.ErrDeviceUnavailable) {
				return err
			}
			m.opts.Log.Debug().Str("line", sc.Text()).Msg("hardware: lectura descartada")
		}
	}
	return sc.Err()
}
