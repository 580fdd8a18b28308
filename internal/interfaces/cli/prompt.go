package cli

import (
	"errors"
	"io"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Reply respuesta del operador a un prompt. ToMenu indica que escribió "m" o "menu":
// el handler debe abandonar lo que estaba capturando y volver al menú.
type Reply struct {
	Value  string
	ToMenu bool
}

// ParseReply interpreta una línea completa: recorta espacios y reconoce "m"/"menu" sin distinguir mayúsculas.
func ParseReply(line string) Reply {
	value := strings.TrimSpace(line)
	switch strings.ToLower(value) {
	case "m", "menu":
		return Reply{ToMenu: true}
	}
	return Reply{Value: value}
}

// inputClosedMsg llega cuando la entrada se agotó.
type inputClosedMsg struct{}

// lineBuffer acumula las teclas de bubbletea hasta Enter. No hay límite de longitud por línea.
type lineBuffer struct {
	runes   []rune
	afterCR bool
}

// feed devuelve la línea y true cuando la tecla la completa. "\r\n" cuenta como un solo Enter.
func (b *lineBuffer) feed(k tea.KeyMsg) (string, bool) {
	afterCR := b.afterCR
	b.afterCR = false

	switch k.Type {
	case tea.KeyEnter:
		b.afterCR = true
		return b.take(), true
	case tea.KeyCtrlJ:
		if afterCR {
			return "", false
		}
		return b.take(), true
	case tea.KeyRunes:
		b.runes = append(b.runes, k.Runes...)
	case tea.KeySpace:
		b.runes = append(b.runes, ' ')
	case tea.KeyTab:
		b.runes = append(b.runes, '\t')
	case tea.KeyBackspace:
		if n := len(b.runes); n > 0 {
			b.runes = b.runes[:n-1]
		}
	}
	return "", false
}

// flush entrega lo que quedó sin Enter al cerrarse la entrada.
func (b *lineBuffer) flush() (string, bool) {
	if len(b.runes) == 0 {
		return "", false
	}
	return b.take(), true
}

func (b *lineBuffer) take() string {
	s := string(b.runes)
	b.runes = b.runes[:0]
	return s
}

// eofReader avisa una sola vez cuando r se agota. bubbletea deja de leer en silencio ante io.EOF,
// así que el aviso es lo que termina el programa.
// Los bytes leídos junto con el EOF se entregan antes del aviso.
type eofReader struct {
	r     io.Reader
	once  sync.Once
	onEOF func()
}

func (e *eofReader) Read(p []byte) (int, error) {
	n, err := e.r.Read(p)
	if errors.Is(err, io.EOF) {
		if n > 0 {
			return n, nil
		}
		e.once.Do(e.onEOF)
	}
	return n, err
}
