package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jhoicas/store-inventory/internal/application/dto"
	"github.com/jhoicas/store-inventory/internal/domain"
	"github.com/jhoicas/store-inventory/internal/domain/entity"
	"github.com/jhoicas/store-inventory/pkg/logger"
)

// State estado del menú interactivo.
type State string

const (
	StateMenu          State = "menu"
	StateAdd           State = "add"
	StateView          State = "view"
	StateSearch        State = "search"
	StateBackup        State = "backup"
	StateConfirmDelete State = "confirm_delete"
	StateQuit          State = "quit"
)

// ProductService operaciones de producto que usan los handlers (usecase.ProductUseCase).
type ProductService interface {
	Save(ctx context.Context, in dto.SaveProductRequest) (*entity.Product, bool, error)
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	List(ctx context.Context) ([]*entity.Product, error)
	Search(ctx context.Context, text string) ([]*entity.Product, error)
	Delete(ctx context.Context, product *entity.Product) error
}

// BackupService genera el respaldo (inventory.BackupUseCase).
type BackupService interface {
	Backup(ctx context.Context) (*dto.BackupResult, error)
}

// command entrada del registro de comandos del menú.
type command struct {
	label string
	state State
	run   func() tea.Cmd
}

// Menu programa bubbletea en modo línea: cada prompt guarda la continuación que recibe la respuesta.
// Los handlers corren dentro de Update, así que el store nunca se usa desde dos goroutines.
type Menu struct {
	in       io.Reader
	out      io.Writer
	products ProductService
	backup   BackupService
	log      *logger.Logger

	ctx      context.Context
	state    State
	commands map[string]command
	order    []string
	line     lineBuffer
	next     func(Reply) tea.Cmd
}

var _ tea.Model = (*Menu)(nil)

// NewMenu construye el menú y registra los comandos.
func NewMenu(products ProductService, backup BackupService, in io.Reader, out io.Writer, log *logger.Logger) *Menu {
	if log == nil {
		log = logger.Nop()
	}
	m := &Menu{
		in:       in,
		out:      out,
		products: products,
		backup:   backup,
		log:      log,
		ctx:      context.Background(),
		state:    StateMenu,
		commands: make(map[string]command),
	}
	m.register("a", "Add an item to the inventory", StateAdd, m.addItem)
	m.register("v", "View an item by ID", StateView, m.viewByID)
	m.register("s", "Search items by name", StateSearch, m.search)
	m.register("b", "Back up the inventory", StateBackup, m.runBackup)
	return m
}

func (m *Menu) register(key, label string, state State, run func() tea.Cmd) {
	m.commands[key] = command{label: label, state: state, run: run}
	m.order = append(m.order, key)
}

// State estado actual del menú.
func (m *Menu) State() State { return m.state }

// Run ejecuta el programa hasta "q", fin de la entrada o cancelación de ctx.
// Los errores de los handlers se muestran al operador y no terminan el programa.
func (m *Menu) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		m.state = StateQuit
		return err
	}
	m.ctx = ctx
	m.state = StateMenu
	m.line = lineBuffer{}
	m.next = nil

	in := &eofReader{r: m.in}
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(m.out),
		tea.WithoutRenderer(),
		tea.WithoutSignalHandler(),
	)
	in.onEOF = func() { go p.Send(inputClosedMsg{}) }

	_, err := p.Run()
	m.state = StateQuit
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		return fmt.Errorf("menú interactivo: %w", err)
	}
	return nil
}

// Init muestra el menú.
func (m *Menu) Init() tea.Cmd {
	return m.toMenu()
}

// Update arma la línea con las teclas recibidas y, al completarla, se la pasa al prompt pendiente.
func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == StateQuit {
		return m, nil
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD:
			return m, m.inputClosed()
		}
		if line, done := m.line.feed(msg); done {
			return m, m.submit(ParseReply(line))
		}
	case inputClosedMsg:
		if line, ok := m.line.flush(); ok {
			if cmd := m.submit(ParseReply(line)); m.state == StateQuit {
				return m, cmd
			}
		}
		return m, m.inputClosed()
	}
	return m, nil
}

// View no dibuja nada: la salida se escribe línea a línea desde Update.
func (m *Menu) View() string { return "" }

func (m *Menu) submit(r Reply) tea.Cmd {
	next := m.next
	m.next = nil
	if next == nil {
		return nil
	}
	return next(r)
}

func (m *Menu) inputClosed() tea.Cmd {
	fmt.Fprintln(m.out)
	return m.quit()
}

func (m *Menu) quit() tea.Cmd {
	m.state = StateQuit
	m.next = nil
	return tea.Quit
}

// ask escribe label y deja next a la espera de la próxima línea.
func (m *Menu) ask(label string, next func(Reply) tea.Cmd) tea.Cmd {
	fmt.Fprint(m.out, label)
	m.next = next
	return nil
}

// say escribe una línea al operador.
func (m *Menu) say(format string, args ...any) {
	fmt.Fprintf(m.out, format+"\n", args...)
}

func (m *Menu) toMenu() tea.Cmd {
	m.state = StateMenu
	m.showMenu()
	return m.ask("What would you like to do?  ", m.dispatch)
}

func (m *Menu) dispatch(reply Reply) tea.Cmd {
	key := strings.ToLower(reply.Value)
	if key == "q" {
		m.say("Goodbye.")
		return m.quit()
	}
	cmd, ok := m.commands[key]
	if !ok || reply.ToMenu {
		m.say("%s", userMessage(domain.ErrInvalidCommand))
		return m.toMenu()
	}
	m.state = cmd.state
	return cmd.run()
}

// fail informa el error al operador y vuelve al menú.
func (m *Menu) fail(err error) tea.Cmd {
	m.log.Error().Err(err).Str("state", string(m.state)).Msg("error en handler")
	m.say("%s", userMessage(err))
	return m.toMenu()
}

func (m *Menu) showMenu() {
	m.say("")
	m.say("Store Inventory")
	for _, key := range m.order {
		m.say("%s) %s", key, m.commands[key].label)
	}
	m.say("enter 'q' to quit.")
}

// userMessage traduce un error al texto que ve el operador.
func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCommand):
		return "That is not a valid entry"
	case errors.Is(err, domain.ErrNotFound):
		return "No item found with that ID"
	case errors.Is(err, domain.ErrDuplicate):
		return "An item with that name already exists"
	case errors.Is(err, domain.ErrInvalidInput):
		return "That entry is not valid"
	default:
		return "Something went wrong, the item was not changed"
	}
}
