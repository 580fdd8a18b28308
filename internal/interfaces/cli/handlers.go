package cli

import (
	"errors"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jhoicas/store-inventory/internal/application/dto"
	"github.com/jhoicas/store-inventory/internal/domain"
	"github.com/jhoicas/store-inventory/internal/domain/entity"
	invdomain "github.com/jhoicas/store-inventory/internal/domain/inventory"
)

const browsePrompt = "Press enter to view next entry, [D]elete this entry, or [M]enu  "

// addItem captura nombre, precio y cantidad. Un valor mal formado re-pregunta solo ese campo.
func (m *Menu) addItem() tea.Cmd {
	m.say("Enter 'm' or 'menu' at any time to return to the menu.")
	return m.askName()
}

func (m *Menu) askName() tea.Cmd {
	return m.ask("Product Name: ", func(r Reply) tea.Cmd {
		if r.ToMenu {
			return m.toMenu()
		}
		if r.Value == "" {
			m.say("product name cannot be empty")
			return m.askName()
		}
		return m.askPrice(r.Value)
	})
}

func (m *Menu) askPrice(name string) tea.Cmd {
	return m.ask("Price: ", func(r Reply) tea.Cmd {
		if r.ToMenu {
			return m.toMenu()
		}
		price, err := invdomain.ParsePriceCents(r.Value)
		if err != nil {
			m.say("price entry must be a number")
			return m.askPrice(name)
		}
		return m.askQuantity(name, price)
	})
}

func (m *Menu) askQuantity(name string, price int64) tea.Cmd {
	return m.ask("Quantity: ", func(r Reply) tea.Cmd {
		if r.ToMenu {
			return m.toMenu()
		}
		quantity, err := invdomain.ParseQuantity(r.Value)
		if err != nil {
			m.say("quantity must be a number")
			return m.askQuantity(name, price)
		}
		return m.saveItem(dto.SaveProductRequest{Name: name, Quantity: quantity, PriceCents: price})
	})
}

func (m *Menu) saveItem(req dto.SaveProductRequest) tea.Cmd {
	_, created, err := m.products.Save(m.ctx, req)
	if err != nil {
		return m.fail(err)
	}
	if created {
		m.say("Your item has been added to the inventory")
	} else {
		m.say("Your item has been updated in the inventory")
	}
	return m.toMenu()
}

// viewByID recorre los productos desde el ID indicado; vacío empieza por el primero.
func (m *Menu) viewByID() tea.Cmd {
	return m.ask("ID Number: ", func(r Reply) tea.Cmd {
		if r.ToMenu {
			return m.toMenu()
		}
		var start int64
		if r.Value != "" {
			id, err := strconv.ParseInt(r.Value, 10, 64)
			if err != nil || id <= 0 {
				m.say("ID must be a whole number")
				return m.viewByID()
			}
			if _, err := m.products.GetByID(m.ctx, id); err != nil {
				return m.fail(err)
			}
			start = id
		}

		all, err := m.products.List(m.ctx)
		if err != nil {
			return m.fail(err)
		}
		from := make([]*entity.Product, 0, len(all))
		for _, p := range all {
			if p.ID >= start {
				from = append(from, p)
			}
		}
		return m.browse(from)
	})
}

// search recorre los productos cuyo nombre contiene el texto ingresado.
func (m *Menu) search() tea.Cmd {
	return m.ask("Item contains: ", func(r Reply) tea.Cmd {
		if r.ToMenu {
			return m.toMenu()
		}
		found, err := m.products.Search(m.ctx, r.Value)
		if err != nil {
			return m.fail(err)
		}
		if len(found) == 0 {
			m.say("No items matched your search")
			return m.toMenu()
		}
		return m.browse(found)
	})
}

// browse muestra un producto a la vez. Tras cada uno: siguiente, borrar o menú.
func (m *Menu) browse(products []*entity.Product) tea.Cmd {
	if len(products) == 0 {
		m.say("End of results.")
		return m.toMenu()
	}
	m.showProduct(products[0])
	return m.askBrowse(products[0], products[1:])
}

func (m *Menu) askBrowse(p *entity.Product, rest []*entity.Product) tea.Cmd {
	return m.ask(browsePrompt, func(r Reply) tea.Cmd {
		if r.ToMenu {
			return m.toMenu()
		}
		switch strings.ToLower(r.Value) {
		case "", "n", "next":
			return m.browse(rest)
		case "d", "delete":
			return m.confirmDelete(p, rest)
		default:
			m.say("%s", userMessage(domain.ErrInvalidCommand))
			return m.askBrowse(p, rest)
		}
	})
}

// confirmDelete borra p solo con un "y"/"yes" explícito y sigue con el resto del recorrido.
func (m *Menu) confirmDelete(p *entity.Product, rest []*entity.Product) tea.Cmd {
	prev := m.state
	m.state = StateConfirmDelete
	return m.ask("You want to delete this item? enter [Y]es to proceed  ", func(r Reply) tea.Cmd {
		m.state = prev
		if r.ToMenu {
			return m.toMenu()
		}
		switch strings.ToLower(r.Value) {
		case "y", "yes":
			if err := m.products.Delete(m.ctx, p); err != nil {
				return m.fail(err)
			}
			m.log.Info().Int64("product_id", p.ID).Str("name", p.Name).Msg("producto eliminado")
			m.say("Entry deleted")
		default:
			m.say("Entry not deleted")
		}
		return m.browse(rest)
	})
}

func (m *Menu) runBackup() tea.Cmd {
	if m.backup == nil {
		return m.fail(errors.New("respaldo no configurado"))
	}
	res, err := m.backup.Backup(m.ctx)
	if err != nil {
		return m.fail(err)
	}
	m.say("Backed up %d items to %s", res.Records, res.Path)
	m.say("Total units: %d, stock value: %s", res.Summary.Units, invdomain.FormatAmount(res.Summary.StockValue))
	if res.ReportPath != "" {
		m.say("Report written to %s", res.ReportPath)
	}
	return m.toMenu()
}

func (m *Menu) showProduct(p *entity.Product) {
	m.say("")
	m.say("Product Name: %s", p.Name)
	m.say("ID Number: %d", p.ID)
	m.say("Price: %s", invdomain.FormatPriceCents(p.PriceCents))
	m.say("Quantity: %d", p.Quantity)
	m.say("Updated: %s", invdomain.FormatDate(p.UpdatedAt))
}
