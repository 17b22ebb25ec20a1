package renderer

import (
	"html/template"

	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/models"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/utils/calc"
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/utils/format"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
)

func New(directory string, isDevelopment bool) *render.Render {
	return render.New(render.Options{
		Directory:     directory,
		Layout:        "layout",
		Extensions:    []string{".html"},
		IsDevelopment: isDevelopment,
		Funcs:         []template.FuncMap{Funcs()},
	})
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"until": func(count int) []int {
			items := make([]int, count)
			for i := 0; i < count; i++ {
				items[i] = i
			}
			return items
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		"min": func(a, b int) int {
			if a < b {
				return a
			}
			return b
		},
		"max": func(a, b int) int {
			if a > b {
				return a
			}
			return b
		},
		"money": format.Money,
		"optionalMoney": func(amount *decimal.Decimal) string {
			return format.OptionalMoney(amount, "---")
		},
		"carbon":      format.Carbon,
		"carbonLevel": calc.ClassifyCarbon,
		"walletValue": func(points int) string {
			return format.Money(calc.EcoPointsWalletValue(points))
		},
		"lineTotal": func(item models.CartItem) string {
			return format.Money(item.LineTotal())
		},
		"cartTotal": func(cart *models.Cart) string {
			return format.Money(cart.Total())
		},
	}
}
