package domain

type Category string

const (
	CategoryAlimentacao  Category = "alimentacao"
	CategoryTransporte   Category = "transporte"
	CategoryMoradia      Category = "moradia"
	CategorySaude        Category = "saude"
	CategoryEducacao     Category = "educacao"
	CategoryLazer        Category = "lazer"
	CategoryCompras      Category = "compras"
	CategoryReceita      Category = "receita"
	CategoryInvestimento Category = "investimento"
	CategoryOutros       Category = "outros"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryAlimentacao,
	CategoryTransporte,
	CategoryMoradia,
	CategorySaude,
	CategoryEducacao,
	CategoryLazer,
	CategoryCompras,
	CategoryReceita,
	CategoryInvestimento,
	CategoryOutros,
}

var categoryLabels = map[Category]string{
	CategoryAlimentacao:  "Alimentação",
	CategoryTransporte:   "Transporte",
	CategoryMoradia:      "Moradia",
	CategorySaude:        "Saúde",
	CategoryEducacao:     "Educação",
	CategoryLazer:        "Lazer",
	CategoryCompras:      "Compras",
	CategoryReceita:      "Receita",
	CategoryInvestimento: "Investimento",
	CategoryOutros:       "Outros",
}

func (c Category) IsValid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the display name, or the raw value for unknown categories.
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}
