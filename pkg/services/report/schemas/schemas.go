// Package schemas embeds the JSON output schemas sent to the AI backends.
// Each schema constrains the shape of the envelope a backend must answer
// with; the backends receive them opaquely.
package schemas

import _ "embed"

var (
	//go:embed overview.json
	Overview string

	//go:embed expense.json
	Expense string

	//go:embed income.json
	Income string

	//go:embed category.json
	Category string

	//go:embed insight.json
	Insight string

	//go:embed categorization.json
	Categorization string

	//go:embed savings.json
	Savings string
)
