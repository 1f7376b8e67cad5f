package models

import "strings"

// Flow marks a record as a recurring cost or a recurring earning. The schema
// is identical; the flow decides the sign when aggregating.
type Flow string

const (
	FlowExpense Flow = "expense"
	FlowIncome  Flow = "income"
)

var flowAliases = map[string]Flow{
	"cost":    FlowExpense,
	"支出":      FlowExpense,
	"支出类":     FlowExpense,
	"消费":      FlowExpense,
	"revenue": FlowIncome,
	"收益":      FlowIncome,
	"收入":      FlowIncome,
	"出租":      FlowIncome,
}

func (f Flow) Valid() bool {
	return f == FlowExpense || f == FlowIncome
}

// ParseFlow resolves a flow name, tolerating import alias spellings. Empty
// input maps to expense.
func ParseFlow(s string) (Flow, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return FlowExpense, true
	}
	if f := Flow(key); f.Valid() {
		return f, true
	}
	if f, ok := flowAliases[key]; ok {
		return f, true
	}
	return "", false
}
