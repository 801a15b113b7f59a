package summary

import (
	"github.com/trackstars/trackstars/internal/currency"
	"github.com/trackstars/trackstars/internal/model"
)

// Kind identifies which viewing context produced a Result.
type Kind int

const (
	// KindBank is a single bank in its own currency.
	KindBank Kind = iota
	// KindCurrency is every bank held in one currency, unconverted.
	KindCurrency
	// KindGlobal is every bank converted to a display currency.
	KindGlobal
)

func (k Kind) String() string {
	switch k {
	case KindBank:
		return "bank"
	case KindCurrency:
		return "currency"
	case KindGlobal:
		return "global"
	}
	return "unknown"
}

// Scope selects the banks a summary covers and the currency it reports in.
// Build one with ForBank, ForCurrency or Global.
type Scope struct {
	kind     Kind
	bank     *model.Bank
	currency currency.Code
}

// ForBank scopes a summary to b, reported in b's currency.
func ForBank(b *model.Bank) Scope {
	return Scope{kind: KindBank, bank: b, currency: b.Currency}
}

// ForCurrency scopes a summary to every bank held in code.
func ForCurrency(code currency.Code) Scope {
	return Scope{kind: KindCurrency, currency: code}
}

// Global scopes a summary to every bank, converted to display.
func Global(display currency.Code) Scope {
	return Scope{kind: KindGlobal, currency: display}
}

// Kind returns the scope variant.
func (s Scope) Kind() Kind { return s.kind }

// Bank returns the scoped bank for KindBank, otherwise nil.
func (s Scope) Bank() *model.Bank { return s.bank }

// Currency returns the currency the summary is reported in.
func (s Scope) Currency() currency.Code { return s.currency }

// includes reports whether bank b contributes to the scope.
func (s Scope) includes(b *model.Bank) bool {
	switch s.kind {
	case KindBank:
		return b == s.bank
	case KindCurrency:
		return b.Currency == s.currency
	default:
		return true
	}
}
