package invoicing

import (
	"fmt"
	"strconv"
	"strings"
)

// firstInvoiceSequence seeds the numbering when a scope has no invoices yet.
const firstInvoiceSequence = 10260001

// invoiceNumberPrefix is prepended to the numeric sequence on formatting.
const invoiceNumberPrefix = "INV-"

// NumberingScope selects which rows the sequence is derived from.
type NumberingScope string

const (
	// NumberingScopeTenant derives the next number from the tenant's own
	// invoices, so each shop owns an independent sequence.
	NumberingScopeTenant NumberingScope = "tenant"
	// NumberingScopeGlobal derives the next number from the system-wide
	// maximum. Compatibility mode for ledgers migrated from a single
	// shared counter.
	NumberingScopeGlobal NumberingScope = "global"
)

// IsValid checks if the scope is a known numbering policy
func (s NumberingScope) IsValid() bool {
	return s == NumberingScopeTenant || s == NumberingScopeGlobal
}

// NextInvoiceNumber derives the follow-up number from the previous maximum.
// Non-digits are stripped before incrementing, so "INV-10260001" and a bare
// "10260001" both yield "INV-10260002". A previous number below the seed still
// increments, keeping migrated ledgers with older sequences intact. Only an
// empty or digitless previous number starts the sequence at the seed.
func NextInvoiceNumber(previous string) string {
	digits := digitsOf(previous)
	if digits == "" {
		return FormatInvoiceNumber(firstInvoiceSequence)
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return FormatInvoiceNumber(firstInvoiceSequence)
	}
	return FormatInvoiceNumber(n + 1)
}

// FormatInvoiceNumber renders a sequence value in the canonical form
func FormatInvoiceNumber(sequence int64) string {
	return fmt.Sprintf("%s%d", invoiceNumberPrefix, sequence)
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
