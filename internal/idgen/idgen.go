// Package idgen builds human-readable unique references for ledger rows and withdrawal orders.
package idgen

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	PrefixTransaction = "TX"
	PrefixWithdrawal  = "WD"
)

// suffixLen hex characters of a random UUID follow the timestamp.
const suffixLen = 12

var now = time.Now

// New returns prefix + UTC timestamp (seconds) + 12 random hex characters.
func New(prefix string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:suffixLen]
	return prefix + now().UTC().Format("20060102150405") + strings.ToUpper(suffix)
}

// Reference returns a transaction reference.
func Reference() string { return New(PrefixTransaction) }

// OrderNumber returns a withdrawal order number.
func OrderNumber() string { return New(PrefixWithdrawal) }
