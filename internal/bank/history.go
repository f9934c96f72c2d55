package bank

import (
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Checker-Finance/simulators/internal/seed"
	"github.com/Checker-Finance/simulators/pkg/model"
)

// ValidationError is a locally detected input problem.
type ValidationError struct {
	Key model.ErrorKey
}

func (e *ValidationError) Error() string {
	return model.Messages[e.Key]
}

const (
	minTransactions   = 3
	transactionSpread = 8 // 3..10
	historyDays       = 90
	creditRate        = 0.45
)

var (
	creditNarrations = []string{"Salary payment", "Transfer received", "POS reversal", "Interest credit", "Refund"}
	debitNarrations  = []string{
		"ATM withdrawal", "POS purchase", "Airtime recharge", "Transfer sent",
		"Utility bill payment", "Card maintenance fee", "SMS alert charges",
	}

	creditAmount = [2]float64{5_000, 500_000}
	debitAmount  = [2]float64{500, 150_000}

	referenceNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:simulators:bank:transactions"))
)

// TransactionHistory returns 3 to 10 transactions for accountNumber, newest
// first. Amounts, narrations and day offsets are seeded by the account number;
// dates are anchored to the current day.
func (r *Resolver) TransactionHistory(accountNumber string) ([]model.Transaction, error) {
	if accountNumber == "" {
		return nil, &ValidationError{Key: model.ErrKeyMissingFields}
	}
	if !ValidAccountNumber(accountNumber) {
		return nil, &ValidationError{Key: model.ErrKeyInvalidAccountFormat}
	}

	base := seed.FromString(accountNumber)
	count := minTransactions + seed.Index(seed.PseudoRandom(float64(base)), transactionSpread)
	today := r.now().UTC().Truncate(24 * time.Hour)

	txs := make([]model.Transaction, 0, count)
	for i := 0; i < count; i++ {
		k := float64(i)
		kind := seed.Derive(base, 1.7+k*0.13)
		amountP := seed.Derive(base, 2.3+k*0.17)
		narrP := seed.Derive(base, 2.9+k*0.19)
		dayP := seed.Derive(base, 3.1+k*0.23)
		minuteP := seed.Derive(base, 3.7+k*0.29)

		tx := model.Transaction{
			Reference: uuid.NewSHA1(referenceNamespace, []byte(accountNumber+"|"+strconv.Itoa(i))).String(),
			Currency:  r.cat.Currency(),
		}
		bounds, narrations := debitAmount, debitNarrations
		tx.Type = model.TxDebit
		if kind < creditRate {
			bounds, narrations = creditAmount, creditNarrations
			tx.Type = model.TxCredit
		}
		tx.Amount = decimal.NewFromFloat(bounds[0] + amountP*(bounds[1]-bounds[0])).Round(2)
		tx.Narration = narrations[seed.Index(narrP, len(narrations))]

		days := seed.Index(dayP, historyDays)
		minutes := seed.Index(minuteP, 24*60)
		tx.Date = today.AddDate(0, 0, -days).Add(time.Duration(minutes) * time.Minute)

		txs = append(txs, tx)
	}

	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.After(txs[j].Date)
	})
	return txs, nil
}
