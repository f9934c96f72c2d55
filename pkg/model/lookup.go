package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Source tags where the data in a result came from.
type Source string

const (
	SourceDatabase Source = "database"
	SourceStatic   Source = "static"
	SourceRandom   Source = "random"
)

// Origin distinguishes curated bank records from seeded ones. Both are reported
// to callers as SourceDatabase.
type Origin string

const (
	OriginStatic    Origin = "static"
	OriginGenerated Origin = "generated"
)

// Gender selects the first-name table.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ErrorKey is a stable, enumerable failure identifier a front end can branch on.
type ErrorKey string

const (
	ErrKeyMissingFields          ErrorKey = "missing_fields"
	ErrKeyInvalidAccountFormat   ErrorKey = "invalid_account_format"
	ErrKeyInvalidInstitution     ErrorKey = "invalid_institution_code"
	ErrKeyAccountNotFound        ErrorKey = "account_not_found"
	ErrKeyAccountBlocked         ErrorKey = "account_blocked"
	ErrKeyNetwork                ErrorKey = "network_error"
	ErrKeyGeolocationUnavailable ErrorKey = "geolocation_unavailable"
)

// Messages holds the human-readable text for each ErrorKey.
var Messages = map[ErrorKey]string{
	ErrKeyMissingFields:          "account number and bank code are required",
	ErrKeyInvalidAccountFormat:   "account number must be exactly 10 digits",
	ErrKeyInvalidInstitution:     "invalid bank code",
	ErrKeyAccountNotFound:        "account not found",
	ErrKeyAccountBlocked:         "account is blocked or restricted",
	ErrKeyNetwork:                "network error, please try again",
	ErrKeyGeolocationUnavailable: "unable to determine your location",
}

// AccountInfo is the result of a bank account lookup or a synthesized account.
type AccountInfo struct {
	Success         bool            `json:"success"`
	ErrorKey        ErrorKey        `json:"errorKey,omitempty"`
	Error           string          `json:"error,omitempty"`
	AccountNumber   string          `json:"accountNumber,omitempty"`
	AccountName     string          `json:"accountName,omitempty"`
	InstitutionCode string          `json:"bankCode,omitempty"`
	InstitutionName string          `json:"bankName,omitempty"`
	Balance         decimal.Decimal `json:"balance"`
	Currency        string          `json:"currency,omitempty"`
	Phone           string          `json:"phone,omitempty"`
	Email           string          `json:"email,omitempty"`
	Source          Source          `json:"source,omitempty"`
	Origin          Origin          `json:"origin,omitempty"`
}

// Failed builds an unsuccessful AccountInfo for key.
func Failed(key ErrorKey) AccountInfo {
	return AccountInfo{
		Success:  false,
		ErrorKey: key,
		Error:    Messages[key],
	}
}

// TokenBalance is a synthetic token holding attached to a wallet.
type TokenBalance struct {
	Symbol   string          `json:"symbol"`
	Name     string          `json:"name"`
	Contract string          `json:"contract,omitempty"`
	Balance  decimal.Decimal `json:"balance"`
	USDValue decimal.Decimal `json:"usdValue"`
}

// WalletInfo is the result of a crypto address lookup or a synthesized wallet.
type WalletInfo struct {
	Success   bool            `json:"success"`
	Address   string          `json:"address"`
	ChainID   string          `json:"chainId"`
	ChainName string          `json:"chainName"`
	Label     string          `json:"label,omitempty"`
	Balance   decimal.Decimal `json:"balance"`
	Symbol    string          `json:"symbol"`
	USDValue  decimal.Decimal `json:"usdValue"`
	Tokens    []TokenBalance  `json:"tokens,omitempty"`
	Source    Source          `json:"source"`
}

// NameInfo is a synthesized personal name.
type NameInfo struct {
	Title      string `json:"title,omitempty"`
	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName,omitempty"`
	LastName   string `json:"lastName"`
	FullName   string `json:"fullName"`
	Gender     Gender `json:"gender"`
	Group      string `json:"group,omitempty"`
}

// TransactionType is credit or debit.
type TransactionType string

const (
	TxCredit TransactionType = "credit"
	TxDebit  TransactionType = "debit"
)

// Transaction is a single entry of a simulated statement.
type Transaction struct {
	Reference string          `json:"reference"`
	Type      TransactionType `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Narration string          `json:"narration"`
	Date      time.Time       `json:"date"`
}

// Branch is a physical bank branch returned by the branch finder.
type Branch struct {
	ID              string  `json:"id"`
	InstitutionCode string  `json:"bankCode"`
	InstitutionName string  `json:"bankName"`
	Name            string  `json:"name"`
	Address         string  `json:"address"`
	City            string  `json:"city"`
	DistanceKm      float64 `json:"distanceKm"`
}
