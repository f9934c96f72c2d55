package api

import (
	"bytes"
	"encoding/json"
	"strings"
)

// BankLookupRequest is the payload of POST /api/v1/bank/lookup.
type BankLookupRequest struct {
	AccountNumber string `json:"accountNumber" example:"0123456789"`
	BankCode      string `json:"bankCode" example:"044"`
}

// CryptoLookupRequest is the payload of POST /api/v1/crypto/lookup. Both fields
// are optional.
type CryptoLookupRequest struct {
	Address string  `json:"address" example:"0xff3f428583c15a5681584e9e5e86e270418ac4d3"`
	ChainID ChainID `json:"chainId" example:"56"`
}

// ChainID accepts a JSON string or number.
type ChainID string

func (c *ChainID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = ChainID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = ChainID(n.String())
	return nil
}
