package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Checker-Finance/simulators/internal/synth"
	"github.com/Checker-Finance/simulators/pkg/model"
)

const (
	defaultRecentLimit = 50
	maxRecentLimit     = 500
)

// parseNameOptions reads gender, middle and title query values. Empty values
// leave the choice to the synthesizer.
func parseNameOptions(gender, middle, title string) (synth.NameOptions, error) {
	var opts synth.NameOptions

	switch g := strings.ToLower(strings.TrimSpace(gender)); g {
	case "":
	case string(model.GenderMale), string(model.GenderFemale):
		opts.Gender = model.Gender(g)
	default:
		return opts, fmt.Errorf("gender must be 'male' or 'female'")
	}

	var err error
	if opts.MiddleName, err = optionalBool("middle", middle); err != nil {
		return opts, err
	}
	if opts.Title, err = optionalBool("title", title); err != nil {
		return opts, err
	}
	return opts, nil
}

func optionalBool(name, raw string) (*bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a boolean", name)
	}
	return &v, nil
}

func parseLookupKind(raw string) (model.LookupKind, error) {
	switch k := model.LookupKind(strings.ToLower(strings.TrimSpace(raw))); k {
	case "", model.KindBank, model.KindCrypto:
		return k, nil
	default:
		return "", fmt.Errorf("kind must be 'bank' or 'crypto'")
	}
}

func parseLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultRecentLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("limit must be a positive integer")
	}
	if n > maxRecentLimit {
		n = maxRecentLimit
	}
	return n, nil
}
