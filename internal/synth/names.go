package synth

import (
	"strings"

	"github.com/Checker-Finance/simulators/internal/catalog"
	"github.com/Checker-Finance/simulators/pkg/model"
)

// NameOptions controls RandomName. A nil MiddleName or Title leaves the choice
// to a weighted draw.
type NameOptions struct {
	Gender     model.Gender
	MiddleName *bool
	Title      *bool
}

// FallbackName is returned whenever the name tables cannot produce a name.
func FallbackName() model.NameInfo {
	return model.NameInfo{
		FirstName: "John",
		LastName:  "Doe",
		FullName:  "John Doe",
		Gender:    model.GenderMale,
	}
}

// RandomName assembles a name from independent draws. It never fails: missing
// or incomplete tables yield FallbackName.
func (s *Synthesizer) RandomName(opts NameOptions) model.NameInfo {
	tables := s.cat.Names()
	if !tables.Usable() {
		return FallbackName()
	}

	gender := opts.Gender
	if gender != model.GenderMale && gender != model.GenderFemale {
		gender = model.GenderMale
		if s.rnd.Float64() < 0.5 {
			gender = model.GenderFemale
		}
	}

	firsts, titles := tables.MaleFirst, tables.MaleTitles
	if gender == model.GenderFemale {
		firsts, titles = tables.FemaleFirst, tables.FemaleTitles
	}

	n := model.NameInfo{
		FirstName: s.pick(firsts),
		Gender:    gender,
	}
	if len(tables.Middle) > 0 && s.include(opts.MiddleName, middleNameRate) {
		n.MiddleName = s.pick(tables.Middle)
	}
	group := s.pickGroup(tables.SurnameGroup)
	n.Group = group.Name
	n.LastName = s.pick(group.Surnames)
	if len(titles) > 0 && s.include(opts.Title, titleRate) {
		n.Title = s.pick(titles)
	}

	n.FullName = joinName(n.Title, n.FirstName, n.MiddleName, n.LastName)
	return n
}

func (s *Synthesizer) include(want *bool, rate float64) bool {
	if want != nil {
		return *want
	}
	return s.rnd.Float64() < rate
}

func (s *Synthesizer) pickGroup(groups []catalog.SurnameGroup) catalog.SurnameGroup {
	return groups[s.rnd.IntN(len(groups))]
}

func joinName(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
