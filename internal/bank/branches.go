package bank

import (
	"context"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/Checker-Finance/simulators/internal/seed"
	"github.com/Checker-Finance/simulators/pkg/model"
)

// MaxBranches caps the branch finder's result.
const MaxBranches = 5

const maxDistanceKm = 25.0

// NearestBranches lists up to MaxBranches branches near location, closest
// first. An empty location stands in for device geolocation: it may fail with
// faults.ErrGeolocationUnavailable and otherwise resolves to the catalog's
// fallback city. A location with no branches also falls back to that city.
func (r *Resolver) NearestBranches(ctx context.Context, location string) ([]model.Branch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	loc := strings.TrimSpace(location)
	if loc == "" {
		if err := r.faults.Geolocation(); err != nil {
			r.logger.Warn("bank.branches.geolocation_fault")
			return nil, err
		}
		loc = r.cat.FallbackCity()
	}

	found := r.cat.BranchesIn(loc)
	if len(found) == 0 {
		r.logger.Debug("bank.branches.fallback_city",
			zap.String("location", loc),
			zap.String("fallback", r.cat.FallbackCity()))
		found = r.cat.BranchesIn(r.cat.FallbackCity())
	}

	key := strings.ToLower(loc)
	out := make([]model.Branch, 0, len(found))
	for _, b := range found {
		inst, _ := r.cat.Institution(b.InstitutionCode)
		p := seed.PseudoRandom(float64(seed.FromString(key + b.ID)))
		out = append(out, model.Branch{
			ID:              b.ID,
			InstitutionCode: b.InstitutionCode,
			InstitutionName: inst.Name,
			Name:            b.Name,
			Address:         b.Address,
			City:            b.City,
			DistanceKm:      math.Round(p*maxDistanceKm*10) / 10,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DistanceKm == out[j].DistanceKm {
			return out[i].ID < out[j].ID
		}
		return out[i].DistanceKm < out[j].DistanceKm
	})
	if len(out) > MaxBranches {
		out = out[:MaxBranches]
	}
	return out, nil
}
