// Package stats derives per-match "Overall" records from per-map stat rows.
package stats

import (
	"errors"
	"math"

	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/domain"
)

// ErrAlreadyAggregated rejects input that contains Overall records: the
// aggregate is strictly additive to the per-map rows and must never be fed
// back into itself.
var ErrAlreadyAggregated = errors.New("input contains already-aggregated records")

// Aggregate combines each player's per-map rows into one Overall record per
// (team, player) pair. Kills, deaths, assists, first-kills, first-deaths and
// plus/minus are summed; rating, ACS, KAST%, ADR and HS% are arithmetic means
// over the non-nil observations only, nil when there are none. The agent is
// the first non-empty value seen. Input order is preserved in the output.
func Aggregate(records []domain.PlayerStatRecord) ([]domain.PlayerStatRecord, error) {
	for _, r := range records {
		if r.MapName == domain.OverallMapName {
			return nil, ErrAlreadyAggregated
		}
	}

	type key struct {
		team   string
		player string
	}

	grouped := make(map[key][]domain.PlayerStatRecord)
	var order []key
	for _, r := range records {
		k := key{team: r.TeamName, player: r.PlayerIGN}
		if _, seen := grouped[k]; !seen {
			order = append(order, k)
		}
		grouped[k] = append(grouped[k], r)
	}

	out := make([]domain.PlayerStatRecord, 0, len(order))
	for _, k := range order {
		maps := grouped[k]
		first := maps[0]

		agg := domain.PlayerStatRecord{
			TeamName:     k.team,
			PlayerIGN:    k.player,
			MapName:      domain.OverallMapName,
			PlayerURL:    first.PlayerURL,
			Region:       first.Region,
			TeamJoinDate: first.TeamJoinDate,
		}

		agg.Kills = sumInt(maps, func(r domain.PlayerStatRecord) *int { return r.Kills })
		agg.Deaths = sumInt(maps, func(r domain.PlayerStatRecord) *int { return r.Deaths })
		agg.Assists = sumInt(maps, func(r domain.PlayerStatRecord) *int { return r.Assists })
		agg.FirstKills = sumInt(maps, func(r domain.PlayerStatRecord) *int { return r.FirstKills })
		agg.FirstDeaths = sumInt(maps, func(r domain.PlayerStatRecord) *int { return r.FirstDeaths })
		agg.PlusMinus = sumInt(maps, func(r domain.PlayerStatRecord) *int { return r.PlusMinus })

		agg.Rating = meanFloat(maps, func(r domain.PlayerStatRecord) *float64 { return r.Rating }, 2)
		agg.ACS = meanInt(maps, func(r domain.PlayerStatRecord) *int { return r.ACS })
		agg.KASTPercent = meanFloat(maps, func(r domain.PlayerStatRecord) *float64 { return r.KASTPercent }, 1)
		agg.ADR = meanFloat(maps, func(r domain.PlayerStatRecord) *float64 { return r.ADR }, 1)
		agg.HSPercent = meanFloat(maps, func(r domain.PlayerStatRecord) *float64 { return r.HSPercent }, 1)

		for _, m := range maps {
			if m.Agent != "" {
				agg.Agent = m.Agent
				break
			}
		}

		out = append(out, agg)
	}

	return out, nil
}

func sumInt(records []domain.PlayerStatRecord, field func(domain.PlayerStatRecord) *int) *int {
	total := 0
	for _, r := range records {
		if v := field(r); v != nil {
			total += *v
		}
	}
	return &total
}

func meanInt(records []domain.PlayerStatRecord, field func(domain.PlayerStatRecord) *int) *int {
	total, count := 0, 0
	for _, r := range records {
		if v := field(r); v != nil {
			total += *v
			count++
		}
	}
	if count == 0 {
		return nil
	}
	mean := int(math.Round(float64(total) / float64(count)))
	return &mean
}

func meanFloat(records []domain.PlayerStatRecord, field func(domain.PlayerStatRecord) *float64, decimals int) *float64 {
	total, count := 0.0, 0
	for _, r := range records {
		if v := field(r); v != nil {
			total += *v
			count++
		}
	}
	if count == 0 {
		return nil
	}
	factor := math.Pow(10, float64(decimals))
	mean := math.Round(total/float64(count)*factor) / factor
	return &mean
}
