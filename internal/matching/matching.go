// Package matching ranks student athletes against a campaign.
package matching

import (
	"errors"
	"fmt"
	"slices"

	"github.com/randofan/varsitylink/internal/marketplace"
)

// SportWeight is awarded when the athlete's sport is one of the campaign's
// sports.
const SportWeight = 10

// ErrInvalidArgument is returned when a required input is missing.
var ErrInvalidArgument = errors.New("invalid argument")

// Term is one additive scoring criterion. Scores below zero count as zero.
//
// Industry preference, marketing style and compensation type are the
// criteria expected to join SportTerm; each should be its own Term.
type Term interface {
	Name() string
	Score(brief *marketplace.Campaign, athlete *marketplace.StudentAthlete) int
}

// SportTerm rewards an exact, case-sensitive sport match.
type SportTerm struct {
	Weight int
}

func NewSportTerm() SportTerm {
	return SportTerm{Weight: SportWeight}
}

func (SportTerm) Name() string { return "sport" }

func (t SportTerm) Score(brief *marketplace.Campaign, athlete *marketplace.StudentAthlete) int {
	if slices.Contains(brief.Sports, athlete.Sport) {
		return t.Weight
	}
	return 0
}

// ScoredCandidate pairs an athlete with its score for one campaign.
type ScoredCandidate struct {
	Athlete marketplace.StudentAthlete `json:"athlete"`
	Score   int                        `json:"score"`
}

// Scorer sums the scores of its terms. It holds no mutable state and is safe
// for concurrent use.
type Scorer struct {
	terms []Term
}

// New returns a scorer over the given terms, or over the default terms when
// none are given.
func New(terms ...Term) *Scorer {
	if len(terms) == 0 {
		return Default()
	}
	return &Scorer{terms: slices.Clone(terms)}
}

// Default returns the scorer used by the marketplace today: sport match only.
func Default() *Scorer {
	return &Scorer{terms: []Term{NewSportTerm()}}
}

// Terms returns the names of the scoring terms in evaluation order.
func (s *Scorer) Terms() []string {
	names := make([]string, 0, len(s.terms))
	for _, t := range s.terms {
		names = append(names, t.Name())
	}
	return names
}

// Score returns the total score of athlete for brief. The base score is zero.
func (s *Scorer) Score(brief *marketplace.Campaign, athlete *marketplace.StudentAthlete) int {
	total := 0
	for _, t := range s.terms {
		if v := t.Score(brief, athlete); v > 0 {
			total += v
		}
	}
	return total
}

// ScoreAll scores every athlete of pool and orders them best first. Athletes
// with equal scores keep their pool order. Neither brief nor pool is modified.
func (s *Scorer) ScoreAll(brief *marketplace.Campaign, pool []marketplace.StudentAthlete) ([]ScoredCandidate, error) {
	if brief == nil {
		return nil, fmt.Errorf("%w: campaign brief is required", ErrInvalidArgument)
	}

	scored := make([]ScoredCandidate, 0, len(pool))
	for i := range pool {
		scored = append(scored, ScoredCandidate{
			Athlete: pool[i],
			Score:   s.Score(brief, &pool[i]),
		})
	}

	slices.SortStableFunc(scored, func(a, b ScoredCandidate) int {
		return b.Score - a.Score
	})

	return scored, nil
}

// Rank is ScoreAll without the scores.
func (s *Scorer) Rank(brief *marketplace.Campaign, pool []marketplace.StudentAthlete) ([]marketplace.StudentAthlete, error) {
	scored, err := s.ScoreAll(brief, pool)
	if err != nil {
		return nil, err
	}

	ranked := make([]marketplace.StudentAthlete, 0, len(scored))
	for _, c := range scored {
		ranked = append(ranked, c.Athlete)
	}
	return ranked, nil
}

// Rank orders pool with the default scorer.
func Rank(brief *marketplace.Campaign, pool []marketplace.StudentAthlete) ([]marketplace.StudentAthlete, error) {
	return Default().Rank(brief, pool)
}
