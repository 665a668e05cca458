package checkout

import (
	"fmt"
	"sort"
	"strings"

	"github.com/oche-club/dartscore-go/internal/model"
)

// Checkout table bounds. No finish exists below 2 (a remaining score of 1
// cannot be reduced to zero on a double) or above 170 (T20 T20 Bull).
const (
	MinCheckout = 2
	MaxCheckout = 170
)

// Caps applied to the two- and three-dart buckets before ranking. These only
// bound memory: recommended routes are sorted after capping and the caps are
// wide enough to include the minimum-dart route for every score in range.
const (
	twoDartCap   = 10
	threeDartCap = 5
)

// recommendedCount is the number of ranked routes kept per score
const recommendedCount = 5

// singleDartValues is every scorable segment value: 0 (miss), all singles,
// doubles and trebles, single bull and double bull.
var singleDartValues = []int{
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20,
	21, 22, 24, 25, 26, 27, 28, 30, 32, 33, 34, 36, 38, 39, 40, 42, 45, 48, 50, 51, 54, 57, 60,
}

// finishingDoubles are the values a leg can legally end on: D1-D20 and the bull
var finishingDoubles = []int{2, 4, 6, 8, 10, 12, 14, 16, 18, 20, 22, 24, 26, 28, 30, 32, 34, 36, 38, 40, 50}

// Service answers checkout queries for scores 2-170. The full route table is
// built eagerly at construction and never mutated, so all query methods are
// safe for concurrent use.
type Service struct {
	routes    map[int]*model.CheckoutData
	validDart map[int]bool
	double    map[int]bool
}

// New creates a checkout service with the route table precomputed
func New() *Service {
	s := &Service{
		routes:    make(map[int]*model.CheckoutData, MaxCheckout-MinCheckout+1),
		validDart: make(map[int]bool, len(singleDartValues)),
		double:    make(map[int]bool, len(finishingDoubles)),
	}

	for _, v := range singleDartValues {
		s.validDart[v] = true
	}
	for _, v := range finishingDoubles {
		s.double[v] = true
	}

	for score := MinCheckout; score <= MaxCheckout; score++ {
		s.routes[score] = s.calculateRoutes(score)
	}

	return s
}

// calculateRoutes enumerates every finishing combination for a target score
func (s *Service) calculateRoutes(target int) *model.CheckoutData {
	data := &model.CheckoutData{Score: target}

	// One dart: the target itself must be a finishing double
	if s.double[target] {
		data.SingleDart = append(data.SingleDart, []int{target})
		data.Possible = true
	}

	// Two darts: any scorable first dart leaving a finishing double
	for _, first := range singleDartValues {
		if first >= target {
			continue
		}
		if rest := target - first; s.double[rest] {
			data.TwoDart = append(data.TwoDart, []int{first, rest})
			data.Possible = true
		}
	}

	// Three darts: two scorable darts leaving a finishing double
	for _, first := range singleDartValues {
		if first >= target {
			continue
		}
		afterFirst := target - first
		for _, second := range singleDartValues {
			if second >= afterFirst {
				continue
			}
			if rest := afterFirst - second; s.double[rest] {
				data.ThreeDart = append(data.ThreeDart, []int{first, second, rest})
				data.Possible = true
			}
		}
	}

	data.Recommended = s.rankRoutes(data)
	return data
}

// rankRoutes builds the recommended list: fewest darts first, then lowest
// difficulty, truncated to recommendedCount
func (s *Service) rankRoutes(data *model.CheckoutData) []model.CheckoutRoute {
	var all []model.CheckoutRoute

	add := func(darts []int) {
		all = append(all, model.CheckoutRoute{
			Darts:       darts,
			Difficulty:  routeDifficulty(darts),
			Description: FormatRoute(darts),
		})
	}

	for _, route := range data.SingleDart {
		add(route)
	}
	for i, route := range data.TwoDart {
		if i >= twoDartCap {
			break
		}
		add(route)
	}
	for i, route := range data.ThreeDart {
		if i >= threeDartCap {
			break
		}
		add(route)
	}

	sort.SliceStable(all, func(i, j int) bool {
		if len(all[i].Darts) != len(all[j].Darts) {
			return len(all[i].Darts) < len(all[j].Darts)
		}
		return all[i].Difficulty < all[j].Difficulty
	})

	if len(all) > recommendedCount {
		all = all[:recommendedCount]
	}
	return all
}

// routeDifficulty sums a hand-authored weight per dart. The absolute values
// are arbitrary; the relative order (bull hardest, singles easiest) is what
// the ranking relies on.
func routeDifficulty(darts []int) int {
	difficulty := 0
	for _, dart := range darts {
		switch {
		case dart == 50:
			difficulty += 8 // double bull
		case dart == 25:
			difficulty += 3 // single bull
		case dart >= 57:
			difficulty += 7 // T19, T20
		case dart >= 42 && dart%3 == 0:
			difficulty += 6 // mid trebles
		case dart >= 21 && dart%3 == 0:
			difficulty += 4 // low trebles
		case dart >= 32 && dart%2 == 0:
			difficulty += 5 // high doubles
		case dart >= 20 && dart%2 == 0:
			difficulty += 3 // mid doubles
		case dart >= 2 && dart%2 == 0:
			difficulty += 2 // low doubles
		default:
			difficulty += 1 // singles
		}
	}
	return difficulty
}

// CanCheckout reports whether the score can be finished within the given
// number of darts. Out-of-range inputs are simply not checkoutable; they are
// normal states (e.g. 501 at the start of a leg), not errors.
func (s *Service) CanCheckout(score, dartsRemaining int) bool {
	if score < MinCheckout || score > MaxCheckout || dartsRemaining < 1 || dartsRemaining > 3 {
		return false
	}

	data := s.routes[score]
	if !data.Possible {
		return false
	}

	switch dartsRemaining {
	case 1:
		return len(data.SingleDart) > 0
	case 2:
		return len(data.SingleDart) > 0 || len(data.TwoDart) > 0
	default:
		return true
	}
}

// PossibleFinishes returns every enumerated finishing sequence usable within
// the given number of darts
func (s *Service) PossibleFinishes(score, dartsRemaining int) [][]int {
	if !s.CanCheckout(score, dartsRemaining) {
		return nil
	}

	data := s.routes[score]
	var finishes [][]int
	finishes = append(finishes, data.SingleDart...)
	if dartsRemaining >= 2 {
		finishes = append(finishes, data.TwoDart...)
	}
	if dartsRemaining >= 3 {
		finishes = append(finishes, data.ThreeDart...)
	}
	return finishes
}

// RecommendedFinishes returns the ranked routes usable within the given
// number of darts
func (s *Service) RecommendedFinishes(score, dartsRemaining int) []model.CheckoutRoute {
	if !s.CanCheckout(score, dartsRemaining) {
		return nil
	}

	var routes []model.CheckoutRoute
	for _, r := range s.routes[score].Recommended {
		if len(r.Darts) <= dartsRemaining {
			routes = append(routes, r)
		}
	}
	return routes
}

// IsCheckoutAttempt reports whether a dart thrown from the given score, with
// the given number of darts in hand including this one, counts as a checkout
// attempt
func (s *Service) IsCheckoutAttempt(scoreBeforeThrow, dartsInHand int) bool {
	return s.CanCheckout(scoreBeforeThrow, dartsInHand)
}

// CheckoutFor returns the full precomputed route data for a score
func (s *Service) CheckoutFor(score int) (*model.CheckoutData, bool) {
	data, ok := s.routes[score]
	return data, ok
}

// IsValidDartValue reports whether the value is a scorable segment value
func (s *Service) IsValidDartValue(value int) bool {
	return s.validDart[value]
}

// IsFinishingDouble reports whether the value can legally end a leg
func (s *Service) IsFinishingDouble(value int) bool {
	return s.double[value]
}

// ImpossibleCheckouts returns the scores in [2,170] with no finish
func (s *Service) ImpossibleCheckouts() []int {
	var impossible []int
	for score := MinCheckout; score <= MaxCheckout; score++ {
		if !s.routes[score].Possible {
			impossible = append(impossible, score)
		}
	}
	return impossible
}

// FormatDart renders a single dart value in standard notation
func FormatDart(value int) string {
	switch {
	case value == 50:
		return "Bull"
	case value == 25:
		return "S25"
	case value == 0:
		return "Miss"
	case value <= 40 && value%2 == 0:
		return fmt.Sprintf("D%d", value/2)
	case value <= 60 && value > 20 && value%3 == 0:
		return fmt.Sprintf("T%d", value/3)
	default:
		return fmt.Sprintf("S%d", value)
	}
}

// FormatRoute renders a finishing sequence, e.g. "T20 -> D20"
func FormatRoute(darts []int) string {
	parts := make([]string, len(darts))
	for i, d := range darts {
		parts[i] = FormatDart(d)
	}
	return strings.Join(parts, " -> ")
}

// Interface for dependency injection
type ServiceInterface interface {
	CanCheckout(score, dartsRemaining int) bool
	PossibleFinishes(score, dartsRemaining int) [][]int
	RecommendedFinishes(score, dartsRemaining int) []model.CheckoutRoute
	IsCheckoutAttempt(scoreBeforeThrow, dartsInHand int) bool
	CheckoutFor(score int) (*model.CheckoutData, bool)
	IsValidDartValue(value int) bool
	IsFinishingDouble(value int) bool
	ImpossibleCheckouts() []int
}

var _ ServiceInterface = (*Service)(nil)
