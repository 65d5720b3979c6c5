// Package outcome turns a finished play into a prize decision and a player message.
package outcome

import (
	"context"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/message"

	"github.com/osse101/PrizeKiosk_Go/internal/domain"
	"github.com/osse101/PrizeKiosk_Go/internal/logger"
	"github.com/osse101/PrizeKiosk_Go/internal/reward"
	"github.com/osse101/PrizeKiosk_Go/internal/utils"
)

// Allocator is the part of the reward engine the policy drives
type Allocator interface {
	Evaluate(ctx context.Context, score int) reward.Result
	TryForceItem(ctx context.Context, id string) (reward.Result, bool)
	Commit(ctx context.Context, res reward.Result, cause domain.Cause) (reward.Grant, error)
	OnlyTopPrizeLeft() bool
	MaxScore() int
}

// Play is a finished game as reported by the kiosk
type Play struct {
	Score        int  `json:"score"`
	Win          bool `json:"win"`
	PerfectClear bool `json:"perfect_clear"`
}

// Payload is what the victory screen shows
type Payload struct {
	Message    string        `json:"message"`
	Score      int           `json:"score"`
	ZeroPoints bool          `json:"zero_points"`
	Grant      *reward.Grant `json:"grant,omitempty"`
}

// HasPrize reports whether an item was granted
func (p Payload) HasPrize() bool { return p.Grant != nil }

// Rules holds the item ids and score thresholds of the special cases
type Rules struct {
	TopPrizeItemID     string
	IgnoredItemID      string
	BottleItemID       string
	PelletPerfectScore int
	AllPelletsMaxScore int
	Language           string
}

// DefaultRules returns the kiosk's stock rules
func DefaultRules() Rules {
	return Rules{
		TopPrizeItemID:     domain.DefaultTopPrizeItemID,
		IgnoredItemID:      domain.DefaultIgnoredItemID,
		BottleItemID:       domain.DefaultBottleItemID,
		PelletPerfectScore: DefaultPelletPerfectScore,
		AllPelletsMaxScore: DefaultAllPelletsMaxScore,
		Language:           DefaultLanguage,
	}
}

// Policy applies the prize rules in order, committing at most one grant per play
type Policy struct {
	alloc   Allocator
	rules   Rules
	printer *message.Printer
}

// NewPolicy creates a policy. Empty item ids in rules fall back to the defaults.
func NewPolicy(alloc Allocator, rules Rules) (*Policy, error) {
	def := DefaultRules()
	if strings.TrimSpace(rules.TopPrizeItemID) == "" {
		rules.TopPrizeItemID = def.TopPrizeItemID
	}
	if strings.TrimSpace(rules.IgnoredItemID) == "" {
		rules.IgnoredItemID = def.IgnoredItemID
	}
	if strings.TrimSpace(rules.BottleItemID) == "" {
		rules.BottleItemID = def.BottleItemID
	}
	if rules.Language == "" {
		rules.Language = def.Language
	}

	cat, err := newMessageCatalog()
	if err != nil {
		return nil, err
	}
	return &Policy{alloc: alloc, rules: rules, printer: newPrinter(rules.Language, cat)}, nil
}

// Rules returns the effective rules
func (p *Policy) Rules() Rules { return p.rules }

// Resolve decides the prize for a play:
//  1. zero points: the consolation item, if any is left
//  2. a perfect-clear win: the top prize, with the score raised to AllPelletsMaxScore
//  3. a loss above PelletPerfectScore: the bottle
//  4. otherwise the score is evaluated against the bands
//  5. a loss without a perfect clear when only the top prize is left: the top prize
//
// A forced step whose item is out of stock falls through to the next one.
func (p *Policy) Resolve(ctx context.Context, play Play) (Payload, error) {
	log := logger.FromContext(ctx)

	if play.Score == 0 {
		out := Payload{Message: p.printer.Sprintf(MsgThanksNotThisTime), ZeroPoints: true}
		if res, ok := p.alloc.TryForceItem(ctx, p.rules.IgnoredItemID); ok {
			if err := p.commit(ctx, &out, res, domain.CauseZeroPoints); err != nil {
				return out, err
			}
		}
		log.Info(LogMsgOutcomeResolved, "score", 0, "cause", domain.CauseZeroPoints, "prize", out.HasPrize())
		return out, nil
	}

	out := Payload{Score: play.Score, Message: p.congratulations(play.Score)}

	if play.Win && play.PerfectClear {
		if res, ok := p.alloc.TryForceItem(ctx, p.rules.TopPrizeItemID); ok {
			res.Score = p.rules.AllPelletsMaxScore
			out.Score = p.rules.AllPelletsMaxScore
			return p.finish(ctx, out, res, domain.CauseWin)
		}
	}

	if !play.Win && play.Score > p.rules.PelletPerfectScore {
		if res, ok := p.alloc.TryForceItem(ctx, p.rules.BottleItemID); ok {
			res.Score = play.Score
			return p.finish(ctx, out, res, domain.CauseGameOver)
		}
	}

	if res := p.alloc.Evaluate(ctx, p.evaluationScore(play.Score)); !res.Empty() {
		cause := domain.CauseGameOver
		if play.Win {
			cause = domain.CauseWin
		}
		return p.finish(ctx, out, res, cause)
	}

	if !play.Win && !play.PerfectClear && p.alloc.OnlyTopPrizeLeft() {
		if res, ok := p.alloc.TryForceItem(ctx, p.rules.TopPrizeItemID); ok {
			res.Score = play.Score
			return p.finish(ctx, out, res, domain.CauseNoOtherPrizes)
		}
	}

	if play.Score < 0 {
		out.Message = p.printer.Sprintf(MsgThanks)
	}
	log.Info(LogMsgOutcomeResolved, "score", play.Score, "prize", false)
	return out, nil
}

// evaluationScore clamps score into [0, maxScore] and rounds it
func (p *Policy) evaluationScore(score int) int {
	maxScore := max(1, p.alloc.MaxScore())
	percent := utils.Clamp01(float64(score) / float64(maxScore))
	return int(math.Round(percent * float64(maxScore)))
}

func (p *Policy) congratulations(score int) string {
	return p.printer.Sprintf(MsgCongratulations, score)
}

func (p *Policy) finish(ctx context.Context, out Payload, res reward.Result, cause domain.Cause) (Payload, error) {
	if err := p.commit(ctx, &out, res, cause); err != nil {
		return out, err
	}
	logger.FromContext(ctx).Info(LogMsgOutcomeResolved,
		"score", out.Score,
		"cause", cause,
		"item_id", res.ItemID)
	return out, nil
}

func (p *Policy) commit(ctx context.Context, out *Payload, res reward.Result, cause domain.Cause) error {
	g, err := p.alloc.Commit(ctx, res, cause)
	if err != nil {
		logger.FromContext(ctx).Error(LogMsgCommitFailed, "item_id", res.ItemID, "cause", cause, "error", err)
		return fmt.Errorf("commit %s: %w", res.ItemID, err)
	}
	out.Grant = &g
	return nil
}
