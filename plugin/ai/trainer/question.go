package trainer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	trainererrors "github.com/hrygo/rehearse/internal/errors"
	"github.com/hrygo/rehearse/internal/observability"
	"github.com/hrygo/rehearse/plugin/ai/hint"
	"github.com/hrygo/rehearse/plugin/ai/input"
	"github.com/hrygo/rehearse/plugin/ai/judge"
	"github.com/hrygo/rehearse/plugin/ai/review"
	"github.com/hrygo/rehearse/plugin/ai/timeout"
)

const (
	metaQuestionPrefix = "That's a good question. Let's focus on this one: "
	missPrefix         = "Not quite. Here's a hint: "
	withdrawPrefix     = "That's okay. Here's a hint: "
	retryPrefix        = "That's okay. Let's try once more: "

	judgeDeterministic = "deterministic"
	judgeSemantic      = "semantic"
)

// askFact runs the attempt loop for one fact. stop is non-empty when the
// session has to end after this fact.
func (s *Session) askFact(ctx context.Context, fact *review.Fact) (fr FactResult, stop string) {
	fr = FactResult{FactID: fact.ID, Prompt: fact.Prompt}
	progress := hint.NewProgress(hint.NewLadder(fact.Hints, fact.Answer), s.params.HintBoost)
	defer func() {
		fr.HintsShown = progress.HintsShown()
		fr.Revealed = progress.Revealed()
	}()

	keywords := fact.Keywords
	if len(keywords) == 0 {
		keywords = judge.Keywords(fact.Answer)
	}

	s.say(ctx, fact.Prompt)
	neutral := 0
	withdrew := false
	for fr.Attempts < s.cfg.MaxAttempts {
		window, ok := s.window(s.cfg.PerAttemptDeadline)
		if !ok {
			fr.Outcome = OutcomeTimedOut
			return fr, EndSessionDeadline
		}

		asked := s.now()
		text, err := s.collector.Collect(ctx, input.Request{Deadline: window, MaxRetries: s.cfg.InputRetries})
		if err != nil {
			return s.inputFailed(ctx, fr, err, s.now().Sub(asked))
		}
		latency := s.now().Sub(asked)
		s.hear(text)

		start := s.now()
		verdict := s.t.judge.Evaluate(text, keywords, fr.Attempts)
		reply := verdict.Reply
		if reply.Kind == judge.ReplySubstantive {
			s.recordJudge(ctx, judgeDeterministic, s.now().Sub(start), true)
		}
		if reply.Kind.IsNeutral() && neutral < s.cfg.MaxNeutralReplies {
			neutral++
			if reply.Kind == judge.ReplyMetaQuestion {
				s.say(ctx, metaQuestionPrefix+fact.Prompt)
			} else {
				s.say(ctx, fact.Prompt)
			}
			continue
		}

		fr.Attempts++
		last := fr.Attempts >= s.cfg.MaxAttempts
		if reply.Kind == judge.ReplyWithdrawal {
			withdrew = true
			s.recordAttempt(ctx, OutcomeWithdrawn, latency)
			terr := trainererrors.NoAnswer("patient withdrew")
			s.sc.Debug("attempt withdrawn",
				slog.String(observability.LogFieldFactID, fact.ID),
				slog.Int(observability.LogFieldAttempt, fr.Attempts-1),
				slog.String(observability.LogFieldErrorCode, string(terr.Code)))
			if !last {
				if h, ok := progress.Withdraw(); ok {
					s.say(ctx, withdrawPrefix+h)
				} else {
					s.say(ctx, retryPrefix+fact.Prompt)
				}
			}
			continue
		}
		withdrew = false

		verdict, semanticHint := s.consultSemantic(ctx, fact, verdict)
		if verdict.Correct {
			fr.Outcome = OutcomeCorrect
			s.recordAttempt(ctx, OutcomeCorrect, latency)
			s.say(ctx, fmt.Sprintf("That's right! The answer is %s.", fact.Answer))
			return fr, ""
		}
		s.recordAttempt(ctx, OutcomeIncorrect, latency)
		if !last {
			h, ok := progress.Miss()
			if semanticHint != "" {
				h, ok = semanticHint, true
			}
			if ok {
				s.say(ctx, missPrefix+h)
			} else {
				s.say(ctx, retryPrefix+fact.Prompt)
			}
		}
	}

	fr.Outcome = OutcomeIncorrect
	if withdrew {
		fr.Outcome = OutcomeWithdrawn
	}
	if h, ok := progress.Reveal(); ok {
		s.say(ctx, h)
	}
	return fr, ""
}

// inputFailed maps a failed read onto the fact outcome and, when the
// session cannot go on, an end reason.
func (s *Session) inputFailed(ctx context.Context, fr FactResult, err error, waited time.Duration) (FactResult, string) {
	fr.Outcome = OutcomeTimedOut
	s.recordAttempt(ctx, OutcomeTimedOut, waited)

	switch {
	case errors.Is(err, input.ErrTimeout):
		terr := trainererrors.InputTimeout("no answer within the read windows")
		s.sc.Info("answer timed out",
			slog.String(observability.LogFieldFactID, fr.FactID),
			slog.String(observability.LogFieldErrorCode, string(terr.Code)))
		if s.remaining() <= 0 {
			return fr, EndSessionDeadline
		}
		return fr, ""
	case errors.Is(err, input.ErrClosed):
		return fr, EndInputClosed
	case ctx.Err() != nil:
		return fr, EndCancelled
	default:
		s.sc.Warn("input channel failed",
			slog.String(observability.LogFieldFactID, fr.FactID),
			slog.String("error", err.Error()))
		fr.Outcome = OutcomeIncorrect
		fr.Err = err.Error()
		return fr, ""
	}
}

// consultSemantic asks the semantic judge about a substantive deterministic
// miss. A semantic failure leaves the deterministic verdict in place. The
// returned hint is empty unless the judge offered one that keeps the answer
// hidden.
func (s *Session) consultSemantic(ctx context.Context, fact *review.Fact, v judge.Verdict) (judge.Verdict, string) {
	if v.Correct || v.Reply.Kind != judge.ReplySubstantive || s.t.semantic == nil {
		return v, ""
	}

	jctx, cancel := context.WithTimeout(ctx, timeout.JudgeTimeout)
	defer cancel()
	start := s.now()
	sv, err := s.t.semantic.Judge(jctx, fact.Prompt, fact.Answer, v.Reply.Text)
	s.recordJudge(ctx, judgeSemantic, s.now().Sub(start), err == nil)
	if err != nil {
		terr := trainererrors.JudgeUnavailable("semantic judge failed", err)
		s.sc.Warn("semantic judge unavailable",
			slog.String(observability.LogFieldFactID, fact.ID),
			slog.String(observability.LogFieldErrorCode, string(terr.Code)),
			slog.String("error", err.Error()))
		return v, ""
	}
	if sv == nil {
		return v, ""
	}
	if sv.Correct {
		v.Correct = true
		v.Method = judge.MatchSemantic
		return v, ""
	}
	if sv.Feedback != "" {
		s.sc.Debug("semantic feedback",
			slog.String(observability.LogFieldFactID, fact.ID),
			slog.String("feedback", sv.Feedback))
	}
	return v, safeHint(sv.Hint, fact.Answer)
}

// safeHint drops a hint that would give the answer away.
func safeHint(h, answer string) string {
	h = strings.TrimSpace(h)
	answer = strings.ToLower(strings.TrimSpace(answer))
	if h == "" || answer != "" && strings.Contains(strings.ToLower(h), answer) {
		return ""
	}
	return h
}
