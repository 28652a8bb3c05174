package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"leetcode-srs-bot/internal/domain/schedule"
	"leetcode-srs-bot/internal/interfaces/telegram/handlers/shared"
)

const nothingDueText = "🎉 Great job! You have no problems due for review right now. Check back later!"

// handleReviewFlow shows the next due problem for both commands and callbacks
func (h *BotHandler) handleReviewFlow(ctx context.Context, req *request) error {
	entry, err := h.reviewUseCase.NextDue(ctx, req.user.ID())
	if err != nil {
		return h.fail(req, "Sorry, there was an error getting your problems. Please try again.",
			fmt.Errorf("failed to get next due entry: %w", err))
	}

	if entry == nil {
		return h.respond(req, nothingDueText, shared.CreateNothingDueKeyboard())
	}
	return h.respond(req, shared.FormatQuestionCard(entry), shared.CreateRatingKeyboard(entry))
}

// handleRating processes rating_<entryID>_<n>. The entry travels in the
// callback data, so no per-chat session state is kept.
func (h *BotHandler) handleRating(ctx context.Context, req *request) error {
	entryID, rating, err := shared.ParseRatingCallback(req.data)
	if err != nil {
		return err
	}

	outcome, err := h.reviewUseCase.SubmitReview(ctx, req.user.ID(), entryID, rating)
	switch {
	case errors.Is(err, schedule.ErrEntryNotFound):
		return h.respond(req, "This problem is no longer on your board. Use /review to continue.",
			shared.CreateBackKeyboard())
	case err != nil:
		return h.fail(req, "❌ Error processing review. Please try again with /review",
			fmt.Errorf("failed to process review: %w", err))
	}

	summary := shared.FormatReviewOutcome(outcome)

	next, err := h.reviewUseCase.NextDue(ctx, req.user.ID())
	if err != nil {
		return h.fail(req, summary+"\n\n❌ Error getting the next problem. Please try again with /review",
			fmt.Errorf("failed to get next due entry: %w", err))
	}

	if next == nil {
		return h.respond(req, summary+"\n\n"+nothingDueText, shared.CreateAfterReviewKeyboard())
	}
	return h.respond(req, summary+"\n\n"+shared.FormatQuestionCard(next), shared.CreateRatingKeyboard(next))
}

// topicPrefix marks a board filter as a topic slug, e.g. /board #array
const topicPrefix = "#"

// handleBoard shows the first board page. /board <term> searches titles and
// numbers, /board #<topic-slug> narrows it to one topic.
func (h *BotHandler) handleBoard(ctx context.Context, req *request) error {
	return h.showBoard(ctx, req, strings.TrimSpace(req.args), 0)
}

// handleBoardPage handles board_<page> and board_<page>_<filter>
func (h *BotHandler) handleBoardPage(ctx context.Context, req *request) error {
	page, filter, err := shared.ParsePageCallback(req.data)
	if err != nil {
		return err
	}
	return h.showBoard(ctx, req, filter, page)
}

func (h *BotHandler) showBoard(ctx context.Context, req *request, filter string, page int) error {
	listFilter := schedule.ListFilter{Page: page}
	if slug, ok := strings.CutPrefix(filter, topicPrefix); ok {
		topic, err := h.libraryUseCase.TopicBySlug(ctx, slug)
		if err != nil {
			return h.fail(req, "Sorry, there was an error loading your board.",
				fmt.Errorf("failed to find topic: %w", err))
		}
		if topic == nil {
			return h.respond(req, fmt.Sprintf("Unknown topic %s. Topic filters use the slug, e.g. /board #array",
				shared.EscapeMarkdown(filter)), shared.CreateBackKeyboard())
		}
		listFilter.TopicID = topic.ID
	} else {
		listFilter.Search = filter
	}

	view, err := h.reviewUseCase.Board(ctx, req.user.ID(), listFilter)
	if err != nil {
		return h.fail(req, "Sorry, there was an error loading your board.",
			fmt.Errorf("failed to load board: %w", err))
	}

	if view.Total == 0 && filter != "" {
		return h.respond(req, fmt.Sprintf("🔍 No problems on your board match *%s*.", shared.EscapeMarkdown(filter)),
			shared.CreateBackKeyboard())
	}
	return h.respond(req, shared.FormatBoardText(view, h.clock.Now()), shared.CreateBoardKeyboard(view, filter))
}
