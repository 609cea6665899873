package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"deadline-tracker/internal/service"
)

type conversationStage int

const (
	stageNone conversationStage = iota
	stageTitle
	stageCourse
	stageType
	stageDue
	stageHours
	stageNotes
)

type conversationState struct {
	stage conversationStage
	input service.DeadlineInput
}

func (b *Bot) startAddConversation(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return err
	}
	b.log.Debug("start add conversation", "from", msg.From.ID)
	b.setConversation(msg.From.ID, &conversationState{stage: stageTitle})
	return b.sendWithReplyMarkup(msg.Chat.ID, "🆕 New deadline.\n<b>Step 1:</b> what is it called?", cancelKeyboard())
}

func (b *Bot) handleConversation(ctx context.Context, msg *tgbotapi.Message) error {
	state := b.getConversation(msg.From.ID)
	if state == nil {
		return nil
	}

	text := strings.TrimSpace(msg.Text)
	switch state.stage {
	case stageTitle:
		if text == "" {
			return b.sendWithReplyMarkup(msg.Chat.ID, "The title can't be empty.", cancelKeyboard())
		}
		state.input.Title = text
		state.stage = stageCourse
		return b.sendWithReplyMarkup(msg.Chat.ID, "🎓 <b>Step 2:</b> which course? Send its code or name (or skip).", skipKeyboard())
	case stageCourse:
		if !isSkipInput(text) {
			state.input.Course = text
		}
		state.stage = stageType
		return b.sendWithReplyMarkup(msg.Chat.ID, "🏷 <b>Step 3:</b> what kind of deadline is it?", typeKeyboard())
	case stageType:
		if !isSkipInput(text) {
			state.input.Type = text
		}
		state.stage = stageDue
		return b.sendWithReplyMarkup(msg.Chat.ID, "⏰ <b>Step 4:</b> when is it due? <code>2026-11-30</code> or <code>2026-11-30 14:00</code>.", cancelKeyboard())
	case stageDue:
		due, err := parseDue(text, b.location())
		if err != nil {
			return b.sendWithReplyMarkup(msg.Chat.ID, "Can't read that date. Use <code>2026-11-30</code> or <code>2026-11-30 14:00</code>.", cancelKeyboard())
		}
		state.input.DueAt = &due
		state.stage = stageHours
		return b.sendWithReplyMarkup(msg.Chat.ID, "⏳ <b>Step 5:</b> how many hours of work do you expect? (e.g. 6 or 2.5)", cancelKeyboard())
	case stageHours:
		h, err := parseHours(text)
		if err != nil {
			return b.sendWithReplyMarkup(msg.Chat.ID, "Hours must be a non-negative number.", cancelKeyboard())
		}
		state.input.EstimatedHours = &h
		state.stage = stageNotes
		return b.sendWithReplyMarkup(msg.Chat.ID, "📝 <b>Step 6:</b> any notes? (or skip)", skipKeyboard())
	case stageNotes:
		if !isSkipInput(text) {
			state.input.Notes = text
		}
		err := b.finishDeadlineCreation(ctx, msg.From, state.input, msg.Chat.ID)
		b.clearConversation(msg.From.ID)
		return err
	default:
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "Conversation reset. Start again with /add.")
	}
}

func (b *Bot) finishDeadlineCreation(ctx context.Context, from *tgbotapi.User, input service.DeadlineInput, chatID int64) error {
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return err
	}

	d, err := b.deadlines.Create(ctx, user.ID, input)
	if reply, handled := b.mutationError(err); handled {
		return b.sendText(chatID, "Couldn't save the deadline: "+reply)
	}

	var summary strings.Builder
	summary.WriteString("✅ <b>Deadline saved</b>\n")
	summary.WriteString(fmt.Sprintf("• <b>ID:</b> %d\n", d.ID))
	summary.WriteString(fmt.Sprintf("• <b>Title:</b> %s\n", escape(normalizeTitle(d.Title))))
	if d.Course != "" {
		summary.WriteString(fmt.Sprintf("• <b>Course:</b> %s\n", escape(d.Course)))
	}
	if d.Type != "" {
		summary.WriteString(fmt.Sprintf("• <b>Type:</b> %s\n", escape(d.Type)))
	}
	summary.WriteString(fmt.Sprintf("• <b>Due:</b> %s\n", d.DueAt.In(b.location()).Format(dueLayout)))
	summary.WriteString(fmt.Sprintf("• <b>Hours:</b> %s\n", formatHours(d.EstimatedHours)))
	if errors.Is(err, service.ErrWorkloadStale) {
		summary.WriteString(staleNotice)
	}

	msg := tgbotapi.NewMessage(chatID, strings.TrimSpace(summary.String()))
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(msg); err != nil {
		return err
	}
	return b.sendDeadlineList(ctx, chatID, user)
}

func (b *Bot) setConversation(userID int64, state *conversationState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversations[userID] = state
}

func (b *Bot) getConversation(userID int64) *conversationState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversations[userID]
}

func (b *Bot) hasConversation(userID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.conversations[userID]
	return ok
}

func (b *Bot) clearConversation(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conversations, userID)
}
