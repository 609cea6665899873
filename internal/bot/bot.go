package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"deadline-tracker/internal/config"
	"deadline-tracker/internal/model"
	"deadline-tracker/internal/pkg/logger"
	"deadline-tracker/internal/repository"
	"deadline-tracker/internal/service"
	"deadline-tracker/internal/studyplan"
)

const (
	cbCompletePrefix = "complete:"
	cbDeletePrefix   = "delete:"
)

// digestWorkers bounds concurrent per-user digest builds.
const digestWorkers = 4

type confirmationRequest struct {
	deadlineID uint
}

// Bot connects the Telegram API with the tracker services.
type Bot struct {
	api           *tgbotapi.BotAPI
	userRepo      *repository.UserRepository
	deadlines     *service.DeadlineService
	courses       *service.CourseService
	insights      *service.InsightService
	digest        *service.DigestService
	planner       *studyplan.Planner
	config        *config.Config
	now           service.Clock
	log           *logger.Logger
	conversations map[int64]*conversationState
	confirmations map[int64]confirmationRequest
	mu            sync.Mutex
}

// Services groups the collaborators the bot drives.
type Services struct {
	Users     *repository.UserRepository
	Deadlines *service.DeadlineService
	Courses   *service.CourseService
	Insights  *service.InsightService
	Digest    *service.DigestService
	// Planner is optional; without it /plan lists priorities only. Build one
	// with studyplan.NewPlanner over any studyplan.Generator (an LLM client).
	Planner *studyplan.Planner
}

func New(token string, svc Services, cfg *config.Config, now service.Clock, log *logger.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	if err := tgbotapi.SetLogger(log.Std()); err != nil {
		return nil, fmt.Errorf("set bot logger: %w", err)
	}

	log = log.With("service", "Bot")
	log.Info("bot authorized", "account", api.Self.UserName)

	return &Bot{
		api:           api,
		userRepo:      svc.Users,
		deadlines:     svc.Deadlines,
		courses:       svc.Courses,
		insights:      svc.Insights,
		digest:        svc.Digest,
		planner:       svc.Planner,
		config:        cfg,
		now:           now,
		log:           log,
		conversations: make(map[int64]*conversationState),
		confirmations: make(map[int64]confirmationRequest),
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.log.Info("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				b.log.Error("handle callback", "error", err)
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				b.log.Error("handle message", "error", err)
			}
		}
	}

	return ctx.Err()
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if !msg.IsCommand() && isCancelDialogInput(msg.Text) {
		b.clearConversation(msg.From.ID)
		b.clearConfirmation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ Input cancelled.")
	}

	if !msg.IsCommand() {
		if handled, err := b.handleMenuAlias(ctx, msg); handled {
			return err
		}
	}

	if msg.IsCommand() {
		b.log.Debug("command", "from", msg.From.ID, "command", msg.Command())
		return b.handleCommand(ctx, msg)
	}

	if pending, ok := b.getConfirmation(msg.From.ID); ok {
		return b.handleConfirmationResponse(ctx, msg, pending)
	}

	if b.hasConversation(msg.From.ID) {
		return b.handleConversation(ctx, msg)
	}

	return b.sendText(msg.Chat.ID, "I didn't get that. Use /add to log a deadline or /help for the command list.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, msg)
	case "help":
		return b.sendText(msg.Chat.ID, helpText)
	case "add":
		return b.startAddConversation(ctx, msg)
	case "deadlines":
		return b.handleListDeadlines(ctx, msg)
	case "done":
		return b.handleCompletion(ctx, msg, true)
	case "undo":
		return b.handleCompletion(ctx, msg, false)
	case "delete":
		return b.handleDelete(ctx, msg)
	case "edit":
		return b.handleEdit(ctx, msg)
	case "course":
		return b.handleSetCourse(ctx, msg)
	case "courses":
		return b.handleCourses(ctx, msg)
	case "week":
		return b.handleWeek(ctx, msg)
	case "summary":
		return b.handleSummary(ctx, msg)
	case "weeks":
		return b.handleWeeks(ctx, msg)
	case "alerts":
		return b.handleAlerts(ctx, msg)
	case "plan":
		return b.handlePlan(ctx, msg)
	case "cancel":
		b.clearConversation(msg.From.ID)
		b.clearConfirmation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ Input cancelled.")
	default:
		return b.sendText(msg.Chat.ID, "Unknown command. See /help.")
	}
}

const helpText = "ℹ️ <b>Commands</b>\n" +
	"• /add — log a deadline step by step\n" +
	"• /deadlines — open deadlines with buttons to complete or delete\n" +
	"• /done &lt;id&gt; · /undo &lt;id&gt; — toggle completion\n" +
	"• /edit &lt;id&gt; &lt;title|course|type|due|hours|notes&gt; &lt;value&gt;\n" +
	"• /delete &lt;id&gt; — delete a deadline\n" +
	"• /course &lt;code&gt; &lt;credits&gt; [name] — set course credits\n" +
	"• /courses — list courses\n" +
	"• /week — this week's workload\n" +
	"• /summary — current, peak and coming weeks\n" +
	"• /weeks — every upcoming week\n" +
	"• /alerts — overloaded weeks\n" +
	"• /plan — study priorities for the coming weeks\n" +
	"• /cancel — cancel current input"

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return err
	}
	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "there"
	}
	text := fmt.Sprintf("👋 Hi, %s!\n<b>I track your deadlines and warn you about overloaded weeks.</b>\n\n%s", escape(name), helpText)
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleListDeadlines(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	return b.sendDeadlineList(ctx, msg.Chat.ID, user)
}

func (b *Bot) handleCompletion(ctx context.Context, msg *tgbotapi.Message, completed bool) error {
	id, err := parseID(msg.CommandArguments())
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Give the deadline ID: /%s 12", msg.Command()))
	}
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	return b.setCompletedAndReply(ctx, msg.Chat.ID, user, id, completed)
}

func (b *Bot) setCompletedAndReply(ctx context.Context, chatID int64, user *model.User, id uint, completed bool) error {
	d, err := b.deadlines.SetCompleted(ctx, user.ID, id, completed)
	if reply, handled := b.mutationError(err); handled {
		return b.sendText(chatID, reply)
	}
	verb := "✅ Completed"
	if !completed {
		verb = "↩️ Reopened"
	}
	text := fmt.Sprintf("%s «%s».", verb, escape(normalizeTitle(d.Title)))
	if errors.Is(err, service.ErrWorkloadStale) {
		text += "\n" + staleNotice
	}
	return b.sendText(chatID, text)
}

func (b *Bot) handleDelete(ctx context.Context, msg *tgbotapi.Message) error {
	id, err := parseID(msg.CommandArguments())
	if err != nil {
		return b.sendText(msg.Chat.ID, "Give the deadline ID: /delete 12")
	}
	return b.askDeleteConfirmation(ctx, msg.Chat.ID, msg.From, id)
}

func (b *Bot) askDeleteConfirmation(ctx context.Context, chatID int64, from *tgbotapi.User, id uint) error {
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return err
	}
	d, err := b.deadlines.Get(ctx, user.ID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return b.sendText(chatID, "Deadline not found.")
		}
		return err
	}
	b.setConfirmation(from.ID, confirmationRequest{deadlineID: d.ID})
	text := fmt.Sprintf("Delete «%s» (#%d)?", escape(normalizeTitle(d.Title)), d.ID)
	return b.sendWithReplyMarkup(chatID, text, confirmKeyboard())
}

func (b *Bot) handleConfirmationResponse(ctx context.Context, msg *tgbotapi.Message, req confirmationRequest) error {
	text := strings.TrimSpace(msg.Text)
	switch {
	case isConfirmInput(text):
		b.clearConfirmation(msg.From.ID)
		return b.deleteAndRefresh(ctx, msg.Chat.ID, msg.From, req.deadlineID)
	case isCancelInput(text):
		b.clearConfirmation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "Kept it.")
	default:
		return b.sendWithReplyMarkup(msg.Chat.ID, "Confirm or cancel the deletion.", confirmKeyboard())
	}
}

func (b *Bot) deleteAndRefresh(ctx context.Context, chatID int64, from *tgbotapi.User, id uint) error {
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return err
	}
	d, err := b.deadlines.Get(ctx, user.ID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return b.sendText(chatID, "Deadline not found or already deleted.")
		}
		return b.sendText(chatID, fmt.Sprintf("Error: %s", escape(err.Error())))
	}

	err = b.deadlines.Delete(ctx, user.ID, id)
	if reply, handled := b.mutationError(err); handled {
		return b.sendText(chatID, reply)
	}
	text := fmt.Sprintf("🗑 Deleted «%s».", escape(normalizeTitle(d.Title)))
	if errors.Is(err, service.ErrWorkloadStale) {
		text += "\n" + staleNotice
	}
	if err := b.sendText(chatID, text); err != nil {
		return err
	}
	return b.sendDeadlineList(ctx, chatID, user)
}

func (b *Bot) handleEdit(ctx context.Context, msg *tgbotapi.Message) error {
	fields := strings.Fields(msg.CommandArguments())
	if len(fields) < 3 {
		return b.sendText(msg.Chat.ID, "Usage: /edit &lt;id&gt; &lt;title|course|type|due|hours|notes&gt; &lt;value&gt;")
	}
	id, err := parseID(fields[0])
	if err != nil {
		return b.sendText(msg.Chat.ID, "Deadline ID must be a number.")
	}
	value := strings.Join(fields[2:], " ")

	var patch service.DeadlinePatch
	switch strings.ToLower(fields[1]) {
	case "title":
		patch.Title = &value
	case "course":
		patch.Course = &value
	case "type":
		patch.Type = &value
	case "notes":
		patch.Notes = &value
	case "due":
		due, err := parseDue(value, b.location())
		if err != nil {
			return b.sendText(msg.Chat.ID, "Use <code>2026-11-30</code> or <code>2026-11-30 14:00</code>.")
		}
		patch.DueAt = &due
	case "hours":
		h, err := parseHours(value)
		if err != nil {
			return b.sendText(msg.Chat.ID, "Hours must be a non-negative number.")
		}
		patch.EstimatedHours = &h
	default:
		return b.sendText(msg.Chat.ID, "Unknown field. Use title, course, type, due, hours or notes.")
	}

	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	d, err := b.deadlines.Update(ctx, user.ID, id, patch)
	if reply, handled := b.mutationError(err); handled {
		return b.sendText(msg.Chat.ID, reply)
	}
	text := "✏️ Updated:\n" + formatDeadline(*d, b.now())
	if errors.Is(err, service.ErrWorkloadStale) {
		text += "\n" + staleNotice
	}
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleSetCourse(ctx context.Context, msg *tgbotapi.Message) error {
	fields := strings.Fields(msg.CommandArguments())
	if len(fields) < 2 {
		return b.sendText(msg.Chat.ID, "Usage: /course &lt;code&gt; &lt;credits&gt; [name], e.g. /course CS401 4 Compilers")
	}
	credits, err := strconv.Atoi(fields[1])
	if err != nil {
		return b.sendText(msg.Chat.ID, "Credits must be a whole number.")
	}
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	course, err := b.courses.Set(ctx, user.ID, fields[0], strings.Join(fields[2:], " "), credits)
	if reply, handled := b.mutationError(err); handled {
		return b.sendText(msg.Chat.ID, reply)
	}
	text := fmt.Sprintf("🎓 %s now counts %d credits.", escape(course.Code), course.Credits)
	if errors.Is(err, service.ErrWorkloadStale) {
		text += "\n" + staleNotice
	}
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleCourses(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	courses, err := b.courses.List(ctx, user.ID)
	if err != nil {
		return b.sendText(msg.Chat.ID, genericFailure)
	}
	if len(courses) == 0 {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("No courses yet. Unknown courses count %d credits. Add one with /course.", b.config.Policy.DefaultCredits))
	}
	var sb strings.Builder
	sb.WriteString("🎓 <b>Courses</b>\n")
	for _, c := range courses {
		sb.WriteString(fmt.Sprintf("• <b>%s</b>", escape(c.Code)))
		if c.Name != "" {
			sb.WriteString(" " + escape(c.Name))
		}
		sb.WriteString(fmt.Sprintf(" · %d credits\n", c.Credits))
	}
	return b.sendText(msg.Chat.ID, strings.TrimSpace(sb.String()))
}

func (b *Bot) handleWeek(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	week, err := b.insights.CurrentWeek(ctx, user.ID)
	if err != nil {
		b.log.Error("current week", "user_id", user.ID, "error", err)
		return b.sendText(msg.Chat.ID, genericFailure)
	}
	if week == nil {
		return b.sendText(msg.Chat.ID, "🟢 Nothing due for the rest of this week.")
	}
	return b.sendText(msg.Chat.ID, "📅 <b>This week</b>\n"+service.FormatWeek(*week))
}

func (b *Bot) handleSummary(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	sum, err := b.insights.Summary(ctx, user.ID, b.config.HorizonWeeks)
	if err != nil {
		b.log.Error("summary", "user_id", user.ID, "error", err)
		return b.sendText(msg.Chat.ID, genericFailure)
	}
	return b.sendText(msg.Chat.ID, service.FormatSummary(sum))
}

func (b *Bot) handleWeeks(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	weeks, err := b.insights.AllWeeks(ctx, user.ID)
	if err != nil {
		b.log.Error("all weeks", "user_id", user.ID, "error", err)
		return b.sendText(msg.Chat.ID, genericFailure)
	}
	if len(weeks) == 0 {
		return b.sendText(msg.Chat.ID, "No upcoming deadlines.")
	}
	var sb strings.Builder
	sb.WriteString("🗓 <b>Upcoming weeks</b>\n")
	for _, w := range weeks {
		sb.WriteString(service.FormatWeek(w) + "\n")
	}
	return b.sendText(msg.Chat.ID, strings.TrimSpace(sb.String()))
}

func (b *Bot) handleAlerts(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	alerts, err := b.insights.Alerts(ctx, user.ID)
	if err != nil {
		b.log.Error("alerts", "user_id", user.ID, "error", err)
		return b.sendText(msg.Chat.ID, genericFailure)
	}
	if len(alerts) == 0 {
		return b.sendText(msg.Chat.ID, "🟢 No overloaded weeks ahead.")
	}
	return b.sendText(msg.Chat.ID, strings.TrimSpace("🚨 <b>Overload alerts</b>\n"+service.FormatAlerts(alerts)))
}

func (b *Bot) handlePlan(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	items, err := b.insights.PlanContext(ctx, user.ID, b.config.HorizonWeeks)
	if err != nil {
		b.log.Error("plan context", "user_id", user.ID, "error", err)
		return b.sendText(msg.Chat.ID, genericFailure)
	}
	if len(items) == 0 {
		return b.sendText(msg.Chat.ID, "No upcoming deadlines to plan for.")
	}

	if b.planner != nil {
		plan, err := b.planner.Plan(ctx, items, b.now())
		if err == nil {
			return b.sendText(msg.Chat.ID, formatPlan(plan))
		}
		b.log.Warn("study plan generation failed, falling back to priorities", "user_id", user.ID, "error", err)
	}
	return b.sendText(msg.Chat.ID, formatPriorities(items, b.now()))
}

// SendAlertDigests sends the overload digest to every user with a high or
// critical week. Users are processed concurrently; one user's failure does
// not stop the others.
func (b *Bot) SendAlertDigests(ctx context.Context) error {
	users, err := b.userRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	log := b.log.With("run_id", uuid.NewString())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(digestWorkers)
	var sent int
	var sentMu sync.Mutex
	for _, user := range users {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			text, ok, err := b.digest.Digest(gctx, user)
			if err != nil {
				log.Warn("build digest", "user_id", user.ID, "error", err)
				return nil
			}
			if !ok {
				return nil
			}
			if err := b.sendText(user.TelegramID, text); err != nil {
				log.Warn("send digest", "user_id", user.ID, "error", err)
				return nil
			}
			sentMu.Lock()
			sent++
			sentMu.Unlock()
			return nil
		})
	}
	err = g.Wait()
	log.Info("alert digests sent", "users", len(users), "sent", sent)
	return err
}

const (
	genericFailure = "Something went wrong, please try again."
	staleNotice    = "⚠️ Saved, but the workload view could not be refreshed yet. It will catch up on the next change."
)

// mutationError maps a mutation error to a reply. handled is false for nil
// and ErrWorkloadStale, where the mutation itself succeeded.
func (b *Bot) mutationError(err error) (string, bool) {
	switch {
	case err == nil, errors.Is(err, service.ErrWorkloadStale):
		return "", false
	case errors.Is(err, gorm.ErrRecordNotFound):
		return "Not found.", true
	case errors.Is(err, service.ErrInvalidInput):
		return escape(strings.TrimPrefix(err.Error(), service.ErrInvalidInput.Error()+": ")), true
	default:
		b.log.Error("mutation failed", "error", err)
		return genericFailure, true
	}
}

func (b *Bot) location() *time.Location {
	if b.config != nil && b.config.Location != nil {
		return b.config.Location
	}
	return time.Local
}

func (b *Bot) ensureUser(ctx context.Context, from *tgbotapi.User) (*model.User, error) {
	return b.userRepo.UpsertFromTelegram(ctx, from.ID, from.FirstName, from.LastName, from.UserName)
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) getConfirmation(userID int64) (confirmationRequest, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	req, ok := b.confirmations[userID]
	return req, ok
}

func (b *Bot) setConfirmation(userID int64, req confirmationRequest) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.confirmations[userID] = req
}

func (b *Bot) clearConfirmation(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.confirmations, userID)
}

func (b *Bot) sendDeadlineList(ctx context.Context, chatID int64, user *model.User) error {
	open, err := b.deadlines.ListOpen(ctx, user.ID)
	if err != nil {
		b.log.Error("list deadlines", "user_id", user.ID, "error", err)
		return b.sendText(chatID, genericFailure)
	}
	if len(open) == 0 {
		return b.sendText(chatID, "No open deadlines. Add one with /add.")
	}

	now := b.now()
	var sb strings.Builder
	sb.WriteString("📋 <b>Open deadlines</b>\n\n")
	var buttons [][]tgbotapi.InlineKeyboardButton
	for _, d := range open {
		sb.WriteString(formatDeadline(d, now))
		buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("✅ #%d · %s", d.ID, shortTitle(d.Title, 20)), fmt.Sprintf("%s%d", cbCompletePrefix, d.ID)),
			tgbotapi.NewInlineKeyboardButtonData("🗑", fmt.Sprintf("%s%d", cbDeletePrefix, d.ID)),
		))
	}

	msg := tgbotapi.NewMessage(chatID, strings.TrimSpace(sb.String()))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err = b.api.Send(msg)
	return err
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil {
		return nil
	}
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.log.Warn("callback ack", "error", err)
	}

	switch {
	case strings.HasPrefix(cb.Data, cbCompletePrefix):
		id, err := parseID(strings.TrimPrefix(cb.Data, cbCompletePrefix))
		if err != nil {
			return nil
		}
		user, err := b.ensureUser(ctx, cb.From)
		if err != nil {
			return err
		}
		return b.setCompletedAndReply(ctx, cb.Message.Chat.ID, user, id, true)
	case strings.HasPrefix(cb.Data, cbDeletePrefix):
		id, err := parseID(strings.TrimPrefix(cb.Data, cbDeletePrefix))
		if err != nil {
			return nil
		}
		return b.askDeleteConfirmation(ctx, cb.Message.Chat.ID, cb.From, id)
	default:
		return nil
	}
}

func (b *Bot) handleMenuAlias(ctx context.Context, msg *tgbotapi.Message) (bool, error) {
	switch strings.TrimSpace(strings.ToLower(msg.Text)) {
	case strings.ToLower(menuLabelAdd):
		return true, b.startAddConversation(ctx, msg)
	case strings.ToLower(menuLabelDeadlines):
		return true, b.handleListDeadlines(ctx, msg)
	case strings.ToLower(menuLabelSummary):
		return true, b.handleSummary(ctx, msg)
	case strings.ToLower(menuLabelAlerts):
		return true, b.handleAlerts(ctx, msg)
	default:
		return false, nil
	}
}

func parseID(raw string) (uint, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(value), nil
}

func escape(s string) string {
	return html.EscapeString(s)
}
