// Package dialog implements the conversation state machine: it maps a
// user's session state and an incoming text to the next state, the
// repository calls to make and the replies to send.
package dialog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"englishcard/internal/domain"
	"englishcard/internal/metrics"
	"englishcard/internal/service"
	"englishcard/internal/session"

	"go.uber.org/zap"
)

// IncomingMessage is a text received from a user
type IncomingMessage struct {
	SenderID  int64
	ChatID    int64
	Text      string
	Username  string
	FirstName string
	LastName  string
}

// OutgoingMessage is a reply for the transport to render.
// Choices, when set, are shown as selectable buttons in order.
type OutgoingMessage struct {
	ChatID         int64
	Text           string
	Choices        []string
	RemoveKeyboard bool
}

// Dispatcher drives the per-user dialog
type Dispatcher struct {
	users    *service.UserService
	words    *service.WordService
	quiz     *service.QuizService
	sessions session.Store
	locker   *session.Locker
	metrics  metrics.Recorder
	logger   *zap.Logger
}

// NewDispatcher creates a new dispatcher. A nil recorder disables metrics.
func NewDispatcher(
	users *service.UserService,
	words *service.WordService,
	quiz *service.QuizService,
	sessions session.Store,
	recorder metrics.Recorder,
	logger *zap.Logger,
) *Dispatcher {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Dispatcher{
		users:    users,
		words:    words,
		quiz:     quiz,
		sessions: sessions,
		locker:   session.NewLocker(),
		metrics:  recorder,
		logger:   logger,
	}
}

// opError tags a storage failure with the operation that caused it
type opError struct {
	op  string
	err error
}

func (e *opError) Error() string { return e.op + ": " + e.err.Error() }
func (e *opError) Unwrap() error { return e.err }

func failed(op string, err error) error {
	return &opError{op: op, err: err}
}

// Start registers the user on first contact and shows the main menu.
// It works from any state and always leaves the dialog idle.
func (d *Dispatcher) Start(ctx context.Context, msg IncomingMessage) []OutgoingMessage {
	unlock := d.locker.Lock(msg.SenderID)
	defer unlock()

	r := &reply{chatID: msg.ChatID}

	user, created, err := d.users.Register(ctx, &domain.User{
		TelegramID: msg.SenderID,
		Username:   msg.Username,
		FirstName:  msg.FirstName,
		LastName:   msg.LastName,
	})
	if err != nil {
		d.fail(ctx, msg, failed("register", err), r)
		return r.messages
	}

	if created {
		d.logger.Info("User registered",
			zap.Int64("user_id", msg.SenderID),
			zap.String("username", msg.Username),
		)
		r.text(fmt.Sprintf(msgWelcomeNew, user.DisplayName()))
	} else {
		r.text(fmt.Sprintf(msgWelcomeBack, user.DisplayName()))
	}

	if err := d.sessions.Clear(ctx, msg.SenderID); err != nil {
		d.logger.Warn("Failed to clear session", zap.Int64("user_id", msg.SenderID), zap.Error(err))
	}
	r.mainMenu()

	return r.messages
}

// Handle processes one text message according to the user's current state
func (d *Dispatcher) Handle(ctx context.Context, msg IncomingMessage) []OutgoingMessage {
	unlock := d.locker.Lock(msg.SenderID)
	defer unlock()

	start := time.Now()
	defer func() { d.metrics.ObserveHandleDuration(time.Since(start)) }()

	r := &reply{chatID: msg.ChatID}

	state, err := d.sessions.Get(ctx, msg.SenderID)
	if err != nil {
		d.fail(ctx, msg, failed("load_session", err), r)
		return r.messages
	}

	text := strings.TrimSpace(msg.Text)
	next, err := d.transition(ctx, msg.SenderID, text, state, r)
	if err != nil {
		d.fail(ctx, msg, err, r)
		return r.messages
	}

	if err := d.sessions.Set(ctx, msg.SenderID, next); err != nil {
		// replies built so far describe a state we could not save
		r = &reply{chatID: msg.ChatID}
		d.fail(ctx, msg, failed("save_session", err), r)
		return r.messages
	}

	d.metrics.RecordTransition(string(state.State), string(next.State))
	d.logger.Debug("Dialog transition",
		zap.Int64("user_id", msg.SenderID),
		zap.String("from", string(state.State)),
		zap.String("to", string(next.State)),
	)

	return r.messages
}

// fail reports a fault to the user and drops the dialog back to idle
func (d *Dispatcher) fail(ctx context.Context, msg IncomingMessage, err error, r *reply) {
	op := "unknown"
	var oe *opError
	if errors.As(err, &oe) {
		op = oe.op
	}

	d.logger.Error("Failed to handle message",
		zap.Int64("user_id", msg.SenderID),
		zap.String("op", op),
		zap.Error(err),
	)
	d.metrics.RecordFailure(op)

	if clearErr := d.sessions.Clear(ctx, msg.SenderID); clearErr != nil {
		d.logger.Warn("Failed to reset session", zap.Int64("user_id", msg.SenderID), zap.Error(clearErr))
	}

	r.text(msgFailure)
	r.mainMenu()
}

func (d *Dispatcher) transition(ctx context.Context, userID int64, text string, state *domain.StateData, r *reply) (*domain.StateData, error) {
	switch state.State {
	case domain.StateWaitingAnswer:
		return d.onAnswer(ctx, userID, text, state, r)
	case domain.StateWaitingWord:
		return d.onEnglishWord(text, r)
	case domain.StateWaitingTranslation:
		return d.onTranslation(ctx, userID, text, state, r)
	case domain.StateWaitingDeleteChoice:
		return d.onDeleteChoice(ctx, userID, text, state, r)
	default:
		return d.onIdle(ctx, userID, text, r)
	}
}

func (d *Dispatcher) onIdle(ctx context.Context, userID int64, text string, r *reply) (*domain.StateData, error) {
	switch text {
	case BtnStartTraining:
		return d.askQuestion(ctx, userID, r)
	case BtnAddWord:
		r.removeKeyboard(msgEnterEnglish)
		return domain.WaitingWordState(), nil
	case BtnDeleteWord:
		return d.showDeleteMenu(ctx, userID, r)
	case BtnBack:
		r.mainMenu()
		return domain.IdleState(), nil
	default:
		r.text(msgNotUnderstood)
		return domain.IdleState(), nil
	}
}

func (d *Dispatcher) askQuestion(ctx context.Context, telegramID int64, r *reply) (*domain.StateData, error) {
	user, err := d.resolveUser(ctx, telegramID, r)
	if user == nil {
		return domain.IdleState(), err
	}

	question, err := d.quiz.BuildQuestion(ctx, user.ID)
	switch {
	case errors.Is(err, domain.ErrNoWordsAvailable):
		d.metrics.RecordQuestionUnavailable("no_words")
		r.text(msgNoWords)
		r.mainMenu()
		return domain.IdleState(), nil
	case errors.Is(err, domain.ErrInsufficientVocabulary):
		d.metrics.RecordQuestionUnavailable("insufficient_vocabulary")
		r.text(msgTooFewWords)
		r.mainMenu()
		return domain.IdleState(), nil
	case err != nil:
		return nil, failed("build_question", err)
	}

	choices := make([]string, 0, len(question.Choices)+1)
	choices = append(choices, question.Choices...)
	choices = append(choices, BtnBack)
	r.choices(fmt.Sprintf(msgQuestion, question.Prompt), choices)

	return domain.WaitingAnswerState(question.CorrectWordID), nil
}

func (d *Dispatcher) onAnswer(ctx context.Context, userID int64, text string, state *domain.StateData, r *reply) (*domain.StateData, error) {
	if text == BtnBack {
		r.mainMenu()
		return domain.IdleState(), nil
	}
	// Menu buttons interrupt the quiz
	if isMenuCommand(text) {
		return d.onIdle(ctx, userID, text, r)
	}

	correct, err := d.quiz.CheckAnswer(ctx, state.WordID, text)
	if errors.Is(err, domain.ErrWordNotFound) {
		r.text(msgWordNotFound)
		r.mainMenu()
		return domain.IdleState(), nil
	}
	if err != nil {
		return nil, failed("check_answer", err)
	}

	d.metrics.RecordQuizAnswer(correct)
	if !correct {
		r.text(msgIncorrect)
		return state, nil
	}

	r.removeKeyboard(msgCorrect)
	r.mainMenu()
	return domain.IdleState(), nil
}

func (d *Dispatcher) onEnglishWord(text string, r *reply) (*domain.StateData, error) {
	if text == "" {
		r.text(msgNotUnderstood)
		r.mainMenu()
		return domain.IdleState(), nil
	}

	r.text(msgEnterRussian)
	return domain.WaitingTranslationState(text), nil
}

func (d *Dispatcher) onTranslation(ctx context.Context, telegramID int64, text string, state *domain.StateData, r *reply) (*domain.StateData, error) {
	if text == "" {
		r.text(msgNotUnderstood)
		r.mainMenu()
		return domain.IdleState(), nil
	}

	user, err := d.resolveUser(ctx, telegramID, r)
	if user == nil {
		return domain.IdleState(), err
	}

	english := state.CurrentWord
	added, err := d.words.AddWord(ctx, user.ID, english, text)
	if err != nil {
		return nil, failed("add_word", err)
	}
	d.metrics.RecordWordAdded(added.Result.String())

	switch added.Result {
	case domain.AddResultAlreadyPresent:
		r.text(fmt.Sprintf(msgWordExists, english))
	default:
		d.logger.Info("Word added",
			zap.Int64("user_id", telegramID),
			zap.String("word", english),
			zap.String("translation", text),
		)
		r.text(fmt.Sprintf(msgWordAdded, english, added.Count))
	}
	r.mainMenu()

	return domain.IdleState(), nil
}

func (d *Dispatcher) showDeleteMenu(ctx context.Context, telegramID int64, r *reply) (*domain.StateData, error) {
	user, err := d.resolveUser(ctx, telegramID, r)
	if user == nil {
		return domain.IdleState(), err
	}

	words, err := d.words.ListWords(ctx, user.ID)
	if err != nil {
		return nil, failed("list_words", err)
	}
	if len(words) == 0 {
		r.text(msgNothingToDelete)
		r.mainMenu()
		return domain.IdleState(), nil
	}

	choices := make([]string, 0, len(words)+1)
	for _, w := range words {
		choices = append(choices, w.English)
	}
	choices = append(choices, BtnCancel)
	r.choices(msgChooseDelete, choices)

	return domain.WaitingDeleteChoiceState(words), nil
}

func (d *Dispatcher) onDeleteChoice(ctx context.Context, telegramID int64, text string, state *domain.StateData, r *reply) (*domain.StateData, error) {
	if text == BtnCancel {
		r.removeKeyboard(msgDeleteCancelled)
		r.mainMenu()
		return domain.IdleState(), nil
	}

	// Only what the menu offered can be deleted, even if the list changed since
	candidate, ok := state.FindCandidate(text)
	if !ok {
		r.removeKeyboard(msgDeleteNotFound)
		r.mainMenu()
		return domain.IdleState(), nil
	}

	user, err := d.resolveUser(ctx, telegramID, r)
	if user == nil {
		return domain.IdleState(), err
	}

	if err := d.words.RemoveWord(ctx, user.ID, candidate.WordID); err != nil {
		return nil, failed("remove_word", err)
	}
	d.metrics.RecordWordRemoved()

	r.removeKeyboard(fmt.Sprintf(msgWordDeleted, candidate.English))
	r.mainMenu()
	return domain.IdleState(), nil
}

// resolveUser returns the registered user. A nil user with a nil error
// means the user was told to /start first.
func (d *Dispatcher) resolveUser(ctx context.Context, telegramID int64, r *reply) (*domain.User, error) {
	user, err := d.users.Resolve(ctx, telegramID)
	if errors.Is(err, domain.ErrUserNotFound) {
		r.removeKeyboard(msgRegisterFirst)
		return nil, nil
	}
	if err != nil {
		return nil, failed("resolve_user", err)
	}
	return user, nil
}

// reply accumulates the outgoing messages of one transition
type reply struct {
	chatID   int64
	messages []OutgoingMessage
}

func (r *reply) text(text string) {
	r.messages = append(r.messages, OutgoingMessage{ChatID: r.chatID, Text: text})
}

func (r *reply) removeKeyboard(text string) {
	r.messages = append(r.messages, OutgoingMessage{ChatID: r.chatID, Text: text, RemoveKeyboard: true})
}

func (r *reply) choices(text string, choices []string) {
	r.messages = append(r.messages, OutgoingMessage{ChatID: r.chatID, Text: text, Choices: choices})
}

func (r *reply) mainMenu() {
	r.choices(msgChooseAction, MainMenu())
}
