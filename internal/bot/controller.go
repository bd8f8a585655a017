package bot

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/token-launcher/backend/internal/events"
	"github.com/token-launcher/backend/internal/models"
	"github.com/token-launcher/backend/internal/screens"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

type Options struct {
	ExplorerURL    string
	GroupChatID    int64 // 0 отключает проверку
	GroupHandle    string
	GroupInviteURL string
	VerifyDelay    time.Duration
	DeployTimeout  time.Duration
	MaxConcurrent  int
	RequestTimeout time.Duration
	Limiter        RateLimiter // nil = без лимита
}

// turn is one update being handled under the user's lock.
type turn struct {
	u       Update
	s       *models.Session
	deleted bool
}

type callbackFunc func(ctx context.Context, t *turn) error

type prefixRoute struct {
	prefix string
	fn     func(ctx context.Context, t *turn, suffix string) error
}

type Controller struct {
	msg       Messenger
	sessions  SessionStore
	accounts  AccountStore
	oracle    Oracle
	deployer  Deployer
	vault     Vault
	publisher events.Publisher
	opts      Options
	log       *zap.Logger

	locks   *userLocks
	sem     *semaphore.Weighted
	exact   map[string]callbackFunc
	prefix  []prefixRoute
	updates sync.WaitGroup
	deploys sync.WaitGroup
}

func NewController(
	msg Messenger,
	sessions SessionStore,
	accounts AccountStore,
	oracle Oracle,
	dep Deployer,
	vault Vault,
	publisher events.Publisher,
	opts Options,
	log *zap.Logger,
) *Controller {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 64
	}
	if opts.DeployTimeout <= 0 {
		opts.DeployTimeout = 10 * time.Minute
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	c := &Controller{
		msg:       msg,
		sessions:  sessions,
		accounts:  accounts,
		oracle:    oracle,
		deployer:  dep,
		vault:     vault,
		publisher: publisher,
		opts:      opts,
		log:       log,
		locks:     newUserLocks(),
		sem:       semaphore.NewWeighted(int64(opts.MaxConcurrent)),
	}
	c.registerRoutes()
	return c
}

func (c *Controller) registerRoutes() {
	c.exact = map[string]callbackFunc{
		screens.ActionCreateWallet:     c.createWallet,
		screens.ActionGoHome:           c.goHome,
		screens.ActionCreateTokens:     c.createTokens,
		screens.ActionCreateStandard:   c.startVariant(models.VariantStandard),
		screens.ActionCreateCustom:     c.startVariant(models.VariantCustom),
		screens.ActionCreateERC404:     c.startVariant(models.VariantERC404),
		screens.ActionSetSocials:       c.openScreen(models.ScreenSocials),
		screens.ActionSetSocialsCustom: c.openScreen(models.ScreenSocialsCustom),
		screens.ActionSetBuyTax:        c.openScreen(models.ScreenBuyTax),
		screens.ActionSetSellTax:       c.openScreen(models.ScreenSellTax),
		screens.ActionSetLimit:         c.openScreen(models.ScreenLimits),
		screens.ActionManageTokens:     c.manageTokens,
		screens.ActionSettings:         c.settings,
		screens.ActionShowPrivateKey:   c.showPrivateKey,
		screens.ActionReturnMainMenu:   c.returnMainMenu,
	}
	for v, a := range screens.AllVariantActions() {
		c.exact[a.SetChain] = c.openChainPicker(v)
		c.exact[a.Back] = c.openScreen(summaryScreen(v))
		c.exact[a.Deploy] = c.deployGate(v)
		c.exact[a.Confirm] = c.confirmDeploy(v)
		c.prefix = append(c.prefix, prefixRoute{a.ChoosePrefix, c.chooseChain(v)})
	}
	for _, r := range models.Routes {
		c.exact[r.Action] = c.prompt(r)
	}
	c.prefix = append(c.prefix,
		prefixRoute{screens.PrefixTokenDetails, c.tokenDetails},
		prefixRoute{screens.PrefixDownloadCode, c.downloadCode},
	)
}

func summaryScreen(v models.Variant) models.ScreenID {
	switch v {
	case models.VariantCustom:
		return models.ScreenCustom
	case models.VariantERC404:
		return models.ScreenERC404
	}
	return models.ScreenStandard
}

// Run consumes updates until ctx is done or the channel closes, then waits for
// in-flight handlers. Deployments keep running; see Wait.
func (c *Controller) Run(ctx context.Context, updates <-chan Update) error {
	defer c.updates.Wait()
	for {
		select {
		case <-ctx.Done():
			return nil
		case u, ok := <-updates:
			if !ok {
				return nil
			}
			if err := c.sem.Acquire(ctx, 1); err != nil {
				return nil
			}
			c.updates.Add(1)
			go func() {
				defer c.updates.Done()
				defer c.sem.Release(1)
				c.Handle(ctx, u)
			}()
		}
	}
}

// Wait blocks until all background deployments have finished.
func (c *Controller) Wait() {
	c.deploys.Wait()
}

// Handle processes one update. Panics are recovered and logged.
func (c *Controller) Handle(ctx context.Context, u Update) {
	log := c.log.With(zap.Int64("user_id", u.UserID), zap.Int64("chat_id", u.ChatID), zap.Stringer("kind", u.Kind))
	defer func() {
		if r := recover(); r != nil {
			log.Error("update handler panic", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, c.opts.RequestTimeout)
	defer cancel()

	if u.Kind != KindMembership && c.opts.Limiter != nil && !c.opts.Limiter.AllowUser(ctx, u.UserID) {
		if u.CallbackID != "" {
			_ = c.msg.AnswerCallback(ctx, u.CallbackID)
		}
		log.Debug("update rate limited")
		return
	}

	var err error
	switch u.Kind {
	case KindMembership:
		err = c.membership(ctx, u)
	case KindCommand:
		err = c.withSession(ctx, u, true, c.command)
	case KindCallback:
		if u.CallbackID != "" {
			_ = c.msg.AnswerCallback(ctx, u.CallbackID)
		}
		err = c.withSession(ctx, u, true, c.callback)
	case KindText:
		if strings.HasPrefix(u.Text, "/") {
			return
		}
		err = c.withSession(ctx, u, false, c.freeText)
	}
	if err != nil {
		log.Error("update failed", zap.String("action", u.Data), zap.Error(err))
		if u.Kind != KindMembership {
			_, _ = c.msg.Send(ctx, u.ChatID, screens.Plain(screens.TextTryAgain))
		}
	}
}

// withSession loads the session under the user's lock, runs fn and persists the
// result. A missing or unreadable session is replaced by a fresh one; when
// proceed is false the fresh session is saved and fn is skipped.
func (c *Controller) withSession(ctx context.Context, u Update, proceed bool, fn func(context.Context, *turn) error) error {
	unlock := c.locks.Lock(u.UserID)
	defer unlock()

	t := &turn{u: u}
	s, err := c.sessions.Get(ctx, u.UserID)
	if err != nil {
		if !errors.Is(err, models.ErrSessionNotFound) {
			c.log.Warn("session read failed, starting over", zap.Int64("user_id", u.UserID), zap.Error(err))
		}
		if s, err = c.sessions.Create(ctx, u.UserID); err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		if !proceed {
			return nil
		}
	}
	t.s = s

	fnErr := fn(ctx, t)
	if t.deleted {
		return fnErr
	}
	if err := c.sessions.Save(ctx, u.UserID, t.s); err != nil {
		return errors.Join(fnErr, fmt.Errorf("save session: %w", err))
	}
	return fnErr
}

func (c *Controller) callback(ctx context.Context, t *turn) error {
	data := t.u.Data
	if fn, ok := c.exact[data]; ok {
		return fn(ctx, t)
	}
	for _, p := range c.prefix {
		if suffix, ok := strings.CutPrefix(data, p.prefix); ok {
			return p.fn(ctx, t, suffix)
		}
	}
	c.log.Debug("unknown callback", zap.Int64("user_id", t.u.UserID), zap.String("action", data))
	return nil
}

func (c *Controller) command(ctx context.Context, t *turn) error {
	if t.u.Command != "start" {
		return nil
	}
	return c.start(ctx, t)
}

// show edits the message recorded in slot, or sends a new one and records it.
func (c *Controller) show(ctx context.Context, t *turn, slot models.Slot, sc screens.Screen) error {
	if id, ok := t.s.MessageID(slot); ok {
		err := c.msg.Edit(ctx, t.u.ChatID, id, sc)
		if err == nil {
			return nil
		}
		c.log.Debug("edit failed, sending new message", zap.String("slot", string(slot)), zap.Error(err))
	}
	id, err := c.msg.Send(ctx, t.u.ChatID, sc)
	if err != nil {
		return fmt.Errorf("send %s: %w", slot, err)
	}
	t.s.SetMessageID(slot, id)
	return nil
}

// sendTo always sends a new message and records it in slot.
func (c *Controller) sendTo(ctx context.Context, t *turn, slot models.Slot, sc screens.Screen) error {
	id, err := c.msg.Send(ctx, t.u.ChatID, sc)
	if err != nil {
		return fmt.Errorf("send %s: %w", slot, err)
	}
	t.s.SetMessageID(slot, id)
	return nil
}

func (c *Controller) notify(ctx context.Context, chatID int64, text string) error {
	_, err := c.msg.Send(ctx, chatID, screens.Plain(text))
	return err
}

func (c *Controller) publish(ctx context.Context, typ string, payload map[string]any) {
	if err := c.publisher.Publish(ctx, events.StreamDeploy, events.Event{Type: typ, Payload: payload}); err != nil {
		c.log.Warn("publish event", zap.String("type", typ), zap.Error(err))
	}
}

func (c *Controller) costs(ctx context.Context) screens.Costs {
	snap, err := c.oracle.GasPriceAndBlock(ctx)
	if err != nil {
		c.log.Warn("gas price unavailable", zap.Error(err))
	}
	return screens.CostsFor(snap.GasPrice)
}
