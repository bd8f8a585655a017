package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/token-launcher/backend/internal/deployer"
	"github.com/token-launcher/backend/internal/events"
	"github.com/token-launcher/backend/internal/models"
	"github.com/token-launcher/backend/internal/screens"
	"go.uber.org/zap"
)

// gate reports whether the session may proceed to deployment, telling the user otherwise.
func (c *Controller) gate(ctx context.Context, t *turn, v models.Variant) (int, bool, error) {
	if f, missing := t.s.MissingForDeploy(); missing {
		return 0, false, c.notify(ctx, t.u.ChatID, screens.MissingField(f))
	}
	id, ok := t.s.MessageID(v.ParamsSlot())
	if !ok {
		if err := c.notify(ctx, t.u.ChatID, screens.TextSessionExpired); err != nil {
			return 0, false, err
		}
		acc, ok, err := c.walletAccount(ctx, t)
		if !ok {
			return 0, false, err
		}
		return 0, false, c.sendTo(ctx, t, models.SlotMainMenu, c.mainMenu(ctx, acc))
	}
	return id, true, nil
}

func (c *Controller) deployGate(v models.Variant) callbackFunc {
	return func(ctx context.Context, t *turn) error {
		id, ok, err := c.gate(ctx, t, v)
		if !ok {
			return err
		}
		return c.msg.Edit(ctx, t.u.ChatID, id, screens.ConfirmDeploy(v))
	}
}

func (c *Controller) confirmDeploy(v models.Variant) callbackFunc {
	return func(ctx context.Context, t *turn) error {
		if _, ok, err := c.gate(ctx, t, v); !ok {
			return err
		}
		if t.s.Deploying != "" {
			c.log.Debug("deployment already running", zap.Int64("user_id", t.u.UserID))
			return c.notify(ctx, t.u.ChatID, screens.TextDeployInProgress)
		}
		acc, ok, err := c.walletAccount(ctx, t)
		if !ok {
			return err
		}
		key, err := c.vault.Signer(acc.PrivateKey)
		if err != nil {
			return fmt.Errorf("unseal key: %w", err)
		}

		msgID := t.u.MessageID
		if err := c.msg.Edit(ctx, t.u.ChatID, msgID, screens.Plain(screens.TextDeploying)); err != nil {
			return fmt.Errorf("show placeholder: %w", err)
		}

		snap := *t.s
		snap.MessageIDs = nil
		snap.CurrentState = ""
		snap.Deploying = ""
		// сохраняется в withSession под тем же локом
		t.s.Deploying = v
		req := deployer.Request{UserID: t.u.UserID, Variant: v, Session: &snap, Key: key}

		c.log.Info("deployment started", zap.Int64("user_id", req.UserID), zap.String("variant", string(v)))
		c.publish(ctx, events.EventDeployStarted, map[string]any{"user_id": req.UserID, "variant": string(v)})

		c.deploys.Add(1)
		go func() {
			defer c.deploys.Done()
			c.runDeploy(t.u.ChatID, msgID, req)
		}()
		return nil
	}
}

const finishTimeout = 10 * time.Second

// runDeploy executes outside the user's lock; it takes the lock again only to finish the session.
func (c *Controller) runDeploy(chatID int64, msgID int, req deployer.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), c.opts.DeployTimeout)
	defer cancel()
	log := c.log.With(zap.Int64("user_id", req.UserID), zap.String("variant", string(req.Variant)))
	defer func() {
		if r := recover(); r != nil {
			log.Error("deploy panic", zap.Any("panic", r))
		}
	}()
	succeeded := false
	defer func() {
		// ctx may already be past the deploy deadline
		fctx, fcancel := context.WithTimeout(context.Background(), finishTimeout)
		defer fcancel()
		c.finishDeploy(fctx, req.UserID, req.Variant, msgID, succeeded)
	}()

	res, err := c.deployer.Deploy(ctx, req)
	if err != nil {
		log.Warn("deployment failed", zap.Error(err))
		c.publish(ctx, events.EventDeployFailed, map[string]any{"user_id": req.UserID, "error": err.Error()})
		if err := c.notify(ctx, chatID, deployErrorText(err)); err != nil {
			log.Error("send deploy error", zap.Error(err))
		}
		return
	}

	rec := req.Session.Snapshot(req.UserID, req.Variant)
	rec.ContractAddress = res.Address
	rec.ContractSource = res.Source.Code
	if err := c.accounts.RecordDeployment(ctx, &rec); err != nil {
		log.Error("record deployment", zap.String("address", res.Address), zap.Error(err))
	}

	verifyIn := int(c.opts.VerifyDelay.Seconds())
	if err := c.msg.Edit(ctx, chatID, msgID, screens.Deployed(res.Address, c.opts.ExplorerURL, verifyIn)); err != nil {
		log.Warn("show deploy result", zap.Error(err))
		_, _ = c.msg.Send(ctx, chatID, screens.Deployed(res.Address, c.opts.ExplorerURL, verifyIn))
	}
	c.publish(ctx, events.EventDeploySucceeded, map[string]any{
		"user_id":  req.UserID,
		"variant":  string(req.Variant),
		"address":  res.Address,
		"tx_hash":  res.TxHash,
		"contract": res.Source.ContractName,
	})
	succeeded = true
}

// finishDeploy drops the in-flight mark so a failed deployment can be retried.
// After success it also forgets the summary message unless the user has already opened a new one.
func (c *Controller) finishDeploy(ctx context.Context, userID int64, v models.Variant, msgID int, succeeded bool) {
	unlock := c.locks.Lock(userID)
	defer unlock()

	s, err := c.sessions.Get(ctx, userID)
	if err != nil {
		return
	}
	changed := false
	if s.Deploying == v {
		s.Deploying = ""
		changed = true
	}
	if id, ok := s.MessageID(v.ParamsSlot()); succeeded && ok && id == msgID {
		s.ClearMessageID(v.ParamsSlot())
		changed = true
	}
	if !changed {
		return
	}
	if err := c.sessions.Save(ctx, userID, s); err != nil {
		c.log.Warn("finish deploy", zap.Int64("user_id", userID), zap.Error(err))
	}
}

func deployErrorText(err error) string {
	switch {
	case errors.Is(err, deployer.ErrInsufficientBalance):
		return screens.TextInsufficientFunds
	case errors.Is(err, deployer.ErrInsufficientGasFunds):
		return screens.TextInsufficientGas
	}
	return screens.DeployError(err)
}
