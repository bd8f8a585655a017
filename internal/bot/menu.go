package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/token-launcher/backend/internal/events"
	"github.com/token-launcher/backend/internal/models"
	"github.com/token-launcher/backend/internal/repositories"
	"github.com/token-launcher/backend/internal/screens"
	"go.uber.org/zap"
)

// start resets the conversation: the old session is dropped and a fresh one created.
func (c *Controller) start(ctx context.Context, t *turn) error {
	uid := t.u.UserID
	if err := c.sessions.Delete(ctx, uid); err != nil {
		c.log.Warn("delete session", zap.Int64("user_id", uid), zap.Error(err))
	}
	s, err := c.sessions.Create(ctx, uid)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	t.s = s

	acc, err := c.account(ctx, uid)
	if err != nil {
		return err
	}
	if !c.inGroup(ctx, uid, acc) {
		_, err := c.msg.Send(ctx, t.u.ChatID, screens.JoinGroup(c.opts.GroupHandle, c.opts.GroupInviteURL))
		return err
	}
	if !acc.HasWallet() {
		_, err := c.msg.Send(ctx, t.u.ChatID, screens.Start())
		return err
	}
	return c.sendTo(ctx, t, models.SlotMainMenu, c.mainMenu(ctx, acc))
}

// account returns nil without error when the user has no record yet.
func (c *Controller) account(ctx context.Context, userID int64) (*models.Account, error) {
	acc, err := c.accounts.Get(ctx, userID)
	if errors.Is(err, repositories.ErrAccountNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return acc, nil
}

func (c *Controller) inGroup(ctx context.Context, userID int64, acc *models.Account) bool {
	if c.opts.GroupChatID == 0 {
		return true
	}
	if acc != nil && acc.IsInGroup {
		return true
	}
	checker, ok := c.msg.(MembershipChecker)
	if !ok {
		return false
	}
	member, err := checker.IsMember(ctx, c.opts.GroupChatID, userID)
	if err != nil {
		c.log.Warn("membership check failed", zap.Int64("user_id", userID), zap.Error(err))
		return false
	}
	if member {
		_ = c.accounts.SetGroupMembership(ctx, userID, true)
	}
	return member
}

func (c *Controller) membership(ctx context.Context, u Update) error {
	if c.opts.GroupChatID == 0 || u.ChatID != c.opts.GroupChatID {
		return nil
	}
	if err := c.accounts.SetGroupMembership(ctx, u.UserID, u.Joined); err != nil {
		return fmt.Errorf("set group membership: %w", err)
	}
	c.log.Info("group membership changed", zap.Int64("user_id", u.UserID), zap.Bool("joined", u.Joined))
	return nil
}

func (c *Controller) mainMenu(ctx context.Context, acc *models.Account) screens.Screen {
	v := screens.MainMenuView{Address: acc.WalletAddress, Points: acc.Points}
	if snap, err := c.oracle.GasPriceAndBlock(ctx); err != nil {
		c.log.Warn("gas price unavailable", zap.Error(err))
	} else {
		v.GasPrice, v.BlockNumber = snap.GasPrice, snap.BlockNumber
	}
	if bal, err := c.oracle.Balance(ctx, acc.WalletAddress); err != nil {
		c.log.Warn("balance unavailable", zap.String("address", acc.WalletAddress), zap.Error(err))
	} else {
		v.Balance = bal
	}
	v.EthUSD, v.HasPrice = c.oracle.EthUsdPrice(ctx)
	return screens.MainMenu(v)
}

// walletAccount loads the account and falls back to the start screen when there is no wallet.
func (c *Controller) walletAccount(ctx context.Context, t *turn) (*models.Account, bool, error) {
	acc, err := c.account(ctx, t.u.UserID)
	if err != nil {
		return nil, false, err
	}
	if !acc.HasWallet() {
		_, err := c.msg.Send(ctx, t.u.ChatID, screens.Start())
		return nil, false, err
	}
	return acc, true, nil
}

func (c *Controller) createWallet(ctx context.Context, t *turn) error {
	address, sealed, err := c.vault.NewWallet()
	if err != nil {
		return fmt.Errorf("generate wallet: %w", err)
	}
	acc, err := c.accounts.UpsertWallet(ctx, t.u.UserID, t.u.Username, address, sealed)
	if err != nil {
		return fmt.Errorf("save wallet: %w", err)
	}
	c.log.Info("wallet created", zap.Int64("user_id", t.u.UserID), zap.String("address", address))
	c.publish(ctx, events.EventWalletCreated, map[string]any{"user_id": t.u.UserID, "address": address})

	sc := c.mainMenu(ctx, acc)
	if err := c.msg.Edit(ctx, t.u.ChatID, t.u.MessageID, sc); err != nil {
		return c.sendTo(ctx, t, models.SlotMainMenu, sc)
	}
	t.s.SetMessageID(models.SlotMainMenu, t.u.MessageID)
	return nil
}

func (c *Controller) goHome(ctx context.Context, t *turn) error {
	acc, ok, err := c.walletAccount(ctx, t)
	if !ok {
		return err
	}
	return c.sendTo(ctx, t, models.SlotMainMenu, c.mainMenu(ctx, acc))
}

func (c *Controller) createTokens(ctx context.Context, t *turn) error {
	return c.sendTo(ctx, t, models.SlotTokenTypes, screens.TokenTypes())
}

func (c *Controller) settings(ctx context.Context, t *turn) error {
	return c.show(ctx, t, models.SlotMainMenu, screens.Settings())
}

func (c *Controller) showPrivateKey(ctx context.Context, t *turn) error {
	acc, err := c.account(ctx, t.u.UserID)
	if err != nil {
		return err
	}
	sc := screens.Plain(screens.TextKeyNotFound)
	if acc.HasWallet() {
		key, err := c.vault.Decrypt(acc.PrivateKey)
		if err != nil {
			c.log.Error("decrypt private key", zap.Int64("user_id", t.u.UserID), zap.Error(err))
		} else {
			sc = screens.PrivateKey(key)
		}
	}
	return c.msg.Edit(ctx, t.u.ChatID, t.u.MessageID, sc)
}

// returnMainMenu drops the session and turns the clicked message into the main menu.
func (c *Controller) returnMainMenu(ctx context.Context, t *turn) error {
	if err := c.sessions.Delete(ctx, t.u.UserID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	t.deleted = true

	acc, err := c.account(ctx, t.u.UserID)
	if err != nil {
		return err
	}
	if !acc.HasWallet() {
		_, err := c.msg.Send(ctx, t.u.ChatID, screens.Start())
		return err
	}
	return c.msg.Edit(ctx, t.u.ChatID, t.u.MessageID, c.mainMenu(ctx, acc))
}

func (c *Controller) manageTokens(ctx context.Context, t *turn) error {
	tokens, err := c.accounts.ListTokens(ctx, t.u.UserID)
	if err != nil {
		return fmt.Errorf("list tokens: %w", err)
	}
	_, err = c.msg.Send(ctx, t.u.ChatID, screens.ManageTokens(tokens))
	return err
}

func (c *Controller) findToken(ctx context.Context, t *turn, suffix string) (*models.TokenRecord, error) {
	id, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil {
		return nil, repositories.ErrTokenNotFound
	}
	return c.accounts.GetToken(ctx, t.u.UserID, id)
}

func (c *Controller) tokenDetails(ctx context.Context, t *turn, suffix string) error {
	tok, err := c.findToken(ctx, t, suffix)
	if errors.Is(err, repositories.ErrTokenNotFound) {
		return c.notify(ctx, t.u.ChatID, screens.TextTokenNotFound)
	}
	if err != nil {
		return fmt.Errorf("get token: %w", err)
	}
	_, err = c.msg.Send(ctx, t.u.ChatID, screens.TokenDetails(*tok, c.opts.ExplorerURL))
	return err
}

func (c *Controller) downloadCode(ctx context.Context, t *turn, suffix string) error {
	tok, err := c.findToken(ctx, t, suffix)
	if errors.Is(err, repositories.ErrTokenNotFound) {
		return c.notify(ctx, t.u.ChatID, screens.TextTokenNotFound)
	}
	if err != nil {
		return fmt.Errorf("get token: %w", err)
	}
	if tok.ContractSource == "" {
		return c.notify(ctx, t.u.ChatID, screens.TextSourceUnavailable)
	}
	return c.msg.SendDocument(ctx, t.u.ChatID, "contract.txt", []byte(tok.ContractSource))
}
