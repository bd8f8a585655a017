package bot

import (
	"context"
	"fmt"

	"github.com/token-launcher/backend/internal/models"
	"github.com/token-launcher/backend/internal/screens"
	"go.uber.org/zap"
)

// startVariant opens a fresh summary for v and forgets the other flows' messages.
func (c *Controller) startVariant(v models.Variant) callbackFunc {
	return func(ctx context.Context, t *turn) error {
		for _, other := range models.Variants {
			if other != v {
				t.s.ClearMessageID(other.ParamsSlot())
			}
		}
		return c.sendTo(ctx, t, v.ParamsSlot(), screens.Summary(v, t.s, c.costs(ctx)))
	}
}

// openScreen draws id in place of its variant's summary message.
func (c *Controller) openScreen(id models.ScreenID) callbackFunc {
	return func(ctx context.Context, t *turn) error {
		return c.render(ctx, t, id)
	}
}

func (c *Controller) render(ctx context.Context, t *turn, id models.ScreenID) error {
	var costs screens.Costs
	if id == summaryScreen(id.Variant()) {
		costs = c.costs(ctx)
	}
	return c.show(ctx, t, id.Variant().ParamsSlot(), screens.Render(id, t.s, costs))
}

func (c *Controller) openChainPicker(v models.Variant) callbackFunc {
	return func(ctx context.Context, t *turn) error {
		return c.sendTo(ctx, t, models.SlotChooseChain, screens.ChainPicker(v))
	}
}

func (c *Controller) chooseChain(v models.Variant) func(context.Context, *turn, string) error {
	return func(ctx context.Context, t *turn, id string) error {
		opt, ok := models.ChainOptionByID(id)
		if !ok {
			c.log.Debug("unknown chain", zap.Int64("user_id", t.u.UserID), zap.String("chain", id))
			return nil
		}
		_ = c.msg.Delete(ctx, t.u.ChatID, t.u.MessageID)
		t.s.ClearMessageID(models.SlotChooseChain)
		t.s.Chain = opt.ID
		return c.render(ctx, t, summaryScreen(v))
	}
}

// prompt asks for the field behind r and waits for the next text message.
func (c *Controller) prompt(r models.Route) callbackFunc {
	return func(ctx context.Context, t *turn) error {
		if t.s.Awaiting() {
			c.dropPrompt(ctx, t, models.PromptSlot(t.s.CurrentState))
		}
		if err := c.sendTo(ctx, t, r.PromptSlot(), screens.Plain(r.Prompt)); err != nil {
			return err
		}
		t.s.CurrentState = r.State
		c.log.Debug("awaiting input", zap.Int64("user_id", t.u.UserID), zap.String("state", string(r.State)))
		return nil
	}
}

// freeText stores the answer for the awaiting state verbatim and redraws the route's screen.
func (c *Controller) freeText(ctx context.Context, t *turn) error {
	if !t.s.Awaiting() {
		return nil
	}
	state := t.s.CurrentState
	t.s.CurrentState = ""
	r, ok := models.RouteForState(state)
	if !ok {
		c.log.Warn("unknown awaiting state", zap.Int64("user_id", t.u.UserID), zap.String("state", string(state)))
		return nil
	}
	if err := t.s.Set(r.Field, t.u.Text); err != nil {
		return fmt.Errorf("set %s: %w", r.Field, err)
	}

	c.dropPrompt(ctx, t, r.PromptSlot())
	_ = c.msg.Delete(ctx, t.u.ChatID, t.u.MessageID)

	return c.render(ctx, t, r.Screen)
}

// dropPrompt deletes the prompt message recorded in slot, if any.
func (c *Controller) dropPrompt(ctx context.Context, t *turn, slot models.Slot) {
	if id, ok := t.s.MessageID(slot); ok {
		_ = c.msg.Delete(ctx, t.u.ChatID, id)
		t.s.ClearMessageID(slot)
	}
}
