package adapter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	kit "modbot/internal/transport"
	logx "modbot/pkg/logx"
)

// Username returns the bot's own @username without the marker, or "" when
// the adapter was built offline.
func (a *Adapter) Username() string {
	if a.bot == nil || a.bot.Me == nil {
		return ""
	}
	return a.bot.Me.Username
}

func (a *Adapter) LookupUser(ctx context.Context, handle string) (kit.User, error) {
	if err := ctx.Err(); err != nil {
		return kit.User{}, err
	}
	handle = strings.TrimSpace(handle)
	if !strings.HasPrefix(handle, "@") || len(handle) == 1 {
		return kit.User{}, kit.ErrUserNotFound
	}
	chat, err := a.bot.ChatByUsername(handle)
	if err != nil {
		return kit.User{}, lookupErr(err)
	}
	return userFromChat(chat), nil
}

func (a *Adapter) UserInfo(ctx context.Context, id int64) (kit.User, error) {
	if err := ctx.Err(); err != nil {
		return kit.User{}, err
	}
	chat, err := a.bot.ChatByID(id)
	if err != nil {
		return kit.User{}, lookupErr(err)
	}
	return userFromChat(chat), nil
}

func lookupErr(err error) error {
	if errors.Is(err, tele.ErrChatNotFound) {
		return fmt.Errorf("%w: %v", kit.ErrUserNotFound, err)
	}
	return err
}

func userFromChat(c *tele.Chat) kit.User {
	if c == nil {
		return kit.User{}
	}
	return kit.User{ID: c.ID, Username: c.Username, FirstName: c.FirstName}
}

// Kick removes a member without banning them: ban, then lift the ban. The
// unban is tried twice; if both fail the member is out but still banned.
func (a *Adapter) Kick(ctx context.Context, chatID, userID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	chat := &tele.Chat{ID: chatID}
	user := &tele.User{ID: userID}
	if err := a.bot.Ban(chat, &tele.ChatMember{User: user}); err != nil {
		return err
	}
	err := a.bot.Unban(chat, user, true)
	if err != nil {
		a.log.Warn("kick: lifting ban failed, retrying", logx.Int64("chat_id", chatID), logx.Int64("user_id", userID), logx.Err(err))
		err = a.bot.Unban(chat, user, true)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", kit.ErrStillBanned, err)
	}
	return nil
}

func (a *Adapter) BanUntil(ctx context.Context, chatID, userID int64, until time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return a.bot.Ban(&tele.Chat{ID: chatID}, &tele.ChatMember{
		User:            &tele.User{ID: userID},
		RestrictedUntil: unixOrForever(until),
	})
}

func (a *Adapter) Restrict(ctx context.Context, chatID, userID int64, rights kit.Rights, until time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return a.bot.Restrict(&tele.Chat{ID: chatID}, &tele.ChatMember{
		User:            &tele.User{ID: userID},
		RestrictedUntil: unixOrForever(until),
		Rights:          toTeleRights(rights),
	})
}

// unixOrForever maps the zero time to Telegram's "forever" (until_date 0).
func unixOrForever(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func toTeleRights(r kit.Rights) tele.Rights {
	return tele.Rights{
		CanSendMessages: r.CanSendMessages,
		CanSendMedia:    r.CanSendMedia,
		CanSendPolls:    r.CanSendPolls,
		CanSendOther:    r.CanSendOther,
		CanAddPreviews:  r.CanAddPreviews,
		CanChangeInfo:   r.CanChangeInfo,
		CanInviteUsers:  r.CanInviteUsers,
		CanPinMessages:  r.CanPinMessages,
	}
}

var (
	_ kit.Platform           = (*Adapter)(nil)
	_ kit.CommandMenuUpdater = (*Adapter)(nil)
)
