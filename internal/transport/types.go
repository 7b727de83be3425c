//go:generate go run go.uber.org/mock/mockgen -source=types.go -destination=mocks/mock_transport.go -package=mocks
package transport

import (
	"context"
	"errors"
	"strconv"
	"time"
)

// ErrUserNotFound is returned by UserLookup when the platform has no account
// for the given handle or id.
var ErrUserNotFound = errors.New("user not found")

// ErrStillBanned is returned by Kick when the member was removed but the ban
// used to remove them could not be lifted.
var ErrStillBanned = errors.New("member removed but still banned")

type UpdateKind string

const (
	UpdateMessage UpdateKind = "message"
)

type Update struct {
	Kind    UpdateKind
	Message *Message
}

type Message struct {
	ID            int
	ChatID        int64
	ThreadID      int // telegram forum topic thread id (0 if none)
	FromID        int64
	FromUsername  string
	FromFirstName string
	Text          string
	IsGroup       bool
}

type ChatTarget struct {
	ChatID   int64
	ThreadID int
}

type MessageRef struct {
	ChatID    int64
	ThreadID  int
	MessageID int
}

// Parse modes understood by SendOptions.ParseMode.
const (
	ParseModeHTML     = "HTML"
	ParseModeMarkdown = "Markdown"
)

type SendOptions struct {
	ParseMode      string
	DisablePreview bool
}

// User is the subset of a platform account the bot cares about.
type User struct {
	ID        int64
	Username  string
	FirstName string
}

// DisplayName renders "@username", the first name, or the raw id, in that order.
func (u User) DisplayName() string {
	switch {
	case u.Username != "":
		return "@" + u.Username
	case u.FirstName != "":
		return u.FirstName
	default:
		return strconv.FormatInt(u.ID, 10)
	}
}

// Rights lists member capabilities; a zero value denies everything.
type Rights struct {
	CanSendMessages bool
	CanSendMedia    bool
	CanSendPolls    bool
	CanSendOther    bool
	CanAddPreviews  bool
	CanChangeInfo   bool
	CanInviteUsers  bool
	CanPinMessages  bool
}

// NoRights is the restriction applied by a mute.
func NoRights() Rights { return Rights{} }

// Adapter delivers updates and sends replies.
type Adapter interface {
	Start(ctx context.Context, out chan<- Update) error
	Stop(ctx context.Context) error

	SendText(ctx context.Context, to ChatTarget, text string, opt *SendOptions) (MessageRef, error)
}

// UserLookup resolves platform accounts.
type UserLookup interface {
	// LookupUser resolves an "@handle" to an account.
	LookupUser(ctx context.Context, handle string) (User, error)
	// UserInfo fetches an account by id.
	UserInfo(ctx context.Context, id int64) (User, error)
}

// Moderator issues membership actions in a chat.
type Moderator interface {
	// Kick removes a member once; they may rejoin. A wrapped ErrStillBanned
	// means the removal happened but rejoining is still blocked.
	Kick(ctx context.Context, chatID, userID int64) error
	// BanUntil removes a member and blocks rejoining until the given time.
	// A zero time bans permanently.
	BanUntil(ctx context.Context, chatID, userID int64, until time.Time) error
	// Restrict applies rights to a member until the given time.
	Restrict(ctx context.Context, chatID, userID int64, rights Rights, until time.Time) error
}

// Platform is everything the moderation commands need from the messenger.
type Platform interface {
	Adapter
	UserLookup
	Moderator
}

// BotCommand represents a single bot command menu entry.
type BotCommand struct {
	Command     string
	Description string
}

// CommandMenuUpdater is an optional interface that adapters can implement
// to update platform-specific bot command menus (e.g. Telegram /menu list).
type CommandMenuUpdater interface {
	UpdateMenuCommands(ctx context.Context, cmds []BotCommand) error
}
