package bot

import (
	"context"
	"crypto/ecdsa"
	"math/big"

	"github.com/token-launcher/backend/internal/chain"
	"github.com/token-launcher/backend/internal/deployer"
	"github.com/token-launcher/backend/internal/models"
	"github.com/token-launcher/backend/internal/screens"
)

type Kind int

const (
	KindCommand Kind = iota + 1
	KindCallback
	KindText
	KindMembership
)

func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindCallback:
		return "callback"
	case KindText:
		return "text"
	case KindMembership:
		return "membership"
	}
	return "unknown"
}

// Update is a transport-neutral inbound event.
type Update struct {
	Kind     Kind
	UserID   int64
	ChatID   int64
	Username string

	// MessageID is the message a callback button sits on, or the user's own text message.
	MessageID  int
	CallbackID string

	Command string // без слэша
	Data    string
	Text    string

	Joined bool
}

// Messenger is the outbound chat gateway.
type Messenger interface {
	Send(ctx context.Context, chatID int64, s screens.Screen) (int, error)
	Edit(ctx context.Context, chatID int64, messageID int, s screens.Screen) error
	Delete(ctx context.Context, chatID int64, messageID int) error
	SendDocument(ctx context.Context, chatID int64, name string, data []byte) error
	AnswerCallback(ctx context.Context, callbackID string) error
}

// MembershipChecker is optionally implemented by a Messenger that can ask the
// chat service whether a user is in a group.
type MembershipChecker interface {
	IsMember(ctx context.Context, groupChatID, userID int64) (bool, error)
}

// RateLimiter throttles inbound updates per user.
type RateLimiter interface {
	AllowUser(ctx context.Context, userID int64) bool
}

type SessionStore interface {
	Get(ctx context.Context, userID int64) (*models.Session, error)
	Save(ctx context.Context, userID int64, s *models.Session) error
	Create(ctx context.Context, userID int64) (*models.Session, error)
	Delete(ctx context.Context, userID int64) error
}

type AccountStore interface {
	Get(ctx context.Context, userID int64) (*models.Account, error)
	UpsertWallet(ctx context.Context, userID int64, username, address string, key models.EncryptedKey) (*models.Account, error)
	SetGroupMembership(ctx context.Context, userID int64, inGroup bool) error
	RecordDeployment(ctx context.Context, rec *models.TokenRecord) error
	ListTokens(ctx context.Context, userID int64) ([]models.TokenRecord, error)
	GetToken(ctx context.Context, userID, tokenID int64) (*models.TokenRecord, error)
}

type Oracle interface {
	GasPriceAndBlock(ctx context.Context) (chain.GasSnapshot, error)
	Balance(ctx context.Context, address string) (*big.Int, error)
	EthUsdPrice(ctx context.Context) (float64, bool)
}

type Deployer interface {
	Deploy(ctx context.Context, req deployer.Request) (deployer.Result, error)
}

type Vault interface {
	NewWallet() (address string, sealed models.EncryptedKey, err error)
	Decrypt(k models.EncryptedKey) (string, error)
	Signer(k models.EncryptedKey) (*ecdsa.PrivateKey, error)
}
