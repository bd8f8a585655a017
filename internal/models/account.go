package models

import "time"

// PointsPerDeployment is credited to the account on every successful deploy.
const PointsPerDeployment = 1000

// EncryptedKey is a private key sealed by the key vault, both parts hex-encoded.
type EncryptedKey struct {
	IV      string `json:"iv"`
	Content string `json:"content"`
}

type Account struct {
	UserID        int64        `json:"user_id"`
	Username      string       `json:"username"`
	WalletAddress string       `json:"wallet_address"`
	PrivateKey    EncryptedKey `json:"-"`
	Points        int64        `json:"points"`
	IsInGroup     bool         `json:"is_in_group"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func (a *Account) HasWallet() bool {
	return a != nil && a.WalletAddress != ""
}

// TokenRecord is an immutable snapshot of a deployed token.
type TokenRecord struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	Variant         Variant   `json:"variant"`
	Chain           string    `json:"chain"`
	Name            string    `json:"name"`
	Symbol          string    `json:"symbol"`
	Supply          string    `json:"supply"`
	BaseURI         string    `json:"baseuri"`
	Website         string    `json:"website"`
	Telegram        string    `json:"telegram"`
	Twitter         string    `json:"twitter"`
	Description     string    `json:"description"`
	ContractAddress string    `json:"contract_address"`
	ContractSource  string    `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
}

// Snapshot copies the identity and social fields of a session into a token record.
func (s *Session) Snapshot(userID int64, variant Variant) TokenRecord {
	return TokenRecord{
		UserID:      userID,
		Variant:     variant,
		Chain:       s.Chain,
		Name:        s.Name,
		Symbol:      s.Symbol,
		Supply:      s.Supply,
		BaseURI:     s.BaseURI,
		Website:     s.Website,
		Telegram:    s.Telegram,
		Twitter:     s.Twitter,
		Description: s.Description,
	}
}

// ChainOption is one row of the chain picker; ID is both the callback suffix and
// the value stored in the session.
type ChainOption struct {
	ID    string
	Label string
}

var ChainOptions = []ChainOption{
	{ID: "Blast-Test", Label: "Blast-Test"},
	{ID: "Blast-main", Label: "Blast-main (Soon)"},
}

func ChainOptionByID(id string) (ChainOption, bool) {
	for _, c := range ChainOptions {
		if c.ID == id {
			return c, true
		}
	}
	return ChainOption{}, false
}
