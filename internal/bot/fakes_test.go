package bot

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/token-launcher/backend/internal/chain"
	"github.com/token-launcher/backend/internal/contracts"
	"github.com/token-launcher/backend/internal/deployer"
	"github.com/token-launcher/backend/internal/events"
	"github.com/token-launcher/backend/internal/models"
	"github.com/token-launcher/backend/internal/repositories"
	"github.com/token-launcher/backend/internal/screens"
	"go.uber.org/zap"
)

type sentMessage struct {
	ChatID int64
	ID     int
	Screen screens.Screen
}

type editedMessage struct {
	ChatID int64
	ID     int
	Screen screens.Screen
}

type fakeMessenger struct {
	mu       sync.Mutex
	nextID   int
	sent     []sentMessage
	edited   []editedMessage
	deleted  []int
	docs     map[string][]byte
	answered int
	members  map[int64]bool
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{nextID: 100, docs: map[string][]byte{}}
}

func (m *fakeMessenger) Send(_ context.Context, chatID int64, s screens.Screen) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.sent = append(m.sent, sentMessage{ChatID: chatID, ID: m.nextID, Screen: s})
	return m.nextID, nil
}

func (m *fakeMessenger) Edit(_ context.Context, chatID int64, id int, s screens.Screen) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edited = append(m.edited, editedMessage{ChatID: chatID, ID: id, Screen: s})
	return nil
}

func (m *fakeMessenger) Delete(_ context.Context, _ int64, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *fakeMessenger) SendDocument(_ context.Context, _ int64, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[name] = data
	return nil
}

func (m *fakeMessenger) AnswerCallback(context.Context, string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answered++
	return nil
}

func (m *fakeMessenger) lastSent() sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMessage{}
	}
	return m.sent[len(m.sent)-1]
}

func (m *fakeMessenger) lastEdit() editedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.edited) == 0 {
		return editedMessage{}
	}
	return m.edited[len(m.edited)-1]
}

func (m *fakeMessenger) counts() (sent, edited int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent), len(m.edited)
}

// memberMessenger also answers group membership queries.
type memberMessenger struct {
	*fakeMessenger
}

func (m memberMessenger) IsMember(_ context.Context, _, userID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.members[userID], nil
}

// fakeSessions stores encoded documents so callers never share memory.
type fakeSessions struct {
	mu   sync.Mutex
	docs map[int64][]byte
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{docs: map[int64][]byte{}}
}

func (f *fakeSessions) Get(_ context.Context, id int64) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.docs[id]
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	var s models.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	if s.MessageIDs == nil {
		s.MessageIDs = map[models.Slot]int{}
	}
	return &s, nil
}

func (f *fakeSessions) Save(_ context.Context, id int64, s *models.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[id] = raw
	return nil
}

func (f *fakeSessions) Create(ctx context.Context, id int64) (*models.Session, error) {
	s := models.NewSession()
	return s, f.Save(ctx, id, s)
}

func (f *fakeSessions) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs, id)
	return nil
}

func (f *fakeSessions) raw(id int64) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]byte(nil), f.docs[id]...)
}

type fakeAccounts struct {
	mu       sync.Mutex
	accounts map[int64]*models.Account
	tokens   []models.TokenRecord
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{accounts: map[int64]*models.Account{}}
}

func (f *fakeAccounts) Get(_ context.Context, id int64) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[id]
	if !ok {
		return nil, repositories.ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAccounts) UpsertWallet(_ context.Context, id int64, username, address string, key models.EncryptedKey) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[id]
	if !ok {
		a = &models.Account{UserID: id, IsInGroup: true}
		f.accounts[id] = a
	}
	a.Username, a.WalletAddress, a.PrivateKey = username, address, key
	cp := *a
	return &cp, nil
}

func (f *fakeAccounts) SetGroupMembership(_ context.Context, id int64, in bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[id]
	if !ok {
		if !in {
			return nil
		}
		a = &models.Account{UserID: id}
		f.accounts[id] = a
	}
	a.IsInGroup = in
	return nil
}

func (f *fakeAccounts) RecordDeployment(_ context.Context, rec *models.TokenRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[rec.UserID]
	if !ok {
		return repositories.ErrAccountNotFound
	}
	a.Points += models.PointsPerDeployment
	rec.ID = int64(len(f.tokens) + 1)
	f.tokens = append(f.tokens, *rec)
	return nil
}

func (f *fakeAccounts) ListTokens(_ context.Context, id int64) ([]models.TokenRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.TokenRecord
	for _, t := range f.tokens {
		if t.UserID == id {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeAccounts) GetToken(_ context.Context, userID, tokenID int64) (*models.TokenRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens {
		if t.UserID == userID && t.ID == tokenID {
			cp := t
			return &cp, nil
		}
	}
	return nil, repositories.ErrTokenNotFound
}

type fakeOracle struct{}

func (fakeOracle) GasPriceAndBlock(context.Context) (chain.GasSnapshot, error) {
	return chain.GasSnapshot{GasPrice: big.NewInt(1_000_000_000), BlockNumber: 77}, nil
}

func (fakeOracle) Balance(context.Context, string) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (fakeOracle) EthUsdPrice(context.Context) (float64, bool) {
	return 3000, true
}

type fakeDeployer struct {
	mu    sync.Mutex
	calls []deployer.Request
	err   error
}

func (f *fakeDeployer) Deploy(_ context.Context, req deployer.Request) (deployer.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if f.err != nil {
		return deployer.Result{}, f.err
	}
	return deployer.Result{
		Address: "0x00000000000000000000000000000000000000aa",
		TxHash:  "0xfeed",
		Source:  contracts.Source{ContractName: "StandardToken1", FileName: "StandardToken1.sol", Code: "contract X {}"},
	}, nil
}

func (f *fakeDeployer) requests() []deployer.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]deployer.Request(nil), f.calls...)
}

// fakeVault stores the key in the clear.
type fakeVault struct{}

func (fakeVault) NewWallet() (string, models.EncryptedKey, error) {
	k, err := crypto.GenerateKey()
	if err != nil {
		return "", models.EncryptedKey{}, err
	}
	addr := crypto.PubkeyToAddress(k.PublicKey).Hex()
	return addr, models.EncryptedKey{Content: hexutil.Encode(crypto.FromECDSA(k))}, nil
}

func (fakeVault) Decrypt(k models.EncryptedKey) (string, error) {
	if k.Content == "" {
		return "", errors.New("empty key")
	}
	return k.Content, nil
}

func (fakeVault) Signer(k models.EncryptedKey) (*ecdsa.PrivateKey, error) {
	if len(k.Content) < 2 {
		return nil, errors.New("empty key")
	}
	return crypto.HexToECDSA(k.Content[2:])
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type harness struct {
	c        *Controller
	msg      *fakeMessenger
	sessions *fakeSessions
	accounts *fakeAccounts
	deployer *fakeDeployer
	pub      *recordingPublisher
}

func newHarness(opts Options) *harness {
	h := &harness{
		msg:      newFakeMessenger(),
		sessions: newFakeSessions(),
		accounts: newFakeAccounts(),
		deployer: &fakeDeployer{},
		pub:      &recordingPublisher{},
	}
	if opts.ExplorerURL == "" {
		opts.ExplorerURL = "https://testnet.blastscan.io"
	}
	h.c = NewController(h.msg, h.sessions, h.accounts, fakeOracle{}, h.deployer, fakeVault{}, h.pub, opts, zap.NewNop())
	return h
}
