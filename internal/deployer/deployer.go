package deployer

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/token-launcher/backend/internal/chain"
	"github.com/token-launcher/backend/internal/contracts"
	"github.com/token-launcher/backend/internal/models"
	"go.uber.org/zap"
)

var (
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrInsufficientGasFunds = errors.New("insufficient funds for gas")
	ErrCompilation          = errors.New("compilation failed")
)

const (
	DeployGasLimit = 10_000_000
	WorkDirPrefix  = "User_"
)

// MinBalance is required in the deployer wallet before anything is compiled.
var MinBalance = chain.MilliEther(30)

// Backend is what an ethclient offers for deploying and balance checks.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

type Config struct {
	WorkDir      string
	ChainID      int64
	VerifierURL  string
	ForgeTimeout time.Duration
	VerifyDelay  time.Duration
}

type Request struct {
	UserID  int64
	Variant models.Variant
	Session *models.Session
	Key     *ecdsa.PrivateKey
}

type Result struct {
	Address string
	TxHash  string
	Source  contracts.Source
}

type Deployer struct {
	cfg      Config
	backend  Backend
	compiler Compiler
	log      *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(cfg Config, backend Backend, compiler Compiler, log *zap.Logger) *Deployer {
	ctx, cancel := context.WithCancel(context.Background())
	return &Deployer{
		cfg:      cfg,
		backend:  backend,
		compiler: compiler,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Close cancels pending verifications and waits for their cleanup.
func (d *Deployer) Close() {
	d.cancel()
	d.wg.Wait()
}

// Deploy generates, compiles and deploys the contract, then schedules verification.
// The working directory is removed on failure or after verification.
func (d *Deployer) Deploy(ctx context.Context, req Request) (Result, error) {
	log := d.log.With(zap.Int64("user_id", req.UserID), zap.String("variant", string(req.Variant)))

	src, err := contracts.Generate(req.Variant, req.UserID, req.Session)
	if err != nil {
		return Result{}, err
	}

	from := crypto.PubkeyToAddress(req.Key.PublicKey)
	balance, err := d.backend.BalanceAt(ctx, from, nil)
	if err != nil {
		return Result{}, fmt.Errorf("get balance: %w", err)
	}
	if balance.Cmp(MinBalance) < 0 {
		return Result{}, ErrInsufficientBalance
	}

	dir, err := d.prepare(req.UserID, src)
	if err != nil {
		return Result{}, err
	}
	keep := false
	defer func() {
		if !keep {
			d.cleanup(dir)
		}
	}()

	buildCtx, cancel := context.WithTimeout(ctx, d.cfg.ForgeTimeout)
	err = d.compiler.Build(buildCtx, dir)
	cancel()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrCompilation, err)
	}

	parsed, bytecode, err := readArtifact(dir, src.FileName, src.ContractName)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrCompilation, err)
	}

	auth, err := bind.NewKeyedTransactorWithChainID(req.Key, big.NewInt(d.cfg.ChainID))
	if err != nil {
		return Result{}, fmt.Errorf("create transactor: %w", err)
	}
	auth.GasLimit = DeployGasLimit
	auth.Context = ctx

	_, tx, _, err := bind.DeployContract(auth, parsed, bytecode, d.backend)
	if err != nil {
		return Result{}, classify(err)
	}
	log.Info("deploy tx sent", zap.String("contract", src.ContractName), zap.String("tx", tx.Hash().Hex()))

	addr, err := bind.WaitDeployed(ctx, d.backend, tx)
	if err != nil {
		return Result{}, fmt.Errorf("wait deployed: %w", classify(err))
	}
	log.Info("contract deployed", zap.String("contract", src.ContractName), zap.String("address", addr.Hex()))

	keep = true
	d.scheduleVerify(dir, Verification{
		Address:     addr.Hex(),
		FileName:    src.FileName,
		Contract:    src.ContractName,
		ChainID:     d.cfg.ChainID,
		VerifierURL: d.cfg.VerifierURL,
	})

	return Result{Address: addr.Hex(), TxHash: tx.Hash().Hex(), Source: src}, nil
}

// prepare lays out WorkDir/User_<id>_<suffix>/{foundry.toml,src/<File>}.
func (d *Deployer) prepare(userID int64, src contracts.Source) (string, error) {
	name := fmt.Sprintf("%s%d_%s", WorkDirPrefix, userID, uuid.NewString()[:8])
	dir := filepath.Join(d.cfg.WorkDir, name)
	if err := os.MkdirAll(filepath.Join(dir, "src"), 0o755); err != nil {
		return "", fmt.Errorf("create workdir: %w", err)
	}
	if err := writeFoundryConfig(dir); err != nil {
		d.cleanup(dir)
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, "src", src.FileName), []byte(src.Code), 0o644); err != nil {
		d.cleanup(dir)
		return "", fmt.Errorf("write source: %w", err)
	}
	return dir, nil
}

func (d *Deployer) scheduleVerify(dir string, v Verification) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer d.cleanup(dir)

		t := time.NewTimer(d.cfg.VerifyDelay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-d.ctx.Done():
			return
		}

		ctx, cancel := context.WithTimeout(d.ctx, d.cfg.ForgeTimeout)
		defer cancel()
		if err := d.compiler.Verify(ctx, dir, v); err != nil {
			// не повторяем
			d.log.Warn("verification failed", zap.String("address", v.Address), zap.Error(err))
			return
		}
		d.log.Info("contract verified", zap.String("address", v.Address), zap.String("contract", v.Contract))
	}()
}

func (d *Deployer) cleanup(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		d.log.Warn("remove workdir", zap.String("dir", dir), zap.Error(err))
	}
}

func classify(err error) error {
	if strings.Contains(strings.ToLower(err.Error()), "insufficient funds") {
		return fmt.Errorf("%w: %v", ErrInsufficientGasFunds, err)
	}
	return err
}
