package deployer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"
)

const (
	SolcVersion   = "0.8.23"
	OptimizerRuns = 200
)

// Compiler builds and verifies a foundry project rooted at dir.
type Compiler interface {
	Build(ctx context.Context, dir string) error
	Verify(ctx context.Context, dir string, v Verification) error
}

// Verification describes one verify-contract call.
type Verification struct {
	Address     string
	FileName    string
	Contract    string
	ChainID     int64
	VerifierURL string
}

type foundryProfile struct {
	Src           string `toml:"src"`
	Out           string `toml:"out"`
	SolcVersion   string `toml:"solc_version"`
	Optimizer     bool   `toml:"optimizer"`
	OptimizerRuns int    `toml:"optimizer_runs"`
}

type foundryConfig struct {
	Profile map[string]foundryProfile `toml:"profile"`
}

// writeFoundryConfig writes dir/foundry.toml with the pinned compiler settings.
func writeFoundryConfig(dir string) error {
	cfg := foundryConfig{Profile: map[string]foundryProfile{
		"default": {
			Src:           "src",
			Out:           "out",
			SolcVersion:   SolcVersion,
			Optimizer:     true,
			OptimizerRuns: OptimizerRuns,
		},
	}}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encode foundry.toml: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "foundry.toml"), buf.Bytes(), 0o644)
}

type artifact struct {
	ABI      json.RawMessage `json:"abi"`
	Bytecode struct {
		Object string `json:"object"`
	} `json:"bytecode"`
}

// readArtifact loads out/<file>/<contract>.json produced by forge build.
func readArtifact(dir, fileName, contract string) (abi.ABI, []byte, error) {
	path := filepath.Join(dir, "out", fileName, contract+".json")
	raw, err := os.ReadFile(path)
	if err != nil {
		return abi.ABI{}, nil, fmt.Errorf("read artifact: %w", err)
	}
	var a artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return abi.ABI{}, nil, fmt.Errorf("decode artifact: %w", err)
	}
	parsed, err := abi.JSON(bytes.NewReader(a.ABI))
	if err != nil {
		return abi.ABI{}, nil, fmt.Errorf("parse abi: %w", err)
	}
	code, err := hexutil.Decode(a.Bytecode.Object)
	if err != nil {
		return abi.ABI{}, nil, fmt.Errorf("decode bytecode of %s: %w", path, err)
	}
	if len(code) == 0 {
		return abi.ABI{}, nil, fmt.Errorf("artifact %s has no bytecode", path)
	}
	return parsed, code, nil
}

// Forge shells out to the foundry toolchain.
type Forge struct {
	bin string
	log *zap.Logger
}

func NewForge(bin string, log *zap.Logger) *Forge {
	if bin == "" {
		bin = "forge"
	}
	return &Forge{bin: bin, log: log}
}

func (f *Forge) run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	start := time.Now()
	cmd := exec.CommandContext(ctx, f.bin, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		f.log.Warn("forge failed",
			zap.Strings("args", args),
			zap.String("dir", dir),
			zap.Duration("took", time.Since(start)),
			zap.ByteString("output", out),
			zap.Error(err),
		)
		return out, fmt.Errorf("forge %s: %w: %s", args[0], err, bytes.TrimSpace(out))
	}
	f.log.Debug("forge ok", zap.Strings("args", args), zap.Duration("took", time.Since(start)))
	return out, nil
}

func (f *Forge) Build(ctx context.Context, dir string) error {
	_, err := f.run(ctx, dir, "build", "--root", dir)
	return err
}

func (f *Forge) Verify(ctx context.Context, dir string, v Verification) error {
	_, err := f.run(ctx, dir,
		"verify-contract", v.Address, "src/"+v.FileName+":"+v.Contract,
		"--root", dir,
		"--chain-id", strconv.FormatInt(v.ChainID, 10),
		"--verifier", "etherscan",
		"--verifier-url", v.VerifierURL,
		"--etherscan-api-key", "verifyContract",
		"--compiler-version", SolcVersion,
		"--num-of-optimizations", strconv.Itoa(OptimizerRuns),
		"--watch",
	)
	return err
}
