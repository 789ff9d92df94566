package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dmystical-coder/ordyswap/config"
	"github.com/dmystical-coder/ordyswap/core/events"
	"github.com/dmystical-coder/ordyswap/core/state"
	"github.com/dmystical-coder/ordyswap/crypto"
	"github.com/dmystical-coder/ordyswap/native/governance"
	"github.com/dmystical-coder/ordyswap/native/offers"
	"github.com/dmystical-coder/ordyswap/native/ordswap"
	"github.com/dmystical-coder/ordyswap/observability/logging"
	"github.com/dmystical-coder/ordyswap/rpc"
	"github.com/dmystical-coder/ordyswap/storage"
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup("ordyswapd", cfg.Environment)

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	manager := state.NewManager(db)

	gov := governance.NewEngine(manager)
	owner, err := resolveOwner(cfg.Owner)
	if err != nil {
		logger.Error("invalid owner principal", slog.Any("error", err))
		os.Exit(1)
	}
	if err := gov.Init(owner); err != nil {
		logger.Error("failed to initialise governance", slog.Any("error", err))
		os.Exit(1)
	}

	store := offers.NewStore(manager)
	// TODO: replace with the consensus height once block production lands.
	store.SetHeightSource(func() uint64 { return 0 })

	recorder := events.NewRecorder()
	engine := ordswap.NewEngine()
	engine.SetState(manager)
	engine.SetStore(store)
	engine.SetGovernance(gov)
	engine.SetEmitter(recorder)

	logger.Info("node initialised",
		slog.String("network", cfg.NetworkName),
		slog.String("data_dir", cfg.DataDir),
		slog.String("vault", crypto.MustNewAddress(crypto.OrdPrefix, vaultBytes(engine)).String()),
	)

	server := rpc.NewServer(engine, gov, recorder)
	if err := server.Start(cfg.RPCAddress); err != nil {
		logger.Error("rpc server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

// resolveOwner decodes the configured bech32 owner, falling back to a fresh
// key for throwaway local networks.
func resolveOwner(encoded string) ([20]byte, error) {
	var owner [20]byte
	if strings.TrimSpace(encoded) == "" {
		key, err := crypto.GeneratePrivateKey()
		if err != nil {
			return owner, err
		}
		return key.PubKey().Address().Raw(), nil
	}
	addr, err := crypto.DecodeAddress(encoded)
	if err != nil {
		return owner, err
	}
	return addr.Raw(), nil
}

func vaultBytes(engine *ordswap.Engine) []byte {
	vault := engine.VaultAddress()
	return vault[:]
}
