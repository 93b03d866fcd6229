package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/AlexZinkM/solkeep/internal/client"
	"github.com/AlexZinkM/solkeep/internal/config"
	"github.com/AlexZinkM/solkeep/internal/keychain"
	"github.com/AlexZinkM/solkeep/internal/logging"
	"github.com/AlexZinkM/solkeep/internal/scanner"
	"github.com/AlexZinkM/solkeep/internal/store"
	"github.com/AlexZinkM/solkeep/internal/tui"
	"github.com/AlexZinkM/solkeep/internal/wallet"
)

// Exit codes: 0 clean quit, 2 credential service unreachable,
// 3 store corrupt, 1 anything else fatal at startup.
const (
	exitOK             = 0
	exitFatal          = 1
	exitKeychainFailed = 2
	exitStoreCorrupt   = 3
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := config.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		return exitFatal
	}
	cfg := config.Get()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "solkeep is interactive: run it in a terminal")
		return exitFatal
	}

	logPath, err := config.LogFilePath()
	if err == nil {
		_ = logging.Init(cfg.LogLevel, logPath)
	}
	defer logging.Sync()
	log := logging.L()

	custodian := keychain.New(cfg.KeyringService)
	masterKey, err := custodian.Acquire()
	if err != nil {
		if errors.Is(err, keychain.ErrUnavailable) {
			fmt.Fprintln(os.Stderr, "cannot reach the OS credential service; unlock your keychain and retry")
			log.Error("credential service unavailable", zap.Error(err))
			return exitKeychainFailed
		}
		fmt.Fprintln(os.Stderr, "startup failed:", err)
		return exitFatal
	}

	storePath, err := config.StoreFilePath()
	if err != nil {
		fmt.Fprintln(os.Stderr, "startup failed:", err)
		return exitFatal
	}

	st, err := store.Open(storePath, masterKey)
	wipeKey(&masterKey)
	if err != nil {
		if errors.Is(err, store.ErrStoreCorrupt) {
			fmt.Fprintf(os.Stderr, "wallet store at %s is unreadable; run repairstore to move it aside\n", storePath)
			log.Error("store corrupt on load", zap.Error(err))
			return exitStoreCorrupt
		}
		fmt.Fprintln(os.Stderr, "startup failed:", err)
		return exitFatal
	}

	manager := wallet.NewManager(st)
	chain := client.NewSolanaClient(cfg.SolanaRPCURL)
	rates := client.NewCoinGeckoClient()

	model := tui.New(manager, chain, rates, tui.Options{
		VanityTimeout:  time.Duration(cfg.VanityTimeoutSeconds) * time.Second,
		VanityThreads:  cfg.VanityThreads,
		VanityProgress: time.Duration(cfg.VanityProgressMs) * time.Millisecond,
		Scan: scanner.Options{
			MaxDepth:   cfg.ScanMaxDepth,
			MaxResults: cfg.ScanMaxFiles,
			BatchSize:  cfg.ScanBatchSize,
		},
	})

	log.Info("starting shell", zap.String("store", storePath))
	if err := tui.Run(model); err != nil {
		fmt.Fprintln(os.Stderr, "shell error:", err)
		return exitFatal
	}
	return exitOK
}

func wipeKey(k *[32]byte) {
	for i := range k {
		k[i] = 0
	}
}
