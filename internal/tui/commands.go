package tui

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gagliardetto/solana-go"

	"github.com/AlexZinkM/solkeep/internal/common"
	"github.com/AlexZinkM/solkeep/internal/keypair"
	"github.com/AlexZinkM/solkeep/internal/scanner"
	"github.com/AlexZinkM/solkeep/internal/vanity"
	"github.com/AlexZinkM/solkeep/internal/wallet"
)

// Messages produced by background commands.

type walletsLoadedMsg struct {
	entries []wallet.Entry
	err     error
}

type balancesMsg map[string]string

type balanceFailedMsg struct{ err error }

type rateMsg string

type importDoneMsg struct {
	entry wallet.Entry
	err   error
}

type scanDoneMsg struct {
	added   int
	failed  int
	scanned int
	err     error
}

type vanityProgressMsg vanity.Progress

type vanityDoneMsg struct {
	result vanity.Result
	err    error
}

type exportDoneMsg struct {
	path string
	err  error
}

// vanityRunner owns a running search: its cancel handle and the
// channels the shell drains.
type vanityRunner struct {
	cancel   context.CancelFunc
	progress chan vanity.Progress
	result   chan vanityDoneMsg
}

func loadWalletsCmd(m *wallet.Manager) tea.Cmd {
	return func() tea.Msg {
		entries, err := m.List()
		return walletsLoadedMsg{entries: entries, err: err}
	}
}

func importWalletCmd(m *wallet.Manager, path, id string) tea.Cmd {
	return func() tea.Msg {
		entry, err := m.Import(path, id)
		return importDoneMsg{entry: entry, err: err}
	}
}

// scanImportCmd walks dir for keypair files and imports everything
// that validates, naming each wallet after its file.
func scanImportCmd(m *wallet.Manager, dir string, opts scanner.Options) tea.Cmd {
	return func() tea.Msg {
		paths, _, err := scanner.Scan(context.Background(), dir, opts, keypair.IsWalletFile)
		if err != nil {
			return scanDoneMsg{err: err}
		}
		var added, failed int
		for _, p := range paths {
			id := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
			if _, err := m.Import(p, id); err != nil {
				failed++
				continue
			}
			added++
		}
		return scanDoneMsg{added: added, failed: failed, scanned: len(paths)}
	}
}

func exportWalletCmd(m *wallet.Manager, id, path string, password []byte) tea.Cmd {
	return func() tea.Msg {
		err := m.ExportEncrypted(id, path, password)
		for i := range password {
			password[i] = 0
		}
		return exportDoneMsg{path: path, err: err}
	}
}

// fetchBalancesCmd resolves SOL balances for the given addresses with
// one bounded context. Individual lookup failures leave that address
// out; a total failure surfaces as a warning.
func fetchBalancesCmd(chain ChainClient, timeout time.Duration, addrs []string) tea.Cmd {
	if chain == nil || len(addrs) == 0 {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		out := balancesMsg{}
		var lastErr error
		for _, addr := range addrs {
			pub, err := solana.PublicKeyFromBase58(addr)
			if err != nil {
				continue
			}
			lamports, err := chain.Balance(ctx, pub)
			if err != nil {
				lastErr = err
				continue
			}
			out[addr] = common.LamportsToSOL(lamports)
		}
		if len(out) == 0 && lastErr != nil {
			return balanceFailedMsg{err: lastErr}
		}
		return out
	}
}

func fetchRateCmd(rates RateClient, timeout time.Duration) tea.Cmd {
	if rates == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		rate, err := rates.SOLPriceUSD(ctx)
		if err != nil {
			// Rate is decoration; stay silent on failure.
			return nil
		}
		return rateMsg(rate)
	}
}

// listenVanityCmd pumps one message from the running search: the next
// progress sample while the channel is open, then the final result.
func listenVanityCmd(run *vanityRunner) tea.Cmd {
	return func() tea.Msg {
		if p, ok := <-run.progress; ok {
			return vanityProgressMsg(p)
		}
		return <-run.result
	}
}
