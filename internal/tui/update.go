package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/AlexZinkM/solkeep/internal/vanity"
)

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}
	switch m.state {
	case stateWalletList:
		return m.updateWalletList(msg)
	case stateWalletDetail:
		return m.updateWalletDetail(msg)
	case stateHelp:
		return m.updateHelp(msg)
	case stateAddWalletInput:
		return m.updateAddWallet(msg)
	case stateSearchInput:
		return m.updateSearch(msg)
	case stateVanityInput:
		return m.updateVanityInput(msg)
	case stateVanityProgress:
		return m.updateVanityProgress(msg)
	case stateConfirmDelete:
		return m.updateConfirmDelete(msg)
	case stateBatchMenu:
		return m.updateBatchMenu(msg)
	case stateExportPassword:
		return m.updateExportPassword(msg)
	default:
		return m, nil
	}
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.vanityRun != nil {
		m.vanityRun.cancel()
	}
	m.state = stateExiting
	return m, tea.Quit
}

// --- WalletList ---

func (m Model) updateWalletList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.quit()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}
	case "enter":
		if e, ok := m.selected(); ok {
			m.detail = e
			m.state = stateWalletDetail
			return m, tea.Batch(
				fetchBalancesCmd(m.chain, m.opts.BalanceTimeout, []string{e.Address}),
				fetchRateCmd(m.rates, m.opts.BalanceTimeout),
			)
		}
	case "a":
		m.input = freshInput("path to keypair .json file")
		m.state = stateAddWalletInput
		return m, textinput.Blink
	case "v":
		m.vanityID, m.vanityPrefix = "", ""
		m.vanityStep = vanityPhaseID
		m.input = freshInput("new wallet name (blank for auto)")
		m.state = stateVanityInput
		return m, textinput.Blink
	case "d":
		if e, ok := m.selected(); ok {
			m.confirmID = e.ID
			m.state = stateConfirmDelete
		}
	case "r":
		addrs := make([]string, 0, len(m.entries))
		for _, e := range m.entries {
			addrs = append(addrs, e.Address)
		}
		mm, cmd := m.setStatus(levelInfo, "refreshing balances...")
		return mm, tea.Batch(fetchBalancesCmd(m.chain, m.opts.BalanceTimeout, addrs), cmd)
	case "/":
		m.input = freshInput("filter by name")
		m.input.SetValue(m.filter)
		m.state = stateSearchInput
		return m, textinput.Blink
	case "h":
		m.state = stateHelp
	}
	return m, nil
}

// --- WalletDetail ---

func (m Model) updateWalletDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		m.state = stateWalletList
	case "r":
		return m, tea.Batch(
			fetchBalancesCmd(m.chain, m.opts.BalanceTimeout, []string{m.detail.Address}),
			fetchRateCmd(m.rates, m.opts.BalanceTimeout),
		)
	case "c":
		if err := clipboard.WriteAll(m.detail.Address); err != nil {
			return m.setStatus(levelWarning, "clipboard unavailable")
		}
		return m.setStatus(levelSuccess, "address copied to clipboard")
	case "e":
		m.input = freshInput("password for export file")
		m.input.EchoMode = textinput.EchoPassword
		m.state = stateExportPassword
		return m, textinput.Blink
	case "b":
		m.state = stateBatchMenu
	}
	return m, nil
}

// --- Help ---

func (m Model) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace", "q":
		m.state = stateWalletList
	}
	return m, nil
}

// --- AddWalletInput ---

func (m Model) updateAddWallet(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = stateWalletList
		return m, nil
	case "enter":
		path := strings.TrimSpace(m.input.Value())
		if path == "" {
			return m.setStatus(levelWarning, "enter a file or directory path")
		}
		m.state = stateWalletList
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			mm, cmd := m.setStatus(levelInfo, "scanning "+path+" for keypair files...")
			return mm, tea.Batch(cmd, scanImportCmd(m.manager, path, m.opts.Scan))
		}
		id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		return m, importWalletCmd(m.manager, path, id)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) onScanDone(msg scanDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m.setStatus(levelError, "scan failed: "+msg.err.Error())
	}
	if msg.scanned == 0 {
		return m.setStatus(levelWarning, "no keypair files found")
	}
	text := fmt.Sprintf("imported %d of %d keypair files", msg.added, msg.scanned)
	level := levelSuccess
	if msg.added == 0 {
		level = levelWarning
	}
	mm, cmd := m.setStatus(level, text)
	return mm, tea.Batch(cmd, loadWalletsCmd(m.manager))
}

func (m Model) onImportDone(msg importDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		mm, cmd := m.setStatus(levelError, importFailureText(msg.err))
		return mm, cmd
	}
	mm, cmd := m.setStatus(levelSuccess, "wallet "+msg.entry.ID+" added")
	return mm, tea.Batch(cmd, loadWalletsCmd(m.manager))
}

// --- SearchInput ---

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filter = ""
		m.applyFilter()
		m.state = stateWalletList
		return m, nil
	case "enter":
		m.filter = strings.TrimSpace(m.input.Value())
		m.applyFilter()
		m.state = stateWalletList
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.filter = m.input.Value()
	m.applyFilter()
	return m, cmd
}

// --- VanityInput ---

func (m Model) updateVanityInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = stateWalletList
		return m, nil
	case "enter":
		if m.vanityStep == vanityPhaseID {
			m.vanityID = strings.TrimSpace(m.input.Value())
			m.vanityStep = vanityPhasePrefix
			m.input = freshInput("address prefix (Base58)")
			return m, textinput.Blink
		}
		m.vanityPrefix = strings.TrimSpace(m.input.Value())
		if err := vanity.ValidatePrefix(m.vanityPrefix); err != nil {
			return m.setStatus(levelError, "invalid prefix: Base58 excludes 0, O, I and l")
		}
		run := startVanity(m.vanityPrefix, m.opts)
		m.vanityRun = run
		m.vanityLast = vanity.Progress{}
		m.state = stateVanityProgress
		return m, listenVanityCmd(run)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// --- VanityProgress ---

func (m Model) updateVanityProgress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" && m.vanityRun != nil {
		m.vanityRun.cancel()
	}
	return m, nil
}

func (m Model) onVanityDone(msg vanityDoneMsg) (tea.Model, tea.Cmd) {
	m.vanityRun = nil
	m.state = stateWalletList

	if msg.err != nil {
		return m.setStatus(levelError, "vanity search failed: "+msg.err.Error())
	}
	res := msg.result
	switch res.Status {
	case vanity.Found:
		kp := res.Keypair
		entry, err := m.manager.InsertKeypair(m.vanityID, kp)
		kp.Zero()
		if err != nil {
			return m.setStatus(levelError, "failed to save vanity wallet: "+err.Error())
		}
		mm, cmd := m.setStatus(levelSuccess, "found "+entry.Address+" after "+formatAttempts(res.Stats.Attempts)+" attempts")
		return mm, tea.Batch(cmd, loadWalletsCmd(m.manager))
	case vanity.TimedOut:
		return m.setStatus(levelWarning, "vanity search timed out after "+formatAttempts(res.Stats.Attempts)+" attempts")
	default:
		return m.setStatus(levelInfo, "vanity search cancelled")
	}
}

// --- ConfirmDelete ---

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "y" {
		id := m.confirmID
		m.confirmID = ""
		m.state = stateWalletList
		if err := m.manager.Delete(id); err != nil {
			return m.setStatus(levelError, "delete failed: "+err.Error())
		}
		mm, cmd := m.setStatus(levelSuccess, "wallet "+id+" deleted")
		return mm, tea.Batch(cmd, loadWalletsCmd(m.manager))
	}
	m.confirmID = ""
	m.state = stateWalletList
	return m, nil
}

// --- BatchMenu ---

func (m Model) updateBatchMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		m.state = stateWalletDetail
	}
	return m, nil
}

// --- ExportPassword ---

func (m Model) updateExportPassword(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = stateWalletDetail
		return m, nil
	case "enter":
		password := []byte(m.input.Value())
		if len(password) == 0 {
			return m.setStatus(levelWarning, "password cannot be empty")
		}
		path := m.detail.ID + ".export.json"
		return m, exportWalletCmd(m.manager, m.detail.ID, path, password)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func freshInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.Focus()
	return ti
}

func foldCase(s string) string {
	return strings.ToLower(s)
}

func containsFold(haystack, foldedNeedle string) bool {
	return strings.Contains(strings.ToLower(haystack), foldedNeedle)
}

// startVanity wires a cancellable search. Declared here, used by the
// vanity input handler; the channel plumbing lives in commands.go.
func startVanity(prefix string, opts Options) *vanityRunner {
	ctx, cancel := context.WithCancel(context.Background())
	run := &vanityRunner{
		cancel:   cancel,
		progress: make(chan vanity.Progress, 8),
		result:   make(chan vanityDoneMsg, 1),
	}
	go func() {
		res, err := vanity.Search(ctx, vanity.Options{
			Prefix:          prefix,
			CaseInsensitive: true,
			Threads:         opts.VanityThreads,
			Timeout:         opts.VanityTimeout,
			ProgressEvery:   opts.VanityProgress,
		}, run.progress)
		run.result <- vanityDoneMsg{result: res, err: err}
	}()
	return run
}
