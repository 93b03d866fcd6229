// Package tui is the interactive shell: an explicit view state
// machine over the wallet manager, with long-running work pushed to
// background commands and fed back through messages.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gagliardetto/solana-go"

	"github.com/AlexZinkM/solkeep/internal/scanner"
	"github.com/AlexZinkM/solkeep/internal/vanity"
	"github.com/AlexZinkM/solkeep/internal/wallet"
)

// viewState enumerates the shell's views. New views extend this enum
// and the Update/View dispatch tables.
type viewState int

const (
	stateWalletList viewState = iota
	stateWalletDetail
	stateHelp
	stateAddWalletInput
	stateSearchInput
	stateVanityInput
	stateVanityProgress
	stateConfirmDelete
	stateBatchMenu
	stateExportPassword
	stateExiting
)

// vanityPhase tracks which field the VanityInput view is collecting.
type vanityPhase int

const (
	vanityPhaseID vanityPhase = iota
	vanityPhasePrefix
)

// ChainClient is the narrow surface the shell needs from the RPC
// collaborator.
type ChainClient interface {
	Balance(ctx context.Context, pubkey solana.PublicKey) (uint64, error)
}

// RateClient supplies a display-only SOL/USD rate.
type RateClient interface {
	SOLPriceUSD(ctx context.Context) (string, error)
}

// Options tunes the shell.
type Options struct {
	VanityTimeout  time.Duration
	VanityThreads  int
	VanityProgress time.Duration
	BalanceTimeout time.Duration
	Scan           scanner.Options
}

// Model is the bubbletea model for the whole shell.
type Model struct {
	manager *wallet.Manager
	chain   ChainClient
	rates   RateClient
	opts    Options

	state viewState

	entries  []wallet.Entry
	filtered []int // indexes into entries
	filter   string
	cursor   int

	input textinput.Model

	detail    wallet.Entry
	balances  map[string]string // address -> SOL amount string
	solRate   string
	confirmID string

	vanityID     string
	vanityPrefix string
	vanityStep   vanityPhase
	vanityRun    *vanityRunner
	vanityLast   vanity.Progress

	status    statusMessage
	statusGen int

	width  int
	height int
}

// New builds the shell model. chain and rates may be nil; the related
// views degrade to placeholders.
func New(m *wallet.Manager, chain ChainClient, rates RateClient, opts Options) Model {
	if opts.BalanceTimeout <= 0 {
		opts.BalanceTimeout = 10 * time.Second
	}
	if opts.VanityProgress <= 0 {
		opts.VanityProgress = 100 * time.Millisecond
	}

	ti := textinput.New()
	ti.CharLimit = 256

	return Model{
		manager:  m,
		chain:    chain,
		rates:    rates,
		opts:     opts,
		state:    stateWalletList,
		input:    ti,
		balances: map[string]string{},
	}
}

// Run starts the program full-screen and blocks until exit.
func Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return loadWalletsCmd(m.manager)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case walletsLoadedMsg:
		m.entries = msg.entries
		if msg.err != nil {
			m = m.setStatusOnly(levelError, "failed to load wallets: "+msg.err.Error())
		}
		m.applyFilter()
		return m, nil

	case balancesMsg:
		for addr, amount := range msg {
			m.balances[addr] = amount
		}
		return m, nil

	case balanceFailedMsg:
		return m.setStatus(levelWarning, "balance refresh failed: "+msg.err.Error())

	case rateMsg:
		m.solRate = string(msg)
		return m, nil

	case importDoneMsg:
		return m.onImportDone(msg)

	case scanDoneMsg:
		return m.onScanDone(msg)

	case vanityProgressMsg:
		m.vanityLast = vanity.Progress(msg)
		if m.vanityRun != nil {
			return m, listenVanityCmd(m.vanityRun)
		}
		return m, nil

	case vanityDoneMsg:
		return m.onVanityDone(msg)

	case exportDoneMsg:
		m.state = stateWalletDetail
		if msg.err != nil {
			return m.setStatus(levelError, "export failed: "+msg.err.Error())
		}
		return m.setStatus(levelSuccess, "wallet exported to "+msg.path)

	case statusExpiredMsg:
		if int(msg) == m.statusGen {
			m.status = statusMessage{}
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) View() string {
	switch m.state {
	case stateWalletList:
		return m.viewWalletList()
	case stateWalletDetail:
		return m.viewWalletDetail()
	case stateHelp:
		return m.viewHelp()
	case stateAddWalletInput:
		return m.viewAddWallet()
	case stateSearchInput:
		return m.viewSearch()
	case stateVanityInput:
		return m.viewVanityInput()
	case stateVanityProgress:
		return m.viewVanityProgress()
	case stateConfirmDelete:
		return m.viewConfirmDelete()
	case stateBatchMenu:
		return m.viewBatchMenu()
	case stateExportPassword:
		return m.viewExportPassword()
	default:
		return "Goodbye.\n"
	}
}

// selected returns the entry under the cursor, honoring the filter.
func (m *Model) selected() (wallet.Entry, bool) {
	if len(m.filtered) == 0 || m.cursor >= len(m.filtered) {
		return wallet.Entry{}, false
	}
	return m.entries[m.filtered[m.cursor]], true
}

// applyFilter recomputes the visible list after entries or filter
// change, clamping the cursor.
func (m *Model) applyFilter() {
	m.filtered = m.filtered[:0]
	needle := foldCase(m.filter)
	for i, e := range m.entries {
		if needle == "" || containsFold(e.ID, needle) {
			m.filtered = append(m.filtered, i)
		}
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = max(0, len(m.filtered)-1)
	}
}
