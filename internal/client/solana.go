// Package client talks to external services: the Solana RPC endpoint
// for balances and transfers, and a price API for display rates.
// Failures here surface as statuses in the shell and never touch the
// wallet store.
package client

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
)

const solFeeLamports = 5000 // flat base fee (0.000005 SOL)

// Signer is the capability the wallet manager hands out; the client
// never sees seed bytes.
type Signer interface {
	PublicKey() solana.PublicKey
	Sign(msg []byte) (solana.Signature, error)
}

// SolanaClient is a client for the Solana JSON-RPC API.
type SolanaClient struct {
	rpcClient *rpc.Client
	rpcURL    string
}

// NewSolanaClient creates a client for the given RPC endpoint.
func NewSolanaClient(rpcURL string) *SolanaClient {
	return &SolanaClient{
		rpcClient: rpc.New(rpcURL),
		rpcURL:    rpcURL,
	}
}

// Balance returns the SOL balance in lamports for pubkey.
func (c *SolanaClient) Balance(ctx context.Context, pubkey solana.PublicKey) (uint64, error) {
	out, err := c.rpcClient.GetBalance(ctx, pubkey, rpc.CommitmentConfirmed)
	if err != nil {
		return 0, fmt.Errorf("failed to get SOL balance: %w", err)
	}
	return out.Value, nil
}

// TransferSOL builds, signs and submits a system-program transfer of
// lamports to recipient, returning the transaction id.
func (c *SolanaClient) TransferSOL(ctx context.Context, signer Signer, recipient string, lamports uint64) (string, error) {
	toPubkey, err := solana.PublicKeyFromBase58(recipient)
	if err != nil {
		return "", fmt.Errorf("invalid Solana address: %w", err)
	}
	if lamports == 0 {
		return "", fmt.Errorf("amount must be greater than zero")
	}

	from := signer.PublicKey()
	balance, err := c.Balance(ctx, from)
	if err != nil {
		return "", fmt.Errorf("failed to check balance: %w", err)
	}
	if balance < lamports+solFeeLamports {
		return "", fmt.Errorf("insufficient SOL balance (need fee of %d lamports on top)", solFeeLamports)
	}

	recent, err := c.rpcClient.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		return "", fmt.Errorf("failed to get recent blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			system.NewTransferInstruction(lamports, from, toPubkey).Build(),
		},
		recent.Value.Blockhash,
		solana.TransactionPayer(from),
	)
	if err != nil {
		return "", fmt.Errorf("failed to build transaction: %w", err)
	}

	msg, err := tx.Message.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("failed to serialize message: %w", err)
	}
	sig, err := signer.Sign(msg)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}
	tx.Signatures = []solana.Signature{sig}

	txID, err := c.rpcClient.SendTransaction(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("failed to send transaction: %w", err)
	}
	return txID.String(), nil
}
