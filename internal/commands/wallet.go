package commands

import (
	"context"
	"strings"

	"eth-telegram-bot/internal/types"
	"eth-telegram-bot/lib/helpers"
	"eth-telegram-bot/lib/translation"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const recentTransactions = 5

// Wallet is a freshly generated key pair.
type Wallet struct {
	Address    string
	PrivateKey string
}

// NewWallet generates a random secp256k1 key and derives its address.
func NewWallet() (Wallet, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return Wallet{}, errors.Wrap(err, "could not generate key")
	}

	return Wallet{
		Address:    crypto.PubkeyToAddress(key.PublicKey).Hex(),
		PrivateKey: hexutil.Encode(crypto.FromECDSA(key)),
	}, nil
}

func CommandNewWallet() (string, error) {
	log.Debug("processing command /newwallet")

	w, err := NewWallet()
	if err != nil {
		return "", errors.Wrap(err, "command /newwallet")
	}

	return translation.Translate(
		"🔑 New Ethereum Wallet Created!\n\n📍 Address: %s\n🔐 Private Key: %s\n\n"+
			"⚠️ Keep your private key safe! If you lose it, you cannot recover your wallet.",
		w.Address, w.PrivateKey,
	), nil
}

func (c *Commands) CommandBalance(ctx context.Context, argument string) (string, error) {
	log.Debugf("processing command /balance with argument :%s", argument)

	address, err := addressArg(argument, "/balance 0x123...abc")
	if err != nil {
		return "", err
	}

	balance, err := c.gateway.Balance(ctx, address)
	if err != nil {
		return "", errors.Wrap(err, "command /balance")
	}

	return translation.Translate("💰 Balance of %s: %s ETH", address, balance.String()), nil
}

func (c *Commands) CommandTransactions(ctx context.Context, argument string) (string, error) {
	log.Debugf("processing command /transactions with argument :%s", argument)

	address, err := addressArg(argument, "/transactions 0x123...abc")
	if err != nil {
		return "", err
	}

	txs, err := c.gateway.Transactions(ctx, address, recentTransactions)
	if err != nil {
		return "", errors.Wrap(err, "command /transactions")
	}
	if len(txs) == 0 {
		return translation.Translate("📝 No transactions found for %s.", address), nil
	}

	var sb strings.Builder
	sb.WriteString(translation.Translate("📝 Recent Transactions:"))
	sb.WriteString("\n")
	for _, tx := range txs {
		sb.WriteString(formatTransaction(tx))
	}
	return sb.String(), nil
}

func formatTransaction(tx types.Transaction) string {
	line := translation.Translate(
		"🔗 %s\n📤 From: %s\n📥 To: %s\n💰 Value: %s ETH",
		tx.Hash, tx.From, tx.To, tx.Value.String(),
	)
	if !tx.Timestamp.IsZero() {
		line += "\n🕒 " + helpers.FormatSince(tx.Timestamp)
	}
	return line + "\n\n"
}
