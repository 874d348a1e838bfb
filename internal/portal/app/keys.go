package app

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/findit/pkg/cryptox"
	"github.com/aussiebroadwan/findit/pkg/jwtx"
)

// SessionKeys is the signing key for session tokens and the key set
// bearer tokens are verified against.
type SessionKeys struct {
	KeySet   *jwtx.KeySet
	Signer   jwtx.Signer
	Verifier jwtx.Verifier
}

// InitSessionKeys loads the Ed25519 signing key from cfg.SigningKeyFile,
// generating it on first start. Without a key file the key lives in memory
// only and every restart signs everyone out.
func InitSessionKeys(cfg Config, logger *slog.Logger) (*SessionKeys, error) {
	var (
		pemKey []byte
		err    error
	)
	if cfg.SigningKeyFile != "" {
		pemKey, err = cryptox.LoadOrGenerateEd25519Key(cfg.SigningKeyFile)
	} else {
		pemKey, err = cryptox.GenerateEd25519Key()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load signing key: %w", err)
	}

	// The kid follows the key so a persisted key keeps its id across restarts.
	sum := sha256.Sum256(pemKey)
	kid := hex.EncodeToString(sum[:8])

	signer, err := jwtx.NewSignerEdDSA(kid, pemKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse signing key: %w", err)
	}

	keys := jwtx.NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return nil, fmt.Errorf("failed to register signing key: %w", err)
	}

	if cfg.SigningKeyFile == "" {
		logger.Warn("using an ephemeral signing key; sessions end on restart", "kid", kid)
	} else {
		logger.Info("signing key loaded", "kid", kid, "path", cfg.SigningKeyFile)
	}

	return &SessionKeys{
		KeySet:   keys,
		Signer:   signer,
		Verifier: jwtx.NewVerifierEdDSA(keys, cfg.Issuer),
	}, nil
}
