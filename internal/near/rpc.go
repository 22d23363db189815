package near

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/dmitrijs2005/accounthelper/internal/common"
	"github.com/dmitrijs2005/accounthelper/internal/logging"
	"github.com/mr-tron/base58"
)

// Client talks JSON-RPC to a NEAR node. It holds the two helper identities:
// the creator key signs account creation, the recovery key signs every other
// account mutation, matching the wallet-helper key policy.
type Client struct {
	url  string
	http *http.Client

	creatorID string
	creator   *KeyPair

	recoveryID string
	recovery   *KeyPair

	logger logging.Logger
}

func NewClient(url string, creatorID string, creator *KeyPair, recoveryID string, recovery *KeyPair, logger logging.Logger) *Client {
	return &Client{
		url:        url,
		http:       &http.Client{Timeout: 30 * time.Second},
		creatorID:  creatorID,
		creator:    creator,
		recoveryID: recoveryID,
		recovery:   recovery,
		logger:     logger.With("module", "near_client"),
	}
}

// RecoveryPublicKey returns the helper trust key in canonical encoding.
func (c *Client) RecoveryPublicKey() PublicKey {
	return c.recovery.PublicKey()
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type rpcError struct {
	Code    int64           `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func (c *Client) call(ctx context.Context, method string, params any, out any) error {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: "accounthelper", Method: method, Params: params})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", common.ErrUpstream, method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s: unexpected status %s", common.ErrUpstream, method, resp.Status)
	}

	var rr rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return fmt.Errorf("%w: %s: decoding response: %v", common.ErrUpstream, method, err)
	}
	if rr.Error != nil {
		return fmt.Errorf("%w: %s: %s %s", common.ErrUpstream, method, rr.Error.Message, string(rr.Error.Data))
	}

	if out != nil {
		if err := json.Unmarshal(rr.Result, out); err != nil {
			return fmt.Errorf("%w: %s: decoding result: %v", common.ErrUpstream, method, err)
		}
	}
	return nil
}

// queryError is set inside query results when the node rejects the request
// without raising a JSON-RPC level error (e.g. unknown account).
type queryError struct {
	Error string `json:"error"`
}

type accessKeyList struct {
	queryError
	Keys []struct {
		PublicKey string `json:"public_key"`
	} `json:"keys"`
}

// AuthorizedKeys returns the canonical encodings of every access key
// currently registered on accountID.
func (c *Client) AuthorizedKeys(ctx context.Context, accountID string) ([]string, error) {
	var list accessKeyList
	err := c.call(ctx, "query", map[string]any{
		"request_type": "view_access_key_list",
		"finality":     "final",
		"account_id":   accountID,
	}, &list)
	if err != nil {
		return nil, err
	}
	if list.Error != "" {
		return nil, fmt.Errorf("%w: view_access_key_list: %s", common.ErrUpstream, list.Error)
	}

	keys := make([]string, 0, len(list.Keys))
	for _, k := range list.Keys {
		keys = append(keys, k.PublicKey)
	}
	return keys, nil
}

func (c *Client) accessKeyNonce(ctx context.Context, accountID string, pk PublicKey) (uint64, error) {
	var view struct {
		queryError
		Nonce uint64 `json:"nonce"`
	}
	err := c.call(ctx, "query", map[string]any{
		"request_type": "view_access_key",
		"finality":     "final",
		"account_id":   accountID,
		"public_key":   pk.String(),
	}, &view)
	if err != nil {
		return 0, err
	}
	if view.Error != "" {
		return 0, fmt.Errorf("%w: view_access_key: %s", common.ErrUpstream, view.Error)
	}
	return view.Nonce, nil
}

func (c *Client) latestBlockHash(ctx context.Context) ([32]byte, error) {
	var hash [32]byte
	var block struct {
		Header struct {
			Hash string `json:"hash"`
		} `json:"header"`
	}
	if err := c.call(ctx, "block", map[string]any{"finality": "final"}, &block); err != nil {
		return hash, err
	}
	raw, err := base58.Decode(block.Header.Hash)
	if err != nil || len(raw) != len(hash) {
		return hash, fmt.Errorf("%w: block: malformed hash %q", common.ErrUpstream, block.Header.Hash)
	}
	copy(hash[:], raw)
	return hash, nil
}

// signAndSend assembles a transaction for signerID with the given key pair,
// signs it and submits it, waiting for execution.
func (c *Client) signAndSend(ctx context.Context, signerID string, kp *KeyPair, receiverID string, actions []Action) (json.RawMessage, error) {
	nonce, err := c.accessKeyNonce(ctx, signerID, kp.PublicKey())
	if err != nil {
		return nil, err
	}
	blockHash, err := c.latestBlockHash(ctx)
	if err != nil {
		return nil, err
	}

	tx := &Transaction{
		SignerID:   signerID,
		PublicKey:  kp.PublicKey(),
		Nonce:      nonce + 1,
		ReceiverID: receiverID,
		BlockHash:  blockHash,
		Actions:    actions,
	}
	signed, err := tx.Sign(kp)
	if err != nil {
		return nil, err
	}

	var outcome json.RawMessage
	params := []string{base64.StdEncoding.EncodeToString(signed)}
	if err := c.call(ctx, "broadcast_tx_commit", params, &outcome); err != nil {
		return nil, err
	}

	c.logger.Info(ctx, "transaction executed", "signer", signerID, "receiver", receiverID)
	return outcome, nil
}

// AddAccessKey grants publicKey full access on accountID, signed with the
// recovery key, which must already be an access key on the account.
func (c *Client) AddAccessKey(ctx context.Context, accountID string, publicKey string) error {
	pk, err := ParsePublicKey(publicKey)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	_, err = c.signAndSend(ctx, accountID, c.recovery, accountID, []Action{AddKey{PublicKey: pk}})
	return err
}

// CreateAccount creates newAccountID funded with amount yoctoNEAR and
// publicKey as its first access key. Signed by the creator account.
func (c *Client) CreateAccount(ctx context.Context, newAccountID string, publicKey string, amount *big.Int) (json.RawMessage, error) {
	pk, err := ParsePublicKey(publicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	actions := []Action{
		CreateAccount{},
		Transfer{Deposit: amount},
		AddKey{PublicKey: pk},
	}
	return c.signAndSend(ctx, c.creatorID, c.creator, newAccountID, actions)
}
