package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/accounthelper/internal/common"
	"github.com/dmitrijs2005/accounthelper/internal/server/accounts"
	"github.com/julienschmidt/httprouter"
)

// Recovery is the slice of the protocol engine the HTTP layer needs.
type Recovery interface {
	RequestCode(ctx context.Context, accountID string, contact accounts.Contact) error
	ValidateCode(ctx context.Context, accountID string, contact accounts.Contact, securityCode, signature, publicKey string) error
	SendRecoveryMessage(ctx context.Context, accountID string, contact accounts.Contact, seedPhrase string) error
	CreateAccount(ctx context.Context, newAccountID, publicKey string) (json.RawMessage, error)
}

// matches the original helper's request body limit
const maxBodyBytes = 500 << 10

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: decoding request body: %v", common.ErrValidation, err)
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *Server) writeError(r *http.Request, w http.ResponseWriter, err error) {
	s.logger.Error(r.Context(), err.Error(), "path", r.URL.Path)

	switch {
	case errors.Is(err, common.ErrUnauthorized):
		s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	case errors.Is(err, common.ErrForbidden):
		s.writeJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	case errors.Is(err, common.ErrValidation), errors.Is(err, common.ErrNoRecoveryKey):
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, common.ErrUpstream):
		s.writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
	default:
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func (s *Server) handleRequestCode(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	contact := accounts.Contact{PhoneNumber: ps.ByName("phoneNumber")}

	if err := s.recovery.RequestCode(r.Context(), ps.ByName("accountId"), contact); err != nil {
		s.writeError(r, w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) handleValidateCode(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req struct {
		SecurityCode string `json:"securityCode"`
		Signature    string `json:"signature"`
		PublicKey    string `json:"publicKey"`
	}
	if err := s.decodeBody(w, r, &req); err != nil {
		s.writeError(r, w, err)
		return
	}

	contact := accounts.Contact{PhoneNumber: ps.ByName("phoneNumber")}
	err := s.recovery.ValidateCode(r.Context(), ps.ByName("accountId"), contact, req.SecurityCode, req.Signature, req.PublicKey)
	if err != nil {
		s.writeError(r, w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) handleSendRecoveryMessage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		AccountID   string `json:"accountId"`
		PhoneNumber string `json:"phoneNumber"`
		Email       string `json:"email"`
		SeedPhrase  string `json:"seedPhrase"`
	}
	if err := s.decodeBody(w, r, &req); err != nil {
		s.writeError(r, w, err)
		return
	}

	contact := accounts.Contact{PhoneNumber: req.PhoneNumber, Email: req.Email}
	if err := s.recovery.SendRecoveryMessage(r.Context(), req.AccountID, contact, req.SeedPhrase); err != nil {
		s.writeError(r, w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		NewAccountID        string `json:"newAccountId"`
		NewAccountPublicKey string `json:"newAccountPublicKey"`
	}
	if err := s.decodeBody(w, r, &req); err != nil {
		s.writeError(r, w, err)
		return
	}

	outcome, err := s.recovery.CreateAccount(r.Context(), req.NewAccountID, req.NewAccountPublicKey)
	if err != nil {
		s.writeError(r, w, err)
		return
	}
	if len(outcome) == 0 {
		outcome = json.RawMessage(`{}`)
	}

	s.writeJSON(w, http.StatusOK, outcome)
}
