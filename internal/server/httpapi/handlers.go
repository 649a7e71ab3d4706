package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/socialmedia/internal/common"
	"github.com/dmitrijs2005/socialmedia/internal/server/models"
)

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var in models.Account
	if err := decodeJSON(r.Body, &in); err != nil {
		s.malformed(w, r, err)
		return
	}

	account, err := s.accounts.Register(r.Context(), &in)
	if err != nil {
		s.fail(w, r, err, http.StatusBadRequest)
		return
	}

	s.log(r).Info(r.Context(), "account registered", "account_id", account.ID, "username", account.Username)
	writeJSON(w, http.StatusOK, account)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var in models.Account
	if err := decodeJSON(r.Body, &in); err != nil {
		s.malformed(w, r, err)
		return
	}

	account, err := s.accounts.Login(r.Context(), in.Username, in.Password)
	if err != nil {
		s.fail(w, r, err, http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (s *Server) createMessage(w http.ResponseWriter, r *http.Request) {
	var in models.Message
	if err := decodeJSON(r.Body, &in); err != nil {
		s.malformed(w, r, err)
		return
	}

	msg, err := s.messages.Create(r.Context(), &in)
	if err != nil {
		s.fail(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.messages.List(r.Context())
	if err != nil {
		s.fail(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(msgs))
}

func (s *Server) getMessage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.malformed(w, r, err)
		return
	}

	msg, err := s.messages.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeEmpty(w, http.StatusOK)
			return
		}
		s.fail(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (s *Server) deleteMessage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.malformed(w, r, err)
		return
	}

	res, err := s.messages.Delete(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, http.StatusBadRequest)
		return
	}
	if !res.Deleted() {
		writeEmpty(w, http.StatusOK)
		return
	}
	writeJSON(w, http.StatusOK, res.Message)
}

func (s *Server) updateMessage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.malformed(w, r, err)
		return
	}

	var in models.Message
	if err := decodeJSON(r.Body, &in); err != nil {
		s.malformed(w, r, err)
		return
	}

	msg, err := s.messages.UpdateText(r.Context(), id, in.MessageText)
	if err != nil {
		s.fail(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (s *Server) listAccountMessages(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.malformed(w, r, err)
		return
	}

	msgs, err := s.messages.ListByAuthor(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(msgs))
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.log(r).Warn(r.Context(), "health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// nonNil makes sure lists encode as [] rather than null.
func nonNil(msgs []*models.Message) []*models.Message {
	if msgs == nil {
		return []*models.Message{}
	}
	return msgs
}
