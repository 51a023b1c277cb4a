package httpapi

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/harunnryd/callpanel/pkg/callrequest"
	"github.com/harunnryd/callpanel/pkg/errorsx"
	"github.com/harunnryd/callpanel/pkg/panel"
	"github.com/harunnryd/callpanel/pkg/redact"
	"github.com/harunnryd/callpanel/pkg/resolver"
	"github.com/harunnryd/callpanel/pkg/session"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string     `json:"token"`
	User  string     `json:"user"`
	View  panel.View `json:"view"`
}

// callResponse reports a placement. Error is set when the record was stored
// but the agent could not be dispatched.
type callResponse struct {
	panel.Outcome
	Error  string `json:"error,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	sess, err := s.sessions.Login(req.Username, req.Password)
	if err != nil {
		s.log.Warn("login_failed", "remote", r.RemoteAddr)
		writeError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	s.log.Info("login", "user", sess.User)
	writeJSON(w, http.StatusOK, loginResponse{Token: sess.Token, User: sess.User, View: s.svc.View(sess)})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Logout(tokenFrom(r))
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSelection(w http.ResponseWriter, _ *http.Request, sess *session.Session) {
	writeJSON(w, http.StatusOK, s.svc.View(sess))
}

func (s *Server) handleSelectionEvent(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var ev resolver.Event
	if err := decodeJSON(r, &ev); err != nil {
		writeError(w, err)
		return
	}
	view, err := s.svc.Apply(sess, ev)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleSelectionSocket answers each selection event with the refreshed view,
// so the panel re-renders without a round trip per dropdown.
func (s *Server) handleSelectionSocket(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("ws_upgrade_failed", "error", err.Error())
		return
	}
	defer conn.Close()
	if err := conn.WriteJSON(s.svc.View(sess)); err != nil {
		return
	}
	for {
		var ev resolver.Event
		if err := conn.ReadJSON(&ev); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("ws_read_ended", "error", err.Error())
			}
			return
		}
		// The socket outlives the upgrade request; logout or expiry ends it.
		if _, err := s.sessions.Get(sess.Token); err != nil {
			_, body := errorPayload(err)
			_ = conn.WriteJSON(body)
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "session ended"),
				time.Now().Add(time.Second))
			return
		}
		view, err := s.svc.Apply(sess, ev)
		if err != nil {
			_, body := errorPayload(err)
			if werr := conn.WriteJSON(body); werr != nil {
				return
			}
			continue
		}
		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteJSON(view); err != nil {
			return
		}
	}
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var form callrequest.Form
	if err := decodeJSON(r, &form); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.svc.UpdateForm(sess, form))
}

func (s *Server) handleCost(w http.ResponseWriter, _ *http.Request, sess *session.Session) {
	est := s.svc.Estimate(sess)
	writeJSON(w, http.StatusOK, map[string]any{"estimate": est, "text": est.String()})
}

func (s *Server) handlePlaceCall(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	out, err := s.svc.PlaceCall(r.Context(), sess)
	s.writeOutcome(w, out, err)
}

func (s *Server) handleRedispatch(w http.ResponseWriter, r *http.Request, _ *session.Session) {
	out, err := s.svc.Redispatch(r.Context(), r.PathValue("id"))
	s.writeOutcome(w, out, err)
}

func (s *Server) writeOutcome(w http.ResponseWriter, out panel.Outcome, err error) {
	if err == nil {
		writeJSON(w, http.StatusCreated, callResponse{Outcome: out})
		return
	}
	if out.CallID == "" {
		writeError(w, err)
		return
	}
	s.log.Warn("call_not_placed", "call_id", redact.CallID(out.CallID), "reason", errorsx.Reason(err))
	status, body := errorPayload(err)
	writeJSON(w, status, callResponse{Outcome: out, Error: body.Error, Reason: body.Reason})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request, _ *session.Session) {
	docs, err := s.svc.ListDocuments(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request, _ *session.Session) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, errorsx.Errorf(errorsx.ReasonValidation, "file: %v", err))
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, errorsx.Errorf(errorsx.ReasonValidation, "file exceeds %d bytes", tooBig.Limit))
			return
		}
		writeError(w, errorsx.Errorf(errorsx.ReasonValidation, "read upload: %v", err))
		return
	}
	doc, err := s.svc.UploadDocument(r.Context(), header.Filename, data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request, _ *session.Session) {
	if err := s.svc.DeleteDocument(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
