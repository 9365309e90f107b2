package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/hyperjump/tenang/internal/chat"
	"github.com/hyperjump/tenang/internal/indexer"
	"github.com/hyperjump/tenang/internal/models"
	"github.com/hyperjump/tenang/internal/storage"
	"github.com/hyperjump/tenang/pkg/utils"
	"go.uber.org/zap"
)

const rootText = `Tenang wellness chat API

POST /api/chat   {"message": "..."}
POST /api/book   {"name": "...", "phone": "...", "preferred": "...", "notes": "..."}
POST /api/index  rebuild the knowledge index
GET  /api/status index and provider status

Tenang is not a substitute for professional care. In an emergency, contact your local emergency number.
`

type indexResponse struct {
	OK      bool `json:"ok"`
	Indexed int  `json:"indexed"`
}

type bookResponse struct {
	OK  bool   `json:"ok"`
	Ref string `json:"ref"`
}

type statusResponse struct {
	Documents      int        `json:"documents"`
	VocabularySize int        `json:"vocabulary_size"`
	Generation     uint64     `json:"generation"`
	IndexedAt      *time.Time `json:"indexed_at,omitempty"`
	Providers      []string   `json:"providers"`
	KnowledgeBytes int64      `json:"knowledge_bytes"`
	BookingBackend string     `json:"booking_backend"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(rootText))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	resp := statusResponse{
		Documents:      snap.Size(),
		VocabularySize: snap.Vocabulary.Len(),
		Generation:     snap.Generation,
		Providers:      s.providers,
		BookingBackend: s.config.Booking.Backend,
	}
	if resp.Providers == nil {
		resp.Providers = []string{}
	}
	if !snap.IndexedAt.IsZero() {
		at := snap.IndexedAt
		resp.IndexedAt = &at
	}
	size, err := storage.UsageBytes(s.config.Knowledge.Dir)
	if err != nil {
		s.logger.Warn("status: knowledge size failed", zap.Error(err))
	}
	resp.KnowledgeBytes = size
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap, err := s.indexer.Rebuild(r.Context())
	if errors.Is(err, indexer.ErrNoDocuments) {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.logger.Error("indexing failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "indexing failed")
		return
	}
	s.respondJSON(w, http.StatusOK, indexResponse{OK: true, Indexed: snap.Size()})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Debug("chat request", utils.MessagePreview(req.Message))

	resp, err := s.chat.Reply(r.Context(), req.Message)
	if errors.Is(err, chat.ErrEmptyMessage) {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.logger.Error("chat failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "chat failed")
		return
	}
	s.logger.Debug("chat reply",
		zap.Bool("emergency", resp.Emergency),
		zap.String("provider", resp.Provider),
		zap.Strings("sources", resp.Sources))
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBook(w http.ResponseWriter, r *http.Request) {
	var in models.BookingInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rec, err := storage.NewBookingRecord(in, s.refs, s.now())
	if errors.Is(err, storage.ErrInvalidBooking) {
		s.respondError(w, http.StatusBadRequest, "name and phone are required")
		return
	}
	if err != nil {
		s.logger.Error("booking record failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "could not save booking")
		return
	}
	if err := s.bookings.AppendBooking(r.Context(), rec); err != nil {
		s.logger.Error("booking save failed", zap.String("ref", rec.Ref), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "could not save booking")
		return
	}
	s.logger.Info("booking saved", zap.String("ref", rec.Ref))
	s.respondJSON(w, http.StatusOK, bookResponse{OK: true, Ref: rec.Ref})
}

func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	records, err := s.bookings.ListBookings(r.Context())
	if err != nil {
		s.logger.Error("list bookings failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "could not list bookings")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"bookings": records})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
