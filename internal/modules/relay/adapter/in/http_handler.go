package in

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"

	positiondto "folio/internal/modules/position/dto"
	positionin "folio/internal/modules/position/port/in"
	apperrors "folio/internal/platform/errors"
)

// SyncHandler serves the position ledger to other folio installs.
type SyncHandler struct {
	positions positionin.Usecase
	logger    hclog.Logger
}

func NewSyncHandler(positions positionin.Usecase, logger hclog.Logger) *SyncHandler {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &SyncHandler{positions: positions, logger: logger}
}

func NewRouter(handler *SyncHandler) http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/healthz", handler.Health).Methods(http.MethodGet)
	router.HandleFunc("/books/{book}/positions", handler.ListPositions).Methods(http.MethodGet)
	router.HandleFunc("/books/{book}/positions/{device}", handler.GetPosition).Methods(http.MethodGet)
	router.HandleFunc("/books/{book}/positions/{device}", handler.PutPosition).Methods(http.MethodPut)
	return router
}

func (h *SyncHandler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "folio-relay"})
}

func (h *SyncHandler) ListPositions(w http.ResponseWriter, r *http.Request) {
	book := mux.Vars(r)["book"]
	positions, err := h.positions.ListPositions(r.Context(), book)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookId": book, "positions": positions})
}

func (h *SyncHandler) GetPosition(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	position, err := h.positions.GetPosition(r.Context(), vars["book"], vars["device"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, position)
}

func (h *SyncHandler) PutPosition(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var body positiondto.Position
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64*1024))
	if err := decoder.Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid position body"})
		return
	}
	if body.DeviceID == "" {
		body.DeviceID = vars["device"]
	}
	if body.DeviceID != vars["device"] {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "device id in body does not match path"})
		return
	}
	updated, err := h.positions.UpdatePosition(r.Context(), positiondto.UpdatePositionInput{BookID: vars["book"], Position: body})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.logger.Debug("position stored", "book", vars["book"], "device", vars["device"], "page", updated.Page)
	writeJSON(w, http.StatusOK, updated)
}

func (h *SyncHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidInput), errors.Is(err, apperrors.ErrUnsupportedKind):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		h.logger.Error("sync request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
