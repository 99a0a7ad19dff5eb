package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/relaykit/contact-relay/internal/contacts"
	"github.com/relaykit/contact-relay/internal/pipeline"
	"github.com/relaykit/contact-relay/pkg/logging"
)

// BatchHandler serves one-shot batch runs over HTTP.
type BatchHandler struct {
	pipeline    *pipeline.Pipeline
	defaultPlan contacts.DialPlan
	logger      *logging.Logger
}

func NewBatchHandler(p *pipeline.Pipeline, defaultPlan contacts.DialPlan, logger *logging.Logger) *BatchHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &BatchHandler{pipeline: p, defaultPlan: defaultPlan, logger: logger}
}

type batchRequest struct {
	Rows    []map[string]string `json:"rows"`
	Mapping struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	} `json:"mapping"`
	DialPrefix string `json:"dial_prefix,omitempty"`
}

func (req *batchRequest) rawContacts() []contacts.RawContact {
	rows := make([]contacts.RawContact, 0, len(req.Rows))
	for i, fields := range req.Rows {
		rows = append(rows, contacts.RawContact{Row: i + 1, Fields: fields})
	}
	return rows
}

// POST /v1/batches/classify
func (h *BatchHandler) Classify(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, pipeline.ModeClassify)
}

// POST /v1/batches/send
func (h *BatchHandler) Send(w http.ResponseWriter, r *http.Request) {
	if !h.pipeline.SendEnabled() {
		http.Error(w, "messaging gateway not configured", http.StatusServiceUnavailable)
		return
	}
	h.run(w, r, pipeline.ModeSend)
}

// POST /v1/batches/export
func (h *BatchHandler) Export(w http.ResponseWriter, r *http.Request) {
	report, ok := h.execute(w, r, pipeline.ModeExport)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/vcard; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="contacts.vcf"`)
	w.Write([]byte(report.VCard))
}

// GET /health
func (h *BatchHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":       "ok",
		"send_enabled": h.pipeline.SendEnabled(),
	})
}

func (h *BatchHandler) run(w http.ResponseWriter, r *http.Request, mode pipeline.Mode) {
	report, ok := h.execute(w, r, mode)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

func (h *BatchHandler) execute(w http.ResponseWriter, r *http.Request, mode pipeline.Mode) (*pipeline.Report, bool) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}
	if len(req.Rows) == 0 {
		http.Error(w, "rows are required", http.StatusBadRequest)
		return nil, false
	}

	plan := h.defaultPlan
	if req.DialPrefix != "" {
		plan = contacts.PlanFromPrefix(req.DialPrefix, h.defaultPlan)
	}
	report, err := h.pipeline.Run(r.Context(), req.rawContacts(), pipeline.RunConfig{
		Mode: mode,
		Mapping: contacts.FieldMapping{
			NameColumn:  req.Mapping.Name,
			PhoneColumn: req.Mapping.Phone,
		},
		Plan: plan,
	})
	if err != nil {
		// Precondition failures only; row-level problems are report data.
		h.logger.Warn("batch rejected", "mode", string(mode), "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return report, true
}
