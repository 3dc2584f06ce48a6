// Copyright The Notice Tracker Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"github.com/practicedesk/notice-tracker-service/cmd/notice-tracker-api/service"
	"github.com/practicedesk/notice-tracker-service/internal/domain/model"
	errs "github.com/practicedesk/notice-tracker-service/pkg/errors"
)

// httpHandler exposes the use-case services over HTTP.
type httpHandler struct {
	ctx context.Context
}

func newHTTPHandler(ctx context.Context) *httpHandler {
	return &httpHandler{ctx: ctx}
}

// registerRoutes wires every endpoint onto the router.
func (h *httpHandler) registerRoutes(router *mux.Router) {
	// health
	router.HandleFunc("/livez", h.livez).Methods(http.MethodGet)
	router.HandleFunc("/readyz", h.readyz).Methods(http.MethodGet)

	// reconciliation triggers
	router.HandleFunc("/reconcile", h.reconcileAll).Methods(http.MethodPost)
	router.HandleFunc("/notices/{uid}/reconcile", h.reconcileNotice).Methods(http.MethodPost)
	router.HandleFunc("/clients/{uid}/reconcile", h.reconcileClient).Methods(http.MethodPost)

	// notices
	router.HandleFunc("/notices", h.createNotice).Methods(http.MethodPost)
	router.HandleFunc("/notices", h.listNotices).Methods(http.MethodGet)
	router.HandleFunc("/notices/{uid}", h.getNotice).Methods(http.MethodGet)
	router.HandleFunc("/notices/{uid}", h.updateNotice).Methods(http.MethodPut)
	router.HandleFunc("/notices/{uid}", h.deleteNotice).Methods(http.MethodDelete)
	router.HandleFunc("/notices/{uid}/poa", h.checkNoticePOA).Methods(http.MethodGet)
	router.HandleFunc("/notices/{uid}/billing", h.noticeBilling).Methods(http.MethodGet)
	router.HandleFunc("/notices/{uid}/calls", h.listNoticeCalls).Methods(http.MethodGet)

	// calls
	router.HandleFunc("/calls", h.createCall).Methods(http.MethodPost)
	router.HandleFunc("/calls/{uid}", h.getCall).Methods(http.MethodGet)
	router.HandleFunc("/calls/{uid}", h.updateCall).Methods(http.MethodPut)
	router.HandleFunc("/calls/{uid}", h.deleteCall).Methods(http.MethodDelete)

	// POA records
	router.HandleFunc("/poa-records", h.createPOARecord).Methods(http.MethodPost)
	router.HandleFunc("/poa-records/{uid}", h.getPOARecord).Methods(http.MethodGet)
	router.HandleFunc("/poa-records/{uid}", h.updatePOARecord).Methods(http.MethodPut)
	router.HandleFunc("/poa-records/{uid}", h.deletePOARecord).Methods(http.MethodDelete)

	// clients
	router.HandleFunc("/clients", h.createClient).Methods(http.MethodPost)
	router.HandleFunc("/clients", h.listClients).Methods(http.MethodGet)
	router.HandleFunc("/clients/{uid}", h.getClient).Methods(http.MethodGet)
	router.HandleFunc("/clients/{uid}", h.updateClient).Methods(http.MethodPut)
	router.HandleFunc("/clients/{uid}", h.deleteClient).Methods(http.MethodDelete)
	router.HandleFunc("/clients/{uid}/notices", h.listClientNotices).Methods(http.MethodGet)
	router.HandleFunc("/clients/{uid}/calls", h.listClientCalls).Methods(http.MethodGet)
	router.HandleFunc("/clients/{uid}/poa-records", h.listClientPOARecords).Methods(http.MethodGet)

	// dashboard
	router.HandleFunc("/dashboard/stats", h.dashboardStats).Methods(http.MethodGet)
	router.HandleFunc("/dashboard/escalated", h.dashboardEscalated).Methods(http.MethodGet)
	router.HandleFunc("/dashboard/due-soon", h.dashboardDueSoon).Methods(http.MethodGet)
}

// ================== health ==================

func (h *httpHandler) livez(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (h *httpHandler) readyz(w http.ResponseWriter, r *http.Request) {
	if err := service.Repository(h.ctx).IsReady(r.Context()); err != nil {
		respondWithError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// ================== reconciliation ==================

func (h *httpHandler) reconcileAll(w http.ResponseWriter, r *http.Request) {
	count, err := service.Reconciler(h.ctx).ReconcileAll(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "reconciliation pass had failures",
			"error", err,
			"updated", count,
		)
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"updated": count,
		"partial": err != nil,
	})
}

func (h *httpHandler) reconcileNotice(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["uid"]
	updated, err := service.Reconciler(h.ctx).ReconcileOne(r.Context(), uid)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"updated": updated})
}

func (h *httpHandler) reconcileClient(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["uid"]
	count, err := service.Reconciler(h.ctx).ReconcileForClient(r.Context(), uid)
	if err != nil {
		slog.ErrorContext(r.Context(), "client reconciliation had failures",
			"error", err,
			"client_uid", uid,
			"updated", count,
		)
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"updated": count,
		"partial": err != nil,
	})
}

// ================== notices ==================

func (h *httpHandler) createNotice(w http.ResponseWriter, r *http.Request) {
	var notice model.Notice
	if err := json.NewDecoder(r.Body).Decode(&notice); err != nil {
		respondWithError(w, r, errs.NewValidation("invalid request body", err))
		return
	}

	created, err := service.NoticeService(h.ctx).CreateNotice(r.Context(), &notice)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

func (h *httpHandler) listNotices(w http.ResponseWriter, r *http.Request) {
	notices, err := service.NoticeService(h.ctx).ListNotices(r.Context())
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, notices)
}

func (h *httpHandler) getNotice(w http.ResponseWriter, r *http.Request) {
	notice, err := service.NoticeService(h.ctx).GetNotice(r.Context(), mux.Vars(r)["uid"])
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, notice)
}

func (h *httpHandler) updateNotice(w http.ResponseWriter, r *http.Request) {
	var notice model.Notice
	if err := json.NewDecoder(r.Body).Decode(&notice); err != nil {
		respondWithError(w, r, errs.NewValidation("invalid request body", err))
		return
	}
	notice.UID = mux.Vars(r)["uid"]

	updated, err := service.NoticeService(h.ctx).UpdateNotice(r.Context(), &notice)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

func (h *httpHandler) deleteNotice(w http.ResponseWriter, r *http.Request) {
	if err := service.NoticeService(h.ctx).DeleteNotice(r.Context(), mux.Vars(r)["uid"]); err != nil {
		respondWithError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *httpHandler) checkNoticePOA(w http.ResponseWriter, r *http.Request) {
	result, err := service.POAService(h.ctx).CheckNotice(r.Context(), mux.Vars(r)["uid"])
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

func (h *httpHandler) noticeBilling(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["uid"]

	amounts, err := service.BillingService(h.ctx).CallAmounts(r.Context(), uid)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	total := 0.0
	for _, amount := range amounts {
		total += amount
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"notice_uid": uid,
		"amounts":    amounts,
		"total":      total,
	})
}

func (h *httpHandler) listNoticeCalls(w http.ResponseWriter, r *http.Request) {
	calls, err := service.CallService(h.ctx).ListCallsByNotice(r.Context(), mux.Vars(r)["uid"])
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, calls)
}

// ================== calls ==================

func (h *httpHandler) createCall(w http.ResponseWriter, r *http.Request) {
	var call model.Call
	if err := json.NewDecoder(r.Body).Decode(&call); err != nil {
		respondWithError(w, r, errs.NewValidation("invalid request body", err))
		return
	}

	created, err := service.CallService(h.ctx).CreateCall(r.Context(), &call)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

func (h *httpHandler) getCall(w http.ResponseWriter, r *http.Request) {
	call, err := service.CallService(h.ctx).GetCall(r.Context(), mux.Vars(r)["uid"])
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, call)
}

func (h *httpHandler) updateCall(w http.ResponseWriter, r *http.Request) {
	var call model.Call
	if err := json.NewDecoder(r.Body).Decode(&call); err != nil {
		respondWithError(w, r, errs.NewValidation("invalid request body", err))
		return
	}
	call.UID = mux.Vars(r)["uid"]

	updated, err := service.CallService(h.ctx).UpdateCall(r.Context(), &call)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

func (h *httpHandler) deleteCall(w http.ResponseWriter, r *http.Request) {
	if err := service.CallService(h.ctx).DeleteCall(r.Context(), mux.Vars(r)["uid"]); err != nil {
		respondWithError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ================== POA records ==================

func (h *httpHandler) createPOARecord(w http.ResponseWriter, r *http.Request) {
	var record model.POARecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		respondWithError(w, r, errs.NewValidation("invalid request body", err))
		return
	}

	created, err := service.POAService(h.ctx).CreatePOARecord(r.Context(), &record)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

func (h *httpHandler) getPOARecord(w http.ResponseWriter, r *http.Request) {
	record, err := service.POAService(h.ctx).GetPOARecord(r.Context(), mux.Vars(r)["uid"])
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, record)
}

func (h *httpHandler) updatePOARecord(w http.ResponseWriter, r *http.Request) {
	var record model.POARecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		respondWithError(w, r, errs.NewValidation("invalid request body", err))
		return
	}
	record.UID = mux.Vars(r)["uid"]

	updated, err := service.POAService(h.ctx).UpdatePOARecord(r.Context(), &record)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

func (h *httpHandler) deletePOARecord(w http.ResponseWriter, r *http.Request) {
	if err := service.POAService(h.ctx).DeletePOARecord(r.Context(), mux.Vars(r)["uid"]); err != nil {
		respondWithError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ================== clients ==================

func (h *httpHandler) createClient(w http.ResponseWriter, r *http.Request) {
	var client model.Client
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		respondWithError(w, r, errs.NewValidation("invalid request body", err))
		return
	}

	created, err := service.ClientService(h.ctx).CreateClient(r.Context(), &client)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

func (h *httpHandler) listClients(w http.ResponseWriter, r *http.Request) {
	clients, err := service.ClientService(h.ctx).ListClients(r.Context())
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, clients)
}

func (h *httpHandler) getClient(w http.ResponseWriter, r *http.Request) {
	client, err := service.ClientService(h.ctx).GetClient(r.Context(), mux.Vars(r)["uid"])
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, client)
}

func (h *httpHandler) updateClient(w http.ResponseWriter, r *http.Request) {
	var client model.Client
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		respondWithError(w, r, errs.NewValidation("invalid request body", err))
		return
	}
	client.UID = mux.Vars(r)["uid"]

	updated, err := service.ClientService(h.ctx).UpdateClient(r.Context(), &client)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

func (h *httpHandler) deleteClient(w http.ResponseWriter, r *http.Request) {
	if err := service.ClientService(h.ctx).DeleteClient(r.Context(), mux.Vars(r)["uid"]); err != nil {
		respondWithError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *httpHandler) listClientNotices(w http.ResponseWriter, r *http.Request) {
	notices, err := service.NoticeService(h.ctx).ListNoticesByClient(r.Context(), mux.Vars(r)["uid"])
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, notices)
}

func (h *httpHandler) listClientCalls(w http.ResponseWriter, r *http.Request) {
	calls, err := service.CallService(h.ctx).ListCallsByClient(r.Context(), mux.Vars(r)["uid"])
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, calls)
}

func (h *httpHandler) listClientPOARecords(w http.ResponseWriter, r *http.Request) {
	records, err := service.POAService(h.ctx).ListPOARecordsByClient(r.Context(), mux.Vars(r)["uid"])
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, records)
}

// ================== dashboard ==================

func (h *httpHandler) dashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := service.NoticeService(h.ctx).DashboardStats(r.Context())
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

func (h *httpHandler) dashboardEscalated(w http.ResponseWriter, r *http.Request) {
	notices, err := service.NoticeService(h.ctx).ListEscalated(r.Context())
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, notices)
}

func (h *httpHandler) dashboardDueSoon(w http.ResponseWriter, r *http.Request) {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, r, errs.NewValidation("days must be an integer", err))
			return
		}
		days = parsed
	}

	notices, err := service.NoticeService(h.ctx).ListDueSoon(r.Context(), days)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, notices)
}

// ================== response helpers ==================

func respondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	var (
		validation  errs.Validation
		notFound    errs.NotFound
		conflict    errs.Conflict
		unavailable errs.ServiceUnavailable
	)
	switch {
	case stderrors.As(err, &validation):
		status = http.StatusBadRequest
	case stderrors.As(err, &notFound):
		status = http.StatusNotFound
	case stderrors.As(err, &conflict):
		status = http.StatusConflict
	case stderrors.As(err, &unavailable):
		status = http.StatusServiceUnavailable
	}

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			"error", err,
			"path", r.URL.Path,
		)
	}

	respondWithJSON(w, status, map[string]string{"error": err.Error()})
}
