package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jobboard/backend/internal/middleware"
	"github.com/jobboard/backend/internal/models"
	"github.com/jobboard/backend/internal/services"
)

const storeTimeout = 10 * time.Second

// AdminHandler exposes the admin moderation workflow over HTTP.
type AdminHandler struct {
	admin *services.AdminService
}

func NewAdminHandler(admin *services.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r.Context(), storeTimeout)
	defer cancel()

	users, err := h.admin.ListUsers(ctx, pageFromQuery(r))
	if err != nil {
		log.Printf("[ListUsers] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse("Users retrieved successfully", "users", users))
}

func (h *AdminHandler) UpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var req models.UpdateUserStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), storeTimeout)
	defer cancel()

	user, err := h.admin.UpdateUserStatus(ctx, userID, *req.IsActive)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("User not found"))
			return
		}
		log.Printf("[UpdateUserStatus] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse("User status updated successfully", "user", user))
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	actorID := middleware.GetUserID(r.Context())

	ctx, cancel := contextWithTimeout(r.Context(), storeTimeout)
	defer cancel()

	if err := h.admin.DeleteUser(ctx, userID, actorID); err != nil {
		switch {
		case errors.Is(err, services.ErrSelfDelete):
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("You cannot delete your own account"))
		case errors.Is(err, services.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("User not found"))
		default:
			log.Printf("[DeleteUser] Service error: %v", err)
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse("User deleted successfully"))
}

func (h *AdminHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r.Context(), storeTimeout)
	defer cancel()

	jobs, err := h.admin.ListJobs(ctx, pageFromQuery(r))
	if err != nil {
		log.Printf("[ListJobs] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse("Jobs retrieved successfully", "jobs", jobs))
}

func (h *AdminHandler) ReviewJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")

	var req models.ReviewJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), storeTimeout)
	defer cancel()

	job, err := h.admin.ReviewJob(ctx, jobID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidJobAction):
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid action"))
		case errors.Is(err, services.ErrJobNotFound):
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Job not found"))
		default:
			log.Printf("[ReviewJob] Service error: %v", err)
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Internal server error"))
		}
		return
	}

	message := "Job approved successfully"
	if req.Action == models.JobActionReject {
		message = "Job rejected successfully"
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(message, "job", job))
}

func (h *AdminHandler) PendingReports(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r.Context(), storeTimeout)
	defer cancel()

	reports, err := h.admin.PendingReports(ctx, pageFromQuery(r))
	if err != nil {
		log.Printf("[PendingReports] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse("Pending reports retrieved successfully", "reports", reports))
}

func (h *AdminHandler) ResolveReport(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportId")
	actorID := middleware.GetUserID(r.Context())

	var req models.ResolveReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), storeTimeout)
	defer cancel()

	report, err := h.admin.ResolveReport(ctx, reportID, actorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReportNotFound):
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Report not found"))
		case errors.Is(err, services.ErrReportActionMismatch):
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Action does not match the reported item type"))
		case errors.Is(err, services.ErrReportedItemNotFound):
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Reported item no longer exists"))
		default:
			log.Printf("[ResolveReport] Service error: %v", err)
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse("Report resolved successfully", "report", report))
}
