package handlers

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/agentstation/scorecard/internal/server/response"
	"github.com/agentstation/scorecard/pkg/errors"
	"github.com/agentstation/scorecard/pkg/extraction"
	"github.com/agentstation/scorecard/pkg/logging"
	"github.com/agentstation/scorecard/pkg/resolve"
	"github.com/agentstation/scorecard/pkg/scan"
)

const (
	// multipartMemory is how much of a form is held in memory before spilling to disk
	multipartMemory = 8 << 20

	// formOverhead allows for the text fields and part headers next to the image
	formOverhead = 1 << 20

	// maxEditsBytes bounds a PATCH body
	maxEditsBytes = 1 << 20
)

// HandleCreateScan handles POST /api/v1/scans.
//
// The body is multipart/form-data with an "image" file part and optional
// user_context, course_hint, course_id, strategy, user_id and tee_box fields.
func (h *Handlers) HandleCreateScan(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+formOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if isTooLarge(err) {
			response.PayloadTooLarge(w, "scorecard images are limited to 20 MB")
			return
		}
		response.BadRequest(w, "Invalid multipart form", err.Error())
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("image")
	if err != nil {
		response.BadRequest(w, "image is required", "send the scorecard photo as the \"image\" form part")
		return
	}
	defer func() { _ = file.Close() }()

	img, err := io.ReadAll(io.LimitReader(file, h.maxUpload+1))
	if err != nil {
		response.BadRequest(w, "Could not read image", err.Error())
		return
	}
	if int64(len(img)) > h.maxUpload {
		response.PayloadTooLarge(w, "scorecard images are limited to 20 MB")
		return
	}

	strat, err := extraction.ParseStrategy(r.FormValue("strategy"))
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	sess, err := h.scanner.Scan(r.Context(), scan.Request{
		Image:       img,
		MIMEType:    uploadMIMEType(header),
		UserContext: r.FormValue("user_context"),
		CourseHint:  r.FormValue("course_hint"),
		CourseID:    r.FormValue("course_id"),
		Strategy:    strat,
		UserID:      r.FormValue("user_id"),
		TeeBox:      r.FormValue("tee_box"),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.sessions.Put(sess); err != nil {
		h.fail(w, r, err)
		return
	}
	response.Created(w, sess.Result())
}

// HandleGetScan handles GET /api/v1/scans/{id}.
func (h *Handlers) HandleGetScan(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Get(r.PathValue("id"))
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, sess.Result())
}

// HandleReviseScan handles PATCH /api/v1/scans/{id}.
//
// The body is a set of edits. A field set to null is cleared and stays
// empty; a field left out keeps its current value.
func (h *Handlers) HandleReviseScan(w http.ResponseWriter, r *http.Request) {
	var edits resolve.Edits
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEditsBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&edits); err != nil {
		response.BadRequest(w, "Invalid edits", err.Error())
		return
	}

	sess, err := h.sessions.Update(r.PathValue("id"), func(cur *scan.Session) (*scan.Session, error) {
		return h.scanner.Revise(r.Context(), cur, edits)
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, sess.Result())
}

// HandleConfirmScan handles POST /api/v1/scans/{id}/confirm. The reviewed
// round is saved as-is and the session ends. A failed save keeps the
// session so the user can retry.
func (h *Handlers) HandleConfirmScan(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Take(r.PathValue("id"))
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	round, err := h.scanner.Confirm(r.Context(), sess)
	if err != nil {
		h.sessions.Restore(sess)
		h.fail(w, r, err)
		return
	}
	response.Created(w, round)
}

// HandleDeleteScan handles DELETE /api/v1/scans/{id}. Abandoning a scan
// persists nothing.
func (h *Handlers) HandleDeleteScan(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !h.sessions.Delete(id) {
		response.ErrorFromType(w, errors.NewNotFoundError("scan", id))
		return
	}
	response.NoContent(w)
}

// fail logs err against the request and writes the mapped error response.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	logger := logging.FromContext(r.Context())
	switch {
	case errors.IsValidationError(err), errors.IsNotFound(err):
		logger.Debug().Err(err).Msg("Request rejected")
	default:
		logger.Error().Err(err).Msg("Request failed")
	}
	response.ErrorFromType(w, err)
}

// uploadMIMEType returns the declared type of an upload when the extractor
// accepts it, then the type implied by the file name. An empty result
// leaves detection to the scanner.
func uploadMIMEType(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); extraction.IsSupportedMIMEType(ct) {
		return ct
	}
	if mt, ok := extraction.SupportedMIMEType(header.Filename); ok {
		return mt
	}
	return ""
}

func isTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large")
}
