package processes

import (
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/flowbit/flowbit/pkg/handlers"
	"github.com/flowbit/flowbit/pkg/pagination"
	"github.com/flowbit/flowbit/pkg/routes"
)

// Handler provides HTTP endpoints for process operations.
type Handler struct {
	sys           System
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// ProcessRequest is the JSON intake body. Content carries the document
// verbatim; email and PDF text go in as-is, JSON payloads as a raw message.
type ProcessRequest struct {
	Source  string          `json:"source"`
	Content json.RawMessage `json:"content"`
}

// BatchRequest carries multiple documents for concurrent processing.
type BatchRequest struct {
	Documents []ProcessRequest `json:"documents"`
}

// NewHandler creates a Handler with the given system, logger, pagination
// config, and upload size limit.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
	maxUploadSize int64,
) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "processes"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for process endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/processes",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "POST", Pattern: "", Handler: h.Process},
			{Method: "POST", Pattern: "/batch", Handler: h.ProcessBatch},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
	}
}

// List returns a paginated list of processes with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single process record by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInput)
		return
	}

	rec, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rec)
}

// Search accepts a JSON body with pagination and filter criteria and returns
// matching processes.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInput)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Process runs one document through the pipeline. Accepts a JSON body with
// source and content, or a multipart form with either a file upload or a
// content field.
func (h *Handler) Process(w http.ResponseWriter, r *http.Request) {
	cmd, err := h.readCommand(r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	rec, err := h.sys.Process(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, rec)
}

// ProcessBatch runs multiple documents through the pipeline concurrently
// and reports per-document outcomes. Accepts a JSON body with a documents
// array, or a multipart form carrying multiple files.
func (h *Handler) ProcessBatch(w http.ResponseWriter, r *http.Request) {
	cmds, err := h.readBatch(r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if len(cmds) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrEmptyContent)
		return
	}

	results := h.sys.ProcessBatch(r.Context(), cmds)
	handlers.RespondJSON(w, http.StatusOK, results)
}

// Delete removes a process record by its UUID path parameter.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInput)
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) readCommand(r *http.Request) (ProcessCommand, error) {
	if isMultipart(r) {
		return h.readMultipart(r)
	}

	var req ProcessRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, h.maxUploadSize)).Decode(&req); err != nil {
		return ProcessCommand{}, ErrInvalidInput
	}

	return commandFromRequest(req), nil
}

// readMultipart takes the document from a file part when one is present,
// otherwise from the content form field.
func (h *Handler) readMultipart(r *http.Request) (ProcessCommand, error) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		return ProcessCommand{}, ErrFileTooLarge
	}

	cmd := ProcessCommand{Source: r.FormValue("source")}

	if files := r.MultipartForm.File["file"]; len(files) > 0 {
		data, err := readPart(files[0])
		if err != nil {
			return ProcessCommand{}, err
		}
		cmd.Content = data
		return cmd, nil
	}

	cmd.Content = []byte(r.FormValue("content"))
	return cmd, nil
}

func (h *Handler) readBatch(r *http.Request) ([]ProcessCommand, error) {
	if isMultipart(r) {
		return h.readBatchMultipart(r)
	}

	var req BatchRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, h.maxUploadSize)).Decode(&req); err != nil {
		return nil, ErrInvalidInput
	}

	cmds := make([]ProcessCommand, len(req.Documents))
	for i, doc := range req.Documents {
		cmds[i] = commandFromRequest(doc)
	}

	return cmds, nil
}

// readBatchMultipart collects every file part, in upload order, as one
// command each. A source form field applies to all files; without one,
// each file's name serves as its source.
func (h *Handler) readBatchMultipart(r *http.Request) ([]ProcessCommand, error) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		return nil, ErrFileTooLarge
	}

	source := r.FormValue("source")

	var cmds []ProcessCommand
	for _, field := range []string{"files", "file"} {
		for _, header := range r.MultipartForm.File[field] {
			data, err := readPart(header)
			if err != nil {
				return nil, err
			}

			src := source
			if src == "" {
				src = header.Filename
			}
			cmds = append(cmds, ProcessCommand{Source: src, Content: data})
		}
	}

	return cmds, nil
}

func isMultipart(r *http.Request) bool {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return strings.HasPrefix(mediaType, "multipart/")
}

func readPart(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, ErrInvalidInput
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, ErrInvalidInput
	}

	return data, nil
}

// commandFromRequest unwraps the content: a JSON string is decoded to its
// raw text, anything else (objects, arrays) passes through verbatim.
func commandFromRequest(req ProcessRequest) ProcessCommand {
	content := []byte(req.Content)

	var text string
	if err := json.Unmarshal(req.Content, &text); err == nil {
		content = []byte(text)
	}

	return ProcessCommand{
		Source:  req.Source,
		Content: content,
	}
}
