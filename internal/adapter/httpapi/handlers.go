package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"neurabase/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

type fileResult struct {
	Filename string `json:"filename"`
	Status   string `json:"status"`
	Message  string `json:"message"`
	Code     int    `json:"code,omitempty"`
}

type uploadResponse struct {
	Success       []fileResult `json:"success"`
	Errors        []fileResult `json:"errors"`
	TotalUploaded int          `json:"total_uploaded"`
}

type queryRequest struct {
	Query *string `json:"query"`
	TopK  *int    `json:"top_k"`
}

type queryResponse struct {
	Answer     string   `json:"answer"`
	Sources    []string `json:"sources"`
	NumSources *int     `json:"num_sources,omitempty"`
}

type healthResponse struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	TotalChunks *int   `json:"total_chunks,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.opts.StaticDir != "" {
		path := filepath.Join(s.opts.StaticDir, "index.html")
		if _, err := os.Stat(path); err == nil {
			http.ServeFile(w, r, path)
			return
		}
	}

	data, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "index page unavailable")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// pendingFile is one part of an upload on its way through validation, saving
// and ingestion.
type pendingFile struct {
	original string
	saved    string
	ok       bool
	message  string
	code     int
}

func (f *pendingFile) fail(code int, msg string) {
	f.ok = false
	f.code = code
	f.message = msg
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if s.opts.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBytes)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("File too large. Maximum upload size is %d bytes", s.opts.MaxBytes))
			return
		}
		writeError(w, http.StatusBadRequest, "No files provided")
		return
	}
	defer r.MultipartForm.RemoveAll()

	// A part with an empty filename is parsed as a plain form value
	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		if _, blank := r.MultipartForm.Value["files"]; blank {
			writeError(w, http.StatusBadRequest, "No files selected")
			return
		}
		writeError(w, http.StatusBadRequest, "No files provided")
		return
	}
	if headers[0].Filename == "" {
		writeError(w, http.StatusBadRequest, "No files selected")
		return
	}

	files := make([]*pendingFile, len(headers))
	var paths []string
	var saved []*pendingFile
	for i, fh := range headers {
		f := &pendingFile{original: fh.Filename}
		files[i] = f

		if _, ok := s.allowedExtension(fh.Filename); !ok {
			f.fail(http.StatusUnsupportedMediaType,
				"Invalid file type. Allowed: "+strings.Join(s.opts.AllowedExtensions, ", "))
			continue
		}

		f.saved = SecureFilename(fh.Filename)
		if f.saved == "" {
			f.fail(http.StatusBadRequest, "Invalid filename")
			continue
		}

		path := filepath.Join(s.opts.UploadDir, f.saved)
		if err := saveUpload(fh, path); err != nil {
			s.logger.Error("failed to save upload", "file", f.saved, "error", err, "request_id", RequestID(r.Context()))
			f.fail(http.StatusInternalServerError, err.Error())
			continue
		}
		paths = append(paths, path)
		saved = append(saved, f)
	}

	outcomes := s.ingest.IngestBatch(r.Context(), paths, s.opts.Workers, nil)
	for i, out := range outcomes {
		f := saved[i]
		if out.Err != nil {
			f.fail(statusFor(out.Err), errorMessage(out.Err))
			continue
		}
		f.ok = true
		f.message = out.Result.Message()
	}

	resp := uploadResponse{Success: []fileResult{}, Errors: []fileResult{}}
	for _, f := range files {
		if !f.ok {
			resp.Errors = append(resp.Errors, fileResult{
				Filename: f.original,
				Status:   "error",
				Message:  f.message,
				Code:     f.code,
			})
			continue
		}
		resp.Success = append(resp.Success, fileResult{
			Filename: f.saved,
			Status:   "success",
			Message:  f.message,
		})
	}
	resp.TotalUploaded = len(resp.Success)

	writeJSON(w, http.StatusOK, resp)
}

func saveUpload(fh *multipart.FileHeader, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("failed to read upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to save upload: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("failed to save upload: %w", err)
	}
	return dst.Close()
}

// statusFor maps an ingestion failure to the code reported for its file.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, domain.ErrParse), errors.Is(err, domain.ErrEmptyContent):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrEmbedding), errors.Is(err, domain.ErrLLM):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage drops the stage prefix of pipeline errors; clients already
// know which file failed.
func errorMessage(err error) string {
	var se *domain.StageError
	if errors.As(err, &se) {
		return se.Err.Error()
	}
	return err.Error()
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "No query provided")
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid JSON body: %v", err))
		return
	}
	if req.Query == nil {
		writeError(w, http.StatusBadRequest, "No query provided")
		return
	}

	question := strings.TrimSpace(*req.Query)
	if question == "" {
		writeError(w, http.StatusBadRequest, "Query cannot be empty")
		return
	}

	topK := domain.DefaultTopK
	if req.TopK != nil {
		topK = *req.TopK
	}

	res, err := s.query.Query(r.Context(), domain.Query{Question: question, TopK: topK})
	if err != nil {
		s.logger.Error("query failed", "error", err, "request_id", RequestID(r.Context()))
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Query processing error: %v", err))
		return
	}

	resp := queryResponse{Answer: res.Answer, Sources: res.Sources}
	if res.NumSources > 0 {
		resp.NumSources = &res.NumSources
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "healthy", Service: serviceName}
	if n, err := s.retrieve.TotalChunks(r.Context()); err == nil {
		resp.TotalChunks = &n
	} else {
		s.logger.Warn("failed to count chunks", "error", err)
	}
	writeJSON(w, http.StatusOK, resp)
}
