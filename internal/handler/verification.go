package handler

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/spf13/afero"
)

// VerificationFile is the domain-ownership proof the admin panel fetches.
const VerificationFile = "admin-panel-verification.txt"

// VerificationHandler serves files from the .well-known directory verbatim.
// The filesystem is an afero.Fs so tests run against an in-memory tree.
type VerificationHandler struct {
	fs     afero.Fs
	dir    string
	logger *slog.Logger
}

func NewVerificationHandler(fsys afero.Fs, dir string, logger *slog.Logger) *VerificationHandler {
	return &VerificationHandler{
		fs:     fsys,
		dir:    dir,
		logger: logger,
	}
}

// HandleVerification returns the verification file as text/plain, readable
// from any origin.
//
// HTTP: GET /.well-known/admin-panel-verification.txt
func (h *VerificationHandler) HandleVerification(w http.ResponseWriter, r *http.Request) {
	content, err := afero.ReadFile(h.fs, filepath.Join(h.dir, VerificationFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.Error(w, "Verification file not found", http.StatusNotFound)
			return
		}
		h.logger.Error("error serving verification file", slog.String("error", err.Error()))
		http.Error(w, "Error serving verification file", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}
