package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/facture/pkg/buildinfo"
	"github.com/matzehuels/facture/pkg/errors"
	fio "github.com/matzehuels/facture/pkg/io"
	"github.com/matzehuels/facture/pkg/invoice"
	"github.com/matzehuels/facture/pkg/ledger"
	"github.com/matzehuels/facture/pkg/numbering"
	"github.com/matzehuels/facture/pkg/pipeline"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type healthBody struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

type listBody struct {
	Records []*ledger.Record `json:"records"`
	Count   int              `json:"count"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthBody{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleIssue(w http.ResponseWriter, r *http.Request) {
	inv, err := s.readInvoice(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := s.opts
	if dry, _ := strconv.ParseBool(r.URL.Query().Get("dry_run")); dry {
		opts.DryRun = true
	}
	res, err := s.runner.Execute(r.Context(), inv, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	name := numbering.FileName(res.InvoiceID, inv.Client.Summary)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(name))
	w.Header().Set("X-Invoice-ID", res.InvoiceID)
	w.Header().Set("Content-Length", strconv.Itoa(len(res.PDF)))
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(res.PDF)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	inv, err := s.readInvoice(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pipeline.Summarize(inv))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := ledger.Filter{Kind: q.Get("kind"), Client: q.Get("client")}
	if y := q.Get("year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil || year < 1 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid year: %q", y))
			return
		}
		f.Year = year
	}
	if f.Kind != "" {
		if _, err := invoice.ParseKind(f.Kind); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	recs, err := s.runner.Store.List(r.Context(), f)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if recs == nil {
		recs = []*ledger.Record{}
	}
	writeJSON(w, http.StatusOK, listBody{Records: recs, Count: len(recs)})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateInvoiceID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := s.runner.Lookup(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) readInvoice(w http.ResponseWriter, r *http.Request) (*invoice.Invoice, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	return fio.ReadJSON(r.Body)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	httpError(r, err)
	writeJSON(w, status, errorBody{Code: string(code), Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
