package http

import (
	"errors"
	"net/http"

	"finbuddy/internal/calc"
	applog "finbuddy/internal/log"
	"finbuddy/internal/preview"
)

const maxMultipartMemory = 6 << 20

func (s *Server) handleCSVPreview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartMemory)
	var (
		res preview.Result
		err error
	)
	file, header, ferr := r.FormFile("file")
	switch {
	case errors.Is(ferr, http.ErrMissingFile), errors.Is(ferr, http.ErrNotMultipart):
		err = preview.ErrNoFile
	case ferr != nil:
		err = ferr
	default:
		defer file.Close()
		res, err = preview.Read(header.Filename, file, s.previewLimit)
	}
	s.metrics.Tool("csv", err)

	switch {
	case errors.Is(err, preview.ErrNoFile):
		UnprocessableEntityError("Please select a CSV file").Write(w)
		return
	case err != nil:
		s.slog.LogError(r.Context(), "CSV preview failed", err, applog.ComponentTools, "preview",
			applog.NewFields().WithTool("csv"))
		BadRequestError("Could not read the uploaded file").Write(w)
		return
	}
	s.render(w, r, "csv_preview", res)
}

func (s *Server) handleSIP(w http.ResponseWriter, r *http.Request) {
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	in, err := calc.ParseSIP(p.Get("monthly"), p.Get("rate"), p.Get("years"))
	var res calc.SIPResult
	if err == nil {
		res, err = calc.SIP(in)
	}
	s.metrics.Tool("sip", err)
	if err != nil {
		UnprocessableEntityError("Enter SIP amount and years").Write(w)
		return
	}
	s.render(w, r, "sip_result", struct {
		Input  calc.SIPInput
		Result calc.SIPResult
	}{in, res})
}

func (s *Server) handleTax(w http.ResponseWriter, r *http.Request) {
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	in, err := calc.ParseTax(p.Get("income"))
	var res calc.TaxResult
	if err == nil {
		res, err = calc.Tax(in)
	}
	s.metrics.Tool("tax", err)
	if err != nil {
		UnprocessableEntityError("Enter income").Write(w)
		return
	}
	s.render(w, r, "tax_result", res)
}
