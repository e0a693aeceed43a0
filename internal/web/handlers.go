package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"
	"github.com/shopspring/decimal"

	"github.com/JonMunkholm/extblend/internal/core"
	"github.com/JonMunkholm/extblend/internal/logging"
	"github.com/JonMunkholm/extblend/internal/metrics"
	"github.com/JonMunkholm/extblend/internal/workbook"
)

// multipartMemory is how much of a form is held in memory before spilling
// to temp files.
const multipartMemory = 32 << 20

var (
	errFileTooLarge = errors.New("file too large")
	errBadForm      = errors.New("invalid upload form")
)

// dateLayout is the format of the optional "today" form field.
const dateLayout = "2006-01-02"

// =============================================================================
// Handlers
// =============================================================================

// handleProcess runs the pipeline and streams the result workbook.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	res, log, err := s.run(w, r)
	if err != nil {
		respondError(w, r, err, log)
		return
	}

	data, err := workbook.ExportBytes(res.Sheets())
	if err != nil {
		respondError(w, r, fmt.Errorf("export: %w", err), nil)
		return
	}

	w.Header().Set("Content-Type", workbook.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.cfg.Pipeline.OutputName))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("X-Run-ID", res.RunID.String())
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logging.FromContext(r.Context()).Warn("workbook write failed", "error", err)
	}
}

// PreviewResponse is the JSON summary of a run.
type PreviewResponse struct {
	RunID         string          `json:"runId"`
	Today         string          `json:"today"`
	Totals        []TotalJSON     `json:"totals"`
	Blended       []EntryJSON     `json:"blended"`
	ARSummary     []EntryJSON     `json:"arSummary"`
	CodateSummary []EntryJSON     `json:"codateSummary"`
	BlendedRows   int             `json:"blendedRows"`
	IVRVColumn    string          `json:"ivrvPriceColumn"`
	Stats         []core.Stats    `json:"stats"`
	Log           []core.LogEntry `json:"log"`
}

type TotalJSON struct {
	Metric string          `json:"metric"`
	Value  decimal.Decimal `json:"value"`
}

type EntryJSON struct {
	CustomerID string          `json:"customerId"`
	Total      decimal.Decimal `json:"total"`
}

// handlePreview runs the pipeline and returns totals, summaries and the
// processing log instead of a workbook.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	res, log, err := s.run(w, r)
	if err != nil {
		respondError(w, r, err, log)
		return
	}

	resp := PreviewResponse{
		RunID:         res.RunID.String(),
		Today:         res.Today.Format(dateLayout),
		Blended:       entries(res.Blended),
		ARSummary:     entries(res.ARInvoice.Summary),
		CodateSummary: entries(res.Codate.Summary),
		BlendedRows:   res.BlendedRows,
		IVRVColumn:    res.IVRV.SourcePriceColumn,
		Stats:         res.Stats(),
		Log:           log.Entries,
	}
	for _, t := range res.Totals() {
		resp.Totals = append(resp.Totals, TotalJSON{Metric: t.Metric, Value: t.Value})
	}

	render.JSON(w, r, resp)
}

func entries(s core.Summary) []EntryJSON {
	out := make([]EntryJSON, len(s.Entries))
	for i, e := range s.Entries {
		out[i] = EntryJSON{CustomerID: e.CustomerID, Total: e.Total}
	}
	return out
}

// handleSheets describes the output workbook.
func (s *Server) handleSheets(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"fileName": s.cfg.Pipeline.OutputName,
		"sheets":   core.SheetContract(),
	})
}

// handleHealth reports liveness and run limiter state.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"status": "ok",
		"runs":   s.runs.Status(),
	})
}

// =============================================================================
// Run
// =============================================================================

// run decodes the uploaded files and executes one pipeline run under the
// run limiter. The processing log is returned even on failure.
func (s *Server) run(w http.ResponseWriter, r *http.Request) (res *core.Result, log *core.ProcessingLog, err error) {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveRun(outcome(err), time.Since(start), res)
		}
	}()

	in, rules, err := s.parseUpload(w, r)
	if err != nil {
		return nil, nil, err
	}

	runLogger := logging.WithFields(r.Context(), "component", "pipeline")
	err = s.runs.Do(r.Context(), func(ctx context.Context) error {
		log = &core.ProcessingLog{}
		rep := core.MultiReporter{log, core.NewSlogReporter(runLogger)}
		var runErr error
		res, runErr = core.Run(ctx, in, rules, rep)
		return runErr
	})
	if err != nil {
		return nil, log, err
	}
	runLogger.Info("run complete", "run_id", res.RunID, "blended_rows", res.BlendedRows)
	return res, log, nil
}

// parseUpload reads the multipart form into pipeline inputs. An absent
// file field leaves that input nil so the run reports it as missing.
func (s *Server) parseUpload(w http.ResponseWriter, r *http.Request) (core.Inputs, core.Rules, error) {
	var in core.Inputs
	rules := s.cfg.Pipeline.Rules()

	maxFile := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, 3*maxFile+multipartMemory)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return in, rules, err
		}
		return in, rules, fmt.Errorf("%w: %v", errBadForm, err)
	}

	if v := r.FormValue("today"); v != "" {
		today, err := time.Parse(dateLayout, v)
		if err != nil {
			return in, rules, fmt.Errorf("%w: today must be YYYY-MM-DD", errBadForm)
		}
		rules.Now = func() time.Time { return today }
	}

	var sources []workbook.Source
	for _, kind := range core.Kinds() {
		src, err := s.formSource(r, kind, maxFile)
		if err != nil {
			return in, rules, err
		}
		if src != nil {
			sources = append(sources, *src)
		}
	}

	in, err := workbook.LoadInputs(r.Context(), sources)
	return in, rules, err
}

// formSource returns the upload for kind, or nil when the field is absent
// or was submitted without choosing a file.
func (s *Server) formSource(r *http.Request, kind core.DatasetKind, maxFile int64) (*workbook.Source, error) {
	files := r.MultipartForm.File[string(kind)]
	if len(files) == 0 {
		return nil, nil
	}
	header := files[0]
	if header.Filename == "" && header.Size == 0 {
		return nil, nil
	}
	if header.Size > maxFile {
		return nil, fmt.Errorf("%s: %w: %d bytes exceeds %d", header.Filename, errFileTooLarge, header.Size, maxFile)
	}
	return &workbook.Source{
		Kind:    kind,
		Name:    header.Filename,
		Open:    func() (io.ReadCloser, error) { return header.Open() },
		Options: s.cfg.Loader.Options(kind),
	}, nil
}

// outcome classifies a run error for metrics.
func outcome(err error) string {
	switch statusFor(err) {
	case http.StatusOK:
		return metrics.OutcomeSuccess
	case http.StatusServiceUnavailable:
		return metrics.OutcomeBusy
	case http.StatusInternalServerError, http.StatusGatewayTimeout, 499:
		return metrics.OutcomeError
	default:
		return metrics.OutcomeRejected
	}
}
