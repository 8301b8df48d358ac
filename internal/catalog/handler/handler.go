package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"ratematch-service/internal/catalog/model"
	"ratematch-service/internal/catalog/service"
	"ratematch-service/internal/fileio"
	"ratematch-service/internal/middleware"
)

// Handler serves the catalog endpoints on top of a Matcher.
type Handler struct {
	matcher   *service.Matcher
	seeder    *service.Seeder
	logger    zerolog.Logger
	validate  *validator.Validate
	maxUpload int64
}

func New(m *service.Matcher, s *service.Seeder, logger zerolog.Logger, maxUploadMB int) *Handler {
	return &Handler{
		matcher:   m,
		seeder:    s,
		logger:    logger,
		validate:  newValidator(),
		maxUpload: int64(maxUploadMB) << 20,
	}
}

func (h *Handler) log(r *http.Request) zerolog.Logger {
	if rid := middleware.GetRequestID(r); rid != "" {
		return h.logger.With().Str("rid", rid).Logger()
	}
	return h.logger
}

// Load accepts {"items": [...], "replace": bool}. On /load an empty body
// reloads the seed file instead.
func (h *Handler) Load(allowSeed bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := h.log(r)
		defer r.Body.Close()

		var req model.LoadRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		switch {
		case errors.Is(err, io.EOF) && allowSeed:
			h.autopopulate(w, log)
			return
		case errors.Is(err, io.EOF):
			writeDetail(w, http.StatusBadRequest, "request body is required")
			return
		case err != nil:
			writeDetail(w, http.StatusBadRequest, describeDecode(err))
			return
		}
		if err := h.validate.Struct(req); err != nil {
			writeDetail(w, http.StatusBadRequest, describeValidation(err))
			return
		}

		recs := make([]model.Record, len(req.Items))
		for i, in := range req.Items {
			recs[i] = in.Record()
		}
		replace := req.ReplaceOrDefault()
		h.matcher.Load(recs, replace)

		log.Info().
			Int("items", len(recs)).
			Bool("replace", replace).
			Int("total", h.matcher.Len()).
			Msg("items loaded")
		writeJSON(w, http.StatusOK, msgLoaded)
	}
}

func (h *Handler) autopopulate(w http.ResponseWriter, log zerolog.Logger) {
	n, err := h.seeder.Seed()
	if err != nil {
		log.Error().Err(err).Msg("seed")
		writeDetail(w, statusFor(err), err.Error())
		return
	}
	log.Info().Int("items", n).Msg("seed loaded")
	writeJSON(w, http.StatusOK, msgAutopopulate)
}

// Upload loads items from a multipart "file" (.json, .csv, .xlsx, .xls).
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	log := h.log(r)
	start := time.Now()

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		writeDetail(w, http.StatusBadRequest, "bad multipart form: "+err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "missing file: "+err.Error())
		return
	}
	defer file.Close()

	rows, err := fileio.ReadAnyMaps(file, header.Filename, atoi(r.FormValue("header_row"), 1))
	if err != nil {
		writeDetail(w, http.StatusBadRequest, fmt.Sprintf("failed to read %s: %v", header.Filename, err))
		return
	}
	recs, err := service.RecordsFromRows(rows)
	if err != nil {
		writeDetail(w, statusFor(err), err.Error())
		return
	}
	if len(recs) == 0 {
		writeDetail(w, http.StatusBadRequest, fmt.Sprintf("no items found in %s", header.Filename))
		return
	}

	replace := toBool(r.FormValue("replace"), true)
	h.matcher.Load(recs, replace)

	log.Info().
		Str("file", header.Filename).
		Int("items", len(recs)).
		Bool("replace", replace).
		Dur("elapsed", time.Since(start)).
		Msg("items uploaded")
	writeJSON(w, http.StatusOK, msgLoaded)
}

func (h *Handler) Items(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.matcher.List())
}

func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	h.matcher.Clear()
	log := h.log(r)
	log.Info().Msg("items cleared")
	writeJSON(w, http.StatusOK, msgCleared)
}

// Match answers {"trade", "unit_of_measure"} with the best record.
func (h *Handler) Match(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req model.MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			writeDetail(w, http.StatusBadRequest, msgMatchInput)
			return
		}
		writeDetail(w, http.StatusBadRequest, describeDecode(err))
		return
	}
	h.respondMatch(w, r, req, false)
}

// MatchRandom runs the match flow for a random entry of the sample file.
func (h *Handler) MatchRandom(w http.ResponseWriter, r *http.Request) {
	req, err := h.seeder.RandomSample()
	if err != nil {
		log := h.log(r)
		log.Error().Err(err).Msg("sample")
		writeDetail(w, statusFor(err), err.Error())
		return
	}
	h.respondMatch(w, r, req, true)
}

func (h *Handler) respondMatch(w http.ResponseWriter, r *http.Request, req model.MatchRequest, echo bool) {
	log := h.log(r)

	res, err := h.matcher.Match(req.Trade, req.UnitOfMeasure)
	if err != nil {
		status := statusFor(err)
		log.Info().
			Str("trade", req.Trade).
			Str("uom", req.UnitOfMeasure).
			Int("status", status).
			Err(err).
			Msg("no match")
		switch status {
		case http.StatusBadRequest:
			writeDetail(w, status, msgMatchInput)
		case http.StatusNotFound:
			writeDetail(w, status, msgNoMatch)
		default:
			writeDetail(w, status, err.Error())
		}
		return
	}

	resp := model.MatchResponse{
		BestMatch:       res.Record,
		SimilarityScore: roundScore(res.Score),
	}
	if echo {
		resp.Query = &req
	}
	log.Info().
		Str("trade", req.Trade).
		Str("uom", req.UnitOfMeasure).
		Str("match_id", res.Record.ID).
		Float64("score", res.Score).
		Msg("match")
	writeJSON(w, http.StatusOK, resp)
}
