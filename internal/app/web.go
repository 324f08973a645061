// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/relabs-tech/camera_motion/internal/capture"
	"github.com/relabs-tech/camera_motion/internal/config"
	"github.com/relabs-tech/camera_motion/internal/vmdcsv"
)

// RunWeb serves the phone recorder UI. The phone streams its orientation
// over a websocket and drives the session with the /api endpoints.
func RunWeb() error {
	cfg := config.Get()

	session := capture.NewSession(sessionOptions(cfg))
	handler := NewWebHandler(session, cfg.WebStaticDir)

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web server listening on %s", addr)
	return http.ListenAndServe(addr, handler)
}

func sessionOptions(cfg *config.Config) capture.Options {
	return capture.Options{
		RateHz:        cfg.RecordRateHz,
		Window:        cfg.SmoothingWindow,
		WrapThreshold: cfg.HeadingWrapThreshold,
	}
}

// NewWebHandler wires the recorder endpoints for one session. An empty
// staticDir disables the file server.
func NewWebHandler(session *capture.Session, staticDir string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ws/orientation", func(w http.ResponseWriter, r *http.Request) {
		HandleOrientationWS(session, w, r)
	})

	mux.HandleFunc("GET /api/orientation", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, session.Offset())
	})

	mux.HandleFunc("GET /api/session", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, session.Snapshot())
	})

	// The browser calls this once the motion sensor permission is granted.
	mux.HandleFunc("POST /api/permission", func(w http.ResponseWriter, r *http.Request) {
		session.Authorize()
		writeJSON(w, http.StatusOK, session.Snapshot())
	})

	mux.HandleFunc("POST /api/reset", func(w http.ResponseWriter, r *http.Request) {
		session.Reset()
		writeJSON(w, http.StatusOK, session.Snapshot())
	})

	mux.HandleFunc("POST /api/start", func(w http.ResponseWriter, r *http.Request) {
		if err := session.Start(); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, session.Snapshot())
	})

	mux.HandleFunc("POST /api/stop", func(w http.ResponseWriter, r *http.Request) {
		res, err := session.Stop()
		if err != nil {
			writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+vmdcsv.FileName+`"`)
		w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
		w.Header().Set("X-Session-Id", res.SessionID)
		if _, err := w.Write(res.Data); err != nil {
			log.Printf("web: motion download write error: %v", err)
		}
	})

	if staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	}

	return mux
}

// statusFor maps session errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, capture.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, capture.ErrAlreadyRecording), errors.Is(err, capture.ErrNotRecording):
		return http.StatusConflict
	case errors.Is(err, vmdcsv.ErrEmptyInput):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// userMessage is the text shown to the person holding the phone.
func userMessage(err error) string {
	switch {
	case errors.Is(err, capture.ErrNotAuthorized):
		return "motion sensor access has not been granted"
	case errors.Is(err, capture.ErrAlreadyRecording):
		return "already recording"
	case errors.Is(err, capture.ErrNotRecording):
		return "not recording"
	case errors.Is(err, vmdcsv.ErrEmptyInput):
		return "no recorded data"
	default:
		return err.Error()
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": userMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("json encode error: %v", err)
	}
}
