package main

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"stravan-client/client/logging"
)

const (
	stubAthleteID = 476912
	stubToken     = "stub-token"
)

// newHandler monta as rotas. {scheme} é "api" ou "secure" para que as quatro
// base URLs possam apontar para o mesmo processo.
func newHandler(logger logging.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{scheme}/{version}/rides/{id}", handleRide)
	mux.HandleFunc("GET /{scheme}/{version}/athletes/{id}", handleAthlete)
	mux.HandleFunc("POST /{scheme}/{version}/authentication/login", handleLogin)
	mux.HandleFunc("GET /{scheme}/{version}/fail", handleFail)
	mux.HandleFunc("POST /{scheme}/{version}/fail", handleFail)
	mux.HandleFunc("POST /{scheme}/{version}/{action...}", handleEcho)

	return withRoute(logger, withDelay(mux))
}

// withRoute recusa prefixos e versões desconhecidos e loga cada chamada.
func withRoute(logger logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/"), "/", 3)
		if len(parts) < 3 || (parts[0] != "api" && parts[0] != "secure") || (parts[1] != "v1" && parts[1] != "v2") {
			http.NotFound(w, r)
			return
		}
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug(r.Context(), "stub request",
			"method", r.Method,
			"path", r.URL.Path,
			logging.DurationKey, time.Since(start).Milliseconds(),
		)
	})
}

// withDelay atrasa a resposta por ?delay=250ms (ou milissegundos inteiros).
// Útil para ver o pool de admissão enchendo.
func withDelay(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if d := parseDelay(r.URL.Query().Get("delay")); d > 0 {
			t := time.NewTimer(d)
			select {
			case <-r.Context().Done():
				t.Stop()
				return
			case <-t.C:
			}
		}
		next.ServeHTTP(w, r)
	})
}

func parseDelay(v string) time.Duration {
	if v == "" {
		return 0
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0
	}
	return d
}

func handleRide(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid ride id", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ride": map[string]any{
			"id":            id,
			"name":          "Morning Ride",
			"distance":      23456.7,
			"movingTime":    3600,
			"startDate":     "2011-07-01T08:00:00Z",
			"athlete":       map[string]any{"id": stubAthleteID, "name": "Stub Athlete"},
			"apiVersion":    r.PathValue("version"),
			"secureChannel": r.PathValue("scheme") == "secure",
		},
	})
}

func handleAthlete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid athlete id", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"athlete": map[string]any{"id": id, "name": "Stub Athlete", "username": "stub"},
	})
}

func handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if r.PostForm.Get("email") == "" || r.PostForm.Get("password") == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "Invalid email or password."})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token":   stubToken,
		"athlete": map[string]any{"id": stubAthleteID, "email": r.PostForm.Get("email")},
	})
}

func handleFail(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, "stub failure", http.StatusInternalServerError)
}

// handleEcho devolve o que recebeu: campos de formulário ou o corpo bruto.
func handleEcho(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"action":       r.PathValue("action"),
		"content_type": r.Header.Get("Content-Type"),
		"query":        r.URL.Query(),
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		resp["form"] = r.PostForm
	} else {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "read body", http.StatusBadRequest)
			return
		}
		resp["body"] = string(body)
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
