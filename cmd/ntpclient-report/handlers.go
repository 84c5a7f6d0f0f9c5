package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/AndrewLester/ntpclient/pkg/ntp"
	"github.com/AndrewLester/ntpclient/pkg/query"
	"github.com/gorilla/mux"
)

type queryFunc func(ctx context.Context, opts query.Options) (*query.Exchange, error)

type reportServer struct {
	clock   ntp.Clock
	query   queryFunc
	options query.Options
	allowed map[string]bool // servers /query may contact, "*" allows any
}

// parseAllowList reads a comma separated server list.
func parseAllowList(list string) map[string]bool {
	allowed := make(map[string]bool)
	for _, server := range strings.Split(list, ",") {
		if server = strings.ToLower(strings.TrimSpace(server)); server != "" {
			allowed[server] = true
		}
	}
	return allowed
}

func (s *reportServer) allows(server string) bool {
	return s.allowed["*"] || s.allowed[strings.ToLower(server)]
}

type TimeResponse struct {
	Seconds   uint32 `json:"seconds"`
	Fraction  uint32 `json:"fraction"`
	Formatted string `json:"formatted"`
}

type QueryResponse struct {
	Server      string  `json:"server"`
	Address     string  `json:"address,omitempty"`
	Stratum     uint8   `json:"stratum"`
	ReferenceID string  `json:"reference_id"`
	Offset      float64 `json:"offset"`
	Delay       float64 `json:"delay"`
	Dispersion  float64 `json:"dispersion"`
	ServerTime  string  `json:"server_time"`
	ClientTime  string  `json:"client_time"`
}

// SyncRequest and SyncResponse carry 64-bit NTP timestamps as decimal
// strings; JavaScript numbers cannot hold them.
type SyncRequest struct {
	Orig string `json:"orig"`
}

type SyncResponse struct {
	Orig string `json:"orig"`
	Recv string `json:"recv"`
	Xmt  string `json:"xmt"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *reportServer) router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/time", s.handleTime).Methods(http.MethodGet)
	r.HandleFunc("/query/{server}", s.handleQuery).Methods(http.MethodGet)
	r.HandleFunc("/sync", s.handleSync).Methods(http.MethodPost)
	return r
}

func (s *reportServer) handleTime(w http.ResponseWriter, r *http.Request) {
	now := s.clock.Now()
	writeJSON(w, http.StatusOK, TimeResponse{
		Seconds:   now.Seconds,
		Fraction:  now.Fraction,
		Formatted: now.Format(false),
	})
}

func (s *reportServer) handleQuery(w http.ResponseWriter, r *http.Request) {
	opts := s.options
	opts.Server = mux.Vars(r)["server"]
	if !s.allows(opts.Server) {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "server not allowed: " + opts.Server})
		return
	}

	exchange, err := s.query(r.Context(), opts)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, query.ErrNoResponse) {
			status = http.StatusGatewayTimeout
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	response := QueryResponse{
		Server:      exchange.Server,
		Stratum:     exchange.Response.Stratum,
		ReferenceID: exchange.Response.RefID().String(),
		Offset:      exchange.Result.Offset,
		Delay:       exchange.Result.Delay,
		Dispersion:  exchange.Result.Dispersion,
		ServerTime:  exchange.Result.ServerTime.Format(false),
		ClientTime:  exchange.Result.ClientTime.Format(false),
	}
	if exchange.Addr != nil {
		response.Address = exchange.Addr.IP.String()
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *reportServer) handleSync(w http.ResponseWriter, r *http.Request) {
	recv := s.clock.Now()

	var syncRequest SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&syncRequest); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if _, err := strconv.ParseUint(syncRequest.Orig, 10, 64); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "orig must be a 64-bit NTP timestamp"})
		return
	}

	writeJSON(w, http.StatusOK, SyncResponse{
		Orig: syncRequest.Orig,
		Recv: strconv.FormatUint(recv.Uint64(), 10),
		Xmt:  strconv.FormatUint(s.clock.Now().Uint64(), 10),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("encode response:", err)
	}
}
