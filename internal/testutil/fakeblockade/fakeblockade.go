// Package fakeblockade is an in-memory stand-in for the blockade REST
// service. It keeps per-container runtime state, answers every endpoint the
// client issues, and records the request sequence so tests can assert on
// exact call order.
//
// State documents are served with uppercase enum tokens and occasional null
// fields, matching the quirks of real server responses.
package fakeblockade

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"

	"github.com/jmurph/blockadectl/internal/protocol"
)

type container struct {
	id        string
	device    string
	ip        string
	partition int
	network   string
	status    string
}

type blockade struct {
	config     protocol.Config
	containers map[string]*container
}

// Server is one fake service instance.
type Server struct {
	mu        sync.Mutex
	srv       *httptest.Server
	blockades map[string]*blockade
	requests  []string
	nextIP    int
}

// New starts the fake service. Callers own Close.
func New() *Server {
	s := &Server{
		blockades: map[string]*blockade{},
		nextIP:    2,
	}
	s.srv = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

func (s *Server) Close() { s.srv.Close() }

// URL is the service base, suitable for client.Config.Host.
func (s *Server) URL() string { return s.srv.URL }

// Requests returns the recorded "METHOD /path" sequence.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.requests))
	copy(out, s.requests)
	return out
}

// ResetRequests clears the recorded request sequence, typically after
// handler construction pre-warm noise.
func (s *Server) ResetRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

// Seed installs a blockade with up containers, bypassing the create endpoint.
func (s *Server) Seed(name string, containers ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := protocol.NewConfig()
	for _, c := range containers {
		cfg.Containers[c] = protocol.NewContainerSpec("busybox")
	}
	s.install(name, cfg)
}

// Partition returns the current partition id of one container.
func (s *Server) Partition(name, containerName string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blockades[name]
	if !ok {
		return 0, false
	}
	c, ok := b.containers[containerName]
	if !ok {
		return 0, false
	}
	return c.partition, true
}

func (s *Server) install(name string, cfg protocol.Config) {
	b := &blockade{config: cfg, containers: map[string]*container{}}
	names := make([]string, 0, len(cfg.Containers))
	for c := range cfg.Containers {
		names = append(names, c)
	}
	sort.Strings(names)
	for _, c := range names {
		b.containers[c] = &container{
			id:      fmt.Sprintf("cid-%s-%s", name, c),
			device:  "veth0",
			ip:      fmt.Sprintf("172.17.0.%d", s.nextIP),
			network: "NORMAL",
			status:  "UP",
		}
		s.nextIP++
	}
	s.blockades[name] = b
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, r.Method+" "+r.URL.Path)

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) == 0 || parts[0] != "blockade" {
		http.NotFound(w, r)
		return
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		s.handleList(w)
	case len(parts) == 2:
		s.handleBlockade(w, r, parts[1])
	case len(parts) == 3:
		s.handleSubResource(w, r, parts[1], parts[2])
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleList(w http.ResponseWriter) {
	names := make([]string, 0, len(s.blockades))
	for name := range s.blockades {
		names = append(names, name)
	}
	sort.Strings(names)
	json.NewEncoder(w).Encode(map[string][]string{"blockades": names})
}

func (s *Server) handleBlockade(w http.ResponseWriter, r *http.Request, name string) {
	switch r.Method {
	case http.MethodGet:
		b, ok := s.blockades[name]
		if !ok {
			http.Error(w, "Blockade not found", http.StatusNotFound)
			return
		}
		w.Write(s.stateDoc(b))
	case http.MethodPost:
		if _, exists := s.blockades[name]; exists {
			w.WriteHeader(http.StatusConflict)
			io.WriteString(w, "Blockade name already exists")
			return
		}
		var cfg protocol.Config
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			http.Error(w, "bad config", http.StatusBadRequest)
			return
		}
		s.install(name, cfg)
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		if _, ok := s.blockades[name]; !ok {
			http.Error(w, "Blockade not found", http.StatusNotFound)
			return
		}
		delete(s.blockades, name)
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleSubResource(w http.ResponseWriter, r *http.Request, name, sub string) {
	b, ok := s.blockades[name]
	if !ok {
		http.Error(w, "Blockade not found", http.StatusNotFound)
		return
	}
	switch {
	case sub == "action" && r.Method == http.MethodPost:
		var args protocol.CommandArgs
		if err := json.NewDecoder(r.Body).Decode(&args); err != nil || args.Command == "" {
			http.Error(w, "bad action", http.StatusBadRequest)
			return
		}
		for _, cname := range args.ContainerNames {
			c, ok := b.containers[cname]
			if !ok {
				continue
			}
			switch args.Command {
			case protocol.CommandStop, protocol.CommandKill:
				c.status = "DOWN"
			case protocol.CommandStart, protocol.CommandRestart:
				c.status = "UP"
			}
		}
		w.WriteHeader(http.StatusNoContent)
	case sub == "network_state" && r.Method == http.MethodPost:
		var args protocol.NetArgs
		if err := json.NewDecoder(r.Body).Decode(&args); err != nil || args.NetworkState == "" {
			http.Error(w, "bad network_state", http.StatusBadRequest)
			return
		}
		for _, cname := range args.ContainerNames {
			if c, ok := b.containers[cname]; ok {
				c.network = strings.ToUpper(args.NetworkState.String())
			}
		}
		w.WriteHeader(http.StatusNoContent)
	case sub == "partitions" && r.Method == http.MethodPost:
		var args protocol.PartitionArgs
		if err := json.NewDecoder(r.Body).Decode(&args); err != nil {
			http.Error(w, "bad partitions", http.StatusBadRequest)
			return
		}
		for _, c := range b.containers {
			c.partition = 0
		}
		for i, group := range args.Partitions {
			for _, cname := range group {
				if c, ok := b.containers[cname]; ok {
					c.partition = i + 1
				}
			}
		}
		w.WriteHeader(http.StatusNoContent)
	case sub == "partitions" && r.Method == http.MethodDelete:
		for _, c := range b.containers {
			c.partition = 0
			c.network = "NORMAL"
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

// stateDoc renders the state response the way real servers do: uppercase
// enum tokens, partition null for the default group, device omitted for
// stopped containers.
func (s *Server) stateDoc(b *blockade) []byte {
	containers := map[string]map[string]any{}
	for name, c := range b.containers {
		doc := map[string]any{
			"container_id":  c.id,
			"ip_address":    c.ip,
			"name":          name,
			"network_state": c.network,
			"status":        c.status,
		}
		if c.partition == 0 {
			doc["partition"] = nil
		} else {
			doc["partition"] = c.partition
		}
		if c.status == "UP" {
			doc["device"] = c.device
		}
		containers[name] = doc
	}
	out, _ := json.Marshal(map[string]any{"containers": containers})
	return out
}
