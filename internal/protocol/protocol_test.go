package protocol

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseCommandAcceptedTokens(t *testing.T) {
	cases := map[string]Command{
		"start":   CommandStart,
		"stop":    CommandStop,
		"restart": CommandRestart,
		"kill":    CommandKill,
		"START":   CommandStart,
		"Kill":    CommandKill,
		" stop ":  CommandStop,
	}
	for raw, want := range cases {
		got, err := ParseCommand(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if got != want {
			t.Fatalf("parse %q: got %q want %q", raw, got, want)
		}
	}
}

func TestParseCommandRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "pause", "star", "killall"} {
		if _, err := ParseCommand(raw); !errors.Is(err, ErrUnknownCommand) {
			t.Fatalf("parse %q: expected ErrUnknownCommand, got %v", raw, err)
		}
	}
}

func TestParseNetworkStatusLegacyAliases(t *testing.T) {
	cases := map[string]NetworkStatus{
		"fast":      NetFast,
		"NORMAL":    NetFast,
		"FAST":      NetFast,
		"SLOW":      NetSlow,
		"DUPLICATE": NetDuplicate,
		"FLAKY":     NetFlaky,
		"UNKNOWN":   NetUnknown,
		"slow":      NetSlow,
		"flaky":     NetFlaky,
	}
	for raw, want := range cases {
		got, err := ParseNetworkStatus(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if got != want {
			t.Fatalf("parse %q: got %q want %q", raw, got, want)
		}
	}
	if _, err := ParseNetworkStatus("laggy"); !errors.Is(err, ErrUnknownNetworkStatus) {
		t.Fatalf("expected ErrUnknownNetworkStatus, got %v", err)
	}
}

func TestParseContainerStatus(t *testing.T) {
	cases := map[string]ContainerStatus{
		"up":      ContainerUp,
		"UP":      ContainerUp,
		"Down":    ContainerDown,
		"MISSING": ContainerMissing,
	}
	for raw, want := range cases {
		got, err := ParseContainerStatus(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if got != want {
			t.Fatalf("parse %q: got %q want %q", raw, got, want)
		}
	}
	if _, err := ParseContainerStatus("gone"); !errors.Is(err, ErrUnknownContainerStatus) {
		t.Fatalf("expected ErrUnknownContainerStatus, got %v", err)
	}
}

func TestEnumEncodeIsCanonicalLowercase(t *testing.T) {
	status, err := ParseNetworkStatus("NORMAL")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out, err := json.Marshal(NetArgs{NetworkState: status, ContainerNames: []string{"a"}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"network_state":"fast"`) {
		t.Fatalf("expected lowercase fast token, got %s", out)
	}
}

func TestEnumDecodeRejectsUnknownToken(t *testing.T) {
	doc := `{"container_id":"x","name":"a","network_state":"warp","partition":0,"status":"up"}`
	var state ContainerState
	if err := json.Unmarshal([]byte(doc), &state); !errors.Is(err, ErrUnknownNetworkStatus) {
		t.Fatalf("expected ErrUnknownNetworkStatus, got %v", err)
	}
}

func TestContainerStateFieldDefaults(t *testing.T) {
	cases := map[string]string{
		"device absent":    `{"container_id":"x","ip_address":"10.0.0.1","name":"a","network_state":"fast","partition":1,"status":"up"}`,
		"device null":      `{"container_id":"x","device":null,"ip_address":"10.0.0.1","name":"a","network_state":"fast","partition":1,"status":"up"}`,
		"device empty":     `{"container_id":"x","device":"","ip_address":"10.0.0.1","name":"a","network_state":"fast","partition":1,"status":"up"}`,
		"ip absent":        `{"container_id":"x","device":"","name":"a","network_state":"fast","partition":1,"status":"up"}`,
		"ip null":          `{"container_id":"x","device":"","ip_address":null,"name":"a","network_state":"fast","partition":1,"status":"up"}`,
		"partition absent": `{"container_id":"x","device":"","ip_address":null,"name":"a","network_state":"fast","status":"up"}`,
		"partition null":   `{"container_id":"x","device":"","ip_address":null,"name":"a","network_state":"fast","partition":null,"status":"up"}`,
	}
	for label, doc := range cases {
		var state ContainerState
		if err := json.Unmarshal([]byte(doc), &state); err != nil {
			t.Fatalf("%s: decode: %v", label, err)
		}
		if state.Device != "" {
			t.Fatalf("%s: device = %q, want empty", label, state.Device)
		}
		if strings.HasPrefix(label, "ip") && state.IPAddress.String() != "0.0.0.0" {
			t.Fatalf("%s: ip = %s, want 0.0.0.0", label, state.IPAddress)
		}
		if strings.HasPrefix(label, "partition") && state.Partition != 0 {
			t.Fatalf("%s: partition = %d, want 0", label, state.Partition)
		}
	}
}

func TestContainerStateDecodeTypedValues(t *testing.T) {
	doc := `{"container_id":"cid1","device":"veth3","ip_address":"172.17.0.3","name":"c3","network_state":"FLAKY","partition":2,"status":"DOWN"}`
	var state ContainerState
	if err := json.Unmarshal([]byte(doc), &state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if state.ContainerID != "cid1" || state.Device != "veth3" || state.Name != "c3" {
		t.Fatalf("unexpected identity fields: %+v", state)
	}
	if state.IPAddress.String() != "172.17.0.3" {
		t.Fatalf("unexpected ip: %s", state.IPAddress)
	}
	if state.NetworkState != NetFlaky || state.Status != ContainerDown || state.Partition != 2 {
		t.Fatalf("unexpected observed fields: %+v", state)
	}
}

func TestContainerStateRejectsBadValues(t *testing.T) {
	badIP := `{"container_id":"x","ip_address":"nope","name":"a","network_state":"fast","status":"up"}`
	var state ContainerState
	if err := json.Unmarshal([]byte(badIP), &state); !errors.Is(err, ErrBadAddress) {
		t.Fatalf("expected ErrBadAddress, got %v", err)
	}
	badPartition := `{"container_id":"x","name":"a","network_state":"fast","partition":-3,"status":"up"}`
	if err := json.Unmarshal([]byte(badPartition), &state); !errors.Is(err, ErrNegativePartition) {
		t.Fatalf("expected ErrNegativePartition, got %v", err)
	}
	noNetwork := `{"container_id":"x","device":"veth0","ip_address":"10.0.0.1","name":"a","partition":1,"status":"up"}`
	if err := json.Unmarshal([]byte(noNetwork), &state); !errors.Is(err, ErrUnknownNetworkStatus) {
		t.Fatalf("expected ErrUnknownNetworkStatus for missing network_state, got %v", err)
	}
	nullNetwork := `{"container_id":"x","name":"a","network_state":null,"partition":1,"status":"up"}`
	if err := json.Unmarshal([]byte(nullNetwork), &state); !errors.Is(err, ErrUnknownNetworkStatus) {
		t.Fatalf("expected ErrUnknownNetworkStatus for null network_state, got %v", err)
	}
	noStatus := `{"container_id":"x","name":"a","network_state":"fast","partition":1}`
	if err := json.Unmarshal([]byte(noStatus), &state); !errors.Is(err, ErrUnknownContainerStatus) {
		t.Fatalf("expected ErrUnknownContainerStatus for missing status, got %v", err)
	}
}

func TestContainerStateMarshalMaterializesEveryField(t *testing.T) {
	out, err := json.Marshal(ContainerState{
		ContainerID:  "cid1",
		Name:         "a",
		NetworkState: NetFast,
		Status:       ContainerUp,
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if doc["device"] != "" || doc["ip_address"] != "0.0.0.0" || doc["partition"] != float64(0) {
		t.Fatalf("expected materialized defaults, got %s", out)
	}
}

func TestConfigCommandSerializesAsNullWhenUnset(t *testing.T) {
	cfg := NewConfig()
	cfg.Containers["a"] = NewContainerSpec("busybox")
	out, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"command":null`) {
		t.Fatalf("expected command:null, got %s", out)
	}
	if !strings.Contains(string(out), `"driver":"udn"`) {
		t.Fatalf("expected default driver, got %s", out)
	}
}

func TestConfigPortMapsRoundTrip(t *testing.T) {
	spec := NewContainerSpec("busybox")
	spec.Expose = []uint16{80}
	spec.Ports = map[uint16]uint16{8080: 80}
	out, err := json.Marshal(spec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back ContainerSpec
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back.Ports[8080] != 80 || len(back.Expose) != 1 {
		t.Fatalf("unexpected ports: %+v", back)
	}
}

func TestListResponseMissingKey(t *testing.T) {
	var resp ListResponse
	if err := json.Unmarshal([]byte(`{}`), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Blockades != nil {
		t.Fatalf("expected nil blockades, got %+v", resp.Blockades)
	}
}
