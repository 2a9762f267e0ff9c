package main

import (
	"context"
	"reflect"
	"testing"

	"github.com/jmurph/blockadectl/internal/blockade"
	"github.com/jmurph/blockadectl/internal/config"
	"github.com/jmurph/blockadectl/internal/protocol"
	"github.com/jmurph/blockadectl/internal/testutil/fakeblockade"
)

func TestParseGroups(t *testing.T) {
	groups, err := parseGroups("a,b/c")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := [][]string{{"a", "b"}, {"c"}}
	if !reflect.DeepEqual(groups, want) {
		t.Fatalf("unexpected groups: %v", groups)
	}

	groups, err = parseGroups(" a , b ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !reflect.DeepEqual(groups, [][]string{{"a", "b"}}) {
		t.Fatalf("unexpected groups: %v", groups)
	}

	if _, err := parseGroups("a//b"); err == nil {
		t.Fatalf("expected error for empty group")
	}
	if _, err := parseGroups(","); err == nil {
		t.Fatalf("expected error for empty spec")
	}
}

func TestRunFlakyAppliesUnreliableProfile(t *testing.T) {
	srv := fakeblockade.New()
	defer srv.Close()
	srv.Seed("b1", "a", "b")

	handler, err := blockade.New(blockade.HandlerConfig{Host: srv.URL()})
	if err != nil {
		t.Fatalf("construct handler: %v", err)
	}

	cfg := config.DefaultClientConfig()
	if err := run(context.Background(), handler, cfg, false, []string{"flaky", "b1"}); err != nil {
		t.Fatalf("run flaky: %v", err)
	}
	state, ok := handler.State("b1")
	if !ok {
		t.Fatalf("missing shadow entry for b1")
	}
	for name, c := range state.Containers {
		if c.NetworkState != protocol.NetFlaky {
			t.Fatalf("%s: network = %q, want flaky", name, c.NetworkState)
		}
	}
}

func TestRunRejectsUnknownCommand(t *testing.T) {
	cfg := config.DefaultClientConfig()
	for _, command := range []string{"slow", "pause"} {
		if err := run(context.Background(), nil, cfg, false, []string{command, "b1"}); err == nil {
			t.Fatalf("expected unknown command error for %q", command)
		}
	}
}
