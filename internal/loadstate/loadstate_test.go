package loadstate

import (
	"errors"
	"testing"
)

func TestState_ZeroValueIsIdle(t *testing.T) {
	var s State[[]string]
	if s.Phase() != Idle {
		t.Fatalf("phase = %v, want idle", s.Phase())
	}
	if s.Data() != nil {
		t.Fatalf("data = %v, want nil", s.Data())
	}
}

func TestState_BeginClearsPreviousData(t *testing.T) {
	var s State[[]string]
	t1 := s.Begin()
	s.Resolve(t1, []string{"a", "b"})

	s.Begin()
	if !s.Loading() {
		t.Fatalf("phase = %v, want loading", s.Phase())
	}
	if len(s.Data()) != 0 {
		t.Fatalf("data = %v, want cleared while loading", s.Data())
	}
}

func TestState_ResolveLatestWins(t *testing.T) {
	var s State[string]
	first := s.Begin()
	second := s.Begin()

	if !s.Resolve(second, "fresh") {
		t.Fatal("resolve with latest ticket was rejected")
	}
	if s.Resolve(first, "stale") {
		t.Fatal("resolve with stale ticket was accepted")
	}
	if got := s.Data(); got != "fresh" {
		t.Fatalf("data = %q, want fresh", got)
	}
	if s.Phase() != Ready {
		t.Fatalf("phase = %v, want ready", s.Phase())
	}
}

func TestState_StaleResponseBeforeFreshIsDropped(t *testing.T) {
	var s State[string]
	first := s.Begin()
	second := s.Begin()

	if s.Resolve(first, "stale") {
		t.Fatal("stale resolve accepted")
	}
	if !s.Loading() {
		t.Fatalf("phase = %v, want still loading", s.Phase())
	}
	s.Resolve(second, "fresh")
	if s.Data() != "fresh" {
		t.Fatalf("data = %q, want fresh", s.Data())
	}
}

func TestState_FailResetsData(t *testing.T) {
	var s State[[]int]
	tk := s.Begin()
	boom := errors.New("boom")
	if !s.Fail(tk, boom) {
		t.Fatal("fail rejected")
	}
	if s.Phase() != Failed {
		t.Fatalf("phase = %v, want failed", s.Phase())
	}
	if !errors.Is(s.Err(), boom) {
		t.Fatalf("err = %v, want boom", s.Err())
	}
	if s.Data() != nil {
		t.Fatalf("data = %v, want nil", s.Data())
	}
}

func TestState_StaleFailureIgnored(t *testing.T) {
	var s State[string]
	old := s.Begin()
	cur := s.Begin()
	s.Resolve(cur, "ok")

	if s.Fail(old, errors.New("late")) {
		t.Fatal("stale failure accepted")
	}
	if s.Phase() != Ready || s.Data() != "ok" {
		t.Fatalf("state = %v/%q, want ready/ok", s.Phase(), s.Data())
	}
}

func TestState_DoubleResolveIgnored(t *testing.T) {
	var s State[string]
	tk := s.Begin()
	s.Resolve(tk, "one")
	if s.Resolve(tk, "two") {
		t.Fatal("second resolve on the same ticket accepted")
	}
	if s.Data() != "one" {
		t.Fatalf("data = %q, want one", s.Data())
	}
}

func TestState_ResetDropsInflight(t *testing.T) {
	var s State[string]
	tk := s.Begin()
	s.Reset()
	if s.Resolve(tk, "late") {
		t.Fatal("resolve after reset accepted")
	}
	if s.Phase() != Idle {
		t.Fatalf("phase = %v, want idle", s.Phase())
	}
}
