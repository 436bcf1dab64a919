package domain

import (
	"reflect"
	"testing"
)

func TestNormalizeIdentitiesFillsBlanksPositionally(t *testing.T) {
	got := NormalizeIdentities([]string{"alice", "", "bob"})
	want := []Identity{"alice", "PLAYER_2", "bob"}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNormalizeIdentitiesTrimsWhitespace(t *testing.T) {
	got := NormalizeIdentities([]string{"  alice  ", "\tbob\n", "   "})
	want := []Identity{"alice", "bob", "PLAYER_3"}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNormalizeIdentitiesPreservesOrderAndDuplicates(t *testing.T) {
	got := NormalizeIdentities([]string{"alice", "alice", "bob"})
	want := []Identity{"alice", "alice", "bob"}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("duplicates must stay distinct participants, got %v", got)
	}
}

func TestNormalizeIdentitiesEmptyInput(t *testing.T) {
	if got := NormalizeIdentities(nil); len(got) != 0 {
		t.Fatalf("expected empty list for nil input, got %v", got)
	}
	if got := NormalizeIdentities([]string{}); len(got) != 0 {
		t.Fatalf("expected empty list for empty input, got %v", got)
	}
}

func TestIdentityStringsRoundTrip(t *testing.T) {
	ids := []Identity{"alice", "PLAYER_2"}
	got := IdentityStrings(ids)
	want := []string{"alice", "PLAYER_2"}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
