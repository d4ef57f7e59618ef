package identity

import (
	"testing"

	"verva-api/domain"
)

func TestSubscribeInvokesImmediately(t *testing.T) {
	n := NewNotifier()
	user := &domain.User{ID: "u1", Name: "Ada", Email: "a@example.com"}
	n.Set(user)

	var got []*domain.User
	unsubscribe := n.Subscribe(func(u *domain.User) { got = append(got, u) })
	defer unsubscribe()

	if len(got) != 1 || got[0] != user {
		t.Fatalf("expected immediate callback with current session, got %v", got)
	}
}

func TestSetNotifiesSubscribers(t *testing.T) {
	n := NewNotifier()

	var got []*domain.User
	unsubscribe := n.Subscribe(func(u *domain.User) { got = append(got, u) })
	defer unsubscribe()

	signedIn := &domain.User{ID: "u1"}
	n.Set(signedIn)
	n.Set(nil) // sign-out

	if len(got) != 3 {
		t.Fatalf("expected 3 callbacks (initial + 2 changes), got %d", len(got))
	}
	if got[0] != nil || got[1] != signedIn || got[2] != nil {
		t.Fatalf("unexpected callback sequence: %v", got)
	}
	if n.Current() != nil {
		t.Fatal("current session should be cleared after sign-out")
	}
}

func TestUnsubscribeStopsCallbacks(t *testing.T) {
	n := NewNotifier()

	calls := 0
	unsubscribe := n.Subscribe(func(*domain.User) { calls++ })
	unsubscribe()
	unsubscribe() // second call must be harmless

	n.Set(&domain.User{ID: "u1"})
	if calls != 1 {
		t.Fatalf("expected only the immediate callback, got %d", calls)
	}
}

func TestSignUpRoundTripThroughNotifier(t *testing.T) {
	fake := &fakeToolkit{t: t}
	p := newTestProvider(t, fake)
	n := NewNotifier()

	sess, err := p.SignUp(t.Context(), "ada@example.com", "secret123", "Ada Lovelace")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	n.Set(&sess.User)

	var observed *domain.User
	unsubscribe := n.Subscribe(func(u *domain.User) { observed = u })
	defer unsubscribe()

	if observed == nil {
		t.Fatal("expected session from immediate callback")
	}
	if observed.ID != "uid-123" || observed.Email != "ada@example.com" || observed.Name != "Ada Lovelace" {
		t.Fatalf("session does not echo sign-up input: %+v", observed)
	}
}
