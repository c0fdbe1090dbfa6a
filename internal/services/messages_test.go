package services

import (
	"context"
	"errors"
	"testing"

	"github.com/fathima-sithara/snapshoot-service/internal/domain"
)

func TestDirectMessageScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u1, u2 := f.user(t, "alice"), f.user(t, "bob")
	f.befriend(t, u1, u2)

	m, err := f.messages.SendDirectUpload(ctx, u1, u2.UserID, "hi", photo())
	if err != nil {
		t.Fatalf("expected send to succeed got %v", err)
	}
	media := *m.Media
	if m.Read || m.IsGroup {
		t.Fatalf("expected unread direct message got %+v", m)
	}
	second, _ := f.messages.SendDirect(ctx, u2, u1.UserID, "hey", nil)

	got, err := f.messages.ListDirect(ctx, u2, u1.UserID, domain.Page{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != second.ID || got[1].ID != m.ID {
		t.Fatalf("expected newest first got %+v", got)
	}

	if err := f.messages.Delete(ctx, u1, m.ID); err != nil {
		t.Fatalf("expected delete to succeed got %v", err)
	}
	if f.media.Has(media.URL) {
		t.Fatal("expected media to be released")
	}
	got, _ = f.messages.ListDirect(ctx, u1, u2.UserID, domain.Page{})
	if len(got) != 1 || got[0].ID != second.ID {
		t.Fatalf("expected only the reply left got %+v", got)
	}
}

func TestSendDirectRules(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u1, u2 := f.user(t, "alice"), f.user(t, "bob")

	_, err := f.messages.SendDirect(ctx, u1, u1.UserID, "me", nil)
	expectKind(t, err, domain.ErrSelfReference)

	_, err = f.messages.SendDirect(ctx, u1, u2.UserID, "hi", nil)
	expectKind(t, err, domain.ErrForbidden)

	e, _ := f.graph.SendRequest(ctx, u1, u2.UserID)
	_, err = f.messages.SendDirect(ctx, u1, u2.UserID, "hi", nil)
	expectKind(t, err, domain.ErrForbidden)

	_, _ = f.graph.AcceptRequest(ctx, u2, e.ID)
	_, err = f.messages.SendDirect(ctx, u1, u2.UserID, "", nil)
	expectKind(t, err, domain.ErrValidation)
}

func TestDeleteOnlyBySender(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u1, u2 := f.user(t, "alice"), f.user(t, "bob")
	f.befriend(t, u1, u2)
	m, _ := f.messages.SendDirect(ctx, u1, u2.UserID, "hi", nil)

	expectKind(t, f.messages.Delete(ctx, u2, m.ID), domain.ErrNotFound)
	if err := f.messages.Delete(ctx, u1, m.ID); err != nil {
		t.Fatalf("expected sender delete got %v", err)
	}
	expectKind(t, f.messages.Delete(ctx, u1, m.ID), domain.ErrNotFound)
}

func TestDeleteKeepsMessageWhenReleaseFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u1, u2 := f.user(t, "alice"), f.user(t, "bob")
	f.befriend(t, u1, u2)
	m, err := f.messages.SendDirectUpload(ctx, u1, u2.UserID, "", photo())
	if err != nil {
		t.Fatal(err)
	}

	f.media.FailDelete = errors.New("bucket offline")
	expectKind(t, f.messages.Delete(ctx, u1, m.ID), domain.ErrStorage)

	got, _ := f.messages.ListDirect(ctx, u1, u2.UserID, domain.Page{})
	if len(got) != 1 {
		t.Fatalf("expected message to survive a failed release, got %d", len(got))
	}

	f.media.FailDelete = nil
	if err := f.messages.Delete(ctx, u1, m.ID); err != nil {
		t.Fatalf("expected retry to succeed got %v", err)
	}
}

func TestGroupMessages(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u1, u2, outsider := f.user(t, "alice"), f.user(t, "bob"), f.user(t, "eve")
	g, _ := f.groups.Create(ctx, u1, "crew", []string{u2.UserID})

	m, err := f.messages.SendGroup(ctx, u2, g.ID, "hello crew", nil)
	if err != nil {
		t.Fatalf("expected group send got %v", err)
	}
	if !m.IsGroup || !m.Read || m.RecipientID != g.ID {
		t.Fatalf("unexpected group message %+v", m)
	}

	_, err = f.messages.SendGroup(ctx, outsider, g.ID, "let me in", nil)
	expectKind(t, err, domain.ErrForbidden)
	_, err = f.messages.ListGroup(ctx, outsider, g.ID, domain.Page{})
	expectKind(t, err, domain.ErrForbidden)

	for i := 0; i < 3; i++ {
		_, _ = f.messages.SendGroup(ctx, u1, g.ID, "more", nil)
	}
	page, err := f.messages.ListGroup(ctx, u1, g.ID, domain.Page{Limit: 2, Offset: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 1 || page[0].ID != m.ID {
		t.Fatalf("expected the oldest message on the last page got %+v", page)
	}
}

func TestUploadReleasedWhenSendRefused(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u1, u2 := f.user(t, "alice"), f.user(t, "bob")

	_, err := f.messages.SendDirectUpload(ctx, u1, u2.UserID, "", Upload{Data: []byte("x"), ContentType: "image/png"})
	expectKind(t, err, domain.ErrForbidden)
	if f.media.Len() != 0 {
		t.Fatalf("expected nothing uploaded for a refused send, got %d objects", f.media.Len())
	}

	f.befriend(t, u1, u2)
	_, err = f.messages.SendDirectUpload(ctx, u1, u2.UserID, "", Upload{Data: []byte("x"), ContentType: "application/zip"})
	expectKind(t, err, domain.ErrValidation)

	m, err := f.messages.SendDirectUpload(ctx, u1, u2.UserID, "look", Upload{Data: []byte("x"), ContentType: "video/mp4"})
	if err != nil {
		t.Fatalf("expected upload send got %v", err)
	}
	if m.Media == nil || m.Media.Type != domain.MediaVideo || !f.media.Has(m.Media.URL) {
		t.Fatalf("expected stored video media got %+v", m.Media)
	}
}
