package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/collabhub/backend/internal/models"
)

func TestUnreadCycle_CommonChannel(t *testing.T) {
	f, svc := newPostFixture(t)
	ctx := context.Background()

	// Two posts from Alice: everyone else climbs to 2, Alice stays at 0.
	for i := 0; i < 2; i++ {
		if _, err := svc.Create(ctx, f.alice, f.commonRef(), &CreatePostRequest{Title: "t", Content: "c"}); err != nil {
			t.Fatalf("create %d failed: %v", i, err)
		}
	}

	ref := f.commonRef()
	if got := f.unreadCount(t, ref, f.alice.UserID); got != 0 {
		t.Errorf("author unread = %d, expected 0", got)
	}
	for _, viewer := range []Actor{f.pm, f.bob, f.client} {
		if got := f.unreadCount(t, ref, viewer.UserID); got != 2 {
			t.Errorf("%s unread = %d, expected 2", viewer.Username, got)
		}
	}

	// Bob reads the board: his counter resets, the others keep theirs.
	if _, err := svc.List(f.bob, ref, &PostListRequest{}); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if got := f.unreadCount(t, ref, f.bob.UserID); got != 0 {
		t.Errorf("bob unread after read = %d, expected 0", got)
	}
	if got := f.unreadCount(t, ref, f.pm.UserID); got != 2 {
		t.Errorf("pm unread = %d, expected 2", got)
	}

	// A third post starts Bob's counter again from zero.
	if _, err := svc.Create(ctx, f.alice, ref, &CreatePostRequest{Title: "t3", Content: "c"}); err != nil {
		t.Fatalf("third create failed: %v", err)
	}
	if got := f.unreadCount(t, ref, f.bob.UserID); got != 1 {
		t.Errorf("bob unread after new post = %d, expected 1", got)
	}
	if got := f.unreadCount(t, ref, f.pm.UserID); got != 3 {
		t.Errorf("pm unread = %d, expected 3", got)
	}

	// Listing an already-read channel is a harmless no-op on the counter.
	if _, err := svc.List(f.bob, ref, &PostListRequest{}); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if _, err := svc.List(f.bob, ref, &PostListRequest{}); err != nil {
		t.Fatalf("repeat list failed: %v", err)
	}
	if got := f.unreadCount(t, ref, f.bob.UserID); got != 0 {
		t.Errorf("bob unread after reads = %d, expected 0", got)
	}
}

func TestUnread_DirectChannelCounterpartOnly(t *testing.T) {
	f, svc := newPostFixture(t)
	ctx := context.Background()
	ref := f.directRef(f.aliceMember)

	// Alice posts in her own channel: only the PM is alerted.
	if _, err := svc.Create(ctx, f.alice, ref, &CreatePostRequest{Title: "q", Content: "c"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if got := f.unreadCount(t, ref, f.pm.UserID); got != 1 {
		t.Errorf("pm unread = %d, expected 1", got)
	}
	for _, other := range []Actor{f.alice, f.bob, f.client} {
		if got := f.unreadCount(t, ref, other.UserID); got != 0 {
			t.Errorf("%s unread = %d, expected 0", other.Username, got)
		}
	}

	// The PM replies: only Alice is alerted.
	if _, err := svc.Create(ctx, f.pm, ref, &CreatePostRequest{Title: "a", Content: "c"}); err != nil {
		t.Fatalf("PM reply failed: %v", err)
	}
	if got := f.unreadCount(t, ref, f.alice.UserID); got != 1 {
		t.Errorf("alice unread = %d, expected 1", got)
	}
	if got := f.unreadCount(t, ref, f.bob.UserID); got != 0 {
		t.Errorf("bob unread = %d, expected 0", got)
	}
}

func TestListForViewer(t *testing.T) {
	f, svc := newPostFixture(t)
	alerts := NewAlertService(f.db)
	ctx := context.Background()

	// One board post and one direct post give the PM two separate rows;
	// they are reported per channel, never summed.
	if _, err := svc.Create(ctx, f.alice, f.commonRef(), &CreatePostRequest{Title: "t", Content: "c"}); err != nil {
		t.Fatalf("board post failed: %v", err)
	}
	if _, err := svc.Create(ctx, f.alice, f.directRef(f.aliceMember), &CreatePostRequest{Title: "q", Content: "c"}); err != nil {
		t.Fatalf("direct post failed: %v", err)
	}

	markers, err := alerts.ListForViewer(f.pm, f.pm.UserID)
	if err != nil {
		t.Fatalf("list alerts failed: %v", err)
	}
	if len(markers) != 2 {
		t.Fatalf("expected 2 marker rows, got %d", len(markers))
	}
	for _, m := range markers {
		if m.Count != 1 {
			t.Errorf("marker (%s/%d): count = %d, expected 1", m.Kind, m.PartitionKey, m.Count)
		}
	}

	// Zeroed rows disappear from the listing.
	if _, err := svc.List(f.pm, f.commonRef(), &PostListRequest{}); err != nil {
		t.Fatalf("board read failed: %v", err)
	}
	markers, err = alerts.ListForViewer(f.pm, f.pm.UserID)
	if err != nil {
		t.Fatalf("second list failed: %v", err)
	}
	if len(markers) != 1 {
		t.Errorf("expected 1 marker after reading the board, got %d", len(markers))
	}
}

func TestListForViewer_OtherUserForbidden(t *testing.T) {
	f := newFixture(t)
	alerts := NewAlertService(f.db)

	_, err := alerts.ListForViewer(f.bob, f.alice.UserID)
	wantStatus(t, err, http.StatusForbidden)

	// Admins may inspect anyone's counters.
	if _, err := alerts.ListForViewer(f.admin, f.alice.UserID); err != nil {
		t.Errorf("admin should read any viewer's alerts: %v", err)
	}
}

func TestRecordPost_BumpUpsertsExistingMarker(t *testing.T) {
	f, svc := newPostFixture(t)
	ref := f.commonRef()

	// Seed a marker as if an earlier post already raced the same row. The
	// bump must be one upsert statement: an insert that trips the unique
	// index inside the post-create transaction would abort the whole
	// transaction on PostgreSQL and lose the post.
	seed := models.UnreadMarker{
		ProjectID:    ref.ProjectID,
		Kind:         ref.Kind,
		PartitionKey: ref.PartitionKey,
		ViewerID:     f.bob.UserID,
		Count:        5,
	}
	if err := f.db.Create(&seed).Error; err != nil {
		t.Fatalf("seed marker failed: %v", err)
	}

	post, err := svc.Create(context.Background(), f.alice, ref, &CreatePostRequest{Title: "t", Content: "c"})
	if err != nil {
		t.Fatalf("create with existing marker failed: %v", err)
	}
	if post.ID == 0 {
		t.Fatal("post was not persisted")
	}

	if got := f.unreadCount(t, ref, f.bob.UserID); got != 6 {
		t.Errorf("bob unread = %d, expected 6", got)
	}
	// Fresh viewers still get their row created by the same statement.
	if got := f.unreadCount(t, ref, f.pm.UserID); got != 1 {
		t.Errorf("pm unread = %d, expected 1", got)
	}

	var rows int64
	f.db.Model(&models.UnreadMarker{}).
		Where("viewer_id = ?", f.bob.UserID).
		Count(&rows)
	if rows != 1 {
		t.Errorf("expected a single marker row for bob, got %d", rows)
	}
}

func TestReset_AbsentMarkerIsNoOp(t *testing.T) {
	f := newFixture(t)
	alerts := NewAlertService(f.db)

	if err := alerts.Reset(f.commonRef(), f.alice.UserID); err != nil {
		t.Fatalf("reset of absent marker should succeed: %v", err)
	}
}
