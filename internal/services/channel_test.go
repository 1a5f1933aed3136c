package services

import (
	"net/http"
	"testing"

	"github.com/collabhub/backend/internal/models"
)

func TestAuthorize_CommonChannel(t *testing.T) {
	f := newFixture(t)
	svc := NewChannelService(f.db)

	for _, actor := range []Actor{f.pm, f.alice, f.bob, f.client, f.admin} {
		access, err := svc.Authorize(actor, f.commonRef())
		if err != nil {
			t.Errorf("%s: expected access to the shared board, got %v", actor.Username, err)
			continue
		}
		if access.Project.ID != f.project.ID {
			t.Errorf("%s: wrong project resolved", actor.Username)
		}
		if access.Target != nil {
			t.Errorf("%s: shared board must not resolve a target member", actor.Username)
		}
	}
}

func TestAuthorize_CommonChannel_WrongPartitionKey(t *testing.T) {
	f := newFixture(t)
	svc := NewChannelService(f.db)

	ref := f.commonRef()
	ref.PartitionKey = f.project.ID + 99
	_, err := svc.Authorize(f.alice, ref)
	wantStatus(t, err, http.StatusNotFound)
}

func TestAuthorize_NonParticipantForbidden(t *testing.T) {
	f := newFixture(t)
	svc := NewChannelService(f.db)

	_, err := svc.Authorize(f.outsider, f.commonRef())
	wantStatus(t, err, http.StatusForbidden)

	_, err = svc.Authorize(f.outsider, f.directRef(f.aliceMember))
	wantStatus(t, err, http.StatusForbidden)
}

func TestAuthorize_ProjectNotFound(t *testing.T) {
	f := newFixture(t)
	svc := NewChannelService(f.db)

	ref := ChannelRef{ProjectID: 9999, Kind: models.ChannelCommon, PartitionKey: 9999}
	_, err := svc.Authorize(f.alice, ref)
	wantStatus(t, err, http.StatusNotFound)
}

func TestAuthorize_OwnDirectChannel(t *testing.T) {
	f := newFixture(t)
	svc := NewChannelService(f.db)

	access, err := svc.Authorize(f.alice, f.directRef(f.aliceMember))
	if err != nil {
		t.Fatalf("member should reach their own direct channel: %v", err)
	}
	if access.Target == nil || access.Target.UserID != f.alice.UserID {
		t.Fatal("direct channel target should be the member themselves")
	}
}

func TestAuthorize_OtherMembersDirectChannelForbidden(t *testing.T) {
	f := newFixture(t)
	svc := NewChannelService(f.db)

	// Bob is a legitimate participant but the channel belongs to Alice.
	_, err := svc.Authorize(f.bob, f.directRef(f.aliceMember))
	wantStatus(t, err, http.StatusForbidden)
}

func TestAuthorize_PMReachesEveryDirectChannel(t *testing.T) {
	f := newFixture(t)
	svc := NewChannelService(f.db)

	for _, tm := range []models.TeamMember{f.aliceMember, f.bobMember, f.clientMember} {
		if _, err := svc.Authorize(f.pm, f.directRef(tm)); err != nil {
			t.Errorf("PM should reach direct channel of member %d: %v", tm.ID, err)
		}
	}
}

func TestAuthorize_AdminBypassesMembership(t *testing.T) {
	f := newFixture(t)
	svc := NewChannelService(f.db)

	if _, err := svc.Authorize(f.admin, f.directRef(f.bobMember)); err != nil {
		t.Fatalf("admin should reach any direct channel: %v", err)
	}
}

func TestAuthorize_PMHasNoOwnDirectChannel(t *testing.T) {
	f := newFixture(t)
	svc := NewChannelService(f.db)

	// The PM's own membership row is not a valid direct channel target;
	// the PM is the counterpart in everyone else's channel instead.
	_, err := svc.Authorize(f.pm, f.directRef(f.pmMember))
	wantStatus(t, err, http.StatusNotFound)
}

func TestAuthorize_DirectChannelCrossProject(t *testing.T) {
	f := newFixture(t)
	svc := NewChannelService(f.db)

	// A membership row from another project must not be addressable
	// through this project's route.
	other := models.Project{Title: "Other", PMID: f.pm.UserID}
	if err := f.db.Create(&other).Error; err != nil {
		t.Fatalf("failed to create second project: %v", err)
	}
	otherMember := models.TeamMember{ProjectID: other.ID, UserID: f.outsider.UserID, Role: "member"}
	if err := f.db.Create(&otherMember).Error; err != nil {
		t.Fatalf("failed to create membership: %v", err)
	}

	ref := ChannelRef{ProjectID: f.project.ID, Kind: models.ChannelDirect, PartitionKey: otherMember.ID}
	_, err := svc.Authorize(f.alice, ref)
	wantStatus(t, err, http.StatusNotFound)
}

func TestRoutableKinds(t *testing.T) {
	for _, role := range []models.Role{models.RoleClient, models.RoleMember, models.RolePM, models.RoleAdmin} {
		kinds := RoutableKinds(role)
		if len(kinds) != 2 {
			t.Errorf("role %s: expected both channel kinds, got %v", role, kinds)
		}
	}
	if kinds := RoutableKinds(models.Role("ghost")); kinds != nil {
		t.Errorf("unknown role should route nowhere, got %v", kinds)
	}
}
