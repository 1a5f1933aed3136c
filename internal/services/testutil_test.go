package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/collabhub/backend/internal/models"
	"github.com/collabhub/backend/pkg/response"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database. MaxOpenConns is pinned to
// one so gorm's pool cannot hand a transaction a second connection, which for
// sqlite :memory: would be a different empty database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.TeamMember{},
		&models.ChannelPost{},
		&models.PostAttachment{},
		&models.UnreadMarker{},
		&models.Notice{},
		&models.AuditLog{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// fixture is one seeded project with the full cast: a PM, two members, a
// client, a platform admin, and a user with no membership at all.
type fixture struct {
	db *gorm.DB

	project models.Project

	admin    Actor
	pm       Actor
	alice    Actor
	bob      Actor
	client   Actor
	outsider Actor

	pmMember     models.TeamMember
	aliceMember  models.TeamMember
	bobMember    models.TeamMember
	clientMember models.TeamMember
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)

	users := []models.User{
		{Username: "admin", Role: string(models.RoleAdmin)},
		{Username: "pm", Role: string(models.RolePM)},
		{Username: "alice", Role: string(models.RoleMember)},
		{Username: "bob", Role: string(models.RoleMember)},
		{Username: "client", Role: string(models.RoleClient)},
		{Username: "outsider", Role: string(models.RoleMember)},
	}
	for i := range users {
		if err := db.Create(&users[i]).Error; err != nil {
			t.Fatalf("failed to seed user %s: %v", users[i].Username, err)
		}
	}

	actor := func(u models.User) Actor {
		role, ok := models.ParseRole(u.Role)
		if !ok {
			t.Fatalf("bad seed role %q", u.Role)
		}
		return Actor{UserID: u.ID, Username: u.Username, Role: role}
	}

	f := &fixture{
		db:       db,
		admin:    actor(users[0]),
		pm:       actor(users[1]),
		alice:    actor(users[2]),
		bob:      actor(users[3]),
		client:   actor(users[4]),
		outsider: actor(users[5]),
	}

	f.project = models.Project{
		Title:     "Website Relaunch",
		PMID:      f.pm.UserID,
		ClientID:  f.client.UserID,
		CreatedBy: f.pm.UserID,
	}
	if err := db.Create(&f.project).Error; err != nil {
		t.Fatalf("failed to seed project: %v", err)
	}

	memberships := []struct {
		dst  *models.TeamMember
		user Actor
		role string
	}{
		{&f.pmMember, f.pm, "pm"},
		{&f.aliceMember, f.alice, "member"},
		{&f.bobMember, f.bob, "member"},
		{&f.clientMember, f.client, "client"},
	}
	for _, m := range memberships {
		*m.dst = models.TeamMember{ProjectID: f.project.ID, UserID: m.user.UserID, Role: m.role}
		if err := db.Create(m.dst).Error; err != nil {
			t.Fatalf("failed to seed membership for %s: %v", m.user.Username, err)
		}
	}

	return f
}

func (f *fixture) commonRef() ChannelRef {
	return ChannelRef{ProjectID: f.project.ID, Kind: models.ChannelCommon, PartitionKey: f.project.ID}
}

func (f *fixture) directRef(tm models.TeamMember) ChannelRef {
	return ChannelRef{ProjectID: f.project.ID, Kind: models.ChannelDirect, PartitionKey: tm.ID}
}

func (f *fixture) unreadCount(t *testing.T, ref ChannelRef, viewerID uint) int {
	t.Helper()
	var marker models.UnreadMarker
	err := f.db.Where("project_id = ? AND channel_kind = ? AND partition_key = ? AND viewer_id = ?",
		ref.ProjectID, ref.Kind, ref.PartitionKey, viewerID).First(&marker).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0
	}
	if err != nil {
		t.Fatalf("failed to read unread marker: %v", err)
	}
	return marker.Count
}

// memBlobStore keeps blobs in a map; tests never touch the filesystem.
type memBlobStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
	n     int
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{blobs: make(map[string][]byte)}
}

func (m *memBlobStore) Put(_ context.Context, name, _ string, r io.Reader, _ int64) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.n++
	key := fmt.Sprintf("blob-%d-%s", m.n, name)
	m.blobs[key] = data
	return key, nil
}

func imageUpload(name string) FileUpload {
	return FileUpload{
		Name:        name,
		ContentType: "image/png",
		Size:        4,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader([]byte{0x89, 'P', 'N', 'G'})), nil
		},
	}
}

func textUpload(name string) FileUpload {
	return FileUpload{
		Name:        name,
		ContentType: "text/plain",
		Size:        5,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader([]byte("hello"))), nil
		},
	}
}

// wantStatus asserts err is an *response.AppError with the given HTTP status.
func wantStatus(t *testing.T, err error, status int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with status %d, got nil", status)
	}
	var appErr *response.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *response.AppError, got %T: %v", err, err)
	}
	if appErr.HTTPStatus != status {
		t.Fatalf("expected status %d, got %d (%s)", status, appErr.HTTPStatus, appErr.Message)
	}
}
