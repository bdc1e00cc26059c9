package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmynk/meetpoint/internal/apperrors"
	"github.com/mmynk/meetpoint/internal/geo"
	"github.com/mmynk/meetpoint/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "meetpoint-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createTestUser(t *testing.T, store *SQLiteStore, email string) *models.User {
	t.Helper()
	user := models.NewUser(email, "Test User", "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func createTestSession(t *testing.T, store *SQLiteStore, initiatorID int64) *models.Session {
	t.Helper()
	session, err := models.NewSession(initiatorID)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	if err := store.CreateSession(context.Background(), session); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	return session
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := createTestUser(t, store, "alice@example.com")

	t.Run("CreateSession assigns row id", func(t *testing.T) {
		session := createTestSession(t, store, user.ID)
		if session.ID == 0 {
			t.Error("Expected session ID to be assigned")
		}
	})

	t.Run("GetSessionByPublicID round trips", func(t *testing.T) {
		session := createTestSession(t, store, user.ID)

		got, err := store.GetSessionByPublicID(ctx, session.SessionID)
		if err != nil {
			t.Fatalf("GetSessionByPublicID failed: %v", err)
		}
		if got.ID != session.ID || got.SessionID != session.SessionID {
			t.Errorf("got %+v, want %+v", got, session)
		}
		if got.InviteCode != session.InviteCode {
			t.Errorf("invite code = %q, want %q", got.InviteCode, session.InviteCode)
		}
		if got.Status != models.StatusActive {
			t.Errorf("status = %v, want active", got.Status)
		}
		if got.MeetingLocation != nil {
			t.Error("expected nil meeting location")
		}
	})

	t.Run("unknown public id is KindNotFound", func(t *testing.T) {
		_, err := store.GetSessionByPublicID(ctx, "no-such-session")
		if !apperrors.IsKind(err, apperrors.KindNotFound) {
			t.Errorf("error = %v, want KindNotFound", err)
		}
	})

	t.Run("SetMeetingLocation persists the meeting point", func(t *testing.T) {
		session := createTestSession(t, store, user.ID)

		loc, err := geo.NewLocation(1.3521, 103.8198, nil)
		if err != nil {
			t.Fatalf("NewLocation failed: %v", err)
		}
		if err := store.SetMeetingLocation(ctx, session.ID, loc, session.UpdatedAt+1); err != nil {
			t.Fatalf("SetMeetingLocation failed: %v", err)
		}

		got, err := store.GetSession(ctx, session.ID)
		if err != nil {
			t.Fatalf("GetSession failed: %v", err)
		}
		if got.Status != models.StatusActive {
			t.Errorf("status = %v, want active", got.Status)
		}
		if got.MeetingLocation == nil || got.MeetingLocation.Latitude != loc.Latitude {
			t.Errorf("meeting location = %+v, want %+v", got.MeetingLocation, loc)
		}
	})

	t.Run("SetMeetingLocation with a stale snapshot cannot revive an ended session", func(t *testing.T) {
		session := createTestSession(t, store, user.ID)

		// Snapshot loaded while the session is still active.
		stale, err := store.GetSession(ctx, session.ID)
		if err != nil {
			t.Fatalf("GetSession failed: %v", err)
		}

		if err := store.EndSession(ctx, session.ID, session.UpdatedAt+1); err != nil {
			t.Fatalf("EndSession failed: %v", err)
		}

		loc, err := geo.NewLocation(1.3521, 103.8198, nil)
		if err != nil {
			t.Fatalf("NewLocation failed: %v", err)
		}
		err = store.SetMeetingLocation(ctx, stale.ID, loc, stale.UpdatedAt+2)
		if !apperrors.IsKind(err, apperrors.KindStateConflict) {
			t.Errorf("error = %v, want KindStateConflict", err)
		}

		got, err := store.GetSession(ctx, session.ID)
		if err != nil {
			t.Fatalf("GetSession failed: %v", err)
		}
		if got.Status != models.StatusEnded {
			t.Errorf("status = %v, want ended", got.Status)
		}
		if got.MeetingLocation != nil {
			t.Errorf("meeting location = %+v, want nil", got.MeetingLocation)
		}
	})

	t.Run("AddParticipant is idempotent per (session, user)", func(t *testing.T) {
		session := createTestSession(t, store, user.ID)

		first := &models.SessionParticipant{SessionID: session.ID, UserID: user.ID}
		created, err := store.AddParticipant(ctx, first)
		if err != nil {
			t.Fatalf("AddParticipant failed: %v", err)
		}
		if !created {
			t.Error("expected first insert to create a row")
		}
		if first.ID == 0 {
			t.Error("expected participant ID to be assigned")
		}

		second := &models.SessionParticipant{SessionID: session.ID, UserID: user.ID}
		created, err = store.AddParticipant(ctx, second)
		if err != nil {
			t.Fatalf("AddParticipant retry failed: %v", err)
		}
		if created {
			t.Error("expected duplicate insert to be a no-op")
		}
		if second.ID != first.ID {
			t.Errorf("duplicate returned row %d, want %d", second.ID, first.ID)
		}

		count, err := store.CountParticipants(ctx, session.ID)
		if err != nil {
			t.Fatalf("CountParticipants failed: %v", err)
		}
		if count != 1 {
			t.Errorf("count = %d, want 1", count)
		}
	})

	t.Run("UpsertLocation overwrites the single row", func(t *testing.T) {
		session := createTestSession(t, store, user.ID)
		p := &models.SessionParticipant{SessionID: session.ID, UserID: user.ID}
		if _, err := store.AddParticipant(ctx, p); err != nil {
			t.Fatalf("AddParticipant failed: %v", err)
		}

		accuracy := 15.0
		firstLoc, err := geo.NewLocation(1.2903, 103.8520, &accuracy)
		if err != nil {
			t.Fatalf("NewLocation failed: %v", err)
		}
		loc := &models.ParticipantLocation{
			ParticipantID: p.ID,
			SessionID:     session.ID,
			UserID:        user.ID,
			Location:      firstLoc,
		}
		if err := store.UpsertLocation(ctx, loc); err != nil {
			t.Fatalf("UpsertLocation failed: %v", err)
		}
		if loc.ID == 0 {
			t.Error("expected location ID to be assigned")
		}
		firstID, firstCreated := loc.ID, loc.CreatedAt

		secondLoc, err := geo.NewLocation(1.3521, 103.8198, nil)
		if err != nil {
			t.Fatalf("NewLocation failed: %v", err)
		}
		loc.Location = secondLoc
		if err := store.UpsertLocation(ctx, loc); err != nil {
			t.Fatalf("UpsertLocation update failed: %v", err)
		}
		if loc.ID != firstID {
			t.Errorf("upsert created a new row: id %d -> %d", firstID, loc.ID)
		}
		if loc.CreatedAt != firstCreated {
			t.Errorf("upsert changed created_at: %d -> %d", firstCreated, loc.CreatedAt)
		}

		got, err := store.GetLocationByParticipant(ctx, p.ID)
		if err != nil {
			t.Fatalf("GetLocationByParticipant failed: %v", err)
		}
		if got.Location.Latitude != secondLoc.Latitude || got.Location.Longitude != secondLoc.Longitude {
			t.Errorf("location = %+v, want %+v", got.Location, secondLoc)
		}
		if got.Location.AccuracyM != nil {
			t.Error("expected accuracy to be overwritten to nil")
		}

		all, err := store.ListLocations(ctx, session.ID)
		if err != nil {
			t.Fatalf("ListLocations failed: %v", err)
		}
		if len(all) != 1 {
			t.Errorf("expected a single location row, got %d", len(all))
		}
	})

	t.Run("GetLocation by session and user", func(t *testing.T) {
		session := createTestSession(t, store, user.ID)
		p := &models.SessionParticipant{SessionID: session.ID, UserID: user.ID}
		if _, err := store.AddParticipant(ctx, p); err != nil {
			t.Fatalf("AddParticipant failed: %v", err)
		}

		if _, err := store.GetLocation(ctx, session.ID, user.ID); !apperrors.IsKind(err, apperrors.KindNotFound) {
			t.Errorf("no report yet: error = %v, want KindNotFound", err)
		}

		reported, err := geo.NewLocation(48.8566, 2.3522, nil)
		if err != nil {
			t.Fatalf("NewLocation failed: %v", err)
		}
		if err := store.UpsertLocation(ctx, &models.ParticipantLocation{
			ParticipantID: p.ID, SessionID: session.ID, UserID: user.ID, Location: reported,
		}); err != nil {
			t.Fatalf("UpsertLocation failed: %v", err)
		}

		got, err := store.GetLocation(ctx, session.ID, user.ID)
		if err != nil {
			t.Fatalf("GetLocation failed: %v", err)
		}
		if got.Location.Latitude != reported.Latitude {
			t.Errorf("location = %+v, want %+v", got.Location, reported)
		}
	})

	t.Run("users round trip", func(t *testing.T) {
		created := createTestUser(t, store, "bob@example.com")

		byEmail, err := store.GetUserByEmail(ctx, "bob@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if byEmail.ID != created.ID {
			t.Errorf("id = %d, want %d", byEmail.ID, created.ID)
		}

		byID, err := store.GetUserByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if byID.Email != "bob@example.com" {
			t.Errorf("email = %q", byID.Email)
		}

		if _, err := store.GetUserByID(ctx, 999999); !apperrors.IsKind(err, apperrors.KindNotFound) {
			t.Errorf("error = %v, want KindNotFound", err)
		}
	})
}
