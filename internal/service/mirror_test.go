package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/campushub/api/internal/model"
)

func setupMirrorService(t *testing.T) (*MirrorService, *mockClubRepo, *mockCalendarRepo, *mockMeetingRepo) {
	t.Helper()

	clubRepo := newMockClubRepo()
	calendarRepo := newMockCalendarRepo()
	meetingRepo := newMockMeetingRepo()

	svc := NewMirrorService(clubRepo, calendarRepo, meetingRepo, nil)
	return svc, clubRepo, calendarRepo, meetingRepo
}

func TestMirrorService_OnMemberJoin_BackfillsMeetings(t *testing.T) {
	svc, clubRepo, calendarRepo, meetingRepo := setupMirrorService(t)
	ctx := context.Background()

	clubRepo.addClub("club:chess", "Chess Society")
	cal := calendarRepo.addCalendar(model.ClubOwner("club:chess"), "Chess Society", false, "")

	when := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	meetingRepo.addMeeting(cal.ID, when, "Weekly blitz", model.MeetingSource, "")
	meetingRepo.addMeeting(cal.ID, when.Add(24*time.Hour), "Endgame study", model.MeetingSource, "")

	if err := svc.OnMemberJoin(ctx, "user:bob", "club:chess"); err != nil {
		t.Fatalf("OnMemberJoin failed: %v", err)
	}

	mirror, _ := calendarRepo.GetMirrorForUser(ctx, "user:bob", "club:chess")
	if mirror == nil {
		t.Fatal("expected mirror calendar to be created")
	}
	if mirror.Name != "Chess Society" {
		t.Errorf("expected mirror named after the club, got %q", mirror.Name)
	}
	if !mirror.Owner.IsUser() || mirror.Owner.ID != "user:bob" {
		t.Error("expected mirror to be user-owned")
	}

	copies, _ := meetingRepo.GetForCalendar(ctx, mirror.ID)
	if len(copies) != 2 {
		t.Fatalf("expected 2 backfilled meetings, got %d", len(copies))
	}
	if copies[0].Description != "[Chess Society] Weekly blitz" {
		t.Errorf("unexpected mirror description: %q", copies[0].Description)
	}
	if !copies[0].IsMirror() {
		t.Error("expected backfilled meeting to be a mirror copy")
	}
	if copies[0].SourceMeetingID == "" {
		t.Error("expected backfilled meeting to reference its source")
	}
}

func TestMirrorService_OnMemberJoin_SkipsMirrorMeetings(t *testing.T) {
	svc, clubRepo, calendarRepo, meetingRepo := setupMirrorService(t)
	ctx := context.Background()

	clubRepo.addClub("club:chess", "Chess Society")
	cal := calendarRepo.addCalendar(model.ClubOwner("club:chess"), "Chess Society", false, "")

	when := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	meetingRepo.addMeeting(cal.ID, when, "Weekly blitz", model.MeetingSource, "")
	// A mirror meeting on a club calendar must never be re-mirrored
	meetingRepo.addMeeting(cal.ID, when.Add(time.Hour), "[Other] stray", model.MeetingMirror, "meeting:999")

	if err := svc.OnMemberJoin(ctx, "user:bob", "club:chess"); err != nil {
		t.Fatalf("OnMemberJoin failed: %v", err)
	}

	mirror, _ := calendarRepo.GetMirrorForUser(ctx, "user:bob", "club:chess")
	copies, _ := meetingRepo.GetForCalendar(ctx, mirror.ID)
	if len(copies) != 1 {
		t.Errorf("expected only the source meeting backfilled, got %d copies", len(copies))
	}
}

func TestMirrorService_OnMemberJoin_ReplacesStaleMirror(t *testing.T) {
	svc, clubRepo, calendarRepo, _ := setupMirrorService(t)
	ctx := context.Background()

	clubRepo.addClub("club:chess", "Chess Society")
	stale := calendarRepo.addCalendar(model.UserOwner("user:bob"), "Old Name", true, "club:chess")

	if err := svc.OnMemberJoin(ctx, "user:bob", "club:chess"); err != nil {
		t.Fatalf("OnMemberJoin failed: %v", err)
	}

	if _, ok := calendarRepo.calendars[stale.ID]; ok {
		t.Error("expected stale mirror to be replaced")
	}
	mirror, _ := calendarRepo.GetMirrorForUser(ctx, "user:bob", "club:chess")
	if mirror == nil || mirror.ID == stale.ID {
		t.Error("expected a fresh mirror calendar")
	}
}

func TestMirrorService_OnMemberJoin_ClubNotFound(t *testing.T) {
	svc, _, _, _ := setupMirrorService(t)

	err := svc.OnMemberJoin(context.Background(), "user:bob", "club:missing")
	if !errors.Is(err, ErrClubNotFound) {
		t.Errorf("expected ErrClubNotFound, got %v", err)
	}
}

func TestMirrorService_OnMemberLeave_DeletesMirror(t *testing.T) {
	svc, clubRepo, calendarRepo, _ := setupMirrorService(t)
	ctx := context.Background()

	clubRepo.addClub("club:chess", "Chess Society")
	mirror := calendarRepo.addCalendar(model.UserOwner("user:bob"), "Chess Society", true, "club:chess")

	if err := svc.OnMemberLeave(ctx, "user:bob", "club:chess"); err != nil {
		t.Fatalf("OnMemberLeave failed: %v", err)
	}
	if _, ok := calendarRepo.calendars[mirror.ID]; ok {
		t.Error("expected mirror calendar to be deleted")
	}
}

func TestMirrorService_OnMemberLeave_NoMirror(t *testing.T) {
	svc, _, _, _ := setupMirrorService(t)

	// Leaving without a mirror is a no-op, not an error
	if err := svc.OnMemberLeave(context.Background(), "user:bob", "club:chess"); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestMirrorService_OnMeetingCreated_FansOut(t *testing.T) {
	svc, clubRepo, calendarRepo, meetingRepo := setupMirrorService(t)
	ctx := context.Background()

	clubRepo.addClub("club:chess", "Chess Society")
	source := calendarRepo.addCalendar(model.ClubOwner("club:chess"), "Tournaments", false, "")
	mirror1 := calendarRepo.addCalendar(model.UserOwner("user:alice"), "Chess Society", true, "club:chess")
	mirror2 := calendarRepo.addCalendar(model.UserOwner("user:bob"), "Chess Society", true, "club:chess")

	when := time.Date(2026, 9, 10, 19, 0, 0, 0, time.UTC)
	meeting := meetingRepo.addMeeting(source.ID, when, "Open qualifier", model.MeetingSource, "")

	warnings := svc.OnMeetingCreated(ctx, meeting)
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}

	for _, mirrorID := range []string{mirror1.ID, mirror2.ID} {
		mirrored, _ := meetingRepo.GetMirrorOnCalendar(ctx, mirrorID, meeting.ID)
		if mirrored == nil {
			t.Fatalf("expected mirror copy on %s", mirrorID)
		}
		if mirrored.Description != "[Tournaments] Open qualifier" {
			t.Errorf("unexpected mirror description: %q", mirrored.Description)
		}
		if !mirrored.Date.Equal(when) {
			t.Error("expected mirror copy to keep the source date")
		}
	}
}

func TestMirrorService_OnMeetingCreated_PartialFailure(t *testing.T) {
	svc, clubRepo, calendarRepo, meetingRepo := setupMirrorService(t)
	ctx := context.Background()

	clubRepo.addClub("club:chess", "Chess Society")
	source := calendarRepo.addCalendar(model.ClubOwner("club:chess"), "Tournaments", false, "")
	mirror1 := calendarRepo.addCalendar(model.UserOwner("user:alice"), "Chess Society", true, "club:chess")
	mirror2 := calendarRepo.addCalendar(model.UserOwner("user:bob"), "Chess Society", true, "club:chess")

	meetingRepo.failOnCalendar[mirror1.ID] = errors.New("write timeout")

	meeting := meetingRepo.addMeeting(source.ID, time.Now().UTC(), "Open qualifier", model.MeetingSource, "")

	warnings := svc.OnMeetingCreated(ctx, meeting)
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warnings))
	}

	// The healthy mirror still received its copy
	mirrored, _ := meetingRepo.GetMirrorOnCalendar(ctx, mirror2.ID, meeting.ID)
	if mirrored == nil {
		t.Error("expected the unaffected mirror to receive a copy")
	}
}

func TestMirrorService_OnMeetingCreated_TimestampOccupied(t *testing.T) {
	svc, clubRepo, calendarRepo, meetingRepo := setupMirrorService(t)
	ctx := context.Background()

	clubRepo.addClub("club:chess", "Chess Society")
	tournaments := calendarRepo.addCalendar(model.ClubOwner("club:chess"), "Tournaments", false, "")
	socials := calendarRepo.addCalendar(model.ClubOwner("club:chess"), "Socials", false, "")
	mirror := calendarRepo.addCalendar(model.UserOwner("user:alice"), "Chess Society", true, "club:chess")

	when := time.Date(2026, 9, 10, 19, 0, 0, 0, time.UTC)
	first := meetingRepo.addMeeting(tournaments.ID, when, "Open qualifier", model.MeetingSource, "")
	if warnings := svc.OnMeetingCreated(ctx, first); len(warnings) != 0 {
		t.Fatalf("expected no warnings for the first meeting, got %v", warnings)
	}

	// A second club calendar schedules at the same instant; the member's
	// single mirror calendar already has that slot taken.
	second := meetingRepo.addMeeting(socials.ID, when, "Pizza night", model.MeetingSource, "")
	warnings := svc.OnMeetingCreated(ctx, second)
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning for the occupied slot, got %d", len(warnings))
	}

	copies, _ := meetingRepo.GetForCalendar(ctx, mirror.ID)
	if len(copies) != 1 {
		t.Fatalf("expected a single mirror meeting at the shared instant, got %d", len(copies))
	}
	if copies[0].SourceMeetingID != first.ID {
		t.Error("expected the earlier meeting to keep the slot")
	}
}

func TestMirrorService_OnMemberJoin_SkipsOccupiedTimestamp(t *testing.T) {
	svc, clubRepo, calendarRepo, meetingRepo := setupMirrorService(t)
	ctx := context.Background()

	clubRepo.addClub("club:chess", "Chess Society")
	tournaments := calendarRepo.addCalendar(model.ClubOwner("club:chess"), "Tournaments", false, "")
	socials := calendarRepo.addCalendar(model.ClubOwner("club:chess"), "Socials", false, "")

	// Two club calendars hold meetings at the same instant
	when := time.Date(2026, 9, 10, 19, 0, 0, 0, time.UTC)
	meetingRepo.addMeeting(tournaments.ID, when, "Open qualifier", model.MeetingSource, "")
	meetingRepo.addMeeting(socials.ID, when, "Pizza night", model.MeetingSource, "")

	if err := svc.OnMemberJoin(ctx, "user:bob", "club:chess"); err != nil {
		t.Fatalf("OnMemberJoin failed: %v", err)
	}

	mirror, _ := calendarRepo.GetMirrorForUser(ctx, "user:bob", "club:chess")
	copies, _ := meetingRepo.GetForCalendar(ctx, mirror.ID)
	if len(copies) != 1 {
		t.Errorf("expected one mirror meeting at the shared instant, got %d", len(copies))
	}
}

func TestMirrorService_OnMeetingUpdated_TimestampOccupied(t *testing.T) {
	svc, clubRepo, calendarRepo, meetingRepo := setupMirrorService(t)
	ctx := context.Background()

	clubRepo.addClub("club:chess", "Chess Society")
	source := calendarRepo.addCalendar(model.ClubOwner("club:chess"), "Tournaments", false, "")
	mirror := calendarRepo.addCalendar(model.UserOwner("user:alice"), "Chess Society", true, "club:chess")

	early := time.Date(2026, 9, 10, 18, 0, 0, 0, time.UTC)
	late := early.Add(2 * time.Hour)
	blitz := meetingRepo.addMeeting(source.ID, early, "Blitz", model.MeetingSource, "")
	lecture := meetingRepo.addMeeting(source.ID, late, "Lecture", model.MeetingSource, "")
	meetingRepo.addMeeting(mirror.ID, early, "[Tournaments] Blitz", model.MeetingMirror, blitz.ID)
	mirroredLecture := meetingRepo.addMeeting(mirror.ID, late, "[Tournaments] Lecture", model.MeetingMirror, lecture.ID)

	// Rescheduling onto the other meeting's instant cannot land on the mirror
	lecture.Date = early
	warnings := svc.OnMeetingUpdated(ctx, lecture)
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning for the occupied slot, got %d", len(warnings))
	}

	kept := meetingRepo.meetings[mirroredLecture.ID]
	if !kept.Date.Equal(late) {
		t.Error("expected the mirror copy to keep its date when the slot is taken")
	}
}

func TestMirrorService_OnMeetingCreated_MirrorMeetingIgnored(t *testing.T) {
	svc, clubRepo, calendarRepo, meetingRepo := setupMirrorService(t)
	ctx := context.Background()

	clubRepo.addClub("club:chess", "Chess Society")
	mirrorCal := calendarRepo.addCalendar(model.UserOwner("user:alice"), "Chess Society", true, "club:chess")
	mirrored := meetingRepo.addMeeting(mirrorCal.ID, time.Now().UTC(), "[X] copy", model.MeetingMirror, "meeting:1")

	before := meetingRepo.nextID
	if warnings := svc.OnMeetingCreated(ctx, mirrored); warnings != nil {
		t.Errorf("expected no warnings, got %v", warnings)
	}
	if meetingRepo.nextID != before {
		t.Error("expected no propagation from a mirror meeting")
	}
}

func TestMirrorService_OnMeetingCreated_PersonalCalendarIgnored(t *testing.T) {
	svc, _, calendarRepo, meetingRepo := setupMirrorService(t)
	ctx := context.Background()

	personal := calendarRepo.addCalendar(model.UserOwner("user:alice"), "My Stuff", false, "")
	meeting := meetingRepo.addMeeting(personal.ID, time.Now().UTC(), "Dentist", model.MeetingSource, "")

	before := meetingRepo.nextID
	svc.OnMeetingCreated(ctx, meeting)
	if meetingRepo.nextID != before {
		t.Error("expected no propagation from a personal calendar")
	}
}

func TestMirrorService_OnMeetingUpdated_PropagatesChanges(t *testing.T) {
	svc, clubRepo, calendarRepo, meetingRepo := setupMirrorService(t)
	ctx := context.Background()

	clubRepo.addClub("club:chess", "Chess Society")
	source := calendarRepo.addCalendar(model.ClubOwner("club:chess"), "Tournaments", false, "")
	mirror := calendarRepo.addCalendar(model.UserOwner("user:alice"), "Chess Society", true, "club:chess")

	when := time.Date(2026, 9, 10, 19, 0, 0, 0, time.UTC)
	meeting := meetingRepo.addMeeting(source.ID, when, "Open qualifier", model.MeetingSource, "")
	meetingRepo.addMeeting(mirror.ID, when, "[Tournaments] Open qualifier", model.MeetingMirror, meeting.ID)

	meeting.Date = when.Add(2 * time.Hour)
	meeting.Description = "Open qualifier (rescheduled)"

	warnings := svc.OnMeetingUpdated(ctx, meeting)
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}

	mirrored, _ := meetingRepo.GetMirrorOnCalendar(ctx, mirror.ID, meeting.ID)
	if mirrored.Description != "[Tournaments] Open qualifier (rescheduled)" {
		t.Errorf("unexpected mirror description: %q", mirrored.Description)
	}
	if !mirrored.Date.Equal(meeting.Date) {
		t.Error("expected mirror date to follow the source")
	}
}

func TestMirrorService_OnMeetingDeleted_RemovesCopies(t *testing.T) {
	svc, clubRepo, calendarRepo, meetingRepo := setupMirrorService(t)
	ctx := context.Background()

	clubRepo.addClub("club:chess", "Chess Society")
	source := calendarRepo.addCalendar(model.ClubOwner("club:chess"), "Tournaments", false, "")
	mirror1 := calendarRepo.addCalendar(model.UserOwner("user:alice"), "Chess Society", true, "club:chess")
	mirror2 := calendarRepo.addCalendar(model.UserOwner("user:bob"), "Chess Society", true, "club:chess")

	when := time.Now().UTC()
	meeting := meetingRepo.addMeeting(source.ID, when, "Open qualifier", model.MeetingSource, "")
	meetingRepo.addMeeting(mirror1.ID, when, "[Tournaments] Open qualifier", model.MeetingMirror, meeting.ID)
	meetingRepo.addMeeting(mirror2.ID, when, "[Tournaments] Open qualifier", model.MeetingMirror, meeting.ID)

	warnings := svc.OnMeetingDeleted(ctx, meeting)
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}

	copies, _ := meetingRepo.GetMirrorsOfSource(ctx, meeting.ID)
	if len(copies) != 0 {
		t.Errorf("expected all mirror copies removed, got %d", len(copies))
	}
}

func TestMirrorService_MirrorDescription_EmptySource(t *testing.T) {
	if got := model.MirrorDescription("Tournaments", ""); got != "[Tournaments] " {
		t.Errorf("expected prefix to survive an empty source description, got %q", got)
	}
}
