package tests

import (
	"testing"

	"github.com/campushub/api/internal/repository"
	"github.com/campushub/api/internal/service"
	"github.com/campushub/api/internal/testing/helpers"
	"github.com/campushub/api/internal/testing/testdb"
)

// testServices bundles the full service layer wired against a test database.
// The event hub is left nil; SSE delivery has its own tests in the service
// package.
type testServices struct {
	auth      *service.AuthService
	clubs     *service.ClubService
	merges    *service.MergeService
	calendars *service.CalendarService
	documents *service.DocumentService
	network   *service.NetworkService
	mirrors   *service.MirrorService
}

func newServices(t *testing.T, tdb *testdb.TestDB) *testServices {
	t.Helper()

	userRepo := repository.NewUserRepository(tdb.DB)
	clubRepo := repository.NewClubRepository(tdb.DB)
	membershipRepo := repository.NewMembershipRepository(tdb.DB)
	mergeRepo := repository.NewMergeRepository(tdb.DB)
	calendarRepo := repository.NewCalendarRepository(tdb.DB)
	meetingRepo := repository.NewMeetingRepository(tdb.DB)
	documentRepo := repository.NewDocumentRepository(tdb.DB)
	connectionRepo := repository.NewConnectionRepository(tdb.DB)

	mirrors := service.NewMirrorService(clubRepo, calendarRepo, meetingRepo, nil)

	return &testServices{
		auth: service.NewAuthService(service.AuthServiceConfig{
			UserRepo:   userRepo,
			JWTService: helpers.NewTestJWTService(t),
		}),
		clubs:     service.NewClubService(clubRepo, membershipRepo, calendarRepo, documentRepo, mirrors, nil),
		merges:    service.NewMergeService(mergeRepo, clubRepo, membershipRepo, mirrors, nil),
		calendars: service.NewCalendarService(calendarRepo, meetingRepo, clubRepo, membershipRepo, mirrors, nil),
		documents: service.NewDocumentService(documentRepo, clubRepo, membershipRepo),
		network:   service.NewNetworkService(connectionRepo, userRepo),
		mirrors:   mirrors,
	}
}
