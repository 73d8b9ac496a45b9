package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/campushub/api/internal/database"
	"github.com/campushub/api/internal/model"
	"github.com/campushub/api/internal/repository"
)

// DefaultPassword is the password every fixture user gets unless a test
// overrides it. Tests that exercise login use this value.
const DefaultPassword = "test-password-123"

// Factory creates test data through the real repositories so that
// fixtures and production code share one notion of record shape.
type Factory struct {
	db          database.Database
	users       *repository.UserRepository
	clubs       *repository.ClubRepository
	memberships *repository.MembershipRepository
	merges      *repository.MergeRepository
	calendars   *repository.CalendarRepository
	meetings    *repository.MeetingRepository
	documents   *repository.DocumentRepository
	connections *repository.ConnectionRepository
}

// New creates a fixture factory backed by the given database
func New(db database.Database) *Factory {
	return &Factory{
		db:          db,
		users:       repository.NewUserRepository(db),
		clubs:       repository.NewClubRepository(db),
		memberships: repository.NewMembershipRepository(db),
		merges:      repository.NewMergeRepository(db),
		calendars:   repository.NewCalendarRepository(db),
		meetings:    repository.NewMeetingRepository(db),
		documents:   repository.NewDocumentRepository(db),
		connections: repository.NewConnectionRepository(db),
	}
}

// randomID generates a short random hex string for unique test values
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// ctx returns a context with a timeout suitable for fixture creation
func ctx() context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	_ = cancel // fixture operations finish well within the timeout
	return c
}

// UserOpts configures user creation
type UserOpts struct {
	Email    string
	Name     string
	Password string
	Role     model.UserRole
	Bio      string
}

// UserOpt is a function that modifies UserOpts
type UserOpt func(*UserOpts)

// WithEmail sets the user's email
func WithEmail(email string) UserOpt {
	return func(o *UserOpts) { o.Email = email }
}

// WithName sets the user's display name
func WithName(name string) UserOpt {
	return func(o *UserOpts) { o.Name = name }
}

// WithPassword sets the user's password
func WithPassword(password string) UserOpt {
	return func(o *UserOpts) { o.Password = password }
}

// WithRole sets the user's role
func WithRole(role model.UserRole) UserOpt {
	return func(o *UserOpts) { o.Role = role }
}

// WithBio sets the user's bio
func WithBio(bio string) UserOpt {
	return func(o *UserOpts) { o.Bio = bio }
}

// CreateUser creates a test user with sensible defaults.
// The password is hashed with bcrypt.MinCost to keep tests fast.
func (f *Factory) CreateUser(t *testing.T, opts ...UserOpt) *model.User {
	t.Helper()

	id := randomID()
	o := UserOpts{
		Email:    fmt.Sprintf("user-%s@campushub.test", id),
		Name:     fmt.Sprintf("Test User %s", id),
		Password: DefaultPassword,
		Role:     model.UserRoleUser,
	}
	for _, opt := range opts {
		opt(&o)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(o.Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("fixtures: failed to hash password: %v", err)
	}
	hash := string(hashed)

	user := &model.User{
		Email: o.Email,
		Name:  o.Name,
		Bio:   o.Bio,
		Hash:  &hash,
		Role:  o.Role,
	}
	if err := f.users.Create(ctx(), user); err != nil {
		t.Fatalf("fixtures: failed to create user: %v", err)
	}
	return user
}

// CreateAdmin creates a test user with the admin role
func (f *Factory) CreateAdmin(t *testing.T, opts ...UserOpt) *model.User {
	t.Helper()
	return f.CreateUser(t, append([]UserOpt{WithRole(model.UserRoleAdmin)}, opts...)...)
}

// ClubOpts configures club creation
type ClubOpts struct {
	Name        string
	Description string
	Summary     string
	Links       []string
}

// ClubOpt is a function that modifies ClubOpts
type ClubOpt func(*ClubOpts)

// WithClubName sets the club's name
func WithClubName(name string) ClubOpt {
	return func(o *ClubOpts) { o.Name = name }
}

// WithClubDescription sets the club's description
func WithClubDescription(desc string) ClubOpt {
	return func(o *ClubOpts) { o.Description = desc }
}

// WithClubSummary sets the club's summary
func WithClubSummary(summary string) ClubOpt {
	return func(o *ClubOpts) { o.Summary = summary }
}

// WithClubLinks sets the club's links
func WithClubLinks(links ...string) ClubOpt {
	return func(o *ClubOpts) { o.Links = links }
}

// CreateClub creates a club with the given user as its organizer.
// The organizer membership is created alongside the club.
func (f *Factory) CreateClub(t *testing.T, organizer *model.User, opts ...ClubOpt) *model.Club {
	t.Helper()

	o := ClubOpts{
		Name: fmt.Sprintf("Test Club %s", randomID()),
	}
	for _, opt := range opts {
		opt(&o)
	}

	club := &model.Club{
		Name:        o.Name,
		Description: o.Description,
		Summary:     o.Summary,
		Links:       o.Links,
	}
	if err := f.clubs.Create(ctx(), club); err != nil {
		t.Fatalf("fixtures: failed to create club: %v", err)
	}

	f.AddMember(t, organizer, club, model.RoleOrganizer)
	return club
}

// AddMember adds a user to a club with the given role and returns the
// membership record.
func (f *Factory) AddMember(t *testing.T, user *model.User, club *model.Club, role model.MembershipRole) *model.Membership {
	t.Helper()

	membership := &model.Membership{
		UserID: user.ID,
		ClubID: club.ID,
		Role:   role,
	}
	if err := f.memberships.Create(ctx(), membership); err != nil {
		t.Fatalf("fixtures: failed to add member: %v", err)
	}
	return membership
}

// CreateClubCalendar creates a calendar owned by a club
func (f *Factory) CreateClubCalendar(t *testing.T, club *model.Club, name string) *model.Calendar {
	t.Helper()

	if name == "" {
		name = fmt.Sprintf("Calendar %s", randomID())
	}
	calendar := &model.Calendar{
		Name:  name,
		Owner: model.Owner{Kind: model.OwnerClub, ID: club.ID},
	}
	if err := f.calendars.Create(ctx(), calendar); err != nil {
		t.Fatalf("fixtures: failed to create club calendar: %v", err)
	}
	return calendar
}

// CreateUserCalendar creates a personal calendar owned by a user
func (f *Factory) CreateUserCalendar(t *testing.T, user *model.User, name string) *model.Calendar {
	t.Helper()

	if name == "" {
		name = fmt.Sprintf("Calendar %s", randomID())
	}
	calendar := &model.Calendar{
		Name:  name,
		Owner: model.Owner{Kind: model.OwnerUser, ID: user.ID},
	}
	if err := f.calendars.Create(ctx(), calendar); err != nil {
		t.Fatalf("fixtures: failed to create user calendar: %v", err)
	}
	return calendar
}

// CreateMirrorCalendar creates a user-owned mirror calendar shadowing
// a club. Most tests should instead join the club through the service
// layer and let propagation create the mirror; this exists for tests
// that need a mirror in a specific state.
func (f *Factory) CreateMirrorCalendar(t *testing.T, user *model.User, club *model.Club, name string) *model.Calendar {
	t.Helper()

	if name == "" {
		name = club.Name
	}
	calendar := &model.Calendar{
		Name:         name,
		Owner:        model.Owner{Kind: model.OwnerUser, ID: user.ID},
		IsClubMirror: true,
		SourceClubID: club.ID,
	}
	if err := f.calendars.Create(ctx(), calendar); err != nil {
		t.Fatalf("fixtures: failed to create mirror calendar: %v", err)
	}
	return calendar
}

// MeetingOpts configures meeting creation
type MeetingOpts struct {
	Date        time.Time
	Description string
}

// MeetingOpt is a function that modifies MeetingOpts
type MeetingOpt func(*MeetingOpts)

// WithMeetingDate sets the meeting's date
func WithMeetingDate(date time.Time) MeetingOpt {
	return func(o *MeetingOpts) { o.Date = date }
}

// WithMeetingDescription sets the meeting's description
func WithMeetingDescription(desc string) MeetingOpt {
	return func(o *MeetingOpts) { o.Description = desc }
}

// CreateMeeting creates a source meeting on a calendar
func (f *Factory) CreateMeeting(t *testing.T, calendar *model.Calendar, opts ...MeetingOpt) *model.Meeting {
	t.Helper()

	o := MeetingOpts{
		Date:        time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second),
		Description: fmt.Sprintf("Meeting %s", randomID()),
	}
	for _, opt := range opts {
		opt(&o)
	}

	meeting := &model.Meeting{
		CalendarID:  calendar.ID,
		Date:        o.Date,
		Description: o.Description,
		Kind:        model.MeetingSource,
	}
	if err := f.meetings.Create(ctx(), meeting); err != nil {
		t.Fatalf("fixtures: failed to create meeting: %v", err)
	}
	return meeting
}

// CreateMirrorMeeting creates a mirror copy of a source meeting on a
// mirror calendar, with the description prefixed the way propagation
// writes it.
func (f *Factory) CreateMirrorMeeting(t *testing.T, mirror *model.Calendar, source *model.Meeting, calendarName string) *model.Meeting {
	t.Helper()

	meeting := &model.Meeting{
		CalendarID:      mirror.ID,
		Date:            source.Date,
		Description:     model.MirrorDescription(calendarName, source.Description),
		Kind:            model.MeetingMirror,
		SourceMeetingID: source.ID,
	}
	if err := f.meetings.Create(ctx(), meeting); err != nil {
		t.Fatalf("fixtures: failed to create mirror meeting: %v", err)
	}
	return meeting
}

// CreateMergeRequest creates a pending merge request between two clubs.
// The proposing side (club 1) is recorded as having accepted.
func (f *Factory) CreateMergeRequest(t *testing.T, club1, club2 *model.Club) *model.MergeRequest {
	t.Helper()

	req := &model.MergeRequest{
		Club1ID:   club1.ID,
		Club2ID:   club2.ID,
		Accepted1: true,
	}
	if err := f.merges.Create(ctx(), req); err != nil {
		t.Fatalf("fixtures: failed to create merge request: %v", err)
	}
	return req
}

// CreateDocumentManager creates a document manager with the given owner
func (f *Factory) CreateDocumentManager(t *testing.T, owner model.Owner, name string) *model.DocumentManager {
	t.Helper()

	if name == "" {
		name = fmt.Sprintf("Docs %s", randomID())
	}
	manager := &model.DocumentManager{
		Name:  name,
		Owner: owner,
	}
	if err := f.documents.CreateManager(ctx(), manager); err != nil {
		t.Fatalf("fixtures: failed to create document manager: %v", err)
	}
	return manager
}

// CreateDocument registers a document under a manager
func (f *Factory) CreateDocument(t *testing.T, manager *model.DocumentManager, title string) *model.Document {
	t.Helper()

	id := randomID()
	if title == "" {
		title = fmt.Sprintf("Document %s", id)
	}
	doc := &model.Document{
		ManagerID:   manager.ID,
		Title:       title,
		StorageKey:  fmt.Sprintf("test/%s.pdf", id),
		ContentType: "application/pdf",
		SizeBytes:   1024,
	}
	if err := f.documents.CreateDocument(ctx(), doc); err != nil {
		t.Fatalf("fixtures: failed to create document: %v", err)
	}
	return doc
}

// CreateConnection creates a connection request between two users with
// the given status.
func (f *Factory) CreateConnection(t *testing.T, from, to *model.User, status model.ConnectionStatus) *model.Connection {
	t.Helper()

	conn := &model.Connection{
		FromUserID: from.ID,
		ToUserID:   to.ID,
		Status:     model.ConnectionPending,
		Message:    "Let's connect",
	}
	if err := f.connections.Create(ctx(), conn); err != nil {
		t.Fatalf("fixtures: failed to create connection: %v", err)
	}
	if status != "" && status != model.ConnectionPending {
		if err := f.connections.UpdateStatus(ctx(), conn.ID, status); err != nil {
			t.Fatalf("fixtures: failed to update connection status: %v", err)
		}
		conn.Status = status
	}
	return conn
}

// CreateNetworkProfile creates or replaces a user's network profile
func (f *Factory) CreateNetworkProfile(t *testing.T, user *model.User, skills ...string) *model.NetworkProfile {
	t.Helper()

	profile := &model.NetworkProfile{
		UserID:    user.ID,
		Bio:       fmt.Sprintf("Bio for %s", user.Name),
		Skills:    skills,
		Interests: []string{"technology"},
	}
	if err := f.connections.UpsertProfile(ctx(), profile); err != nil {
		t.Fatalf("fixtures: failed to create network profile: %v", err)
	}
	return profile
}
