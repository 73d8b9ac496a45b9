package service

import (
	"context"
	"fmt"
	"time"

	"github.com/campushub/api/internal/database"
	"github.com/campushub/api/internal/model"
)

// Shared stateful mocks for the service tests. Each mock is a small
// in-memory table with optional error injection fields.

type mockUserRepo struct {
	users      map[string]*model.User
	emailIndex map[string]*model.User
	getErr     error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:      make(map[string]*model.User),
		emailIndex: make(map[string]*model.User),
	}
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	user.ID = "user:" + user.Email
	user.CreatedOn = time.Now()
	user.UpdatedOn = time.Now()
	m.users[user.ID] = user
	m.emailIndex[user.Email] = user
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.users[id], nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.emailIndex[email], nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *model.User) error {
	m.users[user.ID] = user
	m.emailIndex[user.Email] = user
	return nil
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	if user, ok := m.users[id]; ok {
		user.Hash = &hash
	}
	return nil
}

func (m *mockUserRepo) TouchLogin(ctx context.Context, id string) error {
	if user, ok := m.users[id]; ok {
		now := time.Now()
		user.LoginOn = &now
	}
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	if user, ok := m.users[id]; ok {
		delete(m.emailIndex, user.Email)
		delete(m.users, id)
	}
	return nil
}

func (m *mockUserRepo) addUser(id, name string) *model.User {
	user := &model.User{ID: id, Email: id + "@example.com", Name: name, Role: model.UserRoleUser}
	m.users[id] = user
	m.emailIndex[user.Email] = user
	return user
}

type mockClubRepo struct {
	clubs   map[string]*model.Club
	nextID  int
	getErr  error
	listErr error
}

func newMockClubRepo() *mockClubRepo {
	return &mockClubRepo{clubs: make(map[string]*model.Club)}
}

func (m *mockClubRepo) Create(ctx context.Context, club *model.Club) error {
	if club.ID == "" {
		m.nextID++
		club.ID = fmt.Sprintf("club:%d", m.nextID)
	}
	club.CreatedOn = time.Now()
	club.UpdatedOn = time.Now()
	m.clubs[club.ID] = club
	return nil
}

func (m *mockClubRepo) GetByID(ctx context.Context, id string) (*model.Club, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.clubs[id], nil
}

func (m *mockClubRepo) GetByName(ctx context.Context, name string) (*model.Club, error) {
	for _, club := range m.clubs {
		if club.Name == name {
			return club, nil
		}
	}
	return nil, nil
}

func (m *mockClubRepo) List(ctx context.Context) ([]*model.Club, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	clubs := make([]*model.Club, 0, len(m.clubs))
	for _, club := range m.clubs {
		clubs = append(clubs, club)
	}
	return clubs, nil
}

func (m *mockClubRepo) Update(ctx context.Context, club *model.Club) error {
	m.clubs[club.ID] = club
	return nil
}

func (m *mockClubRepo) Delete(ctx context.Context, id string) error {
	delete(m.clubs, id)
	return nil
}

func (m *mockClubRepo) addClub(id, name string) *model.Club {
	club := &model.Club{ID: id, Name: name}
	m.clubs[id] = club
	return club
}

type mockMembershipRepo struct {
	memberships map[string]*model.Membership
	nextID      int
}

func newMockMembershipRepo() *mockMembershipRepo {
	return &mockMembershipRepo{memberships: make(map[string]*model.Membership)}
}

func (m *mockMembershipRepo) Create(ctx context.Context, membership *model.Membership) error {
	m.nextID++
	membership.ID = fmt.Sprintf("membership:%d", m.nextID)
	membership.JoinedOn = time.Now()
	m.memberships[membership.ID] = membership
	return nil
}

func (m *mockMembershipRepo) GetByUserAndClub(ctx context.Context, userID, clubID string) (*model.Membership, error) {
	for _, ms := range m.memberships {
		if ms.UserID == userID && ms.ClubID == clubID {
			return ms, nil
		}
	}
	return nil, nil
}

func (m *mockMembershipRepo) GetForClub(ctx context.Context, clubID string) ([]*model.Membership, error) {
	// Ordered by insertion so merge roster ordering is deterministic
	var result []*model.Membership
	for i := 1; i <= m.nextID; i++ {
		ms, ok := m.memberships[fmt.Sprintf("membership:%d", i)]
		if ok && ms.ClubID == clubID {
			result = append(result, ms)
		}
	}
	return result, nil
}

func (m *mockMembershipRepo) GetForUser(ctx context.Context, userID string) ([]*model.Membership, error) {
	var result []*model.Membership
	for _, ms := range m.memberships {
		if ms.UserID == userID {
			result = append(result, ms)
		}
	}
	return result, nil
}

func (m *mockMembershipRepo) CountForClub(ctx context.Context, clubID string) (int, error) {
	members, _ := m.GetForClub(ctx, clubID)
	return len(members), nil
}

func (m *mockMembershipRepo) CountOrganizers(ctx context.Context, clubID string) (int, error) {
	count := 0
	for _, ms := range m.memberships {
		if ms.ClubID == clubID && ms.Role.IsOrganizer() {
			count++
		}
	}
	return count, nil
}

func (m *mockMembershipRepo) UpdateRole(ctx context.Context, membershipID string, role model.MembershipRole) error {
	if ms, ok := m.memberships[membershipID]; ok {
		ms.Role = role
	}
	return nil
}

func (m *mockMembershipRepo) Delete(ctx context.Context, membershipID string) error {
	delete(m.memberships, membershipID)
	return nil
}

func (m *mockMembershipRepo) CountSharedClubs(ctx context.Context, userID, otherUserID string) (int, error) {
	clubs := make(map[string]bool)
	for _, ms := range m.memberships {
		if ms.UserID == userID {
			clubs[ms.ClubID] = true
		}
	}
	shared := 0
	for _, ms := range m.memberships {
		if ms.UserID == otherUserID && clubs[ms.ClubID] {
			shared++
		}
	}
	return shared, nil
}

func (m *mockMembershipRepo) addMember(userID, clubID string, role model.MembershipRole) *model.Membership {
	ms := &model.Membership{UserID: userID, ClubID: clubID, Role: role}
	m.nextID++
	ms.ID = fmt.Sprintf("membership:%d", m.nextID)
	m.memberships[ms.ID] = ms
	return ms
}

type mockCalendarRepo struct {
	calendars map[string]*model.Calendar
	nextID    int
	createErr error
}

func newMockCalendarRepo() *mockCalendarRepo {
	return &mockCalendarRepo{calendars: make(map[string]*model.Calendar)}
}

func (m *mockCalendarRepo) Create(ctx context.Context, calendar *model.Calendar) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	calendar.ID = fmt.Sprintf("calendar:%d", m.nextID)
	calendar.CreatedOn = time.Now()
	calendar.UpdatedOn = time.Now()
	m.calendars[calendar.ID] = calendar
	return nil
}

func (m *mockCalendarRepo) GetByID(ctx context.Context, id string) (*model.Calendar, error) {
	return m.calendars[id], nil
}

func (m *mockCalendarRepo) GetForClub(ctx context.Context, clubID string) ([]*model.Calendar, error) {
	var result []*model.Calendar
	for i := 1; i <= m.nextID; i++ {
		cal, ok := m.calendars[fmt.Sprintf("calendar:%d", i)]
		if ok && cal.Owner.IsClub() && cal.Owner.ID == clubID {
			result = append(result, cal)
		}
	}
	return result, nil
}

func (m *mockCalendarRepo) GetForUser(ctx context.Context, userID string) ([]*model.Calendar, error) {
	var result []*model.Calendar
	for _, cal := range m.calendars {
		if cal.Owner.IsUser() && cal.Owner.ID == userID {
			result = append(result, cal)
		}
	}
	return result, nil
}

func (m *mockCalendarRepo) GetMirrorForUser(ctx context.Context, userID, clubID string) (*model.Calendar, error) {
	for _, cal := range m.calendars {
		if cal.IsClubMirror && cal.Owner.IsUser() && cal.Owner.ID == userID && cal.SourceClubID == clubID {
			return cal, nil
		}
	}
	return nil, nil
}

func (m *mockCalendarRepo) GetMirrorsForClub(ctx context.Context, clubID string) ([]*model.Calendar, error) {
	var result []*model.Calendar
	for i := 1; i <= m.nextID; i++ {
		cal, ok := m.calendars[fmt.Sprintf("calendar:%d", i)]
		if ok && cal.IsClubMirror && cal.SourceClubID == clubID {
			result = append(result, cal)
		}
	}
	return result, nil
}

func (m *mockCalendarRepo) Rename(ctx context.Context, id, name string) error {
	if cal, ok := m.calendars[id]; ok {
		cal.Name = name
	}
	return nil
}

func (m *mockCalendarRepo) Delete(ctx context.Context, id string) error {
	delete(m.calendars, id)
	return nil
}

func (m *mockCalendarRepo) addCalendar(owner model.Owner, name string, mirror bool, sourceClubID string) *model.Calendar {
	m.nextID++
	cal := &model.Calendar{
		ID:           fmt.Sprintf("calendar:%d", m.nextID),
		Name:         name,
		Owner:        owner,
		IsClubMirror: mirror,
		SourceClubID: sourceClubID,
	}
	m.calendars[cal.ID] = cal
	return cal
}

type mockMeetingRepo struct {
	meetings map[string]*model.Meeting
	nextID   int
	// failOnCalendar injects a create/update failure for one mirror target
	failOnCalendar map[string]error
}

func newMockMeetingRepo() *mockMeetingRepo {
	return &mockMeetingRepo{
		meetings:       make(map[string]*model.Meeting),
		failOnCalendar: make(map[string]error),
	}
}

func (m *mockMeetingRepo) Create(ctx context.Context, meeting *model.Meeting) error {
	if err := m.failOnCalendar[meeting.CalendarID]; err != nil {
		return err
	}
	m.nextID++
	meeting.ID = fmt.Sprintf("meeting:%d", m.nextID)
	meeting.CreatedOn = time.Now()
	meeting.UpdatedOn = time.Now()
	m.meetings[meeting.ID] = meeting
	return nil
}

func (m *mockMeetingRepo) GetByID(ctx context.Context, id string) (*model.Meeting, error) {
	return m.meetings[id], nil
}

func (m *mockMeetingRepo) GetForCalendar(ctx context.Context, calendarID string) ([]*model.Meeting, error) {
	var result []*model.Meeting
	for i := 1; i <= m.nextID; i++ {
		meeting, ok := m.meetings[fmt.Sprintf("meeting:%d", i)]
		if ok && meeting.CalendarID == calendarID {
			result = append(result, meeting)
		}
	}
	return result, nil
}

func (m *mockMeetingRepo) FindAtDate(ctx context.Context, calendarID string, date time.Time) (*model.Meeting, error) {
	for _, meeting := range m.meetings {
		if meeting.CalendarID == calendarID && meeting.Date.Equal(date) {
			return meeting, nil
		}
	}
	return nil, nil
}

func (m *mockMeetingRepo) GetMirrorsOfSource(ctx context.Context, sourceMeetingID string) ([]*model.Meeting, error) {
	var result []*model.Meeting
	for i := 1; i <= m.nextID; i++ {
		meeting, ok := m.meetings[fmt.Sprintf("meeting:%d", i)]
		if ok && meeting.SourceMeetingID == sourceMeetingID {
			result = append(result, meeting)
		}
	}
	return result, nil
}

func (m *mockMeetingRepo) GetMirrorOnCalendar(ctx context.Context, calendarID, sourceMeetingID string) (*model.Meeting, error) {
	for _, meeting := range m.meetings {
		if meeting.CalendarID == calendarID && meeting.SourceMeetingID == sourceMeetingID {
			return meeting, nil
		}
	}
	return nil, nil
}

func (m *mockMeetingRepo) Update(ctx context.Context, meeting *model.Meeting) error {
	if err := m.failOnCalendar[meeting.CalendarID]; err != nil {
		return err
	}
	m.meetings[meeting.ID] = meeting
	return nil
}

func (m *mockMeetingRepo) Delete(ctx context.Context, id string) error {
	delete(m.meetings, id)
	return nil
}

func (m *mockMeetingRepo) DeleteMirrorsOfSource(ctx context.Context, sourceMeetingID string) error {
	for id, meeting := range m.meetings {
		if meeting.SourceMeetingID == sourceMeetingID {
			delete(m.meetings, id)
		}
	}
	return nil
}

func (m *mockMeetingRepo) addMeeting(calendarID string, date time.Time, desc string, kind model.MeetingKind, sourceID string) *model.Meeting {
	m.nextID++
	meeting := &model.Meeting{
		ID:              fmt.Sprintf("meeting:%d", m.nextID),
		CalendarID:      calendarID,
		Date:            date,
		Description:     desc,
		Kind:            kind,
		SourceMeetingID: sourceID,
	}
	m.meetings[meeting.ID] = meeting
	return meeting
}

type mockMergeRepo struct {
	requests map[string]*model.MergeRequest
	nextID   int
	// CompleteMerge writes through to these so the merged club and roster
	// are visible to subsequent reads
	clubs       *mockClubRepo
	memberships *mockMembershipRepo
	completeErr error
}

func newMockMergeRepo(clubs *mockClubRepo, memberships *mockMembershipRepo) *mockMergeRepo {
	return &mockMergeRepo{
		requests:    make(map[string]*model.MergeRequest),
		clubs:       clubs,
		memberships: memberships,
	}
}

func (m *mockMergeRepo) Create(ctx context.Context, req *model.MergeRequest) error {
	m.nextID++
	req.ID = fmt.Sprintf("merge_request:%d", m.nextID)
	req.CreatedOn = time.Now()
	m.requests[req.ID] = req
	return nil
}

func (m *mockMergeRepo) GetByID(ctx context.Context, id string) (*model.MergeRequest, error) {
	return m.requests[id], nil
}

func (m *mockMergeRepo) GetByPair(ctx context.Context, clubAID, clubBID string) (*model.MergeRequest, error) {
	for _, req := range m.requests {
		if (req.Club1ID == clubAID && req.Club2ID == clubBID) ||
			(req.Club1ID == clubBID && req.Club2ID == clubAID) {
			return req, nil
		}
	}
	return nil, nil
}

func (m *mockMergeRepo) HasCompletedInvolving(ctx context.Context, clubID string) (bool, error) {
	for _, req := range m.requests {
		if req.Created && (req.InvolvesClub(clubID) || req.MergedClubID == clubID) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockMergeRepo) GetForClub(ctx context.Context, clubID string) ([]*model.MergeRequest, error) {
	var result []*model.MergeRequest
	for i := m.nextID; i >= 1; i-- {
		req, ok := m.requests[fmt.Sprintf("merge_request:%d", i)]
		if ok && req.InvolvesClub(clubID) {
			result = append(result, req)
		}
	}
	return result, nil
}

func (m *mockMergeRepo) SetAccepted(ctx context.Context, id string, side int, accepted bool) error {
	req, ok := m.requests[id]
	if !ok {
		return nil
	}
	if side == 1 {
		req.Accepted1 = accepted
	} else {
		req.Accepted2 = accepted
	}
	return nil
}

func (m *mockMergeRepo) Delete(ctx context.Context, id string) error {
	delete(m.requests, id)
	return nil
}

func (m *mockMergeRepo) DeleteStalePending(ctx context.Context, cutoff time.Time) (int, error) {
	count := 0
	for id, req := range m.requests {
		if !req.Created && req.UpdatedOn.Before(cutoff) {
			delete(m.requests, id)
			count++
		}
	}
	return count, nil
}

func (m *mockMergeRepo) CompleteMerge(ctx context.Context, mergeID string, mergedClub *model.Club, roster []*model.Membership) error {
	if m.completeErr != nil {
		return m.completeErr
	}
	req, ok := m.requests[mergeID]
	if !ok {
		return database.ErrNotFound
	}
	if req.Created {
		return database.ErrDuplicate
	}
	m.clubs.clubs[mergedClub.ID] = mergedClub
	for _, member := range roster {
		m.memberships.addMember(member.UserID, mergedClub.ID, member.Role)
	}
	req.Created = true
	req.MergedClubID = mergedClub.ID
	return nil
}

type mockMirrorSyncer struct {
	joins    []string // "userID/clubID"
	leaves   []string
	joinErr  error
	leaveErr error
}

func (m *mockMirrorSyncer) OnMemberJoin(ctx context.Context, userID, clubID string) error {
	if m.joinErr != nil {
		return m.joinErr
	}
	m.joins = append(m.joins, userID+"/"+clubID)
	return nil
}

func (m *mockMirrorSyncer) OnMemberLeave(ctx context.Context, userID, clubID string) error {
	if m.leaveErr != nil {
		return m.leaveErr
	}
	m.leaves = append(m.leaves, userID+"/"+clubID)
	return nil
}

type mockPropagator struct {
	created  []*model.Meeting
	updated  []*model.Meeting
	deleted  []*model.Meeting
	warnings []string
}

func (m *mockPropagator) OnMeetingCreated(ctx context.Context, meeting *model.Meeting) []string {
	m.created = append(m.created, meeting)
	return m.warnings
}

func (m *mockPropagator) OnMeetingUpdated(ctx context.Context, meeting *model.Meeting) []string {
	m.updated = append(m.updated, meeting)
	return m.warnings
}

func (m *mockPropagator) OnMeetingDeleted(ctx context.Context, meeting *model.Meeting) []string {
	m.deleted = append(m.deleted, meeting)
	return m.warnings
}

type mockDocumentRepo struct {
	managers  map[string]*model.DocumentManager
	documents map[string]*model.Document
	nextID    int
}

func newMockDocumentRepo() *mockDocumentRepo {
	return &mockDocumentRepo{
		managers:  make(map[string]*model.DocumentManager),
		documents: make(map[string]*model.Document),
	}
}

func (m *mockDocumentRepo) CreateManager(ctx context.Context, manager *model.DocumentManager) error {
	m.nextID++
	manager.ID = fmt.Sprintf("document_manager:%d", m.nextID)
	manager.CreatedOn = time.Now()
	manager.UpdatedOn = time.Now()
	m.managers[manager.ID] = manager
	return nil
}

func (m *mockDocumentRepo) GetManagerByID(ctx context.Context, id string) (*model.DocumentManager, error) {
	return m.managers[id], nil
}

func (m *mockDocumentRepo) GetManagersForClub(ctx context.Context, clubID string) ([]*model.DocumentManager, error) {
	var result []*model.DocumentManager
	for _, manager := range m.managers {
		if manager.Owner.IsClub() && manager.Owner.ID == clubID {
			result = append(result, manager)
		}
	}
	return result, nil
}

func (m *mockDocumentRepo) GetManagersForUser(ctx context.Context, userID string) ([]*model.DocumentManager, error) {
	var result []*model.DocumentManager
	for _, manager := range m.managers {
		if manager.Owner.IsUser() && manager.Owner.ID == userID {
			result = append(result, manager)
		}
	}
	return result, nil
}

func (m *mockDocumentRepo) DeleteManager(ctx context.Context, id string) error {
	for docID, doc := range m.documents {
		if doc.ManagerID == id {
			delete(m.documents, docID)
		}
	}
	delete(m.managers, id)
	return nil
}

func (m *mockDocumentRepo) CreateDocument(ctx context.Context, doc *model.Document) error {
	m.nextID++
	doc.ID = fmt.Sprintf("document:%d", m.nextID)
	doc.UploadedOn = time.Now()
	m.documents[doc.ID] = doc
	return nil
}

func (m *mockDocumentRepo) GetDocumentByID(ctx context.Context, id string) (*model.Document, error) {
	return m.documents[id], nil
}

func (m *mockDocumentRepo) GetDocumentsForManager(ctx context.Context, managerID string) ([]*model.Document, error) {
	var result []*model.Document
	for _, doc := range m.documents {
		if doc.ManagerID == managerID {
			result = append(result, doc)
		}
	}
	return result, nil
}

func (m *mockDocumentRepo) DeleteDocument(ctx context.Context, id string) error {
	delete(m.documents, id)
	return nil
}

type mockConnectionRepo struct {
	connections map[string]*model.Connection
	profiles    map[string]*model.NetworkProfile
	suggestions []*model.ConnectionSuggestion
	nextID      int
}

func newMockConnectionRepo() *mockConnectionRepo {
	return &mockConnectionRepo{
		connections: make(map[string]*model.Connection),
		profiles:    make(map[string]*model.NetworkProfile),
	}
}

func (m *mockConnectionRepo) Create(ctx context.Context, conn *model.Connection) error {
	m.nextID++
	conn.ID = fmt.Sprintf("connection:%d", m.nextID)
	conn.CreatedOn = time.Now()
	m.connections[conn.ID] = conn
	return nil
}

func (m *mockConnectionRepo) GetByID(ctx context.Context, id string) (*model.Connection, error) {
	return m.connections[id], nil
}

func (m *mockConnectionRepo) GetBetween(ctx context.Context, userAID, userBID string) (*model.Connection, error) {
	for _, conn := range m.connections {
		if (conn.FromUserID == userAID && conn.ToUserID == userBID) ||
			(conn.FromUserID == userBID && conn.ToUserID == userAID) {
			return conn, nil
		}
	}
	return nil, nil
}

func (m *mockConnectionRepo) GetForUser(ctx context.Context, userID string, status *model.ConnectionStatus) ([]*model.Connection, error) {
	var result []*model.Connection
	for _, conn := range m.connections {
		if conn.FromUserID != userID && conn.ToUserID != userID {
			continue
		}
		if status != nil && conn.Status != *status {
			continue
		}
		result = append(result, conn)
	}
	return result, nil
}

func (m *mockConnectionRepo) UpdateStatus(ctx context.Context, id string, status model.ConnectionStatus) error {
	if conn, ok := m.connections[id]; ok {
		conn.Status = status
	}
	return nil
}

func (m *mockConnectionRepo) Delete(ctx context.Context, id string) error {
	delete(m.connections, id)
	return nil
}

func (m *mockConnectionRepo) GetProfile(ctx context.Context, userID string) (*model.NetworkProfile, error) {
	return m.profiles[userID], nil
}

func (m *mockConnectionRepo) UpsertProfile(ctx context.Context, profile *model.NetworkProfile) error {
	if profile.ID == "" {
		m.nextID++
		profile.ID = fmt.Sprintf("network_profile:%d", m.nextID)
	}
	m.profiles[profile.UserID] = profile
	return nil
}

func (m *mockConnectionRepo) GetSuggestions(ctx context.Context, userID string, limit int) ([]*model.ConnectionSuggestion, error) {
	if limit < len(m.suggestions) {
		return m.suggestions[:limit], nil
	}
	return m.suggestions, nil
}
