package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/hack24/api/internal/app/store"
	"github.com/hack24/api/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The fakes below mirror the Mongo store behavior in memory: stable
// sort by external id, case-insensitive substring filters, sentinel
// errors for misses and duplicate ids. Handler tests run against these
// so no live database is needed.

func nameMatches(name, filter string) bool {
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(filter))
}

// FakeAttendees is an in-memory attendee store.
type FakeAttendees struct {
	mu        sync.Mutex
	Attendees []models.Attendee
}

// AddAttendee seeds an attendee and returns it.
func (f *FakeAttendees) AddAttendee(attendeeID string) models.Attendee {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := models.Attendee{ID: primitive.NewObjectID(), AttendeeID: attendeeID}
	f.Attendees = append(f.Attendees, a)
	return a
}

func (f *FakeAttendees) List(ctx context.Context) ([]models.Attendee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]models.Attendee(nil), f.Attendees...)
	sort.Slice(out, func(i, j int) bool { return out[i].AttendeeID < out[j].AttendeeID })
	return out, nil
}

func (f *FakeAttendees) FindByAttendeeID(ctx context.Context, attendeeID string) (*models.Attendee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Attendees {
		if f.Attendees[i].AttendeeID == attendeeID {
			a := f.Attendees[i]
			return &a, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *FakeAttendees) Insert(ctx context.Context, a models.Attendee) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Attendees {
		if f.Attendees[i].AttendeeID == a.AttendeeID {
			return store.ErrDuplicateID
		}
	}
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	f.Attendees = append(f.Attendees, a)
	return nil
}

func (f *FakeAttendees) Delete(ctx context.Context, attendeeID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Attendees {
		if f.Attendees[i].AttendeeID == attendeeID {
			f.Attendees = append(f.Attendees[:i], f.Attendees[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *FakeAttendees) ExistsByAttendeeID(ctx context.Context, attendeeID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Attendees {
		if f.Attendees[i].AttendeeID == attendeeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *FakeAttendees) ExistsBySlackID(ctx context.Context, slackID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Attendees {
		if f.Attendees[i].SlackID != nil && *f.Attendees[i].SlackID == slackID {
			return true, nil
		}
	}
	return false, nil
}

func (f *FakeAttendees) LinkSlackID(ctx context.Context, attendeeID, slackID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Attendees {
		if f.Attendees[i].AttendeeID == attendeeID {
			f.Attendees[i].SlackID = &slackID
			return true, nil
		}
	}
	return false, nil
}

// FakeUsers is an in-memory user store.
type FakeUsers struct {
	mu    sync.Mutex
	Users []models.User
}

// AddUser seeds a user and returns it.
func (f *FakeUsers) AddUser(userID, name string) models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := models.User{ID: primitive.NewObjectID(), UserID: userID, Name: name}
	f.Users = append(f.Users, u)
	return u
}

func (f *FakeUsers) List(ctx context.Context, nameFilter string) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.User, 0, len(f.Users))
	for _, u := range f.Users {
		if nameMatches(u.Name, nameFilter) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (f *FakeUsers) FindByUserID(ctx context.Context, userID string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Users {
		if f.Users[i].UserID == userID {
			u := f.Users[i]
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *FakeUsers) FindByUserIDs(ctx context.Context, userIDs []string) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		want[id] = true
	}
	var out []models.User
	for _, u := range f.Users {
		if want[u.UserID] {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *FakeUsers) FindByObjectIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []models.User
	for _, u := range f.Users {
		if want[u.ID] {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *FakeUsers) Insert(ctx context.Context, u models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Users {
		if f.Users[i].UserID == u.UserID {
			return store.ErrDuplicateID
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	f.Users = append(f.Users, u)
	return nil
}

func (f *FakeUsers) Delete(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Users {
		if f.Users[i].UserID == userID {
			f.Users = append(f.Users[:i], f.Users[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

// FakeTeams is an in-memory team store.
type FakeTeams struct {
	mu    sync.Mutex
	Teams []models.Team
}

// AddTeam seeds a team and returns it.
func (f *FakeTeams) AddTeam(teamID, name string, motto *string, members ...primitive.ObjectID) models.Team {
	f.mu.Lock()
	defer f.mu.Unlock()
	if members == nil {
		members = []primitive.ObjectID{}
	}
	t := models.Team{ID: primitive.NewObjectID(), TeamID: teamID, Name: name, Motto: motto, Members: members}
	f.Teams = append(f.Teams, t)
	return t
}

func (f *FakeTeams) List(ctx context.Context, nameFilter string) ([]models.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Team, 0, len(f.Teams))
	for _, t := range f.Teams {
		if nameMatches(t.Name, nameFilter) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeamID < out[j].TeamID })
	return out, nil
}

func (f *FakeTeams) FindByTeamID(ctx context.Context, teamID string) (*models.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Teams {
		if f.Teams[i].TeamID == teamID {
			t := f.Teams[i]
			return &t, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *FakeTeams) FindByMember(ctx context.Context, member primitive.ObjectID) (*models.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Teams {
		for _, m := range f.Teams[i].Members {
			if m == member {
				t := f.Teams[i]
				return &t, nil
			}
		}
	}
	return nil, store.ErrNotFound
}

func (f *FakeTeams) FindByMembers(ctx context.Context, members []primitive.ObjectID) ([]models.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := make(map[primitive.ObjectID]bool, len(members))
	for _, id := range members {
		want[id] = true
	}
	var out []models.Team
	for _, t := range f.Teams {
		for _, m := range t.Members {
			if want[m] {
				out = append(out, t)
				break
			}
		}
	}
	return out, nil
}

func (f *FakeTeams) Insert(ctx context.Context, t models.Team) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Teams {
		if f.Teams[i].TeamID == t.TeamID {
			return store.ErrDuplicateID
		}
	}
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	if t.Members == nil {
		t.Members = []primitive.ObjectID{}
	}
	f.Teams = append(f.Teams, t)
	return nil
}

func (f *FakeTeams) UpdateMotto(ctx context.Context, teamID, motto string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Teams {
		if f.Teams[i].TeamID == teamID {
			f.Teams[i].Motto = &motto
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *FakeTeams) AddMembers(ctx context.Context, teamID string, members []primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Teams {
		if f.Teams[i].TeamID == teamID {
			f.Teams[i].Members = append(f.Teams[i].Members, members...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *FakeTeams) RemoveMembers(ctx context.Context, teamID string, members []primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	drop := make(map[primitive.ObjectID]bool, len(members))
	for _, id := range members {
		drop[id] = true
	}
	for i := range f.Teams {
		if f.Teams[i].TeamID != teamID {
			continue
		}
		kept := f.Teams[i].Members[:0]
		for _, m := range f.Teams[i].Members {
			if !drop[m] {
				kept = append(kept, m)
			}
		}
		f.Teams[i].Members = kept
		return nil
	}
	return store.ErrNotFound
}

func (f *FakeTeams) Delete(ctx context.Context, teamID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Teams {
		if f.Teams[i].TeamID == teamID {
			f.Teams = append(f.Teams[:i], f.Teams[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

// FakeHacks is an in-memory hack store.
type FakeHacks struct {
	mu    sync.Mutex
	Hacks []models.Hack
}

// AddHack seeds a hack and returns it.
func (f *FakeHacks) AddHack(hackID, name string) models.Hack {
	f.mu.Lock()
	defer f.mu.Unlock()
	h := models.Hack{ID: primitive.NewObjectID(), HackID: hackID, Name: name, Challenges: []primitive.ObjectID{}}
	f.Hacks = append(f.Hacks, h)
	return h
}

func (f *FakeHacks) List(ctx context.Context, nameFilter string) ([]models.Hack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Hack, 0, len(f.Hacks))
	for _, h := range f.Hacks {
		if nameMatches(h.Name, nameFilter) {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].HackID < out[j].HackID })
	return out, nil
}

func (f *FakeHacks) FindByHackID(ctx context.Context, hackID string) (*models.Hack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Hacks {
		if f.Hacks[i].HackID == hackID {
			h := f.Hacks[i]
			return &h, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *FakeHacks) FindByHackIDs(ctx context.Context, hackIDs []string) ([]models.Hack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := make(map[string]bool, len(hackIDs))
	for _, id := range hackIDs {
		want[id] = true
	}
	var out []models.Hack
	for _, h := range f.Hacks {
		if want[h.HackID] {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *FakeHacks) FindByTeam(ctx context.Context, team primitive.ObjectID) ([]models.Hack, error) {
	return f.FindByTeams(ctx, []primitive.ObjectID{team})
}

func (f *FakeHacks) FindByTeams(ctx context.Context, teams []primitive.ObjectID) ([]models.Hack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := make(map[primitive.ObjectID]bool, len(teams))
	for _, id := range teams {
		want[id] = true
	}
	out := make([]models.Hack, 0)
	for _, h := range f.Hacks {
		if h.Team != nil && want[*h.Team] {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].HackID < out[j].HackID })
	return out, nil
}

func (f *FakeHacks) Insert(ctx context.Context, h models.Hack) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Hacks {
		if f.Hacks[i].HackID == h.HackID {
			return store.ErrDuplicateID
		}
	}
	if h.ID.IsZero() {
		h.ID = primitive.NewObjectID()
	}
	if h.Challenges == nil {
		h.Challenges = []primitive.ObjectID{}
	}
	f.Hacks = append(f.Hacks, h)
	return nil
}

func (f *FakeHacks) SetTeam(ctx context.Context, hacks []primitive.ObjectID, team primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := make(map[primitive.ObjectID]bool, len(hacks))
	for _, id := range hacks {
		want[id] = true
	}
	for i := range f.Hacks {
		if want[f.Hacks[i].ID] {
			t := team
			f.Hacks[i].Team = &t
		}
	}
	return nil
}

func (f *FakeHacks) UnsetTeam(ctx context.Context, hacks []primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := make(map[primitive.ObjectID]bool, len(hacks))
	for _, id := range hacks {
		want[id] = true
	}
	for i := range f.Hacks {
		if want[f.Hacks[i].ID] {
			f.Hacks[i].Team = nil
		}
	}
	return nil
}

func (f *FakeHacks) AddChallenges(ctx context.Context, hackID string, challenges []primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Hacks {
		if f.Hacks[i].HackID == hackID {
			f.Hacks[i].Challenges = append(f.Hacks[i].Challenges, challenges...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *FakeHacks) Delete(ctx context.Context, hackID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Hacks {
		if f.Hacks[i].HackID == hackID {
			f.Hacks = append(f.Hacks[:i], f.Hacks[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

// FakeChallenges is an in-memory challenge store.
type FakeChallenges struct {
	mu         sync.Mutex
	Challenges []models.Challenge
}

// AddChallenge seeds a challenge and returns it.
func (f *FakeChallenges) AddChallenge(challengeID, name string) models.Challenge {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := models.Challenge{ID: primitive.NewObjectID(), ChallengeID: challengeID, Name: name}
	f.Challenges = append(f.Challenges, c)
	return c
}

func (f *FakeChallenges) List(ctx context.Context, nameFilter string) ([]models.Challenge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Challenge, 0, len(f.Challenges))
	for _, c := range f.Challenges {
		if nameMatches(c.Name, nameFilter) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChallengeID < out[j].ChallengeID })
	return out, nil
}

func (f *FakeChallenges) FindByChallengeID(ctx context.Context, challengeID string) (*models.Challenge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Challenges {
		if f.Challenges[i].ChallengeID == challengeID {
			c := f.Challenges[i]
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *FakeChallenges) FindByChallengeIDs(ctx context.Context, challengeIDs []string) ([]models.Challenge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := make(map[string]bool, len(challengeIDs))
	for _, id := range challengeIDs {
		want[id] = true
	}
	var out []models.Challenge
	for _, c := range f.Challenges {
		if want[c.ChallengeID] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *FakeChallenges) FindByObjectIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Challenge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []models.Challenge
	for _, c := range f.Challenges {
		if want[c.ID] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *FakeChallenges) Insert(ctx context.Context, c models.Challenge) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Challenges {
		if f.Challenges[i].ChallengeID == c.ChallengeID {
			return store.ErrDuplicateID
		}
	}
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	f.Challenges = append(f.Challenges, c)
	return nil
}

func (f *FakeChallenges) Delete(ctx context.Context, challengeID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Challenges {
		if f.Challenges[i].ChallengeID == challengeID {
			f.Challenges = append(f.Challenges[:i], f.Challenges[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}
