package teams_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hack24/api/internal/app/features/teams"
	"github.com/hack24/api/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type resource struct {
	Links struct {
		Self string `json:"self"`
	} `json:"links"`
	Type          string                     `json:"type"`
	ID            string                     `json:"id"`
	Attributes    map[string]json.RawMessage `json:"attributes"`
	Relationships map[string]struct {
		Links struct {
			Self string `json:"self"`
		} `json:"links"`
		Data json.RawMessage `json:"data"`
	} `json:"relationships"`
}

type identifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type singleDoc struct {
	Data     resource   `json:"data"`
	Included []resource `json:"included"`
}

type listDoc struct {
	Data     []resource `json:"data"`
	Included []resource `json:"included"`
}

type errorDoc struct {
	Errors []struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

type fixture struct {
	teams   *testutil.FakeTeams
	users   *testutil.FakeUsers
	hacks   *testutil.FakeHacks
	events  *testutil.RecordingBroadcaster
	handler *teams.Handler
}

func newFixture() *fixture {
	f := &fixture{
		teams:  &testutil.FakeTeams{},
		users:  &testutil.FakeUsers{},
		hacks:  &testutil.FakeHacks{},
		events: &testutil.RecordingBroadcaster{},
	}
	f.handler = teams.NewHandler(f.teams, f.users, f.hacks, f.events, zap.NewNop())
	return f
}

func badRequestDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400: %s", rec.Code, rec.Body.String())
	}
	var doc errorDoc
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("parse error document: %v", err)
	}
	if len(doc.Errors) != 1 {
		t.Fatalf("errors: got %d, want 1", len(doc.Errors))
	}
	return doc.Errors[0].Detail
}

func TestList_IncludesEachResourceOnce(t *testing.T) {
	f := newFixture()
	joe := f.users.AddUser("joe", "Joe Bloggs")
	jane := f.users.AddUser("jane", "Jane Doe")
	sam := f.users.AddUser("sam", "Sam Small")
	f.teams.AddTeam("crashers", "The Crashers", nil, joe.ID)
	f.teams.AddTeam("racers", "The Racers", nil, jane.ID, sam.ID)

	rec := httptest.NewRecorder()
	f.handler.List(rec, httptest.NewRequest("GET", "/teams", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var doc listDoc
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("parse response: %v", err)
	}

	if len(doc.Data) != 2 {
		t.Fatalf("data: got %d teams, want 2", len(doc.Data))
	}
	// Exactly the three distinct member users, in first-seen order.
	if len(doc.Included) != 3 {
		t.Fatalf("included: got %d resources, want 3", len(doc.Included))
	}
	wantOrder := []string{"joe", "jane", "sam"}
	for i, id := range wantOrder {
		if doc.Included[i].Type != "users" || doc.Included[i].ID != id {
			t.Errorf("included[%d]: got %s/%s, want users/%s", i, doc.Included[i].Type, doc.Included[i].ID, id)
		}
	}
}

func TestList_IncludesEnteredHacks(t *testing.T) {
	f := newFixture()
	team := f.teams.AddTeam("crashers", "The Crashers", nil)
	hack := f.hacks.AddHack("best-hack", "Best Hack")
	if err := f.hacks.SetTeam(t.Context(), []primitive.ObjectID{hack.ID}, team.ID); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	f.handler.List(rec, httptest.NewRequest("GET", "/teams", nil))

	var doc listDoc
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("parse response: %v", err)
	}

	if len(doc.Included) != 1 || doc.Included[0].Type != "hacks" || doc.Included[0].ID != "best-hack" {
		t.Fatalf("included: got %+v, want the entered hack", doc.Included)
	}

	var entries []identifier
	if err := json.Unmarshal(doc.Data[0].Relationships["entries"].Data, &entries); err != nil {
		t.Fatalf("parse entries data: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "best-hack" {
		t.Errorf("entries: got %+v", entries)
	}
}

func TestGet_NotFound(t *testing.T) {
	f := newFixture()

	req := testutil.WithChiURLParam(httptest.NewRequest("GET", "/teams/nope", nil), "teamID", "nope")
	rec := httptest.NewRecorder()
	f.handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
}

func TestCreate_SlugIDAndEvent(t *testing.T) {
	f := newFixture()

	req := httptest.NewRequest("POST", "/teams",
		testutil.ResourceBody("teams", "", map[string]any{"name": "The Crashers", "motto": "We crash"}))
	rec := httptest.NewRecorder()
	f.handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var doc singleDoc
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if doc.Data.ID != "the-crashers" {
		t.Errorf("id: got %q, want %q", doc.Data.ID, "the-crashers")
	}
	if string(doc.Data.Attributes["motto"]) != `"We crash"` {
		t.Errorf("motto: got %s", doc.Data.Attributes["motto"])
	}

	recorded := f.events.Recorded()
	if len(recorded) != 1 || recorded[0].Name != "teams_add" {
		t.Fatalf("events: got %+v, want one teams_add", recorded)
	}
}

func TestCreate_WithMembersRelationship(t *testing.T) {
	f := newFixture()
	f.users.AddUser("joe", "Joe Bloggs")
	f.users.AddUser("jane", "Jane Doe")

	req := httptest.NewRequest("POST", "/teams", testutil.ResourceBodyWithRelationships(
		"teams", "",
		map[string]any{"name": "The Crashers"},
		map[string]any{"members": testutil.ToManyRelationship("users", "joe", "jane")},
	))
	rec := httptest.NewRecorder()
	f.handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var doc singleDoc
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	var members []identifier
	if err := json.Unmarshal(doc.Data.Relationships["members"].Data, &members); err != nil {
		t.Fatalf("parse members data: %v", err)
	}
	if len(members) != 2 || members[0].ID != "joe" || members[1].ID != "jane" {
		t.Errorf("members: got %+v", members)
	}

	team, err := f.teams.FindByTeamID(t.Context(), "the-crashers")
	if err != nil {
		t.Fatal(err)
	}
	if len(team.Members) != 2 {
		t.Errorf("stored members: got %d, want 2", len(team.Members))
	}
}

func TestCreate_RejectsMembersAlreadyInATeam(t *testing.T) {
	f := newFixture()
	joe := f.users.AddUser("joe", "Joe Bloggs")
	f.teams.AddTeam("racers", "The Racers", nil, joe.ID)

	req := httptest.NewRequest("POST", "/teams", testutil.ResourceBodyWithRelationships(
		"teams", "",
		map[string]any{"name": "The Crashers"},
		map[string]any{"members": testutil.ToManyRelationship("users", "joe")},
	))
	rec := httptest.NewRecorder()
	f.handler.Create(rec, req)

	if got := badRequestDetail(t, rec); got != "One or more of the specified users are already in a team" {
		t.Errorf("detail: got %q", got)
	}
	if len(f.teams.Teams) != 1 {
		t.Errorf("no team should have been created")
	}
}

func TestCreate_DuplicateNameConflicts(t *testing.T) {
	f := newFixture()
	f.teams.AddTeam("the-crashers", "The Crashers", nil)

	req := httptest.NewRequest("POST", "/teams",
		testutil.ResourceBody("teams", "", map[string]any{"name": "The Crashers"}))
	rec := httptest.NewRecorder()
	f.handler.Create(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status: got %d, want 409", rec.Code)
	}
	if len(f.events.Recorded()) != 0 {
		t.Error("no event should fire on conflict")
	}
}

func TestUpdate_Motto(t *testing.T) {
	f := newFixture()
	f.teams.AddTeam("crashers", "The Crashers", nil)

	req := testutil.WithChiURLParam(httptest.NewRequest("PATCH", "/teams/crashers",
		testutil.ResourceBody("teams", "crashers", map[string]any{"motto": "We crash"})), "teamID", "crashers")
	rec := httptest.NewRecorder()
	f.handler.Update(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want 204: %s", rec.Code, rec.Body.String())
	}

	team, err := f.teams.FindByTeamID(t.Context(), "crashers")
	if err != nil {
		t.Fatal(err)
	}
	if team.Motto == nil || *team.Motto != "We crash" {
		t.Errorf("motto was not updated: %v", team.Motto)
	}
}

func TestUpdate_NameChangeIsIgnored(t *testing.T) {
	f := newFixture()
	f.teams.AddTeam("crashers", "The Crashers", nil)

	req := testutil.WithChiURLParam(httptest.NewRequest("PATCH", "/teams/crashers",
		testutil.ResourceBody("teams", "crashers", map[string]any{"name": "New Name"})), "teamID", "crashers")
	rec := httptest.NewRecorder()
	f.handler.Update(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want 204", rec.Code)
	}

	team, err := f.teams.FindByTeamID(t.Context(), "crashers")
	if err != nil {
		t.Fatal(err)
	}
	if team.Name != "The Crashers" {
		t.Errorf("name changed to %q", team.Name)
	}
}

func TestUpdate_NoAttributesIsNoOp(t *testing.T) {
	f := newFixture()
	f.teams.AddTeam("crashers", "The Crashers", nil)

	req := testutil.WithChiURLParam(httptest.NewRequest("PATCH", "/teams/crashers",
		testutil.ResourceBody("teams", "crashers", nil)), "teamID", "crashers")
	rec := httptest.NewRecorder()
	f.handler.Update(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status: got %d, want 204", rec.Code)
	}
}

func TestUpdate_IDMismatch(t *testing.T) {
	f := newFixture()
	f.teams.AddTeam("crashers", "The Crashers", nil)

	req := testutil.WithChiURLParam(httptest.NewRequest("PATCH", "/teams/crashers",
		testutil.ResourceBody("teams", "other-team", map[string]any{"motto": "x"})), "teamID", "crashers")
	rec := httptest.NewRecorder()
	f.handler.Update(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestUpdate_UnknownTeam(t *testing.T) {
	f := newFixture()

	req := testutil.WithChiURLParam(httptest.NewRequest("PATCH", "/teams/nope",
		testutil.ResourceBody("teams", "nope", nil)), "teamID", "nope")
	rec := httptest.NewRecorder()
	f.handler.Update(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
}

func TestAddMembers(t *testing.T) {
	f := newFixture()
	f.users.AddUser("joe", "Joe Bloggs")
	f.users.AddUser("jane", "Jane Doe")
	f.teams.AddTeam("crashers", "The Crashers", nil)

	req := testutil.WithChiURLParam(httptest.NewRequest("POST", "/teams/crashers/members",
		testutil.IdentifierListBody("users", "joe", "jane")), "teamID", "crashers")
	rec := httptest.NewRecorder()
	f.handler.AddMembers(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want 204: %s", rec.Code, rec.Body.String())
	}

	team, err := f.teams.FindByTeamID(t.Context(), "crashers")
	if err != nil {
		t.Fatal(err)
	}
	if len(team.Members) != 2 {
		t.Errorf("members: got %d, want 2", len(team.Members))
	}

	recorded := f.events.Recorded()
	if len(recorded) != 2 {
		t.Fatalf("events: got %d, want 2", len(recorded))
	}
	for _, event := range recorded {
		if event.Name != "teams_update_members_add" {
			t.Errorf("event name: got %q", event.Name)
		}
	}
}

func TestAddMembers_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		detail string
	}{
		{"already on this team", "joe", "One or more users are already members of this team"},
		{"unknown user", "ghost", "One or more of the specified users could not be found"},
		{"already on another team", "jane", "One or more of the specified users are already in a team"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			joe := f.users.AddUser("joe", "Joe Bloggs")
			jane := f.users.AddUser("jane", "Jane Doe")
			f.teams.AddTeam("crashers", "The Crashers", nil, joe.ID)
			f.teams.AddTeam("racers", "The Racers", nil, jane.ID)

			req := testutil.WithChiURLParam(httptest.NewRequest("POST", "/teams/crashers/members",
				testutil.IdentifierListBody("users", tt.userID)), "teamID", "crashers")
			rec := httptest.NewRecorder()
			f.handler.AddMembers(rec, req)

			if got := badRequestDetail(t, rec); got != tt.detail {
				t.Errorf("detail: got %q, want %q", got, tt.detail)
			}

			// A rejected add leaves every roster untouched.
			for _, teamID := range []string{"crashers", "racers"} {
				team, err := f.teams.FindByTeamID(t.Context(), teamID)
				if err != nil {
					t.Fatal(err)
				}
				if len(team.Members) != 1 {
					t.Errorf("%s members: got %d, want 1", teamID, len(team.Members))
				}
			}
			if len(f.events.Recorded()) != 0 {
				t.Error("no event should fire on rejection")
			}
		})
	}
}

func TestAddMembers_UnknownTeam(t *testing.T) {
	f := newFixture()
	f.users.AddUser("joe", "Joe Bloggs")

	req := testutil.WithChiURLParam(httptest.NewRequest("POST", "/teams/nope/members",
		testutil.IdentifierListBody("users", "joe")), "teamID", "nope")
	rec := httptest.NewRecorder()
	f.handler.AddMembers(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
}

func TestRemoveMembers(t *testing.T) {
	f := newFixture()
	joe := f.users.AddUser("joe", "Joe Bloggs")
	jane := f.users.AddUser("jane", "Jane Doe")
	f.teams.AddTeam("crashers", "The Crashers", nil, joe.ID, jane.ID)

	req := testutil.WithChiURLParam(httptest.NewRequest("DELETE", "/teams/crashers/members",
		testutil.IdentifierListBody("users", "joe")), "teamID", "crashers")
	rec := httptest.NewRecorder()
	f.handler.RemoveMembers(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want 204: %s", rec.Code, rec.Body.String())
	}

	team, err := f.teams.FindByTeamID(t.Context(), "crashers")
	if err != nil {
		t.Fatal(err)
	}
	if len(team.Members) != 1 || team.Members[0] != jane.ID {
		t.Errorf("members: got %v, want jane only", team.Members)
	}

	recorded := f.events.Recorded()
	if len(recorded) != 1 || recorded[0].Name != "teams_update_members_remove" {
		t.Fatalf("events: got %+v, want one teams_update_members_remove", recorded)
	}
}

func TestRemoveMembers_NotAMember(t *testing.T) {
	f := newFixture()
	joe := f.users.AddUser("joe", "Joe Bloggs")
	f.users.AddUser("jane", "Jane Doe")
	f.teams.AddTeam("crashers", "The Crashers", nil, joe.ID)

	req := testutil.WithChiURLParam(httptest.NewRequest("DELETE", "/teams/crashers/members",
		testutil.IdentifierListBody("users", "jane")), "teamID", "crashers")
	rec := httptest.NewRecorder()
	f.handler.RemoveMembers(rec, req)

	if got := badRequestDetail(t, rec); got != "One or more of the specified users are not members of this team" {
		t.Errorf("detail: got %q", got)
	}
}

func TestGetMembers_StoredOrder(t *testing.T) {
	f := newFixture()
	joe := f.users.AddUser("joe", "Joe Bloggs")
	jane := f.users.AddUser("jane", "Jane Doe")
	f.teams.AddTeam("crashers", "The Crashers", nil, joe.ID, jane.ID)

	req := testutil.WithChiURLParam(httptest.NewRequest("GET", "/teams/crashers/members", nil), "teamID", "crashers")
	rec := httptest.NewRecorder()
	f.handler.GetMembers(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}

	var doc struct {
		Links struct {
			Self string `json:"self"`
		} `json:"links"`
		Data     []identifier `json:"data"`
		Included []resource   `json:"included"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if doc.Links.Self != "/teams/crashers/members" {
		t.Errorf("self: got %q", doc.Links.Self)
	}
	if len(doc.Data) != 2 || doc.Data[0].ID != "joe" || doc.Data[1].ID != "jane" {
		t.Errorf("data: got %+v, want joe then jane", doc.Data)
	}
	if len(doc.Included) != 2 {
		t.Errorf("included: got %d resources, want 2", len(doc.Included))
	}
}

func TestAddEntries(t *testing.T) {
	f := newFixture()
	f.teams.AddTeam("crashers", "The Crashers", nil)
	f.hacks.AddHack("best-hack", "Best Hack")

	req := testutil.WithChiURLParam(httptest.NewRequest("POST", "/teams/crashers/entries",
		testutil.IdentifierListBody("hacks", "best-hack")), "teamID", "crashers")
	rec := httptest.NewRecorder()
	f.handler.AddEntries(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want 204: %s", rec.Code, rec.Body.String())
	}

	hack, err := f.hacks.FindByHackID(t.Context(), "best-hack")
	if err != nil {
		t.Fatal(err)
	}
	if hack.Team == nil {
		t.Fatal("hack has no team")
	}

	recorded := f.events.Recorded()
	if len(recorded) != 1 || recorded[0].Name != "teams_update_entries_add" {
		t.Fatalf("events: got %+v, want one teams_update_entries_add", recorded)
	}
}

func TestAddEntries_Rejections(t *testing.T) {
	f := newFixture()
	f.teams.AddTeam("crashers", "The Crashers", nil)
	racers := f.teams.AddTeam("racers", "The Racers", nil)
	taken := f.hacks.AddHack("taken-hack", "Taken Hack")
	if err := f.hacks.SetTeam(t.Context(), []primitive.ObjectID{taken.ID}, racers.ID); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		hackID string
		detail string
	}{
		{"unknown hack", "ghost", "One or more of the specified hacks could not be found"},
		{"already entered", "taken-hack", "One or more of the specified hacks are already entered by a team"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.WithChiURLParam(httptest.NewRequest("POST", "/teams/crashers/entries",
				testutil.IdentifierListBody("hacks", tt.hackID)), "teamID", "crashers")
			rec := httptest.NewRecorder()
			f.handler.AddEntries(rec, req)

			if got := badRequestDetail(t, rec); got != tt.detail {
				t.Errorf("detail: got %q, want %q", got, tt.detail)
			}
		})
	}
}

func TestRemoveEntries(t *testing.T) {
	f := newFixture()
	team := f.teams.AddTeam("crashers", "The Crashers", nil)
	hack := f.hacks.AddHack("best-hack", "Best Hack")
	if err := f.hacks.SetTeam(t.Context(), []primitive.ObjectID{hack.ID}, team.ID); err != nil {
		t.Fatal(err)
	}

	req := testutil.WithChiURLParam(httptest.NewRequest("DELETE", "/teams/crashers/entries",
		testutil.IdentifierListBody("hacks", "best-hack")), "teamID", "crashers")
	rec := httptest.NewRecorder()
	f.handler.RemoveEntries(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want 204: %s", rec.Code, rec.Body.String())
	}

	got, err := f.hacks.FindByHackID(t.Context(), "best-hack")
	if err != nil {
		t.Fatal(err)
	}
	if got.Team != nil {
		t.Error("hack still has a team")
	}

	recorded := f.events.Recorded()
	if len(recorded) != 1 || recorded[0].Name != "teams_update_entries_remove" {
		t.Fatalf("events: got %+v, want one teams_update_entries_remove", recorded)
	}
}

func TestRemoveEntries_NotAnEntry(t *testing.T) {
	f := newFixture()
	f.teams.AddTeam("crashers", "The Crashers", nil)
	f.hacks.AddHack("free-hack", "Free Hack")

	req := testutil.WithChiURLParam(httptest.NewRequest("DELETE", "/teams/crashers/entries",
		testutil.IdentifierListBody("hacks", "free-hack")), "teamID", "crashers")
	rec := httptest.NewRecorder()
	f.handler.RemoveEntries(rec, req)

	if got := badRequestDetail(t, rec); got != "One or more of the specified hacks are not entries of this team" {
		t.Errorf("detail: got %q", got)
	}
}

func TestDelete(t *testing.T) {
	f := newFixture()
	f.teams.AddTeam("crashers", "The Crashers", nil)

	req := testutil.WithChiURLParam(httptest.NewRequest("DELETE", "/teams/crashers", nil), "teamID", "crashers")
	rec := httptest.NewRecorder()
	f.handler.Delete(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want 204", rec.Code)
	}
	if len(f.teams.Teams) != 0 {
		t.Error("team was not removed")
	}
}
