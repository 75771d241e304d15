package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/studydesk/internal/db/memorystorage"
	"github.com/patric-chuzhbe/studydesk/internal/db/storage"
	"github.com/patric-chuzhbe/studydesk/internal/mockstorage"
	"github.com/patric-chuzhbe/studydesk/internal/models"
	"github.com/patric-chuzhbe/studydesk/internal/spotify"
)

var fixedNow = time.Date(2024, time.May, 1, 12, 0, 0, 0, time.Local)

func newTestService(t *testing.T) (*Service, *memorystorage.MemoryStorage) {
	t.Helper()
	db, err := memorystorage.New()
	require.NoError(t, err)

	counter := 0
	var mu sync.Mutex
	svc := New(
		db,
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string {
			mu.Lock()
			defer mu.Unlock()
			counter++
			return fmt.Sprintf("id-%d", counter)
		}),
		WithQuoteSelector(func(int) int { return 0 }),
	)

	return svc, db
}

func TestSignupAndLogin(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Signup(ctx, " alice ", "secret"))
	assert.ErrorIs(t, svc.Signup(ctx, "alice", "other"), ErrUserExists)

	assert.NoError(t, svc.Login(ctx, "alice", "secret"))
	assert.ErrorIs(t, svc.Login(ctx, "alice", "wrong"), ErrInvalidCredentials)
	assert.ErrorIs(t, svc.Login(ctx, "nobody", "secret"), ErrInvalidCredentials)

	users, err := storage.Load(ctx, db, usersDocument, []models.User{})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.NotEqual(t, "secret", users[0].Password)
}

func TestSignupRejectsOverlongPassword(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Signup(context.Background(), "alice", strings.Repeat("é", 40))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestLoginAcceptsLegacyPlaintext(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	require.NoError(t, db.Write(ctx, usersDocument, []byte(`[{"username": "bob", "password": "hunter2"}]`)))

	assert.NoError(t, svc.Login(ctx, "bob", "hunter2"))
	assert.ErrorIs(t, svc.Login(ctx, "bob", "hunter3"), ErrInvalidCredentials)
}

func TestReminders(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddReminder(ctx, "alice", "exam", "2024-05-02", "09:00")
	require.NoError(t, err)
	_, err = svc.AddReminder(ctx, "alice", "lab", "", "")
	require.NoError(t, err)
	_, err = svc.AddReminder(ctx, "alice", "exam", "", "")
	require.NoError(t, err)
	_, err = svc.AddReminder(ctx, "bob", "exam", "", "")
	require.NoError(t, err)

	reminders, err := svc.Reminders(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []models.Reminder{
		{ID: "id-1", Title: "exam", Date: "2024-05-02", Time: "09:00"},
		{ID: "id-2", Title: "lab"},
		{ID: "id-3", Title: "exam"},
	}, reminders)

	removed, err := svc.DeleteReminder(ctx, "alice", "exam")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	reminders, err = svc.Reminders(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []models.Reminder{{ID: "id-2", Title: "lab"}}, reminders)

	bobs, err := svc.Reminders(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, bobs, 1)

	assert.ErrorIs(t, svc.DeleteReminderByID(ctx, "alice", "id-404"), ErrNotFound)
	require.NoError(t, svc.DeleteReminderByID(ctx, "alice", "id-2"))

	reminders, err = svc.Reminders(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, reminders)
}

func TestRemindersMigrateLegacyEntries(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	stored := []byte(`{"alice": ["old style", {"title": "new", "date": "", "time": ""}]}`)
	require.NoError(t, db.Write(ctx, remindersDocument, stored))

	reminders, err := svc.Reminders(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, reminders, 2)
	assert.Equal(t, "old style", reminders[0].Title)
	assert.Equal(t, "new", reminders[1].Title)
	assert.NotEmpty(t, reminders[0].ID)
	assert.NotEqual(t, reminders[0].ID, reminders[1].ID)

	again, err := svc.Reminders(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, reminders, again, "ids are stable across reads")

	raw, err := db.Read(ctx, remindersDocument)
	require.NoError(t, err)
	assert.Equal(t, stored, raw, "reading does not rewrite the document")

	require.NoError(t, svc.DeleteReminderByID(ctx, "alice", reminders[0].ID))
	left, err := svc.Reminders(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []models.Reminder{reminders[1]}, left, "the id shown on read is the one persisted")
}

func TestReadsDoNotWrite(t *testing.T) {
	db := &mockstorage.StorageMock{}
	svc := New(db, WithClock(func() time.Time { return fixedNow }))
	ctx := context.Background()

	db.On("Read", mock.Anything, remindersDocument).
		Return([]byte(`{"alice": ["legacy"]}`), nil)
	db.On("Read", mock.Anything, assignmentsDocument).
		Return([]byte(`{"alice": [{"subject": "Math"}]}`), nil)
	db.On("Read", mock.Anything, notesDocument("alice")).
		Return([]byte(`[{"title": "n", "content": "", "date": "2024-01-01"}]`), nil)

	feed, err := svc.Notifications(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, feed, 2)

	notes, err := svc.Notes(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.NotEmpty(t, notes[0].ID)

	db.AssertNotCalled(t, "Write", mock.Anything, mock.Anything, mock.Anything)
}

func TestMalformedEntriesSurviveOtherUsersWrites(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	require.NoError(t, db.Write(ctx, assignmentsDocument, []byte(`{
		"alice": [{"subject": "Math", "completed": "yes", "due_date": 20240501}],
		"carol": [{"subject": "Art"}],
		"dave": "not a list"
	}`)))

	_, err := svc.AddAssignment(ctx, "bob", "History", "", "")
	require.NoError(t, err)

	var stored map[string]json.RawMessage
	raw, err := db.Read(ctx, assignmentsDocument)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &stored))
	assert.Contains(t, stored, "alice")
	assert.Contains(t, stored, "carol")
	assert.Contains(t, stored, "bob")
	assert.JSONEq(t, `"not a list"`, string(stored["dave"]))

	alices, err := svc.Assignments(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, alices, 1)
	assert.Equal(t, "Math", alices[0].Subject)
	assert.Equal(t, "20240501", alices[0].DueDate)
	assert.True(t, alices[0].Completed)

	carols, err := svc.Assignments(ctx, "carol")
	require.NoError(t, err)
	require.Len(t, carols, 1)
	assert.Equal(t, "Art", carols[0].Subject)

	daves, err := svc.Assignments(ctx, "dave")
	require.NoError(t, err)
	assert.Empty(t, daves)
}

func TestAssignments(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	for _, subject := range []string{"Math", "Mathematics", "Math"} {
		_, err := svc.AddAssignment(ctx, "alice", subject, "2024-05-10", "exercises")
		require.NoError(t, err)
	}

	require.NoError(t, svc.UpdateAssignmentCompletion(ctx, "alice", "Math", true))
	require.NoError(t, svc.UpdateAssignmentCompletion(ctx, "alice", "Physics", true))

	assignments, err := svc.Assignments(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, assignments, 3)
	assert.True(t, assignments[0].Completed)
	assert.False(t, assignments[1].Completed)
	assert.False(t, assignments[2].Completed, "only the first match is updated")

	removed, err := svc.DeleteAssignment(ctx, "alice", "Math")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	assignments, err = svc.Assignments(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, "Mathematics", assignments[0].Subject)

	require.NoError(t, svc.UpdateAssignmentCompletionByID(ctx, "alice", assignments[0].ID, true))
	assert.ErrorIs(t, svc.UpdateAssignmentCompletionByID(ctx, "alice", "nope", true), ErrNotFound)
	assert.ErrorIs(t, svc.DeleteAssignmentByID(ctx, "alice", "nope"), ErrNotFound)
	require.NoError(t, svc.DeleteAssignmentByID(ctx, "alice", assignments[0].ID))

	require.NoError(t, db.Write(ctx, assignmentsDocument, []byte(`{"bob": ["legacy", {"subject": "Art"}]}`)))
	bobs, err := svc.Assignments(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, bobs, 1)
	assert.Equal(t, "Art", bobs[0].Subject)
}

func TestNotes(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SaveNote(ctx, "alice", models.Note{Title: "first", Content: "a", Date: "2024-01-01"}, nil)
	require.NoError(t, err)
	second, err := svc.SaveNote(ctx, "alice", models.Note{Title: "second", Content: "b"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", second.Date)

	_, err = svc.SaveNote(ctx, "alice", models.Note{Content: "no title"}, nil)
	assert.ErrorIs(t, err, ErrTitleRequired)

	index := 0
	_, err = svc.SaveNote(ctx, "alice", models.Note{Title: "replaced", Content: "c", Date: "2024-02-02"}, &index)
	require.NoError(t, err)

	notes, err := svc.Notes(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []models.Note{
		{ID: "id-1", Title: "replaced", Content: "c", Date: "2024-02-02"},
		{ID: "id-2", Title: "second", Content: "b", Date: "2024-05-01"},
	}, notes)

	index = 5
	_, err = svc.SaveNote(ctx, "alice", models.Note{Title: "x"}, &index)
	assert.ErrorIs(t, err, ErrInvalidIndex)

	assert.ErrorIs(t, svc.DeleteNote(ctx, "alice", 2), ErrInvalidIndex)
	assert.ErrorIs(t, svc.DeleteNote(ctx, "alice", -1), ErrInvalidIndex)
	require.NoError(t, svc.DeleteNote(ctx, "alice", 0))

	notes, err = svc.Notes(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "second", notes[0].Title)

	others, err := svc.Notes(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestTimetableSubjectsSpotify(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	timetable, err := svc.Timetable(ctx, "alice")
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(timetable))

	require.NoError(t, svc.SaveTimetable(ctx, "alice", json.RawMessage(`{"mon": ["Math", "Art"]}`)))
	timetable, err = svc.Timetable(ctx, "alice")
	require.NoError(t, err)
	assert.JSONEq(t, `{"mon": ["Math", "Art"]}`, string(timetable))

	subjects, err := svc.Subjects(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{}, subjects)

	require.NoError(t, svc.SaveSubjects(ctx, "alice", []string{"Math", "Art"}))
	subjects, err = svc.Subjects(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"Math", "Art"}, subjects)

	url, err := svc.SpotifyURL(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, spotify.DefaultEmbedURL, url)

	url, err = svc.SaveSpotifyURL(ctx, "alice", "https://open.spotify.com/album/xyz9")
	require.NoError(t, err)
	assert.Equal(t, "https://open.spotify.com/embed/album/xyz9", url)

	url, err = svc.SpotifyURL(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "https://open.spotify.com/embed/album/xyz9", url)
}

func TestBookmarks(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	position, err := svc.Bookmark(ctx, "alice", "book.pdf")
	require.NoError(t, err)
	assert.Zero(t, position)

	require.NoError(t, svc.SaveBookmarks(ctx, map[string]map[string]float64{
		"alice": {"book.pdf": 12, "other.pdf": 3},
	}))
	require.NoError(t, svc.SaveBookmarks(ctx, map[string]map[string]float64{
		"alice": {"book.pdf": 14},
	}))

	position, err = svc.Bookmark(ctx, "alice", "book.pdf")
	require.NoError(t, err)
	assert.Equal(t, 14.0, position)

	position, err = svc.Bookmark(ctx, "alice", "other.pdf")
	require.NoError(t, err)
	assert.Equal(t, 3.0, position)
}

func TestNotificationsAndDashboard(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddAssignment(ctx, "alice", "Math", "2024-05-03", "")
	require.NoError(t, err)
	_, err = svc.AddReminder(ctx, "alice", "future", "2024-05-01", "12:30")
	require.NoError(t, err)
	_, err = svc.AddReminder(ctx, "alice", "due", "2024-05-01", "11:59")
	require.NoError(t, err)

	feed, err := svc.Notifications(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []models.Notification{
		{Type: "assignment", Text: "Assignment: Math (Due 2024-05-03)", Link: "/assignments"},
		{Type: "reminder", Text: "Reminder: due", Link: "/reminders"},
	}, feed)

	dashboard, err := svc.Dashboard(ctx, "alice", nil)
	require.NoError(t, err)
	assert.Equal(t, models.Dashboard{
		Username:   "alice",
		Reminders:  []string{"future", "due"},
		Files:      []string{},
		SpotifyURL: spotify.DefaultEmbedURL,
		DailyQuote: dailyQuotes[0],
	}, dashboard)

	stats, err := svc.InternalStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.InternalStatsResponse{Users: 0, Reminders: 2, Assignments: 1}, stats)
}

func TestConcurrentAddsAreNotLost(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.AddReminder(ctx, "alice", fmt.Sprintf("r%d", i), "", "")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	reminders, err := svc.Reminders(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, reminders, 20)
}

func TestStorageErrorsPropagate(t *testing.T) {
	db := &mockstorage.StorageMock{}
	svc := New(db)
	ctx := context.Background()
	failure := errors.New("disk on fire")

	db.On("Read", mock.Anything, remindersDocument).Return(nil, storage.ErrDocumentNotFound)
	db.On("Write", mock.Anything, remindersDocument, mock.Anything).Return(failure)

	_, err := svc.AddReminder(ctx, "alice", "exam", "", "")
	assert.ErrorIs(t, err, failure)

	db.On("Read", mock.Anything, assignmentsDocument).Return(nil, failure)
	_, err = svc.Assignments(ctx, "alice")
	assert.ErrorIs(t, err, failure)

	db.AssertExpectations(t)
}
