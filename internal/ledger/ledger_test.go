package ledger

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbpkg "github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/db"
	"github.com/patwasanskar32/Kohinoor-Cloth-Gautam-Readymade/internal/qr"
)

// memStore is an in-memory Store for exercising the state machine
// without a database.
type memStore struct {
	nextID  uint
	records map[uint]*dbpkg.AttendanceRecord
	users   map[uint]*dbpkg.User
}

func newMemStore(users ...*dbpkg.User) *memStore {
	s := &memStore{records: map[uint]*dbpkg.AttendanceRecord{}, users: map[uint]*dbpkg.User{}}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *memStore) sortedIDsDesc() []uint {
	ids := make([]uint, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	return ids
}

func (s *memStore) OpenRecord(userID uint) (*dbpkg.AttendanceRecord, error) {
	for _, id := range s.sortedIDsDesc() {
		rec := s.records[id]
		if rec.UserID == userID && rec.CheckIn != nil && rec.CheckOut == nil {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memStore) RecordForDay(userID uint, date string) (*dbpkg.AttendanceRecord, error) {
	for _, id := range s.sortedIDsDesc() {
		rec := s.records[id]
		if rec.UserID == userID && rec.Date == date {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memStore) RecordByID(id uint) (*dbpkg.AttendanceRecord, error) {
	rec, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (s *memStore) InsertRecord(rec *dbpkg.AttendanceRecord) error {
	s.nextID++
	rec.ID = s.nextID
	cp := *rec
	s.records[rec.ID] = &cp
	return nil
}

func (s *memStore) UpdateRecord(rec *dbpkg.AttendanceRecord) error {
	cp := *rec
	s.records[rec.ID] = &cp
	return nil
}

func (s *memStore) DeleteRecord(id uint) error {
	delete(s.records, id)
	return nil
}

func (s *memStore) UserByID(id uint) (*dbpkg.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (s *memStore) openCount(userID uint) int {
	n := 0
	for _, rec := range s.records {
		if rec.UserID == userID && rec.CheckIn != nil && rec.CheckOut == nil {
			n++
		}
	}
	return n
}

var alice = &dbpkg.User{ID: 1, Username: "alice", Role: dbpkg.RoleStaff}

func newTestLedger(t *testing.T, users ...*dbpkg.User) (*Ledger, *memStore) {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	store := newMemStore(users...)
	return New(store, loc), store
}

func TestToggleAlternation(t *testing.T) {
	lg, store := newTestLedger(t, alice)

	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	for i := 1; i <= 6; i++ {
		res, err := lg.Toggle(alice.ID, at)
		require.NoError(t, err)

		if i%2 == 1 {
			assert.Equal(t, ActionCheckedIn, res.Action, "call %d", i)
		} else {
			assert.Equal(t, ActionCheckedOut, res.Action, "call %d", i)
		}
		assert.LessOrEqual(t, store.openCount(alice.ID), 1, "at most one open record after call %d", i)

		at = at.Add(time.Hour)
	}
}

func TestToggleScenario(t *testing.T) {
	lg, store := newTestLedger(t, alice)

	t1 := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(8 * time.Hour)
	t3 := t2.Add(16 * time.Hour)

	res, err := lg.Toggle(alice.ID, t1)
	require.NoError(t, err)
	assert.Equal(t, ActionCheckedIn, res.Action)
	require.NotNil(t, res.Record.CheckIn)
	assert.True(t, res.Record.CheckIn.Equal(t1))
	assert.Nil(t, res.Record.CheckOut)
	firstID := res.Record.ID

	res, err = lg.Toggle(alice.ID, t2)
	require.NoError(t, err)
	assert.Equal(t, ActionCheckedOut, res.Action)
	assert.Equal(t, firstID, res.Record.ID, "check-out closes the same record")
	require.NotNil(t, res.Record.CheckOut)
	assert.True(t, res.Record.CheckOut.Equal(t2))

	res, err = lg.Toggle(alice.ID, t3)
	require.NoError(t, err)
	assert.Equal(t, ActionCheckedIn, res.Action)
	assert.NotEqual(t, firstID, res.Record.ID, "third toggle opens a new record")

	assert.Len(t, store.records, 2)
}

func TestToggleClosesMostRecentOfSeveralOpen(t *testing.T) {
	lg, store := newTestLedger(t, alice)

	// Two open records should not happen in correct use, but a past
	// race or edit can leave them behind; the toggle must tolerate it.
	early := time.Date(2025, 3, 9, 9, 0, 0, 0, time.UTC)
	late := early.Add(24 * time.Hour)
	require.NoError(t, store.InsertRecord(&dbpkg.AttendanceRecord{UserID: alice.ID, Date: "2025-03-09", CheckIn: &early, Present: true}))
	require.NoError(t, store.InsertRecord(&dbpkg.AttendanceRecord{UserID: alice.ID, Date: "2025-03-10", CheckIn: &late, Present: true}))

	res, err := lg.Toggle(alice.ID, late.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, ActionCheckedOut, res.Action)
	assert.Equal(t, uint(2), res.Record.ID, "most recently created open record is closed")
	assert.Equal(t, 1, store.openCount(alice.ID))
}

func TestToggleDerivesDateInReferenceZone(t *testing.T) {
	lg, _ := newTestLedger(t, alice)

	// 22:00 UTC on March 10 is already March 11 in Asia/Kolkata.
	at := time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC)
	res, err := lg.Toggle(alice.ID, at)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-11", res.Record.Date)
}

func TestToggleByToken(t *testing.T) {
	owner := &dbpkg.User{ID: 2, Username: "boss", Role: dbpkg.RoleOwner}
	lg, store := newTestLedger(t, alice, owner)

	res, err := lg.ToggleByToken(qr.EncodeToken(alice.ID), time.Now())
	require.NoError(t, err)
	assert.Equal(t, ActionCheckedIn, res.Action)

	_, err = lg.ToggleByToken("garbage", time.Now())
	assert.ErrorIs(t, err, qr.ErrInvalidToken)

	_, err = lg.ToggleByToken(qr.EncodeToken(99), time.Now())
	assert.ErrorIs(t, err, ErrUnauthorizedSubject)

	_, err = lg.ToggleByToken(qr.EncodeToken(owner.ID), time.Now())
	assert.ErrorIs(t, err, ErrUnauthorizedSubject)

	// Failed scans never left extra records behind.
	assert.Len(t, store.records, 1)
}

func TestMarkUpsertsSameDay(t *testing.T) {
	lg, store := newTestLedger(t, alice)

	in := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	rec, err := lg.Mark(alice.ID, "2025-03-10", true, &in, nil)
	require.NoError(t, err)

	out := in.Add(8 * time.Hour)
	rec2, err := lg.Mark(alice.ID, "2025-03-10", true, &in, &out)
	require.NoError(t, err)

	assert.Equal(t, rec.ID, rec2.ID, "second mark updates in place")
	assert.Len(t, store.records, 1)
	require.NotNil(t, store.records[rec.ID].CheckOut)
}

func TestMarkExplicitAbsent(t *testing.T) {
	lg, store := newTestLedger(t, alice)

	rec, err := lg.Mark(alice.ID, "2025-03-10", false, nil, nil)
	require.NoError(t, err)

	stored := store.records[rec.ID]
	assert.False(t, stored.Present)
	assert.Nil(t, stored.CheckIn)
	assert.Nil(t, stored.CheckOut)

	// An absent day is a stored row, not merely a missing one.
	assert.Len(t, store.records, 1)
}

func TestMarkUnknownUser(t *testing.T) {
	lg, _ := newTestLedger(t, alice)

	_, err := lg.Mark(42, "2025-03-10", true, nil, nil)
	assert.ErrorIs(t, err, ErrUnauthorizedSubject)
}

func TestEditRejectsInvalidRange(t *testing.T) {
	lg, store := newTestLedger(t, alice)

	in := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	rec, err := lg.Mark(alice.ID, "2025-03-10", true, &in, nil)
	require.NoError(t, err)

	badOut := in.Add(-time.Hour)
	_, err = lg.Edit(rec.ID, &in, &badOut, true)
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	// No mutation happened.
	stored := store.records[rec.ID]
	assert.Nil(t, stored.CheckOut)
	require.NotNil(t, stored.CheckIn)
	assert.True(t, stored.CheckIn.Equal(in))
}

func TestEditOverwritesFields(t *testing.T) {
	lg, store := newTestLedger(t, alice)

	in := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	rec, err := lg.Mark(alice.ID, "2025-03-10", true, &in, nil)
	require.NoError(t, err)

	newIn := in.Add(-time.Hour)
	newOut := in.Add(7 * time.Hour)
	updated, err := lg.Edit(rec.ID, &newIn, &newOut, true)
	require.NoError(t, err)
	assert.True(t, updated.CheckIn.Equal(newIn))
	assert.True(t, updated.CheckOut.Equal(newOut))
	assert.True(t, store.records[rec.ID].CheckOut.Equal(newOut))
}

func TestEditAndDeleteMissingRecord(t *testing.T) {
	lg, _ := newTestLedger(t, alice)

	_, err := lg.Edit(99, nil, nil, false)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	err = lg.Delete(99)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestDelete(t *testing.T) {
	lg, store := newTestLedger(t, alice)

	rec, err := lg.Mark(alice.ID, "2025-03-10", true, nil, nil)
	require.NoError(t, err)

	require.NoError(t, lg.Delete(rec.ID))
	assert.Empty(t, store.records)
}
