package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Astemirdum/room-reservation/pkg/auth"
	"github.com/Astemirdum/room-reservation/pkg/kafka"
	"github.com/Astemirdum/room-reservation/reservation/internal/errs"
	"github.com/Astemirdum/room-reservation/reservation/internal/model"
	"github.com/Astemirdum/room-reservation/reservation/internal/service"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const userID = int64(1)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr[T any](v T) *T { return &v }

type fixture struct {
	svc       *service.Service
	repo      *memRepo
	cache     *mapCache
	publisher *recordingPublisher
}

func newFixture(t *testing.T, rooms ...model.Room) fixture {
	t.Helper()
	repo := newMemRepo(rooms...)
	c := newMapCache()
	p := &recordingPublisher{}
	tm := auth.NewTokenManager("secret", time.Minute, time.Hour)
	svc := service.NewService(repo, tm, bcrypt.MinCost, zap.NewNop(),
		service.WithCache(c),
		service.WithPublisher(p),
	)
	return fixture{svc: svc, repo: repo, cache: c, publisher: p}
}

func book(room int, begin, end string) model.CreateReservation {
	return model.CreateReservation{
		RoomNumber: room,
		UserID:     userID,
		DateBegin:  day(begin),
		DateEnd:    day(end),
	}
}

func requireFields(t *testing.T, err error, fields ...string) *errs.ValidationError {
	t.Helper()
	vErr, ok := errs.IsValidation(err)
	require.True(t, ok, "want validation error, got %v", err)
	for _, f := range fields {
		require.Contains(t, vErr.Fields, f)
	}
	return vErr
}

func TestService_CreateReservation(t *testing.T) {
	t.Parallel()
	f := newFixture(t, model.Room{Number: 1, Price: 100, Capacity: 2})
	ctx := context.Background()

	a, err := f.svc.CreateReservation(ctx, book(1, "2024-01-01", "2024-01-05"))
	require.NoError(t, err)
	require.Equal(t, 400.0, a.FullPrice)
	require.Equal(t, model.StatusOrdered, a.Status)
	require.NotZero(t, a.ID)

	_, err = f.svc.CreateReservation(ctx, book(1, "2024-01-04", "2024-01-06"))
	vErr := requireFields(t, err, "date_begin", "date_end")
	require.Equal(t, errs.MsgOverlap, vErr.Fields["date_begin"])

	c, err := f.svc.CreateReservation(ctx, book(1, "2024-01-05", "2024-01-08"))
	require.NoError(t, err)
	require.Equal(t, 300.0, c.FullPrice)

	require.Equal(t, []kafka.EventType{kafka.EventReservationCreated, kafka.EventReservationCreated}, f.publisher.Events())
	require.Equal(t, 2, f.cache.invalidated)
}

func TestService_CreateReservation_Validation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		req    model.CreateReservation
		fields []string
		msg    string
	}{
		{
			name:   "equal dates",
			req:    book(1, "2024-01-01", "2024-01-01"),
			fields: []string{"date_begin", "date_end"},
			msg:    errs.MsgDateOrder,
		},
		{
			name:   "inverted dates",
			req:    book(1, "2024-01-05", "2024-01-01"),
			fields: []string{"date_begin", "date_end"},
			msg:    errs.MsgDateOrder,
		},
		{
			name:   "unknown room",
			req:    book(99, "2024-01-01", "2024-01-02"),
			fields: []string{"room"},
			msg:    errs.MsgNoSuchRoom,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, model.Room{Number: 1, Price: 100, Capacity: 2})
			_, err := f.svc.CreateReservation(context.Background(), tt.req)
			vErr := requireFields(t, err, tt.fields...)
			require.Equal(t, tt.msg, vErr.Fields[tt.fields[0]])
			require.Empty(t, f.publisher.Events())
		})
	}
}

func TestService_CreateReservation_OtherRoomDoesNotConflict(t *testing.T) {
	t.Parallel()
	f := newFixture(t,
		model.Room{Number: 1, Price: 100, Capacity: 2},
		model.Room{Number: 2, Price: 50, Capacity: 1},
	)
	ctx := context.Background()
	_, err := f.svc.CreateReservation(ctx, book(1, "2024-01-01", "2024-01-05"))
	require.NoError(t, err)
	b, err := f.svc.CreateReservation(ctx, book(2, "2024-01-01", "2024-01-05"))
	require.NoError(t, err)
	require.Equal(t, 200.0, b.FullPrice)
}

func TestService_CreateReservation_Concurrent(t *testing.T) {
	t.Parallel()
	f := newFixture(t, model.Room{Number: 1, Price: 100, Capacity: 2})
	ctx := context.Background()

	const n = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.CreateReservation(ctx, book(1, "2024-02-01", "2024-02-03")); err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, success)
}

func TestService_CancelReservation(t *testing.T) {
	t.Parallel()
	f := newFixture(t, model.Room{Number: 1, Price: 100, Capacity: 2})
	ctx := context.Background()

	a, err := f.svc.CreateReservation(ctx, book(1, "2024-01-01", "2024-01-05"))
	require.NoError(t, err)

	_, err = f.svc.CancelReservation(ctx, userID+1, a.ID)
	require.ErrorIs(t, err, errs.ErrPermissionDenied)

	_, err = f.svc.CancelReservation(ctx, userID, a.ID+100)
	require.ErrorIs(t, err, errs.ErrNotFound)

	cancelled, err := f.svc.CancelReservation(ctx, userID, a.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusCancelled, cancelled.Status)

	again, err := f.svc.CancelReservation(ctx, userID, a.ID)
	require.NoError(t, err)
	require.Equal(t, cancelled, again)

	rebooked, err := f.svc.CreateReservation(ctx, book(1, "2024-01-01", "2024-01-05"))
	require.NoError(t, err)
	require.Equal(t, model.StatusOrdered, rebooked.Status)

	require.Equal(t, []kafka.EventType{
		kafka.EventReservationCreated,
		kafka.EventReservationCancelled,
		kafka.EventReservationCreated,
	}, f.publisher.Events())
}

func TestService_CancelReservation_Completed(t *testing.T) {
	t.Parallel()
	f := newFixture(t, model.Room{Number: 1, Price: 100, Capacity: 2})
	ctx := context.Background()

	a, err := f.svc.CreateReservation(ctx, book(1, "2024-01-01", "2024-01-05"))
	require.NoError(t, err)
	n, err := f.svc.CompleteFinished(ctx, day("2024-01-05"))
	require.NoError(t, err)
	require.Equal(t, 1, n)

	_, err = f.svc.CancelReservation(ctx, userID, a.ID)
	requireFields(t, err, "status")
}

func TestService_GetReservation(t *testing.T) {
	t.Parallel()
	f := newFixture(t, model.Room{Number: 1, Price: 100, Capacity: 2})
	ctx := context.Background()
	a, err := f.svc.CreateReservation(ctx, book(1, "2024-01-01", "2024-01-05"))
	require.NoError(t, err)

	got, err := f.svc.GetReservation(ctx, userID, a.ID)
	require.NoError(t, err)
	require.Equal(t, a, got)

	_, err = f.svc.GetReservation(ctx, userID+1, a.ID)
	require.ErrorIs(t, err, errs.ErrPermissionDenied)

	_, err = f.svc.GetReservation(ctx, userID, 1000)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestService_ListReservations(t *testing.T) {
	t.Parallel()
	f := newFixture(t,
		model.Room{Number: 1, Price: 100, Capacity: 2},
		model.Room{Number: 2, Price: 100, Capacity: 2},
	)
	ctx := context.Background()
	_, err := f.svc.CreateReservation(ctx, book(1, "2024-01-01", "2024-01-05"))
	require.NoError(t, err)
	_, err = f.svc.CreateReservation(ctx, book(1, "2024-03-01", "2024-03-02"))
	require.NoError(t, err)
	_, err = f.svc.CreateReservation(ctx, book(2, "2024-03-01", "2024-03-05"))
	require.NoError(t, err)

	list, err := f.svc.ListReservations(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, day("2024-03-05"), list[0].DateEnd)
	require.Equal(t, day("2024-03-02"), list[1].DateEnd)
	require.Equal(t, day("2024-01-01"), list[2].DateBegin)

	other, err := f.svc.ListReservations(ctx, userID+1)
	require.NoError(t, err)
	require.Empty(t, other)
}

func TestService_ListAvailableRooms(t *testing.T) {
	t.Parallel()
	rooms := []model.Room{
		{Number: 1, Price: 100, Capacity: 2},
		{Number: 2, Price: 150, Capacity: 3},
		{Number: 3, Price: 80, Capacity: 1},
	}
	f := newFixture(t, rooms...)
	ctx := context.Background()
	_, err := f.svc.CreateReservation(ctx, book(1, "2024-01-01", "2024-01-05"))
	require.NoError(t, err)
	cancelled, err := f.svc.CreateReservation(ctx, book(3, "2024-01-01", "2024-01-05"))
	require.NoError(t, err)
	_, err = f.svc.CancelReservation(ctx, userID, cancelled.ID)
	require.NoError(t, err)

	tests := []struct {
		name   string
		filter model.RoomFilter
		want   []int
	}{
		{
			name:   "no window",
			filter: model.RoomFilter{},
			want:   []int{1, 2, 3},
		},
		{
			name:   "exact range",
			filter: model.RoomFilter{Begin: ptr(day("2024-01-01")), End: ptr(day("2024-01-05"))},
			want:   []int{2, 3},
		},
		{
			name:   "back to back",
			filter: model.RoomFilter{Begin: ptr(day("2024-01-05")), End: ptr(day("2024-01-07"))},
			want:   []int{1, 2, 3},
		},
		{
			name:   "after begin",
			filter: model.RoomFilter{Begin: ptr(day("2023-12-01"))},
			want:   []int{2, 3},
		},
		{
			name:   "price filter and window",
			filter: model.RoomFilter{Price: model.NumberFilter{Lte: ptr(120.0)}, End: ptr(day("2024-01-02"))},
			want:   []int{3},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := f.svc.ListAvailableRooms(ctx, tt.filter)
			require.NoError(t, err)
			numbers := make([]int, 0, len(got))
			for _, r := range got {
				numbers = append(numbers, r.Number)
			}
			require.Equal(t, tt.want, numbers)
		})
	}
}

func TestService_ListAvailableRooms_Cache(t *testing.T) {
	t.Parallel()
	f := newFixture(t, model.Room{Number: 1, Price: 100, Capacity: 2})
	ctx := context.Background()
	filter := model.RoomFilter{Begin: ptr(day("2024-01-01")), End: ptr(day("2024-01-05"))}

	got, err := f.svc.ListAvailableRooms(ctx, filter)
	require.NoError(t, err)
	require.Len(t, got, 1)
	cached, _, ok := f.cache.Get(ctx, filter.Key())
	require.True(t, ok)
	require.Equal(t, got, cached)

	_, err = f.svc.CreateReservation(ctx, book(1, "2024-01-02", "2024-01-03"))
	require.NoError(t, err)

	got, err = f.svc.ListAvailableRooms(ctx, filter)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestService_ListAvailableRooms_RoomCreatedDuringListing(t *testing.T) {
	t.Parallel()
	f := newFixture(t, model.Room{Number: 1, Price: 100, Capacity: 2})
	ctx := context.Background()

	f.cache.beforeSet = func() {
		_, err := f.svc.CreateRoom(ctx, model.Room{Number: 2, Price: 200, Capacity: 3})
		require.NoError(t, err)
	}
	got, err := f.svc.ListAvailableRooms(ctx, model.RoomFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = f.svc.ListAvailableRooms(ctx, model.RoomFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestService_CreateRoom(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateRoom(ctx, model.Room{Number: 1, Price: -1, Capacity: 1})
	vErr := requireFields(t, err, "price")
	require.Equal(t, errs.MsgNegative, vErr.Fields["price"])

	room, err := f.svc.CreateRoom(ctx, model.Room{Number: 1, Price: 0, Capacity: 1})
	require.NoError(t, err)
	require.Equal(t, 1, room.Number)

	_, err = f.svc.CreateRoom(ctx, model.Room{Number: 1, Price: 10, Capacity: 1})
	requireFields(t, err, "number")

	got, err := f.svc.GetRoom(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, room, got)
	_, err = f.svc.GetRoom(ctx, 2)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestService_CompleteFinished(t *testing.T) {
	t.Parallel()
	f := newFixture(t, model.Room{Number: 1, Price: 100, Capacity: 2})
	ctx := context.Background()
	a, err := f.svc.CreateReservation(ctx, book(1, "2024-01-01", "2024-01-05"))
	require.NoError(t, err)
	b, err := f.svc.CreateReservation(ctx, book(1, "2024-01-05", "2024-01-08"))
	require.NoError(t, err)

	n, err := f.svc.CompleteFinished(ctx, day("2024-01-05").Add(13*time.Hour))
	require.NoError(t, err)
	require.Equal(t, 1, n)

	got, err := f.svc.GetReservation(ctx, userID, a.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusCompleted, got.Status)
	got, err = f.svc.GetReservation(ctx, userID, b.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusOrdered, got.Status)

	require.Contains(t, f.publisher.Events(), kafka.EventReservationCompleted)
}

func TestService_RunCompleter(t *testing.T) {
	t.Parallel()
	repo := newMemRepo(model.Room{Number: 1, Price: 100, Capacity: 2})
	svc := service.NewService(repo, auth.NewTokenManager("secret", time.Minute, time.Hour), bcrypt.MinCost, zap.NewNop(),
		service.WithClock(func() time.Time { return day("2030-01-01") }))
	ctx, cancel := context.WithCancel(context.Background())

	a, err := svc.CreateReservation(ctx, book(1, "2024-01-01", "2024-01-05"))
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		svc.RunCompleter(ctx, time.Hour)
		close(done)
	}()
	require.Eventually(t, func() bool {
		got, err := svc.GetReservation(ctx, userID, a.ID)
		return err == nil && got.Status == model.StatusCompleted
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestService_Users(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.svc.CreateUser(ctx, model.CreateUser{Username: "alice", Email: "a@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-pass", u.PasswordHash)

	got, err := f.svc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", got.Username)
	_, err = f.svc.GetUser(ctx, u.ID+100)
	require.ErrorIs(t, err, errs.ErrNotFound)

	_, err = f.svc.CreateUser(ctx, model.CreateUser{Username: "alice", Password: "other"})
	requireFields(t, err, "username")

	_, err = f.svc.ObtainToken(ctx, "alice", "wrong")
	require.ErrorIs(t, err, errs.ErrInvalidCredentials)
	_, err = f.svc.ObtainToken(ctx, "bob", "s3cret-pass")
	require.ErrorIs(t, err, errs.ErrInvalidCredentials)

	pair, err := f.svc.ObtainToken(ctx, "alice", "s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)

	access, err := f.svc.RefreshToken(ctx, pair.Refresh)
	require.NoError(t, err)
	require.NotEmpty(t, access)

	_, err = f.svc.RefreshToken(ctx, pair.Access)
	require.ErrorIs(t, err, errs.ErrInvalidCredentials)
}

func TestService_InitAdmin(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.InitAdmin(ctx, "admin", "admin@example.com", "admin-pass")
	require.NoError(t, err)
	require.True(t, created)

	u, err := f.repo.GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	require.True(t, u.IsAdmin)

	created, err = f.svc.InitAdmin(ctx, "admin2", "", "admin-pass")
	require.NoError(t, err)
	require.False(t, created)
}
