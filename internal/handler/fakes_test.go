package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/Ali34f/VideoTranscriber/internal/model"
	"github.com/Ali34f/VideoTranscriber/internal/repository"
	"github.com/Ali34f/VideoTranscriber/internal/transcriber"
)

// In-memory stores backing the handler tests. They mirror the repository
// and session store semantics closely enough that the handlers cannot
// tell the difference.

type fakeUserStore struct {
	nextID int64
	users  map[int64]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*model.User)}
}

func (s *fakeUserStore) CreateUser(_ context.Context, username, email, passwordHash string) (*model.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return nil, repository.ErrUsernameExists
		}
		if u.Email == email {
			return nil, repository.ErrEmailExists
		}
	}
	s.nextID++
	u := &model.User{
		ID:           s.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	s.users[u.ID] = u
	return u, nil
}

func (s *fakeUserStore) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return u, nil
}

func (s *fakeUserStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

type fakeSessionStore struct {
	nextToken int
	sessions  map[string]*model.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*model.Session)}
}

func (s *fakeSessionStore) CreateSession(_ context.Context, sess *model.Session) (string, error) {
	s.nextToken++
	token := fmt.Sprintf("token-%d", s.nextToken)
	s.sessions[token] = sess
	return token, nil
}

func (s *fakeSessionStore) GetSession(_ context.Context, token string) (*model.Session, error) {
	return s.sessions[token], nil
}

func (s *fakeSessionStore) DeleteSession(_ context.Context, token string) error {
	delete(s.sessions, token)
	return nil
}

type fakeTranscriptionStore struct {
	nextID  int64
	records []*model.Transcription
}

func (s *fakeTranscriptionStore) CreateTranscription(_ context.Context, t *model.Transcription) (int64, error) {
	s.nextID++
	rec := *t
	rec.ID = s.nextID
	rec.CreatedAt = time.Now().UTC()
	s.records = append(s.records, &rec)
	return rec.ID, nil
}

func (s *fakeTranscriptionStore) ListTranscriptionsByUser(_ context.Context, userID int64, limit int) ([]*model.TranscriptionSummary, error) {
	var out []*model.TranscriptionSummary
	for _, rec := range s.records {
		if rec.UserID != userID {
			continue
		}
		out = append(out, &model.TranscriptionSummary{
			ID:         rec.ID,
			Filename:   rec.Filename,
			Transcript: rec.Transcript,
			Language:   rec.Language,
			CreatedAt:  rec.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeTranscriptionStore) GetTranscriptionForUser(_ context.Context, userID, id int64) (*model.Transcription, error) {
	for _, rec := range s.records {
		if rec.ID == id && rec.UserID == userID {
			return rec, nil
		}
	}
	return nil, repository.ErrTranscriptionNotFound
}

func (s *fakeTranscriptionStore) CountTranscriptionsByUser(_ context.Context, userID int64) (int64, error) {
	var n int64
	for _, rec := range s.records {
		if rec.UserID == userID {
			n++
		}
	}
	return n, nil
}

// fakeEngine returns a canned result, or fails when err is set.
type fakeEngine struct {
	result *transcriber.Result
	err    error
	calls  int
}

func (e *fakeEngine) Transcribe(_ context.Context, _ string) (*transcriber.Result, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	if e.result != nil {
		return e.result, nil
	}
	return &transcriber.Result{Text: "hello world", Language: "en"}, nil
}

var errEngineDown = errors.New("model unavailable")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
