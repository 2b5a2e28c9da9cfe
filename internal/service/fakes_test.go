package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Ali34f/VideoTranscriber/internal/model"
	"github.com/Ali34f/VideoTranscriber/internal/repository"
	"github.com/Ali34f/VideoTranscriber/internal/transcriber"
)

// fakeUserStore is an in-memory UserStore.
type fakeUserStore struct {
	users  map[int64]*model.User
	nextID int64
	err    error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*model.User), nextID: 1}
}

func (f *fakeUserStore) CreateUser(_ context.Context, username, email, passwordHash string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Username == username {
			return nil, repository.ErrUsernameExists
		}
		if u.Email == email {
			return nil, repository.ErrEmailExists
		}
	}
	user := &model.User{
		ID:           f.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	f.users[user.ID] = user
	f.nextID++
	return user, nil
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// fakeSessionStore is an in-memory SessionStore issuing sequential tokens.
type fakeSessionStore struct {
	sessions map[string]*model.Session
	counter  int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*model.Session)}
}

func (f *fakeSessionStore) CreateSession(_ context.Context, sess *model.Session) (string, error) {
	f.counter++
	token := fmt.Sprintf("token-%d", f.counter)
	copied := *sess
	f.sessions[token] = &copied
	return token, nil
}

func (f *fakeSessionStore) GetSession(_ context.Context, token string) (*model.Session, error) {
	return f.sessions[token], nil
}

func (f *fakeSessionStore) DeleteSession(_ context.Context, token string) error {
	delete(f.sessions, token)
	return nil
}

// fakeTranscriptionStore is an in-memory TranscriptionStore.
type fakeTranscriptionStore struct {
	records []*model.Transcription
	nextID  int64
	err     error
}

func newFakeTranscriptionStore() *fakeTranscriptionStore {
	return &fakeTranscriptionStore{nextID: 1}
}

func (f *fakeTranscriptionStore) CreateTranscription(_ context.Context, t *model.Transcription) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	t.ID = f.nextID
	t.CreatedAt = time.Now()
	f.nextID++
	copied := *t
	f.records = append(f.records, &copied)
	return t.ID, nil
}

func (f *fakeTranscriptionStore) ListTranscriptionsByUser(_ context.Context, userID int64, limit int) ([]*model.TranscriptionSummary, error) {
	summaries := make([]*model.TranscriptionSummary, 0)
	// newest first
	for i := len(f.records) - 1; i >= 0 && len(summaries) < limit; i-- {
		r := f.records[i]
		if r.UserID != userID {
			continue
		}
		summaries = append(summaries, &model.TranscriptionSummary{
			ID:         r.ID,
			Filename:   r.Filename,
			Transcript: r.Transcript,
			Language:   r.Language,
			CreatedAt:  r.CreatedAt,
		})
	}
	return summaries, nil
}

func (f *fakeTranscriptionStore) GetTranscriptionForUser(_ context.Context, userID, id int64) (*model.Transcription, error) {
	for _, r := range f.records {
		if r.ID == id && r.UserID == userID {
			return r, nil
		}
	}
	return nil, repository.ErrTranscriptionNotFound
}

func (f *fakeTranscriptionStore) CountTranscriptionsByUser(_ context.Context, userID int64) (int64, error) {
	var count int64
	for _, r := range f.records {
		if r.UserID == userID {
			count++
		}
	}
	return count, nil
}

// fakeTranscriber returns a canned result or error.
type fakeTranscriber struct {
	result *transcriber.Result
	err    error
	calls  int
}

func (f *fakeTranscriber) Transcribe(_ context.Context, path string) (*transcriber.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}
