// Package session keeps per-user screening history in memory.
package session

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "screening/internal/errors"
	"screening/internal/features"
	"screening/internal/predict"
)

// Profile is optional information a user shares before screening.
type Profile struct {
	DisplayName string `json:"display_name,omitempty"`
	Age         int    `json:"age,omitempty" binding:"omitempty,min=0,max=120"`
	Gender      *int   `json:"gender,omitempty" binding:"omitempty,oneof=0 1"`
}

type Record struct {
	At         time.Time          `json:"at"`
	Answers    features.Answers   `json:"answers"`
	Prediction predict.Prediction `json:"prediction"`
}

type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Profile   Profile   `json:"profile"`
	Records   []Record  `json:"records"`
}

// Report summarizes a session for export.
type Report struct {
	Session
	Screenings   int       `json:"screenings"`
	Higher       int       `json:"higher_likelihood"`
	MeanPositive float64   `json:"mean_positive_probability"`
	LatestLabel  *int      `json:"latest_label,omitempty"`
	LatestRisk   string    `json:"latest_risk,omitempty"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// Store is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session), now: time.Now}
}

func (s *Store) Create(p Profile) Session {
	sess := &Session{ID: uuid.NewString(), CreatedAt: s.now().UTC(), Profile: p}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return clone(sess)
}

func (s *Store) Get(id string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, apperrors.NewNotFoundError("session", id)
	}
	return clone(sess), nil
}

// Record appends a screening to the session and returns the stored record.
func (s *Store) Record(id string, a features.Answers, pr predict.Prediction) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Record{}, apperrors.NewNotFoundError("session", id)
	}
	rec := Record{At: s.now().UTC(), Answers: a, Prediction: pr}
	sess.Records = append(sess.Records, rec)
	return rec, nil
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return apperrors.NewNotFoundError("session", id)
	}
	delete(s.sessions, id)
	return nil
}

// List returns all sessions, oldest first.
func (s *Store) List() []Session {
	s.mu.RLock()
	out := make([]Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, clone(sess))
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (s *Store) Report(id string) (Report, error) {
	sess, err := s.Get(id)
	if err != nil {
		return Report{}, err
	}
	r := Report{Session: sess, Screenings: len(sess.Records), GeneratedAt: s.now().UTC()}
	if r.Screenings == 0 {
		return r, nil
	}
	var sum float64
	for _, rec := range sess.Records {
		sum += rec.Prediction.Probabilities[1]
		if rec.Prediction.Label == 1 {
			r.Higher++
		}
	}
	r.MeanPositive = sum / float64(r.Screenings)
	last := sess.Records[len(sess.Records)-1].Prediction
	label := last.Label
	r.LatestLabel = &label
	r.LatestRisk = last.Risk
	return r, nil
}

func clone(s *Session) Session {
	out := *s
	out.Records = append([]Record(nil), s.Records...)
	if s.Profile.Gender != nil {
		g := *s.Profile.Gender
		out.Profile.Gender = &g
	}
	return out
}
