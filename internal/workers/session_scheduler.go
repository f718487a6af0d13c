package workers

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"mendpath/internal/repositories"
)

// SessionScheduler flips group sessions through their lifecycle on a
// timer: scheduled sessions whose start time has passed become active,
// active sessions whose end time has passed become completed. Clients
// never drive these transitions.
type SessionScheduler struct {
	sessionRepo repositories.SessionRepository
	spec        string
	cron        *cron.Cron
}

func NewSessionScheduler(sessionRepo repositories.SessionRepository, spec string) *SessionScheduler {
	return &SessionScheduler{
		sessionRepo: sessionRepo,
		spec:        spec,
		cron:        cron.New(),
	}
}

func (s *SessionScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.tick); err != nil {
		return err
	}
	s.cron.Start()
	log.Info().Str("spec", s.spec).Msg("session scheduler started")
	return nil
}

// Stop halts the ticker and waits for an in-flight tick to finish.
func (s *SessionScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info().Msg("session scheduler stopped")
}

func (s *SessionScheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	changed, err := s.sessionRepo.TransitionDue(ctx, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("session lifecycle sweep failed")
		return
	}
	if changed > 0 {
		log.Info().Int64("sessions", changed).Msg("session lifecycle transitions applied")
	}
}
